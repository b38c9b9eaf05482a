//go:build !sqlite_fts5

package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/shiralev/matkonim/internal/models"
)

func initFTS(_ *sql.DB) error {
	// FTS5 not available; full-text search uses a LIKE fallback over the
	// indexed text columns.
	return nil
}

func ftsInsert(_ *sql.Tx, _ *models.Recipe) error {
	// All searchable text lives in the recipes table; nothing extra to do.
	return nil
}

func ftsDelete(_ *sql.Tx, _ string) {}

// Search performs a LIKE-based search (fallback when FTS5 is not compiled
// in). Every query term must match at least one indexed column. Ranking is
// approximated by the number of terms hitting the title.
func (db *DB) Search(query string) ([]models.Recipe, error) {
	terms := strings.Fields(query)
	if len(terms) == 0 {
		return nil, nil
	}

	var (
		conds []string
		args  []any
		rank  []string
	)
	for _, term := range terms {
		like := "%" + term + "%"
		conds = append(conds, `(title LIKE ? OR description LIKE ? OR ingredients LIKE ?
			OR instructions LIKE ? OR cuisine LIKE ? OR meal_type LIKE ? OR keywords LIKE ?)`)
		for i := 0; i < 7; i++ {
			args = append(args, like)
		}
		rank = append(rank, `(title LIKE ?)`)
	}
	for _, term := range terms {
		args = append(args, "%"+term+"%")
	}

	q := selectColumns + ` FROM recipes WHERE ` + strings.Join(conds, " AND ") +
		` ORDER BY (` + strings.Join(rank, " + ") + `) DESC, added_on DESC`

	rows, err := db.conn.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("store: search: %w", err)
	}
	defer rows.Close()
	return scanRecipes(rows)
}
