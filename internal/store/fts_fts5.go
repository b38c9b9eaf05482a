//go:build sqlite_fts5

package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/shiralev/matkonim/internal/models"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS recipes_fts USING fts5(
			id UNINDEXED,
			title,
			description,
			ingredients,
			instructions,
			cuisine,
			meal_type,
			keywords,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsInsert(tx *sql.Tx, rec *models.Recipe) error {
	_, err := tx.Exec(`
		INSERT INTO recipes_fts (id, title, description, ingredients, instructions, cuisine, meal_type, keywords)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Title, rec.Description,
		strings.Join(rec.Ingredients, "\n"), strings.Join(rec.Instructions, "\n"),
		rec.Cuisine, rec.MealType, strings.Join(rec.Keywords, " "))
	if err != nil {
		return fmt.Errorf("store: insert fts: %w", err)
	}
	return nil
}

func ftsDelete(tx *sql.Tx, id string) {
	_, _ = tx.Exec(`DELETE FROM recipes_fts WHERE id = ?`, id)
}

// Search performs an FTS5 full-text search and returns matching records in
// descending relevance order (FTS5 rank ascends with relevance descending).
func (db *DB) Search(query string) ([]models.Recipe, error) {
	rows, err := db.conn.Query(`
		SELECT r.id, r.title, r.description, r.prep_time, r.cook_time, r.total_time,
		       r.servings, r.cuisine, r.meal_type, r.source_url, r.image_url,
		       r.image_data_b64, r.ingredients, r.instructions, r.keywords, r.added_on
		FROM recipes_fts
		JOIN recipes r ON r.id = recipes_fts.id
		WHERE recipes_fts MATCH ?
		ORDER BY recipes_fts.rank
	`, query)
	if err != nil {
		return nil, fmt.Errorf("store: search: %w", err)
	}
	defer rows.Close()
	return scanRecipes(rows)
}
