package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shiralev/matkonim/internal/models"
)

// Insert normalizes the record, assigns an identifier, stamps added_on, and
// writes the row plus its FTS entry in one transaction. The stored record is
// immutable afterwards except for deletion.
func (db *DB) Insert(rec *models.Recipe) (string, error) {
	rec.Normalize()
	rec.ID = uuid.NewString()
	rec.AddedOn = time.Now().UTC()

	ingredients, _ := json.Marshal(rec.Ingredients)
	instructions, _ := json.Marshal(rec.Instructions)
	keywords, _ := json.Marshal(rec.Keywords)

	tx, err := db.conn.Begin()
	if err != nil {
		return "", fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO recipes (
			id, title, description, prep_time, cook_time, total_time,
			servings, cuisine, meal_type, source_url, image_url,
			image_data_b64, ingredients, instructions, keywords, added_on
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Title, rec.Description, rec.PrepTime, rec.CookTime,
		rec.TotalTime, rec.Servings.String(), rec.Cuisine, rec.MealType,
		rec.SourceURL, rec.ImageURL, rec.ImageDataB64,
		string(ingredients), string(instructions), string(keywords), rec.AddedOn)
	if err != nil {
		return "", fmt.Errorf("store: insert recipe: %w", err)
	}

	if err := ftsInsert(tx, rec); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("store: commit insert: %w", err)
	}
	return rec.ID, nil
}

// ListAll returns every record in the requested order. Unknown sort values
// fall back to newest-first. Ties break in store-native (rowid) order.
func (db *DB) ListAll(sort string) ([]models.Recipe, error) {
	order := "added_on DESC"
	switch sort {
	case SortOldest:
		order = "added_on ASC"
	case SortTitle:
		order = "title COLLATE NOCASE ASC"
	}

	rows, err := db.conn.Query(selectColumns + ` FROM recipes ORDER BY ` + order)
	if err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	defer rows.Close()
	return scanRecipes(rows)
}

// Delete removes the record with the given identifier. A non-existent id is
// not an error; it reports false.
func (db *DB) Delete(id string) (bool, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return false, fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, id)
	res, err := tx.Exec(`DELETE FROM recipes WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("store: delete: %w", err)
	}
	n, _ := res.RowsAffected()

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("store: commit delete: %w", err)
	}
	return n == 1, nil
}

const selectColumns = `
	SELECT id, title, description, prep_time, cook_time, total_time,
	       servings, cuisine, meal_type, source_url, image_url,
	       image_data_b64, ingredients, instructions, keywords, added_on`

func scanRecipes(rows *sql.Rows) ([]models.Recipe, error) {
	var out []models.Recipe
	for rows.Next() {
		var (
			r                                 models.Recipe
			servings                          string
			ingredients, instructions, kwords string
		)
		if err := rows.Scan(&r.ID, &r.Title, &r.Description, &r.PrepTime,
			&r.CookTime, &r.TotalTime, &servings, &r.Cuisine, &r.MealType,
			&r.SourceURL, &r.ImageURL, &r.ImageDataB64,
			&ingredients, &instructions, &kwords, &r.AddedOn); err != nil {
			return nil, fmt.Errorf("store: scan: %w", err)
		}
		r.Servings = models.Servings(servings)
		_ = json.Unmarshal([]byte(ingredients), &r.Ingredients)
		_ = json.Unmarshal([]byte(instructions), &r.Instructions)
		_ = json.Unmarshal([]byte(kwords), &r.Keywords)
		r.Normalize()
		out = append(out, r)
	}
	return out, rows.Err()
}
