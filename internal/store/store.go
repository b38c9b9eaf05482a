package store

import "github.com/shiralev/matkonim/internal/models"

// Sort options for ListAll.
const (
	SortNewest = "newest"
	SortOldest = "oldest"
	SortTitle  = "title"
)

// RecipeStore defines the interface for recipe persistence operations.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with fakes.
type RecipeStore interface {
	Insert(rec *models.Recipe) (string, error)
	ListAll(sort string) ([]models.Recipe, error)
	Search(query string) ([]models.Recipe, error)
	Delete(id string) (bool, error)
	Close() error
}

// Verify *DB satisfies RecipeStore at compile time.
var _ RecipeStore = (*DB)(nil)
