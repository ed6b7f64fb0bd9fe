package test

import (
	"log"

	"todoapi/internal/adapter/database/sqlite"
	"todoapi/pkg/config"
)

// InitTestDB returns a fresh migrated in-memory database. Each call is isolated
// from the others.
func InitTestDB() *sqlite.DB {
	cfg := config.GetDefaultConfig().Database
	cfg.Path = sqlite.MemoryPath

	db, err := sqlite.NewDB(cfg)

	if err != nil {
		log.Fatal(err)
	}

	return db
}

// CleanDB empties the todos table and resets its id sequence.
func CleanDB(db *sqlite.DB) error {
	if _, err := db.Exec("DELETE FROM todos"); err != nil {
		return err
	}

	_, err := db.Exec("DELETE FROM sqlite_sequence WHERE name = 'todos'")
	return err
}
