package utils

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// InitDB opens the shared sqlite database. Every storage package ensures its
// own schema on this handle at startup.
func InitDB(filepath string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite3", filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Single writer; sqlite serializes writes anyway and this avoids
	// SQLITE_BUSY under concurrent timers.
	db.SetMaxOpenConns(1)

	return db, nil
}
