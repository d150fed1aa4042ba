package sanctions

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Init ensures the sanctions table and its lookup index exist.
func Init(db *sqlx.DB) error {
	schema := `CREATE TABLE IF NOT EXISTS sanctions (
	          sanction_id INTEGER PRIMARY KEY AUTOINCREMENT,
	          case_ref TEXT NOT NULL,
	          user_id TEXT NOT NULL,
	          moderator_id TEXT NOT NULL,
	          category TEXT NOT NULL,
	          reason TEXT NOT NULL,
	          description TEXT DEFAULT '',
	          evidence TEXT DEFAULT '',
	          status TEXT NOT NULL DEFAULT 'active',
	          action_taken TEXT DEFAULT '',
	          expires_at INTEGER NOT NULL DEFAULT 0,
	          created_at INTEGER NOT NULL
	      );`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create sanctions table: %w", err)
	}

	index := `CREATE INDEX IF NOT EXISTS idx_sanctions_user_status ON sanctions(user_id, status)`
	if _, err := db.Exec(index); err != nil {
		return fmt.Errorf("failed to create sanctions index: %w", err)
	}

	return nil
}
