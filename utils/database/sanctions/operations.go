package sanctions

import (
	"database/sql"
	"errors"
	"fmt"
	"moderation-bot/model"
	"time"

	"github.com/jmoiron/sqlx"
)

// AddSanction inserts a new sanction record and returns it with the
// generated ID filled in.
func AddSanction(db *sqlx.DB, record model.Sanction) (*model.Sanction, error) {
	if record.Status == "" {
		record.Status = model.SanctionStatusActive
	}
	if record.CreatedAt == 0 {
		record.CreatedAt = time.Now().Unix()
	}

	query := `INSERT INTO sanctions (case_ref, user_id, moderator_id, category, reason, description, evidence, status, action_taken, expires_at, created_at)
			  VALUES (:case_ref, :user_id, :moderator_id, :category, :reason, :description, :evidence, :status, :action_taken, :expires_at, :created_at)`

	result, err := db.NamedExec(query, record)
	if err != nil {
		return nil, fmt.Errorf("failed to insert sanction record: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert ID: %w", err)
	}
	record.SanctionID = id
	return &record, nil
}

// FindRecentDuplicate looks for an active sanction with the same target,
// moderator, category and reason created inside the dedup window. This is
// the storage half of the idempotency contract; the in-process lock is only
// the fast path.
func FindRecentDuplicate(db *sqlx.DB, userID, moderatorID, category, reason string, window time.Duration) (*model.Sanction, error) {
	var record model.Sanction
	cutoff := time.Now().Add(-window).Unix()
	query := `SELECT * FROM sanctions
			  WHERE user_id = ? AND moderator_id = ? AND category = ? AND reason = ?
			  AND status = ? AND created_at > ?
			  ORDER BY created_at DESC LIMIT 1`
	err := db.Get(&record, query, userID, moderatorID, category, reason, model.SanctionStatusActive, cutoff)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query duplicate sanction: %w", err)
	}
	return &record, nil
}

// GetSanctionByID retrieves a single sanction by its primary key.
func GetSanctionByID(db *sqlx.DB, id int64) (*model.Sanction, error) {
	var record model.Sanction
	query := `SELECT * FROM sanctions WHERE sanction_id = ?`
	if err := db.Get(&record, query, id); err != nil {
		return nil, fmt.Errorf("failed to get sanction by id %d: %w", id, err)
	}
	return &record, nil
}

// GetActiveSanctionsByUserID retrieves active sanctions for a user, newest
// first.
func GetActiveSanctionsByUserID(db *sqlx.DB, userID string) ([]model.Sanction, error) {
	var records []model.Sanction
	query := `SELECT * FROM sanctions WHERE user_id = ? AND status = ? ORDER BY created_at DESC`
	err := db.Select(&records, query, userID, model.SanctionStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to get active sanctions for user %s: %w", userID, err)
	}
	return records, nil
}

// CountActiveByCategory returns how many active sanctions of one category a
// user carries. The orchestrator derives the escalation level from this.
func CountActiveByCategory(db *sqlx.DB, userID, category string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM sanctions WHERE user_id = ? AND category = ? AND status = ?`
	err := db.Get(&count, query, userID, category, model.SanctionStatusActive)
	if err != nil {
		return 0, fmt.Errorf("failed to count sanctions for user %s: %w", userID, err)
	}
	return count, nil
}

// UpdateStatus moves a sanction to a new lifecycle status.
func UpdateStatus(db *sqlx.DB, id int64, status string) error {
	query := `UPDATE sanctions SET status = ? WHERE sanction_id = ?`
	result, err := db.Exec(query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update sanction status for ID %d: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for sanction ID %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no sanction found with ID %d", id)
	}
	return nil
}

// ExpireDue moves active sanctions whose expiry has passed to expired and
// returns them so roles can be cleaned up.
func ExpireDue(db *sqlx.DB, now time.Time) ([]model.Sanction, error) {
	var due []model.Sanction
	query := `SELECT * FROM sanctions WHERE status = ? AND expires_at > 0 AND expires_at <= ?`
	if err := db.Select(&due, query, model.SanctionStatusActive, now.Unix()); err != nil {
		return nil, fmt.Errorf("failed to select expired sanctions: %w", err)
	}

	for _, s := range due {
		if err := UpdateStatus(db, s.SanctionID, model.SanctionStatusExpired); err != nil {
			return nil, err
		}
	}
	return due, nil
}

// ArchiveOlderThan moves non-active terminal records older than the cutoff
// to archived and returns how many were touched.
func ArchiveOlderThan(db *sqlx.DB, cutoff time.Time) (int64, error) {
	query := `UPDATE sanctions SET status = ? WHERE status = ? AND created_at < ?`
	result, err := db.Exec(query, model.SanctionStatusArchived, model.SanctionStatusExpired, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to archive sanctions: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check archived rows: %w", err)
	}
	return n, nil
}
