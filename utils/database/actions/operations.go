package actions

import (
	"fmt"
	"moderation-bot/model"
	"time"

	"github.com/jmoiron/sqlx"
)

// AddPendingAction inserts a new pending action and returns its ID.
// Actions are only ever appended here; the drain cycle owns every mutation
// afterwards.
func AddPendingAction(db *sqlx.DB, action model.PendingAction) (int64, error) {
	if action.Status == "" {
		action.Status = model.ActionStatusPending
	}
	if action.CreatedAt == 0 {
		action.CreatedAt = time.Now().Unix()
	}

	query := `INSERT INTO pending_actions (command, reason, status, attempts, last_attempt, roblox_username, roblox_id, error_log, created_at)
			  VALUES (:command, :reason, :status, :attempts, :last_attempt, :roblox_username, :roblox_id, :error_log, :created_at)`

	result, err := db.NamedExec(query, action)
	if err != nil {
		return 0, fmt.Errorf("failed to insert pending action: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID: %w", err)
	}
	return id, nil
}

// GetOldestPending retrieves up to limit pending actions, oldest first.
// FIFO order keeps early failures from being starved by new arrivals.
func GetOldestPending(db *sqlx.DB, limit int) ([]model.PendingAction, error) {
	var records []model.PendingAction
	query := `SELECT * FROM pending_actions WHERE status = ? ORDER BY created_at ASC, id ASC LIMIT ?`
	err := db.Select(&records, query, model.ActionStatusPending, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending actions: %w", err)
	}
	return records, nil
}

// MarkCompleted transitions a pending action to completed and records the
// successful attempt.
func MarkCompleted(db *sqlx.DB, id int64, attempts int) error {
	query := `UPDATE pending_actions SET status = ?, attempts = ?, last_attempt = ? WHERE id = ? AND status = ?`
	result, err := db.Exec(query, model.ActionStatusCompleted, attempts, time.Now().Unix(), id, model.ActionStatusPending)
	if err != nil {
		return fmt.Errorf("failed to mark action %d completed: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for action %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no pending action found with id %d", id)
	}
	return nil
}

// RecordFailure increments the attempt count and, once the ceiling is
// reached, moves the action to the terminal failed state. Failed actions are
// retained for manual review, never deleted.
func RecordFailure(db *sqlx.DB, id int64, attempts, ceiling int, errorLog string) (terminal bool, err error) {
	status := model.ActionStatusPending
	if attempts >= ceiling {
		status = model.ActionStatusFailed
	}

	query := `UPDATE pending_actions SET status = ?, attempts = ?, last_attempt = ?, error_log = ? WHERE id = ?`
	if _, err := db.Exec(query, status, attempts, time.Now().Unix(), errorLog, id); err != nil {
		return false, fmt.Errorf("failed to record failure for action %d: %w", id, err)
	}
	return status == model.ActionStatusFailed, nil
}

// CountByStatus returns the number of actions in the given state.
func CountByStatus(db *sqlx.DB, status string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM pending_actions WHERE status = ?`
	if err := db.Get(&count, query, status); err != nil {
		return 0, fmt.Errorf("failed to count actions by status %s: %w", status, err)
	}
	return count, nil
}

// GetActionByID retrieves a single action by its primary key.
func GetActionByID(db *sqlx.DB, id int64) (*model.PendingAction, error) {
	var record model.PendingAction
	query := `SELECT * FROM pending_actions WHERE id = ?`
	if err := db.Get(&record, query, id); err != nil {
		return nil, fmt.Errorf("failed to get pending action by id %d: %w", id, err)
	}
	return &record, nil
}

// GetFailedActions retrieves terminal failed actions for operator review.
func GetFailedActions(db *sqlx.DB) ([]model.PendingAction, error) {
	var records []model.PendingAction
	query := `SELECT * FROM pending_actions WHERE status = ? ORDER BY last_attempt DESC`
	err := db.Select(&records, query, model.ActionStatusFailed)
	if err != nil {
		return nil, fmt.Errorf("failed to get failed actions: %w", err)
	}
	return records, nil
}
