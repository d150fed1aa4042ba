package model

// Pending action statuses. Transitions are pending -> completed or
// pending -> failed only; failed is terminal and kept for audit.
const (
	ActionStatusPending   = "pending"
	ActionStatusCompleted = "completed"
	ActionStatusFailed    = "failed"
)

// PendingAction is a queued remote command awaiting execution against the
// control API. The database table is named 'pending_actions'.
type PendingAction struct {
	ID             int64  `db:"id"` // Primary Key, Auto-increment
	Command        string `db:"command"`
	Reason         string `db:"reason"`
	Status         string `db:"status"`
	Attempts       int    `db:"attempts"`
	LastAttempt    int64  `db:"last_attempt"` // Unix seconds, 0 = never attempted
	RobloxUsername string `db:"roblox_username"`
	RobloxID       string `db:"roblox_id"`
	ErrorLog       string `db:"error_log"`
	CreatedAt      int64  `db:"created_at"`
}
