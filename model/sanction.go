package model

// Sanction statuses.
const (
	SanctionStatusActive   = "active"
	SanctionStatusExpired  = "expired"
	SanctionStatusArchived = "archived"
	SanctionStatusVoid     = "void"
	SanctionStatusAppealed = "appealed"
)

// Sanction is the durable record of an applied punishment. The database
// table is named 'sanctions'. Records are never hard-deleted; a reversal
// moves the status to 'void'.
type Sanction struct {
	SanctionID  int64  `db:"sanction_id"` // Primary Key, Auto-increment
	CaseRef     string `db:"case_ref"`    // UUID shown to operators
	UserID      string `db:"user_id"`
	ModeratorID string `db:"moderator_id"`
	Category    string `db:"category"`
	Reason      string `db:"reason"`
	Description string `db:"description"`
	Evidence    string `db:"evidence"`
	Status      string `db:"status"`
	ActionTaken string `db:"action_taken"`
	ExpiresAt   int64  `db:"expires_at"` // Unix seconds, 0 = permanent
	CreatedAt   int64  `db:"created_at"`
}
