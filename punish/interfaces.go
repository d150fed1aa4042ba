package punish

import (
	"moderation-bot/model"
	"time"
)

// ChatModerator covers the moderation actions taken on the chat platform.
// Implementations may fail with permission/hierarchy errors; the
// orchestrator reports those as named, non-fatal step failures.
type ChatModerator interface {
	Timeout(userID string, until time.Time, reason string) error
	Kick(userID string, reason string) error
	Ban(userID string, reason string, purgeDays int) error
}

// RoleManager maintains the escalation ladder and restriction roles.
// Both operations are idempotent: repeating a call is a no-op.
type RoleManager interface {
	SetEscalationRole(userID string, level int) error
	AssignRestrictionRole(userID string, key string) error
}

// CommandRunner is the direct path to the control API.
type CommandRunner interface {
	RunCommand(command string) bool
}

// ActionQueuer is the deferred path: commands that cannot run now are queued
// so they are eventually applied rather than lost.
type ActionQueuer interface {
	Enqueue(command, reason string, hint model.RobloxIdentity) (int64, error)
}

// Notifier posts human-readable audit events. Failures are swallowed by the
// implementation; the orchestrator never checks them.
type Notifier interface {
	NotifySanction(sanction *model.Sanction, result *model.PunishmentResult)
}
