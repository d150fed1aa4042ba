package model

import "time"

// Punishment categories. Escalating sanctions walk the role ladder; notices
// never carry platform or external actions.
const (
	CategoryNotice     = "notice"
	CategoryEscalating = "escalating"
	CategoryGeneral    = "general"
)

// Concrete punishment actions.
const (
	PunishActionNone         = "none"
	PunishActionTimeout      = "timeout"
	PunishActionKick         = "kick"
	PunishActionBan          = "ban"
	PunishActionExternalKick = "external-kick"
	PunishActionExternalBan  = "external-ban"
	PunishActionBlacklist    = "blacklist"
	PunishActionWarn         = "warn"
)

// PunishmentRequest describes one logical disciplinary action to apply.
// ExternalCommand is an opaque payload for the control API; building it is
// the caller's concern, this layer only delivers it.
type PunishmentRequest struct {
	UserID          string
	Username        string
	ModeratorID     string
	Category        string
	Action          string
	Reason          string
	Description     string
	Evidence        string
	Duration        time.Duration // 0 = permanent
	ExternalCommand string
	Roblox          RobloxIdentity
}

// ExpiresAt derives the expiry timestamp for the sanction record.
// Zero duration means permanent (no expiry).
func (r PunishmentRequest) ExpiresAt(now time.Time) int64 {
	if r.Duration <= 0 {
		return 0
	}
	return now.Add(r.Duration).Unix()
}

// Signature identifies semantically-identical requests for idempotency
// checks: same target, same category, same reason.
func (r PunishmentRequest) Signature() string {
	return r.UserID + "|" + r.Category + "|" + r.Reason
}

// PunishmentResult aggregates per-step outcomes of one orchestration call.
// It is never persisted.
type PunishmentResult struct {
	Success    bool
	SanctionID int64
	CaseRef    string
	Duplicate  bool
	Messages   []string
	Errors     []string
}

// AddMessage records a successful step.
func (r *PunishmentResult) AddMessage(msg string) {
	r.Messages = append(r.Messages, msg)
}

// AddError records a failed step. Failures never abort sibling steps.
func (r *PunishmentResult) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}
