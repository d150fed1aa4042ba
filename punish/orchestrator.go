package punish

import (
	"fmt"
	"log"
	"moderation-bot/model"
	"moderation-bot/utils/database/sanctions"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Orchestrator applies one punishment request as a best-effort sequence of
// independent side effects across the chat platform, the control API, the
// role ladder and the sanction store. Every step's outcome lands in the
// result; nothing escapes the Execute boundary as an error.
type Orchestrator struct {
	db       *sqlx.DB
	chat     ChatModerator
	roles    RoleManager
	gateway  CommandRunner
	queue    ActionQueuer
	notifier Notifier
	policy   model.PunishPolicy

	locks *lockTable
}

// NewOrchestrator wires the orchestrator. notifier may be nil.
func NewOrchestrator(db *sqlx.DB, chat ChatModerator, roles RoleManager, gateway CommandRunner, queue ActionQueuer, notifier Notifier, policy model.PunishPolicy) *Orchestrator {
	if policy.DedupWindow <= 0 {
		policy.DedupWindow = 5 * time.Minute
	}
	return &Orchestrator{
		db:       db,
		chat:     chat,
		roles:    roles,
		gateway:  gateway,
		queue:    queue,
		notifier: notifier,
		policy:   policy,
		locks:    newLockTable(policy.LockDuration),
	}
}

// Execute runs one punishment request through every required side effect and
// reports exactly what succeeded. Partial failure is normal: the caller gets
// success messages for the steps that worked and named errors for the rest.
func (o *Orchestrator) Execute(req model.PunishmentRequest) *model.PunishmentResult {
	result := &model.PunishmentResult{}

	// 1. Idempotency check. Rapid double submission of the same logical
	// punishment is short-circuited before any side effect runs.
	sig := req.Signature()
	if !o.locks.acquire(sig) {
		log.Printf("[Punish] Duplicate submission rejected for %s", sig)
		result.Duplicate = true
		result.AddMessage("An identical punishment is already being processed.")
		return result
	}
	defer o.locks.release(sig)

	// 2. Chat platform action. Notices never carry platform actions.
	if needsPlatformAction(req) {
		o.applyChatAction(req, result)
	}

	// 3. External system action: direct execution first, queue fallback.
	// A punishment that cannot be applied now is deferred, never dropped.
	if needsExternalAction(req) {
		o.applyExternalAction(req, result)
	}

	// 4. Role-state sync. The sanction record stays the source of truth,
	// so role failures are reported but non-fatal.
	o.syncRoles(req, result)

	// 5. Persist the sanction record, with the storage-layer dedup query
	// as the second line of defense behind the lock.
	record := o.persistSanction(req, result)

	// 6. Best-effort audit notification.
	if o.notifier != nil && record != nil {
		o.notifier.NotifySanction(record, result)
	}

	result.Success = len(result.Errors) == 0
	return result
}

// needsPlatformAction reports whether the concrete action touches the chat
// platform at all.
func needsPlatformAction(req model.PunishmentRequest) bool {
	if req.Category == model.CategoryNotice {
		return false
	}
	switch req.Action {
	case model.PunishActionTimeout, model.PunishActionKick, model.PunishActionBan:
		return true
	}
	return false
}

// needsExternalAction reports whether a control API command must run. The
// command payload is opaque here; an empty payload means no external effect.
func needsExternalAction(req model.PunishmentRequest) bool {
	return req.Category != model.CategoryNotice && req.ExternalCommand != ""
}

func (o *Orchestrator) applyChatAction(req model.PunishmentRequest, result *model.PunishmentResult) {
	var err error
	switch req.Action {
	case model.PunishActionTimeout:
		if req.Duration <= 0 {
			result.AddError("chat platform: timeout requires a duration")
			return
		}
		err = o.chat.Timeout(req.UserID, time.Now().Add(req.Duration), req.Reason)
		if err == nil {
			result.AddMessage(fmt.Sprintf("User timed out for %v.", req.Duration))
		}
	case model.PunishActionKick:
		err = o.chat.Kick(req.UserID, req.Reason)
		if err == nil {
			result.AddMessage("User kicked from the server.")
		}
	case model.PunishActionBan:
		err = o.chat.Ban(req.UserID, req.Reason, 0)
		if err == nil {
			result.AddMessage("User banned from the server.")
		}
	}

	if err != nil {
		log.Printf("[Punish] Chat platform action failed for %s: %v", req.UserID, err)
		result.AddError(fmt.Sprintf("chat platform: %v", err))
	}
}

func (o *Orchestrator) applyExternalAction(req model.PunishmentRequest, result *model.PunishmentResult) {
	// Timeouts and rejections are not distinguishable from here; both are
	// deferred to the queue rather than retried inline.
	if o.gateway != nil && o.gateway.RunCommand(req.ExternalCommand) {
		result.AddMessage("Remote command executed on the game server.")
		return
	}

	id, err := o.queue.Enqueue(req.ExternalCommand, req.Reason, req.Roblox)
	if err != nil {
		log.Printf("[Punish] Failed to queue remote command for %s: %v", req.UserID, err)
		result.AddError(fmt.Sprintf("external system: command failed and could not be queued: %v", err))
		return
	}
	result.AddMessage(fmt.Sprintf("Game server unreachable; command queued for retry (action #%d).", id))
}

func (o *Orchestrator) syncRoles(req model.PunishmentRequest, result *model.PunishmentResult) {
	if req.Category == model.CategoryEscalating {
		count, err := sanctions.CountActiveByCategory(o.db, req.UserID, model.CategoryEscalating)
		if err != nil {
			log.Printf("[Punish] Failed to count sanctions for %s: %v", req.UserID, err)
			result.AddError(fmt.Sprintf("role sync: could not determine escalation level: %v", err))
			return
		}

		level := count + 1
		if err := o.roles.SetEscalationRole(req.UserID, level); err != nil {
			log.Printf("[Punish] Failed to set escalation role for %s: %v", req.UserID, err)
			result.AddError(fmt.Sprintf("role sync: %v", err))
			return
		}
		result.AddMessage(fmt.Sprintf("Escalation level set to %d.", level))
		return
	}

	if req.Action == model.PunishActionBlacklist {
		if err := o.roles.AssignRestrictionRole(req.UserID, model.PunishActionBlacklist); err != nil {
			log.Printf("[Punish] Failed to assign restriction role for %s: %v", req.UserID, err)
			result.AddError(fmt.Sprintf("role sync: %v", err))
			return
		}
		result.AddMessage("Restriction role assigned.")
	}
}

func (o *Orchestrator) persistSanction(req model.PunishmentRequest, result *model.PunishmentResult) *model.Sanction {
	existing, err := sanctions.FindRecentDuplicate(o.db, req.UserID, req.ModeratorID, req.Category, req.Reason, o.policy.DedupWindow)
	if err != nil {
		log.Printf("[Punish] Duplicate query failed for %s: %v", req.UserID, err)
		result.AddError(fmt.Sprintf("sanction record: duplicate check failed: %v", err))
		return nil
	}
	if existing != nil {
		result.Duplicate = true
		result.SanctionID = existing.SanctionID
		result.CaseRef = existing.CaseRef
		result.AddMessage(fmt.Sprintf("Sanction already applied (case %s).", existing.CaseRef))
		return existing
	}

	record, err := sanctions.AddSanction(o.db, model.Sanction{
		CaseRef:     uuid.NewString(),
		UserID:      req.UserID,
		ModeratorID: req.ModeratorID,
		Category:    req.Category,
		Reason:      req.Reason,
		Description: req.Description,
		Evidence:    req.Evidence,
		Status:      model.SanctionStatusActive,
		ActionTaken: req.Action,
		ExpiresAt:   req.ExpiresAt(time.Now()),
	})
	if err != nil {
		log.Printf("[Punish] Failed to save sanction for %s: %v", req.UserID, err)
		result.AddError(fmt.Sprintf("sanction record: %v", err))
		return nil
	}

	result.SanctionID = record.SanctionID
	result.CaseRef = record.CaseRef
	result.AddMessage(fmt.Sprintf("Sanction recorded (case %s).", record.CaseRef))
	return record
}
