package actionqueue

import (
	"log"
	"moderation-bot/model"
	"moderation-bot/utils/database/actions"
	"sync/atomic"
	"time"

	"github.com/jmoiron/sqlx"
)

// Gateway is the slice of the control API client the queue needs.
type Gateway interface {
	GetServerStatus() *model.ServerStatus
	RunCommand(command string) bool
}

// FailureSink receives actions that exhausted their retry budget so an
// operator can follow up manually.
type FailureSink interface {
	NotifyActionFailed(action model.PendingAction)
}

// Queue is the durable retry queue for remote commands that could not be
// executed immediately. It owns the pending_actions table exclusively;
// nothing else writes to it.
type Queue struct {
	db       *sqlx.DB
	gateway  Gateway
	policy   model.RetryPolicy
	failures FailureSink

	inFlight atomic.Bool
}

// New creates a queue. failures may be nil when no review channel is
// configured.
func New(db *sqlx.DB, gateway Gateway, policy model.RetryPolicy, failures FailureSink) *Queue {
	if policy.BatchSize <= 0 {
		policy.BatchSize = 10
	}
	if policy.AttemptCeiling <= 0 {
		policy.AttemptCeiling = 50
	}
	if policy.DrainInterval <= 0 {
		policy.DrainInterval = 2 * time.Minute
	}
	return &Queue{
		db:       db,
		gateway:  gateway,
		policy:   policy,
		failures: failures,
	}
}

// Enqueue appends a pending action. The insert is local and always expected
// to succeed; the caller is told "queued", not "executed".
func (q *Queue) Enqueue(command, reason string, hint model.RobloxIdentity) (int64, error) {
	id, err := actions.AddPendingAction(q.db, model.PendingAction{
		Command:        command,
		Reason:         reason,
		Status:         model.ActionStatusPending,
		RobloxUsername: hint.Username,
		RobloxID:       hint.ID,
	})
	if err != nil {
		return 0, err
	}
	log.Printf("[ActionQueue] Queued action %d: %.50s", id, command)
	return id, nil
}

// Start runs the drain cycle on a fixed ticker until done is closed.
// An immediate drain runs at startup so restarts pick up backlog quickly.
func (q *Queue) Start(done <-chan struct{}) {
	log.Printf("[ActionQueue] Started. Draining every %v", q.policy.DrainInterval)

	ticker := time.NewTicker(q.policy.DrainInterval)
	defer ticker.Stop()

	q.DrainOnce()

	for {
		select {
		case <-ticker.C:
			q.DrainOnce()
		case <-done:
			log.Println("[ActionQueue] Stopped")
			return
		}
	}
}

// DrainOnce retries one batch of pending actions. Overlapping runs are
// skipped: a slow cycle must not double-execute the same action.
func (q *Queue) DrainOnce() {
	if !q.inFlight.CompareAndSwap(false, true) {
		log.Println("[ActionQueue] Previous drain still running, skipping cycle")
		return
	}
	defer q.inFlight.Store(false)

	// 1. One reachability probe for the whole cycle. A global outage must
	// not burn the retry budget of every queued action.
	if q.gateway.GetServerStatus() == nil {
		log.Println("[ActionQueue] Server offline or API down, skipping cycle")
		return
	}

	// 2. Oldest pending first.
	batch, err := actions.GetOldestPending(q.db, q.policy.BatchSize)
	if err != nil {
		log.Printf("[ActionQueue] Error fetching pending actions: %v", err)
		return
	}
	if len(batch) == 0 {
		return
	}

	log.Printf("[ActionQueue] Processing %d pending actions...", len(batch))

	// 3. Each action's outcome is independent; one failure never aborts
	// the batch.
	for _, action := range batch {
		q.processAction(action)
	}
}

func (q *Queue) processAction(action model.PendingAction) {
	attempts := action.Attempts + 1

	if q.gateway.RunCommand(action.Command) {
		if err := actions.MarkCompleted(q.db, action.ID, attempts); err != nil {
			log.Printf("[ActionQueue] Error completing action %d: %v", action.ID, err)
		} else {
			log.Printf("[ActionQueue] Action %d completed after %d attempts", action.ID, attempts)
		}
		return
	}

	terminal, err := actions.RecordFailure(q.db, action.ID, attempts, q.policy.AttemptCeiling,
		"command execution returned false (likely API error or blocked)")
	if err != nil {
		log.Printf("[ActionQueue] Error recording failure for action %d: %v", action.ID, err)
		return
	}

	if terminal {
		log.Printf("[ActionQueue] Action %d exhausted retry budget (%d attempts), marked failed",
			action.ID, attempts)
		if q.failures != nil {
			action.Attempts = attempts
			action.Status = model.ActionStatusFailed
			q.failures.NotifyActionFailed(action)
		}
	}
}
