package punish

import (
	"errors"
	"testing"
	"time"

	"moderation-bot/model"
	"moderation-bot/utils"
	"moderation-bot/utils/database/sanctions"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChat struct {
	err      error
	timeouts []string
	kicks    []string
	bans     []string
}

func (c *fakeChat) Timeout(userID string, until time.Time, reason string) error {
	c.timeouts = append(c.timeouts, userID)
	return c.err
}

func (c *fakeChat) Kick(userID string, reason string) error {
	c.kicks = append(c.kicks, userID)
	return c.err
}

func (c *fakeChat) Ban(userID string, reason string, purgeDays int) error {
	c.bans = append(c.bans, userID)
	return c.err
}

type fakeRoles struct {
	err        error
	levels     map[string]int
	restricted []string
	stripped   []string
}

func (r *fakeRoles) SetEscalationRole(userID string, level int) error {
	if r.err != nil {
		return r.err
	}
	if r.levels == nil {
		r.levels = make(map[string]int)
	}
	r.levels[userID] = level
	return nil
}

func (r *fakeRoles) AssignRestrictionRole(userID string, key string) error {
	if r.err != nil {
		return r.err
	}
	r.restricted = append(r.restricted, userID)
	return nil
}

func (r *fakeRoles) RemoveEscalationRoles(userID string) {
	r.stripped = append(r.stripped, userID)
}

type fakeRunner struct {
	ok       bool
	commands []string
}

func (g *fakeRunner) RunCommand(command string) bool {
	g.commands = append(g.commands, command)
	return g.ok
}

type fakeQueue struct {
	err    error
	nextID int64
	queued []string
}

func (q *fakeQueue) Enqueue(command, reason string, hint model.RobloxIdentity) (int64, error) {
	if q.err != nil {
		return 0, q.err
	}
	q.nextID++
	q.queued = append(q.queued, command)
	return q.nextID, nil
}

type fakeNotifier struct {
	sanctions []*model.Sanction
}

func (n *fakeNotifier) NotifySanction(sanction *model.Sanction, result *model.PunishmentResult) {
	n.sanctions = append(n.sanctions, sanction)
}

type testEnv struct {
	db       *sqlx.DB
	chat     *fakeChat
	roles    *fakeRoles
	runner   *fakeRunner
	queue    *fakeQueue
	notifier *fakeNotifier
}

func newTestOrchestrator(t *testing.T) (*Orchestrator, *testEnv) {
	t.Helper()
	db, err := utils.InitDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, sanctions.Init(db))

	env := &testEnv{
		db:       db,
		chat:     &fakeChat{},
		roles:    &fakeRoles{},
		runner:   &fakeRunner{ok: true},
		queue:    &fakeQueue{},
		notifier: &fakeNotifier{},
	}
	o := NewOrchestrator(db, env.chat, env.roles, env.runner, env.queue, env.notifier, model.PunishPolicy{})
	return o, env
}

func warnRequest(reason string) model.PunishmentRequest {
	return model.PunishmentRequest{
		UserID:      "user-1",
		Username:    "target",
		ModeratorID: "mod-1",
		Category:    model.CategoryGeneral,
		Action:      model.PunishActionWarn,
		Reason:      reason,
	}
}

func TestExecuteRecordsSanction(t *testing.T) {
	o, env := newTestOrchestrator(t)

	result := o.Execute(warnRequest("spamming"))

	assert.True(t, result.Success)
	assert.False(t, result.Duplicate)
	assert.NotZero(t, result.SanctionID)
	assert.NotEmpty(t, result.CaseRef)

	record, err := sanctions.GetSanctionByID(env.db, result.SanctionID)
	require.NoError(t, err)
	assert.Equal(t, model.SanctionStatusActive, record.Status)
	assert.Equal(t, model.PunishActionWarn, record.ActionTaken)
	assert.Equal(t, "spamming", record.Reason)

	require.Len(t, env.notifier.sanctions, 1)
	assert.Equal(t, result.CaseRef, env.notifier.sanctions[0].CaseRef)
}

func TestExecuteDuplicateWithinWindow(t *testing.T) {
	o, env := newTestOrchestrator(t)

	first := o.Execute(warnRequest("spamming"))
	require.False(t, first.Duplicate)

	second := o.Execute(warnRequest("spamming"))
	assert.True(t, second.Duplicate)
	assert.Equal(t, first.SanctionID, second.SanctionID)
	assert.Equal(t, first.CaseRef, second.CaseRef)

	records, err := sanctions.GetActiveSanctionsByUserID(env.db, "user-1")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestExecuteInFlightDuplicateRejected(t *testing.T) {
	o, _ := newTestOrchestrator(t)

	req := warnRequest("spamming")
	require.True(t, o.locks.acquire(req.Signature()))

	result := o.Execute(req)
	assert.True(t, result.Duplicate)
	assert.Zero(t, result.SanctionID)
}

func TestExecuteEscalationLevels(t *testing.T) {
	o, env := newTestOrchestrator(t)

	first := warnRequest("first offense")
	first.Category = model.CategoryEscalating
	result := o.Execute(first)
	require.True(t, result.Success)
	assert.Equal(t, 1, env.roles.levels["user-1"])

	second := warnRequest("second offense")
	second.Category = model.CategoryEscalating
	result = o.Execute(second)
	require.True(t, result.Success)
	assert.Equal(t, 2, env.roles.levels["user-1"])
}

func TestExecuteBanAppliesChatAction(t *testing.T) {
	o, env := newTestOrchestrator(t)

	req := warnRequest("cheating")
	req.Action = model.PunishActionBan
	result := o.Execute(req)

	assert.True(t, result.Success)
	assert.Equal(t, []string{"user-1"}, env.chat.bans)
}

func TestExecuteTimeoutRequiresDuration(t *testing.T) {
	o, env := newTestOrchestrator(t)

	req := warnRequest("flooding")
	req.Action = model.PunishActionTimeout
	result := o.Execute(req)

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Errors)
	assert.Empty(t, env.chat.timeouts)
	// The record is still written; the failed step is reported, not fatal.
	assert.NotZero(t, result.SanctionID)
}

func TestExecuteNoticeSkipsSideEffects(t *testing.T) {
	o, env := newTestOrchestrator(t)

	req := warnRequest("first contact")
	req.Category = model.CategoryNotice
	req.Action = model.PunishActionKick
	req.ExternalCommand = ":kick target"
	result := o.Execute(req)

	assert.True(t, result.Success)
	assert.Empty(t, env.chat.kicks)
	assert.Empty(t, env.runner.commands)
	assert.NotZero(t, result.SanctionID)
}

func TestExecuteExternalCommandDirect(t *testing.T) {
	o, env := newTestOrchestrator(t)

	req := warnRequest("rdm")
	req.Action = model.PunishActionExternalKick
	req.ExternalCommand = ":kick Badguy"
	result := o.Execute(req)

	assert.True(t, result.Success)
	assert.Equal(t, []string{":kick Badguy"}, env.runner.commands)
	assert.Empty(t, env.queue.queued)
}

func TestExecuteExternalCommandFallsBackToQueue(t *testing.T) {
	o, env := newTestOrchestrator(t)
	env.runner.ok = false

	req := warnRequest("rdm")
	req.Action = model.PunishActionExternalBan
	req.ExternalCommand = ":ban Badguy"
	req.Roblox = model.RobloxIdentity{Username: "Badguy", ID: "42"}
	result := o.Execute(req)

	// Deferral is not failure: the punishment is parked, not dropped.
	assert.True(t, result.Success)
	assert.Equal(t, []string{":ban Badguy"}, env.queue.queued)
}

func TestExecuteQueueFailureReported(t *testing.T) {
	o, env := newTestOrchestrator(t)
	env.runner.ok = false
	env.queue.err = errors.New("disk full")

	req := warnRequest("rdm")
	req.ExternalCommand = ":ban Badguy"
	result := o.Execute(req)

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Errors)
}

func TestExecutePartialFailureStillPersists(t *testing.T) {
	o, env := newTestOrchestrator(t)
	env.chat.err = errors.New("missing permissions")

	req := warnRequest("cheating")
	req.Action = model.PunishActionKick
	result := o.Execute(req)

	assert.False(t, result.Success)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "missing permissions")

	record, err := sanctions.GetSanctionByID(env.db, result.SanctionID)
	require.NoError(t, err)
	assert.Equal(t, model.SanctionStatusActive, record.Status)
	require.Len(t, env.notifier.sanctions, 1)
}

func TestExecuteBlacklistAssignsRestrictionRole(t *testing.T) {
	o, env := newTestOrchestrator(t)

	req := warnRequest("alt account")
	req.Action = model.PunishActionBlacklist
	result := o.Execute(req)

	assert.True(t, result.Success)
	assert.Equal(t, []string{"user-1"}, env.roles.restricted)
}

func TestVoidKeepsRecordAndStripsLadder(t *testing.T) {
	o, env := newTestOrchestrator(t)

	req := warnRequest("mistake")
	req.Category = model.CategoryEscalating
	result := o.Execute(req)
	require.True(t, result.Success)

	require.NoError(t, o.Void(result.SanctionID))

	record, err := sanctions.GetSanctionByID(env.db, result.SanctionID)
	require.NoError(t, err)
	assert.Equal(t, model.SanctionStatusVoid, record.Status)
	assert.Equal(t, []string{"user-1"}, env.roles.stripped)
}

func TestAppealMarksRecord(t *testing.T) {
	o, env := newTestOrchestrator(t)

	result := o.Execute(warnRequest("disputed"))
	require.True(t, result.Success)

	require.NoError(t, o.Appeal(result.SanctionID))

	record, err := sanctions.GetSanctionByID(env.db, result.SanctionID)
	require.NoError(t, err)
	assert.Equal(t, model.SanctionStatusAppealed, record.Status)
	// Non-escalating sanctions have no ladder roles to strip.
	assert.Empty(t, env.roles.stripped)
}
