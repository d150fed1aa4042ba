package erlclog

import (
	"testing"
	"time"

	"moderation-bot/model"
	"moderation-bot/utils"
	"moderation-bot/utils/database/logstate"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	players  int
	offline  bool
	kills    []model.KillLog
	commands []model.CommandLog
	joins    []model.JoinLog
}

func (g *fakeGateway) GetServerStatus() *model.ServerStatus {
	if g.offline {
		return nil
	}
	return &model.ServerStatus{CurrentPlayers: g.players, MaxPlayers: 40}
}

func (g *fakeGateway) GetKillLogs() []model.KillLog       { return g.kills }
func (g *fakeGateway) GetCommandLogs() []model.CommandLog { return g.commands }
func (g *fakeGateway) GetJoinLogs() []model.JoinLog       { return g.joins }

type captureSink struct {
	events []model.LogEvent
}

func (s *captureSink) NotifyLogEvent(event model.LogEvent) {
	s.events = append(s.events, event)
}

func newTestManager(t *testing.T, db *sqlx.DB, policy model.IngestPolicy) (*Manager, *fakeGateway, *captureSink) {
	t.Helper()
	gateway := &fakeGateway{players: 10}
	sink := &captureSink{}
	m := New(db, gateway, sink, policy)
	require.NoError(t, m.loadState())
	return m, gateway, sink
}

func testDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := utils.InitDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, logstate.Init(db))
	return db
}

func TestPollEmitsEachEntryOnce(t *testing.T) {
	m, gateway, sink := newTestManager(t, testDB(t), model.IngestPolicy{})
	gateway.kills = []model.KillLog{
		{Killer: "Alice:1", Killed: "Bob:2", Timestamp: 100},
		{Killer: "Carol:3", Killed: "Dave:4", Timestamp: 200},
	}

	m.Poll()
	require.Len(t, sink.events, 2)
	assert.Equal(t, model.LogKindKill, sink.events[0].Kind)
	assert.Equal(t, "Alice:1", sink.events[0].Actor)
	assert.Equal(t, "Bob:2", sink.events[0].Subject)

	// The source returns the same page again; nothing new may be emitted.
	m.Poll()
	assert.Len(t, sink.events, 2)
}

func TestPollEmitsAscendingOrder(t *testing.T) {
	m, gateway, sink := newTestManager(t, testDB(t), model.IngestPolicy{})
	gateway.kills = []model.KillLog{
		{Killer: "C:3", Killed: "X:9", Timestamp: 300},
		{Killer: "A:1", Killed: "X:9", Timestamp: 100},
		{Killer: "B:2", Killed: "X:9", Timestamp: 200},
	}

	m.Poll()

	require.Len(t, sink.events, 3)
	assert.Equal(t, int64(100), sink.events[0].Timestamp)
	assert.Equal(t, int64(200), sink.events[1].Timestamp)
	assert.Equal(t, int64(300), sink.events[2].Timestamp)
}

func TestPollSameTimestampDistinctActors(t *testing.T) {
	m, gateway, sink := newTestManager(t, testDB(t), model.IngestPolicy{})
	gateway.kills = []model.KillLog{
		{Killer: "Alice:1", Killed: "Bob:2", Timestamp: 100},
		{Killer: "Carol:3", Killed: "Bob:2", Timestamp: 100},
	}

	m.Poll()

	assert.Len(t, sink.events, 2)
}

func TestPollCursorSurvivesRestart(t *testing.T) {
	db := testDB(t)
	m, gateway, sink := newTestManager(t, db, model.IngestPolicy{})
	gateway.kills = []model.KillLog{{Killer: "Alice:1", Killed: "Bob:2", Timestamp: 100}}
	gateway.joins = []model.JoinLog{{Player: "Eve:5", Join: true, Timestamp: 150}}

	m.Poll()
	require.Len(t, sink.events, 2)

	// A fresh manager on the same database replays the same page silently.
	m2, gateway2, sink2 := newTestManager(t, db, model.IngestPolicy{})
	gateway2.kills = gateway.kills
	gateway2.joins = gateway.joins

	m2.Poll()
	assert.Empty(t, sink2.events)
	assert.Equal(t, int64(100), m2.state.LastKill)
	assert.Equal(t, int64(150), m2.state.LastJoin)
}

func TestPollCategoriesIndependent(t *testing.T) {
	m, gateway, sink := newTestManager(t, testDB(t), model.IngestPolicy{})
	gateway.kills = []model.KillLog{{Killer: "Alice:1", Killed: "Bob:2", Timestamp: 500}}
	gateway.commands = []model.CommandLog{{Player: "Mod:7", Command: ":h hi", Timestamp: 30}}
	gateway.joins = []model.JoinLog{{Player: "Eve:5", Join: false, Timestamp: 90}}

	m.Poll()

	require.Len(t, sink.events, 3)
	assert.Equal(t, int64(500), m.state.LastKill)
	assert.Equal(t, int64(30), m.state.LastCommand)
	assert.Equal(t, int64(90), m.state.LastJoin)

	var command, join model.LogEvent
	for _, e := range sink.events {
		switch e.Kind {
		case model.LogKindCommand:
			command = e
		case model.LogKindJoin:
			join = e
		}
	}
	assert.Equal(t, ":h hi", command.Detail)
	assert.Equal(t, "leave", join.Subject)
}

func TestPollIntervalFollowsOccupancy(t *testing.T) {
	policy := model.IngestPolicy{
		ActiveInterval: time.Minute,
		IdleInterval:   50 * time.Minute,
	}
	m, gateway, _ := newTestManager(t, testDB(t), policy)

	gateway.players = 0
	m.Poll()
	assert.Equal(t, policy.IdleInterval, m.interval)

	gateway.players = 3
	m.Poll()
	assert.Equal(t, policy.ActiveInterval, m.interval)

	// An unreachable server counts as empty.
	gateway.offline = true
	m.Poll()
	assert.Equal(t, policy.IdleInterval, m.interval)
}

func TestTrimKeepsNewestIDs(t *testing.T) {
	policy := model.IngestPolicy{RecentIDCap: 5, RecentIDKeep: 3}
	m, gateway, sink := newTestManager(t, testDB(t), policy)

	kills := make([]model.KillLog, 0, 8)
	for ts := int64(1); ts <= 8; ts++ {
		kills = append(kills, model.KillLog{Killer: "A:1", Killed: "B:2", Timestamp: ts})
	}
	gateway.kills = kills

	m.Poll()

	assert.Len(t, sink.events, 8)
	assert.Len(t, m.state.ProcessedKills, 3)
	assert.Len(t, m.seenKills, 3)
	assert.Equal(t, int64(8), m.state.LastKill)
}

func TestPollEmptyPageLeavesCursor(t *testing.T) {
	m, gateway, sink := newTestManager(t, testDB(t), model.IngestPolicy{})
	gateway.kills = []model.KillLog{{Killer: "Alice:1", Killed: "Bob:2", Timestamp: 100}}
	m.Poll()
	require.Len(t, sink.events, 1)

	// A fetch error surfaces as an empty page; the cursor must hold.
	gateway.kills = nil
	m.Poll()
	assert.Equal(t, int64(100), m.state.LastKill)
	assert.Len(t, sink.events, 1)
}
