package erlclog

import (
	"fmt"
	"log"
	"moderation-bot/model"
	"moderation-bot/utils/database/logstate"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
)

// Gateway is the slice of the control API client the ingester needs.
type Gateway interface {
	GetServerStatus() *model.ServerStatus
	GetKillLogs() []model.KillLog
	GetCommandLogs() []model.CommandLog
	GetJoinLogs() []model.JoinLog
}

// Sink receives each newly-ingested log event exactly once per process.
type Sink interface {
	NotifyLogEvent(event model.LogEvent)
}

// rawEntry is the category-independent shape the dedup pipeline works on.
type rawEntry struct {
	ts      int64
	actor   string
	subject string
	detail  string
}

// Manager polls the three log endpoints, deduplicates entries against the
// persisted cursors and emits normalized events to the sink. It owns the
// cursor state exclusively.
type Manager struct {
	db      *sqlx.DB
	gateway Gateway
	sink    Sink
	policy  model.IngestPolicy

	state    *logstate.State
	interval time.Duration

	seenKills    map[string]struct{}
	seenCommands map[string]struct{}
	seenJoins    map[string]struct{}
}

// New creates a manager. Cursor state is loaded lazily by Start so a restart
// resumes where the last cycle left off.
func New(db *sqlx.DB, gateway Gateway, sink Sink, policy model.IngestPolicy) *Manager {
	if policy.ActiveInterval <= 0 {
		policy.ActiveInterval = 1 * time.Minute
	}
	if policy.IdleInterval <= 0 {
		policy.IdleInterval = 50 * time.Minute
	}
	if policy.RecentIDCap <= 0 {
		policy.RecentIDCap = 500
	}
	if policy.RecentIDKeep <= 0 || policy.RecentIDKeep > policy.RecentIDCap {
		policy.RecentIDKeep = 400
	}
	return &Manager{
		db:       db,
		gateway:  gateway,
		sink:     sink,
		policy:   policy,
		interval: policy.ActiveInterval,
	}
}

// Start loads the persisted cursors and runs the self-rescheduling poll loop
// until done is closed. Each cycle schedules exactly one successor, so a
// slow poll can never overlap the next one.
func (m *Manager) Start(done <-chan struct{}) {
	if err := m.loadState(); err != nil {
		log.Printf("[ErlcLog] Failed to load state, starting fresh: %v", err)
		m.state = &logstate.State{}
		m.rebuildSets()
	}

	log.Printf("[ErlcLog] Started. Initial polling every %v", m.interval)

	for {
		select {
		case <-time.After(m.interval):
			m.Poll()
		case <-done:
			log.Println("[ErlcLog] Stopped")
			return
		}
	}
}

func (m *Manager) loadState() error {
	state, err := logstate.Load(m.db)
	if err != nil {
		return err
	}
	m.state = state
	m.rebuildSets()
	log.Printf("[ErlcLog] State restored. Last kill: %d, last command: %d, last join: %d",
		state.LastKill, state.LastCommand, state.LastJoin)
	return nil
}

func (m *Manager) rebuildSets() {
	m.seenKills = buildSet(m.state.ProcessedKills)
	m.seenCommands = buildSet(m.state.ProcessedCommands)
	m.seenJoins = buildSet(m.state.ProcessedJoins)
}

func buildSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Poll runs one ingestion cycle over all three categories and re-derives the
// next poll interval from server occupancy: an empty server produces no new
// events, so polling backs far off.
func (m *Manager) Poll() {
	status := m.gateway.GetServerStatus()
	players := 0
	if status != nil {
		players = status.CurrentPlayers
	}

	next := m.policy.ActiveInterval
	if players == 0 {
		next = m.policy.IdleInterval
	}
	if next != m.interval {
		log.Printf("[ErlcLog] Polling interval adjusted: %v -> %v (players: %d)", m.interval, next, players)
		m.interval = next
	}

	// Each category is independent: an empty page (including any fetch
	// error, which the gateway reports as empty) just leaves that cursor
	// untouched.
	m.processCategory(model.LogKindKill, killEntries(m.gateway.GetKillLogs()),
		&m.state.LastKill, &m.state.ProcessedKills, m.seenKills)
	m.processCategory(model.LogKindCommand, commandEntries(m.gateway.GetCommandLogs()),
		&m.state.LastCommand, &m.state.ProcessedCommands, m.seenCommands)
	m.processCategory(model.LogKindJoin, joinEntries(m.gateway.GetJoinLogs()),
		&m.state.LastJoin, &m.state.ProcessedJoins, m.seenJoins)

	// One snapshot write per cycle; a crash before this point replays at
	// most the current batch, which the recent-ID sets absorb.
	if err := logstate.Save(m.db, m.state); err != nil {
		log.Printf("[ErlcLog] Failed to save state: %v", err)
	}
}

// processCategory filters, orders and deduplicates one category's page, then
// emits what is genuinely new.
func (m *Manager) processCategory(kind model.LogKind, entries []rawEntry, hwm *int64, ids *[]string, seen map[string]struct{}) {
	if len(entries) == 0 {
		return
	}

	fresh := entries[:0:0]
	for _, e := range entries {
		if e.ts > *hwm {
			fresh = append(fresh, e)
		}
	}
	if len(fresh) == 0 {
		return
	}

	// The source does not guarantee ordering inside a page.
	sort.SliceStable(fresh, func(i, j int) bool { return fresh[i].ts < fresh[j].ts })

	for idx, e := range fresh {
		id := fmt.Sprintf("%d_%s_%s_%d", e.ts, e.actor, e.subject, idx)
		if _, dup := seen[id]; dup {
			continue
		}

		m.sink.NotifyLogEvent(model.LogEvent{
			Kind:      kind,
			Timestamp: e.ts,
			Actor:     e.actor,
			Subject:   e.subject,
			Detail:    e.detail,
		})

		seen[id] = struct{}{}
		*ids = append(*ids, id)
		if e.ts > *hwm {
			*hwm = e.ts
		}
	}

	m.trimSet(ids, seen)
}

// trimSet bounds the recent-ID memory: once a set passes the cap it is cut
// back to the newest entries.
func (m *Manager) trimSet(ids *[]string, seen map[string]struct{}) {
	if len(*ids) <= m.policy.RecentIDCap {
		return
	}

	drop := len(*ids) - m.policy.RecentIDKeep
	for _, id := range (*ids)[:drop] {
		delete(seen, id)
	}
	*ids = append([]string(nil), (*ids)[drop:]...)
}

func killEntries(logs []model.KillLog) []rawEntry {
	entries := make([]rawEntry, 0, len(logs))
	for _, k := range logs {
		entries = append(entries, rawEntry{ts: k.Timestamp, actor: k.Killer, subject: k.Killed})
	}
	return entries
}

func commandEntries(logs []model.CommandLog) []rawEntry {
	entries := make([]rawEntry, 0, len(logs))
	for _, c := range logs {
		entries = append(entries, rawEntry{ts: c.Timestamp, actor: c.Player, subject: c.Command, detail: c.Command})
	}
	return entries
}

func joinEntries(logs []model.JoinLog) []rawEntry {
	entries := make([]rawEntry, 0, len(logs))
	for _, j := range logs {
		subject := "leave"
		if j.Join {
			subject = "join"
		}
		entries = append(entries, rawEntry{ts: j.Timestamp, actor: j.Player, subject: subject})
	}
	return entries
}
