package model

import "strings"

// ServerStatus mirrors the control API's /server response.
type ServerStatus struct {
	Name           string `json:"Name"`
	OwnerID        int64  `json:"OwnerId"`
	CurrentPlayers int    `json:"CurrentPlayers"`
	MaxPlayers     int    `json:"MaxPlayers"`
	JoinKey        string `json:"JoinKey"`
	AccVerifiedReq string `json:"AccVerifiedReq"`
	TeamBalance    bool   `json:"TeamBalance"`
}

// KillLog is a raw entry from /server/killlogs.
type KillLog struct {
	Killer    string `json:"Killer"`
	Killed    string `json:"Killed"`
	Timestamp int64  `json:"Timestamp"`
}

// CommandLog is a raw entry from /server/commandlogs.
type CommandLog struct {
	Player    string `json:"Player"`
	Command   string `json:"Command"`
	Timestamp int64  `json:"Timestamp"`
}

// JoinLog is a raw entry from /server/joinlogs.
type JoinLog struct {
	Player    string `json:"Player"`
	Join      bool   `json:"Join"`
	Timestamp int64  `json:"Timestamp"`
}

// LogKind identifies one of the three independent log streams.
type LogKind string

const (
	LogKindKill    LogKind = "kill"
	LogKindCommand LogKind = "command"
	LogKindJoin    LogKind = "join"
)

// LogEvent is a normalized log entry emitted to the notifier after
// deduplication. Actor and Subject carry the raw "Name:Id" player strings.
type LogEvent struct {
	Kind      LogKind
	Timestamp int64
	Actor     string
	Subject   string
	Detail    string
}

// RobloxIdentity is an optional link between a queued remote command and the
// in-game account it targets.
type RobloxIdentity struct {
	Username string
	ID       string
}

// ParsePlayer splits the API's "Name:Id" player format. Names may themselves
// contain colons, so the ID is taken from the last segment.
func ParsePlayer(raw string) RobloxIdentity {
	idx := strings.LastIndex(raw, ":")
	if idx < 0 {
		return RobloxIdentity{Username: raw}
	}
	return RobloxIdentity{Username: raw[:idx], ID: raw[idx+1:]}
}
