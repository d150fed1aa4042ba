package model

import "time"

// RetryPolicy holds the Action Retry Queue knobs. The defaults match the
// behaviour the moderation team ran in production but are not tuned; treat
// them as operator-adjustable.
type RetryPolicy struct {
	DrainInterval  time.Duration `mapstructure:"drain_interval"`
	BatchSize      int           `mapstructure:"batch_size"`
	AttemptCeiling int           `mapstructure:"attempt_ceiling"`
}

// IngestPolicy holds the Event Log Ingestion scheduling knobs.
type IngestPolicy struct {
	ActiveInterval time.Duration `mapstructure:"active_interval"`
	IdleInterval   time.Duration `mapstructure:"idle_interval"`
	RecentIDCap    int           `mapstructure:"recent_id_cap"`
	RecentIDKeep   int           `mapstructure:"recent_id_keep"`
}

// PunishPolicy holds the orchestrator's idempotency knobs.
type PunishPolicy struct {
	DedupWindow  time.Duration `mapstructure:"dedup_window"`
	LockDuration time.Duration `mapstructure:"lock_duration"`
}

// RolesConfig maps escalation levels and the restriction role.
// EscalationLadder is ordered: index 0 is level 1.
type RolesConfig struct {
	EscalationLadder []string `mapstructure:"escalation_ladder"`
	RestrictionRole  string   `mapstructure:"restriction_role"`
	ModeratorRoles   []string `mapstructure:"moderator_roles"`
}

// Config stores the application configuration. Secrets come from the
// environment, everything else from the viper config file.
type Config struct {
	BotToken     string
	GuildID      string `mapstructure:"guild_id"`
	ErlcAPIKey   string
	ErlcBaseURL  string `mapstructure:"erlc_base_url"`
	DBPath       string `mapstructure:"db_path"`
	LogChannelID string `mapstructure:"log_channel_id"`

	Retry  RetryPolicy  `mapstructure:"retry"`
	Ingest IngestPolicy `mapstructure:"ingest"`
	Punish PunishPolicy `mapstructure:"punish"`
	Roles  RolesConfig  `mapstructure:"roles"`
}
