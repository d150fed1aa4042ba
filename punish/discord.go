package punish

import (
	"fmt"
	"log"
	"moderation-bot/model"
	"time"

	"github.com/bwmarrin/discordgo"
)

// DiscordModerator implements ChatModerator on top of a discordgo session.
type DiscordModerator struct {
	session *discordgo.Session
	guildID string
}

// NewDiscordModerator creates the chat-platform adapter for one guild.
func NewDiscordModerator(session *discordgo.Session, guildID string) *DiscordModerator {
	return &DiscordModerator{session: session, guildID: guildID}
}

func (d *DiscordModerator) Timeout(userID string, until time.Time, reason string) error {
	if err := d.session.GuildMemberTimeout(d.guildID, userID, &until); err != nil {
		return fmt.Errorf("failed to timeout user %s: %w", userID, err)
	}
	return nil
}

func (d *DiscordModerator) Kick(userID string, reason string) error {
	if err := d.session.GuildMemberDeleteWithReason(d.guildID, userID, reason); err != nil {
		return fmt.Errorf("failed to kick user %s: %w", userID, err)
	}
	return nil
}

func (d *DiscordModerator) Ban(userID string, reason string, purgeDays int) error {
	if err := d.session.GuildBanCreateWithReason(d.guildID, userID, reason, purgeDays); err != nil {
		return fmt.Errorf("failed to ban user %s: %w", userID, err)
	}
	return nil
}

// DiscordRoleManager implements RoleManager over the configured escalation
// ladder. Each level maps to exactly one role; setting a level removes every
// other ladder role first, so repeated calls with the same level are no-ops.
type DiscordRoleManager struct {
	session *discordgo.Session
	guildID string
	cfg     model.RolesConfig
}

// NewDiscordRoleManager creates the role adapter for one guild.
func NewDiscordRoleManager(session *discordgo.Session, guildID string, cfg model.RolesConfig) *DiscordRoleManager {
	return &DiscordRoleManager{session: session, guildID: guildID, cfg: cfg}
}

// SetEscalationRole assigns the single ladder role for the given level.
// Levels beyond the ladder clamp to the highest rung.
func (d *DiscordRoleManager) SetEscalationRole(userID string, level int) error {
	if len(d.cfg.EscalationLadder) == 0 {
		return fmt.Errorf("no escalation ladder configured")
	}
	if level < 1 {
		level = 1
	}
	if level > len(d.cfg.EscalationLadder) {
		level = len(d.cfg.EscalationLadder)
	}
	target := d.cfg.EscalationLadder[level-1]

	member, err := d.session.GuildMember(d.guildID, userID)
	if err != nil {
		return fmt.Errorf("failed to get member %s: %w", userID, err)
	}
	current := make(map[string]bool, len(member.Roles))
	for _, roleID := range member.Roles {
		current[roleID] = true
	}

	for _, roleID := range d.cfg.EscalationLadder {
		if roleID == target || !current[roleID] {
			continue
		}
		if err := d.session.GuildMemberRoleRemove(d.guildID, userID, roleID); err != nil {
			log.Printf("[Punish] Failed to remove ladder role %s from user %s: %v", roleID, userID, err)
		}
	}

	if current[target] {
		return nil
	}
	if err := d.session.GuildMemberRoleAdd(d.guildID, userID, target); err != nil {
		return fmt.Errorf("failed to add role %s to user %s: %w", target, userID, err)
	}
	return nil
}

// AssignRestrictionRole adds the configured restriction role. The key is
// recorded for audit but all restriction actions currently map to one role.
func (d *DiscordRoleManager) AssignRestrictionRole(userID string, key string) error {
	if d.cfg.RestrictionRole == "" {
		return fmt.Errorf("no restriction role configured")
	}

	member, err := d.session.GuildMember(d.guildID, userID)
	if err != nil {
		return fmt.Errorf("failed to get member %s: %w", userID, err)
	}
	for _, roleID := range member.Roles {
		if roleID == d.cfg.RestrictionRole {
			return nil
		}
	}

	if err := d.session.GuildMemberRoleAdd(d.guildID, userID, d.cfg.RestrictionRole); err != nil {
		return fmt.Errorf("failed to add restriction role to user %s: %w", userID, err)
	}
	return nil
}

// RemoveEscalationRoles strips every ladder role from a user. Used when a
// sanction is appealed or voided.
func (d *DiscordRoleManager) RemoveEscalationRoles(userID string) {
	for _, roleID := range d.cfg.EscalationLadder {
		if err := d.session.GuildMemberRoleRemove(d.guildID, userID, roleID); err != nil {
			log.Printf("[Punish] Failed to remove ladder role %s from user %s: %v", roleID, userID, err)
		}
	}
}
