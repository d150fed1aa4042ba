package commands

import (
	"moderation-bot/commands/defs"

	"github.com/bwmarrin/discordgo"
)

// GenerateCommands returns the full slash command set for the moderation
// guild. The set is static; registration happens once per startup.
func GenerateCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		defs.Sanction,
		defs.SanctionAdmin,
		defs.ServerStatus,
		defs.RunCommand,
		defs.RetryQueue,
		defs.SystemInfo,
	}
}
