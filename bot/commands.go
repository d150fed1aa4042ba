package bot

import (
	"log"

	"moderation-bot/commands"
)

// RegisterCommands overwrites the configured guild's slash commands with the
// current set.
func (b *Bot) RegisterCommands() {
	cfg := b.GetConfig()
	cmds := commands.GenerateCommands()

	log.Printf("Registering %d commands for guild %s...", len(cmds), cfg.GuildID)
	registered, err := b.Session.ApplicationCommandBulkOverwrite(b.Session.State.User.ID, cfg.GuildID, cmds)
	if err != nil {
		log.Printf("cannot update commands for guild '%s': %v", cfg.GuildID, err)
		return
	}
	b.RegisteredCommands = registered
}
