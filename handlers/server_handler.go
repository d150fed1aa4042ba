package handlers

import (
	"fmt"
	"log"
	"strings"

	"moderation-bot/bot"
	"moderation-bot/model"
	"moderation-bot/utils"
	"moderation-bot/utils/database/actions"

	"github.com/bwmarrin/discordgo"
)

func HandleServerStatusCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if err := utils.DeferResponse(s, i, false); err != nil {
		log.Printf("Failed to defer interaction: %v", err)
		return
	}

	status := b.Gateway.GetServerStatus()
	if status == nil {
		utils.SendFollowUpError(s, i.Interaction, "The game server is unreachable right now.")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: status.Name,
		Color: 0x2ECC71,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Players", Value: fmt.Sprintf("%d / %d", status.CurrentPlayers, status.MaxPlayers), Inline: true},
			{Name: "Join Key", Value: status.JoinKey, Inline: true},
			{Name: "Verified Accounts", Value: status.AccVerifiedReq, Inline: true},
		},
	}
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds: &[]*discordgo.MessageEmbed{embed},
	}); err != nil {
		log.Printf("Failed to edit server status response: %v", err)
	}
}

// HandleRunCommand sends a raw command to the game server. An unreachable
// server is not an error from the moderator's point of view: the command is
// parked on the retry queue and delivered when the server comes back.
func HandleRunCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if err := utils.DeferResponse(s, i, true); err != nil {
		log.Printf("Failed to defer interaction: %v", err)
		return
	}

	var command string
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "command" {
			command = opt.StringValue()
		}
	}
	if strings.TrimSpace(command) == "" {
		utils.SendFollowUpError(s, i.Interaction, "No command provided.")
		return
	}

	if b.Gateway.RunCommand(command) {
		utils.SendFollowUp(s, i.Interaction, fmt.Sprintf("Executed `%s` on the game server.", command))
		return
	}

	id, err := b.Queue.Enqueue(command, fmt.Sprintf("manual run-command by %s", moderatorID(i)), model.RobloxIdentity{})
	if err != nil {
		log.Printf("Error enqueueing manual command: %v", err)
		utils.SendFollowUpError(s, i.Interaction, "The server is unreachable and the command could not be queued.")
		return
	}
	utils.SendFollowUp(s, i.Interaction, fmt.Sprintf("The server is unreachable; queued as action #%d for automatic retry.", id))
}

func HandleRetryQueueCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if err := utils.DeferResponse(s, i, true); err != nil {
		log.Printf("Failed to defer interaction: %v", err)
		return
	}

	pending, err := actions.CountByStatus(b.GetDB(), model.ActionStatusPending)
	if err != nil {
		log.Printf("Error counting pending actions: %v", err)
		utils.SendFollowUpError(s, i.Interaction, "Failed to query the retry queue.")
		return
	}
	failed, err := actions.GetFailedActions(b.GetDB())
	if err != nil {
		log.Printf("Error fetching failed actions: %v", err)
		utils.SendFollowUpError(s, i.Interaction, "Failed to query the retry queue.")
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: "Remote command retry queue",
		Color: 0x5865F2,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Pending", Value: fmt.Sprintf("%d", pending), Inline: true},
			{Name: "Failed", Value: fmt.Sprintf("%d", len(failed)), Inline: true},
		},
	}
	if len(failed) > 0 {
		shown := failed
		if len(shown) > 10 {
			shown = shown[:10]
		}
		lines := make([]string, 0, len(shown))
		for _, a := range shown {
			lines = append(lines, fmt.Sprintf("`#%d` `%.60s` (%d attempts)", a.ID, a.Command, a.Attempts))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Needs manual review",
			Value: strings.Join(lines, "\n"),
		})
	}

	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds: &[]*discordgo.MessageEmbed{embed},
	}); err != nil {
		log.Printf("Failed to edit retry queue response: %v", err)
	}
}
