package handlers

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"moderation-bot/bot"
	"moderation-bot/model"
	"moderation-bot/utils"
	"moderation-bot/utils/database/sanctions"

	"github.com/bwmarrin/discordgo"
)

func HandleSanctionAdminCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	if err := utils.DeferResponse(s, i, true); err != nil {
		log.Printf("Failed to defer interaction: %v", err)
		return
	}

	var action, input string
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "action":
			action = opt.StringValue()
		case "input":
			input = opt.StringValue()
		}
	}

	switch action {
	case "lookup":
		handleSanctionLookup(s, i, b, input)
	case "history":
		handleSanctionHistory(s, i, b, input)
	case "void":
		handleSanctionReversal(s, i, b, input, "void")
	case "appeal":
		handleSanctionReversal(s, i, b, input, "appeal")
	default:
		utils.SendFollowUpError(s, i.Interaction, "Unknown action.")
	}
}

func handleSanctionLookup(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot, input string) {
	id, err := strconv.ParseInt(input, 10, 64)
	if err != nil {
		utils.SendFollowUpError(s, i.Interaction, "Sanction ID must be a number.")
		return
	}

	record, err := sanctions.GetSanctionByID(b.GetDB(), id)
	if err != nil {
		utils.SendFollowUpError(s, i.Interaction, fmt.Sprintf("No sanction with ID %d.", id))
		return
	}

	embed := buildSanctionRecordEmbed(record)
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds: &[]*discordgo.MessageEmbed{embed},
	}); err != nil {
		log.Printf("Failed to edit lookup response: %v", err)
	}
}

func handleSanctionHistory(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot, input string) {
	userID := strings.Trim(input, "<@>")

	records, err := sanctions.GetActiveSanctionsByUserID(b.GetDB(), userID)
	if err != nil {
		log.Printf("Error fetching sanctions for user %s: %v", userID, err)
		utils.SendFollowUpError(s, i.Interaction, "Failed to query sanction records.")
		return
	}
	if len(records) == 0 {
		utils.SendFollowUp(s, i.Interaction, fmt.Sprintf("<@%s> has no active sanctions.", userID))
		return
	}

	lines := make([]string, 0, len(records))
	for _, r := range records {
		expiry := "permanent"
		if r.ExpiresAt > 0 {
			expiry = fmt.Sprintf("<t:%d:R>", r.ExpiresAt)
		}
		lines = append(lines, fmt.Sprintf("`#%d` **%s** / %s: %s (expires %s)", r.SanctionID, r.Category, r.ActionTaken, r.Reason, expiry))
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Active sanctions (%d)", len(records)),
		Color:       0x5865F2,
		Description: strings.Join(lines, "\n"),
	}
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds: &[]*discordgo.MessageEmbed{embed},
	}); err != nil {
		log.Printf("Failed to edit history response: %v", err)
	}
}

func handleSanctionReversal(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot, input, mode string) {
	id, err := strconv.ParseInt(input, 10, 64)
	if err != nil {
		utils.SendFollowUpError(s, i.Interaction, "Sanction ID must be a number.")
		return
	}

	if mode == "void" {
		err = b.Orchestrator.Void(id)
	} else {
		err = b.Orchestrator.Appeal(id)
	}
	if err != nil {
		log.Printf("Error reversing sanction %d: %v", id, err)
		utils.SendFollowUpError(s, i.Interaction, fmt.Sprintf("Failed to %s sanction %d.", mode, id))
		return
	}

	verb := "voided"
	if mode == "appeal" {
		verb = "marked as appealed"
	}
	utils.SendFollowUp(s, i.Interaction, fmt.Sprintf("Sanction `#%d` %s. The record is kept for audit.", id, verb))
}

func buildSanctionRecordEmbed(record *model.Sanction) *discordgo.MessageEmbed {
	expiry := "permanent"
	if record.ExpiresAt > 0 {
		expiry = fmt.Sprintf("<t:%d:f>", record.ExpiresAt)
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Sanction #%d", record.SanctionID),
		Color: 0x5865F2,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Case", Value: record.CaseRef, Inline: true},
			{Name: "Status", Value: record.Status, Inline: true},
			{Name: "Category", Value: record.Category, Inline: true},
			{Name: "User", Value: fmt.Sprintf("<@%s>", record.UserID), Inline: true},
			{Name: "Moderator", Value: fmt.Sprintf("<@%s>", record.ModeratorID), Inline: true},
			{Name: "Action", Value: record.ActionTaken, Inline: true},
			{Name: "Expires", Value: expiry, Inline: true},
			{Name: "Reason", Value: record.Reason},
		},
		Timestamp: time.Unix(record.CreatedAt, 0).Format(time.RFC3339),
	}
	if record.Description != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Notes", Value: record.Description})
	}
	if record.Evidence != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Evidence", Value: record.Evidence})
	}
	return embed
}
