package handlers

import (
	"fmt"
	"log"
	"strings"
	"time"

	"moderation-bot/bot"
	"moderation-bot/model"
	"moderation-bot/utils"

	"github.com/bwmarrin/discordgo"
)

type sanctionOptions struct {
	Target      *discordgo.User
	Category    string
	Action      string
	Reason      string
	Duration    string
	RobloxUser  string
	Description string
	Evidence    string
}

func HandleSanctionCommand(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	// 1. Defer initial response; the orchestration may take several round trips.
	if err := utils.DeferResponse(s, i, true); err != nil {
		log.Printf("Failed to defer interaction: %v", err)
		return
	}

	// 2. Parse command options
	opts := parseSanctionOptions(s, i)
	if opts.Target == nil {
		utils.SendFollowUpError(s, i.Interaction, "No target user provided.")
		return
	}
	if opts.Target.Bot {
		utils.SendFollowUpError(s, i.Interaction, "Bots cannot be sanctioned.")
		return
	}

	// 3. Parse the duration, if any
	var duration time.Duration
	if opts.Duration != "" {
		d, err := utils.ParseDuration(opts.Duration)
		if err != nil {
			utils.SendFollowUpError(s, i.Interaction, fmt.Sprintf("Invalid duration %q. Use formats like 30m, 12h or 7d.", opts.Duration))
			return
		}
		duration = d
	}

	// 4. Resolve the in-game identity and validate game server actions
	roblox := model.ParsePlayer(opts.RobloxUser)
	externalCommand := buildExternalCommand(opts.Action, roblox)
	if requiresGameTarget(opts.Action) && externalCommand == "" {
		utils.SendFollowUpError(s, i.Interaction, "Game server actions need the roblox_user option (Name or Name:Id).")
		return
	}

	// 5. Execute the punishment
	req := model.PunishmentRequest{
		UserID:          opts.Target.ID,
		Username:        opts.Target.Username,
		ModeratorID:     moderatorID(i),
		Category:        opts.Category,
		Action:          opts.Action,
		Reason:          opts.Reason,
		Description:     opts.Description,
		Evidence:        opts.Evidence,
		Duration:        duration,
		ExternalCommand: externalCommand,
		Roblox:          roblox,
	}
	result := b.Orchestrator.Execute(req)

	// 6. Report the outcome, including per-step failures
	if result.Duplicate {
		utils.SendFollowUp(s, i.Interaction, "An identical sanction for this user was recorded moments ago; nothing was applied.")
		return
	}
	embed := buildSanctionResultEmbed(opts, result)
	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds: &[]*discordgo.MessageEmbed{embed},
	}); err != nil {
		log.Printf("Failed to edit sanction response: %v", err)
	}
}

func parseSanctionOptions(s *discordgo.Session, i *discordgo.InteractionCreate) sanctionOptions {
	var opts sanctionOptions
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "user":
			opts.Target = opt.UserValue(s)
		case "category":
			opts.Category = opt.StringValue()
		case "action":
			opts.Action = opt.StringValue()
		case "reason":
			opts.Reason = opt.StringValue()
		case "duration":
			opts.Duration = opt.StringValue()
		case "roblox_user":
			opts.RobloxUser = opt.StringValue()
		case "description":
			opts.Description = opt.StringValue()
		case "evidence":
			opts.Evidence = opt.StringValue()
		}
	}
	return opts
}

// buildExternalCommand maps a game server action onto the control API's
// command syntax. Non-external actions carry no command.
func buildExternalCommand(action string, roblox model.RobloxIdentity) string {
	if roblox.Username == "" {
		return ""
	}
	switch action {
	case model.PunishActionExternalKick:
		return ":kick " + roblox.Username
	case model.PunishActionExternalBan:
		return ":ban " + roblox.Username
	}
	return ""
}

func requiresGameTarget(action string) bool {
	return action == model.PunishActionExternalKick || action == model.PunishActionExternalBan
}

// moderatorID works for both guild and DM shaped interactions, though the
// command is guild-gated upstream.
func moderatorID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func buildSanctionResultEmbed(opts sanctionOptions, result *model.PunishmentResult) *discordgo.MessageEmbed {
	color := 0x2ECC71
	title := "Sanction applied"
	if !result.Success {
		color = 0xE74C3C
		title = "Sanction applied with errors"
	}

	caseRef := result.CaseRef
	if caseRef == "" {
		caseRef = "not recorded"
	}

	embed := &discordgo.MessageEmbed{
		Title: title,
		Color: color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Case", Value: caseRef, Inline: true},
			{Name: "User", Value: fmt.Sprintf("<@%s>", opts.Target.ID), Inline: true},
			{Name: "Action", Value: opts.Action, Inline: true},
			{Name: "Reason", Value: opts.Reason},
		},
	}
	if len(result.Messages) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Steps",
			Value: strings.Join(result.Messages, "\n"),
		})
	}
	if len(result.Errors) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Failed Steps",
			Value: strings.Join(result.Errors, "\n"),
		})
	}
	return embed
}
