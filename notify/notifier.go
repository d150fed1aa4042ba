package notify

import (
	"fmt"
	"log"
	"moderation-bot/model"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

// DiscordNotifier posts human-readable audit events to a log channel.
// It is a one-way sink: every failure is logged and swallowed, never
// propagated to the component that emitted the event.
type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
}

// New creates a notifier for the given audit channel.
func New(session *discordgo.Session, channelID string) *DiscordNotifier {
	return &DiscordNotifier{session: session, channelID: channelID}
}

// NotifyLogEvent posts one ingested game-server log entry.
func (n *DiscordNotifier) NotifyLogEvent(event model.LogEvent) {
	if n.channelID == "" {
		return
	}

	var embed *discordgo.MessageEmbed
	switch event.Kind {
	case model.LogKindKill:
		embed = &discordgo.MessageEmbed{
			Title:       "Kill Log",
			Color:       0x8B0000,
			Description: fmt.Sprintf("**%s** killed **%s**", playerName(event.Actor), playerName(event.Subject)),
		}
	case model.LogKindCommand:
		embed = &discordgo.MessageEmbed{
			Title:       "Command Log",
			Color:       0x00AAFF,
			Description: fmt.Sprintf("**%s** used `%s`", playerName(event.Actor), event.Detail),
		}
	case model.LogKindJoin:
		title := "Server Leave"
		color := 0xFF0000
		if event.Subject == "join" {
			title = "Server Join"
			color = 0x00FF00
		}
		embed = &discordgo.MessageEmbed{
			Title:       title,
			Color:       color,
			Description: fmt.Sprintf("**%s**", playerName(event.Actor)),
		}
	default:
		return
	}
	embed.Timestamp = time.Unix(event.Timestamp, 0).Format(time.RFC3339)

	if _, err := n.session.ChannelMessageSendEmbed(n.channelID, embed); err != nil {
		log.Printf("[Notify] Failed to send log event embed: %v", err)
	}
}

// NotifyActionFailed surfaces a remote command that exhausted its retry
// budget so an operator can apply it manually.
func (n *DiscordNotifier) NotifyActionFailed(action model.PendingAction) {
	if n.channelID == "" {
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: "Remote Command Failed",
		Color: 0xFFA500,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Action ID", Value: fmt.Sprintf("%d", action.ID), Inline: true},
			{Name: "Attempts", Value: fmt.Sprintf("%d", action.Attempts), Inline: true},
			{Name: "Command", Value: fmt.Sprintf("`%.100s`", action.Command)},
			{Name: "Reason", Value: action.Reason},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Manual review required"},
	}

	if _, err := n.session.ChannelMessageSendEmbed(n.channelID, embed); err != nil {
		log.Printf("[Notify] Failed to send action failure embed: %v", err)
	}
}

// NotifySanction posts the outcome of one punishment orchestration,
// including per-step errors so partial failures are visible.
func (n *DiscordNotifier) NotifySanction(sanction *model.Sanction, result *model.PunishmentResult) {
	if n.channelID == "" {
		return
	}

	color := 0x2ECC71
	if len(result.Errors) > 0 {
		color = 0xE74C3C
	}

	embed := &discordgo.MessageEmbed{
		Title: "Sanction Applied",
		Color: color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Case", Value: sanction.CaseRef, Inline: true},
			{Name: "User", Value: fmt.Sprintf("<@%s>", sanction.UserID), Inline: true},
			{Name: "Moderator", Value: fmt.Sprintf("<@%s>", sanction.ModeratorID), Inline: true},
			{Name: "Category", Value: sanction.Category, Inline: true},
			{Name: "Action", Value: sanction.ActionTaken, Inline: true},
			{Name: "Reason", Value: sanction.Reason},
		},
		Timestamp: time.Unix(sanction.CreatedAt, 0).Format(time.RFC3339),
	}
	if len(result.Errors) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Failed Steps",
			Value: strings.Join(result.Errors, "\n"),
		})
	}

	if _, err := n.session.ChannelMessageSendEmbed(n.channelID, embed); err != nil {
		log.Printf("[Notify] Failed to send sanction embed: %v", err)
	}
}

// playerName strips the ":Id" suffix from the API's player format for
// display.
func playerName(raw string) string {
	return model.ParsePlayer(raw).Username
}
