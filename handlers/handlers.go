package handlers

import (
	"log"

	"moderation-bot/bot"
	"moderation-bot/utils"

	"github.com/bwmarrin/discordgo"
)

func Register(b *bot.Bot) {
	b.CommandHandlers = commandHandlers(b)
	addHandlers(b)
}

func commandHandlers(b *bot.Bot) map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate){
		"sanction": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			if !requireModerator(s, i, b) {
				return
			}
			HandleSanctionCommand(s, i, b)
		},
		"sanction-admin": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			if !requireModerator(s, i, b) {
				return
			}
			HandleSanctionAdminCommand(s, i, b)
		},
		"server-status": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			HandleServerStatusCommand(s, i, b)
		},
		"run-command": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			if !requireModerator(s, i, b) {
				return
			}
			HandleRunCommand(s, i, b)
		},
		"retry-queue": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			if !requireModerator(s, i, b) {
				return
			}
			HandleRetryQueueCommand(s, i, b)
		},
		"system-info": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			HandleSystemInfoCommand(s, i, b)
		},
	}
}

func addHandlers(b *bot.Bot) {
	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Printf("Logged in as: %v#%v", s.State.User.Username, s.State.User.Discriminator)
	})
	b.Session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if i.Type != discordgo.InteractionApplicationCommand {
			return
		}
		if h, ok := b.CommandHandlers[i.ApplicationCommandData().Name]; ok {
			h(s, i)
		}
	})
}

// requireModerator gates a command on the configured moderator roles. Guild
// interactions always carry a member; DM invocations do not and are rejected.
func requireModerator(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) bool {
	if i.Member == nil {
		utils.SendErrorResponse(s, i, "This command can only be used in a server.")
		return false
	}
	if utils.HasAnyRole(i.Member.Roles, b.GetConfig().Roles.ModeratorRoles) {
		return true
	}
	utils.SendErrorResponse(s, i, "You do not have permission to use this command.")
	return false
}
