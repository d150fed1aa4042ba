package defs

import "github.com/bwmarrin/discordgo"

var Sanction = &discordgo.ApplicationCommand{
	Name:        "sanction",
	Description: "Apply a disciplinary action and record it",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionUser,
			Name:        "user",
			Description: "User to sanction",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "category",
			Description: "How the sanction is tracked",
			Required:    true,
			Choices: []*discordgo.ApplicationCommandOptionChoice{
				{Name: "Notice (record only)", Value: "notice"},
				{Name: "Escalating (walks the warning ladder)", Value: "escalating"},
				{Name: "General", Value: "general"},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "action",
			Description: "Concrete action to apply",
			Required:    true,
			Choices: []*discordgo.ApplicationCommandOptionChoice{
				{Name: "Warn", Value: "warn"},
				{Name: "Timeout", Value: "timeout"},
				{Name: "Kick", Value: "kick"},
				{Name: "Ban", Value: "ban"},
				{Name: "Kick from game server", Value: "external-kick"},
				{Name: "Ban from game server", Value: "external-ban"},
				{Name: "Blacklist", Value: "blacklist"},
				{Name: "Record only", Value: "none"},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "reason",
			Description: "Reason shown to the user and stored on the record",
			Required:    true,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "duration",
			Description: "Duration such as 30m, 12h or 7d. Empty means permanent.",
			Required:    false,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "roblox_user",
			Description: "In-game player as Name:Id, required for game server actions",
			Required:    false,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "description",
			Description: "Internal notes, not shown to the user",
			Required:    false,
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "evidence",
			Description: "Message links as evidence, separated by spaces",
			Required:    false,
		},
	},
}

var SanctionAdmin = &discordgo.ApplicationCommand{
	Name:        "sanction-admin",
	Description: "Inspect or reverse sanction records",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "action",
			Description: "Operation to perform",
			Required:    true,
			Choices: []*discordgo.ApplicationCommandOptionChoice{
				{Name: "Look up by sanction ID", Value: "lookup"},
				{Name: "Active sanctions of a user", Value: "history"},
				{Name: "Void a sanction", Value: "void"},
				{Name: "Mark a sanction appealed", Value: "appeal"},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "input",
			Description: "Sanction ID, or user ID for the history action",
			Required:    true,
		},
	},
}
