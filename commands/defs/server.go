package defs

import "github.com/bwmarrin/discordgo"

var ServerStatus = &discordgo.ApplicationCommand{
	Name:        "server-status",
	Description: "Show the live game server status",
}

var RunCommand = &discordgo.ApplicationCommand{
	Name:        "run-command",
	Description: "Send a raw command to the game server",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "command",
			Description: "Command text, e.g. :h Server restarting in 5 minutes",
			Required:    true,
		},
	},
}

var RetryQueue = &discordgo.ApplicationCommand{
	Name:        "retry-queue",
	Description: "Show pending and failed remote commands",
}

var SystemInfo = &discordgo.ApplicationCommand{
	Name:        "system-info",
	Description: "Show host and bot runtime information",
}
