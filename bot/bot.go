package bot

import (
	"log"
	"moderation-bot/erlc"
	"moderation-bot/model"
	"moderation-bot/notify"
	"moderation-bot/punish"
	"moderation-bot/tasks/actionqueue"
	"moderation-bot/tasks/erlclog"
	"sync"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"
	"github.com/jmoiron/sqlx"
)

// Bot owns the Discord session, the database handle and the reliability
// components, and wires them together.
type Bot struct {
	Session *discordgo.Session
	DB      *sqlx.DB

	Gateway      *erlc.Client
	Queue        *actionqueue.Queue
	LogManager   *erlclog.Manager
	Orchestrator *punish.Orchestrator
	RoleManager  *punish.DiscordRoleManager
	Notifier     *notify.DiscordNotifier

	CommandHandlers    map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate)
	RegisteredCommands []*discordgo.ApplicationCommand

	config atomic.Value // *model.Config
	done   chan struct{}
	wg     sync.WaitGroup
}

// GetConfig returns the current configuration snapshot.
func (b *Bot) GetConfig() *model.Config {
	return b.config.Load().(*model.Config)
}

// GetDB returns the shared database handle.
func (b *Bot) GetDB() *sqlx.DB {
	return b.DB
}

// GetSession returns the Discord session.
func (b *Bot) GetSession() *discordgo.Session {
	return b.Session
}

// New builds the bot and its reliability components. The session is not
// opened yet; Run does that.
func New(cfg *model.Config, db *sqlx.DB) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, err
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers
	dg.StateEnabled = false

	b := &Bot{
		Session:         dg,
		DB:              db,
		CommandHandlers: make(map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate)),
		done:            make(chan struct{}),
	}
	b.config.Store(cfg)

	b.Gateway = erlc.New(cfg.ErlcAPIKey, cfg.ErlcBaseURL)
	b.Notifier = notify.New(dg, cfg.LogChannelID)
	b.Queue = actionqueue.New(db, b.Gateway, cfg.Retry, b.Notifier)
	b.LogManager = erlclog.New(db, b.Gateway, b.Notifier, cfg.Ingest)
	b.RoleManager = punish.NewDiscordRoleManager(dg, cfg.GuildID, cfg.Roles)

	moderator := punish.NewDiscordModerator(dg, cfg.GuildID)
	b.Orchestrator = punish.NewOrchestrator(db, moderator, b.RoleManager, b.Gateway, b.Queue, b.Notifier, cfg.Punish)

	return b, nil
}

// Close shuts down all timers and the session gracefully.
func (b *Bot) Close() {
	log.Println("Gracefully shutting down.")
	close(b.done)
	b.wg.Wait()
	b.Session.Close()
}
