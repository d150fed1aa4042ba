package main

import (
	"log"
	"os"
	"path/filepath"

	"moderation-bot/bot"
	"moderation-bot/config"
	"moderation-bot/handlers"
	"moderation-bot/utils"
	"moderation-bot/utils/database/actions"
	"moderation-bot/utils/database/logstate"
	"moderation-bot/utils/database/sanctions"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), os.ModePerm); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}
	db, err := utils.InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}
	if err := actions.Init(db); err != nil {
		log.Fatalf("Error creating action tables: %v", err)
	}
	if err := sanctions.Init(db); err != nil {
		log.Fatalf("Error creating sanction tables: %v", err)
	}
	if err := logstate.Init(db); err != nil {
		log.Fatalf("Error creating log state tables: %v", err)
	}

	b, err := bot.New(cfg, db)
	if err != nil {
		log.Fatalf("Error creating bot: %v", err)
	}

	handlers.Register(b)

	b.Run()

	defer b.Close()
}
