package config

import (
	"fmt"
	"log"
	"moderation-bot/model"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load loads the configuration from environment variables and the config
// file. Secrets (tokens, API keys) only ever come from the environment.
func Load() (*model.Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: .env file not found, relying on environment variables")
	}

	token := os.Getenv("BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("BOT_TOKEN environment variable not set")
	}

	erlcKey := os.Getenv("ERLC_SERVER_KEY")
	if erlcKey == "" {
		log.Println("Warning: ERLC_SERVER_KEY not set, control API calls will fail")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("data")
	v.AddConfigPath(".")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		log.Println("Warning: config file not found, using defaults")
	}

	cfg := &model.Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.BotToken = token
	cfg.ErlcAPIKey = erlcKey

	return cfg, nil
}

// setDefaults installs the policy defaults. The retry ceiling and dedup
// window values match what production ran before they became configurable.
func setDefaults(v *viper.Viper) {
	v.SetDefault("erlc_base_url", "https://api.policeroleplay.community/v1")
	v.SetDefault("db_path", "data/moderation.db")

	v.SetDefault("retry.drain_interval", 2*time.Minute)
	v.SetDefault("retry.batch_size", 10)
	v.SetDefault("retry.attempt_ceiling", 50)

	v.SetDefault("ingest.active_interval", 1*time.Minute)
	v.SetDefault("ingest.idle_interval", 50*time.Minute)
	v.SetDefault("ingest.recent_id_cap", 500)
	v.SetDefault("ingest.recent_id_keep", 400)

	v.SetDefault("punish.dedup_window", 5*time.Minute)
	v.SetDefault("punish.lock_duration", 10*time.Second)
}
