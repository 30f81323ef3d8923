package config

import (
	"fmt"
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds everything the bot reads from the environment. A .env file in
// the working directory is loaded first; real environment variables win.
type Config struct {
	DiscordToken      string   `env:"DISCORD_TOKEN,required,notEmpty"`
	CommandsPath      string   `env:"COMMANDS_PATH" envDefault:"commands"`
	StoragePath       string   `env:"STORAGE_PATH" envDefault:"datastore.json"`
	InitSlashCommands bool     `env:"INIT_SLASH_COMMANDS" envDefault:"true"`
	GuildBlacklist    []string `env:"DISCORD_GUILD_BLACKLIST"`
}

// New loads the configuration from .env and the environment.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file found, falling back to system environment variables")
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
