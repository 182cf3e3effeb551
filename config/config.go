package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config struct to hold the configuration settings
type Config struct {
	Discord DiscordConfig `yaml:"discord"`
	Storage StorageConfig `yaml:"storage"`
	Service ServiceConfig `yaml:"service"`
}

// DiscordConfig holds Discord configuration.
type DiscordConfig struct {
	Token   string `yaml:"token"`
	AppID   string `yaml:"app_id"`
	GuildID string `yaml:"guild_id"` // optional, registers commands guild-scoped when set
}

// StorageConfig holds the policy document store configuration.
type StorageConfig struct {
	DataDir  string        `yaml:"data_dir"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// ServiceConfig holds general service configuration.
type ServiceConfig struct {
	Name     string `yaml:"name"`
	LogLevel string `yaml:"log_level"`
}

// LoadConfig loads the configuration from a YAML file, falling back to
// environment variables for anything the file does not set.
func LoadConfig(filename string) (*Config, error) {
	var cfg Config
	data, err := os.ReadFile(filename)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}
	}

	loadConfigFromEnv(&cfg)
	applyDefaults(&cfg)

	if cfg.Discord.Token == "" {
		return nil, fmt.Errorf("discord token not set (config file or DISCORD_TOKEN)")
	}
	if cfg.Discord.AppID == "" {
		return nil, fmt.Errorf("discord app ID not set (config file or DISCORD_APP_ID)")
	}
	return &cfg, nil
}

// loadConfigFromEnv fills values the config file left empty.
func loadConfigFromEnv(cfg *Config) {
	if cfg.Discord.Token == "" {
		cfg.Discord.Token = os.Getenv("DISCORD_TOKEN")
	}
	if cfg.Discord.AppID == "" {
		cfg.Discord.AppID = os.Getenv("DISCORD_APP_ID")
	}
	if cfg.Discord.GuildID == "" {
		cfg.Discord.GuildID = os.Getenv("DISCORD_GUILD_ID")
	}
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = os.Getenv("PERMSYNC_DATA_DIR")
	}
	if cfg.Service.Name == "" {
		cfg.Service.Name = os.Getenv("SERVICE_NAME")
	}
	if cfg.Service.LogLevel == "" {
		cfg.Service.LogLevel = os.Getenv("LOG_LEVEL")
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Storage.DataDir == "" {
		cfg.Storage.DataDir = "data"
	}
	if cfg.Storage.CacheTTL <= 0 {
		cfg.Storage.CacheTTL = 5 * time.Minute
	}
	if cfg.Service.Name == "" {
		cfg.Service.Name = "permsync"
	}
	if cfg.Service.LogLevel == "" {
		cfg.Service.LogLevel = "info"
	}
}
