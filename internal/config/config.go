package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env        string        `yaml:"env" env:"ENV" env-default:"local"`
	Discord    Discord       `yaml:"discord"`
	Database   Database      `yaml:"database"`
	HTTPServer HTTPServer    `yaml:"http_server"`
	Clients    ClientsConfig `yaml:"clients"`
	Cache      Cache         `yaml:"cache"`
	Weekly     Weekly        `yaml:"weekly"`
	Legacy     Legacy        `yaml:"legacy"`
}

type Discord struct {
	Token         string `yaml:"token" env:"DISCORD_TOKEN" env-required:"true"`
	GuildID       string `yaml:"guild_id" env:"DISCORD_GUILD_ID"`
	CommandPrefix string `yaml:"command_prefix" env:"COMMAND_PREFIX" env-default:"!"`
}

type Database struct {
	Path string `yaml:"path" env:"DATABASE_PATH"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:":8080"`
	Timeout     time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	APIToken    string        `yaml:"api_token" env:"API_TOKEN"`
}

type BGGClient struct {
	BaseURL      string        `yaml:"base_url" env:"BGG_BASE_URL" env-default:"https://boardgamegeek.com/xmlapi2"`
	Token        string        `yaml:"token" env:"BGG_API_TOKEN"`
	Timeout      time.Duration `yaml:"timeout" env:"BGG_TIMEOUT" env-default:"30s"`
	RetriesCount int           `yaml:"retries_count" env:"BGG_RETRIES" env-default:"3"`
	RetryDelay   time.Duration `yaml:"retry_delay" env:"BGG_RETRY_DELAY" env-default:"2s"`
}

type SteamClient struct {
	StoreURL string        `yaml:"store_url" env:"STEAM_STORE_URL" env-default:"https://store.steampowered.com"`
	Timeout  time.Duration `yaml:"timeout" env:"STEAM_TIMEOUT" env-default:"10s"`
	Country  string        `yaml:"country" env:"STEAM_COUNTRY" env-default:"US"`
	Language string        `yaml:"language" env:"STEAM_LANGUAGE" env-default:"english"`
}

type XboxClient struct {
	BaseURL string        `yaml:"base_url" env:"XBOX_BASE_URL" env-default:"https://xbl.io/api/v2"`
	APIKey  string        `yaml:"api_key" env:"XBOX_API_KEY"`
	Timeout time.Duration `yaml:"timeout" env:"XBOX_TIMEOUT" env-default:"10s"`
}

type ClientsConfig struct {
	BGG   BGGClient   `yaml:"bgg"`
	Steam SteamClient `yaml:"steam"`
	Xbox  XboxClient  `yaml:"xbox"`
}

type Cache struct {
	GameTTL time.Duration `yaml:"game_ttl" env:"GAME_CACHE_TTL" env-default:"24h"`
}

type Weekly struct {
	Enabled bool   `yaml:"enabled" env:"WEEKLY_ENABLED" env-default:"true"`
	Cron    string `yaml:"cron" env:"WEEKLY_CRON" env-default:"0 9 * * 1"`
}

type Legacy struct {
	ImportPath string `yaml:"import_path" env:"LEGACY_IMPORT_PATH" env-default:"itch_pak.json"`
}

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

// Load reads the yaml file at path with environment overrides, or the
// environment alone when path is empty.
func Load(path string) (*Config, error) {
	const op = "config.Load"

	var cfg Config

	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return &cfg, nil
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s: config file does not exist: %s", op, path)
	}

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	configPath := flag.String("config", "", "path to config yaml file")
	flag.Parse()

	if err := LoadDotEnv(".env"); err != nil {
		log.Fatalf("cannot read .env: %s", err)
	}

	path := *configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}

	cfg, err := Load(path)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return cfg
}

// DatabasePath returns the configured path or the bot's default.
func (cfg *Config) DatabasePath(fallback string) string {
	if cfg.Database.Path != "" {
		return cfg.Database.Path
	}
	return fallback
}
