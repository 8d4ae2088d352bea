package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port          int    `env:"PORT" envDefault:"3318"`
	DatabaseURL   string `env:"DATABASE_URL"`
	SeedUsers     bool   `env:"SEED_USERS" envDefault:"true"`
	AllowedOrigin string `env:"ALLOWED_ORIGIN"`
	Room          string `env:"SYNC_ROOM" envDefault:"votingRoom"`
}

// ParseFlags loads an optional .env file, reads the environment, then
// applies any flags given in args on top.
func ParseFlags(args []string) (Config, error) {
	return parse(args, ".env")
}

func parse(args []string, dotenv string) (Config, error) {
	if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load %s: %w", dotenv, err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}

	flags := flag.NewFlagSet("voting-admin", flag.ContinueOnError)

	// Flags default to the environment so unset flags keep env values
	flags.IntVar(&cfg.Port, "p", cfg.Port, "Server port")
	flags.StringVar(&cfg.DatabaseURL, "d", cfg.DatabaseURL, "Database URL")
	flags.BoolVar(&cfg.SeedUsers, "seed-users", cfg.SeedUsers, "Seed staff accounts on startup")
	flags.StringVar(&cfg.AllowedOrigin, "origin", cfg.AllowedOrigin, "Allowed CORS origin (empty reflects the request)")
	flags.StringVar(&cfg.Room, "room", cfg.Room, "Room that server-side date changes are published to")

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return Config{}, fmt.Errorf("invalid port %d", cfg.Port)
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}
	if cfg.Room == "" {
		return Config{}, errors.New("room must not be empty")
	}

	return cfg, nil
}
