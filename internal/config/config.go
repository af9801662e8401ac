package config

import (
	"errors"
	"os"
	"time"

	"github.com/Pvlck8888/telegram-casino-mini-app-sub001/internal/util"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config provides configuration for the casino server
type Config struct {
	loaded bool

	// Version is bumped whenever settings read by tables or bots change
	Version int64 `yaml:"version" envconfig:"version"`

	Addr           string `yaml:"addr" envconfig:"addr"`
	DBDriver       string `yaml:"dbDriver" envconfig:"db_driver"`
	DSN            string `yaml:"dsn" envconfig:"dsn"`
	MigrationsPath string `yaml:"migrationsPath" envconfig:"migrations_path"`

	JWT struct {
		PublicKey  string `yaml:"publicKey" envconfig:"public_key"`
		PrivateKey string `yaml:"privateKey" envconfig:"private_key"`
	} `yaml:"jwt"`

	Log struct {
		Level             string `yaml:"level" envconfig:"level"`
		DisableAccessLogs bool   `yaml:"disableAccessLogs" envconfig:"disable_access_logs"`
	} `yaml:"log"`

	// Admins are the occupants allowed to use the admin routes
	Admins []string `yaml:"admins" envconfig:"admins"`

	Redis struct {
		Addr     string `yaml:"addr" envconfig:"addr"`
		Password string `yaml:"password" envconfig:"password"`
		DB       int    `yaml:"db" envconfig:"db"`
		Key      string `yaml:"key" envconfig:"key"`
	} `yaml:"redis"`

	Timing Timing `yaml:"timing"`
	Bots   Bots   `yaml:"bots"`

	Tables []Table `yaml:"tables" ignored:"true"`
	Tiers  []Tier  `yaml:"tiers" ignored:"true"`
}

// Timing holds the clocks every table runs on
type Timing struct {
	ActionSeconds        int `yaml:"actionSeconds" envconfig:"action_seconds"`
	TimeBankSeconds      int `yaml:"timeBankSeconds" envconfig:"time_bank_seconds"`
	TimeBankCapSeconds   int `yaml:"timeBankCapSeconds" envconfig:"time_bank_cap_seconds"`
	TimeBankRegenSeconds int `yaml:"timeBankRegenSeconds" envconfig:"time_bank_regen_seconds"`
	MaxTimeouts          int `yaml:"maxTimeouts" envconfig:"max_timeouts"`
	VoteSeconds          int `yaml:"voteSeconds" envconfig:"vote_seconds"`
	ShowdownSeconds      int `yaml:"showdownSeconds" envconfig:"showdown_seconds"`
	KickGraceSeconds     int `yaml:"kickGraceSeconds" envconfig:"kick_grace_seconds"`
	NextHandSeconds      int `yaml:"nextHandSeconds" envconfig:"next_hand_seconds"`
}

// Bots configures the simulated players
type Bots struct {
	Enabled bool `yaml:"enabled" envconfig:"enabled"`
	// DailyBudget is the most the house lets bots buy in for per day
	DailyBudget  int `yaml:"dailyBudget" envconfig:"daily_budget"`
	ResetHourUTC int `yaml:"resetHourUtc" envconfig:"reset_hour_utc"`
	ThinkMillis  int `yaml:"thinkMillis" envconfig:"think_millis"`
}

// Table is a cash game table created at boot
type Table struct {
	Name             string `yaml:"name"`
	Seats            int    `yaml:"seats"`
	SmallBlind       int    `yaml:"smallBlind"`
	BigBlind         int    `yaml:"bigBlind"`
	MinBuyIn         int    `yaml:"minBuyIn"`
	MaxBuyIn         int    `yaml:"maxBuyIn"`
	RakeBasisPoints  int    `yaml:"rakeBasisPoints"`
	RakeCapBigBlinds int    `yaml:"rakeCapBigBlinds"`
	RunItTwice       bool   `yaml:"runItTwice"`
	Bots             int    `yaml:"bots"`
	BotStyle         string `yaml:"botStyle"`
}

// Tier is a Spin & Go buy-in level
type Tier struct {
	ID            string       `yaml:"id"`
	BuyIn         int          `yaml:"buyIn"`
	Players       int          `yaml:"players"`
	StartingStack int          `yaml:"startingStack"`
	SmallBlind    int          `yaml:"smallBlind"`
	BigBlind      int          `yaml:"bigBlind"`
	Multipliers   []Multiplier `yaml:"multipliers"`
}

// Multiplier is one entry of a tier's prize table
type Multiplier struct {
	Value  int `yaml:"value"`
	Weight int `yaml:"weight"`
}

// Settings is the versioned snapshot of configuration handed to tables and bots
type Settings struct {
	Version int64
	Timing  Timing
	Bots    Bots
}

// Duration converts seconds to a time.Duration
func Duration(seconds int) time.Duration {
	return time.Duration(seconds) * time.Second
}

var config Config

// Instance returns a singleton instance
// If the config hasn't been loaded, it will be loaded
func Instance() Config {
	if !config.loaded {
		if err := Load(); err != nil {
			panic(err)
		}
	}

	return config
}

// Settings returns the snapshot of the loaded configuration
func (c Config) Settings() Settings {
	return Settings{
		Version: c.Version,
		Timing:  c.Timing,
		Bots:    c.Bots,
	}
}

// IsAdmin returns true if the occupant can use the admin routes
func (c Config) IsAdmin(occupant string) bool {
	for _, admin := range c.Admins {
		if admin == occupant {
			return true
		}
	}

	return false
}

// Load will load the configuration
// A .env file and the YAML file are both optional. Environment variables prefixed with CASINO_ win.
func Load() error {
	_ = godotenv.Load()

	cfg := DefaultConfig()

	configFile := util.Getenv("CASINO_CONFIG_FILE", "config.yaml")
	file, err := os.Open(configFile)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return err
	default:
		defer file.Close()
		if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
			return err
		}
	}

	if err := envconfig.Process("casino", &cfg); err != nil {
		return err
	}

	cfg.loaded = true
	config = cfg
	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	c := Config{
		Version:        1,
		Addr:           ":5000",
		DBDriver:       "postgres",
		DSN:            "postgres://postgres@localhost:5432/postgres?sslmode=disable",
		MigrationsPath: "",
		Admins:         []string{},
		Timing: Timing{
			ActionSeconds:        15,
			TimeBankSeconds:      30,
			TimeBankCapSeconds:   60,
			TimeBankRegenSeconds: 5,
			MaxTimeouts:          2,
			VoteSeconds:          10,
			ShowdownSeconds:      5,
			KickGraceSeconds:     60,
			NextHandSeconds:      2,
		},
		Bots: Bots{
			Enabled:      false,
			DailyBudget:  10000,
			ResetHourUTC: 0,
			ThinkMillis:  1500,
		},
		Tables: []Table{
			{
				Name:             "Micro Stakes",
				Seats:            6,
				SmallBlind:       1,
				BigBlind:         2,
				MinBuyIn:         40,
				MaxBuyIn:         200,
				RakeBasisPoints:  500,
				RakeCapBigBlinds: 3,
				RunItTwice:       true,
			},
			{
				Name:             "Full Ring",
				Seats:            9,
				SmallBlind:       5,
				BigBlind:         10,
				MinBuyIn:         200,
				MaxBuyIn:         1000,
				RakeBasisPoints:  500,
				RakeCapBigBlinds: 3,
				RunItTwice:       true,
			},
		},
		Tiers: []Tier{
			{
				ID:            "spin-10",
				BuyIn:         10,
				Players:       3,
				StartingStack: 500,
				SmallBlind:    10,
				BigBlind:      20,
				Multipliers: []Multiplier{
					{Value: 2, Weight: 75},
					{Value: 3, Weight: 15},
					{Value: 5, Weight: 8},
					{Value: 10, Weight: 2},
				},
			},
		},
	}

	c.JWT.PublicKey = ".keys/public.pem"
	c.JWT.PrivateKey = ".keys/private.key"
	c.Log.Level = "info"
	c.Redis.Key = "casino:matchmaking"

	return c
}
