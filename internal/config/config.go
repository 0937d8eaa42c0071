package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  Server
	Log     Log
	Store   Store
	Daily   Daily
	Share   Share
	Quiz    Quiz
	Catalog Catalog
}

type Server struct {
	Port           string
	ClientOrigin   string
	RequestTimeout time.Duration
}

type Log struct {
	Level  string
	Pretty bool
}

type Store struct {
	Kind         string // sqlite | memory
	DatabasePath string
}

type Daily struct {
	Salt    string
	Variant string
}

type Share struct {
	Secret string
	TTL    time.Duration
}

type Quiz struct {
	AdvanceDelay time.Duration
}

type Catalog struct {
	File string // empty: embedded list
}

var defaults = map[string]any{
	"PORT":               "3001",
	"CLIENT_ORIGIN":      "http://localhost:5173",
	"REQUEST_TIMEOUT":    "10s",
	"LOG_LEVEL":          "info",
	"LOG_PRETTY":         false,
	"STORE":              "sqlite",
	"DATABASE_PATH":      "./data/flaggle.db",
	"DAILY_SALT":         "local_dev_salt",
	"DAILY_VARIANT":      "classic",
	"SHARE_SECRET":       "dev_secret_change_me",
	"SHARE_TTL":          "720h",
	"QUIZ_ADVANCE_DELAY": "2s",
	"COUNTRIES_FILE":     "",
}

// Load reads configuration from the environment. A .env file is expected to
// have been loaded into the environment already.
func Load() (*Config, error) {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.AutomaticEnv()
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	var c Config

	c.Server.Port = v.GetString("PORT")
	c.Server.ClientOrigin = v.GetString("CLIENT_ORIGIN")
	c.Server.RequestTimeout = v.GetDuration("REQUEST_TIMEOUT")

	c.Log.Level = strings.ToLower(v.GetString("LOG_LEVEL"))
	c.Log.Pretty = v.GetBool("LOG_PRETTY")

	c.Store.Kind = strings.ToLower(v.GetString("STORE"))
	c.Store.DatabasePath = v.GetString("DATABASE_PATH")

	c.Daily.Salt = v.GetString("DAILY_SALT")
	c.Daily.Variant = strings.ToLower(v.GetString("DAILY_VARIANT"))

	c.Share.Secret = v.GetString("SHARE_SECRET")
	c.Share.TTL = v.GetDuration("SHARE_TTL")

	c.Quiz.AdvanceDelay = v.GetDuration("QUIZ_ADVANCE_DELAY")
	c.Catalog.File = v.GetString("COUNTRIES_FILE")

	switch c.Store.Kind {
	case "sqlite", "memory":
	default:
		return nil, fmt.Errorf("STORE must be sqlite or memory, got %q", c.Store.Kind)
	}
	if c.Server.RequestTimeout <= 0 {
		return nil, fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	if c.Share.TTL <= 0 {
		return nil, fmt.Errorf("SHARE_TTL must be positive")
	}
	if c.Quiz.AdvanceDelay < 0 {
		return nil, fmt.Errorf("QUIZ_ADVANCE_DELAY must not be negative")
	}
	return &c, nil
}
