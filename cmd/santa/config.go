package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/KirkDiggler/secretsanta/internal/models"
	"github.com/KirkDiggler/secretsanta/internal/roster"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	storeFile  = "file"
	storeRedis = "redis"
)

// Config is filled from flags, SANTA_* environment variables and an
// optional config file, in that order of precedence.
type Config struct {
	configFile     string
	store          string
	stateFile      string
	redisAddr      string
	redisPassword  string
	redisDB        int
	redisPrefix    string
	logLevel       string
	revealInterval time.Duration

	// serve
	bind      string
	port      int
	adminHash string

	// reset
	yes bool

	fs afero.Fs
	v  *viper.Viper
}

func (c *Config) validate() error {
	switch c.store {
	case storeFile:
		if c.stateFile == "" {
			return errors.New("--state-file cannot be empty with the file store")
		}
	case storeRedis:
		if c.redisAddr == "" {
			return errors.New("--redis-addr cannot be empty with the redis store")
		}
	default:
		return fmt.Errorf("invalid store %q (must be %q or %q)", c.store, storeFile, storeRedis)
	}

	if _, err := logrus.ParseLevel(c.logLevel); err != nil {
		return fmt.Errorf("invalid log level %q", c.logLevel)
	}

	return nil
}

func (c *Config) validateServe() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	return nil
}

func newViper(fs afero.Fs) *viper.Viper {
	v := viper.New()
	v.SetFs(fs)
	v.SetEnvPrefix("SANTA")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// load reads the config file, if any, and copies every value viper knows
// about into flags the user did not set explicitly.
func (c *Config) load(flags *pflag.FlagSet) error {
	if c.configFile != "" {
		c.v.SetConfigFile(c.configFile)
		if err := c.v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var errs []error
	flags.VisitAll(func(f *pflag.Flag) {
		_ = c.v.BindPFlag(f.Name, f)
		_ = c.v.BindEnv(f.Name)
		if !f.Changed && c.v.IsSet(f.Name) {
			if err := flags.Set(f.Name, fmt.Sprintf("%v", c.v.Get(f.Name))); err != nil {
				errs = append(errs, fmt.Errorf("invalid value for %s: %w", f.Name, err))
			}
		}
	})

	return errors.Join(errs...)
}

// loadRoster returns the roster from the config file, or the built-in one when
// the file has no roster section.
func (c *Config) loadRoster() (*roster.Roster, error) {
	if !c.v.IsSet("roster") {
		return roster.Default(), nil
	}

	var participants []models.Participant
	if err := c.v.UnmarshalKey("roster", &participants); err != nil {
		return nil, fmt.Errorf("failed to parse roster: %w", err)
	}

	r, err := roster.New(participants)
	if err != nil {
		return nil, fmt.Errorf("invalid roster: %w", err)
	}

	return r, nil
}
