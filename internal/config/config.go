package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/jrichmond93/ChatbotPOC/internal/logger"
)

const (
	defaultPort          = 5000
	defaultDatabasePath  = "file:tasks?mode=memory&cache=shared"
	defaultSweepInterval = time.Minute
)

// Config holds server configuration.
type Config struct {
	// Addr is the listen address for the HTTP server.
	Addr           string
	DatabasePath   string
	Debug          bool
	LogLevel       logger.Level
	AllowedOrigins []string
	// SessionTTL is the idle time after which a session is discarded. Zero
	// keeps sessions for the life of the process.
	SessionTTL    time.Duration
	SweepInterval time.Duration
	// MaxSessions caps live sessions. Zero means unbounded.
	MaxSessions int
}

// Overrides optionally overrides values from environment variables.
//
// A nil pointer means "use the environment/default value".
type Overrides struct {
	// EnvFile is a dotenv file loaded before the environment is read.
	// Variables already set in the environment win. A missing file is ignored.
	EnvFile      *string
	Addr         *string
	DatabasePath *string
	Debug        *bool
	LogLevel     *string
	SessionTTL   *time.Duration
	MaxSessions  *int
}

// Load loads server configuration from environment variables and applies any
// explicit overrides.
func Load(overrides Overrides) (*Config, error) {
	if overrides.EnvFile != nil && *overrides.EnvFile != "" {
		if err := godotenv.Load(*overrides.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", *overrides.EnvFile, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", defaultPort)
	v.SetDefault("database_path", defaultDatabasePath)
	v.SetDefault("debug", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("allowed_origins", "*")
	v.SetDefault("session_ttl", time.Duration(0))
	v.SetDefault("session_sweep_interval", defaultSweepInterval)
	v.SetDefault("max_sessions", 0)

	var errs *multierror.Error

	addr := v.GetString("addr")
	if addr == "" {
		port := v.GetInt("port")
		if port <= 0 || port > 65535 {
			errs = multierror.Append(errs, fmt.Errorf("PORT %q is not a valid port", v.GetString("port")))
		}
		addr = fmt.Sprintf(":%d", port)
	}
	if overrides.Addr != nil {
		addr = *overrides.Addr
	}

	dbPath := v.GetString("database_path")
	if overrides.DatabasePath != nil {
		dbPath = *overrides.DatabasePath
	}

	debug := v.GetBool("debug")
	if overrides.Debug != nil {
		debug = *overrides.Debug
	}

	levelStr := v.GetString("log_level")
	if overrides.LogLevel != nil {
		levelStr = *overrides.LogLevel
	}
	level, err := logger.ParseLevel(levelStr)
	if err != nil {
		errs = multierror.Append(errs, err)
	}
	if debug && level > logger.LevelDebug {
		level = logger.LevelDebug
	}

	ttl, err := duration(v, "session_ttl")
	if err != nil {
		errs = multierror.Append(errs, err)
	}
	if overrides.SessionTTL != nil {
		ttl = *overrides.SessionTTL
	}

	sweep, err := duration(v, "session_sweep_interval")
	if err != nil {
		errs = multierror.Append(errs, err)
	}

	maxSessions := v.GetInt("max_sessions")
	if overrides.MaxSessions != nil {
		maxSessions = *overrides.MaxSessions
	}

	cfg := &Config{
		Addr:           addr,
		DatabasePath:   dbPath,
		Debug:          debug,
		LogLevel:       level,
		AllowedOrigins: splitList(v.GetString("allowed_origins")),
		SessionTTL:     ttl,
		SweepInterval:  sweep,
		MaxSessions:    maxSessions,
	}
	if err := cfg.Validate(); err != nil {
		errs = multierror.Append(errs, err)
	}
	return cfg, errs.ErrorOrNil()
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs *multierror.Error
	if c.Addr == "" {
		errs = multierror.Append(errs, errors.New("listen address must not be empty"))
	}
	if c.DatabasePath == "" {
		errs = multierror.Append(errs, errors.New("DATABASE_PATH must not be empty"))
	}
	if c.SessionTTL < 0 {
		errs = multierror.Append(errs, fmt.Errorf("SESSION_TTL must not be negative, got %s", c.SessionTTL))
	}
	if c.SessionTTL > 0 && c.SweepInterval <= 0 {
		errs = multierror.Append(errs, fmt.Errorf("SESSION_SWEEP_INTERVAL must be positive when SESSION_TTL is set, got %s", c.SweepInterval))
	}
	if c.MaxSessions < 0 {
		errs = multierror.Append(errs, fmt.Errorf("MAX_SESSIONS must not be negative, got %d", c.MaxSessions))
	}
	return errs.ErrorOrNil()
}

// duration reads key as a Go duration string ("90s", "1h").
func duration(v *viper.Viper, key string) (time.Duration, error) {
	switch raw := v.Get(key).(type) {
	case time.Duration:
		return raw, nil
	case string:
		if raw == "" {
			return 0, nil
		}
		d, err := time.ParseDuration(raw)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", strings.ToUpper(key), err)
		}
		return d, nil
	default:
		return v.GetDuration(key), nil
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
