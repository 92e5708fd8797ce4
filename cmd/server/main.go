package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	_ "go.uber.org/automaxprocs"

	"github.com/jrichmond93/ChatbotPOC/internal/api"
	"github.com/jrichmond93/ChatbotPOC/internal/assistant"
	"github.com/jrichmond93/ChatbotPOC/internal/config"
	"github.com/jrichmond93/ChatbotPOC/internal/database"
	"github.com/jrichmond93/ChatbotPOC/internal/debug"
	"github.com/jrichmond93/ChatbotPOC/internal/logger"
	"github.com/jrichmond93/ChatbotPOC/internal/metrics"
	"github.com/jrichmond93/ChatbotPOC/internal/session"
	"github.com/jrichmond93/ChatbotPOC/internal/tasks"
	"github.com/jrichmond93/ChatbotPOC/internal/websocket"
)

const shutdownTimeout = 10 * time.Second

var (
	envFile      string
	addr         string
	databasePath string
	logLevel     string
	debugMode    bool
	sessionTTL   time.Duration
	maxSessions  int
	resetTasks   bool
)

var rootCmd = &cobra.Command{
	Use:           "server",
	Short:         "Stock-aware chatbot backend",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	flags.StringVar(&addr, "addr", "", "listen address (overrides ADDR and PORT)")
	flags.StringVar(&databasePath, "db", "", "task database path or sqlite URI (overrides DATABASE_PATH)")
	flags.StringVar(&logLevel, "log-level", "", "log level: trace|debug|info|warn|error (overrides LOG_LEVEL)")
	flags.BoolVar(&debugMode, "debug", false, "enable debug logging and gin debug mode (overrides DEBUG)")
	flags.DurationVar(&sessionTTL, "session-ttl", 0, "discard sessions idle this long, 0 keeps them (overrides SESSION_TTL)")
	flags.IntVar(&maxSessions, "max-sessions", 0, "cap on live sessions, 0 is unbounded (overrides MAX_SESSIONS)")
	flags.BoolVar(&resetTasks, "reset-tasks", false, "dev only: restore the seeded task list on startup")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

// overrides turns explicitly set flags into config overrides.
func overrides(cmd *cobra.Command) config.Overrides {
	o := config.Overrides{EnvFile: &envFile}
	flags := cmd.Flags()
	if flags.Changed("addr") {
		o.Addr = &addr
	}
	if flags.Changed("db") {
		o.DatabasePath = &databasePath
	}
	if flags.Changed("log-level") {
		o.LogLevel = &logLevel
	}
	if flags.Changed("debug") {
		o.Debug = &debugMode
	}
	if flags.Changed("session-ttl") {
		o.SessionTTL = &sessionTTL
	}
	if flags.Changed("max-sessions") {
		o.MaxSessions = &maxSessions
	}
	return o
}

func run(cmd *cobra.Command, _ []string) error {
	// Load configuration
	cfg, err := config.Load(overrides(cmd))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger.SetLevel(cfg.LogLevel)

	// Set Gin mode
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// Open database
	logger.Infof("Opening database: %s", cfg.DatabasePath)
	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if resetTasks {
		logger.Warnf("--reset-tasks enabled - restoring seeded tasks")
		if err := debug.ResetTasks(cmd.Context(), db.DB); err != nil {
			logger.Warnf("Failed to reset tasks: %v", err)
		}
	}

	// Session store and metrics reference each other through hooks.
	var m *metrics.Metrics
	storeOpts := []session.Option{
		session.WithMaxSessions(cfg.MaxSessions),
		session.WithCreateHook(func(id string) { m.SessionCreated(id) }),
		session.WithEvictHook(func(id string) { m.SessionEvicted(id) }),
	}
	if cfg.SessionTTL > 0 {
		storeOpts = append(storeOpts, session.WithPolicy(session.IdleTTL(cfg.SessionTTL)))
	}
	store := session.NewStore(storeOpts...)
	m = metrics.New(store.Len)

	engine := assistant.NewEngine(store, assistant.WithObserver(m))
	socket := websocket.NewServer(engine)

	router := api.NewRouter(api.Deps{
		Engine:         engine,
		Tasks:          tasks.NewRepository(db),
		Socket:         socket,
		Metrics:        m.Handler(),
		AllowedOrigins: cfg.AllowedOrigins,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.SessionTTL > 0 {
		logger.Infof("Session TTL %s, sweeping every %s", cfg.SessionTTL, cfg.SweepInterval)
		go store.Run(ctx, cfg.SweepInterval)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Chatbot server starting on http://localhost%s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Infof("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	socket.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
