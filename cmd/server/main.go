package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/unihub/unidrop/auth"
	"github.com/unihub/unidrop/httpx"
	"github.com/unihub/unidrop/internal/ai"
	"github.com/unihub/unidrop/internal/config"
	"github.com/unihub/unidrop/internal/db"
	"github.com/unihub/unidrop/internal/messaging"
	"github.com/unihub/unidrop/internal/messaging/kafka"
	"github.com/unihub/unidrop/internal/notify"
	"github.com/unihub/unidrop/internal/policy"
	"github.com/unihub/unidrop/internal/scout"
	"github.com/unihub/unidrop/internal/settings"
	"github.com/unihub/unidrop/internal/store"
)

var (
	migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")
	seedOnlyFlag    = flag.Bool("seed-only", false, "Run DB seed and exit")
)

func main() {
	flag.Parse()

	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg := config.Load()
	slog.SetDefault(newLogger(cfg.App.Dev))

	if err := run(cfg); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func newLogger(dev bool) *slog.Logger {
	if dev {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, nil))
}

func run(cfg *config.Config) error {
	if cfg.App.SessionSecret == "" && !cfg.App.Dev {
		return errors.New("SESSION_SECRET is required outside dev mode")
	}
	auth.SetSecret(cfg.App.SessionSecret)

	st, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	if *migrateOnlyFlag {
		slog.Info("migrations completed")
		return nil
	}

	if cfg.App.Seed || *seedOnlyFlag {
		defaults, err := settings.Load(cfg.App.SettingsFile)
		if err != nil {
			return err
		}
		admin := db.Admin{Email: cfg.App.AdminEmail, Password: cfg.App.AdminPassword}
		if err := db.Seed(context.Background(), st, defaults, admin); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		if *seedOnlyFlag {
			slog.Info("seeding completed")
			return nil
		}
	}

	// Sessions stay valid only while the user row exists.
	auth.SetUserVerifier(func(ctx context.Context, uid uint) bool {
		_, err := st.GetUser(ctx, uid)
		return err == nil
	})

	publisher := newPublisher(cfg.Kafka)
	defer publisher.Close()

	scouts, err := openScoutStore(cfg.Scout)
	if err != nil {
		return err
	}
	defer scouts.Close()

	routerCfg := policy.NewRouterConfig(policy.Deps{
		Store:     st,
		Gateway:   newGateway(cfg.AI),
		Publisher: publisher,
		Notifier:  newNotifier(cfg.Telegram),
		Scouts:    scouts,
		Logger:    slog.Default(),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      withLogging(withRecover(NewApp(routerCfg))),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.Server.Port, "dev", cfg.App.Dev, "db", cfg.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-quit:
		slog.Info("shutdown signal received")
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("error during shutdown", "err", err)
	}
	slog.Info("server stopped gracefully")
	return nil
}

// openStore selects the persistence adapter. DB_DRIVER=memory keeps
// everything in process.
func openStore(cfg *config.Config) (store.Store, func(), error) {
	if cfg.Database.Driver == "memory" {
		slog.Warn("using in-memory store, data is lost on exit")
		return store.NewMemory(), func() {}, nil
	}

	gdb, err := db.Open(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	closeDB := func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	if cfg.App.Migrations || *migrateOnlyFlag {
		if err := db.Migrate(gdb); err != nil {
			closeDB()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
	}
	return store.NewGorm(gdb), closeDB, nil
}

func newPublisher(cfg config.KafkaConfig) messaging.Publisher {
	if len(cfg.Brokers) == 0 {
		return messaging.Nop{}
	}
	slog.Info("publishing domain events", "brokers", cfg.Brokers, "prefix", cfg.TopicPrefix)
	return kafka.NewPublisher(cfg.Brokers, cfg.TopicPrefix)
}

func newNotifier(cfg config.TelegramConfig) notify.Notifier {
	if cfg.BotToken == "" {
		return notify.Nop{}
	}
	tg, err := notify.NewTelegram(cfg.BotToken, cfg.AdminChatID)
	if err != nil {
		slog.Warn("telegram notifications disabled", "err", err)
		return notify.Nop{}
	}
	return tg
}

func newGateway(cfg config.AIConfig) ai.Gateway {
	if !cfg.Enabled() {
		slog.Warn("AI_API_KEY not set, assistant features use fallbacks")
		return ai.Disabled{}
	}
	c, err := ai.NewClient(context.Background(), cfg.APIKey, cfg.Model, cfg.Endpoint, cfg.Timeout)
	if err != nil {
		slog.Warn("AI gateway disabled", "err", err)
		return ai.Disabled{}
	}
	return c
}

func openScoutStore(cfg config.ScoutConfig) (scout.IdentityStore, error) {
	switch cfg.Store {
	case "redis":
		rs := scout.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := rs.Ping(ctx); err != nil {
			_ = rs.Close()
			return nil, fmt.Errorf("connect redis %s: %w", cfg.RedisAddr, err)
		}
		return rs, nil
	case "badger", "":
		bs, err := scout.OpenBadger(cfg.BadgerDir)
		if err != nil {
			return nil, err
		}
		return bs, nil
	}
	return nil, fmt.Errorf("unsupported SCOUT_STORE %q", cfg.Store)
}

// statusRecorder captures the response status for the access log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// withLogging adds request logging middleware.
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		slog.Info("request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", time.Since(start))
	})
}

// withRecover turns a handler panic into a 500 JSON error.
func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				slog.Error("panic serving request", "method", r.Method, "path", r.URL.Path, "panic", v)
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
