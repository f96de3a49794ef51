package daemon

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/questify-app/questify/internal/api"
	"github.com/questify-app/questify/internal/app/gamify"
	"github.com/questify-app/questify/internal/health"
	"github.com/questify-app/questify/internal/infra/sqlite"
)

// Daemon is the Questify runtime. It wires the SQLite store, the
// gamification engine, and the HTTP API together.
type Daemon struct {
	Config  Config
	DB      *sqlite.DB
	Engine  *gamify.Engine
	Server  *api.Server
	Health  *health.Checker
	Version string

	cancel context.CancelFunc
}

// New creates and initializes a Daemon from the on-disk config.
func New(version string) (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return NewWithConfig(cfg, version)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config, version string) (*Daemon, error) {
	db, err := sqlite.Open(cfg.Storage.Dir)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	engine, err := gamify.New(db, logNotifier{})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init engine: %w", err)
	}
	engine.SetQuestsPerDay(cfg.Gamification.DailyQuestCount)

	checker := health.NewChecker(db, cfg.Storage.Dir)

	srv := api.NewServer(engine, version)
	srv.SetHealth(checker)
	if cfg.Telemetry.Prometheus {
		srv.EnableMetrics()
	}

	return &Daemon{
		Config:  cfg,
		DB:      db,
		Engine:  engine,
		Server:  srv,
		Health:  checker,
		Version: version,
	}, nil
}

// Serve starts the HTTP server and blocks until shutdown. On startup it
// reconciles missed streak days and generates today's quests; a ticker
// repeats both so a daemon left running rolls over midnight correctly.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	if err := d.Engine.ReconcileStreaks(); err != nil {
		log.Printf("[daemon] streak reconcile: %v", err)
	}
	if _, err := d.Engine.GenerateDailyQuests(); err != nil {
		log.Printf("[daemon] quest generation: %v", err)
	}
	go d.rollover(ctx)
	go d.Health.Run(ctx)

	addr := fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		_ = httpServer.Shutdown(shutdownCtx)
		_ = d.DB.Close()
	}()

	fmt.Printf("Questify serving on http://%s\n", addr)
	if d.Config.Telemetry.Prometheus {
		fmt.Printf("  Metrics: http://%s/metrics\n", addr)
	}

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// rollover re-runs streak reconciliation and quest generation every
// hour. Both are idempotent within a day, so only the first tick after
// midnight does real work.
func (d *Daemon) rollover(ctx context.Context) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := d.Engine.ReconcileStreaks(); err != nil {
				log.Printf("[daemon] streak reconcile: %v", err)
			}
			if _, err := d.Engine.GenerateDailyQuests(); err != nil {
				log.Printf("[daemon] quest generation: %v", err)
			}
		}
	}
}

// Close shuts down all daemon resources.
func (d *Daemon) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	if d.DB != nil {
		_ = d.DB.Close()
	}
}

// logNotifier mirrors delivered notifications into the daemon log. The
// outbox remains the transport the dashboard polls.
type logNotifier struct{}

func (logNotifier) ShowLevelUpNotification(level, xpGained int) {
	log.Printf("[notify] level up: reached level %d (+%d XP)", level, xpGained)
}

func (logNotifier) ShowBadgeNotification(name, icon, id string) {
	log.Printf("[notify] badge unlocked: %s %s (%s)", icon, name, id)
}

func (logNotifier) ShowQuestCompletedNotification(title string, xpReward int) {
	log.Printf("[notify] quest complete: %s (+%d XP)", title, xpReward)
}

func (logNotifier) ShowTaskCompletedNotification(xpReward int, early bool) {
	if early {
		log.Printf("[notify] task complete early (+%d XP)", xpReward)
		return
	}
	log.Printf("[notify] task complete (+%d XP)", xpReward)
}
