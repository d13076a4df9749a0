// Package sessioncore assembles the session management core: account
// registry, per-account storage regions, durable preferences, the bounded
// activity ledger and the notification fanout, all fronted by a single
// session state machine.
//
// Embedding applications construct one Core at startup and interact with
// it through Core.Session, Core.Fanout and Core.Settings.
package sessioncore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/alphamobile/sessioncore/internal/config"
	"github.com/alphamobile/sessioncore/internal/database"
	"github.com/alphamobile/sessioncore/internal/fanout"
	"github.com/alphamobile/sessioncore/internal/ledger"
	"github.com/alphamobile/sessioncore/internal/logging"
	"github.com/alphamobile/sessioncore/internal/metrics"
	"github.com/alphamobile/sessioncore/internal/prefs"
	"github.com/alphamobile/sessioncore/internal/registry"
	"github.com/alphamobile/sessioncore/internal/session"
	"github.com/alphamobile/sessioncore/internal/store"
)

// Options carries the optional collaborators an embedding application may
// supply. Any field may be left nil.
type Options struct {
	// Logger receives structured diagnostics. Defaults to a JSON slog
	// logger on stdout.
	Logger logging.Logger
	// Metrics, when set, registers the core's counters on it.
	Metrics prometheus.Registerer
	// Notifier receives system notifications for non-auth activity.
	Notifier fanout.SystemNotifier
}

// Core owns the assembled components and the database handle behind them.
type Core struct {
	Session  *session.Session
	Fanout   *fanout.Fanout
	Settings *session.Settings

	config *config.Config
	logger logging.Logger
	db     *sql.DB
}

// New opens the database, migrates it, and wires the components together.
// Call Close when done.
func New(ctx context.Context, cfg *config.Config, opts Options) (*Core, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	}

	db, err := database.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	var rec metrics.Recorder = metrics.Nop{}
	if opts.Metrics != nil {
		rec = metrics.NewCollector(opts.Metrics)
	}

	prefsRepo := prefs.NewSQLiteRepository(db)
	settings := session.NewSettings(prefsRepo, logger, cfg.NotificationsEnabled)
	fan := fanout.New(logger, rec, opts.Notifier, settings)

	led := ledger.New(ledger.NewSQLiteRepository(db), logger, rec,
		cfg.LedgerMaxEntries, cfg.LedgerRetention)
	reg := registry.New(registry.NewSQLiteRepository(db), logger)
	st := store.NewManager(cfg.DataDir, logger)

	sess, err := session.New(ctx, session.Deps{
		Registry:        reg,
		Store:           st,
		Ledger:          led,
		Fanout:          fan,
		Prefs:           prefsRepo,
		Logger:          logger,
		Metrics:         rec,
		DefaultLanguage: cfg.DefaultLanguage,
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	// Stale entries are otherwise only evicted when something is appended.
	if err := sess.PruneExpiredActivities(ctx); err != nil {
		logger.Warn(ctx, "failed to prune expired activities", "error", err)
	}

	logger.Info(ctx, "session core ready", "data_dir", cfg.DataDir)
	return &Core{
		Session:  sess,
		Fanout:   fan,
		Settings: settings,
		config:   cfg,
		logger:   logger,
		db:       db,
	}, nil
}

// Close releases the database handle.
func (c *Core) Close() error {
	return c.db.Close()
}
