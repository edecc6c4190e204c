package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"keystore/config"
	"keystore/internal/domain/lifecycle"
	"keystore/internal/errors"

	pgLib "github.com/slighter12/go-lib/database/postgres"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

const (
	poolMonitorInterval     = 5 * time.Second
	poolWaitWarnThreshold   = 50 * time.Millisecond
	poolWaitDebugLogMessage = "Postgres pool wait observed"
	poolWaitWarnLogMessage  = "Postgres pool wait detected"
)

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// New opens the state database. The connection is pinged on start, and the
// pool is watched for connection waits until stop.
func New(params Params) (*gorm.DB, error) {
	db, err := pgLib.New(params.Config.Postgres)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create PostgreSQL client")
	}
	db = db.Session(&gorm.Session{
		// Every statement is a single-row upsert, read or delete.
		SkipDefaultTransaction: true,
		Logger:                 newGormSlogLogger(params.Logger, params.Config),
	})

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get PostgreSQL sql.DB")
	}

	if params.Config.Storage != nil && params.Config.Storage.AutoMigrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
	}

	monitor := &poolMonitor{db: sqlDB, logger: params.Logger, interval: poolMonitorInterval}
	params.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := sqlDB.PingContext(ctx); err != nil {
				return errors.Wrap(err, "failed to ping PostgreSQL")
			}
			monitor.start()

			return nil
		},
		OnStop: func(context.Context) error {
			monitor.stop()

			return errors.WithStack(sqlDB.Close())
		},
	})

	return db, nil
}

// poolMonitor logs whenever requests had to wait for a pooled connection.
type poolMonitor struct {
	db       *sql.DB
	logger   *slog.Logger
	interval time.Duration
	cancel   context.CancelFunc
}

func (m *poolMonitor) start() {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	go m.run(ctx)
}

func (m *poolMonitor) stop() {
	if m.cancel != nil {
		m.cancel()
	}
}

func (m *poolMonitor) run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	prev := m.db.Stats()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cur := m.db.Stats()
			if level, attrs, ok := poolWaitReport(prev, cur); ok {
				msg := poolWaitDebugLogMessage
				if level == slog.LevelWarn {
					msg = poolWaitWarnLogMessage
				}
				m.logger.LogAttrs(ctx, level, msg, attrs...)
			}
			prev = cur
		}
	}
}

// poolWaitReport compares two pool snapshots. It reports nothing when no
// request waited in between, and WARN when the added wait time crosses
// poolWaitWarnThreshold.
func poolWaitReport(prev, cur sql.DBStats) (slog.Level, []slog.Attr, bool) {
	waits := cur.WaitCount - prev.WaitCount
	if waits <= 0 {
		return slog.LevelDebug, nil, false
	}
	waited := cur.WaitDuration - prev.WaitDuration

	level := slog.LevelDebug
	if waited >= poolWaitWarnThreshold {
		level = slog.LevelWarn
	}

	return level, []slog.Attr{
		slog.Int64("waitCountDelta", waits),
		slog.Duration("waitDurationDelta", waited),
		slog.Duration("avgWait", waited/time.Duration(waits)),
		slog.Int("maxOpenConns", cur.MaxOpenConnections),
		slog.Int("openConns", cur.OpenConnections),
		slog.Int("inUseConns", cur.InUse),
		slog.Int("idleConns", cur.Idle),
	}, true
}
