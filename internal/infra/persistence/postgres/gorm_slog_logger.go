package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"keystore/config"
	deliverycontext "keystore/internal/delivery/context"
	"keystore/internal/errors"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultGormSlowThreshold = 200 * time.Millisecond

// gormSlogLogger routes gorm's query log into slog. Debug mode logs every
// statement; otherwise only failures and slow state reads/writes show up.
type gormSlogLogger struct {
	logger        *slog.Logger
	level         logger.LogLevel
	slowThreshold time.Duration
}

func newGormSlogLogger(baseLogger *slog.Logger, cfg *config.Config) logger.Interface {
	l := &gormSlogLogger{
		logger:        baseLogger,
		level:         logger.Warn,
		slowThreshold: defaultGormSlowThreshold,
	}
	if cfg == nil {
		return l
	}
	if cfg.Env.Debug {
		l.level = logger.Info
	}
	if cfg.Storage != nil && cfg.Storage.SlowQueryThreshold > 0 {
		l.slowThreshold = cfg.Storage.SlowQueryThreshold
	}

	return l
}

func (l *gormSlogLogger) LogMode(level logger.LogLevel) logger.Interface {
	cloned := *l
	cloned.level = level

	return &cloned
}

func (l *gormSlogLogger) Info(ctx context.Context, msg string, args ...any) {
	l.printf(ctx, logger.Info, slog.LevelInfo, msg, args)
}

func (l *gormSlogLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.printf(ctx, logger.Warn, slog.LevelWarn, msg, args)
}

func (l *gormSlogLogger) Error(ctx context.Context, msg string, args ...any) {
	l.printf(ctx, logger.Error, slog.LevelError, msg, args)
}

func (l *gormSlogLogger) printf(ctx context.Context, min logger.LogLevel, level slog.Level, msg string, args []any) {
	if l.logger == nil || l.level < min {
		return
	}

	l.emit(ctx, level, "GORM "+level.String(), slog.String("message", fmt.Sprintf(msg, args...)))
}

// Trace is called by gorm after every statement. sqlAndRowsFn renders the SQL,
// so it only runs once a line is actually going to be written.
func (l *gormSlogLogger) Trace(ctx context.Context, begin time.Time, sqlAndRowsFn func() (string, int64), err error) {
	if l.logger == nil || l.level == logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	level, msg, extra, ok := l.classify(elapsed, err)
	if !ok {
		return
	}

	sql, rows := sqlAndRowsFn()
	attrs := []slog.Attr{
		slog.Duration("elapsed", elapsed),
		slog.Int64("rows", rows),
		slog.String("sql", sql),
	}
	if extra.Key != "" {
		attrs = append(attrs, extra)
	}
	l.emit(ctx, level, msg, attrs...)
}

// classify decides whether a statement is logged and how. A missing state row
// is the normal first-visit case, not a failure.
func (l *gormSlogLogger) classify(elapsed time.Duration, err error) (slog.Level, string, slog.Attr, bool) {
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= logger.Error:
		return slog.LevelError, "GORM query failed", slog.String("error", err.Error()), true
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= logger.Warn:
		return slog.LevelWarn, "GORM slow query", slog.Duration("slowThreshold", l.slowThreshold), true
	case l.level >= logger.Info:
		return slog.LevelInfo, "GORM query", slog.Attr{}, true
	default:
		return 0, "", slog.Attr{}, false
	}
}

func (l *gormSlogLogger) emit(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr) {
	deliverycontext.GetLoggerOrDefault(ctx, l.logger).LogAttrs(ctx, level, msg, attrs...)
}
