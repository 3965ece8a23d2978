package logger

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger routes gorm SQL logs through zap. It prefers the request logger
// stored in ctx so SQL lines carry the request_id.
type GormLogger struct {
	base          *zap.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

var _ gormlogger.Interface = (*GormLogger)(nil)

// NewGormLogger creates a gorm logger. Queries slower than slowThreshold are logged at warn level;
// slowThreshold <= 0 disables slow query logging.
func NewGormLogger(base *zap.Logger, slowThreshold time.Duration) *GormLogger {
	return &GormLogger{
		base:          base.WithOptions(zap.AddCallerSkip(3)),
		level:         gormlogger.Warn,
		slowThreshold: slowThreshold,
	}
}

// LogMode returns a copy with the given level.
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	cp := *l
	cp.level = level
	return &cp
}

func (l *GormLogger) logger(ctx context.Context) *zap.Logger {
	if reqLogger, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok {
		return reqLogger.WithOptions(zap.AddCallerSkip(3))
	}
	return l.base
}

// Info logs gorm informational messages.
func (l *GormLogger) Info(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Info {
		l.logger(ctx).Sugar().Infof(msg, args...)
	}
}

// Warn logs gorm warnings.
func (l *GormLogger) Warn(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Warn {
		l.logger(ctx).Sugar().Warnf(msg, args...)
	}
}

// Error logs gorm errors.
func (l *GormLogger) Error(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Error {
		l.logger(ctx).Sugar().Errorf(msg, args...)
	}
}

// Trace logs a finished SQL statement. Record-not-found is not treated as an error.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	switch {
	case err != nil && l.level >= gormlogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		l.logger(ctx).Error("sql_error",
			zap.Error(err), zap.String("sql", sql), zap.Int64("rows", rows), zap.Duration("elapsed", elapsed))
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= gormlogger.Warn:
		sql, rows := fc()
		l.logger(ctx).Warn("sql_slow",
			zap.String("sql", sql), zap.Int64("rows", rows), zap.Duration("elapsed", elapsed),
			zap.Duration("threshold", l.slowThreshold))
	case l.level >= gormlogger.Info:
		sql, rows := fc()
		l.logger(ctx).Debug("sql",
			zap.String("sql", sql), zap.Int64("rows", rows), zap.Duration("elapsed", elapsed))
	}
}
