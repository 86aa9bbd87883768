package logger

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormAdapter routes gorm's logs through zap
type GormAdapter struct {
	log           *zap.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

// NewGormAdapter creates a gorm logger backed by zap
func NewGormAdapter(log *zap.Logger) *GormAdapter {
	return &GormAdapter{
		log:           log,
		level:         gormlogger.Warn,
		slowThreshold: 200 * time.Millisecond,
	}
}

// LogMode implements gormlogger.Interface
func (a *GormAdapter) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *a
	clone.level = level
	return &clone
}

// Info implements gormlogger.Interface
func (a *GormAdapter) Info(_ context.Context, msg string, args ...any) {
	if a.level >= gormlogger.Info {
		a.log.Sugar().Infof(msg, args...)
	}
}

// Warn implements gormlogger.Interface
func (a *GormAdapter) Warn(_ context.Context, msg string, args ...any) {
	if a.level >= gormlogger.Warn {
		a.log.Sugar().Warnf(msg, args...)
	}
}

// Error implements gormlogger.Interface
func (a *GormAdapter) Error(_ context.Context, msg string, args ...any) {
	if a.level >= gormlogger.Error {
		a.log.Sugar().Errorf(msg, args...)
	}
}

// Trace implements gormlogger.Interface
func (a *GormAdapter) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if a.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	fields := []zap.Field{
		zap.String("sql", sql),
		zap.Int64("rows", rows),
		zap.Duration("elapsed", elapsed),
	}

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && a.level >= gormlogger.Error:
		a.log.Error("gorm query failed", append(fields, zap.Error(err))...)
	case elapsed > a.slowThreshold && a.level >= gormlogger.Warn:
		a.log.Warn("gorm slow query", fields...)
	case a.level >= gormlogger.Info:
		a.log.Debug("gorm query", fields...)
	}
}
