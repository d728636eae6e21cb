package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/angelmondragon/farmfresh-backend/pkg/logger"
)

// queryLogger routes gorm's trace hook into the service logger. Only failed
// statements and statements slower than the threshold are logged.
type queryLogger struct {
	logg          *logger.Logger
	slowThreshold time.Duration
}

func newQueryLogger(logg *logger.Logger, slowThreshold time.Duration) gormlogger.Interface {
	if logg == nil {
		return gormlogger.Discard
	}
	return &queryLogger{logg: logg, slowThreshold: slowThreshold}
}

func (q *queryLogger) LogMode(gormlogger.LogLevel) gormlogger.Interface { return q }

func (q *queryLogger) Info(context.Context, string, ...any) {}

func (q *queryLogger) Warn(context.Context, string, ...any) {}

func (q *queryLogger) Error(context.Context, string, ...any) {}

func (q *queryLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	failed := err != nil && !errors.Is(err, gorm.ErrRecordNotFound)
	slow := q.slowThreshold > 0 && elapsed > q.slowThreshold
	if !failed && !slow {
		return
	}

	sql, rows := fc()
	ctx = q.logg.WithFields(ctx, map[string]any{
		"sql":         sql,
		"rows":        rows,
		"duration_ms": elapsed.Milliseconds(),
	})
	if failed {
		q.logg.Warn(ctx, "db.query_failed")
		return
	}
	q.logg.Warn(ctx, "db.slow_query")
}
