package telemetry

import (
	"context"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database query tracing.
type DBTracingConfig struct {
	// Enabled turns query tracing on.
	Enabled bool
	// LogFullSQL includes query parameters in span attributes. Person rows
	// carry bank accounts and tax numbers, so this stays off outside dev.
	LogFullSQL bool
	// SlowQueryThresh marks keyed lookups and writes as slow. Defaults to
	// 200ms when zero.
	SlowQueryThresh time.Duration
	// SlowAggregateThresh applies to raw rollup queries instead, such as the
	// revenue statistics that scan every invoice row. Defaults to five times
	// SlowQueryThresh when zero.
	SlowAggregateThresh time.Duration
	// DBSystem names the backing database in span attributes.
	DBSystem string
	// WithoutVariables strips bind variables from the recorded SQL.
	WithoutVariables bool
}

// DBTracingPlugin wraps otelgorm and enriches its spans with row counts,
// error status and slow query events.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

// NewDBTracingPlugin creates a database tracing plugin, filling threshold
// defaults for zero values.
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	if cfg.SlowQueryThresh == 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}
	if cfg.SlowAggregateThresh == 0 {
		cfg.SlowAggregateThresh = 5 * cfg.SlowQueryThresh
	}
	return &DBTracingPlugin{
		config: cfg,
		logger: logger,
	}
}

// RegisterOtelGorm installs otelgorm and the enrichment callbacks on the
// given GORM instance. A no-op when tracing is disabled.
func (p *DBTracingPlugin) RegisterOtelGorm(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{
		otelgorm.WithDBName(p.config.DBSystem),
	}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}

	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	if err := p.registerTimingCallbacks(db); err != nil {
		return err
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
		zap.Duration("slow_aggregate_threshold", p.config.SlowAggregateThresh),
		zap.String("db_system", p.config.DBSystem),
	)

	return nil
}

// callbackSlot is the registration point returned by GORM's
// Callback().<Op>().Before/After chain.
type callbackSlot interface {
	Register(name string, fn func(*gorm.DB)) error
}

// registerTimingCallbacks brackets every GORM operation with a start-time
// marker and the span enrichment in finishQuery.
func (p *DBTracingPlugin) registerTimingCallbacks(db *gorm.DB) error {
	markStart := func(db *gorm.DB) {
		if db.Statement.Context != nil {
			db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey, time.Now())
		}
	}

	slots := []struct {
		op     string
		before callbackSlot
		after  callbackSlot
	}{
		{"create", db.Callback().Create().Before("gorm:create"), db.Callback().Create().After("gorm:create")},
		{"query", db.Callback().Query().Before("gorm:query"), db.Callback().Query().After("gorm:query")},
		{"update", db.Callback().Update().Before("gorm:update"), db.Callback().Update().After("gorm:update")},
		{"delete", db.Callback().Delete().Before("gorm:delete"), db.Callback().Delete().After("gorm:delete")},
		{"row", db.Callback().Row().Before("gorm:row"), db.Callback().Row().After("gorm:row")},
		{"raw", db.Callback().Raw().Before("gorm:raw"), db.Callback().Raw().After("gorm:raw")},
	}

	for _, s := range slots {
		if err := s.before.Register("query_timing:before_"+s.op, markStart); err != nil {
			return err
		}
		if err := s.after.Register("query_timing:after_"+s.op, p.finishQuery); err != nil {
			return err
		}
	}

	return nil
}

// finishQuery runs after each database operation and annotates the active
// otelgorm span.
func (p *DBTracingPlugin) finishQuery(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}

	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}

	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}

	// A miss on a keyed lookup is an expected outcome, not a span error
	if db.Error != nil && db.Error != gorm.ErrRecordNotFound {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	startTime, ok := ctx.Value(queryStartKey).(time.Time)
	if !ok {
		return
	}

	elapsed := time.Since(startTime)
	if threshold := p.slowThresholdFor(db); elapsed > threshold {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
		span.AddEvent("slow_query_warning", trace.WithAttributes(
			attribute.Int64("duration_ms", elapsed.Milliseconds()),
			attribute.Int64("threshold_ms", threshold.Milliseconds()),
		))
	}
}

// slowThresholdFor picks the threshold for the finished statement. Raw
// statements have no model-bound table, that is the shape of the statistics
// rollups which legitimately take longer than keyed lookups.
func (p *DBTracingPlugin) slowThresholdFor(db *gorm.DB) time.Duration {
	if db.Statement.Table == "" {
		return p.config.SlowAggregateThresh
	}
	return p.config.SlowQueryThresh
}

type contextKey string

const queryStartKey contextKey = "query_start_time"
