// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package store is the persistence gateway for the film catalog.
//
// # Description
//
// Gateway wraps a gorm connection and exposes typed operations per entity.
// Every create, update and delete runs in one transaction that validates
// the candidate, checks references and performs the write. Deleting a genre
// or director that films still reference is refused with ErrHasDependents.
//
// Two drivers are supported: SQLite (pure Go, the default) and PostgreSQL.
//
// # Thread Safety
//
// Gateway is safe for concurrent use. SQLite runs with a single open
// connection, so writers are serialised by the pool.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/AleutianAI/filmcatalog/services/catalog/datatypes"
)

// Supported driver names.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DefaultSQLiteDSN is used when the SQLite driver is selected without a DSN.
const DefaultSQLiteDSN = "filmcatalog.db"

var clauseForUpdate = clause.Locking{Strength: "UPDATE"}

// ratingOrder puts absent ratings last and breaks ties by id.
const ratingOrder = "rating IS NULL, rating DESC, id"

// =============================================================================
// Configuration
// =============================================================================

// Config configures Open.
//
// # Fields
//
//   - Driver: DriverSQLite or DriverPostgres. Default: DriverSQLite.
//   - DSN: Driver specific data source name. Default for SQLite: DefaultSQLiteDSN.
//   - MaxOpenConns: Pool size for PostgreSQL. SQLite always uses 1. Default: 10.
//   - SlowQueryThreshold: Queries slower than this are logged at warn. Default: 200ms.
//   - LogSQL: Log every statement at debug level.
//   - Logger: Destination for store logs. Default: slog.Default().
type Config struct {
	Driver             string
	DSN                string
	MaxOpenConns       int
	SlowQueryThreshold time.Duration
	LogSQL             bool
	Logger             *slog.Logger
}

func applyConfigDefaults(cfg Config) Config {
	if cfg.Driver == "" {
		cfg.Driver = DriverSQLite
	}
	if cfg.DSN == "" && cfg.Driver == DriverSQLite {
		cfg.DSN = DefaultSQLiteDSN
	}
	if cfg.MaxOpenConns <= 0 {
		cfg.MaxOpenConns = 10
	}
	if cfg.SlowQueryThreshold <= 0 {
		cfg.SlowQueryThreshold = 200 * time.Millisecond
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return cfg
}

// =============================================================================
// Gateway
// =============================================================================

// Gateway is the typed façade over the relational store.
type Gateway struct {
	db     *gorm.DB
	driver string
	logger *slog.Logger
	tracer trace.Tracer
}

// Open connects to the configured store.
//
// # Description
//
// Opens the connection and, for SQLite, pins the pool to one connection
// and enables foreign key enforcement. The schema is not touched; call
// Migrate for that.
//
// # Outputs
//
//   - *Gateway: Ready for use. Close it when done.
//   - error: ErrUnsupportedDriver, or a connection error.
//
// # Examples
//
//	gw, err := store.Open(store.Config{Driver: store.DriverSQLite, DSN: "catalog.db"})
//	if err != nil {
//	    return err
//	}
//	defer gw.Close()
func Open(cfg Config) (*Gateway, error) {
	cfg = applyConfigDefaults(cfg)

	var dialector gorm.Dialector
	switch cfg.Driver {
	case DriverSQLite:
		dialector = sqlite.Open(withSQLitePragmas(cfg.DSN))
	case DriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(cfg.Logger, cfg.SlowQueryThreshold, cfg.LogSQL),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	if cfg.Driver == DriverSQLite {
		sqlDB.SetMaxOpenConns(1)
		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	return &Gateway{
		db:     db,
		driver: cfg.Driver,
		logger: cfg.Logger.With("component", "store", "driver", cfg.Driver),
		tracer: otel.Tracer("filmcatalog/store"),
	}, nil
}

// withSQLitePragmas makes every pooled connection enforce foreign keys.
func withSQLitePragmas(dsn string) string {
	if strings.Contains(dsn, "foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}

// Driver returns the configured driver name.
func (g *Gateway) Driver() string { return g.driver }

// Migrate creates or updates the schema for all catalog tables.
func (g *Gateway) Migrate(ctx context.Context) (err error) {
	ctx, span := g.startSpan(ctx, "migrate")
	defer func() { finishSpan(span, err) }()

	if err := g.db.WithContext(ctx).AutoMigrate(&datatypes.Genre{}, &datatypes.Director{}, &datatypes.Film{}); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	g.logger.Info("schema migrated")
	return nil
}

// Ping checks that the store is reachable.
func (g *Gateway) Ping(ctx context.Context) error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool.
func (g *Gateway) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// =============================================================================
// Helpers
// =============================================================================

// inTx runs fn in one transaction traced as name.
func (g *Gateway) inTx(ctx context.Context, name string, fn func(tx *gorm.DB) error, attrs ...attribute.KeyValue) (err error) {
	ctx, span := g.startSpan(ctx, name, attrs...)
	defer func() { finishSpan(span, err) }()

	return g.db.WithContext(ctx).Transaction(fn)
}

// forUpdate locks selected rows on PostgreSQL. SQLite has a single writer.
func (g *Gateway) forUpdate(tx *gorm.DB) *gorm.DB {
	if g.driver == DriverPostgres {
		return tx.Clauses(clauseForUpdate)
	}
	return tx
}

// containsTitle filters on a substring of title using the store's own comparison.
func (g *Gateway) containsTitle(q *gorm.DB, fragment string) *gorm.DB {
	if g.driver == DriverPostgres {
		return q.Where("strpos(title, ?) > 0", fragment)
	}
	return q.Where("instr(title, ?) > 0", fragment)
}

func (g *Gateway) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs, attribute.String("db.system", g.driver))
	return g.tracer.Start(ctx, "store."+name, trace.WithAttributes(attrs...))
}

// finishSpan ends span, marking it failed unless err is an expected outcome.
func finishSpan(span trace.Span, err error) {
	if err != nil && !isExpected(err) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func isExpected(err error) bool {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrHasDependents) {
		return true
	}
	_, ok := datatypes.AsValidationError(err)
	return ok
}

// notFoundOr maps gorm's missing row error to ErrNotFound.
func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// referenceGone reports a write that lost a race with a parent delete.
func referenceGone(err error) error {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		fe := datatypes.FieldErrors{}
		fe.Add("", datatypes.MsgReferenceGone)
		return &datatypes.ValidationError{Fields: fe}
	}
	return err
}

// =============================================================================
// gorm logging
// =============================================================================

// slogWriter adapts slog to gorm's logger.Writer.
type slogWriter struct {
	logger *slog.Logger
	level  slog.Level
}

func (w slogWriter) Printf(format string, args ...any) {
	w.logger.Log(context.Background(), w.level, fmt.Sprintf(format, args...), "component", "gorm")
}

func newGormLogger(logger *slog.Logger, slow time.Duration, logSQL bool) gormlogger.Interface {
	level := gormlogger.Warn
	writerLevel := slog.LevelWarn
	if logSQL {
		level = gormlogger.Info
		writerLevel = slog.LevelDebug
	}
	return gormlogger.New(slogWriter{logger: logger, level: writerLevel}, gormlogger.Config{
		SlowThreshold:             slow,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
