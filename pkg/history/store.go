package history

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tyemirov/pushover/pkg/pushover"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store persists deliveries in a SQLite file.
type Store struct {
	db     *gorm.DB
	logger *slog.Logger
}

// Open opens (or creates) the SQLite file and auto-migrates the schema.
func Open(dbPath string, logger *slog.Logger) (*Store, error) {
	logger.Debug("Opening delivery history", "path", dbPath)

	database, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: &slogGormLogger{logger: logger},
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite failed: %w", err)
	}

	if err := database.AutoMigrate(&Delivery{}); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &Store{db: database, logger: logger}, nil
}

// Record stores the outcome of one submission and returns the stored row.
func (store *Store) Record(ctx context.Context, message pushover.Message, result pushover.Result) (Delivery, error) {
	delivery := NewDelivery(message, result)
	if err := CreateDelivery(ctx, store.db, &delivery); err != nil {
		return Delivery{}, fmt.Errorf("record delivery: %w", err)
	}
	return delivery, nil
}

// Recent returns up to limit deliveries, newest first.
func (store *Store) Recent(ctx context.Context, limit int) ([]Delivery, error) {
	deliveries, err := ListRecentDeliveries(ctx, store.db, limit)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	return deliveries, nil
}

func (store *Store) Close() error {
	sqlDB, err := store.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type slogGormLogger struct {
	logger *slog.Logger
}

var _ logger.Interface = (*slogGormLogger)(nil)

func (l *slogGormLogger) LogMode(level logger.LogLevel) logger.Interface {
	return l
}

func (l *slogGormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	l.logger.InfoContext(ctx, msg, data...)
}

func (l *slogGormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	l.logger.WarnContext(ctx, msg, data...)
}

func (l *slogGormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	l.logger.ErrorContext(ctx, msg, data...)
}

func (l *slogGormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if err == nil || err == gorm.ErrRecordNotFound {
		return
	}
	sql, rows := fc()
	l.logger.ErrorContext(ctx, "Trace",
		"error", err,
		"sql", sql,
		"rows", rows,
		"elapsed", time.Since(begin),
	)
}
