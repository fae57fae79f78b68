package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/serroba/shortlink/internal/shortener"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// linkRecord is the gorm model backing SQLiteStore.
type linkRecord struct {
	Code      string    `gorm:"primaryKey;size:32"`
	LongURL   string    `gorm:"not null"`
	Custom    bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"not null"`
}

func (linkRecord) TableName() string {
	return "short_links"
}

// SQLiteStore is a gorm/SQLite implementation of shortener.Repository for
// single-node deployments that need durability without a database server.
type SQLiteStore struct {
	db *gorm.DB
}

// OpenSQLite opens (creating if needed) the database file at path and migrates the schema.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// SQLite allows a single writer; one connection turns lock contention into queueing.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&linkRecord{}); err != nil {
		return nil, fmt.Errorf("migrate sqlite schema: %w", err)
	}

	return db, nil
}

// NewSQLiteStore creates a new SQLite-backed link store.
func NewSQLiteStore(db *gorm.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Save(ctx context.Context, link *shortener.ShortLink) error {
	record := linkRecord{
		Code:      string(link.Code),
		LongURL:   link.LongURL,
		Custom:    link.Custom,
		CreatedAt: link.CreatedAt,
	}

	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&record)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return shortener.ErrCodeExists
	}

	return nil
}

func (s *SQLiteStore) GetByCode(ctx context.Context, code shortener.Code) (*shortener.ShortLink, error) {
	var record linkRecord

	err := s.db.WithContext(ctx).Where("code = ?", string(code)).Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	return &shortener.ShortLink{
		Code:      shortener.Code(record.Code),
		LongURL:   record.LongURL,
		Custom:    record.Custom,
		CreatedAt: record.CreatedAt.UTC(),
	}, nil
}

func (s *SQLiteStore) Exists(ctx context.Context, code shortener.Code) (bool, error) {
	var count int64

	err := s.db.WithContext(ctx).Model(&linkRecord{}).Where("code = ?", string(code)).Count(&count).Error

	return count > 0, err
}

// Ping checks the underlying database handle.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.PingContext(ctx)
}

// Shutdown closes the database handle.
func (s *SQLiteStore) Shutdown() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}

// Compile-time check.
var _ shortener.Repository = (*SQLiteStore)(nil)
