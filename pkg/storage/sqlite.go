package storage

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// quotaEntry is the durable replica row. One row per storage key.
type quotaEntry struct {
	StorageKey string `gorm:"primaryKey;column:storage_key"`
	Value      string `gorm:"type:text"`
	UpdatedAt  time.Time
}

func (quotaEntry) TableName() string { return "quota_entries" }

// SQLiteBackend is the durable replica: it survives until the user
// deliberately clears state, the closest a CLI gets to localStorage.
type SQLiteBackend struct {
	db *gorm.DB
}

// OpenSQLite opens (or creates) the durable store at the given path or DSN.
func OpenSQLite(dsn string) (*SQLiteBackend, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	if err != nil {
		return nil, fmt.Errorf("storage: open durable store: %w", err)
	}
	if err := db.AutoMigrate(&quotaEntry{}); err != nil {
		return nil, fmt.Errorf("storage: migrate durable store: %w", err)
	}
	return &SQLiteBackend{db: db}, nil
}

func (b *SQLiteBackend) Name() string { return "durable" }

func (b *SQLiteBackend) Read(key string) (string, error) {
	var entry quotaEntry
	err := b.db.Where("storage_key = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return entry.Value, nil
}

func (b *SQLiteBackend) Write(key, value string) error {
	entry := quotaEntry{StorageKey: key, Value: value, UpdatedAt: time.Now().UTC()}
	return b.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "storage_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

func (b *SQLiteBackend) Delete(key string) error {
	return b.db.Where("storage_key = ?", key).Delete(&quotaEntry{}).Error
}

func (b *SQLiteBackend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
