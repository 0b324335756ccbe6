package database

import (
	"context"
	"time"

	"github.com/jinzhu/gorm"

	"efficiensa/internal/settings"
)

// KV is one persisted terminal setting
type KV struct {
	Key       string `gorm:"primary_key"`
	Value     string `gorm:"type:text"`
	UpdatedAt time.Time
}

// TableName keeps settings in their own table
func (KV) TableName() string {
	return "settings"
}

// KVStore persists settings in the database
type KVStore struct {
	db *gorm.DB
}

var _ settings.Store = (*KVStore)(nil)

// NewKVStore creates a settings store on the given handle
func NewKVStore(db *gorm.DB) *KVStore {
	return &KVStore{db: db}
}

// Get returns the stored value, or settings.ErrNotFound when the key is absent
func (s *KVStore) Get(_ context.Context, key string) (string, error) {
	var kv KV
	err := s.db.Where("key = ?", key).First(&kv).Error
	if gorm.IsRecordNotFoundError(err) {
		return "", settings.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return kv.Value, nil
}

// Set inserts or replaces the value under key
func (s *KVStore) Set(_ context.Context, key, value string) error {
	return s.db.Save(&KV{Key: key, Value: value}).Error
}

// Delete removes key. Deleting a missing key is not an error.
func (s *KVStore) Delete(_ context.Context, key string) error {
	return s.db.Where("key = ?", key).Delete(&KV{}).Error
}

// Keys lists every stored key in ascending order
func (s *KVStore) Keys(_ context.Context) ([]string, error) {
	var keys []string
	if err := s.db.Model(&KV{}).Order("key ASC").Pluck("key", &keys).Error; err != nil {
		return nil, err
	}
	return keys, nil
}
