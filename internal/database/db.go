package database

import (
	"fmt"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres" // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3"              // SQLite driver

	"efficiensa/internal/models"
)

var DB *gorm.DB

// InitDB opens the database for the given driver ("sqlite3" or "postgres") and migrates the schema
func InitDB(driver, dsn string) error {
	db, err := gorm.Open(driver, dsn)
	if err != nil {
		return fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	if driver == "sqlite3" {
		// sqlite allows a single writer
		db.DB().SetMaxOpenConns(1)
	}
	if err := Migrate(db); err != nil {
		db.Close()
		return err
	}
	DB = db
	return nil
}

// Migrate creates or updates the tables used by the service
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Order{}, &models.OrderItem{}, &KV{}).Error; err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}

// SetTestDB swaps the package database, used by tests
func SetTestDB(db *gorm.DB) {
	DB = db
}

// CloseDB closes the database connection
func CloseDB() error {
	if DB != nil {
		return DB.Close()
	}
	return nil
}
