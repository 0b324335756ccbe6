package database

import (
	"testing"

	"github.com/jinzhu/gorm"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.DB().SetMaxOpenConns(1)
	require.NoError(t, Migrate(db))

	originalDB := DB
	SetTestDB(db)
	t.Cleanup(func() {
		SetTestDB(originalDB)
		db.Close()
	})
	return db
}

func TestInitDB_UnknownDriver(t *testing.T) {
	err := InitDB("oracle", "whatever")
	require.Error(t, err)
}

func TestSetTestDB(t *testing.T) {
	db := newTestDB(t)
	require.Same(t, db, GetDB())
}
