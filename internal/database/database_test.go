package database_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/spendlog/internal/database"
)

func TestNew_SQLiteCreatesSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "expenses.db")

	db, err := database.New(database.DriverSQLite, path)
	require.NoError(t, err)
	defer db.Close()

	var name string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'expenses'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "expenses", name)

	assert.FileExists(t, path)
}

func TestMigrate_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expenses.db")

	db, err := database.New(database.DriverSQLite, path)
	require.NoError(t, err)
	defer db.Close()

	assert.NoError(t, database.Migrate(database.DriverSQLite, path))
}

func TestNew_SQLiteDefaults(t *testing.T) {
	db, err := database.New(database.DriverSQLite, filepath.Join(t.TempDir(), "expenses.db"))
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`INSERT INTO expenses (amount, category, description, original_input) VALUES (200, 'Other', 'Lunch', 'Lunch 200')`)
	require.NoError(t, err)

	var currency string
	err = db.QueryRow(`SELECT currency FROM expenses`).Scan(&currency)
	require.NoError(t, err)
	assert.Equal(t, "INR", currency)
}

func TestNew_UnsupportedDriver(t *testing.T) {
	db, err := database.New("mysql", "whatever")
	assert.Error(t, err)
	assert.Nil(t, db)
}
