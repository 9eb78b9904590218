package db

import (
	"path/filepath"
	"sponsorship_console/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTursoDSN(t *testing.T) {
	assert.Equal(t, "libsql://console.turso.io", TursoDSN("libsql://console.turso.io", ""))
	assert.Equal(t, "libsql://console.turso.io?authToken=abc", TursoDSN("libsql://console.turso.io", "abc"))
	assert.Equal(t, "libsql://console.turso.io?authToken=abc&tls=1", TursoDSN("libsql://console.turso.io?tls=1", "abc"))
}

func TestInitializeLocalFile(t *testing.T) {
	t.Cleanup(func() {
		_ = Close()
		DB = nil
	})

	require.NoError(t, Initialize(Options{Path: filepath.Join(t.TempDir(), "console.db"), Environment: "production"}))
	require.NoError(t, AutoMigrate(&models.Session{}))
	assert.True(t, DB.Migrator().HasTable(&models.Session{}))
}

func TestAutoMigrateWithoutDatabase(t *testing.T) {
	DB = nil
	assert.EqualError(t, AutoMigrate(&models.Session{}), "database not initialized")
}
