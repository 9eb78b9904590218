package services

import (
	"sponsorship_console/models"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testSessionSecret = "test-session-secret-with-enough-length-32"

func setupTestDB(t *testing.T) *gorm.DB {
	// Unique shared memory name isolates tests while letting goroutines share the connection
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, testDB.AutoMigrate(&models.Session{}))
	return testDB
}

func setupSessionStore(t *testing.T) (*SessionStore, *gorm.DB) {
	testDB := setupTestDB(t)
	sealer, err := NewTokenSealer(testSessionSecret)
	require.NoError(t, err)
	return NewSessionStore(testDB, sealer, nil), testDB
}

func testAdmin() models.User {
	return models.User{ID: 1, Email: "admin@example.org", FullName: "Ada Admin", Role: models.RoleAdmin, IsAdmin: true}
}

func testBeneficiary() models.User {
	return models.User{ID: 42, Email: "jane@example.org", FullName: "Jane Muthoni", Role: models.RoleBeneficiary}
}
