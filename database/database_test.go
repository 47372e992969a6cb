package database

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/okothbrian/socialite/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return db
}

func TestSeedAdmin(t *testing.T) {
	t.Setenv("ADMIN_EMAIL", "admin@example.com")
	t.Setenv("ADMIN_PASSWORD", "sup3rsecret")
	t.Setenv("ADMIN_FULL_NAME", "Site Admin")

	DB = newTestDB(t)
	SeedAdmin()

	var admin models.User
	require.NoError(t, DB.Where("email = ?", "admin@example.com").First(&admin).Error)

	assert.NotEqual(t, uuid.Nil, admin.ID, "seeded admin must get a real primary key")
	assert.Equal(t, "admin", admin.Handle)
	assert.Equal(t, "admin", admin.Role)
	assert.True(t, admin.IsActive, "seeded admin must be able to log in")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte("sup3rsecret")))
}

func TestSeedAdmin_AlreadySeededIsNoop(t *testing.T) {
	t.Setenv("ADMIN_EMAIL", "admin@example.com")
	t.Setenv("ADMIN_PASSWORD", "sup3rsecret")
	t.Setenv("ADMIN_FULL_NAME", "Site Admin")

	DB = newTestDB(t)
	SeedAdmin()
	SeedAdmin()

	var count int64
	require.NoError(t, DB.Model(&models.User{}).Where("email = ?", "admin@example.com").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
