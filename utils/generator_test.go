package utils

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/okothbrian/socialite/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))
	return db
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "adalovelace", slugify("Ada Lovelace"))
	assert.Equal(t, "jeanluc", slugify("Jean-Luc!"))
	assert.Equal(t, "user", slugify("---"))
}

func TestGenerateUniqueHandle(t *testing.T) {
	db := newTestDB(t)

	handle, err := GenerateUniqueHandle(db, "Ada Lovelace")
	require.NoError(t, err)
	assert.Equal(t, "adalovelace", handle)
}

func TestGenerateUniqueHandle_CollisionGetsSuffix(t *testing.T) {
	db := newTestDB(t)

	taken := models.User{
		ID:       uuid.New(),
		Handle:   "adalovelace",
		FullName: "Ada Lovelace",
		Email:    "ada@example.com",
		Password: "x",
	}
	require.NoError(t, db.Create(&taken).Error)

	handle, err := GenerateUniqueHandle(db, "Ada Lovelace")
	require.NoError(t, err)
	assert.NotEqual(t, "adalovelace", handle)
	assert.Regexp(t, `^adalovelace\d{4}$`, handle)
}
