package services

import (
	"fmt"
	"os"
	"testing"

	"github.com/spreadhq/spread/pkg/internal/authz"
	"github.com/spreadhq/spread/pkg/internal/cache"
	"github.com/spreadhq/spread/pkg/internal/database"
	"github.com/spreadhq/spread/pkg/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	if err := cache.NewStore(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

var testDatabaseSeq int

// useTestDatabase points the global source at a fresh in-memory database.
func useTestDatabase(t *testing.T) {
	t.Helper()

	testDatabaseSeq++
	dsn := fmt.Sprintf("file:spread_test_%d?mode=memory&cache=shared", testDatabaseSeq)
	source, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.RunMigration(source))

	database.C = source
}

var testAreaSeq int

func makeArea(t *testing.T) models.Area {
	t.Helper()

	testAreaSeq++
	area, err := NewArea(fmt.Sprintf("area%d", testAreaSeq), "Test Area")
	require.NoError(t, err)
	return area
}

func makeUser(id uint) authz.Account {
	return authz.Account{ID: id, Name: fmt.Sprintf("user%d", id)}
}

func makePublished(t *testing.T, area models.Area, user authz.Account, text string) models.Post {
	t.Helper()

	post, err := NewPost(area, user, PostDraftOpts{Text: text}, false)
	require.NoError(t, err)
	return post
}

// setOutstanding pins a post's allocation for scenarios that need an exact
// starting point.
func setOutstanding(t *testing.T, post models.Post, value int) {
	t.Helper()

	require.NoError(t, database.C.Model(&models.Post{}).
		Where("id = ?", post.ID).
		Update("stack_outstanding", value).Error)
}

func reloadPost(t *testing.T, post models.Post) models.Post {
	t.Helper()

	fresh, err := GetPost(database.C, post.ID)
	require.NoError(t, err)
	return fresh
}
