package services

import (
	"testing"
	"time"

	"github.com/spreadhq/spread/pkg/internal/database"
	"github.com/spreadhq/spread/pkg/internal/models"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPostPublishedDirectly(t *testing.T) {
	useTestDatabase(t)
	area := makeArea(t)
	author := makeUser(1)

	post := makePublished(t, area, author, "hello there")

	assert.False(t, post.IsDraft)
	require.NotNil(t, post.PublishedAt)
	// Author reputation starts at zero, allocation equals the minimum spread.
	assert.Equal(t, area.SpreadMin, post.StackOutstanding)

	var receipts, subscribers int64
	require.NoError(t, database.C.Model(&models.PostReceipt{}).
		Where("post_id = ? AND account_id = ?", post.ID, author.ID).
		Count(&receipts).Error)
	require.NoError(t, database.C.Model(&models.PostSubscriber{}).
		Where("post_id = ? AND account_id = ?", post.ID, author.ID).
		Count(&subscribers).Error)
	assert.EqualValues(t, 1, receipts)
	assert.EqualValues(t, 1, subscribers)
}

func TestPublishIsOneWay(t *testing.T) {
	useTestDatabase(t)
	area := makeArea(t)
	author := makeUser(1)

	draft, err := NewPost(area, author, PostDraftOpts{Text: "work in progress"}, true)
	require.NoError(t, err)
	assert.True(t, draft.IsDraft)
	assert.Equal(t, 0, draft.StackOutstanding)

	published, err := PublishPost(draft, author)
	require.NoError(t, err)
	assert.False(t, published.IsDraft)

	_, err = PublishPost(published, author)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestPublishOnlyByAuthor(t *testing.T) {
	useTestDatabase(t)
	area := makeArea(t)

	draft, err := NewPost(area, makeUser(1), PostDraftOpts{Text: "mine"}, true)
	require.NoError(t, err)

	_, err = PublishPost(draft, makeUser(2))
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestPublishBlockedByPermissionOracle(t *testing.T) {
	useTestDatabase(t)
	area := makeArea(t)
	author := makeUser(66)

	draft, err := NewPost(area, author, PostDraftOpts{Text: "banned author"}, true)
	require.NoError(t, err)

	viper.Set("permissions.no_post", []int{66})
	t.Cleanup(func() { viper.Set("permissions.no_post", []int{}) })

	_, err = PublishPost(draft, author)
	assert.ErrorIs(t, err, ErrForbidden)

	// Banned authors may still hold and edit drafts.
	fresh, err := GetDraftByURIKey(author, draft.URIKey())
	require.NoError(t, err)
	assert.True(t, fresh.IsDraft)
}

func TestURIKeyRoundTrip(t *testing.T) {
	useTestDatabase(t)
	area := makeArea(t)

	post := makePublished(t, area, makeUser(1), "find me by key")

	found, err := GetPostByURIKey(database.C, post.URIKey())
	require.NoError(t, err)
	assert.Equal(t, post.ID, found.ID)
}

func TestURIKeyWrongNonce(t *testing.T) {
	useTestDatabase(t)
	area := makeArea(t)

	post := makePublished(t, area, makeUser(1), "guess me")

	wrong := models.Post{BaseModel: post.BaseModel, Nonce: post.Nonce + 1}
	_, err := GetPostByURIKey(database.C, wrong.URIKey())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeletePostCascades(t *testing.T) {
	useTestDatabase(t)
	area := makeArea(t)
	author := makeUser(1)
	commenter := makeUser(2)

	post := makePublished(t, area, author, "doomed")
	_, err := NewComment(post, commenter, "so long", nil)
	require.NoError(t, err)

	require.NoError(t, DeletePost(post))

	for _, probe := range []struct {
		model any
		name  string
	}{
		{&models.Comment{}, "comments"},
		{&models.PostSubscriber{}, "subscribers"},
		{&models.PostReceipt{}, "receipts"},
		{&models.CommentUnread{}, "unread markers"},
	} {
		var count int64
		require.NoError(t, database.C.Model(probe.model).
			Where("post_id = ?", post.ID).
			Count(&count).Error)
		assert.Zero(t, count, probe.name)
	}
}

func TestPostActivityWindow(t *testing.T) {
	now := time.Now()

	recent := now.Add(-27 * 24 * time.Hour)
	fresh := models.Post{PublishedAt: &recent}
	assert.True(t, fresh.IsActive(now))

	old := now.Add(-31 * 24 * time.Hour)
	stale := models.Post{PublishedAt: &old}
	assert.False(t, stale.IsActive(now))

	draft := models.Post{PublishedAt: &recent, IsDraft: true}
	assert.False(t, draft.IsActive(now))

	unpublished := models.Post{}
	assert.False(t, unpublished.IsActive(now))
}
