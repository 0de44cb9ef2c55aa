package services

import (
	"testing"

	"github.com/spreadhq/spread/pkg/internal/database"
	"github.com/spreadhq/spread/pkg/internal/models"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// B comments on A's post: B joins the subscribers, A gets an unread marker,
// viewing the post clears it again.
func TestCommentNotificationFlow(t *testing.T) {
	useTestDatabase(t)
	area := makeArea(t)
	userA := makeUser(1)
	userB := makeUser(2)

	post := makePublished(t, area, userA, "discuss")

	comment, err := NewComment(post, userB, "first!", nil)
	require.NoError(t, err)

	subscribed, err := GetSubscribed(post, userB)
	require.NoError(t, err)
	assert.True(t, subscribed, "comment author is auto-subscribed")

	notifications, err := ListNotifications(userA)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, post.ID, notifications[0].Post.ID)
	assert.Equal(t, area.Name, notifications[0].Area)
	assert.Equal(t, []uint{comment.ID}, notifications[0].Comments)

	// The author of the comment never notifies themselves.
	own, err := ListNotifications(userB)
	require.NoError(t, err)
	assert.Empty(t, own)

	require.NoError(t, MarkPostRead(userA, post))
	cleared, err := ListNotifications(userA)
	require.NoError(t, err)
	assert.Empty(t, cleared)

	// Marking read twice is a no-op.
	require.NoError(t, MarkPostRead(userA, post))
}

func TestSubscribeIdempotent(t *testing.T) {
	useTestDatabase(t)
	area := makeArea(t)
	author := makeUser(1)
	reader := makeUser(2)

	post := makePublished(t, area, author, "subscribe to me")

	require.NoError(t, SetSubscribed(post, reader, true))
	require.NoError(t, SetSubscribed(post, reader, true))

	var count int64
	require.NoError(t, database.C.Model(&models.PostSubscriber{}).
		Where("post_id = ? AND account_id = ?", post.ID, reader.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)

	require.NoError(t, SetSubscribed(post, reader, false))
	require.NoError(t, SetSubscribed(post, reader, false))

	subscribed, err := GetSubscribed(post, reader)
	require.NoError(t, err)
	assert.False(t, subscribed)
}

func TestCommentFansOutToAllOtherSubscribers(t *testing.T) {
	useTestDatabase(t)
	area := makeArea(t)
	author := makeUser(1)

	post := makePublished(t, area, author, "busy thread")
	for id := uint(2); id <= 4; id++ {
		require.NoError(t, SetSubscribed(post, makeUser(id), true))
	}

	comment, err := NewComment(post, makeUser(3), "hello everyone", nil)
	require.NoError(t, err)

	var markers []models.CommentUnread
	require.NoError(t, database.C.
		Where("comment_id = ?", comment.ID).
		Find(&markers).Error)

	// Author (1), readers 2 and 4 get markers; the commenter (3) does not.
	assert.Len(t, markers, 3)
	for _, marker := range markers {
		assert.NotEqualValues(t, 3, marker.AccountID)
	}
}

func TestClearNotifications(t *testing.T) {
	useTestDatabase(t)
	area := makeArea(t)
	userA := makeUser(1)
	userB := makeUser(2)

	first := makePublished(t, area, userA, "one")
	second := makePublished(t, area, userA, "two")

	_, err := NewComment(first, userB, "on one", nil)
	require.NoError(t, err)
	_, err = NewComment(second, userB, "on two", nil)
	require.NoError(t, err)

	notifications, err := ListNotifications(userA)
	require.NoError(t, err)
	assert.Len(t, notifications, 2)

	require.NoError(t, ClearNotifications(userA))
	notifications, err = ListNotifications(userA)
	require.NoError(t, err)
	assert.Empty(t, notifications)
}

func TestCommentBlockedByPermissionOracle(t *testing.T) {
	useTestDatabase(t)
	area := makeArea(t)

	post := makePublished(t, area, makeUser(1), "no comments for you")

	viper.Set("permissions.no_comment", []int{5})
	t.Cleanup(func() { viper.Set("permissions.no_comment", []int{}) })

	_, err := NewComment(post, makeUser(5), "blocked", nil)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDeleteCommentDropsMarkers(t *testing.T) {
	useTestDatabase(t)
	area := makeArea(t)
	userA := makeUser(1)
	userB := makeUser(2)

	post := makePublished(t, area, userA, "short lived thread")
	comment, err := NewComment(post, userB, "oops", nil)
	require.NoError(t, err)

	require.NoError(t, DeleteComment(comment))

	var count int64
	require.NoError(t, database.C.Model(&models.CommentUnread{}).
		Where("comment_id = ?", comment.ID).
		Count(&count).Error)
	assert.Zero(t, count)

	_, err = GetComment(post, comment.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
