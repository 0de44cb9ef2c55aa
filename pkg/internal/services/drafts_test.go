package services

import (
	"testing"

	"github.com/spreadhq/spread/pkg/internal/models"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftVisibleOnlyToAuthor(t *testing.T) {
	useTestDatabase(t)
	area := makeArea(t)
	author := makeUser(1)

	draft, err := NewPost(area, author, PostDraftOpts{Text: "secret"}, true)
	require.NoError(t, err)

	_, err = GetDraftByURIKey(author, draft.URIKey())
	require.NoError(t, err)

	_, err = GetDraftByURIKey(makeUser(2), draft.URIKey())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDraftImageSlots(t *testing.T) {
	useTestDatabase(t)
	area := makeArea(t)
	author := makeUser(1)

	draft, err := NewPost(area, author, PostDraftOpts{Text: "with pictures"}, true)
	require.NoError(t, err)

	draft, err = PutDraftImage(draft, 0, "att-1", "first")
	require.NoError(t, err)
	draft, err = PutDraftImage(draft, 1, "att-2", "second")
	require.NoError(t, err)
	assert.Len(t, draft.Images, 2)

	// Recaption an occupied slot instead of duplicating it.
	draft, err = PutDraftImage(draft, 1, "att-2b", "second, replaced")
	require.NoError(t, err)
	assert.Len(t, draft.Images, 2)

	image, err := GetDraftImage(draft, 1)
	require.NoError(t, err)
	assert.Equal(t, "att-2b", image.Attachment)

	// Slots beyond the fixed limit never exist.
	_, err = PutDraftImage(draft, models.MaxPostImages, "att-x", "overflow")
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = GetDraftImage(draft, 3)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDraftImageDeleteIdempotent(t *testing.T) {
	useTestDatabase(t)
	area := makeArea(t)
	author := makeUser(1)

	draft, err := NewPost(area, author, PostDraftOpts{Text: "soon empty"}, true)
	require.NoError(t, err)
	draft, err = PutDraftImage(draft, 2, "att-1", "lonely")
	require.NoError(t, err)

	draft, err = DeleteDraftImage(draft, 2)
	require.NoError(t, err)
	assert.Empty(t, draft.Images)

	draft, err = DeleteDraftImage(draft, 2)
	require.NoError(t, err)
	assert.Empty(t, draft.Images)
}

func TestImagesFrozenAfterPublish(t *testing.T) {
	useTestDatabase(t)
	area := makeArea(t)
	author := makeUser(1)

	draft, err := NewPost(area, author, PostDraftOpts{
		Text: "two pictures",
		Images: []models.PostImage{
			{Num: 0, Attachment: "att-1", Caption: "first"},
			{Num: 1, Attachment: "att-2", Caption: "second"},
		},
	}, true)
	require.NoError(t, err)

	published, err := PublishPost(draft, author)
	require.NoError(t, err)
	assert.Len(t, published.Images, 2)

	_, err = PutDraftImage(published, 2, "att-3", "too late")
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = DeleteDraftImage(published, 0)
	assert.ErrorIs(t, err, ErrInvalidState)
	_, err = EditDraft(published, DraftUpdate{Text: lo.ToPtr("rewritten")})
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestEditDraft(t *testing.T) {
	useTestDatabase(t)
	area := makeArea(t)
	author := makeUser(1)

	draft, err := NewPost(area, author, PostDraftOpts{Text: "rough"}, true)
	require.NoError(t, err)

	draft, err = EditDraft(draft, DraftUpdate{
		Text:   lo.ToPtr("polished"),
		Anonym: lo.ToPtr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "polished", draft.Text)
	assert.True(t, draft.Anonym)
}

func TestListDraftScopedToAreaAndAuthor(t *testing.T) {
	useTestDatabase(t)
	first := makeArea(t)
	second := makeArea(t)
	author := makeUser(1)

	_, err := NewPost(first, author, PostDraftOpts{Text: "in first"}, true)
	require.NoError(t, err)
	_, err = NewPost(second, author, PostDraftOpts{Text: "in second"}, true)
	require.NoError(t, err)
	makePublished(t, first, author, "already out")

	drafts, err := ListDraft(first, author)
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	assert.Equal(t, "in first", drafts[0].Text)

	other, err := ListDraft(first, makeUser(2))
	require.NoError(t, err)
	assert.Empty(t, other)
}
