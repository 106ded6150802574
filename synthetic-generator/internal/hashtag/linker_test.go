package hashtag_test

import (
	"context"
	"errors"
	"testing"

	"aurora-server/shared/models"
	"aurora-server/synthetic-generator/internal/hashtag"
	"aurora-server/synthetic-generator/internal/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func TestExtractTags(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "no hashtags",
			text: "just a plain sentence",
			want: nil,
		},
		{
			name: "single hashtag",
			text: "Loving this weather #sunshine",
			want: []string{"sunshine"},
		},
		{
			name: "case-insensitive dedupe keeps first order",
			text: "Hello #World and #world again #Foo",
			want: []string{"world", "foo"},
		},
		{
			name: "underscores and digits allowed",
			text: "#day_1 of the #100days challenge",
			want: []string{"day_1", "100days"},
		},
		{
			name: "punctuation ends the tag",
			text: "Done! #finally. What a day #finally!",
			want: []string{"finally"},
		},
		{
			name: "bare hash is not a tag",
			text: "one # two ## three",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hashtag.ExtractTags(tt.text))
		})
	}
}

func TestLinker_Link(t *testing.T) {
	postID := uuid.New()
	worldTag := &models.Hashtag{ID: uuid.New(), Name: "world"}
	fooTag := &models.Hashtag{ID: uuid.New(), Name: "foo"}

	content := new(mocks.ContentRepository)
	content.On("FindOrCreateHashtag", mock.Anything, "world").Return(worldTag, nil)
	content.On("FindOrCreateHashtag", mock.Anything, "foo").Return(fooTag, nil)
	content.On("LinkHashtagToPost", mock.Anything, worldTag.ID, postID).Return(nil)
	content.On("LinkHashtagToPost", mock.Anything, fooTag.ID, postID).Return(nil)

	linker := hashtag.NewLinker(content, zap.NewNop())
	err := linker.Link(context.Background(), postID, []string{"world", "foo"})

	assert.NoError(t, err)
	content.AssertExpectations(t)
}

func TestLinker_Link_ResolveError(t *testing.T) {
	postID := uuid.New()
	content := new(mocks.ContentRepository)
	content.On("FindOrCreateHashtag", mock.Anything, "broken").Return(nil, errors.New("db down"))

	linker := hashtag.NewLinker(content, zap.NewNop())
	err := linker.Link(context.Background(), postID, []string{"broken"})

	assert.Error(t, err)
	content.AssertNotCalled(t, "LinkHashtagToPost", mock.Anything, mock.Anything, mock.Anything)
}

func TestLinker_Link_NoTags(t *testing.T) {
	content := new(mocks.ContentRepository)

	linker := hashtag.NewLinker(content, zap.NewNop())
	err := linker.Link(context.Background(), uuid.New(), nil)

	assert.NoError(t, err)
	content.AssertNotCalled(t, "FindOrCreateHashtag", mock.Anything, mock.Anything)
}
