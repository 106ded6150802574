package interfaces

import (
	"context"

	"aurora-server/shared/models"

	"github.com/google/uuid"
)

// ContentRepository defines storage operations for posts, polls and hashtags.
type ContentRepository interface {
	// CreatePost inserts a post and fills in its ID.
	CreatePost(ctx context.Context, post *models.Post) error

	// CreatePoll attaches a poll with its options to an existing post.
	CreatePoll(ctx context.Context, postID uuid.UUID, question string, options []string) (*models.Poll, error)

	// FindOrCreateHashtag returns the hashtag with the given normalized name,
	// creating it when absent.
	FindOrCreateHashtag(ctx context.Context, name string) (*models.Hashtag, error)

	// LinkHashtagToPost associates a hashtag with a post. Linking the same pair
	// twice is a no-op, not an error.
	LinkHashtagToPost(ctx context.Context, hashtagID, postID uuid.UUID) error
}
