package hashtag

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"aurora-server/shared/interfaces"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// A tag token is the longest run of word characters immediately following '#'.
var hashtagPattern = regexp.MustCompile(`#(\w+)`)

// ExtractTags returns the lowercase hashtag tokens found in text. Duplicates
// collapse case-insensitively to one occurrence; first-appearance order is kept.
func ExtractTags(text string) []string {
	matches := hashtagPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(matches))
	tags := make([]string, 0, len(matches))
	for _, match := range matches {
		tag := strings.ToLower(match[1])
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}

// Linker establishes tag-to-post associations through the content store.
type Linker struct {
	content interfaces.ContentRepository
	logger  *zap.Logger
}

// NewLinker creates a Linker.
func NewLinker(content interfaces.ContentRepository, logger *zap.Logger) *Linker {
	return &Linker{
		content: content,
		logger:  logger.Named("HashtagLinker"),
	}
}

// Link find-or-creates each tag and its association with the post. Idempotent:
// re-linking an existing (post, tag) pair has no additional effect.
func (l *Linker) Link(ctx context.Context, postID uuid.UUID, tags []string) error {
	for _, name := range tags {
		tag, err := l.content.FindOrCreateHashtag(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to resolve hashtag '%s': %w", name, err)
		}
		if err := l.content.LinkHashtagToPost(ctx, tag.ID, postID); err != nil {
			return fmt.Errorf("failed to link hashtag '%s': %w", name, err)
		}
		l.logger.Debug("Hashtag linked", zap.String("tag", name), zap.String("postID", postID.String()))
	}
	return nil
}
