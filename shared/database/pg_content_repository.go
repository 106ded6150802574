package database

import (
	"context"
	"errors"
	"fmt"

	"aurora-server/shared/interfaces"
	"aurora-server/shared/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Compile-time check to ensure pgContentRepository implements ContentRepository
var _ interfaces.ContentRepository = (*pgContentRepository)(nil)

type pgContentRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

// NewPgContentRepository creates a new PostgreSQL-backed ContentRepository.
// It takes the pool directly (not DBTX) because poll creation runs in a transaction.
func NewPgContentRepository(db *pgxpool.Pool, logger *zap.Logger) interfaces.ContentRepository {
	return &pgContentRepository{
		db:     db,
		logger: logger.Named("PgContentRepo"),
	}
}

// CreatePost inserts a post. The caller controls CreatedAt so synthetic posts can
// be backdated.
func (r *pgContentRepository) CreatePost(ctx context.Context, post *models.Post) error {
	query := `INSERT INTO posts (author_id, content, created_at) VALUES ($1, $2, $3) RETURNING id`
	err := r.db.QueryRow(ctx, query, post.AuthorID, post.Content, post.CreatedAt).Scan(&post.ID)
	if err != nil {
		r.logger.Error("Failed to create post in postgres", zap.Error(err), zap.String("authorID", post.AuthorID.String()))
		return fmt.Errorf("failed to create post in postgres: %w", err)
	}
	r.logger.Debug("Post created", zap.String("postID", post.ID.String()), zap.Time("createdAt", post.CreatedAt))
	return nil
}

// CreatePoll inserts a poll and its options in one transaction, so a half-created
// poll never becomes visible.
func (r *pgContentRepository) CreatePoll(ctx context.Context, postID uuid.UUID, question string, options []string) (*models.Poll, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to begin poll transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	poll := &models.Poll{PostID: postID, Question: question}
	err = tx.QueryRow(ctx,
		`INSERT INTO polls (post_id, question) VALUES ($1, $2) RETURNING id`,
		postID, question,
	).Scan(&poll.ID)
	if err != nil {
		r.logger.Error("Failed to create poll in postgres", zap.Error(err), zap.String("postID", postID.String()))
		return nil, fmt.Errorf("failed to create poll in postgres: %w", err)
	}

	for _, text := range options {
		option := models.PollOption{PollID: poll.ID, Text: text}
		err = tx.QueryRow(ctx,
			`INSERT INTO poll_options (poll_id, text) VALUES ($1, $2) RETURNING id`,
			poll.ID, text,
		).Scan(&option.ID)
		if err != nil {
			r.logger.Error("Failed to create poll option in postgres", zap.Error(err), zap.String("pollID", poll.ID.String()))
			return nil, fmt.Errorf("failed to create poll option in postgres: %w", err)
		}
		poll.Options = append(poll.Options, option)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit poll transaction: %w", err)
	}
	r.logger.Debug("Poll created", zap.String("pollID", poll.ID.String()), zap.Int("options", len(poll.Options)))
	return poll, nil
}

// FindOrCreateHashtag returns the hashtag with the given name, inserting it when
// absent. The upsert keeps concurrent callers from racing on the unique name index.
func (r *pgContentRepository) FindOrCreateHashtag(ctx context.Context, name string) (*models.Hashtag, error) {
	tag := &models.Hashtag{}
	err := pgxscan.Get(ctx, r.db, tag, `SELECT id, name FROM hashtags WHERE name = $1`, name)
	if err == nil {
		return tag, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		r.logger.Error("Failed to look up hashtag in postgres", zap.Error(err), zap.String("name", name))
		return nil, fmt.Errorf("failed to look up hashtag in postgres: %w", err)
	}

	// ON CONFLICT ... RETURNING handles the race where another writer inserts the
	// same name between our SELECT and INSERT.
	err = r.db.QueryRow(ctx,
		`INSERT INTO hashtags (name) VALUES ($1)
		 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id`,
		name,
	).Scan(&tag.ID)
	if err != nil {
		r.logger.Error("Failed to create hashtag in postgres", zap.Error(err), zap.String("name", name))
		return nil, fmt.Errorf("failed to create hashtag in postgres: %w", err)
	}
	tag.Name = name
	return tag, nil
}

// LinkHashtagToPost creates the (post, hashtag) association. Idempotent: linking
// an already linked pair does nothing.
func (r *pgContentRepository) LinkHashtagToPost(ctx context.Context, hashtagID, postID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO post_hashtags (post_id, hashtag_id) VALUES ($1, $2)
		 ON CONFLICT (post_id, hashtag_id) DO NOTHING`,
		postID, hashtagID,
	)
	if err != nil {
		r.logger.Error("Failed to link hashtag to post in postgres", zap.Error(err),
			zap.String("postID", postID.String()), zap.String("hashtagID", hashtagID.String()))
		return fmt.Errorf("failed to link hashtag to post in postgres: %w", err)
	}
	return nil
}
