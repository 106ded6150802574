package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"aurora-server/shared/interfaces"
	"aurora-server/shared/models"
	"aurora-server/synthetic-generator/internal/config"
	"aurora-server/synthetic-generator/internal/hashtag"
	"aurora-server/synthetic-generator/internal/imagegen"
	"aurora-server/synthetic-generator/internal/model"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"
)

const maxBioLength = 500

// PersonaSource produces one persona per call.
type PersonaSource interface {
	Generate(ctx context.Context) (*model.Persona, error)
}

// PostSource produces a batch of post descriptions for a persona.
type PostSource interface {
	GenerateForPersona(ctx context.Context, persona *model.Persona, count int) ([]model.GeneratedPost, error)
}

// TagLinker establishes tag-to-post associations.
type TagLinker interface {
	Link(ctx context.Context, postID uuid.UUID, tags []string) error
}

// Options controls one batch run.
type Options struct {
	GenerateImages bool
	// Progress is an optional per-run sink added on top of the Creator's own.
	Progress ProgressSink
}

// Creator is the synthetic-population orchestrator. Items are processed strictly
// one at a time: processing them concurrently would blow through the image
// provider's rate limit.
type Creator struct {
	cfg      *config.Config
	users    interfaces.UserRepository
	content  interfaces.ContentRepository
	personas PersonaSource
	posts    PostSource
	images   imagegen.Service
	linker   TagLinker
	sink     ProgressSink
	logger   *zap.Logger
}

// NewCreator wires the orchestrator. sink may be nil when no standing progress
// consumer exists.
func NewCreator(
	cfg *config.Config,
	users interfaces.UserRepository,
	content interfaces.ContentRepository,
	personas PersonaSource,
	posts PostSource,
	images imagegen.Service,
	linker TagLinker,
	sink ProgressSink,
	logger *zap.Logger,
) *Creator {
	return &Creator{
		cfg:      cfg,
		users:    users,
		content:  content,
		personas: personas,
		posts:    posts,
		images:   images,
		linker:   linker,
		sink:     sink,
		logger:   logger.Named("Creator"),
	}
}

// Run creates count synthetic users. One item's failure never aborts the batch;
// for any completed run len(result.Created)+len(result.Errors) == count, in
// request order. The only error Run itself returns is context cancellation, in
// which case the result holds everything processed so far.
func (c *Creator) Run(ctx context.Context, count int, opts Options) (*model.BatchResult, error) {
	count = c.clampCount(count)
	batchID := uuid.New()

	sink := c.sink
	if opts.Progress != nil {
		sink = MultiSink{c.sink, opts.Progress}
	}
	if sink == nil {
		sink = MultiSink{}
	}

	imagesOn := opts.GenerateImages && c.images.Enabled()

	// Token bucket in place of a hard-coded sleep: one image-bearing item per
	// pacing interval. The initial token is spent up front so the first wait
	// already blocks a full interval.
	var pacer *rate.Limiter
	if imagesOn {
		pacer = rate.NewLimiter(rate.Every(c.cfg.ImagePacingInterval), 1)
		pacer.Allow()
	}

	c.logger.Info("Starting synthetic user batch",
		zap.String("batchID", batchID.String()),
		zap.Int("count", count),
		zap.Bool("generateImages", imagesOn))
	batchesTotal.Inc()
	start := time.Now()
	defer func() { batchDuration.Observe(time.Since(start).Seconds()) }()

	result := &model.BatchResult{
		Created: []model.CreatedUser{},
		Errors:  []model.BatchError{},
	}

	for i := 0; i < count; i++ {
		created, err := c.createOne(ctx, batchID, sink, i, count, imagesOn)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return result, err
			}
			c.logger.Error("Batch item failed", zap.String("batchID", batchID.String()), zap.Int("index", i), zap.Error(err))
			itemsTotal.WithLabelValues("error").Inc()
			sink.Publish(ctx, ProgressEvent{
				BatchID: batchID, Item: i + 1, Total: count,
				Step: StepItemFailed, Message: "ERROR: " + err.Error(), At: time.Now(),
			})
			result.Errors = append(result.Errors, model.BatchError{Index: i, Error: err.Error()})
		} else {
			itemsTotal.WithLabelValues("success").Inc()
			postsCreatedTotal.Add(float64(created.PostsCreated))
			result.Created = append(result.Created, *created)
		}

		if imagesOn && i < count-1 {
			sink.Publish(ctx, ProgressEvent{
				BatchID: batchID, Item: i + 1, Total: count,
				Step:    StepPacing,
				Message: fmt.Sprintf("Waiting %s for image provider rate limit...", c.cfg.ImagePacingInterval),
				At:      time.Now(),
			})
			if err := pacer.Wait(ctx); err != nil {
				return result, err
			}
		}
	}

	c.logger.Info("Synthetic user batch finished",
		zap.String("batchID", batchID.String()),
		zap.Int("created", len(result.Created)),
		zap.Int("errors", len(result.Errors)),
		zap.Duration("duration", time.Since(start)))
	return result, nil
}

// clampCount defensively re-validates the batch size; the admin handler clamps
// it too.
func (c *Creator) clampCount(count int) int {
	if count < c.cfg.MinBatchSize {
		return c.cfg.MinBatchSize
	}
	if count > c.cfg.MaxBatchSize {
		return c.cfg.MaxBatchSize
	}
	return count
}

// createOne runs the full pipeline for one batch item. A returned error marks
// the whole item failed; degraded steps (avatar, posts) are absorbed inside.
func (c *Creator) createOne(ctx context.Context, batchID uuid.UUID, sink ProgressSink, index, total int, imagesOn bool) (*model.CreatedUser, error) {
	publish := func(step Step, username, message string) {
		sink.Publish(ctx, ProgressEvent{
			BatchID: batchID, Item: index + 1, Total: total,
			Step: step, Username: username, Message: message, At: time.Now(),
		})
	}

	// 1. Persona
	publish(StepPersona, "", "Generating persona...")
	persona, err := c.personas.Generate(ctx)
	if err != nil {
		return nil, fmt.Errorf("persona generation: %w", err)
	}

	// 2-3. Username normalization and uniqueness
	username := normalizeUsername(persona.Username)
	_, err = c.users.GetUserByUsername(ctx, username)
	switch {
	case err == nil:
		// Collision: a clock-derived suffix makes a second check unnecessary.
		username = fmt.Sprintf("%s%d", username, time.Now().UnixMilli()%10000)
	case !errors.Is(err, models.ErrUserNotFound):
		return nil, fmt.Errorf("username lookup: %w", err)
	}
	persona.Username = username
	publish(StepUsername, username, "Creating user: "+username)

	// 4. Avatar (degraded, never fatal)
	profilePicture := c.resolveAvatar(ctx, persona, imagesOn, publish)

	// 5. Persist the identity
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(c.cfg.SyntheticPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("password hashing: %w", err)
	}

	user := &models.User{
		Username:       username,
		Email:          fmt.Sprintf("%s@%s", username, c.cfg.SyntheticDomain),
		PasswordHash:   string(passwordHash),
		Bio:            clampString(persona.Bio, maxBioLength),
		ProfilePicture: profilePicture,
		Birthday:       parseBirthday(persona.Birthday),
		Location:       optionalString(persona.Location),
		IsSynthetic:    true,
	}
	publish(StepCreateUser, username, "Persisting user "+username)
	if err := c.users.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("user persistence: %w", err)
	}

	// 6-7. Posts (degraded: the user already exists, so generation failure just
	// means zero posts)
	publish(StepPosts, username, "Generating posts for "+username+"...")
	posts, err := c.posts.GenerateForPersona(ctx, persona, c.cfg.PostsPerUser)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		c.logger.Warn("Post generation failed, user keeps zero posts",
			zap.String("username", username), zap.Error(err))
		publish(StepPosts, username, "Post generation failed: "+err.Error())
		posts = nil
	}

	postsCreated := 0
	for _, post := range posts {
		if err := c.persistPost(ctx, user.ID, post); err != nil {
			c.logger.Warn("Failed to persist post",
				zap.String("username", username), zap.Error(err))
			publish(StepPosts, username, "Post error: "+err.Error())
			continue
		}
		postsCreated++
	}

	publish(StepItemDone, username, fmt.Sprintf("Created %s with %d posts", username, postsCreated))
	return &model.CreatedUser{
		UserID:       user.ID,
		Username:     username,
		PostsCreated: postsCreated,
	}, nil
}

// resolveAvatar returns the avatar reference, falling back to the deterministic
// avatar on any generation or persistence failure.
func (c *Creator) resolveAvatar(ctx context.Context, persona *model.Persona, imagesOn bool, publish func(Step, string, string)) string {
	if imagesOn {
		publish(StepAvatar, persona.Username, "Generating profile photo...")
		externalURL, err := c.images.GenerateAvatar(ctx, persona)
		if err == nil {
			localRef, persistErr := c.images.Persist(ctx, externalURL, "synth-"+persona.Username)
			if persistErr == nil {
				return localRef
			}
			err = persistErr
		}
		c.logger.Warn("Avatar generation failed, using fallback",
			zap.String("username", persona.Username), zap.Error(err))
		publish(StepAvatar, persona.Username, "Image generation failed, using fallback avatar")
	}
	return c.images.FallbackAvatar(persona.Username)
}

// persistPost backdates, stores and decorates one generated post. Any error
// leaves the remaining posts of the same item unaffected.
func (c *Creator) persistPost(ctx context.Context, authorID uuid.UUID, generated model.GeneratedPost) error {
	daysAgo := generated.DaysAgo
	if daysAgo < 0 {
		daysAgo = 0
	}

	post := &models.Post{
		AuthorID:  authorID,
		Content:   generated.Content,
		CreatedAt: time.Now().AddDate(0, 0, -daysAgo),
	}
	if err := c.content.CreatePost(ctx, post); err != nil {
		return err
	}

	if tags := hashtag.ExtractTags(generated.Content); len(tags) > 0 {
		if err := c.linker.Link(ctx, post.ID, tags); err != nil {
			return err
		}
	}

	if generated.Type == model.PostTypePoll && len(generated.PollOptions) >= 2 {
		question := generated.PollQuestion
		if question == "" {
			question = "What do you think?"
		}
		if _, err := c.content.CreatePoll(ctx, post.ID, question, generated.PollOptions); err != nil {
			return err
		}
	}
	return nil
}

var invalidUsernameChars = regexp.MustCompile(`[^a-z0-9_]`)

// normalizeUsername lowercases the candidate, replaces characters outside
// [a-z0-9_], clamps to 20 chars, and substitutes a time-derived name when the
// result is too short to be usable.
func normalizeUsername(candidate string) string {
	name := invalidUsernameChars.ReplaceAllString(strings.ToLower(candidate), "_")
	if len(name) > 20 {
		name = name[:20]
	}
	if len(name) < 3 {
		name = fmt.Sprintf("user_%d", time.Now().UnixMilli()%100000)
	}
	return name
}

func clampString(s string, maxLen int) string {
	if len(s) > maxLen {
		return s[:maxLen]
	}
	return s
}

func parseBirthday(birthday string) *time.Time {
	if birthday == "" {
		return nil
	}
	parsed, err := time.Parse("2006-01-02", birthday)
	if err != nil {
		return nil
	}
	return &parsed
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
