package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"aurora-server/shared/models"
	"aurora-server/synthetic-generator/internal/config"
	"aurora-server/synthetic-generator/internal/mocks"
	"aurora-server/synthetic-generator/internal/model"
	"aurora-server/synthetic-generator/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type creatorFixture struct {
	cfg      *config.Config
	users    *mocks.UserRepository
	content  *mocks.ContentRepository
	personas *mocks.PersonaSource
	posts    *mocks.PostSource
	images   *mocks.ImageService
	linker   *mocks.TagLinker
	creator  *service.Creator
}

func newFixture(t *testing.T) *creatorFixture {
	t.Helper()
	f := &creatorFixture{
		cfg: &config.Config{
			MinBatchSize:        1,
			MaxBatchSize:        50,
			PostsPerUser:        2,
			SyntheticPassword:   "test-password",
			SyntheticDomain:     "synthetic.aurora.local",
			ImagePacingInterval: time.Millisecond,
		},
		users:    new(mocks.UserRepository),
		content:  new(mocks.ContentRepository),
		personas: new(mocks.PersonaSource),
		posts:    new(mocks.PostSource),
		images:   new(mocks.ImageService),
		linker:   new(mocks.TagLinker),
	}
	f.creator = service.NewCreator(
		f.cfg, f.users, f.content, f.personas, f.posts, f.images, f.linker, nil, zap.NewNop(),
	)
	return f
}

func personaNamed(username string) *model.Persona {
	return &model.Persona{
		FirstName:   "Test",
		LastName:    "Person",
		Username:    username,
		Age:         30,
		Gender:      "female",
		Location:    "Lisbon, Portugal",
		Bio:         "A test bio.",
		Birthday:    "1995-06-01",
		Personality: "calm",
	}
}

// expectUserCreated wires the uniqueness check and the insert for one username.
func (f *creatorFixture) expectUserCreated(username string) {
	f.users.On("GetUserByUsername", mock.Anything, username).Return(nil, models.ErrUserNotFound).Once()
	f.users.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Username == username
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.User).ID = uuid.New()
	}).Return(nil).Once()
}

func TestCreator_SingleItemSuccess(t *testing.T) {
	f := newFixture(t)
	f.personas.On("Generate", mock.Anything).Return(personaNamed("ana_paints"), nil).Once()
	f.expectUserCreated("ana_paints")
	f.images.On("FallbackAvatar", "ana_paints").Return("https://avatars.example/ana_paints").Once()

	generated := []model.GeneratedPost{
		{Content: "New canvas day #art", Type: model.PostTypeRegular, DaysAgo: 4},
		{Content: "Oil or acrylic?", Type: model.PostTypePoll, DaysAgo: 1,
			PollQuestion: "Oil or acrylic?", PollOptions: []string{"Oil", "Acrylic"}},
	}
	f.posts.On("GenerateForPersona", mock.Anything, mock.Anything, 2).Return(generated, nil).Once()
	f.content.On("CreatePost", mock.Anything, mock.AnythingOfType("*models.Post")).
		Run(func(args mock.Arguments) { args.Get(1).(*models.Post).ID = uuid.New() }).
		Return(nil).Twice()
	f.linker.On("Link", mock.Anything, mock.Anything, []string{"art"}).Return(nil).Once()
	f.content.On("CreatePoll", mock.Anything, mock.Anything, "Oil or acrylic?", []string{"Oil", "Acrylic"}).
		Return(&models.Poll{ID: uuid.New()}, nil).Once()

	result, err := f.creator.Run(context.Background(), 1, service.Options{})

	require.NoError(t, err)
	require.Len(t, result.Created, 1)
	assert.Empty(t, result.Errors)
	assert.Equal(t, "ana_paints", result.Created[0].Username)
	assert.Equal(t, 2, result.Created[0].PostsCreated)

	f.users.AssertExpectations(t)
	f.content.AssertExpectations(t)
	f.linker.AssertExpectations(t)
}

func TestCreator_UserFieldsPopulated(t *testing.T) {
	f := newFixture(t)
	f.personas.On("Generate", mock.Anything).Return(personaNamed("ana_paints"), nil).Once()
	f.images.On("FallbackAvatar", "ana_paints").Return("fallback-url").Once()
	f.posts.On("GenerateForPersona", mock.Anything, mock.Anything, mock.Anything).
		Return([]model.GeneratedPost(nil), nil).Once()

	var captured *models.User
	f.users.On("GetUserByUsername", mock.Anything, "ana_paints").Return(nil, models.ErrUserNotFound).Once()
	f.users.On("CreateUser", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		captured = args.Get(1).(*models.User)
		captured.ID = uuid.New()
	}).Return(nil).Once()

	_, err := f.creator.Run(context.Background(), 1, service.Options{})
	require.NoError(t, err)
	require.NotNil(t, captured)

	assert.Equal(t, "ana_paints@synthetic.aurora.local", captured.Email)
	assert.True(t, captured.IsSynthetic)
	assert.Equal(t, "A test bio.", captured.Bio)
	assert.Equal(t, "fallback-url", captured.ProfilePicture)
	require.NotNil(t, captured.Birthday)
	assert.Equal(t, 1995, captured.Birthday.Year())
	require.NotNil(t, captured.Location)
	assert.Equal(t, "Lisbon, Portugal", *captured.Location)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(captured.PasswordHash), []byte("test-password")))
}

func TestCreator_ItemIsolation(t *testing.T) {
	f := newFixture(t)
	f.personas.On("Generate", mock.Anything).Return(personaNamed("first_user"), nil).Once()
	f.personas.On("Generate", mock.Anything).Return(nil, errors.New("model unavailable")).Once()
	f.personas.On("Generate", mock.Anything).Return(personaNamed("third_user"), nil).Once()

	f.expectUserCreated("first_user")
	f.expectUserCreated("third_user")
	f.images.On("FallbackAvatar", mock.Anything).Return("fallback-url")
	f.posts.On("GenerateForPersona", mock.Anything, mock.Anything, mock.Anything).
		Return([]model.GeneratedPost(nil), nil)

	result, err := f.creator.Run(context.Background(), 3, service.Options{})

	require.NoError(t, err)
	assert.Len(t, result.Created, 2)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, 1, result.Errors[0].Index)
	assert.Contains(t, result.Errors[0].Error, "model unavailable")
	assert.Equal(t, 3, len(result.Created)+len(result.Errors))
}

func TestCreator_UsernameCollisionGetsSuffix(t *testing.T) {
	f := newFixture(t)
	f.personas.On("Generate", mock.Anything).Return(personaNamed("taken_name"), nil).Once()

	f.users.On("GetUserByUsername", mock.Anything, "taken_name").
		Return(&models.User{ID: uuid.New(), Username: "taken_name"}, nil).Once()
	var created *models.User
	f.users.On("CreateUser", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		created = args.Get(1).(*models.User)
		created.ID = uuid.New()
	}).Return(nil).Once()

	f.images.On("FallbackAvatar", mock.Anything).Return("fallback-url")
	f.posts.On("GenerateForPersona", mock.Anything, mock.Anything, mock.Anything).
		Return([]model.GeneratedPost(nil), nil)

	result, err := f.creator.Run(context.Background(), 1, service.Options{})

	require.NoError(t, err)
	require.Len(t, result.Created, 1)
	require.NotNil(t, created)
	assert.True(t, strings.HasPrefix(created.Username, "taken_name"))
	assert.NotEqual(t, "taken_name", created.Username)
}

func TestCreator_AvatarFailureFallsBack(t *testing.T) {
	f := newFixture(t)
	f.personas.On("Generate", mock.Anything).Return(personaNamed("photo_fan"), nil).Once()
	f.expectUserCreated("photo_fan")

	f.images.On("Enabled").Return(true)
	f.images.On("GenerateAvatar", mock.Anything, mock.Anything).
		Return("", errors.New("billing hard limit reached")).Once()
	f.images.On("FallbackAvatar", "photo_fan").Return("fallback-url").Once()

	f.posts.On("GenerateForPersona", mock.Anything, mock.Anything, mock.Anything).
		Return([]model.GeneratedPost(nil), nil)

	result, err := f.creator.Run(context.Background(), 1, service.Options{GenerateImages: true})

	require.NoError(t, err)
	require.Len(t, result.Created, 1)
	assert.Empty(t, result.Errors)
	f.images.AssertExpectations(t)
}

func TestCreator_AvatarPersisted(t *testing.T) {
	f := newFixture(t)
	f.personas.On("Generate", mock.Anything).Return(personaNamed("photo_fan"), nil).Once()

	f.images.On("Enabled").Return(true)
	f.images.On("GenerateAvatar", mock.Anything, mock.Anything).
		Return("https://external.example/tmp.png", nil).Once()
	f.images.On("Persist", mock.Anything, "https://external.example/tmp.png", "synth-photo_fan").
		Return("/uploads/synth-photo_fan.png", nil).Once()

	var created *models.User
	f.users.On("GetUserByUsername", mock.Anything, "photo_fan").Return(nil, models.ErrUserNotFound).Once()
	f.users.On("CreateUser", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		created = args.Get(1).(*models.User)
		created.ID = uuid.New()
	}).Return(nil).Once()
	f.posts.On("GenerateForPersona", mock.Anything, mock.Anything, mock.Anything).
		Return([]model.GeneratedPost(nil), nil)

	_, err := f.creator.Run(context.Background(), 1, service.Options{GenerateImages: true})

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "/uploads/synth-photo_fan.png", created.ProfilePicture)
	f.images.AssertNotCalled(t, "FallbackAvatar", mock.Anything)
}

func TestCreator_PostGenerationFailureKeepsUser(t *testing.T) {
	f := newFixture(t)
	f.personas.On("Generate", mock.Anything).Return(personaNamed("quiet_user"), nil).Once()
	f.expectUserCreated("quiet_user")
	f.images.On("FallbackAvatar", mock.Anything).Return("fallback-url")

	f.posts.On("GenerateForPersona", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("all generation providers failed")).Once()

	result, err := f.creator.Run(context.Background(), 1, service.Options{})

	require.NoError(t, err)
	require.Len(t, result.Created, 1)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 0, result.Created[0].PostsCreated)
}

func TestCreator_PostPersistenceFailureSkipsOnlyThatPost(t *testing.T) {
	f := newFixture(t)
	f.personas.On("Generate", mock.Anything).Return(personaNamed("busy_user"), nil).Once()
	f.expectUserCreated("busy_user")
	f.images.On("FallbackAvatar", mock.Anything).Return("fallback-url")

	generated := []model.GeneratedPost{
		{Content: "first", Type: model.PostTypeRegular},
		{Content: "second", Type: model.PostTypeRegular},
	}
	f.posts.On("GenerateForPersona", mock.Anything, mock.Anything, mock.Anything).Return(generated, nil).Once()
	f.content.On("CreatePost", mock.Anything, mock.MatchedBy(func(p *models.Post) bool {
		return p.Content == "first"
	})).Return(errors.New("constraint violation")).Once()
	f.content.On("CreatePost", mock.Anything, mock.MatchedBy(func(p *models.Post) bool {
		return p.Content == "second"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Post).ID = uuid.New()
	}).Return(nil).Once()

	result, err := f.creator.Run(context.Background(), 1, service.Options{})

	require.NoError(t, err)
	require.Len(t, result.Created, 1)
	assert.Equal(t, 1, result.Created[0].PostsCreated)
}

func TestCreator_CountClamped(t *testing.T) {
	f := newFixture(t)
	f.cfg.MaxBatchSize = 2

	f.personas.On("Generate", mock.Anything).Return(personaNamed("clamp_user"), nil).Twice()
	f.users.On("GetUserByUsername", mock.Anything, mock.Anything).Return(nil, models.ErrUserNotFound)
	f.users.On("CreateUser", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*models.User).ID = uuid.New()
	}).Return(nil)
	f.images.On("FallbackAvatar", mock.Anything).Return("fallback-url")
	f.posts.On("GenerateForPersona", mock.Anything, mock.Anything, mock.Anything).
		Return([]model.GeneratedPost(nil), nil)

	result, err := f.creator.Run(context.Background(), 10, service.Options{})

	require.NoError(t, err)
	assert.Equal(t, 2, len(result.Created)+len(result.Errors))
	f.personas.AssertNumberOfCalls(t, "Generate", 2)
}

func TestCreator_ContextCancellationStopsBatch(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())

	f.personas.On("Generate", mock.Anything).Return(personaNamed("early_user"), nil).Once()
	f.expectUserCreated("early_user")
	f.images.On("FallbackAvatar", mock.Anything).Return("fallback-url")
	f.posts.On("GenerateForPersona", mock.Anything, mock.Anything, mock.Anything).
		Return([]model.GeneratedPost(nil), nil).Once()

	f.personas.On("Generate", mock.Anything).Run(func(args mock.Arguments) {
		cancel()
	}).Return(nil, context.Canceled).Once()

	result, err := f.creator.Run(ctx, 3, service.Options{})

	assert.ErrorIs(t, err, context.Canceled)
	// Everything finished before cancellation is preserved.
	assert.Len(t, result.Created, 1)
	f.personas.AssertNumberOfCalls(t, "Generate", 2)
}

func TestCreator_ProgressEventsPublished(t *testing.T) {
	f := newFixture(t)
	f.personas.On("Generate", mock.Anything).Return(personaNamed("loud_user"), nil).Once()
	f.expectUserCreated("loud_user")
	f.images.On("FallbackAvatar", mock.Anything).Return("fallback-url")
	f.posts.On("GenerateForPersona", mock.Anything, mock.Anything, mock.Anything).
		Return([]model.GeneratedPost(nil), nil)

	collector := &service.CollectorSink{}
	_, err := f.creator.Run(context.Background(), 1, service.Options{Progress: collector})
	require.NoError(t, err)

	steps := make([]service.Step, 0)
	for _, event := range collector.Events() {
		assert.Equal(t, 1, event.Item)
		assert.Equal(t, 1, event.Total)
		steps = append(steps, event.Step)
	}
	assert.Contains(t, steps, service.StepPersona)
	assert.Contains(t, steps, service.StepCreateUser)
	assert.Contains(t, steps, service.StepItemDone)
}
