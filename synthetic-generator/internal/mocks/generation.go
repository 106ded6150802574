package mocks

import (
	"context"
	"encoding/json"

	"aurora-server/synthetic-generator/internal/imagegen"
	"aurora-server/synthetic-generator/internal/llm"
	"aurora-server/synthetic-generator/internal/model"
	"aurora-server/synthetic-generator/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Mock llm.Provider
type Provider struct {
	mock.Mock
}

var _ llm.Provider = (*Provider)(nil)

func (m *Provider) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *Provider) GenerateText(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	args := m.Called(ctx, systemPrompt, userPrompt)
	return args.String(0), args.Error(1)
}

func (m *Provider) GenerateJSON(ctx context.Context, systemPrompt, userPrompt string) (json.RawMessage, error) {
	args := m.Called(ctx, systemPrompt, userPrompt)
	raw, _ := args.Get(0).(json.RawMessage)
	return raw, args.Error(1)
}

// Mock generator.LLMClient
type LLMClient struct {
	mock.Mock
}

func (m *LLMClient) GenerateJSON(ctx context.Context, systemPrompt, userPrompt string) (json.RawMessage, error) {
	args := m.Called(ctx, systemPrompt, userPrompt)
	raw, _ := args.Get(0).(json.RawMessage)
	return raw, args.Error(1)
}

// Mock service.PersonaSource
type PersonaSource struct {
	mock.Mock
}

var _ service.PersonaSource = (*PersonaSource)(nil)

func (m *PersonaSource) Generate(ctx context.Context) (*model.Persona, error) {
	args := m.Called(ctx)
	persona, _ := args.Get(0).(*model.Persona)
	return persona, args.Error(1)
}

// Mock service.PostSource
type PostSource struct {
	mock.Mock
}

var _ service.PostSource = (*PostSource)(nil)

func (m *PostSource) GenerateForPersona(ctx context.Context, persona *model.Persona, count int) ([]model.GeneratedPost, error) {
	args := m.Called(ctx, persona, count)
	posts, _ := args.Get(0).([]model.GeneratedPost)
	return posts, args.Error(1)
}

// Mock service.TagLinker
type TagLinker struct {
	mock.Mock
}

var _ service.TagLinker = (*TagLinker)(nil)

func (m *TagLinker) Link(ctx context.Context, postID uuid.UUID, tags []string) error {
	args := m.Called(ctx, postID, tags)
	return args.Error(0)
}

// Mock imagegen.Service
type ImageService struct {
	mock.Mock
}

var _ imagegen.Service = (*ImageService)(nil)

func (m *ImageService) Enabled() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *ImageService) GenerateAvatar(ctx context.Context, persona *model.Persona) (string, error) {
	args := m.Called(ctx, persona)
	return args.String(0), args.Error(1)
}

func (m *ImageService) Persist(ctx context.Context, imageURL, filename string) (string, error) {
	args := m.Called(ctx, imageURL, filename)
	return args.String(0), args.Error(1)
}

func (m *ImageService) FallbackAvatar(username string) string {
	args := m.Called(username)
	return args.String(0)
}
