package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"aurora-server/synthetic-generator/internal/llm"
	"aurora-server/synthetic-generator/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPersonaGenerator_Generate(t *testing.T) {
	client := new(mocks.LLMClient)
	client.On("GenerateJSON", mock.Anything, personaSystemPrompt, personaUserPrompt).
		Return(json.RawMessage(`{"username": "quiet_reader", "age": 41, "bio": "Books and rain."}`), nil)

	gen := NewPersonaGenerator(client, zap.NewNop())
	persona, err := gen.Generate(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "quiet_reader", persona.Username)
	assert.Equal(t, 41, persona.Age)
	client.AssertExpectations(t)
}

func TestPersonaGenerator_Generate_DispatcherError(t *testing.T) {
	client := new(mocks.LLMClient)
	client.On("GenerateJSON", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, llm.ErrAllProvidersFailed)

	gen := NewPersonaGenerator(client, zap.NewNop())
	_, err := gen.Generate(context.Background())

	assert.ErrorIs(t, err, llm.ErrAllProvidersFailed)
}

func TestPersonaGenerator_Generate_MalformedShape(t *testing.T) {
	client := new(mocks.LLMClient)
	// Valid JSON for the dispatcher, wrong shape for the persona schema.
	client.On("GenerateJSON", mock.Anything, mock.Anything, mock.Anything).
		Return(json.RawMessage(`[1, 2, 3]`), nil)

	gen := NewPersonaGenerator(client, zap.NewNop())
	_, err := gen.Generate(context.Background())

	assert.Error(t, err)
}

func TestPersonaGenerator_GenerateBatch_CapsCount(t *testing.T) {
	client := new(mocks.LLMClient)
	client.On("GenerateJSON", mock.Anything, personaSystemPrompt, mock.MatchedBy(func(prompt string) bool {
		return strings.HasPrefix(prompt, fmt.Sprintf("Generate %d unique", maxPersonaBatch))
	})).Return(json.RawMessage(`{"personas": [{"username": "one"}, {"username": "two"}]}`), nil)

	gen := NewPersonaGenerator(client, zap.NewNop())
	personas, err := gen.GenerateBatch(context.Background(), 50)

	require.NoError(t, err)
	assert.Len(t, personas, 2)
	client.AssertExpectations(t)
}
