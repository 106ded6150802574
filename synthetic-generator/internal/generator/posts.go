package generator

import (
	"context"
	"fmt"
	"strings"

	"aurora-server/synthetic-generator/internal/model"
	"aurora-server/synthetic-generator/internal/schemas"

	"go.uber.org/zap"
)

const postSystemPrompt = `You are generating realistic social media posts for a specific user persona.
Posts should match the persona's interests, personality, and posting style.
Include relevant hashtags naturally in the content.
Vary the content types: opinions, questions, sharing experiences, life updates.
Return valid JSON only.`

// PostGenerator produces post batches for a persona through the dispatcher.
type PostGenerator struct {
	llm    LLMClient
	logger *zap.Logger
}

// NewPostGenerator creates a PostGenerator.
func NewPostGenerator(llm LLMClient, logger *zap.Logger) *PostGenerator {
	return &PostGenerator{
		llm:    llm,
		logger: logger.Named("PostGenerator"),
	}
}

// GenerateForPersona produces count post descriptions matching the persona via a
// single structured-mode call.
func (g *PostGenerator) GenerateForPersona(ctx context.Context, persona *model.Persona, count int) ([]model.GeneratedPost, error) {
	if count < 1 {
		count = 10
	}

	userPrompt := fmt.Sprintf(`Generate %d social media posts for this persona:
Name: %s %s
Interests: %s
Personality: %s
Posting style: %s
Location: %s

For each post include:
- content (string, 10-500 chars, include #hashtags naturally in the text)
- type ("regular" | "poll")
- daysAgo (number, 0-90, spread out to simulate realistic posting frequency)
- pollQuestion (string, only if type is "poll")
- pollOptions (array of 2-4 strings, only if type is "poll")

Mix types: ~80%% regular, ~20%% polls.
Spread daysAgo values across the range.

Return JSON: { "posts": [ ...array of post objects ] }`,
		count,
		persona.FirstName, persona.LastName,
		strings.Join(persona.Interests, ", "),
		persona.Personality,
		persona.PostingStyle,
		persona.Location,
	)

	raw, err := g.llm.GenerateJSON(ctx, postSystemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}
	posts, err := schemas.ParsePostBatch(raw)
	if err != nil {
		g.logger.Warn("Post batch response did not match expected shape", zap.Error(err))
		return nil, err
	}
	return posts, nil
}
