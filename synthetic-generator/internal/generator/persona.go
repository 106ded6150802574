package generator

import (
	"context"
	"encoding/json"
	"fmt"

	"aurora-server/synthetic-generator/internal/model"
	"aurora-server/synthetic-generator/internal/schemas"

	"go.uber.org/zap"
)

// LLMClient is the slice of the dispatcher the generators need. Generators never
// talk to a provider directly and carry no retry logic of their own.
type LLMClient interface {
	GenerateJSON(ctx context.Context, systemPrompt, userPrompt string) (json.RawMessage, error)
}

const personaSystemPrompt = `You are a creative writer generating realistic social media user personas.
Generate diverse, believable personas with varied demographics, interests, and posting styles.
Return valid JSON only.`

const personaUserPrompt = `Generate a unique social media user persona. Include these fields:
- firstName (string)
- lastName (string)
- username (lowercase, 3-20 chars, only letters/numbers/underscores)
- age (number, 18-65)
- gender (string)
- location (string, "City, Country" format)
- bio (string, 1-2 sentences, max 200 chars, personality-rich, may include emojis)
- interests (array of 3-7 topic strings)
- personality (string, e.g. "witty", "thoughtful", "enthusiastic")
- postingStyle (string, e.g. "frequent with emojis", "long-form thoughtful", "meme-heavy")
- appearance (string, physical description for generating a profile photo)
- birthday (string, YYYY-MM-DD format, consistent with age)

Return a single JSON object with these fields.`

// maxPersonaBatch caps how many personas one structured call may ask for; larger
// batches make the model drift from the schema.
const maxPersonaBatch = 5

// PersonaGenerator produces persona descriptions through the dispatcher.
type PersonaGenerator struct {
	llm    LLMClient
	logger *zap.Logger
}

// NewPersonaGenerator creates a PersonaGenerator.
func NewPersonaGenerator(llm LLMClient, logger *zap.Logger) *PersonaGenerator {
	return &PersonaGenerator{
		llm:    llm,
		logger: logger.Named("PersonaGenerator"),
	}
}

// Generate produces one persona via a single structured-mode call.
func (g *PersonaGenerator) Generate(ctx context.Context) (*model.Persona, error) {
	raw, err := g.llm.GenerateJSON(ctx, personaSystemPrompt, personaUserPrompt)
	if err != nil {
		return nil, err
	}
	persona, err := schemas.ParsePersona(raw)
	if err != nil {
		g.logger.Warn("Persona response did not match expected shape", zap.Error(err))
		return nil, err
	}
	return persona, nil
}

// GenerateBatch produces up to maxPersonaBatch personas in one call.
func (g *PersonaGenerator) GenerateBatch(ctx context.Context, count int) ([]model.Persona, error) {
	if count > maxPersonaBatch {
		count = maxPersonaBatch
	}
	if count < 1 {
		count = 1
	}

	userPrompt := fmt.Sprintf(`Generate %d unique social media user personas. Each should have:
firstName, lastName, username (lowercase, letters/numbers/underscores only, 3-20 chars),
age (18-65), gender, location ("City, Country"), bio (max 200 chars with personality),
interests (array of 3-7 topics), personality, postingStyle, appearance (for photo generation),
birthday (YYYY-MM-DD).

Make them diverse in age, gender, location, and interests.
Return JSON: { "personas": [ ...array of persona objects ] }`, count)

	raw, err := g.llm.GenerateJSON(ctx, personaSystemPrompt, userPrompt)
	if err != nil {
		return nil, err
	}
	personas, err := schemas.ParsePersonaBatch(raw)
	if err != nil {
		g.logger.Warn("Persona batch response did not match expected shape", zap.Error(err))
		return nil, err
	}
	return personas, nil
}
