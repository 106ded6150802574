package schemas

import (
	"encoding/json"
	"fmt"

	"aurora-server/synthetic-generator/internal/model"
)

// ParsePersona parses JSON from the persona prompt into a Persona.
func ParsePersona(data []byte) (*model.Persona, error) {
	var persona model.Persona
	if err := json.Unmarshal(data, &persona); err != nil {
		return nil, fmt.Errorf("failed to parse persona: %w", err)
	}
	return &persona, nil
}

// ParsePersonaBatch parses JSON from the persona batch prompt. The model is asked
// for {"personas": [...]} but a bare array is accepted too.
func ParsePersonaBatch(data []byte) ([]model.Persona, error) {
	var wrapped struct {
		Personas []model.Persona `json:"personas"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && len(wrapped.Personas) > 0 {
		return wrapped.Personas, nil
	}

	var bare []model.Persona
	if err := json.Unmarshal(data, &bare); err != nil {
		return nil, fmt.Errorf("failed to parse persona batch: %w", err)
	}
	return bare, nil
}

// ParsePostBatch parses JSON from the post prompt. The model is asked for
// {"posts": [...]} but a bare array is accepted too.
func ParsePostBatch(data []byte) ([]model.GeneratedPost, error) {
	var wrapped struct {
		Posts []model.GeneratedPost `json:"posts"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && len(wrapped.Posts) > 0 {
		return wrapped.Posts, nil
	}

	var bare []model.GeneratedPost
	if err := json.Unmarshal(data, &bare); err != nil {
		return nil, fmt.Errorf("failed to parse post batch: %w", err)
	}
	return bare, nil
}
