package models

import (
	"testing"

	"JokeBot/internal/ai"
	"JokeBot/internal/prompt"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSettingsAreValid(t *testing.T) {
	s := DefaultSettings()
	assert.NoError(t, s.Validate())
	assert.Equal(t, ai.ModelGPT4, s.Model)
	assert.Equal(t, prompt.StyleSurpriseMe, s.Style)
	assert.Equal(t, "English", s.Language)
	assert.Equal(t, 0.8, s.Temperature)
	assert.Equal(t, 180, s.MaxOutputTokens)
}

func TestNormalize(t *testing.T) {
	s := GenerationSettings{Model: " ", Language: "", Temperature: 0.3, MaxOutputTokens: 100}.Normalize()
	assert.Equal(t, ai.DefaultModel, s.Model)
	assert.Equal(t, prompt.DefaultStyle, s.Style)
	assert.Equal(t, prompt.DefaultLanguage, s.Language)
	assert.Equal(t, 0.3, s.Temperature)

	s = GenerationSettings{Model: " gpt-3.5-turbo ", Style: " Puns", Language: "French "}.Normalize()
	assert.Equal(t, ai.ModelGPT35Turbo, s.Model)
	assert.Equal(t, prompt.StylePuns, s.Style)
	assert.Equal(t, "French", s.Language)
}

func TestValidate(t *testing.T) {
	base := DefaultSettings()
	tests := []struct {
		name    string
		mutate  func(*GenerationSettings)
		wantErr bool
	}{
		{"min bounds", func(s *GenerationSettings) { s.Temperature = 0.0; s.MaxOutputTokens = 64 }, false},
		{"max bounds", func(s *GenerationSettings) { s.Temperature = 1.5; s.MaxOutputTokens = 512 }, false},
		{"unknown style degrades", func(s *GenerationSettings) { s.Style = "Haiku" }, false},
		{"unknown model", func(s *GenerationSettings) { s.Model = "gpt-4o" }, true},
		{"unknown language", func(s *GenerationSettings) { s.Language = "Klingon" }, true},
		{"temperature above", func(s *GenerationSettings) { s.Temperature = 1.6 }, true},
		{"tokens below", func(s *GenerationSettings) { s.MaxOutputTokens = 32 }, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := base
			tc.mutate(&s)
			err := s.Validate()
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSettings)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParams(t *testing.T) {
	s := GenerationSettings{Model: ai.ModelGPT35Turbo, Temperature: 1.5, MaxOutputTokens: 512}
	assert.Equal(t, ai.Params{Model: ai.ModelGPT35Turbo, Temperature: 1.5, MaxOutputTokens: 512}, s.Params())
}
