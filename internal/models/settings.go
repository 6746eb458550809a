package models

import (
	"errors"
	"fmt"
	"strings"

	"JokeBot/internal/ai"
	"JokeBot/internal/prompt"
)

var ErrInvalidSettings = errors.New("invalid settings")

// GenerationSettings параметры одного запроса, собранные с панели настроек.
// Пересчитываются на каждом запросе; в историю не попадают.
type GenerationSettings struct {
	Model           ai.Model     `json:"model"`
	Style           prompt.Style `json:"style"`
	Language        string       `json:"language"`
	Temperature     float64      `json:"temperature"`
	MaxOutputTokens int          `json:"max_output_tokens"`
}

// DefaultSettings значения по умолчанию панели настроек.
func DefaultSettings() GenerationSettings {
	return GenerationSettings{
		Model:           ai.DefaultModel,
		Style:           prompt.DefaultStyle,
		Language:        prompt.DefaultLanguage,
		Temperature:     ai.DefaultTemperature,
		MaxOutputTokens: ai.DefaultTokens,
	}
}

// Normalize подставляет значения по умолчанию вместо пустых строк.
func (s GenerationSettings) Normalize() GenerationSettings {
	s.Model = ai.Model(strings.TrimSpace(string(s.Model)))
	s.Style = prompt.Style(strings.TrimSpace(string(s.Style)))
	s.Language = strings.TrimSpace(s.Language)
	if s.Model == "" {
		s.Model = ai.DefaultModel
	}
	if s.Style == "" {
		s.Style = prompt.DefaultStyle
	}
	if s.Language == "" {
		s.Language = prompt.DefaultLanguage
	}
	return s
}

// Validate принимает только значения из фиксированных списков.
// Неизвестный стиль ошибкой не считается: при сборке промпта он сводится к «Surprise me».
func (s GenerationSettings) Validate() error {
	if err := s.Params().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}
	if !prompt.IsKnownLanguage(s.Language) {
		return fmt.Errorf("%w: unknown language %q", ErrInvalidSettings, s.Language)
	}
	return nil
}

// Params параметры генерации для адаптера.
func (s GenerationSettings) Params() ai.Params {
	return ai.Params{
		Model:           s.Model,
		Temperature:     s.Temperature,
		MaxOutputTokens: s.MaxOutputTokens,
	}
}
