package ai

import (
	"context"
	"errors"
	"fmt"

	"JokeBot/internal/prompt"
)

// Model идентификатор поддерживаемой модели.
type Model string

const (
	ModelGPT4       Model = "gpt-4"
	ModelGPT35Turbo Model = "gpt-3.5-turbo"

	DefaultModel = ModelGPT4
)

// Models возвращает поддерживаемые модели в порядке показа в UI.
func Models() []Model {
	return []Model{ModelGPT4, ModelGPT35Turbo}
}

func (m Model) Known() bool {
	return m == ModelGPT4 || m == ModelGPT35Turbo
}

// Границы параметров генерации (включительно).
const (
	TemperatureMin     = 0.0
	TemperatureMax     = 1.5
	DefaultTemperature = 0.8

	TokensMin     = 64
	TokensMax     = 512
	DefaultTokens = 180
)

var ErrInvalidParams = errors.New("invalid generation params")

// Params параметры одного запроса генерации.
type Params struct {
	Model           Model
	Temperature     float64
	MaxOutputTokens int
}

// Validate проверяет, что модель поддерживается, а числа лежат в допустимых границах.
func (p Params) Validate() error {
	if !p.Model.Known() {
		return fmt.Errorf("%w: unknown model %q", ErrInvalidParams, p.Model)
	}
	if p.Temperature < TemperatureMin || p.Temperature > TemperatureMax {
		return fmt.Errorf("%w: temperature %.2f out of [%.1f, %.1f]", ErrInvalidParams, p.Temperature, TemperatureMin, TemperatureMax)
	}
	if p.MaxOutputTokens < TokensMin || p.MaxOutputTokens > TokensMax {
		return fmt.Errorf("%w: max tokens %d out of [%d, %d]", ErrInvalidParams, p.MaxOutputTokens, TokensMin, TokensMax)
	}
	return nil
}

// Client интерфейс для обращения к провайдеру генерации. Все реализации должны быть взаимозаменяемыми.
type Client interface {
	Complete(ctx context.Context, messages []prompt.Turn, p Params) (string, error)
}
