package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"JokeBot/internal/prompt"

	"go.uber.org/zap"
)

// FallbackText показывается пользователю вместо шутки при любой ошибке генерации.
const FallbackText = "Sorry, I ran into an error while trying to fetch a joke. Please try again."

// ErrCompletionUnavailable единственный вид ошибки провайдера (сеть, ключ, квота,
// битый ответ, таймаут). Наружу из Generator не выходит, только в логи и метрики.
var ErrCompletionUnavailable = errors.New("completion unavailable")

// Recorder принимает результат каждого обращения к провайдеру.
type Recorder interface {
	ObserveCompletion(model string, duration time.Duration, err error)
}

type Option func(*Generator)

// WithTimeout ограничивает время одного запроса. При 0 действует таймаут SDK.
func WithTimeout(d time.Duration) Option {
	return func(g *Generator) { g.timeout = d }
}

func WithRecorder(r Recorder) Option {
	return func(g *Generator) { g.recorder = r }
}

func WithTokenCounter(tc *TokenCounter) Option {
	return func(g *Generator) { g.tokens = tc }
}

// Generator вызывает провайдера и нормализует результат: текст ответа или FallbackText.
type Generator struct {
	client   Client
	logger   *zap.SugaredLogger
	recorder Recorder
	tokens   *TokenCounter
	timeout  time.Duration
}

func NewGenerator(client Client, logger *zap.SugaredLogger, opts ...Option) *Generator {
	g := &Generator{client: client, logger: logger}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateReply возвращает текст ответа. Ошибки не возвращаются и не повторяются:
// вместо них отдаётся FallbackText.
func (g *Generator) GenerateReply(ctx context.Context, seq []prompt.Turn, p Params) string {
	text, err := g.generate(ctx, seq, p)
	if err != nil {
		g.logger.Errorw("Ответ не получен, отдаём заглушку", "model", p.Model, "error", err)
		return FallbackText
	}
	return text
}

func (g *Generator) generate(ctx context.Context, seq []prompt.Turn, p Params) (string, error) {
	if err := checkSequence(seq); err != nil {
		return "", fmt.Errorf("%w: %w", ErrCompletionUnavailable, err)
	}
	if err := p.Validate(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrCompletionUnavailable, err)
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeoutCause(ctx, g.timeout, errors.New("completion timeout"))
		defer cancel()
	}

	start := time.Now()
	g.logger.Infow("Запрос к модели...",
		"client", fmt.Sprintf("%T", g.client),
		"model", p.Model,
		"temperature", p.Temperature,
		"maxTokens", p.MaxOutputTokens,
		"messages", len(seq),
		"promptTokens", g.tokens.Count(seq),
	)
	text, err := g.client.Complete(ctx, seq, p)
	// Пустой текст при успешном ответе считаем сбоем, а не репликой:
	// пользователь видит заглушку, в метриках это outcome=fallback.
	if err == nil && strings.TrimSpace(text) == "" {
		err = errors.New("empty completion text")
	}
	dur := time.Since(start)
	if g.recorder != nil {
		g.recorder.ObserveCompletion(string(p.Model), dur, err)
	}
	if err != nil {
		g.logger.Errorw("Ошибка ответа модели", "duration", dur.String(), "error", err)
		return "", fmt.Errorf("%w: %w", ErrCompletionUnavailable, err)
	}
	g.logger.Infow("Ответ модели получен", "duration", dur.String())

	return text, nil
}

func checkSequence(seq []prompt.Turn) error {
	if len(seq) == 0 {
		return errors.New("empty message sequence")
	}
	if last := seq[len(seq)-1]; last.Role != prompt.RoleUser {
		return fmt.Errorf("message sequence ends with %q turn", last.Role)
	}
	return nil
}
