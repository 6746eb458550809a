package joke

import (
	"context"
	"errors"
	"strings"

	"JokeBot/internal/ai"
	"JokeBot/internal/models"
	"JokeBot/internal/prompt"
	"JokeBot/internal/service/session"

	"go.uber.org/zap"
)

var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrBusy         = errors.New("previous request is still in progress")
)

// ReplyGenerator возвращает текст ответа; при ошибке провайдера текст-заглушку.
type ReplyGenerator interface {
	GenerateReply(ctx context.Context, seq []prompt.Turn, p ai.Params) string
}

// Bot оркестрирует один обмен репликами: пользовательская реплика в историю,
// сборка промпта, вызов модели, ответ в историю.
type Bot struct {
	replies ReplyGenerator
	logger  *zap.SugaredLogger
}

// New создаёт сервис оркестрации.
func New(replies ReplyGenerator, logger *zap.SugaredLogger) *Bot {
	return &Bot{replies: replies, logger: logger}
}

// Ask обрабатывает сообщение пользователя и возвращает реплику ассистента.
// Ошибки бывают только по вине вызывающего (пустой текст, неверные настройки, занятая сессия);
// сбой провайдера приходит как обычная реплика с текстом-заглушкой.
func (b *Bot) Ask(ctx context.Context, sess *session.Session, settings models.GenerationSettings, text string) (prompt.Turn, error) {
	if strings.TrimSpace(text) == "" {
		return prompt.Turn{}, ErrEmptyMessage
	}
	settings = settings.Normalize()
	if err := settings.Validate(); err != nil {
		return prompt.Turn{}, err
	}
	if !sess.TryBegin() {
		return prompt.Turn{}, ErrBusy
	}
	defer sess.End()

	sess.SetSettings(settings)

	prior, epoch := sess.Extend(prompt.Turn{Role: prompt.RoleUser, Text: text})

	system := prompt.BuildSystemTurns(settings.Style, settings.Language)
	seq := prompt.AssembleMessageSequence(system, prior, text)

	b.logger.Debugw("Запрос шутки", "session", sess.ID, "style", settings.Style, "language", settings.Language, "history", len(prior))
	reply := prompt.Turn{Role: prompt.RoleAssistant, Text: b.replies.GenerateReply(ctx, seq, settings.Params())}
	if !sess.AppendIfCurrent(epoch, reply) {
		b.logger.Infow("История очищена во время запроса, ответ не сохранён", "session", sess.ID)
	}

	return reply, nil
}

// Reset очищает историю сессии.
func (b *Bot) Reset(sess *session.Session) {
	sess.Reset()
	b.logger.Infow("История очищена", "session", sess.ID)
}

// Suggestions примеры запросов для пустой истории.
func Suggestions() []string {
	return []string{
		"Tell me a JavaScript dad joke about async/await.",
		"One-liner about off-by-one errors.",
		"Setup and punchline about SQL.",
		"A pun about Git branching.",
	}
}
