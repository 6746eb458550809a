package ai

import (
	"context"
	"errors"
	"strings"

	"JokeBot/internal/prompt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

var _ Client = (*ChatClient)(nil)

// NewOpenAI создаёт клиента OpenAI. Ключ берётся из OPENAI_API_KEY.
// Повторы SDK отключены: на один запрос пользователя приходится один вызов API.
func NewOpenAI(baseURL string, opts ...option.RequestOption) *openai.Client {
	all := []option.RequestOption{option.WithMaxRetries(0)}
	if u := strings.TrimSpace(baseURL); u != "" {
		all = append(all, option.WithBaseURL(u))
	}
	all = append(all, opts...)
	c := openai.NewClient(all...)
	return &c
}

// ChatClient отправляет диалог в OpenAI Chat Completions.
type ChatClient struct {
	client *openai.Client
}

func NewChatClient(client *openai.Client) *ChatClient {
	return &ChatClient{client: client}
}

// Complete передаёт реплики в исходном порядке и возвращает текст первого варианта ответа.
func (c *ChatClient) Complete(ctx context.Context, messages []prompt.Turn, p Params) (string, error) {
	if c.client == nil {
		return "", errors.New("nil openai client")
	}

	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case prompt.RoleSystem:
			msgs = append(msgs, openai.SystemMessage(m.Text))
		case prompt.RoleAssistant:
			msgs = append(msgs, openai.AssistantMessage(m.Text))
		default:
			msgs = append(msgs, openai.UserMessage(m.Text))
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(p.Model),
		Messages:    msgs,
		Temperature: openai.Float(p.Temperature),
		MaxTokens:   openai.Int(int64(p.MaxOutputTokens)),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices in response")
	}

	return resp.Choices[0].Message.Content, nil
}
