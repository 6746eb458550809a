package ai

import (
	"JokeBot/internal/prompt"

	"github.com/tiktoken-go/tokenizer"
)

// TokenCounter оценивает размер промпта в токенах (cl100k_base). Только для логов:
// история никогда не усекается по этому значению.
type TokenCounter struct {
	codec tokenizer.Codec
}

func NewTokenCounter() (*TokenCounter, error) {
	codec, err := tokenizer.Get(tokenizer.Cl100kBase)
	if err != nil {
		return nil, err
	}
	return &TokenCounter{codec: codec}, nil
}

// Count суммирует токены текста всех реплик. Nil-счётчик возвращает 0.
func (c *TokenCounter) Count(turns []prompt.Turn) int {
	if c == nil {
		return 0
	}
	n := 0
	for _, t := range turns {
		_, toks, err := c.codec.Encode(t.Text)
		if err != nil {
			continue
		}
		n += len(toks)
	}
	return n
}
