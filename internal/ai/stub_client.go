package ai

import (
	"context"
	"sync/atomic"

	"JokeBot/internal/prompt"
)

var stubJokes = []string{
	"There are only 10 kinds of people: those who understand binary and those who don't.",
	"A SQL query walks into a bar, walks up to two tables and asks: \"Can I join you?\"",
	"I would tell you a UDP joke, but you might not get it.",
	"Why do programmers prefer dark mode? Because light attracts bugs.",
}

// StubClient заглушка, которая не делает реальных запросов и по кругу отдаёт заготовленные шутки.
type StubClient struct {
	next atomic.Uint64
}

func NewStubClient() *StubClient { return &StubClient{} }

func (c *StubClient) Complete(_ context.Context, _ []prompt.Turn, _ Params) (string, error) {
	i := c.next.Add(1) - 1
	return stubJokes[i%uint64(len(stubJokes))], nil
}
