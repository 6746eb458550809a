package joke

import (
	"context"
	"errors"
	"testing"

	"JokeBot/internal/ai"
	"JokeBot/internal/models"
	"JokeBot/internal/prompt"
	"JokeBot/internal/service/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingGenerator struct {
	reply string
	seqs  [][]prompt.Turn
	ps    []ai.Params
}

func (g *recordingGenerator) GenerateReply(_ context.Context, seq []prompt.Turn, p ai.Params) string {
	g.seqs = append(g.seqs, seq)
	g.ps = append(g.ps, p)
	return g.reply
}

type failingClient struct{}

func (failingClient) Complete(context.Context, []prompt.Turn, ai.Params) (string, error) {
	return "", errors.New("dial tcp: connection refused")
}

func newBot(gen ReplyGenerator) (*Bot, *session.Session) {
	logger := zap.NewNop().Sugar()
	store := session.NewStore(logger, nil, models.DefaultSettings())
	return New(gen, logger), store.New()
}

func TestAsk_FirstExchange(t *testing.T) {
	gen := &recordingGenerator{reply: "Why did the function call itself? To get to the base case."}
	bot, sess := newBot(gen)

	settings := models.DefaultSettings()
	settings.Style = prompt.StyleOneLiner
	reply, err := bot.Ask(context.Background(), sess, settings, "tell me one about recursion")
	require.NoError(t, err)
	assert.Equal(t, prompt.Turn{Role: prompt.RoleAssistant, Text: gen.reply}, reply)

	require.Len(t, gen.seqs, 1)
	seq := gen.seqs[0]
	require.Len(t, seq, 3)
	assert.Equal(t, "You are a helpful assistant.", seq[0].Text)
	assert.Contains(t, seq[1].Text, "Prefer concise one-liners")
	assert.Equal(t, prompt.Turn{Role: prompt.RoleUser, Text: "tell me one about recursion"}, seq[2])

	assert.Equal(t, []prompt.Turn{
		{Role: prompt.RoleUser, Text: "tell me one about recursion"},
		reply,
	}, sess.Turns())
}

func TestAsk_ResendsFullHistory(t *testing.T) {
	gen := &recordingGenerator{reply: "ok"}
	bot, sess := newBot(gen)
	settings := models.DefaultSettings()

	for _, q := range []string{"one", "two", "three"} {
		_, err := bot.Ask(context.Background(), sess, settings, q)
		require.NoError(t, err)
	}

	last := gen.seqs[2]
	require.Len(t, last, 2+4+1)
	assert.Equal(t, sess.Turns()[:4], last[2:6])
	assert.Equal(t, prompt.Turn{Role: prompt.RoleUser, Text: "three"}, last[6])
	assert.Equal(t, 6, sess.Len())
}

func TestAsk_PassesSettingsThrough(t *testing.T) {
	gen := &recordingGenerator{reply: "ok"}
	bot, sess := newBot(gen)

	settings := models.GenerationSettings{
		Model:           ai.ModelGPT35Turbo,
		Style:           prompt.StyleExplainAfter,
		Language:        "Korean",
		Temperature:     1.5,
		MaxOutputTokens: 512,
	}
	_, err := bot.Ask(context.Background(), sess, settings, "hi")
	require.NoError(t, err)
	assert.Equal(t, ai.Params{Model: ai.ModelGPT35Turbo, Temperature: 1.5, MaxOutputTokens: 512}, gen.ps[0])
	assert.Contains(t, gen.seqs[0][1].Text, "Respond in Korean.")
	assert.Equal(t, settings, sess.Settings())
}

func TestAsk_FailureAppendsFallback(t *testing.T) {
	gen := ai.NewGenerator(failingClient{}, zap.NewNop().Sugar())
	bot, sess := newBot(gen)

	reply, err := bot.Ask(context.Background(), sess, models.DefaultSettings(), "a joke please")
	require.NoError(t, err)
	assert.Equal(t, "Sorry, I ran into an error while trying to fetch a joke. Please try again.", reply.Text)
	turns := sess.Turns()
	require.Len(t, turns, 2)
	assert.Equal(t, prompt.Turn{Role: prompt.RoleAssistant, Text: ai.FallbackText}, turns[1])
}

func TestAsk_CallerErrors(t *testing.T) {
	gen := &recordingGenerator{reply: "ok"}
	bot, sess := newBot(gen)

	_, err := bot.Ask(context.Background(), sess, models.DefaultSettings(), "   ")
	assert.ErrorIs(t, err, ErrEmptyMessage)

	bad := models.DefaultSettings()
	bad.MaxOutputTokens = 1024
	_, err = bot.Ask(context.Background(), sess, bad, "hi")
	assert.ErrorIs(t, err, models.ErrInvalidSettings)

	require.True(t, sess.TryBegin())
	_, err = bot.Ask(context.Background(), sess, models.DefaultSettings(), "hi")
	assert.ErrorIs(t, err, ErrBusy)
	sess.End()

	assert.Empty(t, gen.seqs)
	assert.Zero(t, sess.Len())
}

func TestAsk_EmptySettingsUseDefaults(t *testing.T) {
	gen := &recordingGenerator{reply: "ok"}
	bot, sess := newBot(gen)

	_, err := bot.Ask(context.Background(), sess, models.GenerationSettings{Temperature: 0.5, MaxOutputTokens: 128}, "hi")
	require.NoError(t, err)
	assert.Equal(t, ai.DefaultModel, gen.ps[0].Model)
	assert.True(t, len(gen.seqs[0][1].Text) > 0)
	assert.Contains(t, gen.seqs[0][1].Text, prompt.StyleSurpriseMe.Directive())
}

func TestReset(t *testing.T) {
	bot, sess := newBot(&recordingGenerator{reply: "ok"})
	_, err := bot.Ask(context.Background(), sess, models.DefaultSettings(), "hi")
	require.NoError(t, err)

	bot.Reset(sess)
	assert.Empty(t, sess.Turns())
}

// gatedGenerator отвечает только после закрытия release.
type gatedGenerator struct {
	entered chan struct{}
	release chan struct{}
}

func (g *gatedGenerator) GenerateReply(context.Context, []prompt.Turn, ai.Params) string {
	close(g.entered)
	<-g.release
	return "late joke"
}

func TestReset_DuringRequestDropsLateReply(t *testing.T) {
	gen := &gatedGenerator{entered: make(chan struct{}), release: make(chan struct{})}
	bot, sess := newBot(gen)

	type result struct {
		reply prompt.Turn
		err   error
	}
	done := make(chan result, 1)
	go func() {
		reply, err := bot.Ask(context.Background(), sess, models.DefaultSettings(), "tell me one about recursion")
		done <- result{reply, err}
	}()

	<-gen.entered
	bot.Reset(sess)
	assert.Empty(t, sess.Turns())

	close(gen.release)
	res := <-done
	require.NoError(t, res.err)
	assert.Equal(t, "late joke", res.reply.Text)
	assert.Empty(t, sess.Turns())

	// после сброса сессия снова принимает запросы и история начинается с реплики пользователя
	bot2, _ := newBot(&recordingGenerator{reply: "fresh"})
	_, err := bot2.Ask(context.Background(), sess, models.DefaultSettings(), "again")
	require.NoError(t, err)
	turns := sess.Turns()
	require.Len(t, turns, 2)
	assert.Equal(t, prompt.RoleUser, turns[0].Role)
	assert.Equal(t, prompt.RoleAssistant, turns[1].Role)
}

func TestSuggestions(t *testing.T) {
	assert.Len(t, Suggestions(), 4)
}
