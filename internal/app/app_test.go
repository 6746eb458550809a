package app

import (
	"context"
	"net"
	"testing"
	"time"

	"JokeBot/internal/config"
	"JokeBot/internal/prompt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func stubConfig() *config.Config {
	cfg := config.Defaults()
	cfg.UseStubClient = true
	cfg.HTTP.BindAddr = "127.0.0.1:0"
	return cfg
}

func TestNew_StubAnswers(t *testing.T) {
	a, err := New(stubConfig(), zap.NewNop().Sugar())
	require.NoError(t, err)

	sess := a.Store.New()
	reply, err := a.Bot.Ask(context.Background(), sess, sess.Settings(), "joke please")
	require.NoError(t, err)
	assert.Equal(t, prompt.RoleAssistant, reply.Role)
	assert.NotEmpty(t, reply.Text)
	assert.Equal(t, 2, sess.Len())
}

func TestNew_BadDefaults(t *testing.T) {
	cfg := stubConfig()
	cfg.DefaultTemperature = 3
	_, err := New(cfg, zap.NewNop().Sugar())
	assert.Error(t, err)
}

func TestRun_StopsOnCancel(t *testing.T) {
	a, err := New(stubConfig(), zap.NewNop().Sugar())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- a.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_BusyPortReturnsError(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()

	cfg := stubConfig()
	cfg.HTTP.BindAddr = busy.Addr().String()
	a, err := New(cfg, zap.NewNop().Sugar())
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() { errCh <- a.Run(context.Background()) }()

	select {
	case err := <-errCh:
		assert.Error(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Run kept waiting without a listener")
	}
}

func TestNewLogger(t *testing.T) {
	for _, debug := range []bool{true, false} {
		l, err := NewLogger(debug)
		require.NoError(t, err)
		assert.NotNil(t, l)
	}
}
