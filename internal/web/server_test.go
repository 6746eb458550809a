package web

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"JokeBot/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
}

func TestServer_StartReportsBusyPort(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()

	srv := NewServer(config.HTTPConfig{BindAddr: busy.Addr().String()}, okHandler(), zap.NewNop().Sugar())
	err = srv.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), busy.Addr().String())

	assert.NoError(t, srv.Stop(context.Background()))
}

func TestServer_StartServeStop(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := NewServer(config.HTTPConfig{BindAddr: "127.0.0.1:0"}, okHandler(), zap.NewNop().Sugar())
	require.NoError(t, srv.Start(ctx))
	// повторный Start ничего не делает
	require.NoError(t, srv.Start(ctx))

	addr := srv.Addr()
	assert.NotEqual(t, "127.0.0.1:0", addr)

	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Get("http://" + addr + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "ok", string(body))

	require.NoError(t, srv.Stop(context.Background()))
	// отмена ctx после Stop не должна ломать остановку
	cancel()
	assert.NoError(t, srv.Stop(context.Background()))

	_, err = client.Get("http://" + addr + "/")
	assert.Error(t, err)
}
