package web

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"JokeBot/internal/config"

	"go.uber.org/zap"
)

// Server HTTP-сервер веб-интерфейса.
type Server struct {
	cfg    config.HTTPConfig
	srv    *http.Server
	logger *zap.SugaredLogger

	mu       sync.Mutex
	ln       net.Listener
	done     chan struct{}
	stopping bool
}

func NewServer(cfg config.HTTPConfig, handler http.Handler, logger *zap.SugaredLogger) *Server {
	if cfg.BindAddr == "" {
		cfg.BindAddr = "127.0.0.1:8080"
	}
	return &Server{
		cfg:    cfg,
		logger: logger,
		srv: &http.Server{
			Addr:              cfg.BindAddr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			// ответ модели может идти долго
			WriteTimeout: 120 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Start занимает адрес и начинает обслуживать запросы в отдельной горутине.
// Ошибка привязки к порту возвращается сразу. Отмена ctx останавливает сервер.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln != nil {
		return nil
	}

	ln, err := net.Listen("tcp", s.cfg.BindAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.BindAddr, err)
	}
	s.ln = ln
	s.done = make(chan struct{})

	go func(done chan struct{}) {
		defer close(done)
		s.logger.Infow("Web server listening", "addr", "http://"+ln.Addr().String())
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Errorw("Web server stopped with error", "error", err)
			return
		}
		s.logger.Infow("Web server stopped")
	}(s.done)

	go func() {
		<-ctx.Done()
		_ = s.Stop(context.WithoutCancel(ctx))
	}()
	return nil
}

// Stop корректно завершает сервер; если не успел за 5 секунд, закрывает соединения.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	done := s.done
	if s.ln == nil || s.stopping {
		s.mu.Unlock()
		if done != nil {
			<-done
		}
		return nil
	}
	s.stopping = true
	s.mu.Unlock()

	shutdownCtx, cancel := context.WithTimeoutCause(ctx, 5*time.Second, errors.New("web server shutdown timeout"))
	defer cancel()
	err := s.srv.Shutdown(shutdownCtx)
	if err != nil {
		s.logger.Warnw("graceful shutdown error", "error", err)
		err = s.srv.Close()
	}
	<-done
	return err
}

// Addr адрес, на котором сервер реально слушает (с выбранным портом при :0).
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.cfg.BindAddr
}
