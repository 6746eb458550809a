package app

import (
	"context"
	"errors"
	"time"

	"JokeBot/internal/ai"
	"JokeBot/internal/config"
	"JokeBot/internal/metrics"
	"JokeBot/internal/service/joke"
	"JokeBot/internal/service/session"
	"JokeBot/internal/web"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// App собирает зависимости бота: клиента модели, хранилище сессий, сервис шуток и веб-сервер.
type App struct {
	cfg      *config.Config
	logger   *zap.SugaredLogger
	registry *prometheus.Registry
	metrics  *metrics.Metrics

	Bot   *joke.Bot
	Store *session.Store
}

// NewLogger создаёт логгер: development в режиме отладки, иначе production.
func NewLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func New(cfg *config.Config, logger *zap.SugaredLogger) (*App, error) {
	defaults, err := cfg.Settings()
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	tokens, err := ai.NewTokenCounter()
	if err != nil {
		// без счётчика просто не пишем размер промпта в логи
		logger.Warnw("Tokenizer unavailable", "error", err)
	}

	var client ai.Client
	if cfg.UseStubClient {
		client = ai.NewStubClient()
		logger.Infow("Используется заглушка вместо OpenAI")
	} else {
		client = ai.NewChatClient(ai.NewOpenAI(cfg.OpenAIBaseURL))
	}

	gen := ai.NewGenerator(client, logger,
		ai.WithTimeout(cfg.CompletionTimeout),
		ai.WithRecorder(m),
		ai.WithTokenCounter(tokens),
	)

	return &App{
		cfg:      cfg,
		logger:   logger,
		registry: reg,
		metrics:  m,
		Bot:      joke.New(gen, logger),
		Store:    session.NewStore(logger, m, defaults),
	}, nil
}

// Run запускает веб-сервер и очистку сессий и блокируется до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	h := web.NewHandler(a.Bot, a.Store, a.cfg.HTTP.CookieSecure, a.logger)
	srv := web.NewServer(a.cfg.HTTP, web.NewRouter(h, a.registry, a.logger), a.logger)
	if err := srv.Start(ctx); err != nil {
		return err
	}
	go a.Store.RunSweeper(ctx, a.cfg.SessionSweepInterval, a.cfg.SessionIdleTTL)

	a.logger.Infow("JokeBot started",
		"addr", srv.Addr(),
		"stub", a.cfg.UseStubClient,
		"sessionTTL", a.cfg.SessionIdleTTL.String(),
	)
	<-ctx.Done()

	stopCtx, cancel := context.WithTimeoutCause(context.WithoutCancel(ctx), 5*time.Second, errors.New("shutdown timeout"))
	defer cancel()
	return srv.Stop(stopCtx)
}
