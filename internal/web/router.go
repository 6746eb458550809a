package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewRouter собирает маршруты страницы, JSON API, WebSocket и служебных эндпоинтов.
func NewRouter(h *Handler, gatherer prometheus.Gatherer, logger *zap.SugaredLogger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	// Страница
	r.Get("/", h.Index)
	r.Post("/chat", h.SubmitChat)
	r.Post("/reset", h.SubmitReset)

	r.Route("/api", func(r chi.Router) {
		r.Get("/options", h.Options)
		r.Get("/history", h.History)
		r.Post("/chat", h.Chat)
		r.Post("/reset", h.Reset)
	})

	r.Get("/ws", h.WebSocket)

	return r
}

// requestLogger пишет одну строку лога на запрос.
func requestLogger(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Infow("HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start).String(),
				"requestID", chimiddleware.GetReqID(r.Context()),
			)
		})
	}
}
