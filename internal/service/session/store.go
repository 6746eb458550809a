package session

import (
	"context"
	"sync"
	"time"

	"JokeBot/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Gauge получает текущее число сессий после каждого изменения.
type Gauge interface {
	SetSessions(n int)
}

// Store потокобезопасное хранилище сессий в памяти. Перезапуск процесса их теряет.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	logger   *zap.SugaredLogger
	gauge    Gauge
	defaults models.GenerationSettings
	now      func() time.Time
}

// NewStore создаёт хранилище; defaults задают настройки новой сессии до первого запроса.
func NewStore(logger *zap.SugaredLogger, gauge Gauge, defaults models.GenerationSettings) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		logger:   logger,
		gauge:    gauge,
		defaults: defaults,
		now:      time.Now,
	}
}

// New создаёт пустую сессию со случайным ID.
func (s *Store) New() *Session {
	sess := newSession(uuid.NewString(), s.defaults, s.now)
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	n := len(s.sessions)
	s.mu.Unlock()
	s.report(n)
	return sess
}

// Defaults возвращает настройки, которые получает новая сессия.
func (s *Store) Defaults() models.GenerationSettings { return s.defaults }

func (s *Store) Get(id string) (*Session, bool) {
	if id == "" {
		return nil, false
	}
	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	return sess, ok
}

// GetOrCreate возвращает сессию по ID или новую, если такой нет. created=true для новой.
func (s *Store) GetOrCreate(id string) (sess *Session, created bool) {
	if sess, ok := s.Get(id); ok {
		sess.Touch()
		return sess, false
	}
	return s.New(), true
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	n := len(s.sessions)
	s.mu.Unlock()
	s.report(n)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep удаляет сессии, не использовавшиеся дольше idle. Занятые сессии не трогает.
func (s *Store) Sweep(idle time.Duration) int {
	if idle <= 0 {
		return 0
	}
	deadline := s.now().Add(-idle)

	s.mu.Lock()
	removed := 0
	for id, sess := range s.sessions {
		if !sess.LastSeen().Before(deadline) {
			continue
		}
		if !sess.TryBegin() {
			continue
		}
		delete(s.sessions, id)
		sess.End()
		removed++
	}
	n := len(s.sessions)
	s.mu.Unlock()

	if removed > 0 {
		s.logger.Infow("Удалены неактивные сессии", "removed", removed, "left", n)
		s.report(n)
	}
	return removed
}

// RunSweeper периодически вызывает Sweep до отмены контекста.
func (s *Store) RunSweeper(ctx context.Context, every, idle time.Duration) {
	if every <= 0 || idle <= 0 {
		return
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Sweep(idle)
		}
	}
}

func (s *Store) report(n int) {
	if s.gauge != nil {
		s.gauge.SetSessions(n)
	}
}
