package session

import (
	"sync"
	"time"

	"JokeBot/internal/models"
	"JokeBot/internal/prompt"
)

// Session диалог одного посетителя: история реплик и последние выбранные настройки.
// История только дополняется; Reset отбрасывает её целиком.
type Session struct {
	ID string

	mu       sync.Mutex
	history  []prompt.Turn
	epoch    uint64 // растёт на каждом Reset
	settings models.GenerationSettings
	lastSeen time.Time
	now      func() time.Time

	// держится на время одного обмена репликами
	busy sync.Mutex
}

func newSession(id string, settings models.GenerationSettings, now func() time.Time) *Session {
	return &Session{
		ID:       id,
		settings: settings,
		lastSeen: now(),
		now:      now,
	}
}

// Append добавляет реплику в конец истории. Системные реплики в историю не попадают.
func (s *Session) Append(turn prompt.Turn) {
	if turn.Role == prompt.RoleSystem {
		return
	}
	s.mu.Lock()
	s.history = append(s.history, turn)
	s.lastSeen = s.now()
	s.mu.Unlock()
}

// Extend добавляет реплику и возвращает историю до неё вместе с текущей эпохой.
// Эпоху потом передают в AppendIfCurrent, чтобы ответ не попал в уже очищенную историю.
func (s *Session) Extend(turn prompt.Turn) (prior []prompt.Turn, epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prior = make([]prompt.Turn, len(s.history))
	copy(prior, s.history)
	if turn.Role != prompt.RoleSystem {
		s.history = append(s.history, turn)
	}
	s.lastSeen = s.now()
	return prior, s.epoch
}

// AppendIfCurrent добавляет реплику, только если после Extend не было Reset.
func (s *Session) AppendIfCurrent(epoch uint64, turn prompt.Turn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch || turn.Role == prompt.RoleSystem {
		return false
	}
	s.history = append(s.history, turn)
	s.lastSeen = s.now()
	return true
}

// Turns возвращает копию истории в порядке добавления.
func (s *Session) Turns() []prompt.Turn {
	s.mu.Lock()
	out := make([]prompt.Turn, len(s.history))
	copy(out, s.history)
	s.mu.Unlock()
	return out
}

func (s *Session) Len() int {
	s.mu.Lock()
	l := len(s.history)
	s.mu.Unlock()
	return l
}

// Reset очищает историю. Настройки сохраняются.
// Ответ на запрос, начатый до Reset, в новую историю уже не попадёт.
func (s *Session) Reset() {
	s.mu.Lock()
	s.history = nil
	s.epoch++
	s.lastSeen = s.now()
	s.mu.Unlock()
}

func (s *Session) Settings() models.GenerationSettings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// SetSettings запоминает последние присланные настройки.
func (s *Session) SetSettings(settings models.GenerationSettings) {
	s.mu.Lock()
	s.settings = settings
	s.lastSeen = s.now()
	s.mu.Unlock()
}

func (s *Session) Touch() {
	s.mu.Lock()
	s.lastSeen = s.now()
	s.mu.Unlock()
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// TryBegin занимает сессию под один обмен репликами. false, если предыдущий ещё не завершён.
func (s *Session) TryBegin() bool {
	return s.busy.TryLock()
}

// End освобождает сессию после TryBegin.
func (s *Session) End() {
	s.busy.Unlock()
}
