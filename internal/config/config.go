package config

import (
	"flag"
	"os"
	"time"

	"JokeBot/internal/ai"
	"JokeBot/internal/models"
	"JokeBot/internal/prompt"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	DebugMode     bool   `env:"DEBUG_MODE"`      // Режим дебага: development-логгер, подробные логи
	UseStubClient bool   `env:"USE_STUB_CLIENT"` // Не ходить в OpenAI, отвечать заготовленными шутками
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"` // Альтернативный адрес API (OpenAI-совместимый прокси); ключ берётся из OPENAI_API_KEY

	HTTP HTTPConfig

	// Значения панели настроек по умолчанию
	DefaultModel       string  `env:"DEFAULT_MODEL"`
	DefaultStyle       string  `env:"DEFAULT_STYLE"`
	DefaultLanguage    string  `env:"DEFAULT_LANGUAGE"`
	DefaultTemperature float64 `env:"DEFAULT_TEMPERATURE"`
	DefaultMaxTokens   int     `env:"DEFAULT_MAX_TOKENS"`

	CompletionTimeout time.Duration `env:"COMPLETION_TIMEOUT"` // Таймаут одного запроса к модели; 0 означает таймаут SDK

	// Сессии
	SessionIdleTTL       time.Duration `env:"SESSION_IDLE_TTL"`       // Через сколько простоя сессия удаляется
	SessionSweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL"` // Периодичность очистки
}

// HTTPConfig конфигурация веб-сервера.
type HTTPConfig struct {
	BindAddr     string `env:"HTTP_BIND_ADDR"`     // Адрес слушателя, напр. 127.0.0.1:8080
	CookieSecure bool   `env:"HTTP_COOKIE_SECURE"` // Выставлять Secure для cookie сессии (за HTTPS)
}

// Defaults возвращает конфигурацию с предустановленными значениями по умолчанию.
// Эти значения перекрываются .env, переменными окружения и флагами CLI.
func Defaults() *Config {
	return &Config{
		DebugMode:     false,
		UseStubClient: false,
		HTTP: HTTPConfig{
			BindAddr: "127.0.0.1:8080",
		},
		DefaultModel:         string(ai.DefaultModel),
		DefaultStyle:         string(prompt.DefaultStyle),
		DefaultLanguage:      prompt.DefaultLanguage,
		DefaultTemperature:   ai.DefaultTemperature,
		DefaultMaxTokens:     ai.DefaultTokens,
		CompletionTimeout:    0,
		SessionIdleTTL:       2 * time.Hour,
		SessionSweepInterval: 5 * time.Minute,
	}
}

// NewConfig загружает конфигурацию приложения из .env, окружения и os.Args.
func NewConfig() (*Config, error) {
	_ = godotenv.Load()
	return Load(flag.CommandLine, nil)
}

// Load стартует с дефолтов, перекрывает окружением, затем флагами из args (nil означает os.Args[1:]).
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := Defaults()
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	fs.BoolVar(&cfg.DebugMode, "debug-mode", cfg.DebugMode, "включить режим дебага")
	fs.BoolVar(&cfg.UseStubClient, "stub", cfg.UseStubClient, "отвечать заготовленными шутками без обращения к OpenAI")
	fs.StringVar(&cfg.OpenAIBaseURL, "openai-base-url", cfg.OpenAIBaseURL, "адрес OpenAI-совместимого API (пусто: api.openai.com)")
	fs.StringVar(&cfg.HTTP.BindAddr, "http-bind-addr", cfg.HTTP.BindAddr, "адрес веб-сервера (напр. 127.0.0.1:8080)")
	fs.BoolVar(&cfg.HTTP.CookieSecure, "http-cookie-secure", cfg.HTTP.CookieSecure, "выставлять Secure для cookie сессии")
	// Настройки генерации по умолчанию
	fs.StringVar(&cfg.DefaultModel, "model", cfg.DefaultModel, "модель по умолчанию: gpt-4|gpt-3.5-turbo")
	fs.StringVar(&cfg.DefaultStyle, "style", cfg.DefaultStyle, "стиль юмора по умолчанию")
	fs.StringVar(&cfg.DefaultLanguage, "language", cfg.DefaultLanguage, "язык ответа по умолчанию")
	fs.Float64Var(&cfg.DefaultTemperature, "temperature", cfg.DefaultTemperature, "температура по умолчанию, 0.0-1.5")
	fs.IntVar(&cfg.DefaultMaxTokens, "max-tokens", cfg.DefaultMaxTokens, "максимум токенов в ответе по умолчанию, 64-512")
	fs.DurationVar(&cfg.CompletionTimeout, "completion-timeout", cfg.CompletionTimeout, "таймаут одного запроса к модели, напр. 30s (0: по умолчанию SDK)")
	// Сессии
	fs.DurationVar(&cfg.SessionIdleTTL, "session-idle-ttl", cfg.SessionIdleTTL, "время простоя, после которого сессия удаляется")
	fs.DurationVar(&cfg.SessionSweepInterval, "session-sweep-interval", cfg.SessionSweepInterval, "периодичность очистки неактивных сессий")

	if args == nil {
		args = os.Args[1:]
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Settings собирает настройки генерации по умолчанию и проверяет их.
func (c *Config) Settings() (models.GenerationSettings, error) {
	s := models.GenerationSettings{
		Model:           ai.Model(c.DefaultModel),
		Style:           prompt.Style(c.DefaultStyle),
		Language:        c.DefaultLanguage,
		Temperature:     c.DefaultTemperature,
		MaxOutputTokens: c.DefaultMaxTokens,
	}.Normalize()
	if err := s.Validate(); err != nil {
		return models.GenerationSettings{}, err
	}
	return s, nil
}
