package web

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"JokeBot/internal/ai"
	"JokeBot/internal/models"
	"JokeBot/internal/prompt"
	"JokeBot/internal/service/joke"
	"JokeBot/internal/service/session"

	"go.uber.org/zap"
)

const sessionCookie = "jokebot_session"

//go:embed templates/*.html
var templatesFS embed.FS

var pageTemplate = template.Must(template.New("index.html").Funcs(template.FuncMap{
	"isUser":   func(r prompt.Role) bool { return r == prompt.RoleUser },
	"markdown": renderMarkdown,
}).ParseFS(templatesFS, "templates/index.html"))

// flash-сообщения страницы по коду ошибки
var flashMessages = map[string]string{
	"empty_message":    "Type a request first, for example a topic or a style.",
	"invalid_settings": "Those settings are outside the supported options.",
	"busy":             "Still working on your previous joke. Give it a second.",
}

// Handler обслуживает страницу чата, JSON API и WebSocket.
type Handler struct {
	bot          *joke.Bot
	store        *session.Store
	logger       *zap.SugaredLogger
	cookieSecure bool
	wsReadWait   time.Duration
}

func NewHandler(bot *joke.Bot, store *session.Store, cookieSecure bool, logger *zap.SugaredLogger) *Handler {
	return &Handler{bot: bot, store: store, cookieSecure: cookieSecure, logger: logger, wsReadWait: wsReadWait}
}

// session находит сессию по cookie или создаёт новую и выставляет cookie.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) *session.Session {
	id := ""
	if c, err := r.Cookie(sessionCookie); err == nil {
		id = c.Value
	}
	sess, created := h.store.GetOrCreate(id)
	if created {
		http.SetCookie(w, h.cookie(sess.ID))
	}
	return sess
}

func (h *Handler) cookie(id string) *http.Cookie {
	return &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

type pageData struct {
	Settings    models.GenerationSettings
	Models      []ai.Model
	Styles      []prompt.Style
	Languages   []string
	Turns       []prompt.Turn
	Suggestions []string
	Flash       string
	Bounds      bounds
}

type bounds struct {
	TemperatureMin  float64 `json:"temperature_min"`
	TemperatureMax  float64 `json:"temperature_max"`
	TemperatureStep float64 `json:"temperature_step"`
	TokensMin       int     `json:"max_output_tokens_min"`
	TokensMax       int     `json:"max_output_tokens_max"`
	TokensStep      int     `json:"max_output_tokens_step"`
}

var settingsBounds = bounds{
	TemperatureMin:  ai.TemperatureMin,
	TemperatureMax:  ai.TemperatureMax,
	TemperatureStep: 0.05,
	TokensMin:       ai.TokensMin,
	TokensMax:       ai.TokensMax,
	TokensStep:      16,
}

// Index рисует страницу: настройки, историю и поле ввода.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	turns := sess.Turns()

	data := pageData{
		Settings:  sess.Settings(),
		Models:    ai.Models(),
		Styles:    prompt.Styles(),
		Languages: prompt.Languages(),
		Turns:     turns,
		Flash:     flashMessages[r.URL.Query().Get("error")],
		Bounds:    settingsBounds,
	}
	if len(turns) == 0 {
		data.Suggestions = joke.Suggestions()
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		h.logger.Errorw("Не удалось отрисовать страницу", "error", err)
	}
}

// SubmitChat принимает форму со страницы и возвращает на неё же.
func (h *Handler) SubmitChat(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	if err := r.ParseForm(); err != nil {
		redirectWithError(w, r, "invalid_settings")
		return
	}
	settings, err := parseFormSettings(r.PostForm)
	if err != nil {
		redirectWithError(w, r, "invalid_settings")
		return
	}

	if _, err := h.bot.Ask(r.Context(), sess, settings, r.PostForm.Get("message")); err != nil {
		code, _ := errorCode(err)
		redirectWithError(w, r, flashCode(code))
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// SubmitReset очищает историю и возвращает на страницу.
func (h *Handler) SubmitReset(w http.ResponseWriter, r *http.Request) {
	h.bot.Reset(h.session(w, r))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func redirectWithError(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, "/?error="+url.QueryEscape(code), http.StatusSeeOther)
}

func flashCode(apiCode string) string {
	switch apiCode {
	case codeEmptyMessage:
		return "empty_message"
	case codeBusy:
		return "busy"
	default:
		return "invalid_settings"
	}
}

// parseFormSettings читает настройки из полей формы. Пустые поля получают значения по умолчанию.
func parseFormSettings(form url.Values) (models.GenerationSettings, error) {
	s := models.DefaultSettings()
	if v := form.Get("model"); v != "" {
		s.Model = ai.Model(v)
	}
	if v := form.Get("style"); v != "" {
		s.Style = prompt.Style(v)
	}
	if v := form.Get("language"); v != "" {
		s.Language = v
	}
	if v := strings.TrimSpace(form.Get("temperature")); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return models.GenerationSettings{}, errors.Join(models.ErrInvalidSettings, err)
		}
		s.Temperature = f
	}
	if v := strings.TrimSpace(form.Get("max_output_tokens")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return models.GenerationSettings{}, errors.Join(models.ErrInvalidSettings, err)
		}
		s.MaxOutputTokens = n
	}
	return s.Normalize(), nil
}
