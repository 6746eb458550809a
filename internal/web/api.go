package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"JokeBot/internal/ai"
	"JokeBot/internal/models"
	"JokeBot/internal/prompt"
	"JokeBot/internal/service/joke"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

const (
	codeValidation   = "VALIDATION_ERROR"
	codeEmptyMessage = "EMPTY_MESSAGE"
	codeBusy         = "BUSY"
	codeInternal     = "INTERNAL_ERROR"
)

type apiError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

type errorResponse struct {
	Error apiError `json:"error"`
}

// ChatRequest тело POST /api/chat. Без settings используются последние настройки сессии.
type ChatRequest struct {
	Message  string                     `json:"message"`
	Settings *models.GenerationSettings `json:"settings,omitempty"`
}

type ChatResponse struct {
	Reply prompt.Turn   `json:"reply"`
	Turns []prompt.Turn `json:"turns"`
}

type HistoryResponse struct {
	SessionID string                    `json:"session_id"`
	Turns     []prompt.Turn             `json:"turns"`
	Settings  models.GenerationSettings `json:"settings"`
}

type OptionsResponse struct {
	Models      []ai.Model                `json:"models"`
	Styles      []prompt.Style            `json:"styles"`
	Languages   []string                  `json:"languages"`
	Bounds      bounds                    `json:"bounds"`
	Defaults    models.GenerationSettings `json:"defaults"`
	Suggestions []string                  `json:"suggestions"`
}

// Options отдаёт допустимые значения панели настроек.
func (h *Handler) Options(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, OptionsResponse{
		Models:      ai.Models(),
		Styles:      prompt.Styles(),
		Languages:   prompt.Languages(),
		Bounds:      settingsBounds,
		Defaults:    h.store.Defaults(),
		Suggestions: joke.Suggestions(),
	})
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)
	writeJSON(w, http.StatusOK, HistoryResponse{
		SessionID: sess.ID,
		Turns:     nonNil(sess.Turns()),
		Settings:  sess.Settings(),
	})
}

func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	sess := h.session(w, r)

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp(codeValidation, "Invalid request body", r))
		return
	}
	settings := sess.Settings()
	if req.Settings != nil {
		settings = *req.Settings
	}

	reply, err := h.bot.Ask(r.Context(), sess, settings, req.Message)
	if err != nil {
		code, status := errorCode(err)
		writeJSON(w, status, errorResp(code, err.Error(), r))
		return
	}
	writeJSON(w, http.StatusOK, ChatResponse{Reply: reply, Turns: sess.Turns()})
}

func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	h.bot.Reset(h.session(w, r))
	w.WriteHeader(http.StatusNoContent)
}

// errorCode сопоставляет ошибку сервиса с кодом API и HTTP-статусом.
func errorCode(err error) (string, int) {
	switch {
	case errors.Is(err, joke.ErrEmptyMessage):
		return codeEmptyMessage, http.StatusBadRequest
	case errors.Is(err, models.ErrInvalidSettings):
		return codeValidation, http.StatusBadRequest
	case errors.Is(err, joke.ErrBusy):
		return codeBusy, http.StatusConflict
	default:
		return codeInternal, http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) errorResponse {
	return errorResponse{Error: apiError{
		Code:      code,
		Message:   message,
		RequestID: chimiddleware.GetReqID(r.Context()),
	}}
}

func nonNil(turns []prompt.Turn) []prompt.Turn {
	if turns == nil {
		return []prompt.Turn{}
	}
	return turns
}
