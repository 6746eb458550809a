package web

import (
	"net/http"
	"time"

	"JokeBot/internal/models"
	"JokeBot/internal/prompt"

	"github.com/gorilla/websocket"
)

const (
	wsReadLimit  = 64 << 10
	wsWriteWait  = 10 * time.Second
	wsReadWait   = 90 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// Типы кадров WebSocket.
const (
	frameChat    = "chat"
	frameReset   = "reset"
	frameHistory = "history"
	frameReply   = "reply"
	frameError   = "error"
)

// ClientFrame кадр от браузера.
type ClientFrame struct {
	Type     string                     `json:"type"`
	Message  string                     `json:"message,omitempty"`
	Settings *models.GenerationSettings `json:"settings,omitempty"`
}

// ServerFrame кадр от сервера.
type ServerFrame struct {
	Type  string        `json:"type"`
	Turn  *prompt.Turn  `json:"turn,omitempty"`
	Turns []prompt.Turn `json:"turns,omitempty"`
	Error *apiError     `json:"error,omitempty"`
}

// WebSocket держит соединение с той же сессией, что и страница.
// Кадры обрабатываются по очереди, ответ приходит одним кадром reply.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	id := ""
	if c, err := r.Cookie(sessionCookie); err == nil {
		id = c.Value
	}
	sess, created := h.store.GetOrCreate(id)

	header := http.Header{}
	if created {
		header.Add("Set-Cookie", h.cookie(sess.ID).String())
	}
	conn, err := upgrader.Upgrade(w, r, header)
	if err != nil {
		h.logger.Warnw("WebSocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(wsReadLimit)
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(h.wsReadWait))
	})

	done := make(chan struct{})
	defer close(done)
	go h.pinger(conn, done)

	h.logger.Infow("WebSocket подключен", "session", sess.ID)
	for {
		// срок чтения отсчитывается заново перед каждым кадром: пока идёт Ask, соединение не читается
		_ = conn.SetReadDeadline(time.Now().Add(h.wsReadWait))

		var in ClientFrame
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warnw("WebSocket read error", "session", sess.ID, "error", err)
			}
			break
		}

		var out ServerFrame
		switch in.Type {
		case frameChat:
			settings := sess.Settings()
			if in.Settings != nil {
				settings = *in.Settings
			}
			reply, err := h.bot.Ask(r.Context(), sess, settings, in.Message)
			if err != nil {
				code, _ := errorCode(err)
				out = ServerFrame{Type: frameError, Error: &apiError{Code: code, Message: err.Error()}}
				break
			}
			out = ServerFrame{Type: frameReply, Turn: &reply}
		case frameReset:
			h.bot.Reset(sess)
			out = ServerFrame{Type: frameHistory, Turns: []prompt.Turn{}}
		case frameHistory:
			out = ServerFrame{Type: frameHistory, Turns: nonNil(sess.Turns())}
		default:
			out = ServerFrame{Type: frameError, Error: &apiError{
				Code:    codeValidation,
				Message: "unknown frame type: " + in.Type,
			}}
		}

		if err := h.write(conn, out); err != nil {
			h.logger.Warnw("WebSocket write error", "session", sess.ID, "error", err)
			break
		}
	}
	h.logger.Infow("WebSocket отключен", "session", sess.ID)
}

func (h *Handler) write(conn *websocket.Conn, f ServerFrame) error {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return conn.WriteJSON(f)
}

// pinger шлёт ping, пока соединение живо. WriteControl можно вызывать параллельно с WriteJSON.
func (h *Handler) pinger(conn *websocket.Conn, done <-chan struct{}) {
	t := time.NewTicker(h.wsReadWait * 2 / 3)
	defer t.Stop()
	for {
		select {
		case <-done:
			return
		case <-t.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
				return
			}
		}
	}
}
