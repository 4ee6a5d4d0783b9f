package realtime

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/14kear/livepoll/internal/services"
	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	maxMessageSize  = 4096
	msgShuttingDown = "server is shutting down"
)

type Options struct {
	SendBuffer     int
	WriteWait      time.Duration
	PongWait       time.Duration
	AllowedOrigins []string
}

func (o Options) withDefaults() Options {
	if o.SendBuffer < 1 {
		o.SendBuffer = 16
	}
	if o.WriteWait <= 0 {
		o.WriteWait = 10 * time.Second
	}
	if o.PongWait <= 0 {
		o.PongWait = 60 * time.Second
	}
	return o
}

// WSHandler serves the WebSocket transport.
type WSHandler struct {
	log      *slog.Logger
	gate     *Gatekeeper
	rooms    *Registry
	opts     Options
	upgrader websocket.Upgrader
}

func NewWSHandler(log *slog.Logger, gate *Gatekeeper, rooms *Registry, opts Options) *WSHandler {
	opts = opts.withDefaults()

	h := &WSHandler{
		log:   log,
		gate:  gate,
		rooms: rooms,
		opts:  opts,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}

	return h
}

// checkOrigin allows same-origin requests, clients without an Origin header,
// and any origin listed in AllowedOrigins ("*" allows all).
func (h *WSHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	for _, allowed := range h.opts.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}

	u, err := url.Parse(origin)
	if err != nil {
		return false
	}

	return strings.EqualFold(u.Host, r.Host)
}

type wsConn struct {
	*outbox
	ws *websocket.Conn
}

func (h *WSHandler) Serve(c *gin.Context) {
	const op = "realtime.WSHandler.Serve"

	log := h.log.With(slog.String("op", op), slog.String("remote", c.ClientIP()))

	principal, authErr := h.gate.Admit(c.Request)

	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// the upgrader has already replied with an HTTP error
		log.Debug("websocket upgrade failed", sl.Err(err))
		return
	}

	if authErr != nil {
		log.Info("websocket connection rejected", sl.Err(authErr))
		h.reject(ws, websocket.ClosePolicyViolation, authMessage(authErr))
		return
	}

	conn := &wsConn{outbox: newOutbox(principal, h.opts.SendBuffer), ws: ws}
	if err := h.rooms.Register(conn); err != nil {
		log.Info("websocket connection refused", sl.Err(err))
		h.reject(ws, websocket.CloseGoingAway, msgShuttingDown)
		return
	}

	log = log.With(slog.String("conn_id", conn.ID()), slog.Int64("uid", principal.UserID))
	log.Info("websocket connected")

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		h.writePump(conn, log)
	}()

	h.readPump(conn, log)

	rooms := h.rooms.RoomsOf(conn.ID())
	h.rooms.Unregister(conn.ID())
	conn.Close()
	<-writerDone

	log.Info("websocket disconnected", slog.Any("rooms", rooms))
}

func (h *WSHandler) reject(ws *websocket.Conn, code int, msg string) {
	defer ws.Close()

	deadline := time.Now().Add(h.opts.WriteWait)
	_ = ws.SetWriteDeadline(deadline)
	_ = ws.WriteJSON(errorEvent(msg))
	_ = ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(code, msg), deadline)
}

func (h *WSHandler) readPump(conn *wsConn, log *slog.Logger) {
	ws := conn.ws
	ws.SetReadLimit(maxMessageSize)
	_ = ws.SetReadDeadline(time.Now().Add(h.opts.PongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(h.opts.PongWait))
	})

	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				log.Debug("websocket read failed", sl.Err(err))
			}
			return
		}

		h.handle(conn, raw, log)
	}
}

func (h *WSHandler) handle(conn *wsConn, raw []byte, log *slog.Logger) {
	var msg inbound
	if err := json.Unmarshal(raw, &msg); err != nil {
		_ = conn.Send(errorEvent("malformed message"))
		return
	}

	switch msg.Event {
	case EventJoinPoll, EventLeavePoll:
		var payload RoomPayload
		if len(msg.Data) == 0 || json.Unmarshal(msg.Data, &payload) != nil || payload.PollID <= 0 {
			_ = conn.Send(errorEvent("pollId is required"))
			return
		}
		pollID := int64(payload.PollID)

		if msg.Event == EventJoinPoll {
			if err := h.rooms.Join(conn.ID(), pollID); err != nil {
				log.Warn("join failed", slog.Int64("poll_id", pollID), sl.Err(err))
				return
			}
			log.Debug("joined poll room", slog.Int64("poll_id", pollID))
			_ = conn.Send(Event{Name: EventJoinedPoll, Data: payload})
			return
		}

		h.rooms.Leave(conn.ID(), pollID)
		log.Debug("left poll room", slog.Int64("poll_id", pollID))
		_ = conn.Send(Event{Name: EventLeftPoll, Data: payload})
	default:
		_ = conn.Send(errorEvent("unknown event"))
	}
}

func (h *WSHandler) writePump(conn *wsConn, log *slog.Logger) {
	ws := conn.ws
	ticker := time.NewTicker(h.opts.PongWait * 9 / 10)
	defer func() {
		ticker.Stop()
		_ = ws.Close()
	}()

	for {
		select {
		case ev := <-conn.send:
			_ = ws.SetWriteDeadline(time.Now().Add(h.opts.WriteWait))
			if err := ws.WriteJSON(ev); err != nil {
				log.Debug("websocket write failed", sl.Err(err))
				conn.Close()
				return
			}
		case <-ticker.C:
			_ = ws.SetWriteDeadline(time.Now().Add(h.opts.WriteWait))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				conn.Close()
				return
			}
		case <-conn.done:
			for _, ev := range conn.drain() {
				_ = ws.SetWriteDeadline(time.Now().Add(h.opts.WriteWait))
				if err := ws.WriteJSON(ev); err != nil {
					return
				}
			}
			_ = ws.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(h.opts.WriteWait))
			return
		}
	}
}

// authMessage keeps internal failures out of the close reason.
func authMessage(err error) string {
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		return svcErr.Msg
	}

	return "authentication failed"
}
