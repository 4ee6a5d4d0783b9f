package realtime

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/14kear/livepoll/internal/lib/response"
	"github.com/14kear/livepoll/internal/services"
	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"
	"github.com/gin-gonic/gin"
)

// SSEHandler streams one poll's events over server-sent events. The stream is
// joined to the poll's room for as long as the request lives.
type SSEHandler struct {
	log   *slog.Logger
	gate  *Gatekeeper
	rooms *Registry
	opts  Options
}

func NewSSEHandler(log *slog.Logger, gate *Gatekeeper, rooms *Registry, opts Options) *SSEHandler {
	return &SSEHandler{
		log:   log,
		gate:  gate,
		rooms: rooms,
		opts:  opts.withDefaults(),
	}
}

func (h *SSEHandler) Serve(c *gin.Context) {
	const op = "realtime.SSEHandler.Serve"

	log := h.log.With(slog.String("op", op), slog.String("remote", c.ClientIP()))

	pollID, err := strconv.ParseInt(c.Param("pollId"), 10, 64)
	if err != nil || pollID <= 0 {
		response.Err(c, services.Validation("invalid poll id"))
		return
	}

	principal, err := h.gate.Admit(c.Request)
	if err != nil {
		log.Info("event stream rejected", sl.Err(err))
		response.Fail(c, http.StatusUnauthorized, authMessage(err), response.CodeUnauthorized)
		return
	}

	conn := newOutbox(principal, h.opts.SendBuffer)
	if err := h.rooms.Register(conn); err != nil {
		log.Info("event stream refused", sl.Err(err))
		response.Fail(c, http.StatusServiceUnavailable, msgShuttingDown, response.CodeUnavailable)
		return
	}
	defer func() {
		h.rooms.Unregister(conn.ID())
		conn.Close()
	}()

	if err := h.rooms.Join(conn.ID(), pollID); err != nil {
		response.Err(c, err)
		return
	}

	// streams outlive the server write timeout
	_ = http.NewResponseController(c.Writer).SetWriteDeadline(time.Time{})

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	log = log.With(slog.String("conn_id", conn.ID()), slog.Int64("uid", principal.UserID), slog.Int64("poll_id", pollID))
	log.Info("event stream opened")

	c.SSEvent(EventJoinedPoll, RoomPayload{PollID: PollID(pollID)})
	c.Writer.Flush()

	keepalive := time.NewTicker(h.opts.PongWait / 2)
	defer keepalive.Stop()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case ev := <-conn.send:
			c.SSEvent(ev.Name, ev.Data)
			return true
		case <-keepalive.C:
			c.SSEvent("ping", time.Now().UTC().Unix())
			return true
		case <-conn.done:
			for _, ev := range conn.drain() {
				c.SSEvent(ev.Name, ev.Data)
			}
			return false
		case <-ctx.Done():
			return false
		}
	})

	log.Info("event stream closed")
}
