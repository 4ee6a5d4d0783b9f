package handlers

import (
	"net/http"

	"github.com/14kear/livepoll/internal/lib/response"
	"github.com/14kear/livepoll/internal/realtime"
	"github.com/gin-gonic/gin"
)

type RoomStats interface {
	Stats() realtime.Stats
}

type RealtimeHandler struct {
	rooms RoomStats
}

func NewRealtimeHandler(rooms RoomStats) *RealtimeHandler {
	return &RealtimeHandler{rooms: rooms}
}

func (h *RealtimeHandler) Stats(c *gin.Context) {
	response.OK(c, http.StatusOK, "realtime statistics retrieved", h.rooms.Stats())
}
