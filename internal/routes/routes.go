package routes

import (
	"github.com/14kear/livepoll/internal/handlers"
	"github.com/14kear/livepoll/internal/realtime"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Auth     *handlers.AuthHandler
	Polls    *handlers.PollHandler
	Votes    *handlers.VoteHandler
	Realtime *handlers.RealtimeHandler
	WS       *realtime.WSHandler
	SSE      *realtime.SSEHandler
}

// RegisterPublicRoutes mounts routes that need no credentials. The SSE stream
// authenticates the handshake itself.
func RegisterPublicRoutes(rg *gin.RouterGroup, h Handlers) {
	{
		rg.POST("/auth/register", h.Auth.Register)
		rg.POST("/auth/login", h.Auth.Login)

		rg.GET("/polls", h.Polls.List)

		rg.GET("/votes/poll/:pollId/stats", h.Votes.Stats)

		rg.GET("/realtime/stats", h.Realtime.Stats)
		rg.GET("/stream/polls/:pollId", h.SSE.Serve)
	}
}

// RegisterOptionalRoutes mounts routes that behave differently for a known caller.
func RegisterOptionalRoutes(rg *gin.RouterGroup, h Handlers) {
	{
		rg.GET("/polls/:id", h.Polls.Get)
	}
}

func RegisterPrivateRoutes(rg *gin.RouterGroup, h Handlers) {
	{
		rg.GET("/users/me", h.Auth.Me)
		rg.PUT("/users/me", h.Auth.UpdateMe)
		rg.DELETE("/users/me", h.Auth.DeleteMe)

		rg.POST("/polls", h.Polls.Create)
		rg.GET("/polls/mine", h.Polls.Mine)
		rg.PUT("/polls/:id", h.Polls.Update)
		rg.DELETE("/polls/:id", h.Polls.Delete)

		rg.POST("/votes", h.Votes.Cast)
		rg.PUT("/votes", h.Votes.Change)
		rg.DELETE("/votes/:pollOptionId", h.Votes.Retract)
		rg.GET("/votes/poll/:pollId/mine", h.Votes.Mine)
	}
}
