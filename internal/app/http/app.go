package http

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/14kear/livepoll/internal/config"
	"github.com/14kear/livepoll/internal/middleware"
	"github.com/14kear/livepoll/internal/routes"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type App struct {
	log    *slog.Logger
	engine *gin.Engine
	server *http.Server
}

// NewApp builds the gin engine with the REST API, the WebSocket endpoint and
// the health check.
func NewApp(
	log *slog.Logger,
	cfg config.HTTPConfig,
	h routes.Handlers,
	auth *middleware.AuthMiddleware,
) *App {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		AllowWebSockets:  true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		routes.RegisterPublicRoutes(api.Group(""), h)
		routes.RegisterOptionalRoutes(api.Group("", auth.Optional()), h)
		routes.RegisterPrivateRoutes(api.Group("", auth.Required()), h)
	}

	r.GET("/ws", h.WS.Serve)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}

	return &App{
		log:    log,
		engine: r,
		server: server,
	}
}

func (a *App) Run() error {
	const op = "httpapp.Run"

	l, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return a.Serve(l)
}

// Serve accepts connections on l until Stop is called.
func (a *App) Serve(l net.Listener) error {
	a.log.Info("HTTP server is running", slog.String("addr", l.Addr().String()))
	return a.server.Serve(l)
}

// Stop waits for in-flight requests. Long-lived streams must be closed first.
func (a *App) Stop(ctx context.Context) error {
	a.log.Info("HTTP server is stopping", slog.String("addr", a.server.Addr))
	return a.server.Shutdown(ctx)
}

func (a *App) Engine() *gin.Engine {
	return a.engine
}
