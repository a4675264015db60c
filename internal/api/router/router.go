package router

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/denisAlshanov/vidsplit/internal/api/handlers"
	"github.com/denisAlshanov/vidsplit/internal/api/middleware"
	"github.com/denisAlshanov/vidsplit/internal/config"
)

// drainTimeout bounds how long Shutdown waits for cancelled requests to
// unwind after the caller's deadline has passed.
const drainTimeout = 5 * time.Second

type Router struct {
	engine *gin.Engine
	config *config.Config
	server *http.Server
	// cancel ends the base context of every request served by server.
	cancel context.CancelFunc
}

func NewRouter(cfg *config.Config, mediaHandler *handlers.MediaHandler, streamHandler *handlers.StreamHandler, mergeHandler *handlers.MergeHandler, healthHandler *handlers.HealthHandler) *Router {
	if cfg.Server.Host == "0.0.0.0" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	engine.Use(middleware.RecoveryMiddleware())
	engine.Use(middleware.CorrelationIDMiddleware())
	engine.Use(middleware.CORSMiddleware(cfg.CORS))

	// Probes (no auth, no rate limit)
	engine.GET("/live", healthHandler.Liveness)
	engine.GET("/ready", healthHandler.Readiness)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := engine.Group(cfg.API.Prefix)
	api.GET("/health", healthHandler.Health)
	api.GET("/check-dependencies", healthHandler.CheckDependencies)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(&cfg.API))
	protected.Use(middleware.RateLimitMiddleware(&cfg.API))
	{
		protected.GET("/info", mediaHandler.Info)
		protected.GET("/formats", mediaHandler.Formats)
		protected.GET("/estimate-size", mediaHandler.EstimateSize)
		protected.GET("/separate-streams", mediaHandler.SeparateStreams)

		protected.GET("/get-stream", streamHandler.GetStream)
		protected.GET("/download", streamHandler.Download)

		protected.GET("/merge", mergeHandler.Merge)
	}

	// Front-end bundle, if one is deployed next to the API
	if cfg.Server.StaticDir != "" {
		files := http.FileServer(http.Dir(cfg.Server.StaticDir))
		engine.NoRoute(func(c *gin.Context) {
			if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
				c.Status(http.StatusNotFound)
				return
			}
			files.ServeHTTP(c.Writer, c.Request)
		})
	}

	baseCtx, cancel := context.WithCancel(context.Background())

	return &Router{
		engine: engine,
		config: cfg,
		server: &http.Server{
			Addr:              cfg.Server.Host + ":" + cfg.Server.Port,
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       120 * time.Second,
			BaseContext: func(net.Listener) context.Context {
				return baseCtx
			},
		},
		cancel: cancel,
	}
}

// Start serves until Shutdown is called. There is no write timeout: relayed
// streams run as long as the media does.
func (r *Router) Start() error {
	ln, err := net.Listen("tcp", r.server.Addr)
	if err != nil {
		return err
	}
	return r.Serve(ln)
}

// Serve accepts connections on ln until Shutdown is called.
func (r *Router) Serve(ln net.Listener) error {
	if err := r.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx is done. Requests still running then have their contexts
// cancelled, which kills their stream processes, and Shutdown waits up to
// drainTimeout for them to return.
func (r *Router) Shutdown(ctx context.Context) error {
	err := r.server.Shutdown(ctx)
	r.cancel()
	if err == nil {
		return nil
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	if drainErr := r.server.Shutdown(drainCtx); drainErr != nil {
		return fmt.Errorf("requests still running after cancellation: %w", drainErr)
	}
	return err
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
