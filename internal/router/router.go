package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/lexis/internal/config"
	"github.com/stemsi/lexis/internal/handler"
	"github.com/stemsi/lexis/internal/middleware"
	"github.com/stemsi/lexis/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	College *handler.CollegeHandler
	Program *handler.ProgramHandler
	Student *handler.StudentHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// ctx bounds background work owned by the router, such as the write limiter's sweeper.
func SetupRouter(ctx context.Context, handlers *Handlers, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", response.HeaderRequestID}
	corsConfig.ExposeHeaders = []string{response.HeaderRequestID, middleware.HeaderBackend}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Request IDs first so every later log line and response carries one.
	router.Use(response.RequestIDMiddleware(log.With().Str("component", "http").Logger()))
	router.Use(middleware.AccessLog())
	router.Use(middleware.Brotli())

	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok", "backend": cfg.Backend})
	})

	api := router.Group("/api/v1")
	api.Use(middleware.APIHeaders(string(cfg.Backend)))
	if cfg.WriteLimit > 0 {
		api.Use(middleware.NewWriteLimiter(ctx, cfg.WriteLimit, time.Minute).Middleware())
	}

	// ─── Colleges ──────────────────────────────────────────────────────
	colleges := api.Group("/colleges")
	{
		colleges.GET("", handlers.College.List)
		colleges.POST("", handlers.College.Create)
		colleges.GET("/schema", handlers.College.Schema)
		colleges.GET("/options", handlers.College.Options)
		colleges.POST("/batch-delete", handlers.College.BatchDelete)
		colleges.GET("/:code", handlers.College.Get)
		colleges.PATCH("/:code", handlers.College.Update)
		colleges.DELETE("/:code", handlers.College.Delete)
		colleges.GET("/:code/programs", handlers.College.Programs)
	}

	// ─── Programs ──────────────────────────────────────────────────────
	programs := api.Group("/programs")
	{
		programs.GET("", handlers.Program.List)
		programs.POST("", handlers.Program.Create)
		programs.GET("/schema", handlers.Program.Schema)
		programs.POST("/batch-delete", handlers.Program.BatchDelete)
		programs.GET("/:code", handlers.Program.Get)
		programs.PATCH("/:code", handlers.Program.Update)
		programs.DELETE("/:code", handlers.Program.Delete)
	}

	// ─── Students ──────────────────────────────────────────────────────
	students := api.Group("/students")
	{
		students.GET("", handlers.Student.List)
		students.POST("", handlers.Student.Create)
		students.GET("/schema", handlers.Student.Schema)
		students.PATCH("/batch", handlers.Student.BatchUpdate)
		students.POST("/batch-delete", handlers.Student.BatchDelete)
		students.GET("/:id", handlers.Student.Get)
		students.PATCH("/:id", handlers.Student.Update)
		students.DELETE("/:id", handlers.Student.Delete)
	}

	return router
}
