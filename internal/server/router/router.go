package router

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wallace-21/BirdNest/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares. All API
// routes live under the configured prefix.
func New(apiPrefix string, birds *handlers.BirdHandler, chat *handlers.ChatHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(zapLoggerMiddleware(logger))
	r.Use(bearerTokenMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group(apiPrefix)

	birdRoutes := api.Group("/birds")
	{
		birdRoutes.POST("/", birds.Create)
		birdRoutes.GET("/", birds.List)
		birdRoutes.GET("/search/name", birds.SearchByName)
		birdRoutes.GET("/search/scientific", birds.SearchByScientificName)
		birdRoutes.GET("/filter/conservation", birds.FilterByConservationStatus)
		birdRoutes.GET("/:bird_id", birds.Get)
		birdRoutes.PUT("/:bird_id", birds.Update)
		birdRoutes.DELETE("/:bird_id", birds.Delete)
	}

	aiRoutes := api.Group("/ai")
	{
		aiRoutes.POST("/chat", chat.Chat)
		aiRoutes.GET("/health", chat.Health)
	}

	if logger != nil {
		logger.Info("router initialized", zap.String("prefix", apiPrefix))
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", c.GetString("request_id")),
			zap.String("client_ip", c.ClientIP()))
	}
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

// bearerTokenMiddleware extracts a bearer token when present. Nothing
// enforces it yet; authenticated endpoints can read it from the context.
func bearerTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			c.Set("bearer_token", token)
		}
		c.Next()
	}
}
