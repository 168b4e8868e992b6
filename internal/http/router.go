package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"persona-llm/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
// Los endpoints de historial solo exigen JWT cuando hay secret configurado.
func NewRouter(
	logger *zap.Logger,
	personaH *PersonaHandler,
	historyH *HistoryHandler,
	authH *AuthHandler,
	jwtSvc *service.JWTService,
	requireAuth bool,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.POST("/user/link", personaH.AnalyzeLink)
	api.POST("/user/export", personaH.ExportPersona)

	history := api.Group("/analyses")
	if requireAuth {
		history.Use(JWTAuthMiddleware(jwtSvc))
	}
	history.GET("/:username", historyH.ListAnalyses)
	history.GET("/:username/similar", historyH.SimilarUsers)

	if authH != nil {
		r.POST("/auth/token", authH.IssueToken)
	}

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
