package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"persona-llm/internal/domain"
	"persona-llm/internal/service"
)

// HistoryHandler atiende los endpoints de historial y similitud.
type HistoryHandler struct {
	logger  *zap.Logger
	service *service.PersonaService
	enabled bool
}

// NewHistoryHandler crea una instancia de HistoryHandler. enabled indica si
// hay un repositorio de análisis cableado.
func NewHistoryHandler(logger *zap.Logger, svc *service.PersonaService, enabled bool) *HistoryHandler {
	return &HistoryHandler{
		logger:  logger,
		service: svc,
		enabled: enabled,
	}
}

// ListAnalyses maneja GET /api/analyses/:username.
func (h *HistoryHandler) ListAnalyses(c *gin.Context) {
	if !h.enabled {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history not configured"})
		return
	}
	username := c.Param("username")
	limit := queryInt(c, "limit", 20)
	h.logger.Info("history requested",
		zap.String("username", username),
		zap.String("client", clientName(c)),
	)

	analyses, err := h.service.History(c.Request.Context(), username, limit)
	if err != nil {
		h.logger.Error("list analyses failed", zap.String("username", username), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list analyses"})
		return
	}
	if analyses == nil {
		analyses = []domain.Analysis{}
	}
	c.JSON(http.StatusOK, gin.H{"analyses": analyses})
}

// SimilarUsers maneja GET /api/analyses/:username/similar.
func (h *HistoryHandler) SimilarUsers(c *gin.Context) {
	if !h.enabled {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history not configured"})
		return
	}
	username := c.Param("username")
	k := queryInt(c, "k", 5)
	h.logger.Info("similar users requested",
		zap.String("username", username),
		zap.String("client", clientName(c)),
	)

	similar, err := h.service.SimilarUsers(c.Request.Context(), username, k)
	if err != nil {
		h.logger.Warn("similar users failed", zap.String("username", username), zap.Error(err))
		c.JSON(http.StatusNotFound, gin.H{"error": "no comparable analyses for user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"similar": similar})
}

// clientName identifica al cliente autenticado, o "public" sin JWT.
func clientName(c *gin.Context) string {
	if claims, ok := GetAuthClaims(c); ok {
		return claims.ClientName
	}
	return "public"
}

func queryInt(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return def
	}
	return v
}
