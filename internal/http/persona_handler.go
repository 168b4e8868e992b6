package http

import (
	"errors"
	"net/http"
	"net/url"
	"regexp"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"persona-llm/internal/domain"
	"persona-llm/internal/reddit"
	"persona-llm/internal/service"
)

// redditUserRe extrae el username de una URL de perfil de Reddit,
// preservando mayúsculas tal como vienen en el path.
var redditUserRe = regexp.MustCompile(`(?i)^https?://(?:www\.)?reddit\.com/user/([^/?#]+)`)

// PersonaHandler atiende el endpoint principal de análisis.
type PersonaHandler struct {
	logger  *zap.Logger
	service *service.PersonaService
	limiter service.RateLimiter
}

// NewPersonaHandler crea una instancia de PersonaHandler con dependencias necesarias.
func NewPersonaHandler(logger *zap.Logger, svc *service.PersonaService, limiter service.RateLimiter) *PersonaHandler {
	return &PersonaHandler{
		logger:  logger,
		service: svc,
		limiter: limiter,
	}
}

// ExtractUsername valida la URL y captura el username del path.
// Devuelve false si la URL no es válida o no apunta a un perfil de Reddit.
func ExtractUsername(rawURL string) (string, bool) {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", false
	}
	m := redditUserRe.FindStringSubmatch(rawURL)
	if len(m) < 2 {
		return "", false
	}
	return m[1], true
}

// AnalyzeLink maneja POST /api/user/link.
func (h *PersonaHandler) AnalyzeLink(c *gin.Context) {
	result, ok := h.analyze(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"userInfo":  result.UserInfo,
		"userPosts": result.UserPosts,
		"reply":     result.Reply,
		"persona":   result.Persona,
	})
}

// ExportPersona maneja POST /api/user/export y responde el persona card
// como texto plano.
func (h *PersonaHandler) ExportPersona(c *gin.Context) {
	result, ok := h.analyze(c)
	if !ok {
		return
	}
	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.String(http.StatusOK, service.ExportText(result.Persona))
}

// analyze comparte la validación y el mapeo de errores de ambos endpoints.
func (h *PersonaHandler) analyze(c *gin.Context) (domain.AnalysisResult, bool) {
	var req struct {
		URL string `json:"url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid analyze request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"msg": []string{"Invalid Reddit URL"}})
		return domain.AnalysisResult{}, false
	}

	username, ok := ExtractUsername(req.URL)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"msg": []string{"Could not extract username from URL"}})
		return domain.AnalysisResult{}, false
	}

	if h.limiter != nil && !h.limiter.Allow(c.ClientIP()) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
		return domain.AnalysisResult{}, false
	}

	h.logger.Info("analyze requested", zap.String("username", username))

	result, err := h.service.Analyze(c.Request.Context(), username)
	if err != nil {
		h.respondAnalyzeError(c, username, err)
		return domain.AnalysisResult{}, false
	}
	return result, true
}

// respondAnalyzeError traduce cada clase de falla a un status distinguible:
// 404 usuario inexistente, 503 upstream caído, 502 contrato del modelo roto.
func (h *PersonaHandler) respondAnalyzeError(c *gin.Context, username string, err error) {
	switch {
	case errors.Is(err, reddit.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "reddit user not found"})
	case errors.Is(err, reddit.ErrUpstreamAuth), errors.Is(err, reddit.ErrUpstream), errors.Is(err, service.ErrLLMUnavailable):
		h.logger.Error("upstream unavailable", zap.String("username", username), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "upstream unavailable"})
	case errors.Is(err, service.ErrNoJSONBlock), errors.Is(err, service.ErrInvalidJSON), errors.Is(err, service.ErrContractViolation):
		h.logger.Error("model contract violation", zap.String("username", username), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "model returned an unusable response"})
	default:
		h.logger.Error("analyze failed", zap.String("username", username), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not analyze user"})
	}
}
