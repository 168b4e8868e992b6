package http

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"persona-llm/internal/service"
)

// AuthHandler canjea la admin key por un access token.
type AuthHandler struct {
	logger   *zap.Logger
	jwtServ  *service.JWTService
	adminKey string
}

// NewAuthHandler crea una instancia de AuthHandler. Devuelve nil si no hay
// admin key configurada: sin key no hay endpoint de tokens.
func NewAuthHandler(logger *zap.Logger, jwtServ *service.JWTService, adminKey string) *AuthHandler {
	if adminKey == "" || jwtServ == nil {
		return nil
	}
	return &AuthHandler{
		logger:   logger,
		jwtServ:  jwtServ,
		adminKey: adminKey,
	}
}

// IssueToken maneja POST /auth/token.
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req struct {
		AdminKey   string `json:"admin_key" binding:"required"`
		ClientName string `json:"client_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid token request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.AdminKey), []byte(h.adminKey)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid admin key"})
		return
	}

	token, err := h.jwtServ.Issue(req.ClientName)
	if err != nil {
		h.logger.Error("issue token failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}
