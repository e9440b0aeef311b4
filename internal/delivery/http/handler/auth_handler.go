package handler

import (
	"net/http"
	"time"

	"security-monitor/internal/config"
	"security-monitor/internal/logger"
	"security-monitor/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler issues operator tokens against the single configured credential.
type AuthHandler struct {
	cfg *config.Config
}

func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/login", h.Login)
	}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Username != h.cfg.Auth.OperatorUser ||
		!utils.CheckPassword(h.cfg.Auth.OperatorPasswordHash, req.Password) {
		logger.Warn("Failed login attempt",
			zap.String("username", req.Username),
			zap.String("ip", c.ClientIP()),
		)
		utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	expiry := time.Duration(h.cfg.JWT.ExpiryHours) * time.Hour
	token, err := utils.GenerateToken(req.Username, h.cfg.JWT.Secret, expiry)
	if err != nil {
		logger.Error("Failed to generate token", zap.Error(err))
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Login successful", LoginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(expiry),
	})
}
