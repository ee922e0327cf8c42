package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"leadforge/internal/config"
	"leadforge/internal/middleware"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"editor"`
	Password string `json:"password" binding:"required" example:"secret"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Role      string    `json:"role" example:"editor"`
}

type MeResponse struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

type AuthHandler struct {
	users  map[string]config.UserConfig
	secret []byte
	ttl    time.Duration
	log    *zap.Logger
}

func NewAuthHandler(users []config.UserConfig, secret []byte, ttl time.Duration, log *zap.Logger) *AuthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	byName := make(map[string]config.UserConfig, len(users))
	for _, u := range users {
		byName[strings.ToLower(strings.TrimSpace(u.Username))] = u
	}
	return &AuthHandler{users: byName, secret: secret, ttl: ttl, log: log.Named("auth")}
}

// @Summary      Log in
// @Description  Checks the credentials of a configured user and returns a bearer token
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        login  body      LoginRequest  true  "Credentials"
// @Success      200    {object}  LoginResponse
// @Failure      400    {object}  ErrorResponse
// @Failure      401    {object}  ErrorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req, false) {
		return
	}
	name := strings.ToLower(strings.TrimSpace(req.Username))

	user, ok := h.users[name]
	if !ok || strings.TrimSpace(user.PasswordHash) == "" {
		h.log.Info("login rejected", zap.String("username", name), zap.String("reason", "unknown user"))
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid username or password"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(strings.TrimSpace(user.PasswordHash)), []byte(req.Password)); err != nil {
		h.log.Info("login rejected", zap.String("username", name), zap.String("reason", "password mismatch"))
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid username or password"})
		return
	}

	token, exp, err := middleware.IssueToken(h.secret, user.Username, user.Role, h.ttl)
	if err != nil {
		h.log.Error("sign token", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to issue token"})
		return
	}
	h.log.Info("login ok", zap.String("username", user.Username), zap.String("role", user.Role))
	c.JSON(http.StatusOK, LoginResponse{Token: token, ExpiresAt: exp, Role: user.Role})
}

// @Summary      Current user
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  MeResponse
// @Security     BearerAuth
// @Router       /me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	username, role := getUserAndRole(c)
	c.JSON(http.StatusOK, MeResponse{Username: username, Role: role})
}
