package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blood-donation/internal/application"
	"github.com/oksasatya/go-blood-donation/internal/domain/entity"
	"github.com/oksasatya/go-blood-donation/internal/interface/middleware"
	"github.com/oksasatya/go-blood-donation/pkg/helpers"
	"github.com/oksasatya/go-blood-donation/pkg/response"
	"github.com/oksasatya/go-blood-donation/pkg/validation"
)

// AuthHandler serves registration and the cookie session lifecycle.
type AuthHandler struct {
	Svc     *application.UserService
	Logger  *logrus.Logger
	Cookies *helpers.Manager
}

func NewAuthHandler(svc *application.UserService, logger *logrus.Logger, cookieDomain string, cookieSecure bool) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger, Cookies: helpers.NewCookie(cookieDomain, cookieSecure)}
}

type registerRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,pwd"`
	FirstName   string `json:"first_name" binding:"required,max=100"`
	LastName    string `json:"last_name" binding:"max=100"`
	PhoneNumber string `json:"phone_number" binding:"omitempty,phone"`
	Role        string `json:"role" binding:"required,signuprole"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

// actorOrAbort returns the caller set by middleware.Auth or writes 401.
func actorOrAbort(c *gin.Context) (entity.Actor, bool) {
	a, ok := middleware.ActorFrom(c)
	if !ok {
		response.Abort(c, response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil))
	}
	return a, ok
}

// Register POST /api/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Send(c, response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err)))
		return
	}
	u, err := h.Svc.Register(c.Request.Context(), application.RegisterInput{
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		Role:        req.Role,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Send(c, response.Success(c, http.StatusCreated, userView(u), "registration successful, awaiting admin verification", nil))
}

// Login POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Send(c, response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err)))
		return
	}

	u, pair, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Send(c, response.Success(c, http.StatusOK, userView(u), "login successful", map[string]any{
		"access_expires_at":  pair.AccessTokenExpiry,
		"refresh_expires_at": pair.RefreshTokenExpiry,
	}))
}

// Refresh POST /api/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	refresh, err := c.Cookie(helpers.RefreshCookie)
	if err != nil || refresh == "" {
		response.Send(c, response.Error[any](c, http.StatusUnauthorized, "missing refresh token", nil))
		return
	}
	pair, err := h.Svc.Refresh(c.Request.Context(), refresh)
	if err != nil {
		response.Send(c, response.Error[any](c, http.StatusUnauthorized, "invalid refresh token", nil))
		return
	}
	h.Cookies.SetPair(c, pair.AccessToken, pair.AccessTokenExpiry, pair.RefreshToken, pair.RefreshTokenExpiry)
	response.Send(c, response.Success[any](c, http.StatusOK, map[string]any{"refreshed": true}, "token refreshed", map[string]any{
		"access_expires_at":  pair.AccessTokenExpiry,
		"refresh_expires_at": pair.RefreshTokenExpiry,
	}))
}

// Logout POST /api/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if a, ok := middleware.ActorFrom(c); ok {
		h.Svc.Logout(c.Request.Context(), a.ID)
	}
	h.Cookies.Clear(c)
	response.Send(c, response.Success[any](c, http.StatusOK, map[string]any{"logged_out": true}, "logged out", nil))
}
