package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blood-donation/internal/application"
	"github.com/oksasatya/go-blood-donation/pkg/response"
	"github.com/oksasatya/go-blood-donation/pkg/validation"
)

const maxAvatarBytes = 5 << 20

type UserHandler struct {
	Svc    *application.UserService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.UserService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type updateProfileRequest struct {
	FirstName   string `json:"first_name" binding:"max=100"`
	LastName    string `json:"last_name" binding:"max=100"`
	PhoneNumber string `json:"phone_number" binding:"omitempty,phone"`
	AvatarURL   string `json:"avatar_url" binding:"omitempty,url"`
}

// GetProfile GET /api/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	a, ok := actorOrAbort(c)
	if !ok {
		return
	}
	u, err := h.Svc.GetProfile(c.Request.Context(), a.ID)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Send(c, response.Success(c, http.StatusOK, userView(u), "profile", nil))
}

// UpdateProfile PUT /api/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	a, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Send(c, response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err)))
		return
	}
	u, err := h.Svc.UpdateProfile(c.Request.Context(), a.ID, application.UpdateProfileInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
		AvatarURL:   req.AvatarURL,
	})
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Send(c, response.Success(c, http.StatusOK, userView(u), "profile updated", nil))
}

// UploadAvatar POST /api/profile/avatar (multipart field "avatar")
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	a, ok := actorOrAbort(c)
	if !ok {
		return
	}
	fh, err := c.FormFile("avatar")
	if err != nil {
		response.Send(c, response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"avatar": "is required"}))
		return
	}
	ct := fh.Header.Get("Content-Type")
	if fh.Size > maxAvatarBytes || !strings.HasPrefix(ct, "image/") {
		response.Send(c, response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{"avatar": "must be an image up to 5MB"}))
		return
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	defer f.Close()

	url, err := h.Svc.UploadAvatar(c.Request.Context(), a.ID, f, fh.Filename, ct)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Send(c, response.Success(c, http.StatusOK, gin.H{"avatar_url": url}, "avatar uploaded", nil))
}
