package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blood-donation/internal/application"
	"github.com/oksasatya/go-blood-donation/pkg/response"
)

// profileRedirect is where the client sends a donor who has no profile yet.
const profileRedirect = "/donor/profile"

// statusFor maps a service error to an HTTP status. Unknown errors are 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, application.ErrInvalidRequestDetails),
		errors.Is(err, application.ErrInvalidBloodGroup),
		errors.Is(err, application.ErrInvalidStatusTransition),
		errors.Is(err, application.ErrInvalidRole):
		return http.StatusBadRequest
	case errors.Is(err, application.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, application.ErrUnauthorized),
		errors.Is(err, application.ErrNotADonor):
		return http.StatusForbidden
	case errors.Is(err, application.ErrRequestNotFound),
		errors.Is(err, application.ErrRecipientNotFound),
		errors.Is(err, application.ErrNotificationNotFound),
		errors.Is(err, application.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, application.ErrProfileRequired),
		errors.Is(err, application.ErrEmailTaken):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// fail writes err as an API error. Internal errors are logged and hidden.
func fail(c *gin.Context, logger *logrus.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		if logger != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"request_id": c.GetString("request_id"),
				"path":       c.FullPath(),
			}).Error("request failed")
		}
		response.Send(c, response.Error[any](c, status, "internal server error", nil))
		return
	}

	var details any
	var fe *application.FieldError
	if errors.As(err, &fe) {
		details = fe.Fields
	}
	if errors.Is(err, application.ErrProfileRequired) {
		details = gin.H{"redirect": profileRedirect}
	}
	response.Send(c, response.Error[any](c, status, rootMessage(err), details))
}

// rootMessage returns the message of the sentinel err wraps, so wrapping
// context never leaks to clients.
func rootMessage(err error) string {
	var fe *application.FieldError
	if errors.As(err, &fe) {
		return fe.Kind.Error()
	}
	return err.Error()
}
