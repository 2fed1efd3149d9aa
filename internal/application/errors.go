package application

import (
	"errors"
	"sort"
	"strings"

	"github.com/oksasatya/go-blood-donation/internal/domain/entity"
)

var (
	ErrInvalidBloodGroup       = entity.ErrInvalidBloodGroup
	ErrInvalidRequestDetails   = errors.New("invalid request details")
	ErrRequestNotFound         = errors.New("blood request not found")
	ErrNotADonor               = errors.New("only donors can perform this action")
	ErrProfileRequired         = errors.New("donor profile required")
	ErrAlreadyResponded        = errors.New("already responded to this request")
	ErrRecipientNotFound       = errors.New("notification recipient not found")
	ErrUnauthorized            = errors.New("unauthorized")
	ErrNotificationNotFound    = errors.New("notification not found")
	ErrInvalidStatusTransition = errors.New("invalid status transition")

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidRole        = entity.ErrInvalidRole
)

// FieldError carries per-field messages and unwraps to its Kind.
type FieldError struct {
	Kind   error
	Fields map[string]string
}

func (e *FieldError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return e.Kind.Error() + ": " + strings.Join(parts, "; ")
}

func (e *FieldError) Unwrap() error { return e.Kind }

// fieldErrors collects messages; err returns nil when nothing was added.
type fieldErrors map[string]string

func (f fieldErrors) add(field, msg string) { f[field] = msg }

func (f fieldErrors) err(kind error) error {
	if len(f) == 0 {
		return nil
	}
	return &FieldError{Kind: kind, Fields: f}
}
