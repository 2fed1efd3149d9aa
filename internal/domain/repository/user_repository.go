package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/go-blood-donation/internal/domain/entity"
)

var (
	// ErrNotFound is returned when a row keyed by id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate")
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	ListUnverified(ctx context.Context) ([]entity.User, error)
	SetVerified(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}
