package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blood-donation/internal/domain/entity"
	repo "github.com/oksasatya/go-blood-donation/internal/domain/repository"
	"github.com/oksasatya/go-blood-donation/pkg/helpers"
)

type AdminService struct {
	Store    repo.Store
	Notifier *NotificationService
	Redis    *redis.Client
	Logger   *logrus.Logger
}

func NewAdminService(store repo.Store, notifier *NotificationService, rdb *redis.Client, logger *logrus.Logger) *AdminService {
	return &AdminService{Store: store, Notifier: notifier, Redis: rdb, Logger: logger}
}

func (s *AdminService) ListUnverified(ctx context.Context, actor entity.Actor) ([]entity.User, error) {
	if actor.Role != entity.RoleAdmin {
		return nil, ErrUnauthorized
	}
	return s.Store.Users().ListUnverified(ctx)
}

// Verify marks the user verified and notifies them in the same transaction.
// Verifying an already verified user is a no-op.
func (s *AdminService) Verify(ctx context.Context, actor entity.Actor, userID int64) (*entity.User, error) {
	if actor.Role != entity.RoleAdmin {
		return nil, ErrUnauthorized
	}
	var u *entity.User
	notified := 0
	err := s.Store.WithTx(ctx, func(tx repo.Repositories) error {
		var err error
		notified = 0
		u, err = tx.Users().GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrUserNotFound
			}
			return fmt.Errorf("load user: %w", err)
		}
		if u.IsVerified {
			return nil
		}
		if err := tx.Users().SetVerified(ctx, userID); err != nil {
			return fmt.Errorf("set verified: %w", err)
		}
		u.IsVerified = true
		_, err = s.Notifier.Notify(ctx, tx, NotifyInput{
			RecipientID: userID,
			Title:       "Account Verified",
			Message:     "Your account has been verified by the admin. You can now receive blood requests.",
			Severity:    entity.SeveritySuccess,
		})
		if err != nil {
			return err
		}
		notified = 1
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.Notifier.Committed(notified)

	// Keep a live session in step with the new flag.
	if s.Redis != nil {
		key := helpers.SessionKey(userID)
		if n, rErr := s.Redis.Exists(ctx, key).Result(); rErr == nil && n > 0 {
			if hErr := s.Redis.HSet(ctx, key, "is_verified", "true").Err(); hErr != nil && s.Logger != nil {
				s.Logger.WithError(hErr).WithField("key", key).Warn("redis session update failed")
			}
		}
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": userID, "admin_id": actor.ID}).Info("user verified")
	}
	return u, nil
}
