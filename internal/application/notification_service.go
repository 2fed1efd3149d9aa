package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blood-donation/internal/domain/entity"
	repo "github.com/oksasatya/go-blood-donation/internal/domain/repository"
	"github.com/oksasatya/go-blood-donation/pkg/mailer"
	mailtpl "github.com/oksasatya/go-blood-donation/pkg/mailer/templates"
)

// JobPublisher is satisfied by helpers.RabbitPublisher.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

type NotificationService struct {
	Store        repo.Store
	Pub          JobPublisher
	Logger       *logrus.Logger
	MailEnabled  bool
	DashboardURL string
}

func NewNotificationService(store repo.Store, pub JobPublisher, logger *logrus.Logger, mailEnabled bool, dashboardURL string) *NotificationService {
	return &NotificationService{
		Store:        store,
		Pub:          pub,
		Logger:       logger,
		MailEnabled:  mailEnabled,
		DashboardURL: dashboardURL,
	}
}

type NotifyInput struct {
	RecipientID int64
	Title       string
	Message     string
	Severity    entity.Severity
}

// Dispatched is a persisted notification plus the recipient details needed
// to mirror it by e-mail once the surrounding transaction commits.
type Dispatched struct {
	Notification   entity.Notification
	RecipientEmail string
	RecipientName  string
}

// Notify writes one unread notification for the recipient using repos, so
// the caller decides which transaction it joins. A nil repos uses the store.
// Callers passing a transaction record the notifications_created counter
// themselves once it commits (see Committed).
func (s *NotificationService) Notify(ctx context.Context, repos repo.Repositories, in NotifyInput) (*Dispatched, error) {
	direct := repos == nil
	if direct {
		repos = s.Store
	}
	if !in.Severity.Valid() {
		return nil, fmt.Errorf("notify: unknown severity %q", in.Severity)
	}
	u, err := repos.Users().GetByID(ctx, in.RecipientID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrRecipientNotFound
		}
		return nil, fmt.Errorf("lookup recipient: %w", err)
	}
	n := &entity.Notification{
		UserID:  in.RecipientID,
		Title:   in.Title,
		Message: in.Message,
		Type:    in.Severity,
	}
	if err := repos.Notifications().Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	if direct {
		notificationsCreated.Add(1)
	}
	return &Dispatched{Notification: *n, RecipientEmail: u.Email, RecipientName: u.FullName()}, nil
}

// Committed records n notifications written inside a committed transaction.
func (s *NotificationService) Committed(n int) {
	notificationsCreated.Add(int64(n))
}

// Mirror enqueues e-mail copies of critical notifications. Failures are
// logged and never returned: the notification rows are already committed.
func (s *NotificationService) Mirror(ctx context.Context, sent []Dispatched) {
	if !s.MailEnabled || s.Pub == nil {
		return
	}
	for _, d := range sent {
		if d.Notification.Type != entity.SeverityCritical || d.RecipientEmail == "" {
			continue
		}
		job := mailer.EmailJob{
			To:       d.RecipientEmail,
			Template: mailtpl.Notification,
			Data: mailtpl.NewNotificationData(
				d.RecipientName,
				d.RecipientEmail,
				d.Notification.Title,
				d.Notification.Message,
				mailtpl.WithSeverity(string(d.Notification.Type)),
				mailtpl.WithDashboardURL(s.DashboardURL),
				mailtpl.WithTime(d.Notification.CreatedAt),
			),
		}
		if err := s.Pub.PublishJSON(ctx, job); err != nil {
			if s.Logger != nil {
				s.Logger.WithError(err).WithField("notification_id", d.Notification.ID).Warn("enqueue notification email failed")
			}
			continue
		}
		notificationEmailsSent.Add(1)
	}
}

func (s *NotificationService) ListUnread(ctx context.Context, userID int64) ([]entity.Notification, error) {
	return s.Store.Notifications().ListUnread(ctx, userID)
}

func (s *NotificationService) List(ctx context.Context, userID int64, limit int) ([]entity.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.Store.Notifications().List(ctx, userID, limit)
}

// MarkRead flips the read flag on a notification owned by userID.
func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID int64) error {
	ok, err := s.Store.Notifications().MarkRead(ctx, notificationID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotificationNotFound
	}
	return nil
}
