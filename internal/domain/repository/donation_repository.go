package repository

import (
	"context"

	"github.com/oksasatya/go-blood-donation/internal/domain/entity"
)

// DonorFilter selects donors eligible for a request.
type DonorFilter struct {
	Groups        []entity.BloodGroup
	AvailableOnly bool
	VerifiedOnly  bool
	ExcludeUserID int64
}

type DonorRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*entity.DonorProfile, error)
	// Upsert creates or replaces the profile owned by p.UserID.
	Upsert(ctx context.Context, p *entity.DonorProfile) error
	// ToggleAvailability flips is_available and returns the updated profile.
	ToggleAvailability(ctx context.Context, userID int64) (*entity.DonorProfile, error)
	Find(ctx context.Context, f DonorFilter) ([]entity.DonorContact, error)
	Count(ctx context.Context) (int, error)
}

type BloodRequestRepository interface {
	Create(ctx context.Context, r *entity.BloodRequest) error
	GetByID(ctx context.Context, id int64) (*entity.BloodRequest, error)
	ListActive(ctx context.Context, limit int) ([]entity.BloodRequest, error)
	ListByRequester(ctx context.Context, requesterID int64) ([]entity.BloodRequest, error)
	UpdateStatus(ctx context.Context, id int64, status entity.RequestStatus) error
	CountActive(ctx context.Context) (int, error)
}

type DonationRepository interface {
	// CreateIfAbsent inserts d unless a donation for the same request and
	// donor already exists; created is false in that case.
	CreateIfAbsent(ctx context.Context, d *entity.Donation) (created bool, err error)
	ListByDonorUser(ctx context.Context, userID int64, limit int) ([]entity.Donation, error)
	ListRecent(ctx context.Context, limit int) ([]entity.Donation, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	ListUnread(ctx context.Context, userID int64) ([]entity.Notification, error)
	List(ctx context.Context, userID int64, limit int) ([]entity.Notification, error)
	// MarkRead only touches rows owned by userID.
	MarkRead(ctx context.Context, id, userID int64) (bool, error)
}

// Repositories groups every repository bound to the same connection or transaction.
type Repositories interface {
	Users() UserRepository
	Donors() DonorRepository
	Requests() BloodRequestRepository
	Donations() DonationRepository
	Notifications() NotificationRepository
}

// Store exposes non-transactional repositories and a transaction runner.
// fn's repositories share one transaction; it commits when fn returns nil.
type Store interface {
	Repositories
	WithTx(ctx context.Context, fn func(tx Repositories) error) error
}
