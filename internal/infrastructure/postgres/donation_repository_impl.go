package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/go-blood-donation/internal/domain/entity"
	"github.com/oksasatya/go-blood-donation/internal/domain/repository"
)

type DonationRepository struct {
	db DBTX
}

func NewDonationRepository(db DBTX) *DonationRepository {
	return &DonationRepository{db: db}
}

// CreateIfAbsent relies on the (request_id, donor_id) unique index so that
// concurrent responses from one donor cannot both insert.
func (r *DonationRepository) CreateIfAbsent(ctx context.Context, d *entity.Donation) (bool, error) {
	if d.Status == "" {
		d.Status = entity.DonationPending
	}
	err := r.db.QueryRow(ctx, `
		INSERT INTO donations (request_id, donor_id, status)
		VALUES ($1, $2, $3)
		ON CONFLICT (request_id, donor_id) DO NOTHING
		RETURNING id, created_at
	`, d.RequestID, d.DonorID, string(d.Status)).Scan(&d.ID, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, mapErr(err)
	}
	return true, nil
}

func collectDonations(rows pgx.Rows) ([]entity.Donation, error) {
	defer rows.Close()
	var out []entity.Donation
	for rows.Next() {
		var (
			d      entity.Donation
			status string
		)
		if err := rows.Scan(&d.ID, &d.RequestID, &d.DonorID, &status, &d.CreatedAt); err != nil {
			return nil, err
		}
		d.Status = entity.DonationStatus(status)
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *DonationRepository) ListByDonorUser(ctx context.Context, userID int64, limit int) ([]entity.Donation, error) {
	rows, err := r.db.Query(ctx, `
		SELECT d.id, d.request_id, d.donor_id, d.status, d.created_at
		FROM donations d
		JOIN donors dn ON d.donor_id = dn.id
		WHERE dn.user_id = $1
		ORDER BY d.created_at DESC, d.id DESC
		LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	return collectDonations(rows)
}

func (r *DonationRepository) ListRecent(ctx context.Context, limit int) ([]entity.Donation, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, request_id, donor_id, status, created_at
		FROM donations
		ORDER BY created_at DESC, id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return collectDonations(rows)
}

var _ repository.DonationRepository = (*DonationRepository)(nil)
