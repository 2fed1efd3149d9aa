package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/go-blood-donation/internal/domain/entity"
	"github.com/oksasatya/go-blood-donation/internal/domain/repository"
)

const requestColumns = `id, requester_id, patient_name, blood_group, quantity_required, urgency_level,
	hospital_name, hospital_address, contact_number, notes, status, created_at`

type BloodRequestRepository struct {
	db DBTX
}

func NewBloodRequestRepository(db DBTX) *BloodRequestRepository {
	return &BloodRequestRepository{db: db}
}

func scanRequest(row pgx.Row) (*entity.BloodRequest, error) {
	br := &entity.BloodRequest{}
	var group, urgency, status string
	if err := row.Scan(&br.ID, &br.RequesterID, &br.PatientName, &group, &br.QuantityRequired, &urgency,
		&br.HospitalName, &br.HospitalAddress, &br.ContactNumber, &br.Notes, &status, &br.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	br.BloodGroup = entity.BloodGroup(group)
	br.UrgencyLevel = entity.Urgency(urgency)
	br.Status = entity.RequestStatus(status)
	return br, nil
}

func collectRequests(rows pgx.Rows) ([]entity.BloodRequest, error) {
	defer rows.Close()
	var out []entity.BloodRequest
	for rows.Next() {
		br, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *br)
	}
	return out, rows.Err()
}

func (r *BloodRequestRepository) Create(ctx context.Context, br *entity.BloodRequest) error {
	if br.Status == "" {
		br.Status = entity.RequestActive
	}
	row := r.db.QueryRow(ctx, `
		INSERT INTO blood_requests (requester_id, patient_name, blood_group, quantity_required, urgency_level,
		                            hospital_name, hospital_address, contact_number, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`, br.RequesterID, br.PatientName, string(br.BloodGroup), br.QuantityRequired, string(br.UrgencyLevel),
		br.HospitalName, br.HospitalAddress, br.ContactNumber, br.Notes, string(br.Status))

	return mapErr(row.Scan(&br.ID, &br.CreatedAt))
}

func (r *BloodRequestRepository) GetByID(ctx context.Context, id int64) (*entity.BloodRequest, error) {
	return scanRequest(r.db.QueryRow(ctx, `SELECT `+requestColumns+` FROM blood_requests WHERE id = $1`, id))
}

func (r *BloodRequestRepository) ListActive(ctx context.Context, limit int) ([]entity.BloodRequest, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+requestColumns+` FROM blood_requests
		WHERE status = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`, string(entity.RequestActive), limit)
	if err != nil {
		return nil, err
	}
	return collectRequests(rows)
}

func (r *BloodRequestRepository) ListByRequester(ctx context.Context, requesterID int64) ([]entity.BloodRequest, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+requestColumns+` FROM blood_requests
		WHERE requester_id = $1
		ORDER BY created_at DESC, id DESC`, requesterID)
	if err != nil {
		return nil, err
	}
	return collectRequests(rows)
}

func (r *BloodRequestRepository) UpdateStatus(ctx context.Context, id int64, status entity.RequestStatus) error {
	res, err := r.db.Exec(ctx, `UPDATE blood_requests SET status = $1 WHERE id = $2`, string(status), id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *BloodRequestRepository) CountActive(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM blood_requests WHERE status = $1`, string(entity.RequestActive)).Scan(&n)
	return n, err
}

var _ repository.BloodRequestRepository = (*BloodRequestRepository)(nil)
