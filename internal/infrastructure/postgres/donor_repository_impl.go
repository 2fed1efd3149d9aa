package postgres

import (
	"context"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/go-blood-donation/internal/domain/entity"
	"github.com/oksasatya/go-blood-donation/internal/domain/repository"
)

const donorColumns = `d.id, d.user_id, d.blood_group, d.address, d.is_available, d.medical_notes, d.last_donation_date, d.created_at, d.updated_at`

type DonorRepository struct {
	db DBTX
}

func NewDonorRepository(db DBTX) *DonorRepository {
	return &DonorRepository{db: db}
}

func scanDonor(row pgx.Row, extra ...any) (*entity.DonorProfile, error) {
	p := &entity.DonorProfile{}
	var group string
	dest := []any{&p.ID, &p.UserID, &group, &p.Address, &p.IsAvailable, &p.MedicalNotes,
		&p.LastDonationDate, &p.CreatedAt, &p.UpdatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, mapErr(err)
	}
	p.BloodGroup = entity.BloodGroup(group)
	return p, nil
}

func (r *DonorRepository) GetByUserID(ctx context.Context, userID int64) (*entity.DonorProfile, error) {
	return scanDonor(r.db.QueryRow(ctx, `SELECT `+donorColumns+` FROM donors d WHERE d.user_id = $1`, userID))
}

func (r *DonorRepository) Upsert(ctx context.Context, p *entity.DonorProfile) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO donors (user_id, blood_group, address, is_available, medical_notes, last_donation_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE
		SET blood_group = EXCLUDED.blood_group,
		    address = EXCLUDED.address,
		    is_available = EXCLUDED.is_available,
		    medical_notes = EXCLUDED.medical_notes,
		    last_donation_date = EXCLUDED.last_donation_date,
		    updated_at = now()
		RETURNING id, created_at, updated_at
	`, p.UserID, string(p.BloodGroup), p.Address, p.IsAvailable, p.MedicalNotes, p.LastDonationDate)

	return mapErr(row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt))
}

func (r *DonorRepository) ToggleAvailability(ctx context.Context, userID int64) (*entity.DonorProfile, error) {
	return scanDonor(r.db.QueryRow(ctx, `
		UPDATE donors d SET is_available = NOT d.is_available, updated_at = now()
		WHERE d.user_id = $1
		RETURNING `+donorColumns, userID))
}

// Find binds the group set as one array parameter.
func (r *DonorRepository) Find(ctx context.Context, f repository.DonorFilter) ([]entity.DonorContact, error) {
	var (
		conds = []string{"TRUE"}
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}
	if f.Groups != nil {
		conds = append(conds, "d.blood_group = ANY("+arg(entity.GroupStrings(f.Groups))+")")
	}
	if f.AvailableOnly {
		conds = append(conds, "d.is_available = TRUE")
	}
	if f.VerifiedOnly {
		conds = append(conds, "u.is_verified = TRUE")
	}
	if f.ExcludeUserID != 0 {
		conds = append(conds, "d.user_id <> "+arg(f.ExcludeUserID))
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+donorColumns+`, u.first_name, u.last_name, COALESCE(u.phone_number, ''), u.is_verified
		FROM donors d
		JOIN users u ON d.user_id = u.id
		WHERE `+strings.Join(conds, " AND ")+`
		ORDER BY d.id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.DonorContact
	for rows.Next() {
		var c entity.DonorContact
		p, err := scanDonor(rows, &c.FirstName, &c.LastName, &c.PhoneNumber, &c.IsVerified)
		if err != nil {
			return nil, err
		}
		c.Profile = *p
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *DonorRepository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM donors`).Scan(&n)
	return n, err
}

var _ repository.DonorRepository = (*DonorRepository)(nil)
