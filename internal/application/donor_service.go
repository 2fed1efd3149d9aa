package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blood-donation/internal/domain/entity"
	repo "github.com/oksasatya/go-blood-donation/internal/domain/repository"
)

// DonorDocument is the searchable projection of a donor profile.
type DonorDocument struct {
	UserID      int64     `json:"user_id"`
	DonorID     int64     `json:"donor_id"`
	Name        string    `json:"name"`
	BloodGroup  string    `json:"blood_group"`
	Address     string    `json:"address"`
	IsAvailable bool      `json:"is_available"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DonorIndex is a full-text index over donor profiles.
type DonorIndex interface {
	IndexDonor(ctx context.Context, doc DonorDocument) error
	// SearchDonors returns the user ids in within that match q, best match first.
	SearchDonors(ctx context.Context, q string, within []int64) ([]int64, error)
}

type DonorService struct {
	Store  repo.Store
	Index  DonorIndex
	Logger *logrus.Logger
}

func NewDonorService(store repo.Store, index DonorIndex, logger *logrus.Logger) *DonorService {
	return &DonorService{Store: store, Index: index, Logger: logger}
}

type UpsertDonorProfileInput struct {
	BloodGroup       string
	Address          string
	IsAvailable      *bool
	MedicalNotes     string
	LastDonationDate *time.Time
}

func (s *DonorService) GetProfile(ctx context.Context, actor entity.Actor) (*entity.DonorProfile, error) {
	if actor.Role != entity.RoleDonor {
		return nil, ErrNotADonor
	}
	p, err := s.Store.Donors().GetByUserID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrProfileRequired
		}
		return nil, err
	}
	return p, nil
}

// UpsertProfile creates the caller's profile or replaces its fields.
// Availability defaults to true on creation and is kept on update when omitted.
func (s *DonorService) UpsertProfile(ctx context.Context, actor entity.Actor, in UpsertDonorProfileInput) (*entity.DonorProfile, error) {
	if actor.Role != entity.RoleDonor {
		return nil, ErrNotADonor
	}
	group, err := entity.ParseBloodGroup(in.BloodGroup)
	if err != nil {
		return nil, ErrInvalidBloodGroup
	}

	available := true
	existing, err := s.Store.Donors().GetByUserID(ctx, actor.ID)
	switch {
	case err == nil:
		available = existing.IsAvailable
	case !errors.Is(err, repo.ErrNotFound):
		return nil, err
	}
	if in.IsAvailable != nil {
		available = *in.IsAvailable
	}

	p := &entity.DonorProfile{
		UserID:           actor.ID,
		BloodGroup:       group,
		Address:          strings.TrimSpace(in.Address),
		IsAvailable:      available,
		MedicalNotes:     strings.TrimSpace(in.MedicalNotes),
		LastDonationDate: in.LastDonationDate,
	}
	if err := s.Store.Donors().Upsert(ctx, p); err != nil {
		return nil, fmt.Errorf("upsert donor profile: %w", err)
	}
	s.reindex(ctx, p)
	return p, nil
}

// ToggleAvailability flips the caller's availability flag.
func (s *DonorService) ToggleAvailability(ctx context.Context, actor entity.Actor) (*entity.DonorProfile, error) {
	if actor.Role != entity.RoleDonor {
		return nil, ErrNotADonor
	}
	p, err := s.Store.Donors().ToggleAvailability(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrProfileRequired
		}
		return nil, err
	}
	s.reindex(ctx, p)
	return p, nil
}

// Search lists available, verified donors able to give to group (any group
// when empty). A non-empty q narrows the result by name or address.
func (s *DonorService) Search(ctx context.Context, group string, q string) ([]entity.DonorContact, error) {
	filter := repo.DonorFilter{AvailableOnly: true, VerifiedOnly: true}
	if strings.TrimSpace(group) != "" {
		g, err := entity.ParseBloodGroup(group)
		if err != nil {
			return nil, ErrInvalidBloodGroup
		}
		groups, err := entity.CompatibleDonorGroups(g)
		if err != nil {
			return nil, err
		}
		filter.Groups = groups
	}
	donors, err := s.Store.Donors().Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	q = strings.TrimSpace(q)
	if q == "" {
		return donors, nil
	}
	if len(donors) == 0 {
		return donors, nil
	}
	return s.narrow(ctx, donors, q), nil
}

func (s *DonorService) narrow(ctx context.Context, donors []entity.DonorContact, q string) []entity.DonorContact {
	if s.Index != nil {
		within := make([]int64, len(donors))
		for i, d := range donors {
			within[i] = d.Profile.UserID
		}
		ids, err := s.Index.SearchDonors(ctx, q, within)
		if err == nil {
			rank := make(map[int64]int, len(ids))
			for i, id := range ids {
				rank[id] = i
			}
			out := make([]entity.DonorContact, len(ids))
			found := make([]bool, len(ids))
			for _, d := range donors {
				if i, ok := rank[d.Profile.UserID]; ok {
					out[i] = d
					found[i] = true
				}
			}
			res := out[:0]
			for i, d := range out {
				if found[i] {
					res = append(res, d)
				}
			}
			return res
		}
		if s.Logger != nil {
			s.Logger.WithError(err).Warn("donor index search failed, falling back to substring match")
		}
	}
	needle := strings.ToLower(q)
	var out []entity.DonorContact
	for _, d := range donors {
		hay := strings.ToLower(d.FirstName + " " + d.LastName + " " + d.Profile.Address)
		if strings.Contains(hay, needle) {
			out = append(out, d)
		}
	}
	return out
}

func (s *DonorService) reindex(ctx context.Context, p *entity.DonorProfile) {
	if s.Index == nil {
		return
	}
	doc := DonorDocument{
		UserID:      p.UserID,
		DonorID:     p.ID,
		BloodGroup:  p.BloodGroup.String(),
		Address:     p.Address,
		IsAvailable: p.IsAvailable,
		UpdatedAt:   p.UpdatedAt,
	}
	if u, err := s.Store.Users().GetByID(ctx, p.UserID); err == nil {
		doc.Name = u.FullName()
	}
	if err := s.Index.IndexDonor(ctx, doc); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", p.UserID).Warn("donor index failed")
	}
}
