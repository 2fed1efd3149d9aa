package application

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-blood-donation/internal/domain/entity"
	repo "github.com/oksasatya/go-blood-donation/internal/domain/repository"
	"github.com/oksasatya/go-blood-donation/pkg/helpers"
)

const (
	adminCountsKey = "dashboard:admin:counts"
	adminCountsTTL = 30 * time.Second
)

type DashboardService struct {
	Store       repo.Store
	Redis       *redis.Client
	RecentLimit int
}

func NewDashboardService(store repo.Store, rdb *redis.Client, recentLimit int) *DashboardService {
	if recentLimit <= 0 {
		recentLimit = 5
	}
	return &DashboardService{Store: store, Redis: rdb, RecentLimit: recentLimit}
}

type DonorDashboard struct {
	Profile        *entity.DonorProfile
	RecentRequests []entity.BloodRequest
	MyDonations    []entity.Donation
}

type RequesterDashboard struct {
	MyRequests []entity.BloodRequest
}

type adminCounts struct {
	TotalUsers     int `json:"total_users"`
	TotalDonors    int `json:"total_donors"`
	ActiveRequests int `json:"active_requests"`
}

type AdminDashboard struct {
	adminCounts
	RecentDonations []entity.Donation
}

// Dashboard holds exactly one populated view, chosen by Role.
type Dashboard struct {
	Role      entity.Role
	Donor     *DonorDashboard
	Requester *RequesterDashboard
	Admin     *AdminDashboard
}

func (s *DashboardService) For(ctx context.Context, actor entity.Actor) (*Dashboard, error) {
	switch actor.Role {
	case entity.RoleDonor:
		v, err := s.donor(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		return &Dashboard{Role: actor.Role, Donor: v}, nil
	case entity.RoleRequester:
		reqs, err := s.Store.Requests().ListByRequester(ctx, actor.ID)
		if err != nil {
			return nil, err
		}
		return &Dashboard{Role: actor.Role, Requester: &RequesterDashboard{MyRequests: reqs}}, nil
	case entity.RoleAdmin:
		v, err := s.admin(ctx)
		if err != nil {
			return nil, err
		}
		return &Dashboard{Role: actor.Role, Admin: v}, nil
	case entity.RoleUnknown:
		return nil, ErrUnauthorized
	}
	return nil, ErrUnauthorized
}

func (s *DashboardService) donor(ctx context.Context, userID int64) (*DonorDashboard, error) {
	v := &DonorDashboard{}
	p, err := s.Store.Donors().GetByUserID(ctx, userID)
	switch {
	case err == nil:
		v.Profile = p
	case !errors.Is(err, repo.ErrNotFound):
		return nil, err
	}
	if v.RecentRequests, err = s.Store.Requests().ListActive(ctx, s.RecentLimit); err != nil {
		return nil, err
	}
	if v.MyDonations, err = s.Store.Donations().ListByDonorUser(ctx, userID, s.RecentLimit); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *DashboardService) admin(ctx context.Context) (*AdminDashboard, error) {
	counts, err := s.counts(ctx)
	if err != nil {
		return nil, err
	}
	v := AdminDashboard{adminCounts: counts}
	if v.RecentDonations, err = s.Store.Donations().ListRecent(ctx, 2*s.RecentLimit); err != nil {
		return nil, err
	}
	return &v, nil
}

// counts serves the totals from Redis when cached. Cache errors fall through to the store.
func (s *DashboardService) counts(ctx context.Context) (adminCounts, error) {
	var c adminCounts
	if s.Redis != nil {
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, adminCountsKey, &c); err == nil && ok {
			return c, nil
		}
	}
	var err error
	if c.TotalUsers, err = s.Store.Users().Count(ctx); err != nil {
		return c, err
	}
	if c.TotalDonors, err = s.Store.Donors().Count(ctx); err != nil {
		return c, err
	}
	if c.ActiveRequests, err = s.Store.Requests().CountActive(ctx); err != nil {
		return c, err
	}
	if s.Redis != nil {
		_ = helpers.RedisSetJSON(ctx, s.Redis, adminCountsKey, c, adminCountsTTL)
	}
	return c, nil
}
