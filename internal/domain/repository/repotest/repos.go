package repotest

import (
	"context"
	"slices"
	"time"

	"github.com/oksasatya/go-blood-donation/internal/domain/entity"
	"github.com/oksasatya/go-blood-donation/internal/domain/repository"
)

type userRepo struct{ s *Store }

func (r userRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("Users.Create"); err != nil {
		return err
	}
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	u.ID, u.CreatedAt = r.s.tick()
	u.UpdatedAt = u.CreatedAt
	r.s.users[u.ID] = *u
	return nil
}

func (r userRepo) GetByID(_ context.Context, id int64) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("Users.GetByID"); err != nil {
		return nil, err
	}
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("Users.GetByEmail"); err != nil {
		return nil, err
	}
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r userRepo) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("Users.Update"); err != nil {
		return err
	}
	if _, ok := r.s.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	u.UpdatedAt = time.Now()
	r.s.users[u.ID] = *u
	return nil
}

func (r userRepo) ListUnverified(_ context.Context) ([]entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("Users.ListUnverified"); err != nil {
		return nil, err
	}
	var out []entity.User
	for _, u := range sortedValues(r.s.users, func(u entity.User) int64 { return u.ID }) {
		if !u.IsVerified {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r userRepo) SetVerified(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("Users.SetVerified"); err != nil {
		return err
	}
	u, ok := r.s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.IsVerified = true
	r.s.users[id] = u
	return nil
}

func (r userRepo) Count(_ context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("Users.Count"); err != nil {
		return 0, err
	}
	return len(r.s.users), nil
}

type donorRepo struct{ s *Store }

func (r donorRepo) byUser(userID int64) (entity.DonorProfile, bool) {
	for _, p := range r.s.donors {
		if p.UserID == userID {
			return p, true
		}
	}
	return entity.DonorProfile{}, false
}

func (r donorRepo) GetByUserID(_ context.Context, userID int64) (*entity.DonorProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("Donors.GetByUserID"); err != nil {
		return nil, err
	}
	p, ok := r.byUser(userID)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r donorRepo) Upsert(_ context.Context, p *entity.DonorProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("Donors.Upsert"); err != nil {
		return err
	}
	if existing, ok := r.byUser(p.UserID); ok {
		p.ID, p.CreatedAt = existing.ID, existing.CreatedAt
		_, p.UpdatedAt = r.s.tick()
	} else {
		p.ID, p.CreatedAt = r.s.tick()
		p.UpdatedAt = p.CreatedAt
	}
	r.s.donors[p.ID] = *p
	return nil
}

func (r donorRepo) ToggleAvailability(_ context.Context, userID int64) (*entity.DonorProfile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("Donors.ToggleAvailability"); err != nil {
		return nil, err
	}
	p, ok := r.byUser(userID)
	if !ok {
		return nil, repository.ErrNotFound
	}
	p.IsAvailable = !p.IsAvailable
	_, p.UpdatedAt = r.s.tick()
	r.s.donors[p.ID] = p
	return &p, nil
}

func (r donorRepo) Find(_ context.Context, f repository.DonorFilter) ([]entity.DonorContact, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("Donors.Find"); err != nil {
		return nil, err
	}
	var out []entity.DonorContact
	for _, p := range sortedValues(r.s.donors, func(p entity.DonorProfile) int64 { return p.ID }) {
		u, ok := r.s.users[p.UserID]
		switch {
		case !ok:
			continue
		case len(f.Groups) > 0 && !slices.Contains(f.Groups, p.BloodGroup):
			continue
		case f.AvailableOnly && !p.IsAvailable:
			continue
		case f.VerifiedOnly && !u.IsVerified:
			continue
		case f.ExcludeUserID != 0 && p.UserID == f.ExcludeUserID:
			continue
		}
		out = append(out, entity.DonorContact{
			Profile:     p,
			FirstName:   u.FirstName,
			LastName:    u.LastName,
			PhoneNumber: u.PhoneNumber,
			IsVerified:  u.IsVerified,
		})
	}
	return out, nil
}

func (r donorRepo) Count(_ context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("Donors.Count"); err != nil {
		return 0, err
	}
	return len(r.s.donors), nil
}

type requestRepo struct{ s *Store }

func (r requestRepo) Create(_ context.Context, br *entity.BloodRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("Requests.Create"); err != nil {
		return err
	}
	br.ID, br.CreatedAt = r.s.tick()
	r.s.requests[br.ID] = *br
	return nil
}

func (r requestRepo) GetByID(_ context.Context, id int64) (*entity.BloodRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("Requests.GetByID"); err != nil {
		return nil, err
	}
	br, ok := r.s.requests[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &br, nil
}

func (r requestRepo) filter(keep func(entity.BloodRequest) bool) []entity.BloodRequest {
	var out []entity.BloodRequest
	for _, br := range r.s.requests {
		if keep(br) {
			out = append(out, br)
		}
	}
	return newestFirst(out, func(br entity.BloodRequest) int64 { return br.ID })
}

func (r requestRepo) ListActive(_ context.Context, limit int) ([]entity.BloodRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("Requests.ListActive"); err != nil {
		return nil, err
	}
	return limitTo(r.filter(func(br entity.BloodRequest) bool { return br.Status == entity.RequestActive }), limit), nil
}

func (r requestRepo) ListByRequester(_ context.Context, requesterID int64) ([]entity.BloodRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("Requests.ListByRequester"); err != nil {
		return nil, err
	}
	return r.filter(func(br entity.BloodRequest) bool { return br.RequesterID == requesterID }), nil
}

func (r requestRepo) UpdateStatus(_ context.Context, id int64, status entity.RequestStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("Requests.UpdateStatus"); err != nil {
		return err
	}
	br, ok := r.s.requests[id]
	if !ok {
		return repository.ErrNotFound
	}
	br.Status = status
	r.s.requests[id] = br
	return nil
}

func (r requestRepo) CountActive(_ context.Context) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("Requests.CountActive"); err != nil {
		return 0, err
	}
	return len(r.filter(func(br entity.BloodRequest) bool { return br.Status == entity.RequestActive })), nil
}

type donationRepo struct{ s *Store }

func (r donationRepo) CreateIfAbsent(_ context.Context, d *entity.Donation) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("Donations.CreateIfAbsent"); err != nil {
		return false, err
	}
	for _, existing := range r.s.donations {
		if existing.RequestID == d.RequestID && existing.DonorID == d.DonorID {
			return false, nil
		}
	}
	d.ID, d.CreatedAt = r.s.tick()
	r.s.donations[d.ID] = *d
	return true, nil
}

func (r donationRepo) ListByDonorUser(_ context.Context, userID int64, limit int) ([]entity.Donation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("Donations.ListByDonorUser"); err != nil {
		return nil, err
	}
	p, ok := donorRepo(r).byUser(userID)
	if !ok {
		return nil, nil
	}
	var out []entity.Donation
	for _, d := range r.s.donations {
		if d.DonorID == p.ID {
			out = append(out, d)
		}
	}
	return limitTo(newestFirst(out, func(d entity.Donation) int64 { return d.ID }), limit), nil
}

func (r donationRepo) ListRecent(_ context.Context, limit int) ([]entity.Donation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("Donations.ListRecent"); err != nil {
		return nil, err
	}
	out := make([]entity.Donation, 0, len(r.s.donations))
	for _, d := range r.s.donations {
		out = append(out, d)
	}
	return limitTo(newestFirst(out, func(d entity.Donation) int64 { return d.ID }), limit), nil
}

type notificationRepo struct{ s *Store }

func (r notificationRepo) Create(_ context.Context, n *entity.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("Notifications.Create"); err != nil {
		return err
	}
	n.ID, n.CreatedAt = r.s.tick()
	r.s.notifications[n.ID] = *n
	return nil
}

func (r notificationRepo) list(userID int64, unreadOnly bool) []entity.Notification {
	var out []entity.Notification
	for _, n := range r.s.notifications {
		if n.UserID == userID && (!unreadOnly || !n.IsRead) {
			out = append(out, n)
		}
	}
	return newestFirst(out, func(n entity.Notification) int64 { return n.ID })
}

func (r notificationRepo) ListUnread(_ context.Context, userID int64) ([]entity.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("Notifications.ListUnread"); err != nil {
		return nil, err
	}
	return r.list(userID, true), nil
}

func (r notificationRepo) List(_ context.Context, userID int64, limit int) ([]entity.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("Notifications.List"); err != nil {
		return nil, err
	}
	return limitTo(r.list(userID, false), limit), nil
}

func (r notificationRepo) MarkRead(_ context.Context, id, userID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.enter("Notifications.MarkRead"); err != nil {
		return false, err
	}
	n, ok := r.s.notifications[id]
	if !ok || n.UserID != userID {
		return false, nil
	}
	n.IsRead = true
	r.s.notifications[id] = n
	return true, nil
}
