// Package repotest provides an in-memory repository.Store for tests.
package repotest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oksasatya/go-blood-donation/internal/domain/entity"
	"github.com/oksasatya/go-blood-donation/internal/domain/repository"
)

// Store keeps every table in maps. WithTx snapshots state and restores it
// when fn fails, which is enough for single-goroutine tests.
type Store struct {
	mu sync.Mutex

	users         map[int64]entity.User
	donors        map[int64]entity.DonorProfile
	requests      map[int64]entity.BloodRequest
	donations     map[int64]entity.Donation
	notifications map[int64]entity.Notification
	nextID        int64
	clock         time.Time

	// Errs injects a failure by method name, e.g. "Notifications.Create".
	Errs map[string]error
	// Calls counts invocations by method name.
	Calls map[string]int
	// Commits and Rollbacks count finished transactions.
	Commits   int
	Rollbacks int
}

func NewStore() *Store {
	return &Store{
		users:         map[int64]entity.User{},
		donors:        map[int64]entity.DonorProfile{},
		requests:      map[int64]entity.BloodRequest{},
		donations:     map[int64]entity.Donation{},
		notifications: map[int64]entity.Notification{},
		clock:         time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC),
		Errs:          map[string]error{},
		Calls:         map[string]int{},
	}
}

var _ repository.Store = (*Store)(nil)

// enter records the call and returns the injected error, if any. Caller holds mu.
func (s *Store) enter(name string) error {
	s.Calls[name]++
	return s.Errs[name]
}

// tick returns a strictly increasing timestamp and id. Caller holds mu.
func (s *Store) tick() (int64, time.Time) {
	s.nextID++
	s.clock = s.clock.Add(time.Second)
	return s.nextID, s.clock
}

func (s *Store) Users() repository.UserRepository                 { return userRepo{s} }
func (s *Store) Donors() repository.DonorRepository               { return donorRepo{s} }
func (s *Store) Requests() repository.BloodRequestRepository      { return requestRepo{s} }
func (s *Store) Donations() repository.DonationRepository         { return donationRepo{s} }
func (s *Store) Notifications() repository.NotificationRepository { return notificationRepo{s} }

type snapshot struct {
	users         map[int64]entity.User
	donors        map[int64]entity.DonorProfile
	requests      map[int64]entity.BloodRequest
	donations     map[int64]entity.Donation
	notifications map[int64]entity.Notification
}

func clone[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *Store) WithTx(ctx context.Context, fn func(tx repository.Repositories) error) error {
	s.mu.Lock()
	if err := s.enter("WithTx"); err != nil {
		s.mu.Unlock()
		return err
	}
	snap := snapshot{
		users:         clone(s.users),
		donors:        clone(s.donors),
		requests:      clone(s.requests),
		donations:     clone(s.donations),
		notifications: clone(s.notifications),
	}
	s.mu.Unlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.users, s.donors, s.requests = snap.users, snap.donors, snap.requests
		s.donations, s.notifications = snap.donations, snap.notifications
		s.Rollbacks++
		s.mu.Unlock()
		return err
	}
	s.mu.Lock()
	s.Commits++
	s.mu.Unlock()
	return nil
}

// Seed helpers

// AddUser inserts u with a fresh id and returns the stored copy.
func (s *Store) AddUser(u entity.User) entity.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID, u.CreatedAt = s.tick()
	u.UpdatedAt = u.CreatedAt
	s.users[u.ID] = u
	return u
}

// AddDonor creates a verified donor account with a profile.
func (s *Store) AddDonor(first string, group entity.BloodGroup, available bool) (entity.User, entity.DonorProfile) {
	u := s.AddUser(entity.User{
		Email:      strings.ToLower(first) + "@example.com",
		FirstName:  first,
		Role:       entity.RoleDonor,
		IsVerified: true,
	})
	s.mu.Lock()
	defer s.mu.Unlock()
	p := entity.DonorProfile{UserID: u.ID, BloodGroup: group, IsAvailable: available}
	p.ID, p.CreatedAt = s.tick()
	p.UpdatedAt = p.CreatedAt
	s.donors[p.ID] = p
	return u, p
}

// Inspection helpers

func (s *Store) AllRequests() []entity.BloodRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedValues(s.requests, func(r entity.BloodRequest) int64 { return r.ID })
}

func (s *Store) AllDonations() []entity.Donation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedValues(s.donations, func(d entity.Donation) int64 { return d.ID })
}

func (s *Store) AllNotifications() []entity.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedValues(s.notifications, func(n entity.Notification) int64 { return n.ID })
}

// NotificationsFor returns userID's notifications in insertion order.
func (s *Store) NotificationsFor(userID int64) []entity.Notification {
	var out []entity.Notification
	for _, n := range s.AllNotifications() {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

func sortedValues[V any](m map[int64]V, id func(V) int64) []V {
	out := make([]V, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return id(out[i]) < id(out[j]) })
	return out
}

// newestFirst sorts by id descending, matching ORDER BY created_at DESC, id DESC.
func newestFirst[V any](vs []V, id func(V) int64) []V {
	sort.Slice(vs, func(i, j int) bool { return id(vs[i]) > id(vs[j]) })
	return vs
}

func limitTo[V any](vs []V, n int) []V {
	if n > 0 && len(vs) > n {
		return vs[:n]
	}
	return vs
}
