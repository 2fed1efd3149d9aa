package application

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-blood-donation/internal/domain/entity"
	"github.com/oksasatya/go-blood-donation/internal/domain/repository/repotest"
	"github.com/oksasatya/go-blood-donation/pkg/mailer"
)

type fakePublisher struct {
	mu   sync.Mutex
	jobs []mailer.EmailJob
	err  error
}

func (p *fakePublisher) PublishJSON(_ context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	job, ok := body.(mailer.EmailJob)
	if !ok {
		return errors.New("unexpected job type")
	}
	p.jobs = append(p.jobs, job)
	return nil
}

type fakeIndex struct {
	docs      map[int64]DonorDocument
	hits      []int64
	searchErr error
	indexErr  error
	within    []int64
}

func (f *fakeIndex) IndexDonor(_ context.Context, doc DonorDocument) error {
	if f.indexErr != nil {
		return f.indexErr
	}
	if f.docs == nil {
		f.docs = map[int64]DonorDocument{}
	}
	f.docs[doc.UserID] = doc
	return nil
}

func (f *fakeIndex) SearchDonors(_ context.Context, _ string, within []int64) ([]int64, error) {
	f.within = within
	return f.hits, f.searchErr
}

type fixture struct {
	store     *repotest.Store
	pub       *fakePublisher
	notifier  *NotificationService
	requests  *BloodRequestService
	donations *DonationService
	donors    *DonorService
	dashboard *DashboardService
	admin     *AdminService
	index     *fakeIndex
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newFixture() *fixture {
	store := repotest.NewStore()
	pub := &fakePublisher{}
	logger := quietLogger()
	notifier := NewNotificationService(store, pub, logger, true, "http://app.local/dashboard")
	index := &fakeIndex{}
	return &fixture{
		store:     store,
		pub:       pub,
		notifier:  notifier,
		requests:  NewBloodRequestService(store, notifier, logger, false),
		donations: NewDonationService(store, notifier, logger),
		donors:    NewDonorService(store, index, logger),
		dashboard: NewDashboardService(store, nil, 5),
		admin:     NewAdminService(store, notifier, nil, logger),
		index:     index,
	}
}

func (f *fixture) requester() entity.Actor {
	u := f.store.AddUser(entity.User{Email: "req@example.com", FirstName: "Rina", Role: entity.RoleRequester, IsVerified: true})
	return u.Actor()
}

func (f *fixture) adminActor() entity.Actor {
	u := f.store.AddUser(entity.User{Email: "admin@example.com", FirstName: "Admin", Role: entity.RoleAdmin, IsVerified: true})
	return u.Actor()
}

func validRequest(group string, urgency string) CreateBloodRequestInput {
	return CreateBloodRequestInput{
		PatientName:      "Andi",
		BloodGroup:       group,
		QuantityRequired: 2,
		UrgencyLevel:     urgency,
		HospitalName:     "RS Harapan",
		ContactNumber:    "+62811000111",
	}
}
