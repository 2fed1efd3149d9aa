package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-blood-donation/internal/domain/entity"
	"github.com/oksasatya/go-blood-donation/pkg/mailer/templates"
)

func TestCreate_NotifiesOnlyAvailableCompatibleDonors(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	req := f.requester()

	d1, _ := f.store.AddDonor("Budi", entity.ONegative, true)
	d2, _ := f.store.AddDonor("Sari", entity.ONegative, true)
	d3, _ := f.store.AddDonor("Agus", entity.ONegative, false)

	res, err := f.requests.Create(ctx, req, validRequest("O-", "Critical"))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Notified)

	ns := f.store.AllNotifications()
	require.Len(t, ns, 2)
	assert.ElementsMatch(t, []int64{d1.ID, d2.ID}, []int64{ns[0].UserID, ns[1].UserID})
	assert.Empty(t, f.store.NotificationsFor(d3.ID))

	for _, n := range ns {
		assert.Equal(t, entity.SeverityCritical, n.Type)
		assert.False(t, n.IsRead)
		assert.Equal(t, "Urgent Blood Request - O-", n.Title)
		assert.Equal(t, "Patient Andi needs 2 units of O- blood at RS Harapan. Urgency: Critical", n.Message)
	}

	reqs := f.store.AllRequests()
	require.Len(t, reqs, 1)
	assert.Equal(t, res.RequestID, reqs[0].ID)
	assert.Equal(t, entity.RequestActive, reqs[0].Status)
	assert.Equal(t, req.ID, reqs[0].RequesterID)
}

func TestCreate_UsesCompatibilityChart(t *testing.T) {
	f := newFixture()
	req := f.requester()

	aNeg, _ := f.store.AddDonor("Ani", entity.ANegative, true)
	oNeg, _ := f.store.AddDonor("Oki", entity.ONegative, true)
	f.store.AddDonor("Ari", entity.APositive, true)
	f.store.AddDonor("Bima", entity.BNegative, true)
	f.store.AddDonor("Abe", entity.ABNegative, true)

	res, err := f.requests.Create(context.Background(), req, validRequest("A-", "High"))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Notified)

	var recipients []int64
	for _, n := range f.store.AllNotifications() {
		recipients = append(recipients, n.UserID)
		assert.Equal(t, entity.SeverityInformational, n.Type)
	}
	assert.ElementsMatch(t, []int64{aNeg.ID, oNeg.ID}, recipients)
}

func TestCreate_NoCompatibleDonorsStillCreatesRequest(t *testing.T) {
	f := newFixture()
	f.store.AddDonor("Ari", entity.APositive, true)

	res, err := f.requests.Create(context.Background(), f.requester(), validRequest("O-", "Normal"))
	require.NoError(t, err)
	assert.Zero(t, res.Notified)
	assert.Len(t, f.store.AllRequests(), 1)
	assert.Empty(t, f.store.AllNotifications())
}

func TestCreate_InvalidDetailsPersistNothing(t *testing.T) {
	f := newFixture()
	req := f.requester()
	f.store.AddDonor("Budi", entity.ONegative, true)

	bad := validRequest("O-", "Critical")
	bad.QuantityRequired = 0
	_, err := f.requests.Create(context.Background(), req, bad)
	require.ErrorIs(t, err, ErrInvalidRequestDetails)

	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	assert.Contains(t, fe.Fields, "quantity_required")

	assert.Empty(t, f.store.AllRequests())
	assert.Empty(t, f.store.AllNotifications())
	assert.Zero(t, f.store.Calls["WithTx"])
}

func TestCreate_ReportsEveryInvalidField(t *testing.T) {
	f := newFixture()
	_, err := f.requests.Create(context.Background(), f.requester(), CreateBloodRequestInput{
		BloodGroup:       "C+",
		QuantityRequired: -1,
		UrgencyLevel:     "Someday",
	})
	var fe *FieldError
	require.True(t, errors.As(err, &fe))
	assert.Len(t, fe.Fields, 5)
	for _, k := range []string{"patient_name", "blood_group", "quantity_required", "urgency_level", "hospital_name"} {
		assert.Contains(t, fe.Fields, k)
	}
}

func TestCreate_DonorCannotRequest(t *testing.T) {
	f := newFixture()
	donor, _ := f.store.AddDonor("Budi", entity.ONegative, true)

	_, err := f.requests.Create(context.Background(), donor.Actor(), validRequest("O-", "Critical"))
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Empty(t, f.store.AllRequests())
}

func TestCreate_NotificationFailureRollsBackRequest(t *testing.T) {
	f := newFixture()
	req := f.requester()
	f.store.AddDonor("Budi", entity.ONegative, true)
	f.store.Errs["Notifications.Create"] = errors.New("disk full")
	counted := notificationsCreated.Value()

	_, err := f.requests.Create(context.Background(), req, validRequest("O-", "Critical"))
	require.Error(t, err)
	assert.Empty(t, f.store.AllRequests())
	assert.Empty(t, f.store.AllNotifications())
	assert.Equal(t, 1, f.store.Rollbacks)
	assert.Empty(t, f.pub.jobs)
	assert.Equal(t, counted, notificationsCreated.Value())
}

func TestCreate_CountsCommittedNotifications(t *testing.T) {
	f := newFixture()
	f.store.AddDonor("Budi", entity.ONegative, true)
	f.store.AddDonor("Sari", entity.OPositive, true)
	counted := notificationsCreated.Value()

	res, err := f.requests.Create(context.Background(), f.requester(), validRequest("O+", "High"))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Notified)
	assert.Equal(t, counted+2, notificationsCreated.Value())
}

func TestCreate_VerifiedOnlyPolicy(t *testing.T) {
	f := newFixture()
	f.requests.VerifiedOnly = true
	verified, _ := f.store.AddDonor("Budi", entity.ONegative, true)
	unverified := f.store.AddUser(entity.User{Email: "new@example.com", FirstName: "New", Role: entity.RoleDonor})
	_, err := f.donors.UpsertProfile(context.Background(), unverified.Actor(), UpsertDonorProfileInput{BloodGroup: "O-"})
	require.NoError(t, err)

	res, err := f.requests.Create(context.Background(), f.requester(), validRequest("O-", "High"))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Notified)
	assert.Len(t, f.store.NotificationsFor(verified.ID), 1)
	assert.Empty(t, f.store.NotificationsFor(unverified.ID))
}

func TestCreate_MirrorsCriticalAlertsByEmail(t *testing.T) {
	f := newFixture()
	req := f.requester()
	d, _ := f.store.AddDonor("Budi", entity.ONegative, true)

	_, err := f.requests.Create(context.Background(), req, validRequest("O-", "Critical"))
	require.NoError(t, err)
	require.Len(t, f.pub.jobs, 1)
	job := f.pub.jobs[0]
	assert.Equal(t, d.Email, job.To)
	assert.Equal(t, templates.Notification, job.Template)
	assert.Equal(t, "critical", job.Data["Severity"])
	assert.Equal(t, "Urgent Blood Request - O-", job.Data["Title"])

	// non-critical alerts stay in-app only
	_, err = f.requests.Create(context.Background(), req, validRequest("O-", "High"))
	require.NoError(t, err)
	assert.Len(t, f.pub.jobs, 1)
}

func TestCreate_PublishFailureDoesNotFailRequest(t *testing.T) {
	f := newFixture()
	f.pub.err = errors.New("broker down")
	f.store.AddDonor("Budi", entity.ONegative, true)

	res, err := f.requests.Create(context.Background(), f.requester(), validRequest("O-", "Critical"))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Notified)
	assert.Len(t, f.store.AllNotifications(), 1)
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.requester()
	res, err := f.requests.Create(ctx, owner, validRequest("B+", "Normal"))
	require.NoError(t, err)

	strangerUser := f.store.AddUser(entity.User{Email: "other@example.com", FirstName: "Other", Role: entity.RoleRequester})
	stranger := strangerUser.Actor()
	_, err = f.requests.UpdateStatus(ctx, stranger, res.RequestID, "Fulfilled")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.requests.UpdateStatus(ctx, owner, res.RequestID, "Active")
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)

	_, err = f.requests.UpdateStatus(ctx, owner, res.RequestID, "Paused")
	assert.ErrorIs(t, err, ErrInvalidRequestDetails)

	br, err := f.requests.UpdateStatus(ctx, owner, res.RequestID, "fulfilled")
	require.NoError(t, err)
	assert.Equal(t, entity.RequestFulfilled, br.Status)

	_, err = f.requests.UpdateStatus(ctx, f.adminActor(), res.RequestID, "Cancelled")
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)

	_, err = f.requests.UpdateStatus(ctx, owner, 9999, "Cancelled")
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestListActive_HidesClosedRequests(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.requester()
	first, err := f.requests.Create(ctx, owner, validRequest("A+", "Normal"))
	require.NoError(t, err)
	second, err := f.requests.Create(ctx, owner, validRequest("B+", "High"))
	require.NoError(t, err)
	_, err = f.requests.UpdateStatus(ctx, owner, first.RequestID, "Cancelled")
	require.NoError(t, err)

	active, err := f.requests.ListActive(ctx, 0)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, second.RequestID, active[0].ID)

	mine, err := f.requests.ListByRequester(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
	assert.Equal(t, second.RequestID, mine[0].ID, "newest first")
}
