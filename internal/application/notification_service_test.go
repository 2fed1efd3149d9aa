package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-blood-donation/internal/domain/entity"
)

func TestNotify(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	u := f.store.AddUser(entity.User{Email: "x@example.com", FirstName: "Xena", Role: entity.RoleDonor})

	out, err := f.notifier.Notify(ctx, nil, NotifyInput{RecipientID: u.ID, Title: "Hi", Message: "Hello", Severity: entity.SeverityInformational})
	require.NoError(t, err)
	assert.Equal(t, "x@example.com", out.RecipientEmail)
	assert.Equal(t, "Xena", out.RecipientName)
	assert.False(t, out.Notification.IsRead)
	assert.NotZero(t, out.Notification.ID)

	_, err = f.notifier.Notify(ctx, nil, NotifyInput{RecipientID: 777, Title: "Hi", Severity: entity.SeverityInformational})
	assert.ErrorIs(t, err, ErrRecipientNotFound)

	_, err = f.notifier.Notify(ctx, nil, NotifyInput{RecipientID: u.ID, Title: "Hi", Severity: "loud"})
	assert.Error(t, err)

	assert.Len(t, f.store.AllNotifications(), 1)
}

func TestMirror_OnlyCriticalWhenEnabled(t *testing.T) {
	f := newFixture()
	sent := []Dispatched{
		{Notification: entity.Notification{ID: 1, Type: entity.SeverityCritical, Title: "A"}, RecipientEmail: "a@example.com"},
		{Notification: entity.Notification{ID: 2, Type: entity.SeverityInformational, Title: "B"}, RecipientEmail: "b@example.com"},
		{Notification: entity.Notification{ID: 3, Type: entity.SeveritySuccess, Title: "C"}, RecipientEmail: "c@example.com"},
		{Notification: entity.Notification{ID: 4, Type: entity.SeverityCritical, Title: "D"}},
	}

	f.notifier.Mirror(context.Background(), sent)
	require.Len(t, f.pub.jobs, 1)
	assert.Equal(t, "a@example.com", f.pub.jobs[0].To)
	assert.Equal(t, "http://app.local/dashboard", f.pub.jobs[0].Data["DashboardURL"])

	f.notifier.MailEnabled = false
	f.notifier.Mirror(context.Background(), sent)
	assert.Len(t, f.pub.jobs, 1)

	f.notifier.MailEnabled = true
	f.notifier.Pub = nil
	assert.NotPanics(t, func() { f.notifier.Mirror(context.Background(), sent) })
}

func TestMarkRead_OwnerOnly(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	owner := f.store.AddUser(entity.User{Email: "o@example.com", Role: entity.RoleDonor})
	other := f.store.AddUser(entity.User{Email: "t@example.com", Role: entity.RoleDonor})
	out, err := f.notifier.Notify(ctx, nil, NotifyInput{RecipientID: owner.ID, Title: "T", Message: "M", Severity: entity.SeveritySuccess})
	require.NoError(t, err)
	id := out.Notification.ID

	assert.ErrorIs(t, f.notifier.MarkRead(ctx, other.ID, id), ErrNotificationNotFound)
	unread, err := f.notifier.ListUnread(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, unread, 1)

	require.NoError(t, f.notifier.MarkRead(ctx, owner.ID, id))
	unread, err = f.notifier.ListUnread(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, unread)

	all, err := f.notifier.List(ctx, owner.ID, 0)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].IsRead)

	assert.ErrorIs(t, f.notifier.MarkRead(ctx, owner.ID, 9999), ErrNotificationNotFound)
}
