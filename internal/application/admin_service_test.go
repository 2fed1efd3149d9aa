package application

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-blood-donation/internal/domain/entity"
	"github.com/oksasatya/go-blood-donation/pkg/helpers"
)

func TestVerify(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	admin := f.adminActor()
	u := f.store.AddUser(entity.User{Email: "new@example.com", FirstName: "New", Role: entity.RoleDonor})

	pending, err := f.admin.ListUnverified(ctx, admin)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, u.ID, pending[0].ID)

	got, err := f.admin.Verify(ctx, admin, u.ID)
	require.NoError(t, err)
	assert.True(t, got.IsVerified)

	ns := f.store.NotificationsFor(u.ID)
	require.Len(t, ns, 1)
	assert.Equal(t, "Account Verified", ns[0].Title)
	assert.Equal(t, entity.SeveritySuccess, ns[0].Type)

	// verifying again changes nothing
	_, err = f.admin.Verify(ctx, admin, u.ID)
	require.NoError(t, err)
	assert.Len(t, f.store.NotificationsFor(u.ID), 1)

	pending, err = f.admin.ListUnverified(ctx, admin)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestVerify_Errors(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	u := f.store.AddUser(entity.User{Email: "new@example.com", Role: entity.RoleDonor})

	_, err := f.admin.Verify(ctx, f.requester(), u.ID)
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = f.admin.ListUnverified(ctx, u.Actor())
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.admin.Verify(ctx, f.adminActor(), 4040)
	assert.ErrorIs(t, err, ErrUserNotFound)

	f.store.Errs["Notifications.Create"] = assert.AnError
	_, err = f.admin.Verify(ctx, f.adminActor(), u.ID)
	require.Error(t, err)
	stored, err := f.store.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsVerified, "flag is rolled back with the notification")
}

func TestVerify_UpdatesLiveSession(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	f := newFixture()
	f.admin.Redis = rdb
	ctx := context.Background()
	u := f.store.AddUser(entity.User{Email: "new@example.com", Role: entity.RoleDonor})
	key := helpers.SessionKey(u.ID)
	mr.HSet(key, "sid", "abc", "is_verified", "false")

	_, err := f.admin.Verify(ctx, f.adminActor(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "true", mr.HGet(key, "is_verified"))
	assert.Equal(t, "abc", mr.HGet(key, "sid"))
}
