package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-blood-donation/internal/domain/entity"
)

func TestToggleAvailability_TwiceRestoresFlag(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	donor, _ := f.store.AddDonor("Budi", entity.APositive, true)

	p, err := f.donors.ToggleAvailability(ctx, donor.Actor())
	require.NoError(t, err)
	assert.False(t, p.IsAvailable)

	p, err = f.donors.ToggleAvailability(ctx, donor.Actor())
	require.NoError(t, err)
	assert.True(t, p.IsAvailable)

	stored, err := f.donors.GetProfile(ctx, donor.Actor())
	require.NoError(t, err)
	assert.True(t, stored.IsAvailable)
}

func TestToggleAvailability_Errors(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.donors.ToggleAvailability(ctx, f.requester())
	assert.ErrorIs(t, err, ErrNotADonor)

	bare := f.store.AddUser(entity.User{Email: "bare@example.com", Role: entity.RoleDonor})
	_, err = f.donors.ToggleAvailability(ctx, bare.Actor())
	assert.ErrorIs(t, err, ErrProfileRequired)
}

func TestToggleAvailability_UnavailableDonorIsSkipped(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	donor, _ := f.store.AddDonor("Budi", entity.ONegative, true)
	_, err := f.donors.ToggleAvailability(ctx, donor.Actor())
	require.NoError(t, err)

	res, err := f.requests.Create(ctx, f.requester(), validRequest("O-", "Critical"))
	require.NoError(t, err)
	assert.Zero(t, res.Notified)
}

func TestUpsertProfile(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	u := f.store.AddUser(entity.User{Email: "n@example.com", FirstName: "Nia", LastName: "Sari", Role: entity.RoleDonor})
	last := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	p, err := f.donors.UpsertProfile(ctx, u.Actor(), UpsertDonorProfileInput{
		BloodGroup:       " b- ",
		Address:          " Jl. Merdeka 1 ",
		LastDonationDate: &last,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.BNegative, p.BloodGroup)
	assert.Equal(t, "Jl. Merdeka 1", p.Address)
	assert.True(t, p.IsAvailable, "new profiles start available")

	off := false
	p2, err := f.donors.UpsertProfile(ctx, u.Actor(), UpsertDonorProfileInput{BloodGroup: "B-", IsAvailable: &off})
	require.NoError(t, err)
	assert.Equal(t, p.ID, p2.ID)
	assert.False(t, p2.IsAvailable)

	p3, err := f.donors.UpsertProfile(ctx, u.Actor(), UpsertDonorProfileInput{BloodGroup: "O+"})
	require.NoError(t, err)
	assert.False(t, p3.IsAvailable, "omitted availability keeps the stored value")

	doc, ok := f.index.docs[u.ID]
	require.True(t, ok)
	assert.Equal(t, "O+", doc.BloodGroup)
	assert.Equal(t, "Nia Sari", doc.Name)

	_, err = f.donors.UpsertProfile(ctx, u.Actor(), UpsertDonorProfileInput{BloodGroup: "Z"})
	assert.ErrorIs(t, err, ErrInvalidBloodGroup)

	_, err = f.donors.UpsertProfile(ctx, f.requester(), UpsertDonorProfileInput{BloodGroup: "A+"})
	assert.ErrorIs(t, err, ErrNotADonor)
}

func TestUpsertProfile_IndexFailureIsIgnored(t *testing.T) {
	f := newFixture()
	f.index.indexErr = errors.New("es down")
	u := f.store.AddUser(entity.User{Email: "n@example.com", Role: entity.RoleDonor})

	_, err := f.donors.UpsertProfile(context.Background(), u.Actor(), UpsertDonorProfileInput{BloodGroup: "A+"})
	assert.NoError(t, err)
}

func TestGetProfile_Missing(t *testing.T) {
	f := newFixture()
	u := f.store.AddUser(entity.User{Email: "n@example.com", Role: entity.RoleDonor})
	_, err := f.donors.GetProfile(context.Background(), u.Actor())
	assert.ErrorIs(t, err, ErrProfileRequired)
}

func TestSearch(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	budi, _ := f.store.AddDonor("Budi", entity.ONegative, true)
	sari, _ := f.store.AddDonor("Sari", entity.APositive, true)
	f.store.AddDonor("Agus", entity.ONegative, false)
	f.store.AddDonor("Beni", entity.BPositive, true)

	got, err := f.donors.Search(ctx, "A+", "")
	require.NoError(t, err)
	var ids []int64
	for _, d := range got {
		ids = append(ids, d.Profile.UserID)
	}
	assert.ElementsMatch(t, []int64{budi.ID, sari.ID}, ids)

	all, err := f.donors.Search(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = f.donors.Search(ctx, "X+", "")
	assert.ErrorIs(t, err, ErrInvalidBloodGroup)
}

func TestSearch_TextUsesIndexOrder(t *testing.T) {
	f := newFixture()
	budi, _ := f.store.AddDonor("Budi", entity.ONegative, true)
	sari, _ := f.store.AddDonor("Sari", entity.ONegative, true)
	agus, _ := f.store.AddDonor("Agus", entity.ONegative, false)
	f.index.hits = []int64{sari.ID, 999, agus.ID, budi.ID}

	got, err := f.donors.Search(context.Background(), "O-", "anything")
	require.NoError(t, err)
	require.Len(t, got, 2, "index hits are still filtered by availability")
	assert.Equal(t, sari.ID, got[0].Profile.UserID)
	assert.Equal(t, budi.ID, got[1].Profile.UserID)
	assert.ElementsMatch(t, []int64{budi.ID, sari.ID}, f.index.within, "index is queried over eligible donors only")
}

func TestSearch_TextWithNoEligibleDonorsSkipsIndex(t *testing.T) {
	f := newFixture()
	f.store.AddDonor("Agus", entity.ONegative, false)
	f.index.hits = []int64{1}

	got, err := f.donors.Search(context.Background(), "O-", "agus")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Nil(t, f.index.within)
}

func TestSearch_TextFallsBackToSubstring(t *testing.T) {
	f := newFixture()
	f.index.searchErr = errors.New("es down")
	budi, _ := f.store.AddDonor("Budi", entity.ONegative, true)
	f.store.AddDonor("Sari", entity.ONegative, true)

	got, err := f.donors.Search(context.Background(), "", "BUD")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, budi.ID, got[0].Profile.UserID)

	f.donors.Index = nil
	got, err = f.donors.Search(context.Background(), "", "sar")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Sari", got[0].FirstName)
}
