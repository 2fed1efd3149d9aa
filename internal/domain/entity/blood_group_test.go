package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompatibleDonorGroups_Chart(t *testing.T) {
	chart := map[BloodGroup][]BloodGroup{
		APositive:  {APositive, ANegative, OPositive, ONegative},
		ANegative:  {ANegative, ONegative},
		BPositive:  {BPositive, BNegative, OPositive, ONegative},
		BNegative:  {BNegative, ONegative},
		ABPositive: {APositive, ANegative, BPositive, BNegative, ABPositive, ABNegative, OPositive, ONegative},
		ABNegative: {ANegative, BNegative, ABNegative, ONegative},
		OPositive:  {OPositive, ONegative},
		ONegative:  {ONegative},
	}
	require.Len(t, chart, 8)

	for group, want := range chart {
		t.Run(string(group), func(t *testing.T) {
			got, err := CompatibleDonorGroups(group)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestCompatibleDonorGroups_UniversalDonorAndRecipient(t *testing.T) {
	for _, g := range BloodGroups() {
		got, err := CompatibleDonorGroups(g)
		require.NoError(t, err)
		assert.NotEmpty(t, got)
		assert.Contains(t, got, ONegative, "O- gives to %s", g)
	}

	all, err := CompatibleDonorGroups(ABPositive)
	require.NoError(t, err)
	assert.Equal(t, BloodGroups(), all)
}

func TestCompatibleDonorGroups_Deterministic(t *testing.T) {
	first, err := CompatibleDonorGroups(ABNegative)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := CompatibleDonorGroups(ABNegative)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestCompatibleDonorGroups_Invalid(t *testing.T) {
	for _, g := range []BloodGroup{"", "C+", "a+", "O", "AB+ ", "0-"} {
		got, err := CompatibleDonorGroups(g)
		assert.ErrorIs(t, err, ErrInvalidBloodGroup, "group %q", g)
		assert.Nil(t, got)
	}
}

func TestParseBloodGroup(t *testing.T) {
	tests := []struct {
		in      string
		want    BloodGroup
		wantErr bool
	}{
		{in: "A+", want: APositive},
		{in: " ab- ", want: ABNegative},
		{in: "o−", want: ONegative},
		{in: "B+", want: BPositive},
		{in: "", wantErr: true},
		{in: "A", wantErr: true},
		{in: "AB+-", wantErr: true},
		{in: "Rh+", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseBloodGroup(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidBloodGroup, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestCanDonateTo_MatchesCompatibleGroups(t *testing.T) {
	for _, recipient := range BloodGroups() {
		groups, err := CompatibleDonorGroups(recipient)
		require.NoError(t, err)
		for _, donor := range BloodGroups() {
			assert.Equal(t, donor.CanDonateTo(recipient), contains(groups, donor), "%s -> %s", donor, recipient)
		}
	}
}

func contains(gs []BloodGroup, g BloodGroup) bool {
	for _, x := range gs {
		if x == g {
			return true
		}
	}
	return false
}
