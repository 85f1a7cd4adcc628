package growth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zootopia/internal/apperrors"
)

func TestComputeBoundaries(t *testing.T) {
	cases := []struct {
		exp      int
		tier     int
		progress int
		next     int
	}{
		{exp: 0, tier: 1, progress: 0, next: 100},
		{exp: 50, tier: 1, progress: 50, next: 100},
		{exp: 99, tier: 1, progress: 99, next: 100},
		{exp: 100, tier: 2, progress: 0, next: 300},
		{exp: 200, tier: 2, progress: 50, next: 300},
		{exp: 300, tier: 3, progress: 0, next: 600},
		{exp: 599, tier: 3, progress: 100, next: 600},
		{exp: 600, tier: 4, progress: 100, next: 1000},
		{exp: 1000, tier: 4, progress: 100, next: 1000},
		{exp: 25000, tier: 4, progress: 100, next: 1000},
	}
	for _, tc := range cases {
		got, err := Compute(tc.exp)
		require.NoError(t, err)
		assert.Equal(t, tc.tier, got.Tier, "tier for %d", tc.exp)
		assert.Equal(t, tc.progress, got.ProgressPercent, "progress for %d", tc.exp)
		assert.Equal(t, tc.next, got.NextTierThreshold, "next for %d", tc.exp)
		assert.NotEmpty(t, got.TierName)
	}
}

func TestComputeMonotonic(t *testing.T) {
	prev := 0
	for e := 0; e <= 1200; e++ {
		s, err := Compute(e)
		require.NoError(t, err)
		if s.Tier < prev {
			t.Fatalf("tier decreased at exp=%d: %d < %d", e, s.Tier, prev)
		}
		if s.ProgressPercent < 0 || s.ProgressPercent > 100 {
			t.Fatalf("progress out of range at exp=%d: %d", e, s.ProgressPercent)
		}
		prev = s.Tier
	}
}

func TestComputeRejectsNegative(t *testing.T) {
	_, err := Compute(-1)
	require.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	s := Clamped(-40)
	assert.Equal(t, 1, s.Tier)
	assert.Equal(t, 0, s.ProgressPercent)
}
