// Package growth maps accumulated experience to a growth tier and progress.
package growth

import (
	"fmt"
	"math"

	"zootopia/internal/apperrors"
	"zootopia/internal/catalog"
)

type State struct {
	Tier            int
	TierName        string
	ProgressPercent int
	// NextTierThreshold is the MinExp of the next tier, or the top tier's display
	// cap once the last tier is reached.
	NextTierThreshold int
}

// Compute returns the growth state for experiencePoints. It fails with
// ErrInvalidArgument for negative input.
func Compute(experiencePoints int) (State, error) {
	if experiencePoints < 0 {
		return State{}, fmt.Errorf("experience %d: %w", experiencePoints, apperrors.ErrInvalidArgument)
	}
	tiers := catalog.GrowthTiers()

	for i := len(tiers) - 1; i >= 0; i-- {
		t := tiers[i]
		if experiencePoints < t.MinExp {
			continue
		}
		if i == len(tiers)-1 {
			return State{
				Tier:              t.Tier,
				TierName:          t.Name,
				ProgressPercent:   100,
				NextTierThreshold: t.MaxExp,
			}, nil
		}
		return State{
			Tier:              t.Tier,
			TierName:          t.Name,
			ProgressPercent:   progress(experiencePoints, t),
			NextTierThreshold: tiers[i+1].MinExp,
		}, nil
	}

	// Unreachable while the first tier starts at zero.
	first := tiers[0]
	return State{Tier: first.Tier, TierName: first.Name, NextTierThreshold: first.MaxExp}, nil
}

// Clamped computes the state with negative input treated as zero.
func Clamped(experiencePoints int) State {
	if experiencePoints < 0 {
		experiencePoints = 0
	}
	s, _ := Compute(experiencePoints)
	return s
}

// Affection derives the affection level (0..100) from a growth state.
func Affection(s State) int {
	return s.ProgressPercent
}

func progress(exp int, t catalog.GrowthTier) int {
	span := t.MaxExp - t.MinExp
	if span <= 0 {
		return 100
	}
	p := float64(exp-t.MinExp) / float64(span) * 100
	p = math.Round(p)
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return int(p)
}
