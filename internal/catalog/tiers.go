package catalog

// GrowthTier covers experience in [MinExp, MaxExp). The top tier is open ended;
// its MaxExp is only a display cap.
type GrowthTier struct {
	Tier   int
	Name   string
	MinExp int
	MaxExp int
}

const (
	MinTier = 1
	MaxTier = 4
)

var growthTiers = []GrowthTier{
	{Tier: 1, Name: "幼崽", MinExp: 0, MaxExp: 100},
	{Tier: 2, Name: "少年", MinExp: 100, MaxExp: 300},
	{Tier: 3, Name: "青年", MinExp: 300, MaxExp: 600},
	{Tier: 4, Name: "成年", MinExp: 600, MaxExp: 1000},
}

// GrowthTiers returns the tiers in ascending order.
func GrowthTiers() []GrowthTier {
	out := make([]GrowthTier, len(growthTiers))
	copy(out, growthTiers)
	return out
}
