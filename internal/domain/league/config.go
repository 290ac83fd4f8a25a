// Package league contains the tier configuration and the weekly membership
// roster (league board) model. A league groups users of the same tier into
// a shared Monday-to-Sunday competition.
package league

import "github.com/biteburst/biteburst-leagues/internal/domain/shared"

// Tier identifies a league tier.
type Tier string

const (
	TierBronze Tier = "bronze"
	TierSilver Tier = "silver"
	TierGold   Tier = "gold"
)

// DefaultTier is where users without an assigned tier compete.
const DefaultTier = TierBronze

// IsValid reports whether the tier is one of the known tiers.
func (t Tier) IsValid() bool {
	switch t {
	case TierBronze, TierSilver, TierGold:
		return true
	}
	return false
}

// String returns the tier name.
func (t Tier) String() string {
	return string(t)
}

// Config holds the compiled-in settings of a tier.
type Config struct {
	// Tier is the tier identifier.
	Tier Tier `json:"tier"`

	// Name is the display name.
	Name string `json:"name"`

	// PromoteCount is how many top ranks advance next week.
	PromoteCount int `json:"promote_count"`

	// DemoteCount is how many bottom ranks drop next week.
	// Zero for the bottom tier: nobody demotes out of the system.
	DemoteCount int `json:"demote_count"`
}

// configs is the static tier table. Not user-editable data.
var configs = map[Tier]Config{
	TierBronze: {Tier: TierBronze, Name: "Bronze League", PromoteCount: 10, DemoteCount: 0},
	TierSilver: {Tier: TierSilver, Name: "Silver League", PromoteCount: 10, DemoteCount: 10},
	TierGold:   {Tier: TierGold, Name: "Gold League", PromoteCount: 3, DemoteCount: 10},
}

// ConfigFor returns the configuration of a tier.
// An unknown tier is a programmer error, not user input: callers validated
// upstream, so this surfaces as an internal failure rather than a 4xx.
func ConfigFor(tier Tier) (Config, error) {
	cfg, ok := configs[tier]
	if !ok {
		return Config{}, shared.WrapError("league", "ConfigFor", shared.ErrInvalidInput, "unknown league tier: "+string(tier), shared.ErrInvalidTier)
	}
	return cfg, nil
}

// ResolveTier picks the effective tier for a leaderboard request:
// override when present, then the user's assigned tier, then bronze.
func ResolveTier(override, userTier string) Tier {
	if override != "" {
		return Tier(override)
	}
	if userTier != "" {
		return Tier(userTier)
	}
	return DefaultTier
}
