// Package risk holds the fraud lookup tables and the score classifier shared by
// every InFinsafe service.
package risk

// Tier is the coarse risk bucket derived from a fraud score.
type Tier string

const (
	TierSafe   Tier = "safe"
	TierMedium Tier = "medium"
	TierHigh   Tier = "high"
)

const (
	MinScore = 0
	MaxScore = 100

	// lower bounds, inclusive
	safeFloor   = 80
	mediumFloor = 40
)

// Classify maps a score to its tier. Scores outside [0,100] are clamped first.
func Classify(score int) Tier {
	score = ClampScore(score)
	switch {
	case score >= safeFloor:
		return TierSafe
	case score >= mediumFloor:
		return TierMedium
	default:
		return TierHigh
	}
}

// ClampScore bounds s to [MinScore, MaxScore].
func ClampScore(s int) int {
	if s < MinScore {
		return MinScore
	}
	if s > MaxScore {
		return MaxScore
	}
	return s
}

// Valid reports whether t is one of the known tiers.
func (t Tier) Valid() bool {
	switch t {
	case TierSafe, TierMedium, TierHigh:
		return true
	}
	return false
}
