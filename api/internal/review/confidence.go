package review

// Level is the display bucket for an extraction confidence score.
type Level int

const (
	LevelUnset Level = iota // no score — no confidence UI
	LevelLow
	LevelMedium
	LevelHigh
)

// LevelOf maps a raw confidence score to its display bucket.
// Thresholds mirror the portal's review policy: >=0.75 high, >=0.5 medium.
func LevelOf(conf float64) Level {
	switch {
	case conf >= 0.75:
		return LevelHigh
	case conf >= 0.50:
		return LevelMedium
	case conf > 0:
		return LevelLow
	default:
		return LevelUnset
	}
}

func (l Level) String() string {
	switch l {
	case LevelHigh:
		return "high"
	case LevelMedium:
		return "medium"
	case LevelLow:
		return "low"
	default:
		return "unset"
	}
}

// NeedsVerification reports whether a field at this level must be looked at
// by the student before the form may be submitted without a confirmation step.
func (l Level) NeedsVerification() bool {
	return l == LevelLow || l == LevelMedium
}
