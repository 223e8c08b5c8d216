package readings

import "auracheck/internal/models"

// Classifier maps a raw sensor value to a severity tier using two fixed
// boundaries. Boundaries are injected at construction so tests can pick
// arbitrary ones; the function is pure and total over all integers.
type Classifier struct {
	Moderate int
	Critical int
}

func NewClassifier(moderate, critical int) Classifier {
	return Classifier{Moderate: moderate, Critical: critical}
}

// Classify returns critical at or above the critical boundary, moderate at
// or above the moderate boundary, fresh below both. Out-of-nominal-range
// values are classified like any other integer; range checks live at the
// request-validation boundary.
func (c Classifier) Classify(rawValue int) models.Status {
	switch {
	case rawValue >= c.Critical:
		return models.StatusCritical
	case rawValue >= c.Moderate:
		return models.StatusModerate
	default:
		return models.StatusFresh
	}
}
