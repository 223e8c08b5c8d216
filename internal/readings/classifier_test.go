package readings

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"auracheck/internal/models"
)

func TestClassify_DefaultBoundaries(t *testing.T) {
	c := NewClassifier(400, 700)

	tests := []struct {
		raw  int
		want models.Status
	}{
		{0, models.StatusFresh},
		{399, models.StatusFresh},
		{400, models.StatusModerate},
		{699, models.StatusModerate},
		{700, models.StatusCritical},
		{1023, models.StatusCritical},
		{-50, models.StatusFresh},
		{5000, models.StatusCritical},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.Classify(tt.raw), "raw=%d", tt.raw)
	}
}

func TestClassify_CustomBoundaries(t *testing.T) {
	c := NewClassifier(10, 20)

	assert.Equal(t, models.StatusFresh, c.Classify(9))
	assert.Equal(t, models.StatusModerate, c.Classify(10))
	assert.Equal(t, models.StatusCritical, c.Classify(20))
}

func TestClassify_EqualBoundaries(t *testing.T) {
	// moderate == critical means the moderate band is empty
	c := NewClassifier(500, 500)

	assert.Equal(t, models.StatusFresh, c.Classify(499))
	assert.Equal(t, models.StatusCritical, c.Classify(500))
}

func TestClassify_MonotonicallyNonDecreasing(t *testing.T) {
	c := NewClassifier(400, 700)

	prev := c.Classify(0)
	for r := 1; r <= 1023; r++ {
		cur := c.Classify(r)
		assert.GreaterOrEqual(t, cur.Rank(), prev.Rank(), "raw=%d", r)
		prev = cur
	}
}
