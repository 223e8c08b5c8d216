package alerts

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"auracheck/internal/models"
)

func TestBuildMessage(t *testing.T) {
	critical := BuildMessage("Block A", models.StatusCritical)
	assert.Contains(t, critical, "Block A")
	assert.Contains(t, critical, "CRITICAL")
	assert.Contains(t, critical, "now")

	moderate := BuildMessage("Block A", models.StatusModerate)
	assert.Contains(t, moderate, "MODERATE")
	assert.Contains(t, moderate, "soon")
}

func TestBuildMessage_TotalOverAllTiers(t *testing.T) {
	// Dispatch never fires for fresh, but the template stays total.
	for _, s := range []models.Status{models.StatusFresh, models.StatusModerate, models.StatusCritical, models.Status("bogus")} {
		assert.NotEmpty(t, BuildMessage("Block A", s))
	}
}
