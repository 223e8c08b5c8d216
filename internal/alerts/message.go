package alerts

import (
	"fmt"
	"strings"

	"auracheck/internal/models"
)

// BuildMessage renders the outbound text for a location entering the given
// tier. Dispatch only ever fires for elevated tiers, but the function stays
// total so any tier renders something sensible.
func BuildMessage(location string, status models.Status) string {
	switch status {
	case models.StatusCritical:
		return fmt.Sprintf("AURACHECK ALERT: %s needs immediate cleaning. Air quality is CRITICAL. Please attend to it now!", location)
	case models.StatusModerate:
		return fmt.Sprintf("AURACHECK NOTICE: %s air quality is MODERATE. Schedule a cleaning soon.", location)
	default:
		return fmt.Sprintf("AURACHECK: %s status changed to %s.", location, strings.ToUpper(string(status)))
	}
}
