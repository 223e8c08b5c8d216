package readings

import (
	"time"

	"auracheck/internal/models"
)

// CooldownActive reports whether a snooze window is still open at now.
// A nil expiry means no snooze is set; an expiry in the past has lapsed on
// its own, nothing ever clears it in the background.
func CooldownActive(until *time.Time, now time.Time) bool {
	return until != nil && until.After(now)
}

// AlertWorthy decides whether the transition from previous to next warrants
// notifying contacts. Worthy means: the new tier is elevated, it differs
// from the previous tier (nil previous counts as different, so a brand-new
// device arriving critical alerts), and no cooldown is active. Moving
// between moderate and critical in either direction changes tier, so
// re-escalation still notifies; repeating the same elevated tier does not.
func AlertWorthy(previous *models.Status, next models.Status, cooldownActive bool) bool {
	if !next.Elevated() {
		return false
	}
	if previous != nil && *previous == next {
		return false
	}
	return !cooldownActive
}
