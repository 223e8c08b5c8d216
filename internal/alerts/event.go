package alerts

import "auracheck/internal/models"

// Event is the alert payload pushed to live dashboard clients alongside
// reading updates.
type Event struct {
	Type      string        `json:"type"`
	RequestID string        `json:"request_id"`
	DeviceID  string        `json:"device_id"`
	Location  string        `json:"location"`
	Status    models.Status `json:"status"`
}
