package models

import "time"

// Status is the severity tier derived from a raw sensor value.
type Status string

const (
	StatusFresh    Status = "fresh"
	StatusModerate Status = "moderate"
	StatusCritical Status = "critical"
)

// rank defines the total order fresh < moderate < critical.
var rank = map[Status]int{
	StatusFresh:    0,
	StatusModerate: 1,
	StatusCritical: 2,
}

// Rank returns the position of s in the severity order. Unknown values rank
// below fresh so comparisons stay total.
func (s Status) Rank() int {
	r, ok := rank[s]
	if !ok {
		return -1
	}
	return r
}

// Elevated reports whether s is a tier that warrants notifying contacts.
func (s Status) Elevated() bool {
	return s == StatusModerate || s == StatusCritical
}

// SensorPayload is the reading submitted by a field device.
type SensorPayload struct {
	DeviceID string  `json:"device_id" binding:"required"`
	Location string  `json:"location" binding:"required"`
	RawValue int     `json:"raw_value" binding:"gte=0,lte=1023"`
	Voltage  float64 `json:"voltage" binding:"gte=0,lte=5"`
}

// LatestReading is the single current row per device, joined with the
// device's location and cooldown for caller convenience.
type LatestReading struct {
	DeviceID      string     `json:"device_id"`
	Location      string     `json:"location"`
	RawValue      int        `json:"raw_value"`
	Voltage       float64    `json:"voltage"`
	Status        Status     `json:"status"`
	UpdatedAt     time.Time  `json:"updated_at"`
	CooldownUntil *time.Time `json:"cooldown_until,omitempty"`
}

// HistoryEntry is one immutable row in the append-only reading log.
type HistoryEntry struct {
	ID         int64     `json:"id"`
	DeviceID   string    `json:"device_id"`
	RawValue   int       `json:"raw_value"`
	Voltage    float64   `json:"voltage"`
	Status     Status    `json:"status"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Snapshot is the pre-ingestion state read for spike detection: the status
// of the previous reading (nil for a never-seen device) and the device's
// cooldown expiry (nil when no snooze is set).
type Snapshot struct {
	PreviousStatus *Status
	CooldownUntil  *time.Time
}

// LocationSummary rolls up the devices of one location; the most severe
// status among them wins.
type LocationSummary struct {
	Location    string  `json:"location"`
	Status      *Status `json:"status"`
	DeviceCount int     `json:"device_count"`
}
