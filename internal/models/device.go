package models

import "time"

// Device binds a device ID to its location and cooldown window. Created on
// first ingestion; location follows the most recent reading.
type Device struct {
	DeviceID      string     `json:"device_id"`
	Location      string     `json:"location"`
	CooldownUntil *time.Time `json:"cooldown_until"`
}

// SnoozeState is the result of setting or clearing a device's cooldown.
type SnoozeState struct {
	DeviceID      string     `json:"device_id"`
	CooldownUntil *time.Time `json:"cooldown_until"`
}
