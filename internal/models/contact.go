package models

import "time"

// AlertContact is a phone recipient registered for a location. Unique on
// (location, phone); the ingestion pipeline only ever reads these rows.
type AlertContact struct {
	ID        int64     `json:"id"`
	Location  string    `json:"location"`
	Phone     string    `json:"phone"`
	Name      *string   `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// ContactCreate is the registration request body.
type ContactCreate struct {
	Location string  `json:"location" binding:"required"`
	Phone    string  `json:"phone" binding:"required,e164"`
	Name     *string `json:"name"`
}
