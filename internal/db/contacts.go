package db

import (
	"context"
	"fmt"

	"auracheck/internal/models"
)

// CreateContact registers a recipient, or refreshes the name if the
// (location, phone) pair already exists.
func (d *DB) CreateContact(ctx context.Context, c models.ContactCreate) (models.AlertContact, error) {
	query := `
	INSERT INTO alert_contacts (location, phone, name)
	VALUES ($1, $2, $3)
	ON CONFLICT (location, phone) DO UPDATE
		SET name = EXCLUDED.name
	RETURNING id, location, phone, name, created_at`

	var contact models.AlertContact
	err := d.Pool.QueryRow(ctx, query, c.Location, c.Phone, c.Name).Scan(
		&contact.ID,
		&contact.Location,
		&contact.Phone,
		&contact.Name,
		&contact.CreatedAt,
	)
	if err != nil {
		return models.AlertContact{}, fmt.Errorf("failed to create contact: %w", err)
	}
	return contact, nil
}

// GetContactsByLocation returns all contacts for a location, oldest first.
func (d *DB) GetContactsByLocation(ctx context.Context, location string) ([]models.AlertContact, error) {
	query := `
	SELECT id, location, phone, name, created_at
	FROM alert_contacts
	WHERE location = $1
	ORDER BY created_at ASC`

	rows, err := d.Pool.Query(ctx, query, location)
	if err != nil {
		return nil, fmt.Errorf("failed to get contacts for location %s: %w", location, err)
	}
	defer rows.Close()

	var contacts []models.AlertContact
	for rows.Next() {
		var c models.AlertContact
		if err := rows.Scan(&c.ID, &c.Location, &c.Phone, &c.Name, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

// PhonesByLocation returns just the phone numbers registered for a location.
func (d *DB) PhonesByLocation(ctx context.Context, location string) ([]string, error) {
	query := `SELECT phone FROM alert_contacts WHERE location = $1 ORDER BY created_at ASC`

	rows, err := d.Pool.Query(ctx, query, location)
	if err != nil {
		return nil, fmt.Errorf("failed to get phones for location %s: %w", location, err)
	}
	defer rows.Close()

	var phones []string
	for rows.Next() {
		var phone string
		if err := rows.Scan(&phone); err != nil {
			return nil, fmt.Errorf("failed to scan phone: %w", err)
		}
		phones = append(phones, phone)
	}
	return phones, rows.Err()
}
