package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"auracheck/internal/models"
)

// UpsertDevice creates the device on first sight or overwrites its location.
// Last write wins; the conflict is resolved by the database, not by a
// read-then-write, so concurrent upserts cannot lose updates.
func (d *DB) UpsertDevice(ctx context.Context, deviceID, location string) error {
	query := `
	INSERT INTO devices (device_id, location)
	VALUES ($1, $2)
	ON CONFLICT (device_id) DO UPDATE
		SET location = EXCLUDED.location`

	if _, err := d.Pool.Exec(ctx, query, deviceID, location); err != nil {
		return fmt.Errorf("failed to upsert device %s: %w", deviceID, err)
	}
	return nil
}

// SnoozeDevice sets the device's cooldown expiry. Returns ErrNotFound for an
// unknown device.
func (d *DB) SnoozeDevice(ctx context.Context, deviceID string, until time.Time) (models.SnoozeState, error) {
	query := `
	UPDATE devices
	SET cooldown_until = $2
	WHERE device_id = $1
	RETURNING device_id, cooldown_until`

	var state models.SnoozeState
	err := d.Pool.QueryRow(ctx, query, deviceID, until).Scan(&state.DeviceID, &state.CooldownUntil)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.SnoozeState{}, ErrNotFound
	}
	if err != nil {
		return models.SnoozeState{}, fmt.Errorf("failed to snooze device %s: %w", deviceID, err)
	}
	return state, nil
}

// CancelSnooze clears the device's cooldown. Returns ErrNotFound for an
// unknown device.
func (d *DB) CancelSnooze(ctx context.Context, deviceID string) (models.SnoozeState, error) {
	query := `
	UPDATE devices
	SET cooldown_until = NULL
	WHERE device_id = $1
	RETURNING device_id, cooldown_until`

	var state models.SnoozeState
	err := d.Pool.QueryRow(ctx, query, deviceID).Scan(&state.DeviceID, &state.CooldownUntil)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.SnoozeState{}, ErrNotFound
	}
	if err != nil {
		return models.SnoozeState{}, fmt.Errorf("failed to cancel snooze for device %s: %w", deviceID, err)
	}
	return state, nil
}
