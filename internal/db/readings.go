package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"auracheck/internal/models"
)

// Snapshot reads the state the spike decision needs: the status of the last
// reading (NULL for a never-seen device) and the current cooldown expiry.
// Callers must take this before writing the new reading; reading the status
// back from the just-written latest row would always compare equal.
func (d *DB) Snapshot(ctx context.Context, deviceID string) (models.Snapshot, error) {
	query := `
	SELECT r.status, dv.cooldown_until
	FROM devices dv
	LEFT JOIN readings r ON r.device_id = dv.device_id
	WHERE dv.device_id = $1`

	var prevStatus *string
	var cooldown *time.Time
	err := d.Pool.QueryRow(ctx, query, deviceID).Scan(&prevStatus, &cooldown)
	if errors.Is(err, pgx.ErrNoRows) {
		// Device row not there yet; nothing to compare against.
		return models.Snapshot{}, nil
	}
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to snapshot device %s: %w", deviceID, err)
	}

	snap := models.Snapshot{CooldownUntil: cooldown}
	if prevStatus != nil {
		status := models.Status(*prevStatus)
		snap.PreviousStatus = &status
	}
	return snap, nil
}

// AppendHistory writes one immutable row to the reading log.
func (d *DB) AppendHistory(ctx context.Context, deviceID string, rawValue int, voltage float64, status models.Status) (models.HistoryEntry, error) {
	query := `
	INSERT INTO readings_history (device_id, raw_value, voltage, status)
	VALUES ($1, $2, $3, $4)
	RETURNING id, device_id, raw_value, voltage, status, recorded_at`

	var entry models.HistoryEntry
	err := d.Pool.QueryRow(ctx, query, deviceID, rawValue, voltage, status).Scan(
		&entry.ID,
		&entry.DeviceID,
		&entry.RawValue,
		&entry.Voltage,
		&entry.Status,
		&entry.RecordedAt,
	)
	if err != nil {
		return models.HistoryEntry{}, fmt.Errorf("failed to append history for device %s: %w", deviceID, err)
	}
	return entry, nil
}

// UpsertLatest creates or overwrites the single latest-reading row for the
// device and returns it joined with the device's location and cooldown.
func (d *DB) UpsertLatest(ctx context.Context, deviceID string, rawValue int, voltage float64, status models.Status, now time.Time) (models.LatestReading, error) {
	query := `
	INSERT INTO readings (device_id, raw_value, voltage, status, updated_at)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (device_id) DO UPDATE
		SET raw_value  = EXCLUDED.raw_value,
		    voltage    = EXCLUDED.voltage,
		    status     = EXCLUDED.status,
		    updated_at = EXCLUDED.updated_at
	RETURNING
		readings.device_id,
		(SELECT location FROM devices WHERE device_id = readings.device_id),
		readings.raw_value,
		readings.voltage,
		readings.status,
		readings.updated_at,
		(SELECT cooldown_until FROM devices WHERE device_id = readings.device_id)`

	var latest models.LatestReading
	err := d.Pool.QueryRow(ctx, query, deviceID, rawValue, voltage, status, now).Scan(
		&latest.DeviceID,
		&latest.Location,
		&latest.RawValue,
		&latest.Voltage,
		&latest.Status,
		&latest.UpdatedAt,
		&latest.CooldownUntil,
	)
	if err != nil {
		return models.LatestReading{}, fmt.Errorf("failed to upsert latest reading for device %s: %w", deviceID, err)
	}
	return latest, nil
}

// GetAllLatest returns every device's latest reading, ordered by location.
func (d *DB) GetAllLatest(ctx context.Context) ([]models.LatestReading, error) {
	query := `
	SELECT r.device_id, dv.location, r.raw_value, r.voltage, r.status, r.updated_at, dv.cooldown_until
	FROM readings r
	JOIN devices dv ON dv.device_id = r.device_id
	ORDER BY dv.location ASC`

	rows, err := d.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest readings: %w", err)
	}
	defer rows.Close()

	var readings []models.LatestReading
	for rows.Next() {
		var r models.LatestReading
		if err := rows.Scan(&r.DeviceID, &r.Location, &r.RawValue, &r.Voltage, &r.Status, &r.UpdatedAt, &r.CooldownUntil); err != nil {
			return nil, fmt.Errorf("failed to scan latest reading: %w", err)
		}
		readings = append(readings, r)
	}
	return readings, rows.Err()
}

// GetLatestByDevice returns one device's latest reading or ErrNotFound.
func (d *DB) GetLatestByDevice(ctx context.Context, deviceID string) (models.LatestReading, error) {
	query := `
	SELECT r.device_id, dv.location, r.raw_value, r.voltage, r.status, r.updated_at, dv.cooldown_until
	FROM readings r
	JOIN devices dv ON dv.device_id = r.device_id
	WHERE r.device_id = $1`

	var r models.LatestReading
	err := d.Pool.QueryRow(ctx, query, deviceID).Scan(
		&r.DeviceID, &r.Location, &r.RawValue, &r.Voltage, &r.Status, &r.UpdatedAt, &r.CooldownUntil,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.LatestReading{}, ErrNotFound
	}
	if err != nil {
		return models.LatestReading{}, fmt.Errorf("failed to get latest reading for device %s: %w", deviceID, err)
	}
	return r, nil
}

// GetHistory returns a page of the device's reading log, newest first.
func (d *DB) GetHistory(ctx context.Context, deviceID string, limit, offset int) ([]models.HistoryEntry, error) {
	query := `
	SELECT id, device_id, raw_value, voltage, status, recorded_at
	FROM readings_history
	WHERE device_id = $1
	ORDER BY recorded_at DESC
	LIMIT $2 OFFSET $3`

	rows, err := d.Pool.Query(ctx, query, deviceID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get history for device %s: %w", deviceID, err)
	}
	defer rows.Close()

	var entries []models.HistoryEntry
	for rows.Next() {
		var e models.HistoryEntry
		if err := rows.Scan(&e.ID, &e.DeviceID, &e.RawValue, &e.Voltage, &e.Status, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// GetLocationsSummary rolls devices up by location; the most severe status
// among a location's devices wins.
func (d *DB) GetLocationsSummary(ctx context.Context) ([]models.LocationSummary, error) {
	query := `
	SELECT
		dv.location,
		CASE
			WHEN bool_or(r.status = 'critical') THEN 'critical'
			WHEN bool_or(r.status = 'moderate') THEN 'moderate'
			WHEN bool_or(r.status = 'fresh')    THEN 'fresh'
			ELSE NULL
		END,
		COUNT(dv.device_id)::int
	FROM devices dv
	LEFT JOIN readings r ON r.device_id = dv.device_id
	GROUP BY dv.location
	ORDER BY dv.location ASC`

	rows, err := d.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get locations summary: %w", err)
	}
	defer rows.Close()

	var summaries []models.LocationSummary
	for rows.Next() {
		var s models.LocationSummary
		var status *string
		if err := rows.Scan(&s.Location, &status, &s.DeviceCount); err != nil {
			return nil, fmt.Errorf("failed to scan location summary: %w", err)
		}
		if status != nil {
			st := models.Status(*status)
			s.Status = &st
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}
