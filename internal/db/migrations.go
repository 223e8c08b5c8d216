package db

import (
	"context"
	"fmt"
)

const schema = `
CREATE TABLE IF NOT EXISTS devices (
	device_id      TEXT PRIMARY KEY,
	location       TEXT NOT NULL,
	cooldown_until TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS readings (
	device_id  TEXT PRIMARY KEY REFERENCES devices(device_id),
	raw_value  INTEGER NOT NULL,
	voltage    REAL NOT NULL,
	status     TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS readings_history (
	id          BIGSERIAL PRIMARY KEY,
	device_id   TEXT NOT NULL REFERENCES devices(device_id),
	raw_value   INTEGER NOT NULL,
	voltage     REAL NOT NULL,
	status      TEXT NOT NULL,
	recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_history_device_recorded
	ON readings_history (device_id, recorded_at DESC);

CREATE TABLE IF NOT EXISTS alert_contacts (
	id         BIGSERIAL PRIMARY KEY,
	location   TEXT NOT NULL,
	phone      TEXT NOT NULL,
	name       TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (location, phone)
);
`

// Migrate creates the schema if it does not exist yet.
func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.Pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
