package readings

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"auracheck/internal/alerts"
	"auracheck/internal/logging"
	"auracheck/internal/models"
)

// Store is the durable state the pipeline runs against.
type Store interface {
	UpsertDevice(ctx context.Context, deviceID, location string) error
	Snapshot(ctx context.Context, deviceID string) (models.Snapshot, error)
	AppendHistory(ctx context.Context, deviceID string, rawValue int, voltage float64, status models.Status) (models.HistoryEntry, error)
	UpsertLatest(ctx context.Context, deviceID string, rawValue int, voltage float64, status models.Status, now time.Time) (models.LatestReading, error)
	SnoozeDevice(ctx context.Context, deviceID string, until time.Time) (models.SnoozeState, error)
	CancelSnooze(ctx context.Context, deviceID string) (models.SnoozeState, error)
	PhonesByLocation(ctx context.Context, location string) ([]string, error)
}

// Dispatcher accepts alert tasks without blocking the caller.
type Dispatcher interface {
	Dispatch(task alerts.Task)
}

// Broadcaster pushes live events to connected dashboard clients.
type Broadcaster interface {
	Broadcast(event any)
}

// Service runs the ingestion pipeline: classify, register the device, read
// the pre-write snapshot, append history, upsert the latest row, then decide
// whether the transition is alert-worthy and hand the fan-out to the
// dispatcher. It also owns the snooze operations.
type Service struct {
	store      Store
	dispatcher Dispatcher
	hub        Broadcaster
	classifier Classifier
	snoozeDur  time.Duration
	locks      *deviceLocks
	logger     *logging.Logger
	now        func() time.Time
}

func NewService(store Store, dispatcher Dispatcher, hub Broadcaster, classifier Classifier, snoozeDur time.Duration, logger *logging.Logger) *Service {
	return &Service{
		store:      store,
		dispatcher: dispatcher,
		hub:        hub,
		classifier: classifier,
		snoozeDur:  snoozeDur,
		locks:      newDeviceLocks(),
		logger:     logger,
		now:        time.Now,
	}
}

// Ingest processes one validated reading. Any storage failure aborts the
// pipeline before dispatch; a dispatch is only queued once every write has
// succeeded, and its outcome never reaches the caller.
func (s *Service) Ingest(ctx context.Context, p models.SensorPayload) (models.LatestReading, error) {
	status := s.classifier.Classify(p.RawValue)

	// Serialize per device so the snapshot cannot be overtaken by another
	// in-flight ingestion for the same device between read and write.
	unlock := s.locks.Lock(p.DeviceID)
	defer unlock()

	if err := s.store.UpsertDevice(ctx, p.DeviceID, p.Location); err != nil {
		return models.LatestReading{}, fmt.Errorf("ingest %s: %w", p.DeviceID, err)
	}

	// Previous status and cooldown must come from before our writes;
	// reading them back afterwards would always compare equal.
	snap, err := s.store.Snapshot(ctx, p.DeviceID)
	if err != nil {
		return models.LatestReading{}, fmt.Errorf("ingest %s: %w", p.DeviceID, err)
	}
	cooldownActive := CooldownActive(snap.CooldownUntil, s.now())

	if _, err := s.store.AppendHistory(ctx, p.DeviceID, p.RawValue, p.Voltage, status); err != nil {
		return models.LatestReading{}, fmt.Errorf("ingest %s: %w", p.DeviceID, err)
	}

	latest, err := s.store.UpsertLatest(ctx, p.DeviceID, p.RawValue, p.Voltage, status, s.now())
	if err != nil {
		return models.LatestReading{}, fmt.Errorf("ingest %s: %w", p.DeviceID, err)
	}

	if s.hub != nil {
		s.hub.Broadcast(latest)
	}

	if AlertWorthy(snap.PreviousStatus, status, cooldownActive) {
		s.queueAlert(ctx, p.DeviceID, p.Location, status)
	} else if cooldownActive && AlertWorthy(snap.PreviousStatus, status, false) {
		s.logger.Infof("Alert suppressed for %s, cooldown active until %v", p.DeviceID, snap.CooldownUntil)
	}

	return latest, nil
}

// queueAlert loads the location's recipients and enqueues the fan-out. The
// writes are already durable at this point, so a contact-load failure is
// logged and swallowed instead of failing the ingestion.
func (s *Service) queueAlert(ctx context.Context, deviceID, location string, status models.Status) {
	phones, err := s.store.PhonesByLocation(ctx, location)
	if err != nil {
		s.logger.Errorf("Load contacts for %s failed, alert not dispatched: %v", location, err)
		return
	}
	requestID := uuid.New().String()
	s.dispatcher.Dispatch(alerts.Task{
		RequestID:  requestID,
		DeviceID:   deviceID,
		Location:   location,
		Status:     status,
		Recipients: phones,
	})
	if s.hub != nil {
		s.hub.Broadcast(alerts.Event{
			Type:      "alert",
			RequestID: requestID,
			DeviceID:  deviceID,
			Location:  location,
			Status:    status,
		})
	}
}

// Snooze opens a cooldown window for the device, suppressing alerts until
// it lapses. Returns db.ErrNotFound (passed through from the store) for an
// unknown device.
func (s *Service) Snooze(ctx context.Context, deviceID string) (models.SnoozeState, error) {
	return s.store.SnoozeDevice(ctx, deviceID, s.now().Add(s.snoozeDur))
}

// CancelSnooze clears the device's cooldown window.
func (s *Service) CancelSnooze(ctx context.Context, deviceID string) (models.SnoozeState, error) {
	return s.store.CancelSnooze(ctx, deviceID)
}
