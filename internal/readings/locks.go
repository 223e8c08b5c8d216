package readings

import "sync"

// deviceLocks hands out one mutex per device ID so that snapshot, history
// append and latest upsert run as a critical section per device. Two
// in-flight ingestions for the same device would otherwise both read the
// old status and either double-alert or miss the transition.
//
// Entries are never evicted: device IDs are stable and the fleet is small.
type deviceLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newDeviceLocks() *deviceLocks {
	return &deviceLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for deviceID and returns its unlock func.
func (d *deviceLocks) Lock(deviceID string) func() {
	d.mu.Lock()
	l, ok := d.locks[deviceID]
	if !ok {
		l = &sync.Mutex{}
		d.locks[deviceID] = l
	}
	d.mu.Unlock()

	l.Lock()
	return l.Unlock
}
