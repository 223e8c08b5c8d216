package alerts

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"auracheck/internal/logging"
	"auracheck/internal/models"
)

// fakeChannel records deliveries and fails selected recipients.
type fakeChannel struct {
	mu      sync.Mutex
	sent    []string
	failFor map[string]bool
}

func (f *fakeChannel) Send(_ context.Context, to, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[to] {
		return errors.New("delivery rejected")
	}
	f.sent = append(f.sent, to)
	return nil
}

func (f *fakeChannel) Sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.sent...)
}

// fakeMirror counts posts; used to observe that a task was fully handled.
type fakeMirror struct {
	mu    sync.Mutex
	posts []string
}

func (f *fakeMirror) Post(_ context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.posts = append(f.posts, text)
	return nil
}

func (f *fakeMirror) Posts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.posts)
}

func startDispatcher(t *testing.T, channel Channel, mirror Mirror) (*Dispatcher, *sync.WaitGroup) {
	t.Helper()
	d := New(channel, mirror, logging.NewNop(), 10)
	var wg sync.WaitGroup
	d.Start(&wg, 2)
	t.Cleanup(func() {
		d.Close()
		wg.Wait()
	})
	return d, &wg
}

func task(recipients ...string) Task {
	return Task{
		RequestID:  "req-1",
		DeviceID:   "esp-01",
		Location:   "Block A",
		Status:     models.StatusCritical,
		Recipients: recipients,
	}
}

func TestDispatch_FansOutToAllRecipients(t *testing.T) {
	ch := &fakeChannel{}
	d, _ := startDispatcher(t, ch, nil)

	d.Dispatch(task("+111", "+222", "+333"))

	assert.Eventually(t, func() bool { return len(ch.Sent()) == 3 }, time.Second, 10*time.Millisecond)
	assert.ElementsMatch(t, []string{"+111", "+222", "+333"}, ch.Sent())
}

func TestDispatch_PartialFailureIsolatesRecipients(t *testing.T) {
	ch := &fakeChannel{failFor: map[string]bool{"+222": true}}
	mirror := &fakeMirror{}
	d, _ := startDispatcher(t, ch, mirror)

	d.Dispatch(task("+111", "+222", "+333"))

	// The mirror posts before the fan-out, and the fan-out waits on every
	// recipient, so one handled task means all sends have been attempted.
	assert.Eventually(t, func() bool { return len(ch.Sent()) == 2 }, time.Second, 10*time.Millisecond)
	assert.ElementsMatch(t, []string{"+111", "+333"}, ch.Sent())
}

func TestDispatch_NoRecipientsIsANoOp(t *testing.T) {
	ch := &fakeChannel{}
	mirror := &fakeMirror{}
	d, _ := startDispatcher(t, ch, mirror)

	d.Dispatch(task())

	assert.Eventually(t, func() bool { return mirror.Posts() == 1 }, time.Second, 10*time.Millisecond)
	assert.Empty(t, ch.Sent())
}

func TestDispatch_UnconfiguredChannelSkips(t *testing.T) {
	mirror := &fakeMirror{}
	d, _ := startDispatcher(t, nil, mirror)

	d.Dispatch(task("+111", "+222"))

	assert.Eventually(t, func() bool { return mirror.Posts() == 1 }, time.Second, 10*time.Millisecond)
}

func TestDispatch_FullQueueDropsWithoutBlocking(t *testing.T) {
	d := New(&fakeChannel{}, nil, logging.NewNop(), 1)
	// No workers started: the second dispatch finds the queue full and
	// must return immediately instead of blocking the ingestion path.
	d.Dispatch(task("+111"))
	done := make(chan struct{})
	go func() {
		d.Dispatch(task("+222"))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Dispatch blocked on a full queue")
	}
	d.Close()
}
