package alerts

import (
	"context"
	"sync"

	"auracheck/internal/logging"
	"auracheck/internal/models"
)

// Task is one alert to fan out: a device at location entered status, and
// these recipients should hear about it.
type Task struct {
	RequestID  string
	DeviceID   string
	Location   string
	Status     models.Status
	Recipients []string
}

// Channel delivers one text message to one phone-shaped address. The
// channel owns its own timeouts and retries; the dispatcher never retries.
type Channel interface {
	Send(ctx context.Context, to, body string) error
}

// Mirror posts a copy of an alert to an operations chat.
type Mirror interface {
	Post(ctx context.Context, text string) error
}

// Dispatcher drains a buffered task queue with a worker pool and fans each
// task out to its recipients with independent, isolated sends. Ingestion
// enqueues and returns; no delivery outcome ever reaches it.
type Dispatcher struct {
	channel Channel
	mirror  Mirror
	logger  *logging.Logger
	tasks   chan Task
	ctx     context.Context
	cancel  context.CancelFunc
	wg      *sync.WaitGroup
}

// New constructs a Dispatcher. A nil channel means SMS is unconfigured and
// every task degrades to a logged skip; a nil mirror disables the ops chat.
func New(channel Channel, mirror Mirror, logger *logging.Logger, queueSize int) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		channel: channel,
		mirror:  mirror,
		logger:  logger,
		tasks:   make(chan Task, queueSize),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the worker pool.
func (d *Dispatcher) Start(wg *sync.WaitGroup, workers int) {
	d.wg = wg
	for i := 0; i < workers; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}
}

// Dispatch enqueues a task without blocking. A full queue drops the task
// with an error log; ingestion must never wait on the notification path.
func (d *Dispatcher) Dispatch(task Task) {
	select {
	case d.tasks <- task:
		d.logger.Infof("Queued alert task: request_id=%s device=%s location=%s status=%s recipients=%d",
			task.RequestID, task.DeviceID, task.Location, task.Status, len(task.Recipients))
	default:
		d.logger.Errorf("Alert queue full, dropping task: request_id=%s device=%s", task.RequestID, task.DeviceID)
	}
}

// Close stops the workers. Queued tasks not yet picked up are abandoned.
func (d *Dispatcher) Close() {
	d.cancel()
}

func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()
	for {
		select {
		case <-d.ctx.Done():
			d.logger.Infof("Dispatch worker %d stopped", id)
			return
		case task := <-d.tasks:
			d.handleTask(task)
		}
	}
}

// handleTask delivers one alert: an optional ops-chat mirror post, then a
// concurrent send per recipient. Each recipient's outcome is independent;
// failures are logged and go nowhere else.
func (d *Dispatcher) handleTask(task Task) {
	body := BuildMessage(task.Location, task.Status)

	if d.mirror != nil {
		if err := d.mirror.Post(d.ctx, body); err != nil {
			d.logger.Errorf("Ops mirror post failed: request_id=%s: %v", task.RequestID, err)
		}
	}

	if len(task.Recipients) == 0 {
		d.logger.Infof("No contacts registered for location %s, nothing to send: request_id=%s",
			task.Location, task.RequestID)
		return
	}

	if d.channel == nil {
		d.logger.Warnf("SMS channel not configured, skipping %d recipient(s): request_id=%s",
			len(task.Recipients), task.RequestID)
		return
	}

	var wg sync.WaitGroup
	for _, to := range task.Recipients {
		wg.Add(1)
		go func(to string) {
			defer wg.Done()
			if err := d.channel.Send(d.ctx, to, body); err != nil {
				d.logger.Errorf("Delivery failure to %s for %s (%s): request_id=%s: %v",
					to, task.Location, task.Status, task.RequestID, err)
				return
			}
			d.logger.Infof("Sent to %s for %s (%s): request_id=%s", to, task.Location, task.Status, task.RequestID)
		}(to)
	}
	wg.Wait()
}
