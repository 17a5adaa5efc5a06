package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Task is a unit of best-effort background work
type Task struct {
	Name string
	Fn   func(ctx context.Context) error
}

// Dispatcher runs tasks on a fixed pool of workers, detached from the
// request that enqueued them. A task that fails, panics or times out is
// logged and dropped.
type Dispatcher struct {
	queue   chan Task
	workers int
	timeout time.Duration
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.RWMutex
	started bool
	closed  bool
}

// NewDispatcher creates a dispatcher; call Start before dispatching
func NewDispatcher(workers, queueSize int, timeout time.Duration) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 0 {
		queueSize = 0
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		queue:   make(chan Task, queueSize),
		workers: workers,
		timeout: timeout,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the workers
func (d *Dispatcher) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.started || d.closed {
		return
	}
	d.started = true

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}

	slog.Info("Notification dispatcher started", "workers", d.workers, "queue_size", cap(d.queue))
}

// Dispatch enqueues fn without blocking. It reports false when the task was
// dropped because the queue is full or the dispatcher is stopped.
func (d *Dispatcher) Dispatch(name string, fn func(ctx context.Context) error) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		slog.Warn("Notification dropped, dispatcher stopped", "name", name)
		return false
	}

	select {
	case d.queue <- Task{Name: name, Fn: fn}:
		return true
	default:
		slog.Warn("Notification dropped, queue full", "name", name, "queue_size", cap(d.queue))
		return false
	}
}

// Stop drains queued tasks. If ctx ends first, running tasks are cancelled
// and ctx.Err() is returned.
func (d *Dispatcher) Stop(ctx context.Context) error {
	slog.Info("Stopping notification dispatcher...")

	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancel()
		slog.Info("Notification dispatcher stopped")
		return nil
	case <-ctx.Done():
		d.cancel()
		<-done
		slog.Warn("Notification dispatcher stopped before queue drained", "error", ctx.Err())
		return ctx.Err()
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for task := range d.queue {
		d.execute(task)
	}
}

// execute runs a task and logs results
func (d *Dispatcher) execute(task Task) {
	start := time.Now()
	ctx := d.ctx
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(d.ctx, d.timeout)
		defer cancel()
	}

	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
			}
		}()
		return task.Fn(ctx)
	}()

	if err != nil {
		slog.Error("Notification failed", "name", task.Name, "error", err, "duration", time.Since(start))
		return
	}
	slog.Debug("Notification sent", "name", task.Name, "duration", time.Since(start))
}
