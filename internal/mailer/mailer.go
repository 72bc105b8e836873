package mailer

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Mailer accepts welcome-email jobs for asynchronous delivery.
type Mailer interface {
	// EnqueueWelcome submits a welcome email without blocking the
	// caller. Delivery is at-most-once: when the queue is full the job
	// is dropped with a warning.
	EnqueueWelcome(email string)

	// Close stops accepting jobs and waits for in-flight work.
	Close()
}

type job struct {
	id    string
	email string
}

// worker drains a buffered job channel on a single goroutine. The
// request path only ever pays the cost of a channel send.
type worker struct {
	jobs     chan job
	sendWait time.Duration
	logger   zerolog.Logger

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

// Option tweaks worker construction, used by tests to shorten the
// simulated send.
type Option func(*worker)

// WithSendDelay overrides the simulated delivery time.
func WithSendDelay(d time.Duration) Option {
	return func(w *worker) {
		w.sendWait = d
	}
}

// WithQueueSize overrides the job buffer length.
func WithQueueSize(n int) Option {
	return func(w *worker) {
		w.jobs = make(chan job, n)
	}
}

// New starts the background mail worker.
func New(logger zerolog.Logger, opts ...Option) Mailer {
	w := &worker{
		jobs:     make(chan job, 64),
		sendWait: 5 * time.Second,
		logger:   logger.With().Str("component", "mailer").Logger(),
		done:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(w)
	}

	go w.run()

	return w
}

// EnqueueWelcome submits a welcome email without blocking the caller.
func (w *worker) EnqueueWelcome(email string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		w.logger.Warn().
			Str("email", email).
			Msg("mailer closed, dropping welcome email")
		return
	}

	j := job{id: uuid.New().String(), email: email}

	select {
	case w.jobs <- j:
		w.logger.Debug().
			Str("job_id", j.id).
			Str("email", email).
			Msg("welcome email queued")
	default:
		w.logger.Warn().
			Str("email", email).
			Msg("mail queue full, dropping welcome email")
	}
}

// run delivers jobs until the queue is closed.
func (w *worker) run() {
	defer close(w.done)

	for j := range w.jobs {
		w.send(j)
	}
}

// send simulates delivery. A real implementation would talk to an
// email provider here.
func (w *worker) send(j job) {
	w.logger.Info().
		Str("job_id", j.id).
		Str("email", j.email).
		Msg("sending welcome email")

	time.Sleep(w.sendWait)

	w.logger.Info().
		Str("job_id", j.id).
		Str("email", j.email).
		Msg("welcome email sent")
}

// Close stops accepting jobs and waits for in-flight work. Jobs
// enqueued after Close are dropped.
func (w *worker) Close() {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.jobs)
	}
	w.mu.Unlock()

	<-w.done
}
