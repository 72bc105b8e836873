package mailer

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

// syncBuffer makes a bytes.Buffer safe to share between the test and
// the worker goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestEnqueueWelcomeDelivers(t *testing.T) {
	out := &syncBuffer{}
	logger := zerolog.New(out)

	m := New(logger, WithSendDelay(0))

	m.EnqueueWelcome("a@x.com")
	m.EnqueueWelcome("b@x.com")
	m.Close()

	logs := out.String()
	assert.Contains(t, logs, "welcome email sent")
	assert.Contains(t, logs, "a@x.com")
	assert.Contains(t, logs, "b@x.com")
}

func TestEnqueueWelcomeDoesNotBlock(t *testing.T) {
	out := &syncBuffer{}
	logger := zerolog.New(out)

	// A slow send must not slow down the enqueue path.
	m := New(logger, WithSendDelay(200*time.Millisecond))
	defer m.Close()

	start := time.Now()
	m.EnqueueWelcome("a@x.com")
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestEnqueueWelcomeDropsWhenQueueFull(t *testing.T) {
	out := &syncBuffer{}
	logger := zerolog.New(out)

	m := New(logger, WithSendDelay(50*time.Millisecond), WithQueueSize(1))

	// With a one-slot buffer at most two jobs fit in flight; the rest
	// must be dropped rather than block the caller.
	m.EnqueueWelcome("a@x.com")
	m.EnqueueWelcome("b@x.com")
	m.EnqueueWelcome("c@x.com")
	m.Close()

	logs := out.String()
	assert.Contains(t, logs, "mail queue full")

	sent := strings.Count(logs, "welcome email sent")
	assert.LessOrEqual(t, sent, 2)
	assert.GreaterOrEqual(t, sent, 1)
}

func TestCloseIsIdempotent(t *testing.T) {
	m := New(zerolog.Nop(), WithSendDelay(0))

	m.Close()
	assert.NotPanics(t, func() { m.Close() })
}

func TestEnqueueWelcomeAfterCloseDrops(t *testing.T) {
	out := &syncBuffer{}
	logger := zerolog.New(out)

	m := New(logger, WithSendDelay(0))
	m.Close()

	assert.NotPanics(t, func() { m.EnqueueWelcome("late@x.com") })

	logs := out.String()
	assert.Contains(t, logs, "mailer closed")
	assert.NotContains(t, logs, "welcome email sent")
}
