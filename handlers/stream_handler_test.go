package handlers

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/okothbrian/socialite/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyCursor_EmitsEveryTickRegardlessOfChange(t *testing.T) {
	var cursor notifyCursor

	for _, count := range []int64{3, 3, 0, 0} {
		payload, emit := cursor.observe(count)
		require.True(t, emit, "the notification channel emits on every tick")
		assert.Equal(t, count, payload.(fiber.Map)["count"])
	}
}

func TestAuditCursor_EmitsOnlyOnIncrease(t *testing.T) {
	var cursor auditCursor

	_, emit := cursor.observe(10)
	assert.False(t, emit, "first observation only primes the baseline")

	_, emit = cursor.observe(10)
	assert.False(t, emit, "unchanged count stays silent")

	payload, emit := cursor.observe(12)
	require.True(t, emit)
	frame := payload.(fiber.Map)
	assert.Equal(t, true, frame["newAction"])
	assert.Equal(t, int64(12), frame["count"])

	// A retention prune shrinks the table; that re-baselines silently and
	// the next append emits again.
	_, emit = cursor.observe(5)
	assert.False(t, emit)
	_, emit = cursor.observe(6)
	assert.True(t, emit)
}

func TestReportCursor_EmitsOnAnyChange(t *testing.T) {
	var cursor reportCursor

	_, emit := cursor.observe(4)
	assert.False(t, emit, "first observation only primes the baseline")

	payload, emit := cursor.observe(6)
	require.True(t, emit)
	assert.Equal(t, int64(6), payload.(fiber.Map)["count"])

	_, emit = cursor.observe(6)
	assert.False(t, emit)

	payload, emit = cursor.observe(2)
	require.True(t, emit, "resolving reports lowers the count and still emits")
	assert.Equal(t, int64(2), payload.(fiber.Map)["count"])
}

func TestSSEStream_FrameFormat(t *testing.T) {
	var buf bytes.Buffer
	stream := newSSEStream(bufio.NewWriter(&buf))

	require.NoError(t, stream.Emit(map[string]bool{"connected": true}))
	require.NoError(t, stream.Ping())

	frames := strings.Split(strings.TrimSuffix(buf.String(), "\n\n"), "\n\n")
	require.Len(t, frames, 2)
	assert.Equal(t, `data: {"connected":true}`, frames[0])
	assert.Equal(t, "data: ping", frames[1])
}

func TestSSEStream_DoubleCloseIsTolerated(t *testing.T) {
	var buf bytes.Buffer
	stream := newSSEStream(bufio.NewWriter(&buf))

	stream.Close()
	assert.NotPanics(t, stream.Close)

	err := stream.Emit(map[string]int{"count": 1})
	assert.ErrorIs(t, err, apperrors.ErrStreamClosed)
	assert.ErrorIs(t, stream.Ping(), apperrors.ErrStreamClosed)
}

// abortWriter succeeds for a fixed number of writes, then behaves like a
// client that dropped the connection.
type abortWriter struct {
	mu        sync.Mutex
	buf       bytes.Buffer
	remaining int
}

func (a *abortWriter) Write(p []byte) (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.remaining <= 0 {
		return 0, errors.New("client aborted")
	}
	a.remaining--
	return a.buf.Write(p)
}

func (a *abortWriter) contents() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.buf.String()
}

func withFastTicks(t *testing.T) {
	t.Helper()
	oldData, oldPing := dataInterval, pingInterval
	dataInterval, pingInterval = 2*time.Millisecond, 500*time.Millisecond
	t.Cleanup(func() {
		dataInterval, pingInterval = oldData, oldPing
	})
}

func TestRunPollLoop_EmitsConnectedAckThenData(t *testing.T) {
	withFastTicks(t)

	w := &abortWriter{remaining: 3}
	done := make(chan struct{})

	counts := []int64{3, 0}
	var tick int
	var cursor notifyCursor

	go func() {
		defer close(done)
		runPollLoop(newSSEStream(bufio.NewWriter(w)), func() (any, bool) {
			count := counts[len(counts)-1]
			if tick < len(counts) {
				count = counts[tick]
			}
			tick++
			return cursor.observe(count)
		})
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("poll loop did not stop after the client aborted")
	}

	got := w.contents()
	assert.Contains(t, got, `data: {"connected":true}`)
	assert.Contains(t, got, `data: {"count":3}`)
	assert.Contains(t, got, `data: {"count":0}`)
}

func TestRunPollLoop_AbortStopsTimersAndWrites(t *testing.T) {
	withFastTicks(t)

	// Only the connected ack succeeds; the first data tick hits the abort.
	w := &abortWriter{remaining: 1}
	done := make(chan struct{})
	var polls int
	var mu sync.Mutex

	go func() {
		defer close(done)
		runPollLoop(newSSEStream(bufio.NewWriter(w)), func() (any, bool) {
			mu.Lock()
			polls++
			mu.Unlock()
			return map[string]int{"count": 1}, true
		})
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("poll loop did not stop after the client aborted")
	}

	mu.Lock()
	pollsAtExit := polls
	mu.Unlock()

	// No further polls fire once the loop has torn down.
	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	assert.Equal(t, pollsAtExit, polls)
	mu.Unlock()

	assert.Equal(t, `data: {"connected":true}`, strings.TrimSuffix(w.contents(), "\n\n"))
}

func TestRunPollLoop_QueryFailureSkipsTickAndContinues(t *testing.T) {
	withFastTicks(t)

	w := &abortWriter{remaining: 3}
	done := make(chan struct{})
	var tick int

	go func() {
		defer close(done)
		runPollLoop(newSSEStream(bufio.NewWriter(w)), func() (any, bool) {
			tick++
			if tick == 1 {
				// Simulates a failed store query: skip, do not terminate.
				return nil, false
			}
			return map[string]int{"count": tick}, true
		})
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("poll loop did not stop after the client aborted")
	}

	got := w.contents()
	assert.Contains(t, got, `data: {"connected":true}`)
	assert.NotContains(t, got, `{"count":1}`, "the failed tick must not emit")
	assert.Contains(t, got, `{"count":2}`)
}
