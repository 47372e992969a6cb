package handlers

import (
	"bufio"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/okothbrian/socialite/apperrors"
	"github.com/okothbrian/socialite/database"
	"github.com/okothbrian/socialite/models"
	"github.com/okothbrian/socialite/services"
	"github.com/valyala/fasthttp"
)

// Poll cadence. Package variables so tests can shrink them.
var (
	dataInterval = 2 * time.Second
	pingInterval = 30 * time.Second
)

// sseStream frames payloads onto one long-lived text/event-stream response.
// Close is idempotent; every write after Close (or after the client went
// away) reports ErrStreamClosed, which callers discard.
type sseStream struct {
	w      *bufio.Writer
	mu     sync.Mutex
	closed bool
}

func newSSEStream(w *bufio.Writer) *sseStream {
	return &sseStream{w: w}
}

// Emit writes one JSON data frame and flushes it to the client.
func (s *sseStream) Emit(payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return s.write("data: " + string(data) + "\n\n")
}

// Ping writes the keep-alive frame that intermediaries must not mistake for
// data. Clients ignore unrecognized payloads.
func (s *sseStream) Ping() error {
	return s.write("data: ping\n\n")
}

func (s *sseStream) write(frame string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return apperrors.ErrStreamClosed
	}
	if _, err := s.w.WriteString(frame); err != nil {
		s.closed = true
		return apperrors.ErrStreamClosed
	}
	if err := s.w.Flush(); err != nil {
		// Flush failing is how we learn the client aborted.
		s.closed = true
		return apperrors.ErrStreamClosed
	}
	return nil
}

// Close releases the stream. Safe to call any number of times.
func (s *sseStream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *sseStream) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// pollFunc runs once per data tick. It returns the frame to emit and whether
// to emit at all; a query failure logs, skips the tick and keeps the loop
// alive.
type pollFunc func() (payload any, emit bool)

// runPollLoop is the per-connection state machine: immediate connected ack,
// data ticks, keep-alive pings, and teardown when the client aborts. Both
// tickers stop on return, and the stream closes exactly once.
func runPollLoop(stream *sseStream, poll pollFunc) {
	defer stream.Close()

	if err := stream.Emit(fiber.Map{"connected": true}); err != nil {
		return
	}

	data := time.NewTicker(dataInterval)
	defer data.Stop()
	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case <-data.C:
			payload, emit := poll()
			if !emit {
				continue
			}
			if err := stream.Emit(payload); err != nil {
				return
			}
		case <-ping.C:
			if err := stream.Ping(); err != nil {
				return
			}
		}
	}
}

// notifyCursor drives the unread-notification channel: the full count goes
// out on every tick, changed or not.
type notifyCursor struct{}

func (notifyCursor) observe(count int64) (any, bool) {
	return fiber.Map{"count": count}, true
}

// auditCursor drives the admin audit channel: the first observation primes a
// baseline silently, then a frame goes out only when the count increases.
// The log is append-only in normal operation; a shrink (retention prune)
// just re-baselines.
type auditCursor struct {
	last   int64
	primed bool
}

func (c *auditCursor) observe(count int64) (any, bool) {
	if !c.primed {
		c.primed = true
		c.last = count
		return nil, false
	}
	if count > c.last {
		c.last = count
		return fiber.Map{"newAction": true, "count": count}, true
	}
	c.last = count
	return nil, false
}

// reportCursor drives the moderation-report channel: emits on any change
// after the silent baseline.
type reportCursor struct {
	last   int64
	primed bool
}

func (c *reportCursor) observe(count int64) (any, bool) {
	if !c.primed {
		c.primed = true
		c.last = count
		return nil, false
	}
	if count != c.last {
		c.last = count
		return fiber.Map{"count": count}, true
	}
	return nil, false
}

func setSSEHeaders(c *fiber.Ctx) {
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("Transfer-Encoding", "chunked")
}

// NotificationStream pushes the caller's unread notification count every
// data tick for badge rendering.
func NotificationStream(notifs *services.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := currentUserID(c)
		setSSEHeaders(c)

		c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
			var cursor notifyCursor
			runPollLoop(newSSEStream(w), func() (any, bool) {
				count, err := notifs.UnreadCount(userID)
				if err != nil {
					log.Printf("notification stream poll failed for %s: %v", userID, err)
					return nil, false
				}
				return cursor.observe(count)
			})
		}))
		return nil
	}
}

// AuditLogStream tells an open admin dashboard that new audit entries
// appeared since it connected.
func AuditLogStream() fiber.Handler {
	return func(c *fiber.Ctx) error {
		setSSEHeaders(c)

		c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
			var cursor auditCursor
			runPollLoop(newSSEStream(w), func() (any, bool) {
				var count int64
				if err := database.DB.Model(&models.AuditLog{}).Count(&count).Error; err != nil {
					log.Printf("audit stream poll failed: %v", err)
					return nil, false
				}
				return cursor.observe(count)
			})
		}))
		return nil
	}
}

// ReportStream pushes the open moderation-report count to the admin console
// whenever it changes.
func ReportStream() fiber.Handler {
	return func(c *fiber.Ctx) error {
		setSSEHeaders(c)

		c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
			var cursor reportCursor
			runPollLoop(newSSEStream(w), func() (any, bool) {
				var count int64
				err := database.DB.Model(&models.Report{}).
					Where("status = ?", models.ReportStatusOpen).
					Count(&count).Error
				if err != nil {
					log.Printf("report stream poll failed: %v", err)
					return nil, false
				}
				return cursor.observe(count)
			})
		}))
		return nil
	}
}
