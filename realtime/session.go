package realtime

import (
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
	"github.com/okothbrian/socialite/apperrors"
)

const (
	// sendBufferSize bounds how far a slow client can fall behind before
	// events are dropped for it.
	sendBufferSize = 64

	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// Session is one authenticated websocket connection. Outbound events go
// through a buffered channel drained by a single writer goroutine, so the
// hub never blocks on a slow client and never writes a websocket
// concurrently.
type Session struct {
	ID     string
	UserID uuid.UUID

	conn *websocket.Conn
	send chan Event
	done chan struct{}
	once sync.Once
}

func NewSession(userID uuid.UUID, conn *websocket.Conn) *Session {
	return &Session{
		ID:     uuid.NewString(),
		UserID: userID,
		conn:   conn,
		send:   make(chan Event, sendBufferSize),
		done:   make(chan struct{}),
	}
}

// Enqueue queues an event for delivery. Delivery is best effort: a full
// buffer drops the event, a closed session returns ErrStreamClosed.
func (s *Session) Enqueue(ev Event) error {
	select {
	case <-s.done:
		return apperrors.ErrStreamClosed
	default:
	}
	select {
	case s.send <- ev:
		return nil
	case <-s.done:
		return apperrors.ErrStreamClosed
	default:
		// Slow consumer; the durable store is the fallback path.
		return nil
	}
}

// Close terminates the session. Safe to call more than once.
func (s *Session) Close() {
	s.once.Do(func() {
		close(s.done)
	})
}

// Closed reports whether Close has been called.
func (s *Session) Closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// WritePump drains queued events to the websocket and keeps the connection
// alive with periodic pings. It returns when the session closes or a write
// fails. Must run on its own goroutine, exactly once per session.
func (s *Session) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case ev := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteJSON(ev); err != nil {
				s.Close()
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.Close()
				return
			}
		}
	}
}
