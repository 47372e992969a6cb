package realtime

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry tracks which users currently have live connections. A user's
// "room" is the set of their sessions; a non-empty room means online. State
// is process-local and lost on restart — every user is offline again until
// they rejoin.
//
// The add/remove-and-check-empty sequence for a room is a single critical
// section, so concurrent joins and leaves for the same user cannot race the
// online/offline transition.
type Registry struct {
	mu       sync.Mutex
	rooms    map[uuid.UUID]map[*Session]struct{}
	lastSeen map[uuid.UUID]time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		rooms:    make(map[uuid.UUID]map[*Session]struct{}),
		lastSeen: make(map[uuid.UUID]time.Time),
	}
}

// Join adds a session to the user's room, creating the room if absent.
// It reports whether this made the room non-empty (the online transition).
func (r *Registry) Join(userID uuid.UUID, s *Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	room := r.rooms[userID]
	if room == nil {
		room = make(map[*Session]struct{})
		r.rooms[userID] = room
	}
	wasEmpty := len(room) == 0
	room[s] = struct{}{}
	return wasEmpty
}

// Leave removes a session from the user's room. When the room becomes empty
// it is destroyed and the offline timestamp recorded; Leave then reports
// true with that timestamp. Leaving with a session that was never joined is
// a no-op.
func (r *Registry) Leave(userID uuid.UUID, s *Session) (bool, time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[userID]
	if !ok {
		return false, time.Time{}
	}
	if _, ok := room[s]; !ok {
		return false, time.Time{}
	}
	delete(room, s)
	if len(room) > 0 {
		return false, time.Time{}
	}
	delete(r.rooms, userID)
	now := time.Now()
	r.lastSeen[userID] = now
	return true, now
}

// IsOnline reports whether the user has at least one live session.
func (r *Registry) IsOnline(userID uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rooms[userID]) > 0
}

// LastSeen returns when the user last went offline, if known this process.
func (r *Registry) LastSeen(userID uuid.UUID) (time.Time, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.lastSeen[userID]
	return t, ok
}

// Room returns a snapshot of the user's live sessions.
func (r *Registry) Room(userID uuid.UUID) []*Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	room := r.rooms[userID]
	if len(room) == 0 {
		return nil
	}
	out := make([]*Session, 0, len(room))
	for s := range room {
		out = append(out, s)
	}
	return out
}

// Sessions returns a snapshot of every live session across all rooms.
func (r *Registry) Sessions() []*Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*Session
	for _, room := range r.rooms {
		for s := range room {
			out = append(out, s)
		}
	}
	return out
}
