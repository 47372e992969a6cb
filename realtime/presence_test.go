package realtime

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_JoinLeaveTransitions(t *testing.T) {
	r := NewRegistry()
	user := uuid.New()
	c1 := NewSession(user, nil)
	c2 := NewSession(user, nil)

	assert.False(t, r.IsOnline(user))

	assert.True(t, r.Join(user, c1), "first join must report the online transition")
	assert.False(t, r.Join(user, c2), "second join must not")
	assert.True(t, r.IsOnline(user))

	last, _ := r.Leave(user, c1)
	assert.False(t, last, "room still has c2, no offline transition")
	assert.True(t, r.IsOnline(user))

	last, seen := r.Leave(user, c2)
	assert.True(t, last, "last leave must report the offline transition")
	assert.False(t, seen.IsZero())
	assert.False(t, r.IsOnline(user))

	got, ok := r.LastSeen(user)
	require.True(t, ok)
	assert.Equal(t, seen, got)
}

func TestRegistry_LeaveUnknownSessionIsNoop(t *testing.T) {
	r := NewRegistry()
	user := uuid.New()
	joined := NewSession(user, nil)
	stranger := NewSession(user, nil)

	r.Join(user, joined)

	last, _ := r.Leave(user, stranger)
	assert.False(t, last)
	assert.True(t, r.IsOnline(user), "a leave for a session that never joined must not evict the room")

	last, _ = r.Leave(uuid.New(), stranger)
	assert.False(t, last, "leave for an unknown user must be a no-op")
}

func TestRegistry_RoomsAreIndependent(t *testing.T) {
	r := NewRegistry()
	alice, bob := uuid.New(), uuid.New()
	sa := NewSession(alice, nil)
	sb := NewSession(bob, nil)

	r.Join(alice, sa)
	r.Join(bob, sb)

	require.Len(t, r.Room(alice), 1)
	assert.Same(t, sa, r.Room(alice)[0])
	require.Len(t, r.Room(bob), 1)
	assert.Len(t, r.Sessions(), 2)

	r.Leave(alice, sa)
	assert.Nil(t, r.Room(alice))
	assert.True(t, r.IsOnline(bob))
}

func TestRegistry_ConcurrentJoinLeaveSameUser(t *testing.T) {
	r := NewRegistry()
	user := uuid.New()

	const workers = 32
	var wg sync.WaitGroup
	var online, offline atomic.Int32

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s := NewSession(user, nil)
			if r.Join(user, s) {
				online.Add(1)
			}
			if last, _ := r.Leave(user, s); last {
				offline.Add(1)
			}
		}()
	}
	wg.Wait()

	// Every online transition pairs with exactly one offline transition and
	// the registry ends empty.
	assert.Equal(t, online.Load(), offline.Load())
	assert.Greater(t, online.Load(), int32(0))
	assert.False(t, r.IsOnline(user))
	assert.Empty(t, r.Room(user))
}
