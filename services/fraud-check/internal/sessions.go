package internal

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spaolacci/murmur3"

	"github.com/ShrutiGaur-tech/InFinsafe/libs/go/fraud/rewards"
)

// ErrSessionNotFound is returned by Apply for unknown or purged sessions.
var ErrSessionNotFound = errors.New("session not found")

// Session is a snapshot of one visitor's gamification progress.
type Session struct {
	ID        string
	State     rewards.State
	CreatedAt time.Time
	LastSeen  time.Time
}

// SessionStore is a lock-striped map of sessions. Transitions on one session
// are serialized under its shard lock.
type SessionStore struct {
	shards  []sessionShard
	mask    uint64
	start   int
	catalog rewards.Catalog
	now     func() time.Time
}

type sessionShard struct {
	mu sync.Mutex
	m  map[string]*Session
}

func NewSessionStore(shardPow uint8, startingPoints int, catalog rewards.Catalog) *SessionStore {
	if shardPow > 10 {
		shardPow = 10
	} // cap 1024 shards
	n := 1 << shardPow
	s := &SessionStore{mask: uint64(n - 1), start: startingPoints, catalog: catalog, now: time.Now}
	s.shards = make([]sessionShard, n)
	for i := 0; i < n; i++ {
		s.shards[i].m = make(map[string]*Session)
	}
	return s
}

func (s *SessionStore) shardFor(id string) *sessionShard {
	return &s.shards[murmur3.Sum64([]byte(id))&s.mask]
}

// GetOrCreate returns the session for id, or a fresh session under a new id when
// id is empty or unknown. created reports the latter.
func (s *SessionStore) GetOrCreate(id string) (sess Session, created bool) {
	if id != "" {
		sh := s.shardFor(id)
		sh.mu.Lock()
		if cur, ok := sh.m[id]; ok {
			cur.LastSeen = s.now()
			out := snapshot(cur)
			sh.mu.Unlock()
			return out, false
		}
		sh.mu.Unlock()
	}
	now := s.now()
	fresh := &Session{
		ID:        uuid.NewString(),
		State:     rewards.NewState(s.start, s.catalog),
		CreatedAt: now,
		LastSeen:  now,
	}
	sh := s.shardFor(fresh.ID)
	sh.mu.Lock()
	sh.m[fresh.ID] = fresh
	out := snapshot(fresh)
	sh.mu.Unlock()
	return out, true
}

// Get returns a snapshot of id.
func (s *SessionStore) Get(id string) (Session, bool) {
	sh := s.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	cur, ok := sh.m[id]
	if !ok {
		return Session{}, false
	}
	return snapshot(cur), true
}

// Apply runs fn on the session state under the shard lock and stores the result
// unless fn fails.
func (s *SessionStore) Apply(id string, fn func(rewards.State) (rewards.State, error)) (rewards.State, error) {
	sh := s.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	cur, ok := sh.m[id]
	if !ok {
		return rewards.State{}, ErrSessionNotFound
	}
	next, err := fn(cur.State.Clone())
	if err != nil {
		return cur.State.Clone(), err
	}
	cur.State = next
	cur.LastSeen = s.now()
	return next.Clone(), nil
}

// PurgeIdle drops sessions not seen for longer than ttl and returns how many.
func (s *SessionStore) PurgeIdle(ttl time.Duration) int {
	now := s.now()
	removed := 0
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.Lock()
		for id, sess := range sh.m {
			if now.Sub(sess.LastSeen) > ttl {
				delete(sh.m, id)
				removed++
			}
		}
		sh.mu.Unlock()
	}
	return removed
}

// Len counts live sessions.
func (s *SessionStore) Len() int {
	total := 0
	for i := range s.shards {
		sh := &s.shards[i]
		sh.mu.Lock()
		total += len(sh.m)
		sh.mu.Unlock()
	}
	return total
}

func snapshot(s *Session) Session {
	out := *s
	out.State = s.State.Clone()
	return out
}
