package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jrichmond93/ChatbotPOC/internal/logger"
)

// Policy decides when an idle session may be dropped.
type Policy interface {
	Expired(lastActivity, now time.Time) bool
}

// PolicyFunc adapts a function to Policy.
type PolicyFunc func(lastActivity, now time.Time) bool

func (f PolicyFunc) Expired(lastActivity, now time.Time) bool { return f(lastActivity, now) }

// NeverExpire keeps every session for the lifetime of the process.
func NeverExpire() Policy {
	return PolicyFunc(func(time.Time, time.Time) bool { return false })
}

// IdleTTL expires sessions that have seen no activity for at least ttl.
// A non-positive ttl never expires.
func IdleTTL(ttl time.Duration) Policy {
	if ttl <= 0 {
		return NeverExpire()
	}
	return PolicyFunc(func(lastActivity, now time.Time) bool {
		return now.Sub(lastActivity) >= ttl
	})
}

// Session guards the State of one conversation. All access to the state goes
// through Update or View, which are serialized per session.
type Session struct {
	id string

	mu    sync.Mutex
	state *State

	// lastActive mirrors state.LastActivityAt (unix nanos) so the store can
	// sweep without taking per-session locks.
	lastActive atomic.Int64
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Update runs fn with exclusive access to the session state.
func (s *Session) Update(fn func(*State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.state)
	s.lastActive.Store(s.state.LastActivityAt.UnixNano())
}

// View runs fn with exclusive access to the session state. fn must not
// modify the state.
func (s *Session) View(fn func(*State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.state)
}

func (s *Session) lastActivity() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

// Option configures a Store.
type Option func(*Store)

// WithClock injects the time source used for timestamps and expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator injects the generator used for session and message ids.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// WithPolicy sets the expiry policy. The default never expires sessions.
func WithPolicy(p Policy) Option {
	return func(s *Store) {
		if p != nil {
			s.policy = p
		}
	}
}

// WithMaxSessions bounds the number of live sessions. When a new session
// would exceed the bound, the least recently active session is evicted.
// Zero means unbounded.
//
// Eviction does not coordinate with callers holding a *Session: a handle
// obtained from GetOrCreate just before its session is evicted still accepts
// Update, but the change is not visible through the store and the next
// GetOrCreate for that id starts empty. The same applies to expiry policies.
func WithMaxSessions(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxSessions = n
		}
	}
}

// WithEvictHook registers a callback invoked with the id of every session
// dropped by expiry or capacity eviction.
func WithEvictHook(fn func(id string)) Option {
	return func(s *Store) { s.onEvict = fn }
}

// WithCreateHook registers a callback invoked with the id of every session
// the store creates.
func WithCreateHook(fn func(id string)) Option {
	return func(s *Store) { s.onCreate = fn }
}

// Store owns all live sessions.
type Store struct {
	now         func() time.Time
	newID       func() string
	policy      Policy
	maxSessions int
	onEvict     func(id string)
	onCreate    func(id string)

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewStore creates an empty session store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		now:      time.Now,
		newID:    uuid.NewString,
		policy:   NeverExpire(),
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewID returns a fresh session identifier.
func (s *Store) NewID() string {
	return s.newID()
}

// GetOrCreate returns the session for id, creating an empty one when it does
// not exist or has expired. Repeated calls return the same *Session.
func (s *Store) GetOrCreate(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if sess, ok := s.sessions[id]; ok {
		if !s.policy.Expired(sess.lastActivity(), now) {
			return sess
		}
		s.evictLocked(id, "expired")
	}

	if s.maxSessions > 0 && len(s.sessions) >= s.maxSessions {
		s.evictOldestLocked()
	}

	st := newState(id, s.now, s.newID)
	sess := &Session{id: id, state: st}
	sess.lastActive.Store(st.LastActivityAt.UnixNano())
	s.sessions[id] = sess
	logger.Debugf("[store] created session %s (live=%d)", id, len(s.sessions))
	if s.onCreate != nil {
		s.onCreate(id)
	}
	return sess
}

// Get looks up id without creating it. Expired sessions read as absent.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if s.policy.Expired(sess.lastActivity(), s.now()) {
		return nil, false
	}
	return sess, true
}

// Len returns the number of sessions held, including expired sessions not
// yet swept.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops every expired session and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, sess := range s.sessions {
		if s.policy.Expired(sess.lastActivity(), now) {
			s.evictLocked(id, "expired")
			removed++
		}
	}
	return removed
}

// Run sweeps expired sessions every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				logger.Infof("[store] swept %d expired sessions", n)
			}
		}
	}
}

func (s *Store) evictOldestLocked() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, sess := range s.sessions {
		last := sess.lastActivity()
		if oldestID == "" || last.Before(oldest) {
			oldestID, oldest = id, last
		}
	}
	if oldestID != "" {
		s.evictLocked(oldestID, "capacity")
	}
}

func (s *Store) evictLocked(id, reason string) {
	delete(s.sessions, id)
	logger.Debugf("[store] evicted session %s (%s)", id, reason)
	if s.onEvict != nil {
		s.onEvict(id)
	}
}
