package notify

import (
	"sync"

	"github.com/reelweek/backend/internal/repositories"
)

// Session bundles the one live subscription a signed-in user holds with the
// read-state manager that mirrors it. It exists from the first notification
// access after sign-in until sign-out.
type Session struct {
	recipientID uint
	sub         *Subscription
	state       *ReadStateManager

	mu       sync.Mutex
	watchers map[chan Snapshot]struct{}
}

func newSession(feed *Feed, repo repositories.NotificationRepository, recipientID uint) *Session {
	s := &Session{
		recipientID: recipientID,
		sub:         feed.Subscribe(recipientID),
		state:       NewReadStateManager(repo, feed, recipientID),
		watchers:    make(map[chan Snapshot]struct{}),
	}
	go s.run()
	return s
}

func (s *Session) run() {
	for snap := range s.sub.Snapshots() {
		s.state.Apply(snap)
		s.mu.Lock()
		for ch := range s.watchers {
			select {
			case ch <- snap:
			default:
				select {
				case <-ch:
				default:
				}
				select {
				case ch <- snap:
				default:
				}
			}
		}
		s.mu.Unlock()
	}
}

// State returns the session's read-state manager
func (s *Session) State() *ReadStateManager {
	return s.state
}

// Watch registers a consumer for snapshot updates. It delivers the current
// view immediately and the latest snapshot after every change. The returned
// cancel func must be called when the consumer goes away.
func (s *Session) Watch() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)
	ch <- s.state.Snapshot()

	s.mu.Lock()
	s.watchers[ch] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		delete(s.watchers, ch)
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) close() {
	s.sub.Close()
}

// Sessions tracks the active notification session per signed-in user:
// exactly one per user, opened lazily and torn down on sign-out.
type Sessions struct {
	feed *Feed
	repo repositories.NotificationRepository

	mu     sync.Mutex
	active map[uint]*Session
}

// NewSessions creates a new session registry
func NewSessions(feed *Feed, repo repositories.NotificationRepository) *Sessions {
	return &Sessions{
		feed:   feed,
		repo:   repo,
		active: make(map[uint]*Session),
	}
}

// Get returns the user's session, opening one if none is active
func (s *Sessions) Get(recipientID uint) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.active[recipientID]; ok {
		return sess
	}
	sess := newSession(s.feed, s.repo, recipientID)
	s.active[recipientID] = sess
	return sess
}

// Close tears down the user's session, if any. Called on sign-out.
func (s *Sessions) Close(recipientID uint) {
	s.mu.Lock()
	sess, ok := s.active[recipientID]
	if ok {
		delete(s.active, recipientID)
	}
	s.mu.Unlock()
	if ok {
		sess.close()
	}
}
