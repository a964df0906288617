package notify

import (
	"log"
	"sync"

	"github.com/reelweek/backend/internal/models"
	"github.com/reelweek/backend/internal/repositories"
)

// WindowSize caps how many notifications a live subscription tracks.
// Records older than the newest WindowSize are invisible to the view and
// excluded from the unread count.
const WindowSize = 50

// Snapshot is one full view of a recipient's notification window. Consumers
// recompute derived state from each snapshot instead of patching deltas.
type Snapshot struct {
	Records     []models.Notification `json:"notifications"`
	UnreadCount int                   `json:"unread_count"`
}

func countUnread(records []models.Notification) int {
	n := 0
	for _, r := range records {
		if !r.IsRead {
			n++
		}
	}
	return n
}

// Feed is the in-process change broker for notification windows. Mutators
// call Notify after a durable change; each live subscription for that
// recipient reloads its window and emits a fresh snapshot.
type Feed struct {
	repo repositories.NotificationRepository

	mu   sync.Mutex
	subs map[uint]map[*Subscription]struct{}
}

// NewFeed creates a new Feed over the given notification store
func NewFeed(repo repositories.NotificationRepository) *Feed {
	return &Feed{
		repo: repo,
		subs: make(map[uint]map[*Subscription]struct{}),
	}
}

// Subscribe opens a live subscription for one recipient. The subscription
// emits an initial snapshot immediately and a new one after every Notify for
// that recipient, until Close is called.
func (f *Feed) Subscribe(recipientID uint) *Subscription {
	s := &Subscription{
		feed:        f,
		recipientID: recipientID,
		wake:        make(chan struct{}, 1),
		out:         make(chan Snapshot, 1),
		done:        make(chan struct{}),
	}

	f.mu.Lock()
	if f.subs[recipientID] == nil {
		f.subs[recipientID] = make(map[*Subscription]struct{})
	}
	f.subs[recipientID][s] = struct{}{}
	f.mu.Unlock()

	go s.run()
	return s
}

// Notify wakes every live subscription for the recipient
func (f *Feed) Notify(recipientID uint) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for s := range f.subs[recipientID] {
		select {
		case s.wake <- struct{}{}:
		default: // a reload is already pending
		}
	}
}

func (f *Feed) remove(s *Subscription) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if set := f.subs[s.recipientID]; set != nil {
		delete(set, s)
		if len(set) == 0 {
			delete(f.subs, s.recipientID)
		}
	}
}

// Subscription is a live, bounded view of one recipient's notifications
type Subscription struct {
	feed        *Feed
	recipientID uint
	wake        chan struct{}
	out         chan Snapshot
	done        chan struct{}
	closeOnce   sync.Once
}

// Snapshots returns the stream of full-window snapshots. The channel is
// closed when the subscription is closed. Slow consumers only ever see the
// latest snapshot; intermediate ones are coalesced away.
func (s *Subscription) Snapshots() <-chan Snapshot {
	return s.out
}

// Close tears the subscription down and releases its resources
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		s.feed.remove(s)
		close(s.done)
	})
}

func (s *Subscription) run() {
	defer close(s.out)
	for {
		records, err := s.feed.repo.Window(s.recipientID, WindowSize)
		if err != nil {
			// The view stalls until the next change; no retry loop.
			log.Printf("notify: window reload for user %d failed: %v", s.recipientID, err)
		} else {
			s.emit(Snapshot{Records: records, UnreadCount: countUnread(records)})
		}

		select {
		case <-s.wake:
		case <-s.done:
			return
		}
	}
}

func (s *Subscription) emit(snap Snapshot) {
	select {
	case s.out <- snap:
		return
	default:
	}
	// Consumer has not drained the previous snapshot; replace it.
	select {
	case <-s.out:
	default:
	}
	select {
	case s.out <- snap:
	default:
	}
}
