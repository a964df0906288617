package notify

import (
	"sort"
	"sync"

	"github.com/reelweek/backend/internal/models"
	"github.com/reelweek/backend/internal/repositories"
)

// ReadStateManager owns one session's local view of the notification window
// and keeps it synchronized with durable storage through optimistic updates.
//
// Every mutation follows the same state machine: the local view changes
// first, the durable update is issued, and on failure the local view is
// reverted to the last known durable value for the affected records (not to
// whatever it happened to hold before this particular call). The unread
// count is always recomputed from the flags in the window, never maintained
// incrementally, so concurrent mutations and arrivals cannot make it drift.
type ReadStateManager struct {
	repo        repositories.NotificationRepository
	feed        *Feed
	recipientID uint

	mu      sync.Mutex
	records []models.Notification
	durable map[string]bool // last confirmed is_read per record in the window
}

// NewReadStateManager creates a manager for one recipient's session
func NewReadStateManager(repo repositories.NotificationRepository, feed *Feed, recipientID uint) *ReadStateManager {
	return &ReadStateManager{
		repo:        repo,
		feed:        feed,
		recipientID: recipientID,
		durable:     make(map[string]bool),
	}
}

// Apply replaces the local view with a durable snapshot from the subscription
func (m *ReadStateManager) Apply(snap Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records[:0:0], snap.Records...)
	m.durable = make(map[string]bool, len(m.records))
	for _, r := range m.records {
		m.durable[r.ID] = r.IsRead
	}
}

// Notifications returns a copy of the current ordered window
func (m *ReadStateManager) Notifications() []models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Notification(nil), m.records...)
}

// Snapshot returns the current view and its derived unread count
func (m *ReadStateManager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		Records:     append([]models.Notification(nil), m.records...),
		UnreadCount: countUnread(m.records),
	}
}

// UnreadCount returns the number of unread records in the window
func (m *ReadStateManager) UnreadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return countUnread(m.records)
}

// HasUnread reports whether any record in the window is unread
func (m *ReadStateManager) HasUnread() bool {
	return m.UnreadCount() > 0
}

// MarkAsRead flips one record to read, optimistically. Calling it again for
// an already-read record is a no-op with the same outcome.
func (m *ReadStateManager) MarkAsRead(id string) error {
	m.setLocal(id, true)

	if err := m.repo.MarkAsRead(id); err != nil {
		m.revert(id)
		return err
	}

	m.confirm(id, true)
	m.feed.Notify(m.recipientID)
	return nil
}

// MarkAllAsRead flips every currently-unread record in the window as one
// atomic batch. Records arriving after the unread snapshot was taken are
// unaffected. On failure the whole snapshot reverts; there is no partial
// read state.
func (m *ReadStateManager) MarkAllAsRead() error {
	m.mu.Lock()
	var ids []string
	for i := range m.records {
		if !m.records[i].IsRead {
			ids = append(ids, m.records[i].ID)
			m.records[i].IsRead = true
		}
	}
	m.mu.Unlock()

	if len(ids) == 0 {
		return nil
	}

	if err := m.repo.MarkManyAsRead(ids); err != nil {
		for _, id := range ids {
			m.revert(id)
		}
		return err
	}

	for _, id := range ids {
		m.confirm(id, true)
	}
	m.feed.Notify(m.recipientID)
	return nil
}

// Delete removes a record from the view and durable storage. If the durable
// delete fails the record is restored in place, so local and durable state
// cannot silently diverge.
func (m *ReadStateManager) Delete(id string) error {
	m.mu.Lock()
	var removed *models.Notification
	for i := range m.records {
		if m.records[i].ID == id {
			r := m.records[i]
			removed = &r
			m.records = append(m.records[:i], m.records[i+1:]...)
			break
		}
	}
	m.mu.Unlock()

	if err := m.repo.Delete(id); err != nil {
		if removed != nil {
			m.restore(*removed)
		}
		return err
	}

	m.mu.Lock()
	delete(m.durable, id)
	m.mu.Unlock()
	m.feed.Notify(m.recipientID)
	return nil
}

func (m *ReadStateManager) setLocal(id string, read bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.records {
		if m.records[i].ID == id {
			m.records[i].IsRead = read
			return
		}
	}
}

// revert restores a record's flag to the last confirmed durable value
func (m *ReadStateManager) revert(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	known, ok := m.durable[id]
	if !ok {
		return
	}
	for i := range m.records {
		if m.records[i].ID == id {
			m.records[i].IsRead = known
			return
		}
	}
}

func (m *ReadStateManager) confirm(id string, read bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.durable[id]; ok {
		m.durable[id] = read
	}
}

// restore puts a record back after a failed delete. A snapshot applied
// between the optimistic removal and the failure may have brought the record
// back already, in which case there is nothing to do.
func (m *ReadStateManager) restore(r models.Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.records {
		if m.records[i].ID == r.ID {
			return
		}
	}
	m.records = append(m.records, r)
	sort.SliceStable(m.records, func(i, j int) bool {
		return m.records[i].CreatedAt.After(m.records[j].CreatedAt)
	})
}
