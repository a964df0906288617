package notify

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/reelweek/backend/internal/models"
	"gorm.io/gorm"
)

// fakeNotificationRepo is an in-memory NotificationRepository with switchable
// failure modes. MarkManyAsRead mimics the transactional store: on failure
// nothing is mutated.
type fakeNotificationRepo struct {
	mu      sync.Mutex
	records map[string]*models.Notification

	failCreate   bool
	failMarkOne  bool
	failMarkMany bool
	failDelete   bool
	failWindow   bool

	// onDelete runs inside Delete before the failure check, letting tests
	// interleave work with an in-flight delete.
	onDelete func(id string)
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{records: make(map[string]*models.Notification)}
}

func (f *fakeNotificationRepo) Create(n *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate {
		return fmt.Errorf("store unavailable")
	}
	cp := *n
	f.records[n.ID] = &cp
	return nil
}

func (f *fakeNotificationRepo) GetByID(id string) (*models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.records[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *n
	return &cp, nil
}

func (f *fakeNotificationRepo) Window(recipientID uint, limit int) ([]models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWindow {
		return nil, fmt.Errorf("store unavailable")
	}
	return f.sortedLocked(recipientID, limit), nil
}

func (f *fakeNotificationRepo) GetByRecipientID(recipientID uint, page, limit int) ([]models.Notification, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := f.sortedLocked(recipientID, 0)
	total := int64(len(all))
	start := (page - 1) * limit
	if start > len(all) {
		start = len(all)
	}
	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (f *fakeNotificationRepo) MarkAsRead(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failMarkOne {
		return fmt.Errorf("store unavailable")
	}
	if n, ok := f.records[id]; ok {
		n.IsRead = true
	}
	return nil
}

func (f *fakeNotificationRepo) MarkManyAsRead(ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failMarkMany {
		return fmt.Errorf("store unavailable")
	}
	for _, id := range ids {
		if n, ok := f.records[id]; ok {
			n.IsRead = true
		}
	}
	return nil
}

func (f *fakeNotificationRepo) Delete(id string) error {
	if f.onDelete != nil {
		f.onDelete(id)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDelete {
		return fmt.Errorf("store unavailable")
	}
	delete(f.records, id)
	return nil
}

func (f *fakeNotificationRepo) sortedLocked(recipientID uint, limit int) []models.Notification {
	var out []models.Notification
	for _, n := range f.records {
		if n.RecipientID == recipientID {
			out = append(out, *n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

type dispatchCall struct {
	RecipientID uint
	Title       string
	Body        string
	Data        map[string]string
}

// fakeDispatcher records dispatch attempts on a channel so tests can wait
// for the asynchronous fan-out.
type fakeDispatcher struct {
	calls chan dispatchCall
}

func newFakeDispatcher() *fakeDispatcher {
	return &fakeDispatcher{calls: make(chan dispatchCall, 16)}
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, recipientID uint, title, body string, data map[string]string) {
	f.calls <- dispatchCall{RecipientID: recipientID, Title: title, Body: body, Data: data}
}
