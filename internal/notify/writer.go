package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/reelweek/backend/internal/models"
	"github.com/reelweek/backend/internal/repositories"
)

// Event is one interaction that may produce a notification. VideoID and
// VideoThumbnailURL are set for like and comment events; CommentText only
// for comments.
type Event struct {
	Kind              string
	RecipientID       uint
	Sender            models.Session
	VideoID           string
	VideoThumbnailURL string
	CommentText       string
}

// PushDispatcher requests best-effort delivery of one push message
type PushDispatcher interface {
	Dispatch(ctx context.Context, recipientID uint, title, body string, data map[string]string)
}

// Writer turns interaction events into persisted notifications and fans each
// one out as a push. Both halves are fire-and-forget from the caller's point
// of view: a failed write or a failed push never fails the interaction that
// triggered it.
type Writer struct {
	repo       repositories.NotificationRepository
	feed       *Feed
	dispatcher PushDispatcher
}

// NewWriter creates a new Writer
func NewWriter(repo repositories.NotificationRepository, feed *Feed, dispatcher PushDispatcher) *Writer {
	return &Writer{repo: repo, feed: feed, dispatcher: dispatcher}
}

// Publish persists one notification and triggers a push dispatch.
// Events where the sender is the recipient are dropped silently: users never
// notify themselves.
func (w *Writer) Publish(ctx context.Context, ev Event) {
	if ev.RecipientID == ev.Sender.UserID {
		return
	}

	n := &models.Notification{
		ID:                    uuid.NewString(),
		RecipientID:           ev.RecipientID,
		SenderID:              ev.Sender.UserID,
		SenderName:            ev.Sender.Name,
		SenderProfileImageURL: ev.Sender.ProfileImageURL,
		Type:                  ev.Kind,
		IsRead:                false,
		CreatedAt:             time.Now(),
	}

	switch ev.Kind {
	case models.NotificationTypeLike:
		n.VideoID = &ev.VideoID
		n.VideoThumbnailURL = &ev.VideoThumbnailURL
	case models.NotificationTypeComment:
		n.VideoID = &ev.VideoID
		n.VideoThumbnailURL = &ev.VideoThumbnailURL
		n.CommentText = &ev.CommentText
	case models.NotificationTypeFollow:
		// follow records never carry a video
	default:
		log.Printf("notify: dropping event with unknown kind %q", ev.Kind)
		return
	}

	if err := w.repo.Create(n); err != nil {
		log.Printf("notify: persisting %s notification for user %d failed: %v", ev.Kind, ev.RecipientID, err)
		return
	}
	w.feed.Notify(ev.RecipientID)

	title, body := pushContent(ev)
	data := map[string]string{
		"type":           ev.Kind,
		"notificationId": n.ID,
		"senderId":       fmt.Sprint(ev.Sender.UserID),
	}
	if n.VideoID != nil {
		data["videoId"] = *n.VideoID
	}

	// Push delivery is decoupled from the committed record.
	go w.dispatcher.Dispatch(context.WithoutCancel(ctx), ev.RecipientID, title, body, data)
}

func pushContent(ev Event) (title, body string) {
	switch ev.Kind {
	case models.NotificationTypeLike:
		return fmt.Sprintf("%s liked your video", ev.Sender.Name), "Tap to watch your video."
	case models.NotificationTypeComment:
		return fmt.Sprintf("%s commented on your video", ev.Sender.Name),
			fmt.Sprintf("%s: %s", ev.Sender.Name, ev.CommentText)
	case models.NotificationTypeFollow:
		return fmt.Sprintf("%s started following you", ev.Sender.Name), "Check out their weekly video."
	}
	return "", ""
}
