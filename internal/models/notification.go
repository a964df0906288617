package models

import "time"

// Notification types. The set is closed: rendering and navigation on the
// client switch on it, so unknown values must never be persisted.
const (
	NotificationTypeLike    = "like"
	NotificationTypeComment = "comment"
	NotificationTypeFollow  = "follow"
)

// Notification represents one delivered interaction event (PostgreSQL).
// Sender display data is a denormalized snapshot taken at creation time and
// is not updated when the sender later changes their profile. IsRead is the
// only field that changes after creation.
type Notification struct {
	ID                    string    `json:"id" gorm:"primaryKey;size:36"`
	RecipientID           uint      `json:"recipient_id" gorm:"index"`
	SenderID              uint      `json:"sender_id" gorm:"index"`
	SenderName            string    `json:"sender_name"`
	SenderProfileImageURL string    `json:"sender_profile_image_url,omitempty"`
	Type                  string    `json:"type" gorm:"size:30;index"` // like, comment, follow
	VideoID               *string   `json:"video_id,omitempty"`        // like/comment only
	VideoThumbnailURL     *string   `json:"video_thumbnail_url,omitempty"`
	CommentText           *string   `json:"comment_text,omitempty"` // comment only
	IsRead                bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt             time.Time `json:"created_at" gorm:"index"`
}
