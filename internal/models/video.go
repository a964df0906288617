package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Video represents a weekly video document (MongoDB)
type Video struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID        uint               `json:"user_id" bson:"user_id"`
	VideoURL      string             `json:"video_url" bson:"video_url"`
	ThumbnailURL  string             `json:"thumbnail_url" bson:"thumbnail_url"`
	Caption       string             `json:"caption,omitempty" bson:"caption,omitempty"`
	LikesCount    int64              `json:"likes_count" bson:"likes_count"`
	CommentsCount int64              `json:"comments_count" bson:"comments_count"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at" bson:"updated_at"`
}

// CreateVideoRequest defines the request body for posting a new video
type CreateVideoRequest struct {
	VideoURL     string `json:"video_url" validate:"required,url"`
	ThumbnailURL string `json:"thumbnail_url" validate:"required,url"`
	Caption      string `json:"caption,omitempty" validate:"omitempty,max=300"`
}
