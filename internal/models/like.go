package models

import "gorm.io/gorm"

// Like represents a like on a video
type Like struct {
	gorm.Model
	VideoID string `json:"video_id" gorm:"index"` // ID of the liked video (MongoDB ObjectID as string)
	UserID  uint   `json:"user_id" gorm:"index"`  // ID of the user who liked the video
}
