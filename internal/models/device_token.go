package models

import "time"

// DeviceToken stores the push-provider registration token for a user's
// current app install. One row per user, last write wins; rotated tokens
// simply overwrite the previous value.
type DeviceToken struct {
	UserID    uint      `json:"user_id" gorm:"primaryKey"`
	Token     string    `json:"token"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RegisterDeviceTokenRequest defines the request body for storing a token
type RegisterDeviceTokenRequest struct {
	Token string `json:"token" validate:"required"`
}
