package models

import (
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model      `json:"-"`
	ID              uint   `json:"id" gorm:"primaryKey"`
	Name            string `json:"name"`
	Email           string `json:"email" gorm:"uniqueIndex"` // Ensure email is unique across all users
	ProfileImageURL string `json:"profile_image_url,omitempty"`
	Password        string `json:"-"`                                         // Store hashed password, ignore for JSON serialization
	FirebaseUID     string `json:"firebase_uid,omitempty" gorm:"uniqueIndex"` // Link to Firebase User UID
}

// ToCompact returns the display snapshot embedded in denormalized records
func (u *User) ToCompact() UserCompact {
	return UserCompact{
		ID:              u.ID,
		Name:            u.Name,
		ProfileImageURL: u.ProfileImageURL,
	}
}

// UserCompact is the minimal user representation for embedding in responses
type UserCompact struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	ProfileImageURL string `json:"profile_image_url,omitempty"`
}

type CreateLocalUserRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type UpdateUserRequest struct {
	Name            string `json:"name,omitempty" validate:"omitempty,min=2,max=50"`
	ProfileImageURL string `json:"profile_image_url,omitempty" validate:"omitempty,url"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims.
// Name and ProfileImageURL ride in the token so that interaction handlers can
// build the sender snapshot without an extra user lookup per request.
type JwtCustomClaims struct {
	UserID          uint   `json:"user_id"`
	Email           string `json:"email"`
	Name            string `json:"name"`
	ProfileImageURL string `json:"profile_image_url,omitempty"`
	jwt.RegisteredClaims
}

// Session identifies the signed-in user for the duration of one request.
// It is built from verified JWT claims and passed explicitly; nothing in the
// system reads a global current-user.
type Session struct {
	UserID          uint
	Name            string
	ProfileImageURL string
}

// SessionFromClaims builds a Session from verified token claims
func SessionFromClaims(claims *JwtCustomClaims) Session {
	return Session{
		UserID:          claims.UserID,
		Name:            claims.Name,
		ProfileImageURL: claims.ProfileImageURL,
	}
}
