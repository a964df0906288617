package repositories

import (
	"github.com/reelweek/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DeviceTokenRepository defines the interface for device token storage.
// Tokens are last-write-wins: no history is kept.
type DeviceTokenRepository interface {
	Upsert(userID uint, token string) error
	GetByUserID(userID uint) (string, error)
	Delete(userID uint) error
}

type postgresDeviceTokenRepository struct {
	db *gorm.DB
}

func NewPostgresDeviceTokenRepository(db *gorm.DB) DeviceTokenRepository {
	return &postgresDeviceTokenRepository{db: db}
}

func (r *postgresDeviceTokenRepository) Upsert(userID uint, token string) error {
	record := models.DeviceToken{UserID: userID, Token: token}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"token", "updated_at"}),
	}).Create(&record).Error
}

func (r *postgresDeviceTokenRepository) GetByUserID(userID uint) (string, error) {
	var record models.DeviceToken
	if err := r.db.First(&record, "user_id = ?", userID).Error; err != nil {
		return "", err
	}
	return record.Token, nil
}

func (r *postgresDeviceTokenRepository) Delete(userID uint) error {
	return r.db.Delete(&models.DeviceToken{}, "user_id = ?", userID).Error
}
