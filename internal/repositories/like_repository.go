package repositories

import (
	"fmt"

	"github.com/reelweek/backend/internal/models"
	"gorm.io/gorm"
)

// LikeRepository defines the interface for like data operations
type LikeRepository interface {
	CreateLike(like *models.Like) error
	DeleteLike(videoID string, userID uint) error
	GetLikesCountByVideoID(videoID string) (int64, error)
	HasUserLikedVideo(videoID string, userID uint) (bool, error)
}

// PostgresLikeRepository implements LikeRepository for PostgreSQL
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

// CreateLike creates a new like in PostgreSQL
func (r *PostgresLikeRepository) CreateLike(like *models.Like) error {
	return r.db.Create(like).Error
}

// DeleteLike deletes a like from PostgreSQL
func (r *PostgresLikeRepository) DeleteLike(videoID string, userID uint) error {
	res := r.db.Where("video_id = ? AND user_id = ?", videoID, userID).Delete(&models.Like{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("like not found")
	}
	return nil
}

// GetLikesCountByVideoID retrieves the count of likes for a specific video
func (r *PostgresLikeRepository) GetLikesCountByVideoID(videoID string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Like{}).Where("video_id = ?", videoID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// HasUserLikedVideo checks whether a user has already liked a video
func (r *PostgresLikeRepository) HasUserLikedVideo(videoID string, userID uint) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Like{}).Where("video_id = ? AND user_id = ?", videoID, userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
