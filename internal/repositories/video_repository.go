package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/reelweek/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// VideoRepository defines the interface for video data operations
type VideoRepository interface {
	CreateVideo(ctx context.Context, video *models.Video) error
	GetVideoByID(ctx context.Context, id string) (*models.Video, error)
	GetVideosByUserID(ctx context.Context, userID uint, skip, limit int64) ([]models.Video, error)
	GetRecentVideos(ctx context.Context, skip, limit int64) ([]models.Video, error)
	DeleteVideo(ctx context.Context, id string) error
	IncrementLikesCount(ctx context.Context, videoID string) error
	DecrementLikesCount(ctx context.Context, videoID string) error
	IncrementCommentsCount(ctx context.Context, videoID string) error
	DecrementCommentsCount(ctx context.Context, videoID string) error
}

// MongoVideoRepository implements VideoRepository for MongoDB
type MongoVideoRepository struct {
	collection *mongo.Collection
}

// NewMongoVideoRepository creates a new MongoVideoRepository
func NewMongoVideoRepository(db *mongo.Database) *MongoVideoRepository {
	return &MongoVideoRepository{collection: db.Collection("videos")}
}

// CreateVideo creates a new video document in MongoDB
func (r *MongoVideoRepository) CreateVideo(ctx context.Context, video *models.Video) error {
	video.ID = primitive.NewObjectID()
	video.CreatedAt = time.Now()
	video.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, video)
	return err
}

// GetVideoByID retrieves a video by ID from MongoDB
func (r *MongoVideoRepository) GetVideoByID(ctx context.Context, id string) (*models.Video, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid video ID format: %w", err)
	}

	var video models.Video
	err = r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&video)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("video not found")
		}
		return nil, err
	}
	return &video, nil
}

// GetVideosByUserID retrieves videos by a specific user from MongoDB
func (r *MongoVideoRepository) GetVideosByUserID(ctx context.Context, userID uint, skip, limit int64) ([]models.Video, error) {
	var videos []models.Video
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &videos); err != nil {
		return nil, err
	}
	return videos, nil
}

// GetRecentVideos retrieves the most recent videos from MongoDB with pagination
func (r *MongoVideoRepository) GetRecentVideos(ctx context.Context, skip, limit int64) ([]models.Video, error) {
	var videos []models.Video
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &videos); err != nil {
		return nil, err
	}
	return videos, nil
}

// DeleteVideo deletes a video by ID from MongoDB
func (r *MongoVideoRepository) DeleteVideo(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid video ID format: %w", err)
	}

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("video not found")
	}
	return nil
}

func (r *MongoVideoRepository) updateCounter(ctx context.Context, videoID, field string, delta int64) error {
	objID, err := primitive.ObjectIDFromHex(videoID)
	if err != nil {
		return fmt.Errorf("invalid video ID format: %w", err)
	}

	update := bson.M{"$inc": bson.M{field: delta}}
	_, err = r.collection.UpdateOne(ctx, bson.M{"_id": objID}, update)
	return err
}

// IncrementLikesCount increments the likes counter of a video
func (r *MongoVideoRepository) IncrementLikesCount(ctx context.Context, videoID string) error {
	return r.updateCounter(ctx, videoID, "likes_count", 1)
}

// DecrementLikesCount decrements the likes counter of a video
func (r *MongoVideoRepository) DecrementLikesCount(ctx context.Context, videoID string) error {
	return r.updateCounter(ctx, videoID, "likes_count", -1)
}

// IncrementCommentsCount increments the comments counter of a video
func (r *MongoVideoRepository) IncrementCommentsCount(ctx context.Context, videoID string) error {
	return r.updateCounter(ctx, videoID, "comments_count", 1)
}

// DecrementCommentsCount decrements the comments counter of a video
func (r *MongoVideoRepository) DecrementCommentsCount(ctx context.Context, videoID string) error {
	return r.updateCounter(ctx, videoID, "comments_count", -1)
}
