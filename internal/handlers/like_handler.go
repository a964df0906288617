package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/reelweek/backend/internal/models"
	"github.com/reelweek/backend/internal/notify"
	"github.com/reelweek/backend/internal/repositories"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	likeRepository  repositories.LikeRepository
	videoRepository repositories.VideoRepository // To update like counts and resolve recipients
	notifier        *notify.Writer
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(likeRepo repositories.LikeRepository, videoRepo repositories.VideoRepository, notifier *notify.Writer) *LikeHandler {
	return &LikeHandler{
		likeRepository:  likeRepo,
		videoRepository: videoRepo,
		notifier:        notifier,
	}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/videos/:video_id/likes", h.LikeVideo)
	g.DELETE("/videos/:video_id/likes", h.UnlikeVideo)
	g.GET("/videos/:video_id/likes/count", h.GetLikesCountForVideo)
	g.GET("/videos/:video_id/likes/status", h.GetUserLikeStatusForVideo)
}

// LikeVideo handles liking a video
func (h *LikeHandler) LikeVideo(c echo.Context) error {
	session := currentSession(c)
	if session.UserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	videoID := c.Param("video_id")

	// Verify video exists
	video, err := h.videoRepository.GetVideoByID(c.Request().Context(), videoID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Video not found")
	}

	// Check if user has already liked the video
	hasLiked, err := h.likeRepository.HasUserLikedVideo(videoID, session.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if hasLiked {
		return echo.NewHTTPError(http.StatusConflict, "Video already liked by this user")
	}

	like := &models.Like{
		VideoID: videoID,
		UserID:  session.UserID,
	}

	if err := h.likeRepository.CreateLike(like); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// The request context is canceled once the handler returns; background
	// work needs a detached context to outlive it.
	bgCtx := context.WithoutCancel(c.Request().Context())

	// Increment likes count in the video
	go h.videoRepository.IncrementLikesCount(bgCtx, videoID)

	// Fan the like out to the video owner, best-effort
	go h.notifier.Publish(bgCtx, notify.Event{
		Kind:              models.NotificationTypeLike,
		RecipientID:       video.UserID,
		Sender:            session,
		VideoID:           videoID,
		VideoThumbnailURL: video.ThumbnailURL,
	})

	return c.JSON(http.StatusCreated, like)
}

// UnlikeVideo handles removing a like from a video
func (h *LikeHandler) UnlikeVideo(c echo.Context) error {
	session := currentSession(c)
	if session.UserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	videoID := c.Param("video_id")

	// Verify video exists
	_, err := h.videoRepository.GetVideoByID(c.Request().Context(), videoID)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Video not found")
	}

	if err := h.likeRepository.DeleteLike(videoID, session.UserID); err != nil {
		if err.Error() == "like not found" {
			return echo.NewHTTPError(http.StatusNotFound, "Like not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Decrement likes count in the video
	go h.videoRepository.DecrementLikesCount(context.WithoutCancel(c.Request().Context()), videoID)

	return c.NoContent(http.StatusNoContent)
}

// GetLikesCountForVideo retrieves the total number of likes for a video
func (h *LikeHandler) GetLikesCountForVideo(c echo.Context) error {
	videoID := c.Param("video_id")

	count, err := h.likeRepository.GetLikesCountByVideoID(videoID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"video_id": videoID, "count": count})
}

// GetUserLikeStatusForVideo reports whether the caller has liked a video
func (h *LikeHandler) GetUserLikeStatusForVideo(c echo.Context) error {
	session := currentSession(c)
	if session.UserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	videoID := c.Param("video_id")

	hasLiked, err := h.likeRepository.HasUserLikedVideo(videoID, session.UserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"video_id": videoID, "liked": hasLiked})
}
