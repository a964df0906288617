package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/reelweek/backend/internal/models"
	"github.com/reelweek/backend/internal/notify"
	"github.com/reelweek/backend/internal/repositories"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	videoRepository   repositories.VideoRepository
	userRepository    repositories.UserRepository
	notifier          *notify.Writer
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(commentRepo repositories.CommentRepository, videoRepo repositories.VideoRepository, userRepo repositories.UserRepository, notifier *notify.Writer) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		videoRepository:   videoRepo,
		userRepository:    userRepo,
		notifier:          notifier,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/videos/:video_id/comments", h.CreateComment)
	g.GET("/videos/:video_id/comments", h.GetCommentsForVideo)
	g.DELETE("/comments/:id", h.DeleteComment)
}

// EnrichedComment includes author display info
type EnrichedComment struct {
	models.Comment
	Author models.UserCompact `json:"author"`
}

// CreateComment handles commenting on a video
func (h *CommentHandler) CreateComment(c echo.Context) error {
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

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	comment := &models.Comment{
		VideoID: videoID,
		UserID:  session.UserID,
		Content: req.Content,
	}

	if err := h.commentRepository.CreateComment(comment); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// The request context is canceled once the handler returns; background
	// work needs a detached context to outlive it.
	bgCtx := context.WithoutCancel(c.Request().Context())

	// Increment comments count in the video
	go h.videoRepository.IncrementCommentsCount(bgCtx, videoID)

	// Fan the comment out to the video owner, best-effort
	go h.notifier.Publish(bgCtx, notify.Event{
		Kind:              models.NotificationTypeComment,
		RecipientID:       video.UserID,
		Sender:            session,
		VideoID:           videoID,
		VideoThumbnailURL: video.ThumbnailURL,
		CommentText:       req.Content,
	})

	return c.JSON(http.StatusCreated, comment)
}

// GetCommentsForVideo retrieves all comments for a video with author info
func (h *CommentHandler) GetCommentsForVideo(c echo.Context) error {
	videoID := c.Param("video_id")

	comments, err := h.commentRepository.GetCommentsByVideoID(videoID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	enriched := make([]EnrichedComment, len(comments))
	userCache := make(map[uint]models.UserCompact)
	for i, comment := range comments {
		enriched[i] = EnrichedComment{Comment: comment}
		if author, ok := userCache[comment.UserID]; ok {
			enriched[i].Author = author
		} else if user, err := h.userRepository.GetUserByID(comment.UserID); err == nil {
			compact := user.ToCompact()
			userCache[comment.UserID] = compact
			enriched[i].Author = compact
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": enriched})
}

// DeleteComment handles deleting one of the caller's own comments
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	session := currentSession(c)
	if session.UserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	commentID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid comment ID")
	}

	comment, err := h.commentRepository.GetCommentByID(uint(commentID))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Comment not found")
	}
	if comment.UserID != session.UserID {
		return echo.NewHTTPError(http.StatusForbidden, "Cannot delete another user's comment")
	}

	if err := h.commentRepository.DeleteComment(uint(commentID)); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// Decrement comments count in the video
	go h.videoRepository.DecrementCommentsCount(context.WithoutCancel(c.Request().Context()), comment.VideoID)

	return c.NoContent(http.StatusNoContent)
}
