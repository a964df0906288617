package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/reelweek/backend/internal/models"
	"github.com/reelweek/backend/internal/repositories"
)

// VideoHandler handles HTTP requests related to weekly videos
type VideoHandler struct {
	videoRepository repositories.VideoRepository
	userRepository  repositories.UserRepository
}

// NewVideoHandler creates a new VideoHandler
func NewVideoHandler(videoRepo repositories.VideoRepository, userRepo repositories.UserRepository) *VideoHandler {
	return &VideoHandler{
		videoRepository: videoRepo,
		userRepository:  userRepo,
	}
}

// RegisterVideoRoutes registers video-related routes
func (h *VideoHandler) RegisterVideoRoutes(g *echo.Group) {
	g.POST("/videos", h.CreateVideo)
	g.GET("/videos", h.GetRecentVideos)
	g.GET("/videos/:id", h.GetVideo)
	g.GET("/users/:id/videos", h.GetUserVideos)
	g.DELETE("/videos/:id", h.DeleteVideo)
}

// CreateVideo handles posting a new weekly video
func (h *VideoHandler) CreateVideo(c echo.Context) error {
	session := currentSession(c)
	if session.UserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateVideoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}

	validate := validator.New()
	if err := validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	video := &models.Video{
		UserID:       session.UserID,
		VideoURL:     req.VideoURL,
		ThumbnailURL: req.ThumbnailURL,
		Caption:      req.Caption,
	}

	if err := h.videoRepository.CreateVideo(c.Request().Context(), video); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusCreated, video)
}

// GetVideo retrieves a single video by ID
func (h *VideoHandler) GetVideo(c echo.Context) error {
	video, err := h.videoRepository.GetVideoByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Video not found")
	}
	return c.JSON(http.StatusOK, video)
}

// GetRecentVideos retrieves the most recent videos with pagination
func (h *VideoHandler) GetRecentVideos(c echo.Context) error {
	skip, _ := strconv.ParseInt(c.QueryParam("skip"), 10, 64)
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if limit < 1 || limit > 50 {
		limit = 20
	}

	videos, err := h.videoRepository.GetRecentVideos(c.Request().Context(), skip, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": videos})
}

// GetUserVideos retrieves a user's videos with pagination
func (h *VideoHandler) GetUserVideos(c echo.Context) error {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	skip, _ := strconv.ParseInt(c.QueryParam("skip"), 10, 64)
	limit, _ := strconv.ParseInt(c.QueryParam("limit"), 10, 64)
	if limit < 1 || limit > 50 {
		limit = 20
	}

	videos, err := h.videoRepository.GetVideosByUserID(c.Request().Context(), uint(userID), skip, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "data": videos})
}

// DeleteVideo deletes one of the caller's own videos
func (h *VideoHandler) DeleteVideo(c echo.Context) error {
	session := currentSession(c)
	if session.UserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	video, err := h.videoRepository.GetVideoByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "Video not found")
	}
	if video.UserID != session.UserID {
		return echo.NewHTTPError(http.StatusForbidden, "Cannot delete another user's video")
	}

	if err := h.videoRepository.DeleteVideo(c.Request().Context(), c.Param("id")); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}
