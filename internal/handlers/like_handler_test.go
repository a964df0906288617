package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/reelweek/backend/internal/models"
	"github.com/reelweek/backend/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeVideoRepo serves a single video and records the context each counter
// update runs under.
type fakeVideoRepo struct {
	video       models.Video
	counterCtxs chan context.Context
}

func newFakeVideoRepo(ownerID uint) *fakeVideoRepo {
	return &fakeVideoRepo{
		video: models.Video{
			ID:           primitive.NewObjectID(),
			UserID:       ownerID,
			ThumbnailURL: "https://cdn.example.com/thumb.jpg",
		},
		counterCtxs: make(chan context.Context, 1),
	}
}

func (r *fakeVideoRepo) CreateVideo(ctx context.Context, video *models.Video) error { return nil }

func (r *fakeVideoRepo) GetVideoByID(ctx context.Context, id string) (*models.Video, error) {
	v := r.video
	return &v, nil
}

func (r *fakeVideoRepo) GetVideosByUserID(ctx context.Context, userID uint, skip, limit int64) ([]models.Video, error) {
	return nil, nil
}

func (r *fakeVideoRepo) GetRecentVideos(ctx context.Context, skip, limit int64) ([]models.Video, error) {
	return nil, nil
}

func (r *fakeVideoRepo) DeleteVideo(ctx context.Context, id string) error { return nil }

func (r *fakeVideoRepo) IncrementLikesCount(ctx context.Context, videoID string) error {
	r.counterCtxs <- ctx
	return nil
}

func (r *fakeVideoRepo) DecrementLikesCount(ctx context.Context, videoID string) error {
	r.counterCtxs <- ctx
	return nil
}

func (r *fakeVideoRepo) IncrementCommentsCount(ctx context.Context, videoID string) error {
	r.counterCtxs <- ctx
	return nil
}

func (r *fakeVideoRepo) DecrementCommentsCount(ctx context.Context, videoID string) error {
	r.counterCtxs <- ctx
	return nil
}

type fakeLikeRepo struct{}

func (r *fakeLikeRepo) CreateLike(like *models.Like) error                 { return nil }
func (r *fakeLikeRepo) DeleteLike(videoID string, userID uint) error       { return nil }
func (r *fakeLikeRepo) GetLikesCountByVideoID(videoID string) (int64, error) { return 0, nil }
func (r *fakeLikeRepo) HasUserLikedVideo(videoID string, userID uint) (bool, error) {
	return false, nil
}

type fakeCommentRepo struct {
	comment models.Comment
}

func (r *fakeCommentRepo) CreateComment(comment *models.Comment) error { return nil }
func (r *fakeCommentRepo) GetCommentByID(id uint) (*models.Comment, error) {
	c := r.comment
	return &c, nil
}
func (r *fakeCommentRepo) GetCommentsByVideoID(videoID string) ([]models.Comment, error) {
	return nil, nil
}
func (r *fakeCommentRepo) DeleteComment(id uint) error { return nil }

type fakeUserRepo struct{}

func (r *fakeUserRepo) CreateUser(user *models.User) error    { return nil }
func (r *fakeUserRepo) GetUserByID(id uint) (*models.User, error) {
	return &models.User{}, nil
}
func (r *fakeUserRepo) GetUserByEmail(email string) (*models.User, error) {
	return &models.User{}, nil
}
func (r *fakeUserRepo) GetUserByFirebaseUID(firebaseUID string) (*models.User, error) {
	return &models.User{}, nil
}
func (r *fakeUserRepo) UpdateUser(user *models.User) error            { return nil }
func (r *fakeUserRepo) SearchUsers(query string) ([]models.User, error) { return nil, nil }

// stubNotificationRepo satisfies the notification store with no-ops so a
// real notify.Writer can be wired into handler tests.
type stubNotificationRepo struct{}

func (r *stubNotificationRepo) Create(n *models.Notification) error { return nil }
func (r *stubNotificationRepo) GetByID(id string) (*models.Notification, error) {
	return nil, nil
}
func (r *stubNotificationRepo) Window(recipientID uint, limit int) ([]models.Notification, error) {
	return nil, nil
}
func (r *stubNotificationRepo) GetByRecipientID(recipientID uint, page, limit int) ([]models.Notification, int64, error) {
	return nil, 0, nil
}
func (r *stubNotificationRepo) MarkAsRead(id string) error       { return nil }
func (r *stubNotificationRepo) MarkManyAsRead(ids []string) error { return nil }
func (r *stubNotificationRepo) Delete(id string) error            { return nil }

type noopDispatcher struct{}

func (noopDispatcher) Dispatch(ctx context.Context, recipientID uint, title, body string, data map[string]string) {
}

func newTestNotifier() *notify.Writer {
	repo := &stubNotificationRepo{}
	return notify.NewWriter(repo, notify.NewFeed(repo), noopDispatcher{})
}

func waitForCounterCtx(t *testing.T, ch chan context.Context) context.Context {
	t.Helper()
	select {
	case ctx := <-ch:
		return ctx
	case <-time.After(2 * time.Second):
		t.Fatal("counter update never ran")
		return nil
	}
}

// The server cancels the request context as soon as the handler returns, so
// counter updates launched in the background must run under a detached
// context or they fail with context.Canceled.
func TestLikeVideoCounterUpdateSurvivesRequestCancel(t *testing.T) {
	videoRepo := newFakeVideoRepo(7)
	h := NewLikeHandler(&fakeLikeRepo{}, videoRepo, newTestNotifier())

	e := echo.New()
	reqCtx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodPost, "/", nil).WithContext(reqCtx)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("video_id")
	c.SetParamValues(videoRepo.video.ID.Hex())
	c.Set("session", models.Session{UserID: 3, Name: "ana"})

	require.NoError(t, h.LikeVideo(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	cancel()

	got := waitForCounterCtx(t, videoRepo.counterCtxs)
	assert.NoError(t, got.Err(), "counter update must not observe the request cancellation")
}

func TestUnlikeVideoCounterUpdateSurvivesRequestCancel(t *testing.T) {
	videoRepo := newFakeVideoRepo(7)
	h := NewLikeHandler(&fakeLikeRepo{}, videoRepo, newTestNotifier())

	e := echo.New()
	reqCtx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodDelete, "/", nil).WithContext(reqCtx)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("video_id")
	c.SetParamValues(videoRepo.video.ID.Hex())
	c.Set("session", models.Session{UserID: 3, Name: "ana"})

	require.NoError(t, h.UnlikeVideo(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	cancel()

	got := waitForCounterCtx(t, videoRepo.counterCtxs)
	assert.NoError(t, got.Err())
}

func TestCreateCommentCounterUpdateSurvivesRequestCancel(t *testing.T) {
	videoRepo := newFakeVideoRepo(7)
	h := NewCommentHandler(&fakeCommentRepo{}, videoRepo, &fakeUserRepo{}, newTestNotifier())

	e := echo.New()
	reqCtx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"content":"nice one"}`)).WithContext(reqCtx)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("video_id")
	c.SetParamValues(videoRepo.video.ID.Hex())
	c.Set("session", models.Session{UserID: 3, Name: "ana"})

	require.NoError(t, h.CreateComment(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	cancel()

	got := waitForCounterCtx(t, videoRepo.counterCtxs)
	assert.NoError(t, got.Err())
}

func TestDeleteCommentCounterUpdateSurvivesRequestCancel(t *testing.T) {
	videoRepo := newFakeVideoRepo(7)
	commentRepo := &fakeCommentRepo{comment: models.Comment{VideoID: videoRepo.video.ID.Hex(), UserID: 3}}
	commentRepo.comment.ID = 12
	h := NewCommentHandler(commentRepo, videoRepo, &fakeUserRepo{}, newTestNotifier())

	e := echo.New()
	reqCtx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodDelete, "/", nil).WithContext(reqCtx)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("12")
	c.Set("session", models.Session{UserID: 3, Name: "ana"})

	require.NoError(t, h.DeleteComment(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	cancel()

	got := waitForCounterCtx(t, videoRepo.counterCtxs)
	assert.NoError(t, got.Err())
}
