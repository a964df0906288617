package notify

import (
	"context"
	"testing"
	"time"

	"github.com/reelweek/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForDispatch(t *testing.T, d *fakeDispatcher) dispatchCall {
	t.Helper()
	select {
	case call := <-d.calls:
		return call
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for push dispatch")
		return dispatchCall{}
	}
}

func assertNoDispatch(t *testing.T, d *fakeDispatcher) {
	t.Helper()
	select {
	case call := <-d.calls:
		t.Fatalf("unexpected push dispatch: %+v", call)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestPublishSelfEventIsSilentNoOp(t *testing.T) {
	repo := newFakeNotificationRepo()
	dispatcher := newFakeDispatcher()
	w := NewWriter(repo, NewFeed(repo), dispatcher)

	w.Publish(context.Background(), Event{
		Kind:        models.NotificationTypeLike,
		RecipientID: 7,
		Sender:      models.Session{UserID: 7, Name: "alice"},
		VideoID:     "v1",
	})

	records, err := repo.Window(7, WindowSize)
	require.NoError(t, err)
	assert.Empty(t, records, "self events must never be persisted")
	assertNoDispatch(t, dispatcher)
}

func TestPublishLikeCreatesRecordAndOnePush(t *testing.T) {
	repo := newFakeNotificationRepo()
	dispatcher := newFakeDispatcher()
	w := NewWriter(repo, NewFeed(repo), dispatcher)

	w.Publish(context.Background(), Event{
		Kind:              models.NotificationTypeLike,
		RecipientID:       2,
		Sender:            models.Session{UserID: 1, Name: "alice", ProfileImageURL: "https://cdn/a.jpg"},
		VideoID:           "v1",
		VideoThumbnailURL: "https://cdn/v1.jpg",
	})

	records, err := repo.Window(2, WindowSize)
	require.NoError(t, err)
	require.Len(t, records, 1)

	n := records[0]
	assert.NotEmpty(t, n.ID)
	assert.Equal(t, models.NotificationTypeLike, n.Type)
	assert.Equal(t, uint(2), n.RecipientID)
	assert.Equal(t, uint(1), n.SenderID)
	assert.Equal(t, "alice", n.SenderName)
	assert.False(t, n.IsRead, "new notifications start unread")
	require.NotNil(t, n.VideoID)
	assert.Equal(t, "v1", *n.VideoID)
	require.NotNil(t, n.VideoThumbnailURL)
	assert.Nil(t, n.CommentText)
	assert.False(t, n.CreatedAt.IsZero())

	call := waitForDispatch(t, dispatcher)
	assert.Equal(t, uint(2), call.RecipientID)
	assert.Contains(t, call.Title, "liked your video")
	assert.Equal(t, models.NotificationTypeLike, call.Data["type"])
	assert.Equal(t, "v1", call.Data["videoId"])
	assertNoDispatch(t, dispatcher)
}

func TestPublishCommentCarriesText(t *testing.T) {
	repo := newFakeNotificationRepo()
	dispatcher := newFakeDispatcher()
	w := NewWriter(repo, NewFeed(repo), dispatcher)

	w.Publish(context.Background(), Event{
		Kind:              models.NotificationTypeComment,
		RecipientID:       2,
		Sender:            models.Session{UserID: 1, Name: "alice"},
		VideoID:           "v1",
		VideoThumbnailURL: "https://cdn/v1.jpg",
		CommentText:       "great video!",
	})

	records, err := repo.Window(2, WindowSize)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.NotNil(t, records[0].CommentText)
	assert.Equal(t, "great video!", *records[0].CommentText)
	require.NotNil(t, records[0].VideoID)

	call := waitForDispatch(t, dispatcher)
	assert.Contains(t, call.Body, "great video!")
}

func TestPublishFollowHasNoVideoFields(t *testing.T) {
	repo := newFakeNotificationRepo()
	dispatcher := newFakeDispatcher()
	w := NewWriter(repo, NewFeed(repo), dispatcher)

	w.Publish(context.Background(), Event{
		Kind:        models.NotificationTypeFollow,
		RecipientID: 2,
		Sender:      models.Session{UserID: 1, Name: "alice"},
	})

	records, err := repo.Window(2, WindowSize)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Nil(t, records[0].VideoID)
	assert.Nil(t, records[0].VideoThumbnailURL)
	assert.Nil(t, records[0].CommentText)

	call := waitForDispatch(t, dispatcher)
	assert.Contains(t, call.Title, "started following you")
}

func TestPublishUnknownKindIsDropped(t *testing.T) {
	repo := newFakeNotificationRepo()
	dispatcher := newFakeDispatcher()
	w := NewWriter(repo, NewFeed(repo), dispatcher)

	w.Publish(context.Background(), Event{
		Kind:        "mention",
		RecipientID: 2,
		Sender:      models.Session{UserID: 1, Name: "alice"},
	})

	records, err := repo.Window(2, WindowSize)
	require.NoError(t, err)
	assert.Empty(t, records)
	assertNoDispatch(t, dispatcher)
}

func TestPublishPersistFailureSkipsPush(t *testing.T) {
	repo := newFakeNotificationRepo()
	repo.failCreate = true
	dispatcher := newFakeDispatcher()
	w := NewWriter(repo, NewFeed(repo), dispatcher)

	w.Publish(context.Background(), Event{
		Kind:        models.NotificationTypeFollow,
		RecipientID: 2,
		Sender:      models.Session{UserID: 1, Name: "alice"},
	})

	assertNoDispatch(t, dispatcher)
}

func TestPublishCreatedAtNonDecreasing(t *testing.T) {
	repo := newFakeNotificationRepo()
	dispatcher := newFakeDispatcher()
	w := NewWriter(repo, NewFeed(repo), dispatcher)

	for i := 0; i < 5; i++ {
		w.Publish(context.Background(), Event{
			Kind:        models.NotificationTypeFollow,
			RecipientID: 2,
			Sender:      models.Session{UserID: uint(10 + i), Name: "user"},
		})
	}

	records, err := repo.Window(2, WindowSize)
	require.NoError(t, err)
	require.Len(t, records, 5)
	// Window is newest-first
	for i := 1; i < len(records); i++ {
		assert.False(t, records[i-1].CreatedAt.Before(records[i].CreatedAt))
	}
}
