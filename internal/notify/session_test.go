package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionsGetReturnsSameSessionPerUser(t *testing.T) {
	repo := newFakeNotificationRepo()
	sessions := NewSessions(NewFeed(repo), repo)

	first := sessions.Get(1)
	second := sessions.Get(1)
	other := sessions.Get(2)

	assert.Same(t, first, second, "exactly one session per signed-in user")
	assert.NotSame(t, first, other)

	sessions.Close(1)
	sessions.Close(2)
}

func TestSessionStateTracksSubscription(t *testing.T) {
	repo := newFakeNotificationRepo()
	feed := NewFeed(repo)
	sessions := NewSessions(feed, repo)
	defer sessions.Close(1)

	sess := sessions.Get(1)

	seedNotification(repo, 1, "a", false, time.Now())
	feed.Notify(1)

	require.Eventually(t, func() bool {
		return sess.State().UnreadCount() == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.True(t, sess.State().HasUnread())
}

func TestWatchDeliversCurrentAndLatestSnapshots(t *testing.T) {
	repo := newFakeNotificationRepo()
	feed := NewFeed(repo)
	sessions := NewSessions(feed, repo)
	defer sessions.Close(1)

	sess := sessions.Get(1)
	snapshots, cancel := sess.Watch()
	defer cancel()

	snap := recvSnapshot(t, snapshots)
	assert.Equal(t, 0, snap.UnreadCount)

	seedNotification(repo, 1, "a", false, time.Now())
	feed.Notify(1)

	require.Eventually(t, func() bool {
		select {
		case snap = <-snapshots:
			return snap.UnreadCount == 1
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
}

func TestCloseTearsDownSubscription(t *testing.T) {
	repo := newFakeNotificationRepo()
	feed := NewFeed(repo)
	sessions := NewSessions(feed, repo)

	sess := sessions.Get(1)
	sessions.Close(1)

	select {
	case _, ok := <-sess.sub.Snapshots():
		// drain the initial snapshot if it raced the close
		if ok {
			select {
			case _, ok = <-sess.sub.Snapshots():
				assert.False(t, ok)
			case <-time.After(2 * time.Second):
				t.Fatal("timed out waiting for subscription teardown")
			}
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for subscription teardown")
	}

	// A new Get after sign-out opens a fresh session.
	again := sessions.Get(1)
	assert.NotSame(t, sess, again)
	sessions.Close(1)
}
