package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type recordingNotifier struct {
	got []Notification
	err error
}

func (r *recordingNotifier) Notify(_ context.Context, n Notification) error {
	r.got = append(r.got, n)
	return r.err
}

func TestFanoutDeliversAndSwallowsFailures(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	broken := &recordingNotifier{err: errors.New("smtp down")}
	ok := &recordingNotifier{}
	onlyConversions := &recordingNotifier{}

	f := NewFanout(zap.New(core),
		Channel{Name: "email", Notifier: broken},
		Channel{Name: "log", Notifier: ok},
		Channel{Name: "telegram", Notifier: onlyConversions, Events: []string{EventLeadConverted}},
	)

	require.NoError(t, f.Notify(context.Background(), Notification{Type: NotifySuccess, Event: EventLeadCreated, Title: "Lead created"}))
	require.NoError(t, f.Notify(context.Background(), Notification{Type: NotifySuccess, Event: EventLeadConverted, Title: "Lead converted"}))

	assert.Len(t, broken.got, 2)
	assert.Len(t, ok.got, 2)
	require.Len(t, onlyConversions.got, 1)
	assert.Equal(t, "Lead converted", onlyConversions.got[0].Title)
	assert.False(t, ok.got[0].CreatedAt.IsZero())
	assert.Equal(t, 2, logs.FilterMessage("notification not delivered").Len())
}

func TestFanoutSharesIDAcrossChannels(t *testing.T) {
	feed := NewToastFeed(time.Minute)
	live := &recordingNotifier{}
	f := NewFanout(zap.NewNop(),
		Channel{Name: "toast", Notifier: feed},
		Channel{Name: "realtime", Notifier: live},
	)

	require.NoError(t, f.Notify(context.Background(), Notification{Type: NotifySuccess, Event: EventLeadCreated, Title: "Lead created"}))
	require.NoError(t, f.Notify(context.Background(), Notification{Type: NotifySuccess, Event: EventLeadUpdated, Title: "Lead updated"}))

	active := feed.Active()
	require.Len(t, active, 2)
	require.Len(t, live.got, 2)
	for i := range active {
		assert.NotEmpty(t, live.got[i].ID)
		assert.Equal(t, active[i].ID, live.got[i].ID)
		assert.Equal(t, active[i].CreatedAt, live.got[i].CreatedAt)
	}
	assert.NotEqual(t, live.got[0].ID, live.got[1].ID)
	assert.True(t, feed.Dismiss(live.got[0].ID))
}

type blockingNotifier struct {
	release chan struct{}
	done    chan error
}

func (b *blockingNotifier) Notify(ctx context.Context, _ Notification) error {
	<-b.release
	b.done <- ctx.Err()
	return nil
}

func TestFanoutAsyncChannelDoesNotBlockCaller(t *testing.T) {
	slow := &blockingNotifier{release: make(chan struct{}), done: make(chan error, 1)}
	direct := &recordingNotifier{}
	f := NewFanout(zap.NewNop(),
		Channel{Name: "email", Notifier: slow, Async: true},
		Channel{Name: "log", Notifier: direct},
	)

	ctx, cancel := context.WithCancel(context.Background())
	returned := make(chan struct{})
	go func() {
		_ = f.Notify(ctx, Notification{Event: EventLeadConverted, Title: "Lead converted"})
		close(returned)
	}()
	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("Notify waited for an async channel")
	}
	require.Len(t, direct.got, 1)

	cancel()
	close(slow.release)
	f.Wait()
	assert.NoError(t, <-slow.done)
}

func TestLogNotifier(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	n := NewLogNotifier(zap.New(core))

	require.NoError(t, n.Notify(context.Background(), Notification{Type: NotifyError, Event: EventOperationFailed, Title: "Failed", Description: "boom"}))
	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.WarnLevel, entries[0].Level)
	assert.Equal(t, "boom", entries[0].ContextMap()["description"])
}

func TestToastFeedExpiresAndDismisses(t *testing.T) {
	feed := NewToastFeed(0)
	now := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	feed.now = func() time.Time { return now }

	require.NoError(t, feed.Notify(context.Background(), Notification{Title: "first"}))
	now = now.Add(3 * time.Second)
	require.NoError(t, feed.Notify(context.Background(), Notification{Title: "second"}))

	active := feed.Active()
	require.Len(t, active, 2)
	assert.Equal(t, "toast_1", active[0].ID)

	now = now.Add(2 * time.Second)
	active = feed.Active()
	require.Len(t, active, 1)
	assert.Equal(t, "second", active[0].Title)

	assert.True(t, feed.Dismiss(active[0].ID))
	assert.False(t, feed.Dismiss("toast_404"))
	assert.Empty(t, feed.Active())
}
