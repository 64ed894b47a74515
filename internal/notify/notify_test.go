package notify_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/able2/able2-cli/internal/notify"
)

func TestPublishReplacesTheSingleSlot(t *testing.T) {
	ch := notify.New(time.Hour)
	ch.Publish(notify.LevelInfo, "first")
	ch.Publish(notify.LevelError, "second")

	n := ch.Current()
	require.NotNil(t, n)
	assert.Equal(t, "second", n.Message)
	assert.Equal(t, notify.LevelError, n.Level)
}

func TestNotificationExpiresAfterTTL(t *testing.T) {
	ch := notify.New(20 * time.Millisecond)
	ch.Publish(notify.LevelInfo, "transient")
	require.NotNil(t, ch.Current())

	assert.Eventually(t, func() bool { return ch.Current() == nil },
		time.Second, 5*time.Millisecond)
}

func TestSubscriberObservesEveryPublish(t *testing.T) {
	ch := notify.New(time.Hour)
	var seen []string
	ch.Subscribe(func(n notify.Notification) { seen = append(seen, n.Message) })

	ch.Publish(notify.LevelInfo, "one")
	ch.Publish(notify.LevelSuccess, "two")
	assert.Equal(t, []string{"one", "two"}, seen)
}

func TestReplacementOutlivesTheOldTimer(t *testing.T) {
	ch := notify.New(30 * time.Millisecond)
	ch.Publish(notify.LevelInfo, "old")
	time.Sleep(15 * time.Millisecond)
	ch.Publish(notify.LevelInfo, "new")
	time.Sleep(20 * time.Millisecond)

	// Old TTL has elapsed; the replacement must still be live.
	n := ch.Current()
	require.NotNil(t, n)
	assert.Equal(t, "new", n.Message)
}
