package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baechuer/real-time-ressys/services/event-console/internal/domain"
)

var launch = domain.Event{ID: "1", Name: "Launch", Date: "2026-05-01", Location: "Hall A", Organizer: "Ana"}

func newTestClient(t *testing.T, opts ...Option) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	c, err := New("redis://"+mr.Addr(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestClient_SetGetDelete(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	_, found, err := c.GetEvent(ctx, "1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.SetEvent(ctx, launch, time.Minute))
	assert.True(t, mr.Exists("eventapi:event:1"))

	got, found, err := c.GetEvent(ctx, "1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, launch, got)

	require.NoError(t, c.DeleteEvents(ctx, "1"))
	_, found, err = c.GetEvent(ctx, "1")
	require.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, c.DeleteEvents(ctx))
}

func TestClient_KeyPrefix(t *testing.T) {
	c, mr := newTestClient(t, WithKeyPrefix("test:"))

	require.NoError(t, c.SetEvent(context.Background(), launch, time.Minute))
	assert.True(t, mr.Exists("test:1"))
	assert.Equal(t, "test:1", c.Key("1"))
}

func TestClient_SetEventRequiresID(t *testing.T) {
	c, _ := newTestClient(t)
	assert.Error(t, c.SetEvent(context.Background(), domain.Event{Name: "x"}, time.Minute))
}

func TestClient_TTL(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.SetEvent(ctx, launch, time.Second))
	mr.FastForward(2 * time.Second)

	_, found, err := c.GetEvent(ctx, "1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestClient_CorruptValueIsDropped(t *testing.T) {
	c, mr := newTestClient(t)
	require.NoError(t, mr.Set("eventapi:event:1", "{not json"))

	_, found, err := c.GetEvent(context.Background(), "1")
	assert.Error(t, err)
	assert.False(t, found)
	assert.False(t, mr.Exists("eventapi:event:1"))
}

func TestClient_MismatchedIDIsDropped(t *testing.T) {
	c, mr := newTestClient(t)
	require.NoError(t, mr.Set("eventapi:event:1", `{"id":"2","name":"Other"}`))

	_, found, err := c.GetEvent(context.Background(), "1")
	assert.Error(t, err)
	assert.False(t, found)
	assert.False(t, mr.Exists("eventapi:event:1"))
}

func TestNew_BadURL(t *testing.T) {
	_, err := New("::not a url")
	assert.Error(t, err)
}
