package progress

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azlocal/directory/internal/importer"
)

func testPublisher(t *testing.T) (*Publisher, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	p := NewPublisherFromClient(client)
	t.Cleanup(func() { p.Close() })
	return p, mr
}

func TestPublishAndGet(t *testing.T) {
	p, _ := testPublisher(t)
	ctx := context.Background()

	snap := importer.Progress{
		RunID:     "run-1",
		Source:    "gmb-export.csv",
		Status:    "processing",
		Total:     200,
		Processed: 100,
		Failed:    3,
	}
	require.NoError(t, p.Publish(ctx, snap))

	got, err := p.Get(ctx, "run-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, snap, *got)
}

func TestPublishOverwritesSnapshot(t *testing.T) {
	p, _ := testPublisher(t)
	ctx := context.Background()

	require.NoError(t, p.Publish(ctx, importer.Progress{RunID: "run-1", Status: "processing", Processed: 50}))
	require.NoError(t, p.Publish(ctx, importer.Progress{RunID: "run-1", Status: "completed", Processed: 200}))

	got, err := p.Get(ctx, "run-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "completed", got.Status)
	assert.Equal(t, 200, got.Processed)
}

func TestGetMissingRun(t *testing.T) {
	p, _ := testPublisher(t)

	got, err := p.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPublishSetsTTL(t *testing.T) {
	p, mr := testPublisher(t)

	require.NoError(t, p.Publish(context.Background(), importer.Progress{RunID: "run-1"}))
	ttl := mr.TTL("import:progress:run-1")
	assert.Greater(t, ttl.Hours(), 23.0)
}

func TestNewPublisherBadURL(t *testing.T) {
	_, err := NewPublisher("not-a-redis-url")
	require.Error(t, err)
}
