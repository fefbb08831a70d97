// Package progress publishes import run progress to Redis so dashboards
// can follow a long-running import without polling the store.
package progress

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/azlocal/directory/internal/importer"
)

// keyTTL keeps finished runs visible for a day before Redis expires them.
const keyTTL = 24 * time.Hour

// Publisher writes one JSON snapshot per run under import:progress:<runID>.
type Publisher struct {
	client *redis.Client
}

// NewPublisher connects a publisher to Redis via URL
// (redis://host:port/db).
func NewPublisher(url string) (*Publisher, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &Publisher{client: redis.NewClient(opts)}, nil
}

// NewPublisherFromClient wraps an existing client, for tests.
func NewPublisherFromClient(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// Publish stores the latest snapshot for the run.
func (p *Publisher) Publish(ctx context.Context, prog importer.Progress) error {
	data, err := json.Marshal(prog)
	if err != nil {
		return err
	}
	return p.client.Set(ctx, key(prog.RunID), data, keyTTL).Err()
}

// Get returns the last published snapshot for a run, or nil when none
// exists.
func (p *Publisher) Get(ctx context.Context, runID string) (*importer.Progress, error) {
	data, err := p.client.Get(ctx, key(runID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var prog importer.Progress
	if err := json.Unmarshal(data, &prog); err != nil {
		return nil, err
	}
	return &prog, nil
}

// Close releases the underlying connection.
func (p *Publisher) Close() error { return p.client.Close() }

func key(runID string) string { return "import:progress:" + runID }
