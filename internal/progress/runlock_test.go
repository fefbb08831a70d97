package progress

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunLockMutualExclusion(t *testing.T) {
	p, _ := testPublisher(t)
	ctx := context.Background()

	first := p.NewRunLock("all", time.Minute)
	second := p.NewRunLock("all", time.Minute)

	held, err := first.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, held)

	held, err = second.Acquire(ctx)
	require.NoError(t, err)
	assert.False(t, held, "second holder acquired a held lock")

	require.NoError(t, first.Release(ctx))

	held, err = second.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, held, "lock not acquirable after release")
}

func TestRunLockReleaseOnlyByOwner(t *testing.T) {
	p, mr := testPublisher(t)
	ctx := context.Background()

	owner := p.NewRunLock("all", time.Minute)
	other := p.NewRunLock("all", time.Minute)

	held, err := owner.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, held)

	// A non-owner release is a no-op: the key survives.
	require.NoError(t, other.Release(ctx))
	assert.True(t, mr.Exists("import:lock:all"))

	require.NoError(t, owner.Release(ctx))
	assert.False(t, mr.Exists("import:lock:all"))
}

func TestRunLockExpires(t *testing.T) {
	p, mr := testPublisher(t)
	ctx := context.Background()

	stale := p.NewRunLock("all", time.Second)
	held, err := stale.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, held)

	mr.FastForward(2 * time.Second)

	fresh := p.NewRunLock("all", time.Minute)
	held, err = fresh.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, held, "expired lock not re-acquirable")
}
