package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/sitekit/internal/entity"
	"github.com/user/sitekit/internal/repository"
)

func TestQueueRepoFIFO(t *testing.T) {
	ctx := context.Background()
	q := NewQueueRepo()

	for _, target := range []string{"first", "second", "third"} {
		require.NoError(t, q.Push(ctx, entity.Command{Name: entity.CommandEvent, Target: target}))
	}

	size, err := q.Size(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), size)

	var got []string
	for {
		cmd, err := q.Pop(ctx)
		if err != nil {
			assert.ErrorIs(t, err, repository.ErrQueueEmpty)
			break
		}
		got = append(got, cmd.Target)
	}
	assert.Equal(t, []string{"first", "second", "third"}, got)
}

func TestQueueRepoPopEmpty(t *testing.T) {
	_, err := NewQueueRepo().Pop(context.Background())
	assert.ErrorIs(t, err, repository.ErrQueueEmpty)
}
