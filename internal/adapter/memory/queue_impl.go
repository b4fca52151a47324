package memory

import (
	"context"
	"sync"

	"github.com/user/sitekit/internal/entity"
	"github.com/user/sitekit/internal/repository"
)

// QueueRepoImpl is an in-process FIFO implementation of repository.CommandQueue.
type QueueRepoImpl struct {
	mu    sync.Mutex
	items []entity.Command
}

// NewQueueRepo creates an empty in-memory queue.
func NewQueueRepo() *QueueRepoImpl {
	return &QueueRepoImpl{}
}

// Push appends a command to the back of the queue.
func (q *QueueRepoImpl) Push(_ context.Context, cmd entity.Command) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, cmd)
	return nil
}

// Pop removes the command at the front of the queue.
func (q *QueueRepoImpl) Pop(_ context.Context) (entity.Command, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return entity.Command{}, repository.ErrQueueEmpty
	}
	cmd := q.items[0]
	q.items[0] = entity.Command{}
	q.items = q.items[1:]
	return cmd, nil
}

// Size returns the number of queued commands.
func (q *QueueRepoImpl) Size(_ context.Context) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return int64(len(q.items)), nil
}
