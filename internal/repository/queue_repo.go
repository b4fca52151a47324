package repository

import (
	"context"

	"github.com/user/sitekit/internal/entity"
)

// CommandQueue defines the FIFO command queue drained by the vendor collector.
type CommandQueue interface {
	// Push adds a command to the end of the queue.
	Push(ctx context.Context, cmd entity.Command) error
	// Pop removes and returns the command at the front of the queue.
	// It returns ErrQueueEmpty when nothing is queued.
	Pop(ctx context.Context) (entity.Command, error)
	// Size returns the current number of queued commands.
	Size(ctx context.Context) (int64, error)
}
