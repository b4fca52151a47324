package repository

import "errors"

var (
	// ErrQueueEmpty is returned by CommandQueue.Pop when nothing is queued.
	ErrQueueEmpty = errors.New("command queue is empty")
	// ErrRenderTimeout is returned when a page did not finish loading in time.
	ErrRenderTimeout = errors.New("page render timed out")
	// ErrRenderFailed wraps navigation or extraction failures while rendering.
	ErrRenderFailed = errors.New("page render failed")
)
