package repository

import (
	"context"

	"github.com/user/sitekit/internal/entity"
)

// Collector defines the contract for the vendor analytics backend.
type Collector interface {
	// Collect delivers one queued command to the backend.
	Collect(ctx context.Context, cmd entity.Command) error
}
