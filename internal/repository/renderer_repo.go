package repository

import "context"

// PageRenderer defines the contract for producing the live DOM of a page.
type PageRenderer interface {
	// Render loads url and returns the serialized document after scripts ran.
	Render(ctx context.Context, url string) (string, error)
}
