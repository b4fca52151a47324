package chromedp_renderer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/user/sitekit/internal/repository"
)

func TestRenderAfterClose(t *testing.T) {
	r := NewChromedpRenderer(time.Second, nil)
	r.Close()
	r.Close()

	_, err := r.Render(context.Background(), "https://foodtruck.school")
	assert.ErrorIs(t, err, repository.ErrRenderFailed)
}
