// Package render defines the boundary to the slide rendering collaborator.
// Actual pixel rendering (styling, typography, export resolution) lives in
// the editor frontend; this package only turns an ordered slide list into an
// ordered asset list and decides what a missing render means.
package render

import (
	"context"
	"fmt"

	"carousel-studio/internal/common/errors"
	"carousel-studio/internal/models"
)

// Renderer produces a fixed-resolution image for one slide. It must be
// deterministic for the same slide and styling settings. A nil/empty image
// or an error means the slide could not be rendered.
type Renderer interface {
	RenderSlide(ctx context.Context, slide models.Slide) ([]byte, error)
}

// CollectAssets renders every slide in order and assigns ordinals by
// position. A failed or empty render aborts collection: silently skipping a
// slide would shift every later ordinal and publish a carousel missing a
// page with no visible error.
func CollectAssets(ctx context.Context, r Renderer, slides []models.Slide) ([]models.PublishableAsset, error) {
	assets := make([]models.PublishableAsset, 0, len(slides))
	for i, slide := range slides {
		img, err := r.RenderSlide(ctx, slide)
		if err != nil {
			return nil, errors.NewRenderFailedError(i, err)
		}
		if len(img) == 0 {
			return nil, errors.NewRenderFailedError(i, fmt.Errorf("renderer produced no image"))
		}
		assets = append(assets, models.PublishableAsset{
			Ordinal:     i,
			Image:       img,
			ContentType: "image/png",
		})
	}
	return assets, nil
}

// Stub is a deterministic renderer for tests and the demo path. The "image"
// is a small placeholder payload derived from the slide content, stable
// across calls.
type Stub struct{}

func (Stub) RenderSlide(_ context.Context, slide models.Slide) ([]byte, error) {
	return []byte(fmt.Sprintf("stub-png:%d:%s", slide.Ordinal, slide.Title)), nil
}
