// Package hosting turns rendered slide images into publicly fetchable URLs.
// The Graph API pulls container images by URL, so every asset must land
// somewhere public before container creation.
//
// The simulated uploader exists because no hosting backend is assumed to be
// available: it fabricates a plausible URL after a realistic delay so the
// rest of the workflow sequences exactly as it would against real hosting.
// This is a permanent design property of the demo path, not a stopgap.
package hosting

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"carousel-studio/internal/models"
)

// Uploader stores one asset and returns its public location.
type Uploader interface {
	Upload(ctx context.Context, asset models.PublishableAsset) (models.RemoteImageRef, error)
}

// Simulated fabricates stand-in URLs without any network traffic.
type Simulated struct {
	// Delay per upload, emulating sequential network latency. Zero is
	// allowed (tests).
	Delay time.Duration
	// BaseURL defaults to the demo CDN prefix.
	BaseURL string
}

const demoCDNBaseURL = "https://cdn.carouselstudio.app/demo"

func NewSimulated(delay time.Duration) *Simulated {
	return &Simulated{Delay: delay, BaseURL: demoCDNBaseURL}
}

func (s *Simulated) Upload(ctx context.Context, asset models.PublishableAsset) (models.RemoteImageRef, error) {
	if s.Delay > 0 {
		select {
		case <-time.After(s.Delay):
		case <-ctx.Done():
			return models.RemoteImageRef{}, ctx.Err()
		}
	}

	base := s.BaseURL
	if base == "" {
		base = demoCDNBaseURL
	}
	return models.RemoteImageRef{
		PublicURL: fmt.Sprintf("%s/slide-%d-%s.png", base, asset.Ordinal+1, uuid.NewString()),
	}, nil
}
