package publish

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Transport issues the three container calls of a run. The implementation is
// chosen once per run at construction: the sentinel demo account gets the
// simulated transport, everything else goes to the Graph API. Call sites
// never branch on the account id again.
//
// The simulated transport must mirror the real call sequence exactly, call
// for call and parameter for parameter, differing only in skipping the
// network and fabricating ids.
type Transport interface {
	CreateImageContainer(ctx context.Context, imageURL, caption string, carouselItem bool) (string, error)
	CreateCarouselContainer(ctx context.Context, childIDs []string, caption string) (string, error)
	PublishContainer(ctx context.Context, creationID string) (string, error)
	Simulated() bool
}

// GraphAPI is the Graph client surface the live transport drives.
type GraphAPI interface {
	CreateImageContainer(ctx context.Context, accountID, accessToken, imageURL, caption string, carouselItem bool) (string, error)
	CreateCarouselContainer(ctx context.Context, accountID, accessToken string, childIDs []string, caption string) (string, error)
	PublishContainer(ctx context.Context, accountID, accessToken, creationID string) (string, error)
}

type graphTransport struct {
	api         GraphAPI
	accountID   string
	accessToken string
}

func newGraphTransport(api GraphAPI, accountID, accessToken string) *graphTransport {
	return &graphTransport{api: api, accountID: accountID, accessToken: accessToken}
}

func (t *graphTransport) CreateImageContainer(ctx context.Context, imageURL, caption string, carouselItem bool) (string, error) {
	return t.api.CreateImageContainer(ctx, t.accountID, t.accessToken, imageURL, caption, carouselItem)
}

func (t *graphTransport) CreateCarouselContainer(ctx context.Context, childIDs []string, caption string) (string, error) {
	return t.api.CreateCarouselContainer(ctx, t.accountID, t.accessToken, childIDs, caption)
}

func (t *graphTransport) PublishContainer(ctx context.Context, creationID string) (string, error) {
	return t.api.PublishContainer(ctx, t.accountID, t.accessToken, creationID)
}

func (t *graphTransport) Simulated() bool { return false }

type simulatedTransport struct {
	delay time.Duration
}

func newSimulatedTransport(delay time.Duration) *simulatedTransport {
	return &simulatedTransport{delay: delay}
}

func (t *simulatedTransport) wait(ctx context.Context) error {
	if t.delay <= 0 {
		return nil
	}
	select {
	case <-time.After(t.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func syntheticID(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

func (t *simulatedTransport) CreateImageContainer(ctx context.Context, imageURL, caption string, carouselItem bool) (string, error) {
	if err := t.wait(ctx); err != nil {
		return "", err
	}
	if carouselItem {
		return syntheticID("sim_item"), nil
	}
	return syntheticID("sim_media"), nil
}

func (t *simulatedTransport) CreateCarouselContainer(ctx context.Context, childIDs []string, caption string) (string, error) {
	if err := t.wait(ctx); err != nil {
		return "", err
	}
	return syntheticID("sim_carousel"), nil
}

func (t *simulatedTransport) PublishContainer(ctx context.Context, creationID string) (string, error) {
	if err := t.wait(ctx); err != nil {
		return "", err
	}
	return syntheticID("sim_post"), nil
}

func (t *simulatedTransport) Simulated() bool { return true }
