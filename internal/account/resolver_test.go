package account

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carousel-studio/internal/common/logger"
	"carousel-studio/internal/models"
)

type fakeGraph struct {
	profile *models.Account
	err     error
	calls   int
}

func (f *fakeGraph) GetProfile(ctx context.Context, accountID, accessToken string) (*models.Account, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	p := *f.profile
	return &p, nil
}

func newTestCache(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestResolve_DemoAccountSkipsGraph(t *testing.T) {
	graph := &fakeGraph{}
	r := NewResolver(graph, nil, time.Minute, logger.NewTestLogger(t))

	acct, err := r.Resolve(context.Background(), models.DemoAccountID, "")
	require.NoError(t, err)
	assert.Equal(t, models.DemoAccountID, acct.ID)
	assert.Equal(t, "carousel.studio.demo", acct.Handle)
	assert.Zero(t, graph.calls)
}

func TestResolve_RealAccountHitsGraphOnce(t *testing.T) {
	graph := &fakeGraph{profile: &models.Account{
		ID:          "178414",
		DisplayName: "Studio",
		Handle:      "studio.ig",
	}}
	r := NewResolver(graph, newTestCache(t), time.Minute, logger.NewTestLogger(t))

	first, err := r.Resolve(context.Background(), "178414", "tok")
	require.NoError(t, err)
	assert.Equal(t, "studio.ig", first.Handle)
	assert.Equal(t, "tok", first.AccessToken)

	second, err := r.Resolve(context.Background(), "178414", "tok")
	require.NoError(t, err)
	assert.Equal(t, "studio.ig", second.Handle)
	assert.Equal(t, "tok", second.AccessToken)

	assert.Equal(t, 1, graph.calls, "second resolve should be served from cache")
}

func TestResolve_TokenNeverCached(t *testing.T) {
	graph := &fakeGraph{profile: &models.Account{ID: "178414", Handle: "studio.ig"}}
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	r := NewResolver(graph, cache, time.Minute, logger.NewTestLogger(t))

	_, err := r.Resolve(context.Background(), "178414", "secret-token")
	require.NoError(t, err)

	cached, err := mr.Get("profile:178414")
	require.NoError(t, err)
	assert.NotContains(t, cached, "secret-token")
}

func TestResolve_GraphErrorPropagates(t *testing.T) {
	graph := &fakeGraph{err: errors.New("Invalid OAuth access token")}
	r := NewResolver(graph, newTestCache(t), time.Minute, logger.NewTestLogger(t))

	_, err := r.Resolve(context.Background(), "178414", "bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid OAuth access token")
}

func TestResolve_NoCacheConfigured(t *testing.T) {
	graph := &fakeGraph{profile: &models.Account{ID: "178414"}}
	r := NewResolver(graph, nil, time.Minute, logger.NewTestLogger(t))

	_, err := r.Resolve(context.Background(), "178414", "tok")
	require.NoError(t, err)
	_, err = r.Resolve(context.Background(), "178414", "tok")
	require.NoError(t, err)
	assert.Equal(t, 2, graph.calls)
}
