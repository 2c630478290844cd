// Package account resolves the identity a publish run targets. The demo
// sentinel account is recognized locally and never touches the network;
// real accounts resolve through the Graph API with a Redis cache in front,
// since the editor re-reads the profile on every page load.
package account

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"carousel-studio/internal/common/logger"
	"carousel-studio/internal/models"
)

// ProfileReader is the Graph API surface the resolver needs.
type ProfileReader interface {
	GetProfile(ctx context.Context, accountID, accessToken string) (*models.Account, error)
}

type Resolver struct {
	graph  ProfileReader
	cache  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

// NewResolver builds a resolver. cache may be nil, in which case every real
// lookup goes to the Graph API.
func NewResolver(graph ProfileReader, cache *redis.Client, ttl time.Duration, log logger.Logger) *Resolver {
	return &Resolver{
		graph:  graph,
		cache:  cache,
		ttl:    ttl,
		logger: log.WithFields(map[string]interface{}{"component": "account-resolver"}),
	}
}

// demoAccount is the profile backing the sentinel id.
var demoAccount = models.Account{
	ID:          models.DemoAccountID,
	DisplayName: "Carousel Studio Demo",
	Handle:      "carousel.studio.demo",
}

// Resolve returns the display profile for an account id. The access token is
// carried through untouched; it never enters the cache.
func (r *Resolver) Resolve(ctx context.Context, accountID, accessToken string) (*models.Account, error) {
	if accountID == models.DemoAccountID {
		demo := demoAccount
		return &demo, nil
	}

	cacheKey := "profile:" + accountID
	if r.cache != nil {
		if val, err := r.cache.Get(ctx, cacheKey).Result(); err == nil {
			var acct models.Account
			if err := json.Unmarshal([]byte(val), &acct); err == nil {
				acct.AccessToken = accessToken
				return &acct, nil
			}
		}
	}

	acct, err := r.graph.GetProfile(ctx, accountID, accessToken)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		cached := *acct
		cached.AccessToken = ""
		if data, err := json.Marshal(cached); err == nil {
			if err := r.cache.Set(ctx, cacheKey, data, r.ttl).Err(); err != nil {
				r.logger.Warn("profile cache write failed", map[string]interface{}{
					"accountId": accountID,
					"error":     err.Error(),
				})
			}
		}
	}

	acct.AccessToken = accessToken
	return acct, nil
}
