package utils

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"muanapay/pkg/memcache"
)

var ErrEmptyCompletion = errors.New("completion returned no content")

type CompletionRequest struct {
	SystemPrompt string
	UserPrompt   string
}

// CompletionClientInterface asks a chat model for a single JSON object.
type CompletionClientInterface interface {
	CompleteJSON(ctx context.Context, req CompletionRequest) (string, error)
	Model() string
}

// CachedCompletionClient memoizes successful completions. Errors are never cached.
type CachedCompletionClient struct {
	next  CompletionClientInterface
	store memcache.Store
	ttl   time.Duration
	log   *zap.Logger
}

func NewCachedCompletionClient(next CompletionClientInterface, store memcache.Store, ttl time.Duration, log *zap.Logger) *CachedCompletionClient {
	return &CachedCompletionClient{next: next, store: store, ttl: ttl, log: log}
}

func (c *CachedCompletionClient) Model() string { return c.next.Model() }

func (c *CachedCompletionClient) CompleteJSON(ctx context.Context, req CompletionRequest) (string, error) {
	key := "completion:" + CacheKey(c.next.Model(), req.SystemPrompt, req.UserPrompt)

	cached, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.log.Warn("completion cache read failed", zap.Error(err))
	} else if ok {
		return cached, nil
	}

	content, err := c.next.CompleteJSON(ctx, req)
	if err != nil {
		return "", err
	}

	if err := c.store.Set(ctx, key, content, c.ttl); err != nil {
		c.log.Warn("completion cache write failed", zap.Error(err))
	}
	return content, nil
}
