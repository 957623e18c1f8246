package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/OFFIS-RIT/kgraph/pkg/annotator"
	"github.com/OFFIS-RIT/kgraph/pkg/common"
	"github.com/OFFIS-RIT/kgraph/pkg/logger"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

// Annotator memoizes the annotations of another Annotator in a bounded LRU.
// Concurrent requests for the same text share one upstream call.
type Annotator struct {
	next  annotator.Annotator
	cache *lru.Cache[string, *common.Annotation]
	group singleflight.Group
}

// New wraps next with an LRU of size entries.
func New(next annotator.Annotator, size int) (*Annotator, error) {
	if next == nil {
		return nil, fmt.Errorf("cache: annotator is required")
	}
	c, err := lru.New[string, *common.Annotation](size)
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	return &Annotator{next: next, cache: c}, nil
}

// Key returns the cache key of a request.
func Key(req annotator.AnnotateRequest) string {
	sum := sha256.Sum256([]byte(req.Text))
	return req.LanguageOrDefault() + ":" + hex.EncodeToString(sum[:])
}

// Annotate returns the cached annotation for the request or fetches it.
// Failed calls are not cached.
func (a *Annotator) Annotate(ctx context.Context, req annotator.AnnotateRequest) (*common.Annotation, error) {
	key := Key(req)

	if cached, ok := a.cache.Get(key); ok {
		logger.Debug("[Annotator] Cache hit", "key", key)
		return cached, nil
	}

	result, err, _ := a.group.Do(key, func() (any, error) {
		if cached, ok := a.cache.Get(key); ok {
			return cached, nil
		}

		ann, err := a.next.Annotate(ctx, req)
		if err != nil {
			return nil, err
		}

		a.cache.Add(key, ann)
		return ann, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*common.Annotation), nil
}

// Len returns the number of cached annotations.
func (a *Annotator) Len() int {
	return a.cache.Len()
}

// Purge drops every cached annotation.
func (a *Annotator) Purge() {
	a.cache.Purge()
}
