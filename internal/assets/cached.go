// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package assets

import (
	"context"
	"fmt"
)

// Cache stores fetched asset bytes. Implementations must be safe for
// concurrent use and treat their own failures as misses.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, data []byte)
}

// Cached wraps a remote source with a cache. Misses and errors are never
// cached.
type Cached struct {
	src       Source
	cache     Cache
	namespace string
}

// NewCached returns src fronted by cache. The namespace keeps keys of
// different sources apart.
func NewCached(src Source, cache Cache, namespace string) *Cached {
	return &Cached{src: src, cache: cache, namespace: namespace}
}

// Fetch returns the cached bytes or fetches and stores them.
func (c *Cached) Fetch(ctx context.Context, name string) ([]byte, error) {
	key := c.namespace + ":" + name
	if data, ok := c.cache.Get(ctx, key); ok {
		return data, nil
	}
	data, err := c.src.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}
	c.cache.Set(ctx, key, data)
	return data, nil
}

// Glob delegates to the wrapped source when it can enumerate files.
func (c *Cached) Glob(ctx context.Context, pattern string) ([]string, error) {
	if g, ok := c.src.(Globber); ok {
		return g.Glob(ctx, pattern)
	}
	return nil, fmt.Errorf("glob %q: %w", pattern, ErrGlobUnsupported)
}
