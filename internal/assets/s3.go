// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package assets

import (
	"context"
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"salonsite/internal/storage"
)

// objectStore is the subset of storage.Client used by S3.
type objectStore interface {
	Download(ctx context.Context, key string) ([]byte, error)
	List(ctx context.Context, prefix string) ([]string, error)
}

// S3 serves assets from a bucket, optionally under a key prefix.
type S3 struct {
	store  objectStore
	prefix string
}

// NewS3 returns a source reading keys "<prefix>/<name>".
func NewS3(store objectStore, prefix string) *S3 {
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return &S3{store: store, prefix: prefix}
}

// Fetch downloads one object.
func (s *S3) Fetch(ctx context.Context, name string) ([]byte, error) {
	clean, ok := Clean(name)
	if !ok {
		return nil, fmt.Errorf("fetch %q: %w", name, ErrNotFound)
	}
	data, err := s.store.Download(ctx, s.prefix+clean)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, fmt.Errorf("fetch %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch %q: %w", name, err)
	}
	return data, nil
}

// Glob lists the keys under the pattern's static base and filters them
// with doublestar.
func (s *S3) Glob(ctx context.Context, pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("glob %q: %w", pattern, doublestar.ErrBadPattern)
	}
	base, _ := doublestar.SplitPattern(pattern)
	if base == "." {
		base = ""
	} else {
		base += "/"
	}

	keys, err := s.store.List(ctx, s.prefix+base)
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}

	var out []string
	for _, key := range keys {
		name := strings.TrimPrefix(key, s.prefix)
		if strings.HasSuffix(name, "/") {
			continue
		}
		if ok, _ := doublestar.Match(pattern, path.Clean(name)); ok {
			out = append(out, name)
		}
	}
	slices.Sort(out)
	return out, nil
}
