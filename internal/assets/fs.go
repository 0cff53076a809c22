// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package assets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/bmatcuk/doublestar/v4"
)

// FS serves assets from an fs.FS such as the embedded bundle or a directory.
type FS struct {
	fsys fs.FS
}

// NewFS wraps fsys.
func NewFS(fsys fs.FS) *FS {
	return &FS{fsys: fsys}
}

// NewDir serves assets from a directory on disk.
func NewDir(dir string) (*FS, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("assets: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("assets: %s is not a directory", dir)
	}
	return NewFS(os.DirFS(dir)), nil
}

// Fetch reads one file.
func (s *FS) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clean, ok := Clean(name)
	if !ok {
		return nil, fmt.Errorf("fetch %q: %w", name, ErrNotFound)
	}
	data, err := fs.ReadFile(s.fsys, clean)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("fetch %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch %q: %w", name, err)
	}
	return data, nil
}

// Glob expands a doublestar pattern such as "img/**/*.jpg". Only regular
// files are returned, in lexical order.
func (s *FS) Glob(ctx context.Context, pattern string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	matches, err := doublestar.Glob(s.fsys, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}
	return matches, nil
}
