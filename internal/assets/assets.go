// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package assets fetches template documents and static files (stylesheets,
// scripts, default images) from a configurable source: the embedded bundle,
// a local directory, an HTTP base URL or an S3 bucket.
package assets

import (
	"context"
	"errors"
	"path"
	"strings"
)

// ErrNotFound is returned when the requested path does not exist in the
// source. Callers treat it differently from transport failures.
var ErrNotFound = errors.New("assets: not found")

// ErrGlobUnsupported is returned when a pattern is used with a source that
// cannot list its files.
var ErrGlobUnsupported = errors.New("assets: source cannot expand patterns")

// Source fetches a file by its slash-separated relative path.
type Source interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// Globber is implemented by sources that can enumerate their files.
type Globber interface {
	Glob(ctx context.Context, pattern string) ([]string, error)
}

// IsPattern reports whether name contains glob metacharacters.
func IsPattern(name string) bool {
	return strings.ContainsAny(name, "*?[{")
}

// Clean normalizes a relative asset path and rejects escapes from the
// source root.
func Clean(name string) (string, bool) {
	name = strings.TrimPrefix(path.Clean("/"+name), "/")
	if name == "" || name == "." {
		return "", false
	}
	return name, true
}
