// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package archive

import (
	"fmt"
	"strings"
	"time"
)

// Entry is one file or directory of the archive.
type Entry struct {
	Path string
	Data []byte
	Dir  bool
}

// Warning records an asset that could not be included.
type Warning struct {
	Path string
	Err  error
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %v", w.Path, w.Err)
}

// Manifest is the ordered list of archive entries. Paths are unique; adding
// a path twice replaces the data and keeps the first position.
type Manifest struct {
	Entries  []Entry
	Warnings []Warning
	Modified time.Time

	index map[string]int
}

func newManifest(modified time.Time) *Manifest {
	return &Manifest{Modified: modified, index: map[string]int{}}
}

// AddFile appends a file entry.
func (m *Manifest) AddFile(path string, data []byte) {
	m.add(Entry{Path: path, Data: data})
}

// AddDir appends an empty directory entry. The stored path ends with "/".
func (m *Manifest) AddDir(path string) {
	m.add(Entry{Path: strings.TrimSuffix(path, "/") + "/", Dir: true})
}

func (m *Manifest) add(e Entry) {
	if m.index == nil {
		m.index = map[string]int{}
	}
	if i, ok := m.index[e.Path]; ok {
		m.Entries[i] = e
		return
	}
	m.index[e.Path] = len(m.Entries)
	m.Entries = append(m.Entries, e)
}

// Warn records a skipped asset.
func (m *Manifest) Warn(path string, err error) {
	m.Warnings = append(m.Warnings, Warning{Path: path, Err: err})
}

// Has reports whether path is already part of the manifest.
func (m *Manifest) Has(path string) bool {
	_, ok := m.index[path]
	return ok
}

// Paths returns the entry paths in archive order.
func (m *Manifest) Paths() []string {
	out := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		out[i] = e.Path
	}
	return out
}

// Missing returns the paths of the skipped assets.
func (m *Manifest) Missing() []string {
	out := make([]string, len(m.Warnings))
	for i, w := range m.Warnings {
		out[i] = w.Path
	}
	return out
}

// Size returns the uncompressed size of all files.
func (m *Manifest) Size() int64 {
	var n int64
	for _, e := range m.Entries {
		n += int64(len(e.Data))
	}
	return n
}
