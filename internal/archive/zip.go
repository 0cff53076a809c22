// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"

	"github.com/klauspost/compress/flate"

	"salonsite/internal/models"
	"salonsite/internal/slug"
)

// CompressionLevel is the deflate level used for every file.
const CompressionLevel = 6

// Write serializes the manifest as a ZIP archive, in manifest order.
func Write(w io.Writer, m *Manifest) error {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, CompressionLevel)
	})

	for _, e := range m.Entries {
		hdr := &zip.FileHeader{
			Name:     e.Path,
			Method:   zip.Deflate,
			Modified: m.Modified,
		}
		if e.Dir {
			hdr.Method = zip.Store
			hdr.SetMode(fs.ModeDir | 0o755)
		} else {
			hdr.SetMode(0o644)
		}

		fw, err := zw.CreateHeader(hdr)
		if err != nil {
			return fmt.Errorf("archive: create %s: %w", e.Path, err)
		}
		if e.Dir {
			continue
		}
		if _, err := fw.Write(e.Data); err != nil {
			return fmt.Errorf("archive: write %s: %w", e.Path, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("archive: close: %w", err)
	}
	return nil
}

// Filename returns the download name of the archive.
func Filename(p *models.SalonProfile, variant models.VariantID) string {
	s := ""
	if p != nil {
		s = slug.Generate(p.Name)
	}
	if s == "" {
		s = "salon-website"
	}
	return s + "-" + string(variant) + ".zip"
}
