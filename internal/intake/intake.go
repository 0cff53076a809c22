// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package intake validates image uploads against the per-slot policy of the
// active template variant and stores accepted files in the session's
// image set.
package intake

import (
	"bytes"
	"io"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"salonsite/internal/models"
)

// Upload describes one submitted file. The declared fields are checked
// before Open is called, so a rejected file is never read.
type Upload struct {
	Filename    string
	ContentType string // declared MIME type
	Size        int64  // declared size in bytes
	Open        func() (io.ReadCloser, error)
}

// FromFileHeader adapts a multipart file part.
func FromFileHeader(fh *multipart.FileHeader) Upload {
	return Upload{
		Filename:    fh.Filename,
		ContentType: declaredType(fh.Header.Get("Content-Type"), fh.Filename),
		Size:        fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

// FromFile adapts a file on disk, as used by the offline generator.
func FromFile(path string) (Upload, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Upload{}, err
	}
	return Upload{
		Filename:    filepath.Base(path),
		ContentType: declaredType("", path),
		Size:        info.Size(),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

// declaredType prefers the client-provided header and falls back to the
// filename extension.
func declaredType(header, filename string) string {
	if header != "" && header != "application/octet-stream" {
		if mt, _, err := mime.ParseMediaType(header); err == nil {
			return mt
		}
	}
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); t != "" {
		mt, _, _ := mime.ParseMediaType(t)
		return mt
	}
	return header
}

// Intake applies one variant's policy table.
type Intake struct {
	rules Table
}

// New returns an Intake enforcing the given table.
func New(rules Table) *Intake {
	return &Intake{rules: rules}
}

// Rule returns the policy of a slot.
func (in *Intake) Rule(slot models.Slot) (Rule, bool) {
	r, ok := in.rules[slot]
	return r, ok
}

// Submit validates and stores a single-slot upload, overwriting any previous
// file of that slot. A portfolio upload is treated as a batch of one.
func (in *Intake) Submit(set *models.ImageSet, slot models.Slot, u Upload) (*models.ImageAsset, error) {
	if slot == models.SlotPortfolio {
		batch, err := in.SubmitBatch(set, []Upload{u})
		if err != nil {
			return nil, err
		}
		return &batch[0], nil
	}

	asset, ierr := in.accept(slot, u)
	if ierr != nil {
		return nil, ierr
	}
	set.Put(*asset)
	return asset, nil
}

// SubmitBatch validates a portfolio batch and commits it only when every
// file passes. A committed batch replaces the previous portfolio.
func (in *Intake) SubmitBatch(set *models.ImageSet, uploads []Upload) ([]models.ImageAsset, error) {
	slot := models.SlotPortfolio
	if len(uploads) > models.MaxPortfolioImages {
		return nil, &ImageError{Slot: slot, Kind: KindTooManyFiles, Count: len(uploads)}
	}

	var (
		failures []*ImageError
		accepted []models.ImageAsset
	)
	for _, u := range uploads {
		if ierr := in.check(slot, u); ierr != nil {
			failures = append(failures, ierr)
		}
	}
	if len(failures) > 0 {
		return nil, &BatchError{Files: failures}
	}

	for _, u := range uploads {
		asset, ierr := in.accept(slot, u)
		if ierr != nil {
			failures = append(failures, ierr)
			continue
		}
		accepted = append(accepted, *asset)
	}
	if len(failures) > 0 {
		return nil, &BatchError{Files: failures}
	}

	set.SetPortfolio(accepted)
	return accepted, nil
}

// check runs the declared-metadata validations in order.
func (in *Intake) check(slot models.Slot, u Upload) *ImageError {
	rule, ok := in.rules[slot]
	if !ok {
		return &ImageError{Slot: slot, Filename: u.Filename, Kind: KindUnknownSlot}
	}
	if !strings.HasPrefix(u.ContentType, "image/") {
		return &ImageError{Slot: slot, Filename: u.Filename, Kind: KindNotImage}
	}
	if !rule.Allows(u.ContentType) {
		return &ImageError{Slot: slot, Filename: u.Filename, Kind: KindFormat, Allowed: rule.AllowedFormats()}
	}
	if u.Size > rule.MaxBytes {
		return &ImageError{Slot: slot, Filename: u.Filename, Kind: KindTooLarge, SizeMB: toMB(u.Size), MaxMB: toMB(rule.MaxBytes)}
	}
	if utf8.RuneCountInString(u.Filename) > MaxFilenameLen {
		return &ImageError{Slot: slot, Filename: u.Filename, Kind: KindNameTooLong}
	}
	return nil
}

// accept validates u, then reads at most MaxBytes+1 bytes and verifies the
// content matches an allowed image type.
func (in *Intake) accept(slot models.Slot, u Upload) (*models.ImageAsset, *ImageError) {
	if ierr := in.check(slot, u); ierr != nil {
		return nil, ierr
	}
	rule := in.rules[slot]

	data, err := readBounded(u, rule.MaxBytes)
	if err != nil {
		return nil, &ImageError{Slot: slot, Filename: u.Filename, Kind: KindRead, Err: err}
	}
	if int64(len(data)) > rule.MaxBytes {
		return nil, &ImageError{Slot: slot, Filename: u.Filename, Kind: KindTooLarge, SizeMB: toMB(int64(len(data))), MaxMB: toMB(rule.MaxBytes)}
	}

	contentType := sniff(data, u.ContentType)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, &ImageError{Slot: slot, Filename: u.Filename, Kind: KindNotImage}
	}
	if !rule.Allows(contentType) {
		return nil, &ImageError{Slot: slot, Filename: u.Filename, Kind: KindFormat, Allowed: rule.AllowedFormats()}
	}

	asset := &models.ImageAsset{
		Slot:        slot,
		Filename:    u.Filename,
		ContentType: contentType,
		Size:        int64(len(data)),
		Data:        data,
	}
	if err := describe(asset, previewMaxWidth); err != nil {
		slog.Warn("image preview failed", "error", err, "slot", slot, "filename", u.Filename)
	}
	return asset, nil
}

func readBounded(u Upload, limit int64) ([]byte, error) {
	if u.Open == nil {
		return nil, io.ErrUnexpectedEOF
	}
	rc, err := u.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(io.LimitReader(rc, limit+1))
}

// sniff detects the content type from the bytes. SVG is text to
// http.DetectContentType, so the declared type is kept when the payload
// looks like XML markup.
func sniff(data []byte, declared string) string {
	detected := http.DetectContentType(data)
	if declared == "image/svg+xml" &&
		(strings.Contains(detected, "xml") || strings.HasPrefix(detected, "text/plain")) &&
		bytes.Contains(data, []byte("<svg")) {
		return declared
	}
	if i := strings.IndexByte(detected, ';'); i >= 0 {
		detected = detected[:i]
	}
	return detected
}
