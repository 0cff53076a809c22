// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Slot names an image upload target in the generated site.
type Slot string

const (
	SlotHero      Slot = "hero"
	SlotAbout     Slot = "about"
	SlotLogo      Slot = "logo"
	SlotFooter    Slot = "footer"
	SlotTeam1     Slot = "team1"
	SlotTeam2     Slot = "team2"
	SlotTeam3     Slot = "team3"
	SlotPortfolio Slot = "portfolio"
)

// MaxPortfolioImages caps how many files a portfolio batch may contain.
const MaxPortfolioImages = 6

// Slots lists every single-image slot followed by the portfolio slot.
var Slots = []Slot{SlotHero, SlotAbout, SlotLogo, SlotFooter, SlotTeam1, SlotTeam2, SlotTeam3, SlotPortfolio}

// slotFiles maps each single-image slot to the filename literal that
// templates use for the default picture.
var slotFiles = map[Slot]string{
	SlotHero:   "hero.jpg",
	SlotAbout:  "about.jpg",
	SlotLogo:   "logo.png",
	SlotFooter: "footer.jpg",
	SlotTeam1:  "team-1.jpg",
	SlotTeam2:  "team-2.jpg",
	SlotTeam3:  "team-3.jpg",
}

// ParseSlot converts a form or URL value into a known Slot.
func ParseSlot(s string) (Slot, bool) {
	slot := Slot(strings.ToLower(strings.TrimSpace(s)))
	if slot == SlotPortfolio {
		return slot, true
	}
	_, ok := slotFiles[slot]
	return slot, ok
}

// DefaultFile returns the filename literal of a single-image slot's default
// picture. The portfolio slot has one file per position, see PortfolioFile.
func (s Slot) DefaultFile() string {
	return slotFiles[s]
}

// DefaultPath returns where the slot's default picture lives in the bundled
// assets and in the generated archive.
func (s Slot) DefaultPath() string {
	switch s {
	case SlotTeam1, SlotTeam2, SlotTeam3:
		return "img/team/" + s.DefaultFile()
	case SlotPortfolio:
		return ""
	default:
		return "img/" + s.DefaultFile()
	}
}

// PortfolioFile returns the filename literal of the n-th portfolio picture
// (zero-based).
func PortfolioFile(n int) string {
	return fmt.Sprintf("portfolio-%d.jpg", n+1)
}

// PortfolioPath returns the bundled path of the n-th portfolio picture.
func PortfolioPath(n int) string {
	return "img/portfolio/" + PortfolioFile(n)
}

// ImageAsset is one accepted upload, held in memory for the session only.
type ImageAsset struct {
	Slot        Slot   `json:"slot"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	Data        []byte `json:"data"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
	Preview     string `json:"preview,omitempty"` // data URI of a small JPEG thumbnail
}

// DataURI returns the self-contained encoded form spliced into documents.
func (a *ImageAsset) DataURI() string {
	return "data:" + a.ContentType + ";base64," + base64.StdEncoding.EncodeToString(a.Data)
}

// Extension returns the file extension matching the declared content type.
func (a *ImageAsset) Extension() string {
	switch a.ContentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/svg+xml":
		return ".svg"
	default:
		return ""
	}
}

// HumanSize returns a human-readable file size string.
func (a *ImageAsset) HumanSize() string {
	const (
		kb = 1024
		mb = 1024 * kb
	)
	switch {
	case a.Size >= mb:
		return fmt.Sprintf("%.1f MB", float64(a.Size)/float64(mb))
	case a.Size >= kb:
		return fmt.Sprintf("%.0f KB", float64(a.Size)/float64(kb))
	default:
		return fmt.Sprintf("%d B", a.Size)
	}
}

// ImageSet is the per-session map of accepted uploads. Single slots are
// keyed by Slot; the portfolio is an ordered list of at most
// MaxPortfolioImages entries.
type ImageSet struct {
	Single    map[Slot]ImageAsset `json:"single"`
	Portfolio []ImageAsset        `json:"portfolio"`
}

// NewImageSet returns an empty set.
func NewImageSet() *ImageSet {
	return &ImageSet{Single: make(map[Slot]ImageAsset)}
}

// Put stores an asset in its slot, overwriting any previous upload.
func (s *ImageSet) Put(a ImageAsset) {
	if s.Single == nil {
		s.Single = make(map[Slot]ImageAsset)
	}
	s.Single[a.Slot] = a
}

// Get returns the asset of a single-image slot.
func (s *ImageSet) Get(slot Slot) (ImageAsset, bool) {
	if s == nil {
		return ImageAsset{}, false
	}
	a, ok := s.Single[slot]
	return a, ok
}

// SetPortfolio replaces the whole portfolio with a committed batch.
func (s *ImageSet) SetPortfolio(batch []ImageAsset) {
	s.Portfolio = append([]ImageAsset(nil), batch...)
}

// Clear removes the upload of one slot.
func (s *ImageSet) Clear(slot Slot) {
	if slot == SlotPortfolio {
		s.Portfolio = nil
		return
	}
	delete(s.Single, slot)
}

// Reset drops every upload.
func (s *ImageSet) Reset() {
	s.Single = make(map[Slot]ImageAsset)
	s.Portfolio = nil
}

// Len returns the number of stored assets including portfolio entries.
func (s *ImageSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Single) + len(s.Portfolio)
}

// Clone returns a copy that shares no maps or slices with s, so a
// generation can work on a snapshot while uploads continue.
func (s *ImageSet) Clone() *ImageSet {
	out := NewImageSet()
	if s == nil {
		return out
	}
	for k, v := range s.Single {
		out.Single[k] = v
	}
	out.Portfolio = append([]ImageAsset(nil), s.Portfolio...)
	return out
}
