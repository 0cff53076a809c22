// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the in-memory records that flow through the site
// generation pipeline: salon profiles, uploaded images, template variants,
// sessions and generation audit entries.
package models

// Default brand colors applied when the submitted values are not valid hex.
const (
	DefaultPrimaryColor   = "#c59d5f"
	DefaultSecondaryColor = "#2c2c2c"

	// DefaultHours is used when the hours field is left empty.
	DefaultHours = "Nous contacter pour les horaires"
)

// SalonProfile holds the sanitized business details of one form submission.
// Values are stored unescaped; the merge engine escapes them when embedding.
// Name, Phone and Address are always non-empty once Sanitize succeeded.
type SalonProfile struct {
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	Email          string `json:"email,omitempty"`
	Website        string `json:"website,omitempty"`
	Description    string `json:"description,omitempty"`
	Hours          string `json:"hours,omitempty"` // line-delimited free text
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
	Facebook       string `json:"facebook,omitempty"`
	Instagram      string `json:"instagram,omitempty"`
	WhatsApp       string `json:"whatsapp,omitempty"` // digits only
}

// HasSocial reports whether at least one social handle is set.
func (p *SalonProfile) HasSocial() bool {
	return p.Facebook != "" || p.Instagram != "" || p.WhatsApp != ""
}

// PartialProfile is a best-effort suggestion produced by a pre-fill
// provider. Every field is optional and nothing in it is verified.
type PartialProfile struct {
	Name        string   `json:"name,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	Address     string   `json:"address,omitempty"`
	Email       string   `json:"email,omitempty"`
	Website     string   `json:"website,omitempty"`
	Description string   `json:"description,omitempty"`
	Hours       string   `json:"hours,omitempty"`
	Facebook    string   `json:"facebook,omitempty"`
	Instagram   string   `json:"instagram,omitempty"`
	WhatsApp    string   `json:"whatsapp,omitempty"`
	Latitude    float64  `json:"latitude,omitempty"`
	Longitude   float64  `json:"longitude,omitempty"`
	PlaceID     string   `json:"place_id,omitempty"`
	Sources     []string `json:"sources,omitempty"`
}

// HasCoordinates reports whether a location was extracted.
func (p *PartialProfile) HasCoordinates() bool {
	return p.Latitude != 0 || p.Longitude != 0
}

// IsEmpty reports whether no business field was suggested.
func (p *PartialProfile) IsEmpty() bool {
	return p.Name == "" && p.Phone == "" && p.Address == "" && p.Email == "" &&
		p.Website == "" && p.Hours == "" && p.Facebook == "" && p.Instagram == "" &&
		p.WhatsApp == "" && !p.HasCoordinates()
}
