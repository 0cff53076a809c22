// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package profile turns raw form input into a validated salon profile.
package profile

import (
	"net/url"
	"strings"

	"salonsite/internal/models"
)

// Form field names read by Collect. They double as the keys of YAML
// profile files used by the CLI.
const (
	FieldName           = "salonName"
	FieldPhone          = "phone"
	FieldAddress        = "address"
	FieldEmail          = "email"
	FieldWebsite        = "website"
	FieldDescription    = "description"
	FieldHours          = "hours"
	FieldFacebook       = "facebook"
	FieldInstagram      = "instagram"
	FieldWhatsApp       = "whatsapp"
	FieldPrimaryColor   = "primaryColor"
	FieldSecondaryColor = "secondaryColor"
)

// Raw is the flat record of submitted values before validation.
type Raw struct {
	Name           string `yaml:"salonName"`
	Phone          string `yaml:"phone"`
	Address        string `yaml:"address"`
	Email          string `yaml:"email"`
	Website        string `yaml:"website"`
	Description    string `yaml:"description"`
	Hours          string `yaml:"hours"`
	Facebook       string `yaml:"facebook"`
	Instagram      string `yaml:"instagram"`
	WhatsApp       string `yaml:"whatsapp"`
	PrimaryColor   string `yaml:"primaryColor"`
	SecondaryColor string `yaml:"secondaryColor"`
}

// Collect reads the known fields from a submitted form and applies the
// defaults for hours and colors. Unknown fields are ignored.
func Collect(form url.Values) Raw {
	r := Raw{
		Name:           form.Get(FieldName),
		Phone:          form.Get(FieldPhone),
		Address:        form.Get(FieldAddress),
		Email:          form.Get(FieldEmail),
		Website:        form.Get(FieldWebsite),
		Description:    form.Get(FieldDescription),
		Hours:          form.Get(FieldHours),
		Facebook:       form.Get(FieldFacebook),
		Instagram:      form.Get(FieldInstagram),
		WhatsApp:       form.Get(FieldWhatsApp),
		PrimaryColor:   form.Get(FieldPrimaryColor),
		SecondaryColor: form.Get(FieldSecondaryColor),
	}
	return r.WithDefaults()
}

// WithDefaults fills the empty optional fields that have a default value.
func (r Raw) WithDefaults() Raw {
	if strings.TrimSpace(r.Hours) == "" {
		r.Hours = models.DefaultHours
	}
	if strings.TrimSpace(r.PrimaryColor) == "" {
		r.PrimaryColor = models.DefaultPrimaryColor
	}
	if strings.TrimSpace(r.SecondaryColor) == "" {
		r.SecondaryColor = models.DefaultSecondaryColor
	}
	return r
}

// Values converts the record back to form values, used to re-render the
// form after a failed submission.
func (r Raw) Values() url.Values {
	v := url.Values{}
	set := func(k, val string) {
		if val != "" {
			v.Set(k, val)
		}
	}
	set(FieldName, r.Name)
	set(FieldPhone, r.Phone)
	set(FieldAddress, r.Address)
	set(FieldEmail, r.Email)
	set(FieldWebsite, r.Website)
	set(FieldDescription, r.Description)
	set(FieldHours, r.Hours)
	set(FieldFacebook, r.Facebook)
	set(FieldInstagram, r.Instagram)
	set(FieldWhatsApp, r.WhatsApp)
	set(FieldPrimaryColor, r.PrimaryColor)
	set(FieldSecondaryColor, r.SecondaryColor)
	return v
}

// Merge fills the empty fields of r from a suggestion. Fields the user
// already typed are never overwritten.
func (r Raw) Merge(p *models.PartialProfile) Raw {
	if p == nil {
		return r
	}
	fill := func(dst *string, src string) {
		if strings.TrimSpace(*dst) == "" && src != "" {
			*dst = src
		}
	}
	fill(&r.Name, p.Name)
	fill(&r.Phone, p.Phone)
	fill(&r.Address, p.Address)
	fill(&r.Email, p.Email)
	fill(&r.Website, p.Website)
	fill(&r.Description, p.Description)
	fill(&r.Hours, p.Hours)
	fill(&r.Facebook, p.Facebook)
	fill(&r.Instagram, p.Instagram)
	fill(&r.WhatsApp, p.WhatsApp)
	return r
}
