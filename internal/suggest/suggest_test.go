package suggest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"testing"

	"salonsite/internal/models"
)

const placeURL = "https://www.google.com/maps/place/Salon+Dupont+Coiffure/@48.8606,2.3376,17z/data=!3m1!4b1!4m6!3m5!1s0x47e66e2964e34e2d:0x8ddca9ee380ef7e0!8m2!3d48.8606!4d2.3376"

func TestURLParser(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    models.PartialProfile
		wantErr error
	}{
		{
			name: "place with coordinates and id",
			url:  placeURL,
			want: models.PartialProfile{
				Name: "Salon Dupont Coiffure", Latitude: 48.8606, Longitude: 2.3376,
				PlaceID: "8ddca9ee380ef7e0",
			},
		},
		{
			name: "encoded accents and hyphens",
			url:  "https://www.google.fr/maps/place/L%27Atelier-d%C3%89milie/@45.76,4.83,15z",
			want: models.PartialProfile{Name: "L'Atelier dÉmilie", Latitude: 45.76, Longitude: 4.83},
		},
		{
			name: "search segment with ll parameter",
			url:  "https://maps.google.com/maps/search/Barbier_Lyon?ll=45.75,4.85",
			want: models.PartialProfile{Name: "Barbier Lyon", Latitude: 45.75, Longitude: 4.85},
		},
		{
			name:    "not a maps url",
			url:     "https://example.com/salon",
			wantErr: ErrInvalidURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := URLParser{}.Suggest(context.Background(), tt.url)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got.Name != tt.want.Name || got.Latitude != tt.want.Latitude ||
				got.Longitude != tt.want.Longitude || got.PlaceID != tt.want.PlaceID {
				t.Errorf("Suggest() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestURLParserPhone(t *testing.T) {
	got, err := URLParser{}.Suggest(context.Background(), "https://www.google.com/maps/place/Chez+Lea/?phone=01 45 55 12 34")
	if err != nil {
		t.Fatal(err)
	}
	if got.Phone != "+33145551234" {
		t.Errorf("Phone = %q", got.Phone)
	}
}

func TestCleaners(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string) string
		in   string
		want string
	}{
		{"phone national", CleanPhone, "01 45-55.12 34", "+33145551234"},
		{"phone international", CleanPhone, "+33 6 12 34 56 78", "+33612345678"},
		{"whatsapp", WhatsAppNumber, "https://wa.me/+33 612345678", "33612345678"},
		{"whatsapp too short", WhatsAppNumber, "12345", ""},
		{"url bare host", CleanURL, "dupont.fr", "https://dupont.fr"},
		{"url kept", CleanURL, "http://dupont.fr", "http://dupont.fr"},
		{"hours", FormatOpeningHours, "Mo-Fr 09:00-18:00; Sa 09:00-12:00", "Lundi - Vendredi 09:00 - 18:00\nSamedi 09:00 - 12:00"},
		{"address", CleanAddress, "12, Rue de Paris, Paris, Île-de-France, France métropolitaine, 75001, France", "12, Rue de Paris, Paris, Île-de-France"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.in); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCleanSocialURL(t *testing.T) {
	tests := []struct {
		in, platform, want string
	}{
		{"http://facebook.com/dupont", "facebook", "https://facebook.com/dupont"},
		{"dupont.coiffure", "facebook", "https://www.facebook.com/dupont.coiffure"},
		{"@dupont", "instagram", "https://www.instagram.com/dupont"},
		{"", "instagram", ""},
	}
	for _, tt := range tests {
		if got := CleanSocialURL(tt.in, tt.platform); got != tt.want {
			t.Errorf("CleanSocialURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNominatim(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		if r.Header.Get("User-Agent") == "" {
			t.Error("missing User-Agent")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"display_name": "Salon Dupont, 12, Rue de Paris, Paris, 75001, France",
			"extratags": {
				"contact:phone": "01 45 55 12 34",
				"website": "dupont.fr",
				"opening_hours": "Tu-Sa 09:00-19:00",
				"facebook": "salondupont",
				"contact:whatsapp": "+33612345678"
			}
		}`))
	}))
	defer srv.Close()

	n := NewNominatim(srv.URL, srv.Client())
	got, err := n.Enrich(context.Background(), &models.PartialProfile{Latitude: 48.86, Longitude: 2.33})
	if err != nil {
		t.Fatal(err)
	}
	if q, _ := url.ParseQuery(query); q.Get("lat") != "48.86" || q.Get("extratags") != "1" {
		t.Errorf("query = %q", query)
	}
	want := models.PartialProfile{
		Name:     "Salon Dupont",
		Phone:    "+33145551234",
		Address:  "Salon Dupont, 12, Rue de Paris, Paris",
		Website:  "https://dupont.fr",
		Hours:    "Mardi - Samedi 09:00 - 19:00",
		Facebook: "https://www.facebook.com/salondupont",
		WhatsApp: "33612345678",
	}
	if got.Name != want.Name || got.Phone != want.Phone || got.Address != want.Address ||
		got.Website != want.Website || got.Hours != want.Hours || got.Facebook != want.Facebook ||
		got.WhatsApp != want.WhatsApp {
		t.Errorf("Enrich() = %+v\nwant %+v", got, want)
	}
}

func TestNominatimSkipsWithoutCoordinates(t *testing.T) {
	n := NewNominatim("http://127.0.0.1:1", nil)
	got, err := n.Enrich(context.Background(), &models.PartialProfile{Name: "x"})
	if err != nil || got != nil {
		t.Errorf("Enrich() = %v, %v", got, err)
	}
}

func TestOverpass(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.PostForm.Get("data") == "" {
			t.Error("missing overpass query")
		}
		w.Write([]byte(`{"elements":[{"tags":{"name":"Chez Léa","addr:housenumber":"3","addr:street":"Rue Neuve","addr:postcode":"69001","addr:city":"Lyon","instagram":"chezlea"}}]}`))
	}))
	defer srv.Close()

	got, err := NewOverpass(srv.URL, srv.Client()).Enrich(context.Background(), &models.PartialProfile{Latitude: 45.7, Longitude: 4.8})
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Chez Léa" || got.Address != "3, Rue Neuve, 69001, Lyon" || got.Instagram != "https://www.instagram.com/chezlea" {
		t.Errorf("Enrich() = %+v", got)
	}
}

type stubEnricher struct {
	name  string
	found *models.PartialProfile
	err   error
}

func (s stubEnricher) Name() string { return s.name }

func (s stubEnricher) Enrich(context.Context, *models.PartialProfile) (*models.PartialProfile, error) {
	return s.found, s.err
}

func TestChainFillsOnlyEmptyFields(t *testing.T) {
	c := NewChain(nil,
		stubEnricher{name: "broken", err: errors.New("boom")},
		stubEnricher{name: "first", found: &models.PartialProfile{Name: "Autre Nom", Phone: "+33100000000"}},
		stubEnricher{name: "second", found: &models.PartialProfile{Phone: "+33200000000", Email: "a@b.fr"}},
		stubEnricher{name: "nothing"},
	)
	got, err := c.Suggest(context.Background(), placeURL)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "Salon Dupont Coiffure" {
		t.Errorf("Name overwritten: %q", got.Name)
	}
	if got.Phone != "+33100000000" || got.Email != "a@b.fr" {
		t.Errorf("got %+v", got)
	}
	if !slices.Equal(got.Sources, []string{"url", "first", "second"}) {
		t.Errorf("Sources = %v", got.Sources)
	}
}

func TestChainInvalidURL(t *testing.T) {
	if _, err := NewChain(nil).Suggest(context.Background(), "not a url"); !errors.Is(err, ErrInvalidURL) {
		t.Errorf("err = %v", err)
	}
}
