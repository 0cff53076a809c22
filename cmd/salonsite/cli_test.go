package main

import (
	"archive/zip"
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"salonsite/internal/intake"
	"salonsite/internal/models"
)

func writePNG(t *testing.T, path string) {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestReadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "salon.yaml")
	data := "salonName: Salon Dupont\nphone: 01 45 55 12 34\naddress: 12 Rue de Paris\nprimaryColor: '#112233'\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	raw, err := readProfile(path)
	if err != nil {
		t.Fatalf("readProfile: %v", err)
	}
	if raw.Name != "Salon Dupont" || raw.Phone != "01 45 55 12 34" || raw.PrimaryColor != "#112233" {
		t.Errorf("raw = %+v", raw)
	}

	empty, err := readProfile("")
	if err != nil || empty.Name != "" {
		t.Errorf("empty path: %+v, %v", empty, err)
	}

	if _, err := readProfile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestLoadImages(t *testing.T) {
	for _, name := range []string{"photos", "photos [2026]", "salon*final", "v{1,2}"} {
		t.Run(name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), name)
			if err := os.Mkdir(dir, 0o755); err != nil {
				t.Fatal(err)
			}
			writePNG(t, filepath.Join(dir, "hero.png"))
			writePNG(t, filepath.Join(dir, "team2.png"))
			writePNG(t, filepath.Join(dir, "portfolio-b.png"))
			writePNG(t, filepath.Join(dir, "portfolio-a.png"))
			if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
				t.Fatal(err)
			}

			set := models.NewImageSet()
			if err := loadImages(set, dir, intake.New(intake.DefaultTable())); err != nil {
				t.Fatalf("loadImages: %v", err)
			}

			if _, ok := set.Get(models.SlotHero); !ok {
				t.Error("hero not loaded")
			}
			if _, ok := set.Get(models.SlotTeam2); !ok {
				t.Error("team2 not loaded")
			}
			if len(set.Portfolio) != 2 || set.Portfolio[0].Filename != "portfolio-a.png" {
				t.Errorf("portfolio = %+v", set.Portfolio)
			}
		})
	}
}

func TestLoadImagesRejectsAmbiguousSlot(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "logo.png"))
	writePNG(t, filepath.Join(dir, "logo.jpg"))

	err := loadImages(models.NewImageSet(), dir, intake.New(intake.DefaultTable()))
	if err == nil || !strings.Contains(err.Error(), "logo") {
		t.Errorf("err = %v, want a logo slot error", err)
	}
}

func TestSplitAddr(t *testing.T) {
	tests := []struct {
		in, host, port string
	}{
		{"127.0.0.1:3000", "127.0.0.1", "3000"},
		{":9090", "", "9090"},
		{"localhost", "localhost", "8080"},
	}
	for _, tt := range tests {
		host, port := splitAddr(tt.in, "8080")
		if host != tt.host || port != tt.port {
			t.Errorf("splitAddr(%q) = %q, %q", tt.in, host, port)
		}
	}
}

func TestGenerateCommand(t *testing.T) {
	dir := t.TempDir()
	profilePath := filepath.Join(dir, "salon.yaml")
	data := "salonName: Salon Dupont\nphone: \"0145551234\"\naddress: 12 Rue de Paris, 75001 Paris\n"
	if err := os.WriteFile(profilePath, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "site.zip")

	var stdout bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetArgs([]string{
		"generate",
		"--config", filepath.Join(dir, "none.yaml"),
		"--profile", profilePath,
		"--template", "modern",
		"--out", out,
		"--quiet",
	})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(stdout.String(), "modern") {
		t.Errorf("output = %q", stdout.String())
	}

	zr, err := zip.OpenReader(out)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer zr.Close()

	var index string
	for _, f := range zr.File {
		if f.Name != "index.html" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		var buf bytes.Buffer
		buf.ReadFrom(rc)
		rc.Close()
		index = buf.String()
	}
	if !strings.Contains(index, "Salon Dupont") || !strings.Contains(index, "12 Rue de Paris") {
		t.Errorf("index.html does not carry the profile")
	}
}

func TestGenerateCommandMissingFields(t *testing.T) {
	dir := t.TempDir()
	profilePath := filepath.Join(dir, "salon.yaml")
	if err := os.WriteFile(profilePath, []byte("salonName: Salon Dupont\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{
		"generate",
		"--config", filepath.Join(dir, "none.yaml"),
		"--profile", profilePath,
		"--out", filepath.Join(dir, "site.zip"),
		"--quiet",
	})
	if err := root.ExecuteContext(context.Background()); err == nil {
		t.Fatal("expected a validation error")
	}
	if _, err := os.Stat(filepath.Join(dir, "site.zip")); !os.IsNotExist(err) {
		t.Error("archive written despite missing fields")
	}
}

func TestVariantsCommand(t *testing.T) {
	var stdout bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetArgs([]string{"variants"})
	if err := root.Execute(); err != nil {
		t.Fatalf("variants: %v", err)
	}
	for _, id := range []string{"classic *", "modern", "luxury", "barber", "beauty"} {
		if !strings.Contains(stdout.String(), id) {
			t.Errorf("output missing %q:\n%s", id, stdout.String())
		}
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "salonsite.yaml")

	run := func(args ...string) error {
		root := newRootCmd()
		root.SetOut(&bytes.Buffer{})
		root.SetErr(&bytes.Buffer{})
		root.SetArgs(append([]string{"config", "init", "--config", path}, args...))
		return root.Execute()
	}

	if err := run(); err != nil {
		t.Fatalf("config init: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "max_concurrent: 4") {
		t.Errorf("written config:\n%s", data)
	}

	if err := run(); err == nil {
		t.Error("expected an error when the file exists")
	}
	if err := run("--force"); err != nil {
		t.Errorf("config init --force: %v", err)
	}
}
