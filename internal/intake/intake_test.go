package intake

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"io"
	"slices"
	"strings"
	"testing"

	"salonsite/internal/models"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func encodeGIF(t *testing.T) []byte {
	t.Helper()
	img := image.NewPaletted(image.Rect(0, 0, 2, 2), color.Palette{color.Black, color.White})
	var buf bytes.Buffer
	if err := gif.Encode(&buf, img, nil); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// upload builds an Upload over data and counts how often it is opened.
func upload(name, contentType string, data []byte, opened *int) Upload {
	return Upload{
		Filename:    name,
		ContentType: contentType,
		Size:        int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			if opened != nil {
				*opened++
			}
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

func TestSubmitSingleSlot(t *testing.T) {
	pngData := encodePNG(t, 4, 4)
	tests := []struct {
		name     string
		slot     models.Slot
		upload   Upload
		wantKind Kind
	}{
		{"accepted png", models.SlotHero, upload("hero.png", "image/png", pngData, nil), ""},
		{"unknown slot", models.Slot("gallery"), upload("a.png", "image/png", pngData, nil), KindUnknownSlot},
		{"not an image", models.SlotHero, upload("cv.pdf", "application/pdf", []byte("%PDF-1.4"), nil), KindNotImage},
		{"format not allowed", models.SlotHero, upload("anim.gif", "image/gif", encodeGIF(t), nil), KindFormat},
		{"declared too large", models.SlotLogo, Upload{Filename: "logo.png", ContentType: "image/png", Size: 3 * mb}, KindTooLarge},
		{"name too long", models.SlotHero, upload(strings.Repeat("a", 97)+".png", "image/png", pngData, nil), KindNameTooLong},
		{"content is not an image", models.SlotHero, upload("fake.png", "image/png", []byte("hello world"), nil), KindNotImage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := models.NewImageSet()
			in := New(DefaultTable())
			asset, err := in.Submit(set, tt.slot, tt.upload)

			if tt.wantKind == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if asset.ContentType != "image/png" || asset.Width != 4 {
					t.Errorf("asset = %+v", asset)
				}
				if _, ok := set.Get(tt.slot); !ok {
					t.Error("asset not stored")
				}
				return
			}

			var ierr *ImageError
			if !errors.As(err, &ierr) {
				t.Fatalf("expected ImageError, got %v", err)
			}
			if ierr.Kind != tt.wantKind {
				t.Errorf("Kind = %q, want %q", ierr.Kind, tt.wantKind)
			}
			if set.Len() != 0 {
				t.Error("rejected file entered the image set")
			}
		})
	}
}

// A GIF hero is rejected with the allowed formats listed and nothing stored.
func TestSubmitGIFHeroListsAllowedFormats(t *testing.T) {
	set := models.NewImageSet()
	_, err := New(DefaultTable()).Submit(set, models.SlotHero, upload("hero.gif", "image/gif", encodeGIF(t), nil))

	var ierr *ImageError
	if !errors.As(err, &ierr) || ierr.Kind != KindFormat {
		t.Fatalf("err = %v", err)
	}
	for _, f := range []string{"JPEG", "PNG", "WEBP"} {
		if !slices.Contains(ierr.Allowed, f) {
			t.Errorf("Allowed %v missing %s", ierr.Allowed, f)
		}
	}
	if !strings.Contains(ierr.Message(), "JPEG, PNG, WEBP") {
		t.Errorf("Message() = %q", ierr.Message())
	}
	if _, ok := set.Get(models.SlotHero); ok {
		t.Error("hero stored after rejection")
	}
}

func TestSubmitTooLargeReportsMB(t *testing.T) {
	in := New(DefaultTable())
	_, err := in.Submit(models.NewImageSet(), models.SlotLogo, Upload{
		Filename:    "logo.png",
		ContentType: "image/png",
		Size:        2_621_440, // 2.5 MB
	})
	var ierr *ImageError
	if !errors.As(err, &ierr) {
		t.Fatal(err)
	}
	if !strings.Contains(ierr.Error(), "2.5 MB, max 2.0 MB") {
		t.Errorf("Error() = %q", ierr.Error())
	}
}

// A body larger than its declared size is caught by the bounded read.
func TestSubmitUnderstatedSize(t *testing.T) {
	rules := DefaultTable().With(Table{models.SlotHero: {MaxBytes: 64}})
	data := append(encodePNG(t, 2, 2), make([]byte, 256)...)
	u := upload("hero.png", "image/png", data, nil)
	u.Size = 10

	_, err := New(rules).Submit(models.NewImageSet(), models.SlotHero, u)
	var ierr *ImageError
	if !errors.As(err, &ierr) || ierr.Kind != KindTooLarge {
		t.Fatalf("err = %v", err)
	}
}

func TestSubmitOverwrites(t *testing.T) {
	set := models.NewImageSet()
	in := New(DefaultTable())
	data := encodePNG(t, 2, 2)
	for _, name := range []string{"first.png", "second.png"} {
		if _, err := in.Submit(set, models.SlotAbout, upload(name, "image/png", data, nil)); err != nil {
			t.Fatal(err)
		}
	}
	if got, _ := set.Get(models.SlotAbout); got.Filename != "second.png" {
		t.Errorf("about = %q", got.Filename)
	}
}

// Seven files are rejected before any of them is opened.
func TestSubmitBatchTooMany(t *testing.T) {
	data := encodePNG(t, 2, 2)
	opened := 0
	var batch []Upload
	for i := 0; i < 7; i++ {
		batch = append(batch, upload("p.png", "image/png", data, &opened))
	}

	set := models.NewImageSet()
	_, err := New(DefaultTable()).SubmitBatch(set, batch)
	var ierr *ImageError
	if !errors.As(err, &ierr) || ierr.Kind != KindTooManyFiles {
		t.Fatalf("err = %v", err)
	}
	if opened != 0 {
		t.Errorf("%d files opened, want 0", opened)
	}
	if len(set.Portfolio) != 0 {
		t.Error("portfolio populated")
	}
}

func TestTooManyFilesMessage(t *testing.T) {
	tests := []struct {
		slot     models.Slot
		want     string
		unwanted string
	}{
		{models.SlotPortfolio, "Maximum 6 images pour le portfolio (7 envoyées).", ""},
		{models.SlotHero, "Une seule image est acceptée pour « hero » (2 envoyées).", "portfolio"},
		{models.SlotLogo, "Une seule image est acceptée pour « logo »", "portfolio"},
	}

	for _, tt := range tests {
		t.Run(string(tt.slot), func(t *testing.T) {
			count := 2
			if tt.slot == models.SlotPortfolio {
				count = 7
			}
			e := &ImageError{Slot: tt.slot, Kind: KindTooManyFiles, Count: count}
			msg := e.Message()
			if !strings.Contains(msg, tt.want) {
				t.Errorf("Message() = %q, want %q", msg, tt.want)
			}
			if tt.unwanted != "" && strings.Contains(msg, tt.unwanted) {
				t.Errorf("Message() = %q mentions %q", msg, tt.unwanted)
			}
			if tt.slot != models.SlotPortfolio && !strings.HasSuffix(e.Error(), "max 1") {
				t.Errorf("Error() = %q, want max 1", e.Error())
			}
		})
	}
}

func TestSubmitBatchAllOrNothing(t *testing.T) {
	data := encodePNG(t, 2, 2)
	set := models.NewImageSet()
	in := New(DefaultTable())

	if _, err := in.SubmitBatch(set, []Upload{upload("keep.png", "image/png", data, nil)}); err != nil {
		t.Fatal(err)
	}

	opened := 0
	_, err := in.SubmitBatch(set, []Upload{
		upload("a.png", "image/png", data, &opened),
		upload("b.gif", "image/gif", encodeGIF(t), &opened),
		upload("c.png", "image/png", data, &opened),
	})
	var berr *BatchError
	if !errors.As(err, &berr) {
		t.Fatalf("expected BatchError, got %v", err)
	}
	if len(berr.Files) != 1 || berr.Files[0].Filename != "b.gif" {
		t.Errorf("Files = %v", berr.Files)
	}
	if opened != 0 {
		t.Errorf("%d files read from a rejected batch", opened)
	}
	if len(set.Portfolio) != 1 || set.Portfolio[0].Filename != "keep.png" {
		t.Errorf("previous portfolio changed: %v", set.Portfolio)
	}

	got, err := in.SubmitBatch(set, []Upload{
		upload("1.png", "image/png", data, nil),
		upload("2.png", "image/png", data, nil),
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || len(set.Portfolio) != 2 || set.Portfolio[0].Filename != "1.png" {
		t.Errorf("portfolio = %v", set.Portfolio)
	}
}

func TestTableWith(t *testing.T) {
	base := DefaultTable()
	got := base.With(Table{models.SlotHero: {MaxBytes: 8 * mb}})
	if got[models.SlotHero].MaxBytes != 8*mb {
		t.Errorf("override not applied")
	}
	if !slices.Equal(got[models.SlotHero].Allowed, base[models.SlotHero].Allowed) {
		t.Errorf("allow-list lost on partial override")
	}
	if base[models.SlotHero].MaxBytes != 5*mb {
		t.Errorf("base table mutated")
	}
}

func TestPreviewForWideImages(t *testing.T) {
	set := models.NewImageSet()
	asset, err := New(DefaultTable()).Submit(set, models.SlotHero, upload("wide.png", "image/png", encodePNG(t, 600, 300), nil))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(asset.Preview, "data:image/jpeg;base64,") {
		t.Errorf("Preview = %.40q", asset.Preview)
	}
}
