// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package intake

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	_ "image/png" // register PNG decoder

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder

	"salonsite/internal/models"
)

const (
	// previewMaxWidth is the maximum preview width in pixels.
	previewMaxWidth = 240

	// previewQuality is the JPEG quality for generated previews.
	previewQuality = 75

	// maxImagePixels caps the number of pixels to prevent memory bombs.
	maxImagePixels = 100_000_000
)

// thumbableTypes are image types that support preview generation.
// GIF is excluded to preserve animation; SVG is vector.
var thumbableTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// describe records the image dimensions and, for raster images wider than
// maxWidth, a small JPEG preview as a data URI.
func describe(a *models.ImageAsset, maxWidth int) error {
	if !thumbableTypes[a.ContentType] {
		return nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(a.Data))
	if err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	a.Width, a.Height = cfg.Width, cfg.Height

	if int64(cfg.Width)*int64(cfg.Height) > maxImagePixels {
		return fmt.Errorf("image too large: %dx%d exceeds %d pixels", cfg.Width, cfg.Height, maxImagePixels)
	}
	if cfg.Width <= maxWidth {
		return nil
	}

	thumb, err := generateThumbnail(a.Data, maxWidth)
	if err != nil {
		return err
	}
	a.Preview = "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(thumb)
	return nil
}

// generateThumbnail scales an image down to maxWidth preserving the aspect
// ratio and encodes it as JPEG.
func generateThumbnail(data []byte, maxWidth int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	ratio := float64(maxWidth) / float64(bounds.Dx())
	newHeight := max(1, int(float64(bounds.Dy())*ratio))

	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: previewQuality}); err != nil {
		return nil, fmt.Errorf("encode preview: %w", err)
	}
	return buf.Bytes(), nil
}
