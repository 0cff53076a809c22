// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package intake

import (
	"fmt"
	"strings"

	"salonsite/internal/models"
)

// Kind classifies an image rejection.
type Kind string

const (
	KindUnknownSlot  Kind = "unknown_slot"
	KindNotImage     Kind = "not_image"
	KindFormat       Kind = "format"
	KindTooLarge     Kind = "too_large"
	KindNameTooLong  Kind = "name_too_long"
	KindTooManyFiles Kind = "too_many_files"
	KindRead         Kind = "read"
)

// ImageError reports why one upload was rejected. Nothing is stored for the
// slot when it is returned.
type ImageError struct {
	Slot     models.Slot
	Filename string
	Kind     Kind
	Allowed  []string // format names, set for KindFormat
	SizeMB   float64  // set for KindTooLarge
	MaxMB    float64  // set for KindTooLarge
	Count    int      // set for KindTooManyFiles
	Err      error    // set for KindRead
}

func (e *ImageError) Error() string {
	switch e.Kind {
	case KindUnknownSlot:
		return fmt.Sprintf("intake: unknown slot %q", e.Slot)
	case KindNotImage:
		return fmt.Sprintf("intake: %s: %q is not an image", e.Slot, e.Filename)
	case KindFormat:
		return fmt.Sprintf("intake: %s: %q has an unsupported format, allowed: %s", e.Slot, e.Filename, strings.Join(e.Allowed, ", "))
	case KindTooLarge:
		return fmt.Sprintf("intake: %s: %q is %.1f MB, max %.1f MB", e.Slot, e.Filename, e.SizeMB, e.MaxMB)
	case KindNameTooLong:
		return fmt.Sprintf("intake: %s: filename longer than %d characters", e.Slot, MaxFilenameLen)
	case KindTooManyFiles:
		return fmt.Sprintf("intake: %s: %d files submitted, max %d", e.Slot, e.Count, e.maxFiles())
	default:
		return fmt.Sprintf("intake: %s: read %q: %v", e.Slot, e.Filename, e.Err)
	}
}

func (e *ImageError) Unwrap() error { return e.Err }

func (e *ImageError) maxFiles() int {
	if e.Slot == models.SlotPortfolio {
		return models.MaxPortfolioImages
	}
	return 1
}

// Message returns the notice shown next to the slot in the form.
func (e *ImageError) Message() string {
	switch e.Kind {
	case KindUnknownSlot:
		return "Emplacement d'image inconnu."
	case KindNotImage:
		return fmt.Sprintf("%s n'est pas une image.", e.Filename)
	case KindFormat:
		return fmt.Sprintf("Format non supporté pour %s. Formats acceptés : %s.", e.Filename, strings.Join(e.Allowed, ", "))
	case KindTooLarge:
		return fmt.Sprintf("%s est trop volumineux (%.1f MB). Taille maximale : %.1f MB.", e.Filename, e.SizeMB, e.MaxMB)
	case KindNameTooLong:
		return fmt.Sprintf("Le nom du fichier dépasse %d caractères.", MaxFilenameLen)
	case KindTooManyFiles:
		if e.Slot != models.SlotPortfolio {
			return fmt.Sprintf("Une seule image est acceptée pour « %s » (%d envoyées).", e.Slot, e.Count)
		}
		return fmt.Sprintf("Maximum %d images pour le portfolio (%d envoyées).", models.MaxPortfolioImages, e.Count)
	default:
		return fmt.Sprintf("Impossible de lire %s.", e.Filename)
	}
}

// BatchError collects the per-file failures of a rejected portfolio batch.
// No file of the batch was committed.
type BatchError struct {
	Files []*ImageError
}

func (e *BatchError) Error() string {
	msgs := make([]string, len(e.Files))
	for i, f := range e.Files {
		msgs[i] = f.Error()
	}
	return fmt.Sprintf("intake: portfolio batch rejected: %s", strings.Join(msgs, "; "))
}

// Message joins the per-file notices.
func (e *BatchError) Message() string {
	msgs := make([]string, len(e.Files))
	for i, f := range e.Files {
		msgs[i] = f.Message()
	}
	return "Aucune image du lot n'a été ajoutée. " + strings.Join(msgs, " ")
}

func toMB(n int64) float64 {
	return float64(n) / mb
}
