// Package service contains business logic for the FwdLink application.
//
// This file implements logo normalization for branding uploads.
package service

import (
	"bytes"
	"fmt"
	"io"

	"github.com/disintegration/imaging"
)

// MaxLogoDimension is the largest edge length a stored logo can have.
// Uploads larger than this are scaled down before storage.
const MaxLogoDimension = 512

// =============================================================================
// Interface Definition
// =============================================================================

// LogoProcessor normalizes uploaded logo images for storage.
type LogoProcessor interface {
	// NormalizeLogo decodes the provided image data and re-encodes it as a
	// PNG that fits within maxDim x maxDim, preserving aspect ratio.
	NormalizeLogo(data io.Reader, maxDim int) ([]byte, error)
}

// =============================================================================
// Implementation
// =============================================================================

// imagingProcessor implements LogoProcessor using the imaging library.
type imagingProcessor struct{}

// NewImagingProcessor creates a new logo processor using the imaging library.
func NewImagingProcessor() LogoProcessor {
	return &imagingProcessor{}
}

// NormalizeLogo decodes, resizes, and re-encodes an uploaded logo.
//
// Images already within the size limit are still re-encoded: converting
// every upload to PNG strips EXIF data and guarantees the stored object
// matches its declared content type.
func (p *imagingProcessor) NormalizeLogo(data io.Reader, maxDim int) ([]byte, error) {
	img, err := imaging.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode logo image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxDim || bounds.Dy() > maxDim {
		img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode logo image: %w", err)
	}

	return buf.Bytes(), nil
}
