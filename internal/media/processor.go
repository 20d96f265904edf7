// Package media normalizes uploaded images for web display: bounded
// resize, alpha flattening, JPEG re-encode and thumbnail generation.
package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"log/slog"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/kovzhu/mysite/internal/apperr"
	"github.com/kovzhu/mysite/internal/storage"
)

const (
	maxDisplayWidth  = 1200
	maxDisplayHeight = 800
	displayQuality   = 85

	thumbnailBound   = 400
	thumbnailQuality = 80
)

// Result describes the processed asset.
type Result struct {
	Width         int
	Height        int
	ThumbnailPath string
}

// Processor runs the normalize/resize/thumbnail step of the upload
// pipeline. It is an interface so the synchronous in-request
// implementation can later be swapped for a queued one without touching
// the pipeline contract.
type Processor interface {
	Process(ctx context.Context, ns storage.Namespace, relPath string) (*Result, error)
}

type ImageProcessor struct {
	store  storage.Storage
	logger *slog.Logger
}

func NewImageProcessor(store storage.Storage, logger *slog.Logger) *ImageProcessor {
	return &ImageProcessor{store: store, logger: logger}
}

// Process decodes the stored upload, flattens any alpha channel, bounds
// it to 1200x800 preserving aspect ratio, re-encodes it as JPEG in place
// (lossy, one way) and writes a 400x400-bounded thumbnail alongside.
// Failures wrap ErrProcessing; the raw upload is left where it is and no
// catalog record should be created by the caller.
func (p *ImageProcessor) Process(ctx context.Context, ns storage.Namespace, relPath string) (*Result, error) {
	objectName := ns.ObjectName(relPath)

	rc, err := p.store.Open(ctx, objectName)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", apperr.ErrProcessing, relPath, err)
	}
	img, format, err := image.Decode(rc)
	rc.Close()
	if err != nil {
		return nil, fmt.Errorf("%w: decoding %s: %v", apperr.ErrProcessing, relPath, err)
	}

	// JPEG cannot represent transparency; composite over white before the
	// lossy re-encode.
	flat := flatten(img)
	resized := fit(flat, maxDisplayWidth, maxDisplayHeight)

	if err := p.encodeTo(ctx, objectName, resized, displayQuality); err != nil {
		return nil, err
	}

	thumbRel := storage.ThumbnailPath(relPath)
	thumb := fit(resized, thumbnailBound, thumbnailBound)
	if err := p.encodeTo(ctx, ns.ObjectName(thumbRel), thumb, thumbnailQuality); err != nil {
		return nil, err
	}

	bounds := resized.Bounds()
	p.logger.Debug("processed image",
		"path", relPath,
		"format", format,
		"width", bounds.Dx(),
		"height", bounds.Dy(),
	)

	return &Result{
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		ThumbnailPath: thumbRel,
	}, nil
}

func (p *ImageProcessor) encodeTo(ctx context.Context, name string, img image.Image, quality int) error {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return fmt.Errorf("%w: encoding %s: %v", apperr.ErrProcessing, name, err)
	}
	if err := p.store.Save(ctx, name, &buf, int64(buf.Len())); err != nil {
		return fmt.Errorf("%w: writing %s: %v", apperr.ErrProcessing, name, err)
	}
	return nil
}

// flatten redraws the image onto an opaque white RGBA canvas anchored at
// the origin, discarding alpha and palette color models.
func flatten(img image.Image) *image.RGBA {
	bounds := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, bounds.Min, draw.Over)
	return dst
}

// fit scales the image down to the bounding box, preserving aspect ratio
// exactly. Images already inside the box pass through untouched.
func fit(img image.Image, maxW, maxH int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxW && h <= maxH {
		return img
	}

	scale := math.Min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	newW := int(math.Round(float64(w) * scale))
	newH := int(math.Round(float64(h) * scale))
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Src, nil)
	return dst
}
