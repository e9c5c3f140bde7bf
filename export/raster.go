package export

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/disintegration/imaging"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
)

// ExportDPMM is the canonical raster resolution: ~300 DPI, turning the A4
// landscape page into a 3508x2480 px image.
const ExportDPMM = 11.811

// Thumbnail dimensions for social previews (Open Graph card size).
const (
	thumbWidth  = 1200
	thumbHeight = 630
	thumbDPMM   = 4.1
)

// Rasterize renders a composed page to pixels at the given resolution.
func Rasterize(page *canvas.Canvas, dpmm float64) *image.RGBA {
	return rasterizer.Draw(page, canvas.DPMM(dpmm), canvas.DefaultColorSpace)
}

// WritePNG writes one page as a full-resolution PNG, the single-image export
// variant.
func WritePNG(w io.Writer, page *canvas.Canvas) error {
	if err := png.Encode(w, Rasterize(page, ExportDPMM)); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}

// Thumbnail scales a page down into a 1200x630 social-preview image,
// letterboxed on white so the whole certificate stays visible.
func Thumbnail(page *canvas.Canvas) image.Image {
	scaled := imaging.Fit(Rasterize(page, thumbDPMM), thumbWidth, thumbHeight, imaging.Lanczos)
	background := imaging.New(thumbWidth, thumbHeight, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	return imaging.PasteCenter(background, scaled)
}

// WriteThumbnail writes the social-preview JPEG for one page.
func WriteThumbnail(w io.Writer, page *canvas.Canvas) error {
	if err := imaging.Encode(w, Thumbnail(page), imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return fmt.Errorf("encoding thumbnail: %w", err)
	}
	return nil
}
