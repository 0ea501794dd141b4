package preview

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
)

// Raster scale clamps, as a multiple of the 72dpi native page size.
const (
	minRasterScale = 0.5
	maxRasterScale = 4.0
)

// RasterRequest carries everything a rasterizer needs to turn one rendered
// page into a bitmap. PageWidth/PageHeight are in points.
type RasterRequest struct {
	PDF        []byte
	PageIndex  int
	Scale      float64
	PageWidth  float64
	PageHeight float64
}

// Rasterizer converts one page of a rendered document into PNG bytes. Full
// PDF rasterization needs an external renderer, so the implementation is
// pluggable.
type Rasterizer interface {
	Rasterize(req RasterRequest) ([]byte, error)
}

// SchematicRasterizer is the built-in fallback: instead of interpreting the
// PDF content stream it draws a schematic page image (white page, margin
// frame, content band placeholders) at the requested scale.
type SchematicRasterizer struct{}

// NewSchematicRasterizer creates the built-in rasterizer.
func NewSchematicRasterizer() *SchematicRasterizer {
	return &SchematicRasterizer{}
}

// Rasterize draws the schematic page.
func (r *SchematicRasterizer) Rasterize(req RasterRequest) ([]byte, error) {
	width := int(req.PageWidth * req.Scale)
	height := int(req.PageHeight * req.Scale)
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))

	white := color.RGBA{255, 255, 255, 255}
	frame := color.RGBA{180, 180, 180, 255}
	band := color.RGBA{230, 230, 230, 255}

	fillRect(img, 0, 0, width, height, white)

	margin := int(40 * req.Scale)
	strokeRect(img, margin, margin, width-margin, height-margin, frame)

	// Content band placeholders inside the margin frame.
	bandHeight := int(14 * req.Scale)
	gap := int(10 * req.Scale)
	if bandHeight < 1 {
		bandHeight = 1
	}
	for y := margin + gap; y+bandHeight < height-margin-gap; y += bandHeight + gap {
		fillRect(img, margin+gap, y, width-margin-gap, y+bandHeight, band)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func fillRect(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

func strokeRect(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	for x := x0; x < x1; x++ {
		img.SetRGBA(x, y0, c)
		img.SetRGBA(x, y1-1, c)
	}
	for y := y0; y < y1; y++ {
		img.SetRGBA(x0, y, c)
		img.SetRGBA(x1-1, y, c)
	}
}

// rasterScale converts a DPI request into the clamped scale factor.
func rasterScale(dpi float64) float64 {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	scale := dpi / 72.0
	if scale < minRasterScale {
		return minRasterScale
	}
	if scale > maxRasterScale {
		return maxRasterScale
	}
	return scale
}

// clampPageIndex maps a 1-based requested page onto a valid 0-based index.
func clampPageIndex(requested, pageCount int) int {
	idx := requested - 1
	if idx < 0 {
		idx = 0
	}
	if last := pageCount - 1; idx > last {
		idx = last
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}
