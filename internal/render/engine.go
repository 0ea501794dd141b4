// Package render composes parsed templates and a runtime data context into
// PDF documents.
//
// Rendering is best-effort by design: sections whose payloads cannot be used
// drop out of the document, unresolved expressions keep their literal source
// text, and an unresolvable QR directive disables itself. Only genuinely
// unexpected composition failures surface as errors.
package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	apperrors "document-engine/internal/common/errors"
	"document-engine/internal/common/logging"
	"document-engine/internal/config"
	"document-engine/internal/expression"
	"document-engine/internal/geometry"
	"document-engine/internal/template"
)

const (
	defaultMarginPts = 40.0
	overlayImageName = "qr-overlay"
)

// Typography per paragraph style: size and line height in points.
var styleMetrics = map[TextStyle]struct {
	size   float64
	line   float64
	weight string
}{
	StyleTitle:    {size: 18, line: 24, weight: "B"},
	StyleSubtitle: {size: 13, line: 18, weight: ""},
	StyleHeading:  {size: 13, line: 18, weight: "B"},
	StyleBody:     {size: 11, line: 15, weight: ""},
}

// Metadata timestamps are pinned so identical inputs produce byte-identical
// documents.
var fixedDocumentDate = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

// Engine composes templates into PDF byte streams.
type Engine struct {
	cfg      *config.Config
	resolver *expression.Resolver
	logger   logging.Logger
}

// Result is one finished composition.
type Result struct {
	Data      []byte
	PageCount int
}

// NewEngine creates a composer. A nil config falls back to built-in defaults.
func NewEngine(cfg *config.Config, logger logging.Logger) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Engine{
		cfg:      cfg,
		resolver: expression.NewResolver(cfg.ExpressionCacheSize, logger),
		logger:   logger,
	}
}

// Render composes the template against the data context and returns the PDF
// bytes.
func (e *Engine) Render(cfg *template.Config, data expression.Data) ([]byte, error) {
	result, err := e.RenderDocument(cfg, data)
	if err != nil {
		return nil, err
	}
	return result.Data, nil
}

// RenderTo composes the template and writes the PDF to w.
func (e *Engine) RenderTo(cfg *template.Config, data expression.Data, w io.Writer) error {
	result, err := e.RenderDocument(cfg, data)
	if err != nil {
		return err
	}
	if _, err := w.Write(result.Data); err != nil {
		return apperrors.RenderError("failed to write rendered document", err)
	}
	return nil
}

// RenderDocument composes the template and returns the bytes together with
// the physical page count.
func (e *Engine) RenderDocument(cfg *template.Config, data expression.Data) (*Result, error) {
	if cfg == nil {
		return nil, apperrors.RenderError("template config is required", nil)
	}

	started := time.Now()
	ctx := e.resolveVariables(cfg, data)
	flow := e.buildFlow(cfg, ctx)
	flow, overlay := e.applyQRDirective(cfg, ctx, flow)

	result, err := e.encode(cfg, flow, overlay)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("document rendered",
		logging.String("template", cfg.Metadata.Name),
		logging.Int("pages", result.PageCount),
		logging.Int("size_bytes", len(result.Data)),
		logging.Duration("elapsed", time.Since(started)))
	return result, nil
}

// resolveVariables builds the effective data context: the caller's data, an
// implicit current_date when absent, and declared variable defaults for keys
// the caller did not supply. Caller data always wins.
func (e *Engine) resolveVariables(cfg *template.Config, data expression.Data) expression.Data {
	ctx := data.Clone()

	if _, ok := ctx["current_date"]; !ok {
		ctx["current_date"] = time.Now().UTC().Format("2006-01-02")
	}
	for name, variable := range cfg.Variables {
		if _, ok := ctx[name]; !ok && variable.Default != nil {
			ctx[name] = variable.Default
		}
	}
	return ctx
}

// buildFlow renders every page's sections into one primitive stream, with a
// page break between pages but none after the last.
func (e *Engine) buildFlow(cfg *template.Config, data expression.Data) []Primitive {
	var flow []Primitive
	for i, page := range cfg.Pages {
		if i > 0 {
			flow = append(flow, PageBreak{})
		}
		for _, section := range page.Sections {
			flow = append(flow, e.renderSection(section, data)...)
		}
	}
	return flow
}

// encode walks the primitive stream into the PDF backend.
func (e *Engine) encode(cfg *template.Config, flow []Primitive, overlay *qrOverlay) (*Result, error) {
	width, height := geometry.ResolvePage(cfg.Layout.PageSize, cfg.Layout.Orientation)
	margins := cfg.Layout.Margins
	left := geometry.ParseLength(margins.Left, defaultMarginPts)
	top := geometry.ParseLength(margins.Top, defaultMarginPts)
	right := geometry.ParseLength(margins.Right, defaultMarginPts)
	bottom := geometry.ParseLength(margins.Bottom, defaultMarginPts)

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(fixedDocumentDate)
	pdf.SetTitle(cfg.Metadata.Name, true)
	pdf.SetMargins(left, top, right)
	pdf.SetAutoPageBreak(true, bottom)

	family := fontFamily(cfg.Styling)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	contentWidth := width - left - right

	if overlay != nil {
		pdf.RegisterImageOptionsReader(overlayImageName,
			gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(overlay.png))
		pdf.SetHeaderFunc(func() {
			overlay.draws++
			x := width - right - overlay.size
			y := overlayCornerOffset
			if !overlay.top {
				y = height - overlay.size - overlayCornerOffset
			}
			pdf.ImageOptions(overlayImageName, x, y, overlay.size, overlay.size,
				false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
		})
	}

	pdf.AddPage()
	pdf.SetFont(family, "", styleMetrics[StyleBody].size)

	imageIndex := 0
	for _, prim := range flow {
		switch p := prim.(type) {
		case Paragraph:
			metric := styleMetrics[p.Style]
			pdf.SetFont(family, metric.weight, metric.size)
			align := p.Align
			if align == "" {
				align = "L"
			}
			pdf.MultiCell(0, metric.line, tr(p.Text), "", align, false)
			pdf.Ln(2)

		case Table:
			drawTable(pdf, tr, family, contentWidth, p)

		case Image:
			imageIndex++
			name := fmt.Sprintf("inline-%d", imageIndex)
			opts := gofpdf.ImageOptions{ImageType: p.Format}
			pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(p.Data))
			pdf.ImageOptions(name, pdf.GetX(), pdf.GetY(), p.Width, p.Height, true, opts, 0, "")
			pdf.Ln(4)

		case Spacer:
			pdf.Ln(p.Height)

		case PageBreak:
			pdf.AddPage()
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, apperrors.RenderError("document encoding failed", err)
	}
	return &Result{Data: buf.Bytes(), PageCount: pdf.PageCount()}, nil
}

// drawTable renders a grid with equal column widths across the content area.
// The header row gets a filled background and bold weight; data rows do not.
func drawTable(pdf *gofpdf.Fpdf, tr func(string) string, family string, contentWidth float64, t Table) {
	columns := len(t.Headers)
	for _, row := range t.Rows {
		if len(row) > columns {
			columns = len(row)
		}
	}
	if columns == 0 {
		return
	}
	colWidth := contentWidth / float64(columns)

	if len(t.Headers) > 0 {
		pdf.SetFont(family, "B", 10)
		pdf.SetFillColor(224, 224, 224)
		for i := 0; i < columns; i++ {
			var cell string
			if i < len(t.Headers) {
				cell = t.Headers[i]
			}
			pdf.CellFormat(colWidth, 18, tr(cell), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont(family, "", 10)
	for _, row := range t.Rows {
		for i := 0; i < columns; i++ {
			var cell string
			if i < len(row) {
				cell = row[i]
			}
			pdf.CellFormat(colWidth, 16, tr(cell), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)
}

// fontFamily reads the styling fonts hint, mapping it onto one of the three
// built-in font families. Helvetica is the fallback.
func fontFamily(styling map[string]interface{}) string {
	fonts, _ := styling["fonts"].(map[string]interface{})
	family, _ := fonts["family"].(string)

	switch strings.ToLower(strings.TrimSpace(family)) {
	case "times", "serif":
		return "Times"
	case "courier", "mono", "monospace":
		return "Courier"
	default:
		return "Helvetica"
	}
}
