package render

import (
	"strings"

	"document-engine/internal/common/logging"
	"document-engine/internal/expression"
	"document-engine/internal/geometry"
	"document-engine/internal/qr"
	"document-engine/internal/template"
)

// QR overlay positions after normalization.
const (
	positionHeader   = "header"
	positionFooter   = "footer"
	positionInline   = "inline"
	positionSeparate = "separate"
	positionNone     = "none"
)

// overlayCornerOffset is the gap in points between the QR symbol and the
// right margin corner it hangs off.
const overlayCornerOffset = 10.0

// qrOverlay is a pre-encoded QR bitmap drawn on every physical page via the
// page callback. draws counts callback invocations so placement behavior is
// observable.
type qrOverlay struct {
	png   []byte
	size  float64
	top   bool
	draws int
}

// normalizePosition collapses the position aliases. Anything unrecognized
// disables the overlay.
func normalizePosition(position string) string {
	switch strings.ToLower(strings.TrimSpace(position)) {
	case positionHeader:
		return positionHeader
	case positionFooter:
		return positionFooter
	case positionInline:
		return positionInline
	case positionSeparate, "separate_sheet", "sheet":
		return positionSeparate
	default:
		return positionNone
	}
}

// applyQRDirective folds the document-level QR directive into the render:
// header/footer positions become a per-page overlay, inline appends the
// symbol once to the content flow, separate appends a dedicated trailing
// page. An unresolvable payload silently disables the directive.
func (e *Engine) applyQRDirective(cfg *template.Config, data expression.Data, flow []Primitive) ([]Primitive, *qrOverlay) {
	if !cfg.QRCode.Enabled {
		return flow, nil
	}

	position := normalizePosition(cfg.QRCode.Position)
	if position == positionNone {
		return flow, nil
	}

	payload, ok := qr.ResolvePayload(cfg.QRCode, data)
	if !ok {
		e.logger.Debug("document qr payload unresolved, overlay disabled")
		return flow, nil
	}

	size := geometry.ParseLength(cfg.QRCode.Size, qr.DefaultSizePts)
	png, err := qr.Encode(payload, size)
	if err != nil {
		e.logger.Warn("document qr encoding failed, overlay disabled",
			logging.Err(err))
		return flow, nil
	}

	switch position {
	case positionHeader:
		return flow, &qrOverlay{png: png, size: size, top: true}
	case positionFooter:
		return flow, &qrOverlay{png: png, size: size, top: false}
	case positionInline:
		return append(flow, Image{Data: png, Format: "PNG", Width: size, Height: size}), nil
	default: // separate
		return append(flow,
			PageBreak{},
			Paragraph{Text: "Código QR", Style: StyleHeading, Align: "C"},
			Spacer{Height: 12},
			Image{Data: png, Format: "PNG", Width: size, Height: size},
		), nil
	}
}
