// Package qr resolves QR payloads from template directives and encodes them
// as scannable PNG bitmaps.
package qr

import (
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"document-engine/internal/expression"
	"document-engine/internal/template"
)

// DefaultSizePts is the symbol edge length used when a directive carries no
// size of its own.
const DefaultSizePts = 80.0

// ResolvePayload determines the string a QR directive should encode. Sources
// are consulted in order:
//
//  1. an explicit custom_data literal
//  2. a field on the context's "user" object  (data_source "user.<field>")
//  3. a field on the context's "routine" object (data_source "routine.<field>")
//
// It reports false when no source yields a non-empty string; the caller is
// expected to silently disable the QR in that case.
func ResolvePayload(cfg template.QRConfig, data expression.Data) (string, bool) {
	if cfg.CustomData != "" {
		return cfg.CustomData, true
	}

	source := strings.TrimSpace(cfg.DataSource)
	if source == "" {
		return "", false
	}
	if !strings.HasPrefix(source, "user.") && !strings.HasPrefix(source, "routine.") {
		return "", false
	}

	value, ok := data.GetPath(source)
	if !ok {
		return "", false
	}
	payload := template.Stringify(value)
	if payload == "" {
		return "", false
	}
	return payload, true
}

// ResolveSectionPayload applies the same source rules to an inline qr_code
// section, whose content uses "data" for the literal form.
func ResolveSectionPayload(content template.QRContent, data expression.Data) (string, bool) {
	return ResolvePayload(template.QRConfig{
		CustomData: content.Data,
		DataSource: content.DataSource,
	}, data)
}

// Encode renders the payload as a PNG bitmap. The pixel edge is derived from
// the requested point size so the symbol stays crisp when placed at that size.
func Encode(payload string, sizePts float64) ([]byte, error) {
	if sizePts <= 0 {
		sizePts = DefaultSizePts
	}
	// Render at 4x the placed size; QR modules survive downscaling.
	pixels := int(sizePts * 4)
	if pixels < 64 {
		pixels = 64
	}
	return qrcode.Encode(payload, qrcode.Medium, pixels)
}
