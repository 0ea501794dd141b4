// Package geometry converts layout values into the renderer's native unit
// (PDF points, 1pt = 1/72 inch) and resolves named page sizes.
package geometry

import (
	"strconv"
	"strings"
)

// Conversion factors to points.
const (
	PointsPerInch       = 72.0
	PointsPerMillimeter = 72.0 / 25.4
	PointsPerCentimeter = 72.0 / 2.54
)

// PageSize is a physical page in points, portrait orientation.
type PageSize struct {
	Name   string
	Width  float64
	Height float64
}

// The three supported page sizes. A4 is the fallback for anything
// unrecognized.
var (
	A4     = PageSize{Name: "A4", Width: 595.28, Height: 841.89}
	Letter = PageSize{Name: "Letter", Width: 612, Height: 792}
	Legal  = PageSize{Name: "Legal", Width: 612, Height: 1008}
)

// SupportedPageSizes lists the recognized page size names.
var SupportedPageSizes = []string{"A4", "Letter", "Legal"}

// SupportedOrientations lists the recognized orientation names.
var SupportedOrientations = []string{"portrait", "landscape"}

// ResolvePageSize maps a configured page size name onto one of the supported
// sizes, case-insensitively. Unknown names resolve to A4.
func ResolvePageSize(name string) PageSize {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "letter":
		return Letter
	case "legal":
		return Legal
	default:
		return A4
	}
}

// IsKnownPageSize reports whether name matches a supported size.
func IsKnownPageSize(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "a4", "letter", "legal":
		return true
	}
	return false
}

// IsKnownOrientation reports whether name is portrait or landscape.
func IsKnownOrientation(name string) bool {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "portrait", "landscape":
		return true
	}
	return false
}

// ResolvePage returns the page dimensions in points for a size name and
// orientation, swapping width and height for landscape.
func ResolvePage(sizeName, orientation string) (width, height float64) {
	size := ResolvePageSize(sizeName)
	if strings.EqualFold(strings.TrimSpace(orientation), "landscape") {
		return size.Height, size.Width
	}
	return size.Width, size.Height
}

// ParseLength converts a layout value into points. Accepted forms:
//
//   - numbers: already in points
//   - "12", "12.5": points
//   - "20mm", "2cm", "1in", "15pt": converted by suffix
//
// Anything unparsable yields the fallback.
func ParseLength(v interface{}, fallback float64) float64 {
	switch n := v.(type) {
	case nil:
		return fallback
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case float32:
		return float64(n)
	case float64:
		return n
	case string:
		return parseLengthString(n, fallback)
	}
	return fallback
}

func parseLengthString(s string, fallback float64) float64 {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return fallback
	}

	factor := 1.0
	switch {
	case strings.HasSuffix(s, "mm"):
		factor = PointsPerMillimeter
		s = strings.TrimSuffix(s, "mm")
	case strings.HasSuffix(s, "cm"):
		factor = PointsPerCentimeter
		s = strings.TrimSuffix(s, "cm")
	case strings.HasSuffix(s, "in"):
		factor = PointsPerInch
		s = strings.TrimSuffix(s, "in")
	case strings.HasSuffix(s, "pt"):
		s = strings.TrimSuffix(s, "pt")
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return fallback
	}
	return f * factor
}
