// Package preview wraps the document composer for editor previews: format
// conversion, sample data synthesis and a bounded TTL cache keyed by the full
// render input.
//
// Generate never returns an error and never panics; every failure mode is a
// Result with Success=false and an ErrorMessage.
package preview

import "time"

// Preview output formats.
const (
	FormatPDF       = "pdf"
	FormatImage     = "image"
	FormatThumbnail = "thumbnail"
	FormatHTML      = "html"
	FormatJSON      = "json"
)

// Preview quality levels.
const (
	QualityLow    = "low"
	QualityMedium = "medium"
	QualityHigh   = "high"
)

// DefaultDPI is the raster resolution used when the request carries none.
const DefaultDPI = 150.0

// Config describes one preview request. The struct serializes into the cache
// key, so every field participates in content addressing.
type Config struct {
	Format             string        `json:"format"`
	Quality            string        `json:"quality"`
	Page               int           `json:"page"`
	DPI                float64       `json:"dpi"`
	UseCache           bool          `json:"use_cache"`
	TTL                time.Duration `json:"ttl"`
	GenerateSampleData bool          `json:"generate_sample_data"`
}

// DefaultConfig returns the settings an editor preview typically wants: first
// page as PDF, cached.
func DefaultConfig() Config {
	return Config{
		Format:   FormatPDF,
		Quality:  QualityMedium,
		Page:     1,
		DPI:      DefaultDPI,
		UseCache: true,
	}
}

// Result is one preview outcome. Data holds []byte for pdf/image/thumbnail,
// string for html, and a structured map for json.
type Result struct {
	Success        bool
	Format         string
	Data           interface{}
	SizeBytes      int
	GenerationTime time.Duration
	CacheHit       bool
	ErrorMessage   string
}

func failure(format, message string) *Result {
	return &Result{Format: format, ErrorMessage: message}
}

func knownQuality(quality string) bool {
	switch quality {
	case "", QualityLow, QualityMedium, QualityHigh:
		return true
	}
	return false
}
