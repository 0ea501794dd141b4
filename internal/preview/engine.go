package preview

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"document-engine/internal/common/cache"
	"document-engine/internal/common/logging"
	"document-engine/internal/config"
	"document-engine/internal/expression"
	"document-engine/internal/geometry"
	"document-engine/internal/render"
	"document-engine/internal/template"
	"document-engine/internal/validation"
)

// htmlPlaceholder is the static html preview body. HTML rendering is not
// implemented; callers get a self-describing stand-in instead of a failure.
const htmlPlaceholder = `<!DOCTYPE html>
<html lang="es">
<head><meta charset="utf-8"><title>Vista previa</title></head>
<body><p>La vista previa HTML no está disponible; use el formato pdf o image.</p></body>
</html>`

// Engine produces previews over the document composer, caching results by the
// full input content.
type Engine struct {
	composer   *render.Engine
	cache      *cache.LRU
	rasterizer Rasterizer
	defaultTTL time.Duration
	logger     logging.Logger
}

// NewEngine creates a preview engine with the built-in schematic rasterizer.
// A nil config falls back to built-in defaults.
func NewEngine(cfg *config.Config, logger logging.Logger) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Engine{
		composer:   render.NewEngine(cfg, logger),
		cache:      cache.NewLRU(cfg.PreviewCacheSize),
		rasterizer: NewSchematicRasterizer(),
		defaultTTL: cfg.PreviewCacheTTL,
		logger:     logger,
	}
}

// SetRasterizer swaps the raster backend. A nil rasterizer makes image and
// thumbnail previews fail with "raster conversion unavailable".
func (e *Engine) SetRasterizer(r Rasterizer) {
	e.rasterizer = r
}

// CacheLen returns the number of cached previews, for observability.
func (e *Engine) CacheLen() int {
	return e.cache.Len()
}

// Generate produces one preview. It never returns an error: validation
// failures, unsupported options and raster problems all surface as a Result
// with Success=false.
func (e *Engine) Generate(cfg *template.Config, pcfg Config, data expression.Data) *Result {
	if cfg == nil {
		return failure(pcfg.Format, "template config is required")
	}

	if data == nil && pcfg.GenerateSampleData {
		data = SampleData(cfg)
	}

	var key string
	if pcfg.UseCache {
		key = cacheKey(cfg, pcfg, data)
		if entry, ok := e.cache.Get(key); ok {
			cached := *entry.Value.(*Result)
			cached.CacheHit = true
			e.logger.Debug("preview cache hit", logging.String("key", key[:12]))
			return &cached
		}
	}

	report := validation.Validate(cfg)
	if !report.IsValid {
		return failure(pcfg.Format,
			"template validation failed: "+strings.Join(report.ErrorMessages(), "; "))
	}
	if !knownQuality(pcfg.Quality) {
		return failure(pcfg.Format, fmt.Sprintf("unsupported preview quality: %q", pcfg.Quality))
	}

	started := time.Now()
	result := e.dispatch(cfg, pcfg, data)
	result.GenerationTime = time.Since(started)

	if result.Success && pcfg.UseCache {
		ttl := pcfg.TTL
		if ttl <= 0 {
			ttl = e.defaultTTL
		}
		e.cache.Set(key, result, result.SizeBytes, ttl)
	}
	return result
}

func (e *Engine) dispatch(cfg *template.Config, pcfg Config, data expression.Data) *Result {
	switch pcfg.Format {
	case FormatPDF:
		raw, err := e.composer.Render(cfg, data)
		if err != nil {
			return failure(pcfg.Format, "render failed: "+err.Error())
		}
		return &Result{Success: true, Format: pcfg.Format, Data: raw, SizeBytes: len(raw)}

	case FormatImage, FormatThumbnail:
		return e.rasterize(cfg, pcfg, data)

	case FormatHTML:
		return &Result{Success: true, Format: pcfg.Format, Data: htmlPlaceholder, SizeBytes: len(htmlPlaceholder)}

	case FormatJSON:
		echo := map[string]interface{}{
			"template": cfg.Raw(),
			"data":     map[string]interface{}(data),
		}
		serialized, err := json.Marshal(echo)
		if err != nil {
			return failure(pcfg.Format, "json preview serialization failed: "+err.Error())
		}
		return &Result{Success: true, Format: pcfg.Format, Data: echo, SizeBytes: len(serialized)}

	default:
		return failure(pcfg.Format, fmt.Sprintf("unsupported preview format: %q", pcfg.Format))
	}
}

func (e *Engine) rasterize(cfg *template.Config, pcfg Config, data expression.Data) *Result {
	if e.rasterizer == nil {
		return failure(pcfg.Format, "raster conversion unavailable")
	}

	doc, err := e.composer.RenderDocument(cfg, data)
	if err != nil {
		return failure(pcfg.Format, "render failed: "+err.Error())
	}

	dpi := pcfg.DPI
	if pcfg.Format == FormatThumbnail {
		// Thumbnails always raster at the native page size.
		dpi = 72
	}
	width, height := geometry.ResolvePage(cfg.Layout.PageSize, cfg.Layout.Orientation)

	raw, err := e.rasterizer.Rasterize(RasterRequest{
		PDF:        doc.Data,
		PageIndex:  clampPageIndex(pcfg.Page, doc.PageCount),
		Scale:      rasterScale(dpi),
		PageWidth:  width,
		PageHeight: height,
	})
	if err != nil {
		return failure(pcfg.Format, "raster conversion failed: "+err.Error())
	}
	return &Result{Success: true, Format: pcfg.Format, Data: raw, SizeBytes: len(raw)}
}

// cacheKey content-addresses the full set of render inputs: the raw template
// tree, the preview settings and the data context.
func cacheKey(cfg *template.Config, pcfg Config, data expression.Data) string {
	payload, err := json.Marshal(struct {
		Template map[string]interface{} `json:"template"`
		Preview  Config                 `json:"preview"`
		Data     expression.Data        `json:"data"`
	}{cfg.Raw(), pcfg, data})
	if err != nil {
		// Map keys are strings and values are JSON-decoded scalars, so this
		// only happens for caller-built contexts holding unserializable
		// values; key on what we can describe.
		payload = []byte(fmt.Sprintf("%v|%v|%v", cfg.Raw(), pcfg, data))
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
