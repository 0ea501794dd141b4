package render

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"document-engine/internal/config"
	"document-engine/internal/expression"
	"document-engine/internal/qr"
	"document-engine/internal/template"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(config.Default(), nil)
}

func section(sectionType string, content map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{"type": sectionType, "content": content}
}

func singlePageConfig(sections ...map[string]interface{}) *template.Config {
	raw := make([]interface{}, 0, len(sections))
	for _, s := range sections {
		raw = append(raw, s)
	}
	return template.Parse(map[string]interface{}{
		"metadata": map[string]interface{}{"name": "test"},
		"layout":   map[string]interface{}{},
		"pages": []interface{}{
			map[string]interface{}{"sections": raw},
		},
		"variables": map[string]interface{}{},
	})
}

func TestRender_ProducesPDF(t *testing.T) {
	e := newTestEngine(t)
	cfg := singlePageConfig(
		section("header", map[string]interface{}{"title": "Rutina Semanal", "subtitle": "Hipertrofia"}),
		section("text", map[string]interface{}{"text": "Calentar 10 minutos antes de empezar."}),
	)

	data, err := e.Render(cfg, nil)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestRender_Idempotent(t *testing.T) {
	e := newTestEngine(t)
	cfg := singlePageConfig(
		section("header", map[string]interface{}{"title": "Plan {{ user.name }}"}),
		section("table", map[string]interface{}{
			"headers": []interface{}{"Ejercicio", "Series"},
			"rows":    []interface{}{[]interface{}{"Sentadilla", "4"}},
		}),
	)
	data := expression.Data{"user": map[string]interface{}{"name": "Ana"}}

	first, err := e.Render(cfg, data)
	require.NoError(t, err)
	second, err := e.Render(cfg, data)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResolveVariables_DefaultsNeverOverwriteCallerData(t *testing.T) {
	e := newTestEngine(t)
	cfg := template.Parse(map[string]interface{}{
		"metadata": map[string]interface{}{},
		"layout":   map[string]interface{}{},
		"pages":    []interface{}{},
		"variables": map[string]interface{}{
			"name": map[string]interface{}{"type": "string", "default": "Gym"},
		},
	})

	ctx := e.resolveVariables(cfg, nil)
	assert.Equal(t, "Gym", ctx["name"])
	assert.NotEmpty(t, ctx["current_date"])

	ctx = e.resolveVariables(cfg, expression.Data{"name": "Iron"})
	assert.Equal(t, "Iron", ctx["name"])
}

func TestRenderHeader_ResolvesDeclaredVariable(t *testing.T) {
	e := newTestEngine(t)
	cfg := singlePageConfig(
		section("header", map[string]interface{}{"title": "{{ name }}"}),
	)
	cfg.Variables["name"] = template.Variable{Type: "string", Default: "Gym"}

	flow := e.buildFlow(cfg, e.resolveVariables(cfg, nil))
	require.NotEmpty(t, flow)
	assert.Equal(t, Paragraph{Text: "Gym", Style: StyleTitle}, flow[0])

	flow = e.buildFlow(cfg, e.resolveVariables(cfg, expression.Data{"name": "Iron"}))
	require.NotEmpty(t, flow)
	assert.Equal(t, Paragraph{Text: "Iron", Style: StyleTitle}, flow[0])
}

func TestRender_PageBreaksBetweenPagesOnly(t *testing.T) {
	e := newTestEngine(t)
	cfg := template.Parse(map[string]interface{}{
		"metadata": map[string]interface{}{"name": "three pages"},
		"layout":   map[string]interface{}{},
		"pages": []interface{}{
			map[string]interface{}{"sections": []interface{}{section("text", map[string]interface{}{"text": "uno"})}},
			map[string]interface{}{"sections": []interface{}{section("text", map[string]interface{}{"text": "dos"})}},
			map[string]interface{}{"sections": []interface{}{section("text", map[string]interface{}{"text": "tres"})}},
		},
		"variables": map[string]interface{}{},
	})

	result, err := e.RenderDocument(cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, result.PageCount)
}

func withQR(cfg *template.Config, position string) *template.Config {
	cfg.QRCode = template.QRConfig{
		Enabled:    true,
		Position:   position,
		CustomData: "https://gym.example/r/7",
	}
	return cfg
}

func TestQROverlay_HeaderDrawsOncePerPage(t *testing.T) {
	e := newTestEngine(t)
	cfg := withQR(template.Parse(map[string]interface{}{
		"metadata": map[string]interface{}{},
		"layout":   map[string]interface{}{},
		"pages": []interface{}{
			map[string]interface{}{"sections": []interface{}{section("text", map[string]interface{}{"text": "uno"})}},
			map[string]interface{}{"sections": []interface{}{section("text", map[string]interface{}{"text": "dos"})}},
			map[string]interface{}{"sections": []interface{}{section("text", map[string]interface{}{"text": "tres"})}},
		},
		"variables": map[string]interface{}{},
	}), "header")

	ctx := e.resolveVariables(cfg, nil)
	flow, overlay := e.applyQRDirective(cfg, ctx, e.buildFlow(cfg, ctx))
	require.NotNil(t, overlay)

	result, err := e.encode(cfg, flow, overlay)
	require.NoError(t, err)
	assert.Equal(t, 3, result.PageCount)
	assert.Equal(t, 3, overlay.draws)
}

func TestQRInline_AppearsOnceInFlow(t *testing.T) {
	e := newTestEngine(t)
	cfg := withQR(singlePageConfig(
		section("text", map[string]interface{}{"text": "contenido"}),
	), "inline")

	ctx := e.resolveVariables(cfg, nil)
	flow, overlay := e.applyQRDirective(cfg, ctx, e.buildFlow(cfg, ctx))
	assert.Nil(t, overlay)

	images := 0
	for _, prim := range flow {
		if _, ok := prim.(Image); ok {
			images++
		}
	}
	assert.Equal(t, 1, images)
}

func TestQRSeparate_AddsExactlyOnePage(t *testing.T) {
	e := newTestEngine(t)
	plain := singlePageConfig(section("text", map[string]interface{}{"text": "contenido"}))

	base, err := e.RenderDocument(plain, nil)
	require.NoError(t, err)

	result, err := e.RenderDocument(withQR(singlePageConfig(
		section("text", map[string]interface{}{"text": "contenido"}),
	), "separate"), nil)
	require.NoError(t, err)
	assert.Equal(t, base.PageCount+1, result.PageCount)
}

func TestQRSeparate_AliasesNormalize(t *testing.T) {
	tests := []struct {
		position string
		expected string
	}{
		{"separate", positionSeparate},
		{"separate_sheet", positionSeparate},
		{"sheet", positionSeparate},
		{"HEADER", positionHeader},
		{"footer", positionFooter},
		{"inline", positionInline},
		{"none", positionNone},
		{"", positionNone},
		{"banner", positionNone},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, normalizePosition(tt.position), tt.position)
	}
}

func TestQROverlay_UnresolvablePayloadDisables(t *testing.T) {
	e := newTestEngine(t)
	cfg := singlePageConfig(section("text", map[string]interface{}{"text": "contenido"}))
	cfg.QRCode = template.QRConfig{Enabled: true, Position: "header", DataSource: "user.ghost"}

	ctx := e.resolveVariables(cfg, nil)
	flow, overlay := e.applyQRDirective(cfg, ctx, e.buildFlow(cfg, ctx))
	assert.Nil(t, overlay)
	assert.Len(t, flow, 1)

	_, err := e.Render(cfg, nil)
	assert.NoError(t, err)
}

func TestRender_UnknownSectionDoesNotBreakOthers(t *testing.T) {
	e := newTestEngine(t)
	cfg := singlePageConfig(
		section("hologram", map[string]interface{}{"beam": "on"}),
		section("header", map[string]interface{}{"title": "Sigue Aquí"}),
	)

	flow := e.buildFlow(cfg, e.resolveVariables(cfg, nil))
	require.Len(t, flow, 1)
	assert.Equal(t, Paragraph{Text: "Sigue Aquí", Style: StyleTitle}, flow[0])

	data, err := e.Render(cfg, nil)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func inlinePNGDataURI(t *testing.T) string {
	t.Helper()
	png, err := qr.Encode("sample", 40)
	require.NoError(t, err)
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}

func TestRenderImage_DataURIWithinBudget(t *testing.T) {
	e := newTestEngine(t)
	cfg := singlePageConfig(
		section("image", map[string]interface{}{"src": inlinePNGDataURI(t), "width": 50, "height": 50}),
	)

	flow := e.buildFlow(cfg, e.resolveVariables(cfg, nil))
	require.Len(t, flow, 1)
	img, ok := flow[0].(Image)
	require.True(t, ok)
	assert.Equal(t, "PNG", img.Format)
	assert.Equal(t, 50.0, img.Width)

	data, err := e.Render(cfg, nil)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
}

func TestRenderImage_SilentDrops(t *testing.T) {
	small := config.Default()
	small.MaxInlineImageBytes = 16
	budgeted := NewEngine(small, nil)

	tests := []struct {
		name   string
		engine *Engine
		src    string
	}{
		{"over byte budget", budgeted, inlinePNGDataURI(t)},
		{"remote url", newTestEngine(t), "https://gym.example/logo.png"},
		{"unsupported format", newTestEngine(t), "data:image/tiff;base64,AAAA"},
		{"not base64", newTestEngine(t), "data:image/png;charset=utf8,xxxx"},
		{"empty src", newTestEngine(t), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := singlePageConfig(section("image", map[string]interface{}{"src": tt.src}))
			flow := tt.engine.buildFlow(cfg, tt.engine.resolveVariables(cfg, nil))
			assert.Empty(t, flow)

			_, err := tt.engine.Render(cfg, nil)
			assert.NoError(t, err)
		})
	}
}

func TestRenderText_UnresolvedExpressionKeepsLiteral(t *testing.T) {
	e := newTestEngine(t)
	cfg := singlePageConfig(
		section("text", map[string]interface{}{"text": "Hola {{ missing_name }}"}),
	)

	flow := e.buildFlow(cfg, e.resolveVariables(cfg, nil))
	require.Len(t, flow, 1)
	assert.Equal(t, "Hola {{ missing_name }}", flow[0].(Paragraph).Text)
}

func TestRenderTo_WritesSameBytes(t *testing.T) {
	e := newTestEngine(t)
	cfg := singlePageConfig(section("text", map[string]interface{}{"text": "contenido"}))

	direct, err := e.Render(cfg, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, e.RenderTo(cfg, nil, &buf))
	assert.Equal(t, direct, buf.Bytes())
}

func TestRender_NilConfigFails(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.Render(nil, nil)
	assert.Error(t, err)
}
