package render

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"document-engine/internal/common/logging"
	"document-engine/internal/expression"
	"document-engine/internal/geometry"
	"document-engine/internal/qr"
	"document-engine/internal/template"
)

// defaultSpacerHeight is used when a spacer carries no usable height.
const defaultSpacerHeight = 12.0

// exerciseColumns is the default header row of an exercise day table.
var exerciseColumns = []string{"Ejercicio", "Series", "Repeticiones", "Descanso"}

// renderSection turns one section into zero or more layout primitives. Every
// failure mode degrades to "emit nothing": an unusable payload drops the
// section, never the render.
func (e *Engine) renderSection(sec template.Section, data expression.Data) []Primitive {
	switch sec.Type {
	case template.SectionHeader:
		return e.renderHeader(sec.Header(), data)
	case template.SectionText:
		return e.renderText(sec.Text(), data)
	case template.SectionSpacer:
		return renderSpacer(sec.Spacer())
	case template.SectionTable:
		return e.renderTable(sec.Table(), data)
	case template.SectionExerciseTable:
		return e.renderExerciseTable(sec.ExerciseTable(), data)
	case template.SectionImage:
		return e.renderImage(sec.Image())
	case template.SectionQRCode:
		return e.renderInlineQR(sec.QR(), data)
	case template.SectionPageBreak:
		return []Primitive{PageBreak{}}
	case template.SectionExcelHeader:
		return renderExcelHeader(sec.ExcelHeader())
	default:
		e.logger.Debug("skipping unrenderable section",
			logging.String("type", sec.RawType))
		return nil
	}
}

func (e *Engine) renderHeader(c template.HeaderContent, data expression.Data) []Primitive {
	title := e.resolver.ResolveString(c.Title, data)
	subtitle := e.resolver.ResolveString(c.Subtitle, data)
	if title == "" && subtitle == "" {
		return nil
	}

	var out []Primitive
	if title != "" {
		out = append(out, Paragraph{Text: title, Style: StyleTitle})
	}
	if subtitle != "" {
		if title != "" {
			out = append(out, Spacer{Height: 4})
		}
		out = append(out, Paragraph{Text: subtitle, Style: StyleSubtitle})
	}
	return out
}

func (e *Engine) renderText(c template.TextContent, data expression.Data) []Primitive {
	if c.Text == "" {
		return nil
	}
	return []Primitive{Paragraph{
		Text:  e.resolver.ResolveString(c.Text, data),
		Style: StyleBody,
		Align: alignCode(c.Align),
	}}
}

func renderSpacer(c template.SpacerContent) []Primitive {
	return []Primitive{Spacer{Height: geometry.ParseLength(c.Height, defaultSpacerHeight)}}
}

func (e *Engine) renderTable(c template.TableContent, data expression.Data) []Primitive {
	if len(c.Rows) == 0 {
		return nil
	}

	headers := make([]string, len(c.Headers))
	for i, h := range c.Headers {
		headers[i] = e.resolver.ResolveString(h, data)
	}
	rows := make([][]string, len(c.Rows))
	for i, row := range c.Rows {
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = e.resolver.ResolveString(cell, data)
		}
		rows[i] = cells
	}
	return []Primitive{Table{Headers: headers, Rows: rows}}
}

// renderExerciseTable expands the routine's day list into one sub-heading and
// exercise grid per day. Days come from the context, not the template: a
// top-level "dias" sequence, or "routine.dias" as a fallback.
func (e *Engine) renderExerciseTable(c template.ExerciseTableContent, data expression.Data) []Primitive {
	days := lookupDays(data)
	if len(days) == 0 {
		e.logger.Debug("exercise table has no day data")
		return nil
	}

	columns := exerciseColumns
	if len(c.Columns) == len(exerciseColumns) {
		columns = c.Columns
	}

	var out []Primitive
	for i, raw := range days {
		day, _ := raw.(map[string]interface{})

		heading := fmt.Sprintf("Día %d", i+1)
		if name := dayField(day, "nombre", "name"); name != "" {
			heading += " - " + name
		}
		out = append(out, Paragraph{Text: heading, Style: StyleHeading})

		rows := exerciseRows(day)
		if len(rows) == 0 {
			rows = [][]string{{"Sin ejercicios", "-", "-", "-"}}
		}
		out = append(out, Table{Headers: columns, Rows: rows}, Spacer{Height: 8})
	}
	return out
}

func lookupDays(data expression.Data) []interface{} {
	if v, ok := data.GetPath("dias"); ok {
		if days, ok := v.([]interface{}); ok {
			return days
		}
	}
	if v, ok := data.GetPath("routine.dias"); ok {
		if days, ok := v.([]interface{}); ok {
			return days
		}
	}
	return nil
}

func exerciseRows(day map[string]interface{}) [][]string {
	raw, ok := day["ejercicios"].([]interface{})
	if !ok {
		raw, _ = day["exercises"].([]interface{})
	}

	var rows [][]string
	for _, item := range raw {
		ex, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		rows = append(rows, []string{
			dayField(ex, "nombre", "name"),
			dayField(ex, "series", "sets"),
			dayField(ex, "repeticiones", "reps"),
			dayField(ex, "descanso", "rest"),
		})
	}
	return rows
}

// dayField reads the first present key from a loosely shaped day or exercise
// map, stringifying whatever scalar it finds.
func dayField(m map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if v, ok := m[key]; ok {
			if s := template.Stringify(v); s != "" {
				return s
			}
		}
	}
	return ""
}

func (e *Engine) renderInlineQR(c template.QRContent, data expression.Data) []Primitive {
	payload, ok := qr.ResolveSectionPayload(c, data)
	if !ok {
		e.logger.Debug("inline qr payload unresolved, section dropped")
		return nil
	}

	size := geometry.ParseLength(c.Size, qr.DefaultSizePts)
	png, err := qr.Encode(payload, size)
	if err != nil {
		e.logger.Warn("inline qr encoding failed, section dropped",
			logging.Err(err))
		return nil
	}
	return []Primitive{Image{Data: png, Format: "PNG", Width: size, Height: size}}
}

// renderImage accepts inline data: URIs only; anything else, anything that
// fails to decode, and anything over the configured byte budget is dropped.
func (e *Engine) renderImage(c template.ImageContent) []Primitive {
	data, format, ok := decodeDataURI(c.Src)
	if !ok {
		e.logger.Debug("image section has no usable inline source, dropped")
		return nil
	}
	if len(data) > e.cfg.MaxInlineImageBytes {
		e.logger.Debug("inline image over byte budget, dropped",
			logging.Int("size_bytes", len(data)),
			logging.Int("budget_bytes", e.cfg.MaxInlineImageBytes))
		return nil
	}
	return []Primitive{Image{
		Data:   data,
		Format: format,
		Width:  geometry.ParseLength(c.Width, 0),
		Height: geometry.ParseLength(c.Height, 0),
	}}
}

// decodeDataURI extracts the bytes and image format from a
// "data:image/<fmt>;base64,<payload>" reference.
func decodeDataURI(src string) ([]byte, string, bool) {
	if !strings.HasPrefix(src, "data:image/") {
		return nil, "", false
	}
	rest := strings.TrimPrefix(src, "data:image/")

	idx := strings.Index(rest, ";base64,")
	if idx < 0 {
		return nil, "", false
	}

	var format string
	switch strings.ToLower(rest[:idx]) {
	case "png":
		format = "PNG"
	case "jpeg", "jpg":
		format = "JPG"
	case "gif":
		format = "GIF"
	default:
		return nil, "", false
	}

	data, err := base64.StdEncoding.DecodeString(rest[idx+len(";base64,"):])
	if err != nil {
		return nil, "", false
	}
	return data, format, true
}

// renderExcelHeader emits the weekly column band that excel_weekly exercise
// tables reference: a label column followed by one column per week.
func renderExcelHeader(c template.ExcelHeaderContent) []Primitive {
	label := c.Label
	if label == "" {
		label = "Ejercicio"
	}

	var band []string
	if len(c.WeekColumns) > 0 {
		band = append([]string{label}, c.WeekColumns...)
	} else {
		weeks := weekCount(c.Weeks)
		band = make([]string, 0, weeks+1)
		band = append(band, label)
		for i := 1; i <= weeks; i++ {
			band = append(band, fmt.Sprintf("Semana %d", i))
		}
	}
	return []Primitive{Table{Headers: band}}
}

func weekCount(v interface{}) int {
	n := 0
	switch w := v.(type) {
	case int:
		n = w
	case int64:
		n = int(w)
	case float64:
		n = int(w)
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(w), 64); err == nil {
			n = int(f)
		}
	}
	if n < 1 || n > 52 {
		return 4
	}
	return n
}

func alignCode(align string) string {
	switch strings.ToLower(strings.TrimSpace(align)) {
	case "center", "centre":
		return "C"
	case "right":
		return "R"
	case "justify":
		return "J"
	default:
		return "L"
	}
}
