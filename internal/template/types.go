// Package template defines the declarative document template model consumed
// by the validator, the composer and the preview engine.
//
// A template arrives as a JSON-compatible tree (map[string]interface{}). The
// package decodes it into typed structs, keeping the raw tree around for the
// validator's structural and serialized-content scans.
package template

// Config is the parsed template document.
type Config struct {
	Metadata  Metadata
	Layout    Layout
	Pages     []Page
	Variables map[string]Variable
	QRCode    QRConfig
	Styling   map[string]interface{}

	raw map[string]interface{}
}

// Raw returns the original JSON-compatible tree the config was parsed from.
func (c *Config) Raw() map[string]interface{} {
	return c.raw
}

// Has reports whether a top-level key was present in the source document.
func (c *Config) Has(key string) bool {
	_, ok := c.raw[key]
	return ok
}

// Metadata describes the template itself.
type Metadata struct {
	Name        string
	Version     string
	Description string
	Tags        []string
	Extra       map[string]interface{}
}

// Layout carries page geometry settings. Margin values keep their raw form
// (bare number or suffixed string like "20mm") for the geometry helper.
type Layout struct {
	PageSize    string
	Orientation string
	Margins     Margins
}

// Margins are raw layout values, parsed by the geometry package.
type Margins struct {
	Top    interface{}
	Bottom interface{}
	Left   interface{}
	Right  interface{}
}

// Page is one ordered group of sections.
type Page struct {
	Name     string
	Sections []Section
}

// Variable declares a named binding with a default value.
type Variable struct {
	Type     string
	Default  interface{}
	Required bool
}

// Variable types accepted by the validator.
var VariableTypes = map[string]bool{
	"string":  true,
	"number":  true,
	"boolean": true,
	"date":    true,
	"image":   true,
}

// QRConfig is the document-level QR directive.
type QRConfig struct {
	Enabled    bool
	Position   string // header, footer, inline, separate, none
	DataSource string // user.<field> or routine.<field>
	CustomData string
	Size       interface{}
}

// SectionType enumerates the closed set of section variants. Anything else
// normalizes to SectionUnknown and renders as nothing.
type SectionType string

const (
	SectionHeader        SectionType = "header"
	SectionText          SectionType = "text"
	SectionSpacer        SectionType = "spacer"
	SectionTable         SectionType = "table"
	SectionExerciseTable SectionType = "exercise_table"
	SectionImage         SectionType = "image"
	SectionQRCode        SectionType = "qr_code"
	SectionPageBreak     SectionType = "page_break"
	SectionExcelHeader   SectionType = "excel_header"
	SectionUnknown       SectionType = "unknown"
)

// KnownSectionTypes lists every renderable type name, for validator
// suggestions.
var KnownSectionTypes = []string{
	"header", "text", "spacing", "spacer", "table", "exercise_table",
	"image", "qr_code", "page_break", "excel_header",
}

// ParseSectionType normalizes a raw type string. "spacing" is a legacy alias
// for "spacer".
func ParseSectionType(s string) SectionType {
	switch s {
	case "header":
		return SectionHeader
	case "text":
		return SectionText
	case "spacing", "spacer":
		return SectionSpacer
	case "table":
		return SectionTable
	case "exercise_table":
		return SectionExerciseTable
	case "image":
		return SectionImage
	case "qr_code":
		return SectionQRCode
	case "page_break":
		return SectionPageBreak
	case "excel_header":
		return SectionExcelHeader
	default:
		return SectionUnknown
	}
}

// Section is one typed content block within a page.
type Section struct {
	Type    SectionType
	RawType string
	Content map[string]interface{}
}

// HeaderContent is the payload of a header section.
type HeaderContent struct {
	Title    string
	Subtitle string
}

// TextContent is the payload of a text section.
type TextContent struct {
	Text  string
	Align string
}

// SpacerContent is the payload of a spacer section. Height keeps its raw
// layout-value form.
type SpacerContent struct {
	Height interface{}
}

// TableContent is the payload of a table section: a literal 2-D grid with an
// optional header row.
type TableContent struct {
	Headers []string
	Rows    [][]string
}

// ExerciseTableContent is the payload of an exercise_table section.
type ExerciseTableContent struct {
	Columns     []string
	Format      string
	Weeks       interface{}
	WeekColumns []string
	Label       string
}

// ImageContent is the payload of an image section. Only data: URIs render.
type ImageContent struct {
	Src    string
	Width  interface{}
	Height interface{}
}

// QRContent is the payload of an inline qr_code section.
type QRContent struct {
	Data       string
	DataSource string
	Size       interface{}
}

// ExcelHeaderContent is the payload of an excel_header section: the weekly
// column band referenced by exercise tables in excel_weekly format.
type ExcelHeaderContent struct {
	Weeks       interface{}
	WeekColumns []string
	Label       string
}

// Header decodes the section content as a header payload.
func (s Section) Header() HeaderContent {
	return HeaderContent{
		Title:    str(s.Content, "title"),
		Subtitle: str(s.Content, "subtitle"),
	}
}

// Text decodes the section content as a text payload.
func (s Section) Text() TextContent {
	return TextContent{
		Text:  str(s.Content, "text"),
		Align: str(s.Content, "align"),
	}
}

// Spacer decodes the section content as a spacer payload.
func (s Section) Spacer() SpacerContent {
	return SpacerContent{Height: s.Content["height"]}
}

// Table decodes the section content as a table payload.
func (s Section) Table() TableContent {
	return TableContent{
		Headers: strSlice(s.Content, "headers"),
		Rows:    grid(s.Content, "rows"),
	}
}

// ExerciseTable decodes the section content as an exercise table payload.
func (s Section) ExerciseTable() ExerciseTableContent {
	return ExerciseTableContent{
		Columns:     strSlice(s.Content, "columns"),
		Format:      str(s.Content, "format"),
		Weeks:       s.Content["weeks"],
		WeekColumns: strSlice(s.Content, "week_columns"),
		Label:       str(s.Content, "label"),
	}
}

// Image decodes the section content as an image payload.
func (s Section) Image() ImageContent {
	return ImageContent{
		Src:    str(s.Content, "src"),
		Width:  s.Content["width"],
		Height: s.Content["height"],
	}
}

// QR decodes the section content as an inline QR payload.
func (s Section) QR() QRContent {
	return QRContent{
		Data:       str(s.Content, "data"),
		DataSource: str(s.Content, "data_source"),
		Size:       s.Content["size"],
	}
}

// ExcelHeader decodes the section content as an excel header payload.
func (s Section) ExcelHeader() ExcelHeaderContent {
	return ExcelHeaderContent{
		Weeks:       s.Content["weeks"],
		WeekColumns: strSlice(s.Content, "week_columns"),
		Label:       str(s.Content, "label"),
	}
}
