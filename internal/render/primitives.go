package render

// Layout primitives are the intermediate representation between section
// rendering and PDF encoding. Sections produce an ordered primitive list;
// the encoder walks it and drives the page-layout backend.

// Primitive is one element of the content flow.
type Primitive interface {
	isPrimitive()
}

// TextStyle selects the typography of a paragraph.
type TextStyle int

const (
	StyleBody TextStyle = iota
	StyleTitle
	StyleSubtitle
	StyleHeading
)

// Paragraph is a block of text.
type Paragraph struct {
	Text  string
	Style TextStyle
	Align string // L, C, R
}

// Table is a literal grid with an optional styled header row.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Image is a decoded inline image ready for placement.
type Image struct {
	Data   []byte
	Format string // PNG, JPG, GIF
	Width  float64
	Height float64
}

// Spacer is vertical whitespace in points.
type Spacer struct {
	Height float64
}

// PageBreak forces a new physical page.
type PageBreak struct{}

func (Paragraph) isPrimitive() {}
func (Table) isPrimitive()     {}
func (Image) isPrimitive()     {}
func (Spacer) isPrimitive()    {}
func (PageBreak) isPrimitive() {}
