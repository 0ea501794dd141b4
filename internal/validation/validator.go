// Package validation implements the structural and heuristic template
// validator that gates rendering.
//
// Validate never returns an error: every finding lands in the Result as an
// error, warning or info entry. Only missing required top-level keys and a
// non-sequence pages value are errors; all content-shape issues are
// warnings so a template can still render best-effort.
package validation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xrash/smetrics"

	"document-engine/internal/geometry"
	"document-engine/internal/template"
)

var fieldValidator = validator.New()

// Scoring heuristics. Scores start at 100 and only decrease.
const (
	maxScore = 100.0

	pageCountThreshold     = 10
	pageCountPenalty       = 10
	sectionCountThreshold  = 50
	sectionCountPenalty    = 15
	variableCountThreshold = 100
	variableCountPenalty   = 10

	scriptSchemePenalty = 30
)

var requiredTopLevelKeys = []string{"metadata", "layout", "pages", "variables"}

// Validate runs every pass over the parsed config and returns a fresh Result.
func Validate(cfg *template.Config) *Result {
	result := &Result{
		PerformanceScore: maxScore,
		SecurityScore:    maxScore,
	}

	structuralOK := checkStructure(cfg, result)
	if structuralOK {
		checkSections(cfg, result)
		checkLayout(cfg, result)
		checkVariables(cfg, result)
		checkQR(cfg, result)
	}

	scorePerformance(cfg, result)
	scoreSecurity(cfg, result)

	result.IsValid = len(result.Errors) == 0
	return result
}

// checkStructure verifies the four required top-level keys. A missing or
// non-sequence pages value is fatal: the remaining passes are skipped.
func checkStructure(cfg *template.Config, result *Result) bool {
	for _, key := range requiredTopLevelKeys {
		if !cfg.Has(key) {
			result.addError(fmt.Sprintf("missing required top-level key %q", key), key)
		}
	}

	if !cfg.Has("pages") {
		return false
	}
	if _, ok := cfg.Raw()["pages"].([]interface{}); !ok {
		result.addError("pages must be a sequence of page objects", "pages")
		return false
	}
	return true
}

func checkSections(cfg *template.Config, result *Result) {
	for pi, page := range cfg.Pages {
		pagePath := fmt.Sprintf("pages[%d]", pi)
		if len(page.Sections) == 0 {
			result.addWarning("page has no sections", pagePath, "add at least one section or remove the page")
			continue
		}
		for si, section := range page.Sections {
			checkSection(section, fmt.Sprintf("%s.sections[%d]", pagePath, si), result)
		}
	}
}

func checkSection(s template.Section, path string, result *Result) {
	switch s.Type {
	case template.SectionUnknown:
		result.addWarning(
			fmt.Sprintf("unknown section type %q", s.RawType),
			path,
			fmt.Sprintf("did you mean %q?", closestSectionType(s.RawType)),
		)

	case template.SectionHeader:
		h := s.Header()
		if h.Title == "" && h.Subtitle == "" {
			result.addWarning("header section has neither title nor subtitle", path, "set content.title or content.subtitle")
		}

	case template.SectionText:
		if s.Text().Text == "" {
			result.addWarning("text section has empty text", path, "set content.text")
		}

	case template.SectionTable:
		if len(s.Table().Rows) == 0 {
			result.addWarning("table section has no rows", path, "add at least one row to content.rows")
		}

	case template.SectionExerciseTable:
		et := s.ExerciseTable()
		if et.Format == "excel_weekly" && !template.IsNumeric(et.Weeks) {
			result.addWarning("excel_weekly exercise table needs a numeric weeks value", path, "set content.weeks to a number")
		}

	case template.SectionImage:
		img := s.Image()
		if img.Src == "" {
			result.addWarning("image section has empty src", path, "set content.src to a data: URI")
		} else if !strings.HasPrefix(img.Src, "data:") {
			result.addWarning("image src is not an inline data: URI and will be dropped at render time", path, "embed the image as a data: URI")
		}

	case template.SectionQRCode:
		q := s.QR()
		if q.Data == "" && q.DataSource == "" {
			result.addWarning("qr_code section has neither data nor data_source", path, "set content.data or content.data_source")
		}

	case template.SectionSpacer:
		if h := s.Spacer().Height; h != nil && geometry.ParseLength(h, -1) < 0 {
			result.addInfo("spacer height is not a recognizable length, default spacing applies", path)
		}
	}
}

func checkLayout(cfg *template.Config, result *Result) {
	layout := cfg.Layout
	if layout.PageSize != "" && !geometry.IsKnownPageSize(layout.PageSize) {
		result.addWarning(
			fmt.Sprintf("unknown page size %q", layout.PageSize),
			"layout.page_size",
			fmt.Sprintf("did you mean %q?", closest(layout.PageSize, geometry.SupportedPageSizes)),
		)
	}
	if layout.Orientation != "" && !geometry.IsKnownOrientation(layout.Orientation) {
		result.addWarning(
			fmt.Sprintf("unknown orientation %q", layout.Orientation),
			"layout.orientation",
			fmt.Sprintf("did you mean %q?", closest(layout.Orientation, geometry.SupportedOrientations)),
		)
	}
}

func checkVariables(cfg *template.Config, result *Result) {
	for name, v := range cfg.Variables {
		path := fmt.Sprintf("variables.%s", name)

		if v.Type != "" && !template.VariableTypes[v.Type] {
			result.addWarning(
				fmt.Sprintf("variable %q has unknown type %q", name, v.Type),
				path,
				"use one of: string, number, boolean, date, image",
			)
		}

		if v.Type == "image" {
			if def, ok := v.Default.(string); ok && def != "" {
				if err := fieldValidator.Var(def, "datauri"); err != nil {
					result.addWarning(
						fmt.Sprintf("image variable %q default is not an inline data: URI", name),
						path,
						"use a data:<mime>;base64,... default",
					)
				}
			}
		}

		if v.Required && v.Default == nil {
			result.addWarning(
				fmt.Sprintf("required variable %q has no default", name),
				path,
				"provide a default or supply the value in every render call",
			)
		}
	}
}

func checkQR(cfg *template.Config, result *Result) {
	q := cfg.QRCode
	if q.Enabled && q.DataSource == "" && q.CustomData == "" {
		result.addWarning(
			"qr_code is enabled but has neither data_source nor custom_data",
			"qr_code",
			"set qr_code.data_source or qr_code.custom_data",
		)
	}
}

func scorePerformance(cfg *template.Config, result *Result) {
	score := result.PerformanceScore
	if len(cfg.Pages) > pageCountThreshold {
		score -= pageCountPenalty
	}
	if cfg.SectionCount() > sectionCountThreshold {
		score -= sectionCountPenalty
	}
	if len(cfg.Variables) > variableCountThreshold {
		score -= variableCountPenalty
	}
	result.PerformanceScore = clampScore(score)
}

// scoreSecurity scans the serialized config for script-scheme content. This
// is a conservative heuristic, not a taint analysis.
func scoreSecurity(cfg *template.Config, result *Result) {
	score := result.SecurityScore

	serialized, err := json.Marshal(cfg.Raw())
	if err == nil && strings.Contains(strings.ToLower(string(serialized)), "javascript:") {
		score -= scriptSchemePenalty
		result.addWarning("template contains a javascript: reference", "", "remove script-scheme URLs from the template")
	}

	result.SecurityScore = clampScore(score)
}

func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > maxScore {
		return maxScore
	}
	return s
}

func closestSectionType(raw string) string {
	return closest(raw, template.KnownSectionTypes)
}

// closest picks the candidate with the highest Jaro-Winkler similarity.
func closest(input string, candidates []string) string {
	best := candidates[0]
	bestScore := -1.0
	lower := strings.ToLower(input)
	for _, c := range candidates {
		score := smetrics.JaroWinkler(lower, strings.ToLower(c), 0.7, 4)
		if score > bestScore {
			bestScore = score
			best = c
		}
	}
	return best
}
