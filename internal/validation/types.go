package validation

import "github.com/samber/lo"

// Severity classifies a validation finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Issue is a single validation finding.
type Issue struct {
	Severity   Severity `json:"severity"`
	Message    string   `json:"message"`
	Path       string   `json:"path,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// Result is the full report for one validation call. Validity depends only on
// the error list; warnings and info never block rendering.
type Result struct {
	IsValid          bool    `json:"is_valid"`
	Errors           []Issue `json:"errors"`
	Warnings         []Issue `json:"warnings"`
	Info             []Issue `json:"info"`
	PerformanceScore float64 `json:"performance_score"`
	SecurityScore    float64 `json:"security_score"`
}

// ErrorMessages returns the plain message text of every error, in order.
func (r *Result) ErrorMessages() []string {
	return lo.Map(r.Errors, func(i Issue, _ int) string { return i.Message })
}

func (r *Result) addError(message, path string) {
	r.Errors = append(r.Errors, Issue{Severity: SeverityError, Message: message, Path: path})
}

func (r *Result) addWarning(message, path, suggestion string) {
	r.Warnings = append(r.Warnings, Issue{Severity: SeverityWarning, Message: message, Path: path, Suggestion: suggestion})
}

func (r *Result) addInfo(message, path string) {
	r.Info = append(r.Info, Issue{Severity: SeverityInfo, Message: message, Path: path})
}
