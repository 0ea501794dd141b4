package expression

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
)

// sandboxOptions returns the compile options every template expression runs
// under. Expressions only get dotted-name lookups into the data context,
// literals, comparisons and the whitelisted helper functions — no env escape,
// no allocation builtins.
func sandboxOptions() []expr.Option {
	options := []expr.Option{
		expr.DisableBuiltin("make"),
		expr.DisableBuiltin("new"),
		expr.DisableBuiltin("panic"),
		expr.DisableBuiltin("recover"),
		expr.DisableBuiltin("close"),
		expr.DisableBuiltin("delete"),
	}
	return append(options, helperFunctions()...)
}

// dangerous substrings rejected before compilation ever runs. Template
// strings are untrusted tenant input.
var dangerousPatterns = []string{
	"__",
	"import",
	"eval",
	"exec",
	"system",
	"syscall",
	"unsafe",
	"reflect",
	"runtime",
}

// CheckSource rejects expression source that matches a known dangerous
// pattern. The scan is case-insensitive.
func CheckSource(source string) error {
	lower := strings.ToLower(source)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(lower, pattern) {
			return fmt.Errorf("expression contains potentially dangerous pattern: %s", pattern)
		}
	}
	return nil
}
