// Package expression compiles and evaluates the {{ ... }} micro-template
// expressions embedded in document templates.
//
// Evaluation is strictly best-effort: an expression that cannot be compiled,
// references an undefined name, or fails at runtime resolves to its own
// literal source text instead of failing the render. Compiled programs are
// kept in a bounded LRU so repeated renders of the same template never
// re-parse a fragment.
package expression

import (
	"regexp"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	lru "github.com/hashicorp/golang-lru/v2"

	"document-engine/internal/common/logging"
	"document-engine/internal/template"
)

// OpenMarker is the template-open delimiter. Callers use it as a cheap
// short-circuit before invoking the resolver on plain strings.
const OpenMarker = "{{"

// DefaultCacheSize bounds the compiled-program cache when no explicit size is
// configured.
const DefaultCacheSize = 500

var exprPattern = regexp.MustCompile(`\{\{([^}]*)\}\}`)

// Resolver evaluates template expressions against a Data context.
type Resolver struct {
	programs *lru.Cache[string, *vm.Program]
	logger   logging.Logger
}

// NewResolver creates a resolver with a compiled-expression cache bounded to
// cacheSize entries (oldest evicted first).
func NewResolver(cacheSize int, logger logging.Logger) *Resolver {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	programs, err := lru.New[string, *vm.Program](cacheSize)
	if err != nil {
		// lru.New only fails on a non-positive size, which is guarded above.
		panic(err)
	}
	return &Resolver{programs: programs, logger: logger}
}

// ResolveString replaces every {{ ... }} occurrence in s with its evaluated
// value. Each expression fails independently: its literal source text
// (including delimiters) is kept in place of a value.
func (r *Resolver) ResolveString(s string, data Data) string {
	if !strings.Contains(s, OpenMarker) {
		return s
	}

	return exprPattern.ReplaceAllStringFunc(s, func(match string) string {
		source := strings.TrimSpace(match[2 : len(match)-2])
		if source == "" {
			return match
		}

		value, err := r.Evaluate(source, data)
		if err != nil || value == nil {
			r.logger.Debug("expression left unresolved",
				logging.String("expression", source),
				logging.Err(err))
			return match
		}
		return template.Stringify(value)
	})
}

// Evaluate compiles (or fetches from cache) and runs a single expression.
func (r *Resolver) Evaluate(source string, data Data) (interface{}, error) {
	if err := CheckSource(source); err != nil {
		return nil, err
	}

	program, ok := r.programs.Get(source)
	if !ok {
		var err error
		program, err = expr.Compile(source, sandboxOptions()...)
		if err != nil {
			return nil, err
		}
		r.programs.Add(source, program)
	}

	return expr.Run(program, map[string]interface{}(data))
}

// CacheLen returns the number of compiled programs currently cached.
func (r *Resolver) CacheLen() int {
	return r.programs.Len()
}
