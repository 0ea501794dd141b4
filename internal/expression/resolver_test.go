package expression

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"document-engine/internal/common/logging"
)

func newTestResolver(size int) *Resolver {
	return NewResolver(size, logging.NewNopLogger())
}

func TestResolveString_SimpleLookup(t *testing.T) {
	r := newTestResolver(0)
	data := Data{"name": "Iron Temple"}

	assert.Equal(t, "Bienvenido a Iron Temple", r.ResolveString("Bienvenido a {{ name }}", data))
}

func TestResolveString_DottedLookup(t *testing.T) {
	r := newTestResolver(0)
	data := Data{
		"user": map[string]interface{}{"name": "Ana", "level": "pro"},
	}

	assert.Equal(t, "Ana (pro)", r.ResolveString("{{ user.name }} ({{ user.level }})", data))
}

func TestResolveString_UndefinedKeepsLiteral(t *testing.T) {
	r := newTestResolver(0)

	out := r.ResolveString("Hola {{ missing_name }}", Data{})
	assert.Equal(t, "Hola {{ missing_name }}", out)
}

func TestResolveString_MixedFailureIsPerExpression(t *testing.T) {
	r := newTestResolver(0)
	data := Data{"name": "Gym"}

	out := r.ResolveString("{{ name }} / {{ nope }}", data)
	assert.Equal(t, "Gym / {{ nope }}", out)
}

func TestResolveString_PlainStringUntouched(t *testing.T) {
	r := newTestResolver(0)
	assert.Equal(t, "sin plantilla", r.ResolveString("sin plantilla", Data{"x": 1}))
}

func TestResolveString_EmptyExpression(t *testing.T) {
	r := newTestResolver(0)
	assert.Equal(t, "a {{}} b", r.ResolveString("a {{}} b", Data{}))
}

func TestResolveString_NumbersRenderWithoutDecimal(t *testing.T) {
	r := newTestResolver(0)
	data := Data{"weeks": float64(4), "rate": 1.5}

	assert.Equal(t, "4 semanas", r.ResolveString("{{ weeks }} semanas", data))
	assert.Equal(t, "1.5", r.ResolveString("{{ rate }}", data))
}

func TestResolveString_HelperFunctions(t *testing.T) {
	r := newTestResolver(0)
	data := Data{"name": "  ana  "}

	assert.Equal(t, "ANA", r.ResolveString("{{ upper(trim(name)) }}", data))
	assert.Equal(t, "fallback", r.ResolveString(`{{ default(ghost, "fallback") }}`, Data{"ghost": ""}))
}

func TestEvaluate_RejectsDangerousSource(t *testing.T) {
	r := newTestResolver(0)

	_, err := r.Evaluate(`import_something`, Data{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dangerous")

	// And through ResolveString the literal survives.
	out := r.ResolveString("{{ __internals__ }}", Data{})
	assert.Equal(t, "{{ __internals__ }}", out)
}

func TestEvaluate_Comparisons(t *testing.T) {
	r := newTestResolver(0)

	v, err := r.Evaluate("weeks > 2", Data{"weeks": 4})
	require.NoError(t, err)
	assert.Equal(t, true, v)
}

func TestResolver_CacheBound(t *testing.T) {
	r := newTestResolver(5)
	for i := 0; i < 20; i++ {
		r.ResolveString(fmt.Sprintf("{{ v%d }}", i), Data{fmt.Sprintf("v%d", i): i})
	}
	assert.LessOrEqual(t, r.CacheLen(), 5)
}

func TestResolver_CacheReuse(t *testing.T) {
	r := newTestResolver(10)
	data := Data{"name": "Gym"}

	r.ResolveString("{{ name }}", data)
	first := r.CacheLen()
	r.ResolveString("{{ name }}", data)

	assert.Equal(t, first, r.CacheLen(), "same source must not grow the cache")
}

func TestData_GetPath(t *testing.T) {
	data := Data{
		"routine": map[string]interface{}{
			"id": "rt-9",
			"meta": map[string]interface{}{
				"level": "advanced",
			},
		},
	}

	tests := []struct {
		path     string
		expected interface{}
		found    bool
	}{
		{"routine.id", "rt-9", true},
		{"routine.meta.level", "advanced", true},
		{"routine.missing", nil, false},
		{"routine.id.deeper", nil, false},
		{"ghost", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			v, ok := data.GetPath(tt.path)
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.expected, v)
		})
	}
}

func TestData_Clone(t *testing.T) {
	original := Data{"a": 1}
	clone := original.Clone()
	clone["b"] = 2

	_, ok := original["b"]
	assert.False(t, ok)
}
