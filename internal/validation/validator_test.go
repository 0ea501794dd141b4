package validation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"document-engine/internal/template"
)

func minimalConfig() map[string]interface{} {
	return map[string]interface{}{
		"metadata": map[string]interface{}{"name": "test"},
		"layout":   map[string]interface{}{"page_size": "A4", "orientation": "portrait"},
		"pages": []interface{}{
			map[string]interface{}{
				"name": "p1",
				"sections": []interface{}{
					map[string]interface{}{"type": "header", "content": map[string]interface{}{"title": "Hola"}},
				},
			},
		},
		"variables": map[string]interface{}{},
	}
}

func validate(raw map[string]interface{}) *Result {
	return Validate(template.Parse(raw))
}

func TestValidate_MinimalConfigIsValid(t *testing.T) {
	result := validate(minimalConfig())

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
	assert.Equal(t, 100.0, result.PerformanceScore)
	assert.Equal(t, 100.0, result.SecurityScore)
}

func TestValidate_MissingTopLevelKeys(t *testing.T) {
	for _, key := range []string{"metadata", "layout", "pages", "variables"} {
		t.Run(key, func(t *testing.T) {
			raw := minimalConfig()
			delete(raw, key)

			result := validate(raw)
			assert.False(t, result.IsValid)
			assert.NotEmpty(t, result.Errors)
		})
	}
}

func TestValidate_PagesNotASequence(t *testing.T) {
	raw := minimalConfig()
	raw["pages"] = "not-a-list"

	result := validate(raw)
	assert.False(t, result.IsValid)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[len(result.Errors)-1].Message, "sequence")
}

func TestValidate_UnknownSectionTypeIsWarning(t *testing.T) {
	raw := minimalConfig()
	raw["pages"] = []interface{}{
		map[string]interface{}{
			"sections": []interface{}{
				map[string]interface{}{"type": "haeder", "content": map[string]interface{}{}},
			},
		},
	}

	result := validate(raw)
	assert.True(t, result.IsValid, "unknown section types never invalidate")
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0].Message, "haeder")
	assert.Contains(t, result.Warnings[0].Suggestion, "header")
}

func TestValidate_SectionPayloadWarnings(t *testing.T) {
	tests := []struct {
		name    string
		section map[string]interface{}
		substr  string
	}{
		{"empty header", map[string]interface{}{"type": "header", "content": map[string]interface{}{}}, "neither title nor subtitle"},
		{"empty text", map[string]interface{}{"type": "text", "content": map[string]interface{}{}}, "empty text"},
		{"rowless table", map[string]interface{}{"type": "table", "content": map[string]interface{}{}}, "no rows"},
		{"imageless image", map[string]interface{}{"type": "image", "content": map[string]interface{}{}}, "empty src"},
		{"remote image", map[string]interface{}{"type": "image", "content": map[string]interface{}{"src": "https://x/y.png"}}, "data: URI"},
		{"sourceless qr", map[string]interface{}{"type": "qr_code", "content": map[string]interface{}{}}, "neither data nor data_source"},
		{
			"excel weeks not numeric",
			map[string]interface{}{"type": "exercise_table", "content": map[string]interface{}{"format": "excel_weekly", "weeks": "many"}},
			"numeric weeks",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := minimalConfig()
			raw["pages"] = []interface{}{
				map[string]interface{}{"sections": []interface{}{tt.section}},
			}

			result := validate(raw)
			assert.True(t, result.IsValid)
			require.NotEmpty(t, result.Warnings)
			assert.Contains(t, result.Warnings[0].Message, tt.substr)
		})
	}
}

func TestValidate_EmptyPageIsWarning(t *testing.T) {
	raw := minimalConfig()
	raw["pages"] = []interface{}{map[string]interface{}{"name": "blank"}}

	result := validate(raw)
	assert.True(t, result.IsValid)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0].Message, "no sections")
}

func TestValidate_LayoutSuggestions(t *testing.T) {
	raw := minimalConfig()
	raw["layout"] = map[string]interface{}{"page_size": "leter", "orientation": "portrit"}

	result := validate(raw)
	assert.True(t, result.IsValid)
	require.Len(t, result.Warnings, 2)
	assert.Contains(t, result.Warnings[0].Suggestion, "Letter")
	assert.Contains(t, result.Warnings[1].Suggestion, "portrait")
}

func TestValidate_Variables(t *testing.T) {
	raw := minimalConfig()
	raw["variables"] = map[string]interface{}{
		"age":    map[string]interface{}{"type": "integer"},
		"logo":   map[string]interface{}{"type": "image", "default": "https://x/logo.png"},
		"tenant": map[string]interface{}{"type": "string", "required": true},
	}

	result := validate(raw)
	assert.True(t, result.IsValid)

	messages := make([]string, 0, len(result.Warnings))
	for _, w := range result.Warnings {
		messages = append(messages, w.Message)
	}
	joined := fmt.Sprint(messages)
	assert.Contains(t, joined, "unknown type")
	assert.Contains(t, joined, "not an inline data: URI")
	assert.Contains(t, joined, "no default")
}

func TestValidate_ImageVariableDataURIDefaultAccepted(t *testing.T) {
	raw := minimalConfig()
	raw["variables"] = map[string]interface{}{
		"logo": map[string]interface{}{"type": "image", "default": "data:image/png;base64,aGVsbG8="},
	}

	result := validate(raw)
	assert.Empty(t, result.Warnings)
}

func TestValidate_QREnabledWithoutSource(t *testing.T) {
	raw := minimalConfig()
	raw["qr_code"] = map[string]interface{}{"enabled": true}

	result := validate(raw)
	assert.True(t, result.IsValid)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0].Message, "neither data_source nor custom_data")
}

func manyPagesConfig(pages int) map[string]interface{} {
	raw := minimalConfig()
	var list []interface{}
	for i := 0; i < pages; i++ {
		list = append(list, map[string]interface{}{
			"sections": []interface{}{
				map[string]interface{}{"type": "header", "content": map[string]interface{}{"title": "t"}},
			},
		})
	}
	raw["pages"] = list
	return raw
}

func TestValidate_PerformanceScoreMonotonicity(t *testing.T) {
	one := validate(manyPagesConfig(1))
	eleven := validate(manyPagesConfig(11))

	assert.Less(t, eleven.PerformanceScore, one.PerformanceScore)
}

func TestValidate_PerformanceSectionAndVariablePenalties(t *testing.T) {
	raw := manyPagesConfig(11) // 11 pages, one section each

	var sections []interface{}
	for i := 0; i < 51; i++ {
		sections = append(sections, map[string]interface{}{"type": "header", "content": map[string]interface{}{"title": "t"}})
	}
	raw["pages"] = []interface{}{map[string]interface{}{"sections": sections}}

	vars := map[string]interface{}{}
	for i := 0; i < 101; i++ {
		vars[fmt.Sprintf("v%d", i)] = map[string]interface{}{"type": "string", "default": "x"}
	}
	raw["variables"] = vars

	result := validate(raw)
	// 100 - 15 (sections) - 10 (variables); page count is 1 here.
	assert.Equal(t, 75.0, result.PerformanceScore)
}

func TestValidate_SecurityScore(t *testing.T) {
	clean := validate(minimalConfig())

	tainted := minimalConfig()
	tainted["metadata"] = map[string]interface{}{"name": "JAVASCRIPT:alert(1)"}
	dirty := validate(tainted)

	assert.Less(t, dirty.SecurityScore, clean.SecurityScore)
	assert.Equal(t, 70.0, dirty.SecurityScore)
}

func TestValidate_ScoresClamped(t *testing.T) {
	result := validate(minimalConfig())
	assert.LessOrEqual(t, result.PerformanceScore, 100.0)
	assert.GreaterOrEqual(t, result.PerformanceScore, 0.0)
}

func TestResult_ErrorMessages(t *testing.T) {
	raw := minimalConfig()
	delete(raw, "metadata")
	delete(raw, "layout")

	result := validate(raw)
	messages := result.ErrorMessages()
	require.Len(t, messages, 2)
	assert.Contains(t, messages[0], "metadata")
}
