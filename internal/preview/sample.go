package preview

import (
	"fmt"

	"github.com/samber/lo"

	"document-engine/internal/expression"
	"document-engine/internal/template"
)

// defaultSampleDays is the day count used when the template carries no
// dias_semana hint.
const defaultSampleDays = 3

// Placeholder exercises repeated across every sample day. Fixed content keeps
// sample previews cache-stable.
var sampleExercises = []interface{}{
	map[string]interface{}{"nombre": "Sentadilla", "series": 4, "repeticiones": "10", "descanso": "90s"},
	map[string]interface{}{"nombre": "Press banca", "series": 4, "repeticiones": "8-10", "descanso": "90s"},
	map[string]interface{}{"nombre": "Remo con barra", "series": 3, "repeticiones": "12", "descanso": "60s"},
}

// SampleData synthesizes a plausible data context for templates previewed
// without caller data. The day count comes from the template's own hint.
func SampleData(cfg *template.Config) expression.Data {
	days := cfg.DayCountHint()
	if days <= 0 {
		days = defaultSampleDays
	}
	if days > 7 {
		days = 7
	}

	dias := lo.Map(lo.RangeFrom(1, days), func(n int, _ int) interface{} {
		return map[string]interface{}{
			"nombre":     fmt.Sprintf("Día %d", n),
			"ejercicios": sampleExercises,
		}
	})

	return expression.Data{
		"nombre": "Socio de Ejemplo",
		"user": map[string]interface{}{
			"name":     "Socio de Ejemplo",
			"qr_token": "preview-token",
		},
		"routine": map[string]interface{}{
			"nombre": "Rutina de ejemplo",
			"dias":   dias,
		},
		"dias": dias,
	}
}
