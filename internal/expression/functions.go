package expression

import (
	"fmt"
	"strings"
	"time"

	"github.com/expr-lang/expr"
)

// helperFunctions returns the whitelisted helpers available inside template
// expressions.
func helperFunctions() []expr.Option {
	return []expr.Option{
		expr.Function("upper",
			func(params ...interface{}) (interface{}, error) {
				if len(params) != 1 {
					return nil, fmt.Errorf("upper() requires exactly 1 argument")
				}
				s, ok := params[0].(string)
				if !ok {
					return nil, fmt.Errorf("upper() requires string argument")
				}
				return strings.ToUpper(s), nil
			}),
		expr.Function("lower",
			func(params ...interface{}) (interface{}, error) {
				if len(params) != 1 {
					return nil, fmt.Errorf("lower() requires exactly 1 argument")
				}
				s, ok := params[0].(string)
				if !ok {
					return nil, fmt.Errorf("lower() requires string argument")
				}
				return strings.ToLower(s), nil
			}),
		expr.Function("trim",
			func(params ...interface{}) (interface{}, error) {
				if len(params) != 1 {
					return nil, fmt.Errorf("trim() requires exactly 1 argument")
				}
				s, ok := params[0].(string)
				if !ok {
					return nil, fmt.Errorf("trim() requires string argument")
				}
				return strings.TrimSpace(s), nil
			}),
		expr.Function("replace",
			func(params ...interface{}) (interface{}, error) {
				if len(params) != 3 {
					return nil, fmt.Errorf("replace() requires exactly 3 arguments")
				}
				s, ok1 := params[0].(string)
				old, ok2 := params[1].(string)
				repl, ok3 := params[2].(string)
				if !ok1 || !ok2 || !ok3 {
					return nil, fmt.Errorf("replace() requires string arguments")
				}
				return strings.ReplaceAll(s, old, repl), nil
			}),
		expr.Function("default",
			func(params ...interface{}) (interface{}, error) {
				if len(params) != 2 {
					return nil, fmt.Errorf("default() requires exactly 2 arguments")
				}
				if params[0] == nil || params[0] == "" {
					return params[1], nil
				}
				return params[0], nil
			}),
		expr.Function("formatDate",
			func(params ...interface{}) (interface{}, error) {
				if len(params) != 2 {
					return nil, fmt.Errorf("formatDate() requires exactly 2 arguments")
				}
				layout, ok := params[1].(string)
				if !ok {
					return nil, fmt.Errorf("formatDate() requires string layout")
				}
				switch v := params[0].(type) {
				case time.Time:
					return v.Format(layout), nil
				case string:
					parsed, err := time.Parse("2006-01-02", v)
					if err != nil {
						return nil, fmt.Errorf("formatDate() cannot parse %q", v)
					}
					return parsed.Format(layout), nil
				default:
					return nil, fmt.Errorf("formatDate() requires date argument")
				}
			}),
	}
}
