package expression

import "strings"

// Data is the runtime key-value context consulted when resolving template
// expressions. It is never validated against a fixed shape.
type Data map[string]interface{}

// GetPath resolves a dotted path ("routine.dias", "user.qr_code") through
// nested maps. It reports false as soon as any segment is missing or the
// current value is not a map.
func (d Data) GetPath(path string) (interface{}, bool) {
	if d == nil {
		return nil, false
	}

	segments := strings.Split(path, ".")
	var current interface{} = map[string]interface{}(d)

	for _, segment := range segments {
		m, ok := current.(map[string]interface{})
		if !ok {
			return nil, false
		}
		current, ok = m[segment]
		if !ok {
			return nil, false
		}
	}

	return current, true
}

// Clone returns a shallow copy so callers can inject defaults without
// mutating the supplied context.
func (d Data) Clone() Data {
	out := make(Data, len(d)+4)
	for k, v := range d {
		out[k] = v
	}
	return out
}
