package gv

// Datum is a single data item flowing through the pipeline: one row of a
// loaded dataset, one mark instance. Fields are dynamically typed because
// datasets arrive from external parsers.
type Datum map[string]any

// Field returns the named field, or nil if absent.
func (d Datum) Field(name string) any {
	if d == nil {
		return nil
	}
	return d[name]
}

// Number returns the named field coerced to float64.
// Non-numeric and missing fields report ok=false.
func (d Datum) Number(name string) (float64, bool) {
	v, found := d[name]
	if !found {
		return 0, false
	}
	return AsNumber(v)
}

// AsNumber coerces a dynamically typed value to float64.
func AsNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	default:
		return 0, false
	}
}
