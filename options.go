package doot

// Options holds the parsed values of one task invocation, keyed by
// destination name. A fresh Options is built per invocation and not
// retained.
type Options struct {
	values map[string]any

	// Extra holds the unrecognized tokens of a passthrough task, in
	// their original order.
	Extra []string
}

func newOptions() *Options {
	return &Options{
		values: make(map[string]any),
	}
}

// Has reports whether a value (including a default) exists for dest.
func (o *Options) Has(dest string) bool {
	_, ok := o.values[dest]
	return ok
}

// Value returns the raw parsed value for dest, or nil.
func (o *Options) Value(dest string) any {
	return o.values[dest]
}

// String returns the string value for dest, or "" when absent or not a
// string.
func (o *Options) String(dest string) string {
	v, _ := o.values[dest].(string)
	return v
}

// Bool returns the boolean value for dest, or false when absent.
func (o *Options) Bool(dest string) bool {
	v, _ := o.values[dest].(bool)
	return v
}

// Int returns the integer value for dest, or 0 when absent. Count
// flags store their occurrence count here.
func (o *Options) Int(dest string) int64 {
	switch v := o.values[dest].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	default:
		return 0
	}
}

// Strings returns the accumulated values of an Append flag, or nil.
func (o *Options) Strings(dest string) []string {
	v, _ := o.values[dest].([]string)
	return v
}
