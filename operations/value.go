package operations

// ValueKind tags which field of a Value is meaningful.
type ValueKind int

const (
	KindFloat ValueKind = iota
	KindInt
	KindBool
	KindString
)

// Value is a tagged union parameter value, generalizing spec's untyped
// "parameter map" into something Go can read without reflection or a type
// switch at every call site.
type Value struct {
	Kind ValueKind
	F    float64
	I    int64
	B    bool
	S    string
}

// Float wraps a float64 as a Value.
func Float(v float64) Value { return Value{Kind: KindFloat, F: v} }

// Int wraps an int64 as a Value.
func Int(v int64) Value { return Value{Kind: KindInt, I: v} }

// Bool wraps a bool as a Value.
func Bool(v bool) Value { return Value{Kind: KindBool, B: v} }

// String wraps a string as a Value.
func String(v string) Value { return Value{Kind: KindString, S: v} }
