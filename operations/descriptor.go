package operations

import "github.com/gogpu/tonalcore"

// Descriptor is one entry in a working image's operation list: a Kind, a
// display name, an enabled flag, and its parameters. Params never needs
// more than "v" (and, for a future multi-parameter operation, additional
// named entries) but is a map so the registry stays open to operations
// this package does not know about.
type Descriptor struct {
	Kind    Kind
	Name    string
	Enabled bool
	Params  map[string]Value
}

// NewDescriptor builds an enabled Descriptor for kind with a single "v"
// parameter, stored as given. Clamping to kind's registered Range happens
// uniformly at read time through V, not here, so a Descriptor built by any
// other path (a literal, or one passed straight to Manager.Modify) is
// clamped exactly the same way.
func NewDescriptor(kind Kind, v float64) Descriptor {
	return Descriptor{Kind: kind, Name: kind.String(), Enabled: true, Params: map[string]Value{"v": Float(v)}}
}

// IsNoOp reports whether this descriptor's "v" parameter equals kind's
// registered default, meaning it would make no observable change and
// SHOULD be skipped by any executor. Compares the raw, unclamped value:
// every registered default already lies inside its own range, so this
// agrees with comparing the clamped value without logging a clamp warning
// on every no-op check.
func (d Descriptor) IsNoOp() bool {
	r, ok := RangeFor(d.Kind)
	if !ok {
		return false
	}
	return d.Float("v", 0) == r.Default
}

// Float returns the named parameter as a float64, or def if absent or not
// a float Value. Never panics.
func (d Descriptor) Float(key string, def float64) float64 {
	v, ok := d.Params[key]
	if !ok || v.Kind != KindFloat {
		return def
	}
	return v.F
}

// Int returns the named parameter as an int64, or def if absent or not an
// int Value. Never panics.
func (d Descriptor) Int(key string, def int64) int64 {
	v, ok := d.Params[key]
	if !ok || v.Kind != KindInt {
		return def
	}
	return v.I
}

// Bool returns the named parameter as a bool, or def if absent or not a
// bool Value. Never panics.
func (d Descriptor) Bool(key string, def bool) bool {
	v, ok := d.Params[key]
	if !ok || v.Kind != KindBool {
		return def
	}
	return v.B
}

// String returns the named parameter as a string, or def if absent or not
// a string Value. Never panics.
func (d Descriptor) String(key string, def string) string {
	v, ok := d.Params[key]
	if !ok || v.Kind != KindString {
		return def
	}
	return v.S
}

// V returns the "v" parameter, the single-scalar shorthand every built-in
// operation uses, clamped to kind's registered Range and logging a warning
// when clamping changes the value. Every fusion and fallback fragment
// reads its operand through V, so this is the single point spec §4.3's
// "read the parameter exactly once, clamp it, log a warning" contract is
// implemented — and it applies regardless of how the Descriptor was built.
func (d Descriptor) V() float64 {
	raw := d.Float("v", 0)
	r, ok := RangeFor(d.Kind)
	if !ok {
		return raw
	}
	clamped := r.Clamp(raw)
	if clamped != raw {
		tonalcore.Logger().Warn("operations: parameter out of range, clamped",
			"kind", d.Kind, "value", raw, "min", r.Min, "max", r.Max, "clamped", clamped)
	}
	return clamped
}
