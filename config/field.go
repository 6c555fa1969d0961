package config

// fieldState distinguishes "this layer did not speak to this field"
// (Unset) from an explicit clear (Null) from a concrete value (Set).
// See spec.md §3/§4.2 and DESIGN.md's resolution of the tension
// between the two sections over what the "NOTSET" literal means.
type fieldState int

const (
	Unset fieldState = iota
	Null
	Set
)

// Field is a tagged variant over {Unset, Null, T}. The zero value is
// Unset, so a freshly-constructed ContainerConfig has every field
// unset by default, matching a layer that "did not speak" to anything.
type Field[T any] struct {
	state fieldState
	value T
}

// SetField wraps a concrete value.
func SetField[T any](v T) Field[T] {
	return Field[T]{state: Set, value: v}
}

// NullField represents an explicit clear.
func NullField[T any]() Field[T] {
	return Field[T]{state: Null}
}

func (f Field[T]) IsUnset() bool { return f.state == Unset }
func (f Field[T]) IsNull() bool  { return f.state == Null }
func (f Field[T]) IsSet() bool   { return f.state == Set }

// Get returns the concrete value, or the zero value of T if the field
// is Null or Unset.
func (f Field[T]) Get() T { return f.value }

// GetOr returns the concrete value if set, else fallback. Null is
// treated like Unset here since callers resolving a final value have
// already flattened Null to "apply the type's zero value" upstream;
// GetOr exists for defaulting during spec resolution.
func (f Field[T]) GetOr(fallback T) T {
	if f.state == Set {
		return f.value
	}
	return fallback
}

// mergeField implements spec.md §4.2's merge rule for a single field:
// override wins unless override is Unset.
func mergeField[T any](base, override Field[T]) Field[T] {
	if override.state == Unset {
		return base
	}
	return override
}
