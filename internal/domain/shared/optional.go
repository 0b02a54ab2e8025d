package shared

// Optional holds a value that may or may not be supplied.
// The zero value is unset. It is used by partial updates, where
// "not supplied" must be told apart from "supplied as zero".
type Optional[T any] struct {
	value T
	set   bool
}

// Some returns an Optional holding v
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// Unset returns an empty Optional
func Unset[T any]() Optional[T] {
	return Optional[T]{}
}

// FromPtr returns Some(*p) for a non-nil pointer and Unset otherwise
func FromPtr[T any](p *T) Optional[T] {
	if p == nil {
		return Optional[T]{}
	}
	return Some(*p)
}

// IsSet reports whether a value was supplied
func (o Optional[T]) IsSet() bool {
	return o.set
}

// Get returns the value and whether it was supplied
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// OrElse returns the value if supplied, fallback otherwise
func (o Optional[T]) OrElse(fallback T) T {
	if o.set {
		return o.value
	}
	return fallback
}
