package domain

// Optional carries a partial-update field. The zero value means the caller
// did not supply the field; Set with a nil pointer means clear it.
type Optional[T any] struct {
	set   bool
	value *T
}

// Some supplies a value.
func Some[T any](v T) Optional[T] {
	return Optional[T]{set: true, value: &v}
}

// Clear supplies an explicit "no value".
func Clear[T any]() Optional[T] {
	return Optional[T]{set: true}
}

// FromPtr supplies v, which may be nil to clear the field.
func FromPtr[T any](v *T) Optional[T] {
	return Optional[T]{set: true, value: v}
}

// IsSet reports whether the field was supplied at all.
func (o Optional[T]) IsSet() bool { return o.set }

// Ptr returns the supplied value, nil when cleared or not supplied.
func (o Optional[T]) Ptr() *T { return o.value }

// Apply writes the supplied value into dst when the field was supplied.
func (o Optional[T]) Apply(dst **T) {
	if !o.set {
		return
	}
	if o.value == nil {
		*dst = nil
		return
	}
	v := *o.value
	*dst = &v
}
