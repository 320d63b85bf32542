package utils

// Ptr returns a pointer to the provided value v.
// This is useful for creating pointers to literals or temporary values.
func Ptr[T any](v T) *T {
	return &v
}

// Deref returns the value p points to, or the zero value when p is nil.
func Deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// NonEmpty returns a pointer to s, or nil when s is empty. Loaders use it to
// turn optional result columns into absent policy fields.
func NonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
