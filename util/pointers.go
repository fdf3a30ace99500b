package util

// Ptr returns &v. Handy for optional config booleans in tests.
func Ptr[T any](v T) *T { return &v }

// DerefOr returns *p, or fallback when p is nil.
func DerefOr[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}
