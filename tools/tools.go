package tools

// PtrOf returns a pointer to v, for APIs taking optional parameters.
func PtrOf[T any](v T) *T {
	return &v
}
