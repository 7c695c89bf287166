package utils

// Tail 返回切片最后 max 个元素，不足时原样返回
func Tail[T any](slice []T, max int) []T {
	if max <= 0 {
		return slice[:0]
	}
	if len(slice) <= max {
		return slice
	}
	return slice[len(slice)-max:]
}
