package decode

import "golang.org/x/exp/constraints"

func clamp[T constraints.Signed](v T) byte {
	switch w := int64(v); {
	case w < 0:
		return 0
	case w > 255:
		return 255
	default:
		return byte(w)
	}
}

// Clamp limits v to the byte range.
func Clamp(v int) byte {
	return clamp(v)
}
