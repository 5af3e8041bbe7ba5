package enums

import (
	"fmt"
	"slices"
)

func parse[T ~string](kind, value string, known []T) (T, error) {
	if slices.Contains(known, T(value)) {
		return T(value), nil
	}
	var zero T
	return zero, fmt.Errorf("unsupported %s %q", kind, value)
}
