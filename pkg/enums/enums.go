// Package enums holds the string-backed status and role types persisted on
// orders, payments and users.
package enums

import (
	"fmt"
	"slices"
)

func parse[T ~string](kind string, known []T, raw string) (T, error) {
	if v := T(raw); slices.Contains(known, v) {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("invalid %s %q", kind, raw)
}
