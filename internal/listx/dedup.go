// Package listx provides small helpers for working with fetched lists.
package listx

// Dedupe removes duplicate logical entities from items, keeping the first
// occurrence and preserving order. The key function should build a composite
// key out of the fields that identify a logical entity; some endpoints emit
// the same entity once per join path, so a single id column is not always
// enough.
func Dedupe[T any](items []T, key func(T) string) []T {
	if len(items) == 0 {
		return items
	}

	seen := make(map[string]struct{}, len(items))
	result := make([]T, 0, len(items))

	for _, item := range items {
		k := key(item)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		result = append(result, item)
	}

	return result
}
