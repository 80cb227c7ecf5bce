// Package dedup collapses duplicate rows while keeping first-seen order
package dedup

// ByKey keeps the first row seen for each key
// rows whose key is the zero K are kept only once, like any other key
func ByKey[T any, K comparable](rows []T, key func(T) K) []T {
	if len(rows) == 0 {
		return nil
	}
	seen := make(map[K]struct{}, len(rows))
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		k := key(r)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}

// Rows keeps the first occurrence of every distinct row
func Rows[T comparable](rows []T) []T {
	return ByKey(rows, func(r T) T { return r })
}
