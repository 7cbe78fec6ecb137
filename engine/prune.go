package engine

// Prune recursively removes null-valued keys from a nested mapping. Falsy
// but non-null values (0, "", false, empty maps) are kept untouched; only
// nested maps are descended into, list elements are left as-is.
func Prune(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if v == nil {
			continue
		}
		if nested, ok := v.(map[string]any); ok {
			out[k] = Prune(nested)
			continue
		}
		out[k] = v
	}
	return out
}
