package resolver

// deepCopy returns an independent copy of a decoded document value.
// Scalars are returned as is; unknown types are shared.
func deepCopy(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		cp := make([]any, len(t))
		for i, item := range t {
			cp[i] = deepCopy(item)
		}
		return cp
	case map[string]any:
		cp := make(map[string]any, len(t))
		for k, item := range t {
			cp[k] = deepCopy(item)
		}
		return cp
	default:
		return v
	}
}
