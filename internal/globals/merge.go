package globals

// Merge returns a new record holding src deep-merged over dst. Nested
// map[string]any values merge key by key; any other value, slices included,
// is replaced by the one from src. Neither input is modified.
func Merge(dst, src map[string]any) map[string]any {
	out := make(map[string]any, len(dst)+len(src))
	for k, v := range dst {
		out[k] = v
	}

	for k, v := range src {
		srcMap, ok := v.(map[string]any)
		if !ok {
			out[k] = v
			continue
		}
		dstMap, _ := out[k].(map[string]any)
		out[k] = Merge(dstMap, srcMap)
	}
	return out
}
