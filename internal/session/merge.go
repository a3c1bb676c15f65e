package session

// Merge deep-merges patch into base and returns the result. Objects merge
// key-wise, arrays are replaced wholesale (never merged element-wise), and
// scalars overwrite, including explicit nulls. The array/object asymmetry is
// a behavioral contract callers depend on: patching actionItems replaces the
// whole list, patching executiveSummary only touches the provided keys.
//
// Inputs are treated as immutable; the returned tree shares no mutable
// containers with patch and only unmodified subtrees with base.
func Merge(base, patch map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(patch))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range patch {
		bv, exists := out[k]
		pm, patchIsMap := v.(map[string]any)
		bm, baseIsMap := bv.(map[string]any)
		if exists && patchIsMap && baseIsMap {
			out[k] = Merge(bm, pm)
			continue
		}
		if patchIsMap {
			// No mergeable counterpart; still copy so the caller's
			// patch tree stays untouched by later merges.
			out[k] = Merge(map[string]any{}, pm)
			continue
		}
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch tv := v.(type) {
	case []any:
		out := make([]any, len(tv))
		for i, e := range tv {
			out[i] = copyValue(e)
		}
		return out
	case map[string]any:
		return Merge(map[string]any{}, tv)
	default:
		return tv
	}
}
