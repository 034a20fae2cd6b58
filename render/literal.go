package render

import (
	"fmt"
	"sort"
	"strconv"
)

// GoLiteral renders v as Go source, used to embed a payload's value
// literally in a generated test case (§8 property 7: "it appears literally
// in the rendered test case bound to its intent id"). Map keys are sorted
// so the same payload always renders to byte-identical source.
func GoLiteral(v any) string {
	switch t := v.(type) {
	case nil:
		return "nil"
	case string:
		return strconv.Quote(t)
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("float64(%d)", int64(t))
		}
		return strconv.FormatFloat(t, 'g', -1, 64)
	case map[string]any:
		return goMapLiteral(t)
	case []any:
		return goSliceLiteral(t)
	default:
		return fmt.Sprintf("%#v", t)
	}
}

func goMapLiteral(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := "map[string]any{"
	for i, k := range keys {
		if i > 0 {
			out += ", "
		}
		out += strconv.Quote(k) + ": " + GoLiteral(m[k])
	}
	return out + "}"
}

func goSliceLiteral(s []any) string {
	out := "[]any{"
	for i, v := range s {
		if i > 0 {
			out += ", "
		}
		out += GoLiteral(v)
	}
	return out + "}"
}
