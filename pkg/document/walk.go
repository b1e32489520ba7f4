package document

// StringFunc rewrites a string value. It reports whether the value changed.
type StringFunc func(string) (string, bool)

// RewriteStrings applies fn to every string value of the tree rooted at v, in
// place. Object keys are never rewritten. It returns the (possibly replaced)
// root and the number of values that changed.
func RewriteStrings(v interface{}, fn StringFunc) (interface{}, int) {
	switch t := v.(type) {
	case *Object:
		if t == nil {
			return t, 0
		}
		count := 0
		for i := range t.members {
			nv, n := RewriteStrings(t.members[i].Value, fn)
			t.members[i].Value = nv
			count += n
		}
		return t, count
	case []interface{}:
		count := 0
		for i := range t {
			nv, n := RewriteStrings(t[i], fn)
			t[i] = nv
			count += n
		}
		return t, count
	case string:
		nv, changed := fn(t)
		if !changed {
			return t, 0
		}
		return nv, 1
	default:
		return v, 0
	}
}

// Strings lists every string value of the tree rooted at v, in document order
func Strings(v interface{}) []string {
	var res []string
	RewriteStrings(v, func(s string) (string, bool) {
		res = append(res, s)
		return s, false
	})
	return res
}
