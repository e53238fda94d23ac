package port

import "reflect"

// typeName returns the unqualified type name of v, stripping the package
// path the way the Rust source trims `type_name::<U>()` to its last
// `::`-separated segment for display and hashing purposes.
func typeName(v any) string {
	t := reflect.TypeOf(v)
	if t == nil {
		return "unknown"
	}
	return t.Name()
}
