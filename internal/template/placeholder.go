package template

// DynamicClassnameVar is the reserved placeholder name that resolves to the
// classname of the test record currently being processed rather than to a
// static property.
const DynamicClassnameVar = "zz_testcase_class"

// PlaceholderKind distinguishes how a placeholder is resolved.
type PlaceholderKind int

const (
	// KindStatic resolves from the caller-supplied property map.
	KindStatic PlaceholderKind = iota
	// KindDynamicClassname resolves from the per-record context classname.
	KindDynamicClassname
)

// Placeholder is a single {{ name }} token found in a config value, tagged
// with how it must be resolved. Using an explicit variant here keeps the
// reserved-name check in one place instead of string comparisons at call
// sites.
type Placeholder struct {
	Kind PlaceholderKind
	// Name is the trimmed identifier inside the braces. For
	// KindDynamicClassname it is always DynamicClassnameVar.
	Name string
}

// Static returns a placeholder resolved from the property map.
func Static(name string) Placeholder {
	return Placeholder{Kind: KindStatic, Name: name}
}

// DynamicClassname returns the placeholder resolved from the record context.
func DynamicClassname() Placeholder {
	return Placeholder{Kind: KindDynamicClassname, Name: DynamicClassnameVar}
}

// classify maps an identifier to its placeholder variant.
func classify(name string) Placeholder {
	if name == DynamicClassnameVar {
		return DynamicClassname()
	}
	return Static(name)
}
