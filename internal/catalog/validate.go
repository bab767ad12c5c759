package catalog

// requiredSections lists the top-level keys in the order they are checked.
var requiredSections = []struct {
	key  string
	want string
}{
	{"productInfo", "object"},
	{"steps", "array"},
	{"subItems", "object"},
	{"products", "object"},
}

// Validate performs the shallow structural check on a generic JSON tree
// (maps, slices and scalars as produced by a JSON parser). It does not look
// at nested product, module or option shapes; see ValidateDeep for that.
//
// All keys are checked for presence before any type is checked, so a
// document missing "products" reports MissingKey even if "steps" is also
// of the wrong kind.
func Validate(candidate any) error {
	root, ok := candidate.(map[string]any)
	if !ok {
		return &StructuralError{Kind: NotObject, Want: "object", Got: kindOf(candidate)}
	}
	for _, sec := range requiredSections {
		if _, ok := root[sec.key]; !ok {
			return &StructuralError{Kind: MissingKey, Key: sec.key}
		}
	}
	for _, sec := range requiredSections {
		got := kindOf(root[sec.key])
		if got != sec.want {
			return &StructuralError{Kind: WrongType, Key: sec.key, Want: sec.want, Got: got}
		}
	}
	return nil
}

// Valid is the boolean form of Validate.
func Valid(candidate any) bool {
	return Validate(candidate) == nil
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case int, int64, float64:
		return "number"
	default:
		return "unknown"
	}
}
