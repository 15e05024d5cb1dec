// Package gen generates typed accessors for the types of a Go package. The
// generated file registers them with accessor.ProvideField, ProvideProperty
// and ProvideMethod from init, so the registry serves them instead of the
// reflection based closures.
package gen

// Package is the parsed form of one target package.
type Package struct {
	Name string
	Path string
	// Dir is the directory of the package sources, empty when unknown.
	Dir     string
	Imports []string
	Types   []*TypeInfo
}

// TypeInfo lists the members of one named type that can be generated.
type TypeInfo struct {
	Name       string
	Fields     []FieldInfo
	Properties []PropertyInfo
	Methods    []MethodInfo
}

func (t *TypeInfo) empty() bool {
	return len(t.Fields) == 0 && len(t.Properties) == 0 && len(t.Methods) == 0
}

// FieldInfo is a struct field. Type is the Go expression of its type as seen
// from the target package.
type FieldInfo struct {
	Name string
	Type string
}

// PropertyInfo is an accessor pair. Getter or Setter is empty when absent;
// the Ptr flags are set for accessors only a *T can call.
type PropertyInfo struct {
	Name      string
	Type      string
	Getter    string
	GetterPtr bool
	Setter    string
	SetterPtr bool
}

// MethodInfo is a non-variadic method.
type MethodInfo struct {
	Name         string
	Params       []string
	Results      int
	ReturnsError bool
	PointerOnly  bool
}
