package gen

import (
	"fmt"
	"go/types"
	"path/filepath"
	"sort"

	"golang.org/x/tools/go/packages"

	"github.com/Konsultn-Engineering/fastrefl/schema"
)

// Parser extracts generatable members from Go packages.
type Parser interface {
	// Parse loads pkgPath and collects typeNames, or every eligible named
	// type of the package when typeNames is empty.
	Parse(pkgPath string, typeNames ...string) (*Package, error)
}

type parserImpl struct {
	tags string
}

// NewParser returns a parser that loads packages with the given build tags.
func NewParser(tags string) Parser {
	return &parserImpl{tags: tags}
}

var errorType = types.Universe.Lookup("error").Type()

const (
	accessorPkg = "github.com/Konsultn-Engineering/fastrefl/accessor"
	schemaPkg   = "github.com/Konsultn-Engineering/fastrefl/schema"
)

// Imports the generated file always carries.
var fixedImports = map[string]bool{"reflect": true, accessorPkg: true, schemaPkg: true}

func (p *parserImpl) Parse(pkgPath string, typeNames ...string) (*Package, error) {
	pkg, err := p.loadPackage(pkgPath)
	if err != nil {
		return nil, err
	}
	if pkg.Types == nil || pkg.Types.Scope() == nil {
		return nil, fmt.Errorf("type info unavailable for package %q", pkgPath)
	}

	local := pkg.Types
	imports := map[string]bool{}
	qualifier := func(other *types.Package) string {
		if other == nil || other.Path() == local.Path() {
			return ""
		}
		if !fixedImports[other.Path()] {
			imports[other.Path()] = true
		}
		return other.Name()
	}

	out := &Package{Name: pkg.Name, Path: local.Path()}
	if len(pkg.GoFiles) > 0 {
		out.Dir = filepath.Dir(pkg.GoFiles[0])
	}

	explicit := len(typeNames) > 0
	names := typeNames
	if !explicit {
		names = local.Scope().Names()
	}
	for _, name := range names {
		named, err := lookupNamed(local, name)
		if err != nil {
			if explicit {
				return nil, err
			}
			continue
		}
		info := collect(named, local, qualifier)
		if info.empty() {
			if explicit {
				return nil, fmt.Errorf("type %q in package %q has no generatable members", name, pkgPath)
			}
			continue
		}
		out.Types = append(out.Types, info)
	}

	for path := range imports {
		out.Imports = append(out.Imports, path)
	}
	sort.Strings(out.Imports)
	return out, nil
}

func (p *parserImpl) loadPackage(pkgPath string) (*packages.Package, error) {
	// Syntax forces a source type check, so unexported types are in scope.
	cfg := &packages.Config{
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedImports |
			packages.NeedTypes |
			packages.NeedSyntax |
			packages.NeedTypesInfo,
	}
	if p.tags != "" {
		cfg.BuildFlags = []string{"-tags=" + p.tags}
	}

	pkgs, err := packages.Load(cfg, pkgPath)
	if err != nil {
		return nil, fmt.Errorf("load package %q: %w", pkgPath, err)
	}
	if packages.PrintErrors(pkgs) > 0 {
		return nil, fmt.Errorf("package %q has compilation errors", pkgPath)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("package %q not found", pkgPath)
	}
	return pkgs[0], nil
}

// lookupNamed returns the named type called name if accessors can be
// generated for it.
func lookupNamed(pkg *types.Package, name string) (*types.Named, error) {
	obj := pkg.Scope().Lookup(name)
	if obj == nil {
		return nil, fmt.Errorf("type %q not found in package %q", name, pkg.Path())
	}
	tn, ok := obj.(*types.TypeName)
	if !ok || tn.IsAlias() {
		return nil, fmt.Errorf("%q in package %q is not a defined type", name, pkg.Path())
	}
	named, ok := tn.Type().(*types.Named)
	if !ok {
		return nil, fmt.Errorf("%q in package %q is not a defined type", name, pkg.Path())
	}
	if named.TypeParams().Len() > 0 {
		return nil, fmt.Errorf("generic type %q is not supported", name)
	}
	switch named.Underlying().(type) {
	case *types.Interface, *types.Pointer:
		return nil, fmt.Errorf("%q in package %q has no members", name, pkg.Path())
	}
	return named, nil
}

// collect mirrors the member discovery of schema.Introspect on go/types.
func collect(named *types.Named, local *types.Package, q types.Qualifier) *TypeInfo {
	info := &TypeInfo{Name: named.Obj().Name()}

	if st, ok := named.Underlying().(*types.Struct); ok {
		for i := 0; i < st.NumFields(); i++ {
			f := st.Field(i)
			if f.Name() == "_" || !expressible(f.Type(), local) {
				continue
			}
			info.Fields = append(info.Fields, FieldInfo{Name: f.Name(), Type: types.TypeString(f.Type(), q)})
		}
	}

	ptrSet := types.NewMethodSet(types.NewPointer(named))
	valSet := types.NewMethodSet(named)

	type method struct {
		fn      *types.Func
		sig     *types.Signature
		valueOK bool
	}
	var methods []method
	byName := map[string]method{}
	for i := 0; i < ptrSet.Len(); i++ {
		fn, ok := ptrSet.At(i).Obj().(*types.Func)
		if !ok || !fn.Exported() {
			continue
		}
		m := method{
			fn:      fn,
			sig:     fn.Type().(*types.Signature),
			valueOK: valSet.Lookup(fn.Pkg(), fn.Name()) != nil,
		}
		methods = append(methods, m)
		byName[fn.Name()] = m
	}

	getterOf := func(name string, v types.Type) (method, bool) {
		m, ok := byName[name]
		if !ok || m.sig.Params().Len() != 0 || m.sig.Results().Len() != 1 {
			return m, false
		}
		if v != nil && !types.Identical(m.sig.Results().At(0).Type(), v) {
			return m, false
		}
		return m, true
	}

	consumed := map[string]bool{}
	for _, m := range methods {
		name := schema.SetterProperty(m.fn.Name())
		if name == "" || m.sig.Params().Len() != 1 || m.sig.Results().Len() != 0 || m.sig.Variadic() {
			continue
		}
		pt := m.sig.Params().At(0).Type()
		consumed[m.fn.Name()] = true
		p := PropertyInfo{
			Name:      name,
			Setter:    m.fn.Name(),
			SetterPtr: !m.valueOK,
		}
		if g, ok := getterOf(name, pt); ok {
			p.Getter, p.GetterPtr = g.fn.Name(), !g.valueOK
			consumed[g.fn.Name()] = true
		} else if g, ok := getterOf("Get"+name, pt); ok {
			p.Getter, p.GetterPtr = g.fn.Name(), !g.valueOK
			consumed[g.fn.Name()] = true
		}
		if !expressible(pt, local) {
			continue
		}
		p.Type = types.TypeString(pt, q)
		info.Properties = append(info.Properties, p)
	}

	for _, m := range methods {
		name := schema.GetterProperty(m.fn.Name())
		if name == "" || consumed[m.fn.Name()] || consumed["Set"+name] {
			continue
		}
		if _, ok := getterOf(m.fn.Name(), nil); !ok {
			continue
		}
		consumed[m.fn.Name()] = true
		rt := m.sig.Results().At(0).Type()
		if !expressible(rt, local) {
			continue
		}
		info.Properties = append(info.Properties, PropertyInfo{
			Name:      name,
			Type:      types.TypeString(rt, q),
			Getter:    m.fn.Name(),
			GetterPtr: !m.valueOK,
		})
	}
	sort.SliceStable(info.Properties, func(i, j int) bool {
		return info.Properties[i].Name < info.Properties[j].Name
	})

	for _, m := range methods {
		if consumed[m.fn.Name()] || m.sig.Variadic() {
			continue
		}
		mi := MethodInfo{
			Name:        m.fn.Name(),
			Results:     m.sig.Results().Len(),
			PointerOnly: !m.valueOK,
		}
		if n := mi.Results; n > 0 && types.Identical(m.sig.Results().At(n-1).Type(), errorType) {
			mi.ReturnsError = true
		}
		ok := true
		params := m.sig.Params()
		for i := 0; i < params.Len(); i++ {
			if !expressible(params.At(i).Type(), local) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		for i := 0; i < params.Len(); i++ {
			mi.Params = append(mi.Params, types.TypeString(params.At(i).Type(), q))
		}
		info.Methods = append(info.Methods, mi)
	}
	return info
}

// expressible reports whether t can be written as a type expression inside
// package local.
func expressible(t types.Type, local *types.Package) bool {
	switch t := types.Unalias(t).(type) {
	case *types.Named:
		obj := t.Obj()
		if obj.Pkg() != nil && obj.Pkg() != local && !obj.Exported() {
			return false
		}
		args := t.TypeArgs()
		for i := 0; i < args.Len(); i++ {
			if !expressible(args.At(i), local) {
				return false
			}
		}
		return true
	case *types.Pointer:
		return expressible(t.Elem(), local)
	case *types.Slice:
		return expressible(t.Elem(), local)
	case *types.Array:
		return expressible(t.Elem(), local)
	case *types.Chan:
		return expressible(t.Elem(), local)
	case *types.Map:
		return expressible(t.Key(), local) && expressible(t.Elem(), local)
	case *types.Signature:
		return tupleExpressible(t.Params(), local) && tupleExpressible(t.Results(), local)
	case *types.Struct:
		for i := 0; i < t.NumFields(); i++ {
			f := t.Field(i)
			if (!f.Exported() && f.Pkg() != local) || !expressible(f.Type(), local) {
				return false
			}
		}
		return true
	case *types.Interface:
		for i := 0; i < t.NumExplicitMethods(); i++ {
			if m := t.ExplicitMethod(i); !m.Exported() && m.Pkg() != local {
				return false
			}
		}
		return true
	case *types.TypeParam:
		return false
	}
	return true
}

func tupleExpressible(tup *types.Tuple, local *types.Package) bool {
	for i := 0; i < tup.Len(); i++ {
		if !expressible(tup.At(i).Type(), local) {
			return false
		}
	}
	return true
}
