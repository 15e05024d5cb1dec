package schema

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/Konsultn-Engineering/fastrefl/cache"
)

var (
	types   sync.Map // map[reflect.Type]*Type
	buildMu sync.Mutex

	errorType = reflect.TypeFor[error]()
)

// Introspect returns the interned descriptor of t. Pointer types resolve to
// their element type, so T and *T share one descriptor. The first call for a
// type seals its static member registrations.
func Introspect(t reflect.Type) (*Type, error) {
	if t == nil {
		return nil, ErrNilType
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if typ, ok := types.Load(t); ok {
		return typ.(*Type), nil
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	if typ, ok := types.Load(t); ok {
		return typ.(*Type), nil
	}
	typ, err := buildType(t, statics[t])
	if err != nil {
		return nil, err
	}
	types.Store(t, typ)
	delete(statics, t)
	return typ, nil
}

// IntrospectFor is Introspect for the type parameter T.
func IntrospectFor[T any]() (*Type, error) {
	return Introspect(reflect.TypeFor[T]())
}

// MustIntrospect is like Introspect but panics on error.
func MustIntrospect(t reflect.Type) *Type {
	typ, err := Introspect(t)
	if err != nil {
		panic(err)
	}
	return typ
}

// IntrospectValue introspects the dynamic type of v.
func IntrospectValue(v any) (*Type, error) {
	if v == nil {
		return nil, ErrNilType
	}
	return Introspect(reflect.TypeOf(v))
}

func buildType(t reflect.Type, extra []StaticMember) (*Type, error) {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Invalid:
		return nil, fmt.Errorf("%w: %s", ErrInvalidType, t)
	}

	typ := &Type{
		rtype:       t,
		ptrType:     reflect.PointerTo(t),
		fieldMap:    make(map[string]*Field),
		propertyMap: make(map[string]*Property),
		methodMap:   make(map[string]*Method),
	}

	typ.buildFields()
	consumed := typ.buildProperties()
	typ.buildMethods(consumed)

	for _, s := range extra {
		switch s.category {
		case cache.CategoryField:
			typ.addField(&Field{
				name:     s.name,
				owner:    typ,
				typ:      s.typ,
				index:    -1,
				exported: isExported(s.name),
				static:   s.value,
			})
		case cache.CategoryProperty:
			p := &Property{name: s.name, owner: typ, typ: s.typ, static: true}
			if s.get.IsValid() {
				p.getter = &Accessor{Name: s.name, Func: s.get}
			}
			if s.set.IsValid() {
				p.setter = &Accessor{Name: s.name, Func: s.set}
			}
			typ.addProperty(p)
		case cache.CategoryMethod:
			ft := s.typ
			m := &Method{
				name:     s.name,
				owner:    typ,
				fn:       s.value,
				static:   true,
				variadic: ft.IsVariadic(),
			}
			for i := 0; i < ft.NumIn(); i++ {
				m.params = append(m.params, ft.In(i))
			}
			m.setResults(ft)
			typ.addMethod(m)
		}
	}
	return typ, nil
}

func (t *Type) buildFields() {
	if t.rtype.Kind() != reflect.Struct {
		return
	}
	for i := 0; i < t.rtype.NumField(); i++ {
		sf := t.rtype.Field(i)
		if sf.Name == "_" {
			continue
		}
		t.addField(&Field{
			name:     sf.Name,
			owner:    t,
			typ:      sf.Type,
			index:    i,
			offset:   sf.Offset,
			exported: sf.IsExported(),
			embedded: sf.Anonymous,
		})
	}
}

// buildProperties pairs SetX with X or GetX and returns the names of the
// methods consumed as accessors.
func (t *Type) buildProperties() map[string]bool {
	pt := t.ptrType
	byName := make(map[string]reflect.Method, pt.NumMethod())
	for i := 0; i < pt.NumMethod(); i++ {
		m := pt.Method(i)
		byName[m.Name] = m
	}

	getterOf := func(name string, v reflect.Type) (reflect.Method, bool) {
		m, ok := byName[name]
		if !ok {
			return m, false
		}
		mt := m.Type
		if mt.NumIn() != 1 || mt.NumOut() != 1 || (v != nil && mt.Out(0) != v) {
			return m, false
		}
		return m, true
	}

	consumed := make(map[string]bool)
	var props []*Property

	for i := 0; i < pt.NumMethod(); i++ {
		m := pt.Method(i)
		name := SetterProperty(m.Name)
		if name == "" {
			continue
		}
		mt := m.Type
		if mt.NumIn() != 2 || mt.NumOut() != 0 || mt.IsVariadic() {
			continue
		}
		p := &Property{name: name, owner: t, typ: mt.In(1)}
		p.setter = t.accessor(m)
		consumed[m.Name] = true

		if g, ok := getterOf(name, p.typ); ok {
			p.getter = t.accessor(g)
			consumed[g.Name] = true
		} else if g, ok := getterOf(getterPrefix+name, p.typ); ok {
			p.getter = t.accessor(g)
			consumed[g.Name] = true
		}
		props = append(props, p)
	}

	// Read-only properties: GetX without SetX
	for i := 0; i < pt.NumMethod(); i++ {
		m := pt.Method(i)
		name := GetterProperty(m.Name)
		if name == "" || consumed[m.Name] {
			continue
		}
		if _, ok := byName[setterPrefix+name]; ok && consumed[setterPrefix+name] {
			continue
		}
		if _, ok := getterOf(m.Name, nil); !ok {
			continue
		}
		props = append(props, &Property{
			name:   name,
			owner:  t,
			typ:    m.Type.Out(0),
			getter: t.accessor(m),
		})
		consumed[m.Name] = true
	}

	sort.SliceStable(props, func(i, j int) bool { return props[i].name < props[j].name })
	for _, p := range props {
		t.addProperty(p)
	}
	return consumed
}

func (t *Type) buildMethods(consumed map[string]bool) {
	pt := t.ptrType
	for i := 0; i < pt.NumMethod(); i++ {
		rm := pt.Method(i)
		if consumed[rm.Name] {
			continue
		}
		mt := rm.Type
		m := &Method{
			name:     rm.Name,
			owner:    t,
			fn:       rm.Func,
			variadic: mt.IsVariadic(),
		}
		if vm, ok := t.rtype.MethodByName(rm.Name); ok {
			m.valueFn = vm.Func
		}
		for j := 1; j < mt.NumIn(); j++ {
			m.params = append(m.params, mt.In(j))
		}
		m.setResults(mt)
		t.addMethod(m)
	}
}

func (t *Type) accessor(m reflect.Method) *Accessor {
	a := &Accessor{Name: m.Name, Func: m.Func}
	if vm, ok := t.rtype.MethodByName(m.Name); ok {
		a.ValueFunc = vm.Func
	}
	return a
}

func (m *Method) setResults(ft reflect.Type) {
	for i := 0; i < ft.NumOut(); i++ {
		m.results = append(m.results, ft.Out(i))
	}
	if n := len(m.results); n > 0 && m.results[n-1] == errorType {
		m.errResult = true
	}
}

func (t *Type) addField(f *Field) {
	t.fields = append(t.fields, f)
	if _, ok := t.fieldMap[f.name]; !ok {
		t.fieldMap[f.name] = f
	}
}

func (t *Type) addProperty(p *Property) {
	t.properties = append(t.properties, p)
	if _, ok := t.propertyMap[p.name]; !ok {
		t.propertyMap[p.name] = p
	}
}

func (t *Type) addMethod(m *Method) {
	t.methods = append(t.methods, m)
	if _, ok := t.methodMap[m.name]; !ok {
		t.methodMap[m.name] = m
	}
}
