package schema

import (
	"reflect"
	"unsafe"

	"github.com/Konsultn-Engineering/fastrefl/cache"
)

// Member is a field, property or method descriptor. Descriptors are interned:
// one pointer per member for the lifetime of the process.
type Member interface {
	Name() string
	Category() cache.Category
	DeclaringType() *Type
	IsStatic() bool
	// Tag is the slot assigned to this descriptor by the registry.
	Tag() *cache.Tag
}

// ValueMember is a member with a value that can be read or written:
// *Field or *Property.
type ValueMember interface {
	Member
	ValueType() reflect.Type
	CanRead() bool
	CanWrite() bool
	GetValue(instance any) (any, error)
	SetValue(instance, value any) error
	SetValueWith(c *Converter, instance, value any) error
}

var (
	_ ValueMember = (*Field)(nil)
	_ ValueMember = (*Property)(nil)
	_ Member      = (*Method)(nil)
)

// Type describes one Go type and every member reported for it.
type Type struct {
	tag     cache.Tag
	rtype   reflect.Type
	ptrType reflect.Type

	fields     []*Field
	properties []*Property
	methods    []*Method

	// Definitive name lookups for the generic path. First reported wins.
	fieldMap    map[string]*Field
	propertyMap map[string]*Property
	methodMap   map[string]*Method
}

func (t *Type) Tag() *cache.Tag           { return &t.tag }
func (t *Type) Type() reflect.Type        { return t.rtype }
func (t *Type) PointerType() reflect.Type { return t.ptrType }

// Name returns the type name, or its literal form for unnamed types.
func (t *Type) Name() string {
	if n := t.rtype.Name(); n != "" {
		return n
	}
	return t.rtype.String()
}

func (t *Type) String() string { return t.rtype.String() }

// Fields returns all fields: declared struct fields first, then statics.
func (t *Type) Fields() []*Field { return t.fields }

// Properties returns all properties: discovered accessor pairs, then statics.
func (t *Type) Properties() []*Property { return t.properties }

// Methods returns all methods that are not property accessors, then statics.
func (t *Type) Methods() []*Method { return t.methods }

// FieldByName is the generic name lookup. It returns nil when absent.
func (t *Type) FieldByName(name string) *Field { return t.fieldMap[name] }

func (t *Type) PropertyByName(name string) *Property { return t.propertyMap[name] }

func (t *Type) MethodByName(name string) *Method { return t.methodMap[name] }

// Members returns the members of category c in reported order.
func (t *Type) Members(c cache.Category) []Member {
	switch c {
	case cache.CategoryField:
		return toMembers(t.fields)
	case cache.CategoryProperty:
		return toMembers(t.properties)
	case cache.CategoryMethod:
		return toMembers(t.methods)
	}
	return nil
}

// MemberByName is the generic lookup over category c.
func (t *Type) MemberByName(c cache.Category, name string) Member {
	switch c {
	case cache.CategoryField:
		if f := t.fieldMap[name]; f != nil {
			return f
		}
	case cache.CategoryProperty:
		if p := t.propertyMap[name]; p != nil {
			return p
		}
	case cache.CategoryMethod:
		if m := t.methodMap[name]; m != nil {
			return m
		}
	}
	return nil
}

func toMembers[M Member](in []M) []Member {
	out := make([]Member, len(in))
	for i, m := range in {
		out[i] = m
	}
	return out
}

// Field describes a struct field or a registered static variable.
type Field struct {
	tag      cache.Tag
	name     string
	owner    *Type
	typ      reflect.Type
	index    int     // struct field index, -1 for statics
	offset   uintptr // byte offset inside the struct
	exported bool
	embedded bool

	// static holds the *V pointer of a registered static variable.
	static reflect.Value
}

func (f *Field) Name() string             { return f.name }
func (f *Field) Category() cache.Category { return cache.CategoryField }
func (f *Field) DeclaringType() *Type     { return f.owner }
func (f *Field) IsStatic() bool           { return f.static.IsValid() }
func (f *Field) Tag() *cache.Tag          { return &f.tag }
func (f *Field) ValueType() reflect.Type  { return f.typ }
func (f *Field) CanRead() bool            { return true }
func (f *Field) CanWrite() bool           { return true }
func (f *Field) Index() int               { return f.index }
func (f *Field) Offset() uintptr          { return f.offset }
func (f *Field) IsExported() bool         { return f.exported }
func (f *Field) IsEmbedded() bool         { return f.embedded }

// StaticAddr returns the address of a static variable, or nil for
// instance fields.
func (f *Field) StaticAddr() unsafe.Pointer {
	if !f.static.IsValid() {
		return nil
	}
	return f.static.UnsafePointer()
}

// Accessor is one method backing a property read or write.
type Accessor struct {
	Name string
	// Func takes the receiver as first argument for instance accessors.
	Func reflect.Value
	// ValueFunc is the value-receiver form, invalid when the method is only
	// in the pointer method set.
	ValueFunc reflect.Value
}

// PointerOnly reports whether the accessor needs a *T receiver.
func (a *Accessor) PointerOnly() bool {
	return !a.ValueFunc.IsValid()
}

// Property describes a getter/setter pair following the Go naming convention
// (X or GetX, SetX) or a registered static property.
type Property struct {
	tag    cache.Tag
	name   string
	owner  *Type
	typ    reflect.Type
	static bool
	getter *Accessor
	setter *Accessor
}

func (p *Property) Name() string             { return p.name }
func (p *Property) Category() cache.Category { return cache.CategoryProperty }
func (p *Property) DeclaringType() *Type     { return p.owner }
func (p *Property) IsStatic() bool           { return p.static }
func (p *Property) Tag() *cache.Tag          { return &p.tag }
func (p *Property) ValueType() reflect.Type  { return p.typ }
func (p *Property) CanRead() bool            { return p.getter != nil }
func (p *Property) CanWrite() bool           { return p.setter != nil }

// Getter returns the read accessor or nil.
func (p *Property) Getter() *Accessor { return p.getter }

// Setter returns the write accessor or nil.
func (p *Property) Setter() *Accessor { return p.setter }

// Method describes a method of the type or a registered static function.
type Method struct {
	tag   cache.Tag
	name  string
	owner *Type

	fn      reflect.Value // receiver first for instance methods
	valueFn reflect.Value // value-receiver form, invalid if pointer-only
	static  bool

	params   []reflect.Type // excluding the receiver
	results  []reflect.Type
	variadic bool
	// errResult is set when the last result is of type error.
	errResult bool
}

func (m *Method) Name() string             { return m.name }
func (m *Method) Category() cache.Category { return cache.CategoryMethod }
func (m *Method) DeclaringType() *Type     { return m.owner }
func (m *Method) IsStatic() bool           { return m.static }
func (m *Method) Tag() *cache.Tag          { return &m.tag }

// Func returns the callable: a method expression taking *T first, or the
// static function itself.
func (m *Method) Func() reflect.Value { return m.fn }

// ValueFunc returns the method expression taking T first. It is invalid for
// static functions and pointer-only methods.
func (m *Method) ValueFunc() reflect.Value { return m.valueFn }

// PointerOnly reports whether an instance call needs a *T receiver.
func (m *Method) PointerOnly() bool { return !m.static && !m.valueFn.IsValid() }

func (m *Method) Params() []reflect.Type  { return m.params }
func (m *Method) Results() []reflect.Type { return m.results }
func (m *Method) IsVariadic() bool        { return m.variadic }

// ReturnsError reports whether the trailing result is an error.
func (m *Method) ReturnsError() bool { return m.errResult }
