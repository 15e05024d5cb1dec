package schema

import (
	"fmt"
	"reflect"

	"github.com/Konsultn-Engineering/fastrefl/cache"
)

// StaticMember is a package-level variable, accessor pair or function that is
// reported as a static member of a type. Build one with StaticField,
// StaticProperty or StaticFunc and attach it with Register.
type StaticMember struct {
	category cache.Category
	name     string
	value    reflect.Value // *V for fields, func for methods
	get, set reflect.Value // property accessors, either may be invalid
	typ      reflect.Type
	err      error
}

func (s StaticMember) Name() string             { return s.name }
func (s StaticMember) Category() cache.Category { return s.category }

// StaticField reports the variable *ptr as a static field.
func StaticField(name string, ptr any) StaticMember {
	s := StaticMember{category: cache.CategoryField, name: name}
	v := reflect.ValueOf(ptr)
	if !v.IsValid() || v.Kind() != reflect.Pointer || v.IsNil() {
		s.err = fmt.Errorf("%w: field %q needs a non-nil pointer, got %T", ErrInvalidStatic, name, ptr)
		return s
	}
	s.value = v
	s.typ = v.Type().Elem()
	return s
}

// StaticProperty reports a static property read by get (func() V) and written
// by set (func(V)). Either may be nil, not both.
func StaticProperty(name string, get, set any) StaticMember {
	s := StaticMember{category: cache.CategoryProperty, name: name}
	if get == nil && set == nil {
		s.err = fmt.Errorf("%w: property %q has neither getter nor setter", ErrInvalidStatic, name)
		return s
	}
	if get != nil {
		g := reflect.ValueOf(get)
		gt := g.Type()
		if gt.Kind() != reflect.Func || gt.NumIn() != 0 || gt.NumOut() != 1 || g.IsNil() {
			s.err = fmt.Errorf("%w: property %q getter must be func() V, got %T", ErrInvalidStatic, name, get)
			return s
		}
		s.get = g
		s.typ = gt.Out(0)
	}
	if set != nil {
		st := reflect.TypeOf(set)
		if st.Kind() != reflect.Func || st.NumIn() != 1 || st.NumOut() != 0 || st.IsVariadic() || reflect.ValueOf(set).IsNil() {
			s.err = fmt.Errorf("%w: property %q setter must be func(V), got %T", ErrInvalidStatic, name, set)
			return s
		}
		if s.typ != nil && st.In(0) != s.typ {
			s.err = fmt.Errorf("%w: property %q getter returns %s but setter takes %s", ErrInvalidStatic, name, s.typ, st.In(0))
			return s
		}
		s.set = reflect.ValueOf(set)
		s.typ = st.In(0)
	}
	return s
}

// StaticFunc reports fn as a static method. The name may be unexported.
func StaticFunc(name string, fn any) StaticMember {
	s := StaticMember{category: cache.CategoryMethod, name: name}
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		s.err = fmt.Errorf("%w: method %q needs a func, got %T", ErrInvalidStatic, name, fn)
		return s
	}
	s.value = v
	s.typ = v.Type()
	return s
}

// statics holds registrations for types not yet introspected. Guarded by buildMu.
var statics = map[reflect.Type][]StaticMember{}

// Register attaches static members to t. It must run before t is first
// introspected, typically from an init function; afterwards it fails with
// ErrSealed.
func Register(t reflect.Type, members ...StaticMember) error {
	if t == nil {
		return ErrNilType
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	for _, m := range members {
		if m.err != nil {
			return m.err
		}
		if m.name == "" {
			return fmt.Errorf("%w: empty %s name", ErrInvalidStatic, m.category)
		}
	}

	buildMu.Lock()
	defer buildMu.Unlock()

	if _, ok := types.Load(t); ok {
		return fmt.Errorf("%w: %s", ErrSealed, t)
	}
	statics[t] = append(statics[t], members...)
	return nil
}

// RegisterFor is Register for the type parameter T.
func RegisterFor[T any](members ...StaticMember) error {
	return Register(reflect.TypeFor[T](), members...)
}

// MustRegister is like Register but panics on error.
func MustRegister(t reflect.Type, members ...StaticMember) {
	if err := Register(t, members...); err != nil {
		panic(err)
	}
}
