// Package fastrefl accelerates reflective member access.
//
// Members are resolved through per-type indexes and accessed through
// compiled accessors held in a slot registry. Whenever no cache entry is
// available the generic reflection path in package schema is used, so the
// result of every call is the same either way; only the speed differs.
//
//	f, _ := fastrefl.FastGetField(reflect.TypeFor[User](), "Name")
//	v, err := fastrefl.FastGetValue(f, &user)
package fastrefl

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"github.com/Konsultn-Engineering/fastrefl/cache"
	"github.com/Konsultn-Engineering/fastrefl/config"
	"github.com/Konsultn-Engineering/fastrefl/index"
	"github.com/Konsultn-Engineering/fastrefl/registry"
	"github.com/Konsultn-Engineering/fastrefl/schema"
)

// Reflector is the entry point for fast member access. It owns one
// registry; all methods are safe for concurrent use.
type Reflector struct {
	reg *registry.Registry
}

// New creates a Reflector with its own registry.
func New(opts ...registry.Option) *Reflector {
	return &Reflector{reg: registry.New(opts...)}
}

// NewFromConfig creates a Reflector from cfg. Options in opts are applied
// after the ones derived from cfg.
func NewFromConfig(cfg *config.Config, logger *zap.Logger, opts ...registry.Option) (*Reflector, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	base := []registry.Option{
		registry.WithLogger(logger),
		registry.WithSlotLimit(cfg.Cache.SlotLimit),
		registry.WithInitialCapacity(cfg.Cache.InitialCapacity),
		registry.WithCoercion(cfg.CoercionMode()),
		registry.WithConverterCacheSize(cfg.Coercion.CacheSize),
	}
	return New(append(base, opts...)...), nil
}

// Registry returns the underlying registry.
func (r *Reflector) Registry() *registry.Registry {
	return r.reg
}

// FastGetMembers returns all members of t in category c.
func (r *Reflector) FastGetMembers(t reflect.Type, c cache.Category) ([]schema.Member, error) {
	typ, err := schema.Introspect(t)
	if err != nil {
		return nil, err
	}
	return r.MembersOf(typ, c)
}

// FastGetMember returns the member of t called name in category c, or nil
// when there is none.
func (r *Reflector) FastGetMember(t reflect.Type, c cache.Category, name string) (schema.Member, error) {
	typ, err := schema.Introspect(t)
	if err != nil {
		return nil, err
	}
	return r.MemberOf(typ, c, name)
}

// MembersOf is FastGetMembers for a descriptor the caller already holds. The
// type index is found through the descriptor's slot, without interning.
func (r *Reflector) MembersOf(typ *schema.Type, c cache.Category) ([]schema.Member, error) {
	if c == cache.CategoryType || !c.Valid() {
		return nil, fmt.Errorf("%w: %s", schema.ErrInvalidCategory, c)
	}
	if typ == nil {
		return nil, schema.ErrNilType
	}
	if ix := r.reg.Type(typ); ix != nil {
		return ix.Members(c), nil
	}
	return typ.Members(c), nil
}

// MemberOf is FastGetMember for a descriptor the caller already holds.
func (r *Reflector) MemberOf(typ *schema.Type, c cache.Category, name string) (schema.Member, error) {
	if c == cache.CategoryType || !c.Valid() {
		return nil, fmt.Errorf("%w: %s", schema.ErrInvalidCategory, c)
	}
	if typ == nil {
		return nil, schema.ErrNilType
	}
	if ix := r.reg.Type(typ); ix != nil {
		return ix.Member(c, name), nil
	}
	return typ.MemberByName(c, name), nil
}

// FieldOf returns the field of typ called name, or nil.
func (r *Reflector) FieldOf(typ *schema.Type, name string) *schema.Field {
	if typ == nil {
		return nil
	}
	if ix := r.reg.Type(typ); ix != nil {
		f, _ := ix.Fields.Get(name)
		return f
	}
	return typ.FieldByName(name)
}

// PropertyOf returns the property of typ called name, or nil.
func (r *Reflector) PropertyOf(typ *schema.Type, name string) *schema.Property {
	if typ == nil {
		return nil
	}
	if ix := r.reg.Type(typ); ix != nil {
		p, _ := ix.Properties.Get(name)
		return p
	}
	return typ.PropertyByName(name)
}

// MethodOf returns the method of typ called name, or nil.
func (r *Reflector) MethodOf(typ *schema.Type, name string) *schema.Method {
	if typ == nil {
		return nil
	}
	if ix := r.reg.Type(typ); ix != nil {
		m, _ := ix.Methods.Get(name)
		return m
	}
	return typ.MethodByName(name)
}

// index returns the descriptor of t and its cached index, which is nil when
// the registry has none.
func (r *Reflector) index(t reflect.Type) (*schema.Type, *index.TypeIndex, error) {
	typ, err := schema.Introspect(t)
	if err != nil {
		return nil, nil, err
	}
	return typ, r.reg.Type(typ), nil
}

func (r *Reflector) FastGetFields(t reflect.Type) ([]*schema.Field, error) {
	typ, ix, err := r.index(t)
	if err != nil {
		return nil, err
	}
	if ix != nil {
		return ix.Fields.All(), nil
	}
	return typ.Fields(), nil
}

// FastGetField returns the field of t called name, or nil.
func (r *Reflector) FastGetField(t reflect.Type, name string) (*schema.Field, error) {
	typ, err := schema.Introspect(t)
	if err != nil {
		return nil, err
	}
	return r.FieldOf(typ, name), nil
}

func (r *Reflector) FastGetProperties(t reflect.Type) ([]*schema.Property, error) {
	typ, ix, err := r.index(t)
	if err != nil {
		return nil, err
	}
	if ix != nil {
		return ix.Properties.All(), nil
	}
	return typ.Properties(), nil
}

// FastGetProperty returns the property of t called name, or nil.
func (r *Reflector) FastGetProperty(t reflect.Type, name string) (*schema.Property, error) {
	typ, err := schema.Introspect(t)
	if err != nil {
		return nil, err
	}
	return r.PropertyOf(typ, name), nil
}

func (r *Reflector) FastGetMethods(t reflect.Type) ([]*schema.Method, error) {
	typ, ix, err := r.index(t)
	if err != nil {
		return nil, err
	}
	if ix != nil {
		return ix.Methods.All(), nil
	}
	return typ.Methods(), nil
}

// FastGetMethod returns the method of t called name, or nil.
func (r *Reflector) FastGetMethod(t reflect.Type, name string) (*schema.Method, error) {
	typ, err := schema.Introspect(t)
	if err != nil {
		return nil, err
	}
	return r.MethodOf(typ, name), nil
}

// FastGetValue reads a field or property. Static members ignore instance.
func (r *Reflector) FastGetValue(m schema.ValueMember, instance any) (any, error) {
	switch m := m.(type) {
	case *schema.Field:
		if m == nil {
			break
		}
		if acc := r.reg.Field(m); acc != nil {
			return acc.Get(instance)
		}
		return m.GetValue(instance)
	case *schema.Property:
		if m == nil {
			break
		}
		if acc := r.reg.Property(m); acc != nil {
			if acc.Get == nil {
				return nil, schema.MemberError(m, schema.ErrNotReadable)
			}
			return acc.Get(instance)
		}
		return m.GetValue(instance)
	}
	return nil, schema.ErrNilDescriptor
}

// FastSetValue writes a field or property. Static members ignore instance.
func (r *Reflector) FastSetValue(m schema.ValueMember, instance, value any) error {
	switch m := m.(type) {
	case *schema.Field:
		if m == nil {
			break
		}
		if acc := r.reg.Field(m); acc != nil {
			return acc.Set(instance, value)
		}
		return m.SetValueWith(r.reg.Converter(), instance, value)
	case *schema.Property:
		if m == nil {
			break
		}
		if acc := r.reg.Property(m); acc != nil {
			if acc.Set == nil {
				return schema.MemberError(m, schema.ErrNotWritable)
			}
			return acc.Set(instance, value)
		}
		return m.SetValueWith(r.reg.Converter(), instance, value)
	}
	return schema.ErrNilDescriptor
}

// FastInvoke calls m with positional args. Methods without results return
// nil; a trailing error result is returned as the error.
func (r *Reflector) FastInvoke(m *schema.Method, instance any, args ...any) (any, error) {
	if m == nil {
		return nil, schema.ErrNilDescriptor
	}
	if inv := r.reg.Method(m); inv != nil {
		return inv.Invoke(instance, args)
	}
	return m.InvokeWith(r.reg.Converter(), instance, args)
}
