package accessor

import (
	"reflect"

	"github.com/Konsultn-Engineering/fastrefl/cache"
	"github.com/Konsultn-Engineering/fastrefl/schema"
)

// AccessorFactory builds a field or property entry for one converter.
type AccessorFactory func(c *schema.Converter) *Accessor

// InvokerFactory builds a method entry for one converter.
type InvokerFactory func(c *schema.Converter) *Invoker

type memberKey struct {
	typ      reflect.Type
	category cache.Category
	name     string
}

var (
	providedAccessors = cache.NewTable[memberKey, AccessorFactory]()
	providedInvokers  = cache.NewTable[memberKey, InvokerFactory]()
)

func keyOf(t reflect.Type, c cache.Category, name string) memberKey {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return memberKey{typ: t, category: c, name: name}
}

// ProvideField registers the accessor used for field name of t. Call it
// from init: entries already compiled are not replaced.
func ProvideField(t reflect.Type, name string, f AccessorFactory) {
	providedAccessors.Set(keyOf(t, cache.CategoryField, name), f)
}

// ProvideProperty registers the accessor used for property name of t.
func ProvideProperty(t reflect.Type, name string, f AccessorFactory) {
	providedAccessors.Set(keyOf(t, cache.CategoryProperty, name), f)
}

// ProvideMethod registers the invoker used for method name of t.
func ProvideMethod(t reflect.Type, name string, f InvokerFactory) {
	providedInvokers.Set(keyOf(t, cache.CategoryMethod, name), f)
}

// Provided reports whether an entry was provided for m.
func Provided(m schema.Member) bool {
	key := keyOf(m.DeclaringType().Type(), m.Category(), m.Name())
	if m.Category() == cache.CategoryMethod {
		_, ok := providedInvokers.Get(key)
		return ok
	}
	_, ok := providedAccessors.Get(key)
	return ok
}

func providedAccessor(m schema.Member, c *schema.Converter) *Accessor {
	f, ok := providedAccessors.Get(keyOf(m.DeclaringType().Type(), m.Category(), m.Name()))
	if !ok {
		return nil
	}
	return f(c)
}

func providedInvoker(m *schema.Method, c *schema.Converter) *Invoker {
	f, ok := providedInvokers.Get(keyOf(m.DeclaringType().Type(), cache.CategoryMethod, m.Name()))
	if !ok {
		return nil
	}
	return f(c)
}
