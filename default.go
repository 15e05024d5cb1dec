package fastrefl

import (
	"reflect"
	"sync/atomic"

	"github.com/Konsultn-Engineering/fastrefl/cache"
	"github.com/Konsultn-Engineering/fastrefl/schema"
)

// std is the Reflector used by the package-level functions.
var std atomic.Pointer[Reflector]

func init() {
	std.Store(New())
}

// Default returns the process-wide Reflector.
func Default() *Reflector {
	return std.Load()
}

// SetDefault replaces the process-wide Reflector. A nil r installs a fresh
// default one.
func SetDefault(r *Reflector) {
	if r == nil {
		r = New()
	}
	std.Store(r)
}

func FastGetMembers(t reflect.Type, c cache.Category) ([]schema.Member, error) {
	return Default().FastGetMembers(t, c)
}

func FastGetMember(t reflect.Type, c cache.Category, name string) (schema.Member, error) {
	return Default().FastGetMember(t, c, name)
}

func MembersOf(typ *schema.Type, c cache.Category) ([]schema.Member, error) {
	return Default().MembersOf(typ, c)
}

func MemberOf(typ *schema.Type, c cache.Category, name string) (schema.Member, error) {
	return Default().MemberOf(typ, c, name)
}

func FastGetFields(t reflect.Type) ([]*schema.Field, error) {
	return Default().FastGetFields(t)
}

func FastGetField(t reflect.Type, name string) (*schema.Field, error) {
	return Default().FastGetField(t, name)
}

func FastGetProperties(t reflect.Type) ([]*schema.Property, error) {
	return Default().FastGetProperties(t)
}

func FastGetProperty(t reflect.Type, name string) (*schema.Property, error) {
	return Default().FastGetProperty(t, name)
}

func FastGetMethods(t reflect.Type) ([]*schema.Method, error) {
	return Default().FastGetMethods(t)
}

func FastGetMethod(t reflect.Type, name string) (*schema.Method, error) {
	return Default().FastGetMethod(t, name)
}

func FastGetValue(m schema.ValueMember, instance any) (any, error) {
	return Default().FastGetValue(m, instance)
}

func FastSetValue(m schema.ValueMember, instance, value any) error {
	return Default().FastSetValue(m, instance, value)
}

func FastInvoke(m *schema.Method, instance any, args ...any) (any, error) {
	return Default().FastInvoke(m, instance, args...)
}
