package accessor

import (
	"fmt"
	"reflect"

	"github.com/Konsultn-Engineering/fastrefl/schema"
)

// Helpers for provided and generated accessors. They apply the same instance
// and coercion rules as compiled entries.

// Receiver returns instance as *T for reading. A T value is copied.
func Receiver[T any](instance any) (*T, error) {
	switch v := instance.(type) {
	case nil:
		return nil, schema.ErrNilInstance
	case *T:
		if v == nil {
			return nil, schema.ErrNilInstance
		}
		return v, nil
	case T:
		return &v, nil
	}
	return nil, instanceError[T](instance)
}

// MutableReceiver returns instance as *T for writing and pointer-receiver
// calls. A T value yields schema.ErrUnaddressable.
func MutableReceiver[T any](instance any) (*T, error) {
	switch v := instance.(type) {
	case nil:
		return nil, schema.ErrNilInstance
	case *T:
		if v == nil {
			return nil, schema.ErrNilInstance
		}
		return v, nil
	case T:
		return nil, schema.ErrUnaddressable
	}
	return nil, instanceError[T](instance)
}

func instanceError[T any](instance any) error {
	var zero T
	return fmt.Errorf("%w: want %T or *%T, got %T", schema.ErrInstanceType, zero, zero, instance)
}

// Coerce converts value to T with c, or the strict converter when c is nil.
func Coerce[T any](c *schema.Converter, value any) (T, error) {
	if v, ok := value.(T); ok {
		return v, nil
	}
	if c == nil {
		c = schema.StrictConverter()
	}
	var zero T
	rv, err := c.Convert(value, reflect.TypeFor[T]())
	if err != nil {
		return zero, err
	}
	v, _ := rv.Interface().(T)
	return v, nil
}

// CheckArity reports schema.ErrArgCount unless len(args) == n.
func CheckArity(args []any, n int) error {
	if len(args) != n {
		return schema.ArgCountError(n, len(args))
	}
	return nil
}
