package schema

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrNilType is returned when a nil reflect.Type or *Type is supplied.
	ErrNilType = errors.New("fastrefl: nil type")
	// ErrNilDescriptor is returned when a nil member descriptor is supplied.
	ErrNilDescriptor = errors.New("fastrefl: nil member descriptor")
	// ErrInvalidType is returned for types that cannot be introspected.
	ErrInvalidType = errors.New("fastrefl: invalid type")
	// ErrNilInstance is returned when an instance member is used without an instance.
	ErrNilInstance = errors.New("fastrefl: nil instance for instance member")
	// ErrInstanceType is returned when the instance is not of the declaring type.
	ErrInstanceType = errors.New("fastrefl: instance type mismatch")
	// ErrUnaddressable is returned when a write or pointer method needs *T but got T.
	ErrUnaddressable = errors.New("fastrefl: instance is not addressable")
	// ErrTypeMismatch is returned when a value cannot be coerced to the declared type.
	ErrTypeMismatch = errors.New("fastrefl: type mismatch")
	// ErrArgCount is returned when an invocation has the wrong number of arguments.
	ErrArgCount = errors.New("fastrefl: wrong argument count")
	// ErrNotReadable is returned when reading a property without a getter.
	ErrNotReadable = errors.New("fastrefl: member is not readable")
	// ErrNotWritable is returned when writing a property without a setter.
	ErrNotWritable = errors.New("fastrefl: member is not writable")
	// ErrSealed is returned when static members are registered after the type was introspected.
	ErrSealed = errors.New("fastrefl: type already introspected")
	// ErrInvalidStatic is returned for malformed static member registrations.
	ErrInvalidStatic = errors.New("fastrefl: invalid static member")
	// ErrInvalidCategory is returned for member lookups outside field, property and method.
	ErrInvalidCategory = errors.New("fastrefl: invalid member category")
)

// MemberError attaches member context to one of the sentinel errors.
func MemberError(m Member, err error) error {
	if m == nil {
		return err
	}
	return fmt.Errorf("%s %s.%s: %w", m.Category(), m.DeclaringType().Name(), m.Name(), err)
}

// InstanceTypeError reports an instance of the wrong type for t.
func InstanceTypeError(t *Type, instance any) error {
	return fmt.Errorf("%w: want %s or *%s, got %T", ErrInstanceType, t.rtype, t.rtype, instance)
}

// ArgCountError reports a call with got arguments where want are declared.
func ArgCountError(want, got int) error {
	return fmt.Errorf("%w: want %d, got %d", ErrArgCount, want, got)
}

func mismatch(from, to reflect.Type) error {
	if from == nil {
		return fmt.Errorf("%w: cannot use nil as %s", ErrTypeMismatch, to)
	}
	return fmt.Errorf("%w: cannot use %s as %s", ErrTypeMismatch, from, to)
}
