// Package accessor compiles member descriptors into pre-bound closures.
//
// A compiled entry behaves exactly like the generic operation on the
// descriptor (same errors, same coercion, same static and instance rules)
// but does the per-member work once: offsets, receiver type words and
// parameter types are resolved at compile time, and common field types are
// read and written through typed pointers instead of reflect.Value.
//
// Compilation prefers, in order:
//
//  1. accessors provided for the member with ProvideField, ProvideProperty or
//     ProvideMethod (hand-written, or emitted by the fastrefl generator)
//  2. typed unsafe field access for builtin types
//  3. reflect.NewAt at the field offset, or a bound reflect call
package accessor

// GetFunc reads a member from instance. Static members ignore instance.
type GetFunc func(instance any) (any, error)

// SetFunc writes value to a member of instance.
type SetFunc func(instance, value any) error

// InvokeFunc calls a method on instance with positional arguments.
type InvokeFunc func(instance any, args []any) (any, error)

// Accessor is the cache entry of a field or property. Get is nil when the
// member is not readable, Set when it is not writable.
type Accessor struct {
	Get GetFunc
	Set SetFunc
}

func (a *Accessor) CanRead() bool  { return a.Get != nil }
func (a *Accessor) CanWrite() bool { return a.Set != nil }

// Invoker is the cache entry of a method.
type Invoker struct {
	Invoke InvokeFunc
}
