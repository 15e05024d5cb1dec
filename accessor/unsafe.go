package accessor

import (
	"reflect"
	"unsafe"

	"github.com/Konsultn-Engineering/fastrefl/schema"
)

// unsafeIntf is the runtime layout of an empty interface.
type unsafeIntf struct {
	typ unsafe.Pointer
	ptr unsafe.Pointer
}

func intf(v *any) *unsafeIntf {
	return (*unsafeIntf)(unsafe.Pointer(v))
}

// typeWord returns the interface type word used for values of t.
func typeWord(t reflect.Type) unsafe.Pointer {
	v := reflect.Zero(t).Interface()
	return intf(&v).typ
}

// receiver resolves instances of one declaring type. A non-nil *T is
// recognised by comparing interface type words; everything else goes through
// the generic schema rules so both paths report the same errors.
type receiver struct {
	typ     *schema.Type
	ptrWord unsafe.Pointer
}

func newReceiver(t *schema.Type) receiver {
	return receiver{typ: t, ptrWord: typeWord(t.PointerType())}
}

// fast returns the struct address when instance is a non-nil *T.
func (r receiver) fast(instance any) (unsafe.Pointer, bool) {
	e := intf(&instance)
	if e.typ == r.ptrWord && e.ptr != nil {
		return e.ptr, true
	}
	return nil, false
}

// read returns an address to read from. T values are copied.
func (r receiver) read(instance any) (unsafe.Pointer, error) {
	if p, ok := r.fast(instance); ok {
		return p, nil
	}
	sv, _, err := r.typ.Struct(instance)
	if err != nil {
		return nil, err
	}
	return sv.Addr().UnsafePointer(), nil
}

// write returns an address to write to. Only *T instances are writable.
func (r receiver) write(instance any) (unsafe.Pointer, error) {
	if p, ok := r.fast(instance); ok {
		return p, nil
	}
	if _, _, err := r.typ.Struct(instance); err != nil {
		return nil, err
	}
	return nil, schema.ErrUnaddressable
}

// bind picks the callable and receiver argument for an instance call.
func (r receiver) bind(fn, valueFn reflect.Value, instance any) (reflect.Value, reflect.Value, error) {
	if _, ok := r.fast(instance); ok {
		return fn, reflect.ValueOf(instance), nil
	}
	return r.typ.Bind(fn, valueFn, instance)
}
