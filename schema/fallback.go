package schema

import (
	"fmt"
	"reflect"
	"unsafe"
)

// The generic operations below are the reference behaviour for member access.
// Compiled accessors must be observably identical to them.

// Struct returns an addressable view of instance's struct value. A *T
// instance is used in place; a T value is copied and reported as read-only.
func (t *Type) Struct(instance any) (v reflect.Value, writable bool, err error) {
	if instance == nil {
		return reflect.Value{}, false, ErrNilInstance
	}
	rv := reflect.ValueOf(instance)
	switch rv.Type() {
	case t.ptrType:
		if rv.IsNil() {
			return reflect.Value{}, false, ErrNilInstance
		}
		return rv.Elem(), true, nil
	case t.rtype:
		tmp := reflect.New(t.rtype).Elem()
		tmp.Set(rv)
		return tmp, false, nil
	}
	return reflect.Value{}, false, InstanceTypeError(t, instance)
}

// Bind picks the callable and receiver argument for an instance call.
// fn takes *T first; valueFn takes T first and is invalid for pointer-only
// methods, in which case a T instance yields ErrUnaddressable.
func (t *Type) Bind(fn, valueFn reflect.Value, instance any) (reflect.Value, reflect.Value, error) {
	if instance == nil {
		return reflect.Value{}, reflect.Value{}, ErrNilInstance
	}
	rv := reflect.ValueOf(instance)
	switch rv.Type() {
	case t.ptrType:
		if rv.IsNil() {
			return reflect.Value{}, reflect.Value{}, ErrNilInstance
		}
		return fn, rv, nil
	case t.rtype:
		if !valueFn.IsValid() {
			return reflect.Value{}, reflect.Value{}, ErrUnaddressable
		}
		return valueFn, rv, nil
	}
	return reflect.Value{}, reflect.Value{}, InstanceTypeError(t, instance)
}

// value returns the settable field variable inside instance.
func (f *Field) value(instance any) (reflect.Value, bool, error) {
	if f.IsStatic() {
		return f.static.Elem(), true, nil
	}
	sv, writable, err := f.owner.Struct(instance)
	if err != nil {
		return reflect.Value{}, false, err
	}
	ptr := unsafe.Add(sv.Addr().UnsafePointer(), f.offset)
	return reflect.NewAt(f.typ, ptr).Elem(), writable, nil
}

// GetValue reads the field. Static fields ignore instance.
func (f *Field) GetValue(instance any) (any, error) {
	v, _, err := f.value(instance)
	if err != nil {
		return nil, MemberError(f, err)
	}
	return v.Interface(), nil
}

// SetValue writes the field using strict coercion.
func (f *Field) SetValue(instance, value any) error {
	return f.SetValueWith(strictConverter, instance, value)
}

// SetValueWith writes the field, coercing value with c.
func (f *Field) SetValueWith(c *Converter, instance, value any) error {
	dst, writable, err := f.value(instance)
	if err != nil {
		return MemberError(f, err)
	}
	if !writable {
		return MemberError(f, ErrUnaddressable)
	}
	cv, err := c.Convert(value, f.typ)
	if err != nil {
		return MemberError(f, err)
	}
	dst.Set(cv)
	return nil
}

// GetValue calls the property getter.
func (p *Property) GetValue(instance any) (any, error) {
	if p.getter == nil {
		return nil, MemberError(p, ErrNotReadable)
	}
	var out []reflect.Value
	if p.static {
		out = p.getter.Func.Call(nil)
	} else {
		fn, recv, err := p.owner.Bind(p.getter.Func, p.getter.ValueFunc, instance)
		if err != nil {
			return nil, MemberError(p, err)
		}
		out = fn.Call([]reflect.Value{recv})
	}
	return out[0].Interface(), nil
}

// SetValue calls the property setter using strict coercion.
func (p *Property) SetValue(instance, value any) error {
	return p.SetValueWith(strictConverter, instance, value)
}

// SetValueWith calls the property setter, coercing value with c.
func (p *Property) SetValueWith(c *Converter, instance, value any) error {
	if p.setter == nil {
		return MemberError(p, ErrNotWritable)
	}
	if p.static {
		cv, err := c.Convert(value, p.typ)
		if err != nil {
			return MemberError(p, err)
		}
		p.setter.Func.Call([]reflect.Value{cv})
		return nil
	}
	fn, recv, err := p.owner.Bind(p.setter.Func, p.setter.ValueFunc, instance)
	if err != nil {
		return MemberError(p, err)
	}
	cv, err := c.Convert(value, p.typ)
	if err != nil {
		return MemberError(p, err)
	}
	fn.Call([]reflect.Value{recv, cv})
	return nil
}

// Invoke calls the method with strict argument coercion. Errors returned
// by the method itself are passed through unwrapped.
func (m *Method) Invoke(instance any, args ...any) (any, error) {
	return m.InvokeWith(strictConverter, instance, args)
}

// InvokeWith calls the method, coercing args with c. A variadic method takes
// its variadic arguments as one slice.
func (m *Method) InvokeWith(c *Converter, instance any, args []any) (any, error) {
	if len(args) != len(m.params) {
		return nil, MemberError(m, ArgCountError(len(m.params), len(args)))
	}

	fn := m.fn
	off := 1
	if m.static {
		off = 0
	}
	p := GetArgs(len(args) + off)
	defer PutArgs(p)
	in := *p
	if !m.static {
		bound, recv, err := m.owner.Bind(m.fn, m.valueFn, instance)
		if err != nil {
			return nil, MemberError(m, err)
		}
		fn = bound
		in[0] = recv
	}
	for i, a := range args {
		v, err := c.Convert(a, m.params[i])
		if err != nil {
			return nil, MemberError(m, fmt.Errorf("argument %d: %w", i, err))
		}
		in[off+i] = v
	}

	var out []reflect.Value
	if m.variadic {
		out = fn.CallSlice(in)
	} else {
		out = fn.Call(in)
	}
	return ShapeResults(out, m.errResult)
}

// ShapeResults converts call results to the boxed form returned by invokers:
// nil for no results, the value for one, []any for several. When errResult is
// set the last result is split off as the error.
func ShapeResults(out []reflect.Value, errResult bool) (any, error) {
	var err error
	if errResult {
		last := out[len(out)-1]
		out = out[:len(out)-1]
		if !last.IsNil() {
			err = last.Interface().(error)
		}
	}
	switch len(out) {
	case 0:
		return nil, err
	case 1:
		return out[0].Interface(), err
	}
	res := make([]any, len(out))
	for i, v := range out {
		res[i] = v.Interface()
	}
	return res, err
}
