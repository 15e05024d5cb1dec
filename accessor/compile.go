package accessor

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/Konsultn-Engineering/fastrefl/schema"
)

// CompileField returns the entry for f. Fields are always compilable.
func CompileField(f *schema.Field, c *schema.Converter) *Accessor {
	if f == nil {
		return nil
	}
	if c == nil {
		c = schema.StrictConverter()
	}
	if a := providedAccessor(f, c); a != nil {
		return a
	}

	ft := f.ValueType()
	ops, _ := opsFor(ft)

	assign := func(p unsafe.Pointer, value any) error {
		if ops.set(p, value) {
			return nil
		}
		v, err := c.Convert(value, ft)
		if err != nil {
			return schema.MemberError(f, err)
		}
		reflect.NewAt(ft, p).Elem().Set(v)
		return nil
	}

	if f.IsStatic() {
		p := f.StaticAddr()
		return &Accessor{
			Get: func(any) (any, error) {
				return ops.get(p), nil
			},
			Set: func(_, value any) error {
				return assign(p, value)
			},
		}
	}

	r := newReceiver(f.DeclaringType())
	off := f.Offset()
	return &Accessor{
		Get: func(instance any) (any, error) {
			base, err := r.read(instance)
			if err != nil {
				return nil, schema.MemberError(f, err)
			}
			return ops.get(unsafe.Add(base, off)), nil
		},
		Set: func(instance, value any) error {
			base, err := r.write(instance)
			if err != nil {
				return schema.MemberError(f, err)
			}
			return assign(unsafe.Add(base, off), value)
		},
	}
}

// CompileProperty returns the entry for p with Get iff p is readable and Set
// iff p is writable.
func CompileProperty(p *schema.Property, c *schema.Converter) *Accessor {
	if p == nil {
		return nil
	}
	if c == nil {
		c = schema.StrictConverter()
	}
	if a := providedAccessor(p, c); a != nil {
		return a
	}

	a := &Accessor{}
	pt := p.ValueType()
	r := newReceiver(p.DeclaringType())

	if g := p.Getter(); g != nil {
		fn, valueFn := g.Func, g.ValueFunc
		if p.IsStatic() {
			a.Get = func(any) (any, error) {
				return fn.Call(nil)[0].Interface(), nil
			}
		} else {
			a.Get = func(instance any) (any, error) {
				call, recv, err := r.bind(fn, valueFn, instance)
				if err != nil {
					return nil, schema.MemberError(p, err)
				}
				return call.Call([]reflect.Value{recv})[0].Interface(), nil
			}
		}
	}

	if s := p.Setter(); s != nil {
		fn, valueFn := s.Func, s.ValueFunc
		if p.IsStatic() {
			a.Set = func(_, value any) error {
				v, err := c.Convert(value, pt)
				if err != nil {
					return schema.MemberError(p, err)
				}
				fn.Call([]reflect.Value{v})
				return nil
			}
		} else {
			a.Set = func(instance, value any) error {
				call, recv, err := r.bind(fn, valueFn, instance)
				if err != nil {
					return schema.MemberError(p, err)
				}
				v, err := c.Convert(value, pt)
				if err != nil {
					return schema.MemberError(p, err)
				}
				call.Call([]reflect.Value{recv, v})
				return nil
			}
		}
	}
	return a
}

// CompileMethod returns the invoker for m, or nil for variadic methods which
// keep the generic call path.
func CompileMethod(m *schema.Method, c *schema.Converter) *Invoker {
	if m == nil {
		return nil
	}
	if c == nil {
		c = schema.StrictConverter()
	}
	if inv := providedInvoker(m, c); inv != nil {
		return inv
	}
	if m.IsVariadic() {
		return nil
	}

	params := m.Params()
	n := len(params)
	errResult := m.ReturnsError()
	fn, valueFn := m.Func(), m.ValueFunc()

	coerce := func(in []reflect.Value, args []any) error {
		for i, a := range args {
			v, err := c.Convert(a, params[i])
			if err != nil {
				return schema.MemberError(m, fmt.Errorf("argument %d: %w", i, err))
			}
			in[i] = v
		}
		return nil
	}

	if m.IsStatic() {
		return &Invoker{
			Invoke: func(_ any, args []any) (any, error) {
				if len(args) != n {
					return nil, schema.MemberError(m, schema.ArgCountError(n, len(args)))
				}
				p := schema.GetArgs(n)
				defer schema.PutArgs(p)
				if err := coerce(*p, args); err != nil {
					return nil, err
				}
				return schema.ShapeResults(fn.Call(*p), errResult)
			},
		}
	}

	r := newReceiver(m.DeclaringType())
	return &Invoker{
		Invoke: func(instance any, args []any) (any, error) {
			if len(args) != n {
				return nil, schema.MemberError(m, schema.ArgCountError(n, len(args)))
			}
			call, recv, err := r.bind(fn, valueFn, instance)
			if err != nil {
				return nil, schema.MemberError(m, err)
			}
			p := schema.GetArgs(n + 1)
			defer schema.PutArgs(p)
			in := *p
			in[0] = recv
			if err := coerce(in[1:], args); err != nil {
				return nil, err
			}
			return schema.ShapeResults(call.Call(in), errResult)
		},
	}
}
