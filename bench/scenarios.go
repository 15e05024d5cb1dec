package bench

import (
	"fmt"
	"reflect"

	"github.com/Konsultn-Engineering/fastrefl"
	"github.com/Konsultn-Engineering/fastrefl/schema"
)

// Groups lists the scenario groups in the order Scenarios returns them.
var Groups = []string{"field", "property", "method"}

type fieldExample struct {
	A   int
	B   int
	Abc string
}

type propertyExample struct {
	a   int
	b   int
	abc string
}

func (p *propertyExample) A() int          { return p.a }
func (p *propertyExample) SetA(v int)      { p.a = v }
func (p *propertyExample) B() int          { return p.b }
func (p *propertyExample) SetB(v int)      { p.b = v }
func (p *propertyExample) Abc() string     { return p.abc }
func (p *propertyExample) SetAbc(v string) { p.abc = v }

type methodExample struct{}

func (methodExample) Add(a, b int) int           { return a + b }
func (methodExample) Combine(a, b string) string { return a + b }

// sink keeps results alive so the compiler cannot drop the operation.
var sink any

// Scenarios builds every scenario against r.
func Scenarios(r *fastrefl.Reflector) ([]Scenario, error) {
	var out []Scenario
	for _, build := range []func(*fastrefl.Reflector) ([]Scenario, error){fieldScenarios, propertyScenarios, methodScenarios} {
		s, err := build(r)
		if err != nil {
			return nil, err
		}
		out = append(out, s...)
	}
	return out, nil
}

func fieldScenarios(r *fastrefl.Reflector) ([]Scenario, error) {
	rt := reflect.TypeFor[fieldExample]()
	typ, err := schema.Introspect(rt)
	if err != nil {
		return nil, err
	}
	f, err := r.FastGetField(rt, "Abc")
	if err != nil {
		return nil, err
	}
	if f == nil {
		return nil, fmt.Errorf("field Abc not found")
	}
	obj := &fieldExample{A: 123, B: 321, Abc: "abc"}
	rv := reflect.ValueOf(obj).Elem()
	sf, _ := rt.FieldByName("Abc")
	abc := reflect.ValueOf("abc")
	names := []string{"A", "B", "Abc"}

	return []Scenario{
		{"field", "GetMembers", Reflect, func() error { sink = reflect.VisibleFields(rt); return nil }},
		{"field", "GetMembers", Generic, func() error { sink = typ.Fields(); return nil }},
		{"field", "GetMembers", Fast, func() error {
			fields, err := r.FastGetFields(rt)
			sink = fields
			return err
		}},
		{"field", "GetMember", Reflect, func() error {
			for _, n := range names {
				sink, _ = rt.FieldByName(n)
			}
			return nil
		}},
		{"field", "GetMember", Generic, func() error {
			for _, n := range names {
				sink = typ.FieldByName(n)
			}
			return nil
		}},
		{"field", "GetMember", Fast, func() error {
			for _, n := range names {
				f, err := r.FastGetField(rt, n)
				if err != nil {
					return err
				}
				sink = f
			}
			return nil
		}},
		{"field", "GetValue", Native, func() error { sink = obj.Abc; return nil }},
		{"field", "GetValue", Reflect, func() error { sink = rv.FieldByIndex(sf.Index).Interface(); return nil }},
		{"field", "GetValue", Generic, func() error {
			v, err := f.GetValue(obj)
			sink = v
			return err
		}},
		{"field", "GetValue", Fast, func() error {
			v, err := r.FastGetValue(f, obj)
			sink = v
			return err
		}},
		{"field", "SetValue", Native, func() error { obj.Abc = "abc"; return nil }},
		{"field", "SetValue", Reflect, func() error { rv.FieldByIndex(sf.Index).Set(abc); return nil }},
		{"field", "SetValue", Generic, func() error { return f.SetValue(obj, "abc") }},
		{"field", "SetValue", Fast, func() error { return r.FastSetValue(f, obj, "abc") }},
	}, nil
}

func propertyScenarios(r *fastrefl.Reflector) ([]Scenario, error) {
	rt := reflect.TypeFor[propertyExample]()
	typ, err := schema.Introspect(rt)
	if err != nil {
		return nil, err
	}
	p, err := r.FastGetProperty(rt, "Abc")
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("property Abc not found")
	}
	obj := &propertyExample{a: 123, b: 321, abc: "abc"}
	rv := reflect.ValueOf(obj)
	get := rv.MethodByName("Abc")
	set := rv.MethodByName("SetAbc")
	args := []reflect.Value{reflect.ValueOf("abc")}
	names := []string{"A", "B", "Abc"}

	return []Scenario{
		{"property", "GetMembers", Generic, func() error { sink = typ.Properties(); return nil }},
		{"property", "GetMembers", Fast, func() error {
			props, err := r.FastGetProperties(rt)
			sink = props
			return err
		}},
		{"property", "GetMember", Generic, func() error {
			for _, n := range names {
				sink = typ.PropertyByName(n)
			}
			return nil
		}},
		{"property", "GetMember", Fast, func() error {
			for _, n := range names {
				p, err := r.FastGetProperty(rt, n)
				if err != nil {
					return err
				}
				sink = p
			}
			return nil
		}},
		{"property", "GetValue", Native, func() error { sink = obj.Abc(); return nil }},
		{"property", "GetValue", Reflect, func() error { sink = get.Call(nil)[0].Interface(); return nil }},
		{"property", "GetValue", Generic, func() error {
			v, err := p.GetValue(obj)
			sink = v
			return err
		}},
		{"property", "GetValue", Fast, func() error {
			v, err := r.FastGetValue(p, obj)
			sink = v
			return err
		}},
		{"property", "SetValue", Native, func() error { obj.SetAbc("abc"); return nil }},
		{"property", "SetValue", Reflect, func() error { set.Call(args); return nil }},
		{"property", "SetValue", Generic, func() error { return p.SetValue(obj, "abc") }},
		{"property", "SetValue", Fast, func() error { return r.FastSetValue(p, obj, "abc") }},
	}, nil
}

func methodScenarios(r *fastrefl.Reflector) ([]Scenario, error) {
	rt := reflect.TypeFor[methodExample]()
	pt := reflect.PointerTo(rt)
	typ, err := schema.Introspect(rt)
	if err != nil {
		return nil, err
	}
	m, err := r.FastGetMethod(rt, "Combine")
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("method Combine not found")
	}
	obj := &methodExample{}
	rm, _ := pt.MethodByName("Combine")
	in := []reflect.Value{reflect.ValueOf(obj), reflect.ValueOf("a"), reflect.ValueOf("b")}
	names := []string{"Add", "Combine"}

	return []Scenario{
		{"method", "GetMembers", Reflect, func() error {
			methods := make([]reflect.Method, pt.NumMethod())
			for i := range methods {
				methods[i] = pt.Method(i)
			}
			sink = methods
			return nil
		}},
		{"method", "GetMembers", Generic, func() error { sink = typ.Methods(); return nil }},
		{"method", "GetMembers", Fast, func() error {
			methods, err := r.FastGetMethods(rt)
			sink = methods
			return err
		}},
		{"method", "GetMember", Reflect, func() error {
			for _, n := range names {
				sink, _ = pt.MethodByName(n)
			}
			return nil
		}},
		{"method", "GetMember", Generic, func() error {
			for _, n := range names {
				sink = typ.MethodByName(n)
			}
			return nil
		}},
		{"method", "GetMember", Fast, func() error {
			for _, n := range names {
				m, err := r.FastGetMethod(rt, n)
				if err != nil {
					return err
				}
				sink = m
			}
			return nil
		}},
		{"method", "Invoke", Native, func() error { sink = obj.Combine("a", "b"); return nil }},
		{"method", "Invoke", Reflect, func() error { sink = rm.Func.Call(in)[0].Interface(); return nil }},
		{"method", "Invoke", Generic, func() error {
			v, err := m.Invoke(obj, "a", "b")
			sink = v
			return err
		}},
		{"method", "Invoke", Fast, func() error {
			v, err := r.FastInvoke(m, obj, "a", "b")
			sink = v
			return err
		}},
	}, nil
}
