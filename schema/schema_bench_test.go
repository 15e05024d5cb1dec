package schema

import (
	"reflect"
	"testing"
)

func BenchmarkIntrospectCached(b *testing.B) {
	t := reflect.TypeFor[widget]()
	_ = MustIntrospect(t)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Introspect(t)
	}
}

func BenchmarkFieldGetValue(b *testing.B) {
	f := MustIntrospect(reflect.TypeFor[widget]()).FieldByName("Label")
	w := &widget{Label: "x"}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = f.GetValue(w)
	}
}

func BenchmarkFieldSetValue(b *testing.B) {
	f := MustIntrospect(reflect.TypeFor[widget]()).FieldByName("Label")
	w := &widget{}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = f.SetValue(w, "x")
	}
}

func BenchmarkMethodInvoke(b *testing.B) {
	m := MustIntrospect(reflect.TypeFor[widget]()).MethodByName("Describe")
	w := &widget{Label: "x"}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = m.Invoke(w, "p:")
	}
}

func BenchmarkConvert(b *testing.B) {
	c := NewConverter(Lenient, 0)
	to := reflect.TypeFor[int64]()

	b.Run("assignable", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_, _ = c.Convert(int64(1), to)
		}
	})
	b.Run("numeric", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_, _ = c.Convert(int16(1), to)
		}
	})
	b.Run("text", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			_, _ = c.Convert("42", to)
		}
	})
}
