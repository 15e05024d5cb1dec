package gen

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/packages"
)

func samplePackage() *Package {
	return &Package{
		Name:    "model",
		Path:    "example.com/model",
		Imports: []string{"time"},
		Types: []*TypeInfo{
			{
				Name: "User",
				Fields: []FieldInfo{
					{Name: "ID", Type: "int"},
					{Name: "Created", Type: "time.Time"},
				},
				Properties: []PropertyInfo{
					{Name: "Age", Type: "int", Getter: "GetAge"},
					{Name: "Email", Type: "string", Getter: "Email", GetterPtr: true, Setter: "SetEmail", SetterPtr: true},
				},
				Methods: []MethodInfo{
					{Name: "Greet", Params: []string{"string"}, Results: 1},
					{Name: "Rename", Params: []string{"string"}, Results: 1, ReturnsError: true, PointerOnly: true},
					{Name: "Touch", PointerOnly: true},
				},
			},
		},
	}
}

func TestRender(t *testing.T) {
	g := New(NewGoimportsFormatter(), NewFileWriter())
	pkg := samplePackage()

	src, err := g.Render(pkg)
	require.NoError(t, err)
	got := string(src)

	for _, want := range []string{
		"// Code generated by fastrefl gen. DO NOT EDIT.",
		"// fingerprint: " + Fingerprint(pkg),
		"package model",
		`"github.com/Konsultn-Engineering/fastrefl/accessor"`,
		`"time"`,
		"t := reflect.TypeFor[User]()",
		`accessor.ProvideField(t, "ID", func(c *schema.Converter) *accessor.Accessor {`,
		"r, err := accessor.Receiver[User](instance)",
		"v, err := accessor.Coerce[time.Time](c, value)",
		"r.Created = v",
		`accessor.ProvideProperty(t, "Age"`,
		"return r.GetAge(), nil",
		"r.SetEmail(v)",
		`accessor.ProvideMethod(t, "Greet"`,
		"if err := accessor.CheckArity(args, 1); err != nil {",
		"a0, err := accessor.Coerce[string](c, args[0])",
		"return r.Greet(a0), nil",
		"return nil, r.Rename(a0)",
		"r.Touch()",
	} {
		assert.Contains(t, got, want)
	}
	// Read-only property: no setter is emitted for Age
	assert.NotContains(t, got, "r.SetAge(")
}

func TestRenderParsed(t *testing.T) {
	pkg, err := NewParser("").Parse(samplePkg)
	require.NoError(t, err)

	src, err := New(NewGoimportsFormatter(), NewFileWriter()).Render(pkg)
	require.NoError(t, err)
	got := string(src)

	assert.Contains(t, got, "package sample")
	assert.Contains(t, got, "t := reflect.TypeFor[Celsius]()")
	assert.Contains(t, got, "o0, o1 := r.Split()")
	assert.Contains(t, got, "o0, o1, err := r.Lookup(a0)")
	assert.NotContains(t, got, `"Tag"`)
}

func TestRenderParsed_Unexported(t *testing.T) {
	pkg, err := NewParser("").Parse(samplePkg, "account")
	require.NoError(t, err)

	src, err := New(NewGoimportsFormatter(), NewFileWriter()).Render(pkg)
	require.NoError(t, err)
	got := string(src)

	assert.Contains(t, got, "t := reflect.TypeFor[account]()")
	assert.Contains(t, got, "r, err := accessor.Receiver[account](instance)")
	assert.Contains(t, got, "r.label = v")
	assert.Contains(t, got, "r.SetLabel(v)")
}

// The rendered file must type check as part of the package it is generated for.
func TestRenderParsed_Compiles(t *testing.T) {
	pkg, err := NewParser("").Parse(samplePkg)
	require.NoError(t, err)
	require.NotNil(t, typeByName(pkg, "account"))

	src, err := New(NewGoimportsFormatter(), NewFileWriter()).Render(pkg)
	require.NoError(t, err)

	filename := filepath.Join(pkg.Dir, "sample_accessors_gen.go")
	cfg := &packages.Config{
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedImports |
			packages.NeedTypes |
			packages.NeedSyntax |
			packages.NeedTypesInfo,
		Overlay: map[string][]byte{filename: src},
	}
	pkgs, err := packages.Load(cfg, samplePkg)
	require.NoError(t, err)
	require.Len(t, pkgs, 1)
	assert.Contains(t, pkgs[0].GoFiles, filename)

	var errs []string
	for _, e := range pkgs[0].Errors {
		errs = append(errs, e.Error())
	}
	assert.Empty(t, errs)
}

func TestRenderInvoke(t *testing.T) {
	tests := []struct {
		name string
		m    MethodInfo
		want string
	}{
		{"void", MethodInfo{Name: "M"}, "\tr.M()\n\treturn nil, nil"},
		{"error only", MethodInfo{Name: "M", Results: 1, ReturnsError: true}, "\treturn nil, r.M()"},
		{"value", MethodInfo{Name: "M", Params: []string{"int"}, Results: 1}, "\treturn r.M(a0), nil"},
		{"value and error", MethodInfo{Name: "M", Results: 2, ReturnsError: true}, "\treturn r.M()"},
		{"two values", MethodInfo{Name: "M", Params: []string{"int", "string"}, Results: 2}, "\to0, o1 := r.M(a0, a1)\n\treturn []any{o0, o1}, nil"},
		{"two values and error", MethodInfo{Name: "M", Results: 3, ReturnsError: true}, "\to0, o1, err := r.M()\n\treturn []any{o0, o1}, err"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, renderInvoke(tt.m))
		})
	}
}

func TestGenerate_WritesOnce(t *testing.T) {
	dir := t.TempDir()
	pkg := samplePackage()
	pkg.Dir = dir
	g := New(NewGoimportsFormatter(), NewFileWriter())

	written, err := g.Generate(pkg, "accessors_gen.go")
	require.NoError(t, err)
	assert.True(t, written)

	filename := filepath.Join(dir, "accessors_gen.go")
	fp, err := ReadFingerprint(filename)
	require.NoError(t, err)
	assert.Equal(t, Fingerprint(pkg), fp)

	written, err = g.Generate(pkg, filename)
	require.NoError(t, err)
	assert.False(t, written, "unchanged content is not rewritten")

	pkg.Types[0].Fields = pkg.Types[0].Fields[:1]
	written, err = g.Generate(pkg, filename)
	require.NoError(t, err)
	assert.True(t, written)
}

func TestGenerate_Errors(t *testing.T) {
	g := New(NewGoimportsFormatter(), NewFileWriter())

	_, err := g.Render(&Package{Name: "model"})
	assert.ErrorIs(t, err, ErrNoTypes)
	_, err = g.Generate(nil, "x.go")
	assert.ErrorIs(t, err, ErrNoTypes)

	bad := filepath.Join(t.TempDir(), "plain.go")
	require.NoError(t, os.WriteFile(bad, []byte("package model\n"), 0o644))
	_, err = ReadFingerprint(bad)
	assert.Error(t, err)
}
