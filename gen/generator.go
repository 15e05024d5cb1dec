package gen

import (
	"bufio"
	"bytes"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"golang.org/x/tools/imports"

	"github.com/Konsultn-Engineering/fastrefl/utils"
)

//go:embed templates/*.go.tmpl
var templateFS embed.FS

// ErrNoTypes is returned when a package has nothing to generate.
var ErrNoTypes = errors.New("gen: no types to generate")

const fingerprintPrefix = "// fingerprint: "

// Generator renders and writes accessor files.
type Generator interface {
	// Render returns the formatted source for pkg.
	Render(pkg *Package) ([]byte, error)
	// Generate writes the source for pkg to output, relative to the package
	// directory unless absolute. It reports false when the file on disk
	// already has the same fingerprint.
	Generate(pkg *Package, output string) (bool, error)
}

// Formatter formats generated Go code and organizes imports.
type Formatter interface {
	Format(filename string, src []byte) ([]byte, error)
}

// FileWriter writes generated code to disk.
type FileWriter interface {
	Write(filename string, data []byte) error
}

type generatorImpl struct {
	formatter Formatter
	writer    FileWriter
	tmpl      *template.Template
}

type goimportsFormatter struct{}

type fileWriter struct{}

type templateData struct {
	Package     string
	Fingerprint string
	Imports     []string
	AccessorPkg string
	SchemaPkg   string
	Types       []*TypeInfo
}

// New creates a code generator.
func New(f Formatter, w FileWriter) Generator {
	tmpl := template.Must(template.New("").Funcs(template.FuncMap{
		"receiver": receiverHelper,
		"invoke":   renderInvoke,
	}).ParseFS(templateFS, "templates/*.go.tmpl"))
	return &generatorImpl{formatter: f, writer: w, tmpl: tmpl}
}

// NewGoimportsFormatter creates a formatter backed by goimports.
func NewGoimportsFormatter() Formatter {
	return &goimportsFormatter{}
}

// NewFileWriter creates a plain file writer.
func NewFileWriter() FileWriter {
	return &fileWriter{}
}

func (g *generatorImpl) Render(pkg *Package) ([]byte, error) {
	if pkg == nil || len(pkg.Types) == 0 {
		return nil, ErrNoTypes
	}

	data := templateData{
		Package:     pkg.Name,
		Fingerprint: Fingerprint(pkg),
		Imports:     pkg.Imports,
		AccessorPkg: accessorPkg,
		SchemaPkg:   schemaPkg,
		Types:       pkg.Types,
	}
	var buf bytes.Buffer
	if err := g.tmpl.ExecuteTemplate(&buf, "accessors.go.tmpl", data); err != nil {
		return nil, fmt.Errorf("template: %w", err)
	}

	formatted, err := g.formatter.Format(pkg.Name+"_accessors.go", buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format: %w", err)
	}
	return formatted, nil
}

func (g *generatorImpl) Generate(pkg *Package, output string) (bool, error) {
	src, err := g.Render(pkg)
	if err != nil {
		return false, err
	}

	filename := output
	if !filepath.IsAbs(filename) && pkg.Dir != "" {
		filename = filepath.Join(pkg.Dir, filename)
	}
	if existing, err := ReadFingerprint(filename); err == nil && existing == Fingerprint(pkg) {
		return false, nil
	}
	if err := g.writer.Write(filename, src); err != nil {
		return false, fmt.Errorf("write: %w", err)
	}
	return true, nil
}

func (f *goimportsFormatter) Format(filename string, src []byte) ([]byte, error) {
	return imports.Process(filename, src, nil)
}

func (w *fileWriter) Write(filename string, data []byte) error {
	return os.WriteFile(filename, data, 0o644)
}

// Fingerprint identifies the generated content of pkg. It changes whenever a
// member or member type changes.
func Fingerprint(pkg *Package) string {
	parts := []string{pkg.Path, pkg.Name}
	for _, t := range pkg.Types {
		parts = append(parts, "type", t.Name)
		for _, f := range t.Fields {
			parts = append(parts, "field", f.Name, f.Type)
		}
		for _, p := range t.Properties {
			parts = append(parts, "property", p.Name, p.Type,
				p.Getter, fmt.Sprint(p.GetterPtr), p.Setter, fmt.Sprint(p.SetterPtr))
		}
		for _, m := range t.Methods {
			parts = append(parts, "method", m.Name, strings.Join(m.Params, ","),
				fmt.Sprint(m.Results, m.ReturnsError, m.PointerOnly))
		}
	}
	return fmt.Sprintf("%016x", utils.FingerprintParts(parts...))
}

// ReadFingerprint returns the fingerprint recorded in a generated file.
func ReadFingerprint(filename string) (string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return "", err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for i := 0; i < 5 && sc.Scan(); i++ {
		if fp, ok := strings.CutPrefix(sc.Text(), fingerprintPrefix); ok {
			return strings.TrimSpace(fp), nil
		}
	}
	if err := sc.Err(); err != nil {
		return "", err
	}
	return "", fmt.Errorf("%s: no fingerprint", filename)
}

func receiverHelper(pointerOnly bool) string {
	if pointerOnly {
		return "MutableReceiver"
	}
	return "Receiver"
}

// renderInvoke renders the call of m and the shaping of its results.
func renderInvoke(m MethodInfo) string {
	args := make([]string, len(m.Params))
	for i := range m.Params {
		args[i] = fmt.Sprintf("a%d", i)
	}
	call := "r." + m.Name + "(" + strings.Join(args, ", ") + ")"

	values := m.Results
	if m.ReturnsError {
		values--
	}
	switch {
	case m.Results == 0:
		return "\t" + call + "\n\treturn nil, nil"
	case values == 0:
		return "\treturn nil, " + call
	case values == 1:
		if m.ReturnsError {
			return "\treturn " + call
		}
		return "\treturn " + call + ", nil"
	}

	outs := make([]string, values)
	for i := range outs {
		outs[i] = fmt.Sprintf("o%d", i)
	}
	lhs := strings.Join(outs, ", ")
	result := "nil"
	if m.ReturnsError {
		lhs += ", err"
		result = "err"
	}
	return "\t" + lhs + " := " + call + "\n\treturn []any{" + strings.Join(outs, ", ") + "}, " + result
}
