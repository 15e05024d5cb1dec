package schema

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Property accessor naming convention:
//
//	SetX(v V)        setter, makes X writable
//	X() V            getter, preferred
//	GetX() V         getter, used when X() does not exist
//
// A method consumed as an accessor is not reported as a method.

const (
	setterPrefix = "Set"
	getterPrefix = "Get"
)

// SetterProperty returns the property name written by a method named name,
// or "" if name does not follow the SetX convention.
func SetterProperty(name string) string {
	return trimAccessorPrefix(name, setterPrefix)
}

// GetterProperty returns the property name read by a method named GetX,
// or "".
func GetterProperty(name string) string {
	return trimAccessorPrefix(name, getterPrefix)
}

func trimAccessorPrefix(name, prefix string) string {
	rest, ok := strings.CutPrefix(name, prefix)
	if !ok || rest == "" {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(rest)
	if !unicode.IsUpper(r) {
		return ""
	}
	return rest
}

// isExported reports whether name starts with an upper-case letter.
func isExported(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}
