package index

import (
	"fmt"
	"strings"

	pluralizer "github.com/gertd/go-pluralize"

	"github.com/Konsultn-Engineering/fastrefl/cache"
	"github.com/Konsultn-Engineering/fastrefl/schema"
)

var pluralizeClient = pluralizer.NewClient()

// TypeIndex is the cache entry of a type: one Table per member category.
type TypeIndex struct {
	Type       *schema.Type
	Fields     *Table[*schema.Field]
	Properties *Table[*schema.Property]
	Methods    *Table[*schema.Method]
}

// Build indexes every member of t.
func Build(t *schema.Type) *TypeIndex {
	if t == nil {
		return nil
	}
	return &TypeIndex{
		Type:       t,
		Fields:     New(t.Fields()),
		Properties: New(t.Properties()),
		Methods:    New(t.Methods()),
	}
}

// Member looks up name in category c. It returns nil when absent.
func (ix *TypeIndex) Member(c cache.Category, name string) schema.Member {
	switch c {
	case cache.CategoryField:
		if f, ok := ix.Fields.Get(name); ok {
			return f
		}
	case cache.CategoryProperty:
		if p, ok := ix.Properties.Get(name); ok {
			return p
		}
	case cache.CategoryMethod:
		if m, ok := ix.Methods.Get(name); ok {
			return m
		}
	}
	return nil
}

// Members returns the members of category c in reported order.
func (ix *TypeIndex) Members(c cache.Category) []schema.Member {
	switch c {
	case cache.CategoryField:
		return members(ix.Fields.All())
	case cache.CategoryProperty:
		return members(ix.Properties.All())
	case cache.CategoryMethod:
		return members(ix.Methods.All())
	}
	return nil
}

func members[D schema.Member](in []D) []schema.Member {
	out := make([]schema.Member, len(in))
	for i, m := range in {
		out[i] = m
	}
	return out
}

// Summary renders the member counts, e.g. "Example: 3 fields, 1 property, 0 methods".
func (ix *TypeIndex) Summary() string {
	parts := []string{
		count(ix.Fields.Len(), "field"),
		count(ix.Properties.Len(), "property"),
		count(ix.Methods.Len(), "method"),
	}
	return fmt.Sprintf("%s: %s", ix.Type.Name(), strings.Join(parts, ", "))
}

func count(n int, noun string) string {
	return pluralizeClient.Pluralize(noun, n, true)
}
