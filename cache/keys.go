package cache

// Category partitions descriptors into independent slot spaces.
type Category uint8

const (
	CategoryType Category = iota
	CategoryField
	CategoryProperty
	CategoryMethod

	// NumCategories is the number of slot spaces.
	NumCategories = 4
)

var categoryNames = [NumCategories]string{
	CategoryType:     "type",
	CategoryField:    "field",
	CategoryProperty: "property",
	CategoryMethod:   "method",
}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "unknown"
}

// Valid reports whether c names one of the slot spaces.
func (c Category) Valid() bool {
	return c < NumCategories
}

// Categories lists every category in slot space order.
func Categories() []Category {
	return []Category{CategoryType, CategoryField, CategoryProperty, CategoryMethod}
}
