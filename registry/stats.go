package registry

import (
	"fmt"

	"github.com/Konsultn-Engineering/fastrefl/cache"
)

// CategoryStats describes one category of a registry.
type CategoryStats struct {
	Category cache.Category
	// Allocated is the number of slot indices handed out in the process.
	Allocated uint32
	// Capacity is the current slot array length of this registry.
	Capacity int
	Built    uint64
	Declined uint64
	Degraded uint64
	Grows    uint64
}

func (s CategoryStats) String() string {
	return fmt.Sprintf("%-8s allocated=%d capacity=%d built=%d declined=%d degraded=%d grows=%d",
		s.Category, s.Allocated, s.Capacity, s.Built, s.Declined, s.Degraded, s.Grows)
}

// Stats is a snapshot of all categories.
type Stats struct {
	Types      CategoryStats
	Fields     CategoryStats
	Properties CategoryStats
	Methods    CategoryStats
}

// All returns the categories in cache.Categories order.
func (s Stats) All() []CategoryStats {
	return []CategoryStats{s.Types, s.Fields, s.Properties, s.Methods}
}

// Stats returns a snapshot of the registry counters.
func (r *Registry) Stats() Stats {
	return Stats{
		Types:      r.types.stats(),
		Fields:     r.fields.stats(),
		Properties: r.properties.stats(),
		Methods:    r.methods.stats(),
	}
}
