package accessor

import (
	"reflect"
	"time"
	"unsafe"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// fieldOps reads and writes a value of one type at an address. set reports
// false when value is not exactly of that type and needs coercion.
type fieldOps struct {
	get func(p unsafe.Pointer) any
	set func(p unsafe.Pointer, value any) bool
}

// typedOps is written during init only.
var typedOps = map[reflect.Type]fieldOps{}

func registerTyped[T any]() {
	typedOps[reflect.TypeFor[T]()] = fieldOps{
		get: func(p unsafe.Pointer) any {
			return *(*T)(p)
		},
		set: func(p unsafe.Pointer, value any) bool {
			v, ok := value.(T)
			if ok {
				*(*T)(p) = v
			}
			return ok
		},
	}
}

func init() {
	registerTyped[int]()
	registerTyped[int8]()
	registerTyped[int16]()
	registerTyped[int32]()
	registerTyped[int64]()
	registerTyped[uint]()
	registerTyped[uint8]()
	registerTyped[uint16]()
	registerTyped[uint32]()
	registerTyped[uint64]()
	registerTyped[uintptr]()
	registerTyped[float32]()
	registerTyped[float64]()
	registerTyped[bool]()
	registerTyped[string]()
	registerTyped[*string]()
	registerTyped[[]byte]()
	registerTyped[[]string]()
	registerTyped[map[string]any]()
	registerTyped[time.Time]()
	registerTyped[time.Duration]()
	registerTyped[uuid.UUID]()
	registerTyped[ulid.ULID]()
}

// opsFor returns typed ops for t, or reflection based ops when t has none.
func opsFor(t reflect.Type) (fieldOps, bool) {
	if ops, ok := typedOps[t]; ok {
		return ops, true
	}
	return fieldOps{
		get: func(p unsafe.Pointer) any {
			return reflect.NewAt(t, p).Elem().Interface()
		},
		set: func(p unsafe.Pointer, value any) bool {
			if value == nil {
				return false
			}
			v := reflect.ValueOf(value)
			if v.Type() != t {
				return false
			}
			reflect.NewAt(t, p).Elem().Set(v)
			return true
		},
	}, false
}
