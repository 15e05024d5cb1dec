package schema

import (
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/Konsultn-Engineering/fastrefl/cache"
)

// Coercion selects how boxed values are adapted to a declared type.
type Coercion uint8

const (
	// Strict accepts what a direct Go assignment of an untyped constant would:
	// assignable values, nil for nillable kinds, lossless numeric conversions,
	// and string/bool values into named string/bool types.
	Strict Coercion = iota
	// Lenient additionally converts between text and numbers, booleans,
	// time.Time, uuid.UUID and ulid.ULID, and dereferences pointers.
	Lenient
)

func (c Coercion) String() string {
	switch c {
	case Strict:
		return "strict"
	case Lenient:
		return "lenient"
	}
	return "unknown"
}

// ParseCoercion parses "strict" or "lenient".
func ParseCoercion(s string) (Coercion, error) {
	switch s {
	case "", "strict":
		return Strict, nil
	case "lenient":
		return Lenient, nil
	}
	return Strict, fmt.Errorf("unknown coercion mode %q", s)
}

// convertFunc adapts a value of a fixed source type to a fixed destination type.
type convertFunc func(v reflect.Value) (reflect.Value, error)

type planKey struct {
	from, to reflect.Type
}

// Converter coerces boxed values to declared types. Conversion plans are
// built once per (source, destination) pair and kept in a bounded LRU.
type Converter struct {
	mode  Coercion
	plans *cache.Bounded[planKey, convertFunc]
}

// DefaultConverterCacheSize bounds the plan cache when no size is given.
const DefaultConverterCacheSize = 256

var strictConverter = NewConverter(Strict, DefaultConverterCacheSize)

// StrictConverter returns the process-wide strict converter used by the
// generic operations.
func StrictConverter() *Converter {
	return strictConverter
}

func NewConverter(mode Coercion, cacheSize int) *Converter {
	if cacheSize <= 0 {
		cacheSize = DefaultConverterCacheSize
	}
	return &Converter{
		mode:  mode,
		plans: cache.NewBounded[planKey, convertFunc](cacheSize),
	}
}

func (c *Converter) Mode() Coercion {
	return c.mode
}

// Plans returns how many conversion plans are cached.
func (c *Converter) Plans() int {
	return c.plans.Len()
}

// Reset drops every cached conversion plan.
func (c *Converter) Reset() {
	c.plans.Purge()
}

// Convert returns value as a reflect.Value assignable to to.
func (c *Converter) Convert(value any, to reflect.Type) (reflect.Value, error) {
	if value == nil {
		if nillable(to.Kind()) {
			return reflect.Zero(to), nil
		}
		return reflect.Value{}, mismatch(nil, to)
	}
	v := reflect.ValueOf(value)
	from := v.Type()

	// Fast path: exact type
	if from == to {
		return v, nil
	}
	if from.AssignableTo(to) {
		return v, nil
	}

	plan, err := c.plans.GetOrCreate(planKey{from: from, to: to}, func() (convertFunc, error) {
		return c.buildPlan(from, to)
	})
	if err != nil {
		return reflect.Value{}, err
	}
	return plan(v)
}

func (c *Converter) buildPlan(from, to reflect.Type) (convertFunc, error) {
	if plan := strictPlan(from, to); plan != nil {
		return plan, nil
	}
	if c.mode == Lenient {
		if plan := lenientPlan(c, from, to); plan != nil {
			return plan, nil
		}
	}
	return nil, mismatch(from, to)
}

func strictPlan(from, to reflect.Type) convertFunc {
	fk, tk := from.Kind(), to.Kind()
	switch {
	case isNumeric(fk) && isNumeric(tk):
		return losslessNumber(from, to)
	case fk == reflect.String && tk == reflect.String,
		fk == reflect.Bool && tk == reflect.Bool:
		return func(v reflect.Value) (reflect.Value, error) {
			return v.Convert(to), nil
		}
	}
	return nil
}

// losslessNumber converts between numeric kinds and rejects values that do
// not survive the round trip or change sign.
func losslessNumber(from, to reflect.Type) convertFunc {
	return func(v reflect.Value) (reflect.Value, error) {
		out := v.Convert(to)
		if negative(v) != negative(out) || !out.Convert(from).Equal(v) {
			return reflect.Value{}, fmt.Errorf("%w: %v overflows %s", ErrTypeMismatch, v.Interface(), to)
		}
		return out, nil
	}
}

var (
	timeType  = reflect.TypeFor[time.Time]()
	uuidType  = reflect.TypeFor[uuid.UUID]()
	ulidType  = reflect.TypeFor[ulid.ULID]()
	bytesType = reflect.TypeFor[[]byte]()
)

func lenientPlan(c *Converter, from, to reflect.Type) convertFunc {
	fk, tk := from.Kind(), to.Kind()

	// Pointer in, value out: dereference and retry
	if fk == reflect.Pointer && tk != reflect.Pointer {
		return func(v reflect.Value) (reflect.Value, error) {
			if v.IsNil() {
				return reflect.Zero(to), nil
			}
			return c.Convert(v.Elem().Interface(), to)
		}
	}
	// Value in, pointer out: convert into a fresh variable
	if tk == reflect.Pointer && fk != reflect.Pointer {
		elem := to.Elem()
		return func(v reflect.Value) (reflect.Value, error) {
			ev, err := c.Convert(v.Interface(), elem)
			if err != nil {
				return reflect.Value{}, err
			}
			p := reflect.New(elem)
			p.Elem().Set(ev)
			return p, nil
		}
	}

	switch to {
	case timeType:
		return timePlan(from)
	case uuidType:
		return uuidPlan(from)
	case ulidType:
		return ulidPlan(from)
	}

	text := fk == reflect.String || from == bytesType
	switch {
	case text && isNumeric(tk):
		return parseNumberPlan(from, to)
	case text && tk == reflect.Bool:
		return func(v reflect.Value) (reflect.Value, error) {
			b, err := strconv.ParseBool(textOf(v))
			if err != nil {
				return reflect.Value{}, fmt.Errorf("%w: %v", ErrTypeMismatch, err)
			}
			return reflect.ValueOf(b).Convert(to), nil
		}
	case tk == reflect.String:
		return formatPlan(from, to)
	case to == bytesType && fk == reflect.String:
		return func(v reflect.Value) (reflect.Value, error) {
			return reflect.ValueOf([]byte(v.String())), nil
		}
	case fk == reflect.Bool && isNumeric(tk):
		return func(v reflect.Value) (reflect.Value, error) {
			n := 0
			if v.Bool() {
				n = 1
			}
			return reflect.ValueOf(n).Convert(to), nil
		}
	}
	return nil
}

func parseNumberPlan(from, to reflect.Type) convertFunc {
	return func(v reflect.Value) (reflect.Value, error) {
		s := textOf(v)
		var parsed reflect.Value
		switch {
		case isInt(to.Kind()):
			n, err := strconv.ParseInt(s, 10, to.Bits())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("%w: %v", ErrTypeMismatch, err)
			}
			parsed = reflect.ValueOf(n)
		case isUint(to.Kind()):
			n, err := strconv.ParseUint(s, 10, to.Bits())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("%w: %v", ErrTypeMismatch, err)
			}
			parsed = reflect.ValueOf(n)
		case isFloat(to.Kind()):
			n, err := strconv.ParseFloat(s, to.Bits())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("%w: %v", ErrTypeMismatch, err)
			}
			parsed = reflect.ValueOf(n)
		default:
			return reflect.Value{}, mismatch(from, to)
		}
		return parsed.Convert(to), nil
	}
}

func formatPlan(from, to reflect.Type) convertFunc {
	fk := from.Kind()
	switch {
	case isInt(fk):
		return func(v reflect.Value) (reflect.Value, error) {
			return reflect.ValueOf(strconv.FormatInt(v.Int(), 10)).Convert(to), nil
		}
	case isUint(fk):
		return func(v reflect.Value) (reflect.Value, error) {
			return reflect.ValueOf(strconv.FormatUint(v.Uint(), 10)).Convert(to), nil
		}
	case isFloat(fk):
		return func(v reflect.Value) (reflect.Value, error) {
			return reflect.ValueOf(strconv.FormatFloat(v.Float(), 'f', -1, from.Bits())).Convert(to), nil
		}
	case fk == reflect.Bool:
		return func(v reflect.Value) (reflect.Value, error) {
			return reflect.ValueOf(strconv.FormatBool(v.Bool())).Convert(to), nil
		}
	case from == bytesType:
		return func(v reflect.Value) (reflect.Value, error) {
			return reflect.ValueOf(string(v.Bytes())).Convert(to), nil
		}
	case from == timeType:
		return func(v reflect.Value) (reflect.Value, error) {
			return reflect.ValueOf(v.Interface().(time.Time).Format(time.RFC3339Nano)).Convert(to), nil
		}
	}
	if from.Implements(reflect.TypeFor[fmt.Stringer]()) {
		return func(v reflect.Value) (reflect.Value, error) {
			return reflect.ValueOf(v.Interface().(fmt.Stringer).String()).Convert(to), nil
		}
	}
	return nil
}

func timePlan(from reflect.Type) convertFunc {
	fk := from.Kind()
	switch {
	case fk == reflect.String || from == bytesType:
		return func(v reflect.Value) (reflect.Value, error) {
			t, err := time.Parse(time.RFC3339Nano, textOf(v))
			if err != nil {
				return reflect.Value{}, fmt.Errorf("%w: %v", ErrTypeMismatch, err)
			}
			return reflect.ValueOf(t), nil
		}
	case isInt(fk):
		// Unix seconds
		return func(v reflect.Value) (reflect.Value, error) {
			return reflect.ValueOf(time.Unix(v.Int(), 0).UTC()), nil
		}
	}
	return nil
}

func uuidPlan(from reflect.Type) convertFunc {
	switch {
	case from.Kind() == reflect.String:
		return func(v reflect.Value) (reflect.Value, error) {
			id, err := uuid.Parse(v.String())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("%w: %v", ErrTypeMismatch, err)
			}
			return reflect.ValueOf(id), nil
		}
	case from == bytesType:
		return func(v reflect.Value) (reflect.Value, error) {
			b := v.Bytes()
			var (
				id  uuid.UUID
				err error
			)
			if len(b) == 16 {
				id, err = uuid.FromBytes(b)
			} else {
				id, err = uuid.ParseBytes(b)
			}
			if err != nil {
				return reflect.Value{}, fmt.Errorf("%w: %v", ErrTypeMismatch, err)
			}
			return reflect.ValueOf(id), nil
		}
	case from.Kind() == reflect.Array && from.Len() == 16 && from.Elem().Kind() == reflect.Uint8:
		return func(v reflect.Value) (reflect.Value, error) {
			return v.Convert(uuidType), nil
		}
	}
	return nil
}

func ulidPlan(from reflect.Type) convertFunc {
	switch {
	case from.Kind() == reflect.String || from == bytesType:
		return func(v reflect.Value) (reflect.Value, error) {
			id, err := ulid.Parse(textOf(v))
			if err != nil {
				return reflect.Value{}, fmt.Errorf("%w: %v", ErrTypeMismatch, err)
			}
			return reflect.ValueOf(id), nil
		}
	case from == uuidType:
		return func(v reflect.Value) (reflect.Value, error) {
			return reflect.ValueOf(ulid.ULID(v.Interface().(uuid.UUID))), nil
		}
	}
	return nil
}

func textOf(v reflect.Value) string {
	if v.Kind() == reflect.String {
		return v.String()
	}
	return string(v.Bytes())
}

func nillable(k reflect.Kind) bool {
	switch k {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func,
		reflect.Chan, reflect.Interface, reflect.UnsafePointer:
		return true
	}
	return false
}

func isInt(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUint(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

func isNumeric(k reflect.Kind) bool {
	return isInt(k) || isUint(k) || isFloat(k)
}

func negative(v reflect.Value) bool {
	switch {
	case isInt(v.Kind()):
		return v.Int() < 0
	case isFloat(v.Kind()):
		return v.Float() < 0
	}
	return false
}
