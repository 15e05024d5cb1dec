package registry

import (
	"go.uber.org/zap"

	"github.com/Konsultn-Engineering/fastrefl/cache"
	"github.com/Konsultn-Engineering/fastrefl/schema"
)

// DefaultInitialCapacity is the initial slot array length per category.
const DefaultInitialCapacity = 64

type options struct {
	logger             *zap.Logger
	slotLimit          uint32
	initialCapacity    int
	coercion           schema.Coercion
	converterCacheSize int
}

func defaultOptions() options {
	return options{
		logger:             zap.NewNop(),
		slotLimit:          cache.MaxIndex,
		initialCapacity:    DefaultInitialCapacity,
		coercion:           schema.Strict,
		converterCacheSize: schema.DefaultConverterCacheSize,
	}
}

// Option configures a Registry.
type Option func(*options)

// WithLogger sets the logger for index builds, compile declines and
// degradation warnings.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithSlotLimit makes descriptors whose slot index is above limit use the
// generic path. 0 means no limit beyond cache.MaxIndex.
func WithSlotLimit(limit uint32) Option {
	return func(o *options) {
		if limit == 0 || limit > cache.MaxIndex {
			limit = cache.MaxIndex
		}
		o.slotLimit = limit
	}
}

// WithInitialCapacity sets the initial slot array length per category.
func WithInitialCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.initialCapacity = n
		}
	}
}

// WithCoercion selects how compiled setters and invokers coerce values.
func WithCoercion(mode schema.Coercion) Option {
	return func(o *options) { o.coercion = mode }
}

// WithConverterCacheSize bounds the conversion plan cache.
func WithConverterCacheSize(n int) Option {
	return func(o *options) { o.converterCacheSize = n }
}
