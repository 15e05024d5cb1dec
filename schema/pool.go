package schema

import (
	"reflect"
	"sync"
)

// Argument slices for reflective calls are pooled by length. reflect.Value.Call
// does not retain the slice it is given.

const maxPooledArgs = 8

var argPools [maxPooledArgs + 1]sync.Pool // index = slice length

// GetArgs returns a slice of n zero values. Release it with PutArgs once the
// call has returned.
func GetArgs(n int) *[]reflect.Value {
	if n <= maxPooledArgs {
		if p, ok := argPools[n].Get().(*[]reflect.Value); ok {
			return p
		}
	}
	s := make([]reflect.Value, n)
	return &s
}

// PutArgs clears p and returns it to its pool.
func PutArgs(p *[]reflect.Value) {
	s := *p
	if len(s) > maxPooledArgs {
		return
	}
	clear(s)
	argPools[len(s)].Put(p)
}
