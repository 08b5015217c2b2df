// Package extarray provides an indexed container growing on demand.
//
// Any non-negative index can be read or written, the backing storage is
// extended so that the index becomes addressable:
//
//	arr := extarray.New[string]()
//	arr.Set(100, "foo") // arr.Len() is now 127
//	arr.Get(3)          // "", never set
package extarray

import (
	"fmt"
	"math"

	"github.com/a-peyrard/extarray/option"
	"github.com/a-peyrard/extarray/optional"
	"github.com/rs/zerolog"
)

// DefaultCapacity is the capacity of an array built with New.
const DefaultCapacity = 7

type (
	// Array is a generic array whose capacity grows to fit any accessed index.
	//
	// Array is not safe for concurrent use, even reads can grow the storage.
	Array[E any] struct {
		slots  []optional.Value[E]
		logger *zerolog.Logger
	}

	Options struct {
		logger *zerolog.Logger
	}
)

var nopLogger = zerolog.Nop()

// WithLogger sets the logger used to trace growth events, at debug level.
func WithLogger(logger *zerolog.Logger) option.Option[Options] {
	return func(opts *Options) {
		opts.logger = logger
	}
}

// New creates an array with the DefaultCapacity.
func New[E any](opts ...option.Option[Options]) *Array[E] {
	arr, _ := NewWithCapacity[E](DefaultCapacity, opts...)
	return arr
}

// NewWithCapacity creates an array with exactly capacity empty slots.
// It returns an error wrapping ErrInvalidArgument if capacity is negative.
func NewWithCapacity[E any](capacity int, opts ...option.Option[Options]) (*Array[E], error) {
	if capacity < 0 {
		return nil, fmt.Errorf("%w: array cannot have negative capacity, got %d", ErrInvalidArgument, capacity)
	}
	options := option.BuildFrom(Options{logger: &nopLogger}, opts...)
	if options.logger == nil {
		options.logger = &nopLogger
	}

	return &Array[E]{
		slots:  make([]optional.Value[E], capacity),
		logger: options.logger,
	}, nil
}

// Set stores value at idx and returns the previous value, or the zero value of E if the slot was never set.
// The array grows if idx is not addressable yet.
func (a *Array[E]) Set(idx int, value E) E {
	a.ensureAddressable(idx)

	previous := a.slots[idx]
	a.slots[idx] = optional.Of(value)
	return previous.OrZero()
}

// Get returns the value at idx, or the zero value of E if the slot was never set.
// Reading an index beyond the capacity grows the array as well.
func (a *Array[E]) Get(idx int) E {
	return a.Slot(idx).OrZero()
}

// Lookup returns the value at idx and whether the slot was set.
// Like Get, it grows the array if needed.
func (a *Array[E]) Lookup(idx int) (E, bool) {
	return a.Slot(idx).Get()
}

// Slot returns the raw slot at idx, growing the array if needed.
func (a *Array[E]) Slot(idx int) optional.Value[E] {
	a.ensureAddressable(idx)
	return a.slots[idx]
}

// Len returns the current capacity of the array.
func (a *Array[E]) Len() int {
	return len(a.slots)
}

func (a *Array[E]) ensureAddressable(idx int) {
	if idx < 0 {
		panic(fmt.Errorf("%w: negative index %d", ErrInvalidArgument, idx))
	}
	if idx < len(a.slots) {
		return
	}

	oldCapacity := len(a.slots)
	newCapacity := nextCapacity(oldCapacity, idx)

	// only the final size is allocated, whatever the number of doublings
	slots := make([]optional.Value[E], newCapacity)
	copy(slots, a.slots)
	a.slots = slots

	a.logger.Debug().
		Int("index", idx).
		Int("from", oldCapacity).
		Int("to", newCapacity).
		Msg("array grown")
}

// nextCapacity applies capacity*2+1 until idx fits.
// Saturates at math.MaxInt instead of overflowing.
func nextCapacity(capacity, idx int) int {
	newCapacity := capacity
	for idx >= newCapacity {
		if newCapacity > (math.MaxInt-1)/2 {
			return math.MaxInt
		}
		newCapacity = newCapacity*2 + 1
	}
	return newCapacity
}
