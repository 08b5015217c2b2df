// Package optional contains a value that may or may not be present
package optional

import "fmt"

// Value holds either a value of type T or nothing.
//
// The zero Value is absent, so a freshly allocated []Value[T] is a slice of empty slots.
type Value[T any] struct {
	value   T
	present bool
}

// Of returns a present value.
func Of[T any](value T) Value[T] {
	return Value[T]{value: value, present: true}
}

// Empty returns an absent value.
func Empty[T any]() Value[T] {
	return Value[T]{}
}

// IsPresent returns true if a value is held.
func (v Value[T]) IsPresent() bool {
	return v.present
}

// IsEmpty returns true if no value is held.
func (v Value[T]) IsEmpty() bool {
	return !v.present
}

// Get returns the held value and whether it is present.
// If absent, the zero value of T is returned.
func (v Value[T]) Get() (T, bool) {
	return v.value, v.present
}

// OrZero returns the held value, or the zero value of T if absent.
func (v Value[T]) OrZero() T {
	return v.value
}

// OrElse returns the held value, or the given fallback if absent.
func (v Value[T]) OrElse(fallback T) T {
	if v.present {
		return v.value
	}
	return fallback
}

func (v Value[T]) String() string {
	if !v.present {
		return "<empty>"
	}
	return fmt.Sprintf("%v", v.value)
}
