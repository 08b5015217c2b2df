package extarray

import (
	"github.com/a-peyrard/extarray/option"
)

// Config holds the settings of an array, see NewFromConfig.
//
// It can be loaded with config.Load, InitialCapacity is then bound to <PREFIX>_INITIAL_CAPACITY.
type Config struct {
	InitialCapacity *int `mapstructure:"initial_capacity"`
}

// ApplyDefault sets InitialCapacity to DefaultCapacity if not configured.
func (c *Config) ApplyDefault() {
	if c.InitialCapacity == nil {
		capacity := DefaultCapacity
		c.InitialCapacity = &capacity
	}
}

// NewFromConfig creates an array sized after the given config.
// A nil config is the same as an empty one, the given config is left untouched.
func NewFromConfig[E any](cfg *Config, opts ...option.Option[Options]) (*Array[E], error) {
	var resolved Config
	if cfg != nil {
		resolved = *cfg
	}
	resolved.ApplyDefault()

	return NewWithCapacity[E](*resolved.InitialCapacity, opts...)
}
