package main

import "github.com/a-peyrard/extarray"

const envPrefix = "EXTARRAY"

// Config of the shell, bound to EXTARRAY_* environment variables.
type Config struct {
	Array    *extarray.Config `mapstructure:"array"`
	LogLevel string           `mapstructure:"log_level"`
	MaxIndex int              `mapstructure:"max_index"`
}

func (c *Config) ApplyDefault() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.MaxIndex <= 0 {
		c.MaxIndex = DefaultMaxIndex
	}
}
