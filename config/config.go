// Package config loads typed configuration structs from the environment and an optional file, using viper.
package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/a-peyrard/extarray/option"
	"github.com/spf13/viper"
)

type (
	Options struct {
		prefix     string
		configFile string
	}

	// WithDefault is implemented by config structs filling their unset fields.
	// ApplyDefault is called on every struct of the loaded tree, parents first.
	WithDefault interface {
		ApplyDefault()
	}
)

func WithEnvPrefix(prefix string) option.Option[Options] {
	return func(opts *Options) {
		opts.prefix = prefix
	}
}

// WithConfigFile reads the given file before binding the environment, an empty path is ignored.
// The format is deduced from the extension (yaml, toml, json...), environment variables take precedence.
func WithConfigFile(path string) option.Option[Options] {
	return func(opts *Options) {
		opts.configFile = path
	}
}

// Load builds a T from the environment, and the config file if any.
//
// Every leaf field is bound to PREFIX_PATH_TO_FIELD, the path being the screaming snake case
// of the mapstructure tags (or field names) from the root struct.
func Load[T any](opts ...option.Option[Options]) (*T, error) {
	options := option.Build(&Options{}, opts...)

	v := viper.New()
	v.SetEnvPrefix(options.prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if options.configFile != "" {
		v.SetConfigFile(options.configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("unable to read config file %s: %w", options.configFile, err)
		}
	}

	var vT T
	bindEnvs(v, options.prefix, reflect.TypeOf(vT), nil, nil)

	if err := v.Unmarshal(&vT); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config: %w", err)
	}

	walkStruct(reflect.ValueOf(&vT), func(val reflect.Value, typ reflect.Type) {
		createNilStruct(val, typ)
		applyDefault(val, typ)
	})

	return &vT, nil
}

func bindEnvs(v *viper.Viper, envPrefix string, typ reflect.Type, keyParts []string, envParts []string) {
	if typ.Kind() != reflect.Struct {
		return
	}
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}
		name, ok := field.Tag.Lookup("mapstructure")
		if !ok {
			name = field.Name
		}
		keys := append(append([]string{}, keyParts...), name)
		envs := append(append([]string{}, envParts...), toScreamingSnakeCase(name))

		fieldType := field.Type
		if fieldType.Kind() == reflect.Pointer {
			fieldType = fieldType.Elem()
		}
		if fieldType.Kind() == reflect.Struct {
			bindEnvs(v, envPrefix, fieldType, keys, envs)
			continue
		}
		_ = v.BindEnv(strings.Join(keys, "."), mergeWithEnvPrefix(envPrefix, strings.Join(envs, "_")))
	}
}

func mergeWithEnvPrefix(envPrefix string, in string) string {
	if envPrefix != "" {
		return strings.ToUpper(envPrefix + "_" + in)
	}

	return strings.ToUpper(in)
}

var withDefaultType = reflect.TypeOf((*WithDefault)(nil)).Elem()

func applyDefault(val reflect.Value, typ reflect.Type) {
	if !val.IsValid() {
		return
	}
	if typ.Kind() != reflect.Pointer && val.CanAddr() {
		// struct held by value, the method set is on its pointer
		val, typ = val.Addr(), reflect.PointerTo(typ)
	}
	if typ.Kind() == reflect.Pointer && val.IsNil() {
		return
	}
	if typ.Implements(withDefaultType) {
		val.Interface().(WithDefault).ApplyDefault()
	}
}
