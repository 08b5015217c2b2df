package config

import "reflect"

// walkStruct calls visit on val, then on every exported field of the struct it points to, recursively.
func walkStruct(val reflect.Value, visit func(val reflect.Value, typ reflect.Type)) {
	visit(val, val.Type())

	val = deref(val)
	if !val.IsValid() || val.Kind() != reflect.Struct {
		return
	}

	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		if !typ.Field(i).IsExported() {
			continue
		}
		walkStruct(val.Field(i), visit)
	}
}

func deref(val reflect.Value) reflect.Value {
	for val.Kind() == reflect.Pointer || val.Kind() == reflect.Interface {
		val = val.Elem()
	}
	return val
}

// createNilStruct allocates nil pointers to structs, so nested configs are never nil.
func createNilStruct(val reflect.Value, typ reflect.Type) {
	if typ.Kind() == reflect.Pointer &&
		val.IsNil() &&
		typ.Elem().Kind() == reflect.Struct &&
		val.CanSet() {

		val.Set(reflect.New(typ.Elem()))
	}
}
