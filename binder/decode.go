package binder

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
)

var fileUploadType = reflect.TypeOf(FileUpload{})

// Decode copies input values into the struct pointed to by v.
//
// Fields are matched by the `form` tag, falling back to the `json` tag and
// then the field name; `form:"-"` skips a field. String values are parsed
// into numeric and boolean fields, so urlencoded and JSON bodies decode into
// the same struct. FileUpload and *FileUpload fields receive file parts.
// Nested objects and lists are decoded through JSON.
//
//	type CreateUser struct {
//		Email    string             `form:"email"`
//		Password string             `form:"password"`
//		Avatar   *binder.FileUpload `form:"avatar"`
//	}
func Decode(in Input, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return ErrInvalidTarget
	}
	rv = rv.Elem()
	rt := rv.Type()

	for i := range rt.NumField() {
		sf := rt.Field(i)
		field := rv.Field(i)
		if !field.CanSet() {
			continue
		}
		name, skip := fieldName(sf)
		if skip {
			continue
		}
		raw, ok := in[name]
		if !ok || raw == nil {
			continue
		}
		if err := setField(field, raw); err != nil {
			return fmt.Errorf("%w: field %s: %v", ErrInvalidForm, name, err)
		}
	}
	return nil
}

func fieldName(sf reflect.StructField) (string, bool) {
	for _, key := range []string{"form", "json"} {
		tag, ok := sf.Tag.Lookup(key)
		if !ok {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if name == "-" {
			return "", true
		}
		if name != "" {
			return name, false
		}
	}
	return sf.Name, false
}

func setField(field reflect.Value, raw any) error {
	if f, ok := raw.(*FileUpload); ok {
		return setFile(field, f)
	}

	if field.Kind() == reflect.Pointer {
		elem := reflect.New(field.Type().Elem())
		if err := setField(elem.Elem(), raw); err != nil {
			return err
		}
		field.Set(elem)
		return nil
	}

	if s, ok := raw.(string); ok {
		return setString(field, s)
	}

	rv := reflect.ValueOf(raw)
	if rv.Type().AssignableTo(field.Type()) {
		field.Set(rv)
		return nil
	}
	if isScalarKind(rv.Kind()) && isScalarKind(field.Kind()) && field.Kind() != reflect.String && rv.Type().ConvertibleTo(field.Type()) {
		field.Set(rv.Convert(field.Type()))
		return nil
	}

	// Nested values round-trip through JSON.
	data, err := sonic.Marshal(raw)
	if err != nil {
		return err
	}
	return sonic.Unmarshal(data, field.Addr().Interface())
}

func setFile(field reflect.Value, f *FileUpload) error {
	switch {
	case field.Type() == reflect.PointerTo(fileUploadType):
		field.Set(reflect.ValueOf(f))
	case field.Type() == fileUploadType:
		field.Set(reflect.ValueOf(*f))
	case field.Kind() == reflect.String:
		field.SetString(f.Filename)
	default:
		return fmt.Errorf("cannot assign file to %s", field.Type())
	}
	return nil
}

func setString(field reflect.Value, s string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(s)
	case reflect.Bool:
		if s == "" || s == "off" {
			field.SetBool(false)
			return nil
		}
		if s == "on" {
			field.SetBool(true)
			return nil
		}
		b, err := strconv.ParseBool(s)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if s == "" {
			return nil
		}
		n, err := strconv.ParseInt(s, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if s == "" {
			return nil
		}
		n, err := strconv.ParseUint(s, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetUint(n)
	case reflect.Float32, reflect.Float64:
		if s == "" {
			return nil
		}
		n, err := strconv.ParseFloat(s, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetFloat(n)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("cannot assign string to %s", field.Type())
		}
		field.Set(reflect.ValueOf([]string{s}).Convert(field.Type()))
	default:
		return fmt.Errorf("cannot assign string to %s", field.Type())
	}
	return nil
}

func isScalarKind(k reflect.Kind) bool {
	switch k {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
