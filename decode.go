package yaml

import (
	"encoding"
	"fmt"
	"reflect"

	"github.com/fyparse/fyparse/value"
)

// decodeValue binds val onto rv (addressable, settable) at the given
// path, the generalization of an ast.Node-walking decode
// loop onto this module's value.Value (component 3) as its source
// representation instead of ast.Node directly.
func (d *Decoder) decodeValue(val value.Value, rv reflect.Value, path string) error {
	if rv.Kind() == reflect.Ptr {
		if val.IsNull() {
			rv.Set(reflect.Zero(rv.Type()))
			return nil
		}
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		return d.decodeValue(val, rv.Elem(), path)
	}

	if rv.CanAddr() {
		if u, ok := rv.Addr().Interface().(BytesUnmarshaler); ok {
			return u.UnmarshalYAML([]byte(val.String()))
		}
		if u, ok := rv.Addr().Interface().(InterfaceUnmarshaler); ok {
			return u.UnmarshalYAML(func(v interface{}) error {
				return d.decodeValue(val, reflect.ValueOf(v).Elem(), path)
			})
		}
		if u, ok := rv.Addr().Interface().(encoding.TextUnmarshaler); ok && val.Kind() == value.KindString {
			return u.UnmarshalText([]byte(val.Str()))
		}
	}

	switch rv.Kind() {
	case reflect.Interface:
		if rv.NumMethod() != 0 {
			return newDecodeErr(path, nil, "cannot decode into non-empty interface %s", rv.Type())
		}
		rv.Set(reflect.ValueOf(val.AsGo()))
		return nil
	case reflect.Struct:
		return d.decodeStruct(val, rv, path)
	case reflect.Map:
		return d.decodeMap(val, rv, path)
	case reflect.Slice:
		return d.decodeSlice(val, rv, path)
	case reflect.Array:
		return d.decodeArray(val, rv, path)
	default:
		return d.decodeScalar(val, rv, path)
	}
}

func (d *Decoder) decodeScalar(val value.Value, rv reflect.Value, path string) error {
	if val.IsNull() {
		rv.Set(reflect.Zero(rv.Type()))
		return nil
	}
	src := reflect.ValueOf(val.AsGo())
	if !src.IsValid() {
		rv.Set(reflect.Zero(rv.Type()))
		return nil
	}
	if src.Type().AssignableTo(rv.Type()) {
		rv.Set(src)
		return nil
	}
	if convertibleTo(src, rv.Type()) {
		rv.Set(src.Convert(rv.Type()))
		return nil
	}
	return newDecodeErr(path, nil, "cannot assign %s (%s) to %s", val.String(), val.Kind(), rv.Type())
}

func (d *Decoder) decodeStruct(val value.Value, rv reflect.Value, path string) error {
	if val.Kind() != value.KindMapping {
		return newDecodeErr(path, nil, "cannot decode %s into struct %s", val.Kind(), rv.Type())
	}
	fields, err := structFieldMap(rv.Type())
	if err != nil {
		return newDecodeErr(path, nil, "%s", err)
	}
	for i := 0; i < rv.NumField(); i++ {
		sf, ok := fields[rv.Type().Field(i).Name]
		if ok && sf.IsInline {
			if err := d.decodeValue(val, rv.Field(i), path); err != nil {
				return err
			}
		}
	}
	for _, p := range val.Pairs() {
		name := p.Key.Str()
		sf := fields.byRenderName(name)
		if sf == nil || sf.IsInline {
			if sf == nil && d.cfg.DisallowUnknownFields {
				return newDecodeErr(path, nil, "unknown field %q", name)
			}
			continue
		}
		for i := 0; i < rv.NumField(); i++ {
			if rv.Type().Field(i).Name == sf.FieldName {
				if err := d.decodeValue(p.Value, rv.Field(i), path+"."+sf.RenderName); err != nil {
					return err
				}
				break
			}
		}
	}
	return nil
}

func (d *Decoder) decodeMap(val value.Value, rv reflect.Value, path string) error {
	if val.IsNull() {
		return nil
	}
	if val.Kind() != value.KindMapping {
		return newDecodeErr(path, nil, "cannot decode %s into map %s", val.Kind(), rv.Type())
	}
	if rv.IsNil() {
		rv.Set(reflect.MakeMapWithSize(rv.Type(), val.Len()))
	}
	keyType, elemType := rv.Type().Key(), rv.Type().Elem()
	for _, p := range val.Pairs() {
		kv := reflect.New(keyType).Elem()
		if err := d.decodeValue(p.Key, kv, fmt.Sprintf("%s[%s]", path, p.Key.String())); err != nil {
			return err
		}
		ev := reflect.New(elemType).Elem()
		if err := d.decodeValue(p.Value, ev, path+"."+p.Key.String()); err != nil {
			return err
		}
		rv.SetMapIndex(kv, ev)
	}
	return nil
}

func (d *Decoder) decodeSlice(val value.Value, rv reflect.Value, path string) error {
	if val.IsNull() {
		return nil
	}
	if val.Kind() != value.KindSequence {
		return newDecodeErr(path, nil, "cannot decode %s into slice %s", val.Kind(), rv.Type())
	}
	items := val.Seq()
	out := reflect.MakeSlice(rv.Type(), len(items), len(items))
	for i, item := range items {
		if err := d.decodeValue(item, out.Index(i), fmt.Sprintf("%s[%d]", path, i)); err != nil {
			return err
		}
	}
	rv.Set(out)
	return nil
}

func (d *Decoder) decodeArray(val value.Value, rv reflect.Value, path string) error {
	if val.Kind() != value.KindSequence {
		return newDecodeErr(path, nil, "cannot decode %s into array %s", val.Kind(), rv.Type())
	}
	items := val.Seq()
	if len(items) > rv.Len() {
		return newDecodeErr(path, nil, "sequence of length %d overflows array %s", len(items), rv.Type())
	}
	for i, item := range items {
		if err := d.decodeValue(item, rv.Index(i), fmt.Sprintf("%s[%d]", path, i)); err != nil {
			return err
		}
	}
	return nil
}
