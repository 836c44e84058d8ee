// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package arrowconv

import (
	"fmt"
	"reflect"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/google/uuid"
)

var (
	dateType     = reflect.TypeFor[civil.Date]()
	dateTimeType = reflect.TypeFor[civil.DateTime]()
	timeType     = reflect.TypeFor[time.Time]()
	uuidType     = reflect.TypeFor[uuid.UUID]()
	bytesType    = reflect.TypeFor[[]byte]()
)

var (
	// codecCache holds derived bindings keyed by reflect.Type.
	codecCache sync.Map
	// registered holds bindings installed with Register; they win over
	// derivation.
	registered sync.Map
)

// CodecFor returns the default capability pair of T:
//
//   - int8..int64, uint8..uint64, float32, float64 and bool map to the Arrow
//     type of the same width; int and uint map to 64 bits
//   - string maps to string, []byte to binary
//   - civil.Date, civil.DateTime, time.Time and uuid.UUID map to date32,
//     timestamp[ns], timestamp[ns, UTC] and fixed_size_binary[16]
//   - *E is Optional of E's binding, []E is List of E's binding
//
// Named types convert through their underlying kind unless a codec was
// installed for them with [Register].
func CodecFor[T any]() (Codec[T], error) {
	t := reflect.TypeFor[T]()
	c, err := codecOf(t)
	if err != nil {
		return nil, err
	}
	if e, ok := c.(*erased[T]); ok {
		return e.c, nil
	}
	return &typed[T]{c: c, typ: t}, nil
}

// MustCodecFor is like [CodecFor] but panics if T has no default binding.
func MustCodecFor[T any]() Codec[T] {
	c, err := CodecFor[T]()
	if err != nil {
		panic(err)
	}
	return c
}

// Register installs c as the binding of T, for CodecFor[T] and for every
// type that nests T (pointers to T, slices of T). It is safe to call
// concurrently but is meant for package initialization.
func Register[T any](c Codec[T]) {
	t := reflect.TypeFor[T]()
	registered.Store(t, Codec[reflect.Value](&erased[T]{c: c, typ: t}))
	codecCache.Clear()
}

// Retype returns c as a codec of T, where T and U convert into each other,
// typically a named type and its underlying type. It panics otherwise.
//
//	Register[Payload](Retype[Payload](LargeBinary()))
func Retype[T, U any](c Codec[U]) Codec[T] {
	t, u := reflect.TypeFor[T](), reflect.TypeFor[U]()
	if !t.ConvertibleTo(u) || !u.ConvertibleTo(t) {
		panic(fmt.Sprintf("arrowconv: cannot retype %v codec as %v", u, t))
	}
	return &typed[T]{c: erase(c), typ: t}
}

func codecOf(t reflect.Type) (Codec[reflect.Value], error) {
	if c, ok := registered.Load(t); ok {
		return c.(Codec[reflect.Value]), nil
	}
	if c, ok := codecCache.Load(t); ok {
		return c.(Codec[reflect.Value]), nil
	}
	c, err := buildCodec(t, map[reflect.Type]bool{})
	if err != nil {
		return nil, err
	}
	actual, _ := codecCache.LoadOrStore(t, c)
	return actual.(Codec[reflect.Value]), nil
}

// buildCodec derives the binding of t. visiting guards against recursive
// slice types, which have no finite Arrow type.
func buildCodec(t reflect.Type, visiting map[reflect.Type]bool) (Codec[reflect.Value], error) {
	if c, ok := registered.Load(t); ok {
		return c.(Codec[reflect.Value]), nil
	}
	if visiting[t] {
		return nil, fmt.Errorf("%w: recursive type %v", ErrUnsupportedType, t)
	}
	visiting[t] = true
	defer delete(visiting, t)

	switch t {
	case dateType:
		return erase[civil.Date](dateCodec), nil
	case dateTimeType:
		return erase[civil.DateTime](timestampCodec), nil
	case timeType:
		return erase[time.Time](timestampUTCCodec), nil
	case uuidType:
		return erase[uuid.UUID](uuidCodec), nil
	}

	switch t.Kind() {
	case reflect.Bool:
		return erase[bool](boolCodec), nil
	case reflect.Int8:
		return erase[int8](int8Codec), nil
	case reflect.Int16:
		return erase[int16](int16Codec), nil
	case reflect.Int32:
		return erase[int32](int32Codec), nil
	case reflect.Int64, reflect.Int:
		return erase[int64](int64Codec), nil
	case reflect.Uint8:
		return erase[uint8](uint8Codec), nil
	case reflect.Uint16:
		return erase[uint16](uint16Codec), nil
	case reflect.Uint32:
		return erase[uint32](uint32Codec), nil
	case reflect.Uint64, reflect.Uint:
		return erase[uint64](uint64Codec), nil
	case reflect.Float32:
		return erase[float32](float32Codec), nil
	case reflect.Float64:
		return erase[float64](float64Codec), nil
	case reflect.String:
		return erase[string](stringCodec), nil
	case reflect.Pointer:
		if t.Elem().Kind() == reflect.Pointer {
			return nil, fmt.Errorf("%w: nested pointer %v", ErrUnsupportedType, t)
		}
		elem, err := buildCodec(t.Elem(), visiting)
		if err != nil {
			return nil, err
		}
		if elem.Field().Nullable {
			return nil, fmt.Errorf("%w: pointer to nullable type %v", ErrUnsupportedType, t)
		}
		return &reflectOptional{elem: elem, typ: t}, nil
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 && t.ConvertibleTo(bytesType) {
			return erase[[]byte](binaryCodec), nil
		}
		elem, err := buildCodec(t.Elem(), visiting)
		if err != nil {
			return nil, fmt.Errorf("list element: %w", err)
		}
		return newReflectList(elem, t, false), nil
	default:
		return nil, fmt.Errorf("%w: %v (kind: %v)", ErrUnsupportedType, t, t.Kind())
	}
}

// erased adapts a typed codec to reflect.Value. Values are converted to T on
// the way in, so a named type with T's underlying kind is accepted.
type erased[T any] struct {
	c   Codec[T]
	typ reflect.Type
}

func erase[T any](c Codec[T]) *erased[T] {
	return &erased[T]{c: c, typ: reflect.TypeFor[T]()}
}

func (e *erased[T]) Field() Field {
	return e.c.Field()
}

func (e *erased[T]) NewBuilder(mem memory.Allocator) array.Builder {
	return e.c.NewBuilder(mem)
}

func (e *erased[T]) Append(b array.Builder, v reflect.Value) error {
	return e.c.Append(b, v.Convert(e.typ).Interface().(T))
}

func (e *erased[T]) Reader(arr arrow.Array) Reader[reflect.Value] {
	return erasedReader[T]{r: e.c.Reader(arr)}
}

type erasedReader[T any] struct {
	r Reader[T]
}

func (r erasedReader[T]) Len() int {
	return r.r.Len()
}

func (r erasedReader[T]) Value(i int) (reflect.Value, bool) {
	v, ok := r.r.Value(i)
	if !ok {
		return reflect.Value{}, false
	}
	return reflect.ValueOf(&v).Elem(), true
}

// reflectOptional is Optional over a pointer type known only at run time.
type reflectOptional struct {
	elem Codec[reflect.Value]
	typ  reflect.Type
}

func (c *reflectOptional) Field() Field {
	f := c.elem.Field()
	f.Nullable = true
	return f
}

func (c *reflectOptional) NewBuilder(mem memory.Allocator) array.Builder {
	return c.elem.NewBuilder(mem)
}

func (c *reflectOptional) Append(b array.Builder, v reflect.Value) error {
	if v.IsNil() {
		b.AppendNull()
		return nil
	}
	return c.elem.Append(b, v.Elem())
}

func (c *reflectOptional) Reader(arr arrow.Array) Reader[reflect.Value] {
	return reflectOptionalReader{elem: c.elem.Reader(arr), typ: c.typ}
}

type reflectOptionalReader struct {
	elem Reader[reflect.Value]
	typ  reflect.Type
}

func (r reflectOptionalReader) Len() int {
	return r.elem.Len()
}

func (r reflectOptionalReader) Value(i int) (reflect.Value, bool) {
	v, ok := r.elem.Value(i)
	if !ok {
		return reflect.Zero(r.typ), true
	}
	p := reflect.New(r.typ.Elem())
	p.Elem().Set(v.Convert(r.typ.Elem()))
	return p, true
}

// reflectList is List over a slice type known only at run time.
type reflectList struct {
	elem  Codec[reflect.Value]
	typ   reflect.Type
	large bool
	field Field
}

func newReflectList(elem Codec[reflect.Value], t reflect.Type, large bool) *reflectList {
	return &reflectList{elem: elem, typ: t, large: large, field: listField(elem.Field(), large)}
}

func (c *reflectList) Field() Field {
	return c.field
}

func (c *reflectList) NewBuilder(mem memory.Allocator) array.Builder {
	return array.NewBuilder(mem, c.field.Type)
}

func (c *reflectList) Append(b array.Builder, v reflect.Value) error {
	lb := builderAs[array.ListLikeBuilder](b)
	lb.Append(true)
	values := lb.ValueBuilder()
	for i := range v.Len() {
		if err := c.elem.Append(values, v.Index(i)); err != nil {
			return fmt.Errorf("list element %d: %w", i, err)
		}
	}
	return nil
}

func (c *reflectList) Reader(arr arrow.Array) Reader[reflect.Value] {
	return &reflectListReader{arr: listArray(arr, c.large), elem: c.elem, typ: c.typ}
}

type reflectListReader struct {
	arr  array.ListLike
	elem Codec[reflect.Value]
	typ  reflect.Type
}

func (r *reflectListReader) Len() int {
	return r.arr.Len()
}

func (r *reflectListReader) Value(i int) (reflect.Value, bool) {
	if r.arr.IsNull(i) {
		return reflect.Value{}, false
	}
	row := rowSlice(r.arr, i)
	defer row.Release()
	items := collectRow(row, r.elem)
	out := reflect.MakeSlice(r.typ, len(items), len(items))
	elemType := r.typ.Elem()
	for j, x := range items {
		if x.IsValid() {
			out.Index(j).Set(x.Convert(elemType))
		}
	}
	return out, true
}

// typed exposes a derived binding as Codec[T].
type typed[T any] struct {
	c   Codec[reflect.Value]
	typ reflect.Type
}

func (c *typed[T]) Field() Field {
	return c.c.Field()
}

func (c *typed[T]) NewBuilder(mem memory.Allocator) array.Builder {
	return c.c.NewBuilder(mem)
}

func (c *typed[T]) Append(b array.Builder, v T) error {
	return c.c.Append(b, reflect.ValueOf(&v).Elem())
}

func (c *typed[T]) Reader(arr arrow.Array) Reader[T] {
	return typedReader[T]{r: c.c.Reader(arr), typ: c.typ}
}

type typedReader[T any] struct {
	r   Reader[reflect.Value]
	typ reflect.Type
}

func (r typedReader[T]) Len() int {
	return r.r.Len()
}

func (r typedReader[T]) Value(i int) (T, bool) {
	v, ok := r.r.Value(i)
	if !ok {
		var zero T
		return zero, false
	}
	return v.Convert(r.typ).Interface().(T), true
}
