// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package arrowconv

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// valueArray is an immutable arrow-go array exposing typed values.
type valueArray[P any] interface {
	arrow.Array
	Value(i int) P
}

// appender is an arrow-go builder accepting typed values.
type appender[P any] interface {
	array.Builder
	Append(v P)
}

// primitive binds a native type N to one slot of an arrow-go array A / builder
// B holding physical values P.
type primitive[N, P any, A valueArray[P], B appender[P]] struct {
	field  Field
	encode func(N) (P, error)
	decode func(P) N
	// check, if set, validates a physical value against the builder before
	// it is pushed.
	check func(B, P) error
}

func (c *primitive[N, P, A, B]) Field() Field {
	return c.field
}

func (c *primitive[N, P, A, B]) NewBuilder(mem memory.Allocator) array.Builder {
	return array.NewBuilder(mem, c.field.Type)
}

func (c *primitive[N, P, A, B]) Append(b array.Builder, v N) error {
	p, err := c.encode(v)
	if err != nil {
		return err
	}
	bb := builderAs[B](b)
	if c.check != nil {
		if err := c.check(bb, p); err != nil {
			return err
		}
	}
	bb.Append(p)
	return nil
}

func (c *primitive[N, P, A, B]) Reader(arr arrow.Array) Reader[N] {
	return &primitiveReader[N, P, A]{arr: downcast[A](arr), decode: c.decode}
}

type primitiveReader[N, P any, A valueArray[P]] struct {
	arr    A
	decode func(P) N
}

func (r *primitiveReader[N, P, A]) Len() int {
	return r.arr.Len()
}

func (r *primitiveReader[N, P, A]) Value(i int) (N, bool) {
	if r.arr.IsNull(i) {
		var zero N
		return zero, false
	}
	return r.decode(r.arr.Value(i)), true
}

func passthrough[T any](v T) (T, error) { return v, nil }

func identity[T any](v T) T { return v }

// numeric builds the codec of a fixed-width type stored as itself.
func numeric[T any, A valueArray[T], B appender[T]](dt arrow.DataType) *primitive[T, T, A, B] {
	return &primitive[T, T, A, B]{
		field:  Field{Type: dt},
		encode: passthrough[T],
		decode: identity[T],
	}
}

var (
	int8Codec    = numeric[int8, *array.Int8, *array.Int8Builder](arrow.PrimitiveTypes.Int8)
	int16Codec   = numeric[int16, *array.Int16, *array.Int16Builder](arrow.PrimitiveTypes.Int16)
	int32Codec   = numeric[int32, *array.Int32, *array.Int32Builder](arrow.PrimitiveTypes.Int32)
	int64Codec   = numeric[int64, *array.Int64, *array.Int64Builder](arrow.PrimitiveTypes.Int64)
	uint8Codec   = numeric[uint8, *array.Uint8, *array.Uint8Builder](arrow.PrimitiveTypes.Uint8)
	uint16Codec  = numeric[uint16, *array.Uint16, *array.Uint16Builder](arrow.PrimitiveTypes.Uint16)
	uint32Codec  = numeric[uint32, *array.Uint32, *array.Uint32Builder](arrow.PrimitiveTypes.Uint32)
	uint64Codec  = numeric[uint64, *array.Uint64, *array.Uint64Builder](arrow.PrimitiveTypes.Uint64)
	float32Codec = numeric[float32, *array.Float32, *array.Float32Builder](arrow.PrimitiveTypes.Float32)
	float64Codec = numeric[float64, *array.Float64, *array.Float64Builder](arrow.PrimitiveTypes.Float64)
	boolCodec    = numeric[bool, *array.Boolean, *array.BooleanBuilder](arrow.FixedWidthTypes.Boolean)

	stringCodec = &primitive[string, string, *array.String, *array.StringBuilder]{
		field:  Field{Type: arrow.BinaryTypes.String},
		encode: validUTF8,
		decode: strings.Clone,
		check: func(b *array.StringBuilder, s string) error {
			return fitsOffsets(b.DataLen(), len(s), math.MaxInt32)
		},
	}
	largeStringCodec = &primitive[string, string, *array.LargeString, *array.LargeStringBuilder]{
		field:  Field{Type: arrow.BinaryTypes.LargeString},
		encode: validUTF8,
		decode: strings.Clone,
	}
	binaryCodec = &primitive[[]byte, []byte, *array.Binary, *array.BinaryBuilder]{
		field:  Field{Type: arrow.BinaryTypes.Binary},
		encode: passthrough[[]byte],
		decode: cloneBytes,
		check: func(b *array.BinaryBuilder, v []byte) error {
			return fitsOffsets(b.DataLen(), len(v), math.MaxInt32)
		},
	}
	largeBinaryCodec = &primitive[[]byte, []byte, *array.LargeBinary, *array.BinaryBuilder]{
		field:  Field{Type: arrow.BinaryTypes.LargeBinary},
		encode: passthrough[[]byte],
		decode: cloneBytes,
	}
)

// Int8 returns the codec of int8 values.
func Int8() Codec[int8] { return int8Codec }

// Int16 returns the codec of int16 values.
func Int16() Codec[int16] { return int16Codec }

// Int32 returns the codec of int32 values.
func Int32() Codec[int32] { return int32Codec }

// Int64 returns the codec of int64 values.
func Int64() Codec[int64] { return int64Codec }

// Uint8 returns the codec of uint8 values.
func Uint8() Codec[uint8] { return uint8Codec }

// Uint16 returns the codec of uint16 values.
func Uint16() Codec[uint16] { return uint16Codec }

// Uint32 returns the codec of uint32 values.
func Uint32() Codec[uint32] { return uint32Codec }

// Uint64 returns the codec of uint64 values.
func Uint64() Codec[uint64] { return uint64Codec }

// Float32 returns the codec of float32 values.
func Float32() Codec[float32] { return float32Codec }

// Float64 returns the codec of float64 values.
func Float64() Codec[float64] { return float64Codec }

// Bool returns the codec of bool values, stored bit-packed.
func Bool() Codec[bool] { return boolCodec }

// String returns the codec of UTF-8 strings with 32-bit offsets. Values that
// are not valid UTF-8 are rejected with ErrInvalidValue.
func String() Codec[string] { return stringCodec }

// LargeString returns the codec of UTF-8 strings with 64-bit offsets.
func LargeString() Codec[string] { return largeStringCodec }

// Binary returns the codec of byte buffers with 32-bit offsets. Decoded
// buffers are owned copies and never nil.
func Binary() Codec[[]byte] { return binaryCodec }

// LargeBinary returns the codec of byte buffers with 64-bit offsets.
func LargeBinary() Codec[[]byte] { return largeBinaryCodec }

func validUTF8(s string) (string, error) {
	if !utf8.ValidString(s) {
		return "", invalidValue("string is not valid UTF-8")
	}
	return s, nil
}

func cloneBytes(v []byte) []byte {
	return append(make([]byte, 0, len(v)), v...)
}
