// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package arrowconv

import (
	"reflect"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type celsius float64

type label string

type blob []byte

type tags []label

type payload []byte

type recursive []recursive

func init() {
	Register[payload](Retype[payload](LargeBinary()))
}

func TestFieldOfDefaults(t *testing.T) {
	tests := []struct {
		name string
		got  func() (Field, error)
		want string
	}{
		{"int", FieldOf[int], "int64"},
		{"uint", FieldOf[uint], "uint64"},
		{"int16", FieldOf[int16], "int16"},
		{"float32", FieldOf[float32], "float32"},
		{"bool", FieldOf[bool], "bool"},
		{"string", FieldOf[string], "string"},
		{"bytes", FieldOf[[]byte], "binary"},
		{"date", FieldOf[civil.Date], "date32"},
		{"datetime", FieldOf[civil.DateTime], "timestamp[ns]"},
		{"time", FieldOf[time.Time], "timestamp[ns, UTC]"},
		{"uuid", FieldOf[uuid.UUID], "fixed_size_binary[16]"},
		{"pointer", FieldOf[*int32], "int32?"},
		{"slice", FieldOf[[]string], "list<string>"},
		{"slice of pointers", FieldOf[[]*string], "list<string?>"},
		{"pointer to slice", FieldOf[*[]int8], "list<int8>?"},
		{"nested", FieldOf[[][]float64], "list<list<float64>>"},
		{"named float", FieldOf[celsius], "float64"},
		{"named bytes", FieldOf[blob], "binary"},
		{"named slice", FieldOf[tags], "list<string>"},
		{"registered", FieldOf[payload], "large_binary"},
		{"slice of registered", FieldOf[[]payload], "list<large_binary>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := tt.got()
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.String())
		})
	}
}

func TestCodecForUnsupported(t *testing.T) {
	_, err := CodecFor[map[string]int]()
	require.ErrorIs(t, err, ErrUnsupportedType)

	_, err = CodecFor[struct{ A int }]()
	require.ErrorIs(t, err, ErrUnsupportedType)

	_, err = CodecFor[[]chan int]()
	require.ErrorIs(t, err, ErrUnsupportedType)
	assert.Contains(t, err.Error(), "list element")

	_, err = CodecFor[**int]()
	require.ErrorIs(t, err, ErrUnsupportedType)

	_, err = CodecFor[recursive]()
	require.ErrorIs(t, err, ErrUnsupportedType)
	assert.Contains(t, err.Error(), "recursive")

	assert.Panics(t, func() { MustCodecFor[complex128]() })
}

func TestCodecForReturnsBuiltins(t *testing.T) {
	assert.Same(t, int32Codec, MustCodecFor[int32]())
	assert.Same(t, stringCodec, MustCodecFor[string]())
	assert.Same(t, binaryCodec, MustCodecFor[[]byte]())
	assert.Same(t, dateCodec, MustCodecFor[civil.Date]())
}

func TestCodecForCaches(t *testing.T) {
	first := MustCodecFor[[]*int16]()
	second := MustCodecFor[[]*int16]()
	assert.Equal(t, first, second)

	_, ok := codecCache.Load(reflect.TypeFor[[]*int16]())
	assert.True(t, ok)
}

func TestReflectRoundTrip(t *testing.T) {
	t.Run("int", func(t *testing.T) {
		in := []int{-1, 0, 1 << 40}
		assert.Equal(t, in, roundTrip(t, MustCodecFor[int](), in))
	})
	t.Run("uint", func(t *testing.T) {
		in := []uint{0, 1 << 63}
		assert.Equal(t, in, roundTrip(t, MustCodecFor[uint](), in))
	})
	t.Run("named float", func(t *testing.T) {
		in := []celsius{-40, 36.6}
		assert.Equal(t, in, roundTrip(t, MustCodecFor[celsius](), in))
	})
	t.Run("named bytes", func(t *testing.T) {
		in := []blob{{1, 2}, {}}
		assert.Equal(t, in, roundTrip(t, MustCodecFor[blob](), in))
	})
	t.Run("named slice of named strings", func(t *testing.T) {
		in := []tags{{"a", "b"}, {}}
		assert.Equal(t, in, roundTrip(t, MustCodecFor[tags](), in))
	})
	t.Run("pointer to named", func(t *testing.T) {
		c := celsius(21.5)
		in := []*celsius{&c, nil}
		assert.Equal(t, in, roundTrip(t, MustCodecFor[*celsius](), in))
	})
	t.Run("slice of pointers", func(t *testing.T) {
		in := [][]*int{{ptr(1), nil}, {}}
		assert.Equal(t, in, roundTrip(t, MustCodecFor[[]*int](), in))
	})
	t.Run("pointer to slice", func(t *testing.T) {
		in := []*[]uint16{nil, ptr([]uint16{7})}
		assert.Equal(t, in, roundTrip(t, MustCodecFor[*[]uint16](), in))
	})
	t.Run("slice of dates", func(t *testing.T) {
		in := [][]civil.Date{{{Year: 2020, Month: time.January, Day: 2}}}
		assert.Equal(t, in, roundTrip(t, MustCodecFor[[]civil.Date](), in))
	})
	t.Run("registered", func(t *testing.T) {
		in := [][]payload{{payload("x"), {}}, {}}
		assert.Equal(t, in, roundTrip(t, MustCodecFor[[]payload](), in))
	})
}

func TestEncodeUsesDefaultBinding(t *testing.T) {
	mem := newAllocator(t)

	arr, err := Encode([]payload{[]byte("abc")}, WithAllocator(mem))
	require.NoError(t, err)
	defer arr.Release()
	assert.Equal(t, arrow.LARGE_BINARY, arr.DataType().ID())

	got, err := Decode[payload](arr)
	require.NoError(t, err)
	assert.Equal(t, []payload{payload("abc")}, got)

	_, err = Decode[blob](arr)
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestRetypeRejectsInconvertible(t *testing.T) {
	assert.Panics(t, func() { Retype[int](String()) })
}
