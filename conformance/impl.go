// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package conformance

import (
	"errors"
	"fmt"
	"math"
	"time"

	"cloud.google.com/go/civil"
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/Query-farm/arrowconv/arrowconv"
)

// Case is one conformance check.
type Case struct {
	Name string
	run  func(mem memory.Allocator) Result
}

// Result is the outcome of one case.
type Result struct {
	Name     string
	DataType string
	Rows     int
	Nulls    int
	Err      error
}

// Passed reports whether the case succeeded.
func (r Result) Passed() bool {
	return r.Err == nil
}

// Cases returns every conformance case in a stable order.
func Cases() []Case {
	cases := []Case{
		// --- Scalars ---
		roundTrip("int8", arrowconv.Int8(), []int8{math.MinInt8, 0, math.MaxInt8}),
		roundTrip("int16", arrowconv.Int16(), []int16{math.MinInt16, 0, math.MaxInt16}),
		roundTrip("int32", arrowconv.Int32(), []int32{math.MinInt32, 0, math.MaxInt32}),
		roundTrip("int64", arrowconv.Int64(), []int64{math.MinInt64, 0, math.MaxInt64}),
		roundTrip("uint8", arrowconv.Uint8(), []uint8{0, math.MaxUint8}),
		roundTrip("uint16", arrowconv.Uint16(), []uint16{0, math.MaxUint16}),
		roundTrip("uint32", arrowconv.Uint32(), []uint32{0, math.MaxUint32}),
		roundTrip("uint64", arrowconv.Uint64(), []uint64{0, math.MaxUint64}),
		roundTrip("float32", arrowconv.Float32(), []float32{-1.25, 0, math.MaxFloat32}),
		roundTrip("float64", arrowconv.Float64(), []float64{-1.25, 0, math.SmallestNonzeroFloat64}),
		roundTrip("bool", arrowconv.Bool(), []bool{true, false, true}),
		roundTrip("string", arrowconv.String(), []string{"", "hello", "wörld"}),
		roundTrip("large_string", arrowconv.LargeString(), []string{"large", ""}),
		roundTrip("binary", arrowconv.Binary(), [][]byte{{0x00, 0xff}, {}}),
		roundTrip("large_binary", arrowconv.LargeBinary(), [][]byte{[]byte("abc")}),

		// --- Temporal and domain types ---
		roundTrip("date32", arrowconv.Date(), []civil.Date{
			{Year: 1970, Month: time.January, Day: 1},
			{Year: 1969, Month: time.July, Day: 20},
			{Year: 2038, Month: time.January, Day: 19},
		}),
		roundTrip("timestamp_ns", arrowconv.Timestamp(), []civil.DateTime{
			{Date: civil.Date{Year: 2001, Month: time.September, Day: 9}, Time: civil.Time{Hour: 1, Minute: 46, Second: 40}},
			{Date: civil.Date{Year: 1900, Month: time.January, Day: 1}, Time: civil.Time{Nanosecond: 1}},
		}),
		roundTrip("timestamp_ns_utc", arrowconv.TimestampUTC(), []time.Time{
			time.Date(2025, time.December, 31, 23, 59, 59, 999999999, time.UTC),
		}),
		roundTrip("uuid", arrowconv.UUID(), []uuid.UUID{
			uuid.MustParse("f47ac10b-58cc-4372-a567-0e02b2c3d479"),
			uuid.Nil,
		}),

		// --- Optional ---
		roundTrip("optional_int32", arrowconv.Optional(arrowconv.Int32()), []*int32{ptr[int32](1), nil, ptr[int32](3)},
			checkValidity([]bool{true, false, true})),
		roundTrip("optional_string", arrowconv.Optional(arrowconv.String()), []*string{nil, ptr("x")}),
		roundTrip("optional_date", arrowconv.Optional(arrowconv.Date()), []*civil.Date{nil, {Year: 2000, Month: time.February, Day: 29}}),

		// --- Lists ---
		roundTrip("list_uint8", arrowconv.List(arrowconv.Uint8()), [][]uint8{{1, 2, 3}, {}},
			checkOffsets([]int64{0, 3, 3}, 3)),
		roundTrip("list_list_int64", arrowconv.List(arrowconv.List(arrowconv.Int64())), [][][]int64{{{1, 2}, {}}, {}, {{3}}}),
		roundTrip("large_list_string", arrowconv.LargeList(arrowconv.String()), [][]string{{"a", "b"}, {}}),
		roundTrip("list_optional_float64", arrowconv.List(arrowconv.Optional(arrowconv.Float64())), [][]*float64{{nil, ptr(1.5)}}),
		roundTrip("optional_list_bool", arrowconv.Optional(arrowconv.List(arrowconv.Bool())), []*[]bool{nil, {true}, {}}),

		// --- Default bindings ---
		defaultRoundTrip("default_int", []int{-1, 1 << 40}),
		defaultRoundTrip("default_enum", []Status{StatusPending, StatusActive, StatusClosed}),
		defaultRoundTrip("default_named_float", []Celsius{-273.15, 100}),
		defaultRoundTrip("default_named_list", []Tags{{"red", "green"}, {}}),
		defaultRoundTrip("default_optional_named", []*Status{nil, ptr(StatusActive)}),
		defaultRoundTrip("default_registered", []Payload{Payload("blob"), {}}),
		defaultRoundTrip("default_nested_bytes", [][][]byte{{{1}, {}}, {}}),

		// --- Rejections ---
		mismatch("mismatch_int32_as_string", arrowconv.Int32(), []int32{1}, arrowconv.String()),
		mismatch("mismatch_large_string_as_string", arrowconv.LargeString(), []string{"a"}, arrowconv.String()),
		mismatch("mismatch_list_as_large_list", arrowconv.List(arrowconv.Int8()), [][]int8{{1}}, arrowconv.LargeList(arrowconv.Int8())),
		mismatch("mismatch_timestamp_zone", arrowconv.TimestampUTC(), []time.Time{time.Unix(0, 0)}, arrowconv.Timestamp()),
		rejectDecode("null_in_non_nullable", arrowconv.Optional(arrowconv.Int64()), []*int64{nil}, arrowconv.Int64(), arrowconv.ErrUnexpectedNull),
		rejectEncode("invalid_utf8", arrowconv.String(), []string{"ok", "\xff"}, arrowconv.ErrInvalidValue),
		rejectEncode("timestamp_out_of_range", arrowconv.Timestamp(), []civil.DateTime{{Date: civil.Date{Year: 2300, Month: time.January, Day: 1}}}, arrowconv.ErrInvalidValue),
		rejectEncode("invalid_date", arrowconv.Date(), []civil.Date{{Year: 2021, Month: time.February, Day: 30}}, arrowconv.ErrInvalidValue),
	}
	return append(cases, sequenceCases()...)
}

func ptr[T any](v T) *T { return &v }

// physicalCheck inspects an encoded column before it is decoded.
type physicalCheck func(arrow.Array) error

func roundTrip[T any](name string, c arrowconv.Codec[T], values []T, checks ...physicalCheck) Case {
	return Case{Name: name, run: func(mem memory.Allocator) Result {
		return runRoundTrip(name, mem, values,
			func(opts ...arrowconv.Option) (arrow.Array, error) { return arrowconv.EncodeAs(values, c, opts...) },
			func(arr arrow.Array, opts ...arrowconv.Option) ([]T, error) { return arrowconv.DecodeAs(arr, c, opts...) },
			checks...,
		)
	}}
}

func defaultRoundTrip[T any](name string, values []T) Case {
	return Case{Name: name, run: func(mem memory.Allocator) Result {
		return runRoundTrip(name, mem, values,
			func(opts ...arrowconv.Option) (arrow.Array, error) { return arrowconv.Encode(values, opts...) },
			arrowconv.Decode[T],
		)
	}}
}

func runRoundTrip[T any](name string, mem memory.Allocator, values []T,
	encode func(...arrowconv.Option) (arrow.Array, error),
	decode func(arrow.Array, ...arrowconv.Option) ([]T, error),
	checks ...physicalCheck,
) Result {
	res := Result{Name: name}
	arr, err := encode(arrowconv.WithAllocator(mem))
	if err != nil {
		res.Err = fmt.Errorf("encode: %w", err)
		return res
	}
	defer arr.Release()
	res.DataType = arrowconv.TypeName(arr.DataType())
	res.Rows = arr.Len()
	res.Nulls = arr.NullN()

	for _, check := range checks {
		if err := check(arr); err != nil {
			res.Err = err
			return res
		}
	}

	got, err := decode(arr)
	if err != nil {
		res.Err = fmt.Errorf("decode: %w", err)
		return res
	}
	if diff := cmp.Diff(normalize(values), got); diff != "" {
		res.Err = fmt.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	return res
}

func checkValidity(want []bool) physicalCheck {
	return func(arr arrow.Array) error {
		got := make([]bool, arr.Len())
		for i := range got {
			got[i] = arr.IsValid(i)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			return fmt.Errorf("validity mismatch (-want +got):\n%s", diff)
		}
		return nil
	}
}

func checkOffsets(want []int64, children int) physicalCheck {
	return func(arr arrow.Array) error {
		l, ok := arr.(array.ListLike)
		if !ok {
			return fmt.Errorf("expected a list column, got %T", arr)
		}
		got := make([]int64, 0, l.Len()+1)
		for i := range l.Len() {
			start, end := l.ValueOffsets(i)
			if i == 0 {
				got = append(got, start)
			}
			got = append(got, end)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			return fmt.Errorf("offsets mismatch (-want +got):\n%s", diff)
		}
		if n := l.ListValues().Len(); n != children {
			return fmt.Errorf("child length %d, want %d", n, children)
		}
		return nil
	}
}

func mismatch[T, U any](name string, enc arrowconv.Serializer[T], values []T, dec arrowconv.Deserializer[U]) Case {
	return rejectDecode(name, enc, values, dec, arrowconv.ErrTypeMismatch)
}

func rejectDecode[T, U any](name string, enc arrowconv.Serializer[T], values []T, dec arrowconv.Deserializer[U], want error) Case {
	return Case{Name: name, run: func(mem memory.Allocator) Result {
		res := Result{Name: name}
		arr, err := arrowconv.EncodeAs(values, enc, arrowconv.WithAllocator(mem))
		if err != nil {
			res.Err = fmt.Errorf("encode: %w", err)
			return res
		}
		defer arr.Release()
		res.DataType = arrowconv.TypeName(arr.DataType())
		res.Rows = arr.Len()
		res.Nulls = arr.NullN()

		_, err = arrowconv.DecodeAs(arr, dec)
		res.Err = expectError(err, want)
		return res
	}}
}

func rejectEncode[T any](name string, enc arrowconv.Serializer[T], values []T, want error) Case {
	return Case{Name: name, run: func(mem memory.Allocator) Result {
		res := Result{Name: name, DataType: arrowconv.TypeName(enc.Field().Type)}
		arr, err := arrowconv.EncodeAs(values, enc, arrowconv.WithAllocator(mem))
		if arr != nil {
			arr.Release()
		}
		res.Err = expectError(err, want)
		return res
	}}
}

func expectError(err, want error) error {
	switch {
	case err == nil:
		return fmt.Errorf("expected %v, got success", want)
	case !errors.Is(err, want):
		return fmt.Errorf("expected %v, got %w", want, err)
	}
	return nil
}

// normalize maps values to what decoding yields: nil slices and byte
// buffers come back empty and non-nil.
func normalize[T any](values []T) []T {
	switch vs := any(values).(type) {
	case [][]byte:
		out := make([][]byte, len(vs))
		for i, v := range vs {
			out[i] = append([]byte{}, v...)
		}
		return any(out).([]T)
	}
	return values
}
