// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package benchmark

import (
	"slices"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Query-farm/arrowconv/arrowconv"
)

const rows = 10_000

func benchmarkEncode[T any](b *testing.B, c arrowconv.Codec[T], values []T) {
	b.Helper()
	b.ReportAllocs()
	for b.Loop() {
		arr, err := arrowconv.EncodeAs(values, c)
		if err != nil {
			b.Fatal(err)
		}
		arr.Release()
	}
}

func benchmarkDecode[T any](b *testing.B, c arrowconv.Codec[T], values []T) {
	b.Helper()
	arr, err := arrowconv.EncodeAs(values, c)
	if err != nil {
		b.Fatal(err)
	}
	defer arr.Release()
	b.ReportAllocs()
	for b.Loop() {
		if _, err := arrowconv.DecodeAs(arr, c); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkEncodeInt64(b *testing.B) {
	benchmarkEncode(b, arrowconv.Int64(), Int64s(rows))
}

func BenchmarkDecodeInt64(b *testing.B) {
	benchmarkDecode(b, arrowconv.Int64(), Int64s(rows))
}

func BenchmarkEncodeOptionalInt32(b *testing.B) {
	benchmarkEncode(b, arrowconv.Optional(arrowconv.Int32()), OptionalInt32s(rows, 0.2))
}

func BenchmarkDecodeOptionalInt32(b *testing.B) {
	benchmarkDecode(b, arrowconv.Optional(arrowconv.Int32()), OptionalInt32s(rows, 0.2))
}

func BenchmarkEncodeString(b *testing.B) {
	benchmarkEncode(b, arrowconv.String(), Strings(rows))
}

func BenchmarkDecodeString(b *testing.B) {
	benchmarkDecode(b, arrowconv.String(), Strings(rows))
}

func BenchmarkEncodeNestedList(b *testing.B) {
	benchmarkEncode(b, arrowconv.List(arrowconv.List(arrowconv.Int32())), NestedLists(rows/10, 8))
}

func BenchmarkDecodeNestedList(b *testing.B) {
	benchmarkDecode(b, arrowconv.List(arrowconv.List(arrowconv.Int32())), NestedLists(rows/10, 8))
}

func BenchmarkEncodeTimestamp(b *testing.B) {
	benchmarkEncode(b, arrowconv.Timestamp(), DateTimes(rows))
}

func BenchmarkDecodeUUID(b *testing.B) {
	benchmarkDecode(b, arrowconv.UUID(), UUIDs(rows))
}

func BenchmarkEncodeReflectNestedList(b *testing.B) {
	benchmarkEncode(b, arrowconv.MustCodecFor[[][]int32](), NestedLists(rows/10, 8))
}

func BenchmarkDecodeReflectNestedList(b *testing.B) {
	benchmarkDecode(b, arrowconv.MustCodecFor[[][]int32](), NestedLists(rows/10, 8))
}

func BenchmarkEncodeSeq(b *testing.B) {
	b.ReportAllocs()
	for b.Loop() {
		arr, err := arrowconv.EncodeSeq(Transform(Generate(rows), 3), arrowconv.Int64())
		if err != nil {
			b.Fatal(err)
		}
		arr.Release()
	}
}

func TestFixturesAreDeterministic(t *testing.T) {
	assert.Equal(t, Int64s(16), Int64s(16))
	assert.Equal(t, Strings(16), Strings(16))
	assert.Equal(t, NestedLists(16, 4), NestedLists(16, 4))
	assert.Equal(t, UUIDs(4), UUIDs(4))
}

func TestFixturesRoundTrip(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	nulls := OptionalInt32s(1000, 0.5)
	arr, err := arrowconv.EncodeAs(nulls, arrowconv.Optional(arrowconv.Int32()), arrowconv.WithAllocator(mem))
	require.NoError(t, err)
	got, err := arrowconv.DecodeAs(arr, arrowconv.Optional(arrowconv.Int32()))
	arr.Release()
	require.NoError(t, err)
	assert.Equal(t, nulls, got)

	dts := DateTimes(1000)
	arr, err = arrowconv.EncodeAs(dts, arrowconv.Timestamp(), arrowconv.WithAllocator(mem))
	require.NoError(t, err)
	assert.Equal(t, arrow.TIMESTAMP, arr.DataType().ID())
	back, err := arrowconv.DecodeAs(arr, arrowconv.Timestamp())
	arr.Release()
	require.NoError(t, err)
	assert.Equal(t, dts, back)
}

func TestStreams(t *testing.T) {
	assert.Equal(t, []int64{0, 10, 20}, slices.Collect(Generate(3)))
	assert.Equal(t, []int64{0, 30, 60}, slices.Collect(Transform(Generate(3), 3)))

	for range Generate(100) {
		break
	}
}
