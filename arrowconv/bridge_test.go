// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package arrowconv

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeMismatchTouchesNoElements(t *testing.T) {
	mem := newAllocator(t)
	arr, err := Encode([]int32{1, 2, 3}, WithAllocator(mem))
	require.NoError(t, err)
	defer arr.Release()

	rd := &countingDeserializer[string]{Deserializer: String()}
	got, err := DecodeAs[string](arr, rd)
	require.ErrorIs(t, err, ErrTypeMismatch)
	assert.Nil(t, got)
	assert.Zero(t, rd.readers)
}

type countingDeserializer[T any] struct {
	Deserializer[T]
	readers int
}

func (d *countingDeserializer[T]) Reader(arr arrow.Array) Reader[T] {
	d.readers++
	return d.Deserializer.Reader(arr)
}

func TestEncodeSeq(t *testing.T) {
	mem := newAllocator(t)
	arr, err := EncodeSeq(slices.Values([]int64{5, 6, 7}), Int64(), WithAllocator(mem))
	require.NoError(t, err)
	defer arr.Release()

	got, err := Decode[int64](arr)
	require.NoError(t, err)
	assert.Equal(t, []int64{5, 6, 7}, got)

	_, err = EncodeSeq(slices.Values([]string{"ok", "\xfe"}), String(), WithAllocator(mem))
	require.ErrorIs(t, err, ErrInvalidValue)
}

func TestEncodeUnsupportedType(t *testing.T) {
	_, err := Encode([]map[int]int{{1: 1}})
	require.ErrorIs(t, err, ErrUnsupportedType)

	_, err = Decode[chan int](nil)
	require.ErrorIs(t, err, ErrUnsupportedType)
}

func TestByteHint(t *testing.T) {
	assert.Equal(t, 6, byteHint([]string{"ab", "cde", "f"}))
	assert.Equal(t, 3, byteHint([][]byte{{1, 2}, {3}}))
	assert.Equal(t, 0, byteHint([]int32{1, 2}))
}

type recordingHook struct {
	mu     sync.Mutex
	starts []ConvertInfo
	ends   []hookEnd
}

type hookEnd struct {
	info  ConvertInfo
	stats ConvertStatistics
	err   error
	token HookToken
	value any
}

type ctxKey struct{}

func (h *recordingHook) OnConvertStart(ctx context.Context, info ConvertInfo) (context.Context, HookToken) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.starts = append(h.starts, info)
	return context.WithValue(ctx, ctxKey{}, "started"), len(h.starts)
}

func (h *recordingHook) OnConvertEnd(ctx context.Context, token HookToken, info ConvertInfo, stats *ConvertStatistics, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ends = append(h.ends, hookEnd{info: info, stats: *stats, err: err, token: token, value: ctx.Value(ctxKey{})})
}

func TestHookObservesConversions(t *testing.T) {
	mem := newAllocator(t)
	hook := &recordingHook{}

	arr, err := EncodeAs([]*string{ptr("abc"), nil}, Optional(String()), WithAllocator(mem), WithHook(hook))
	require.NoError(t, err)
	defer arr.Release()

	_, err = DecodeAs(arr, Optional(String()), WithHook(hook))
	require.NoError(t, err)

	_, err = DecodeAs(arr, Int32(), WithHook(hook))
	require.Error(t, err)

	require.Len(t, hook.starts, 3)
	require.Len(t, hook.ends, 3)

	enc := hook.ends[0]
	assert.Equal(t, ConvertEncode, enc.info.Direction)
	assert.Equal(t, "string", enc.info.TypeName())
	assert.True(t, enc.info.Nullable)
	assert.Equal(t, int64(2), enc.stats.Rows)
	assert.Equal(t, int64(1), enc.stats.Nulls)
	assert.Equal(t, int64(1+3*4+3), enc.stats.Bytes)
	assert.NoError(t, enc.err)
	assert.Equal(t, 1, enc.token)
	assert.Equal(t, "started", enc.value)

	dec := hook.ends[1]
	assert.Equal(t, ConvertDecode, dec.info.Direction)
	assert.Equal(t, enc.stats, dec.stats)
	assert.Equal(t, 2, dec.token)

	failed := hook.ends[2]
	assert.ErrorIs(t, failed.err, ErrTypeMismatch)
	assert.Zero(t, failed.stats.Rows)
}

type panickingHook struct {
	onStart, onEnd bool
	ended          bool
}

func (h *panickingHook) OnConvertStart(ctx context.Context, _ ConvertInfo) (context.Context, HookToken) {
	if h.onStart {
		panic("start")
	}
	return ctx, nil
}

func (h *panickingHook) OnConvertEnd(context.Context, HookToken, ConvertInfo, *ConvertStatistics, error) {
	h.ended = true
	if h.onEnd {
		panic("end")
	}
}

func TestHookPanicsAreRecovered(t *testing.T) {
	mem := newAllocator(t)

	startPanic := &panickingHook{onStart: true}
	arr, err := Encode([]int8{1}, WithAllocator(mem), WithHook(startPanic))
	require.NoError(t, err)
	arr.Release()
	assert.False(t, startPanic.ended, "end is skipped when start panicked")

	endPanic := &panickingHook{onEnd: true}
	arr, err = Encode([]int8{1}, WithAllocator(mem), WithHook(endPanic))
	require.NoError(t, err)
	arr.Release()
	assert.True(t, endPanic.ended)
}

func TestErrorsMatchSentinels(t *testing.T) {
	err := error(&ElementError{Index: 4, Err: invalidValue("bad %s", "thing")})
	assert.True(t, errors.Is(err, ErrInvalidValue))
	assert.False(t, errors.Is(err, ErrTypeMismatch))
	assert.EqualError(t, err, "arrowconv: element 4: arrowconv: invalid value: bad thing")

	mismatch := error(&TypeMismatchError{Expected: arrow.PrimitiveTypes.Int8})
	assert.True(t, errors.Is(mismatch, ErrTypeMismatch))
}

func TestStatisticsCountVisibleRows(t *testing.T) {
	mem := newAllocator(t)
	arr, err := EncodeAs([][]int32{{1}, {2, 3}, {4, 5, 6}}, List(Int32()), WithAllocator(mem))
	require.NoError(t, err)
	defer arr.Release()

	var full ConvertStatistics
	full.Record(arr)
	assert.Equal(t, int64(4*4+6*4), full.Bytes)

	tail := array.NewSlice(arr, 1, 3)
	defer tail.Release()
	var sliced ConvertStatistics
	sliced.Record(tail)
	assert.Equal(t, int64(2), sliced.Rows)
	assert.Equal(t, int64(3*4+5*4), sliced.Bytes)

	strs, err := EncodeAs([]string{"ab", "c", "def"}, String(), WithAllocator(mem))
	require.NoError(t, err)
	defer strs.Release()
	mid := array.NewSlice(strs, 1, 2)
	defer mid.Release()
	var one ConvertStatistics
	one.Record(mid)
	assert.Equal(t, int64(2*4+1), one.Bytes)

	none := array.NewSlice(strs, 0, 0)
	defer none.Release()
	var empty ConvertStatistics
	empty.Record(none)
	assert.Zero(t, empty.Bytes)
}
