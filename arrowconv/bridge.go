// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package arrowconv

import (
	"iter"
	"log/slog"

	"github.com/apache/arrow-go/v18/arrow"
)

// Encode builds one column from values using the default codec of T. The
// caller owns the returned array and must Release it.
func Encode[T any](values []T, opts ...Option) (arrow.Array, error) {
	c, err := CodecFor[T]()
	if err != nil {
		return nil, err
	}
	return EncodeAs(values, c, opts...)
}

// EncodeAs builds one column from values using ser. The first value that
// cannot be pushed aborts the whole column; the returned *ElementError
// carries its index.
func EncodeAs[T any](values []T, ser Serializer[T], opts ...Option) (arrow.Array, error) {
	cfg := newConfig(opts)
	call := startHook(cfg, ConvertEncode, ser.Field())

	cb := newColumnBuilder(ser, cfg)
	reserve(cb.b, len(values), byteHint(values))
	for _, v := range values {
		if err := cb.Append(v); err != nil {
			slog.Debug("encode: aborted", "type", TypeName(ser.Field().Type), "err", err)
			call.end(nil, err)
			return nil, err
		}
	}
	return finish(cb, call)
}

// EncodeSeq is EncodeAs for a sequence of unknown length.
func EncodeSeq[T any](values iter.Seq[T], ser Serializer[T], opts ...Option) (arrow.Array, error) {
	cfg := newConfig(opts)
	call := startHook(cfg, ConvertEncode, ser.Field())

	cb := newColumnBuilder(ser, cfg)
	for v := range values {
		if err := cb.Append(v); err != nil {
			slog.Debug("encode: aborted", "type", TypeName(ser.Field().Type), "err", err)
			call.end(nil, err)
			return nil, err
		}
	}
	return finish(cb, call)
}

func finish[T any](cb *ColumnBuilder[T], call *hookCall) (arrow.Array, error) {
	arr, err := cb.Finish()
	if err != nil {
		call.end(nil, err)
		return nil, err
	}
	slog.Debug("encode: column built", "type", TypeName(arr.DataType()), "rows", arr.Len(), "nulls", arr.NullN())
	call.end(arr, nil)
	return arr, nil
}

// Decode decodes every value of arr using the default codec of T.
func Decode[T any](arr arrow.Array, opts ...Option) ([]T, error) {
	c, err := CodecFor[T]()
	if err != nil {
		return nil, err
	}
	return DecodeAs(arr, c, opts...)
}

// DecodeAs decodes every value of arr using de. The returned values own
// their memory; arr may be released afterwards.
func DecodeAs[T any](arr arrow.Array, de Deserializer[T], opts ...Option) ([]T, error) {
	cfg := newConfig(opts)
	call := startHook(cfg, ConvertDecode, de.Field())

	it, err := IterateAs(arr, de)
	if err != nil {
		slog.Debug("decode: rejected", "type", TypeName(de.Field().Type), "err", err)
		call.end(nil, err)
		return nil, err
	}
	out := make([]T, 0, it.Len())
	for v := range it.All() {
		out = append(out, v)
	}
	slog.Debug("decode: column read", "type", TypeName(arr.DataType()), "rows", len(out))
	call.end(arr, nil)
	return out, nil
}

// byteHint estimates the payload bytes of variable-width values.
func byteHint[T any](values []T) int {
	n := 0
	switch vs := any(values).(type) {
	case []string:
		for _, s := range vs {
			n += len(s)
		}
	case [][]byte:
		for _, b := range vs {
			n += len(b)
		}
	}
	return n
}
