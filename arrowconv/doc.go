// Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

// Package arrowconv converts between row-oriented Go values and Apache Arrow
// columns built with arrow-go.
//
// Every supported Go type is bound to a capability pair, a [Codec], that
// knows which Arrow builder to push values into and which Arrow array type to
// read them back from. Encoding and decoding through the same codec are
// mutual inverses.
//
// # Logical types
//
// The built-in codecs are:
//
//   - [Int8], [Int16], [Int32], [Int64], [Uint8], [Uint16], [Uint32], [Uint64]
//   - [Float32], [Float64], [Bool]
//   - [String] and [LargeString] (32-bit and 64-bit offsets)
//   - [Binary] and [LargeBinary]
//   - [Date] (civil.Date as date32), [Timestamp] (civil.DateTime as
//     timestamp[ns]), [TimestampUTC] (time.Time as timestamp[ns, UTC])
//   - [UUID] (uuid.UUID as fixed_size_binary[16])
//
// Codecs compose: [Optional] wraps a codec into a nullable one over *T, and
// [List] / [LargeList] wrap a codec into a list over []T. A nil pointer is
// always stored as a null slot, never omitted. Lists carry no validity of
// their own; a nullable list is Optional(List(...)).
//
// # Default bindings
//
// [CodecFor] derives the codec of a Go type by reflection: pointers become
// nullable, slices become lists, []byte becomes binary and int/uint widen to
// 64 bits.
// [Register] overrides the binding of a type.
//
// # Entry points
//
//	arr, err := arrowconv.Encode([]*int32{&one, nil, &three})
//	defer arr.Release()
//	vals, err := arrowconv.Decode[*int32](arr)
//
// [EncodeAs] and [DecodeAs] take an explicit codec, for example to write
// strings with 64-bit offsets via [LargeString]. [Iterate] and [IterateAs]
// return a lazy single-pass [Iterator].
//
// Decoding first compares the column's data type with the codec's data type
// and fails with [ErrTypeMismatch] before any element is read.
package arrowconv
