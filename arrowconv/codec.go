// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package arrowconv

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Serializer is the encode half of a capability pair: it pushes native values
// of type T onto the Arrow builder it creates.
type Serializer[T any] interface {
	// Field returns the logical type written by Append.
	Field() Field
	// NewBuilder returns an empty builder for Field().Type. The data type
	// carries every piece of metadata the layout alone leaves open, such as
	// a timestamp's unit or a list's item field.
	NewBuilder(mem memory.Allocator) array.Builder
	// Append pushes one value. b must come from NewBuilder, or be the child
	// builder of a list built from this codec's field.
	Append(b array.Builder, v T) error
}

// Deserializer is the decode half of a capability pair.
type Deserializer[T any] interface {
	// Field returns the logical type read by Reader.
	Field() Field
	// Reader binds the codec to a column whose data type already matched
	// Field().Type. It panics if arr has a different physical layout.
	Reader(arr arrow.Array) Reader[T]
}

// Reader decodes single rows of one column.
type Reader[T any] interface {
	Len() int
	// Value decodes row i. ok is false when the slot is null and T cannot
	// express absence itself; nullable codecs fold nulls into v and report ok.
	Value(i int) (v T, ok bool)
}

// Codec is a capability pair: the Serializer and Deserializer of a type share
// one logical type and therefore one physical layout.
type Codec[T any] interface {
	Serializer[T]
	Deserializer[T]
}
