// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package arrowconv

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// List returns the codec of []T stored as a list column with 32-bit offsets.
// The list slot itself is never null; use Optional(List(elem)) for that.
// Nesting is unbounded: List(List(elem)) is a list of lists.
func List[T any](elem Codec[T]) Codec[[]T] {
	return &list[T]{elem: elem, large: false, field: listField(elem.Field(), false)}
}

// LargeList returns the codec of []T stored as a large list column with
// 64-bit offsets.
func LargeList[T any](elem Codec[T]) Codec[[]T] {
	return &list[T]{elem: elem, large: true, field: listField(elem.Field(), true)}
}

type list[T any] struct {
	elem  Codec[T]
	large bool
	field Field
}

func (c *list[T]) Field() Field {
	return c.field
}

func (c *list[T]) NewBuilder(mem memory.Allocator) array.Builder {
	return array.NewBuilder(mem, c.field.Type)
}

// Append opens a new valid list slot and pushes every element into the
// child builder. arrow-go records a slot's start offset when it is opened
// and derives its length from the child pushes that follow, so the slot
// must be opened first.
func (c *list[T]) Append(b array.Builder, v []T) error {
	lb := builderAs[array.ListLikeBuilder](b)
	lb.Append(true)
	values := lb.ValueBuilder()
	for i, e := range v {
		if err := c.elem.Append(values, e); err != nil {
			return fmt.Errorf("list element %d: %w", i, err)
		}
	}
	return nil
}

func (c *list[T]) Reader(arr arrow.Array) Reader[[]T] {
	return &listReader[T]{arr: listArray(arr, c.large), elem: c.elem}
}

type listReader[T any] struct {
	arr  array.ListLike
	elem Deserializer[T]
}

func (r *listReader[T]) Len() int {
	return r.arr.Len()
}

// Value decodes row i from its own sub-column of the child values.
func (r *listReader[T]) Value(i int) ([]T, bool) {
	if r.arr.IsNull(i) {
		return nil, false
	}
	row := rowSlice(r.arr, i)
	defer row.Release()
	return collectRow(row, r.elem), true
}

// collectRow decodes a whole sub-column into an owned slice. The outer
// column's type check covers the child, so a mismatch here is a bug.
func collectRow[T any](row arrow.Array, elem Deserializer[T]) []T {
	if want := elem.Field().Type; !sameType(want, row.DataType()) {
		panic(&TypeMismatchError{Expected: want, Actual: row.DataType()})
	}
	rd := elem.Reader(row)
	out := make([]T, rd.Len())
	for j := range out {
		out[j], _ = rd.Value(j)
	}
	return out
}
