// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package arrowconv

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Optional returns the nullable codec of *T. A nil pointer is pushed as a
// null slot; a non-nil pointer is pushed through elem. Both share elem's
// physical layout. Optional panics if elem is already nullable: a null slot
// could not tell a nil outer pointer from a nil inner one.
func Optional[T any](elem Codec[T]) Codec[*T] {
	if elem.Field().Nullable {
		panic(fmt.Sprintf("arrowconv: Optional of nullable %s", elem.Field()))
	}
	return &optional[T]{elem: elem}
}

type optional[T any] struct {
	elem Codec[T]
}

func (c *optional[T]) Field() Field {
	f := c.elem.Field()
	f.Nullable = true
	return f
}

func (c *optional[T]) NewBuilder(mem memory.Allocator) array.Builder {
	return c.elem.NewBuilder(mem)
}

func (c *optional[T]) Append(b array.Builder, v *T) error {
	if v == nil {
		b.AppendNull()
		return nil
	}
	return c.elem.Append(b, *v)
}

func (c *optional[T]) Reader(arr arrow.Array) Reader[*T] {
	return optionalReader[T]{elem: c.elem.Reader(arr)}
}

type optionalReader[T any] struct {
	elem Reader[T]
}

func (r optionalReader[T]) Len() int {
	return r.elem.Len()
}

// Value tests presence once, in the element reader; a null slot becomes a
// nil pointer and is reported as decoded.
func (r optionalReader[T]) Value(i int) (*T, bool) {
	v, ok := r.elem.Value(i)
	if !ok {
		return nil, true
	}
	return &v, true
}
