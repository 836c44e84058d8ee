// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package arrowconv

import (
	"iter"

	"github.com/apache/arrow-go/v18/arrow"
)

// Iterator is a lazy, single-pass, forward-only cursor over the decoded
// values of one column. It holds a reference on the column until it is
// exhausted or released.
//
//	it, err := arrowconv.Iterate[int32](arr)
//	if err != nil { ... }
//	defer it.Release()
//	for it.Next() {
//		v := it.Value()
//	}
type Iterator[T any] struct {
	arr arrow.Array
	rd  Reader[T]
	n   int
	pos int
	cur T
}

// Iterate checks arr against the default codec of T and returns an iterator
// over its values.
func Iterate[T any](arr arrow.Array) (*Iterator[T], error) {
	c, err := CodecFor[T]()
	if err != nil {
		return nil, err
	}
	return IterateAs(arr, c)
}

// IterateAs checks arr against de and returns an iterator over its values.
// It fails with a *TypeMismatchError when the data types differ and with
// ErrUnexpectedNull when a non-nullable level of de meets a null slot. No
// element is decoded before both checks pass.
func IterateAs[T any](arr arrow.Array, de Deserializer[T]) (*Iterator[T], error) {
	if err := check(arr, de.Field()); err != nil {
		return nil, err
	}
	arr.Retain()
	return &Iterator[T]{arr: arr, rd: de.Reader(arr), n: arr.Len()}, nil
}

func check(arr arrow.Array, f Field) error {
	if arr == nil {
		return &TypeMismatchError{Expected: f.Type}
	}
	if !sameType(f.Type, arr.DataType()) {
		return &TypeMismatchError{Expected: f.Type, Actual: arr.DataType()}
	}
	return checkNulls(f, arr)
}

// Next decodes the next value. It returns false, and releases the column,
// once every value has been visited.
func (it *Iterator[T]) Next() bool {
	if it.arr == nil {
		return false
	}
	if it.pos >= it.n {
		it.Release()
		return false
	}
	it.cur, _ = it.rd.Value(it.pos)
	it.pos++
	return true
}

// Value returns the value decoded by the last call to Next.
func (it *Iterator[T]) Value() T {
	return it.cur
}

// Len returns the number of rows in the column.
func (it *Iterator[T]) Len() int {
	return it.n
}

// Remaining returns the number of values not yet visited.
func (it *Iterator[T]) Remaining() int {
	if it.arr == nil {
		return 0
	}
	return it.n - it.pos
}

// All returns the remaining values as a sequence. Stopping early releases
// the iterator.
func (it *Iterator[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for it.Next() {
			if !yield(it.cur) {
				it.Release()
				return
			}
		}
	}
}

// Release drops the iterator's reference on the column. It is safe to call
// more than once.
func (it *Iterator[T]) Release() {
	if it.arr == nil {
		return
	}
	it.arr.Release()
	it.arr = nil
	it.rd = nil
}
