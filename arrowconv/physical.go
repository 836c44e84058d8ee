// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package arrowconv

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

// downcast recovers the concrete arrow-go array behind arr. Callers have
// already matched the column's data type against the codec, so a failure here
// means a codec reads a layout it does not write.
func downcast[A arrow.Array](arr arrow.Array) A {
	a, ok := arr.(A)
	if !ok {
		var want A
		panic(fmt.Sprintf("arrowconv: expected %T array for %s, got %T",
			want, TypeName(arr.DataType()), arr))
	}
	return a
}

// builderAs recovers the concrete arrow-go builder behind b.
func builderAs[B array.Builder](b array.Builder) B {
	bb, ok := b.(B)
	if !ok {
		var want B
		panic(fmt.Sprintf("arrowconv: expected %T builder, got %T", want, b))
	}
	return bb
}

// dataReserver is implemented by variable-width builders.
type dataReserver interface {
	ReserveData(n int)
}

// reserve grows b ahead of a bulk push of n values carrying about byteHint
// payload bytes. List builders are left alone: their child capacity depends
// on the rows themselves.
func reserve(b array.Builder, n, byteHint int) {
	if _, ok := b.(array.ListLikeBuilder); ok {
		return
	}
	if n > 0 {
		b.Reserve(n)
	}
	if r, ok := b.(dataReserver); ok && byteHint > 0 {
		r.ReserveData(byteHint)
	}
}

// fitsOffsets checks that appending n more payload bytes keeps a builder with
// pushed bytes already written within limit.
func fitsOffsets(pushed, n int, limit int64) error {
	if int64(pushed)+int64(n) > limit {
		return invalidValue("payload of %d bytes overflows offsets (limit %d, used %d)", n, limit, pushed)
	}
	return nil
}

// rowSlice returns row i of a list column as a sub-column of its child
// values. The caller releases it.
func rowSlice(l array.ListLike, i int) arrow.Array {
	start, end := l.ValueOffsets(i)
	return array.NewSlice(l.ListValues(), start, end)
}

// listArray downcasts arr to the list layout selected by large.
func listArray(arr arrow.Array, large bool) array.ListLike {
	if large {
		return downcast[*array.LargeList](arr)
	}
	return downcast[*array.List](arr)
}

// checkNulls rejects null slots wherever f (or a list element field below
// it) is not nullable. Only the child values reachable from the visible,
// non-null rows of arr are inspected.
func checkNulls(f Field, arr arrow.Array) error {
	if !f.Nullable && arr.NullN() > 0 {
		return fmt.Errorf("%w: %d null slot(s) in %s column", ErrUnexpectedNull, arr.NullN(), TypeName(f.Type))
	}
	elem, ok := elemField(f.Type)
	if !ok {
		return nil
	}
	if _, nested := elemField(elem.Type); elem.Nullable && !nested {
		return nil
	}
	l := arr.(array.ListLike)
	child := Field{Type: elem.Type, Nullable: elem.Nullable}
	lo, hi := int64(-1), int64(-1)
	flush := func() error {
		if lo < 0 || lo == hi {
			return nil
		}
		values := array.NewSlice(l.ListValues(), lo, hi)
		defer values.Release()
		if err := checkNulls(child, values); err != nil {
			return fmt.Errorf("list element: %w", err)
		}
		return nil
	}
	for i := 0; i < l.Len(); i++ {
		if l.IsNull(i) {
			continue
		}
		start, end := l.ValueOffsets(i)
		if start != hi {
			if err := flush(); err != nil {
				return err
			}
			lo = start
		}
		hi = end
	}
	return flush()
}

// elemField returns the element field of a list type.
func elemField(dt arrow.DataType) (arrow.Field, bool) {
	switch dt := dt.(type) {
	case *arrow.ListType:
		return dt.ElemField(), true
	case *arrow.LargeListType:
		return dt.ElemField(), true
	}
	return arrow.Field{}, false
}

// rowBytes returns the bytes the visible rows of arr occupy: validity bits,
// values, offsets and the child range they reference. A sliced column counts
// only its own rows, not the whole backing buffers.
func rowBytes(arr arrow.Array) int64 {
	n := int64(arr.Len())
	if n == 0 {
		return 0
	}
	var total int64
	if arr.NullN() > 0 {
		total += (n + 7) / 8
	}
	switch a := arr.(type) {
	case *array.List:
		total += (n + 1) * 4
		total += childBytes(a)
	case *array.LargeList:
		total += (n + 1) * 8
		total += childBytes(a)
	case *array.String:
		total += (n+1)*4 + int64(len(a.ValueBytes()))
	case *array.Binary:
		total += (n+1)*4 + int64(len(a.ValueBytes()))
	case *array.LargeString:
		total += (n+1)*8 + int64(len(a.ValueBytes()))
	case *array.LargeBinary:
		total += (n+1)*8 + int64(len(a.ValueBytes()))
	default:
		if fw, ok := arr.DataType().(arrow.FixedWidthDataType); ok {
			total += (n*int64(fw.BitWidth()) + 7) / 8
		}
	}
	return total
}

func childBytes(l array.ListLike) int64 {
	start, _ := l.ValueOffsets(0)
	_, end := l.ValueOffsets(l.Len() - 1)
	if start >= end {
		return 0
	}
	values := array.NewSlice(l.ListValues(), start, end)
	defer values.Release()
	return rowBytes(values)
}
