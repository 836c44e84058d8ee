// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package arrowconv

import (
	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
)

type builderState int

const (
	stateEmpty builderState = iota
	stateGrowing
	stateFinalized
	stateFailed
)

func (s builderState) String() string {
	switch s {
	case stateEmpty:
		return "empty"
	case stateGrowing:
		return "growing"
	case stateFinalized:
		return "finalized"
	case stateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ColumnBuilder accumulates native values into one Arrow column. It is not
// safe for concurrent use.
//
// A builder grows until Finish, which hands its contents over as an immutable
// array and leaves the builder unusable. A failed Append discards everything
// pushed so far; later calls return the same error.
type ColumnBuilder[T any] struct {
	ser   Serializer[T]
	b     array.Builder
	state builderState
	n     int
	err   error
}

// NewColumnBuilder returns an empty builder for values written by ser. Only
// WithAllocator is relevant here.
func NewColumnBuilder[T any](ser Serializer[T], opts ...Option) *ColumnBuilder[T] {
	return newColumnBuilder(ser, newConfig(opts))
}

func newColumnBuilder[T any](ser Serializer[T], cfg *config) *ColumnBuilder[T] {
	return &ColumnBuilder[T]{ser: ser, b: ser.NewBuilder(cfg.mem)}
}

// Field returns the logical type of the column being built.
func (cb *ColumnBuilder[T]) Field() Field {
	return cb.ser.Field()
}

// Len returns the number of values pushed so far.
func (cb *ColumnBuilder[T]) Len() int {
	return cb.n
}

// Reserve grows capacity ahead of pushing n more values carrying about
// byteHint payload bytes. It is a hint: list columns ignore it.
func (cb *ColumnBuilder[T]) Reserve(n, byteHint int) error {
	if err := cb.usable(); err != nil {
		return err
	}
	reserve(cb.b, n, byteHint)
	return nil
}

// Append pushes one value. A failure is returned as an *ElementError and
// moves the builder to its failed state.
func (cb *ColumnBuilder[T]) Append(v T) error {
	if err := cb.usable(); err != nil {
		return err
	}
	if err := cb.ser.Append(cb.b, v); err != nil {
		cb.fail(&ElementError{Index: cb.n, Err: err})
		return cb.err
	}
	cb.n++
	cb.state = stateGrowing
	return nil
}

// Finish consumes the builder and returns the column. The caller owns the
// returned array and must Release it.
func (cb *ColumnBuilder[T]) Finish() (arrow.Array, error) {
	if err := cb.usable(); err != nil {
		return nil, err
	}
	arr := cb.b.NewArray()
	cb.b.Release()
	cb.b = nil
	cb.state = stateFinalized
	return arr, nil
}

// Discard releases the builder without producing a column. It is a no-op
// once the builder has been finished, failed or discarded.
func (cb *ColumnBuilder[T]) Discard() {
	if cb.b == nil {
		return
	}
	cb.b.Release()
	cb.b = nil
	cb.state = stateFinalized
}

func (cb *ColumnBuilder[T]) usable() error {
	switch cb.state {
	case stateFinalized:
		return ErrBuilderFinalized
	case stateFailed:
		return cb.err
	}
	return nil
}

func (cb *ColumnBuilder[T]) fail(err error) {
	cb.b.Release()
	cb.b = nil
	cb.err = err
	cb.state = stateFailed
}
