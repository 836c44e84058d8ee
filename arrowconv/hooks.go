// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package arrowconv

import (
	"context"
	"log/slog"

	"github.com/apache/arrow-go/v18/arrow"
)

// Direction string constants for ConvertInfo.Direction.
const (
	ConvertEncode = "encode"
	ConvertDecode = "decode"
)

// ConvertHook provides observability callpoints around a whole-column
// conversion. Implementations must be safe for concurrent use.
type ConvertHook interface {
	OnConvertStart(ctx context.Context, info ConvertInfo) (context.Context, HookToken)
	OnConvertEnd(ctx context.Context, token HookToken, info ConvertInfo, stats *ConvertStatistics, err error)
}

// HookToken is an opaque value returned by OnConvertStart and passed back to
// OnConvertEnd. Only meaningful to the ConvertHook that created it.
type HookToken interface{}

// ConvertInfo describes the conversion passed to hooks.
type ConvertInfo struct {
	Direction string         // ConvertEncode or ConvertDecode
	DataType  arrow.DataType // Data type of the codec
	Nullable  bool           // Whether the codec accepts nulls
}

// TypeName returns the short name of the conversion's data type.
func (i ConvertInfo) TypeName() string {
	return TypeName(i.DataType)
}

// ConvertStatistics holds the counters of one conversion.
type ConvertStatistics struct {
	Rows  int64
	Nulls int64
	Bytes int64
}

// Record adds the rows, top-level nulls and bytes of arr. Bytes cover only
// the rows arr exposes, so a slice of a larger column counts its own share.
func (s *ConvertStatistics) Record(arr arrow.Array) {
	s.Rows += int64(arr.Len())
	s.Nulls += int64(arr.NullN())
	s.Bytes += rowBytes(arr)
}

// hookCall tracks one hooked conversion. A nil *hookCall is inactive.
type hookCall struct {
	hook  ConvertHook
	ctx   context.Context
	token HookToken
	info  ConvertInfo
	stats ConvertStatistics
}

// startHook calls the configured hook's start callpoint. Panics in the hook
// are recovered and logged; the conversion continues without the hook.
func startHook(cfg *config, direction string, f Field) *hookCall {
	if cfg.hook == nil {
		return nil
	}
	call := &hookCall{
		hook: cfg.hook,
		ctx:  cfg.ctx,
		info: ConvertInfo{Direction: direction, DataType: f.Type, Nullable: f.Nullable},
	}
	ok := func() (ok bool) {
		defer func() {
			if rv := recover(); rv != nil {
				slog.Error("convert hook start panic", "err", rv)
			}
		}()
		ctx, token := call.hook.OnConvertStart(call.ctx, call.info)
		if ctx != nil {
			call.ctx = ctx
		}
		call.token = token
		return true
	}()
	if !ok {
		return nil
	}
	return call
}

// end records arr, if any, and calls the hook's end callpoint.
func (c *hookCall) end(arr arrow.Array, err error) {
	if c == nil {
		return
	}
	if arr != nil {
		c.stats.Record(arr)
	}
	defer func() {
		if rv := recover(); rv != nil {
			slog.Error("convert hook end panic", "err", rv)
		}
	}()
	c.hook.OnConvertEnd(c.ctx, c.token, c.info, &c.stats, err)
}
