// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package arrowconv

import (
	"context"

	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Option configures one conversion call.
type Option func(*config)

type config struct {
	mem  memory.Allocator
	hook ConvertHook
	ctx  context.Context
}

func newConfig(opts []Option) *config {
	cfg := &config{
		mem: memory.NewGoAllocator(),
		ctx: context.Background(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithAllocator sets the allocator used for builders and the columns they
// produce.
func WithAllocator(mem memory.Allocator) Option {
	return func(cfg *config) {
		if mem != nil {
			cfg.mem = mem
		}
	}
}

// WithHook registers a hook called around the conversion.
func WithHook(hook ConvertHook) Option {
	return func(cfg *config) {
		cfg.hook = hook
	}
}

// WithContext sets the context handed to the hook. Conversions themselves do
// not block and ignore cancellation.
func WithContext(ctx context.Context) Option {
	return func(cfg *config) {
		if ctx != nil {
			cfg.ctx = ctx
		}
	}
}
