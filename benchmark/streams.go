// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package benchmark

import (
	"iter"
)

// Generate yields count values where value = i * 10, without materializing
// them, for EncodeSeq benchmarks.
func Generate(count int) iter.Seq[int64] {
	return func(yield func(int64) bool) {
		for i := range count {
			if !yield(int64(i) * 10) {
				return
			}
		}
	}
}

// Transform yields every value of src scaled by factor.
func Transform(src iter.Seq[int64], factor int64) iter.Seq[int64] {
	return func(yield func(int64) bool) {
		for v := range src {
			if !yield(v * factor) {
				return
			}
		}
	}
}
