// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

// Package benchmark provides deterministic fixtures for arrowconv
// benchmarks.
package benchmark

import (
	"fmt"
	"math/rand/v2"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
)

// seed keeps fixtures identical across runs.
const seed = 0x5eed

func newRand() *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// Int64s returns n pseudo-random int64 values.
func Int64s(n int) []int64 {
	r := newRand()
	out := make([]int64, n)
	for i := range out {
		out[i] = r.Int64()
	}
	return out
}

// OptionalInt32s returns n values of which about nullRate are nil.
func OptionalInt32s(n int, nullRate float64) []*int32 {
	r := newRand()
	out := make([]*int32, n)
	for i := range out {
		if r.Float64() < nullRate {
			continue
		}
		v := r.Int32()
		out[i] = &v
	}
	return out
}

// Strings returns n ASCII strings of 8 to 40 bytes.
func Strings(n int) []string {
	r := newRand()
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("value-%d-%x", i, r.Uint64()>>(r.IntN(32)))
	}
	return out
}

// NestedLists returns n rows of up to maxLen lists of up to maxLen int32
// values each.
func NestedLists(n, maxLen int) [][][]int32 {
	r := newRand()
	out := make([][][]int32, n)
	for i := range out {
		row := make([][]int32, r.IntN(maxLen+1))
		for j := range row {
			inner := make([]int32, r.IntN(maxLen+1))
			for k := range inner {
				inner[k] = r.Int32()
			}
			row[j] = inner
		}
		out[i] = row
	}
	return out
}

// DateTimes returns n date-times spread over the years 1970 to 2100.
func DateTimes(n int) []civil.DateTime {
	r := newRand()
	start := time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)
	span := time.Date(2100, time.January, 1, 0, 0, 0, 0, time.UTC).Sub(start)
	out := make([]civil.DateTime, n)
	for i := range out {
		out[i] = civil.DateTimeOf(start.Add(time.Duration(r.Int64N(int64(span)))))
	}
	return out
}

// UUIDs returns n name-based UUIDs.
func UUIDs(n int) []uuid.UUID {
	out := make([]uuid.UUID, n)
	for i := range out {
		out[i] = uuid.NewSHA1(uuid.NameSpaceOID, fmt.Appendf(nil, "row-%d", i))
	}
	return out
}
