// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package conformance

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"regexp"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/google/go-cmp/cmp"

	"github.com/Query-farm/arrowconv/arrowconv"
)

// countdown yields n, n-1, ..., 1.
func countdown(n int64) iter.Seq[int64] {
	return func(yield func(int64) bool) {
		for i := n; i > 0; i-- {
			if !yield(i) {
				return
			}
		}
	}
}

// sequenceCases exercise the lazy halves of the bridge: encoding from an
// iter.Seq without a size hint and decoding through a single-pass iterator.
func sequenceCases() []Case {
	return []Case{
		{Name: "sequence_encode_countdown", run: func(mem memory.Allocator) Result {
			res := Result{Name: "sequence_encode_countdown"}
			arr, err := arrowconv.EncodeSeq(countdown(5), arrowconv.Int64(), arrowconv.WithAllocator(mem))
			if err != nil {
				res.Err = fmt.Errorf("encode: %w", err)
				return res
			}
			defer arr.Release()
			res.DataType = arrowconv.TypeName(arr.DataType())
			res.Rows = arr.Len()

			got, err := arrowconv.Decode[int64](arr)
			if err != nil {
				res.Err = fmt.Errorf("decode: %w", err)
				return res
			}
			if diff := cmp.Diff([]int64{5, 4, 3, 2, 1}, got); diff != "" {
				res.Err = fmt.Errorf("sequence mismatch (-want +got):\n%s", diff)
			}
			return res
		}},
		{Name: "sequence_iterate_single_pass", run: func(mem memory.Allocator) Result {
			res := Result{Name: "sequence_iterate_single_pass"}
			arr, err := arrowconv.Encode([]Status{StatusActive, StatusClosed}, arrowconv.WithAllocator(mem))
			if err != nil {
				res.Err = fmt.Errorf("encode: %w", err)
				return res
			}
			res.DataType = arrowconv.TypeName(arr.DataType())
			res.Rows = arr.Len()

			it, err := arrowconv.Iterate[Status](arr)
			arr.Release()
			if err != nil {
				res.Err = fmt.Errorf("iterate: %w", err)
				return res
			}
			defer it.Release()

			var got []Status
			for s := range it.All() {
				got = append(got, s)
			}
			if diff := cmp.Diff([]Status{StatusActive, StatusClosed}, got); diff != "" {
				res.Err = fmt.Errorf("sequence mismatch (-want +got):\n%s", diff)
				return res
			}
			if it.Next() || it.Remaining() != 0 {
				res.Err = errors.New("iterator restarted after exhaustion")
			}
			return res
		}},
	}
}

// Run executes every case against mem.
func Run(mem memory.Allocator) []Result {
	return RunMatching(mem, nil)
}

// RunMatching executes the cases whose name matches pattern; a nil pattern
// matches every case.
func RunMatching(mem memory.Allocator, pattern *regexp.Regexp) []Result {
	var results []Result
	for _, c := range Cases() {
		if pattern != nil && !pattern.MatchString(c.Name) {
			continue
		}
		res := runCase(c, mem)
		if res.Err != nil {
			slog.Debug("conformance: case failed", "case", c.Name, "err", res.Err)
		}
		results = append(results, res)
	}
	return results
}

// runCase turns a panicking case into a failed result.
func runCase(c Case, mem memory.Allocator) (res Result) {
	defer func() {
		if rv := recover(); rv != nil {
			res = Result{Name: c.Name, Err: fmt.Errorf("panic: %v", rv)}
		}
	}()
	return c.run(mem)
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed() {
			failed = append(failed, r)
		}
	}
	return failed
}
