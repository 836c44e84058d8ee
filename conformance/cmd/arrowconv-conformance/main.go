// © Copyright 2025-2026, Query.Farm LLC - https://query.farm
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/goccy/go-json"
	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/Query-farm/arrowconv/conformance"
)

var (
	runPattern = kingpin.Flag("run", "Only run cases whose name matches this regular expression.").Short('r').String()
	jsonOutput = kingpin.Flag("json", "Print results as JSON.").Bool()
	verbose    = kingpin.Flag("verbose", "Log conversion details to stderr.").Short('v').Bool()
)

type jsonResult struct {
	Name     string `json:"name"`
	DataType string `json:"data_type,omitempty"`
	Rows     int    `json:"rows"`
	Nulls    int    `json:"nulls"`
	Passed   bool   `json:"passed"`
	Error    string `json:"error,omitempty"`
}

func main() {
	kingpin.CommandLine.HelpFlag.Short('h')
	kingpin.Parse()

	if *verbose {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	var pattern *regexp.Regexp
	if *runPattern != "" {
		var err error
		pattern, err = regexp.Compile(*runPattern)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid --run pattern: %v\n", err)
			os.Exit(2)
		}
	}

	// Checked allocator so leaked buffers fail the run.
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	results := conformance.RunMatching(mem, pattern)
	leaked := mem.CurrentAlloc()

	if *jsonOutput {
		out := make([]jsonResult, 0, len(results))
		for _, r := range results {
			jr := jsonResult{Name: r.Name, DataType: r.DataType, Rows: r.Rows, Nulls: r.Nulls, Passed: r.Passed()}
			if r.Err != nil {
				jr.Error = r.Err.Error()
			}
			out = append(out, jr)
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to encode results: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
	} else {
		for _, r := range results {
			status := "PASS"
			if !r.Passed() {
				status = "FAIL"
			}
			fmt.Printf("%s  %-36s %-28s rows=%d nulls=%d\n", status, r.Name, r.DataType, r.Rows, r.Nulls)
			if r.Err != nil {
				fmt.Printf("      %v\n", r.Err)
			}
		}
	}

	failed := conformance.Failed(results)
	fmt.Fprintf(os.Stderr, "%d cases, %d failed\n", len(results), len(failed))
	if leaked != 0 {
		fmt.Fprintf(os.Stderr, "leaked %d bytes\n", leaked)
		os.Exit(1)
	}
	if len(failed) > 0 {
		os.Exit(1)
	}
}
