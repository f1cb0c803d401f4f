// Command contract_compare checks a running attendance backend against the in-process
// mock: every target is requested from both, and the status codes and JSON shapes of
// the envelopes must agree. Values are not compared since the datasets differ.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"go.uber.org/zap"
)

type target struct {
	Method   string `json:"method"`
	Path     string `json:"path"`
	Critical bool   `json:"critical"`
}

type targetsFile struct {
	Targets []target `json:"targets"`
}

type options struct {
	base    string
	targets []target
	timeout time.Duration
	workers int
	retries int
	seed    int64
	logger  *zap.Logger
}

func main() {
	var (
		opts        options
		targetsPath string
		verbose     bool
	)

	flag.StringVar(&opts.base, "base", "http://localhost:3001/api/v1", "API base URL of the backend under test")
	flag.StringVar(&targetsPath, "targets", "", "JSON targets file (default: built-in GET targets)")
	flag.DurationVar(&opts.timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.IntVar(&opts.workers, "workers", 4, "concurrent requests")
	flag.IntVar(&opts.retries, "retries", 2, "retries per target on transport errors")
	flag.Int64Var(&opts.seed, "seed", 1, "mock database seed")
	flag.BoolVar(&verbose, "verbose", false, "log queue activity")
	flag.Parse()

	opts.logger = zap.NewNop()
	if verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			log.Fatalf("failed to init logger: %v", err)
		}
		opts.logger = l
	}

	if targetsPath != "" {
		targets, err := loadTargets(targetsPath)
		if err != nil {
			log.Fatalf("failed to load targets: %v", err)
		}
		opts.targets = targets
	} else {
		opts.targets = defaultTargets(time.Now())
	}

	results, err := run(context.Background(), opts)
	if err != nil {
		log.Fatalf("compare failed: %v", err)
	}

	breaking, optional := printReport(os.Stdout, results)
	fmt.Printf("Breaking diffs: %d, Optional diffs: %d\n", breaking, optional)
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadTargets(path string) ([]target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file targetsFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	if len(file.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	return file.Targets, nil
}

func printReport(w io.Writer, results []comparison) (breaking, optional int) {
	fmt.Fprintln(w, "Contract Compare Report")
	fmt.Fprintln(w, "=======================")
	for _, res := range results {
		status := "OK"
		switch {
		case res.Error != nil:
			status = "ERROR"
		case !res.ok():
			status = "DIFF"
		}
		if status != "OK" {
			if res.Target.Critical {
				breaking++
			} else {
				optional++
			}
		}

		fmt.Fprintf(w, "[%s] %s %s\n", status, res.Target.Method, res.Target.Path)
		fmt.Fprintf(w, "  Backend Status: %d (%s)\n", res.BackendStatus, res.BackendDuration)
		fmt.Fprintf(w, "  Mock Status: %d\n", res.MockStatus)
		if res.Error != nil {
			fmt.Fprintf(w, "  Error: %v\n", res.Error)
			continue
		}
		fmt.Fprintf(w, "  Status match: %t | Shape match: %t | Critical: %t\n", res.StatusMatch, len(res.ShapeDiffs) == 0, res.Target.Critical)
		for _, d := range res.ShapeDiffs {
			fmt.Fprintf(w, "    %s\n", d)
		}
	}
	return breaking, optional
}
