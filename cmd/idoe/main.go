// Command idoe builds an intensified Design-of-Experiments schedule from a
// combination matrix and prints it as JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/costela-labs/idoe"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		combinationsPath = flag.String("combinations", "", "path to a JSON array of {id, factors} (required)")
		numStages        = flag.Int("stages", 0, "number of stages per run, K (required)")
		maxRuns          = flag.Int("max-runs", 0, "upper bound on concurrent runs, I_max (0 selects the default J*K)")
		outputPath       = flag.String("output", "", "path to write the resulting schedule JSON (default stdout)")
		timeLimit        = flag.Float64("time-limit", 30, "maximum time to search, in seconds, before returning the best schedule found")
		verbose          = flag.Bool("verbose", false, "log solver progress to stderr")
	)
	flag.Parse()

	if *combinationsPath == "" || *numStages <= 0 {
		fmt.Fprintln(os.Stderr, "idoe: --combinations and --stages are required")
		flag.Usage()
		return 2
	}

	raw, err := os.ReadFile(*combinationsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "idoe: %v\n", err)
		return 1
	}
	combinations, err := idoe.ParseCombinations(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "idoe: %v\n", err)
		return 1
	}

	logger := log.New(os.Stderr, "idoe: ", log.LstdFlags)

	sched, err := idoe.Solve(combinations, *numStages, *maxRuns, idoe.DefaultConstraintConfig(),
		idoe.WithTimeLimit(time.Duration(*timeLimit*float64(time.Second))),
		idoe.WithVerbose(*verbose),
		idoe.WithLogger(loggerAdapter{logger}),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "idoe: %v\n", err)
		return 1
	}

	out, err := json.MarshalIndent(sched, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "idoe: %v\n", err)
		return 1
	}

	if *outputPath == "" {
		fmt.Println(string(out))
	} else if err := os.WriteFile(*outputPath, out, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "idoe: %v\n", err)
		return 1
	}

	switch sched.Status {
	case idoe.StatusOptimal, idoe.StatusFeasible:
		return 0
	default:
		return 1
	}
}

// loggerAdapter satisfies idoe.Logger with a standard *log.Logger.
type loggerAdapter struct{ l *log.Logger }

func (a loggerAdapter) Print(v ...interface{}) { a.l.Print(v...) }
