package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"casestat/internal/app"
	"casestat/internal/infrastructure"
	"casestat/internal/pipeline"
	"casestat/pkg/contracts"
)

const tool = "casesummary"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run parses args, summarizes the case table and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(tool, flag.ContinueOnError)
	fs.SetOutput(stderr)
	input := fs.String("input", ".", "case table file, or a directory holding exactly one")
	out := fs.String("out", "cases_summary.csv", "output csv file")
	configPath := fs.String("config", "", "config file (defaults to casestat.yaml or configs/casestat.yaml)")
	version := fs.Bool("version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *version {
		fmt.Fprintln(stdout, contracts.GetFullVersionString(tool))
		return 0
	}

	a, err := app.NewApplication(tool, *configPath, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", tool, err)
		return 1
	}
	defer a.Stop(context.Background())

	ctx, cancel := app.SignalContext(context.Background())
	defer cancel()

	result, err := a.Runner.RunCases(ctx, pipeline.CasesRequest{Input: *input, Output: *out})
	if err != nil {
		a.Logger.Error("Case summary failed", infrastructure.ErrorAttrs(err)...)
		return 1
	}

	fmt.Fprintf(stdout, "Wrote %d groups covering %s to %s\n", result.Groups, result.DateRange, result.OutputPath)
	return 0
}
