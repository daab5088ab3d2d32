package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"casestat/internal/app"
	"casestat/internal/infrastructure"
	"casestat/internal/pipeline"
	"casestat/pkg/contracts"
)

const tool = "erstat"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run parses args, ranks the ER table and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet(tool, flag.ContinueOnError)
	fs.SetOutput(stderr)
	input := fs.String("input", ".", "ER table file, or a directory holding exactly one")
	out := fs.String("out", "", "output csv file (defaults to <gender>_ER_visits.csv)")
	gender := fs.String("gender", "Total", "Females | Males | Total")
	age := fs.String("age", "", "age range as lo-hi, e.g. 15-24 (empty selects every age)")
	rank := fs.Int("rank", 0, "number of diagnoses to keep (0 uses the configured default)")
	chartPath := fs.String("chart", "", "also write a column chart to this .xlsx file")
	title := fs.String("title", "", "chart title")
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

	ageRange, err := pipeline.ParseAgeRange(*age)
	if err != nil {
		a.Logger.Error("Invalid age range", infrastructure.ErrorAttrs(err)...)
		return 1
	}

	ctx, cancel := app.SignalContext(context.Background())
	defer cancel()

	result, err := a.Runner.RunER(ctx, pipeline.ERRequest{
		Input:     *input,
		Output:    *out,
		Gender:    *gender,
		AgeRange:  ageRange,
		Rank:      *rank,
		ChartPath: *chartPath,
		Title:     *title,
	})
	if err != nil {
		a.Logger.Error("ER ranking failed", infrastructure.ErrorAttrs(err)...)
		return 1
	}

	for _, w := range result.Warnings {
		a.Logger.Warn("Untranslated label in output", infrastructure.ErrorAttrs(w)...)
	}

	fmt.Fprintf(stdout, "Wrote %d diagnoses for %s / %s to %s\n",
		len(result.Ranking.Rows), *gender, result.Bucket, result.OutputPath)
	if result.ChartPath != "" {
		fmt.Fprintf(stdout, "Chart: %s\n", result.ChartPath)
	}
	a.Logger.Debug("Run complete", slog.Duration("duration", result.Duration))
	return 0
}
