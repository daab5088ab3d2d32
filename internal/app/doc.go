// Package app wires a command line run together.
//
// NewApplication loads the configuration (defaults, then YAML, then CASESTAT_*
// environment variables), creates the output and log directories, builds the
// logger, sets up tracing and metrics and hands them to a pipeline.Runner.
// Stop flushes spans, writes the metrics file and closes the log file; call it
// once the run is over, whether it failed or not.
//
//	a, err := app.NewApplication("erstat", *configPath, os.Stderr)
//	if err != nil {
//	    return err
//	}
//	defer a.Stop(context.Background())
//	result, err := a.Runner.RunER(ctx, req)
package app
