package pipeline

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"casestat/internal/chart"
	"casestat/internal/config"
	"casestat/internal/dataprocessing"
	apperrors "casestat/internal/errors"
	"casestat/internal/exporter"
	"casestat/internal/files"
	"casestat/internal/infrastructure"
	"casestat/internal/translation"
	"casestat/internal/validation"
	"casestat/pkg/contracts/domain"
)

// Options holds the collaborators a Runner reports to. Zero values are fine.
type Options struct {
	Tracer *Tracer
	Logger *slog.Logger
}

// Runner executes the ER ranking and case summary pipelines.
type Runner struct {
	cfg        *config.Config
	tracer     *Tracer
	logger     *slog.Logger
	locator    *files.Locator
	normalizer *dataprocessing.Normalizer
	writer     *exporter.CSVWriter
	renderer   *chart.BarRenderer
	output     *validation.FileValidator
}

// ERResult summarizes a finished ER run.
type ERResult struct {
	InputPath  string
	OutputPath string
	ChartPath  string
	Bucket     string
	Ranking    *dataprocessing.Ranking
	RowsRead   int
	Unmapped   []translation.Unmapped
	Warnings   []*apperrors.AppError
	Duration   time.Duration
}

// CasesResult summarizes a finished case summary run.
type CasesResult struct {
	InputPath  string
	OutputPath string
	RowsRead   int
	Groups     int
	DateRange  string
	Duration   time.Duration
}

// NewRunner creates a runner for cfg.
func NewRunner(cfg *config.Config, opts Options) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = NewTracer(nil, nil)
	}
	return &Runner{
		cfg:        cfg,
		tracer:     tracer,
		logger:     infrastructure.WithComponent(logger, "pipeline"),
		locator:    files.NewLocator(cfg.Input.Marker, logger),
		normalizer: dataprocessing.NewNormalizer(cfg.BucketNaming(), logger),
		writer:     exporter.NewCSVWriter(cfg.Output.Dir),
		renderer:   chart.NewBarRenderer(cfg.Chart.Display(), logger),
		output:     validation.NewFileValidator(logger),
	}
}

// RunER locates the ER table, normalizes it, keeps the requested gender and
// age bucket, ranks diagnoses by consultation rate and writes the ranking.
func (r *Runner) RunER(ctx context.Context, req ERRequest) (result *ERResult, err error) {
	start := time.Now()
	ctx = infrastructure.EnsureTraceID(ctx)
	result = &ERResult{}

	ctx, span := r.tracer.TraceRun(ctx, "er",
		attribute.String("er.gender", req.Gender),
		attribute.String("er.input", req.Input))
	defer func() {
		emitted := 0
		if result != nil && result.Ranking != nil {
			emitted = len(result.Ranking.Rows)
		}
		var read, unmapped int
		if result != nil {
			read, unmapped = result.RowsRead, len(result.Unmapped)
		}
		r.tracer.RecordRun(ctx, "er", start, read, emitted, unmapped, err)
		EndSpan(span, err)
		if err != nil {
			result = nil
		}
	}()

	if err = validateRequest(req); err != nil {
		return result, err
	}
	if req.Output == "" {
		req.Output = DefaultEROutput(req.Gender)
	}
	rank := req.Rank
	if rank == 0 {
		rank = r.cfg.ER.Rank
	}
	drawChart := req.ChartPath != "" && r.cfg.Chart.Enabled
	if err = r.output.ValidateOutputFile(r.cfg.Paths().GetOutputPath(req.Output), ".csv"); err != nil {
		return result, err
	}
	if drawChart {
		if err = r.output.ValidateOutputFile(r.cfg.Paths().GetOutputPath(req.ChartPath), ".xlsx"); err != nil {
			return result, err
		}
	}

	r.logger.InfoContext(ctx, "Starting ER ranking",
		slog.String("input", req.Input),
		slog.String("gender", req.Gender),
		slog.Int("rank", rank))

	var table *files.Table
	if err = r.stage(ctx, "locate", func(ctx context.Context) error {
		table, err = r.locator.Load(req.Input)
		if err != nil {
			return err
		}
		infrastructure.SetSpanAttributes(ctx, map[string]interface{}{
			"input.path": table.Source,
			"rows":       table.Len(),
		})
		return nil
	}); err != nil {
		return result, err
	}
	result.InputPath = table.Source
	result.RowsRead = table.Len()

	var visits *dataprocessing.VisitTable
	if err = r.stage(ctx, "normalize", func(ctx context.Context) error {
		visits, err = r.normalizer.NormalizeVisits(ctx, table)
		if err != nil {
			return err
		}
		for _, u := range visits.Unmapped {
			infrastructure.AddSpanEvent(ctx, "unmapped_label", map[string]interface{}{
				"column":    u.Column,
				"value":     u.Value,
				"count":     u.Count,
				"first_row": u.FirstRow,
			})
		}
		infrastructure.SetSpanAttributes(ctx, map[string]interface{}{
			"rows":     len(visits.Records),
			"unmapped": len(visits.Unmapped),
		})
		return nil
	}); err != nil {
		return result, err
	}
	result.Unmapped = visits.Unmapped
	result.Warnings = visits.Warnings

	var filtered []domain.VisitRecord
	if err = r.stage(ctx, "filter", func(ctx context.Context) error {
		result.Bucket, err = dataprocessing.BucketLabel(req.AgeRange, r.cfg.BucketNaming())
		if err != nil {
			return err
		}
		filtered, err = dataprocessing.FilterVisits(visits.Records, req.Gender, req.AgeRange, r.cfg.BucketNaming())
		if err != nil {
			return err
		}
		infrastructure.SetSpanAttributes(ctx, map[string]interface{}{
			"age_bucket": result.Bucket,
			"rows":       len(filtered),
		})
		return nil
	}); err != nil {
		return result, err
	}

	if err = r.stage(ctx, "rank", func(ctx context.Context) error {
		opts := dataprocessing.RankOptions{N: rank}
		if r.cfg.ER.VerifyTotalRow {
			opts.TotalLabel = domain.TotalLabel
		}
		result.Ranking, err = dataprocessing.RankVisits(filtered, opts)
		if err != nil {
			if appErr, ok := err.(*apperrors.AppError); ok {
				appErr.WithContext("gender", req.Gender).WithContext("age_bucket", result.Bucket)
			}
			return err
		}
		infrastructure.SetSpanAttributes(ctx, map[string]interface{}{"rows": len(result.Ranking.Rows)})
		return nil
	}); err != nil {
		return result, err
	}

	if err = r.stage(ctx, "export", func(ctx context.Context) error {
		result.OutputPath = r.cfg.Paths().GetOutputPath(req.Output)
		return exporter.NewVisitExporter(r.writer).ExportVisits(req.Output, result.Ranking.Rows)
	}); err != nil {
		return result, err
	}

	if drawChart {
		if err = r.stage(ctx, "chart", func(ctx context.Context) error {
			result.ChartPath = r.cfg.Paths().GetOutputPath(req.ChartPath)
			return r.renderer.Render(result.ChartPath, result.Ranking.Rows, req.Gender, req.AgeRange, req.Title)
		}); err != nil {
			return result, err
		}
	}

	result.Duration = time.Since(start)
	r.logger.InfoContext(ctx, "ER ranking written",
		slog.String("input", result.InputPath),
		slog.String("output", result.OutputPath),
		slog.String("age_bucket", result.Bucket),
		slog.Int("rows", len(result.Ranking.Rows)),
		slog.Int64("total_patients", result.Ranking.Total.PatientCount),
		slog.Int("unmapped_labels", len(result.Unmapped)),
		slog.Duration("duration", result.Duration))

	return result, nil
}

// RunCases locates the case table, collapses its report dates into one range
// and writes per-(country, code, source) sums.
func (r *Runner) RunCases(ctx context.Context, req CasesRequest) (result *CasesResult, err error) {
	start := time.Now()
	ctx = infrastructure.EnsureTraceID(ctx)
	result = &CasesResult{}

	ctx, span := r.tracer.TraceRun(ctx, "cases", attribute.String("cases.input", req.Input))
	defer func() {
		var read, groups int
		if result != nil {
			read, groups = result.RowsRead, result.Groups
		}
		r.tracer.RecordRun(ctx, "cases", start, read, groups, 0, err)
		EndSpan(span, err)
		if err != nil {
			result = nil
		}
	}()

	if err = validateRequest(req); err != nil {
		return result, err
	}
	if err = r.output.ValidateOutputFile(r.cfg.Paths().GetOutputPath(req.Output), ".csv"); err != nil {
		return result, err
	}

	r.logger.InfoContext(ctx, "Starting case summary",
		slog.String("input", req.Input))

	var table *files.Table
	if err = r.stage(ctx, "locate", func(ctx context.Context) error {
		table, err = r.locator.Load(req.Input)
		if err != nil {
			return err
		}
		infrastructure.SetSpanAttributes(ctx, map[string]interface{}{
			"input.path": table.Source,
			"rows":       table.Len(),
		})
		return nil
	}); err != nil {
		return result, err
	}
	result.InputPath = table.Source
	result.RowsRead = table.Len()

	var records []domain.CaseRecord
	if err = r.stage(ctx, "normalize", func(ctx context.Context) error {
		records, err = r.normalizer.NormalizeCases(ctx, table)
		if err != nil {
			return err
		}
		infrastructure.SetSpanAttributes(ctx, map[string]interface{}{"rows": len(records)})
		return nil
	}); err != nil {
		return result, err
	}

	var aggregated []domain.CaseRecord
	if err = r.stage(ctx, "aggregate", func(ctx context.Context) error {
		var layouts []string
		if r.cfg.Cases.DateLayout != "" {
			layouts = append(layouts, r.cfg.Cases.DateLayout)
		}
		aggregated, err = dataprocessing.AggregateCases(records, layouts...)
		if err != nil {
			return err
		}
		infrastructure.SetSpanAttributes(ctx, map[string]interface{}{"groups": len(aggregated)})
		return nil
	}); err != nil {
		return result, err
	}
	result.Groups = len(aggregated)
	if len(aggregated) > 0 {
		result.DateRange = aggregated[0].DateRange
	}

	if err = r.stage(ctx, "export", func(ctx context.Context) error {
		result.OutputPath = r.cfg.Paths().GetOutputPath(req.Output)
		_, err := exporter.NewCaseExporter(r.writer).ExportCases(req.Output, aggregated)
		return err
	}); err != nil {
		return result, err
	}

	result.Duration = time.Since(start)
	r.logger.InfoContext(ctx, "Case summary written",
		slog.String("input", result.InputPath),
		slog.String("output", result.OutputPath),
		slog.Int("rows_read", result.RowsRead),
		slog.Int("groups", result.Groups),
		slog.String("date_range", result.DateRange),
		slog.Duration("duration", result.Duration))

	return result, nil
}

// stage runs fn inside a child span.
func (r *Runner) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := r.tracer.TraceStage(ctx, name)
	err := fn(ctx)
	EndSpan(span, err)
	if err != nil {
		r.logger.ErrorContext(ctx, "Pipeline stage failed",
			append([]any{slog.String("stage", name)},
				infrastructure.ErrorAttrs(err)...)...)
	}
	return err
}
