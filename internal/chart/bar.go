// Package chart renders ranked ER rows as a column chart in an XLSX workbook.
package chart

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	apperrors "casestat/internal/errors"
	"casestat/pkg/contracts/domain"
)

// YAxisTitle labels the value axis.
const YAxisTitle = "Consultation rate(%)"

var dataHeaders = []interface{}{"Gender", "Age", "Diseases", "Patients", YAxisTitle}

// BarRenderer draws one column per diagnosis.
type BarRenderer struct {
	cfg    Config
	logger *slog.Logger
}

// NewBarRenderer creates a renderer with a fixed display configuration.
func NewBarRenderer(cfg Config, logger *slog.Logger) *BarRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &BarRenderer{cfg: cfg.withDefaults(), logger: logger}
}

// Config returns the renderer's display configuration.
func (r *BarRenderer) Config() Config {
	return r.cfg
}

// Title returns the default chart title for a gender label and optional age range.
func Title(label string, ageRange *domain.AgeRange) string {
	if ageRange == nil {
		return fmt.Sprintf("Statistics of %s patients in ER", label)
	}
	return fmt.Sprintf("Statistics of %s patients %d to %d year-old in ER", label, ageRange.Low, ageRange.High)
}

// Render writes rows to a data sheet of a new workbook at path and places a
// clustered column chart next to them. Each diagnosis is its own series so the
// legend names them; the category axis is hidden. An empty title falls back to
// Title(label, ageRange).
func (r *BarRenderer) Render(path string, rows []domain.VisitRecord, label string, ageRange *domain.AgeRange, title string) error {
	if len(rows) == 0 {
		return apperrors.NewEmptyResultError("no ranked rows to chart").
			WithContext("path", path)
	}
	if title == "" {
		title = Title(label, ageRange)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetDefaultFont(r.cfg.FontFamily); err != nil {
		return apperrors.NewStorageError("failed to set workbook font", err).
			WithContext("font_family", r.cfg.FontFamily)
	}

	sheet := r.cfg.Sheet
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return apperrors.NewStorageError("failed to name data sheet", err).
			WithContext("sheet", sheet)
	}

	if err := f.SetSheetRow(sheet, "A1", &dataHeaders); err != nil {
		return apperrors.NewStorageError("failed to write chart data", err)
	}
	series := make([]excelize.ChartSeries, 0, len(rows))
	for i, row := range rows {
		line := i + 2
		cell, _ := excelize.CoordinatesToCellName(1, line)
		values := []interface{}{row.Gender, row.AgeBucket, row.Diagnosis, row.PatientCount, row.ConsultationRate}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return apperrors.NewStorageError("failed to write chart data", err).
				WithContext("row", line)
		}
		series = append(series, excelize.ChartSeries{
			Name:       fmt.Sprintf("'%s'!$C$%d", sheet, line),
			Categories: fmt.Sprintf("'%s'!$C$%d", sheet, line),
			Values:     fmt.Sprintf("'%s'!$E$%d", sheet, line),
		})
	}
	if err := f.SetColWidth(sheet, "C", "C", 48); err != nil {
		return apperrors.NewStorageError("failed to size data sheet", err)
	}

	font := excelize.Font{Family: r.cfg.FontFamily, Size: r.cfg.FontSize}
	titleFont := font
	titleFont.Bold = true
	titleFont.Size = r.cfg.FontSize + 4

	chart := &excelize.Chart{
		Type:   excelize.Col,
		Series: series,
		Title:  []excelize.RichTextRun{{Text: title, Font: &titleFont}},
		Dimension: excelize.ChartDimension{
			Width:  r.cfg.Width,
			Height: r.cfg.Height,
		},
		Legend: excelize.ChartLegend{Position: "right"},
		XAxis:  excelize.ChartAxis{None: true},
		YAxis: excelize.ChartAxis{
			MajorGridLines: true,
			Font:           font,
			Title:          []excelize.RichTextRun{{Text: YAxisTitle, Font: &font}},
		},
	}
	if err := f.AddChart(sheet, "G2", chart); err != nil {
		return apperrors.NewStorageError("failed to add chart", err).
			WithContext("series", len(series))
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("failed to create chart directory", err).
			WithContext("path", path)
	}
	if err := f.SaveAs(path); err != nil {
		return apperrors.NewStorageError("failed to save chart workbook", err).
			WithContext("path", path)
	}

	r.logger.Info("Rendered chart",
		slog.String("path", path),
		slog.String("title", title),
		slog.Int("series", len(series)))
	return nil
}
