package export

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/piwi3910/RectSect/internal/applog"
	"github.com/piwi3910/RectSect/internal/engine"
	"github.com/piwi3910/RectSect/internal/model"
)

// BuildReport assembles a Report for one run.
func BuildReport(source string, settings model.IntersectSettings, rects []model.Rectangle, ins []engine.Intersection) model.Report {
	report := model.NewReport(source, settings)
	report.Rectangles = append(report.Rectangles, rects...)
	report.Intersections = append(report.Intersections, engine.Records(ins)...)
	report.Summary = engine.Summarize(rects, ins)
	return report
}

// ExportJSON writes report as indented JSON.
func ExportJSON(path string, report model.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	applog.Export("report %s written to %s", report.ID, path)
	return nil
}

// LoadReport reads a report written by ExportJSON. Rectangles are
// re-validated while decoding.
func LoadReport(path string) (model.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Report{}, fmt.Errorf("failed to read report: %w", err)
	}
	var report model.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return model.Report{}, fmt.Errorf("failed to parse report: %w", err)
	}
	return report, nil
}
