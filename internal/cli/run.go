package cli

import (
	"fmt"
	"io"

	"github.com/piwi3910/RectSect/internal/applog"
	"github.com/piwi3910/RectSect/internal/engine"
	"github.com/piwi3910/RectSect/internal/export"
	"github.com/piwi3910/RectSect/internal/importer"
	"github.com/piwi3910/RectSect/internal/model"
	"github.com/piwi3910/RectSect/internal/project"
)

// Run loads the input, finds every intersection, prints the text report to
// stdout and writes any requested exports. It returns the process exit
// code; errors and warnings go to stderr.
func Run(opts Options, stdout, stderr io.Writer) int {
	if opts.Verbose {
		applog.SetOutput(stderr)
		defer applog.SetOutput(nil)
	}

	fail := func(err error) int {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return fail(err)
	}
	applyOverrides(&cfg, opts)

	if err := saveConfig(opts, cfg); err != nil {
		return fail(err)
	}

	maxRects := cfg.MaxRectangles
	if opts.MaxRectangles >= 0 {
		maxRects = opts.MaxRectangles
	}

	result := importer.Import(opts.Path, maxRects)
	for _, w := range result.Warnings {
		fmt.Fprintf(stderr, "warning: %s\n", w)
	}
	if !result.OK() {
		for _, e := range result.Errors {
			fmt.Fprintf(stderr, "error: %s\n", e)
		}
		return 1
	}

	settings := model.DefaultSettings()
	cfg.ApplyToSettings(&settings)

	eng, err := engine.NewWithSettings(result.Rectangles, settings)
	if err != nil {
		return fail(err)
	}
	rects := eng.Rectangles()
	ins := eng.IntersectAll()

	if err := export.WriteText(stdout, rects, ins); err != nil {
		return fail(err)
	}

	if err := writeExports(opts, cfg, settings, rects, ins); err != nil {
		return fail(err)
	}
	return 0
}

func loadConfig(opts Options) (model.AppConfig, error) {
	if opts.RestorePath != "" {
		backup, err := project.ReadBackup(opts.RestorePath)
		if err != nil {
			return model.AppConfig{}, err
		}
		applog.Config("restored config from backup %s (version %s, %s)", opts.RestorePath, backup.Version, backup.CreatedAt)
		return backup.Config, nil
	}

	path := opts.ConfigPath
	if path == "" {
		path = project.DefaultConfigPath()
	}
	cfg, err := project.LoadAppConfig(path)
	if err != nil {
		return model.AppConfig{}, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return cfg, nil
}

func applyOverrides(cfg *model.AppConfig, opts Options) {
	if opts.MaxOrder >= 0 {
		cfg.MaxOrder = opts.MaxOrder
	}
	if opts.Workers >= 1 {
		cfg.Workers = opts.Workers
	}
}

func saveConfig(opts Options, cfg model.AppConfig) error {
	if opts.SaveConfig {
		path := opts.ConfigPath
		if path == "" {
			path = project.DefaultConfigPath()
		}
		if err := project.SaveAppConfig(path, cfg); err != nil {
			return fmt.Errorf("failed to save config %s: %w", path, err)
		}
	}
	if opts.BackupPath != "" {
		if err := project.WriteBackup(opts.BackupPath, cfg); err != nil {
			return err
		}
	}
	return nil
}

func writeExports(opts Options, cfg model.AppConfig, settings model.IntersectSettings, rects []model.Rectangle, ins []engine.Intersection) error {
	out := func(p string) string { return project.ResolveOutputPath(cfg.OutputDir, p) }
	summary := engine.Summarize(rects, ins)
	style := cfg.Style()

	if opts.JSONPath != "" {
		report := export.BuildReport(opts.Path, settings, rects, ins)
		if err := export.ExportJSON(out(opts.JSONPath), report); err != nil {
			return err
		}
	}
	if opts.ExcelPath != "" {
		if err := export.ExportExcel(out(opts.ExcelPath), rects, ins, summary); err != nil {
			return err
		}
	}
	if opts.PDFPath != "" {
		if err := export.ExportPDF(out(opts.PDFPath), rects, ins, summary, style); err != nil {
			return err
		}
	}
	if opts.LabelsPath != "" {
		if err := export.ExportLabels(out(opts.LabelsPath), ins); err != nil {
			return err
		}
	}
	if opts.PNGPath != "" {
		if err := export.ExportPNG(out(opts.PNGPath), rects, ins, style); err != nil {
			return err
		}
	}
	if opts.DXFPath != "" {
		if err := export.ExportDXF(out(opts.DXFPath), rects, ins); err != nil {
			return err
		}
	}
	return nil
}
