package cli

import (
	"bytes"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/RectSect/internal/export"
	"github.com/piwi3910/RectSect/internal/model"
	"github.com/piwi3910/RectSect/internal/project"
)

const exampleJSON = `{"rects": [
	{"x": 100, "y": 100, "w": 250, "h": 80},
	{"x": 120, "y": 200, "w": 250, "h": 150},
	{"x": 140, "y": 160, "w": 250, "h": 100},
	{"x": 160, "y": 140, "w": 350, "h": 190}
]}`

func TestParse_Positional(t *testing.T) {
	opts, err := Parse([]string{"rects.json"})
	require.NoError(t, err)
	assert.Equal(t, "rects.json", opts.Path)
	assert.Equal(t, -1, opts.MaxRectangles)
	assert.Equal(t, -1, opts.MaxOrder)
	assert.Equal(t, -1, opts.Workers)

	opts, err = Parse([]string{"rects.json", "25"})
	require.NoError(t, err)
	assert.Equal(t, 25, opts.MaxRectangles)

	opts, err = Parse([]string{"rects.json", "0"})
	require.NoError(t, err)
	assert.Equal(t, 0, opts.MaxRectangles)
}

func TestParse_FlagsAnywhere(t *testing.T) {
	opts, err := Parse([]string{"-v", "rects.csv", "-max-order", "3", "7", "-pdf", "out.pdf", "-workers=4"})
	require.NoError(t, err)

	assert.Equal(t, "rects.csv", opts.Path)
	assert.Equal(t, 7, opts.MaxRectangles)
	assert.Equal(t, 3, opts.MaxOrder)
	assert.Equal(t, 4, opts.Workers)
	assert.Equal(t, "out.pdf", opts.PDFPath)
	assert.True(t, opts.Verbose)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"no arguments", nil, ErrMissingPath},
		{"only flags", []string{"-v"}, ErrMissingPath},
		{"too many", []string{"a.json", "1", "2"}, ErrTooManyArguments},
		{"size not a number", []string{"a.json", "ten"}, ErrInvalidSize},
		{"size fractional", []string{"a.json", "1.5"}, ErrInvalidSize},
		{"wrong extension", []string{"a.txt"}, ErrInvalidExtension},
		{"no extension", []string{"rects"}, ErrInvalidExtension},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.args)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestParse_FlagErrors(t *testing.T) {
	_, err := Parse([]string{"a.json", "-nope"})
	assert.Error(t, err)

	_, err = Parse([]string{"a.json", "-max-order", "-1"})
	assert.Error(t, err)

	_, err = Parse([]string{"a.json", "-workers", "0"})
	assert.Error(t, err)

	_, err = Parse([]string{"-h"})
	assert.True(t, errors.Is(err, flag.ErrHelp))
}

func writeInput(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "rects.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRun_Example(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		Path:          writeInput(t, dir, exampleJSON),
		MaxRectangles: -1,
		ConfigPath:    filepath.Join(dir, "config.json"),
		MaxOrder:      -1,
		Workers:       -1,
	}

	var stdout, stderr bytes.Buffer
	code := Run(opts, &stdout, &stderr)

	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "Input:\n\t1: Rectangle at (100,100), w=250, h=80.\n")
	assert.Contains(t, stdout.String(), "\tBetween rectangle 2, 3 and 4 at (160,200), w=210, h=60.\n")
	assert.Empty(t, stderr.String())
}

func TestRun_MaxOrderAndCap(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		Path:          writeInput(t, dir, exampleJSON),
		MaxRectangles: 3,
		ConfigPath:    filepath.Join(dir, "config.json"),
		MaxOrder:      2,
		Workers:       2,
	}

	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, Run(opts, &stdout, &stderr))

	assert.NotContains(t, stdout.String(), "4: Rectangle")
	assert.Contains(t, stdout.String(), "Between rectangle 1 and 3")
	assert.NotContains(t, stdout.String(), "Between rectangle 1, 3")
	assert.Contains(t, stderr.String(), "warning: Read first 3 of 4 rectangles")
}

// twelveSquares is an input with more rectangles than the default cap.
func twelveSquares() string {
	content := `{"rects": [`
	for i := 0; i < 12; i++ {
		if i > 0 {
			content += ","
		}
		content += `{"x": 0, "y": 0, "w": 1, "h": 1}`
	}
	return content + `]}`
}

func TestRun_ConfigDefaultsCapAtTen(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		Path:          writeInput(t, dir, twelveSquares()),
		MaxRectangles: -1,
		ConfigPath:    filepath.Join(dir, "config.json"),
		MaxOrder:      2,
		Workers:       -1,
	}

	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, Run(opts, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "10: Rectangle")
	assert.NotContains(t, stdout.String(), "11: Rectangle")
	assert.Contains(t, stderr.String(), "Read first 10 of 12")
}

func TestRun_RestorePartialBackupCapsAtTen(t *testing.T) {
	dir := t.TempDir()
	backupPath := filepath.Join(dir, "backup.json")
	require.NoError(t, os.WriteFile(backupPath, []byte(`{"version":"1.0.0","config":{"max_order":2}}`), 0644))

	opts := Options{
		Path:          writeInput(t, dir, twelveSquares()),
		MaxRectangles: -1,
		RestorePath:   backupPath,
		MaxOrder:      -1,
		Workers:       -1,
	}

	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, Run(opts, &stdout, &stderr), stderr.String())
	assert.Contains(t, stdout.String(), "10: Rectangle")
	assert.NotContains(t, stdout.String(), "11: Rectangle")
	assert.Contains(t, stderr.String(), "Read first 10 of 12")
	assert.NotContains(t, stdout.String(), "Between rectangle 1, 2")
}

func TestRun_InvalidInput(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		Path:          writeInput(t, dir, `{"shapes": []}`),
		MaxRectangles: -1,
		ConfigPath:    filepath.Join(dir, "config.json"),
		MaxOrder:      -1,
		Workers:       -1,
	}

	var stdout, stderr bytes.Buffer
	assert.Equal(t, 1, Run(opts, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "error: JSON file does not contain key: rects")
	assert.Empty(t, stdout.String())
}

func TestRun_BadConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte("{oops"), 0644))

	opts := Options{
		Path:       writeInput(t, dir, exampleJSON),
		ConfigPath: cfgPath,
		MaxOrder:   -1,
		Workers:    -1,
	}

	var stdout, stderr bytes.Buffer
	assert.Equal(t, 1, Run(opts, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "failed to load config")
}

func TestRun_Exports(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	require.NoError(t, os.MkdirAll(outDir, 0755))

	cfg := model.DefaultAppConfig()
	cfg.OutputDir = outDir
	cfgPath := filepath.Join(dir, "config.json")
	require.NoError(t, project.SaveAppConfig(cfgPath, cfg))

	opts := Options{
		Path:          writeInput(t, dir, exampleJSON),
		MaxRectangles: -1,
		ConfigPath:    cfgPath,
		MaxOrder:      -1,
		Workers:       -1,
		JSONPath:      "report.json",
		ExcelPath:     "report.xlsx",
		PDFPath:       "report.pdf",
		LabelsPath:    "labels.pdf",
		PNGPath:       "plot.png",
		DXFPath:       filepath.Join(dir, "plot.dxf"),
		Verbose:       true,
	}

	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, Run(opts, &stdout, &stderr), stderr.String())

	for _, name := range []string{"report.json", "report.xlsx", "report.pdf", "labels.pdf", "plot.png"} {
		assert.FileExists(t, filepath.Join(outDir, name))
	}
	assert.FileExists(t, filepath.Join(dir, "plot.dxf"))
	assert.Contains(t, stderr.String(), "[engine]")

	report, err := export.LoadReport(filepath.Join(outDir, "report.json"))
	require.NoError(t, err)
	assert.Len(t, report.Intersections, 7)
	assert.Equal(t, opts.Path, report.Source)
}

func TestRun_SaveConfigAndBackup(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "cfg", "config.json")
	backupPath := filepath.Join(dir, "backup.json")

	opts := Options{
		Path:          writeInput(t, dir, exampleJSON),
		MaxRectangles: -1,
		ConfigPath:    cfgPath,
		SaveConfig:    true,
		BackupPath:    backupPath,
		MaxOrder:      3,
		Workers:       -1,
	}

	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, Run(opts, &stdout, &stderr), stderr.String())

	saved, err := project.LoadAppConfig(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, 3, saved.MaxOrder)

	// Restoring the backup with a lower max order applied on top.
	restore := opts
	restore.SaveConfig = false
	restore.BackupPath = ""
	restore.RestorePath = backupPath
	restore.MaxOrder = 2
	stdout.Reset()
	require.Equal(t, 0, Run(restore, &stdout, &stderr), stderr.String())
	assert.NotContains(t, stdout.String(), "Between rectangle 1, 3 and 4")
}

func TestRun_RestoreMissingBackup(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		Path:        writeInput(t, dir, exampleJSON),
		RestorePath: filepath.Join(dir, "missing.json"),
		MaxOrder:    -1,
		Workers:     -1,
	}

	var stdout, stderr bytes.Buffer
	assert.Equal(t, 1, Run(opts, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "failed to read backup file")
}
