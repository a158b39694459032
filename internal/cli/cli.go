// Package cli parses the rectsect command line and runs the load,
// intersect and report pipeline.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/piwi3910/RectSect/internal/importer"
)

// Usage is printed on argument errors and for -h.
const Usage = `rectsect - find every overlap among axis-aligned rectangles

Usage:
  rectsect <path/to/file.json> [max_rectangles] [options]

The input may be .json ({"rects": [{"x":..,"y":..,"w":..,"h":..}]}),
.csv, .xlsx or .dxf. max_rectangles caps how many rectangles are read
(default 10 from the config file, 0 reads all).

Options:
  -config PATH     Config file (default ~/.rectsect/config.json)
  -restore PATH    Take the config from a backup file instead
  -save-config     Write the effective config back to -config
  -backup PATH     Write a backup of the effective config
  -max-order N     Largest number of rectangles in one intersection (0 = no limit)
  -workers N       Goroutines used by the search
  -json PATH       Write a JSON report
  -xlsx PATH       Write an Excel workbook
  -pdf PATH        Write a PDF report
  -labels PATH     Write a PDF sheet of QR-coded intersection labels
  -png PATH        Write a PNG plot
  -dxf PATH        Write a DXF drawing
  -v               Verbose output

Examples:
  rectsect rects.json
  rectsect rects.json 0 -max-order 3
  rectsect rects.csv 50 -pdf report.pdf -png plot.png -v
`

// Argument errors. Parse wraps them with details; use errors.Is.
var (
	ErrMissingPath      = errors.New("missing path to input file")
	ErrTooManyArguments = errors.New("too many arguments")
	ErrInvalidSize      = errors.New("max_rectangles must be a non-negative integer")
	ErrInvalidExtension = errors.New("unsupported file extension")
)

// Options is the parsed command line. Negative MaxRectangles, MaxOrder and
// Workers mean the value was not given and the config decides.
type Options struct {
	Path          string
	MaxRectangles int

	ConfigPath  string
	RestorePath string
	SaveConfig  bool
	BackupPath  string

	MaxOrder int
	Workers  int

	JSONPath   string
	ExcelPath  string
	PDFPath    string
	LabelsPath string
	PNGPath    string
	DXFPath    string

	Verbose bool
}

// Parse reads args (without the program name). Flags may appear before,
// between or after the positional arguments. Every error it returns is an
// argument error; flag.ErrHelp is returned unchanged for -h.
func Parse(args []string) (Options, error) {
	opts := Options{MaxRectangles: -1}

	fs := flag.NewFlagSet("rectsect", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&opts.ConfigPath, "config", "", "config file")
	fs.StringVar(&opts.RestorePath, "restore", "", "backup file to take the config from")
	fs.BoolVar(&opts.SaveConfig, "save-config", false, "write the effective config")
	fs.StringVar(&opts.BackupPath, "backup", "", "backup output")
	fs.IntVar(&opts.MaxOrder, "max-order", 0, "maximum intersection order")
	fs.IntVar(&opts.Workers, "workers", 0, "worker goroutines")
	fs.StringVar(&opts.JSONPath, "json", "", "JSON report output")
	fs.StringVar(&opts.ExcelPath, "xlsx", "", "Excel output")
	fs.StringVar(&opts.PDFPath, "pdf", "", "PDF output")
	fs.StringVar(&opts.LabelsPath, "labels", "", "label sheet output")
	fs.StringVar(&opts.PNGPath, "png", "", "PNG output")
	fs.StringVar(&opts.DXFPath, "dxf", "", "DXF output")
	fs.BoolVar(&opts.Verbose, "v", false, "verbose output")

	var positional []string
	rest := args
	for {
		if err := fs.Parse(rest); err != nil {
			return Options{}, err
		}
		if fs.NArg() == 0 {
			break
		}
		positional = append(positional, fs.Arg(0))
		rest = fs.Args()[1:]
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if !set["max-order"] {
		opts.MaxOrder = -1
	} else if opts.MaxOrder < 0 {
		return Options{}, fmt.Errorf("-max-order must be >= 0, got %d", opts.MaxOrder)
	}
	if !set["workers"] {
		opts.Workers = -1
	} else if opts.Workers < 1 {
		return Options{}, fmt.Errorf("-workers must be >= 1, got %d", opts.Workers)
	}

	switch {
	case len(positional) == 0:
		return Options{}, ErrMissingPath
	case len(positional) > 2:
		return Options{}, fmt.Errorf("%w: expected <path> [max_rectangles], got %d arguments", ErrTooManyArguments, len(positional))
	}

	opts.Path = positional[0]
	if !supported(opts.Path) {
		return Options{}, fmt.Errorf("%w %q: file must end in one of %s",
			ErrInvalidExtension, filepath.Ext(opts.Path), strings.Join(importer.SupportedExtensions, ", "))
	}

	if len(positional) == 2 {
		n, err := strconv.ParseUint(positional[1], 10, 31)
		if err != nil {
			return Options{}, fmt.Errorf("%w: %q", ErrInvalidSize, positional[1])
		}
		opts.MaxRectangles = int(n)
	}

	return opts, nil
}

func supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, s := range importer.SupportedExtensions {
		if ext == s {
			return true
		}
	}
	return false
}
