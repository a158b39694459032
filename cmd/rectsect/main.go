// Package main provides the rectsect command line tool.
//
// Usage:
//
//	rectsect <path/to/file.json> [max_rectangles] [options]
//
// Examples:
//
//	rectsect rects.json                 Print every intersection of the first 10 rectangles
//	rectsect rects.json 0               Read every rectangle in the file
//	rectsect rects.json -max-order 3    Stop at triples
//	rectsect rects.csv -pdf report.pdf  Also write a PDF report
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/piwi3910/RectSect/internal/cli"
)

func main() {
	opts, err := cli.Parse(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		fmt.Print(cli.Usage)
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n\n", err)
		fmt.Fprint(os.Stderr, cli.Usage)
		os.Exit(1)
	}

	os.Exit(cli.Run(opts, os.Stdout, os.Stderr))
}
