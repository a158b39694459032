// Package importer reads rectangle sets from JSON, CSV, Excel and DXF
// documents. Every importer assigns dense ids 1..N in document order and
// honours an optional cap on the number of rectangles read.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/RectSect/internal/applog"
	"github.com/piwi3910/RectSect/internal/model"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Rectangles []model.Rectangle
	Errors     []string
	Warnings   []string
}

// OK reports whether the import produced no errors.
func (r ImportResult) OK() bool {
	return len(r.Errors) == 0
}

// Err joins the collected errors into one error, or returns nil.
func (r ImportResult) Err() error {
	if r.OK() {
		return nil
	}
	return fmt.Errorf("%s", strings.Join(r.Errors, "; "))
}

// SupportedExtensions lists the file types Import understands.
var SupportedExtensions = []string{".json", ".csv", ".xlsx", ".dxf"}

// Import dispatches on the file extension.
func Import(path string, maxRectangles int) ImportResult {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ImportJSON(path, maxRectangles)
	case ".csv":
		return ImportCSV(path, maxRectangles)
	case ".xlsx", ".xlsm":
		return ImportExcel(path, maxRectangles)
	case ".dxf":
		return ImportDXF(path, maxRectangles)
	default:
		return ImportResult{Errors: []string{fmt.Sprintf(
			"Unsupported file extension %q (expected one of %s)",
			filepath.Ext(path), strings.Join(SupportedExtensions, ", "))}}
	}
}

// pending is a parsed rectangle that has not been given its id yet.
type pending struct {
	topLeft model.Vertex
	width   uint32
	height  uint32
}

// finish applies the cap and assigns ids 1..N.
func finish(result ImportResult, parsed []pending, maxRectangles int) ImportResult {
	if maxRectangles > 0 && len(parsed) > maxRectangles {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Read first %d of %d rectangles", maxRectangles, len(parsed)))
		parsed = parsed[:maxRectangles]
	}

	for i, p := range parsed {
		r, err := model.NewRectangle(model.ID(i+1), p.topLeft, p.width, p.height)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Rectangle %d: %v", i+1, err))
			continue
		}
		result.Rectangles = append(result.Rectangles, r)
	}
	applog.Load("%d rectangles, %d errors, %d warnings", len(result.Rectangles), len(result.Errors), len(result.Warnings))
	return result
}

// newPending validates raw integer fields the same way for every format.
func newPending(x, y, w, h int64) (pending, error) {
	if x < minCoord || x > maxCoord {
		return pending{}, &model.Error{Kind: model.KindBounds, Axis: "X"}
	}
	if y < minCoord || y > maxCoord {
		return pending{}, &model.Error{Kind: model.KindBounds, Axis: "Y"}
	}
	if w <= 0 || h <= 0 {
		return pending{}, &model.Error{Kind: model.KindDimension}
	}
	if w > maxSize {
		return pending{}, &model.Error{Kind: model.KindBounds, Axis: "X"}
	}
	if h > maxSize {
		return pending{}, &model.Error{Kind: model.KindBounds, Axis: "Y"}
	}
	p := pending{topLeft: model.Vertex{X: int32(x), Y: int32(y)}, width: uint32(w), height: uint32(h)}
	// Run the full construction check now so errors carry the source row.
	if _, err := model.NewRectangle(model.IDUndefined, p.topLeft, p.width, p.height); err != nil {
		return pending{}, err
	}
	return p, nil
}

const (
	minCoord = -1 << 31
	maxCoord = 1<<31 - 1
	maxSize  = 1<<32 - 1
)

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	X      int
	Y      int
	Width  int
	Height int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"x":      {"x", "left", "x0", "pos x", "pos_x"},
	"y":      {"y", "top", "y0", "pos y", "pos_y"},
	"width":  {"w", "width", "wide"},
	"height": {"h", "height", "tall"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or the positional
// mapping x, y, w, h and false otherwise.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{X: -1, Y: -1, Width: -1, Height: -1}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				switch role {
				case "x":
					if mapping.X == -1 {
						mapping.X = i
					}
				case "y":
					if mapping.Y == -1 {
						mapping.Y = i
					}
				case "width":
					if mapping.Width == -1 {
						mapping.Width = i
					}
				case "height":
					if mapping.Height == -1 {
						mapping.Height = i
					}
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{X: 0, Y: 1, Width: 2, Height: 3}, false
	}
	return mapping, true
}

// getCell safely retrieves a cell value from a row by column index.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseIntCell(row []string, idx int, name, rowLabel string) (int64, string) {
	s := getCell(row, idx)
	if s == "" {
		return 0, fmt.Sprintf("%s: Missing %s value", rowLabel, name)
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Sprintf("%s: Invalid %s '%s' (must be an integer)", rowLabel, name, s)
	}
	return v, ""
}

// parseRow extracts a rectangle from a row using the given column mapping.
func parseRow(row []string, mapping ColumnMapping, rowLabel string) (pending, string) {
	x, msg := parseIntCell(row, mapping.X, "x", rowLabel)
	if msg != "" {
		return pending{}, msg
	}
	y, msg := parseIntCell(row, mapping.Y, "y", rowLabel)
	if msg != "" {
		return pending{}, msg
	}
	w, msg := parseIntCell(row, mapping.Width, "width", rowLabel)
	if msg != "" {
		return pending{}, msg
	}
	h, msg := parseIntCell(row, mapping.Height, "height", rowLabel)
	if msg != "" {
		return pending{}, msg
	}

	p, err := newPending(x, y, w, h)
	if err != nil {
		return pending{}, fmt.Sprintf("%s: %v", rowLabel, err)
	}
	return p, ""
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports rectangles from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
func ImportCSV(path string, maxRectangles int) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	return importCSVData(bytes.NewReader(data), delimiter, maxRectangles, result.Warnings)
}

// ImportCSVFromReader imports rectangles from a CSV reader with a known delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune, maxRectangles int) ImportResult {
	return importCSVData(reader, delimiter, maxRectangles, nil)
}

func importCSVData(reader io.Reader, delimiter rune, maxRectangles int, warnings []string) ImportResult {
	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot read CSV: %v", err)}, Warnings: warnings}
	}
	if len(records) == 0 {
		return ImportResult{Errors: []string{"File is empty"}, Warnings: warnings}
	}

	return importFromRows(records, "Line", warnings, maxRectangles)
}

// ImportExcel imports rectangles from the first sheet of an Excel workbook.
func ImportExcel(path string, maxRectangles int) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "Sheet is empty")
		return result
	}

	return importFromRows(rows, "Row", nil, maxRectangles)
}

// importFromRows is the shared import logic for both CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string, maxRectangles int) ImportResult {
	result := ImportResult{Warnings: initialWarnings}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		var missing []string
		if mapping.X == -1 {
			missing = append(missing, "X")
		}
		if mapping.Y == -1 {
			missing = append(missing, "Y")
		}
		if mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if mapping.Height == -1 {
			missing = append(missing, "Height")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if _, err := strconv.ParseInt(getCell(rows[0], 0), 10, 64); err != nil {
		// Unrecognized header: skip it and fall back to positions
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")
	}

	var parsed []pending
	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		p, errMsg := parseRow(row, mapping, rowLabel)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		parsed = append(parsed, p)
	}

	if len(parsed) == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	return finish(result, parsed, maxRectangles)
}
