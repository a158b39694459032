package importer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
)

// RectsKey is the top-level key that holds the rectangle array.
const RectsKey = "rects"

var rectFields = []string{"x", "y", "w", "h"}

// ImportJSON reads a document of the form
//
//	{"rects": [{"x": 100, "y": 100, "w": 250, "h": 80}, ...]}
//
// Each element must carry integer x, y, w and h fields. Other keys, at the
// top level or inside an element, are ignored.
func ImportJSON(path string, maxRectangles int) ImportResult {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ImportResult{Errors: []string{fmt.Sprintf("File does not exist: %s", path)}}
	case err != nil:
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot open file: %v", err)}}
	case info.IsDir():
		return ImportResult{Errors: []string{fmt.Sprintf("Path is a directory, not a file: %s", path)}}
	case info.Size() == 0:
		return ImportResult{Errors: []string{fmt.Sprintf("File is empty: %s", path)}}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot open file: %v", err)}}
	}
	return importJSONData(data, path, maxRectangles)
}

// ImportJSONFromReader reads the same document format from r.
func ImportJSONFromReader(r io.Reader, maxRectangles int) ImportResult {
	data, err := io.ReadAll(r)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot read JSON: %v", err)}}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return ImportResult{Errors: []string{"File is empty"}}
	}
	return importJSONData(data, "input", maxRectangles)
}

func importJSONData(data []byte, source string, maxRectangles int) ImportResult {
	result := ImportResult{}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Could not parse JSON at %s: %v", source, err))
		return result
	}

	raw, ok := doc[RectsKey]
	if !ok {
		result.Errors = append(result.Errors, fmt.Sprintf("JSON file does not contain key: %s", RectsKey))
		return result
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil || elems == nil {
		result.Errors = append(result.Errors, fmt.Sprintf("JSON object at key [%s] is not an array", RectsKey))
		return result
	}

	var parsed []pending
	for i, elem := range elems {
		p, err := parseJSONRect(elem)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Element %d: %v", i, err))
			continue
		}
		parsed = append(parsed, p)
	}

	// A partially valid document is rejected as a whole.
	if len(result.Errors) > 0 {
		return result
	}
	if len(parsed) == 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("No rectangles under key [%s]", RectsKey))
	}
	return finish(result, parsed, maxRectangles)
}

var errNotRectangle = errors.New("JSON object does not define a rectangle")

func parseJSONRect(elem json.RawMessage) (pending, error) {
	dec := json.NewDecoder(bytes.NewReader(elem))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil || fields == nil {
		return pending{}, errNotRectangle
	}

	var vals [4]int64
	for i, name := range rectFields {
		v, ok := fields[name]
		if !ok {
			return pending{}, fmt.Errorf("%w: missing %q", errNotRectangle, name)
		}
		n, ok := v.(json.Number)
		if !ok {
			return pending{}, fmt.Errorf("%w: %q is not a number", errNotRectangle, name)
		}
		iv, err := strconv.ParseInt(n.String(), 10, 64)
		if err != nil {
			return pending{}, fmt.Errorf("%w: %q is not an integer", errNotRectangle, name)
		}
		vals[i] = iv
	}

	return newPending(vals[0], vals[1], vals[2], vals[3])
}
