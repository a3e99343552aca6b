// Package dictprep prepares dictionary files for serving: splitting one
// large record array into numbered partitions and repairing sentence
// endings in prose fields.
package dictprep

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	apperrors "github.com/Adithya-Monish-Kumar-K/idiomdex/pkg/errors"
)

// DefaultPattern names partitions the way the loader expects them.
const DefaultPattern = "idioms_part%d.json"

// Part is one written partition.
type Part struct {
	Path    string
	Records int
}

// Split cuts records into exactly parts slices of ceil(len/parts) records
// each. Trailing slices are empty when there are too few records.
func Split[T any](records []T, parts int) [][]T {
	if parts < 1 {
		return nil
	}
	per := (len(records) + parts - 1) / parts
	out := make([][]T, parts)
	for i := range out {
		start := min(i*per, len(records))
		end := min(start+per, len(records))
		out[i] = records[start:end]
	}
	return out
}

// SplitFile reads a record array from in and writes parts partition files
// into outDir named by pattern, numbered from 1.
func SplitFile(in, outDir, pattern string, parts int) ([]Part, error) {
	if parts < 1 {
		return nil, apperrors.Newf(apperrors.ErrInvalidInput, 0, "parts must be at least 1, got %d", parts)
	}
	if pattern == "" {
		pattern = DefaultPattern
	}
	records, err := readRecords[json.RawMessage](in)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", outDir, err)
	}

	logger := slog.Default().With("component", "dictprep")
	written := make([]Part, 0, parts)
	for i, chunk := range Split(records, parts) {
		if chunk == nil {
			chunk = []json.RawMessage{}
		}
		path := filepath.Join(outDir, fmt.Sprintf(pattern, i+1))
		if err := writeJSON(path, chunk); err != nil {
			return written, err
		}
		written = append(written, Part{Path: path, Records: len(chunk)})
		logger.Info("partition written", "path", path, "records", len(chunk))
	}
	return written, nil
}

// FixedName is the default output path for FixFile: the input stem with a
// _fixed suffix, next to the input.
func FixedName(in string) string {
	ext := filepath.Ext(in)
	return strings.TrimSuffix(in, ext) + "_fixed" + ext
}

// FixFile appends missing full stops to the prose fields of every record in
// in and writes the result to out, or FixedName(in) when out is empty. Field
// order is kept. It returns the path written and the number of records.
func FixFile(in, out string) (string, int, error) {
	records, err := readRecords[json.RawMessage](in)
	if err != nil {
		return "", 0, err
	}
	for i, rec := range records {
		records[i] = fixRecord(rec)
	}
	if out == "" {
		out = FixedName(in)
	}
	if err := writeJSON(out, records); err != nil {
		return "", 0, err
	}
	slog.Default().With("component", "dictprep").Info("punctuation fixed", "in", in, "out", out, "records", len(records))
	return out, len(records), nil
}

func readRecords[T any](path string) ([]T, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.Newf(apperrors.ErrNotFound, 0, "%s", path)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var records []T
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, apperrors.Newf(apperrors.ErrMalformedResponse, 0, "%s: expected a JSON array of records: %v", path, err)
	}
	return records, nil
}

func writeJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
