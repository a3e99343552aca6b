package dataset

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"

	apperrors "github.com/Adithya-Monish-Kumar-K/idiomdex/pkg/errors"
)

// stringList accepts a JSON array of strings, a single string, or null.
type stringList []string

func (s *stringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var one string
		if err := json.Unmarshal(data, &one); err != nil {
			return err
		}
		if one == "" {
			*s = nil
		} else {
			*s = stringList{one}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*s = many
	return nil
}

type rawRecord struct {
	Idiom      string     `json:"idiom"`
	Pinyin     string     `json:"pinyin"`
	Definition string     `json:"definition"`
	Usage      string     `json:"usage"`
	Source     *Citation  `json:"source"`
	Example    *Citation  `json:"example"`
	Similar    stringList `json:"similar"`
	Opposite   stringList `json:"opposite"`
	Story      stringList `json:"story"`
}

// NormalizeOptions controls record normalization.
type NormalizeOptions struct {
	FixPunctuation bool
}

// Batch is the normalized content of one resource.
type Batch struct {
	Entries []Entry
	Skipped int
}

// Normalize decodes a JSON array of raw records into Entries with defaults
// and derived fields filled in. A body that is not a JSON array fails with
// ErrMalformedResponse; individual bad records are skipped and counted.
func Normalize(body []byte, opts NormalizeOptions) (Batch, error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(body, &raws); err != nil {
		return Batch{}, apperrors.Newf(apperrors.ErrMalformedResponse, 0, "expected a JSON array of records: %v", err)
	}
	logger := slog.Default().With("component", "normalizer")
	batch := Batch{Entries: make([]Entry, 0, len(raws))}
	for i, raw := range raws {
		entry, err := decodeRecord(raw, opts)
		if err != nil {
			batch.Skipped++
			logger.Warn("skipping record", "position", i, "error", err)
			continue
		}
		batch.Entries = append(batch.Entries, entry)
	}
	return batch, nil
}

func decodeRecord(raw json.RawMessage, opts NormalizeOptions) (Entry, error) {
	var rec rawRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Entry{}, apperrors.Newf(apperrors.ErrInvalidRecord, 0, "decoding: %v", err)
	}
	if err := validateRecord(&rec); err != nil {
		return Entry{}, err
	}
	entry := Entry{
		Key:           strings.TrimSpace(rec.Idiom),
		Pronunciation: strings.TrimSpace(rec.Pinyin),
		Definition:    rec.Definition,
		Usage:         rec.Usage,
		Similar:       nonEmpty(rec.Similar),
		Opposite:      nonEmpty(rec.Opposite),
		Story:         nonEmpty(rec.Story),
	}
	if rec.Source != nil {
		entry.Source = *rec.Source
	}
	if rec.Example != nil {
		entry.Example = *rec.Example
	}
	if opts.FixPunctuation {
		FixEntryPunctuation(&entry)
	}
	entry.derive()
	return entry, nil
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
