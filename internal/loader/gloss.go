package loader

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/Adithya-Monish-Kumar-K/idiomdex/internal/dataset"
	apperrors "github.com/Adithya-Monish-Kumar-K/idiomdex/pkg/errors"
)

type glossRecord struct {
	Idiom string `json:"idiom"`
	dataset.Gloss
}

// ParseGlosses accepts either an object keyed by entry key or an array of
// records carrying an "idiom" field.
func ParseGlosses(body []byte) (map[string]dataset.Gloss, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var recs []glossRecord
		if err := json.Unmarshal(trimmed, &recs); err != nil {
			return nil, apperrors.Newf(apperrors.ErrMalformedResponse, 0, "gloss array: %v", err)
		}
		out := make(map[string]dataset.Gloss, len(recs))
		for _, r := range recs {
			if r.Idiom != "" {
				out[r.Idiom] = r.Gloss
			}
		}
		return out, nil
	}
	var out map[string]dataset.Gloss
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return nil, apperrors.Newf(apperrors.ErrMalformedResponse, 0, "gloss object: %v", err)
	}
	return out, nil
}

// LoadGlosses merges every gloss resource into ds. Failures are logged and
// skipped; the return value is the number of entries enriched.
func (l *Loader) LoadGlosses(ctx context.Context, ds *dataset.Dataset, refs []string) int {
	merged := 0
	for _, ref := range refs {
		body, err := l.Fetch(ctx, ref)
		if err != nil {
			l.logger.Warn("gloss resource unavailable", "ref", ref, "error", err)
			continue
		}
		glosses, err := ParseGlosses(body)
		if err != nil {
			l.logger.Warn("gloss resource malformed", "ref", ref, "error", err)
			continue
		}
		n := ds.Enrich(glosses)
		merged += n
		l.logger.Info("gloss resource merged", "ref", ref, "entries", n)
	}
	return merged
}
