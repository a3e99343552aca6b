package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"unicode"

	apperrors "github.com/Adithya-Monish-Kumar-K/idiomdex/pkg/errors"
)

// ExamSentence is an official example sentence for one entry key.
type ExamSentence struct {
	Key      string
	Sentence string
}

// ExamSet groups the sentences of one exam paper in document order.
type ExamSet struct {
	Exam      string
	Sentences []ExamSentence
}

// ParseExams decodes an object of exam id -> (entry key -> sentence). Sets
// are ordered by exam id descending with numeric-aware collation; sentences
// keep their document order. Non-string sentences are skipped.
func ParseExams(body []byte) ([]ExamSet, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	if err := expectDelim(dec, '{'); err != nil {
		return nil, err
	}
	var sets []ExamSet
	for dec.More() {
		exam, err := stringToken(dec)
		if err != nil {
			return nil, err
		}
		set := ExamSet{Exam: exam}
		if err := expectDelim(dec, '{'); err != nil {
			return nil, fmt.Errorf("exam %q: %w", exam, err)
		}
		for dec.More() {
			key, err := stringToken(dec)
			if err != nil {
				return nil, err
			}
			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return nil, apperrors.Newf(apperrors.ErrMalformedResponse, 0, "exam %q key %q: %v", exam, key, err)
			}
			var sentence string
			if json.Unmarshal(raw, &sentence) != nil {
				continue
			}
			set.Sentences = append(set.Sentences, ExamSentence{Key: key, Sentence: sentence})
		}
		if err := expectDelim(dec, '}'); err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}
	sort.SliceStable(sets, func(i, j int) bool {
		return naturalLess(sets[j].Exam, sets[i].Exam)
	})
	return sets, nil
}

// LoadExams fetches and parses the exam cross-reference resource.
func (l *Loader) LoadExams(ctx context.Context, ref string) ([]ExamSet, error) {
	body, err := l.Fetch(ctx, ref)
	if err != nil {
		return nil, err
	}
	sets, err := ParseExams(body)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", ref, err)
	}
	l.logger.Info("exam resource loaded", "ref", ref, "exams", len(sets))
	return sets, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return apperrors.Newf(apperrors.ErrMalformedResponse, 0, "reading token: %v", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return apperrors.Newf(apperrors.ErrMalformedResponse, 0, "expected %q, got %v", want, tok)
	}
	return nil
}

func stringToken(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", apperrors.Newf(apperrors.ErrMalformedResponse, 0, "reading key: %v", err)
	}
	s, ok := tok.(string)
	if !ok {
		return "", apperrors.Newf(apperrors.ErrMalformedResponse, 0, "expected object key, got %v", tok)
	}
	return s, nil
}

// naturalLess compares strings treating runs of digits as numbers, so
// "2023 June 9" sorts before "2023 June 10".
func naturalLess(a, b string) bool {
	ra, rb := []rune(a), []rune(b)
	i, j := 0, 0
	for i < len(ra) && j < len(rb) {
		if unicode.IsDigit(ra[i]) && unicode.IsDigit(rb[j]) {
			si := i
			for i < len(ra) && unicode.IsDigit(ra[i]) {
				i++
			}
			sj := j
			for j < len(rb) && unicode.IsDigit(rb[j]) {
				j++
			}
			na, nb := trimZeros(ra[si:i]), trimZeros(rb[sj:j])
			if len(na) != len(nb) {
				return len(na) < len(nb)
			}
			if c := compareRunes(na, nb); c != 0 {
				return c < 0
			}
			continue
		}
		if ra[i] != rb[j] {
			return ra[i] < rb[j]
		}
		i++
		j++
	}
	return len(ra)-i < len(rb)-j
}

func trimZeros(rs []rune) []rune {
	for len(rs) > 1 && rs[0] == '0' {
		rs = rs[1:]
	}
	return rs
}

func compareRunes(a, b []rune) int {
	for k := range a {
		if a[k] != b[k] {
			if a[k] < b[k] {
				return -1
			}
			return 1
		}
	}
	return 0
}
