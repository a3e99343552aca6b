package dataset

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	apperrors "github.com/Adithya-Monish-Kumar-K/idiomdex/pkg/errors"
)

const (
	maxKeyRunes        = 64
	maxDefinitionBytes = 64 << 10
)

// ValidationError holds per-field validation failure messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		keys = append(keys, field)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, field := range keys {
		parts = append(parts, fmt.Sprintf("%s:%s", field, e.Fields[field]))
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return apperrors.ErrInvalidRecord
}

func validateRecord(rec *rawRecord) error {
	errs := make(map[string]string)

	key := strings.TrimSpace(rec.Idiom)
	if key == "" {
		errs["idiom"] = "idiom is required"
	} else if utf8.RuneCountInString(key) > maxKeyRunes {
		errs["idiom"] = fmt.Sprintf("idiom must be at most %d characters", maxKeyRunes)
	}
	if len(rec.Definition) > maxDefinitionBytes {
		errs["definition"] = fmt.Sprintf("definition must be at most %d bytes", maxDefinitionBytes)
	}
	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
