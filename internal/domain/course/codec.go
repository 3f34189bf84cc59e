package course

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/alem-hub/student-records/internal/domain/shared"
)

// LegacySeparator joins prerequisite names in rows written before lists were
// stored as JSON. Course names may not contain it.
const LegacySeparator = ","

// MaxNameLength is the maximum length of a course name.
const MaxNameLength = 100

// ValidateName checks a course name: non-empty, no surrounding whitespace,
// no control characters and no LegacySeparator.
func ValidateName(name string) error {
	switch {
	case name == "":
		return shared.NewDomainError("course", "Validate", shared.ErrEmptyValue, "course name is required")
	case strings.TrimSpace(name) != name:
		return shared.NewDomainError("course", "Validate", shared.ErrInvalidFormat,
			fmt.Sprintf("course name %q has surrounding whitespace", name))
	case len(name) > MaxNameLength:
		return shared.NewDomainError("course", "Validate", shared.ErrValueOutOfRange,
			fmt.Sprintf("course name must be at most %d characters", MaxNameLength))
	case strings.Contains(name, LegacySeparator):
		return shared.NewDomainError("course", "Validate", shared.ErrInvalidFormat,
			fmt.Sprintf("course name %q must not contain %q", name, LegacySeparator))
	case strings.ContainsFunc(name, unicode.IsControl):
		return shared.NewDomainError("course", "Validate", shared.ErrInvalidFormat,
			fmt.Sprintf("course name %q contains control characters", name))
	}
	return nil
}

// EncodePrerequisites serialises a prerequisite list as a JSON array.
func EncodePrerequisites(prerequisites []string) (string, error) {
	if prerequisites == nil {
		prerequisites = []string{}
	}
	data, err := json.Marshal(prerequisites)
	if err != nil {
		return "", fmt.Errorf("encode prerequisites: %w", err)
	}
	return string(data), nil
}

// DecodePrerequisites parses a stored prerequisite list. It accepts a JSON
// array or the legacy comma-joined form; an empty string means no
// prerequisites.
func DecodePrerequisites(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []string{}, nil
	}

	if strings.HasPrefix(s, "[") {
		var out []string
		if err := json.Unmarshal([]byte(s), &out); err != nil {
			return nil, shared.WrapError("course", "Decode", shared.ErrInvalidFormat, "malformed prerequisite list", err)
		}
		if out == nil {
			out = []string{}
		}
		return out, nil
	}

	parts := strings.Split(s, LegacySeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out, nil
}
