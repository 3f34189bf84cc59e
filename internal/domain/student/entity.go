package student

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/alem-hub/student-records/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIMITS
// ══════════════════════════════════════════════════════════════════════════════

const (
	// MaxIDLength is the maximum length of a student identifier.
	MaxIDLength = 64

	// MaxNameLength bounds both the student name and the course name.
	MaxNameLength = 100

	// MinYear and MaxYear bound the year of study.
	MinYear = 1
	MaxYear = 10

	// MinGPA and MaxGPA bound the grade point average.
	MinGPA = 0.0
	MaxGPA = 4.0

	// RowArity is the number of fields in a raw student row.
	RowArity = 5
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: RECORD
// ══════════════════════════════════════════════════════════════════════════════

// Record is a single student record. The ID is the only key.
// Records are values: build them with NewRecord or FromRow and never mutate
// them in place; an update is a delete followed by a new insert.
type Record struct {
	// ID is the unique student identifier, e.g. "P12345".
	ID string `json:"id" validate:"required,max=64,nowhitespace"`

	// Name is the student's full name.
	Name string `json:"name" validate:"required,max=100"`

	// Course is the programme the student is enrolled in.
	Course string `json:"course" validate:"required,max=100"`

	// Year is the year of study.
	Year int `json:"year" validate:"gte=1,lte=10"`

	// GPA is the grade point average on a 4.0 scale.
	GPA float64 `json:"gpa" validate:"gte=0,lte=4"`
}

// String returns a short human-readable form of the record.
func (r Record) String() string {
	return fmt.Sprintf("Student(id=%s, name=%q, course=%q, year=%d, gpa=%.2f)",
		r.ID, r.Name, r.Course, r.Year, r.GPA)
}

// ══════════════════════════════════════════════════════════════════════════════
// CONSTRUCTORS
// ══════════════════════════════════════════════════════════════════════════════

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("nowhitespace", func(fl validator.FieldLevel) bool {
		return !strings.ContainsFunc(fl.Field().String(), unicode.IsSpace)
	})
	return v
}

// NewRecord builds a validated record. Surrounding whitespace of the text
// fields is trimmed before validation.
func NewRecord(id, name, course string, year int, gpa float64) (Record, error) {
	r := Record{
		ID:     strings.TrimSpace(id),
		Name:   strings.TrimSpace(name),
		Course: strings.TrimSpace(course),
		Year:   year,
		GPA:    gpa,
	}
	if err := r.Validate(); err != nil {
		return Record{}, err
	}
	return r, nil
}

// ParseRecord builds a record from text input, as typed by a user.
func ParseRecord(id, name, course, year, gpa string) (Record, error) {
	y, err := parseYear(strings.TrimSpace(year))
	if err != nil {
		return Record{}, err
	}
	g, err := parseGPA(strings.TrimSpace(gpa))
	if err != nil {
		return Record{}, err
	}
	return NewRecord(id, name, course, y, g)
}

// FromRow builds a record from a raw row of unnamed fields in the order
// id, name, course, year, gpa. Mismatched arity or field types produce a
// validation error.
func FromRow(row []any) (Record, error) {
	if len(row) != RowArity {
		return Record{}, shared.NewDomainError("student", "FromRow", shared.ErrValidation,
			fmt.Sprintf("expected %d fields, got %d", RowArity, len(row)))
	}

	var text [3]string
	for i := range text {
		s, ok := row[i].(string)
		if !ok {
			return Record{}, shared.NewDomainError("student", "FromRow", shared.ErrInvalidFormat,
				fmt.Sprintf("field %d: expected string, got %T", i, row[i]))
		}
		text[i] = s
	}

	year, err := toYear(row[3])
	if err != nil {
		return Record{}, err
	}
	gpa, err := toGPA(row[4])
	if err != nil {
		return Record{}, err
	}

	return NewRecord(text[0], text[1], text[2], year, gpa)
}

// Validate checks every field of the record.
func (r Record) Validate() error {
	if math.IsNaN(r.GPA) || math.IsInf(r.GPA, 0) {
		return shared.NewDomainError("student", "Validate", shared.ErrValueOutOfRange, "gpa must be a finite number")
	}

	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return shared.WrapError("student", "Validate", shared.ErrValidation, "invalid record", err)
	}

	fe := verrs[0]
	kind := shared.ErrValidation
	switch fe.Tag() {
	case "required":
		kind = shared.ErrEmptyValue
	case "gte", "lte", "max":
		kind = shared.ErrValueOutOfRange
	case "nowhitespace":
		kind = shared.ErrInvalidID
	}
	return shared.NewDomainError("student", "Validate", kind, describeFieldError(fe))
}

func describeFieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "nowhitespace":
		return field + " must not contain whitespace"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be >= %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be <= %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Numeric field coercion
// ─────────────────────────────────────────────────────────────────────────────

func parseYear(s string) (int, error) {
	y, err := strconv.Atoi(s)
	if err != nil {
		return 0, shared.WrapError("student", "Parse", shared.ErrInvalidFormat, "year must be an integer", err)
	}
	return y, nil
}

func parseGPA(s string) (float64, error) {
	g, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, shared.WrapError("student", "Parse", shared.ErrInvalidFormat, "gpa must be a number", err)
	}
	return g, nil
}

func toYear(v any) (int, error) {
	switch y := v.(type) {
	case int:
		return y, nil
	case int16:
		return int(y), nil
	case int32:
		return int(y), nil
	case int64:
		return int(y), nil
	case string:
		return parseYear(strings.TrimSpace(y))
	default:
		return 0, shared.NewDomainError("student", "FromRow", shared.ErrInvalidFormat,
			fmt.Sprintf("year: expected integer, got %T", v))
	}
}

func toGPA(v any) (float64, error) {
	switch g := v.(type) {
	case float64:
		return g, nil
	case float32:
		return float64(g), nil
	case int:
		return float64(g), nil
	case int64:
		return float64(g), nil
	case string:
		return parseGPA(strings.TrimSpace(g))
	default:
		return 0, shared.NewDomainError("student", "FromRow", shared.ErrInvalidFormat,
			fmt.Sprintf("gpa: expected number, got %T", v))
	}
}
