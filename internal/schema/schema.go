// Package schema validates and coerces structured request input against
// declarative per-route schemas. Validation is fail-soft: every violation
// is collected before the request is rejected, and on success the coerced
// values replace the raw input for the rest of the pipeline.
package schema

import (
	"fmt"
	"math"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

type Source string

const (
	InBody   Source = "body"
	InQuery  Source = "query"
	InParams Source = "params"
)

type Type int

const (
	TypeString Type = iota
	TypeInt
	TypeBool
	TypeDate
)

// Field is a single declarative constraint on one input field.
// Zero-valued bounds are unset.
type Field struct {
	Name       string
	In         Source
	Type       Type
	Required   bool
	MinLen     int
	MaxLen     int
	Min        *int
	Max        *int
	Enum       []string
	Pattern    *regexp.Regexp
	PatternMsg string
}

// Refinement is a whole-object predicate evaluated after per-field
// checks. Check receives the coerced values and returns false to fail.
type Refinement struct {
	Message string
	Check   func(Values) bool
}

type Schema struct {
	fields      []Field
	refinements []Refinement
}

func New(fields ...Field) *Schema {
	return &Schema{fields: fields}
}

func (s *Schema) Refine(message string, check func(Values) bool) *Schema {
	s.refinements = append(s.refinements, Refinement{Message: message, Check: check})
	return s
}

// HasBody reports whether any declared field is read from the body,
// which is what obliges the pipeline to decode one.
func (s *Schema) HasBody() bool {
	for _, f := range s.fields {
		if f.In == InBody {
			return true
		}
	}
	return false
}

type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Violations []Violation

func (v Violations) Error() string {
	msgs := make([]string, len(v))
	for i, viol := range v {
		msgs[i] = viol.Field + " " + viol.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Input is the raw material of one request: decoded JSON body, route
// params and query string.
type Input struct {
	Body   map[string]any
	Params map[string]string
	Query  url.Values
}

// Validate checks every declared field and refinement against in,
// returning the coerced values and all violations found.
func (s *Schema) Validate(in Input) (Values, Violations) {
	vals := Values{}
	var violations Violations

	for _, f := range s.fields {
		path := string(f.In) + "." + f.Name

		raw, present := f.lookup(in)
		if !present {
			if f.Required {
				violations = append(violations, Violation{Field: path, Message: "is required"})
			}
			continue
		}

		coerced, msg := f.coerce(raw)
		if msg == "" {
			msg = f.constrain(coerced)
		}
		if msg != "" {
			violations = append(violations, Violation{Field: path, Message: msg})
			continue
		}
		vals[f.Name] = coerced
	}

	for _, ref := range s.refinements {
		if !ref.Check(vals) {
			violations = append(violations, Violation{Field: string(InBody), Message: ref.Message})
		}
	}

	return vals, violations
}

// lookup finds the raw field value. Explicit JSON null and empty query
// values count as absent.
func (f Field) lookup(in Input) (any, bool) {
	switch f.In {
	case InBody:
		if in.Body == nil {
			return nil, false
		}
		v, ok := in.Body[f.Name]
		if !ok || v == nil {
			return nil, false
		}
		return v, true
	case InParams:
		v, ok := in.Params[f.Name]
		return v, ok && v != ""
	default:
		if in.Query == nil || !in.Query.Has(f.Name) {
			return nil, false
		}
		v := in.Query.Get(f.Name)
		return v, v != ""
	}
}

// coerce parses raw into the field's target type. Body values arrive as
// encoding/json types; query and param values arrive as strings.
func (f Field) coerce(raw any) (any, string) {
	switch f.Type {
	case TypeString:
		s, ok := raw.(string)
		if !ok {
			return nil, "must be a string"
		}
		return strings.TrimSpace(s), ""
	case TypeInt:
		switch v := raw.(type) {
		case string:
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, "must be an integer"
			}
			return n, ""
		case float64:
			if v != math.Trunc(v) {
				return nil, "must be an integer"
			}
			return int(v), ""
		default:
			return nil, "must be an integer"
		}
	case TypeBool:
		switch v := raw.(type) {
		case bool:
			return v, ""
		case string:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, "must be a boolean"
			}
			return b, ""
		default:
			return nil, "must be a boolean"
		}
	default: // TypeDate
		s, ok := raw.(string)
		if !ok {
			return nil, "must be a valid date"
		}
		for _, layout := range []string{"2006-01-02", time.RFC3339} {
			if t, err := time.Parse(layout, s); err == nil {
				return t, ""
			}
		}
		return nil, "must be a valid date"
	}
}

// constrain applies the declarative bounds to an already-coerced value.
func (f Field) constrain(v any) string {
	switch val := v.(type) {
	case string:
		n := utf8.RuneCountInString(val)
		if f.Required && f.MinLen == 0 && n == 0 {
			return "must not be empty"
		}
		if f.MinLen > 0 && n < f.MinLen {
			if f.MinLen == 1 {
				return "must not be empty"
			}
			return fmt.Sprintf("must be at least %d characters", f.MinLen)
		}
		if f.MaxLen > 0 && n > f.MaxLen {
			return fmt.Sprintf("must be at most %d characters", f.MaxLen)
		}
		if len(f.Enum) > 0 && !contains(f.Enum, val) {
			return "must be one of: " + strings.Join(f.Enum, ", ")
		}
		if f.Pattern != nil && !f.Pattern.MatchString(val) {
			if f.PatternMsg != "" {
				return f.PatternMsg
			}
			return "has an invalid format"
		}
	case int:
		if f.Min != nil && val < *f.Min {
			return fmt.Sprintf("must be at least %d", *f.Min)
		}
		if f.Max != nil && val > *f.Max {
			return fmt.Sprintf("must be at most %d", *f.Max)
		}
	}
	return ""
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}

// IntP is a convenience for numeric bounds in schema literals.
func IntP(n int) *int { return &n }
