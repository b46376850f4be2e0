package schema

import (
	"net/url"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema_Validate(t *testing.T) {
	sch := New(
		Field{Name: "title", In: InBody, Type: TypeString, Required: true, MaxLen: 100},
		Field{Name: "status", In: InBody, Type: TypeString, Enum: []string{"pending", "in-progress", "completed"}},
		Field{Name: "due_date", In: InBody, Type: TypeDate},
		Field{Name: "page", In: InQuery, Type: TypeInt, Min: IntP(1)},
		Field{Name: "confirm", In: InQuery, Type: TypeBool},
	)

	tests := []struct {
		name       string
		in         Input
		wantFields []string // violated field paths, in order
		check      func(*testing.T, Values)
	}{
		{
			name: "valid input with coercion",
			in: Input{
				Body:  map[string]any{"title": "Buy milk", "status": "pending", "due_date": "2026-01-15"},
				Query: url.Values{"page": {"2"}, "confirm": {"true"}},
			},
			check: func(t *testing.T, v Values) {
				assert.Equal(t, "Buy milk", v.String("title"))
				assert.Equal(t, 2, v.IntOr("page", 1))
				assert.True(t, v.Bool("confirm"))
				require.NotNil(t, v.TimePtr("due_date"))
				assert.Equal(t, time.January, v.TimePtr("due_date").Month())
			},
		},
		{
			name:       "missing required field",
			in:         Input{Body: map[string]any{"status": "pending"}},
			wantFields: []string{"body.title"},
		},
		{
			name:       "empty title",
			in:         Input{Body: map[string]any{"title": "   "}},
			wantFields: []string{"body.title"},
		},
		{
			name:       "explicit null is absent",
			in:         Input{Body: map[string]any{"title": nil}},
			wantFields: []string{"body.title"},
		},
		{
			name: "collects all violations",
			in: Input{
				Body:  map[string]any{"title": "", "status": "done", "due_date": "soon"},
				Query: url.Values{"page": {"zero"}},
			},
			wantFields: []string{"body.title", "body.status", "body.due_date", "query.page"},
		},
		{
			name:       "wrong body type",
			in:         Input{Body: map[string]any{"title": 42}},
			wantFields: []string{"body.title"},
		},
		{
			name:       "fractional number is not an integer",
			in:         Input{Body: map[string]any{"title": "ok"}, Query: url.Values{"page": {"1.5"}}},
			wantFields: []string{"query.page"},
		},
		{
			name:       "numeric lower bound",
			in:         Input{Body: map[string]any{"title": "ok"}, Query: url.Values{"page": {"0"}}},
			wantFields: []string{"query.page"},
		},
		{
			name:       "bad boolean",
			in:         Input{Body: map[string]any{"title": "ok"}, Query: url.Values{"confirm": {"yes please"}}},
			wantFields: []string{"query.confirm"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vals, violations := sch.Validate(tt.in)

			var got []string
			for _, v := range violations {
				got = append(got, v.Field)
			}
			assert.Equal(t, tt.wantFields, got)

			if len(tt.wantFields) == 0 && tt.check != nil {
				tt.check(t, vals)
			}
		})
	}
}

func TestSchema_Validate_MaxLen(t *testing.T) {
	sch := New(Field{Name: "title", In: InBody, Type: TypeString, Required: true, MaxLen: 5})

	_, violations := sch.Validate(Input{Body: map[string]any{"title": "too long title"}})
	require.Len(t, violations, 1)
	assert.Equal(t, "must be at most 5 characters", violations[0].Message)
}

func TestSchema_Validate_Pattern(t *testing.T) {
	sch := New(Field{
		Name: "id", In: InParams, Type: TypeString, Required: true,
		Pattern:    regexp.MustCompile(`^[0-9a-f]{4}$`),
		PatternMsg: "must be a valid identifier",
	})

	_, violations := sch.Validate(Input{Params: map[string]string{"id": "zzzz"}})
	require.Len(t, violations, 1)
	assert.Equal(t, "params.id", violations[0].Field)
	assert.Equal(t, "must be a valid identifier", violations[0].Message)

	vals, violations := sch.Validate(Input{Params: map[string]string{"id": "01ab"}})
	assert.Empty(t, violations)
	assert.Equal(t, "01ab", vals.String("id"))
}

func TestSchema_Refine(t *testing.T) {
	sch := New(
		Field{Name: "title", In: InBody, Type: TypeString},
		Field{Name: "status", In: InBody, Type: TypeString},
	).Refine("must contain at least one recognized field", func(v Values) bool {
		return v.Has("title") || v.Has("status")
	})

	t.Run("fails on unrecognized fields only", func(t *testing.T) {
		_, violations := sch.Validate(Input{Body: map[string]any{"owner_id": "hijack", "is_deleted": false}})
		require.Len(t, violations, 1)
		assert.Equal(t, "must contain at least one recognized field", violations[0].Message)
	})

	t.Run("passes with one recognized field", func(t *testing.T) {
		vals, violations := sch.Validate(Input{Body: map[string]any{"title": "ok", "is_deleted": true}})
		assert.Empty(t, violations)
		assert.True(t, vals.Has("title"))
		assert.False(t, vals.Has("is_deleted"), "undeclared fields must never be coerced in")
	})
}

func TestSchema_QueryEmptyValueIsAbsent(t *testing.T) {
	sch := New(Field{Name: "status", In: InQuery, Type: TypeString, Required: true})

	_, violations := sch.Validate(Input{Query: url.Values{"status": {""}}})
	require.Len(t, violations, 1)
	assert.Equal(t, "is required", violations[0].Message)
}

func TestSchema_HasBody(t *testing.T) {
	assert.True(t, New(Field{Name: "title", In: InBody, Type: TypeString}).HasBody())
	assert.False(t, New(Field{Name: "page", In: InQuery, Type: TypeInt}).HasBody())
}
