package schema

import "time"

// Values holds the coerced result of a successful validation. Handlers
// read request input exclusively through it.
type Values map[string]any

func (v Values) Has(name string) bool {
	_, ok := v[name]
	return ok
}

func (v Values) String(name string) string {
	s, _ := v[name].(string)
	return s
}

func (v Values) StringPtr(name string) *string {
	if s, ok := v[name].(string); ok {
		return &s
	}
	return nil
}

func (v Values) IntOr(name string, def int) int {
	if n, ok := v[name].(int); ok {
		return n
	}
	return def
}

func (v Values) Bool(name string) bool {
	b, _ := v[name].(bool)
	return b
}

func (v Values) TimePtr(name string) *time.Time {
	if t, ok := v[name].(time.Time); ok {
		return &t
	}
	return nil
}
