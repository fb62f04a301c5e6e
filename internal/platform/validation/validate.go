package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Error is a single field failure.
type Error struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors is the accumulated result of validating a record. A nil Errors
// means the record is valid.
type Errors []Error

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Message
	}
	return strings.Join(msgs, "; ")
}

// Validate checks every field of schema against data. A failing rule stops
// evaluation for its field only; errors from all fields are returned.
func Validate(data map[string]any, schema Schema) Errors {
	var errs Errors
	for _, f := range schema {
		if msg, ok := checkField(f, data[f.Name]); !ok {
			errs = append(errs, Error{Field: f.Name, Message: msg})
		}
	}
	return errs
}

func checkField(f FieldSpec, value any) (string, bool) {
	rules := ordered(f.Rules)

	if absent(value) {
		if len(rules) > 0 && rules[0].Kind == KindRequired {
			return f.message(fmt.Sprintf("%s is required", f.Name)), false
		}
		return "", true
	}

	for _, r := range rules {
		if msg, ok := r.check(f, value); !ok {
			return f.message(msg), false
		}
	}
	return "", true
}

func (f FieldSpec) message(generated string) string {
	if f.Message != "" {
		return f.Message
	}
	return generated
}

// ordered sorts rules into evaluation order without disturbing the relative
// order of rules of the same kind.
func ordered(rules []Rule) []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out
}

func absent(value any) bool {
	if value == nil {
		return true
	}
	s, ok := value.(string)
	return ok && s == ""
}

func (r Rule) check(f FieldSpec, value any) (string, bool) {
	name := f.Name
	switch r.Kind {
	case KindRequired:
		return "", true

	case KindType:
		if matchesType(r.Type, value) {
			return "", true
		}
		return typeMessage(name, r.Type), false

	case KindLength:
		s, ok := value.(string)
		if !ok {
			return "", true
		}
		n := float64(utf8.RuneCountInString(s))
		if n < r.Min {
			return fmt.Sprintf("%s must be at least %s characters", name, formatNumber(r.Min)), false
		}
		if n > r.Max {
			return fmt.Sprintf("%s must be at most %s characters", name, formatNumber(r.Max)), false
		}
		return "", true

	case KindRange:
		n, ok := numericValue(f, value)
		if !ok {
			return "", true
		}
		if n < r.Min {
			return fmt.Sprintf("%s must be at least %s", name, formatNumber(r.Min)), false
		}
		if n > r.Max {
			return fmt.Sprintf("%s must be at most %s", name, formatNumber(r.Max)), false
		}
		return "", true

	case KindPattern:
		s, ok := value.(string)
		if !ok || r.Pattern == nil || r.Pattern.MatchString(s) {
			return "", true
		}
		return fmt.Sprintf("%s has an invalid format", name), false

	case KindEnum:
		for _, allowed := range r.Values {
			if strictEqual(value, allowed) {
				return "", true
			}
		}
		opts := make([]string, len(r.Values))
		for i, v := range r.Values {
			opts[i] = fmt.Sprint(v)
		}
		return fmt.Sprintf("%s must be one of: %s", name, strings.Join(opts, ", ")), false

	case KindCustom:
		if r.Check == nil || r.Check(value) {
			return "", true
		}
		return fmt.Sprintf("%s is invalid", name), false
	}
	return "", true
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func matchesType(t Type, value any) bool {
	switch t {
	case String:
		_, ok := value.(string)
		return ok
	case Number:
		_, ok := toNumber(value)
		return ok
	case Boolean:
		switch v := value.(type) {
		case bool:
			return true
		case string:
			return v == "true" || v == "false"
		}
		return false
	case Email:
		s, ok := value.(string)
		return ok && emailPattern.MatchString(s)
	case Date:
		return isDate(value)
	case Array:
		switch value.(type) {
		case []any, []string, []float64:
			return true
		}
		return false
	}
	return true
}

func typeMessage(name string, t Type) string {
	switch t {
	case Email:
		return fmt.Sprintf("%s must be a valid email", name)
	case Date:
		return fmt.Sprintf("%s must be a valid date", name)
	case Array:
		return fmt.Sprintf("%s must be an array", name)
	}
	return fmt.Sprintf("%s must be a %s", name, t)
}

// numericValue returns value as a number when it is one, or when the field
// is declared numeric and value is a numeric string.
func numericValue(f FieldSpec, value any) (float64, bool) {
	if _, isString := value.(string); !isString {
		return toNumber(value)
	}
	for _, r := range f.Rules {
		if r.Kind == KindType && r.Type == Number {
			return toNumber(value)
		}
	}
	return 0, false
}

func toNumber(value any) (float64, bool) {
	var n float64
	switch v := value.(type) {
	case float64:
		n = v
	case float32:
		n = float64(v)
	case int:
		n = float64(v)
	case int64:
		n = float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		n = f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

const maxEpochMillis = 8.64e15

func isDate(value any) bool {
	switch v := value.(type) {
	case time.Time:
		return !v.IsZero()
	case float64:
		// milliseconds since the epoch, within the range the store accepts
		return !math.IsNaN(v) && math.Abs(v) <= maxEpochMillis
	case string:
		for _, layout := range dateLayouts {
			if _, err := time.Parse(layout, strings.TrimSpace(v)); err == nil {
				return true
			}
		}
	}
	return false
}

// strictEqual compares scalars by type and value. Composite values never
// equal anything.
func strictEqual(value, allowed any) bool {
	if n, ok := value.(json.Number); ok {
		f, err := n.Float64()
		if err != nil {
			return false
		}
		value = f
	}
	switch v := value.(type) {
	case string:
		a, ok := allowed.(string)
		return ok && v == a
	case float64:
		a, ok := allowed.(float64)
		return ok && v == a
	case bool:
		a, ok := allowed.(bool)
		return ok && v == a
	}
	return false
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
