// Package validation checks flat request records against declarative
// schemas.
package validation

import (
	"math"
	"regexp"
)

// RuleKind tags a Rule. Kinds are declared in evaluation order.
type RuleKind int

const (
	KindRequired RuleKind = iota
	KindType
	KindLength
	KindRange
	KindPattern
	KindEnum
	KindCustom
)

// Type is a value type a field can be constrained to.
type Type string

const (
	String  Type = "string"
	Number  Type = "number"
	Boolean Type = "boolean"
	Email   Type = "email"
	Date    Type = "date"
	Array   Type = "array"
)

// Rule is one constraint on a field. Only the members belonging to Kind are
// meaningful.
type Rule struct {
	Kind RuleKind

	Type Type // KindType

	Min, Max float64 // KindLength, KindRange; infinities mean unbounded

	Pattern *regexp.Regexp // KindPattern

	Values []any // KindEnum

	Check func(value any) bool // KindCustom
}

func Required() Rule {
	return Rule{Kind: KindRequired}
}

func IsType(t Type) Rule {
	return Rule{Kind: KindType, Type: t}
}

// Length bounds the character count of string values.
func Length(min, max int) Rule {
	return Rule{Kind: KindLength, Min: float64(min), Max: float64(max)}
}

func MinLength(n int) Rule {
	return Rule{Kind: KindLength, Min: float64(n), Max: math.Inf(1)}
}

func MaxLength(n int) Rule {
	return Rule{Kind: KindLength, Min: math.Inf(-1), Max: float64(n)}
}

// Range bounds numeric values, inclusive.
func Range(min, max float64) Rule {
	return Rule{Kind: KindRange, Min: min, Max: max}
}

func Min(n float64) Rule {
	return Rule{Kind: KindRange, Min: n, Max: math.Inf(1)}
}

func Max(n float64) Rule {
	return Rule{Kind: KindRange, Min: math.Inf(-1), Max: n}
}

// Pattern panics if expr does not compile; schemas are built at start-up.
func Pattern(expr string) Rule {
	return Rule{Kind: KindPattern, Pattern: regexp.MustCompile(expr)}
}

// OneOf accepts values equal to one of allowed. Integer literals are
// compared as float64, the type JSON numbers decode to.
func OneOf(allowed ...any) Rule {
	values := make([]any, len(allowed))
	for i, v := range allowed {
		switch n := v.(type) {
		case int:
			values[i] = float64(n)
		case int64:
			values[i] = float64(n)
		default:
			values[i] = v
		}
	}
	return Rule{Kind: KindEnum, Values: values}
}

func Custom(check func(value any) bool) Rule {
	return Rule{Kind: KindCustom, Check: check}
}

// FieldSpec is the rule set of one field. Message, when set, replaces the
// generated message of every failing rule.
type FieldSpec struct {
	Name    string
	Rules   []Rule
	Message string
}

func Field(name string, rules ...Rule) FieldSpec {
	return FieldSpec{Name: name, Rules: rules}
}

func (f FieldSpec) WithMessage(msg string) FieldSpec {
	f.Message = msg
	return f
}

// Schema is an ordered list of fields. Errors are reported in this order.
type Schema []FieldSpec

// Optional returns a copy of s with every Required rule removed, the usual
// shape of an update schema.
func (s Schema) Optional() Schema {
	out := make(Schema, len(s))
	for i, f := range s {
		rules := make([]Rule, 0, len(f.Rules))
		for _, r := range f.Rules {
			if r.Kind != KindRequired {
				rules = append(rules, r)
			}
		}
		out[i] = FieldSpec{Name: f.Name, Rules: rules, Message: f.Message}
	}
	return out
}
