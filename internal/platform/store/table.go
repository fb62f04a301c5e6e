package store

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind is the storage type of a column. Incoming JSON values are converted
// to the Go type pgx expects for that kind.
type Kind int

const (
	Text Kind = iota
	Int
	Float
	Bool
	Time
	Date
)

// Column maps a SQL column to the JSON field clients use for it.
type Column struct {
	Name      string
	Field     string
	Kind      Kind
	Writable  bool
	WriteOnly bool // accepted on writes, never selected
}

// Table describes how a resource is laid out in PostgreSQL.
type Table struct {
	Name    string
	Columns []Column
	OrderBy string
}

func (t Table) column(field string) (Column, bool) {
	for _, col := range t.Columns {
		if col.Field == field {
			return col, true
		}
	}
	return Column{}, false
}

func (t Table) hasColumn(name string) bool {
	for _, col := range t.Columns {
		if col.Name == name {
			return true
		}
	}
	return false
}

// SelectList returns the comma separated readable columns, optionally
// qualified with alias.
func (t Table) SelectList(alias string) string {
	cols := make([]string, 0, len(t.Columns))
	for _, col := range t.Columns {
		if col.WriteOnly {
			continue
		}
		if alias != "" {
			cols = append(cols, alias+"."+col.Name)
		} else {
			cols = append(cols, col.Name)
		}
	}
	return strings.Join(cols, ", ")
}

func (t Table) orderBy() string {
	if t.OrderBy != "" {
		return t.OrderBy
	}
	return "id"
}

// where builds a WHERE clause for filter. Placeholders start after offset.
// Fields are emitted in column order so the generated SQL is stable.
func (t Table) where(filter Filter, offset int) (string, []any, error) {
	if len(filter) == 0 {
		return "", nil, nil
	}
	for field := range filter {
		if _, ok := t.column(field); !ok {
			return "", nil, fmt.Errorf("%s: unknown filter field %q", t.Name, field)
		}
	}

	var (
		conds []string
		args  []any
	)
	for _, col := range t.Columns {
		raw, ok := filter[col.Field]
		if !ok {
			continue
		}
		if raw == nil {
			conds = append(conds, col.Name+" IS NULL")
			continue
		}
		v, err := convert(col, raw)
		if err != nil {
			return "", nil, err
		}
		args = append(args, v)
		conds = append(conds, fmt.Sprintf("%s = $%d", col.Name, offset+len(args)))
	}
	return " WHERE " + strings.Join(conds, " AND "), args, nil
}

// assignments returns the writable columns present in data with their
// converted values. Unknown and read-only keys are ignored.
func (t Table) assignments(data map[string]any) ([]string, []any, error) {
	var (
		cols []string
		args []any
	)
	for _, col := range t.Columns {
		if !col.Writable {
			continue
		}
		raw, ok := data[col.Field]
		if !ok {
			continue
		}
		v, err := convert(col, raw)
		if err != nil {
			return nil, nil, err
		}
		cols = append(cols, col.Name)
		args = append(args, v)
	}
	return cols, args, nil
}

func convert(col Column, raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	invalid := fmt.Errorf("%w: %s has an unsupported value %v", ErrInvalidInput, col.Field, raw)

	switch col.Kind {
	case Text:
		switch v := raw.(type) {
		case string:
			return v, nil
		case json.Number:
			return v.String(), nil
		}
		return nil, invalid

	case Int:
		f, ok := number(raw)
		if !ok || f != math.Trunc(f) {
			return nil, invalid
		}
		return int64(f), nil

	case Float:
		f, ok := number(raw)
		if !ok {
			return nil, invalid
		}
		return f, nil

	case Bool:
		switch v := raw.(type) {
		case bool:
			return v, nil
		case string:
			if b, err := strconv.ParseBool(v); err == nil {
				return b, nil
			}
		}
		return nil, invalid

	case Time, Date:
		var ts time.Time
		switch v := raw.(type) {
		case time.Time:
			return v, nil
		case string:
			parsed, ok := ParseTime(v)
			if !ok {
				return nil, invalid
			}
			ts = parsed
		default:
			ms, ok := number(raw)
			if !ok || math.Abs(ms) > MaxEpochMillis {
				return nil, invalid
			}
			ts = time.UnixMilli(int64(ms)).UTC()
		}
		if col.Kind == Date {
			return ts.UTC().Truncate(24 * time.Hour), nil
		}
		return ts, nil
	}
	return nil, invalid
}

func number(raw any) (float64, bool) {
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		n, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// MaxEpochMillis bounds numeric timestamps, given in milliseconds since the
// Unix epoch, to about 273,000 years either side of 1970.
const MaxEpochMillis = 8.64e15

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime accepts RFC 3339 timestamps and plain calendar dates.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
