package store

import (
	"errors"
	"testing"
	"time"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		name string
		col  Column
		in   any
		want any
		err  bool
	}{
		{"text", Column{Field: "f", Kind: Text}, "abc", "abc", false},
		{"text rejects number", Column{Field: "f", Kind: Text}, float64(1), nil, true},
		{"int from float", Column{Field: "f", Kind: Int}, float64(12), int64(12), false},
		{"int from string", Column{Field: "f", Kind: Int}, "12", int64(12), false},
		{"int rejects fraction", Column{Field: "f", Kind: Int}, 1.5, nil, true},
		{"float", Column{Field: "f", Kind: Float}, "9.75", 9.75, false},
		{"bool", Column{Field: "f", Kind: Bool}, "true", true, false},
		{"bool rejects junk", Column{Field: "f", Kind: Bool}, "yes please", nil, true},
		{"null", Column{Field: "f", Kind: Int}, nil, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := convert(tt.col, tt.in)
			if tt.err {
				if !errors.Is(err, ErrInvalidInput) {
					t.Fatalf("expected ErrInvalidInput, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("convert(%v) = %v (%T), want %v (%T)", tt.in, got, got, tt.want, tt.want)
			}
		})
	}
}

func TestConvert_Date(t *testing.T) {
	got, err := convert(Column{Field: "dob", Kind: Date}, "1990-04-12T10:30:00Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(1990, 4, 12, 0, 0, 0, 0, time.UTC)
	if !got.(time.Time).Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestConvert_EpochMillis(t *testing.T) {
	got, err := convert(Column{Field: "date", Kind: Time}, float64(1700000000000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := time.UnixMilli(1700000000000).UTC(); !got.(time.Time).Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	got, err = convert(Column{Field: "dob", Kind: Date}, float64(1700000000000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := time.Date(2023, 11, 14, 0, 0, 0, 0, time.UTC); !got.(time.Time).Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	if _, err := convert(Column{Field: "dob", Kind: Date}, 1e300); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected out of range timestamp to be rejected, got %v", err)
	}
}

func TestParseTime(t *testing.T) {
	for _, s := range []string{"2024-01-31", "2024-01-31T08:00:00Z", "2024-01-31T08:00:00", "2024-01-31 08:00:00"} {
		if _, ok := ParseTime(s); !ok {
			t.Errorf("expected %q to parse", s)
		}
	}
	for _, s := range []string{"", "31/01/2024", "2024-13-01"} {
		if _, ok := ParseTime(s); ok {
			t.Errorf("expected %q to be rejected", s)
		}
	}
}

func TestTable_WhereNull(t *testing.T) {
	cond, args, err := widgetTable.where(Filter{"ownerId": nil, "name": "a"}, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cond != " WHERE name = $3 AND owner_id IS NULL" {
		t.Errorf("unexpected clause %q", cond)
	}
	if len(args) != 1 || args[0] != "a" {
		t.Errorf("unexpected args %v", args)
	}
}

func TestTable_SelectListSkipsWriteOnly(t *testing.T) {
	got := widgetTable.SelectList("w")
	want := "w.id, w.name, w.owner_id, w.created_at, w.updated_at"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
