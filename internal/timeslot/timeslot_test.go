package timeslot

import (
	"errors"
	"testing"
)

func TestToMinutes(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"00:00", 0},
		{"9:30", 570},
		{"09:30", 570},
		{"14:00", 840},
		{"23:59", 1439},
	}

	for _, c := range cases {
		got, err := ToMinutes(c.in)
		if err != nil {
			t.Fatalf("ToMinutes(%q): unexpected error %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ToMinutes(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestToMinutes_InvalidFormat(t *testing.T) {
	for _, in := range []string{"", "24:00", "12:60", "12", "ab:cd", "12:5", "12:005", "-1:00"} {
		_, err := ToMinutes(in)
		if !errors.Is(err, ErrInvalidFormat) {
			t.Fatalf("ToMinutes(%q): expected ErrInvalidFormat, got %v", in, err)
		}
	}
}

func TestValidateRange(t *testing.T) {
	if err := ValidateRange("09:00", "10:00"); err != nil {
		t.Fatalf("expected valid range, got %v", err)
	}

	// пустой и перевёрнутый интервалы
	if err := ValidateRange("10:00", "10:00"); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange for equal bounds, got %v", err)
	}
	if err := ValidateRange("11:00", "10:00"); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange for inverted bounds, got %v", err)
	}

	if err := ValidateRange("25:00", "26:00"); !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat, got %v", err)
	}
}

func TestContains(t *testing.T) {
	cases := []struct {
		name                       string
		oStart, oEnd, iStart, iEnd int
		want                       bool
	}{
		{"strictly inside", 540, 780, 600, 660, true},
		{"equal intervals", 540, 780, 540, 780, true},
		{"touching start boundary", 540, 780, 540, 600, true},
		{"touching end boundary", 540, 780, 720, 780, true},
		{"starts before", 540, 780, 530, 600, false},
		{"ends after", 540, 780, 600, 790, false},
		{"fully outside", 540, 780, 800, 860, false},
	}

	for _, c := range cases {
		if got := Contains(c.oStart, c.oEnd, c.iStart, c.iEnd); got != c.want {
			t.Fatalf("%s: Contains = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd int
		want                       bool
	}{
		{"partial overlap", 540, 600, 570, 630, true},
		{"identical intervals", 540, 600, 540, 600, true},
		{"contained", 540, 780, 600, 660, true},
		{"back to back", 540, 600, 600, 660, false},
		{"back to back reversed", 600, 660, 540, 600, false},
		{"disjoint", 540, 600, 700, 760, false},
	}

	for _, c := range cases {
		if got := Overlaps(c.aStart, c.aEnd, c.bStart, c.bEnd); got != c.want {
			t.Fatalf("%s: Overlaps = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestDayName(t *testing.T) {
	if got := DayName(1); got != "Monday" {
		t.Fatalf("DayName(1) = %q, want Monday", got)
	}
	if got := DayName(7); got != "Unknown" {
		t.Fatalf("DayName(7) = %q, want Unknown", got)
	}
}
