package report

import (
	"errors"
	"testing"

	"farmledger/internal/core"
)

func TestResolve_Month(t *testing.T) {
	tests := []struct {
		name      string
		year      int
		month     int // 0-based
		wantStart string
		wantEnd   string
	}{
		{"january", 2024, 0, "2024-01-01", "2024-01-31"},
		{"leap february", 2024, 1, "2024-02-01", "2024-02-29"},
		{"non-leap february", 2023, 1, "2023-02-01", "2023-02-28"},
		{"century non-leap february", 1900, 1, "1900-02-01", "1900-02-28"},
		{"400-year leap february", 2000, 1, "2000-02-01", "2000-02-29"},
		{"april 30 days", 2024, 3, "2024-04-01", "2024-04-30"},
		{"december", 2024, 11, "2024-12-01", "2024-12-31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Resolve(Selection{Mode: Month, Year: tt.year, Month: tt.month})
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if p.Start.String() != tt.wantStart || p.End.String() != tt.wantEnd {
				t.Errorf("Resolve() = [%s, %s], want [%s, %s]",
					p.Start, p.End, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestResolve_Week(t *testing.T) {
	tests := []struct {
		name      string
		year      int
		month     int
		week      int
		wantStart string
		wantEnd   string
	}{
		{"week 1 of march", 2024, 2, 1, "2024-03-01", "2024-03-07"},
		{"week 3 of march", 2024, 2, 3, "2024-03-15", "2024-03-21"},
		{"week 5 of march rolls 4 days over", 2024, 2, 5, "2024-03-29", "2024-04-04"},
		// Leap-year February: day 29 exists, day 35 overflows into March 7.
		{"week 5 of leap february", 2024, 1, 5, "2024-02-29", "2024-03-07"},
		// Non-leap February: even the start overflows into March.
		{"week 5 of plain february", 2023, 1, 5, "2023-03-01", "2023-03-07"},
		{"week 5 of december crosses the year", 2024, 11, 5, "2024-12-29", "2025-01-04"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Resolve(Selection{Mode: Week, Year: tt.year, Month: tt.month, WeekOfMonth: tt.week})
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if p.Start.String() != tt.wantStart || p.End.String() != tt.wantEnd {
				t.Errorf("Resolve() = [%s, %s], want [%s, %s]",
					p.Start, p.End, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestResolve_Quarter(t *testing.T) {
	tests := []struct {
		name      string
		month     int
		wantStart string
		wantEnd   string
	}{
		{"q1 from january", 0, "2024-01-01", "2024-03-31"},
		{"q1 from march", 2, "2024-01-01", "2024-03-31"},
		{"q2 from may", 4, "2024-04-01", "2024-06-30"},
		{"q3 from july", 6, "2024-07-01", "2024-09-30"},
		{"q4 from december", 11, "2024-10-01", "2024-12-31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Resolve(Selection{Mode: Quarter, Year: 2024, Month: tt.month})
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if p.Start.String() != tt.wantStart || p.End.String() != tt.wantEnd {
				t.Errorf("Resolve() = [%s, %s], want [%s, %s]",
					p.Start, p.End, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestResolve_Year(t *testing.T) {
	p, err := Resolve(Selection{Mode: Year, Year: 2023})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if p.Start.String() != "2023-01-01" || p.End.String() != "2023-12-31" {
		t.Errorf("Resolve() = [%s, %s], want whole of 2023", p.Start, p.End)
	}
}

func TestResolve_Custom(t *testing.T) {
	t.Run("both bounds set", func(t *testing.T) {
		p, err := Resolve(Selection{Mode: Custom, CustomStart: "2024-03-05", CustomEnd: "2024-03-20"})
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if p.Start.String() != "2024-03-05" || p.End.String() != "2024-03-20" {
			t.Errorf("Resolve() = [%s, %s], want bounds verbatim", p.Start, p.End)
		}
	})

	t.Run("missing end is not ready", func(t *testing.T) {
		_, err := Resolve(Selection{Mode: Custom, CustomStart: "2024-03-05"})
		if !errors.Is(err, ErrPeriodNotReady) {
			t.Errorf("Resolve() error = %v, want ErrPeriodNotReady", err)
		}
	})

	t.Run("missing start is not ready", func(t *testing.T) {
		_, err := Resolve(Selection{Mode: Custom, CustomEnd: "2024-03-05"})
		if !errors.Is(err, ErrPeriodNotReady) {
			t.Errorf("Resolve() error = %v, want ErrPeriodNotReady", err)
		}
	})

	t.Run("unparseable bound fails", func(t *testing.T) {
		_, err := Resolve(Selection{Mode: Custom, CustomStart: "05/03/2024", CustomEnd: "2024-03-20"})
		if !errors.Is(err, core.ErrInvalidDate) {
			t.Errorf("Resolve() error = %v, want ErrInvalidDate", err)
		}
	})

	t.Run("inverted range passes through uncorrected", func(t *testing.T) {
		p, err := Resolve(Selection{Mode: Custom, CustomStart: "2024-03-20", CustomEnd: "2024-03-05"})
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if !p.Start.After(p.End) {
			t.Fatalf("expected inverted period, got [%s, %s]", p.Start, p.End)
		}
		if p.Contains(core.NewDate(2024, 3, 10)) {
			t.Error("inverted period must contain nothing")
		}
	})
}

func TestResolve_DerivedModesNeverInvert(t *testing.T) {
	for year := 2023; year <= 2025; year++ {
		for month := 0; month < 12; month++ {
			for _, mode := range []Mode{Month, Quarter, Year} {
				p, err := Resolve(Selection{Mode: mode, Year: year, Month: month})
				if err != nil {
					t.Fatalf("Resolve(%s %d-%d) error = %v", mode, year, month, err)
				}
				if p.Start.After(p.End) {
					t.Errorf("Resolve(%s %d-%d) inverted: [%s, %s]", mode, year, month, p.Start, p.End)
				}
			}
			for week := 1; week <= 5; week++ {
				p, err := Resolve(Selection{Mode: Week, Year: year, Month: month, WeekOfMonth: week})
				if err != nil {
					t.Fatalf("Resolve(WEEK %d-%d w%d) error = %v", year, month, week, err)
				}
				if p.Start.After(p.End) {
					t.Errorf("Resolve(WEEK %d-%d w%d) inverted: [%s, %s]", year, month, week, p.Start, p.End)
				}
			}
		}
	}
}

func TestResolve_UnknownMode(t *testing.T) {
	_, err := Resolve(Selection{Mode: "FORTNIGHT", Year: 2024})
	if !errors.Is(err, ErrUnknownMode) {
		t.Errorf("Resolve() error = %v, want ErrUnknownMode", err)
	}
}

func TestCurrentWeekOfMonth(t *testing.T) {
	tests := []struct {
		day  int
		want int
	}{
		{1, 1}, {7, 1}, {8, 2}, {14, 2}, {15, 3}, {21, 3}, {22, 4}, {28, 4}, {29, 5}, {31, 5},
	}
	for _, tt := range tests {
		if got := CurrentWeekOfMonth(core.NewDate(2024, 3, tt.day)); got != tt.want {
			t.Errorf("CurrentWeekOfMonth(day %d) = %d, want %d", tt.day, got, tt.want)
		}
	}
}
