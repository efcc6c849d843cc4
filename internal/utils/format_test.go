package utils

import "testing"

func TestFormatDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "2025-07-17T14:30:00Z", want: "17/7/2025"},
		{in: "2025-07-17T14:30:00.123456", want: "17/7/2025"},
		{in: "2024-01-05", want: "5/1/2024"},
		{in: "", want: "-"},
		{in: "not a date", want: "not a date"},
	}

	for _, tt := range tests {
		if got := FormatDate(tt.in); got != tt.want {
			t.Errorf("FormatDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatMinutes(t *testing.T) {
	tests := map[int]string{
		0:   "0m",
		10:  "10m",
		60:  "1h",
		90:  "1h 30m",
		125: "2h 5m",
	}
	for in, want := range tests {
		if got := FormatMinutes(in); got != want {
			t.Errorf("FormatMinutes(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatSeconds(t *testing.T) {
	if got := FormatSeconds(75); got != "1:15" {
		t.Errorf("FormatSeconds(75) = %q", got)
	}
	if got := FormatSeconds(-3); got != "0:00" {
		t.Errorf("FormatSeconds(-3) = %q", got)
	}
}

func TestFormatVND(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{in: 0, want: "0 ₫"},
		{in: 999, want: "999 ₫"},
		{in: 99000, want: "99.000 ₫"},
		{in: 1234567, want: "1.234.567 ₫"},
		{in: 100000.6, want: "100.001 ₫"},
		{in: -5000, want: "-5.000 ₫"},
	}
	for _, tt := range tests {
		if got := FormatVND(tt.in); got != tt.want {
			t.Errorf("FormatVND(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDifficultyOf(t *testing.T) {
	tests := []struct {
		level int
		label string
		color string
	}{
		{1, "Easy", "green"},
		{2, "Medium", "orange"},
		{3, "Hard", "red"},
		{0, "Unknown", "default"},
		{4, "Unknown", "default"},
	}
	for _, tt := range tests {
		got := DifficultyOf(tt.level)
		if got.Label != tt.label || got.Color != tt.color {
			t.Errorf("DifficultyOf(%d) = %+v", tt.level, got)
		}
	}
}

func TestGrowthColor(t *testing.T) {
	tests := []struct {
		growth float64
		want   string
	}{
		{0, "default"},
		{20, "green"},
		{15, "blue"},
		{12.5, "blue"},
		{10, "orange"},
		{-4, "orange"},
	}
	for _, tt := range tests {
		if got := GrowthColor(tt.growth); got != tt.want {
			t.Errorf("GrowthColor(%v) = %q, want %q", tt.growth, got, tt.want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(12.34); got != "+12.3%" {
		t.Errorf("got %q", got)
	}
	if got := FormatPercent(-2); got != "-2.0%" {
		t.Errorf("got %q", got)
	}
}
