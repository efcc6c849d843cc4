package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Accepted backend timestamp layouts, most specific first.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate parses a backend timestamp.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders a timestamp the Vietnamese way (d/m/yyyy). Unparseable
// input is returned unchanged, empty input as "-".
func FormatDate(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	t, ok := ParseDate(s)
	if !ok {
		return s
	}
	return t.Format("2/1/2006")
}

// FormatDateTime is FormatDate with the time of day.
func FormatDateTime(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return FormatDate(s)
	}
	return t.Format("15:04 2/1/2006")
}

// FormatMinutes renders a lesson length: "45m", "1h 30m", "2h".
func FormatMinutes(minutes int) string {
	if minutes <= 0 {
		return "0m"
	}
	h, m := minutes/60, minutes%60
	switch {
	case h == 0:
		return fmt.Sprintf("%dm", m)
	case m == 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dh %dm", h, m)
	}
}

// FormatSeconds renders a video length as m:ss.
func FormatSeconds(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// FormatNumber groups the integer part with '.' as vi-VN does: 1.234.567
func FormatNumber(n float64) string {
	n = math.Round(n)
	neg := n < 0
	digits := strconv.FormatFloat(math.Abs(n), 'f', 0, 64)

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte('.')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// FormatVND renders an amount in dong, e.g. "99.000 ₫".
func FormatVND(amount float64) string {
	return FormatNumber(amount) + " ₫"
}

// FormatPercent renders a growth rate with one decimal and an explicit sign.
func FormatPercent(p float64) string {
	if p > 0 {
		return fmt.Sprintf("+%.1f%%", p)
	}
	return fmt.Sprintf("%.1f%%", p)
}

// Difficulty describes a lesson difficulty level for display.
type Difficulty struct {
	Label string
	Color string
}

// DifficultyOf maps levels 1-3; anything else is Unknown.
func DifficultyOf(level int) Difficulty {
	switch level {
	case 1:
		return Difficulty{Label: "Easy", Color: "green"}
	case 2:
		return Difficulty{Label: "Medium", Color: "orange"}
	case 3:
		return Difficulty{Label: "Hard", Color: "red"}
	default:
		return Difficulty{Label: "Unknown", Color: "default"}
	}
}

// GrowthColor picks the tag colour of a monthly growth value.
func GrowthColor(growth float64) string {
	switch {
	case growth == 0:
		return "default"
	case growth > 15:
		return "green"
	case growth > 10:
		return "blue"
	default:
		return "orange"
	}
}

// MonthName returns the short Vietnamese month label, "Th 1" .. "Th 12".
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return "-"
	}
	return "Th " + strconv.Itoa(month)
}
