package leave

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCountWeekdays(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		to   time.Time
		want int
	}{
		{"monday to friday", date(2024, 1, 1), date(2024, 1, 5), 5},
		{"saturday to sunday", date(2024, 1, 6), date(2024, 1, 7), 0},
		{"single weekday", date(2024, 1, 3), date(2024, 1, 3), 1},
		{"single saturday", date(2024, 1, 6), date(2024, 1, 6), 0},
		{"two full weeks", date(2024, 1, 1), date(2024, 1, 14), 10},
		{"friday to monday", date(2024, 1, 5), date(2024, 1, 8), 2},
		{"across month boundary", date(2024, 1, 29), date(2024, 2, 2), 5},
		{"across year boundary", date(2023, 12, 29), date(2024, 1, 2), 3},
		{"leap day", date(2024, 2, 28), date(2024, 3, 1), 3},
		{"reversed range", date(2024, 1, 5), date(2024, 1, 1), 0},
		{"time of day ignored", time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC), time.Date(2024, 1, 2, 0, 1, 0, 0, time.UTC), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountWeekdays(tt.from, tt.to); got != tt.want {
				t.Errorf("CountWeekdays(%s, %s) = %d, want %d",
					tt.from.Format(time.DateOnly), tt.to.Format(time.DateOnly), got, tt.want)
			}
		})
	}
}
