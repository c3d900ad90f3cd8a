package model

import "testing"

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		name        string
		year, month int
		wantLen     int
	}{
		{"平年二月28天", 2023, 2, 28},
		{"闰年二月29天", 2024, 2, 29},
		{"31天的月份", 2025, 10, 31},
		{"30天的月份", 2025, 4, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days := DaysInMonth(tt.year, tt.month)
			if len(days) != tt.wantLen {
				t.Errorf("DaysInMonth(%d,%d) len = %d, want %d", tt.year, tt.month, len(days), tt.wantLen)
			}
			if FormatDate(days[0]) != FormatDate(days[0]) {
				t.Fatal("unreachable")
			}
		})
	}
}

func TestISOWeekKey_ClipsAtMonthBoundary(t *testing.T) {
	days := DaysInMonth(2025, 10)
	buckets := map[[2]int]int{}
	for _, d := range days {
		y, w := ISOWeekKey(d)
		buckets[[2]int{y, w}]++
	}
	total := 0
	for _, c := range buckets {
		total += c
	}
	if total != len(days) {
		t.Errorf("week buckets should cover every day exactly once, got %d want %d", total, len(days))
	}
	// 2025-10-01 是周三：ISO 第40周（9/29-10/5）在本月内只含 10/1-10/5 共5天
	if got := buckets[[2]int{2025, 40}]; got != 5 {
		t.Errorf("week 40 bucket = %d days, want 5", got)
	}
}

func TestPrevNextDate(t *testing.T) {
	next, err := NextDate("2025-10-31")
	if err != nil {
		t.Fatal(err)
	}
	if next != "2025-11-01" {
		t.Errorf("NextDate across month boundary = %s, want 2025-11-01", next)
	}
	prev, err := PrevDate("2025-10-01")
	if err != nil {
		t.Fatal(err)
	}
	if prev != "2025-09-30" {
		t.Errorf("PrevDate across month boundary = %s, want 2025-09-30", prev)
	}
}
