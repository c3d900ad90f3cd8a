package model

import "time"

const dateLayout = "2006-01-02"

// FormatDate 格式化为 YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// ParseDate 解析 YYYY-MM-DD，失败时返回零值
func ParseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// DaysInMonth 展开某年某月的全部日期，proleptic Gregorian 日历
func DaysInMonth(year, month int) []time.Time {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	next := first.AddDate(0, 1, 0)
	days := make([]time.Time, 0, 31)
	for d := first; d.Before(next); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// IsWeekend 周六或周日
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// ISOWeekKey 返回 (isoYear, isoWeek)，周界在月份边界处按 ISO 周截断（不跨月合并）
func ISOWeekKey(t time.Time) (int, int) {
	y, w := t.ISOWeek()
	return y, w
}

// PrevDate / NextDate 沿用 previousDate/nextDate 的字符串日期习惯，供上下文缓存复用
func PrevDate(date string) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return FormatDate(t.AddDate(0, 0, -1)), nil
}

func NextDate(date string) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return FormatDate(t.AddDate(0, 0, 1)), nil
}
