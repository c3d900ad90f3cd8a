// Package stats 提供排班统计分析功能
package stats

import "github.com/nurseopt/core/pkg/model"

// PerDaySummaries 按 spec §4.4 计算 per_day：每日各班次实填人数与原始需求
func PerDaySummaries(inst *model.ProblemInstance, a *model.Assignment) []model.PerDaySummary {
	out := make([]model.PerDaySummary, 0, len(inst.Dates))
	for di, date := range inst.Dates {
		dd, _ := inst.DemandOn(date)
		filled := map[model.Shift]int{model.ShiftDay: 0, model.ShiftLate: 0, model.ShiftNight: 0}
		for ni := range inst.Nurses {
			s := a.Get(ni, di)
			if s.IsWork() {
				filled[s]++
			}
		}
		out = append(out, model.PerDaySummary{
			Date:      date,
			Weekday:   dd.Weekday,
			IsWeekend: dd.IsWeekend,
			IsHoliday: dd.IsHoliday,
			Required:  model.DayDemandTarget{DayMin: dd.DayMin, DayMax: dd.DayMax, Late: dd.Late, Night: dd.Night},
			Filled:    filled,
		})
	}
	return out
}

// PerNurseSummaries 按 spec §4.4 计算 per_nurse：各护士班次计数、周末在岗数、总在岗天数
func PerNurseSummaries(inst *model.ProblemInstance, a *model.Assignment) []model.PerNurseSummary {
	weekendIdx := make(map[int]bool)
	for _, d := range inst.WeekendOrHolidayDates() {
		if di := inst.DateIndexOf(d); di >= 0 {
			weekendIdx[di] = true
		}
	}

	out := make([]model.PerNurseSummary, 0, len(inst.Nurses))
	for ni, n := range inst.Nurses {
		counts := map[model.Shift]int{model.ShiftDay: 0, model.ShiftLate: 0, model.ShiftNight: 0, model.ShiftOff: 0}
		weekendWork := 0
		totalWork := 0
		for di := range inst.Dates {
			s := a.Get(ni, di)
			counts[s]++
			if s.IsWork() {
				totalWork++
				if weekendIdx[di] {
					weekendWork++
				}
			}
		}
		out = append(out, model.PerNurseSummary{
			NurseID:       n.ID,
			Name:          n.Name,
			Team:          n.Team,
			Counts:        counts,
			WeekendWork:   weekendWork,
			TotalWorkDays: totalWork,
		})
	}
	return out
}
