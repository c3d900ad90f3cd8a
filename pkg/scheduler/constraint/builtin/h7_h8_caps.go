package builtin

import (
	"fmt"

	"github.com/nurseopt/core/pkg/model"
	"github.com/nurseopt/core/pkg/scheduler/constraint"
)

// WeeklyWorkCapConstraint H7: 每个 ISO 周分桶内，护士在岗天数 ≤ weekly_work_max_n
type WeeklyWorkCapConstraint struct{ *BaseConstraint }

func NewWeeklyWorkCapConstraint() *WeeklyWorkCapConstraint {
	return &WeeklyWorkCapConstraint{NewBaseConstraint("每周在岗天数上限", constraint.TypeWeeklyWorkCap)}
}

// workVarIDs 收集某护士在给定日期集合中所有"在岗"(非OFF)变量：等价于 1 - x[n][d][OFF]
// 求和 ≤ cap，写成 Σ_{s≠OFF} x[n][d][s] ≤ cap。
func workVarIDs(mb constraint.ModelBuilder, nurseID string, dates []string) []int {
	cells := make([][3]string, 0, len(dates)*len(model.WorkShifts))
	for _, d := range dates {
		for _, s := range model.WorkShifts {
			cells = append(cells, [3]string{nurseID, d, string(s)})
		}
	}
	return collectVarIDs(mb, cells)
}

func (c *WeeklyWorkCapConstraint) AddToModel(mb constraint.ModelBuilder, ctx *constraint.Context) {
	buckets := ctx.Instance.WeekBuckets()
	for _, n := range ctx.Instance.Nurses {
		if n.Rule.WeeklyWorkMax <= 0 {
			continue
		}
		for _, days := range buckets {
			addBoolVarsLE(mb, workVarIDs(mb, n.ID, days), n.Rule.WeeklyWorkMax)
		}
	}
}

func (c *WeeklyWorkCapConstraint) Evaluate(ctx *constraint.Context, a *model.Assignment) []model.Violation {
	var out []model.Violation
	buckets := ctx.Instance.WeekBuckets()
	for _, n := range ctx.Instance.Nurses {
		if n.Rule.WeeklyWorkMax <= 0 {
			continue
		}
		for _, days := range buckets {
			count := workDaysInWindow(a, ctx.Instance, n.ID, days)
			if count > n.Rule.WeeklyWorkMax {
				out = append(out, model.Violation{
					NurseID: n.ID, Date: days[0], Kind: model.KindWeeklyCapExceeded,
					Difference: count - n.Rule.WeeklyWorkMax, Actual: count, RequiredMax: n.Rule.WeeklyWorkMax,
					Message: fmt.Sprintf("护士 %s 在周 %s 起在岗 %d 天，超过上限 %d", n.ID, days[0], count, n.Rule.WeeklyWorkMax),
				})
			}
		}
	}
	return out
}

// WeekendHolidayCapConstraint H8: 周末/节假日在岗天数 ≤ weekend_holiday_max_n
type WeekendHolidayCapConstraint struct{ *BaseConstraint }

func NewWeekendHolidayCapConstraint() *WeekendHolidayCapConstraint {
	return &WeekendHolidayCapConstraint{NewBaseConstraint("周末/节假日在岗上限", constraint.TypeWeekendHolidayCap)}
}

func (c *WeekendHolidayCapConstraint) AddToModel(mb constraint.ModelBuilder, ctx *constraint.Context) {
	weekendDates := ctx.Instance.WeekendOrHolidayDates()
	for _, n := range ctx.Instance.Nurses {
		if n.Rule.WeekendHolidayMax < 0 {
			continue
		}
		addBoolVarsLE(mb, workVarIDs(mb, n.ID, weekendDates), n.Rule.WeekendHolidayMax)
	}
}

func (c *WeekendHolidayCapConstraint) Evaluate(ctx *constraint.Context, a *model.Assignment) []model.Violation {
	var out []model.Violation
	weekendDates := ctx.Instance.WeekendOrHolidayDates()
	for _, n := range ctx.Instance.Nurses {
		if n.Rule.WeekendHolidayMax < 0 {
			continue
		}
		count := workDaysInWindow(a, ctx.Instance, n.ID, weekendDates)
		if count > n.Rule.WeekendHolidayMax {
			out = append(out, model.Violation{
				NurseID: n.ID, Kind: model.KindWeekendCapExceeded,
				Difference: count - n.Rule.WeekendHolidayMax, Actual: count, RequiredMax: n.Rule.WeekendHolidayMax,
				Message: fmt.Sprintf("护士 %s 周末/节假日在岗 %d 天，超过上限 %d", n.ID, count, n.Rule.WeekendHolidayMax),
			})
		}
	}
	return out
}
