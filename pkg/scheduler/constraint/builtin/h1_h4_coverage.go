package builtin

import (
	"fmt"

	"github.com/nurseopt/core/pkg/model"
	"github.com/nurseopt/core/pkg/scheduler/constraint"
)

// OneShiftPerDayConstraint H1: 每位护士每天恰好一个班次
type OneShiftPerDayConstraint struct{ *BaseConstraint }

func NewOneShiftPerDayConstraint() *OneShiftPerDayConstraint {
	return &OneShiftPerDayConstraint{NewBaseConstraint("每人每日恰好一班", constraint.TypeOneShiftPerDay)}
}

func (c *OneShiftPerDayConstraint) AddToModel(mb constraint.ModelBuilder, ctx *constraint.Context) {
	for _, n := range ctx.Instance.Nurses {
		for _, d := range ctx.Instance.Dates {
			cells := make([][3]string, 0, len(model.AllShifts))
			for _, s := range model.AllShifts {
				cells = append(cells, [3]string{n.ID, d, string(s)})
			}
			addBoolVarsEQ(mb, collectVarIDs(mb, cells), 1)
		}
	}
}

// Evaluate H1 由 Assignment 的稠密网格表示天然满足（每格恰好一个 Shift 值），无需事后检测
func (c *OneShiftPerDayConstraint) Evaluate(ctx *constraint.Context, a *model.Assignment) []model.Violation {
	return nil
}

// DayDutyRangeConstraint H2: day_min_d ≤ Σ_n x[n][d][DAY] ≤ day_max_d
type DayDutyRangeConstraint struct{ *BaseConstraint }

func NewDayDutyRangeConstraint() *DayDutyRangeConstraint {
	return &DayDutyRangeConstraint{NewBaseConstraint("日勤人数区间", constraint.TypeDayDutyRange)}
}

func (c *DayDutyRangeConstraint) AddToModel(mb constraint.ModelBuilder, ctx *constraint.Context) {
	for _, d := range ctx.Instance.Dates {
		dd, ok := ctx.Instance.DemandOn(d)
		if !ok {
			continue
		}
		cells := make([][3]string, 0, len(ctx.Instance.Nurses))
		for _, n := range ctx.Instance.Nurses {
			cells = append(cells, [3]string{n.ID, d, string(model.ShiftDay)})
		}
		ids := collectVarIDs(mb, cells)
		if dd.DayMax > 0 {
			addBoolVarsLE(mb, ids, dd.DayMax)
		}
		if dd.DayMin > 0 {
			terms := make([]constraint.LinearTerm, len(ids))
			for i, id := range ids {
				terms[i] = constraint.LinearTerm{VarID: id, Coef: -1}
			}
			mb.AddLinearLE(terms, -dd.DayMin)
		}
	}
}

func (c *DayDutyRangeConstraint) Evaluate(ctx *constraint.Context, a *model.Assignment) []model.Violation {
	var out []model.Violation
	for di, d := range ctx.Instance.Dates {
		dd, ok := ctx.Instance.DemandOn(d)
		if !ok {
			continue
		}
		actual := 0
		for ni := range ctx.Instance.Nurses {
			if a.Get(ni, di) == model.ShiftDay {
				actual++
			}
		}
		if actual < dd.DayMin {
			out = append(out, model.Violation{
				Date: d, Shift: model.ShiftDay, Kind: model.KindShortage,
				Difference: dd.DayMin - actual, Actual: actual, RequiredMin: dd.DayMin,
				Message: fmt.Sprintf("%s 日勤缺口 %d 人（实际 %d，最少需要 %d）", d, dd.DayMin-actual, actual, dd.DayMin),
			})
		}
		if dd.DayMax > 0 && actual > dd.DayMax {
			out = append(out, model.Violation{
				Date: d, Shift: model.ShiftDay, Kind: model.KindExcess,
				Difference: actual - dd.DayMax, Actual: actual, RequiredMax: dd.DayMax,
				Message: fmt.Sprintf("%s 日勤超编 %d 人（实际 %d，最多允许 %d）", d, actual-dd.DayMax, actual, dd.DayMax),
			})
		}
	}
	return out
}

// LateExactConstraint H3: Σ_n x[n][d][LATE] = late_d
type LateExactConstraint struct{ *BaseConstraint }

func NewLateExactConstraint() *LateExactConstraint {
	return &LateExactConstraint{NewBaseConstraint("晚班人数精确匹配", constraint.TypeLateExact)}
}

func (c *LateExactConstraint) AddToModel(mb constraint.ModelBuilder, ctx *constraint.Context) {
	addExactShiftCount(mb, ctx, model.ShiftLate, func(d model.DayDemand) int { return d.Late })
}

func (c *LateExactConstraint) Evaluate(ctx *constraint.Context, a *model.Assignment) []model.Violation {
	return evaluateExactShiftCount(ctx, a, model.ShiftLate, func(d model.DayDemand) int { return d.Late })
}

// NightExactConstraint H4: Σ_n x[n][d][NIGHT] = night_d
type NightExactConstraint struct{ *BaseConstraint }

func NewNightExactConstraint() *NightExactConstraint {
	return &NightExactConstraint{NewBaseConstraint("夜班人数精确匹配", constraint.TypeNightExact)}
}

func (c *NightExactConstraint) AddToModel(mb constraint.ModelBuilder, ctx *constraint.Context) {
	addExactShiftCount(mb, ctx, model.ShiftNight, func(d model.DayDemand) int { return d.Night })
}

func (c *NightExactConstraint) Evaluate(ctx *constraint.Context, a *model.Assignment) []model.Violation {
	return evaluateExactShiftCount(ctx, a, model.ShiftNight, func(d model.DayDemand) int { return d.Night })
}

func addExactShiftCount(mb constraint.ModelBuilder, ctx *constraint.Context, shift model.Shift, target func(model.DayDemand) int) {
	for _, d := range ctx.Instance.Dates {
		dd, ok := ctx.Instance.DemandOn(d)
		if !ok {
			continue
		}
		cells := make([][3]string, 0, len(ctx.Instance.Nurses))
		for _, n := range ctx.Instance.Nurses {
			cells = append(cells, [3]string{n.ID, d, string(shift)})
		}
		addBoolVarsEQ(mb, collectVarIDs(mb, cells), target(dd))
	}
}

func evaluateExactShiftCount(ctx *constraint.Context, a *model.Assignment, shift model.Shift, target func(model.DayDemand) int) []model.Violation {
	var out []model.Violation
	for di, d := range ctx.Instance.Dates {
		dd, ok := ctx.Instance.DemandOn(d)
		if !ok {
			continue
		}
		want := target(dd)
		actual := 0
		for ni := range ctx.Instance.Nurses {
			if a.Get(ni, di) == shift {
				actual++
			}
		}
		if actual < want {
			out = append(out, model.Violation{
				Date: d, Shift: shift, Kind: model.KindShortage,
				Difference: want - actual, Actual: actual, RequiredMin: want,
				Message: fmt.Sprintf("%s %s班缺口 %d 人（实际 %d，需要 %d）", d, shift, want-actual, actual, want),
			})
		} else if actual > want {
			out = append(out, model.Violation{
				Date: d, Shift: shift, Kind: model.KindExcess,
				Difference: actual - want, Actual: actual, RequiredMax: want,
				Message: fmt.Sprintf("%s %s班超编 %d 人（实际 %d，需要 %d）", d, shift, actual-want, actual, want),
			})
		}
	}
	return out
}
