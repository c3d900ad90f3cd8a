package builtin

import (
	"fmt"

	"github.com/nurseopt/core/pkg/model"
	"github.com/nurseopt/core/pkg/scheduler/constraint"
)

// NightThenNoDayConstraint H5: 夜班次日不得排日勤或晚班
type NightThenNoDayConstraint struct{ *BaseConstraint }

func NewNightThenNoDayConstraint() *NightThenNoDayConstraint {
	return &NightThenNoDayConstraint{NewBaseConstraint("夜班次日禁止日勤/晚班", constraint.TypeNightThenNoDay)}
}

func (c *NightThenNoDayConstraint) AddToModel(mb constraint.ModelBuilder, ctx *constraint.Context) {
	dates := ctx.Instance.Dates
	for _, n := range ctx.Instance.Nurses {
		for i := 0; i+1 < len(dates); i++ {
			for _, follow := range []model.Shift{model.ShiftDay, model.ShiftLate} {
				ids := collectVarIDs(mb, [][3]string{
					{n.ID, dates[i], string(model.ShiftNight)},
					{n.ID, dates[i+1], string(follow)},
				})
				addBoolVarsLE(mb, ids, 1)
			}
		}
	}
}

func (c *NightThenNoDayConstraint) Evaluate(ctx *constraint.Context, a *model.Assignment) []model.Violation {
	var out []model.Violation
	dates := ctx.Instance.Dates
	for ni, n := range ctx.Instance.Nurses {
		for di := 0; di+1 < len(dates); di++ {
			if a.Get(ni, di) != model.ShiftNight {
				continue
			}
			next := a.Get(ni, di+1)
			if next == model.ShiftDay || next == model.ShiftLate {
				out = append(out, model.Violation{
					Date: dates[di+1], Shift: next, NurseID: n.ID, Kind: model.KindNightAfterNightDay,
					Message: fmt.Sprintf("护士 %s 在 %s 值夜班后于 %s 被排 %s班", n.ID, dates[di], dates[di+1], next),
				})
			}
		}
	}
	return out
}

// NightCountPerNurseConstraint H6: night_min_n ≤ Σ_d x[n][d][NIGHT] ≤ night_max_n
type NightCountPerNurseConstraint struct{ *BaseConstraint }

func NewNightCountPerNurseConstraint() *NightCountPerNurseConstraint {
	return &NightCountPerNurseConstraint{NewBaseConstraint("护士夜班总数区间", constraint.TypeNightCountPerNurse)}
}

func (c *NightCountPerNurseConstraint) AddToModel(mb constraint.ModelBuilder, ctx *constraint.Context) {
	for _, n := range ctx.Instance.Nurses {
		cells := make([][3]string, 0, len(ctx.Instance.Dates))
		for _, d := range ctx.Instance.Dates {
			cells = append(cells, [3]string{n.ID, d, string(model.ShiftNight)})
		}
		ids := collectVarIDs(mb, cells)
		if n.Rule.NightMax >= 0 {
			addBoolVarsLE(mb, ids, n.Rule.NightMax)
		}
		if n.Rule.NightMin > 0 {
			terms := make([]constraint.LinearTerm, len(ids))
			for i, id := range ids {
				terms[i] = constraint.LinearTerm{VarID: id, Coef: -1}
			}
			mb.AddLinearLE(terms, -n.Rule.NightMin)
		}
	}
}

func (c *NightCountPerNurseConstraint) Evaluate(ctx *constraint.Context, a *model.Assignment) []model.Violation {
	var out []model.Violation
	for ni, n := range ctx.Instance.Nurses {
		count := 0
		for di := range ctx.Instance.Dates {
			if a.Get(ni, di) == model.ShiftNight {
				count++
			}
		}
		if count < n.Rule.NightMin {
			out = append(out, model.Violation{
				NurseID: n.ID, Shift: model.ShiftNight, Kind: model.KindNightCapExceeded,
				Difference: n.Rule.NightMin - count, Actual: count, RequiredMin: n.Rule.NightMin,
				Message: fmt.Sprintf("护士 %s 夜班数 %d 低于下限 %d", n.ID, count, n.Rule.NightMin),
			})
		}
		if n.Rule.NightMax >= 0 && count > n.Rule.NightMax {
			out = append(out, model.Violation{
				NurseID: n.ID, Shift: model.ShiftNight, Kind: model.KindNightCapExceeded,
				Difference: count - n.Rule.NightMax, Actual: count, RequiredMax: n.Rule.NightMax,
				Message: fmt.Sprintf("护士 %s 夜班数 %d 超过上限 %d", n.ID, count, n.Rule.NightMax),
			})
		}
	}
	return out
}
