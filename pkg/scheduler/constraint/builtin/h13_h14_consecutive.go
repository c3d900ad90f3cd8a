package builtin

import (
	"fmt"

	"github.com/nurseopt/core/pkg/model"
	"github.com/nurseopt/core/pkg/scheduler/constraint"
)

// ConsecutiveNightCapConstraint H13: 任意连续3天内夜班数 ≤ 2（不允许连续3个夜班）
type ConsecutiveNightCapConstraint struct{ *BaseConstraint }

func NewConsecutiveNightCapConstraint() *ConsecutiveNightCapConstraint {
	return &ConsecutiveNightCapConstraint{NewBaseConstraint("连续夜班上限", constraint.TypeConsecutiveNightCap)}
}

func (c *ConsecutiveNightCapConstraint) AddToModel(mb constraint.ModelBuilder, ctx *constraint.Context) {
	dates := ctx.Instance.Dates
	for _, n := range ctx.Instance.Nurses {
		for i := 0; i+2 < len(dates); i++ {
			cells := [][3]string{
				{n.ID, dates[i], string(model.ShiftNight)},
				{n.ID, dates[i+1], string(model.ShiftNight)},
				{n.ID, dates[i+2], string(model.ShiftNight)},
			}
			addBoolVarsLE(mb, collectVarIDs(mb, cells), 2)
		}
	}
}

func (c *ConsecutiveNightCapConstraint) Evaluate(ctx *constraint.Context, a *model.Assignment) []model.Violation {
	var out []model.Violation
	dates := ctx.Instance.Dates
	for ni, n := range ctx.Instance.Nurses {
		for i := 0; i+2 < len(dates); i++ {
			count := 0
			for j := i; j <= i+2; j++ {
				if a.Get(ni, j) == model.ShiftNight {
					count++
				}
			}
			if count > 2 {
				out = append(out, model.Violation{
					Date: dates[i+2], Shift: model.ShiftNight, NurseID: n.ID, Kind: model.KindConsecutiveNight,
					Difference: count - 2, Actual: count, RequiredMax: 2,
					Message: fmt.Sprintf("护士 %s 在 %s 至 %s 连续三天全部值夜班", n.ID, dates[i], dates[i+2]),
				})
			}
		}
	}
	return out
}

// MaxConsecutiveWorkConstraint H14: 任意连续6天窗口内在岗天数 ≤ 5
type MaxConsecutiveWorkConstraint struct{ *BaseConstraint }

func NewMaxConsecutiveWorkConstraint() *MaxConsecutiveWorkConstraint {
	return &MaxConsecutiveWorkConstraint{NewBaseConstraint("连续在岗上限", constraint.TypeMaxConsecutiveWork)}
}

const consecutiveWorkWindow = 6
const consecutiveWorkCap = 5

func (c *MaxConsecutiveWorkConstraint) AddToModel(mb constraint.ModelBuilder, ctx *constraint.Context) {
	dates := ctx.Instance.Dates
	for _, n := range ctx.Instance.Nurses {
		for i := 0; i+consecutiveWorkWindow <= len(dates); i++ {
			window := dates[i : i+consecutiveWorkWindow]
			addBoolVarsLE(mb, workVarIDs(mb, n.ID, window), consecutiveWorkCap)
		}
	}
}

func (c *MaxConsecutiveWorkConstraint) Evaluate(ctx *constraint.Context, a *model.Assignment) []model.Violation {
	var out []model.Violation
	dates := ctx.Instance.Dates
	for _, n := range ctx.Instance.Nurses {
		for i := 0; i+consecutiveWorkWindow <= len(dates); i++ {
			window := dates[i : i+consecutiveWorkWindow]
			count := workDaysInWindow(a, ctx.Instance, n.ID, window)
			if count > consecutiveWorkCap {
				out = append(out, model.Violation{
					Date: window[len(window)-1], NurseID: n.ID, Kind: model.KindConsecutiveWork,
					Difference: count - consecutiveWorkCap, Actual: count, RequiredMax: consecutiveWorkCap,
					Message: fmt.Sprintf("护士 %s 在 %s 至 %s 的6天窗口内在岗 %d 天，超过上限 %d", n.ID, window[0], window[len(window)-1], count, consecutiveWorkCap),
				})
			}
		}
	}
	return out
}

// AllConstraints 返回 H1-H14 的完整内建集合，供 controller/model builder 初始化 Manager
func AllConstraints() []constraint.Constraint {
	return []constraint.Constraint{
		NewOneShiftPerDayConstraint(),
		NewDayDutyRangeConstraint(),
		NewLateExactConstraint(),
		NewNightExactConstraint(),
		NewNightThenNoDayConstraint(),
		NewNightCountPerNurseConstraint(),
		NewWeeklyWorkCapConstraint(),
		NewWeekendHolidayCapConstraint(),
		NewForbiddenCellsConstraint(),
		NewFixedCellsConstraint(),
		NewNightTeamCompositionConstraint(),
		NewNightLeaderPresenceConstraint(),
		NewConsecutiveNightCapConstraint(),
		NewMaxConsecutiveWorkConstraint(),
	}
}
