package builtin

import (
	"fmt"

	"github.com/nurseopt/core/pkg/model"
	"github.com/nurseopt/core/pkg/scheduler/constraint"
)

// ForbiddenCellsConstraint H9: x[n][d][s] = 0 对每个 (d,s) ∈ forbidden_shifts_n
type ForbiddenCellsConstraint struct{ *BaseConstraint }

func NewForbiddenCellsConstraint() *ForbiddenCellsConstraint {
	return &ForbiddenCellsConstraint{NewBaseConstraint("禁止班次单元格", constraint.TypeForbiddenCells)}
}

func (c *ForbiddenCellsConstraint) AddToModel(mb constraint.ModelBuilder, ctx *constraint.Context) {
	for _, n := range ctx.Instance.Nurses {
		for cell := range n.Rule.ForbiddenShifts {
			if id, ok := mb.BoolVar(n.ID, cell.Date, cell.Shift); ok {
				mb.FixBool(id, false)
			}
		}
	}
}

func (c *ForbiddenCellsConstraint) Evaluate(ctx *constraint.Context, a *model.Assignment) []model.Violation {
	var out []model.Violation
	for ni, n := range ctx.Instance.Nurses {
		for cell := range n.Rule.ForbiddenShifts {
			di := ctx.Instance.DateIndexOf(cell.Date)
			if di < 0 {
				continue
			}
			if a.Get(ni, di) == cell.Shift {
				out = append(out, model.Violation{
					Date: cell.Date, Shift: cell.Shift, NurseID: n.ID, Kind: model.KindForbiddenAssigned,
					Message: fmt.Sprintf("护士 %s 在 %s 被排入禁止班次 %s", n.ID, cell.Date, cell.Shift),
				})
			}
		}
	}
	return out
}

// FixedCellsConstraint H10: x[n][d][s] = 1 对每个 (d,s) ∈ fixed_shifts_n
type FixedCellsConstraint struct{ *BaseConstraint }

func NewFixedCellsConstraint() *FixedCellsConstraint {
	return &FixedCellsConstraint{NewBaseConstraint("固定班次单元格", constraint.TypeFixedCells)}
}

func (c *FixedCellsConstraint) AddToModel(mb constraint.ModelBuilder, ctx *constraint.Context) {
	for _, n := range ctx.Instance.Nurses {
		for cell := range n.Rule.FixedShifts {
			if id, ok := mb.BoolVar(n.ID, cell.Date, cell.Shift); ok {
				mb.FixBool(id, true)
			}
		}
	}
}

func (c *FixedCellsConstraint) Evaluate(ctx *constraint.Context, a *model.Assignment) []model.Violation {
	var out []model.Violation
	for ni, n := range ctx.Instance.Nurses {
		for cell := range n.Rule.FixedShifts {
			di := ctx.Instance.DateIndexOf(cell.Date)
			if di < 0 {
				continue
			}
			if actual := a.Get(ni, di); actual != cell.Shift {
				out = append(out, model.Violation{
					Date: cell.Date, Shift: actual, NurseID: n.ID, Kind: model.KindFixedViolated,
					Message: fmt.Sprintf("护士 %s 在 %s 应固定为 %s，实际为 %s", n.ID, cell.Date, cell.Shift, actual),
				})
			}
		}
	}
	return out
}
