package solver

import (
	"context"
	"fmt"
	"time"

	"github.com/nurseopt/core/pkg/model"
	"github.com/nurseopt/core/pkg/scheduler/constraint"
	"github.com/nurseopt/core/pkg/scheduler/constraint/builtin"
)

// Result 是 solve(time_limit_ms) 的返回值：状态 + 最优/可行分配 + 目标值 + 警告
type Result struct {
	Status     Status
	Assignment *model.Assignment
	Objective  float64
	Violations []model.Violation
	Warnings   []string
}

// Driver 包装 new_model/minimize/solve，并驱动 §4.2 的多样枚举回路
type Driver struct {
	Policy   model.Policy
	Manager  *constraint.Manager
}

// NewDriver 创建求解驱动，内建约束集合固定为 H1-H14
func NewDriver(policy model.Policy) *Driver {
	m := constraint.NewManager()
	constraint.RegisterDefaults(m, builtin.AllConstraints())
	return &Driver{Policy: policy, Manager: m}
}

// fixedCellSet 收集 H10 固定单元格的 (nurseIdx,dateIdx)，供局部搜索禁止移动
func fixedCellSet(inst *model.ProblemInstance) map[[2]int]bool {
	set := make(map[[2]int]bool)
	for ni, n := range inst.Nurses {
		for cell := range n.Rule.FixedShifts {
			di := inst.DateIndexOf(cell.Date)
			if di >= 0 {
				set[[2]int{ni, di}] = true
			}
		}
	}
	return set
}

// seedAssignment 应用 H9/H10 固定/禁止约束到贪心构造的初始解上，确保起点不违反 fixed
func seedAssignment(inst *model.ProblemInstance, a *model.Assignment) {
	for ni, n := range inst.Nurses {
		for di, date := range inst.Dates {
			if s, ok := n.Rule.FixedShiftOn(date); ok {
				a.Set(ni, di, s)
			} else if a.Get(ni, di) != model.ShiftOff && n.Rule.HasForbidden(date, a.Get(ni, di)) {
				a.Set(ni, di, model.ShiftOff)
			}
		}
	}
}

// solveOnce 用给定时间预算跑一次贪心构造 + 局部搜索，返回状态与最优候选解
func (d *Driver) solveOnce(ctx context.Context, inst *model.ProblemInstance, timeLimitMS int64, seed int64, noGoods []noGoodCut, objectiveCeiling float64) *Result {
	m := NewModel(inst)
	cctx := constraint.NewContext(inst)
	d.Manager.AddAllToModel(m, cctx)

	initial := newGreedyBuilder(m).build()
	seedAssignment(inst, initial)

	obj := NewObjective(inst, d.Policy.Weights)
	cfg := DefaultSearchConfig()
	cfg.MaxTime = time.Duration(timeLimitMS) * time.Millisecond

	ls := newLocalSearch(cfg, d.Manager, cctx, obj, fixedCellSet(inst), seed)

	solveCtx, cancel := context.WithTimeout(ctx, cfg.MaxTime)
	defer cancel()

	best, cand := ls.run(solveCtx, initial, noGoods, objectiveCeiling)

	status := StatusOptimal
	var warnings []string
	if cand.hardCount > 0 {
		status = StatusInfeasible
	} else if solveCtx.Err() != nil {
		status = StatusUnknown
		warnings = append(warnings, "TIME_LIMIT")
	}
	if ctx.Err() != nil {
		warnings = append(warnings, "CANCELLED")
	}

	return &Result{
		Status:     status,
		Assignment: best,
		Objective:  cand.soft,
		Violations: d.Manager.EvaluateAll(cctx, best),
		Warnings:   warnings,
	}
}

// Optimize 求解单个最优/可行解，对应 §4.3 的 new_model→minimize→solve
func (d *Driver) Optimize(ctx context.Context, inst *model.ProblemInstance) (*Result, error) {
	timeLimit := d.Policy.SolveTimeLimitMS
	if timeLimit <= 0 {
		timeLimit = model.DefaultPolicy().SolveTimeLimitMS
	}
	res := d.solveOnce(ctx, inst, timeLimit, d.Policy.Seed, nil, 0)
	if res.Status == StatusInfeasible {
		return d.solveWithSlack(ctx, inst)
	}
	return res, nil
}

// Enumerate 实现 §4.2 多样枚举：Hamming 距离 no-good cut + 目标松弛带
func (d *Driver) Enumerate(ctx context.Context, inst *model.ProblemInstance, k int) ([]*Result, error) {
	if k <= 0 {
		k = 1
	}
	first, err := d.Optimize(ctx, inst)
	if err != nil {
		return nil, err
	}
	results := []*Result{first}
	if first.Status == StatusInfeasible || first.Status == StatusUnknown || k == 1 {
		return results, nil
	}

	delta := hammingDelta(d.Policy.HammingDeltaMin, d.Policy.HammingFraction, len(inst.Nurses), len(inst.Dates))
	ceiling := first.Objective * (1 + d.Policy.ObjectiveBand)
	cuts := []noGoodCut{{prior: first.Assignment, delta: delta}}

	budget := d.Policy.EnumerationBudgetMS
	if budget <= 0 {
		budget = model.DefaultPolicy().EnumerationBudgetMS
	}
	remaining := budget

	for i := 1; i < k; i++ {
		select {
		case <-ctx.Done():
			return results, nil
		default:
		}
		slotsLeft := int64(k - i)
		perSolve := remaining / slotsLeft
		res := d.solveOnce(ctx, inst, perSolve, d.Policy.Seed+int64(i), cuts, ceiling)
		remaining -= perSolve
		if res.Status == StatusInfeasible || !satisfiesNoGoods(res.Assignment, cuts) || (ceiling > 0 && res.Objective > ceiling) {
			break
		}
		results = append(results, res)
		cuts = append(cuts, noGoodCut{prior: res.Assignment, delta: delta})
		if remaining <= 0 {
			break
		}
	}
	return results, nil
}

// PlanID 按 spec §4.2 生成 "plan-<i>" 形式的稳定标识（i 从 1 起）
func PlanID(i int) string {
	return fmt.Sprintf("plan-%d", i)
}
