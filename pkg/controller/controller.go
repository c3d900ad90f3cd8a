// Package controller 实现 spec §4.6 的 Re-optimization Controller：编排
// Rule Compiler → Solver Driver → Analyzer → Recommender，是核心对外暴露
// 的三个稳定操作（optimize/reoptimize/recheck）的唯一入口。
package controller

import (
	"context"
	"fmt"

	"github.com/nurseopt/core/pkg/analyzer"
	apperrors "github.com/nurseopt/core/pkg/errors"
	"github.com/nurseopt/core/pkg/model"
	"github.com/nurseopt/core/pkg/scheduler/constraint"
	"github.com/nurseopt/core/pkg/scheduler/constraint/builtin"
	"github.com/nurseopt/core/pkg/scheduler/solver"
	"github.com/nurseopt/core/pkg/swap"
)

// AuditRecorder 可选的求解审计钩子，由 internal/audit 注入；控制器不关心其实现
type AuditRecorder interface {
	RecordSolve(ctx context.Context, year, month int, status string, planCount int)
}

// noopRecorder 缺省实现：不记录任何审计
type noopRecorder struct{}

func (noopRecorder) RecordSolve(context.Context, int, int, string, int) {}

// Controller 编排完整的求解与复核流程
type Controller struct {
	analyzer    *analyzer.Analyzer
	recommender *swap.Recommender
	audit       AuditRecorder
}

// New 创建控制器；audit 为 nil 时退化为不记录
func New(audit AuditRecorder) *Controller {
	m := constraint.NewManager()
	constraint.RegisterDefaults(m, builtin.AllConstraints())
	if audit == nil {
		audit = noopRecorder{}
	}
	return &Controller{
		analyzer:    analyzer.New(),
		recommender: swap.New(m),
		audit:       audit,
	}
}

// Outcome 是 optimize/reoptimize 的统一返回：要么是若干可行方案，要么是
// 不可行诊断报告，两者互斥
type Outcome struct {
	Solutions  []model.Solution
	Infeasible *model.InfeasibleReport
}

// Optimize 对应 spec §4.6 的 optimize(instance, k) → [Solution…] | InfeasibleReport
func (c *Controller) Optimize(ctx context.Context, inst *model.ProblemInstance, k int) (*Outcome, error) {
	driver := solver.NewDriver(inst.Policy)
	results, err := driver.Enumerate(ctx, inst, k)
	if err != nil {
		return nil, apperrors.SolverFailure(err)
	}
	outcome, err := c.assembleOutcome(inst, results, nil)
	if err != nil {
		return nil, err
	}
	c.recordAudit(ctx, inst, outcome)
	return outcome, nil
}

// Reoptimize 对应 spec §4.6 的 reoptimize(base_assignment, pinned_cells, instance, k)。
// 每个 pinned cell 在建模前作为一条新的 fixed_shifts 写入对应护士规则；若结果
// 不可行，返回的 InfeasibleReport 携带 base_assignment 本身的违规分析，方便
// 调用方看清楚"为什么"。
func (c *Controller) Reoptimize(ctx context.Context, base *model.Assignment, pinned []model.AssignmentEntry, inst *model.ProblemInstance, k int) (*Outcome, error) {
	pinnedInst, err := applyPinned(inst, pinned)
	if err != nil {
		return nil, err
	}

	driver := solver.NewDriver(pinnedInst.Policy)
	results, err := driver.Enumerate(ctx, pinnedInst, k)
	if err != nil {
		return nil, apperrors.SolverFailure(err)
	}
	outcome, err := c.assembleOutcome(pinnedInst, results, base)
	if err != nil {
		return nil, err
	}
	c.recordAudit(ctx, pinnedInst, outcome)
	return outcome, nil
}

// recordAudit 把本次 optimize/reoptimize 的结果通知审计钩子；INFEASIBLE 时
// 记录方案数为 0，方便宿主按状态统计求解成功率
func (c *Controller) recordAudit(ctx context.Context, inst *model.ProblemInstance, outcome *Outcome) {
	if outcome.Infeasible != nil {
		c.audit.RecordSolve(ctx, inst.Year, inst.Month, outcome.Infeasible.Status, 0)
		return
	}
	c.audit.RecordSolve(ctx, inst.Year, inst.Month, "OK", len(outcome.Solutions))
}

// Recheck 对应 spec §4.6 的 recheck(assignment, instance) → AnalysisReport：
// 不调用求解器，只委托 Analyzer + Recommender
func (c *Controller) Recheck(inst *model.ProblemInstance, a *model.Assignment) model.AnalysisReport {
	report := c.analyzer.Analyze(inst, a)
	report.Recommendations = c.recommender.Recommend(inst, a, report.ViolationCells)
	return report
}

// applyPinned 克隆实例并把每个 pinned cell 写入护士规则的 FixedShifts，
// 冲突（pin 落在已有 forbidden 单元格上）视为输入错误直接拒绝
func applyPinned(inst *model.ProblemInstance, pinned []model.AssignmentEntry) (*model.ProblemInstance, error) {
	clone := *inst
	clone.Nurses = make([]model.Nurse, len(inst.Nurses))
	copy(clone.Nurses, inst.Nurses)

	for _, p := range pinned {
		ni := clone.NurseIndexOf(p.NurseID)
		if ni < 0 {
			return nil, apperrors.InvalidInput("fixed.nurse_id", fmt.Sprintf("未知护士 %s", p.NurseID))
		}
		if clone.DateIndexOf(p.Date) < 0 {
			return nil, apperrors.BadDateRange(fmt.Sprintf("固定单元格日期 %s 不在本月范围内", p.Date))
		}
		nurse := clone.Nurses[ni]
		rule := nurse.Rule
		if rule.HasForbidden(p.Date, p.Shift) {
			return nil, apperrors.ConflictingFixed(p.NurseID, p.Date, string(p.Shift))
		}
		fixed := make(map[model.Cell]bool, len(rule.FixedShifts)+1)
		for cell, v := range rule.FixedShifts {
			fixed[cell] = v
		}
		fixed[model.Cell{Date: p.Date, Shift: p.Shift}] = true
		rule.FixedShifts = fixed
		nurse.Rule = rule
		clone.Nurses[ni] = nurse
	}

	clone.Finalize()
	return &clone, nil
}

// assembleOutcome 把 solver.Result 列表转换成 model.Solution 列表，或者在
// 首个结果不可行时构造 InfeasibleReport
func (c *Controller) assembleOutcome(inst *model.ProblemInstance, results []*solver.Result, base *model.Assignment) (*Outcome, error) {
	if len(results) == 0 || results[0].Status == solver.StatusInfeasible {
		diagnoseOn := base
		if diagnoseOn == nil && len(results) > 0 {
			diagnoseOn = results[0].Assignment
		}
		var report model.AnalysisReport
		if diagnoseOn != nil {
			report = c.analyzer.Analyze(inst, diagnoseOn)
			report.Recommendations = c.recommender.Recommend(inst, diagnoseOn, report.ViolationCells)
		}
		return &Outcome{Infeasible: &model.InfeasibleReport{
			Status:      "INFEASIBLE",
			Message:     "未找到满足全部硬约束的排班方案",
			Analysis:    report,
			Suggestions: suggestRelaxations(inst),
		}}, nil
	}

	solutions := make([]model.Solution, 0, len(results))
	for i, res := range results {
		report := c.analyzer.Analyze(inst, res.Assignment)
		report.Recommendations = c.recommender.Recommend(inst, res.Assignment, report.ViolationCells)

		status := statusLabel(res)
		solutions = append(solutions, model.Solution{
			PlanID:          solver.PlanID(i + 1),
			Label:           fmt.Sprintf("方案 %d (%s)", i+1, status),
			Objective:       res.Objective,
			Assignments:     res.Assignment.ToEntries(inst),
			Summary:         report.Summary,
			Warnings:        res.Warnings,
			Violations:      report.Violations,
			ViolationCells:  report.ViolationCells,
			Recommendations: report.Recommendations,
		})
	}
	return &Outcome{Solutions: solutions}, nil
}

func statusLabel(res *solver.Result) string {
	switch res.Status {
	case solver.StatusOptimal:
		return "OK"
	case solver.StatusUnknown:
		return "TIME_LIMIT"
	default:
		return string(res.Status)
	}
}

// suggestRelaxations 对应 SPEC_FULL.md §4.6 从 original_source 补回的
// suggest_relaxations：不可行时给出结构化的宽松化建议，附加于强制的
// slack 模型分析之外，从不取代它
func suggestRelaxations(inst *model.ProblemInstance) []model.RelaxationSuggestion {
	var out []model.RelaxationSuggestion

	var overloadedDays []string
	for _, d := range inst.Demand {
		capable := 0
		for _, n := range inst.Nurses {
			if !n.Rule.HasForbidden(d.Date, model.ShiftDay) {
				capable++
			}
		}
		if capable < d.DayMin {
			overloadedDays = append(overloadedDays, d.Date)
		}
	}
	if len(overloadedDays) > 0 {
		dates := overloadedDays
		if len(dates) > 7 {
			dates = dates[:7]
		}
		out = append(out, model.RelaxationSuggestion{
			Type:   "relax_day_min",
			Amount: 1,
			Dates:  dates,
			Reason: "日勤最低人数需求超过可承担该班次的护士人数",
		})
	}

	out = append(out, model.RelaxationSuggestion{
		Type:   "allow_weekend_day_without_leader",
		Scope:  "weekend_holiday",
		Reason: "周末/节假日日勤配备组长困难时的临时放宽",
	})

	out = append(out, model.RelaxationSuggestion{
		Type:   "increase_off_quota_for_noncritical",
		Reason: "连续工作与夜班上限之间存在权衡时的候选调整",
	})

	return out
}
