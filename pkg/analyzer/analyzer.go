// Package analyzer 实现 spec §4.4 的 analyze(assignment, instance) → AnalysisReport：
// 纯函数，不调用求解器，只读取 Assignment 与 ProblemInstance。
package analyzer

import (
	"fmt"
	"sort"

	"github.com/nurseopt/core/pkg/model"
	"github.com/nurseopt/core/pkg/scheduler/constraint"
	"github.com/nurseopt/core/pkg/scheduler/constraint/builtin"
	"github.com/nurseopt/core/pkg/stats"
)

// Analyzer 复用 constraint.Manager 的 Evaluate 方法，避免与 Model Builder
// 的 H1-H14 语义重复实现
type Analyzer struct {
	manager *constraint.Manager
}

func New() *Analyzer {
	m := constraint.NewManager()
	constraint.RegisterDefaults(m, builtin.AllConstraints())
	return &Analyzer{manager: m}
}

// Analyze 对应 spec §4.4 的 analyze 操作
func (an *Analyzer) Analyze(inst *model.ProblemInstance, a *model.Assignment) model.AnalysisReport {
	ctx := constraint.NewContext(inst)
	violations := an.manager.EvaluateAll(ctx, a)

	cells := dedupeCells(violations)
	warnings := requestedOffWarnings(inst, a)

	return model.AnalysisReport{
		OK: len(violations) == 0,
		Summary: model.AnalysisSummary{
			PerDay:   stats.PerDaySummaries(inst, a),
			PerNurse: stats.PerNurseSummaries(inst, a),
		},
		Warnings:       warnings,
		Violations:     violations,
		ViolationCells: cells,
	}
}

// dedupeCells 提取 shortage/excess 违规的去重单元格，供 UI 高亮
func dedupeCells(violations []model.Violation) []model.ViolationCell {
	seen := make(map[model.ViolationCell]bool)
	var out []model.ViolationCell
	for _, v := range violations {
		if v.Kind != model.KindShortage && v.Kind != model.KindExcess {
			continue
		}
		cell := model.ViolationCell{Date: v.Date, Shift: v.Shift, Kind: v.Kind}
		if seen[cell] {
			continue
		}
		seen[cell] = true
		out = append(out, cell)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		if model.ShiftRank(out[i].Shift) != model.ShiftRank(out[j].Shift) {
			return model.ShiftRank(out[i].Shift) < model.ShiftRank(out[j].Shift)
		}
		return model.KindRank(out[i].Kind) < model.KindRank(out[j].Kind)
	})
	return out
}

// requestedOffWarnings 未硬性违规但值得提示的信息：请求休假未被满足
func requestedOffWarnings(inst *model.ProblemInstance, a *model.Assignment) []string {
	var warnings []string
	for ni, n := range inst.Nurses {
		for date := range n.Rule.RequestedOff {
			di := inst.DateIndexOf(date)
			if di < 0 {
				continue
			}
			if a.Get(ni, di) != model.ShiftOff {
				warnings = append(warnings, fmt.Sprintf("护士 %s 请求 %s 休假未被满足", n.ID, date))
			}
		}
	}
	sort.Strings(warnings)
	return warnings
}
