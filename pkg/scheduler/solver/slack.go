package solver

import (
	"context"
	"time"

	"github.com/nurseopt/core/pkg/model"
	"github.com/nurseopt/core/pkg/scheduler/constraint"
)

// slackKinds 是 H2-H8 中可以被松弛的违规种类，权重为 w_slack；
// H1/H5/H9-H14 是结构性/带班/团队安全约束，任何时候都不进入松弛集合。
var slackKinds = map[model.ViolationKind]bool{
	model.KindShortage:           true,
	model.KindExcess:             true,
	model.KindNightCapExceeded:   true,
	model.KindWeeklyCapExceeded:  true,
	model.KindWeekendCapExceeded: true,
}

// solveWithSlack 实现 §7 的松弛诊断：当基础求解仍有硬约束违规时，
// 对 H2-H8 引入按 w_slack 加权的软惩罚重新退火，非可松弛违规仍按巨大惩罚对待，
// 结果始终以 status:"INFEASIBLE" 返回，交由 Analyzer 呈现具体违规与幅度。
func (d *Driver) solveWithSlack(ctx context.Context, inst *model.ProblemInstance) (*Result, error) {
	m := NewModel(inst)
	cctx := constraint.NewContext(inst)
	d.Manager.AddAllToModel(m, cctx)

	initial := newGreedyBuilder(m).build()
	seedAssignment(inst, initial)

	obj := NewObjective(inst, d.Policy.Weights)
	wSlack, _ := d.Policy.Weights.Slack.Float64()

	cfg := DefaultSearchConfig()
	timeLimit := d.Policy.SolveTimeLimitMS
	if timeLimit <= 0 {
		timeLimit = model.DefaultPolicy().SolveTimeLimitMS
	}
	cfg.MaxTime = time.Duration(timeLimit) * time.Millisecond

	scorer := func(a *model.Assignment) candidate {
		violations := d.Manager.EvaluateAll(cctx, a)
		hard := 0
		var slack float64
		for _, v := range violations {
			if slackKinds[v.Kind] {
				diff := v.Difference
				if diff <= 0 {
					diff = 1
				}
				slack += float64(diff) * wSlack
			} else {
				hard++
			}
		}
		return candidate{assignment: a, hardCount: hard, soft: obj.Score(a) + slack}
	}

	ls := newLocalSearch(cfg, d.Manager, cctx, obj, fixedCellSet(inst), d.Policy.Seed)
	solveCtx, cancel := context.WithTimeout(ctx, cfg.MaxTime)
	defer cancel()

	best := scorer(initial)
	noImprove := 0
	start := time.Now()
loop:
	for i := 0; i < cfg.MaxIterations; i++ {
		select {
		case <-solveCtx.Done():
			break loop
		default:
		}
		if time.Since(start) > cfg.MaxTime {
			break
		}
		neighbor := ls.mutate(best.assignment)
		if neighbor == nil {
			continue
		}
		cand := scorer(neighbor)
		if cand.score() < best.score() {
			best = cand
			noImprove = 0
		} else {
			noImprove++
		}
		if noImprove >= cfg.PlateauThreshold {
			break
		}
	}

	violations := d.Manager.EvaluateAll(cctx, best.assignment)
	return &Result{
		Status:     StatusInfeasible,
		Assignment: best.assignment,
		Objective:  best.soft,
		Violations: violations,
		Warnings:   []string{"SLACK_MODEL"},
	}, nil
}
