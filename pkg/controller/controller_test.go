package controller

import (
	"context"
	"testing"

	"github.com/nurseopt/core/pkg/model"
	"github.com/nurseopt/core/pkg/rulecompiler"
)

func compileTestInstance(t *testing.T) *model.ProblemInstance {
	t.Helper()
	req := rulecompiler.Request{
		Year:  2025,
		Month: 10,
		Nurses: []model.NurseRecord{
			{ID: "n1", Team: "A", LeaderOK: true},
			{ID: "n2", Team: "A", LeaderOK: true},
			{ID: "n3", Team: "B", LeaderOK: true},
			{ID: "n4", Team: "B", LeaderOK: true},
		},
		Defaults: model.DemandDefaults{
			Weekday:         model.DayDemandTarget{DayMin: 2, DayMax: 3, Late: 0, Night: 1},
			Sunday:          model.DayDemandTarget{DayMin: 2, DayMax: 3, Late: 0, Night: 1},
			SaturdayHoliday: model.DayDemandTarget{DayMin: 2, DayMax: 3, Late: 0, Night: 1},
		},
		Policy: model.DefaultPolicy(),
	}
	inst, err := rulecompiler.Compile(req)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	return inst
}

func TestOptimize_四护士小实例返回可行方案(t *testing.T) {
	inst := compileTestInstance(t)
	c := New(nil)

	outcome, err := c.Optimize(context.Background(), inst, 1)
	if err != nil {
		t.Fatalf("Optimize() error = %v", err)
	}
	if outcome.Infeasible != nil {
		t.Fatalf("期望可行，实际 INFEASIBLE: %+v", outcome.Infeasible)
	}
	if len(outcome.Solutions) != 1 {
		t.Fatalf("solutions 数 = %d, want 1", len(outcome.Solutions))
	}
	if outcome.Solutions[0].PlanID != "plan-1" {
		t.Errorf("PlanID = %s, want plan-1", outcome.Solutions[0].PlanID)
	}
}

func TestReoptimize_固定单元格保留在结果中(t *testing.T) {
	inst := compileTestInstance(t)
	c := New(nil)

	base, err := c.Optimize(context.Background(), inst, 1)
	if err != nil || base.Infeasible != nil {
		t.Fatalf("baseline optimize failed: err=%v infeasible=%v", err, base.Infeasible)
	}
	baseAssignment := model.FromEntries(inst, base.Solutions[0].Assignments)

	pinned := []model.AssignmentEntry{{NurseID: "n1", Date: inst.Dates[0], Shift: model.ShiftNight}}
	outcome, err := c.Reoptimize(context.Background(), baseAssignment, pinned, inst, 1)
	if err != nil {
		t.Fatalf("Reoptimize() error = %v", err)
	}
	if outcome.Infeasible != nil {
		t.Fatalf("期望可行，实际 INFEASIBLE: %+v", outcome.Infeasible)
	}
	found := false
	for _, e := range outcome.Solutions[0].Assignments {
		if e.NurseID == "n1" && e.Date == inst.Dates[0] {
			if e.Shift != model.ShiftNight {
				t.Errorf("固定单元格 n1/%s 的班次 = %s, want NIGHT", inst.Dates[0], e.Shift)
			}
			found = true
		}
	}
	if !found {
		t.Fatal("未在结果中找到固定单元格")
	}
}

func TestRecheck_无违规时OK为真(t *testing.T) {
	inst := compileTestInstance(t)
	c := New(nil)

	outcome, err := c.Optimize(context.Background(), inst, 1)
	if err != nil || outcome.Infeasible != nil {
		t.Fatalf("baseline optimize failed: err=%v infeasible=%v", err, outcome.Infeasible)
	}
	a := model.FromEntries(inst, outcome.Solutions[0].Assignments)

	report := c.Recheck(inst, a)
	if !report.OK {
		t.Fatalf("期望 recheck OK=true，实际违规: %+v", report.Violations)
	}
}
