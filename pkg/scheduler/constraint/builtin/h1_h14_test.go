package builtin

import (
	"testing"

	"github.com/nurseopt/core/pkg/model"
	"github.com/nurseopt/core/pkg/scheduler/constraint"
)

func newTestInstance() *model.ProblemInstance {
	inst := &model.ProblemInstance{
		Year:  2025,
		Month: 10,
		Dates: []string{"2025-10-06", "2025-10-07", "2025-10-08"},
		Nurses: []model.Nurse{
			{ID: "n1", Team: model.TeamA, LeaderOK: true, Rule: model.NurseRule{NightMax: 8, WeeklyWorkMax: 7, WeekendHolidayMax: 100}},
			{ID: "n2", Team: model.TeamB, Rule: model.NurseRule{NightMax: 8, WeeklyWorkMax: 7, WeekendHolidayMax: 100}},
		},
		Demand: []model.DayDemand{
			{Date: "2025-10-06", DayMin: 1, DayMax: 2, Late: 0, Night: 1},
			{Date: "2025-10-07", DayMin: 1, DayMax: 2, Late: 0, Night: 1},
			{Date: "2025-10-08", DayMin: 1, DayMax: 2, Late: 0, Night: 1},
		},
	}
	inst.Finalize()
	return inst
}

func TestDayDutyRangeConstraint_检测缺口与超编(t *testing.T) {
	inst := newTestInstance()
	ctx := constraint.NewContext(inst)
	a := model.NewAssignment(2, 3)
	// 2025-10-06 无人日勤 -> 缺口；其余保持OFF

	c := NewDayDutyRangeConstraint()
	violations := c.Evaluate(ctx, a)
	if len(violations) == 0 {
		t.Fatal("期望检测到日勤缺口")
	}
	if violations[0].Kind != model.KindShortage {
		t.Errorf("Kind = %v, want shortage", violations[0].Kind)
	}
}

func TestNightLeaderPresenceConstraint_无带班护士时报告缺失(t *testing.T) {
	inst := newTestInstance()
	ctx := constraint.NewContext(inst)
	a := model.NewAssignment(2, 3)
	a.Set(1, 0, model.ShiftNight) // n2 无 leader_ok
	a.Set(0, 1, model.ShiftNight) // 其余两晚由 leader n1 值班
	a.Set(0, 2, model.ShiftNight)

	c := NewNightLeaderPresenceConstraint()
	violations := c.Evaluate(ctx, a)
	if len(violations) != 1 {
		t.Fatalf("违规数 = %d, want 1", len(violations))
	}
	if violations[0].Kind != model.KindNightLeaderMissing {
		t.Errorf("Kind = %v, want night_leader_missing", violations[0].Kind)
	}
}

func TestNightThenNoDayConstraint_夜班次日禁止日勤(t *testing.T) {
	inst := newTestInstance()
	ctx := constraint.NewContext(inst)
	a := model.NewAssignment(2, 3)
	a.Set(0, 0, model.ShiftNight)
	a.Set(0, 1, model.ShiftDay)

	c := NewNightThenNoDayConstraint()
	violations := c.Evaluate(ctx, a)
	if len(violations) != 1 {
		t.Fatalf("违规数 = %d, want 1", len(violations))
	}
	if violations[0].Kind != model.KindNightAfterNightDay {
		t.Errorf("Kind = %v, want night_after_night_day", violations[0].Kind)
	}
}

func TestConsecutiveNightCapConstraint_禁止连续三晚(t *testing.T) {
	inst := newTestInstance()
	ctx := constraint.NewContext(inst)
	a := model.NewAssignment(2, 3)
	a.Set(0, 0, model.ShiftNight)
	a.Set(0, 1, model.ShiftNight)
	a.Set(0, 2, model.ShiftNight)

	c := NewConsecutiveNightCapConstraint()
	violations := c.Evaluate(ctx, a)
	if len(violations) != 1 {
		t.Fatalf("违规数 = %d, want 1", len(violations))
	}
}

func TestForbiddenCellsConstraint_检测被禁止的班次(t *testing.T) {
	inst := newTestInstance()
	inst.Nurses[0].Rule.AddForbidden("2025-10-06", model.ShiftNight)
	inst.Finalize()
	ctx := constraint.NewContext(inst)
	a := model.NewAssignment(2, 3)
	a.Set(0, 0, model.ShiftNight)

	c := NewForbiddenCellsConstraint()
	violations := c.Evaluate(ctx, a)
	if len(violations) != 1 {
		t.Fatalf("违规数 = %d, want 1", len(violations))
	}
	if violations[0].Kind != model.KindForbiddenAssigned {
		t.Errorf("Kind = %v, want forbidden_assigned", violations[0].Kind)
	}
}
