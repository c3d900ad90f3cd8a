package swap

import (
	"testing"

	"github.com/nurseopt/core/pkg/model"
	"github.com/nurseopt/core/pkg/scheduler/constraint"
	"github.com/nurseopt/core/pkg/scheduler/constraint/builtin"
)

func newTestInstance() *model.ProblemInstance {
	inst := &model.ProblemInstance{
		Year:  2025,
		Month: 10,
		Dates: []string{"2025-10-06", "2025-10-07"},
		Nurses: []model.Nurse{
			{ID: "n1", Team: model.TeamA, LeaderOK: true, Rule: model.NurseRule{NightMax: 8, WeeklyWorkMax: 7, WeekendHolidayMax: 100}},
			{ID: "n2", Team: model.TeamB, Rule: model.NurseRule{NightMax: 8, WeeklyWorkMax: 7, WeekendHolidayMax: 100}},
			{ID: "n3", Team: model.TeamA, Rule: model.NurseRule{NightMax: 8, WeeklyWorkMax: 7, WeekendHolidayMax: 100}},
		},
		Demand: []model.DayDemand{
			{Date: "2025-10-06", DayMin: 1, DayMax: 2, Late: 0, Night: 1},
			{Date: "2025-10-07", DayMin: 1, DayMax: 2, Late: 0, Night: 1},
		},
	}
	inst.Finalize()
	return inst
}

func newManager() *constraint.Manager {
	m := constraint.NewManager()
	constraint.RegisterDefaults(m, builtin.AllConstraints())
	return m
}

func TestRecommendShortage_给出未在岗护士的候选(t *testing.T) {
	inst := newTestInstance()
	a := model.NewAssignment(3, 2) // 全员 OFF，10-06 的 DAY 班缺口

	r := New(newManager())
	cells := []model.ViolationCell{{Date: "2025-10-06", Shift: model.ShiftDay, Kind: model.KindShortage}}
	recs := r.Recommend(inst, a, cells)

	if len(recs) != 1 {
		t.Fatalf("recommendations 数 = %d, want 1", len(recs))
	}
	if len(recs[0].Suggestions) == 0 {
		t.Fatal("期望至少一条候选建议")
	}
	for _, s := range recs[0].Suggestions {
		if s.SuggestedShift != model.ShiftDay {
			t.Errorf("SuggestedShift = %s, want DAY", s.SuggestedShift)
		}
	}
}

func TestRecommendShortage_锁定候选排在末尾且标记Locked(t *testing.T) {
	inst := newTestInstance()
	inst.Nurses[0].Rule.AddFixed("2025-10-06", model.ShiftOff)
	a := model.NewAssignment(3, 2)
	a.Set(0, 0, model.ShiftOff)

	r := New(newManager())
	cells := []model.ViolationCell{{Date: "2025-10-06", Shift: model.ShiftDay, Kind: model.KindShortage}}
	recs := r.Recommend(inst, a, cells)

	if len(recs[0].Suggestions) == 0 {
		t.Fatal("期望至少一条候选建议")
	}
	last := recs[0].Suggestions[len(recs[0].Suggestions)-1]
	foundLocked := false
	for _, s := range recs[0].Suggestions {
		if s.Locked {
			foundLocked = true
		}
	}
	if foundLocked && !last.Locked {
		t.Error("锁定候选应排在末尾")
	}
}

func TestRecommendExcess_从在岗护士中选出候选并改派为OFF(t *testing.T) {
	inst := newTestInstance()
	a := model.NewAssignment(3, 2)
	a.Set(0, 0, model.ShiftDay)
	a.Set(1, 0, model.ShiftDay)
	a.Set(2, 0, model.ShiftDay) // 超过 DayMax=2

	r := New(newManager())
	cells := []model.ViolationCell{{Date: "2025-10-06", Shift: model.ShiftDay, Kind: model.KindExcess}}
	recs := r.Recommend(inst, a, cells)

	if len(recs[0].Suggestions) == 0 {
		t.Fatal("期望至少一条候选建议")
	}
	for _, s := range recs[0].Suggestions {
		if s.CurrentShift != model.ShiftDay {
			t.Errorf("CurrentShift = %s, want DAY", s.CurrentShift)
		}
	}
}

func TestRecommend_最多返回五条建议(t *testing.T) {
	inst := newTestInstance()
	a := model.NewAssignment(3, 2)

	r := New(newManager())
	cells := []model.ViolationCell{{Date: "2025-10-06", Shift: model.ShiftDay, Kind: model.KindShortage}}
	recs := r.Recommend(inst, a, cells)

	if len(recs[0].Suggestions) > 5 {
		t.Errorf("Suggestions 数 = %d, want <= 5", len(recs[0].Suggestions))
	}
}
