package stats

import (
	"testing"

	"github.com/nurseopt/core/pkg/model"
)

func newTestInstance() *model.ProblemInstance {
	inst := &model.ProblemInstance{
		Year:  2025,
		Month: 10,
		Dates: []string{"2025-10-06", "2025-10-07"},
		Nurses: []model.Nurse{
			{ID: "n1", Team: model.TeamA},
			{ID: "n2", Team: model.TeamB},
		},
		Demand: []model.DayDemand{
			{Date: "2025-10-06", DayMin: 1, DayMax: 2, Late: 0, Night: 1},
			{Date: "2025-10-07", DayMin: 1, DayMax: 2, Late: 0, Night: 1, IsWeekend: true},
		},
	}
	inst.Finalize()
	return inst
}

func TestPerDaySummaries_统计实填与需求(t *testing.T) {
	inst := newTestInstance()
	a := model.NewAssignment(2, 2)
	a.Set(0, 0, model.ShiftDay)
	a.Set(1, 0, model.ShiftNight)

	summaries := PerDaySummaries(inst, a)
	if len(summaries) != 2 {
		t.Fatalf("summaries 数 = %d, want 2", len(summaries))
	}
	if summaries[0].Filled[model.ShiftDay] != 1 {
		t.Errorf("Filled[DAY] = %d, want 1", summaries[0].Filled[model.ShiftDay])
	}
	if summaries[0].Filled[model.ShiftNight] != 1 {
		t.Errorf("Filled[NIGHT] = %d, want 1", summaries[0].Filled[model.ShiftNight])
	}
}

func TestPerNurseSummaries_统计周末在岗与总天数(t *testing.T) {
	inst := newTestInstance()
	a := model.NewAssignment(2, 2)
	a.Set(0, 0, model.ShiftDay)
	a.Set(0, 1, model.ShiftDay) // 在标记为周末的 10-07 在岗

	summaries := PerNurseSummaries(inst, a)
	if summaries[0].TotalWorkDays != 2 {
		t.Errorf("TotalWorkDays = %d, want 2", summaries[0].TotalWorkDays)
	}
	if summaries[0].WeekendWork != 1 {
		t.Errorf("WeekendWork = %d, want 1", summaries[0].WeekendWork)
	}
}
