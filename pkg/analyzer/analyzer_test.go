package analyzer

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
			{ID: "n1", Team: model.TeamA, LeaderOK: true, Rule: model.NurseRule{NightMax: 8, WeeklyWorkMax: 7, WeekendHolidayMax: 100}},
			{ID: "n2", Team: model.TeamB, Rule: model.NurseRule{NightMax: 8, WeeklyWorkMax: 7, WeekendHolidayMax: 100}},
		},
		Demand: []model.DayDemand{
			{Date: "2025-10-06", DayMin: 1, DayMax: 2, Late: 0, Night: 1},
			{Date: "2025-10-07", DayMin: 1, DayMax: 2, Late: 0, Night: 1},
		},
	}
	inst.Finalize()
	return inst
}

func TestAnalyze_无违规时OK为真(t *testing.T) {
	inst := newTestInstance()
	a := model.NewAssignment(2, 2)
	// n1 是唯一的 leader_ok 护士，两晚夜班都由其承担（H12）；n2 两天日勤（H5）
	a.Set(0, 0, model.ShiftNight)
	a.Set(1, 0, model.ShiftDay)
	a.Set(0, 1, model.ShiftNight)
	a.Set(1, 1, model.ShiftDay)

	report := New().Analyze(inst, a)
	if !report.OK {
		t.Fatalf("期望 OK=true，实际违规: %+v", report.Violations)
	}
}

func TestAnalyze_日勤缺口报告shortage(t *testing.T) {
	inst := newTestInstance()
	a := model.NewAssignment(2, 2) // 全部 OFF

	report := New().Analyze(inst, a)
	if report.OK {
		t.Fatal("期望 OK=false")
	}
	found := false
	for _, v := range report.Violations {
		if v.Kind == model.KindShortage {
			found = true
		}
	}
	if !found {
		t.Error("期望至少一条 shortage 违规")
	}
}

func TestAnalyze_请求休假未满足产生警告(t *testing.T) {
	inst := newTestInstance()
	inst.Nurses[0].Rule.RequestedOff = map[string]bool{"2025-10-06": true}
	a := model.NewAssignment(2, 2)
	a.Set(0, 0, model.ShiftDay)

	report := New().Analyze(inst, a)
	if len(report.Warnings) == 0 {
		t.Error("期望产生请求休假未满足的警告")
	}
}
