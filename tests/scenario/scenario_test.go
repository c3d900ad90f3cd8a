// Package scenario 端到端验证 spec §8 的 S1-S6 情景表：从裸的护士/需求输入
// 一路走 rulecompiler.Compile → controller.Optimize/Reoptimize/Recheck，
// 校验每个情景描述的确切结果，而不是分别对 Model Builder / Analyzer /
// Recommender 做单元级验证（那些留在各自包的 _test.go 里）。
package scenario

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/nurseopt/core/pkg/controller"
	"github.com/nurseopt/core/pkg/model"
	"github.com/nurseopt/core/pkg/rulecompiler"
)

func fourNurseThreeDay(t *testing.T, nightMinMax *[2]int) *model.ProblemInstance {
	t.Helper()
	nurses := []model.NurseRecord{
		{ID: "n1", Team: "A", LeaderOK: true},
		{ID: "n2", Team: "A", LeaderOK: true},
		{ID: "n3", Team: "B", LeaderOK: true},
		{ID: "n4", Team: "B", LeaderOK: true},
	}
	if nightMinMax != nil {
		for i := range nurses {
			min, max := nightMinMax[0], nightMinMax[1]
			nurses[i].NightMin = &min
			nurses[i].NightMax = &max
		}
	}
	req := rulecompiler.Request{
		Year:  2025,
		Month: 11,
		Nurses: nurses,
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
	// 只保留前 3 天，对应情景表里的"3 天"
	inst.Dates = inst.Dates[:3]
	inst.Demand = inst.Demand[:3]
	inst.Finalize()
	return inst
}

func TestS1_四护士三天基础情景(t *testing.T) {
	inst := fourNurseThreeDay(t, nil)
	ctl := controller.New(nil)

	outcome, err := ctl.Optimize(context.Background(), inst, 1)
	if err != nil {
		t.Fatalf("Optimize() error = %v", err)
	}
	if outcome.Infeasible != nil {
		t.Fatalf("期望 OK，实际 INFEASIBLE: %+v", outcome.Infeasible)
	}
	if len(outcome.Solutions) != 1 {
		t.Fatalf("solutions 数 = %d, want 1", len(outcome.Solutions))
	}
	sol := outcome.Solutions[0]
	if len(sol.Violations) != 0 {
		t.Fatalf("期望零违规，实际: %+v", sol.Violations)
	}

	a := model.FromEntries(inst, sol.Assignments)
	for di, date := range inst.Dates {
		nightCount, dayCount := 0, 0
		for ni := range inst.Nurses {
			switch a.Get(ni, di) {
			case model.ShiftNight:
				nightCount++
			case model.ShiftDay:
				dayCount++
			}
		}
		if nightCount != 1 {
			t.Errorf("%s: NIGHT 人数 = %d, want 1", date, nightCount)
		}
		if dayCount != 2 {
			t.Errorf("%s: DAY 人数 = %d, want 2", date, dayCount)
		}
	}
	for ni := range inst.Nurses {
		for di := 0; di < len(inst.Dates)-1; di++ {
			if a.Get(ni, di) == model.ShiftNight && a.Get(ni, di+1) == model.ShiftNight {
				t.Errorf("护士 %s 在 %s/%s 连续两天 NIGHT", inst.Nurses[ni].ID, inst.Dates[di], inst.Dates[di+1])
			}
		}
	}
}

func TestS2_三个候选方案两两汉明距离达标(t *testing.T) {
	inst := fourNurseThreeDay(t, nil)
	ctl := controller.New(nil)

	outcome, err := ctl.Optimize(context.Background(), inst, 3)
	if err != nil {
		t.Fatalf("Optimize() error = %v", err)
	}
	if outcome.Infeasible != nil {
		t.Fatalf("期望 OK，实际 INFEASIBLE: %+v", outcome.Infeasible)
	}
	if len(outcome.Solutions) != 3 {
		t.Fatalf("solutions 数 = %d, want 3", len(outcome.Solutions))
	}

	delta := inst.Policy.HammingDeltaMin
	best := outcome.Solutions[0].Objective
	for i := range outcome.Solutions {
		if outcome.Solutions[i].Objective < best {
			best = outcome.Solutions[i].Objective
		}
	}
	for i := 0; i < len(outcome.Solutions); i++ {
		ai := model.FromEntries(inst, outcome.Solutions[i].Assignments)
		if best > 0 {
			ratio := (outcome.Solutions[i].Objective - best) / best
			if ratio > inst.Policy.ObjectiveBand {
				t.Errorf("方案 %d 目标值偏离最优 %.3f, 超过 %.3f 的带宽", i, ratio, inst.Policy.ObjectiveBand)
			}
		}
		for j := i + 1; j < len(outcome.Solutions); j++ {
			aj := model.FromEntries(inst, outcome.Solutions[j].Assignments)
			if d := model.HammingDistance(ai, aj); d < delta {
				t.Errorf("方案 %d/%d 汉明距离 = %d, want >= %d", i, j, d, delta)
			}
		}
	}
}

func TestS3_固定单元格通过reoptimize保留(t *testing.T) {
	inst := fourNurseThreeDay(t, nil)
	ctl := controller.New(nil)

	base, err := ctl.Optimize(context.Background(), inst, 1)
	if err != nil || base.Infeasible != nil {
		t.Fatalf("baseline optimize failed: err=%v infeasible=%v", err, base.Infeasible)
	}
	baseAssignment := model.FromEntries(inst, base.Solutions[0].Assignments)

	pinned := []model.AssignmentEntry{{NurseID: "n1", Date: inst.Dates[1], Shift: model.ShiftNight}}
	outcome, err := ctl.Reoptimize(context.Background(), baseAssignment, pinned, inst, 1)
	if err != nil {
		t.Fatalf("Reoptimize() error = %v", err)
	}
	if outcome.Infeasible != nil {
		t.Fatalf("期望 OK，实际 INFEASIBLE: %+v", outcome.Infeasible)
	}

	found := false
	for _, e := range outcome.Solutions[0].Assignments {
		if e.NurseID == "n1" && e.Date == inst.Dates[1] {
			if e.Shift != model.ShiftNight {
				t.Errorf("x[n1][%s][NIGHT] 未生效，实际班次 = %s", inst.Dates[1], e.Shift)
			}
			found = true
		}
	}
	if !found {
		t.Fatal("未在结果中找到固定单元格 n1/day2")
	}
}

func TestS4_夜班需求总量超额返回不可行(t *testing.T) {
	inst := fourNurseThreeDay(t, &[2]int{2, 2})
	ctl := controller.New(nil)

	outcome, err := ctl.Optimize(context.Background(), inst, 1)
	if err != nil {
		t.Fatalf("Optimize() error = %v", err)
	}
	if outcome.Infeasible == nil {
		t.Fatal("期望 INFEASIBLE，实际返回了可行方案")
	}
	found := false
	for _, v := range outcome.Infeasible.Analysis.Violations {
		if v.Kind == model.KindNightCapExceeded || v.Kind == model.KindShortage {
			found = true
		}
	}
	if !found {
		t.Errorf("不可行分析未包含 night_cap_exceeded 或 shortage: %+v", outcome.Infeasible.Analysis.Violations)
	}
}

func TestS5_单次班次互换后recheck定位问题并建议撤销(t *testing.T) {
	inst := fourNurseThreeDay(t, nil)
	ctl := controller.New(nil)

	outcome, err := ctl.Optimize(context.Background(), inst, 1)
	if err != nil || outcome.Infeasible != nil {
		t.Fatalf("baseline optimize failed: err=%v infeasible=%v", err, outcome.Infeasible)
	}
	a := model.FromEntries(inst, outcome.Solutions[0].Assignments)

	// 找到某天上的一名 DAY 护士，把它改成 NIGHT（该天夜班需求已经满足）
	date := inst.Dates[0]
	di := inst.DateIndexOf(date)
	swappedNurse := -1
	for ni := range inst.Nurses {
		if a.Get(ni, di) == model.ShiftDay {
			swappedNurse = ni
			break
		}
	}
	if swappedNurse < 0 {
		t.Fatal("基线方案里没有 DAY 护士可供互换，情景前置条件不满足")
	}
	a.Set(swappedNurse, di, model.ShiftNight)

	report := ctl.Recheck(inst, a)
	if report.OK {
		t.Fatal("期望 recheck ok=false")
	}

	var excess, shortage *model.Violation
	for i := range report.Violations {
		v := &report.Violations[i]
		if v.Date != date {
			continue
		}
		switch {
		case v.Kind == model.KindExcess && v.Shift == model.ShiftNight:
			excess = v
		case v.Kind == model.KindShortage && v.Shift == model.ShiftDay:
			shortage = v
		}
	}
	if excess == nil {
		t.Errorf("未找到 %s/NIGHT 的 excess 违规: %+v", date, report.Violations)
	}
	if shortage == nil {
		t.Errorf("未找到 %s/DAY 的 shortage 违规: %+v", date, report.Violations)
	}

	if len(report.Recommendations) == 0 {
		t.Fatal("期望存在修复建议")
	}
	top := report.Recommendations[0]
	reversed := false
	for _, s := range top.Suggestions {
		nurseID := inst.Nurses[swappedNurse].ID
		if s.NurseID == nurseID && s.CurrentShift == model.ShiftNight && s.SuggestedShift == model.ShiftDay {
			reversed = true
		}
	}
	if !reversed {
		t.Errorf("首条建议未包含把 %s 从 NIGHT 改回 DAY 的撤销方案: %+v", inst.Nurses[swappedNurse].ID, top)
	}
}

// TestS6_三十护士一个月规模求解在时限内完成 只在非 -short 模式下运行：30x31
// 规模的枚举求解耗时以秒计，不适合作为默认测试套件的一部分反复跑
func TestS6_三十护士一个月规模求解在时限内完成(t *testing.T) {
	if testing.Short() {
		t.Skip("规模求解耗时较长，-short 模式下跳过")
	}

	nurses := make([]model.NurseRecord, 30)
	for i := range nurses {
		team := "A"
		if i%2 == 1 {
			team = "B"
		}
		nurses[i] = model.NurseRecord{
			ID:       fmt.Sprintf("n%02d", i+1),
			Team:     team,
			LeaderOK: i%3 == 0,
		}
	}
	req := rulecompiler.Request{
		Year:   2025,
		Month:  1,
		Nurses: nurses,
		Defaults: model.DemandDefaults{
			Weekday:         model.DayDemandTarget{DayMin: 8, DayMax: 10, Late: 2, Night: 4},
			Sunday:          model.DayDemandTarget{DayMin: 6, DayMax: 9, Late: 2, Night: 4},
			SaturdayHoliday: model.DayDemandTarget{DayMin: 6, DayMax: 9, Late: 2, Night: 4},
		},
		Policy: model.DefaultPolicy(),
	}
	inst, err := rulecompiler.Compile(req)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	ctl := controller.New(nil)
	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	outcome, err := ctl.Optimize(ctx, inst, 3)
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("Optimize() error = %v", err)
	}
	if elapsed > 60*time.Second {
		t.Errorf("求解耗时 %s, 超过 60s 预算", elapsed)
	}
	if outcome.Infeasible != nil {
		t.Fatalf("期望 OK，实际 INFEASIBLE: %+v", outcome.Infeasible)
	}
	if len(outcome.Solutions) != 3 {
		t.Fatalf("solutions 数 = %d, want 3", len(outcome.Solutions))
	}
	for i, sol := range outcome.Solutions {
		if len(sol.Violations) != 0 {
			t.Errorf("方案 %d 存在违规: %+v", i, sol.Violations)
		}
	}
}
