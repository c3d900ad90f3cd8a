package rulecompiler

import (
	"testing"

	apperrors "github.com/nurseopt/core/pkg/errors"
	"github.com/nurseopt/core/pkg/model"
)

func baseRequest() Request {
	nightMin, nightMax := 2, 8
	return Request{
		Year:  2025,
		Month: 10,
		Nurses: []model.NurseRecord{
			{ID: "n1", Team: "A", LeaderOK: true, NightMin: &nightMin, NightMax: &nightMax},
			{ID: "n2", Team: "B", LeaderOK: false},
			{ID: "n3", Team: "EMG", LeaderOK: true},
		},
		Defaults: model.DemandDefaults{
			Weekday:         model.DayDemandTarget{DayMin: 3, DayMax: 5, Late: 1, Night: 1},
			Sunday:          model.DayDemandTarget{DayMin: 2, DayMax: 4, Late: 1, Night: 1},
			SaturdayHoliday: model.DayDemandTarget{DayMin: 2, DayMax: 4, Late: 1, Night: 1},
		},
		Policy: model.DefaultPolicy(),
	}
}

func TestCompile_成功编译展开整月日期(t *testing.T) {
	inst, err := Compile(baseRequest())
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if len(inst.Dates) != 31 {
		t.Errorf("2025-10 应有31天, got %d", len(inst.Dates))
	}
	if len(inst.Nurses) != 3 {
		t.Errorf("护士数量 = %d, want 3", len(inst.Nurses))
	}
	if inst.NurseIndexOf("n2") < 0 {
		t.Error("编译后应可通过ID索引到护士")
	}
}

func TestCompile_重复护士ID返回结构化错误(t *testing.T) {
	req := baseRequest()
	req.Nurses = append(req.Nurses, model.NurseRecord{ID: "n1", Team: "A"})

	_, err := Compile(req)
	if err == nil {
		t.Fatal("期望返回错误")
	}
	if apperrors.GetCode(err) != apperrors.CodeDuplicateNurseID {
		t.Errorf("错误码 = %v, want %v", apperrors.GetCode(err), apperrors.CodeDuplicateNurseID)
	}
}

func TestCompile_非法月份返回BadDateRange(t *testing.T) {
	req := baseRequest()
	req.Month = 13

	_, err := Compile(req)
	if apperrors.GetCode(err) != apperrors.CodeBadDateRange {
		t.Errorf("错误码 = %v, want %v", apperrors.GetCode(err), apperrors.CodeBadDateRange)
	}
}

func TestCompile_NightMin总和超过需求返回InfeasibleBounds(t *testing.T) {
	req := baseRequest()
	hugeMin := 40
	req.Nurses[0].NightMin = &hugeMin

	_, err := Compile(req)
	if apperrors.GetCode(err) != apperrors.CodeInfeasibleBounds {
		t.Errorf("错误码 = %v, want %v", apperrors.GetCode(err), apperrors.CodeInfeasibleBounds)
	}
}

func TestCompile_冲突的Fixed与Forbidden返回ConflictingFixed(t *testing.T) {
	req := baseRequest()
	req.Nurses[0].FixedShifts = []model.Cell{{Date: "2025-10-05", Shift: model.ShiftNight}}
	req.Nurses[0].ForbiddenShifts = []model.Cell{{Date: "2025-10-05", Shift: model.ShiftNight}}

	_, err := Compile(req)
	if apperrors.GetCode(err) != apperrors.CodeConflictingFixed {
		t.Errorf("错误码 = %v, want %v", apperrors.GetCode(err), apperrors.CodeConflictingFixed)
	}
}

func TestCompile_OnlyNight标志降解为forbidden(t *testing.T) {
	req := baseRequest()
	req.Nurses[0].OnlyNight = true

	inst, err := Compile(req)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	n, _ := inst.NurseByID("n1")
	if !n.Rule.HasForbidden("2025-10-01", model.ShiftDay) {
		t.Error("only_night 应禁止DAY班")
	}
	if !n.Rule.HasForbidden("2025-10-01", model.ShiftLate) {
		t.Error("only_night 应禁止LATE班")
	}
}

func TestCompile_周分桶在月边界截断(t *testing.T) {
	inst, err := Compile(baseRequest())
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	buckets := inst.WeekBuckets()
	total := 0
	for _, days := range buckets {
		total += len(days)
	}
	if total != len(inst.Dates) {
		t.Errorf("周分桶总天数 = %d, want %d", total, len(inst.Dates))
	}
	// ISO 第40周为 9/29-10/5，截断到本月后只剩 10/1-10/5
	if got := len(buckets[[2]int{2025, 40}]); got != 5 {
		t.Errorf("第40周分桶天数 = %d, want 5", got)
	}
}

func TestCompile_非法团队返回错误(t *testing.T) {
	req := baseRequest()
	req.Nurses[0].Team = "X"

	_, err := Compile(req)
	if err == nil {
		t.Fatal("期望返回错误")
	}
}

func TestCompile_需求日期超出本月范围报错(t *testing.T) {
	req := baseRequest()
	req.Demand = []model.DemandOverride{{Date: "2025-11-01"}}

	_, err := Compile(req)
	if apperrors.GetCode(err) != apperrors.CodeBadDateRange {
		t.Errorf("错误码 = %v, want %v", apperrors.GetCode(err), apperrors.CodeBadDateRange)
	}
}
