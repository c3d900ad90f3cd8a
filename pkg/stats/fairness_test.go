package stats

import (
	"testing"

	"github.com/nurseopt/core/pkg/model"
)

func TestFairness_完全均衡分配基尼系数接近零(t *testing.T) {
	inst := newTestInstance()
	a := model.NewAssignment(2, 2)
	a.Set(0, 0, model.ShiftNight)
	a.Set(1, 1, model.ShiftNight)

	m := Fairness(inst, a)
	if m.NightGini > 0.01 {
		t.Errorf("NightGini = %f, want ~0", m.NightGini)
	}
}

func TestFairness_不均衡夜班分配基尼系数大于零(t *testing.T) {
	inst := newTestInstance()
	a := model.NewAssignment(2, 2)
	a.Set(0, 0, model.ShiftNight)
	a.Set(0, 1, model.ShiftNight)

	m := Fairness(inst, a)
	if m.NightGini <= 0 {
		t.Errorf("NightGini = %f, want > 0", m.NightGini)
	}
}

func TestFairness_空护士列表返回零值(t *testing.T) {
	inst := &model.ProblemInstance{}
	inst.Finalize()
	a := model.NewAssignment(0, 0)
	m := Fairness(inst, a)
	if m.WorkloadGini != 0 {
		t.Errorf("WorkloadGini = %f, want 0", m.WorkloadGini)
	}
}
