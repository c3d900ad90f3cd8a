// Package stats 提供排班统计分析功能
package stats

import (
	"math"
	"sort"

	"github.com/nurseopt/core/pkg/model"
)

// FairnessMetrics 是对 spec §4.2 目标函数公平项的补充可读报告：
// 目标函数本身只用绝对偏差惩罚不均衡，这里额外给出基尼系数，方便调用方
// 在多个候选方案之间横向比较公平程度（不参与求解，仅用于展示）。
type FairnessMetrics struct {
	WorkloadGini   float64 `json:"workload_gini"`
	NightGini      float64 `json:"night_gini"`
	WeekendGini    float64 `json:"weekend_gini"`
	AvgNights      float64 `json:"avg_nights"`
	AvgWeekendWork float64 `json:"avg_weekend_work"`
}

// Fairness 计算给定分配方案的公平性指标
func Fairness(inst *model.ProblemInstance, a *model.Assignment) FairnessMetrics {
	nurses := PerNurseSummaries(inst, a)
	if len(nurses) == 0 {
		return FairnessMetrics{}
	}

	totalDays := make([]float64, len(nurses))
	nights := make([]float64, len(nurses))
	weekends := make([]float64, len(nurses))
	for i, n := range nurses {
		totalDays[i] = float64(n.TotalWorkDays)
		nights[i] = float64(n.Counts[model.ShiftNight])
		weekends[i] = float64(n.WeekendWork)
	}

	return FairnessMetrics{
		WorkloadGini:   gini(totalDays),
		NightGini:      gini(nights),
		WeekendGini:    gini(weekends),
		AvgNights:      mean(nights),
		AvgWeekendWork: mean(weekends),
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// gini 计算基尼系数：0=完全公平，1=完全不公平
func gini(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	if sum == 0 {
		return 0
	}

	g := 0.0
	for i, v := range sorted {
		g += (2*float64(i+1) - float64(n) - 1) * v
	}
	g = g / (float64(n) * sum)
	return math.Max(0, math.Min(1, g))
}
