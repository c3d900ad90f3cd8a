package solver

import (
	"math"

	"github.com/nurseopt/core/pkg/model"
)

// Objective 计算加权目标函数：
//
//	obj = w_fair_night   · Σ_n |nights_n − nights̄|
//	    + w_fair_weekend · Σ_n |weekend_work_n − weekend̄|
//	    + w_req_off      · Σ_n |{d∈requested_off_n : x[n][d][OFF]=0}|
//	    + w_pattern      · Σ_{n,d} night_to_evening_pattern_violation
//
// w_slack 项不在此计算，由 slack.go 在松弛诊断路径中单独叠加。
type Objective struct {
	Instance *model.ProblemInstance
	Weights  model.Weights
}

func NewObjective(inst *model.ProblemInstance, w model.Weights) *Objective {
	return &Objective{Instance: inst, Weights: w}
}

// Score 返回给定分配方案的目标函数值（越小越优）
func (o *Objective) Score(a *model.Assignment) float64 {
	nurses := o.Instance.Nurses
	n := len(nurses)
	if n == 0 {
		return 0
	}

	nights := make([]int, n)
	weekends := make([]int, n)
	weekendDates := o.Instance.WeekendOrHolidayDates()
	weekendIdx := make(map[int]bool, len(weekendDates))
	for _, d := range weekendDates {
		if di := o.Instance.DateIndexOf(d); di >= 0 {
			weekendIdx[di] = true
		}
	}

	for ni := range nurses {
		for di := range o.Instance.Dates {
			s := a.Get(ni, di)
			if s == model.ShiftNight {
				nights[ni]++
			}
			if s != model.ShiftOff && weekendIdx[di] {
				weekends[ni]++
			}
		}
	}

	nightAvg := average(nights)
	weekendAvg := average(weekends)

	wReqOff, _ := o.Weights.ReqOff.Float64()
	wFairWeekend, _ := o.Weights.FairWeekend.Float64()
	wFairNight, _ := o.Weights.FairNight.Float64()
	wPattern, _ := o.Weights.Pattern.Float64()

	var fairNight, fairWeekend, reqOff, pattern float64
	for ni, nurse := range nurses {
		fairNight += math.Abs(float64(nights[ni]) - nightAvg)
		fairWeekend += math.Abs(float64(weekends[ni]) - weekendAvg)

		for d := range nurse.Rule.RequestedOff {
			di := o.Instance.DateIndexOf(d)
			if di < 0 {
				continue
			}
			if a.Get(ni, di) != model.ShiftOff {
				reqOff++
			}
		}

		for di := 0; di+1 < len(o.Instance.Dates); di++ {
			if a.Get(ni, di) == model.ShiftLate && a.Get(ni, di+1) == model.ShiftNight {
				pattern++
			}
		}
	}

	return wFairNight*fairNight + wFairWeekend*fairWeekend + wReqOff*reqOff + wPattern*pattern
}

func average(xs []int) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0
	for _, x := range xs {
		sum += x
	}
	return float64(sum) / float64(len(xs))
}
