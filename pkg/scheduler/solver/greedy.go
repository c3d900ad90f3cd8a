package solver

import (
	"sort"

	"github.com/nurseopt/core/pkg/model"
)

// greedyBuilder 逐日、逐班次贪心构造初始解：先满足 H10 固定单元格，
// 再按 H3/H4 精确名额与 H2 日勤区间挑选候选人，兼顾 H6-H8 的累计公平性，
// 跳过 H9 禁止单元格。产生的 Assignment 未必满足全部硬约束，
// 交由 localsearch 修复。
type greedyBuilder struct {
	model *Model
	inst  *model.ProblemInstance
}

func newGreedyBuilder(m *Model) *greedyBuilder {
	return &greedyBuilder{model: m, inst: m.Instance}
}

func (g *greedyBuilder) build() *model.Assignment {
	n := len(g.inst.Nurses)
	d := len(g.inst.Dates)
	a := model.NewAssignment(n, d)

	nightCount := make([]int, n)
	weekendCount := make([]int, n)
	workCount := make([]int, n)

	weekendIdx := make(map[int]bool)
	for _, wd := range g.inst.WeekendOrHolidayDates() {
		if di := g.inst.DateIndexOf(wd); di >= 0 {
			weekendIdx[di] = true
		}
	}

	for di, date := range g.inst.Dates {
		dd, _ := g.inst.DemandOn(date)

		// H10: 固定单元格优先落地
		fixedToday := make(map[int]model.Shift)
		for ni, nurse := range g.inst.Nurses {
			if s, ok := nurse.Rule.FixedShiftOn(date); ok {
				a.Set(ni, di, s)
				fixedToday[ni] = s
			}
		}

		assign := func(shift model.Shift, count int) {
			if count <= 0 {
				return
			}
			candidates := g.rankCandidates(a, di, date, shift, nightCount, weekendCount, workCount, fixedToday)
			taken := 0
			for _, ni := range candidates {
				if taken >= count {
					break
				}
				if _, fixed := fixedToday[ni]; fixed {
					continue
				}
				if a.Get(ni, di) != model.ShiftOff {
					continue
				}
				a.Set(ni, di, shift)
				taken++
			}
		}

		assign(model.ShiftNight, dd.Night)
		assign(model.ShiftLate, dd.Late)
		assign(model.ShiftDay, dd.DayMin)

		for ni := 0; ni < n; ni++ {
			s := a.Get(ni, di)
			if s == model.ShiftNight {
				nightCount[ni]++
			}
			if s != model.ShiftOff && weekendIdx[di] {
				weekendCount[ni]++
			}
			if s != model.ShiftOff {
				workCount[ni]++
			}
		}
	}

	return a
}

// rankCandidates 按公平性（夜班/周末/在岗数从低到高）与禁止/前置约束排序候选人
func (g *greedyBuilder) rankCandidates(a *model.Assignment, di int, date string, shift model.Shift,
	nightCount, weekendCount, workCount []int, fixedToday map[int]model.Shift) []int {

	type cand struct {
		idx   int
		score float64
	}
	var pool []cand
	for ni, nurse := range g.inst.Nurses {
		if _, fixed := fixedToday[ni]; fixed {
			continue
		}
		if nurse.Rule.HasForbidden(date, shift) {
			continue
		}
		if di > 0 {
			prev := a.Get(ni, di-1)
			if prev == model.ShiftNight && (shift == model.ShiftDay || shift == model.ShiftLate) {
				continue
			}
		}
		score := float64(nightCount[ni])*2 + float64(weekendCount[ni]) + float64(workCount[ni])*0.5
		if shift != model.ShiftNight {
			score = float64(workCount[ni])
		}
		pool = append(pool, cand{idx: ni, score: score})
	}
	sort.SliceStable(pool, func(i, j int) bool { return pool[i].score < pool[j].score })

	out := make([]int, len(pool))
	for i, c := range pool {
		out[i] = c.idx
	}
	return out
}
