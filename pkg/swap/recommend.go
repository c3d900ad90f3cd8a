// Package swap 实现 spec §4.5 的 Recommender：针对单个 shortage/excess
// 违规单元格给出若干条“只改一格”的候选修复，按照可行性与公平性排序。
// 推荐器是纯本地搜索，从不重新调用求解器，也从不提出跨多格的联动修复。
package swap

import (
	"fmt"
	"sort"

	"github.com/nurseopt/core/pkg/model"
	"github.com/nurseopt/core/pkg/scheduler/constraint"
)

const maxSuggestions = 5

// Recommender 复用 constraint.Manager 的硬约束求值，模拟单格换班后重新
// 检查是否引入新的（非目标格自身之外的）硬约束违规
type Recommender struct {
	manager *constraint.Manager
}

// New 创建推荐器，manager 通常与 Analyzer 共享同一份 H1-H14 注册表
func New(manager *constraint.Manager) *Recommender {
	return &Recommender{manager: manager}
}

// Recommend 对一份违规单元格清单逐个生成推荐，只处理 shortage/excess，
// 顺序与输入一致
func (r *Recommender) Recommend(inst *model.ProblemInstance, a *model.Assignment, cells []model.ViolationCell) []model.Recommendation {
	var out []model.Recommendation
	for _, cell := range cells {
		switch cell.Kind {
		case model.KindShortage:
			out = append(out, r.recommendShortage(inst, a, cell))
		case model.KindExcess:
			out = append(out, r.recommendExcess(inst, a, cell))
		}
	}
	return out
}

// recommendShortage 处理某日某班次人手不足：从未在该班次的护士中挑选
// 候选，模拟将其改派到该班次，检查是否会新引入其它硬约束违规
func (r *Recommender) recommendShortage(inst *model.ProblemInstance, a *model.Assignment, cell model.ViolationCell) model.Recommendation {
	di := inst.DateIndexOf(cell.Date)
	demand, _ := inst.DemandOn(cell.Date)
	rec := model.Recommendation{Date: cell.Date, Shift: cell.Shift, Kind: cell.Kind, Difference: shiftTarget(demand, cell.Shift)}

	type ranked struct {
		s          model.Suggestion
		newSoft    int
		currentCnt int
	}
	var candidates []ranked

	for ni := range inst.Nurses {
		nurse := &inst.Nurses[ni]
		current := a.Get(ni, di)
		if current == cell.Shift {
			continue
		}
		locked := nurse.Rule.HasFixed(cell.Date, current)
		if nurse.Rule.HasForbidden(cell.Date, cell.Shift) {
			continue
		}

		trial := a.Clone()
		trial.Set(ni, di, cell.Shift)

		if !locked {
			newHard, resolvesOnly := r.simulate(inst, a, trial, cell)
			if newHard > 0 && !resolvesOnly {
				continue
			}
		}

		candidates = append(candidates, ranked{
			s: model.Suggestion{
				NurseID:        nurse.ID,
				CurrentShift:   current,
				SuggestedShift: cell.Shift,
				Reason:         fmt.Sprintf("填补 %s 班次人手缺口", cell.Shift),
				Locked:         locked,
			},
			newSoft:    r.softCount(inst, trial),
			currentCnt: countShift(inst, a, ni, cell.Shift),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].s.Locked != candidates[j].s.Locked {
			return !candidates[i].s.Locked // 未锁定的排前面，锁定候选沉底
		}
		if candidates[i].newSoft != candidates[j].newSoft {
			return candidates[i].newSoft < candidates[j].newSoft
		}
		if candidates[i].currentCnt != candidates[j].currentCnt {
			return candidates[i].currentCnt < candidates[j].currentCnt
		}
		return candidates[i].s.NurseID < candidates[j].s.NurseID
	})

	for i, c := range candidates {
		if i >= maxSuggestions {
			break
		}
		rec.Suggestions = append(rec.Suggestions, c.s)
	}
	return rec
}

// recommendExcess 处理某日某班次人手过多：从当前在该班次的护士中挑选一位
// 改派到 OFF（若该护士当日被禁止 OFF，改派到当日最缺的班次）
func (r *Recommender) recommendExcess(inst *model.ProblemInstance, a *model.Assignment, cell model.ViolationCell) model.Recommendation {
	di := inst.DateIndexOf(cell.Date)
	demand, _ := inst.DemandOn(cell.Date)
	rec := model.Recommendation{Date: cell.Date, Shift: cell.Shift, Kind: cell.Kind, Difference: shiftTarget(demand, cell.Shift)}

	fallback := mostDeficientShift(inst, a, cell.Date)

	type ranked struct {
		s          model.Suggestion
		feasible   bool
		currentCnt int
	}
	var candidates []ranked

	for ni := range inst.Nurses {
		nurse := &inst.Nurses[ni]
		if a.Get(ni, di) != cell.Shift {
			continue
		}
		locked := nurse.Rule.HasFixed(cell.Date, cell.Shift)

		dest := model.ShiftOff
		if nurse.Rule.HasForbidden(cell.Date, model.ShiftOff) {
			dest = fallback
		}

		trial := a.Clone()
		trial.Set(ni, di, dest)

		feasible := true
		if !locked {
			newHard, resolvesOnly := r.simulate(inst, a, trial, cell)
			feasible = newHard == 0 || resolvesOnly
		}

		candidates = append(candidates, ranked{
			s: model.Suggestion{
				NurseID:        nurse.ID,
				CurrentShift:   cell.Shift,
				SuggestedShift: dest,
				Reason:         fmt.Sprintf("缓解 %s 班次人手过剩", cell.Shift),
				Locked:         locked,
			},
			feasible:   feasible,
			currentCnt: countShift(inst, a, ni, cell.Shift),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].s.Locked != candidates[j].s.Locked {
			return !candidates[i].s.Locked
		}
		if candidates[i].feasible != candidates[j].feasible {
			return candidates[i].feasible
		}
		if candidates[i].currentCnt != candidates[j].currentCnt {
			return candidates[i].currentCnt > candidates[j].currentCnt
		}
		return candidates[i].s.NurseID < candidates[j].s.NurseID
	})

	for i, c := range candidates {
		if i >= maxSuggestions {
			break
		}
		if !c.feasible && !c.s.Locked {
			continue
		}
		rec.Suggestions = append(rec.Suggestions, c.s)
	}
	return rec
}

// simulate 对比 base 与 trial 的硬约束求值，返回：
// (除目标格自身供需违规外新增的硬违规数, 是否只解决了目标格而未引入新违规)
func (r *Recommender) simulate(inst *model.ProblemInstance, base, trial *model.Assignment, cell model.ViolationCell) (int, bool) {
	ctx := constraint.NewContext(inst)
	before := indexViolations(r.manager.EvaluateAll(ctx, base))
	after := r.manager.EvaluateAll(ctx, trial)

	newCount := 0
	for _, v := range after {
		if v.Date == cell.Date && v.Shift == cell.Shift && (v.Kind == model.KindShortage || v.Kind == model.KindExcess) {
			continue // 目标格本身的供需缺口允许被改变
		}
		key := violationKey(v)
		if !before[key] {
			newCount++
		}
	}
	return newCount, newCount == 0
}

// softCount 统计一次模拟改派后剩余的 shortage/excess 缺口总量，作为软排序信号
func (r *Recommender) softCount(inst *model.ProblemInstance, trial *model.Assignment) int {
	ctx := constraint.NewContext(inst)
	total := 0
	for _, v := range r.manager.EvaluateAll(ctx, trial) {
		if v.Kind == model.KindShortage || v.Kind == model.KindExcess {
			total += v.Difference
		}
	}
	return total
}

func indexViolations(vs []model.Violation) map[string]bool {
	out := make(map[string]bool, len(vs))
	for _, v := range vs {
		out[violationKey(v)] = true
	}
	return out
}

func violationKey(v model.Violation) string {
	return fmt.Sprintf("%s|%s|%s|%s", v.Date, v.Shift, v.NurseID, v.Kind)
}

func countShift(inst *model.ProblemInstance, a *model.Assignment, nurseIdx int, s model.Shift) int {
	count := 0
	for di := range inst.Dates {
		if a.Get(nurseIdx, di) == s {
			count++
		}
	}
	return count
}

// mostDeficientShift 返回某日缺口最大的工作班次，供 excess 推荐在 OFF
// 不可行时选用改派目标
func mostDeficientShift(inst *model.ProblemInstance, a *model.Assignment, date string) model.Shift {
	demand, ok := inst.DemandOn(date)
	if !ok {
		return model.ShiftOff
	}
	di := inst.DateIndexOf(date)
	best := model.ShiftOff
	bestGap := 0
	for _, s := range model.WorkShifts {
		target := shiftTarget(demand, s)
		filled := 0
		for ni := range inst.Nurses {
			if a.Get(ni, di) == s {
				filled++
			}
		}
		gap := target - filled
		if gap > bestGap {
			bestGap = gap
			best = s
		}
	}
	return best
}

// shiftTarget 返回某班次在给定日需求下的目标人数：DAY 一律返回 DayMax
// （不区分 shortage/excess），LATE/NIGHT 为精确值（H3/H4）
func shiftTarget(d model.DayDemand, s model.Shift) int {
	switch s {
	case model.ShiftDay:
		return d.DayMax
	case model.ShiftLate:
		return d.Late
	case model.ShiftNight:
		return d.Night
	default:
		return 0
	}
}
