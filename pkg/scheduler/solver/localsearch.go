package solver

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/nurseopt/core/pkg/model"
	"github.com/nurseopt/core/pkg/scheduler/constraint"
)

// SearchConfig 局部搜索配置（模拟退火）。搜索不维护禁忌表：TabuSize、
// NeighborhoodSize 与 HardPenalty 当前不被搜索读取，硬违规惩罚使用固定系数 100000
type SearchConfig struct {
	MaxIterations    int
	MaxTime          time.Duration
	InitialTemp      float64
	CoolingRate      float64
	TabuSize         int
	NeighborhoodSize int
	PlateauThreshold int
	HardPenalty      float64 // 每条硬约束违规的惩罚系数，远大于软目标权重
}

func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		MaxIterations:    4000,
		MaxTime:          25 * time.Second,
		InitialTemp:      50.0,
		CoolingRate:      0.995,
		TabuSize:         200,
		NeighborhoodSize: 24,
		PlateauThreshold: 300,
		HardPenalty:      100000,
	}
}

// candidate 局部搜索中的一个解及其得分
type candidate struct {
	assignment *model.Assignment
	hardCount  int
	soft       float64
}

func (c *candidate) score() float64 {
	return float64(c.hardCount)*100000 + c.soft
}

// localSearch 在 greedy 构造的初始解基础上，用模拟退火修复硬约束违规并压低软目标
type localSearch struct {
	cfg      SearchConfig
	manager  *constraint.Manager
	ctx      *constraint.Context
	obj      *Objective
	inst     *model.ProblemInstance
	fixedSet map[[2]int]bool // (nurseIdx,dateIdx) 被 H10 固定，不可移动
	rng      *rand.Rand
}

func newLocalSearch(cfg SearchConfig, m *constraint.Manager, cctx *constraint.Context, obj *Objective, fixed map[[2]int]bool, seed int64) *localSearch {
	return &localSearch{
		cfg:      cfg,
		manager:  m,
		ctx:      cctx,
		obj:      obj,
		inst:     cctx.Instance,
		fixedSet: fixed,
		rng:      rand.New(rand.NewSource(seed)),
	}
}

func (ls *localSearch) evaluate(a *model.Assignment) candidate {
	violations := ls.manager.EvaluateAll(ls.ctx, a)
	return candidate{assignment: a, hardCount: len(violations), soft: ls.obj.Score(a)}
}

// run 执行退火搜索，noGoods/objectiveCeiling 用于多样枚举下的额外软约束
func (ls *localSearch) run(ctx context.Context, initial *model.Assignment, noGoods []noGoodCut, objectiveCeiling float64) (*model.Assignment, candidate) {
	start := time.Now()
	current := ls.evaluate(initial.Clone())
	best := current

	temp := ls.cfg.InitialTemp
	noImprove := 0

	for i := 0; i < ls.cfg.MaxIterations; i++ {
		select {
		case <-ctx.Done():
			return best.assignment, best
		default:
		}
		if time.Since(start) > ls.cfg.MaxTime {
			break
		}

		neighbor := ls.mutate(current.assignment)
		if neighbor == nil {
			continue
		}
		cand := ls.evaluate(neighbor)
		cand.soft += noGoodPenalty(neighbor, noGoods)
		if objectiveCeiling > 0 && cand.soft > objectiveCeiling {
			cand.soft += 1000
		}

		delta := cand.score() - current.score()
		accept := delta < 0
		if !accept && temp > 0 {
			if ls.rng.Float64() < math.Exp(-delta/temp) {
				accept = true
			}
		}

		if accept {
			current = cand
			if current.score() < best.score() {
				best = current
				noImprove = 0
			} else {
				noImprove++
			}
		} else {
			noImprove++
		}

		if noImprove >= ls.cfg.PlateauThreshold {
			break
		}
		temp *= ls.cfg.CoolingRate
	}

	return best.assignment, best
}

// mutate 生成一个邻域解：随机单元格改派或两护士同日互换，回避 H10 固定单元格
func (ls *localSearch) mutate(a *model.Assignment) *model.Assignment {
	n := len(ls.inst.Nurses)
	d := len(ls.inst.Dates)
	if n == 0 || d == 0 {
		return nil
	}
	neighbor := a.Clone()

	if ls.rng.Float64() < 0.5 {
		ni := ls.rng.Intn(n)
		di := ls.rng.Intn(d)
		if ls.fixedSet[[2]int{ni, di}] {
			return nil
		}
		neighbor.Set(ni, di, model.AllShifts[ls.rng.Intn(len(model.AllShifts))])
		return neighbor
	}

	di := ls.rng.Intn(d)
	n1 := ls.rng.Intn(n)
	n2 := ls.rng.Intn(n)
	if n1 == n2 || ls.fixedSet[[2]int{n1, di}] || ls.fixedSet[[2]int{n2, di}] {
		return nil
	}
	s1, s2 := neighbor.Get(n1, di), neighbor.Get(n2, di)
	neighbor.Set(n1, di, s2)
	neighbor.Set(n2, di, s1)
	return neighbor
}
