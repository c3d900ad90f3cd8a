// Package solver 封装一个 CP-SAT 形状的求解器接口：
// new_model / add_bool_var / add_linear_le / add_linear_eq / minimize / solve(time_limit_ms)。
// 后端并非通用整数规划器，而是构造式生成 + 局部搜索，但对外暴露的建模操作与
// 硬约束登记方式与真实 CP-SAT 一致，供 constraint.Manager 统一注册 H1-H14。
package solver

import (
	"github.com/nurseopt/core/pkg/model"
	"github.com/nurseopt/core/pkg/scheduler/constraint"
)

// Status 对应 solve() 的返回状态
type Status string

const (
	StatusOptimal    Status = "OPTIMAL"
	StatusFeasible   Status = "FEASIBLE"
	StatusInfeasible Status = "INFEASIBLE"
	StatusUnknown    Status = "UNKNOWN"
)

type varInfo struct {
	NurseID  string
	NurseIdx int
	Date     string
	DateIdx  int
	Shift    model.Shift
}

// LinearConstraint 是一条登记在模型中的线性约束，Eq=true 表示等式，否则为 ≤
type LinearConstraint struct {
	Terms []constraint.LinearTerm
	Bound int
	Eq    bool
}

// Model 实现 constraint.ModelBuilder，充当 add_bool_var/add_linear_le/
// add_linear_eq/fix_bool 的登记簿
type Model struct {
	Instance *model.ProblemInstance

	vars  []varInfo
	index map[string]map[string]map[model.Shift]int
	fixed map[int]bool

	Constraints []LinearConstraint
}

// NewModel 为实例中的每个 (nurse,date,shift) 组合预先分配一个布尔变量
func NewModel(inst *model.ProblemInstance) *Model {
	m := &Model{
		Instance: inst,
		index:    make(map[string]map[string]map[model.Shift]int),
		fixed:    make(map[int]bool),
	}
	for ni, n := range inst.Nurses {
		m.index[n.ID] = make(map[string]map[model.Shift]int)
		for di, d := range inst.Dates {
			m.index[n.ID][d] = make(map[model.Shift]int)
			for _, s := range model.AllShifts {
				id := len(m.vars)
				m.vars = append(m.vars, varInfo{NurseID: n.ID, NurseIdx: ni, Date: d, DateIdx: di, Shift: s})
				m.index[n.ID][d][s] = id
			}
		}
	}
	return m
}

// BoolVar 实现 constraint.ModelBuilder
func (m *Model) BoolVar(nurseID, date string, shift model.Shift) (int, bool) {
	byDate, ok := m.index[nurseID]
	if !ok {
		return 0, false
	}
	byShift, ok := byDate[date]
	if !ok {
		return 0, false
	}
	id, ok := byShift[shift]
	return id, ok
}

// AddLinearLE 实现 constraint.ModelBuilder：Σ coef·x ≤ bound
func (m *Model) AddLinearLE(terms []constraint.LinearTerm, bound int) {
	m.Constraints = append(m.Constraints, LinearConstraint{Terms: terms, Bound: bound})
}

// AddLinearEQ 实现 constraint.ModelBuilder：Σ coef·x = bound
func (m *Model) AddLinearEQ(terms []constraint.LinearTerm, bound int) {
	m.Constraints = append(m.Constraints, LinearConstraint{Terms: terms, Bound: bound, Eq: true})
}

// FixBool 实现 constraint.ModelBuilder：固定某变量的取值（H9/H10）
func (m *Model) FixBool(varID int, value bool) {
	m.fixed[varID] = value
}

// ForcedShift 返回某护士在某日被 H10 固定的班次
func (m *Model) ForcedShift(nurseID, date string) (model.Shift, bool) {
	byDate, ok := m.index[nurseID]
	if !ok {
		return "", false
	}
	byShift, ok := byDate[date]
	if !ok {
		return "", false
	}
	for s, id := range byShift {
		if v, ok := m.fixed[id]; ok && v {
			return s, true
		}
	}
	return "", false
}

// IsForbidden 判断某护士在某日某班次是否被 H9 禁止
func (m *Model) IsForbidden(nurseID, date string, shift model.Shift) bool {
	id, ok := m.BoolVar(nurseID, date, shift)
	if !ok {
		return false
	}
	v, ok := m.fixed[id]
	return ok && !v
}

// VarInfo 供求解回路按 varID 反查所属单元格
func (m *Model) VarInfo(varID int) (nurseID, date string, shift model.Shift, ok bool) {
	if varID < 0 || varID >= len(m.vars) {
		return "", "", "", false
	}
	v := m.vars[varID]
	return v.NurseID, v.Date, v.Shift, true
}

// Value 返回某变量在给定 Assignment 下的当前取值（0/1）
func (m *Model) Value(varID int, a *model.Assignment) int {
	if varID < 0 || varID >= len(m.vars) {
		return 0
	}
	v := m.vars[varID]
	if a.Get(v.NurseIdx, v.DateIdx) == v.Shift {
		return 1
	}
	return 0
}

// Satisfied 检验模型中登记的全部线性约束在给定 Assignment 下是否全部满足；
// 松弛诊断（slack.go）与搜索循环都不调用它，二者直接使用 constraint.Manager 的求值
func (m *Model) Satisfied(a *model.Assignment) bool {
	for _, lc := range m.Constraints {
		sum := 0
		for _, t := range lc.Terms {
			sum += t.Coef * m.Value(t.VarID, a)
		}
		if lc.Eq {
			if sum != lc.Bound {
				return false
			}
		} else if sum > lc.Bound {
			return false
		}
	}
	return true
}
