package builtin

import (
	"github.com/nurseopt/core/pkg/model"
	"github.com/nurseopt/core/pkg/scheduler/constraint"
)

// addBoolVarsEQ 是 AddLinearEQ 的便捷包装：coef=1 的 (date,shift) 布尔变量之和等于 bound
func addBoolVarsEQ(mb constraint.ModelBuilder, varIDs []int, bound int) {
	terms := make([]constraint.LinearTerm, 0, len(varIDs))
	for _, id := range varIDs {
		terms = append(terms, constraint.LinearTerm{VarID: id, Coef: 1})
	}
	mb.AddLinearEQ(terms, bound)
}

func addBoolVarsLE(mb constraint.ModelBuilder, varIDs []int, bound int) {
	terms := make([]constraint.LinearTerm, 0, len(varIDs))
	for _, id := range varIDs {
		terms = append(terms, constraint.LinearTerm{VarID: id, Coef: 1})
	}
	mb.AddLinearLE(terms, bound)
}

// collectVarIDs 收集一组 (nurse,date,shift) 变量ID，跳过模型中不存在的
func collectVarIDs(mb constraint.ModelBuilder, cells [][3]string) []int {
	var ids []int
	for _, c := range cells {
		if id, ok := mb.BoolVar(c[0], c[1], model.Shift(c[2])); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// workDaysInWindow 统计护士在给定日期集合中的在岗天数（非OFF）
func workDaysInWindow(a *model.Assignment, inst *model.ProblemInstance, nurseID string, dates []string) int {
	ni := inst.NurseIndexOf(nurseID)
	if ni < 0 {
		return 0
	}
	count := 0
	for _, d := range dates {
		di := inst.DateIndexOf(d)
		if di < 0 {
			continue
		}
		if a.Get(ni, di).IsWork() {
			count++
		}
	}
	return count
}
