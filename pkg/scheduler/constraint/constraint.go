// Package constraint 定义硬约束接口与运行上下文，落地 spec §4.2 的 H1-H14。
package constraint

import (
	"github.com/nurseopt/core/pkg/model"
)

// Type 约束标识，对应 spec §4.2 硬约束表中的编号
type Type string

const (
	TypeOneShiftPerDay      Type = "H1_one_shift_per_day"
	TypeDayDutyRange        Type = "H2_day_duty_range"
	TypeLateExact           Type = "H3_late_exact"
	TypeNightExact          Type = "H4_night_exact"
	TypeNightThenNoDay      Type = "H5_night_then_no_day"
	TypeNightCountPerNurse  Type = "H6_night_count_per_nurse"
	TypeWeeklyWorkCap       Type = "H7_weekly_work_cap"
	TypeWeekendHolidayCap   Type = "H8_weekend_holiday_cap"
	TypeForbiddenCells      Type = "H9_forbidden_cells"
	TypeFixedCells          Type = "H10_fixed_cells"
	TypeNightTeamComposition Type = "H11_night_team_composition"
	TypeNightLeaderPresence Type = "H12_night_leader_presence"
	TypeConsecutiveNightCap Type = "H13_consecutive_night_cap"
	TypeMaxConsecutiveWork  Type = "H14_max_consecutive_work"
)

// Category 约束类别。核心目前只承载硬约束；软目标由 pkg/scheduler/solver 的 Objective（objective.go）承担。
type Category string

const (
	CategoryHard Category = "hard"
)

// Context 约束求值/建模的公共上下文：一份已编译的 ProblemInstance 加上索引缓存
type Context struct {
	Instance *model.ProblemInstance

	nurseByID map[string]*model.Nurse
}

// NewContext 从已编译实例构造上下文
func NewContext(instance *model.ProblemInstance) *Context {
	c := &Context{Instance: instance, nurseByID: make(map[string]*model.Nurse, len(instance.Nurses))}
	for i := range instance.Nurses {
		c.nurseByID[instance.Nurses[i].ID] = &instance.Nurses[i]
	}
	return c
}

// Nurse 按 ID 查找护士
func (c *Context) Nurse(id string) *model.Nurse {
	return c.nurseByID[id]
}

// Constraint H1-H14 中一条硬约束的双重职责：向 CP 模型注册线性约束，以及
// 对一份已有 Assignment 做事后违规评估（供 Analyzer / Solver 的 slack 诊断复用）。
type Constraint interface {
	// Name 约束名称，用于日志与诊断
	Name() string

	// Type 返回约束标识
	Type() Type

	// Category 返回约束类别（当前恒为 hard）
	Category() Category

	// AddToModel 将约束线性化并写入求解模型
	AddToModel(mb ModelBuilder, ctx *Context)

	// Evaluate 对一份具体 Assignment 求值，返回违规列表（可能为空）
	Evaluate(ctx *Context, assignment *model.Assignment) []model.Violation
}

// ModelBuilder 是 pkg/scheduler/solver.Model 满足的最小接口，constraint 包只依赖
// 这个子集以避免对 solver 包的循环依赖。
type ModelBuilder interface {
	// BoolVar 返回 (nurse,date,shift) 对应的布尔决策变量，必须已经存在
	BoolVar(nurseID, date string, shift model.Shift) (varID int, ok bool)

	// AddLinearLE 添加线性不等式 Σ coef·var ≤ bound
	AddLinearLE(terms []LinearTerm, bound int)

	// AddLinearEQ 添加线性等式 Σ coef·var = bound
	AddLinearEQ(terms []LinearTerm, bound int)

	// FixBool 直接固定某布尔变量的取值（H9/H10 用）
	FixBool(varID int, value bool)
}

// LinearTerm 线性表达式中的一项：coefficient * x[varID]
type LinearTerm struct {
	VarID int
	Coef  int
}
