// Package builtin 提供 H1-H14 的内置约束实现
package builtin

import (
	"github.com/nurseopt/core/pkg/scheduler/constraint"
)

// BaseConstraint 约束基类，承担 Name/Type/Category 的样板实现
type BaseConstraint struct {
	name string
	typ  constraint.Type
}

// NewBaseConstraint 创建基础约束
func NewBaseConstraint(name string, typ constraint.Type) *BaseConstraint {
	return &BaseConstraint{name: name, typ: typ}
}

// Name 返回约束名称
func (c *BaseConstraint) Name() string { return c.name }

// Type 返回约束类型
func (c *BaseConstraint) Type() constraint.Type { return c.typ }

// Category 返回约束类别，H1-H14 全部为硬约束
func (c *BaseConstraint) Category() constraint.Category { return constraint.CategoryHard }
