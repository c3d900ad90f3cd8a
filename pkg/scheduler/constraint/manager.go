package constraint

import (
	"sort"
	"sync"

	"github.com/nurseopt/core/pkg/model"
)

// Manager 持有 H1-H14 的完整集合，供 Model Builder 建模、供 Analyzer 事后求值复用
type Manager struct {
	constraints []Constraint
	mu          sync.RWMutex
}

// NewManager 创建约束管理器
func NewManager() *Manager {
	return &Manager{constraints: make([]Constraint, 0, 14)}
}

// Register 注册约束，同类型重复注册视为替换
func (m *Manager) Register(c Constraint) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.constraints {
		if existing.Type() == c.Type() {
			m.constraints[i] = c
			return
		}
	}
	m.constraints = append(m.constraints, c)
	sort.Slice(m.constraints, func(i, j int) bool { return m.constraints[i].Type() < m.constraints[j].Type() })
}

// GetAll 返回全部已注册约束，按 Type 字符串的字典序排列（因此 H10-H14 排在 H1-H9 之前）
func (m *Manager) GetAll() []Constraint {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Constraint, len(m.constraints))
	copy(out, m.constraints)
	return out
}

// Count 返回已注册约束数量
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.constraints)
}

// AddAllToModel 依次调用每条约束的 AddToModel，供 Model Builder 一次性建模全部硬约束
func (m *Manager) AddAllToModel(mb ModelBuilder, ctx *Context) {
	for _, c := range m.GetAll() {
		c.AddToModel(mb, ctx)
	}
}

// EvaluateAll 对一份 Assignment 跑全部约束的事后求值，按 (date,shift,kind) 排序返回
func (m *Manager) EvaluateAll(ctx *Context, assignment *model.Assignment) []model.Violation {
	var out []model.Violation
	for _, c := range m.GetAll() {
		out = append(out, c.Evaluate(ctx, assignment)...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// RegisterDefaults 注册 H1-H14 的全部内建实现
func RegisterDefaults(m *Manager, builtins []Constraint) {
	for _, c := range builtins {
		m.Register(c)
	}
}
