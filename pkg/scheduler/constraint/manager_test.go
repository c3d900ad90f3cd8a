package constraint

import (
	"testing"

	"github.com/nurseopt/core/pkg/model"
)

type mockConstraint struct {
	name       string
	typ        Type
	violations []model.Violation
}

func (m *mockConstraint) Name() string       { return m.name }
func (m *mockConstraint) Type() Type         { return m.typ }
func (m *mockConstraint) Category() Category { return CategoryHard }
func (m *mockConstraint) AddToModel(mb ModelBuilder, ctx *Context) {}
func (m *mockConstraint) Evaluate(ctx *Context, a *model.Assignment) []model.Violation {
	return m.violations
}

func TestManager_Register注册与替换(t *testing.T) {
	m := NewManager()
	m.Register(&mockConstraint{name: "a", typ: Type("t1")})
	if m.Count() != 1 {
		t.Fatalf("Count() = %d, want 1", m.Count())
	}
	m.Register(&mockConstraint{name: "a2", typ: Type("t1")})
	if m.Count() != 1 {
		t.Fatalf("同类型重复注册应替换而非追加, Count() = %d", m.Count())
	}
	if m.GetAll()[0].Name() != "a2" {
		t.Error("replaced constraint should be the latest registration")
	}
}

func TestManager_EvaluateAll按日期优先排序(t *testing.T) {
	m := NewManager()
	m.Register(&mockConstraint{name: "excess", typ: Type("t1"), violations: []model.Violation{
		{Date: "2025-10-02", Kind: model.KindExcess},
	}})
	m.Register(&mockConstraint{name: "shortage", typ: Type("t2"), violations: []model.Violation{
		{Date: "2025-10-01", Kind: model.KindShortage},
	}})

	inst := &model.ProblemInstance{}
	ctx := NewContext(inst)
	violations := m.EvaluateAll(ctx, model.NewAssignment(0, 0))

	if len(violations) != 2 {
		t.Fatalf("violations count = %d, want 2", len(violations))
	}
	if violations[0].Date != "2025-10-01" {
		t.Errorf("first violation should be the earlier date, got %s", violations[0].Date)
	}
}

func TestManager_Count空管理器(t *testing.T) {
	m := NewManager()
	if m.Count() != 0 {
		t.Error("新建管理器应无约束")
	}
}
