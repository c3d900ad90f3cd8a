package model

// AssignmentEntry 外部可见的扁平三元组
type AssignmentEntry struct {
	NurseID string `json:"nurse_id"`
	Date    string `json:"date"`
	Shift   Shift  `json:"shift"`
}

// Assignment 稠密矩阵表示：nurse 下标 -> date 下标 -> Shift，内部求解与分析使用
type Assignment struct {
	Grid [][]Shift // [nurseIdx][dateIdx]
}

// NewAssignment 创建一个全 OFF 的空网格
func NewAssignment(nNurses, nDates int) *Assignment {
	grid := make([][]Shift, nNurses)
	for i := range grid {
		row := make([]Shift, nDates)
		for j := range row {
			row[j] = ShiftOff
		}
		grid[i] = row
	}
	return &Assignment{Grid: grid}
}

// Clone 深拷贝
func (a *Assignment) Clone() *Assignment {
	grid := make([][]Shift, len(a.Grid))
	for i, row := range a.Grid {
		nrow := make([]Shift, len(row))
		copy(nrow, row)
		grid[i] = nrow
	}
	return &Assignment{Grid: grid}
}

// Get / Set 按下标读写
func (a *Assignment) Get(nurseIdx, dateIdx int) Shift {
	return a.Grid[nurseIdx][dateIdx]
}

func (a *Assignment) Set(nurseIdx, dateIdx int, s Shift) {
	a.Grid[nurseIdx][dateIdx] = s
}

// ToEntries 展平为外部三元组列表，按 instance 顺序遍历
func (a *Assignment) ToEntries(inst *ProblemInstance) []AssignmentEntry {
	entries := make([]AssignmentEntry, 0, len(inst.Nurses)*len(inst.Dates))
	for ni, n := range inst.Nurses {
		for di, d := range inst.Dates {
			entries = append(entries, AssignmentEntry{NurseID: n.ID, Date: d, Shift: a.Grid[ni][di]})
		}
	}
	return entries
}

// FromEntries 从扁平列表构建稠密矩阵，未覆盖的 (nurse,date) 保持 OFF
func FromEntries(inst *ProblemInstance, entries []AssignmentEntry) *Assignment {
	a := NewAssignment(len(inst.Nurses), len(inst.Dates))
	for _, e := range entries {
		ni := inst.NurseIndexOf(e.NurseID)
		di := inst.DateIndexOf(e.Date)
		if ni < 0 || di < 0 {
			continue
		}
		a.Set(ni, di, e.Shift)
	}
	return a
}

// HammingDistance 两个网格在 (nurse,date) 单元上取值不同的数量
func HammingDistance(a, b *Assignment) int {
	dist := 0
	for i := range a.Grid {
		for j := range a.Grid[i] {
			if a.Grid[i][j] != b.Grid[i][j] {
				dist++
			}
		}
	}
	return dist
}

// Solution 一次求解结果：分配、目标值与稳定 plan_id
type Solution struct {
	PlanID          string            `json:"plan_id"`
	Label           string            `json:"label"`
	Objective       float64           `json:"objective"`
	Assignments     []AssignmentEntry `json:"assignments"`
	Summary         AnalysisSummary   `json:"summary"`
	Warnings        []string          `json:"warnings"`
	Violations      []Violation       `json:"violations"`
	ViolationCells  []ViolationCell   `json:"violation_cells"`
	Recommendations []Recommendation  `json:"recommendations,omitempty"`
}
