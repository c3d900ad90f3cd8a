package model

// ViolationKind 违规种类的标签联合。声明顺序即 taxonomy 排序顺序
// （见 spec §4.4 "kind in taxonomy order" 与 SPEC_FULL.md §9 的 Open Question 决定）。
type ViolationKind string

const (
	KindShortage           ViolationKind = "shortage"
	KindExcess             ViolationKind = "excess"
	KindNightLeaderMissing ViolationKind = "night_leader_missing"
	KindNightTeamMix       ViolationKind = "night_team_mix"
	KindConsecutiveWork    ViolationKind = "consecutive_work"
	KindConsecutiveNight   ViolationKind = "consecutive_night"
	KindForbiddenAssigned  ViolationKind = "forbidden_assigned"
	KindFixedViolated      ViolationKind = "fixed_violated"
	KindNightCapExceeded   ViolationKind = "night_cap_exceeded"
	KindWeeklyCapExceeded  ViolationKind = "weekly_cap_exceeded"
	KindWeekendCapExceeded ViolationKind = "weekend_cap_exceeded"
	KindNightAfterNightDay ViolationKind = "night_after_night_day"
)

// kindOrder 用于按 taxonomy 顺序排序违规列表
var kindOrder = map[ViolationKind]int{
	KindShortage:           0,
	KindExcess:             1,
	KindNightLeaderMissing: 2,
	KindNightTeamMix:       3,
	KindConsecutiveWork:    4,
	KindConsecutiveNight:   5,
	KindForbiddenAssigned:  6,
	KindFixedViolated:      7,
	KindNightCapExceeded:   8,
	KindWeeklyCapExceeded:  9,
	KindWeekendCapExceeded: 10,
	KindNightAfterNightDay: 11,
}

// KindRank 返回 taxonomy 排序权重，未知种类排在最后
func KindRank(k ViolationKind) int {
	if r, ok := kindOrder[k]; ok {
		return r
	}
	return len(kindOrder)
}

// shiftOrder 班次在枚举中的顺序，用于 (date, shift, kind) 排序
var shiftOrder = map[Shift]int{ShiftDay: 0, ShiftLate: 1, ShiftNight: 2, ShiftOff: 3}

// ShiftRank 返回班次排序权重
func ShiftRank(s Shift) int {
	if r, ok := shiftOrder[s]; ok {
		return r
	}
	return len(shiftOrder)
}

// Violation 单条违规记录
type Violation struct {
	Date         string        `json:"date"`
	Shift        Shift         `json:"shift,omitempty"`
	NurseID      string        `json:"nurse_id,omitempty"`
	Kind         ViolationKind `json:"kind"`
	Difference   int           `json:"difference,omitempty"`
	Actual       int           `json:"actual,omitempty"`
	RequiredMin  int           `json:"required_min,omitempty"`
	RequiredMax  int           `json:"required_max,omitempty"`
	MissingTeams []Team        `json:"missing_teams,omitempty"`
	Message      string        `json:"message"`
}

// Less 实现 (date, shift, kind) 排序
func (v Violation) Less(o Violation) bool {
	if v.Date != o.Date {
		return v.Date < o.Date
	}
	if ShiftRank(v.Shift) != ShiftRank(o.Shift) {
		return ShiftRank(v.Shift) < ShiftRank(o.Shift)
	}
	return KindRank(v.Kind) < KindRank(o.Kind)
}

// ViolationCell 供 UI 高亮的去重单元格
type ViolationCell struct {
	Date  string        `json:"date"`
	Shift Shift         `json:"shift"`
	Kind  ViolationKind `json:"kind"`
}

// Suggestion 推荐器给出的单一候选修复
type Suggestion struct {
	NurseID        string `json:"nurse_id"`
	CurrentShift   Shift  `json:"current_shift"`
	SuggestedShift Shift  `json:"suggested_shift"`
	Reason         string `json:"reason"`
	Locked         bool   `json:"locked"`
}

// Recommendation 针对某个违规单元格给出的一组排序过的候选建议
type Recommendation struct {
	Date        string        `json:"date"`
	Shift       Shift         `json:"shift"`
	Kind        ViolationKind `json:"kind"`
	Difference  int           `json:"difference"`
	Suggestions []Suggestion  `json:"suggestions"`
}

// PerDaySummary 单日汇总
type PerDaySummary struct {
	Date      string         `json:"date"`
	Weekday   int            `json:"weekday"`
	IsWeekend bool           `json:"is_weekend"`
	IsHoliday bool           `json:"is_holiday"`
	Required  DayDemandTarget `json:"requirements"`
	Filled    map[Shift]int  `json:"filled"`
}

// PerNurseSummary 单人汇总
type PerNurseSummary struct {
	NurseID       string        `json:"nurse_id"`
	Name          string        `json:"name,omitempty"`
	Team          Team          `json:"team"`
	Counts        map[Shift]int `json:"counts"`
	WeekendWork   int           `json:"weekend_work"`
	TotalWorkDays int           `json:"total_work_days"`
}

// AnalysisSummary Analyzer 的核心统计输出
type AnalysisSummary struct {
	PerDay   []PerDaySummary   `json:"per_day"`
	PerNurse []PerNurseSummary `json:"per_nurse"`
}

// AnalysisReport analyze() 操作的完整输出，见 spec §4.4 / §6
type AnalysisReport struct {
	OK              bool             `json:"ok"`
	Summary         AnalysisSummary  `json:"summary"`
	Warnings        []string         `json:"warnings"`
	Violations      []Violation      `json:"violations_detail"`
	ViolationCells  []ViolationCell  `json:"violation_cells"`
	Recommendations []Recommendation `json:"recommendations"`
}

// RelaxationSuggestion 无可行解时给出的宽松化建议，来自 original_source 的
// suggest_relaxations，见 SPEC_FULL.md §4.6
type RelaxationSuggestion struct {
	Type   string   `json:"type"`
	Amount int      `json:"amount,omitempty"`
	Dates  []string `json:"dates,omitempty"`
	Scope  string   `json:"scope,omitempty"`
	Pair   []string `json:"pair,omitempty"`
	Reason string   `json:"reason"`
}

// InfeasibleReport optimize/reoptimize 无可行解时的诊断输出，见 spec §7
type InfeasibleReport struct {
	Status      string                 `json:"status"` // 恒为 "INFEASIBLE"
	Message     string                 `json:"message"`
	Analysis    AnalysisReport         `json:"analysis"`
	Suggestions []RelaxationSuggestion `json:"suggestions,omitempty"`
}
