package model

import "github.com/shopspring/decimal"

// DayDemand 单日人员需求
type DayDemand struct {
	Date      string `json:"date"`
	Weekday   int    `json:"weekday"` // 0=Sunday .. 6=Saturday, time.Weekday 编码
	IsWeekend bool   `json:"is_weekend"`
	IsHoliday bool   `json:"is_holiday"`
	DayMin    int    `json:"day_min"`
	DayMax    int    `json:"day_max"`
	Late      int    `json:"late"`
	Night     int    `json:"night"`
}

// DemandOverride 按日期覆盖需求的原始输入
type DemandOverride struct {
	Date   string `json:"date" validate:"required"`
	DayMin *int   `json:"day_min,omitempty" validate:"omitempty,min=0"`
	DayMax *int   `json:"day_max,omitempty" validate:"omitempty,min=0"`
	Late   *int   `json:"late,omitempty" validate:"omitempty,min=0"`
	Night  *int   `json:"night,omitempty" validate:"omitempty,min=0"`
}

// DemandDefaults 三类默认需求：平日 / 周日 / 周六及节假日
type DemandDefaults struct {
	Weekday         DayDemandTarget `json:"weekday"`
	Sunday          DayDemandTarget `json:"sunday"`
	SaturdayHoliday DayDemandTarget `json:"saturday_holiday"`
}

// DayDemandTarget 需求目标值（不带日期）
type DayDemandTarget struct {
	DayMin int `json:"day_min"`
	DayMax int `json:"day_max"`
	Late   int `json:"late"`
	Night  int `json:"night"`
}

// Weights 目标函数权重，见 spec §4.2
type Weights struct {
	ReqOff      decimal.Decimal `json:"w_req_off"`
	FairWeekend decimal.Decimal `json:"w_fair_weekend"`
	FairNight   decimal.Decimal `json:"w_fair_night"`
	Pattern     decimal.Decimal `json:"w_pattern"`
	Slack       decimal.Decimal `json:"w_slack"`
}

// DefaultWeights 权威默认值，见 spec §4.2
func DefaultWeights() Weights {
	return Weights{
		ReqOff:      decimal.NewFromInt(1),
		FairWeekend: decimal.NewFromInt(5),
		FairNight:   decimal.NewFromInt(10),
		Pattern:     decimal.NewFromInt(3),
		Slack:       decimal.NewFromInt(10_000),
	}
}

// Policy 全局策略配置：权重、时间预算、diversification 参数、随机种子
type Policy struct {
	Weights Weights `json:"weights"`

	SolveTimeLimitMS   int64 `json:"solve_time_limit_ms"`   // 单次求解默认30s
	EnumerationBudgetMS int64 `json:"enumeration_budget_ms"` // 全部枚举组合预算，默认60s
	Seed               int64 `json:"seed"`                  // 默认1

	HammingDeltaMin int     `json:"hamming_delta_min"` // δ 下界，默认3
	HammingFraction float64 `json:"hamming_fraction"`  // δ = max(delta_min, ceil(fraction*N*D))，默认0.05
	ObjectiveBand   float64 `json:"objective_band"`    // ε，默认0.15

	DefaultOffQuota int `json:"default_off_quota"` // 每月最低休息天数，默认9；目前没有约束读取该值
}

// DefaultPolicy 权威默认配置
func DefaultPolicy() Policy {
	return Policy{
		Weights:             DefaultWeights(),
		SolveTimeLimitMS:    30_000,
		EnumerationBudgetMS: 60_000,
		Seed:                1,
		HammingDeltaMin:     3,
		HammingFraction:     0.05,
		ObjectiveBand:       0.15,
		DefaultOffQuota:     9,
	}
}
