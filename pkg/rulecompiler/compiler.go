// Package rulecompiler 实现 compile() 操作：将原始护士记录、需求覆盖与策略
// 编译为不可变的 ProblemInstance，供 Model Builder / Solver Driver 消费。
package rulecompiler

import (
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/nurseopt/core/pkg/errors"
	"github.com/nurseopt/core/pkg/model"
)

var validate = validator.New()

// HolidaySet 外部注入的节假日判定接口，对应 is_holiday(date) → bool
type HolidaySet interface {
	IsHoliday(date string) bool
}

// HolidaySetFunc 函数适配器
type HolidaySetFunc func(date string) bool

// IsHoliday 实现 HolidaySet
func (f HolidaySetFunc) IsHoliday(date string) bool { return f(date) }

type noHolidays struct{}

func (noHolidays) IsHoliday(string) bool { return false }

// NoHolidays 缺省节假日集合：全月无节假日
var NoHolidays HolidaySet = noHolidays{}

// Request compile() 的原始输入，对应 spec §4.1 的 (raw_nurses, raw_demand, year, month, policy)
type Request struct {
	Year     int
	Month    int
	Nurses   []model.NurseRecord
	Demand   []model.DemandOverride
	Defaults model.DemandDefaults
	Policy   model.Policy
	Holidays HolidaySet
}

// unboundedMax 用作 max 类字段缺省时的哨兵值：足够大以在数值上等价于无约束
const unboundedMax = 1 << 30

// Compile 执行 compile()：校验、解析默认值、展开日期；ISO 周分桶不在此预计算，
// 由 ProblemInstance.WeekBuckets 按需生成
func Compile(req Request) (*model.ProblemInstance, error) {
	if req.Holidays == nil {
		req.Holidays = NoHolidays
	}

	if req.Month < 1 || req.Month > 12 {
		return nil, apperrors.BadDateRange(fmt.Sprintf("非法月份: %d", req.Month))
	}
	if req.Year < 1 {
		return nil, apperrors.BadDateRange(fmt.Sprintf("非法年份: %d", req.Year))
	}

	if err := validateRecords(req.Nurses, req.Demand); err != nil {
		return nil, err
	}
	if err := checkDuplicateIDs(req.Nurses); err != nil {
		return nil, err
	}

	dates := model.DaysInMonth(req.Year, req.Month)
	dateStrs := make([]string, len(dates))
	for i, d := range dates {
		dateStrs[i] = model.FormatDate(d)
	}

	demand, err := compileDemand(dates, req.Demand, req.Defaults, req.Holidays)
	if err != nil {
		return nil, err
	}

	nurses, err := compileNurses(req.Nurses, dateStrs, demand, req.Policy)
	if err != nil {
		return nil, err
	}

	if err := checkInfeasibleBounds(nurses, demand); err != nil {
		return nil, err
	}
	if err := checkConflictingFixed(nurses); err != nil {
		return nil, err
	}

	policy := req.Policy
	if policy.Weights.ReqOff.IsZero() && policy.Weights.FairWeekend.IsZero() &&
		policy.Weights.FairNight.IsZero() && policy.Weights.Pattern.IsZero() && policy.Weights.Slack.IsZero() {
		policy.Weights = model.DefaultWeights()
	}
	if policy.SolveTimeLimitMS == 0 {
		policy.SolveTimeLimitMS = model.DefaultPolicy().SolveTimeLimitMS
	}
	if policy.EnumerationBudgetMS == 0 {
		policy.EnumerationBudgetMS = model.DefaultPolicy().EnumerationBudgetMS
	}
	if policy.HammingDeltaMin == 0 {
		policy.HammingDeltaMin = model.DefaultPolicy().HammingDeltaMin
	}
	if policy.HammingFraction == 0 {
		policy.HammingFraction = model.DefaultPolicy().HammingFraction
	}
	if policy.ObjectiveBand == 0 {
		policy.ObjectiveBand = model.DefaultPolicy().ObjectiveBand
	}
	if policy.DefaultOffQuota == 0 {
		policy.DefaultOffQuota = model.DefaultPolicy().DefaultOffQuota
	}

	instance := &model.ProblemInstance{
		Year:   req.Year,
		Month:  req.Month,
		Dates:  dateStrs,
		Nurses: nurses,
		Demand: demand,
		Policy: policy,
	}
	instance.Finalize()

	return instance, nil
}

// validateRecords 对每条原始 DTO 做结构性校验（validator/v10 struct tag）
func validateRecords(nurses []model.NurseRecord, demand []model.DemandOverride) error {
	ve := &apperrors.ValidationErrors{}
	for i := range nurses {
		if err := validate.Struct(&nurses[i]); err != nil {
			for _, fe := range err.(validator.ValidationErrors) {
				ve.Add(fmt.Sprintf("nurses[%d].%s", i, fe.Field()), fe.Tag())
			}
		}
	}
	for i := range demand {
		if err := validate.Struct(&demand[i]); err != nil {
			for _, fe := range err.(validator.ValidationErrors) {
				ve.Add(fmt.Sprintf("demand[%d].%s", i, fe.Field()), fe.Tag())
			}
		}
	}
	if ve.HasErrors() {
		return ve.ToAppError()
	}
	return nil
}

// checkDuplicateIDs 拒绝重复的护士 ID
func checkDuplicateIDs(nurses []model.NurseRecord) error {
	seen := make(map[string]bool, len(nurses))
	for _, n := range nurses {
		if seen[n.ID] {
			return apperrors.DuplicateNurseID(n.ID)
		}
		seen[n.ID] = true
	}
	return nil
}

// compileDemand 展开全月需求：按日覆盖 > 三类默认值（周日/周六及节假日/平日）
func compileDemand(dates []time.Time, overrides []model.DemandOverride, defaults model.DemandDefaults, holidays HolidaySet) ([]model.DayDemand, error) {
	overrideByDate := make(map[string]model.DemandOverride, len(overrides))
	for _, o := range overrides {
		overrideByDate[o.Date] = o
	}

	out := make([]model.DayDemand, 0, len(dates))
	for _, t := range dates {
		date := model.FormatDate(t)
		isWeekend := model.IsWeekend(t)
		isHoliday := holidays.IsHoliday(date)

		var target model.DayDemandTarget
		switch {
		case isHoliday:
			target = defaults.SaturdayHoliday
		case t.Weekday() == time.Sunday:
			target = defaults.Sunday
		case isWeekend:
			target = defaults.SaturdayHoliday
		default:
			target = defaults.Weekday
		}

		dd := model.DayDemand{
			Date:      date,
			Weekday:   int(t.Weekday()),
			IsWeekend: isWeekend,
			IsHoliday: isHoliday,
			DayMin:    target.DayMin,
			DayMax:    target.DayMax,
			Late:      target.Late,
			Night:     target.Night,
		}

		if o, ok := overrideByDate[date]; ok {
			if o.DayMin != nil {
				dd.DayMin = *o.DayMin
			}
			if o.DayMax != nil {
				dd.DayMax = *o.DayMax
			}
			if o.Late != nil {
				dd.Late = *o.Late
			}
			if o.Night != nil {
				dd.Night = *o.Night
			}
			delete(overrideByDate, date)
		}

		if dd.DayMax > 0 && dd.DayMin > dd.DayMax {
			return nil, apperrors.BadDateRange(fmt.Sprintf("日期 %s 的 day_min(%d) 大于 day_max(%d)", date, dd.DayMin, dd.DayMax))
		}
		out = append(out, dd)
	}

	for leftover := range overrideByDate {
		return nil, apperrors.BadDateRange(fmt.Sprintf("需求覆盖日期 %s 不在本月范围内", leftover))
	}

	return out, nil
}

// compileNurses 解析每位护士的规则默认值，并将 original_source 速写标志降解为
// forbidden_shifts / fixed_shifts。
func compileNurses(records []model.NurseRecord, dates []string, demand []model.DayDemand, policy model.Policy) ([]model.Nurse, error) {
	demandByDate := make(map[string]model.DayDemand, len(demand))
	for _, d := range demand {
		demandByDate[d.Date] = d
	}

	nurses := make([]model.Nurse, 0, len(records))
	for _, r := range records {
		team := model.Team(r.Team)
		if !team.Valid() {
			return nil, apperrors.InvalidInput("team", fmt.Sprintf("护士 %s 团队非法: %s", r.ID, r.Team))
		}

		rule := model.NurseRule{
			NightMin:          intOr(r.NightMin, 0),
			NightMax:          intOr(r.NightMax, unboundedMax),
			WeeklyWorkMax:     intOr(r.WeeklyWorkMax, 7),
			WeekendHolidayMax: intOr(r.WeekendHolidayMax, unboundedMax),
			RequestedOff:      toSet(r.RequestedOff),
			ExtraHolidays:     r.ExtraHolidays,
		}

		for _, c := range r.ForbiddenShifts {
			rule.AddForbidden(c.Date, c.Shift)
		}
		for _, c := range r.FixedShifts {
			rule.AddFixed(c.Date, c.Shift)
		}

		lowerConvenienceFlags(&rule, r, dates, demandByDate)

		nurses = append(nurses, model.Nurse{
			ID:       r.ID,
			Name:     r.Name,
			Team:     team,
			LeaderOK: r.LeaderOK && !r.CannotLeadNight,
			Rule:     rule,
		})
	}

	sort.Slice(nurses, func(i, j int) bool { return nurses[i].ID < nurses[j].ID })
	return nurses, nil
}

// lowerConvenienceFlags 将 NurseRecord 上的速写标志（源自 original_source 的
// only_night/only_day/weekend_off/... ）降解为 forbidden/fixed 单元格，
// 使 Model Builder 只需理解 H9/H10 两类约束。
func lowerConvenienceFlags(rule *model.NurseRule, r model.NurseRecord, dates []string, demandByDate map[string]model.DayDemand) {
	for _, date := range dates {
		dd, hasDemand := demandByDate[date]
		isWeekendOrHoliday := hasDemand && (dd.IsWeekend || dd.IsHoliday)

		if r.OnlyNight {
			rule.AddForbidden(date, model.ShiftDay)
			rule.AddForbidden(date, model.ShiftLate)
		}
		if r.OnlyDay {
			rule.AddForbidden(date, model.ShiftNight)
		}
		if r.WeekendOff && hasDemand && dd.IsWeekend {
			rule.AddFixed(date, model.ShiftOff)
		}
		if r.HolidayOff && hasDemand && dd.IsHoliday {
			rule.AddFixed(date, model.ShiftOff)
		}
		if r.WeekendDayOnly && hasDemand && dd.IsWeekend {
			rule.AddForbidden(date, model.ShiftNight)
			rule.AddForbidden(date, model.ShiftLate)
		}
		if r.WeekendOnlyNight && isWeekendOrHoliday {
			rule.AddForbidden(date, model.ShiftDay)
			rule.AddForbidden(date, model.ShiftLate)
		}
	}
	if r.MonthQuotaDays != nil {
		// 月度DAY班配额仅原样登记到护士规则上；pkg/scheduler 中没有约束读取它，
		// 因此它不约束求解结果。
		rule.MonthQuotaDays = r.MonthQuotaDays
	}
}

// checkInfeasibleBounds 在编译期即可判定的下界不可行性：全体护士 night_min
// 之和超过全月 night 需求之和
func checkInfeasibleBounds(nurses []model.Nurse, demand []model.DayDemand) error {
	sumNightMin := 0
	for _, n := range nurses {
		sumNightMin += n.Rule.NightMin
	}
	sumNightDemand := 0
	for _, d := range demand {
		sumNightDemand += d.Night
	}
	if sumNightMin > sumNightDemand {
		return apperrors.InfeasibleBounds(fmt.Sprintf("护士 night_min 总和 %d 超过全月 night 需求总和 %d", sumNightMin, sumNightDemand))
	}
	return nil
}

// checkConflictingFixed 拒绝同一 (nurse,date,shift) 同时出现在 fixed 与 forbidden 中，
// 以及同一护士同一天出现多个互斥的 fixed 班次
func checkConflictingFixed(nurses []model.Nurse) error {
	for _, n := range nurses {
		for c := range n.Rule.FixedShifts {
			if n.Rule.ForbiddenShifts[c] {
				return apperrors.ConflictingFixed(n.ID, c.Date, string(c.Shift))
			}
		}
		seenDate := make(map[string]model.Shift)
		for c := range n.Rule.FixedShifts {
			if prior, ok := seenDate[c.Date]; ok && prior != c.Shift {
				return apperrors.ConflictingFixed(n.ID, c.Date, string(c.Shift))
			}
			seenDate[c.Date] = c.Shift
		}
	}
	return nil
}

func intOr(p *int, fallback int) int {
	if p == nil {
		return fallback
	}
	return *p
}

func toSet(items []string) map[string]bool {
	if len(items) == 0 {
		return nil
	}
	out := make(map[string]bool, len(items))
	for _, s := range items {
		out[s] = true
	}
	return out
}
