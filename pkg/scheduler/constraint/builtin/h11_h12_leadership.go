package builtin

import (
	"fmt"

	"github.com/nurseopt/core/pkg/model"
	"github.com/nurseopt/core/pkg/scheduler/constraint"
)

// NightTeamCompositionConstraint H11: night_d≥2 时A/B队至少各一人在夜班；
// night_d≥3 时还需至少一名 EMG 或 leader_ok 护士在夜班
type NightTeamCompositionConstraint struct{ *BaseConstraint }

func NewNightTeamCompositionConstraint() *NightTeamCompositionConstraint {
	return &NightTeamCompositionConstraint{NewBaseConstraint("夜班团队构成", constraint.TypeNightTeamComposition)}
}

func nursesByTeam(ctx *constraint.Context, team model.Team) []model.Nurse {
	var out []model.Nurse
	for _, n := range ctx.Instance.Nurses {
		if n.Team == team {
			out = append(out, n)
		}
	}
	return out
}

func (c *NightTeamCompositionConstraint) AddToModel(mb constraint.ModelBuilder, ctx *constraint.Context) {
	for _, d := range ctx.Instance.Dates {
		dd, ok := ctx.Instance.DemandOn(d)
		if !ok || dd.Night < 2 {
			continue
		}
		for _, team := range []model.Team{model.TeamA, model.TeamB} {
			cells := make([][3]string, 0)
			for _, n := range nursesByTeam(ctx, team) {
				cells = append(cells, [3]string{n.ID, d, string(model.ShiftNight)})
			}
			ids := collectVarIDs(mb, cells)
			if len(ids) == 0 {
				continue
			}
			terms := make([]constraint.LinearTerm, len(ids))
			for i, id := range ids {
				terms[i] = constraint.LinearTerm{VarID: id, Coef: -1}
			}
			mb.AddLinearLE(terms, -1)
		}
		if dd.Night >= 3 {
			cells := make([][3]string, 0)
			for _, n := range ctx.Instance.Nurses {
				if n.Team == model.TeamEmg || n.LeaderOK {
					cells = append(cells, [3]string{n.ID, d, string(model.ShiftNight)})
				}
			}
			ids := collectVarIDs(mb, cells)
			if len(ids) > 0 {
				terms := make([]constraint.LinearTerm, len(ids))
				for i, id := range ids {
					terms[i] = constraint.LinearTerm{VarID: id, Coef: -1}
				}
				mb.AddLinearLE(terms, -1)
			}
		}
	}
}

func (c *NightTeamCompositionConstraint) Evaluate(ctx *constraint.Context, a *model.Assignment) []model.Violation {
	var out []model.Violation
	for di, d := range ctx.Instance.Dates {
		dd, ok := ctx.Instance.DemandOn(d)
		if !ok || dd.Night < 2 {
			continue
		}
		present := map[model.Team]bool{}
		emgOrLeader := false
		for ni, n := range ctx.Instance.Nurses {
			if a.Get(ni, di) != model.ShiftNight {
				continue
			}
			present[n.Team] = true
			if n.Team == model.TeamEmg || n.LeaderOK {
				emgOrLeader = true
			}
		}
		var missing []model.Team
		if !present[model.TeamA] {
			missing = append(missing, model.TeamA)
		}
		if !present[model.TeamB] {
			missing = append(missing, model.TeamB)
		}
		if len(missing) > 0 {
			out = append(out, model.Violation{
				Date: d, Shift: model.ShiftNight, Kind: model.KindNightTeamMix, MissingTeams: missing,
				Message: fmt.Sprintf("%s 夜班团队构成不满足要求，缺少团队: %v", d, missing),
			})
		}
		if dd.Night >= 3 && !emgOrLeader {
			out = append(out, model.Violation{
				Date: d, Shift: model.ShiftNight, Kind: model.KindNightTeamMix,
				Message: fmt.Sprintf("%s 夜班人数≥3但缺少EMG或带班护士", d),
			})
		}
	}
	return out
}

// NightLeaderPresenceConstraint H12: Σ_{n:leader_ok} x[n][d][NIGHT] ≥ 1
type NightLeaderPresenceConstraint struct{ *BaseConstraint }

func NewNightLeaderPresenceConstraint() *NightLeaderPresenceConstraint {
	return &NightLeaderPresenceConstraint{NewBaseConstraint("夜班带班护士在岗", constraint.TypeNightLeaderPresence)}
}

func (c *NightLeaderPresenceConstraint) AddToModel(mb constraint.ModelBuilder, ctx *constraint.Context) {
	for _, d := range ctx.Instance.Dates {
		dd, ok := ctx.Instance.DemandOn(d)
		if !ok || dd.Night < 1 {
			continue
		}
		cells := make([][3]string, 0)
		for _, n := range ctx.Instance.Nurses {
			if n.LeaderOK {
				cells = append(cells, [3]string{n.ID, d, string(model.ShiftNight)})
			}
		}
		ids := collectVarIDs(mb, cells)
		if len(ids) == 0 {
			continue
		}
		terms := make([]constraint.LinearTerm, len(ids))
		for i, id := range ids {
			terms[i] = constraint.LinearTerm{VarID: id, Coef: -1}
		}
		mb.AddLinearLE(terms, -1)
	}
}

func (c *NightLeaderPresenceConstraint) Evaluate(ctx *constraint.Context, a *model.Assignment) []model.Violation {
	var out []model.Violation
	for di, d := range ctx.Instance.Dates {
		dd, ok := ctx.Instance.DemandOn(d)
		if !ok || dd.Night < 1 {
			continue
		}
		found := false
		for ni, n := range ctx.Instance.Nurses {
			if n.LeaderOK && a.Get(ni, di) == model.ShiftNight {
				found = true
				break
			}
		}
		if !found {
			out = append(out, model.Violation{
				Date: d, Shift: model.ShiftNight, Kind: model.KindNightLeaderMissing,
				Message: fmt.Sprintf("%s 夜班无带班护士在岗", d),
			})
		}
	}
	return out
}
