package game

import "github.com/spacehole-rogue/overlord/internal/world"

// ConditionResult is the evaluation of one victory condition. Progress is in
// [0,1] and is exactly 1 when Met.
type ConditionResult struct {
	Condition world.VictoryCondition
	Met       bool
	Progress  float64
}

// AllResult aggregates a set of conditions.
type AllResult struct {
	Results []ConditionResult
	AllMet  bool
}

// EvaluateCondition scores cond against the state from the player's point of
// view. startTurn anchors survive_turns. Unknown condition types are never
// met.
func EvaluateCondition(cond world.VictoryCondition, gs *GameState, startTurn int) ConditionResult {
	res := ConditionResult{Condition: cond}
	if gs == nil {
		return res
	}
	switch cond.Type {
	case world.ConditionDefeatEnemy:
		ai := gs.CountPlanets(world.OwnerAI)
		if ai == 0 {
			res.Met = true
			break
		}
		player := gs.CountPlanets(world.OwnerPlayer)
		res.Progress = float64(player) / float64(player+ai)

	case world.ConditionBuildStructure:
		var t world.StructureType
		if err := t.UnmarshalText([]byte(cond.Target)); err != nil {
			return res
		}
		need := max(1, cond.Count)
		active, building := 0, 0
		for _, p := range gs.PlanetsOwnedBy(world.OwnerPlayer) {
			for _, s := range p.Structures {
				if s.Type != t {
					continue
				}
				switch s.Status {
				case world.StatusActive:
					active++
				case world.StatusUnderConstruction:
					building++
				}
			}
		}
		if active >= need {
			res.Met = true
			break
		}
		partial := float64(min(building, need-active)) * 0.5
		res.Progress = (float64(active) + partial) / float64(need)

	case world.ConditionCapturePlanet:
		if cond.Target != "" {
			if p := gs.PlanetByName(cond.Target); p != nil && p.Owner == world.OwnerPlayer {
				res.Met = true
			}
			break
		}
		need := max(1, cond.Count)
		owned := gs.CountPlanets(world.OwnerPlayer)
		res.Met = owned >= need
		res.Progress = float64(owned) / float64(need)

	case world.ConditionSurviveTurns:
		if cond.Turns <= 0 {
			res.Met = true
			break
		}
		elapsed := gs.CurrentTurn - startTurn
		res.Met = elapsed >= cond.Turns
		res.Progress = max(0, float64(elapsed)/float64(cond.Turns))
	}

	if res.Met || res.Progress > 1 {
		res.Progress = 1
	}
	return res
}

// EvaluateAll evaluates conds in order. AllMet is true when every condition
// is met, so an empty list is trivially met.
func EvaluateAll(conds []world.VictoryCondition, gs *GameState, startTurn int) AllResult {
	out := AllResult{Results: make([]ConditionResult, 0, len(conds)), AllMet: true}
	for _, c := range conds {
		r := EvaluateCondition(c, gs, startTurn)
		out.Results = append(out.Results, r)
		out.AllMet = out.AllMet && r.Met
	}
	return out
}
