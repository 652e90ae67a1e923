package game

import (
	"errors"
	"fmt"

	"github.com/spacehole-rogue/overlord/internal/world"
)

var (
	// ErrInvalidPhase is returned when an operation runs in the wrong phase.
	ErrInvalidPhase = errors.New("invalid phase")
	// ErrGameOver is returned by AdvancePhase once a victory was decided.
	ErrGameOver = errors.New("game is over")
)

// VictoryResult is the outcome of a victory check.
type VictoryResult uint8

const (
	VictoryNone VictoryResult = iota
	VictoryPlayer
	VictoryAI
	VictoryResultCount // sentinel
)

var victoryNames = [VictoryResultCount]string{"None", "PlayerVictory", "AIVictory"}

func (v VictoryResult) String() string {
	if v < VictoryResultCount {
		return victoryNames[v]
	}
	return "Unknown"
}

func (v VictoryResult) MarshalText() ([]byte, error) { return []byte(v.String()), nil }

func (v *VictoryResult) UnmarshalText(b []byte) error {
	for i, n := range victoryNames {
		if n == string(b) {
			*v = VictoryResult(i)
			return nil
		}
	}
	return fmt.Errorf("unknown victory result %q", b)
}

// AITurnTaker plays the AI faction's action window.
type AITurnTaker interface {
	ExecuteAITurn() AIAction
}

// VictoryLayer adds scenario-specific checks on top of the base planet count
// check. It is consulted only when the base check finds no winner.
type VictoryLayer interface {
	CheckVictory(gs *GameState) VictoryResult
}

// TurnSystems are the per-turn resolvers driven by the turn system. Nil
// entries are skipped.
type TurnSystems struct {
	Income     *IncomeSystem
	Taxation   *TaxationSystem
	Population *PopulationSystem
	Building   *BuildingSystem
	Combat     *CombatSystem
}

// TurnSystem is the Income, Action, Combat, End state machine.
type TurnSystem struct {
	state   *GameState
	systems TurnSystems
	ai      AITurnTaker
	layer   VictoryLayer
	result  VictoryResult

	phaseChanged Listener[PhaseChange]
	turnStarted  Listener[int]
	turnEnded    Listener[int]
	income       Listener[IncomeReport]
	victory      Listener[VictoryResult]
}

// NewTurnSystem creates a turn system over state.
func NewTurnSystem(state *GameState, systems TurnSystems) (*TurnSystem, error) {
	if state == nil {
		return nil, ErrNilState
	}
	return &TurnSystem{state: state, systems: systems}, nil
}

// OnPhaseChanged registers the listener fired on every phase entered.
func (t *TurnSystem) OnPhaseChanged(fn func(PhaseChange)) { t.phaseChanged.Set(fn) }

// OnTurnStarted registers the listener fired when a turn's Income phase begins.
func (t *TurnSystem) OnTurnStarted(fn func(turn int)) { t.turnStarted.Set(fn) }

// OnTurnEnded registers the listener fired when the End phase rolls over.
func (t *TurnSystem) OnTurnEnded(fn func(turn int)) { t.turnEnded.Set(fn) }

// OnIncomeCalculated registers the listener fired after each income resolution.
func (t *TurnSystem) OnIncomeCalculated(fn func(IncomeReport)) { t.income.Set(fn) }

// OnVictoryAchieved registers the listener fired once when the game is decided.
func (t *TurnSystem) OnVictoryAchieved(fn func(VictoryResult)) { t.victory.Set(fn) }

// SetAI registers the AI played when the Action phase ends.
func (t *TurnSystem) SetAI(ai AITurnTaker) { t.ai = ai }

// SetVictoryLayer registers an additional victory check.
func (t *TurnSystem) SetVictoryLayer(l VictoryLayer) { t.layer = l }

// Result returns the decided outcome, VictoryNone while play continues.
func (t *TurnSystem) Result() VictoryResult { return t.result }

// Restore sets the decided outcome, for sessions resumed from a save.
func (t *TurnSystem) Restore(r VictoryResult) { t.result = r }

// IsGameOver reports whether a victory has been decided.
func (t *TurnSystem) IsGameOver() bool { return t.result != VictoryNone }

// StartNewGame resets to turn 1 and runs the opening Income phase through to
// Action.
func (t *TurnSystem) StartNewGame() { t.StartAt(1) }

// StartAt is StartNewGame beginning at an arbitrary turn.
func (t *TurnSystem) StartAt(turn int) {
	t.state.CurrentTurn = max(1, turn)
	t.result = VictoryNone
	t.enter(PhaseIncome)
	t.turnStarted.Emit(t.state.CurrentTurn)
	t.runIncome()
}

func (t *TurnSystem) enter(p Phase) {
	from := t.state.CurrentPhase
	t.state.CurrentPhase = p
	t.phaseChanged.Emit(PhaseChange{Turn: t.state.CurrentTurn, From: from, To: p})
}

// runIncome resolves the Income phase and passes through to Action.
func (t *TurnSystem) runIncome() {
	// Cannot fail: the caller has just entered Income.
	_, _ = t.ProcessIncomePhase()
	t.enter(PhaseAction)
}

// AdvancePhase moves to the next phase. Leaving Action plays the AI, entering
// Combat resolves battles and entering End checks for victory. Leaving End
// rolls over to the next turn and runs its Income phase through to Action.
func (t *TurnSystem) AdvancePhase() error {
	if t.result != VictoryNone {
		return fmt.Errorf("%w: %s", ErrGameOver, t.result)
	}
	switch t.state.CurrentPhase {
	case PhaseIncome:
		t.runIncome()
	case PhaseAction:
		if t.ai != nil {
			t.ai.ExecuteAITurn()
		}
		t.enter(PhaseCombat)
		if t.systems.Combat != nil {
			t.systems.Combat.ResolveAll()
		}
	case PhaseCombat:
		t.enter(PhaseEnd)
		if r := t.evaluateVictory(); r != VictoryNone {
			t.result = r
			t.victory.Emit(r)
		}
	case PhaseEnd:
		t.turnEnded.Emit(t.state.CurrentTurn)
		t.state.CurrentTurn++
		t.enter(PhaseIncome)
		t.turnStarted.Emit(t.state.CurrentTurn)
		t.runIncome()
	default:
		return fmt.Errorf("%w: %d", ErrInvalidPhase, t.state.CurrentPhase)
	}
	return nil
}

// CompleteTurn advances until the next turn's Action phase or a victory.
func (t *TurnSystem) CompleteTurn() (VictoryResult, error) {
	start := t.state.CurrentTurn
	for {
		if err := t.AdvancePhase(); err != nil {
			return t.result, err
		}
		if t.result != VictoryNone {
			return t.result, nil
		}
		if t.state.CurrentTurn != start && t.state.CurrentPhase == PhaseAction {
			return VictoryNone, nil
		}
	}
}

// ProcessIncomePhase applies planet income, taxes, population and
// construction, and returns the resource delta credited to each faction.
func (t *TurnSystem) ProcessIncomePhase() (IncomeReport, error) {
	if t.state.CurrentPhase != PhaseIncome {
		return IncomeReport{}, fmt.Errorf("%w: income cannot be processed during %s", ErrInvalidPhase, t.state.CurrentPhase)
	}
	report := IncomeReport{Turn: t.state.CurrentTurn}
	if t.systems.Income != nil {
		report.ByOwner = t.systems.Income.ApplyIncome()
	} else {
		report.ByOwner = map[world.Owner]world.Resources{}
	}
	if t.systems.Taxation != nil {
		for owner, credits := range t.systems.Taxation.CollectAll() {
			res := report.ByOwner[owner]
			res.Credits += credits
			report.ByOwner[owner] = res
		}
	}
	if t.systems.Population != nil {
		t.systems.Population.ProcessAll()
	}
	if t.systems.Building != nil {
		t.systems.Building.ProcessConstruction()
	}
	t.state.refreshFactions()
	t.income.Emit(report)
	return report, nil
}

// CheckVictoryConditions is the base check: a faction holding no planets has
// lost.
func (t *TurnSystem) CheckVictoryConditions() VictoryResult {
	switch {
	case t.state.CountPlanets(world.OwnerAI) == 0:
		return VictoryPlayer
	case t.state.CountPlanets(world.OwnerPlayer) == 0:
		return VictoryAI
	}
	return VictoryNone
}

func (t *TurnSystem) evaluateVictory() VictoryResult {
	if r := t.CheckVictoryConditions(); r != VictoryNone {
		return r
	}
	if t.layer != nil {
		return t.layer.CheckVictory(t.state)
	}
	return VictoryNone
}
