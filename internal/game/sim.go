package game

import (
	"fmt"
	"log/slog"

	"github.com/spacehole-rogue/overlord/internal/world"
)

// Options configure a Sim.
type Options struct {
	Personality world.Personality
	Decide      func() float64 // AI randomness; nil is deterministic
	Logger      *slog.Logger
	Scenario    *world.Scenario // adds victory conditions and its tutorial
	Tutorial    []world.TutorialStep
	LogSize     int
}

// Sim is the game session. It owns the state, every system acting on it and
// the comms log the notifications are written to.
type Sim struct {
	State *GameState
	Log   *MessageLog

	Resources  *ResourceSystem
	Income     *IncomeSystem
	Taxation   *TaxationSystem
	Population *PopulationSystem
	Building   *BuildingSystem
	Platoons   *PlatoonSystem
	Craft      *CraftSystem
	Combat     *CombatSystem
	AI         *AIDecisionSystem
	Turns      *TurnSystem
	Tutorial   *TutorialManager
	Tracker    *ScenarioTracker

	logger *slog.Logger

	phaseChanged Listener[PhaseChange]
	turnStarted  Listener[int]
	victory      Listener[VictoryResult]
}

// NewSim wires a session around state.
func NewSim(state *GameState, opts Options) (*Sim, error) {
	if state == nil {
		return nil, ErrNilState
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.LogSize <= 0 {
		opts.LogSize = 100
	}
	s := &Sim{State: state, Log: NewMessageLog(opts.LogSize), logger: logger}

	var err error
	if s.Resources, err = NewResourceSystem(state); err != nil {
		return nil, err
	}
	if s.Income, err = NewIncomeSystem(state, s.Resources); err != nil {
		return nil, err
	}
	if s.Taxation, err = NewTaxationSystem(state, s.Resources); err != nil {
		return nil, err
	}
	if s.Population, err = NewPopulationSystem(state, s.Resources); err != nil {
		return nil, err
	}
	if s.Building, err = NewBuildingSystem(state, s.Resources); err != nil {
		return nil, err
	}
	if s.Platoons, err = NewPlatoonSystem(state, s.Resources); err != nil {
		return nil, err
	}
	if s.Craft, err = NewCraftSystem(state, s.Resources); err != nil {
		return nil, err
	}
	if s.Combat, err = NewCombatSystem(state, logger.With("system", "combat")); err != nil {
		return nil, err
	}
	s.AI, err = NewAIDecisionSystem(state, AIDeps{
		Resources: s.Resources,
		Taxation:  s.Taxation,
		Building:  s.Building,
		Platoons:  s.Platoons,
		Craft:     s.Craft,
	}, AIOptions{
		Personality: opts.Personality,
		Difficulty:  state.Difficulty,
		Decide:      opts.Decide,
		Logger:      logger.With("system", "ai"),
	})
	if err != nil {
		return nil, err
	}
	s.Turns, err = NewTurnSystem(state, TurnSystems{
		Income:     s.Income,
		Taxation:   s.Taxation,
		Population: s.Population,
		Building:   s.Building,
		Combat:     s.Combat,
	})
	if err != nil {
		return nil, err
	}
	s.Turns.SetAI(s.AI)

	s.Tutorial = NewTutorialManager(NewTutorialDetector())
	steps := opts.Tutorial
	if opts.Scenario != nil {
		s.Tracker = NewScenarioTracker(opts.Scenario, state.CurrentTurn)
		s.Turns.SetVictoryLayer(s.Tracker)
		if len(steps) == 0 {
			steps = opts.Scenario.Tutorial
		}
	}

	s.wire()
	if len(steps) > 0 {
		s.Tutorial.Start(steps)
	}
	return s, nil
}

// OnPhaseChanged registers an outside listener for phase changes.
func (s *Sim) OnPhaseChanged(fn func(PhaseChange)) { s.phaseChanged.Set(fn) }

// OnTurnStarted registers an outside listener for new turns.
func (s *Sim) OnTurnStarted(fn func(int)) { s.turnStarted.Set(fn) }

// OnVictory registers an outside listener for the end of the game.
func (s *Sim) OnVictory(fn func(VictoryResult)) { s.victory.Set(fn) }

func (s *Sim) planetName(id int) string {
	if p := s.State.Planet(id); p != nil {
		return p.Name
	}
	return fmt.Sprintf("planet %d", id)
}

func (s *Sim) isPlayerPlanet(id int) bool {
	p := s.State.Planet(id)
	return p != nil && p.Owner == world.OwnerPlayer
}

func (s *Sim) wire() {
	detector := s.Tutorial.Detector()

	s.Turns.OnPhaseChanged(func(c PhaseChange) {
		s.logger.Debug("phase changed", "turn", c.Turn, "from", c.From, "to", c.To)
		s.phaseChanged.Emit(c)
	})
	s.Turns.OnTurnStarted(func(turn int) {
		s.Log.SetTurn(turn)
		s.Log.Addf(MsgInfo, "Turn %d begins.", turn)
		s.logger.Info("turn started", "turn", turn)
		s.turnStarted.Emit(turn)
	})
	s.Turns.OnTurnEnded(func(turn int) {
		s.logger.Info("turn ended", "turn", turn)
	})
	s.Turns.OnIncomeCalculated(func(r IncomeReport) {
		inc := r.ByOwner[world.OwnerPlayer]
		s.Log.Addf(MsgEconomy, "Income: %s credits, %s food, %s minerals.",
			FormatNumber(inc.Credits), FormatNumber(inc.Food), FormatNumber(inc.Minerals))
	})
	s.Turns.OnVictoryAchieved(func(r VictoryResult) {
		prio := MsgInfo
		if r == VictoryAI {
			prio = MsgCritical
		}
		s.Log.Addf(prio, "Game over: %s on turn %d.", r, s.State.CurrentTurn)
		s.logger.Info("victory", "result", r, "turn", s.State.CurrentTurn)
		s.victory.Emit(r)
	})

	s.Taxation.OnTaxRateChanged(func(c TaxRateChange) {
		if s.isPlayerPlanet(c.PlanetID) {
			detector.RecordAction(world.TriggerTaxRateChanged, s.planetName(c.PlanetID))
			s.Log.Addf(MsgEconomy, "%s tax rate set to %d%%.", s.planetName(c.PlanetID), c.New)
		}
	})
	s.Taxation.OnTaxRevenueCalculated(func(r TaxRevenue) {
		s.logger.Debug("tax collected", "planet", r.PlanetID, "owner", r.Owner, "credits", r.Amount)
	})

	s.Population.OnPopulationChanged(func(c PopulationChange) {
		s.logger.Debug("population changed", "planet", c.PlanetID, "old", c.Old, "new", c.New)
	})
	s.Population.OnMoraleChanged(func(c MoraleChange) {
		s.logger.Debug("morale changed", "planet", c.PlanetID, "old", c.Old, "new", c.New)
	})
	s.Population.OnFoodShortage(func(e FoodEvent) {
		if s.isPlayerPlanet(e.PlanetID) {
			s.Log.Addf(MsgWarning, "Food rationing on %s: %d of %d.", s.planetName(e.PlanetID), e.Available, e.Required)
		}
	})
	s.Population.OnStarvation(func(e FoodEvent) {
		if s.isPlayerPlanet(e.PlanetID) {
			s.Log.Addf(MsgCritical, "STARVATION on %s.", s.planetName(e.PlanetID))
		}
	})

	s.Building.OnConstructionCompleted(func(c ConstructionCompleted) {
		if s.isPlayerPlanet(c.PlanetID) {
			s.Log.Addf(MsgEconomy, "%s completed on %s.", c.Type, s.planetName(c.PlanetID))
		}
	})
	s.Platoons.OnCommissioned(func(pl *Platoon) {
		if pl.Owner == world.OwnerPlayer {
			detector.RecordAction(world.TriggerPlatoonCommissioned, s.planetName(pl.PlanetID))
			s.Log.Addf(MsgMilitary, "Platoon of %d commissioned on %s.", pl.Troops, s.planetName(pl.PlanetID))
		}
	})
	s.Craft.OnPurchased(func(c *Craft) {
		if c.Owner == world.OwnerPlayer {
			detector.RecordAction(world.TriggerCraftPurchased, c.Type.String())
			s.Log.Addf(MsgMilitary, "%s purchased at %s.", c.Type, s.planetName(c.PlanetID))
		}
	})
	s.Craft.OnTerraformed(func(p *Planet) {
		s.Log.Addf(MsgEconomy, "%s terraformed by %s.", p.Name, p.Owner)
	})

	s.Combat.OnBattleResolved(func(r BattleReport) {
		if r.Attacker == world.OwnerPlayer || r.Defender == world.OwnerPlayer {
			s.Log.Addf(MsgMilitary, "Battle at %s: %d rounds, %d population lost.",
				s.planetName(r.PlanetID), r.Rounds, r.PopulationKilled)
		}
	})
	s.Combat.OnPlanetCaptured(func(c PlanetCaptured) {
		prio := MsgMilitary
		if c.From == world.OwnerPlayer {
			prio = MsgCritical
		}
		s.Log.Addf(prio, "%s captured by %s.", s.planetName(c.PlanetID), c.To)
	})

	s.Tutorial.OnStepChanged(func(c TutorialStepChange) {
		s.Log.Addf(MsgInfo, "Tutorial %d/%d: %s", c.Index+1, c.Total, c.Step.Title)
	})
	s.Tutorial.OnCompleted(func(n int) {
		s.Log.Addf(MsgInfo, "Tutorial finished after %d steps.", n)
	})
}

// Start begins play at the state's current turn and runs its Income phase.
func (s *Sim) Start() {
	s.Turns.StartAt(s.State.CurrentTurn)
	s.Tutorial.Update(s.State)
}

// Advance moves one phase forward.
func (s *Sim) Advance() error {
	if err := s.Turns.AdvancePhase(); err != nil {
		return err
	}
	s.Tutorial.Update(s.State)
	return nil
}

// EndTurn advances to the next turn's Action phase or to a victory.
func (s *Sim) EndTurn() (VictoryResult, error) {
	r, err := s.Turns.CompleteTurn()
	if err != nil {
		return r, err
	}
	s.Tutorial.Update(s.State)
	return r, nil
}

// Statistics returns a snapshot of the session.
func (s *Sim) Statistics() Statistics { return CalculateStatistics(s.State) }
