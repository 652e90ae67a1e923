package game

import (
	"errors"
	"fmt"

	"github.com/spacehole-rogue/overlord/internal/world"
)

// ErrInvalidConfig is returned when a campaign or scenario cannot start.
var ErrInvalidConfig = errors.New("invalid configuration")

// ValidationResult is the outcome of configuration validation. Error is
// empty on success.
type ValidationResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func invalid(format string, args ...any) ValidationResult {
	return ValidationResult{Error: fmt.Sprintf(format, args...)}
}

// ValidateCampaignConfig checks a campaign setup. A non-positive seed or
// starting turn is rejected.
func ValidateCampaignConfig(cfg world.CampaignConfig) ValidationResult {
	switch {
	case cfg.GalaxySeed <= 0:
		return invalid("galaxy seed must be positive, got %d", cfg.GalaxySeed)
	case cfg.StartingTurn <= 0:
		return invalid("starting turn must be at least 1, got %d", cfg.StartingTurn)
	case !cfg.Difficulty.Valid():
		return invalid("unknown difficulty %d", cfg.Difficulty)
	case cfg.AIPersonality >= world.PersonalityCount:
		return invalid("unknown AI personality %d", cfg.AIPersonality)
	}
	return ValidationResult{Success: true}
}

// NewCampaignState validates cfg and generates its opening state.
func NewCampaignState(cfg world.CampaignConfig) (*GameState, error) {
	if v := ValidateCampaignConfig(cfg); !v.Success {
		return nil, fmt.Errorf("%w: %s", ErrInvalidConfig, v.Error)
	}
	gs := NewGameStateFromGalaxy(GenerateGalaxy(cfg.GalaxySeed, cfg.Difficulty))
	gs.CurrentTurn = cfg.StartingTurn
	return gs, nil
}

// ScenarioInitializer builds game states from scenarios.
type ScenarioInitializer struct {
	content *world.ContentCache
}

// NewScenarioInitializer creates an initializer. content may be nil when only
// Initialize is used.
func NewScenarioInitializer(content *world.ContentCache) *ScenarioInitializer {
	return &ScenarioInitializer{content: content}
}

// InitializeFile loads a scenario through the content cache and initializes it.
func (si *ScenarioInitializer) InitializeFile(path string) (*world.Scenario, *GameState, error) {
	if si.content == nil {
		return nil, nil, fmt.Errorf("%w: no content source for %s", ErrInvalidConfig, path)
	}
	sc, err := si.content.Scenario(path)
	if err != nil {
		return nil, nil, err
	}
	gs, err := si.Initialize(sc)
	if err != nil {
		return nil, nil, err
	}
	return sc, gs, nil
}

// Initialize generates the scenario's galaxy and applies its initial state.
func (si *ScenarioInitializer) Initialize(sc *world.Scenario) (*GameState, error) {
	if sc == nil {
		return nil, fmt.Errorf("%w: nil scenario", ErrInvalidConfig)
	}
	start := sc.InitialState.StartingTurn
	if start == 0 {
		start = 1
	}
	gs, err := NewCampaignState(world.CampaignConfig{
		Difficulty:    sc.Difficulty,
		AIPersonality: sc.AIPersonality,
		GalaxySeed:    sc.Seed,
		StartingTurn:  start,
	})
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", sc.ID, err)
	}

	for _, o := range sc.InitialState.Planets {
		if err := applyPlanetOverride(gs, o); err != nil {
			return nil, fmt.Errorf("scenario %s: %w", sc.ID, err)
		}
	}
	gs.RebuildLookups()

	for i, ps := range sc.InitialState.Platoons {
		p := gs.PlanetByName(ps.Planet)
		if p == nil {
			return nil, fmt.Errorf("scenario %s: platoon %d: %w: %q", sc.ID, i, ErrPlanetNotFound, ps.Planet)
		}
		if ps.Troops <= 0 {
			return nil, fmt.Errorf("scenario %s: platoon %d: %w: %d", sc.ID, i, ErrInvalidTroops, ps.Troops)
		}
		gs.Platoons = append(gs.Platoons, &Platoon{
			ID:       gs.AllocateID(),
			Owner:    ps.Owner,
			PlanetID: p.ID,
			CraftID:  -1,
			Troops:   ps.Troops,
			Training: max(0, min(ps.Training, 100)),
		})
	}

	for i, cs := range sc.InitialState.Craft {
		p := gs.PlanetByName(cs.Planet)
		if p == nil {
			return nil, fmt.Errorf("scenario %s: craft %d: %w: %q", sc.ID, i, ErrPlanetNotFound, cs.Planet)
		}
		if cs.Type >= world.CraftTypeCount {
			return nil, fmt.Errorf("scenario %s: craft %d: %w", sc.ID, i, ErrUnknownCraft)
		}
		tmpl := world.CraftTemplates[cs.Type]
		gs.Craft = append(gs.Craft, &Craft{
			ID:       gs.AllocateID(),
			Owner:    cs.Owner,
			Type:     cs.Type,
			PlanetID: p.ID,
			Fuel:     tmpl.MaxFuel,
			Capacity: tmpl.Capacity,
		})
	}

	gs.RebuildLookups()
	return gs, nil
}

func applyPlanetOverride(gs *GameState, o world.PlanetOverride) error {
	p := gs.PlanetByName(o.Name)
	if p == nil {
		return fmt.Errorf("%w: %q", ErrPlanetNotFound, o.Name)
	}
	if o.Owner != nil {
		p.Owner = *o.Owner
	}
	if o.Type != nil {
		p.Type = *o.Type
	}
	if o.Colonized != nil {
		p.Colonized = *o.Colonized
	}
	if o.Population != nil {
		p.Population = max(0, min(*o.Population, MaxPopulation))
	}
	if o.Morale != nil {
		p.Morale = max(0, min(*o.Morale, MaxMorale))
	}
	if o.TaxRate != nil {
		p.TaxRate = max(0, min(*o.TaxRate, MaxTaxRate))
	}
	if o.Resources != nil {
		p.Resources = clampResources(*o.Resources)
	}
	for _, ss := range o.Structures {
		if ss.Type >= world.StructureTypeCount {
			return fmt.Errorf("%s: %w", p.Name, ErrUnknownStructure)
		}
		if len(p.Structures) >= world.MaxStructuresPerPlanet {
			return fmt.Errorf("%w on %s", ErrNoFreeSlot, p.Name)
		}
		s := Structure{Type: ss.Type, Status: ss.Status, TurnsRemaining: ss.TurnsRemaining}
		switch {
		case s.Status == world.StatusUnderConstruction && s.TurnsRemaining <= 0:
			s.TurnsRemaining = world.StructureTemplates[s.Type].BuildTurns
		case s.Status != world.StatusUnderConstruction:
			s.TurnsRemaining = 0
		}
		p.Structures = append(p.Structures, s)
	}
	return nil
}

// ScenarioTracker layers a scenario's victory conditions onto the turn
// system: when every condition is met the player wins.
type ScenarioTracker struct {
	scenario  *world.Scenario
	startTurn int
	last      AllResult
}

// NewScenarioTracker tracks sc from startTurn.
func NewScenarioTracker(sc *world.Scenario, startTurn int) *ScenarioTracker {
	return &ScenarioTracker{scenario: sc, startTurn: startTurn}
}

// CheckVictory implements VictoryLayer.
func (t *ScenarioTracker) CheckVictory(gs *GameState) VictoryResult {
	t.last = t.Evaluate(gs)
	// A scenario without conditions is won only through the base rules.
	if len(t.last.Results) > 0 && t.last.AllMet {
		return VictoryPlayer
	}
	return VictoryNone
}

// Evaluate scores every condition without changing the tracker.
func (t *ScenarioTracker) Evaluate(gs *GameState) AllResult {
	if t.scenario == nil {
		return AllResult{}
	}
	return EvaluateAll(t.scenario.VictoryConditions, gs, t.startTurn)
}

// Last returns the result of the most recent CheckVictory.
func (t *ScenarioTracker) Last() AllResult { return t.last }

// Scenario returns the tracked scenario.
func (t *ScenarioTracker) Scenario() *world.Scenario { return t.scenario }
