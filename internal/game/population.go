package game

// Morale modifiers applied once per Income phase.
const (
	highTaxThreshold = 75
	lowTaxThreshold  = 25

	highTaxMorale    = -5
	lowTaxMorale     = 2
	starvationMorale = -10
	rationingMorale  = -3
)

// PopulationSystem grows population, feeds it and adjusts morale.
type PopulationSystem struct {
	state     *GameState
	resources *ResourceSystem

	popChanged    Listener[PopulationChange]
	moraleChanged Listener[MoraleChange]
	shortage      Listener[FoodEvent]
	starvation    Listener[FoodEvent]
}

// NewPopulationSystem creates a population system.
func NewPopulationSystem(state *GameState, resources *ResourceSystem) (*PopulationSystem, error) {
	if state == nil || resources == nil {
		return nil, ErrNilState
	}
	return &PopulationSystem{state: state, resources: resources}, nil
}

// OnPopulationChanged registers the listener fired when a planet's population changes.
func (s *PopulationSystem) OnPopulationChanged(fn func(PopulationChange)) { s.popChanged.Set(fn) }

// OnMoraleChanged registers the listener fired when a planet's morale changes.
func (s *PopulationSystem) OnMoraleChanged(fn func(MoraleChange)) { s.moraleChanged.Set(fn) }

// OnFoodShortage registers the listener fired when a planet rations food.
func (s *PopulationSystem) OnFoodShortage(fn func(FoodEvent)) { s.shortage.Set(fn) }

// OnStarvation registers the listener fired when a planet has no food at all.
func (s *PopulationSystem) OnStarvation(fn func(FoodEvent)) { s.starvation.Set(fn) }

// EstimateGrowth returns floor(population * morale/100 * 0.05), ignoring food.
func (s *PopulationSystem) EstimateGrowth(p *Planet) int {
	if p == nil || p.Population <= 0 || p.Morale <= 0 {
		return 0
	}
	return p.Population * p.Morale * 5 / 10000
}

// FoodRequired is the food a planet eats per turn: half its population.
func (s *PopulationSystem) FoodRequired(p *Planet) int {
	if p == nil {
		return 0
	}
	return p.Population / 2
}

// ProcessPlanet runs one turn of growth, consumption and morale for a planet.
// Growth is applied first and consumption is computed from the grown
// population. Returns false if the planet is missing, uncolonized or empty.
func (s *PopulationSystem) ProcessPlanet(planetID int) bool {
	p := s.state.Planet(planetID)
	if p == nil || !p.Colonized || p.Population <= 0 {
		return false
	}

	oldPop, oldMorale := p.Population, p.Morale
	available := p.Resources.Food

	if available >= s.FoodRequired(p) {
		p.Population = min(p.Population+s.EstimateGrowth(p), MaxPopulation)
	}

	delta := 0
	switch {
	case p.TaxRate > highTaxThreshold:
		delta += highTaxMorale
	case p.TaxRate < lowTaxThreshold:
		delta += lowTaxMorale
	}

	required := s.FoodRequired(p)
	switch {
	case available >= required:
		p.Resources.Food -= required
	case available == 0:
		delta += starvationMorale
		s.starvation.Emit(FoodEvent{PlanetID: p.ID, Required: required, Available: available})
	default:
		p.Resources.Food = 0
		delta += rationingMorale
		s.shortage.Emit(FoodEvent{PlanetID: p.ID, Required: required, Available: available})
	}

	p.Morale = max(0, min(p.Morale+delta, MaxMorale))

	if p.Population != oldPop {
		s.popChanged.Emit(PopulationChange{PlanetID: p.ID, Old: oldPop, New: p.Population})
	}
	if p.Morale != oldMorale {
		s.moraleChanged.Emit(MoraleChange{PlanetID: p.ID, Old: oldMorale, New: p.Morale})
	}
	return true
}

// ProcessAll processes every planet in list order and returns how many were
// eligible.
func (s *PopulationSystem) ProcessAll() int {
	n := 0
	for _, p := range s.state.Planets {
		if s.ProcessPlanet(p.ID) {
			n++
		}
	}
	s.resources.Refresh()
	return n
}

// GetPopulation returns a planet's population, or 0 if it does not exist.
func (s *PopulationSystem) GetPopulation(planetID int) int {
	if p := s.state.Planet(planetID); p != nil {
		return p.Population
	}
	return 0
}
