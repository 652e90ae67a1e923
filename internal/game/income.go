package game

import "github.com/spacehole-rogue/overlord/internal/world"

// IncomeReport is the resource delta applied by one income resolution.
type IncomeReport struct {
	Turn    int
	ByOwner map[world.Owner]world.Resources
}

// Total returns the summed delta across factions.
func (r IncomeReport) Total() world.Resources {
	var t world.Resources
	for _, res := range r.ByOwner {
		t = t.Add(res)
	}
	return t
}

// IncomeSystem produces per-planet resources from planet type and structures.
type IncomeSystem struct {
	state     *GameState
	resources *ResourceSystem
}

// NewIncomeSystem creates an income system.
func NewIncomeSystem(state *GameState, resources *ResourceSystem) (*IncomeSystem, error) {
	if state == nil || resources == nil {
		return nil, ErrNilState
	}
	return &IncomeSystem{state: state, resources: resources}, nil
}

// CalculatePlanetIncome returns the yield of a colonized, faction-owned planet:
// type base yield plus food farmed by the population plus every active
// structure bonus plus the output of the owner's craft in orbit (solar
// satellites).
func (s *IncomeSystem) CalculatePlanetIncome(p *Planet) world.Resources {
	if p == nil || !p.Colonized || p.Owner == world.OwnerNeutral {
		return world.Resources{}
	}
	income := world.PlanetTemplates[p.Type].Yield
	income.Food += world.FarmedFood(p.Type, p.Population)
	for _, st := range p.Structures {
		if st.Status == world.StatusActive {
			income = income.Add(world.StructureTemplates[st.Type].Bonus)
		}
	}
	for _, c := range s.state.CraftAt(p.ID) {
		if c.Owner == p.Owner {
			income = income.Add(world.CraftTemplates[c.Type].Yield)
		}
	}
	return income
}

// ApplyIncome credits every eligible planet and returns the per-faction delta.
func (s *IncomeSystem) ApplyIncome() map[world.Owner]world.Resources {
	out := map[world.Owner]world.Resources{
		world.OwnerPlayer: {},
		world.OwnerAI:     {},
	}
	for _, p := range s.state.Planets {
		income := s.CalculatePlanetIncome(p)
		if income.IsZero() {
			continue
		}
		before := p.Resources
		s.resources.AddToPlanet(p.ID, income)
		out[p.Owner] = out[p.Owner].Add(p.Resources.Sub(before))
	}
	s.resources.Refresh()
	return out
}
