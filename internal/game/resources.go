package game

import "github.com/spacehole-rogue/overlord/internal/world"

// ResourceSystem reads and spends faction stockpiles. A faction's resources
// are the sum of what its planets hold.
type ResourceSystem struct {
	state *GameState
}

// NewResourceSystem creates a resource system over state.
func NewResourceSystem(state *GameState) (*ResourceSystem, error) {
	if state == nil {
		return nil, ErrNilState
	}
	return &ResourceSystem{state: state}, nil
}

// Refresh recomputes faction aggregates from planet stockpiles.
func (r *ResourceSystem) Refresh() { r.state.refreshFactions() }

// FactionResources returns the aggregated stockpile of owner. Neutral and
// unknown owners have none.
func (r *ResourceSystem) FactionResources(owner world.Owner) world.Resources {
	total := world.Resources{}
	for _, p := range r.state.Planets {
		if p.Owner == owner && owner != world.OwnerNeutral {
			total = total.Add(p.Resources)
		}
	}
	return total
}

// CanAfford reports whether owner's planets together cover cost.
func (r *ResourceSystem) CanAfford(owner world.Owner, cost world.Resources) bool {
	return r.FactionResources(owner).Covers(cost)
}

// Spend deducts cost from owner's planets in ascending ID order. It returns
// false, changing nothing, when the faction cannot afford it.
func (r *ResourceSystem) Spend(owner world.Owner, cost world.Resources) bool {
	if !r.CanAfford(owner, cost) {
		return false
	}
	remaining := cost
	for _, p := range r.state.PlanetsOwnedBy(owner) {
		res := &p.Resources
		remaining.Credits -= take(&res.Credits, remaining.Credits)
		remaining.Minerals -= take(&res.Minerals, remaining.Minerals)
		remaining.Fuel -= take(&res.Fuel, remaining.Fuel)
		remaining.Food -= take(&res.Food, remaining.Food)
		remaining.Energy -= take(&res.Energy, remaining.Energy)
		if remaining.IsZero() {
			break
		}
	}
	r.Refresh()
	return true
}

// take removes up to want from *stock and returns the amount removed.
func take(stock *int, want int) int {
	if want <= 0 {
		return 0
	}
	n := min(*stock, want)
	*stock -= n
	return n
}

// AddToPlanet credits res to a planet. Negative components are clamped so no
// stock goes below zero. Returns false if the planet does not exist.
func (r *ResourceSystem) AddToPlanet(planetID int, res world.Resources) bool {
	p := r.state.Planet(planetID)
	if p == nil {
		return false
	}
	p.Resources = clampResources(p.Resources.Add(res))
	return true
}

func clampResources(r world.Resources) world.Resources {
	return world.Resources{
		Credits:  max(r.Credits, 0),
		Minerals: max(r.Minerals, 0),
		Fuel:     max(r.Fuel, 0),
		Food:     max(r.Food, 0),
		Energy:   max(r.Energy, 0),
	}
}
