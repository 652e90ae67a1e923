package game

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spacehole-rogue/overlord/internal/world"
)

// ErrInvalidTroops indicates a troop count outside the platoon bounds or
// beyond what the planet's population can supply.
var ErrInvalidTroops = errors.New("invalid troop count")

// trainingCostPerTroop is credits per troop per training point, in tenths.
const trainingCostPerTroop = 1

// PlatoonSystem raises, trains and disbands ground troops.
type PlatoonSystem struct {
	state     *GameState
	resources *ResourceSystem

	commissioned Listener[*Platoon]
}

// NewPlatoonSystem creates a platoon system.
func NewPlatoonSystem(state *GameState, resources *ResourceSystem) (*PlatoonSystem, error) {
	if state == nil || resources == nil {
		return nil, ErrNilState
	}
	return &PlatoonSystem{state: state, resources: resources}, nil
}

// OnCommissioned registers the listener fired for each new platoon.
func (s *PlatoonSystem) OnCommissioned(fn func(*Platoon)) { s.commissioned.Set(fn) }

// Commission raises a platoon on an owned, colonized planet. Troops come out
// of the population and cost PlatoonCostPerTroop credits each.
func (s *PlatoonSystem) Commission(owner world.Owner, planetID, troops int) (*Platoon, error) {
	p := s.state.Planet(planetID)
	switch {
	case p == nil:
		return nil, fmt.Errorf("%w: %d", ErrPlanetNotFound, planetID)
	case p.Owner != owner || owner == world.OwnerNeutral:
		return nil, fmt.Errorf("%w: %s", ErrNotOwner, p.Name)
	case !p.Colonized:
		return nil, fmt.Errorf("%w: %s", ErrNotColonized, p.Name)
	case troops < world.MinPlatoonTroops || troops > world.MaxPlatoonTroops:
		return nil, fmt.Errorf("%w: %d not in [%d,%d]", ErrInvalidTroops, troops, world.MinPlatoonTroops, world.MaxPlatoonTroops)
	case troops >= p.Population:
		return nil, fmt.Errorf("%w: %s has population %d", ErrInvalidTroops, p.Name, p.Population)
	}
	if !s.resources.Spend(owner, world.Resources{Credits: troops * world.PlatoonCostPerTroop}) {
		return nil, ErrInsufficientResources
	}
	p.Population -= troops
	pl := &Platoon{
		ID:       s.state.AllocateID(),
		Owner:    owner,
		PlanetID: planetID,
		CraftID:  -1,
		Troops:   troops,
	}
	s.state.Platoons = append(s.state.Platoons, pl)
	s.state.RebuildLookups()
	s.commissioned.Emit(pl)
	return pl, nil
}

// Disband removes a platoon. Troops on a planet their faction owns rejoin its
// population. Returns false for an unknown platoon.
func (s *PlatoonSystem) Disband(platoonID int) bool {
	pl := s.state.Platoon(platoonID)
	if pl == nil {
		return false
	}
	if p := s.state.Planet(pl.PlanetID); p != nil && p.Owner == pl.Owner && !pl.Embarked() {
		p.Population = min(p.Population+pl.Troops, MaxPopulation)
	}
	s.state.RemovePlatoons(platoonID)
	return true
}

// Train raises a platoon's training by amount (capped at 100), paying one
// tenth of a credit per troop per point. Returns false if the platoon is
// unknown, already fully trained, or the faction cannot pay.
func (s *PlatoonSystem) Train(platoonID, amount int) bool {
	pl := s.state.Platoon(platoonID)
	if pl == nil || amount <= 0 || pl.Training >= 100 {
		return false
	}
	amount = min(amount, 100-pl.Training)
	cost := max(1, pl.Troops*amount*trainingCostPerTroop/10)
	if !s.resources.Spend(pl.Owner, world.Resources{Credits: cost}) {
		return false
	}
	pl.Training += amount
	return true
}

// PlatoonsAt returns the platoons at a planet, embarked or not.
func (s *PlatoonSystem) PlatoonsAt(planetID int) []*Platoon { return s.state.PlatoonsAt(planetID) }

// PlatoonsOf returns owner's platoons in ascending ID order.
func (s *PlatoonSystem) PlatoonsOf(owner world.Owner) []*Platoon {
	var out []*Platoon
	for _, pl := range s.state.Platoons {
		if pl.Owner == owner {
			out = append(out, pl)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Strength sums the strength of owner's platoons at a planet. Embarked
// platoons count only when embarked is true.
func (s *PlatoonSystem) Strength(owner world.Owner, planetID int, embarked bool) int {
	total := 0
	for _, pl := range s.state.PlatoonsAt(planetID) {
		if pl.Owner == owner && (embarked || !pl.Embarked()) {
			total += pl.Strength()
		}
	}
	return total
}
