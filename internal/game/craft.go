package game

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/spacehole-rogue/overlord/internal/world"
)

var (
	// ErrPlatoonNotFound indicates an unknown platoon ID.
	ErrPlatoonNotFound = errors.New("platoon not found")
	// ErrCraftNotFound indicates an unknown craft ID.
	ErrCraftNotFound = errors.New("craft not found")
	// ErrUnknownCraft indicates a CraftType outside the catalog.
	ErrUnknownCraft = errors.New("unknown craft type")
	// ErrCraftFull indicates the craft already carries its capacity.
	ErrCraftFull = errors.New("craft is full")
	// ErrNotCoLocated indicates a platoon boarding a craft at another planet.
	ErrNotCoLocated = errors.New("platoon and craft are at different planets")
	// ErrAlreadyEmbarked indicates the platoon is already aboard a craft.
	ErrAlreadyEmbarked = errors.New("platoon is already embarked")
	// ErrNotEmbarked indicates a platoon that is not aboard any craft.
	ErrNotEmbarked = errors.New("platoon is not embarked")
	// ErrInsufficientFuel indicates a trip longer than the craft's fuel allows.
	ErrInsufficientFuel = errors.New("insufficient fuel")
	// ErrCannotTerraform indicates a craft or planet that cannot be terraformed.
	ErrCannotTerraform = errors.New("cannot terraform")
)

// Terraformed planets start with this population.
const terraformPopulation = 100

// FuelCost returns the fuel needed to travel distance: one unit per ten
// distance units, rounded up.
func FuelCost(distance float64) int { return int(math.Ceil(distance / 10)) }

// CraftSystem buys, moves and scraps spacecraft.
type CraftSystem struct {
	state     *GameState
	resources *ResourceSystem

	purchased   Listener[*Craft]
	terraformed Listener[*Planet]
}

// NewCraftSystem creates a craft system.
func NewCraftSystem(state *GameState, resources *ResourceSystem) (*CraftSystem, error) {
	if state == nil || resources == nil {
		return nil, ErrNilState
	}
	return &CraftSystem{state: state, resources: resources}, nil
}

// OnPurchased registers the listener fired for each new craft.
func (s *CraftSystem) OnPurchased(fn func(*Craft)) { s.purchased.Set(fn) }

// OnTerraformed registers the listener fired when a planet is colonized by an
// atmosphere processor.
func (s *CraftSystem) OnTerraformed(fn func(*Planet)) { s.terraformed.Set(fn) }

// Purchase buys a craft at an owned, colonized planet. It launches fully
// fuelled.
func (s *CraftSystem) Purchase(owner world.Owner, t world.CraftType, planetID int) (*Craft, error) {
	if t >= world.CraftTypeCount {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCraft, t)
	}
	p := s.state.Planet(planetID)
	switch {
	case p == nil:
		return nil, fmt.Errorf("%w: %d", ErrPlanetNotFound, planetID)
	case p.Owner != owner || owner == world.OwnerNeutral:
		return nil, fmt.Errorf("%w: %s", ErrNotOwner, p.Name)
	case !p.Colonized:
		return nil, fmt.Errorf("%w: %s", ErrNotColonized, p.Name)
	}
	tmpl := world.CraftTemplates[t]
	if !s.resources.Spend(owner, tmpl.Cost) {
		return nil, fmt.Errorf("%w: %s costs %+v", ErrInsufficientResources, t, tmpl.Cost)
	}
	c := &Craft{
		ID:       s.state.AllocateID(),
		Owner:    owner,
		Type:     t,
		PlanetID: planetID,
		Fuel:     tmpl.MaxFuel,
		Capacity: tmpl.Capacity,
	}
	s.state.Craft = append(s.state.Craft, c)
	s.state.RebuildLookups()
	s.purchased.Emit(c)
	return c, nil
}

// Embark loads a platoon onto a craft at the same planet.
func (s *CraftSystem) Embark(platoonID, craftID int) error {
	pl := s.state.Platoon(platoonID)
	if pl == nil {
		return fmt.Errorf("%w: %d", ErrPlatoonNotFound, platoonID)
	}
	c := s.state.CraftByID(craftID)
	if c == nil {
		return fmt.Errorf("%w: %d", ErrCraftNotFound, craftID)
	}
	switch {
	case pl.Owner != c.Owner:
		return ErrNotOwner
	case pl.Embarked():
		return fmt.Errorf("%w: platoon %d on craft %d", ErrAlreadyEmbarked, pl.ID, pl.CraftID)
	case pl.PlanetID != c.PlanetID:
		return ErrNotCoLocated
	case len(s.state.Passengers(craftID)) >= c.Capacity:
		return fmt.Errorf("%w: %s holds %d", ErrCraftFull, c.Type, c.Capacity)
	}
	pl.CraftID = craftID
	return nil
}

// Disembark lands a platoon at the planet its craft is at.
func (s *CraftSystem) Disembark(platoonID int) error {
	pl := s.state.Platoon(platoonID)
	if pl == nil {
		return fmt.Errorf("%w: %d", ErrPlatoonNotFound, platoonID)
	}
	if !pl.Embarked() {
		return ErrNotEmbarked
	}
	pl.CraftID = -1
	return nil
}

// Move flies a craft and its passengers to another planet, burning
// FuelCost(distance). An atmosphere processor arriving at an uncolonized
// neutral planet terraforms it.
func (s *CraftSystem) Move(craftID, destID int) error {
	c := s.state.CraftByID(craftID)
	if c == nil {
		return fmt.Errorf("%w: %d", ErrCraftNotFound, craftID)
	}
	dest := s.state.Planet(destID)
	if dest == nil {
		return fmt.Errorf("%w: %d", ErrPlanetNotFound, destID)
	}
	if c.PlanetID == destID {
		return nil
	}
	from := s.state.Planet(c.PlanetID)
	cost := 0
	if from != nil {
		cost = FuelCost(from.Position.DistanceTo(dest.Position))
	}
	if c.Fuel < cost {
		return fmt.Errorf("%w: need %d, have %d", ErrInsufficientFuel, cost, c.Fuel)
	}
	c.Fuel -= cost
	c.PlanetID = destID
	for _, pl := range s.state.Passengers(craftID) {
		pl.PlanetID = destID
	}
	s.state.RebuildLookups()

	if c.Type == world.CraftAtmosphereProcessor && dest.Owner == world.OwnerNeutral && !dest.Colonized {
		return s.Terraform(craftID)
	}
	return nil
}

// Terraform consumes an atmosphere processor to colonize the uncolonized
// neutral planet it orbits for its owner.
func (s *CraftSystem) Terraform(craftID int) error {
	c := s.state.CraftByID(craftID)
	if c == nil {
		return fmt.Errorf("%w: %d", ErrCraftNotFound, craftID)
	}
	p := s.state.Planet(c.PlanetID)
	switch {
	case c.Type != world.CraftAtmosphereProcessor:
		return fmt.Errorf("%w: %s is not an atmosphere processor", ErrCannotTerraform, c.Type)
	case p == nil:
		return fmt.Errorf("%w: %d", ErrPlanetNotFound, c.PlanetID)
	case p.Owner != world.OwnerNeutral || p.Colonized:
		return fmt.Errorf("%w: %s is already settled", ErrCannotTerraform, p.Name)
	}
	p.Owner = c.Owner
	p.Colonized = true
	p.Population = terraformPopulation
	p.Morale = neutralMorale
	p.TaxRate = neutralTaxRate
	s.state.RemoveCraft(craftID)
	s.terraformed.Emit(p)
	return nil
}

// Refuel tops a craft up from the fuel stock of the owned planet it orbits.
// Returns the fuel transferred.
func (s *CraftSystem) Refuel(craftID int) int {
	c := s.state.CraftByID(craftID)
	if c == nil {
		return 0
	}
	p := s.state.Planet(c.PlanetID)
	if p == nil || p.Owner != c.Owner {
		return 0
	}
	n := min(world.CraftTemplates[c.Type].MaxFuel-c.Fuel, p.Resources.Fuel)
	if n <= 0 {
		return 0
	}
	p.Resources.Fuel -= n
	c.Fuel += n
	s.resources.Refresh()
	return n
}

// Scrap destroys a craft, landing its passengers and refunding half its
// credit cost to the planet when the owner holds it. Returns false for an
// unknown craft.
func (s *CraftSystem) Scrap(craftID int) bool {
	c := s.state.CraftByID(craftID)
	if c == nil {
		return false
	}
	if p := s.state.Planet(c.PlanetID); p != nil && p.Owner == c.Owner {
		p.Resources.Credits += world.CraftTemplates[c.Type].Cost.Credits / 2
	}
	return s.state.RemoveCraft(craftID)
}

// CraftAt returns the craft at a planet.
func (s *CraftSystem) CraftAt(planetID int) []*Craft { return s.state.CraftAt(planetID) }

// CraftOf returns owner's craft in ascending ID order.
func (s *CraftSystem) CraftOf(owner world.Owner) []*Craft {
	var out []*Craft
	for _, c := range s.state.Craft {
		if c.Owner == owner {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
