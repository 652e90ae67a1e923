package game

import (
	"errors"
	"fmt"

	"github.com/spacehole-rogue/overlord/internal/world"
)

var (
	// ErrNoFreeSlot indicates the planet already holds MaxStructuresPerPlanet.
	ErrNoFreeSlot = errors.New("no free structure slot")
	// ErrUnknownStructure indicates a StructureType outside the catalog.
	ErrUnknownStructure = errors.New("unknown structure type")
	// ErrNothingToRepair indicates the planet has no damaged structure.
	ErrNothingToRepair = errors.New("no damaged structure")
)

// BuildingSystem places structures and advances their construction.
type BuildingSystem struct {
	state     *GameState
	resources *ResourceSystem

	completed Listener[ConstructionCompleted]
}

// NewBuildingSystem creates a building system.
func NewBuildingSystem(state *GameState, resources *ResourceSystem) (*BuildingSystem, error) {
	if state == nil || resources == nil {
		return nil, ErrNilState
	}
	return &BuildingSystem{state: state, resources: resources}, nil
}

// OnConstructionCompleted registers the completion listener.
func (b *BuildingSystem) OnConstructionCompleted(fn func(ConstructionCompleted)) { b.completed.Set(fn) }

func (b *BuildingSystem) check(planetID int, t world.StructureType) (*Planet, error) {
	if t >= world.StructureTypeCount {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStructure, t)
	}
	p := b.state.Planet(planetID)
	switch {
	case p == nil:
		return nil, fmt.Errorf("%w: %d", ErrPlanetNotFound, planetID)
	case p.Owner == world.OwnerNeutral:
		return nil, fmt.Errorf("%w: %s is neutral", ErrNotOwner, p.Name)
	case !p.Colonized:
		return nil, fmt.Errorf("%w: %s", ErrNotColonized, p.Name)
	case len(p.Structures) >= world.MaxStructuresPerPlanet:
		return nil, fmt.Errorf("%w on %s", ErrNoFreeSlot, p.Name)
	}
	if !b.resources.CanAfford(p.Owner, world.StructureTemplates[t].Cost) {
		return nil, fmt.Errorf("%w: %s costs %+v", ErrInsufficientResources, t, world.StructureTemplates[t].Cost)
	}
	return p, nil
}

// CanBuild reports whether StartConstruction would succeed.
func (b *BuildingSystem) CanBuild(planetID int, t world.StructureType) bool {
	_, err := b.check(planetID, t)
	return err == nil
}

// StartConstruction pays for a structure with the owner's resources and
// queues it on the planet.
func (b *BuildingSystem) StartConstruction(planetID int, t world.StructureType) error {
	p, err := b.check(planetID, t)
	if err != nil {
		return err
	}
	tmpl := world.StructureTemplates[t]
	if !b.resources.Spend(p.Owner, tmpl.Cost) {
		return ErrInsufficientResources
	}
	p.Structures = append(p.Structures, Structure{
		Type:           t,
		Status:         world.StatusUnderConstruction,
		TurnsRemaining: tmpl.BuildTurns,
	})
	return nil
}

// RepairCost is half the build cost of t, rounded down.
func RepairCost(t world.StructureType) world.Resources {
	c := world.StructureTemplates[t].Cost
	return world.Resources{Credits: c.Credits / 2, Minerals: c.Minerals / 2, Fuel: c.Fuel / 2, Food: c.Food / 2, Energy: c.Energy / 2}
}

// Repair pays RepairCost for the first damaged structure on a planet and
// puts it back under construction for half its build time, at least one
// turn. It completes through ProcessConstruction like a new structure.
func (b *BuildingSystem) Repair(planetID int) (world.StructureType, error) {
	p := b.state.Planet(planetID)
	switch {
	case p == nil:
		return 0, fmt.Errorf("%w: %d", ErrPlanetNotFound, planetID)
	case p.Owner == world.OwnerNeutral:
		return 0, fmt.Errorf("%w: %s is neutral", ErrNotOwner, p.Name)
	}
	for i := range p.Structures {
		s := &p.Structures[i]
		if s.Status != world.StatusDamaged {
			continue
		}
		if !b.resources.Spend(p.Owner, RepairCost(s.Type)) {
			return 0, fmt.Errorf("%w: repairing %s costs %+v", ErrInsufficientResources, s.Type, RepairCost(s.Type))
		}
		s.Status = world.StatusUnderConstruction
		s.TurnsRemaining = max(1, world.StructureTemplates[s.Type].BuildTurns/2)
		return s.Type, nil
	}
	return 0, fmt.Errorf("%w on %s", ErrNothingToRepair, p.Name)
}

// ProcessConstruction ticks every structure under construction and returns
// those that became Active this call.
func (b *BuildingSystem) ProcessConstruction() []ConstructionCompleted {
	var done []ConstructionCompleted
	for _, p := range b.state.Planets {
		for i := range p.Structures {
			s := &p.Structures[i]
			if s.Status != world.StatusUnderConstruction {
				continue
			}
			s.TurnsRemaining--
			if s.TurnsRemaining > 0 {
				continue
			}
			s.TurnsRemaining = 0
			s.Status = world.StatusActive
			ev := ConstructionCompleted{PlanetID: p.ID, Type: s.Type}
			done = append(done, ev)
			b.completed.Emit(ev)
		}
	}
	return done
}

// CountStructures counts structures of type t with the given status on a
// planet. Unknown planets count zero.
func (b *BuildingSystem) CountStructures(planetID int, t world.StructureType, status world.StructureStatus) int {
	p := b.state.Planet(planetID)
	if p == nil {
		return 0
	}
	n := 0
	for _, s := range p.Structures {
		if s.Type == t && s.Status == status {
			n++
		}
	}
	return n
}
