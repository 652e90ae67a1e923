package game

import (
	"testing"

	"github.com/spacehole-rogue/overlord/internal/world"
)

// newTestState builds a three-planet state: Starbase (Player, ID 0) at the
// origin, Hitotsu (AI, ID 1) 200 units away and an uncolonized neutral
// Planet A (ID 2) between them.
func newTestState(t *testing.T) *GameState {
	t.Helper()
	gs := NewGameState()
	gs.Planets = []*Planet{
		{
			ID: 0, Name: "Starbase", Type: world.PlanetMetropolis, Owner: world.OwnerPlayer,
			Colonized: true, Population: 1000, Morale: 75, TaxRate: 50,
			Resources:  world.Resources{Credits: 1000, Minerals: 200, Fuel: 200, Food: 1000, Energy: 200},
			Structures: []Structure{},
		},
		{
			ID: 1, Name: "Hitotsu", Type: world.PlanetMetropolis, Owner: world.OwnerAI,
			Position:  world.Position3D{X: 200},
			Colonized: true, Population: 1000, Morale: 75, TaxRate: 50,
			Resources:  world.Resources{Credits: 1000, Minerals: 200, Fuel: 200, Food: 1000, Energy: 200},
			Structures: []Structure{},
		},
		{
			ID: 2, Name: "Planet A", Type: world.PlanetVolcanic, Owner: world.OwnerNeutral,
			Position: world.Position3D{X: 100, Z: 100},
			Morale:   50, TaxRate: 25,
			Structures: []Structure{},
		},
	}
	gs.RebuildLookups()
	return gs
}

func newTestResources(t *testing.T, gs *GameState) *ResourceSystem {
	t.Helper()
	rs, err := NewResourceSystem(gs)
	if err != nil {
		t.Fatalf("new resource system: %v", err)
	}
	return rs
}

func newTestSim(t *testing.T, gs *GameState, opts Options) *Sim {
	t.Helper()
	s, err := NewSim(gs, opts)
	if err != nil {
		t.Fatalf("new sim: %v", err)
	}
	return s
}

func addPlatoon(gs *GameState, owner world.Owner, planetID, troops int) *Platoon {
	pl := &Platoon{ID: gs.AllocateID(), Owner: owner, PlanetID: planetID, CraftID: -1, Troops: troops}
	gs.Platoons = append(gs.Platoons, pl)
	gs.RebuildLookups()
	return pl
}

func addCraft(gs *GameState, owner world.Owner, t world.CraftType, planetID int) *Craft {
	tmpl := world.CraftTemplates[t]
	c := &Craft{ID: gs.AllocateID(), Owner: owner, Type: t, PlanetID: planetID, Fuel: tmpl.MaxFuel, Capacity: tmpl.Capacity}
	gs.Craft = append(gs.Craft, c)
	gs.RebuildLookups()
	return c
}
