package game

import (
	"testing"

	"github.com/spacehole-rogue/overlord/internal/world"
)

func newCombat(t *testing.T, gs *GameState) *CombatSystem {
	t.Helper()
	c, err := NewCombatSystem(gs, nil)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestCombatNoContest(t *testing.T) {
	gs := newTestState(t)
	addPlatoon(gs, world.OwnerPlayer, 0, 50)
	addPlatoon(gs, world.OwnerAI, 1, 50)
	if reports := newCombat(t, gs).ResolveAll(); len(reports) != 0 {
		t.Fatalf("expected no battles, got %+v", reports)
	}
}

func TestCombatCapture(t *testing.T) {
	gs := newTestState(t)
	attacker := addPlatoon(gs, world.OwnerPlayer, 1, 100)
	addPlatoon(gs, world.OwnerAI, 1, 20)
	cs := newCombat(t, gs)

	var captured []PlanetCaptured
	cs.OnPlanetCaptured(func(c PlanetCaptured) { captured = append(captured, c) })

	reports := cs.ResolveAll()
	if len(reports) != 1 {
		t.Fatalf("expected one battle, got %d", len(reports))
	}
	r := reports[0]
	if !r.Captured || r.Rounds != 1 || r.DefenderLosses != 1 || r.AttackerLosses != 0 {
		t.Fatalf("unexpected report %+v", r)
	}
	if attacker.Troops != 95 {
		t.Fatalf("expected 95 surviving troops, got %d", attacker.Troops)
	}
	p := gs.Planets[1]
	if p.Owner != world.OwnerPlayer || p.Morale != 50 || p.TaxRate != 25 {
		t.Fatalf("unexpected captured planet %+v", p)
	}
	if len(captured) != 1 || captured[0].From != world.OwnerAI || captured[0].To != world.OwnerPlayer {
		t.Fatalf("unexpected capture events %+v", captured)
	}
	if gs.CountPlanets(world.OwnerAI) != 0 || len(gs.Platoons) != 1 {
		t.Fatal("defender platoon should be removed and ownership updated")
	}
}

func TestCombatDefenseNetworkHolds(t *testing.T) {
	gs := newTestState(t)
	gs.Planets[1].Structures = []Structure{{Type: world.StructureDefenseNetwork, Status: world.StatusActive}}
	attacker := addPlatoon(gs, world.OwnerPlayer, 1, 40)

	reports := newCombat(t, gs).ResolveAll()
	if len(reports) != 1 {
		t.Fatalf("expected one battle, got %d", len(reports))
	}
	r := reports[0]
	if r.Captured || r.AttackerLosses != 1 || r.Rounds != 5 {
		t.Fatalf("unexpected report %+v", r)
	}
	if gs.Platoon(attacker.ID) != nil {
		t.Fatal("destroyed attacker should be removed")
	}
	if gs.Planets[1].Owner != world.OwnerAI {
		t.Fatal("planet should stay with the AI")
	}
}

func TestCombatBombardment(t *testing.T) {
	gs := newTestState(t)
	gs.Planets[0].Structures = []Structure{{Type: world.StructureDefenseNetwork, Status: world.StatusActive}}
	cruiser := addCraft(gs, world.OwnerAI, world.CraftBattleCruiser, 0)
	pl := addPlatoon(gs, world.OwnerAI, 0, 30)
	pl.CraftID = cruiser.ID

	reports := newCombat(t, gs).ResolveAll()
	if len(reports) != 1 {
		t.Fatalf("expected one battle, got %d", len(reports))
	}
	r := reports[0]
	if r.PopulationKilled != 50 || r.DefensesDamaged != 1 {
		t.Fatalf("unexpected bombardment %+v", r)
	}
	if !r.Captured || r.Rounds != 0 {
		t.Fatalf("undefended planet should fall without a fight: %+v", r)
	}
	home := gs.Planets[0]
	if home.Population != 950 || home.Structures[0].Status != world.StatusDamaged {
		t.Fatalf("unexpected planet after bombardment %+v", home)
	}
	if pl.Embarked() {
		t.Fatal("attackers should land")
	}
}

func TestCombatDeterministic(t *testing.T) {
	run := func() []BattleReport {
		gs := newTestState(t)
		addPlatoon(gs, world.OwnerPlayer, 1, 60)
		addPlatoon(gs, world.OwnerPlayer, 1, 35)
		addPlatoon(gs, world.OwnerAI, 1, 50)
		addPlatoon(gs, world.OwnerAI, 1, 45)
		return newCombat(t, gs).ResolveAll()
	}
	a, b := run(), run()
	if len(a) != 1 || a[0] != b[0] {
		t.Fatalf("combat not deterministic: %+v vs %+v", a, b)
	}
}
