package game

import (
	"errors"
	"testing"

	"github.com/spacehole-rogue/overlord/internal/world"
)

func newTestAI(t *testing.T, gs *GameState, opts AIOptions) *AIDecisionSystem {
	t.Helper()
	rs := newTestResources(t, gs)
	tax, _ := NewTaxationSystem(gs, rs)
	bld, _ := NewBuildingSystem(gs, rs)
	ps, _ := NewPlatoonSystem(gs, rs)
	cs, _ := NewCraftSystem(gs, rs)
	ai, err := NewAIDecisionSystem(gs, AIDeps{Resources: rs, Taxation: tax, Building: bld, Platoons: ps, Craft: cs}, opts)
	if err != nil {
		t.Fatal(err)
	}
	return ai
}

func TestNewAIDecisionSystemRequiresDeps(t *testing.T) {
	gs := newTestState(t)
	if _, err := NewAIDecisionSystem(gs, AIDeps{}, AIOptions{}); !errors.Is(err, ErrNilState) {
		t.Fatalf("expected ErrNilState, got %v", err)
	}
	if _, err := NewAIDecisionSystem(nil, AIDeps{}, AIOptions{}); !errors.Is(err, ErrNilState) {
		t.Fatalf("expected ErrNilState, got %v", err)
	}
}

func findRecord(log []AIRecord, event string) (AIRecord, bool) {
	for _, r := range log {
		if r.Event == event {
			return r, true
		}
	}
	return AIRecord{}, false
}

func TestAIAttackNoTarget(t *testing.T) {
	gs := newTestState(t)
	gs.Planets[0].Owner = world.OwnerAI
	gs.RebuildLookups()
	ai := newTestAI(t, gs, AIOptions{})

	act := ai.ExecuteAITurn()
	if act.Kind == AIActionAttack {
		t.Fatal("nothing to attack")
	}
	log := ai.DecisionLog()
	if log[0].Event != EventAttackAttempt {
		t.Fatalf("expected the attempt to be logged first, got %+v", log[0])
	}
	r, ok := findRecord(log, EventAttackFailed)
	if !ok || r.Outcome != AttackFailedNoTarget || r.TargetsFound != 0 {
		t.Fatalf("unexpected failure record %+v", r)
	}
}

func TestAIAttackInsufficientForces(t *testing.T) {
	gs := newTestState(t)
	ai := newTestAI(t, gs, AIOptions{})

	act := ai.ExecuteAITurn()
	r, ok := findRecord(ai.DecisionLog(), EventAttackFailed)
	if !ok || r.Outcome != AttackFailedInsufficientForce {
		t.Fatalf("unexpected failure record %+v", r)
	}
	if r.TargetsFound != 1 || r.CruisersFound != 0 || r.PlatoonsFound != 0 {
		t.Fatalf("unexpected diagnostics %+v", r)
	}
	if act.Kind != AIActionBuild || act.PlanetID != 1 || act.Structure != world.StructureHorticulturalStation {
		t.Fatalf("expected a horticultural station on Hitotsu, got %+v", act)
	}
	if last, _ := ai.LastRecord(); last.Event != EventBuild {
		t.Fatalf("expected build record last, got %+v", last)
	}
}

func TestAIAttackTooWeak(t *testing.T) {
	gs := newTestState(t)
	addCraft(gs, world.OwnerAI, world.CraftBattleCruiser, 1)
	addPlatoon(gs, world.OwnerAI, 1, 10)
	addPlatoon(gs, world.OwnerPlayer, 0, 100)
	ai := newTestAI(t, gs, AIOptions{})

	ai.ExecuteAITurn()
	r, ok := findRecord(ai.DecisionLog(), EventAttackFailed)
	if !ok || r.Outcome != AttackFailedInsufficientForce || r.CruisersFound != 1 || r.PlatoonsFound != 1 {
		t.Fatalf("unexpected failure record %+v", r)
	}
}

func TestAIAttackLaunched(t *testing.T) {
	gs := newTestState(t)
	cruiser := addCraft(gs, world.OwnerAI, world.CraftBattleCruiser, 1)
	pl := addPlatoon(gs, world.OwnerAI, 1, 100)
	garrison := addPlatoon(gs, world.OwnerAI, 1, 20)
	ai := newTestAI(t, gs, AIOptions{})

	act := ai.ExecuteAITurn()
	if act.Kind != AIActionAttack || act.PlanetID != 1 || act.TargetID != 0 {
		t.Fatalf("expected attack from 1 on 0, got %+v", act)
	}
	if cruiser.PlanetID != 0 || cruiser.Fuel != 280 {
		t.Fatalf("cruiser should be at 0 with 280 fuel, got %d/%d", cruiser.PlanetID, cruiser.Fuel)
	}
	if pl.PlanetID != 0 || pl.CraftID != cruiser.ID {
		t.Fatalf("platoon should ride the cruiser, got %+v", pl)
	}
	if garrison.PlanetID != 1 || garrison.Embarked() {
		t.Fatalf("newest platoon should stay home, got %+v", garrison)
	}
	last, _ := ai.LastRecord()
	if last.Event != EventAttackLaunched || last.Outcome != AttackLaunched || last.PlanetID != 0 {
		t.Fatalf("unexpected launch record %+v", last)
	}
}

func TestAIAggressiveBuildsUpThenAttacks(t *testing.T) {
	gs := newTestState(t)
	ai := newTestAI(t, gs, AIOptions{Personality: world.PersonalityAggressive})

	want := []AIActionKind{AIActionPurchaseCraft, AIActionCommission, AIActionCommission, AIActionAttack}
	for i, kind := range want {
		if act := ai.ExecuteAITurn(); act.Kind != kind {
			t.Fatalf("turn %d: expected %s, got %+v", i+1, kind, act)
		}
	}
	if gs.Planets[1].Population != 810 {
		t.Fatalf("expected 100 then 90 troops drawn from Hitotsu, pop %d", gs.Planets[1].Population)
	}
	if len(ai.grounded(1)) != 1 {
		t.Fatal("one platoon should garrison Hitotsu")
	}
}

func TestAILoadoutKeepsGarrison(t *testing.T) {
	gs := newTestState(t)
	cruiser := addCraft(gs, world.OwnerAI, world.CraftBattleCruiser, 1)
	ai := newTestAI(t, gs, AIOptions{})
	if len(ai.loadout(cruiser)) != 0 {
		t.Fatal("empty planet loads nothing")
	}
	var pls []*Platoon
	for range 6 {
		pls = append(pls, addPlatoon(gs, world.OwnerAI, 1, 50))
	}
	load := ai.loadout(cruiser)
	if len(load) != cruiser.Capacity || load[0] != pls[0] || load[3] != pls[3] {
		t.Fatalf("expected the four oldest platoons, got %d", len(load))
	}

	// Away from AI space every platoon may board.
	away := addCraft(gs, world.OwnerAI, world.CraftBattleCruiser, 2)
	addPlatoon(gs, world.OwnerAI, 2, 50)
	if len(ai.loadout(away)) != 1 {
		t.Fatal("a neutral planet keeps no garrison")
	}
}

func TestAIRegroupsStrandedCruiser(t *testing.T) {
	gs := newTestState(t)
	hitotsu := gs.Planets[1]
	hitotsu.Resources.Credits = 50000
	for range world.MaxStructuresPerPlanet {
		hitotsu.Structures = append(hitotsu.Structures, Structure{Type: world.StructureMiningStation, Status: world.StatusActive})
	}
	// Left behind at Starbase after a failed assault.
	cruiser := addCraft(gs, world.OwnerAI, world.CraftBattleCruiser, 0)
	cruiser.Fuel = 280
	ai := newTestAI(t, gs, AIOptions{})

	act := ai.ExecuteAITurn()
	if act.Kind != AIActionRegroup || act.PlanetID != 0 || act.TargetID != 1 {
		t.Fatalf("expected regroup from 0 to 1, got %+v", act)
	}
	if cruiser.PlanetID != 1 || cruiser.Fuel != world.CraftTemplates[world.CraftBattleCruiser].MaxFuel {
		t.Fatalf("cruiser should be home and refuelled, got %d/%d", cruiser.PlanetID, cruiser.Fuel)
	}
	if hitotsu.Resources.Fuel != 160 {
		t.Fatalf("refuel should draw 40 fuel from Hitotsu, has %d", hitotsu.Resources.Fuel)
	}
	if last, _ := ai.LastRecord(); last.Event != EventRegroup || last.PlanetID != 1 {
		t.Fatalf("unexpected regroup record %+v", last)
	}

	want := []AIActionKind{AIActionCommission, AIActionCommission, AIActionAttack}
	for i, kind := range want {
		if act := ai.ExecuteAITurn(); act.Kind != kind {
			t.Fatalf("turn %d: expected %s, got %+v", i+2, kind, act)
		}
	}
	if cruiser.PlanetID != 0 || len(gs.Passengers(cruiser.ID)) != 1 {
		t.Fatal("cruiser should be back over Starbase with one platoon aboard")
	}
}

func TestAIScrapsUnreachableCruiser(t *testing.T) {
	gs := newTestState(t)
	cruiser := addCraft(gs, world.OwnerAI, world.CraftBattleCruiser, 0)
	cruiser.Fuel = 5
	ai := newTestAI(t, gs, AIOptions{})

	if act := ai.ExecuteAITurn(); act.Kind != AIActionRegroup || act.TargetID != -1 {
		t.Fatalf("expected the stranded cruiser to be scrapped, got %+v", act)
	}
	if gs.CraftByID(cruiser.ID) != nil {
		t.Fatal("cruiser should be gone")
	}
	if act := ai.ExecuteAITurn(); act.Kind != AIActionBuild {
		t.Fatalf("expected the AI to go back to building, got %+v", act)
	}
}

func TestAIRefuelsDockedCruiser(t *testing.T) {
	gs := newTestState(t)
	cruiser := addCraft(gs, world.OwnerAI, world.CraftBattleCruiser, 1)
	cruiser.Fuel = 10
	ai := newTestAI(t, gs, AIOptions{})

	if act := ai.ExecuteAITurn(); act.Kind != AIActionRegroup || act.PlanetID != 1 {
		t.Fatalf("expected a refuel, got %+v", act)
	}
	if cruiser.Fuel != 210 || gs.Planets[1].Resources.Fuel != 0 {
		t.Fatalf("expected all 200 stocked fuel transferred, cruiser has %d", cruiser.Fuel)
	}
}

func TestAIRepairsDamagedDefenses(t *testing.T) {
	gs := newTestState(t)
	gs.Planets[1].Structures = []Structure{{Type: world.StructureDefenseNetwork, Status: world.StatusDamaged}}
	ai := newTestAI(t, gs, AIOptions{})

	act := ai.ExecuteAITurn()
	if act.Kind != AIActionBuild || act.Structure != world.StructureDefenseNetwork {
		t.Fatalf("expected a repair, got %+v", act)
	}
	if s := gs.Planets[1].Structures[0]; s.Status != world.StatusUnderConstruction || len(gs.Planets[1].Structures) != 1 {
		t.Fatalf("expected the damaged network under repair, got %+v", gs.Planets[1].Structures)
	}
}

func TestAITaxFallback(t *testing.T) {
	tests := []struct {
		name   string
		rate   int
		decide func() float64
		delta  int
	}{
		{"default up", 50, nil, 1},
		{"decided down", 50, func() float64 { return 0.7 }, -1},
		{"decided up", 50, func() float64 { return 0.2 }, 1},
		{"ceiling", MaxTaxRate, nil, -1},
		{"floor", 0, func() float64 { return 0.9 }, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gs := newTestState(t)
			gs.Planets[1].Resources = world.Resources{}
			gs.Planets[1].TaxRate = tc.rate
			gs.RebuildLookups()
			ai := newTestAI(t, gs, AIOptions{Decide: tc.decide})

			act := ai.ExecuteAITurn()
			if act.Kind != AIActionTaxAdjust || act.PlanetID != 1 || act.Delta != tc.delta {
				t.Fatalf("expected tax adjust %+d, got %+v", tc.delta, act)
			}
			if gs.Planets[1].TaxRate != tc.rate+tc.delta {
				t.Fatalf("expected rate %d, got %d", tc.rate+tc.delta, gs.Planets[1].TaxRate)
			}
		})
	}
}

func TestAIIdleWithoutPlanets(t *testing.T) {
	gs := newTestState(t)
	gs.Planets[1].Owner = world.OwnerPlayer
	gs.RebuildLookups()
	ai := newTestAI(t, gs, AIOptions{})

	if act := ai.ExecuteAITurn(); act.Kind != AIActionNone {
		t.Fatalf("expected no action, got %+v", act)
	}
	if last, ok := ai.LastRecord(); !ok || last.Event != EventIdle {
		t.Fatalf("expected idle record, got %+v", last)
	}
}

func TestAIDeterministic(t *testing.T) {
	run := func() []AIAction {
		gs := newTestState(t)
		ai := newTestAI(t, gs, AIOptions{Personality: world.PersonalityDefensive})
		var out []AIAction
		for range 6 {
			out = append(out, ai.ExecuteAITurn())
		}
		return out
	}
	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("turn %d differs: %+v vs %+v", i+1, a[i], b[i])
		}
	}
}

func TestPlanetDefense(t *testing.T) {
	gs := newTestState(t)
	home := gs.Planets[0]
	home.Structures = []Structure{
		{Type: world.StructureDefenseNetwork, Status: world.StatusActive},
		{Type: world.StructureDefenseNetwork, Status: world.StatusDamaged},
	}
	pl := addPlatoon(gs, world.OwnerPlayer, 0, 40)
	pl.Training = 50
	addPlatoon(gs, world.OwnerAI, 0, 100)

	if got := PlanetDefense(gs, home); got != 110 {
		t.Fatalf("expected 110, got %d", got)
	}
}
