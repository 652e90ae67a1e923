package game

import (
	"testing"

	"github.com/spacehole-rogue/overlord/internal/world"
)

func step(id string, tr world.TriggerType, target string, value int) world.TutorialStep {
	return world.TutorialStep{ID: id, Title: id, Trigger: world.Trigger{Type: tr, Target: target, Value: value}}
}

func TestTutorialDetector(t *testing.T) {
	gs := newTestState(t)
	gs.CurrentTurn = 3
	gs.CurrentPhase = PhaseAction
	d := NewTutorialDetector()

	tests := []struct {
		name string
		step world.TutorialStep
		want bool
	}{
		{"manual", step("m", world.TriggerManual, "", 0), false},
		{"phase matches", step("p", world.TriggerPhaseReached, "action", 0), true},
		{"phase differs", step("p", world.TriggerPhaseReached, "Combat", 0), false},
		{"turn reached", step("t", world.TriggerTurnReached, "", 3), true},
		{"turn pending", step("t", world.TriggerTurnReached, "", 4), false},
		{"no structure", step("s", world.TriggerStructureBuilt, "MiningStation", 0), false},
		{"no action yet", step("a", world.TriggerTaxRateChanged, "", 0), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := d.Satisfied(tc.step, gs); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}

	gs.Planets[0].Structures = []Structure{{Type: world.StructureMiningStation, Status: world.StatusActive}}
	gs.Planets[1].Structures = []Structure{{Type: world.StructureMiningStation, Status: world.StatusActive}}
	if !d.Satisfied(step("s", world.TriggerStructureBuilt, "miningstation", 1), gs) {
		t.Fatal("active player structure should satisfy the trigger")
	}
	if d.Satisfied(step("s", world.TriggerStructureBuilt, "MiningStation", 2), gs) {
		t.Fatal("enemy structures do not count")
	}

	d.RecordAction(world.TriggerCraftPurchased, "BattleCruiser")
	if !d.Satisfied(step("c", world.TriggerCraftPurchased, "", 0), gs) {
		t.Fatal("any purchase satisfies an untargeted trigger")
	}
	if !d.Satisfied(step("c", world.TriggerCraftPurchased, "battlecruiser", 0), gs) {
		t.Fatal("target match is case-insensitive")
	}
	if d.Satisfied(step("c", world.TriggerCraftPurchased, "Scout", 0), gs) {
		t.Fatal("other craft types do not count")
	}
	if d.Satisfied(step("c", world.TriggerCraftPurchased, "", 2), gs) {
		t.Fatal("value sets the number of actions required")
	}
	d.Reset()
	if d.Satisfied(step("c", world.TriggerCraftPurchased, "", 0), gs) {
		t.Fatal("reset should forget actions")
	}
}

func TestTutorialManagerFlow(t *testing.T) {
	gs := newTestState(t)
	gs.CurrentTurn = 1
	gs.CurrentPhase = PhaseIncome

	m := NewTutorialManager(nil)
	var changes []TutorialStepChange
	completed := -1
	m.OnStepChanged(func(c TutorialStepChange) { changes = append(changes, c) })
	m.OnCompleted(func(n int) { completed = n })

	if m.Active() || m.Progress() != 0 {
		t.Fatal("manager without steps should be idle")
	}

	m.Start([]world.TutorialStep{
		step("welcome", world.TriggerManual, "", 0),
		step("action", world.TriggerPhaseReached, "Action", 0),
		step("tax", world.TriggerTaxRateChanged, "", 0),
		step("turn", world.TriggerTurnReached, "", 2),
	})
	if len(changes) != 1 || changes[0].Index != 0 || changes[0].Total != 4 {
		t.Fatalf("unexpected start notification %+v", changes)
	}
	if n := m.Update(gs); n != 0 {
		t.Fatalf("manual step must not auto-advance, advanced %d", n)
	}
	if !m.Advance() {
		t.Fatal("advance should succeed")
	}

	gs.CurrentPhase = PhaseAction
	if n := m.Update(gs); n != 1 {
		t.Fatalf("expected one step to complete, got %d", n)
	}
	if cur, _ := m.Current(); cur.ID != "tax" {
		t.Fatalf("expected tax step, got %q", cur.ID)
	}

	m.Detector().RecordAction(world.TriggerTaxRateChanged, "Starbase")
	gs.CurrentTurn = 2
	if n := m.Update(gs); n != 2 {
		t.Fatalf("expected the last two steps to complete, got %d", n)
	}
	if !m.IsComplete() || m.Active() || m.Progress() != 1 || completed != 4 {
		t.Fatalf("tutorial should be complete, completed=%d", completed)
	}
	if m.Advance() {
		t.Fatal("advance after completion should fail")
	}
}

func TestTutorialManagerSkip(t *testing.T) {
	m := NewTutorialManager(nil)
	completed := -1
	m.OnCompleted(func(n int) { completed = n })
	m.Start([]world.TutorialStep{step("a", world.TriggerManual, "", 0), step("b", world.TriggerManual, "", 0)})
	m.Advance()
	if p := m.Progress(); p != 0.5 {
		t.Fatalf("expected progress 0.5, got %f", p)
	}
	m.Skip()
	if !m.IsComplete() || completed != 1 {
		t.Fatalf("skip should complete the tutorial after 1 step, got %d", completed)
	}
	if _, ok := m.Current(); ok {
		t.Fatal("no current step after skip")
	}
}
