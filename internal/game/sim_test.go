package game

import (
	"errors"
	"strings"
	"testing"

	"github.com/spacehole-rogue/overlord/internal/world"
)

func logContains(l *MessageLog, text string) bool {
	for _, m := range l.Messages {
		if strings.Contains(m.Text, text) {
			return true
		}
	}
	return false
}

func TestNewSimRejectsNilState(t *testing.T) {
	if _, err := NewSim(nil, Options{}); !errors.Is(err, ErrNilState) {
		t.Fatalf("expected ErrNilState, got %v", err)
	}
}

func TestSimStart(t *testing.T) {
	gs := newTestState(t)
	s := newTestSim(t, gs, Options{})

	var turns []int
	s.OnTurnStarted(func(turn int) { turns = append(turns, turn) })
	s.Start()

	if gs.CurrentPhase != PhaseAction || len(turns) != 1 || turns[0] != 1 {
		t.Fatalf("expected turn 1 Action, got %d %s (%v)", gs.CurrentTurn, gs.CurrentPhase, turns)
	}
	if !logContains(s.Log, "Turn 1 begins.") || !logContains(s.Log, "Income: 150 credits") {
		t.Fatalf("unexpected log %+v", s.Log.Messages)
	}
	if st := s.Statistics(); st.Turn != 1 || st.Phase != PhaseAction {
		t.Fatalf("unexpected statistics %+v", st)
	}
}

func TestSimPlayerActionsReachLog(t *testing.T) {
	gs := newTestState(t)
	s := newTestSim(t, gs, Options{})
	s.Start()

	if !s.Taxation.SetTaxRate(0, 60) {
		t.Fatal("set tax rate failed")
	}
	if _, err := s.Platoons.Commission(world.OwnerPlayer, 0, 40); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Craft.Purchase(world.OwnerPlayer, world.CraftScout, 0); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Starbase tax rate set to 60%.", "Platoon of 40 commissioned on Starbase.", "Scout purchased at Starbase."} {
		if !logContains(s.Log, want) {
			t.Fatalf("log missing %q: %+v", want, s.Log.Messages)
		}
	}
	if len(s.Log.Filter(MsgMilitary)) != 2 {
		t.Fatalf("expected two military messages, got %+v", s.Log.Filter(MsgMilitary))
	}
}

func TestSimScenarioVictoryAndTutorial(t *testing.T) {
	sc := &world.Scenario{
		ID:   "hold-out",
		Seed: 1,
		VictoryConditions: []world.VictoryCondition{
			{Type: world.ConditionSurviveTurns, Turns: 2},
		},
		Tutorial: []world.TutorialStep{
			{ID: "act", Title: "Take action", Trigger: world.Trigger{Type: world.TriggerPhaseReached, Target: "Action"}},
			{ID: "tax", Title: "Set taxes", Trigger: world.Trigger{Type: world.TriggerTaxRateChanged}},
		},
	}
	gs := newTestState(t)
	s := newTestSim(t, gs, Options{Scenario: sc})

	var won []VictoryResult
	s.OnVictory(func(r VictoryResult) { won = append(won, r) })

	s.Start()
	if cur, ok := s.Tutorial.Current(); !ok || cur.ID != "tax" {
		t.Fatalf("expected the tax step after start, got %+v", cur)
	}
	s.Taxation.SetTaxRate(0, 40)
	s.Tutorial.Update(gs)
	if !s.Tutorial.IsComplete() || !logContains(s.Log, "Tutorial finished after 2 steps.") {
		t.Fatalf("tutorial should be complete: %+v", s.Log.Messages)
	}

	var result VictoryResult
	for range 5 {
		r, err := s.EndTurn()
		if err != nil {
			t.Fatalf("end turn: %v", err)
		}
		if r != VictoryNone {
			result = r
			break
		}
	}
	if result != VictoryPlayer || gs.CurrentTurn != 3 || len(won) != 1 {
		t.Fatalf("expected player victory on turn 3, got %s on %d (%v)", result, gs.CurrentTurn, won)
	}
	if !s.Tracker.Last().AllMet {
		t.Fatal("tracker should report every condition met")
	}
	if err := s.Advance(); !errors.Is(err, ErrGameOver) {
		t.Fatalf("expected ErrGameOver, got %v", err)
	}
}

func TestSimHomeWorldStaysFed(t *testing.T) {
	gs := newTestState(t)
	home := gs.Planets[0]
	home.Structures = []Structure{
		{Type: world.StructureHorticulturalStation, Status: world.StatusActive},
		{Type: world.StructureHorticulturalStation, Status: world.StatusActive},
	}
	// A garrison no cruiser load can beat keeps Starbase in player hands.
	for range 4 {
		pl := addPlatoon(gs, world.OwnerPlayer, 0, world.MaxPlatoonTroops)
		pl.Training = 100
	}
	s := newTestSim(t, gs, Options{})
	s.Start()
	for range 20 {
		if _, err := s.EndTurn(); err != nil {
			t.Fatalf("end turn: %v", err)
		}
	}
	if home.Owner != world.OwnerPlayer {
		t.Fatal("Starbase should still belong to the player")
	}
	if home.Morale != 75 || home.Resources.Food == 0 {
		t.Fatalf("home world should stay fed: morale %d food %d", home.Morale, home.Resources.Food)
	}
	if home.Population < 1500 {
		t.Fatalf("a fed home world keeps growing, population %d", home.Population)
	}
	if logContains(s.Log, "Food rationing") || logContains(s.Log, "STARVATION") {
		t.Fatalf("unexpected food warnings: %+v", s.Log.Filter(MsgWarning))
	}
	if next := s.Income.CalculatePlanetIncome(home).Food + home.Resources.Food; next < s.Population.FoodRequired(home) {
		t.Fatalf("stock and income should cover the next turn: %d for %d", next, s.Population.FoodRequired(home))
	}
}

func TestSimDeterministic(t *testing.T) {
	run := func() (Statistics, int) {
		gs, err := NewCampaignState(world.CampaignConfig{Difficulty: world.DifficultyNormal, GalaxySeed: 77, StartingTurn: 1, AIPersonality: world.PersonalityAggressive})
		if err != nil {
			t.Fatal(err)
		}
		s := newTestSim(t, gs, Options{Personality: world.PersonalityAggressive})
		s.Start()
		for range 20 {
			r, err := s.EndTurn()
			if err != nil || r != VictoryNone {
				break
			}
		}
		return s.Statistics(), s.Log.Len()
	}
	a, na := run()
	b, nb := run()
	if a != b || na != nb {
		t.Fatalf("runs differ:\n%+v (%d)\n%+v (%d)", a, na, b, nb)
	}
}
