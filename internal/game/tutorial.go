package game

import (
	"strings"

	"github.com/spacehole-rogue/overlord/internal/world"
)

// TutorialDetector decides whether a tutorial step's trigger has fired. State
// triggers are read from the game state; action triggers count the actions
// recorded since the last Reset.
type TutorialDetector struct {
	actions map[world.TriggerType]map[string]int
}

// NewTutorialDetector creates an empty detector.
func NewTutorialDetector() *TutorialDetector {
	return &TutorialDetector{actions: map[world.TriggerType]map[string]int{}}
}

// RecordAction notes that the player performed an action. target names what
// was acted on (planet, craft type) and may be empty.
func (d *TutorialDetector) RecordAction(kind world.TriggerType, target string) {
	m := d.actions[kind]
	if m == nil {
		m = map[string]int{}
		d.actions[kind] = m
	}
	m[""]++
	if target != "" {
		m[strings.ToLower(target)]++
	}
}

// Reset forgets recorded actions.
func (d *TutorialDetector) Reset() { clear(d.actions) }

func (d *TutorialDetector) count(kind world.TriggerType, target string) int {
	return d.actions[kind][strings.ToLower(target)]
}

// Satisfied reports whether step's trigger holds. Manual steps are never
// satisfied automatically.
func (d *TutorialDetector) Satisfied(step world.TutorialStep, gs *GameState) bool {
	tr := step.Trigger
	need := max(1, tr.Value)
	switch tr.Type {
	case world.TriggerPhaseReached:
		return gs != nil && strings.EqualFold(gs.CurrentPhase.String(), tr.Target)
	case world.TriggerTurnReached:
		return gs != nil && gs.CurrentTurn >= tr.Value
	case world.TriggerStructureBuilt:
		if gs == nil {
			return false
		}
		n := 0
		for _, p := range gs.PlanetsOwnedBy(world.OwnerPlayer) {
			for _, s := range p.Structures {
				if s.Status == world.StatusActive && (tr.Target == "" || strings.EqualFold(s.Type.String(), tr.Target)) {
					n++
				}
			}
		}
		return n >= need
	case world.TriggerTaxRateChanged, world.TriggerPlatoonCommissioned, world.TriggerCraftPurchased:
		return d.count(tr.Type, tr.Target) >= need
	}
	return false
}

// TutorialStepChange is emitted when the current tutorial step changes.
type TutorialStepChange struct {
	Index int
	Total int
	Step  world.TutorialStep
}

// TutorialManager sequences tutorial steps.
type TutorialManager struct {
	detector *TutorialDetector
	steps    []world.TutorialStep
	index    int
	skipped  bool

	stepChanged Listener[TutorialStepChange]
	completed   Listener[int]
}

// NewTutorialManager creates a manager using detector for trigger checks.
func NewTutorialManager(detector *TutorialDetector) *TutorialManager {
	if detector == nil {
		detector = NewTutorialDetector()
	}
	return &TutorialManager{detector: detector}
}

// OnStepChanged registers the step listener.
func (m *TutorialManager) OnStepChanged(fn func(TutorialStepChange)) { m.stepChanged.Set(fn) }

// OnCompleted registers the completion listener; it receives the number of
// steps finished.
func (m *TutorialManager) OnCompleted(fn func(int)) { m.completed.Set(fn) }

// Detector returns the trigger detector.
func (m *TutorialManager) Detector() *TutorialDetector { return m.detector }

// Start begins a tutorial from its first step.
func (m *TutorialManager) Start(steps []world.TutorialStep) {
	m.steps = append([]world.TutorialStep(nil), steps...)
	m.index = 0
	m.skipped = false
	m.detector.Reset()
	if len(m.steps) == 0 {
		return
	}
	m.stepChanged.Emit(TutorialStepChange{Index: 0, Total: len(m.steps), Step: m.steps[0]})
}

// Active reports whether a tutorial has steps left.
func (m *TutorialManager) Active() bool { return !m.IsComplete() && len(m.steps) > 0 }

// Current returns the step in progress.
func (m *TutorialManager) Current() (world.TutorialStep, bool) {
	if m.IsComplete() || m.index >= len(m.steps) {
		return world.TutorialStep{}, false
	}
	return m.steps[m.index], true
}

// Advance completes the current step. Returns false when nothing is active.
func (m *TutorialManager) Advance() bool {
	if !m.Active() {
		return false
	}
	m.index++
	m.detector.Reset()
	if m.index >= len(m.steps) {
		m.completed.Emit(m.index)
		return true
	}
	m.stepChanged.Emit(TutorialStepChange{Index: m.index, Total: len(m.steps), Step: m.steps[m.index]})
	return true
}

// Skip abandons the tutorial.
func (m *TutorialManager) Skip() {
	if m.Active() {
		m.skipped = true
		m.completed.Emit(m.index)
	}
}

// IsComplete reports whether every step is done or the tutorial was skipped.
func (m *TutorialManager) IsComplete() bool {
	return m.skipped || (len(m.steps) > 0 && m.index >= len(m.steps))
}

// Progress returns the fraction of steps completed.
func (m *TutorialManager) Progress() float64 {
	if len(m.steps) == 0 {
		return 0
	}
	if m.IsComplete() {
		return 1
	}
	return float64(m.index) / float64(len(m.steps))
}

// Update advances through every consecutive step whose trigger is satisfied
// and returns how many steps completed.
func (m *TutorialManager) Update(gs *GameState) int {
	n := 0
	for {
		step, ok := m.Current()
		if !ok || !m.detector.Satisfied(step, gs) {
			return n
		}
		m.Advance()
		n++
	}
}
