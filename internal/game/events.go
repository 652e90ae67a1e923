package game

import "github.com/spacehole-rogue/overlord/internal/world"

// Listener holds at most one callback for an event. Setting a new callback
// replaces the previous one; Set(nil) unregisters.
type Listener[T any] struct {
	fn func(T)
}

// Set registers fn.
func (l *Listener[T]) Set(fn func(T)) { l.fn = fn }

// Registered reports whether a callback is set.
func (l *Listener[T]) Registered() bool { return l.fn != nil }

// Emit calls the registered callback with v, if any.
func (l *Listener[T]) Emit(v T) {
	if l.fn != nil {
		l.fn(v)
	}
}

// PhaseChange is emitted whenever the turn system enters a phase.
type PhaseChange struct {
	Turn int
	From Phase
	To   Phase
}

// TaxRevenue reports credits collected from one planet.
type TaxRevenue struct {
	PlanetID int
	Owner    world.Owner
	Amount   int
}

// TaxRateChange reports a tax rate mutation.
type TaxRateChange struct {
	PlanetID int
	Old, New int
}

// MoraleChange reports a morale mutation.
type MoraleChange struct {
	PlanetID int
	Old, New int
}

// PopulationChange reports a population mutation.
type PopulationChange struct {
	PlanetID int
	Old, New int
}

// FoodEvent reports a food deficit on a planet. Available is the food the
// planet held before consumption.
type FoodEvent struct {
	PlanetID  int
	Required  int
	Available int
}

// ConstructionCompleted reports a structure turning Active.
type ConstructionCompleted struct {
	PlanetID int
	Type     world.StructureType
}
