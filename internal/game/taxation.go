package game

import (
	"math"

	"github.com/spacehole-rogue/overlord/internal/world"
)

// TaxationSystem collects credits from populated planets and owns tax rates.
type TaxationSystem struct {
	state     *GameState
	resources *ResourceSystem

	revenue    Listener[TaxRevenue]
	rateChange Listener[TaxRateChange]
}

// NewTaxationSystem creates a taxation system.
func NewTaxationSystem(state *GameState, resources *ResourceSystem) (*TaxationSystem, error) {
	if state == nil || resources == nil {
		return nil, ErrNilState
	}
	return &TaxationSystem{state: state, resources: resources}, nil
}

// OnTaxRevenueCalculated registers the per-planet revenue listener. It fires
// only for non-zero revenue.
func (t *TaxationSystem) OnTaxRevenueCalculated(fn func(TaxRevenue)) { t.revenue.Set(fn) }

// OnTaxRateChanged registers the tax rate listener.
func (t *TaxationSystem) OnTaxRateChanged(fn func(TaxRateChange)) { t.rateChange.Set(fn) }

// CalculateTaxRevenue returns floor(pop/10) * rate/100 * multiplier, floored.
// Uncolonized, empty and untaxed planets yield nothing.
func (t *TaxationSystem) CalculateTaxRevenue(p *Planet) int {
	if p == nil || !p.Colonized || p.Population <= 0 || p.TaxRate <= 0 {
		return 0
	}
	base := float64(p.Population / 10)
	return int(math.Floor(base * float64(p.TaxRate) / 100 * world.CreditMultiplier(p.Type)))
}

// CollectTaxes credits every planet of owner with its revenue and returns the
// faction total.
func (t *TaxationSystem) CollectTaxes(owner world.Owner) int {
	total := 0
	for _, p := range t.state.PlanetsOwnedBy(owner) {
		amount := t.CalculateTaxRevenue(p)
		if amount == 0 {
			continue
		}
		p.Resources.Credits += amount
		total += amount
		t.revenue.Emit(TaxRevenue{PlanetID: p.ID, Owner: owner, Amount: amount})
	}
	t.resources.Refresh()
	return total
}

// CollectAll collects taxes for both factions.
func (t *TaxationSystem) CollectAll() map[world.Owner]int {
	return map[world.Owner]int{
		world.OwnerPlayer: t.CollectTaxes(world.OwnerPlayer),
		world.OwnerAI:     t.CollectTaxes(world.OwnerAI),
	}
}

// SetTaxRate clamps rate to [0,100] and applies it. Setting the current rate
// again is a no-op and does not notify. Returns false for an unknown planet.
func (t *TaxationSystem) SetTaxRate(planetID, rate int) bool {
	p := t.state.Planet(planetID)
	if p == nil {
		return false
	}
	rate = max(0, min(rate, MaxTaxRate))
	if rate == p.TaxRate {
		return true
	}
	old := p.TaxRate
	p.TaxRate = rate
	t.rateChange.Emit(TaxRateChange{PlanetID: planetID, Old: old, New: rate})
	return true
}

// GetTaxRate returns the planet's tax rate, or -1 if it does not exist.
func (t *TaxationSystem) GetTaxRate(planetID int) int {
	p := t.state.Planet(planetID)
	if p == nil {
		return -1
	}
	return p.TaxRate
}
