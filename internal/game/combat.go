package game

import (
	"log/slog"
	"sort"

	"github.com/mlange-42/ark/ecs"
	"github.com/spacehole-rogue/overlord/internal/world"
)

// Combat tuning.
const (
	maxBattleRounds    = 10
	damageDivisor      = 4 // each side deals a quarter of its strength per round
	bombardKillPercent = 5 // population killed per cruiser in orbit
	capturedMorale     = 50
	capturedTaxRate    = 25
	defenseUnit        = -1 // UnitRef.PlatoonID of planetary defenses
)

// Combatant is a unit taking part in a battle.
type Combatant struct {
	Side     world.Owner
	Strength int
}

// UnitRef links a battle entity back to its platoon. PlatoonID is -1 for
// planetary defenses.
type UnitRef struct {
	PlatoonID int
	Order     int // damage is taken in ascending Order
}

// BattleReport summarises the fighting at one planet.
type BattleReport struct {
	PlanetID         int
	Attacker         world.Owner
	Defender         world.Owner
	Rounds           int
	PopulationKilled int
	DefensesDamaged  int
	AttackerLosses   int // platoons destroyed
	DefenderLosses   int
	Captured         bool
}

// PlanetCaptured is emitted when a planet changes hands in combat.
type PlanetCaptured struct {
	PlanetID int
	From, To world.Owner
}

// CombatSystem resolves bombardment and ground battles wherever hostile
// platoons share a planet.
type CombatSystem struct {
	state  *GameState
	logger *slog.Logger

	battle   Listener[BattleReport]
	captured Listener[PlanetCaptured]
}

// NewCombatSystem creates a combat system. A nil logger discards output.
func NewCombatSystem(state *GameState, logger *slog.Logger) (*CombatSystem, error) {
	if state == nil {
		return nil, ErrNilState
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &CombatSystem{state: state, logger: logger}, nil
}

// OnBattleResolved registers the per-battle listener.
func (c *CombatSystem) OnBattleResolved(fn func(BattleReport)) { c.battle.Set(fn) }

// OnPlanetCaptured registers the capture listener.
func (c *CombatSystem) OnPlanetCaptured(fn func(PlanetCaptured)) { c.captured.Set(fn) }

// ResolveAll fights every contested planet in ascending ID order.
func (c *CombatSystem) ResolveAll() []BattleReport {
	planets := append([]*Planet(nil), c.state.Planets...)
	sort.Slice(planets, func(i, j int) bool { return planets[i].ID < planets[j].ID })

	var reports []BattleReport
	for _, p := range planets {
		for _, attacker := range c.attackersAt(p) {
			r := c.resolve(p, attacker)
			reports = append(reports, r)
			c.battle.Emit(r)
		}
	}
	return reports
}

// attackersAt lists the factions with platoons at p that do not own it.
func (c *CombatSystem) attackersAt(p *Planet) []world.Owner {
	seen := map[world.Owner]bool{}
	for _, pl := range c.state.PlatoonsAt(p.ID) {
		if pl.Owner != p.Owner && pl.Owner != world.OwnerNeutral {
			seen[pl.Owner] = true
		}
	}
	var out []world.Owner
	for o := world.Owner(0); o < world.OwnerCount; o++ {
		if seen[o] {
			out = append(out, o)
		}
	}
	return out
}

func (c *CombatSystem) resolve(p *Planet, attacker world.Owner) BattleReport {
	report := BattleReport{PlanetID: p.ID, Attacker: attacker, Defender: p.Owner}

	c.bombard(p, attacker, &report)

	// Attackers land before fighting.
	for _, pl := range c.state.PlatoonsAt(p.ID) {
		if pl.Owner == attacker {
			pl.CraftID = -1
		}
	}

	w := ecs.NewWorld(64)
	units := ecs.NewMap2[Combatant, UnitRef](w)
	order := 0
	if p.Owner != world.OwnerNeutral {
		for _, s := range p.Structures {
			if s.Status != world.StatusActive {
				continue
			}
			if def := world.StructureTemplates[s.Type].Defense; def > 0 {
				units.NewEntity(&Combatant{Side: p.Owner, Strength: def}, &UnitRef{PlatoonID: defenseUnit, Order: order})
				order++
			}
		}
	}
	for _, pl := range c.sortedPlatoonsAt(p.ID) {
		if pl.Owner == attacker || (pl.Owner == p.Owner && !pl.Embarked()) {
			units.NewEntity(&Combatant{Side: pl.Owner, Strength: pl.Strength()}, &UnitRef{PlatoonID: pl.ID, Order: order})
			order++
		}
	}

	filter := ecs.NewFilter2[Combatant, UnitRef](w)
	for report.Rounds < maxBattleRounds {
		atk, def := sideStrength(filter, attacker)
		if atk == 0 || def == 0 {
			break
		}
		report.Rounds++
		dead := applyDamage(filter, attacker, max(1, def/damageDivisor))
		dead = append(dead, applyDamage(filter, p.Owner, max(1, atk/damageDivisor))...)
		for _, e := range dead {
			w.RemoveEntity(e)
		}
	}

	survivors := map[int]int{}
	query := filter.Query()
	for query.Next() {
		cmb, ref := query.Get()
		if ref.PlatoonID >= 0 {
			survivors[ref.PlatoonID] = cmb.Strength
		}
	}

	var destroyed []int
	for _, pl := range c.sortedPlatoonsAt(p.ID) {
		if pl.Owner != attacker && (pl.Owner != p.Owner || pl.Embarked()) {
			continue
		}
		strength, alive := survivors[pl.ID]
		if !alive {
			destroyed = append(destroyed, pl.ID)
			if pl.Owner == attacker {
				report.AttackerLosses++
			} else {
				report.DefenderLosses++
			}
			continue
		}
		if strength < pl.Strength() {
			pl.Troops = max(1, strength*100/(100+pl.Training))
		}
	}
	if len(destroyed) > 0 {
		c.state.RemovePlatoons(destroyed...)
	}

	atk, def := sideStrength(filter, attacker)
	if atk > 0 && def == 0 {
		from := p.Owner
		p.Owner = attacker
		p.Morale = capturedMorale
		p.TaxRate = capturedTaxRate
		report.Captured = true
		c.state.RebuildLookups()
		c.captured.Emit(PlanetCaptured{PlanetID: p.ID, From: from, To: attacker})
	}

	c.logger.Info("battle resolved",
		"planet", p.Name,
		"attacker", attacker,
		"defender", report.Defender,
		"rounds", report.Rounds,
		"captured", report.Captured,
		"attacker_losses", report.AttackerLosses,
		"defender_losses", report.DefenderLosses,
	)
	return report
}

// bombard lets each of attacker's battle cruisers in orbit kill a share of
// the population and knock out one active defense structure.
func (c *CombatSystem) bombard(p *Planet, attacker world.Owner, report *BattleReport) {
	for _, cr := range c.state.CraftAt(p.ID) {
		if cr.Owner != attacker || cr.Type != world.CraftBattleCruiser {
			continue
		}
		killed := p.Population * bombardKillPercent / 100
		p.Population -= killed
		report.PopulationKilled += killed
		for i := range p.Structures {
			s := &p.Structures[i]
			if s.Status == world.StatusActive && world.StructureTemplates[s.Type].Defense > 0 {
				s.Status = world.StatusDamaged
				report.DefensesDamaged++
				break
			}
		}
	}
}

func (c *CombatSystem) sortedPlatoonsAt(planetID int) []*Platoon {
	out := append([]*Platoon(nil), c.state.PlatoonsAt(planetID)...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// sideStrength sums live strength for attacker and for everyone else.
func sideStrength(f *ecs.Filter2[Combatant, UnitRef], attacker world.Owner) (atk, def int) {
	query := f.Query()
	for query.Next() {
		cmb, _ := query.Get()
		if cmb.Side == attacker {
			atk += cmb.Strength
		} else {
			def += cmb.Strength
		}
	}
	return atk, def
}

type target struct {
	entity ecs.Entity
	unit   *Combatant
	order  int
}

// applyDamage spreads damage over side's units in ascending Order and
// returns the entities it destroyed. The caller removes them after
// iteration.
func applyDamage(f *ecs.Filter2[Combatant, UnitRef], side world.Owner, damage int) []ecs.Entity {
	var targets []target
	query := f.Query()
	for query.Next() {
		cmb, ref := query.Get()
		if cmb.Side == side && cmb.Strength > 0 {
			targets = append(targets, target{entity: query.Entity(), unit: cmb, order: ref.Order})
		}
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i].order < targets[j].order })

	var dead []ecs.Entity
	for _, t := range targets {
		if damage <= 0 {
			break
		}
		hit := min(damage, t.unit.Strength)
		t.unit.Strength -= hit
		damage -= hit
		if t.unit.Strength == 0 {
			dead = append(dead, t.entity)
		}
	}
	return dead
}
