package game

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/spacehole-rogue/overlord/internal/world"
)

// AIActionKind is the kind of move the AI made in a turn.
type AIActionKind uint8

const (
	AIActionNone AIActionKind = iota
	AIActionAttack
	AIActionBuild
	AIActionPurchaseCraft
	AIActionCommission
	AIActionTrain
	AIActionTaxAdjust
	AIActionRegroup
	AIActionKindCount // sentinel
)

var aiActionNames = [AIActionKindCount]string{
	"None", "Attack", "Build", "PurchaseCraft", "Commission", "Train", "TaxAdjust", "Regroup",
}

func (k AIActionKind) String() string {
	if k < AIActionKindCount {
		return aiActionNames[k]
	}
	return "Unknown"
}

// AIAction describes the single action taken by ExecuteAITurn.
type AIAction struct {
	Kind      AIActionKind
	PlanetID  int // planet acted on or launched from
	TargetID  int // attack target, -1 otherwise
	Structure world.StructureType
	Craft     world.CraftType
	Delta     int // tax adjustment
}

// AttackOutcome is the diagnostic result of an attack attempt.
type AttackOutcome string

const (
	AttackLaunched                AttackOutcome = "LAUNCHED"
	AttackFailedNoTarget          AttackOutcome = "FAILED_NO_TARGET"
	AttackFailedInsufficientForce AttackOutcome = "FAILED_INSUFFICIENT_FORCES"
)

// AI decision log events.
const (
	EventAttackAttempt  = "attack_attempt"
	EventAttackLaunched = "attack_launched"
	EventAttackFailed   = "attack_failed"
	EventBuild          = "build"
	EventRecruit        = "recruit"
	EventRegroup        = "regroup"
	EventTaxAdjust      = "tax_adjust"
	EventIdle           = "idle"
)

// AIRecord is one entry of the AI decision log.
type AIRecord struct {
	Turn          int
	Event         string
	Outcome       AttackOutcome
	TargetsFound  int
	CruisersFound int
	PlatoonsFound int
	PlanetID      int
	Detail        string
}

// AIDeps are the systems the AI acts through.
type AIDeps struct {
	Resources *ResourceSystem
	Taxation  *TaxationSystem
	Building  *BuildingSystem
	Platoons  *PlatoonSystem
	Craft     *CraftSystem
}

// AIOptions tune the planner. Decide, when set, replaces the default
// deterministic choices: it must return values in [0,1).
type AIOptions struct {
	Personality world.Personality
	Difficulty  world.Difficulty
	Decide      func() float64
	Logger      *slog.Logger
}

// AIDecisionSystem plays the AI faction: one action per turn, first
// eligible wins.
type AIDecisionSystem struct {
	state  *GameState
	deps   AIDeps
	opts   AIOptions
	logger *slog.Logger
	log    []AIRecord
}

// NewAIDecisionSystem creates the AI planner. Every dependency is required.
func NewAIDecisionSystem(state *GameState, deps AIDeps, opts AIOptions) (*AIDecisionSystem, error) {
	if state == nil {
		return nil, ErrNilState
	}
	if deps.Resources == nil || deps.Taxation == nil || deps.Building == nil || deps.Platoons == nil || deps.Craft == nil {
		return nil, fmt.Errorf("%w: ai requires resource, taxation, building, platoon and craft systems", ErrNilState)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &AIDecisionSystem{state: state, deps: deps, opts: opts, logger: logger}, nil
}

// DecisionLog returns a copy of every record made so far.
func (a *AIDecisionSystem) DecisionLog() []AIRecord {
	return append([]AIRecord(nil), a.log...)
}

// LastRecord returns the most recent record.
func (a *AIDecisionSystem) LastRecord() (AIRecord, bool) {
	if len(a.log) == 0 {
		return AIRecord{}, false
	}
	return a.log[len(a.log)-1], true
}

func (a *AIDecisionSystem) record(r AIRecord) {
	r.Turn = a.state.CurrentTurn
	a.log = append(a.log, r)
	attrs := []any{"turn", r.Turn, "event", r.Event, "planet", r.PlanetID}
	if r.Outcome != "" {
		attrs = append(attrs, "outcome", string(r.Outcome),
			"targets_found", r.TargetsFound,
			"cruisers_found", r.CruisersFound,
			"platoons_found", r.PlatoonsFound)
	}
	if r.Detail != "" {
		attrs = append(attrs, "detail", r.Detail)
	}
	a.logger.Info("ai decision", attrs...)
}

// ExecuteAITurn takes exactly one action. While the AI holds a planet the
// turn always changes some state: when nothing else is possible the tax rate
// of an AI planet moves by one point.
func (a *AIDecisionSystem) ExecuteAITurn() AIAction {
	if a.state.CountPlanets(world.OwnerAI) == 0 {
		a.record(AIRecord{Event: EventIdle, PlanetID: -1, Detail: "no planets"})
		return AIAction{Kind: AIActionNone, PlanetID: -1, TargetID: -1}
	}

	steps := []func() (AIAction, bool){a.tryAttack, a.tryRegroup, a.tryBuild, a.tryRecruit}
	if a.opts.Personality == world.PersonalityAggressive {
		steps = []func() (AIAction, bool){a.tryAttack, a.tryRegroup, a.tryRecruit, a.tryBuild}
	}
	for _, step := range steps {
		if act, ok := step(); ok {
			return act
		}
	}
	return a.adjustTax()
}

// attackMargin is the strength, in percent of the target's defense, the AI
// needs before it launches.
func (a *AIDecisionSystem) attackMargin() int {
	switch a.opts.Difficulty {
	case world.DifficultyEasy:
		return 150
	case world.DifficultyHard:
		return 80
	default:
		return 100
	}
}

// PlanetDefense is the strength an attacker must beat at a planet: ground
// platoons plus active defense structures.
func PlanetDefense(gs *GameState, p *Planet) int {
	total := 0
	for _, pl := range gs.PlatoonsAt(p.ID) {
		if pl.Owner == p.Owner && !pl.Embarked() {
			total += pl.Strength()
		}
	}
	for _, s := range p.Structures {
		if s.Status == world.StatusActive {
			total += world.StructureTemplates[s.Type].Defense
		}
	}
	return total
}

func (a *AIDecisionSystem) cruisers() []*Craft {
	var out []*Craft
	for _, c := range a.deps.Craft.CraftOf(world.OwnerAI) {
		if c.Type == world.CraftBattleCruiser {
			out = append(out, c)
		}
	}
	return out
}

func (a *AIDecisionSystem) tryAttack() (AIAction, bool) {
	targets := a.state.PlanetsOwnedBy(world.OwnerPlayer)
	cruisers := a.cruisers()
	platoons := a.deps.Platoons.PlatoonsOf(world.OwnerAI)

	diag := AIRecord{
		TargetsFound:  len(targets),
		CruisersFound: len(cruisers),
		PlatoonsFound: len(platoons),
	}
	attempt := diag
	attempt.Event, attempt.PlanetID = EventAttackAttempt, -1
	a.record(attempt)

	fail := func(outcome AttackOutcome, detail string) (AIAction, bool) {
		r := diag
		r.Event, r.Outcome, r.PlanetID, r.Detail = EventAttackFailed, outcome, -1, detail
		a.record(r)
		return AIAction{}, false
	}
	if len(targets) == 0 {
		return fail(AttackFailedNoTarget, "no enemy planets")
	}
	if len(cruisers) == 0 || len(platoons) == 0 {
		return fail(AttackFailedInsufficientForce, "no cruiser or platoon")
	}

	// Weakest target first, lowest ID on ties.
	sort.SliceStable(targets, func(i, j int) bool {
		return PlanetDefense(a.state, targets[i]) < PlanetDefense(a.state, targets[j])
	})

	for _, target := range targets {
		defense := PlanetDefense(a.state, target)
		for _, c := range cruisers {
			from := a.state.Planet(c.PlanetID)
			if from == nil || from.ID == target.ID {
				continue
			}
			if c.Fuel < FuelCost(from.Position.DistanceTo(target.Position)) {
				continue
			}
			load := a.loadout(c)
			strength := 0
			for _, pl := range load {
				strength += pl.Strength()
			}
			if strength == 0 || strength*100 <= defense*a.attackMargin() {
				continue
			}
			for _, pl := range load {
				if !pl.Embarked() {
					if err := a.deps.Craft.Embark(pl.ID, c.ID); err != nil {
						return fail(AttackFailedInsufficientForce, err.Error())
					}
				}
			}
			if err := a.deps.Craft.Move(c.ID, target.ID); err != nil {
				return fail(AttackFailedInsufficientForce, err.Error())
			}
			r := diag
			r.Event, r.Outcome, r.PlanetID = EventAttackLaunched, AttackLaunched, target.ID
			r.Detail = fmt.Sprintf("strength %d vs defense %d", strength, defense)
			a.record(r)
			return AIAction{Kind: AIActionAttack, PlanetID: from.ID, TargetID: target.ID}, true
		}
	}
	return fail(AttackFailedInsufficientForce, "no cruiser can carry enough strength")
}

// grounded returns the AI platoons standing on a planet, in ID order.
func (a *AIDecisionSystem) grounded(planetID int) []*Platoon {
	var out []*Platoon
	for _, pl := range a.deps.Platoons.PlatoonsOf(world.OwnerAI) {
		if pl.PlanetID == planetID && !pl.Embarked() {
			out = append(out, pl)
		}
	}
	return out
}

// loadout is what cruiser c would carry: its passengers plus AI platoons
// standing at its planet, in ID order, up to capacity. On an AI planet the
// newest platoon stays behind as its garrison.
func (a *AIDecisionSystem) loadout(c *Craft) []*Platoon {
	load := a.state.Passengers(c.ID)
	ground := a.grounded(c.PlanetID)
	if p := a.state.Planet(c.PlanetID); p != nil && p.Owner == world.OwnerAI && len(ground) > 0 {
		ground = ground[:len(ground)-1]
	}
	for _, pl := range ground {
		if len(load) >= c.Capacity {
			break
		}
		load = append(load, pl)
	}
	return load
}

// tryRegroup brings an empty cruiser stranded away from AI space back to the
// nearest AI planet it can reach and refuels it there. A docked cruiser that
// cannot reach any enemy planet refuels. A stranded cruiser that cannot
// reach any AI planet is scrapped so a new one can be bought.
func (a *AIDecisionSystem) tryRegroup() (AIAction, bool) {
	for _, c := range a.cruisers() {
		if len(a.state.Passengers(c.ID)) > 0 {
			continue
		}
		at := a.state.Planet(c.PlanetID)
		if at == nil {
			continue
		}
		if at.Owner == world.OwnerAI {
			if a.canReachTarget(c, at) || a.deps.Craft.Refuel(c.ID) == 0 {
				continue
			}
			a.record(AIRecord{Event: EventRegroup, PlanetID: at.ID, Detail: fmt.Sprintf("refuelled craft %d to %d", c.ID, c.Fuel)})
			return AIAction{Kind: AIActionRegroup, PlanetID: at.ID, TargetID: -1, Craft: c.Type}, true
		}

		homes := a.state.PlanetsOwnedBy(world.OwnerAI)
		sort.SliceStable(homes, func(i, j int) bool {
			return at.Position.DistanceTo(homes[i].Position) < at.Position.DistanceTo(homes[j].Position)
		})
		for _, home := range homes {
			if c.Fuel < FuelCost(at.Position.DistanceTo(home.Position)) {
				continue
			}
			if err := a.deps.Craft.Move(c.ID, home.ID); err != nil {
				continue
			}
			a.deps.Craft.Refuel(c.ID)
			a.record(AIRecord{Event: EventRegroup, PlanetID: home.ID, Detail: fmt.Sprintf("craft %d returned from %s", c.ID, at.Name)})
			return AIAction{Kind: AIActionRegroup, PlanetID: at.ID, TargetID: home.ID, Craft: c.Type}, true
		}

		a.deps.Craft.Scrap(c.ID)
		a.record(AIRecord{Event: EventRegroup, PlanetID: at.ID, Detail: fmt.Sprintf("scrapped stranded craft %d", c.ID)})
		return AIAction{Kind: AIActionRegroup, PlanetID: at.ID, TargetID: -1, Craft: c.Type}, true
	}
	return AIAction{}, false
}

// canReachTarget reports whether c has the fuel to fly from at to some
// player planet.
func (a *AIDecisionSystem) canReachTarget(c *Craft, at *Planet) bool {
	for _, p := range a.state.PlanetsOwnedBy(world.OwnerPlayer) {
		if c.Fuel >= FuelCost(at.Position.DistanceTo(p.Position)) {
			return true
		}
	}
	return false
}

// buildPriority lists structure preferences per personality.
var buildPriority = [world.PersonalityCount][]world.StructureType{
	world.PersonalityBalanced: {
		world.StructureHorticulturalStation, world.StructureMiningStation, world.StructureSolarGenerator,
		world.StructureTradeHub, world.StructureDefenseNetwork,
	},
	world.PersonalityAggressive: {
		world.StructureMiningStation, world.StructureSolarGenerator, world.StructureDefenseNetwork,
		world.StructureHorticulturalStation, world.StructureTradeHub,
	},
	world.PersonalityDefensive: {
		world.StructureDefenseNetwork, world.StructureHorticulturalStation, world.StructureMiningStation,
		world.StructureSolarGenerator, world.StructureTradeHub,
	},
	world.PersonalityEconomic: {
		world.StructureTradeHub, world.StructureMiningStation, world.StructureHorticulturalStation,
		world.StructureSolarGenerator, world.StructureDefenseNetwork,
	},
}

func (a *AIDecisionSystem) priorities() []world.StructureType {
	if a.opts.Personality < world.PersonalityCount {
		return buildPriority[a.opts.Personality]
	}
	return buildPriority[world.PersonalityBalanced]
}

// tryBuild repairs the first damaged structure it can afford, otherwise
// starts the least-built affordable structure on the first AI planet that
// can take one.
func (a *AIDecisionSystem) tryBuild() (AIAction, bool) {
	for _, p := range a.state.PlanetsOwnedBy(world.OwnerAI) {
		if t, err := a.deps.Building.Repair(p.ID); err == nil {
			a.record(AIRecord{Event: EventBuild, PlanetID: p.ID, Detail: "repair " + t.String()})
			return AIAction{Kind: AIActionBuild, PlanetID: p.ID, TargetID: -1, Structure: t}, true
		}
	}
	for _, p := range a.state.PlanetsOwnedBy(world.OwnerAI) {
		best, bestCount := world.StructureTypeCount, world.MaxStructuresPerPlanet+1
		for _, t := range a.priorities() {
			if !a.deps.Building.CanBuild(p.ID, t) {
				continue
			}
			n := 0
			for _, s := range p.Structures {
				if s.Type == t {
					n++
				}
			}
			if n < bestCount {
				best, bestCount = t, n
			}
		}
		if best == world.StructureTypeCount {
			continue
		}
		if err := a.deps.Building.StartConstruction(p.ID, best); err != nil {
			continue
		}
		a.record(AIRecord{Event: EventBuild, PlanetID: p.ID, Detail: best.String()})
		return AIAction{Kind: AIActionBuild, PlanetID: p.ID, TargetID: -1, Structure: best}, true
	}
	return AIAction{}, false
}

// tryRecruit buys a battle cruiser when the AI has none, otherwise raises or
// trains platoons for the first cruiser. Platoons are raised at the
// cruiser's planet when the AI holds it and at the most populous AI planet
// otherwise, until there is a full load plus a garrison.
func (a *AIDecisionSystem) tryRecruit() (AIAction, bool) {
	var cruiser *Craft
	if cs := a.cruisers(); len(cs) > 0 {
		cruiser = cs[0]
	}
	if cruiser == nil {
		for _, p := range a.state.PlanetsOwnedBy(world.OwnerAI) {
			c, err := a.deps.Craft.Purchase(world.OwnerAI, world.CraftBattleCruiser, p.ID)
			if err != nil {
				continue
			}
			a.record(AIRecord{Event: EventRecruit, PlanetID: p.ID, Detail: "purchased " + c.Type.String()})
			return AIAction{Kind: AIActionPurchaseCraft, PlanetID: p.ID, TargetID: -1, Craft: c.Type}, true
		}
		return AIAction{}, false
	}

	if home := a.muster(cruiser); home != nil && len(a.grounded(home.ID)) <= cruiser.Capacity {
		credits := a.deps.Resources.FactionResources(world.OwnerAI).Credits
		troops := min(world.MaxPlatoonTroops, home.Population/10, credits/world.PlatoonCostPerTroop)
		if troops >= world.MinPlatoonTroops {
			if pl, err := a.deps.Platoons.Commission(world.OwnerAI, home.ID, troops); err == nil {
				a.record(AIRecord{Event: EventRecruit, PlanetID: home.ID, Detail: fmt.Sprintf("commissioned %d troops", pl.Troops)})
				return AIAction{Kind: AIActionCommission, PlanetID: home.ID, TargetID: -1}, true
			}
		}
	}

	for _, pl := range a.deps.Platoons.PlatoonsOf(world.OwnerAI) {
		if pl.Training < 100 && a.deps.Platoons.Train(pl.ID, 10) {
			a.record(AIRecord{Event: EventRecruit, PlanetID: pl.PlanetID, Detail: fmt.Sprintf("trained platoon %d to %d", pl.ID, pl.Training)})
			return AIAction{Kind: AIActionTrain, PlanetID: pl.PlanetID, TargetID: -1}, true
		}
	}
	return AIAction{}, false
}

// muster is the AI planet that raises platoons for cruiser c.
func (a *AIDecisionSystem) muster(c *Craft) *Planet {
	if p := a.state.Planet(c.PlanetID); p != nil && p.Owner == world.OwnerAI {
		return p
	}
	var best *Planet
	for _, p := range a.state.PlanetsOwnedBy(world.OwnerAI) {
		if best == nil || p.Population > best.Population {
			best = p
		}
	}
	return best
}

// adjustTax moves the tax rate of the lowest-ID AI planet by one point: up by
// default, down when Decide returns 0.5 or more, and always away from a
// bound.
func (a *AIDecisionSystem) adjustTax() AIAction {
	p := a.state.PlanetsOwnedBy(world.OwnerAI)[0]
	delta := 1
	if a.opts.Decide != nil && a.opts.Decide() >= 0.5 {
		delta = -1
	}
	switch {
	case p.TaxRate+delta > MaxTaxRate:
		delta = -1
	case p.TaxRate+delta < 0:
		delta = 1
	}
	a.deps.Taxation.SetTaxRate(p.ID, p.TaxRate+delta)
	a.record(AIRecord{Event: EventTaxAdjust, PlanetID: p.ID, Detail: fmt.Sprintf("tax %+d to %d", delta, p.TaxRate)})
	return AIAction{Kind: AIActionTaxAdjust, PlanetID: p.ID, TargetID: -1, Delta: delta}
}
