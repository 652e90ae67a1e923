package game

import (
	"errors"
	"sort"

	"github.com/spacehole-rogue/overlord/internal/world"
)

// Population and percentage bounds.
const (
	MaxPopulation = 99999
	MaxMorale     = 100
	MaxTaxRate    = 100
)

var (
	// ErrNilState is returned by system constructors given no GameState.
	ErrNilState = errors.New("game state is required")
	// ErrPlanetNotFound indicates an unknown planet ID or name.
	ErrPlanetNotFound = errors.New("planet not found")
	// ErrInsufficientResources indicates a faction cannot pay a cost.
	ErrInsufficientResources = errors.New("insufficient resources")
	// ErrNotColonized indicates the planet has no economy.
	ErrNotColonized = errors.New("planet is not colonized")
	// ErrNotOwner indicates the acting faction does not own the target.
	ErrNotOwner = errors.New("faction does not own target")
)

// Phase is a step of the turn cycle.
type Phase uint8

const (
	PhaseIncome Phase = iota
	PhaseAction
	PhaseCombat
	PhaseEnd
	PhaseCount // sentinel
)

var phaseNames = [PhaseCount]string{"Income", "Action", "Combat", "End"}

func (p Phase) String() string {
	if p < PhaseCount {
		return phaseNames[p]
	}
	return "Unknown"
}

// Next returns the phase that follows p, wrapping End back to Income.
func (p Phase) Next() Phase { return (p + 1) % PhaseCount }

func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Phase) UnmarshalText(b []byte) error {
	for i, n := range phaseNames {
		if n == string(b) {
			*p = Phase(i)
			return nil
		}
	}
	return errors.New("unknown phase " + string(b))
}

// Structure is a building instance owned by a planet.
type Structure struct {
	Type           world.StructureType   `json:"type"`
	Status         world.StructureStatus `json:"status"`
	TurnsRemaining int                   `json:"turnsRemaining"`
}

// Planet is a body in the galaxy. Planets are never destroyed; capture
// changes Owner.
type Planet struct {
	ID              int              `json:"id"`
	Name            string           `json:"name"`
	Type            world.PlanetType `json:"type"`
	Owner           world.Owner      `json:"owner"`
	Position        world.Position3D `json:"position"`
	VisualSeed      uint32           `json:"visualSeed"`
	RotationSpeed   float64          `json:"rotationSpeed"`
	ScaleMultiplier float64          `json:"scaleMultiplier"`
	Colonized       bool             `json:"colonized"`
	Population      int              `json:"population"`
	Morale          int              `json:"morale"`
	TaxRate         int              `json:"taxRate"`
	Resources       world.Resources  `json:"resources"`
	Structures      []Structure      `json:"structures"`
}

// ActiveStructures counts Active structures of the given type.
func (p *Planet) ActiveStructures(t world.StructureType) int {
	n := 0
	for _, s := range p.Structures {
		if s.Type == t && s.Status == world.StatusActive {
			n++
		}
	}
	return n
}

// FactionState aggregates what a faction owns.
type FactionState struct {
	Owner          world.Owner     `json:"owner"`
	Resources      world.Resources `json:"resources"`
	OwnedPlanetIDs []int           `json:"ownedPlanetIds"`
}

// Platoon is a body of ground troops stationed on a planet or aboard a craft.
type Platoon struct {
	ID       int         `json:"id"`
	Owner    world.Owner `json:"owner"`
	PlanetID int         `json:"planetId"`
	CraftID  int         `json:"craftId"` // -1 when not embarked
	Troops   int         `json:"troops"`
	Training int         `json:"training"` // 0..100
}

// Strength is the platoon's combat value.
func (p *Platoon) Strength() int { return p.Troops * (100 + p.Training) / 100 }

// Embarked reports whether the platoon is aboard a craft.
func (p *Platoon) Embarked() bool { return p.CraftID >= 0 }

// Craft is a spacecraft docked at or orbiting a planet.
type Craft struct {
	ID       int             `json:"id"`
	Owner    world.Owner     `json:"owner"`
	Type     world.CraftType `json:"type"`
	PlanetID int             `json:"planetId"`
	Fuel     int             `json:"fuel"`
	Capacity int             `json:"capacity"`
}

// GameState is the single mutable aggregate every system operates on.
//
// Lookup maps are not kept in sync automatically: any code that adds,
// removes or re-owns planets, platoons or craft must call RebuildLookups
// before the next query.
type GameState struct {
	Seed         int64                         `json:"seed"`
	Difficulty   world.Difficulty              `json:"difficulty"`
	GalaxyName   string                        `json:"galaxyName"`
	Planets      []*Planet                     `json:"planets"`
	Factions     map[world.Owner]*FactionState `json:"factions"`
	Platoons     []*Platoon                    `json:"platoons"`
	Craft        []*Craft                      `json:"craft"`
	CurrentTurn  int                           `json:"currentTurn"`
	CurrentPhase Phase                         `json:"currentPhase"`
	NextEntityID int                           `json:"nextEntityId"`

	planetLookup     map[int]*Planet
	planetByName     map[string]*Planet
	platoonLookup    map[int]*Platoon
	craftLookup      map[int]*Craft
	platoonsByPlanet map[int][]*Platoon
	craftByPlanet    map[int][]*Craft
}

// NewGameState creates an empty state at turn 1, Income phase.
func NewGameState() *GameState {
	gs := &GameState{
		CurrentTurn:  1,
		CurrentPhase: PhaseIncome,
		Factions: map[world.Owner]*FactionState{
			world.OwnerPlayer: {Owner: world.OwnerPlayer},
			world.OwnerAI:     {Owner: world.OwnerAI},
		},
	}
	gs.RebuildLookups()
	return gs
}

// RebuildLookups recomputes every index and the faction aggregates from the
// planet, platoon and craft lists.
func (gs *GameState) RebuildLookups() {
	gs.planetLookup = make(map[int]*Planet, len(gs.Planets))
	gs.planetByName = make(map[string]*Planet, len(gs.Planets))
	for _, p := range gs.Planets {
		gs.planetLookup[p.ID] = p
		gs.planetByName[p.Name] = p
	}

	gs.platoonLookup = make(map[int]*Platoon, len(gs.Platoons))
	gs.platoonsByPlanet = make(map[int][]*Platoon)
	for _, pl := range gs.Platoons {
		gs.platoonLookup[pl.ID] = pl
		gs.platoonsByPlanet[pl.PlanetID] = append(gs.platoonsByPlanet[pl.PlanetID], pl)
	}

	gs.craftLookup = make(map[int]*Craft, len(gs.Craft))
	gs.craftByPlanet = make(map[int][]*Craft)
	for _, c := range gs.Craft {
		gs.craftLookup[c.ID] = c
		gs.craftByPlanet[c.PlanetID] = append(gs.craftByPlanet[c.PlanetID], c)
	}

	if gs.Factions == nil {
		gs.Factions = make(map[world.Owner]*FactionState)
	}
	for _, o := range []world.Owner{world.OwnerPlayer, world.OwnerAI} {
		if gs.Factions[o] == nil {
			gs.Factions[o] = &FactionState{Owner: o}
		}
	}
	gs.refreshFactions()

	for _, p := range gs.Planets {
		if p.ID >= gs.NextEntityID {
			gs.NextEntityID = p.ID + 1
		}
	}
	for _, pl := range gs.Platoons {
		if pl.ID >= gs.NextEntityID {
			gs.NextEntityID = pl.ID + 1
		}
	}
	for _, c := range gs.Craft {
		if c.ID >= gs.NextEntityID {
			gs.NextEntityID = c.ID + 1
		}
	}
}

func (gs *GameState) refreshFactions() {
	for owner, f := range gs.Factions {
		f.Owner = owner
		f.OwnedPlanetIDs = []int{}
		f.Resources = world.Resources{}
		for _, p := range gs.Planets {
			if p.Owner == owner {
				f.OwnedPlanetIDs = append(f.OwnedPlanetIDs, p.ID)
				f.Resources = f.Resources.Add(p.Resources)
			}
		}
		sort.Ints(f.OwnedPlanetIDs)
	}
}

// Planet returns the planet with the given ID, or nil.
func (gs *GameState) Planet(id int) *Planet { return gs.planetLookup[id] }

// PlanetByName returns the planet with the given name, or nil.
func (gs *GameState) PlanetByName(name string) *Planet { return gs.planetByName[name] }

// Platoon returns the platoon with the given ID, or nil.
func (gs *GameState) Platoon(id int) *Platoon { return gs.platoonLookup[id] }

// CraftByID returns the craft with the given ID, or nil.
func (gs *GameState) CraftByID(id int) *Craft { return gs.craftLookup[id] }

// PlatoonsAt returns the platoons stationed at or orbiting a planet.
func (gs *GameState) PlatoonsAt(planetID int) []*Platoon { return gs.platoonsByPlanet[planetID] }

// CraftAt returns the craft at a planet.
func (gs *GameState) CraftAt(planetID int) []*Craft { return gs.craftByPlanet[planetID] }

// Faction returns the faction state for owner, or nil for Neutral.
func (gs *GameState) Faction(owner world.Owner) *FactionState { return gs.Factions[owner] }

// PlanetsOwnedBy returns the planets owned by owner in ascending ID order.
func (gs *GameState) PlanetsOwnedBy(owner world.Owner) []*Planet {
	var out []*Planet
	for _, p := range gs.Planets {
		if p.Owner == owner {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// CountPlanets returns how many planets owner holds.
func (gs *GameState) CountPlanets(owner world.Owner) int {
	n := 0
	for _, p := range gs.Planets {
		if p.Owner == owner {
			n++
		}
	}
	return n
}

// AllocateID hands out the next entity ID.
func (gs *GameState) AllocateID() int {
	id := gs.NextEntityID
	gs.NextEntityID++
	return id
}

// RemovePlatoons deletes every platoon whose ID is in ids and rebuilds
// lookups. Returns how many were removed.
func (gs *GameState) RemovePlatoons(ids ...int) int {
	drop := make(map[int]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := gs.Platoons[:0]
	for _, pl := range gs.Platoons {
		if !drop[pl.ID] {
			kept = append(kept, pl)
		}
	}
	n := len(gs.Platoons) - len(kept)
	clear(gs.Platoons[len(kept):])
	gs.Platoons = kept
	gs.RebuildLookups()
	return n
}

// RemoveCraft deletes a craft, lands anything embarked on it and rebuilds
// lookups. Returns false if the craft does not exist.
func (gs *GameState) RemoveCraft(id int) bool {
	idx := -1
	for i, c := range gs.Craft {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	for _, pl := range gs.Platoons {
		if pl.CraftID == id {
			pl.CraftID = -1
		}
	}
	gs.Craft = append(gs.Craft[:idx], gs.Craft[idx+1:]...)
	gs.RebuildLookups()
	return true
}

// Passengers returns the platoons embarked on a craft in ascending ID order.
func (gs *GameState) Passengers(craftID int) []*Platoon {
	var out []*Platoon
	for _, pl := range gs.Platoons {
		if pl.CraftID == craftID {
			out = append(out, pl)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
