package world

// Resources is a bundle of the five stockpiled commodities.
type Resources struct {
	Credits  int `json:"credits" yaml:"credits"`
	Minerals int `json:"minerals" yaml:"minerals"`
	Fuel     int `json:"fuel" yaml:"fuel"`
	Food     int `json:"food" yaml:"food"`
	Energy   int `json:"energy" yaml:"energy"`
}

// Add returns r + o.
func (r Resources) Add(o Resources) Resources {
	return Resources{
		Credits:  r.Credits + o.Credits,
		Minerals: r.Minerals + o.Minerals,
		Fuel:     r.Fuel + o.Fuel,
		Food:     r.Food + o.Food,
		Energy:   r.Energy + o.Energy,
	}
}

// Covers reports whether r holds at least cost in every commodity.
func (r Resources) Covers(cost Resources) bool {
	return r.Credits >= cost.Credits &&
		r.Minerals >= cost.Minerals &&
		r.Fuel >= cost.Fuel &&
		r.Food >= cost.Food &&
		r.Energy >= cost.Energy
}

// Sub returns r - o.
func (r Resources) Sub(o Resources) Resources { return r.Add(o.Negate()) }

// Negate returns -r.
func (r Resources) Negate() Resources {
	return Resources{-r.Credits, -r.Minerals, -r.Fuel, -r.Food, -r.Energy}
}

// IsZero reports whether every commodity is zero.
func (r Resources) IsZero() bool { return r == Resources{} }

// PlanetTemplate holds the per-type economy constants.
type PlanetTemplate struct {
	Yield            Resources // produced each Income phase while colonized
	CreditMultiplier float64   // applied to tax revenue
	FoodPerHundred   int       // food farmed per 100 population each Income phase
}

// PlanetTemplates is indexed by PlanetType. A population eats 50 food per
// hundred, so every type but Tropical needs horticultural stations to grow.
var PlanetTemplates = [PlanetTypeCount]PlanetTemplate{
	PlanetMetropolis: {Resources{Credits: 50, Minerals: 10, Fuel: 10, Food: 50, Energy: 20}, 2.0, 45},
	PlanetVolcanic:   {Resources{Minerals: 30, Fuel: 20, Energy: 10}, 1.0, 30},
	PlanetDesert:     {Resources{Minerals: 15, Fuel: 25, Energy: 20}, 1.0, 35},
	PlanetTropical:   {Resources{Minerals: 5, Food: 40, Energy: 5}, 1.0, 60},
	PlanetArctic:     {Resources{Minerals: 10, Fuel: 15, Energy: 5}, 1.0, 35},
}

// FarmedFood returns the population-scaled food a planet of type t produces.
func FarmedFood(t PlanetType, population int) int {
	if t >= PlanetTypeCount || population <= 0 {
		return 0
	}
	return population * PlanetTemplates[t].FoodPerHundred / 100
}

// CreditMultiplier returns the tax multiplier for a planet type.
func CreditMultiplier(t PlanetType) float64 {
	if t < PlanetTypeCount {
		return PlanetTemplates[t].CreditMultiplier
	}
	return 1.0
}

// StructureType identifies a building that can be placed on a planet.
type StructureType uint8

const (
	StructureMiningStation StructureType = iota
	StructureHorticulturalStation
	StructureSolarGenerator
	StructureDefenseNetwork
	StructureTradeHub
	StructureTypeCount // sentinel
)

var structureTypeNames = [StructureTypeCount]string{
	"MiningStation", "HorticulturalStation", "SolarGenerator", "DefenseNetwork", "TradeHub",
}

func (t StructureType) String() string { return enumName(structureTypeNames[:], int(t)) }
func (t StructureType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }
func (t *StructureType) UnmarshalText(b []byte) error {
	return parseInto(structureTypeNames[:], b, "structure type", (*uint8)(t))
}

// StructureTemplate defines the cost and effect of a structure type.
type StructureTemplate struct {
	Cost       Resources
	BuildTurns int
	Bonus      Resources // added to planet income while Active
	Defense    int       // strength added to defenders while Active
}

// StructureTemplates is indexed by StructureType.
var StructureTemplates = [StructureTypeCount]StructureTemplate{
	StructureMiningStation:        {Cost: Resources{Credits: 200, Energy: 20}, BuildTurns: 3, Bonus: Resources{Minerals: 25, Fuel: 10}},
	StructureHorticulturalStation: {Cost: Resources{Credits: 150, Minerals: 20}, BuildTurns: 2, Bonus: Resources{Food: 60}},
	StructureSolarGenerator:       {Cost: Resources{Credits: 120, Minerals: 30}, BuildTurns: 2, Bonus: Resources{Energy: 30}},
	StructureDefenseNetwork:       {Cost: Resources{Credits: 300, Minerals: 50, Energy: 30}, BuildTurns: 4, Defense: 50},
	StructureTradeHub:             {Cost: Resources{Credits: 400, Minerals: 40}, BuildTurns: 5, Bonus: Resources{Credits: 40}},
}

// MaxStructuresPerPlanet bounds the structure list of a single planet.
const MaxStructuresPerPlanet = 6

// CraftType identifies a spacecraft class.
type CraftType uint8

const (
	CraftScout CraftType = iota
	CraftBattleCruiser
	CraftCargoCruiser
	CraftSolarSatellite
	CraftAtmosphereProcessor
	CraftTypeCount // sentinel
)

var craftTypeNames = [CraftTypeCount]string{
	"Scout", "BattleCruiser", "CargoCruiser", "SolarSatellite", "AtmosphereProcessor",
}

func (t CraftType) String() string { return enumName(craftTypeNames[:], int(t)) }
func (t CraftType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }
func (t *CraftType) UnmarshalText(b []byte) error {
	return parseInto(craftTypeNames[:], b, "craft type", (*uint8)(t))
}

// CraftTemplate defines purchase cost and capabilities of a craft class.
type CraftTemplate struct {
	Cost     Resources
	Capacity int // platoons carried
	MaxFuel  int
	Yield    Resources // added each Income phase to the owned planet the craft orbits
}

// CraftTemplates is indexed by CraftType.
var CraftTemplates = [CraftTypeCount]CraftTemplate{
	CraftScout:               {Cost: Resources{Credits: 100, Minerals: 10}, MaxFuel: 200},
	CraftBattleCruiser:       {Cost: Resources{Credits: 500, Minerals: 100, Fuel: 50}, Capacity: 4, MaxFuel: 300},
	CraftCargoCruiser:        {Cost: Resources{Credits: 300, Minerals: 60}, MaxFuel: 250},
	CraftSolarSatellite:      {Cost: Resources{Credits: 250, Minerals: 40}, Yield: Resources{Energy: 25}},
	CraftAtmosphereProcessor: {Cost: Resources{Credits: 800, Minerals: 150, Fuel: 100}, MaxFuel: 400},
}

// Platoon economics.
const (
	PlatoonCostPerTroop = 2   // credits per troop commissioned
	MaxPlatoonTroops    = 200 // troops in a single platoon
	MinPlatoonTroops    = 10
)
