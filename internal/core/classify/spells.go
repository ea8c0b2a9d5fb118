package classify

// NoMatch is the spell index for drawings that match no gesture.
const NoMatch = -1

// Gesture classes in classifier output order.
const (
	ClassCircle = iota
	ClassGate
	ClassLightning
	ClassStar
	ClassWaves
	ClassSpiral
	ClassBounce
	ClassGarbage

	NumClasses
)

// Spell indices as consumed by gameplay.
const (
	SpellFireball = iota
	SpellLightning
	SpellShield
	SpellSmoke
	SpellMeteor
	SpellPoison
	SpellCounterspell
)

// Entry maps one classifier class to a spell.
type Entry struct {
	Class     string
	Spell     int
	SpellName string
}

// SpellTable is indexed by class.
type SpellTable [NumClasses]Entry

// DefaultSpells is the fixed class to spell mapping.
var DefaultSpells = SpellTable{
	ClassCircle:    {Class: "circle", Spell: SpellFireball, SpellName: "fireball"},
	ClassGate:      {Class: "gate", Spell: SpellShield, SpellName: "shield"},
	ClassLightning: {Class: "lightning", Spell: SpellLightning, SpellName: "lightning"},
	ClassStar:      {Class: "star", Spell: SpellMeteor, SpellName: "meteor"},
	ClassWaves:     {Class: "waves", Spell: SpellPoison, SpellName: "poison"},
	ClassSpiral:    {Class: "spiral", Spell: SpellSmoke, SpellName: "smoke"},
	ClassBounce:    {Class: "bounce", Spell: SpellCounterspell, SpellName: "counterspell"},
	ClassGarbage:   {Class: "garbage", Spell: NoMatch, SpellName: ""},
}

// Spell maps a class index to a spell index. Classes outside the table map
// to NoMatch.
func (t *SpellTable) Spell(class int) int {
	if class < 0 || class >= len(t) {
		return NoMatch
	}
	return t[class].Spell
}

// ClassNames lists the class names in index order.
func (t *SpellTable) ClassNames() []string {
	names := make([]string, len(t))
	for i, e := range t {
		names[i] = e.Class
	}
	return names
}

// ClassIndex finds a class by name.
func (t *SpellTable) ClassIndex(name string) (int, bool) {
	for i, e := range t {
		if e.Class == name {
			return i, true
		}
	}
	return NoMatch, false
}
