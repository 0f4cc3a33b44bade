// Person spawning for the initial population.
package agents

import (
	"github.com/talgya/mini-market/internal/entropy"
	"github.com/talgya/mini-market/internal/world"
)

// spawnRadius is how far from the city centre a person may be placed.
const spawnRadius = 40.0

// Spawner creates persons with procedural names around a city centre.
type Spawner struct {
	rng entropy.Source
}

// NewSpawner creates a spawner drawing from rng.
func NewSpawner(rng entropy.Source) *Spawner {
	return &Spawner{rng: rng}
}

// Spawn creates one person with gold near centre.
func (s *Spawner) Spawn(gold uint64, centre world.Position) Person {
	pos := centre.Add(
		(s.rng.Float()*2-1)*spawnRadius,
		(s.rng.Float()*2-1)*spawnRadius,
	)
	return NewPerson(s.name(), gold, pos)
}

// SpawnPopulation creates count persons near centre.
func (s *Spawner) SpawnPopulation(count int, gold uint64, centre world.Position) []Person {
	people := make([]Person, 0, count)
	for i := 0; i < count; i++ {
		people = append(people, s.Spawn(gold, centre))
	}
	return people
}

func (s *Spawner) name() string {
	firsts := maleNames
	if s.rng.Float() < 0.5 {
		firsts = femaleNames
	}
	first := firsts[s.rng.Intn(len(firsts))]
	last := lastNames[s.rng.Intn(len(lastNames))]
	return first + " " + last
}

// Name pools for procedural generation.
var maleNames = []string{
	"Aldric", "Bram", "Cedric", "Doran", "Erik", "Finn", "Gareth",
	"Halvard", "Ivan", "Jasper", "Kael", "Leif", "Magnus", "Nils",
	"Oswin", "Per", "Quinn", "Rowan", "Stellan", "Theron", "Ulric",
	"Varen", "Wren", "Yorick", "Zander", "Arlen", "Beric", "Cade",
	"Dorian", "Edric", "Falk", "Gunnar", "Hugo", "Ivar", "Jorik",
}

var femaleNames = []string{
	"Astrid", "Brenna", "Calla", "Daria", "Elara", "Freya", "Greta",
	"Helene", "Iris", "Juno", "Kira", "Lena", "Mira", "Nessa",
	"Olwen", "Petra", "Runa", "Senna", "Thea", "Una", "Vera",
	"Willa", "Yara", "Zara", "Ava", "Birgit", "Cora", "Dagny",
	"Eira", "Fern", "Gwen", "Hilde", "Inga", "Johanna", "Katla",
}

var lastNames = []string{
	"Voss", "Thornwood", "Blackwood", "Ashford", "Ironhand", "Dunmore",
	"Greenvale", "Stormcrow", "Frostborn", "Hearthstone", "Millward",
	"Copperfield", "Ravenmoor", "Silverdale", "Wolfsbane", "Stoneheart",
	"Deepwell", "Brightwater", "Oakenshield", "Redforge", "Windholm",
	"Marshwood", "Goldhaven", "Nightingale", "Riverstone", "Steelworth",
	"Embercroft", "Holloway", "Dawnridge", "Farrow", "Wyatt", "Thatcher",
	"Briar", "Caldwell", "Frost", "Harper", "Mercer", "Ward", "Cross",
}
