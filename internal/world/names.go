package world

import (
	"strconv"

	"github.com/talgya/mini-market/internal/entropy"
)

var placePrefixes = []string{
	"Iron", "Green", "Ash", "Stone", "Mill", "Cross", "Black",
	"Silver", "Red", "White", "Dark", "Bright", "High", "Low",
	"Old", "New", "Far", "Deep", "Long", "Broad", "Gold", "Frost",
	"Storm", "Thorn", "Elm", "Oak", "Pine", "Copper", "River",
}

var placeSuffixes = []string{
	"haven", "ford", "hollow", "wick", "bridge", "gate", "keep",
	"stead", "wood", "field", "dale", "crest", "vale", "port",
	"town", "bury", "marsh", "well", "brook", "cliff", "moor",
	"ridge", "watch", "fall", "rest", "point", "reach", "helm",
}

// PlaceNames produces count distinct procedural names by combining syllables.
// A combination drawn twice gets a numeric suffix instead of a redraw.
func PlaceNames(rng entropy.Source, count int) []string {
	used := make(map[string]bool, count)
	names := make([]string, 0, count)

	for len(names) < count {
		name := placePrefixes[rng.Intn(len(placePrefixes))] + placeSuffixes[rng.Intn(len(placeSuffixes))]
		if used[name] {
			name += " " + strconv.Itoa(len(names)+1)
		}
		used[name] = true
		names = append(names, name)
	}

	return names
}
