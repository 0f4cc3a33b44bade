// Terrain sampling using layered simplex noise.
// Each state takes the terrain found under its position.
package world

import (
	opensimplex "github.com/ojrac/opensimplex-go"
)

// Terrain classifies the land a state sits on.
type Terrain uint8

const (
	TerrainGrassland Terrain = iota
	TerrainForest
	TerrainMountain
	TerrainDesert
)

var terrainNames = [...]string{"Grassland", "Forest", "Mountain", "Desert"}

func (t Terrain) String() string {
	if int(t) < len(terrainNames) {
		return terrainNames[t]
	}
	return "Unknown"
}

// noiseScale maps world units onto noise space. States sit a few hundred
// units apart, so neighbouring states sample visibly different noise.
const noiseScale = 0.004

// TerrainField samples terrain from two independent noise layers.
type TerrainField struct {
	elevation opensimplex.Noise
	rainfall  opensimplex.Noise
}

// NewTerrainField creates a deterministic field for seed.
func NewTerrainField(seed int64) *TerrainField {
	return &TerrainField{
		elevation: opensimplex.NewNormalized(seed),
		rainfall:  opensimplex.NewNormalized(seed + 1),
	}
}

// Sample returns the raw elevation and rainfall at p, both in [0, 1].
func (f *TerrainField) Sample(p Position) (elevation, rainfall float64) {
	elevation = f.elevation.Eval2(p.X*noiseScale, p.Y*noiseScale)
	rainfall = f.rainfall.Eval2(p.X*noiseScale, p.Y*noiseScale)
	return elevation, rainfall
}

// At classifies the terrain at p.
func (f *TerrainField) At(p Position) Terrain {
	elev, rain := f.Sample(p)
	return Classify(elev, rain)
}

// Classify maps elevation and rainfall onto a terrain type.
func Classify(elevation, rainfall float64) Terrain {
	switch {
	case elevation > 0.7:
		return TerrainMountain
	case rainfall < 0.3:
		return TerrainDesert
	case rainfall > 0.6:
		return TerrainForest
	default:
		return TerrainGrassland
	}
}
