package tilt

import "github.com/poltergeist/reflector/pkg/types"

// Load returns the load the markers put on the support beams of the scoring
// side: each marker weighs one plus its distance from the opposite edge.
func Load(g *Grid, markers []types.Position, scoring types.Direction) uint64 {
	f := g.frame(scoring.Opposite())

	var total uint64
	for _, p := range markers {
		total += uint64(f.distance(p)) + 1
	}
	return total
}
