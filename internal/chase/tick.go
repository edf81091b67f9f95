package chase

import "math"

// RoundToTick floors a price to the nearest tick multiple. The floor applies
// to both sides; on a sell chase this rounds the target away from the ask
// rather than toward it. Pinned by tests.
func RoundToTick(px, tick float64) float64 {
	return math.Floor(px/tick) * tick
}
