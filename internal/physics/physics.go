// Package physics provides collision detection and distance utilities.
package physics

import "math"

// Distance calculates the Euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx + dy*dy
}

// CirclesOverlap checks if two circles overlap. Touching circles do not.
func CirclesOverlap(x1, y1, r1, x2, y2, r2 float64) bool {
	minDist := r1 + r2
	return DistanceSquared(x1, y1, x2, y2) < minDist*minDist
}

// SquaresCollide treats two squares as circles inscribed in their boxes and
// reports whether the centers are closer than the mean of their sides.
// Squares are given by top-left corner and side length.
func SquaresCollide(ax, ay, aSize, bx, by, bSize float64) bool {
	return CirclesOverlap(ax+aSize/2, ay+aSize/2, aSize/2, bx+bSize/2, by+bSize/2, bSize/2)
}
