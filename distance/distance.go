package distance

import (
	"errors"
	"fmt"
	"math"
)

// ErrTooFewPoints is returned when a pairwise matrix is requested for
// fewer than two points.
var ErrTooFewPoints = errors.New("distance: at least two points required")

// Point is a 3D coordinate.
type Point = [3]float64

// SquaredL2 calculates the squared Euclidean distance between two points.
func SquaredL2(a, b Point) float64 {
	dx := a[0] - b[0]
	dy := a[1] - b[1]
	dz := a[2] - b[2]
	return dx*dx + dy*dy + dz*dz
}

// Euclidean calculates the Euclidean distance between two points.
func Euclidean(a, b Point) float64 {
	return math.Sqrt(SquaredL2(a, b))
}

// Condensed is an upper-triangle pairwise distance matrix.
type Condensed struct {
	n    int
	data []float64
}

// Size returns the number of entries needed for n points.
func Size(n int) int {
	if n < 2 {
		return 0
	}
	return n * (n - 1) / 2
}

// Bytes returns the memory needed for the condensed matrix of n points.
func Bytes(n int) int64 {
	return int64(Size(n)) * 8
}

// Pairwise computes all pairwise Euclidean distances.
func Pairwise(points []Point) (*Condensed, error) {
	n := len(points)
	if n < 2 {
		return nil, ErrTooFewPoints
	}
	data := make([]float64, Size(n))
	k := 0
	for i := 0; i < n-1; i++ {
		pi := points[i]
		for j := i + 1; j < n; j++ {
			data[k] = Euclidean(pi, points[j])
			k++
		}
	}
	return &Condensed{n: n, data: data}, nil
}

// N returns the number of points.
func (c *Condensed) N() int { return c.n }

// Index returns the condensed offset of the pair (i, j), i != j.
func (c *Condensed) Index(i, j int) int {
	if i > j {
		i, j = j, i
	}
	return c.n*i - i*(i+1)/2 + j - i - 1
}

// At returns the distance between points i and j.
func (c *Condensed) At(i, j int) float64 {
	if i == j {
		return 0
	}
	return c.data[c.Index(i, j)]
}

// Set overwrites the distance between points i and j.
func (c *Condensed) Set(i, j int, d float64) {
	if i == j {
		panic(fmt.Sprintf("distance: diagonal entry (%d,%d) is not stored", i, j))
	}
	c.data[c.Index(i, j)] = d
}
