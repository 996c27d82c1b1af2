// Package distance provides Euclidean distance kernels for 3D coordinates
// and a condensed pairwise distance matrix.
//
// # Condensed Layout
//
// For n points the matrix stores the n(n-1)/2 upper-triangle entries
// row by row, the layout used by hierarchical clustering codes:
//
//	d(0,1) d(0,2) ... d(0,n-1) d(1,2) ... d(n-2,n-1)
//
// # Usage
//
//	m, _ := distance.Pairwise(points)
//	d := m.At(i, j)
package distance
