// Package hcluster implements agglomerative hierarchical clustering of 3D
// points and the flat "distance" cut used to turn the tree into clusters.
//
// The tree is built with the nearest-neighbour chain algorithm, which runs in
// O(n²) time on a condensed distance matrix for the reducible linkages
// supported here (single, complete, average). Merge heights are updated with
// the Lance-Williams formulas.
//
// Merges are reported in the layout of a SciPy linkage matrix: observations
// are numbered 0..n-1 and the cluster formed by merge i is numbered n+i.
package hcluster
