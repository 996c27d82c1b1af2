// Package conserve turns flat cluster labels into conservation records.
//
// Group collects point indices per label, Resolve keeps at most one atom per
// structure in each cluster, Score computes the fraction of structures that
// contribute to a cluster, Accept applies the probability threshold,
// Presence builds the audit row of an accepted cluster and Extract projects
// accepted clusters onto the query structure.
package conserve
