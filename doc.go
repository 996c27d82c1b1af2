// Package cwater finds conserved water molecules across superimposed
// homologous protein structures.
//
// A run takes the water oxygens of a query chain and of its homologs, drops
// mobile waters, clusters the merged coordinates hierarchically and scores
// every cluster by the fraction of structures that contribute a water to it.
// Query waters in clusters at or above the probability cutoff are conserved.
//
// # Quick Start
//
// In-memory structures:
//
//	f := cwater.New()
//	res, err := f.Find(ctx, query, structures, cwater.DefaultParams())
//	for _, w := range res.Conserved {
//		fmt.Println(w.ID, w.Score)
//	}
//
// Structure files from a store:
//
//	store := blobstore.NewLocalStore("./pdb")
//	req := cwater.DefaultRequest(structure.NewKey("1abc", "A"))
//	req.Structures, _ = cwater.ParseStructureList("2xyz_A,3pqr_B")
//	res, err := f.Run(ctx, req, nil, store, "")
//	err = f.Publish(ctx, res, out)
//
// # Pipeline
//
//	load → refine → collect → cluster → resolve → score → extract
//
// Loading and refinement fan out per structure. Every other stage is
// sequential and works on the canonical structure order, query first.
//
// # Outcomes
//
// Runs that cannot produce conserved waters are not errors. Result.Status
// reports StatusTooFewStructures, StatusNoWaters, StatusSingleWater or
// StatusNoConserved. Errors are reserved for invalid input
// (ErrInvalidInput), exhausted resources (ErrResourceExhausted) and an
// unreadable query (ErrQueryUnavailable).
//
// # Resources
//
// The merged point set is capped by WithMaxWaters (50,000 by default). The
// condensed distance matrix can additionally be bounded with
// WithMemoryLimit, and structure reads with WithReadLimit.
package cwater
