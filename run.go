package cwater

import (
	"context"
	"fmt"

	"github.com/hupe1980/cwater/blobstore"
)

// Run validates req, resolves the chain list, loads the structures from
// store and runs Find.
//
// The chain list is req.Structures when set, otherwise src is asked for the
// homologs of req.Query. The query is always part of the run.
func (f *Finder) Run(ctx context.Context, req Request, src ChainSource, store blobstore.Store, prefix string) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	keys := req.Structures
	if len(keys) == 0 {
		if src == nil {
			return nil, invalid("chain source", nil, "required without a custom structure list")
		}
		var err error
		keys, err = src.Chains(ctx, req.Query, req.SeqIdentity, req.Resolution)
		if err != nil {
			return nil, fmt.Errorf("resolve chains of %s: %w", req.Query, err)
		}
	}
	keys = canonicalOrder(req.Query, keys)

	f.opts.logger.InfoContext(ctx, "run started",
		"query", req.Query.String(),
		"structures", len(keys),
		"refinement", string(req.Refinement),
		"linkage", string(req.Linkage),
		"inconsistency", req.Inconsistency,
		"probability", req.Probability,
	)

	structures, excluded, err := f.Load(ctx, store, prefix, req.Query, keys)
	if err != nil {
		return nil, err
	}

	res, err := f.Find(ctx, req.Query, structures, req.Params)
	if err != nil {
		return nil, err
	}
	res.Excluded = append(excluded, res.Excluded...)
	return res, nil
}
