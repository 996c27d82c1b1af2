package cwater

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/cwater/distance"
	"github.com/hupe1980/cwater/internal/collect"
	"github.com/hupe1980/cwater/internal/conserve"
	"github.com/hupe1980/cwater/internal/hcluster"
	"github.com/hupe1980/cwater/internal/refine"
	"github.com/hupe1980/cwater/internal/resource"
	"github.com/hupe1980/cwater/structure"
	"golang.org/x/sync/errgroup"
)

// Finder runs the conserved water pipeline. A Finder holds no per-run
// state and is safe for concurrent use.
type Finder struct {
	opts options
	res  *resource.Controller
}

// New creates a Finder.
func New(optFns ...Option) *Finder {
	o := applyOptions(optFns)
	return &Finder{
		opts: o,
		res: resource.NewController(resource.Config{
			MemoryLimitBytes:     o.memoryLimit,
			MaxWorkers:           o.concurrency,
			ReadLimitBytesPerSec: o.readLimit,
		}),
	}
}

// Logger returns the configured logger.
func (f *Finder) Logger() *Logger { return f.opts.logger }

// Find clusters the waters of structures and scores them for query.
//
// structures are taken in the given order with query moved to the front;
// repeated keys keep their first occurrence. query must be among them.
// Insufficient data is reported through Result.Status with a nil error.
func (f *Finder) Find(ctx context.Context, query structure.Key, structures []*structure.Structure, params Params) (*Result, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	mode, _ := params.Refinement.mode()
	method, _ := params.Linkage.method()

	ordered, err := orderStructures(query, structures)
	if err != nil {
		return nil, err
	}

	log := f.opts.logger.WithQuery(query)
	res := newResult(query, params, f.opts.strict)
	res.query = ordered[0]

	kept, err := f.filter(ctx, log, ordered, mode, res)
	if err != nil {
		return nil, err
	}
	res.Structures = make([]structure.Key, len(kept))
	for i, s := range kept {
		res.Structures[i] = s.Key
	}

	if len(kept) < MinStructures {
		res.Status = StatusTooFewStructures
		log.LogResult(ctx, res)
		return res, nil
	}

	start := time.Now()
	ps, err := collect.Collect(kept, f.opts.maxWaters)
	err = translateError(err, 0, 0)
	f.opts.metricsCollector.RecordStage(StageCollect, time.Since(start), err)
	log.LogCollect(ctx, len(kept), collect.Count(kept), err)
	if err != nil {
		return nil, err
	}
	res.Waters = ps.Len()

	switch ps.Len() {
	case 0:
		res.Status = StatusNoWaters
		log.LogResult(ctx, res)
		return res, nil
	case 1:
		res.Status = StatusSingleWater
		log.LogResult(ctx, res)
		return res, nil
	}

	start = time.Now()
	labels, err := f.cluster(ctx, ps, method, params.Inconsistency)
	f.opts.metricsCollector.RecordStage(StageCluster, time.Since(start), err)
	if err != nil {
		log.LogClustering(ctx, ps.Len(), 0, 0, err)
		return nil, err
	}

	start = time.Now()
	clusters, dropped := conserve.Resolve(conserve.Group(labels), ps.Owner)
	log.LogClustering(ctx, ps.Len(), len(clusters), dropped, nil)

	records := conserve.Score(clusters, ps.Owner, len(kept))
	accepted := conserve.Accept(records, conserve.Threshold{Probability: params.Probability, Strict: f.opts.strict})
	res.Presence = make([]PresenceRow, len(accepted))
	for i, r := range accepted {
		res.Presence[i] = conserve.Presence(r, ps.Owner, ps.Serials, len(kept))
	}

	ex := conserve.Extract(accepted, ps.Owner, ps.Serials, ps.IDs, 0)
	res.Clusters = len(clusters)
	res.Accepted = len(accepted)
	res.Scores = ex.Scores
	res.Retained = ex.Retained
	res.Conserved = ex.Waters
	f.opts.metricsCollector.RecordStage(StageScore, time.Since(start), nil)
	f.opts.metricsCollector.RecordClusters(res.Waters, res.Clusters, res.Accepted)

	if len(res.Scores) > 0 {
		res.Status = StatusConserved
	} else {
		res.Status = StatusNoConserved
	}
	log.LogResult(ctx, res)
	return res, nil
}

// orderStructures puts query first and drops nil entries and repeats.
func orderStructures(query structure.Key, structures []*structure.Structure) ([]*structure.Structure, error) {
	byKey := make(map[structure.Key]*structure.Structure, len(structures))
	keys := make([]structure.Key, 0, len(structures))
	for _, s := range structures {
		if s == nil {
			continue
		}
		if _, ok := byKey[s.Key]; ok {
			continue
		}
		byKey[s.Key] = s
		keys = append(keys, s.Key)
	}
	if _, ok := byKey[query]; !ok {
		return nil, fmt.Errorf("%w: %s not among the structures", ErrQueryUnavailable, query)
	}

	keys = canonicalOrder(query, keys)
	ordered := make([]*structure.Structure, len(keys))
	for i, k := range keys {
		ordered[i] = byKey[k]
	}
	return ordered, nil
}

// filter refines every structure in parallel and returns the survivors in
// canonical order. The query is only refined with WithQueryRefinement and
// is never excluded.
func (f *Finder) filter(ctx context.Context, log *Logger, ordered []*structure.Structure, mode refine.Mode, res *Result) ([]*structure.Structure, error) {
	start := time.Now()
	outcomes := make([]refine.Outcome, len(ordered))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.res.Workers())
	for i, s := range ordered {
		i, s := i, s
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			cfg := f.refineConfig(mode)
			if i == 0 && !f.opts.refineQuery {
				cfg.Mode = refine.None
			}
			if s.Len() == 0 {
				outcomes[i] = refine.Outcome{}
				return nil
			}
			out, err := refine.Apply(s.Waters, cfg, i == 0)
			if err != nil {
				return fmt.Errorf("refine %s: %w", s.Key, err)
			}
			outcomes[i] = out
			return nil
		})
	}
	err := g.Wait()
	f.opts.metricsCollector.RecordStage(StageFilter, time.Since(start), err)
	if err != nil {
		return nil, err
	}

	kept := make([]*structure.Structure, 0, len(ordered))
	for i, s := range ordered {
		out := outcomes[i]
		log.LogFilter(ctx, s.Key, out.Total, out.Removed, out.Excluded, out.Degenerate)
		if out.Excluded {
			res.Excluded = append(res.Excluded, Exclusion{Key: s.Key, Reason: ReasonRefinement})
			f.opts.metricsCollector.RecordExcluded(ReasonRefinement)
			continue
		}
		kept = append(kept, s.WithWaters(out.Kept))
	}
	return kept, nil
}

func (f *Finder) refineConfig(mode refine.Mode) refine.Config {
	cfg := refine.Config{Mode: mode}
	switch mode {
	case refine.Mobility:
		cfg.Cutoff = f.opts.mobilityCutoff
	case refine.NormalizedBFactor:
		cfg.Cutoff = f.opts.normalizedCutoff
	}
	return cfg
}

// cluster builds the dendrogram of ps under the memory budget and cuts it.
func (f *Finder) cluster(ctx context.Context, ps *collect.PointSet, method hcluster.Method, t float64) ([]int, error) {
	n := ps.Len()
	bytes := distance.Bytes(n)
	if err := f.res.ReserveMemory(bytes); err != nil {
		return nil, translateError(err, n, bytes)
	}
	defer f.res.ReleaseMemory(bytes)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m, err := distance.Pairwise(ps.Points)
	if err != nil {
		return nil, err
	}
	d, err := hcluster.Linkage(ctx, m, method)
	if err != nil {
		return nil, err
	}
	return d.Cut(t), nil
}
