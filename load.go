package cwater

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/hupe1980/cwater/blobstore"
	"github.com/hupe1980/cwater/structure"
	"golang.org/x/sync/errgroup"
)

// errMissing marks a structure with no file under any known extension.
var errMissing = errors.New("no structure file found")

// Load reads the structure files of keys from store in parallel.
//
// Files are looked up as "<prefix>/<id>_<chain>.pdb" with the compressed
// variants tried in order. A structure that is missing or fails to parse is
// returned as an Exclusion, except the query whose failure aborts with
// ErrQueryUnavailable. The query keeps its raw file contents for rendering.
// Structures keep the order of keys.
func (f *Finder) Load(ctx context.Context, store blobstore.Store, prefix string, query structure.Key, keys []structure.Key) ([]*structure.Structure, []Exclusion, error) {
	start := time.Now()
	loaded := make([]*structure.Structure, len(keys))
	failures := make([]error, len(keys))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.res.Workers())
	for i, key := range keys {
		i, key := i, key
		g.Go(func() error {
			s, err := f.loadOne(gctx, store, prefix, key, key == query)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				if key == query {
					return fmt.Errorf("%w: %s: %w", ErrQueryUnavailable, key, err)
				}
				failures[i] = err
				return nil
			}
			loaded[i] = s
			return nil
		})
	}
	err := g.Wait()
	f.opts.metricsCollector.RecordStage(StageLoad, time.Since(start), err)
	if err != nil {
		f.opts.logger.ErrorContext(ctx, "load failed", "query", query.String(), "error", err)
		return nil, nil, err
	}

	var (
		structures []*structure.Structure
		excluded   []Exclusion
	)
	for i, key := range keys {
		if failures[i] != nil {
			reason := ReasonParse
			if errors.Is(failures[i], errMissing) {
				reason = ReasonMissing
			}
			excluded = append(excluded, Exclusion{Key: key, Reason: reason, Err: failures[i].Error()})
			f.opts.metricsCollector.RecordExcluded(reason)
			f.opts.logger.LogLoad(ctx, key, 0, failures[i])
			continue
		}
		f.opts.logger.LogLoad(ctx, key, loaded[i].Len(), nil)
		if c := loaded[i].Collisions; len(c) > 0 {
			f.opts.logger.WarnContext(ctx, "duplicate water serials skipped",
				"structure", key.String(),
				"serials", c,
			)
		}
		structures = append(structures, loaded[i])
	}
	return structures, excluded, nil
}

func (f *Finder) loadOne(ctx context.Context, store blobstore.Store, prefix string, key structure.Key, keepRaw bool) (*structure.Structure, error) {
	for _, name := range structure.FileNames(key) {
		full := name
		if prefix != "" {
			full = path.Join(prefix, name)
		}
		rc, err := store.Open(ctx, full)
		if errors.Is(err, blobstore.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", full, err)
		}
		s, err := f.decode(ctx, full, rc, key, keepRaw)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("%w for %s", errMissing, key)
}

func (f *Finder) decode(ctx context.Context, name string, rc io.ReadCloser, key structure.Key, keepRaw bool) (*structure.Structure, error) {
	defer rc.Close()
	return structure.Decode(name, f.res.NewReader(ctx, rc), key, keepRaw)
}
