package cwater

import (
	"context"
	"path"
	"sort"
	"strings"

	"github.com/hupe1980/cwater/blobstore"
	"github.com/hupe1980/cwater/structure"
)

// ChainSource resolves the homologous chains of a query.
type ChainSource interface {
	Chains(ctx context.Context, query structure.Key, seqIdentity int, resolution float64) ([]structure.Key, error)
}

// ChainSourceFunc adapts a function to ChainSource.
type ChainSourceFunc func(ctx context.Context, query structure.Key, seqIdentity int, resolution float64) ([]structure.Key, error)

// Chains implements ChainSource.
func (f ChainSourceFunc) Chains(ctx context.Context, query structure.Key, seqIdentity int, resolution float64) ([]structure.Key, error) {
	return f(ctx, query, seqIdentity, resolution)
}

// StaticChains is a fixed chain list. It ignores the identity and
// resolution cutoffs.
type StaticChains []structure.Key

// Chains implements ChainSource.
func (s StaticChains) Chains(context.Context, structure.Key, int, float64) ([]structure.Key, error) {
	return append([]structure.Key(nil), s...), nil
}

// StoreChains uses every structure file found in a store, for example a
// directory that already holds the superimposed homologs of the query.
// The identity and resolution cutoffs are assumed to have been applied when
// the directory was populated.
type StoreChains struct {
	Store  blobstore.Store
	Prefix string
}

// Chains implements ChainSource. Keys are returned sorted.
func (s StoreChains) Chains(ctx context.Context, _ structure.Key, _ int, _ float64) ([]structure.Key, error) {
	names, err := s.Store.List(ctx, s.Prefix)
	if err != nil {
		return nil, err
	}

	seen := make(map[structure.Key]bool)
	var keys []structure.Key
	for _, name := range names {
		base := path.Base(name)
		for _, ext := range structure.Extensions {
			if !strings.HasSuffix(base, ext) {
				continue
			}
			k, err := structure.ParseKey(strings.TrimSuffix(base, ext))
			if err == nil && !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
			break
		}
	}

	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys, nil
}

// canonicalOrder removes duplicates, keeping the first occurrence, and moves
// query to the front, inserting it when absent.
func canonicalOrder(query structure.Key, keys []structure.Key) []structure.Key {
	out := make([]structure.Key, 0, len(keys)+1)
	out = append(out, query)
	seen := map[structure.Key]bool{query: true}
	for _, k := range keys {
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}
