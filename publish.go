package cwater

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/hupe1980/cwater/render"
	"github.com/hupe1980/cwater/report"
	"github.com/hupe1980/cwater/structure"
)

// Sink receives the result files of a run. Every blobstore.Store is a Sink.
type Sink interface {
	Put(ctx context.Context, name string, data []byte) error
}

// Outputs are the names of the result files of one query, relative to the
// sink root.
type Outputs struct {
	Presence  string
	Summary   string
	Annotated string
}

// OutputNames returns the result file names for query.
func OutputNames(query structure.Key) Outputs {
	q := query.String()
	return Outputs{
		Presence:  path.Join(q, q+"_clusterPresence.txt"),
		Summary:   path.Join(q, q+"_conservedWaters.json"),
		Annotated: path.Join(q, "cwm_"+q+"_withConservedWaters.pdb"),
	}
}

// Publish writes the result files of res to sink.
//
// The summary is always written. The presence matrix is written when the
// run reached clustering, and the annotated query structure when at least
// one water is conserved and the raw query file is available.
func (f *Finder) Publish(ctx context.Context, res *Result, sink Sink) error {
	start := time.Now()
	err := f.publish(ctx, res, sink)
	f.opts.metricsCollector.RecordStage(StagePublish, time.Since(start), err)
	if err != nil {
		f.opts.logger.ErrorContext(ctx, "publish failed", "query", res.Query.String(), "error", err)
	}
	return err
}

func (f *Finder) publish(ctx context.Context, res *Result, sink Sink) error {
	names := OutputNames(res.Query)

	if res.Status == StatusConserved || res.Status == StatusNoConserved {
		var buf bytes.Buffer
		if err := report.WritePresence(&buf, res.StructureNames(), res.Presence); err != nil {
			return err
		}
		if err := sink.Put(ctx, names.Presence, buf.Bytes()); err != nil {
			return fmt.Errorf("write %s: %w", names.Presence, err)
		}
		f.opts.logger.InfoContext(ctx, "presence matrix written", "name", names.Presence, "rows", len(res.Presence))
	}

	data, err := report.EncodeSummary(f.opts.codec, Summarize(res))
	if err != nil {
		return err
	}
	if err := sink.Put(ctx, names.Summary, data); err != nil {
		return fmt.Errorf("write %s: %w", names.Summary, err)
	}

	if res.Status != StatusConserved || res.query == nil || res.query.Raw == nil {
		return nil
	}
	annotated, err := render.Annotate(res.query.Raw, res.Query.Chain, res.SerialScores())
	if err != nil {
		return err
	}
	if err := sink.Put(ctx, names.Annotated, annotated); err != nil {
		return fmt.Errorf("write %s: %w", names.Annotated, err)
	}
	f.opts.logger.InfoContext(ctx, "annotated structure written",
		"name", names.Annotated,
		"conserved", len(res.Conserved),
	)
	return nil
}

// Summarize converts res into its report form.
func Summarize(res *Result) report.Summary {
	s := report.Summary{
		Query:   res.Query.String(),
		Status:  res.Status.String(),
		Message: res.Status.Message(res.Query),
		Parameters: report.Parameters{
			Refinement:    string(res.Params.Refinement),
			Linkage:       string(res.Params.Linkage),
			Inconsistency: res.Params.Inconsistency,
			Probability:   res.Params.Probability,
			Strict:        res.Strict,
		},
		Structures: res.StructureNames(),
		Waters:     res.Waters,
		Clusters:   res.Clusters,
		Accepted:   res.Accepted,
		Scores:     res.Scores,
	}
	for _, e := range res.Excluded {
		s.Excluded = append(s.Excluded, report.Excluded{Structure: e.Key.String(), Reason: e.Reason, Error: e.Err})
	}
	return s
}
