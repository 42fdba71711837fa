package engine

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/weldcount/internal/listing"
	"github.com/sells-group/weldcount/internal/model"
)

// Engine runs the full weld-count pipeline. It is stateless between runs;
// the specification source is read-only and shared across parse workers.
type Engine struct {
	Spec    model.SpecificationSource
	Factors Factors
	Charset string // listing file charset, empty = raw bytes
}

// New creates an Engine with default factors.
func New(spec model.SpecificationSource) *Engine {
	return &Engine{Spec: spec, Factors: DefaultFactors()}
}

// Result is the complete output of one pipeline run: every per-entity row
// set from the analysis stages plus the final tally.
type Result struct {
	Branches       model.BranchMap             `json:"-"`
	Components     []model.Component           `json:"components"`
	ConnectedPairs []model.ConnectedBranchPair `json:"connected_pairs"`
	Welds          []model.ComponentWeld       `json:"welds"`
	Adjacency      []model.AdjacencyRecord     `json:"adjacency"`
	BranchEnds     []model.BranchEndRecord     `json:"branch_ends"`
	Tally          model.WeldTally             `json:"tally"`
}

// RunFiles parses the given listing files in parallel, merges them by
// branch and component id, and runs the analysis stages over the merged
// maps. An unreadable file is fatal; malformed records inside a readable
// file are recovered per record.
func (e *Engine) RunFiles(ctx context.Context, paths []string) (*Result, error) {
	type parsed struct {
		branches   listing.BranchResult
		components listing.ComponentResult
	}
	results := make([]parsed, len(paths))

	g, _ := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			text, err := listing.ReadFile(path, e.Charset)
			if err != nil {
				return err
			}
			results[i] = parsed{
				branches:   listing.ExtractBranches(text, path),
				components: listing.ExtractComponents(text, path),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Merge serially in path order so cross-file analysis sees a globally
	// consistent branch map and last-write-wins stays deterministic.
	branches := make(model.BranchMap)
	var components []model.Component
	dropped := 0
	for _, r := range results {
		for id, b := range r.branches.Branches {
			if _, dup := branches[id]; dup {
				zap.L().Info("engine: branch id seen in multiple listings, keeping latest",
					zap.String("branch", id))
			}
			branches[id] = b
		}
		components = append(components, r.components.Components...)
		dropped += r.branches.Dropped
	}

	return e.Analyze(branches, components, dropped), nil
}

// Analyze runs the serial analysis stages over an already-merged branch map
// and component list. Stages are pure; each counter in the tally is computed
// exactly once.
func (e *Engine) Analyze(branches model.BranchMap, components []model.Component, droppedBranches int) *Result {
	pairs := MatchConnectedBranches(branches)
	cross := CrossReference(components, e.Spec)
	adj := AnalyzeAdjacency(components, e.Spec, e.Factors)
	ends := ReconcileBranchEnds(branches, components, e.Factors)

	stats := RunStats{
		Branches:             len(branches),
		Components:           len(components),
		DroppedBranches:      droppedBranches,
		ConnectedBranchPairs: len(pairs),
	}
	tally := Aggregate(cross, adj, ends, stats)

	zap.L().Info("engine: run complete",
		zap.Int("branches", stats.Branches),
		zap.Int("components", stats.Components),
		zap.Int("component_welds", tally.ComponentWelds),
		zap.Int("bwd_branch_ends", tally.BWDBranchEnds),
		zap.Int("touching_pairs", tally.TouchingPairs),
		zap.Int("components_at_bwd_ends", tally.ComponentsAtBWDEnds),
		zap.Int("total_welds", tally.Total),
		zap.Int("unmatched_spec", tally.UnmatchedSpec),
	)

	return &Result{
		Branches:       branches,
		Components:     components,
		ConnectedPairs: pairs,
		Welds:          cross.Welds,
		Adjacency:      adj.Records,
		BranchEnds:     ends.Records,
		Tally:          tally,
	}
}
