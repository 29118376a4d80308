// Package patch is the operation-level entry point to the allocation
// engine: auto-assign a fixture, validate a manual assignment, plan a
// batch, or render a channel map. It is the seam between the pure
// engine in internal/dmx and the external inventory service.
//
// There is no state machine here. Every call fetches a fresh patch
// snapshot, builds the occupancy map, runs the engine, and discards
// both — which makes the facade safe for concurrent callers at the
// cost of the documented check-then-act window before persistence.
package patch

import (
	"context"
	"fmt"

	"github.com/lumecue/lumecue/internal/dmx"
	"github.com/lumecue/lumecue/internal/inventory"
	"github.com/lumecue/lumecue/internal/library"
	"github.com/lumecue/lumecue/internal/logging"
)

// Resolver resolves a manufacturer/model/mode triple against the
// fixture-definition library. Satisfied by *library.Store.
type Resolver interface {
	Resolve(manufacturer, model, mode string) (*library.Resolved, error)
}

// Patcher composes the engine with the inventory snapshot source and
// the definition library.
type Patcher struct {
	inv inventory.Source
	lib Resolver
	log logging.Logger
}

// New creates a Patcher. lib may be nil when no definition library is
// available; specs then rely on explicit counts or the engine default.
func New(inv inventory.Source, lib Resolver, log logging.Logger) *Patcher {
	return &Patcher{inv: inv, lib: lib, log: log}
}

// channelMap fetches the current patch snapshot for one universe and
// derives its occupancy.
func (p *Patcher) channelMap(ctx context.Context, projectID string, universe int) (*dmx.ChannelMap, error) {
	patches, err := p.inv.ListFixturePatches(ctx, projectID, universe)
	if err != nil {
		return nil, err
	}
	return dmx.BuildChannelMap(universe, patches), nil
}

// ChannelMap returns the read-only occupancy view of a universe.
func (p *Patcher) ChannelMap(ctx context.Context, projectID string, universe int) (*dmx.ChannelMap, error) {
	if universe < 1 {
		return nil, fmt.Errorf("universe must be positive, got %d", universe)
	}
	return p.channelMap(ctx, projectID, universe)
}

// AutoAssign finds the first free block of channelCount channels in the
// universe, searching from channel 1. The returned start channel is a
// proposal only — nothing is persisted.
func (p *Patcher) AutoAssign(ctx context.Context, projectID string, universe, channelCount int) (int, error) {
	m, err := p.channelMap(ctx, projectID, universe)
	if err != nil {
		return 0, err
	}

	start, err := dmx.FindBlock(m, 1, channelCount)
	if err != nil {
		return 0, err
	}

	p.log.With(logging.Fields{"universe": universe, "start": start, "count": channelCount}).
		Debugf("auto-assigned channel block")
	return start, nil
}

// ValidateManual checks a caller-specified channel range against the
// current occupancy. A nil return means the range is clear in this
// snapshot; the inventory's uniqueness constraint remains the final
// arbiter at persist time.
func (p *Patcher) ValidateManual(ctx context.Context, projectID string, universe, startChannel, channelCount int) error {
	m, err := p.channelMap(ctx, projectID, universe)
	if err != nil {
		return err
	}
	return dmx.ValidateRange(m, startChannel, channelCount)
}

// PlanBatch resolves channel counts for a batch of specs and plans
// their assignments. Specs without an explicit count are resolved
// against the definition library (also filling in the type category
// used by by_function grouping); unresolvable specs fall back to the
// engine default.
func (p *Patcher) PlanBatch(ctx context.Context, projectID string, universe int, specs []dmx.FixtureSpec, startingChannel int, strategy dmx.GroupingStrategy) (*dmx.AssignmentPlan, error) {
	resolved, err := p.resolveSpecs(specs)
	if err != nil {
		return nil, err
	}

	m, err := p.channelMap(ctx, projectID, universe)
	if err != nil {
		return nil, err
	}
	return dmx.Plan(m, resolved, startingChannel, strategy)
}

// ResolveSpec fills a single spec's channel count and type from the
// library. Used by fixture creation as well as batch planning.
func (p *Patcher) ResolveSpec(spec dmx.FixtureSpec) (dmx.FixtureSpec, *library.Resolved, error) {
	if p.lib == nil || spec.Manufacturer == "" || spec.Model == "" {
		return spec, nil, nil
	}

	res, err := p.lib.Resolve(spec.Manufacturer, spec.Model, spec.Mode)
	if err != nil {
		return spec, nil, fmt.Errorf("resolving %s %s: %w", spec.Manufacturer, spec.Model, err)
	}
	if res == nil {
		return spec, nil, nil
	}

	if spec.ChannelCount == 0 {
		spec.ChannelCount = res.Mode.ChannelCount
	}
	if spec.Type == "" {
		spec.Type = res.Definition.Type
	}
	if spec.Mode == "" {
		spec.Mode = res.Mode.Name
	}
	return spec, res, nil
}

func (p *Patcher) resolveSpecs(specs []dmx.FixtureSpec) ([]dmx.FixtureSpec, error) {
	out := make([]dmx.FixtureSpec, len(specs))
	for i, spec := range specs {
		resolved, _, err := p.ResolveSpec(spec)
		if err != nil {
			return nil, err
		}
		out[i] = resolved
	}
	return out, nil
}
