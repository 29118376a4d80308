package patch

import (
	"context"
	"errors"
	"testing"

	"github.com/lumecue/lumecue/internal/dmx"
	"github.com/lumecue/lumecue/internal/inventory"
	"github.com/lumecue/lumecue/internal/library"
	"github.com/lumecue/lumecue/internal/logging"
)

// fakeSource serves a fixed patch snapshot, or an error.
type fakeSource struct {
	patches []dmx.FixturePatch
	err     error
	calls   int
}

func (f *fakeSource) ListFixturePatches(ctx context.Context, projectID string, universe int) ([]dmx.FixturePatch, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []dmx.FixturePatch
	for _, p := range f.patches {
		if universe == 0 || p.Universe == universe {
			out = append(out, p)
		}
	}
	return out, nil
}

// fakeResolver resolves one known fixture.
type fakeResolver struct{}

func (fakeResolver) Resolve(manufacturer, model, mode string) (*library.Resolved, error) {
	if manufacturer != "Chauvet" {
		return nil, nil
	}
	return &library.Resolved{
		Definition: library.Definition{Manufacturer: "Chauvet", Model: model, Type: library.CategoryLEDPar},
		Mode:       library.Mode{Name: "8-channel", ChannelCount: 8},
	}, nil
}

func newTestPatcher(src inventory.Source) *Patcher {
	return New(src, fakeResolver{}, logging.Discard())
}

func TestAutoAssign(t *testing.T) {
	src := &fakeSource{patches: []dmx.FixturePatch{
		{FixtureID: "fx-1", Name: "House", Universe: 1, StartChannel: 1, ChannelCount: 6},
	}}
	p := newTestPatcher(src)

	start, err := p.AutoAssign(context.Background(), "proj", 1, 4)
	if err != nil {
		t.Fatalf("AutoAssign failed: %v", err)
	}
	if start != 7 {
		t.Errorf("start = %d, want 7", start)
	}
}

func TestAutoAssign_CapacityBound(t *testing.T) {
	src := &fakeSource{patches: []dmx.FixturePatch{
		{FixtureID: "fx-1", Name: "Wall", Universe: 1, StartChannel: 1, ChannelCount: 510},
	}}
	p := newTestPatcher(src)

	_, err := p.AutoAssign(context.Background(), "proj", 1, 3)
	var capErr *dmx.CapacityError
	if !errors.As(err, &capErr) {
		t.Fatalf("expected *dmx.CapacityError, got %v", err)
	}
}

func TestAutoAssign_UpstreamNotMasked(t *testing.T) {
	src := &fakeSource{err: &inventory.UpstreamError{Op: "list fixtures", Err: errors.New("boom")}}
	p := newTestPatcher(src)

	_, err := p.AutoAssign(context.Background(), "proj", 1, 4)
	var upstream *inventory.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("upstream failure must propagate unchanged, got %v", err)
	}
	var capErr *dmx.CapacityError
	if errors.As(err, &capErr) {
		t.Error("upstream failure must not be masked as capacity exhaustion")
	}
}

func TestValidateManual_Conflict(t *testing.T) {
	src := &fakeSource{patches: []dmx.FixturePatch{
		{FixtureID: "fx-1", Name: "Par1", Universe: 1, StartChannel: 5, ChannelCount: 4},
	}}
	p := newTestPatcher(src)

	err := p.ValidateManual(context.Background(), "proj", 1, 6, 3)
	var conflict *dmx.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected *dmx.ConflictError, got %v", err)
	}
	if conflict.FixtureName != "Par1" || conflict.Channel != 6 {
		t.Errorf("conflict = %q at %d, want Par1 at 6", conflict.FixtureName, conflict.Channel)
	}
}

func TestValidateManual_Ok(t *testing.T) {
	src := &fakeSource{}
	p := newTestPatcher(src)

	if err := p.ValidateManual(context.Background(), "proj", 1, 100, 8); err != nil {
		t.Errorf("expected clear range, got %v", err)
	}
}

func TestPlanBatch_ResolvesCountsFromLibrary(t *testing.T) {
	src := &fakeSource{}
	p := newTestPatcher(src)

	specs := []dmx.FixtureSpec{
		{Name: "Par L", Manufacturer: "Chauvet", Model: "SlimPAR"},
		{Name: "Unknown Thing", Manufacturer: "Acme", Model: "X"},
	}
	plan, err := p.PlanBatch(context.Background(), "proj", 1, specs, 1, dmx.GroupSequential)
	if err != nil {
		t.Fatalf("PlanBatch failed: %v", err)
	}

	if got := plan.Assignments[0].ChannelCount; got != 8 {
		t.Errorf("library-resolved count = %d, want 8", got)
	}
	if got := plan.Assignments[1].ChannelCount; got != dmx.DefaultChannelCount {
		t.Errorf("unresolvable spec count = %d, want default %d", got, dmx.DefaultChannelCount)
	}
}

func TestPlanBatch_ExplicitCountWins(t *testing.T) {
	p := newTestPatcher(&fakeSource{})

	specs := []dmx.FixtureSpec{
		{Name: "Par", Manufacturer: "Chauvet", Model: "SlimPAR", ChannelCount: 3},
	}
	plan, err := p.PlanBatch(context.Background(), "proj", 1, specs, 1, dmx.GroupSequential)
	if err != nil {
		t.Fatalf("PlanBatch failed: %v", err)
	}
	if got := plan.Assignments[0].ChannelCount; got != 3 {
		t.Errorf("explicit count = %d, want 3", got)
	}
}

func TestChannelMap_FreshSnapshotPerCall(t *testing.T) {
	src := &fakeSource{}
	p := newTestPatcher(src)

	if _, err := p.ChannelMap(context.Background(), "proj", 1); err != nil {
		t.Fatalf("ChannelMap failed: %v", err)
	}
	if _, err := p.ChannelMap(context.Background(), "proj", 1); err != nil {
		t.Fatalf("ChannelMap failed: %v", err)
	}
	if src.calls != 2 {
		t.Errorf("expected a fetch per call (no caching), got %d fetches", src.calls)
	}
}

func TestChannelMap_RejectsBadUniverse(t *testing.T) {
	p := newTestPatcher(&fakeSource{})
	if _, err := p.ChannelMap(context.Background(), "proj", 0); err == nil {
		t.Error("universe 0 should be rejected")
	}
}
