// Package dmx implements the DMX channel allocation and patching engine.
//
// A universe is an independently addressable space of 512 control channels
// (1-based). The engine decides which channels a fixture occupies, detects
// conflicts, computes occupancy statistics, and plans assignments for
// batches of fixtures. It owns no persistent state: every operation is a
// pure function of a request-scoped snapshot of fixture patches, rebuilt
// on each call from the external inventory. This keeps the engine safe to
// invoke concurrently and eliminates stale-allocator bugs.
//
// The engine cannot prevent check-then-act races against the inventory:
// two concurrent callers can both observe the same free block and both
// propose it. Callers that need strict exclusivity must serialize the
// assign-then-persist sequence externally, or rely on the inventory store
// rejecting duplicate (universe, channel) pairs and treat that rejection
// as the authoritative signal.
package dmx

import (
	"fmt"
	"sort"
	"strings"
)

const (
	// UniverseSize is the number of addressable channels in one DMX universe.
	UniverseSize = 512

	// DefaultChannelCount is assumed for fixture specs that carry no
	// explicit channel count and can't be resolved against a definition.
	DefaultChannelCount = 4
)

// ChannelTypeUnknown marks an occupied slot whose channel-type metadata
// is absent from the inventory snapshot.
const ChannelTypeUnknown = "UNKNOWN"

// FixturePatch is the assignment of a contiguous channel range within a
// universe to a fixture, as reported by the inventory service.
type FixturePatch struct {
	FixtureID    string `json:"fixtureId"`
	Name         string `json:"name"`
	Universe     int    `json:"universe"`
	StartChannel int    `json:"startChannel"`
	ChannelCount int    `json:"channelCount"`

	// ChannelTypes holds the semantic type per channel offset
	// (e.g. INTENSITY, RED, PAN). May be shorter than ChannelCount
	// or nil when the inventory has no channel metadata.
	ChannelTypes []string `json:"channelTypes,omitempty"`
}

// EndChannel returns the last channel the patch occupies.
func (p FixturePatch) EndChannel() int {
	return p.StartChannel + p.ChannelCount - 1
}

// ChannelSlot is one of the 512 positions within a universe. The zero
// value means the slot is free; an occupied slot carries the owning
// fixture's identity and the semantic type of the control channel at
// that offset.
type ChannelSlot struct {
	FixtureID   string `json:"fixtureId,omitempty"`
	FixtureName string `json:"fixtureName,omitempty"`
	ChannelType string `json:"channelType,omitempty"`
}

// Free reports whether the slot is unoccupied.
func (s ChannelSlot) Free() bool { return s.FixtureID == "" }

// ChannelMap is a derived occupancy view over one universe. It has no
// independent lifecycle: built on demand from a patch snapshot and
// discarded after the call that requested it.
type ChannelMap struct {
	Universe int
	Slots    [UniverseSize]ChannelSlot
}

// FixtureSpec is a request-time description of a fixture used only for
// planning. It has no identity until an external system turns it into a
// FixturePatch.
type FixtureSpec struct {
	Name         string `json:"name"`
	Manufacturer string `json:"manufacturer,omitempty"`
	Model        string `json:"model,omitempty"`
	Mode         string `json:"mode,omitempty"`
	Type         string `json:"type,omitempty"`

	// ChannelCount is the explicit channel count; 0 means "resolve
	// against the fixture library, or fall back to the default".
	ChannelCount int `json:"channelCount,omitempty"`
}

// GroupingStrategy controls how a batch of specs is ordered before
// sequential first-fit placement.
type GroupingStrategy string

const (
	// GroupSequential places specs in input order.
	GroupSequential GroupingStrategy = "sequential"
	// GroupByType clusters identical hardware (manufacturer + model)
	// so multi-fixture rigs land in adjacent blocks.
	GroupByType GroupingStrategy = "by_type"
	// GroupByFunction clusters fixtures by their type category
	// (e.g. all pars together, then all moving heads).
	GroupByFunction GroupingStrategy = "by_function"
)

// ParseGroupingStrategy validates a strategy name, defaulting the empty
// string to sequential.
func ParseGroupingStrategy(s string) (GroupingStrategy, error) {
	switch GroupingStrategy(s) {
	case "", GroupSequential:
		return GroupSequential, nil
	case GroupByType:
		return GroupByType, nil
	case GroupByFunction:
		return GroupByFunction, nil
	}
	return "", fmt.Errorf("unknown grouping strategy %q (valid: sequential, by_type, by_function)", s)
}

// Assignment is one planned placement within an AssignmentPlan.
type Assignment struct {
	Spec         FixtureSpec `json:"spec"`
	StartChannel int         `json:"startChannel"`
	EndChannel   int         `json:"endChannel"`
	ChannelCount int         `json:"channelCount"`
}

// Gap is an unused contiguous channel range between two assigned ranges
// in sorted order.
type Gap struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// String renders the gap in the "4-9" form used in plan summaries.
func (g Gap) String() string { return fmt.Sprintf("%d-%d", g.Start, g.End) }

// AssignmentPlan is the result of planning a batch of fixture specs.
// It exists only as a function return value — nothing is persisted.
type AssignmentPlan struct {
	Universe        int              `json:"universe"`
	Strategy        GroupingStrategy `json:"strategy"`
	Assignments     []Assignment     `json:"assignments"`
	TotalChannels   int              `json:"totalChannels"`
	FirstChannel    int              `json:"firstChannel"`
	LastChannel     int              `json:"lastChannel"`
	Gaps            []Gap            `json:"gaps,omitempty"`
	Recommendations []string         `json:"recommendations,omitempty"`
}

// FormatGaps renders the plan's gaps as a comma-separated list of
// channel ranges, or "none" when the plan is fully contiguous.
func (p *AssignmentPlan) FormatGaps() string {
	if len(p.Gaps) == 0 {
		return "none"
	}
	parts := make([]string, len(p.Gaps))
	for i, g := range p.Gaps {
		parts[i] = g.String()
	}
	return strings.Join(parts, ", ")
}

// orderSpecs returns the placement order for a batch under the given
// strategy. Sorting is stable so input order is preserved within a
// group, and sequential is the identity.
func orderSpecs(specs []FixtureSpec, strategy GroupingStrategy) []FixtureSpec {
	ordered := make([]FixtureSpec, len(specs))
	copy(ordered, specs)

	switch strategy {
	case GroupByType:
		sort.SliceStable(ordered, func(i, j int) bool {
			return hardwareKey(ordered[i]) < hardwareKey(ordered[j])
		})
	case GroupByFunction:
		sort.SliceStable(ordered, func(i, j int) bool {
			return functionKey(ordered[i]) < functionKey(ordered[j])
		})
	}
	return ordered
}

// hardwareKey identifies a physical fixture type for by_type grouping.
func hardwareKey(s FixtureSpec) string {
	return strings.ToLower(s.Manufacturer) + "\x00" + strings.ToLower(s.Model)
}

// functionKey identifies what a fixture does for by_function grouping.
// Specs without a type category fall back to the hardware key so they
// still cluster predictably.
func functionKey(s FixtureSpec) string {
	if s.Type != "" {
		return strings.ToLower(s.Type)
	}
	return "\x7f" + hardwareKey(s)
}
