package dmx

import (
	"fmt"
	"sort"
	"strings"
)

// Plan proposes channel assignments for a batch of fixture specs against
// the given occupancy, applying the grouping strategy before sequential
// first-fit placement.
//
// A cursor starts at startingChannel. For each spec in placement order,
// the spec's channel count (explicit value, else DefaultChannelCount) is
// placed with FindBlock from the cursor, and the cursor advances to the
// slot immediately after the assigned block. The advancing cursor
// virtually occupies each block for subsequent specs even though nothing
// has been persisted yet, which prevents intra-batch collisions. It does
// not protect against concurrent external callers — see the package
// comment.
//
// If any spec cannot be placed the whole plan is aborted with a
// *CapacityError naming that spec. Gap detection and recommendations are
// advisory only and never fail the plan.
func Plan(m *ChannelMap, specs []FixtureSpec, startingChannel int, strategy GroupingStrategy) (*AssignmentPlan, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("no fixture specs to plan")
	}
	if startingChannel < 1 {
		return nil, &RangeError{StartChannel: startingChannel, ChannelCount: 1}
	}

	plan := &AssignmentPlan{
		Universe: m.Universe,
		Strategy: strategy,
	}

	cursor := startingChannel
	for _, spec := range orderSpecs(specs, strategy) {
		count := spec.ChannelCount
		if count <= 0 {
			count = DefaultChannelCount
		}

		start, err := FindBlock(m, cursor, count)
		if err != nil {
			if capErr, ok := err.(*CapacityError); ok {
				capErr.SpecName = spec.Name
			}
			return nil, err
		}

		plan.Assignments = append(plan.Assignments, Assignment{
			Spec:         spec,
			StartChannel: start,
			EndChannel:   start + count - 1,
			ChannelCount: count,
		})
		plan.TotalChannels += count
		cursor = start + count
	}

	summarize(plan)
	return plan, nil
}

// summarize fills the plan's derived fields: first/last channel, gaps
// between consecutively assigned ranges, and advisory recommendations.
func summarize(plan *AssignmentPlan) {
	byStart := make([]Assignment, len(plan.Assignments))
	copy(byStart, plan.Assignments)
	sort.Slice(byStart, func(i, j int) bool {
		return byStart[i].StartChannel < byStart[j].StartChannel
	})

	plan.FirstChannel = byStart[0].StartChannel
	plan.LastChannel = byStart[len(byStart)-1].EndChannel

	// A gap exists when the next assignment starts more than one past
	// the previous assignment's end.
	for i := 1; i < len(byStart); i++ {
		prevEnd := byStart[i-1].EndChannel
		nextStart := byStart[i].StartChannel
		if nextStart > prevEnd+1 {
			plan.Gaps = append(plan.Gaps, Gap{Start: prevEnd + 1, End: nextStart - 1})
		}
	}

	if plan.TotalChannels > UniverseSize/2 {
		plan.Recommendations = append(plan.Recommendations, fmt.Sprintf(
			"This plan uses %d of %d channels — consider splitting the rig across a second universe.",
			plan.TotalChannels, UniverseSize))
	}

	if n := manufacturerCount(plan.Assignments); n > 1 {
		plan.Recommendations = append(plan.Recommendations, fmt.Sprintf(
			"Fixtures come from %d manufacturers — consider grouping by manufacturer to simplify addressing at the rig.",
			n))
	}
}

// manufacturerCount counts the distinct (non-empty) manufacturers in a
// set of assignments.
func manufacturerCount(assignments []Assignment) int {
	seen := make(map[string]struct{})
	for _, a := range assignments {
		if m := strings.ToLower(strings.TrimSpace(a.Spec.Manufacturer)); m != "" {
			seen[m] = struct{}{}
		}
	}
	return len(seen)
}
