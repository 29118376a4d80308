package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/lumecue/lumecue/internal/dmx"
	"github.com/lumecue/lumecue/internal/patch"
)

// ChannelMapTool handles the get_channel_map MCP tool: a read-only
// diagnostic view of one universe's occupancy.
type ChannelMapTool struct {
	patcher        *patch.Patcher
	defaultProject string
}

// NewChannelMapTool creates a ChannelMapTool.
func NewChannelMapTool(patcher *patch.Patcher, defaultProject string) *ChannelMapTool {
	return &ChannelMapTool{patcher: patcher, defaultProject: defaultProject}
}

// Definition returns the MCP tool definition for registration.
func (t *ChannelMapTool) Definition() mcp.Tool {
	return mcp.NewTool("get_channel_map",
		mcp.WithDescription(
			"Show the DMX channel occupancy of one universe: which channels are in use, "+
				"by which fixture, plus free-space statistics. Use this before patching "+
				"fixtures manually or to diagnose addressing problems.",
		),
		mcp.WithString("project_id",
			mcp.Description("Project to inspect (defaults to the configured project)"),
		),
		mcp.WithNumber("universe",
			mcp.Required(),
			mcp.Description("DMX universe number (conventionally 1-4)"),
		),
	)
}

// Handle processes the get_channel_map tool call.
func (t *ChannelMapTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID := projectArg(req, t.defaultProject)
	if projectID == "" {
		return missingProjectResult(), nil
	}
	universe, errResult := universeArg(req, 0)
	if errResult != nil {
		return errResult, nil
	}

	m, err := t.patcher.ChannelMap(ctx, projectID, universe)
	if err != nil {
		return engineErrorResult(err), nil
	}

	return mcp.NewToolResultText(formatChannelMap(m)), nil
}

// formatChannelMap renders the occupancy as fixture ranges plus free
// ranges — listing 512 slots one by one would drown the assistant.
func formatChannelMap(m *dmx.ChannelMap) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Channel Map — Universe %d\n\n", m.Universe))
	sb.WriteString(fmt.Sprintf("**Used:** %d / %d channels\n", m.UsedCount(), dmx.UniverseSize))
	sb.WriteString(fmt.Sprintf("**Available:** %d channels\n", m.AvailableCount()))
	if next := m.NextAvailable(); next > 0 {
		sb.WriteString(fmt.Sprintf("**Next available channel:** %d\n", next))
	} else {
		sb.WriteString("**Next available channel:** none — universe is full\n")
	}

	sb.WriteString("\n### Patched Fixtures\n\n")
	ranges := occupiedRanges(m)
	if len(ranges) == 0 {
		sb.WriteString("(none)\n")
	} else {
		sb.WriteString("| Channels | Fixture |\n|---|---|\n")
		for _, r := range ranges {
			sb.WriteString(fmt.Sprintf("| %s | %s |\n", channelRange(r.start, r.end-r.start+1), r.name))
		}
	}

	sb.WriteString("\n### Free Ranges\n\n")
	free := m.FreeRanges()
	if len(free) == 0 {
		sb.WriteString("(none)\n")
	} else {
		parts := make([]string, len(free))
		for i, g := range free {
			parts[i] = g.String()
		}
		sb.WriteString(strings.Join(parts, ", "))
		sb.WriteString("\n")
	}

	return sb.String()
}

type occupiedRange struct {
	start, end int
	name       string
}

// occupiedRanges collapses consecutive slots owned by the same fixture
// into one row per contiguous run.
func occupiedRanges(m *dmx.ChannelMap) []occupiedRange {
	var ranges []occupiedRange
	for ch := 1; ch <= dmx.UniverseSize; ch++ {
		slot := m.Slots[ch-1]
		if slot.Free() {
			continue
		}
		if n := len(ranges); n > 0 && ranges[n-1].end == ch-1 &&
			m.Slots[ranges[n-1].start-1].FixtureID == slot.FixtureID {
			ranges[n-1].end = ch
			continue
		}
		ranges = append(ranges, occupiedRange{start: ch, end: ch, name: slot.FixtureName})
	}
	return ranges
}
