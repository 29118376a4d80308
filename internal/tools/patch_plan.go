package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/lumecue/lumecue/internal/dmx"
	"github.com/lumecue/lumecue/internal/patch"
)

// PlanAssignmentsTool handles the plan_channel_assignments MCP tool:
// batch channel planning for a list of fixture specs.
type PlanAssignmentsTool struct {
	patcher        *patch.Patcher
	defaultProject string
}

// NewPlanAssignmentsTool creates a PlanAssignmentsTool.
func NewPlanAssignmentsTool(patcher *patch.Patcher, defaultProject string) *PlanAssignmentsTool {
	return &PlanAssignmentsTool{patcher: patcher, defaultProject: defaultProject}
}

// Definition returns the MCP tool definition for registration.
func (t *PlanAssignmentsTool) Definition() mcp.Tool {
	return mcp.NewTool("plan_channel_assignments",
		mcp.WithDescription(
			"Plan DMX channel assignments for a batch of fixtures at once. Assigns "+
				"non-overlapping blocks first-fit from the starting channel, reports gaps "+
				"and utilization, and recommends improvements. The plan is a proposal — "+
				"create the fixtures afterwards to persist it. Pass the fixtures as a JSON "+
				"array string, e.g. "+
				`[{"name":"Par L","manufacturer":"Chauvet","model":"SlimPAR Pro RGBA"},`+
				`{"name":"Spot","channelCount":14}]`,
		),
		mcp.WithString("project_id",
			mcp.Description("Project to plan for (defaults to the configured project)"),
		),
		mcp.WithNumber("universe",
			mcp.Required(),
			mcp.Description("DMX universe to plan in (conventionally 1-4)"),
		),
		mcp.WithString("fixtures",
			mcp.Required(),
			mcp.Description(
				"JSON array of fixture specs. Each spec: name (required), manufacturer, "+
					"model, mode, type, channelCount. Omitted channel counts are resolved "+
					"from the fixture library, else default to 4."),
		),
		mcp.WithNumber("starting_channel",
			mcp.Description("Channel to start placing from (default 1)"),
		),
		mcp.WithString("grouping_strategy",
			mcp.Description(
				"How to order the batch before placement: sequential (input order, default), "+
					"by_type (cluster identical manufacturer+model), by_function (cluster by "+
					"fixture type category)"),
		),
	)
}

// Handle processes the plan_channel_assignments tool call.
func (t *PlanAssignmentsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID := projectArg(req, t.defaultProject)
	if projectID == "" {
		return missingProjectResult(), nil
	}
	universe, errResult := universeArg(req, 0)
	if errResult != nil {
		return errResult, nil
	}

	specsJSON := strings.TrimSpace(req.GetString("fixtures", ""))
	if specsJSON == "" {
		return mcp.NewToolResultError("'fixtures' is required — a JSON array of fixture specs"), nil
	}
	var specs []dmx.FixtureSpec
	if err := json.Unmarshal([]byte(specsJSON), &specs); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("'fixtures' is not a valid JSON array: %v", err)), nil
	}
	if len(specs) == 0 {
		return mcp.NewToolResultError("'fixtures' must contain at least one spec"), nil
	}
	for i, s := range specs {
		if strings.TrimSpace(s.Name) == "" {
			return mcp.NewToolResultError(fmt.Sprintf("fixture spec #%d has no name", i+1)), nil
		}
	}

	strategy, err := dmx.ParseGroupingStrategy(req.GetString("grouping_strategy", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	startingChannel := intArg(req, "starting_channel", 1)

	plan, err := t.patcher.PlanBatch(ctx, projectID, universe, specs, startingChannel, strategy)
	if err != nil {
		return engineErrorResult(err), nil
	}

	return mcp.NewToolResultText(formatPlan(plan)), nil
}

func formatPlan(plan *dmx.AssignmentPlan) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("## Assignment Plan — Universe %d (%s)\n\n", plan.Universe, plan.Strategy))

	sb.WriteString("| Fixture | Channels | Count |\n|---|---|---|\n")
	for _, a := range plan.Assignments {
		label := a.Spec.Name
		if a.Spec.Manufacturer != "" || a.Spec.Model != "" {
			label = fmt.Sprintf("%s (%s %s)", a.Spec.Name,
				strings.TrimSpace(a.Spec.Manufacturer), strings.TrimSpace(a.Spec.Model))
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %d |\n",
			label, channelRange(a.StartChannel, a.ChannelCount), a.ChannelCount))
	}

	sb.WriteString("\n### Summary\n\n")
	sb.WriteString(fmt.Sprintf("- **Fixtures planned:** %d\n", len(plan.Assignments)))
	sb.WriteString(fmt.Sprintf("- **Total channels:** %d of %d\n", plan.TotalChannels, dmx.UniverseSize))
	sb.WriteString(fmt.Sprintf("- **Channel span:** %d-%d\n", plan.FirstChannel, plan.LastChannel))
	sb.WriteString(fmt.Sprintf("- **Gaps:** %s\n", plan.FormatGaps()))

	if len(plan.Recommendations) > 0 {
		sb.WriteString("\n### Recommendations\n\n")
		for _, r := range plan.Recommendations {
			sb.WriteString(fmt.Sprintf("- %s\n", r))
		}
	}

	sb.WriteString("\nThe plan is not persisted — call `create_fixture` for each row to patch it.\n")
	return sb.String()
}
