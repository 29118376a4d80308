package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/lumecue/lumecue/internal/dmx"
	"github.com/lumecue/lumecue/internal/inventory"
	"github.com/lumecue/lumecue/internal/library"
	"github.com/lumecue/lumecue/internal/patch"
)

// ListFixturesTool handles the list_fixtures MCP tool.
type ListFixturesTool struct {
	svc            inventory.Service
	defaultProject string
}

// NewListFixturesTool creates a ListFixturesTool.
func NewListFixturesTool(svc inventory.Service, defaultProject string) *ListFixturesTool {
	return &ListFixturesTool{svc: svc, defaultProject: defaultProject}
}

// Definition returns the MCP tool definition for registration.
func (t *ListFixturesTool) Definition() mcp.Tool {
	return mcp.NewTool("list_fixtures",
		mcp.WithDescription(
			"List the patched fixtures of a project with their universe and channel "+
				"assignments, optionally filtered to one universe.",
		),
		mcp.WithString("project_id",
			mcp.Description("Project to list (defaults to the configured project)"),
		),
		mcp.WithNumber("universe",
			mcp.Description("Only show fixtures in this universe"),
		),
	)
}

// Handle processes the list_fixtures tool call.
func (t *ListFixturesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID := projectArg(req, t.defaultProject)
	if projectID == "" {
		return missingProjectResult(), nil
	}
	universe := intArg(req, "universe", 0)
	if universe < 0 {
		return mcp.NewToolResultError("'universe' must be a positive integer"), nil
	}

	fixtures, err := t.svc.ListFixtures(ctx, projectID, universe)
	if err != nil {
		return engineErrorResult(err), nil
	}

	if len(fixtures) == 0 {
		if universe > 0 {
			return mcp.NewToolResultText(fmt.Sprintf("No fixtures patched in universe %d.", universe)), nil
		}
		return mcp.NewToolResultText("No fixtures in this project yet. Add one with `create_fixture`."), nil
	}

	var sb strings.Builder
	sb.WriteString("## Fixtures\n\n")
	sb.WriteString("| Name | Make / Model | Universe | Channels |\n|---|---|---|---|\n")
	for _, f := range fixtures {
		makeModel := strings.TrimSpace(f.Manufacturer + " " + f.Model)
		if makeModel == "" {
			makeModel = "—"
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %d | %s |\n",
			f.Name, makeModel, f.Universe, channelRange(f.StartChannel, f.ChannelCount)))
	}
	sb.WriteString(fmt.Sprintf("\n%d fixture(s).\n", len(fixtures)))
	return mcp.NewToolResultText(sb.String()), nil
}

// CreateFixtureTool handles the create_fixture MCP tool. It runs the
// allocation engine first — auto-assign when no start channel is
// given, conflict validation when one is — and then persists the
// fixture through the control service.
type CreateFixtureTool struct {
	svc            inventory.Service
	patcher        *patch.Patcher
	defaultProject string
}

// NewCreateFixtureTool creates a CreateFixtureTool.
func NewCreateFixtureTool(svc inventory.Service, patcher *patch.Patcher, defaultProject string) *CreateFixtureTool {
	return &CreateFixtureTool{svc: svc, patcher: patcher, defaultProject: defaultProject}
}

// Definition returns the MCP tool definition for registration.
func (t *CreateFixtureTool) Definition() mcp.Tool {
	return mcp.NewTool("create_fixture",
		mcp.WithDescription(
			"Patch a new fixture into a project. When start_channel is omitted, the first "+
				"free channel block is assigned automatically; when given, the range is "+
				"validated for conflicts first. The channel count comes from channel_count, "+
				"else from the fixture library (manufacturer/model/mode), else defaults to 4.",
		),
		mcp.WithString("project_id",
			mcp.Description("Project to patch into (defaults to the configured project)"),
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Fixture name, e.g. \"Stage Left Par\""),
		),
		mcp.WithString("manufacturer",
			mcp.Description("Fixture manufacturer, e.g. \"Chauvet\""),
		),
		mcp.WithString("model",
			mcp.Description("Fixture model, e.g. \"SlimPAR Pro RGBA\""),
		),
		mcp.WithString("mode",
			mcp.Description("Operating mode name, e.g. \"8-channel\" (default: the definition's default mode)"),
		),
		mcp.WithNumber("universe",
			mcp.Required(),
			mcp.Description("DMX universe to patch into (conventionally 1-4)"),
		),
		mcp.WithNumber("start_channel",
			mcp.Description("Explicit start channel (1-512); omit to auto-assign"),
		),
		mcp.WithNumber("channel_count",
			mcp.Description("Explicit channel count; omit to resolve from the library"),
		),
	)
}

// Handle processes the create_fixture tool call.
func (t *CreateFixtureTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID := projectArg(req, t.defaultProject)
	if projectID == "" {
		return missingProjectResult(), nil
	}
	name := strings.TrimSpace(req.GetString("name", ""))
	if name == "" {
		return mcp.NewToolResultError("'name' is required"), nil
	}
	universe, errResult := universeArg(req, 0)
	if errResult != nil {
		return errResult, nil
	}

	spec := dmx.FixtureSpec{
		Name:         name,
		Manufacturer: strings.TrimSpace(req.GetString("manufacturer", "")),
		Model:        strings.TrimSpace(req.GetString("model", "")),
		Mode:         strings.TrimSpace(req.GetString("mode", "")),
		ChannelCount: intArg(req, "channel_count", 0),
	}
	spec, resolved, err := t.patcher.ResolveSpec(spec)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if spec.ChannelCount == 0 {
		spec.ChannelCount = dmx.DefaultChannelCount
	}

	// Decide the start channel: engine-proposed or caller-validated.
	start := intArg(req, "start_channel", 0)
	assigned := false
	if start == 0 {
		start, err = t.patcher.AutoAssign(ctx, projectID, universe, spec.ChannelCount)
		if err != nil {
			return engineErrorResult(err), nil
		}
		assigned = true
	} else {
		if err := t.patcher.ValidateManual(ctx, projectID, universe, start, spec.ChannelCount); err != nil {
			return engineErrorResult(err), nil
		}
	}

	input := inventory.CreateFixtureInput{
		ProjectID:    projectID,
		Name:         spec.Name,
		Manufacturer: spec.Manufacturer,
		Model:        spec.Model,
		Type:         spec.Type,
		ModeName:     spec.Mode,
		Universe:     universe,
		StartChannel: start,
		ChannelCount: spec.ChannelCount,
		Channels:     channelDefs(resolved),
	}

	fixture, err := t.svc.CreateFixture(ctx, input)
	if err != nil {
		// The service's (universe, channel) uniqueness check is the
		// authoritative one — our validation ran against a snapshot
		// that may have gone stale in the meantime.
		var upstream *inventory.UpstreamError
		if errors.As(err, &upstream) {
			return mcp.NewToolResultError(fmt.Sprintf(
				"%s. If this is a channel conflict, another fixture was patched there "+
					"concurrently — re-run assign_channels and try again.", upstream.Error())), nil
		}
		return engineErrorResult(err), nil
	}

	var sb strings.Builder
	sb.WriteString("## Fixture Patched\n\n")
	sb.WriteString(fmt.Sprintf("**ID:** %s\n", fixture.ID))
	sb.WriteString(fmt.Sprintf("**Name:** %s\n", fixture.Name))
	sb.WriteString(fmt.Sprintf("**Universe:** %d\n", fixture.Universe))
	sb.WriteString(fmt.Sprintf("**Channels:** %s\n", channelRange(fixture.StartChannel, spec.ChannelCount)))
	if assigned {
		sb.WriteString("\nChannels were auto-assigned (first fit).\n")
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// channelDefs converts a library resolution to the per-offset channel
// metadata the service stores with the instance.
func channelDefs(resolved *library.Resolved) []inventory.FixtureChannel {
	if resolved == nil {
		return nil
	}
	channels := make([]inventory.FixtureChannel, len(resolved.Mode.Channels))
	for i, ch := range resolved.Mode.Channels {
		channels[i] = inventory.FixtureChannel{Offset: ch.Offset, Name: ch.Name, Type: ch.Type}
	}
	return channels
}
