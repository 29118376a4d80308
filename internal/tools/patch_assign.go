package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/lumecue/lumecue/internal/patch"
)

// AssignChannelsTool handles the assign_channels MCP tool: propose the
// first free channel block for one fixture.
type AssignChannelsTool struct {
	patcher        *patch.Patcher
	defaultProject string
}

// NewAssignChannelsTool creates an AssignChannelsTool.
func NewAssignChannelsTool(patcher *patch.Patcher, defaultProject string) *AssignChannelsTool {
	return &AssignChannelsTool{patcher: patcher, defaultProject: defaultProject}
}

// Definition returns the MCP tool definition for registration.
func (t *AssignChannelsTool) Definition() mcp.Tool {
	return mcp.NewTool("assign_channels",
		mcp.WithDescription(
			"Find the first available contiguous DMX channel block for a fixture in a "+
				"universe (first-fit from channel 1). Returns a proposed start channel — "+
				"nothing is persisted; follow up with create_fixture to patch it. Two "+
				"concurrent callers can receive the same proposal: the control service's "+
				"conflict check at creation time is authoritative.",
		),
		mcp.WithString("project_id",
			mcp.Description("Project to patch into (defaults to the configured project)"),
		),
		mcp.WithNumber("universe",
			mcp.Required(),
			mcp.Description("DMX universe number (conventionally 1-4)"),
		),
		mcp.WithNumber("channel_count",
			mcp.Required(),
			mcp.Description("Number of consecutive channels the fixture needs"),
		),
	)
}

// Handle processes the assign_channels tool call.
func (t *AssignChannelsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID := projectArg(req, t.defaultProject)
	if projectID == "" {
		return missingProjectResult(), nil
	}
	universe, errResult := universeArg(req, 0)
	if errResult != nil {
		return errResult, nil
	}
	count := intArg(req, "channel_count", 0)
	if count < 1 {
		return mcp.NewToolResultError("'channel_count' is required and must be at least 1"), nil
	}

	start, err := t.patcher.AutoAssign(ctx, projectID, universe, count)
	if err != nil {
		return engineErrorResult(err), nil
	}

	var sb strings.Builder
	sb.WriteString("## Channel Assignment\n\n")
	sb.WriteString(fmt.Sprintf("**Universe:** %d\n", universe))
	sb.WriteString(fmt.Sprintf("**Channels:** %s (%d channels)\n", channelRange(start, count), count))
	sb.WriteString(fmt.Sprintf("**Start channel:** %d\n\n", start))
	sb.WriteString("This is a proposal — call `create_fixture` with this start channel to patch the fixture.\n")

	return mcp.NewToolResultText(sb.String()), nil
}

// ValidatePatchTool handles the validate_patch MCP tool: check a
// manually chosen channel range for conflicts.
type ValidatePatchTool struct {
	patcher        *patch.Patcher
	defaultProject string
}

// NewValidatePatchTool creates a ValidatePatchTool.
func NewValidatePatchTool(patcher *patch.Patcher, defaultProject string) *ValidatePatchTool {
	return &ValidatePatchTool{patcher: patcher, defaultProject: defaultProject}
}

// Definition returns the MCP tool definition for registration.
func (t *ValidatePatchTool) Definition() mcp.Tool {
	return mcp.NewTool("validate_patch",
		mcp.WithDescription(
			"Check whether a manually chosen DMX channel range is free before patching a "+
				"fixture there. Reports the conflicting fixture and the exact colliding "+
				"channel when the range is taken, so the user can fix their choice.",
		),
		mcp.WithString("project_id",
			mcp.Description("Project to check against (defaults to the configured project)"),
		),
		mcp.WithNumber("universe",
			mcp.Required(),
			mcp.Description("DMX universe number (conventionally 1-4)"),
		),
		mcp.WithNumber("start_channel",
			mcp.Required(),
			mcp.Description("First channel of the requested range (1-512)"),
		),
		mcp.WithNumber("channel_count",
			mcp.Required(),
			mcp.Description("Number of consecutive channels requested"),
		),
	)
}

// Handle processes the validate_patch tool call.
func (t *ValidatePatchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID := projectArg(req, t.defaultProject)
	if projectID == "" {
		return missingProjectResult(), nil
	}
	universe, errResult := universeArg(req, 0)
	if errResult != nil {
		return errResult, nil
	}
	start := intArg(req, "start_channel", 0)
	count := intArg(req, "channel_count", 0)
	if start == 0 || count == 0 {
		return mcp.NewToolResultError("'start_channel' and 'channel_count' are required"), nil
	}

	if err := t.patcher.ValidateManual(ctx, projectID, universe, start, count); err != nil {
		return engineErrorResult(err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf(
		"Channels %s in universe %d are free. Safe to patch (subject to the control "+
			"service's final conflict check at creation time).",
		channelRange(start, count), universe)), nil
}
