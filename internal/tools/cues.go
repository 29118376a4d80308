package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/lumecue/lumecue/internal/inventory"
)

// ListCueListsTool handles the list_cue_lists MCP tool.
type ListCueListsTool struct {
	svc            inventory.Service
	defaultProject string
}

// NewListCueListsTool creates a ListCueListsTool.
func NewListCueListsTool(svc inventory.Service, defaultProject string) *ListCueListsTool {
	return &ListCueListsTool{svc: svc, defaultProject: defaultProject}
}

// Definition returns the MCP tool definition for registration.
func (t *ListCueListsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_cue_lists",
		mcp.WithDescription("List the cue lists of a project with their cues."),
		mcp.WithString("project_id",
			mcp.Description("Project to list (defaults to the configured project)"),
		),
	)
}

// Handle processes the list_cue_lists tool call.
func (t *ListCueListsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID := projectArg(req, t.defaultProject)
	if projectID == "" {
		return missingProjectResult(), nil
	}

	cueLists, err := t.svc.ListCueLists(ctx, projectID)
	if err != nil {
		return engineErrorResult(err), nil
	}
	if len(cueLists) == 0 {
		return mcp.NewToolResultText("No cue lists in this project yet."), nil
	}

	var sb strings.Builder
	sb.WriteString("## Cue Lists\n\n")
	for _, cl := range cueLists {
		loop := ""
		if cl.Loop {
			loop = " (loops)"
		}
		sb.WriteString(fmt.Sprintf("### %s — %s%s\n\n", cl.ID, cl.Name, loop))
		if len(cl.Cues) == 0 {
			sb.WriteString("(no cues)\n\n")
			continue
		}
		sb.WriteString("| Cue | Name | Fade In | Fade Out |\n|---|---|---|---|\n")
		for _, c := range cl.Cues {
			sb.WriteString(fmt.Sprintf("| %g | %s | %.1fs | %.1fs |\n",
				c.CueNumber, c.Name, c.FadeInTime, c.FadeOutTime))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("Start playback with `play_cue_list`.\n")
	return mcp.NewToolResultText(sb.String()), nil
}

// PlayCueListTool handles the play_cue_list MCP tool.
type PlayCueListTool struct {
	svc inventory.Service
}

// NewPlayCueListTool creates a PlayCueListTool.
func NewPlayCueListTool(svc inventory.Service) *PlayCueListTool {
	return &PlayCueListTool{svc: svc}
}

// Definition returns the MCP tool definition for registration.
func (t *PlayCueListTool) Definition() mcp.Tool {
	return mcp.NewTool("play_cue_list",
		mcp.WithDescription(
			"Start playback of a cue list on the control service, optionally from a "+
				"specific cue number.",
		),
		mcp.WithString("cue_list_id",
			mcp.Required(),
			mcp.Description("Cue list to play (from list_cue_lists)"),
		),
		mcp.WithNumber("start_cue",
			mcp.Description("Cue number to start from (default: the first cue)"),
		),
	)
}

// Handle processes the play_cue_list tool call.
func (t *PlayCueListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cueListID := strings.TrimSpace(req.GetString("cue_list_id", ""))
	if cueListID == "" {
		return mcp.NewToolResultError("'cue_list_id' is required"), nil
	}
	startCue := floatArg(req, "start_cue", 0)

	if err := t.svc.PlayCueList(ctx, cueListID, startCue); err != nil {
		return engineErrorResult(err), nil
	}

	if startCue > 0 {
		return mcp.NewToolResultText(fmt.Sprintf("Playback started from cue %g.", startCue)), nil
	}
	return mcp.NewToolResultText("Playback started from the top."), nil
}

// NextCueTool handles the next_cue MCP tool.
type NextCueTool struct {
	svc inventory.Service
}

// NewNextCueTool creates a NextCueTool.
func NewNextCueTool(svc inventory.Service) *NextCueTool {
	return &NextCueTool{svc: svc}
}

// Definition returns the MCP tool definition for registration.
func (t *NextCueTool) Definition() mcp.Tool {
	return mcp.NewTool("next_cue",
		mcp.WithDescription("Advance a running cue list to its next cue (GO)."),
		mcp.WithString("cue_list_id",
			mcp.Required(),
			mcp.Description("Running cue list to advance"),
		),
	)
}

// Handle processes the next_cue tool call.
func (t *NextCueTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cueListID := strings.TrimSpace(req.GetString("cue_list_id", ""))
	if cueListID == "" {
		return mcp.NewToolResultError("'cue_list_id' is required"), nil
	}

	if err := t.svc.NextCue(ctx, cueListID); err != nil {
		return engineErrorResult(err), nil
	}
	return mcp.NewToolResultText("GO — advanced to the next cue."), nil
}

// StopCueListTool handles the stop_cue_list MCP tool.
type StopCueListTool struct {
	svc inventory.Service
}

// NewStopCueListTool creates a StopCueListTool.
func NewStopCueListTool(svc inventory.Service) *StopCueListTool {
	return &StopCueListTool{svc: svc}
}

// Definition returns the MCP tool definition for registration.
func (t *StopCueListTool) Definition() mcp.Tool {
	return mcp.NewTool("stop_cue_list",
		mcp.WithDescription("Stop playback of a cue list."),
		mcp.WithString("cue_list_id",
			mcp.Required(),
			mcp.Description("Cue list to stop"),
		),
	)
}

// Handle processes the stop_cue_list tool call.
func (t *StopCueListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cueListID := strings.TrimSpace(req.GetString("cue_list_id", ""))
	if cueListID == "" {
		return mcp.NewToolResultError("'cue_list_id' is required"), nil
	}

	if err := t.svc.StopCueList(ctx, cueListID); err != nil {
		return engineErrorResult(err), nil
	}
	return mcp.NewToolResultText("Playback stopped."), nil
}
