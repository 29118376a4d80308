package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/lumecue/lumecue/internal/inventory"
)

// ListScenesTool handles the list_scenes MCP tool.
type ListScenesTool struct {
	svc            inventory.Service
	defaultProject string
}

// NewListScenesTool creates a ListScenesTool.
func NewListScenesTool(svc inventory.Service, defaultProject string) *ListScenesTool {
	return &ListScenesTool{svc: svc, defaultProject: defaultProject}
}

// Definition returns the MCP tool definition for registration.
func (t *ListScenesTool) Definition() mcp.Tool {
	return mcp.NewTool("list_scenes",
		mcp.WithDescription("List the stored scenes (looks) of a project."),
		mcp.WithString("project_id",
			mcp.Description("Project to list (defaults to the configured project)"),
		),
	)
}

// Handle processes the list_scenes tool call.
func (t *ListScenesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projectID := projectArg(req, t.defaultProject)
	if projectID == "" {
		return missingProjectResult(), nil
	}

	scenes, err := t.svc.ListScenes(ctx, projectID)
	if err != nil {
		return engineErrorResult(err), nil
	}
	if len(scenes) == 0 {
		return mcp.NewToolResultText("No scenes in this project yet."), nil
	}

	var sb strings.Builder
	sb.WriteString("## Scenes\n\n")
	sb.WriteString("| ID | Name | Description |\n|---|---|---|\n")
	for _, s := range scenes {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n", s.ID, s.Name, s.Description))
	}
	sb.WriteString("\nActivate one with `activate_scene`.\n")
	return mcp.NewToolResultText(sb.String()), nil
}

// ActivateSceneTool handles the activate_scene MCP tool.
type ActivateSceneTool struct {
	svc inventory.Service
}

// NewActivateSceneTool creates an ActivateSceneTool.
func NewActivateSceneTool(svc inventory.Service) *ActivateSceneTool {
	return &ActivateSceneTool{svc: svc}
}

// Definition returns the MCP tool definition for registration.
func (t *ActivateSceneTool) Definition() mcp.Tool {
	return mcp.NewTool("activate_scene",
		mcp.WithDescription(
			"Fade the live output to a stored scene. Fade timing and value "+
				"interpolation run on the control service.",
		),
		mcp.WithString("scene_id",
			mcp.Required(),
			mcp.Description("Scene to activate (from list_scenes)"),
		),
		mcp.WithNumber("fade_time",
			mcp.Description("Fade-in time in seconds (default: the scene's own setting)"),
		),
	)
}

// Handle processes the activate_scene tool call.
func (t *ActivateSceneTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sceneID := strings.TrimSpace(req.GetString("scene_id", ""))
	if sceneID == "" {
		return mcp.NewToolResultError("'scene_id' is required"), nil
	}
	fadeTime := floatArg(req, "fade_time", 0)
	if fadeTime < 0 {
		return mcp.NewToolResultError("'fade_time' must not be negative"), nil
	}

	if err := t.svc.ActivateScene(ctx, sceneID, fadeTime); err != nil {
		return engineErrorResult(err), nil
	}

	if fadeTime > 0 {
		return mcp.NewToolResultText(fmt.Sprintf("Scene is live (%.1fs fade).", fadeTime)), nil
	}
	return mcp.NewToolResultText("Scene is live."), nil
}
