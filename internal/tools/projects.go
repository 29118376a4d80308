package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/lumecue/lumecue/internal/inventory"
)

// ListProjectsTool handles the list_projects MCP tool.
type ListProjectsTool struct {
	svc inventory.Service
}

// NewListProjectsTool creates a ListProjectsTool.
func NewListProjectsTool(svc inventory.Service) *ListProjectsTool {
	return &ListProjectsTool{svc: svc}
}

// Definition returns the MCP tool definition for registration.
func (t *ListProjectsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_projects",
		mcp.WithDescription(
			"List the lighting projects on the control service. Use this to find the "+
				"project_id other tools need.",
		),
	)
}

// Handle processes the list_projects tool call.
func (t *ListProjectsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projects, err := t.svc.ListProjects(ctx)
	if err != nil {
		return engineErrorResult(err), nil
	}

	if len(projects) == 0 {
		return mcp.NewToolResultText(
			"No projects found. Create one with `create_project`."), nil
	}

	var sb strings.Builder
	sb.WriteString("## Projects\n\n")
	sb.WriteString("| ID | Name | Description |\n|---|---|---|\n")
	for _, p := range projects {
		sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n", p.ID, p.Name, p.Description))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// CreateProjectTool handles the create_project MCP tool.
type CreateProjectTool struct {
	svc inventory.Service
}

// NewCreateProjectTool creates a CreateProjectTool.
func NewCreateProjectTool(svc inventory.Service) *CreateProjectTool {
	return &CreateProjectTool{svc: svc}
}

// Definition returns the MCP tool definition for registration.
func (t *CreateProjectTool) Definition() mcp.Tool {
	return mcp.NewTool("create_project",
		mcp.WithDescription("Create a new lighting project on the control service."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Project name, e.g. \"Spring Musical 2026\""),
		),
		mcp.WithString("description",
			mcp.Description("Optional description of the production"),
		),
	)
}

// Handle processes the create_project tool call.
func (t *CreateProjectTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := strings.TrimSpace(req.GetString("name", ""))
	if name == "" {
		return mcp.NewToolResultError("'name' is required"), nil
	}

	project, err := t.svc.CreateProject(ctx, name, req.GetString("description", ""))
	if err != nil {
		return engineErrorResult(err), nil
	}

	var sb strings.Builder
	sb.WriteString("## Project Created\n\n")
	sb.WriteString(fmt.Sprintf("**ID:** %s\n", project.ID))
	sb.WriteString(fmt.Sprintf("**Name:** %s\n", project.Name))
	if project.Description != "" {
		sb.WriteString(fmt.Sprintf("**Description:** %s\n", project.Description))
	}
	sb.WriteString("\nNext: add fixtures with `create_fixture` or plan a rig with `plan_channel_assignments`.\n")
	return mcp.NewToolResultText(sb.String()), nil
}
