// Package prompts implements MCP prompt handlers.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// PatchFixturesPrompt handles the patch-fixtures MCP prompt.
// It guides the AI through planning and patching a batch of fixtures.
type PatchFixturesPrompt struct{}

// NewPatchFixturesPrompt creates a PatchFixturesPrompt.
func NewPatchFixturesPrompt() *PatchFixturesPrompt {
	return &PatchFixturesPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *PatchFixturesPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("patch-fixtures",
		mcp.WithPromptDescription(
			"Patch a batch of fixtures into a DMX universe. "+
				"Plans the channel layout first, shows it for review, "+
				"then creates the fixtures.",
		),
		mcp.WithArgument("universe",
			mcp.ArgumentDescription("DMX universe to patch into (default: 1)"),
		),
	)
}

// Handle processes the patch-fixtures prompt request.
func (p *PatchFixturesPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	universe := "1"
	if args := req.Params.Arguments; args != nil {
		if u, ok := args["universe"]; ok && u != "" {
			universe = u
		}
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Patch fixtures into universe %s", universe),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I want to patch a batch of fixtures into DMX universe %s.\n\n"+
						"Please:\n"+
						"1. Ask me for the fixture list (name, manufacturer, model, and how many of each)\n"+
						"2. Run `get_channel_map` for universe %s so we both see what's already patched\n"+
						"3. Run `plan_channel_assignments` with my fixtures and show me the proposed layout\n"+
						"4. Wait for my approval — if I want changes (different order, grouping, or starting channel), re-plan\n"+
						"5. Once approved, run `create_fixture` for each row using the planned start channels\n\n"+
						"Keep fixtures of the same type on adjacent channels where possible.",
					universe, universe,
				)),
			},
		},
	}, nil
}
