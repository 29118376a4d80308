package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// ShowStatusPrompt handles the show-status MCP prompt.
// It instructs the AI to gather and present the rig's current state.
type ShowStatusPrompt struct{}

// NewShowStatusPrompt creates a ShowStatusPrompt.
func NewShowStatusPrompt() *ShowStatusPrompt {
	return &ShowStatusPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *ShowStatusPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("show-status",
		mcp.WithPromptDescription(
			"Show the current state of the lighting rig: patched fixtures, "+
				"channel usage per universe, scenes, and cue lists.",
		),
	)
}

// Handle processes the show-status prompt request.
func (p *ShowStatusPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "Lighting Rig Status",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Please give me an overview of my lighting rig.\n\n" +
						"Then:\n" +
						"1. Run `list_fixtures` and summarize what's patched, grouped by universe\n" +
						"2. Run `get_channel_map` for each universe in use and report utilization\n" +
						"3. Run `list_scenes` and `list_cue_lists` and summarize what's available to play\n" +
						"4. Flag anything that looks off — crowded universes, fixtures with no free headroom nearby",
				),
			},
		},
	}, nil
}
