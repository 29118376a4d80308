// Package resources implements MCP resource handlers.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (lumecue://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/lumecue/lumecue/internal/dmx"
	"github.com/lumecue/lumecue/internal/inventory"
)

// universesShown caps the overview scan. DMX rigs rarely use more than
// a handful of universes, and each one costs an upstream round trip.
const universesShown = 4

// Handler manages lumecue resource endpoints.
type Handler struct {
	src            inventory.Source
	defaultProject string
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(src inventory.Source, defaultProject string) *Handler {
	return &Handler{src: src, defaultProject: defaultProject}
}

// PatchOverviewResource returns the MCP resource definition for the
// patch overview.
func (h *Handler) PatchOverviewResource() mcp.Resource {
	return mcp.NewResource(
		"lumecue://patch/overview",
		"Patch Overview",
		mcp.WithResourceDescription("Per-universe DMX channel utilization for the configured project"),
		mcp.WithMIMEType("application/json"),
	)
}

// universeOverview is the per-universe entry of the overview document.
type universeOverview struct {
	Universe      int    `json:"universe"`
	UsedChannels  int    `json:"usedChannels"`
	FreeChannels  int    `json:"freeChannels"`
	NextAvailable int    `json:"nextAvailable"`
	FixtureCount  int    `json:"fixtureCount"`
	LargestFree   string `json:"largestFreeRange,omitempty"`
}

// HandlePatchOverview returns channel utilization for the configured
// default project as JSON.
func (h *Handler) HandlePatchOverview(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	if h.defaultProject == "" {
		return errorResource(req.Params.URI,
			"no default project configured — set service.default-project or LUMECUE_PROJECT"), nil
	}

	patches, err := h.src.ListFixturePatches(ctx, h.defaultProject, 0)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}

	overview := struct {
		ProjectID string             `json:"projectId"`
		Universes []universeOverview `json:"universes"`
	}{ProjectID: h.defaultProject}

	for u := 1; u <= universesShown; u++ {
		m := dmx.BuildChannelMap(u, patches)
		entry := universeOverview{
			Universe:      u,
			UsedChannels:  m.UsedCount(),
			FreeChannels:  m.AvailableCount(),
			NextAvailable: m.NextAvailable(),
			FixtureCount:  fixtureCount(patches, u),
		}
		if g := largestFreeRange(m); g != nil {
			entry.LargestFree = g.String()
		}
		overview.Universes = append(overview.Universes, entry)
	}

	data, err := json.MarshalIndent(overview, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling overview: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func fixtureCount(patches []dmx.FixturePatch, universe int) int {
	n := 0
	for _, p := range patches {
		if p.Universe == universe {
			n++
		}
	}
	return n
}

func largestFreeRange(m *dmx.ChannelMap) *dmx.Gap {
	var best *dmx.Gap
	for _, g := range m.FreeRanges() {
		g := g
		if best == nil || g.End-g.Start > best.End-best.Start {
			best = &g
		}
	}
	return best
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
