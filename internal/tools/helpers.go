// Package tools implements the MCP tool handlers.
//
// Each tool is a struct that receives dependencies via its constructor
// and returns a handler compatible with mcp-go's CallToolRequest
// signature. One file per tool concern: projects, fixtures, patching,
// planning, scenes, cues.
//
// Tool handlers return user-input and domain failures as tool error
// results (mcp.NewToolResultError) with remediation hints, never as Go
// errors — a Go error from a handler means the server itself broke.
package tools

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/lumecue/lumecue/internal/dmx"
	"github.com/lumecue/lumecue/internal/inventory"
)

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are
// float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// floatArg extracts a float argument from a tool request.
func floatArg(req mcp.CallToolRequest, key string, defaultVal float64) float64 {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return v
}

// projectArg resolves the project ID for a request: the explicit
// project_id parameter, else the configured default. Returns "" when
// neither is available.
func projectArg(req mcp.CallToolRequest, defaultProject string) string {
	if id := strings.TrimSpace(req.GetString("project_id", "")); id != "" {
		return id
	}
	return defaultProject
}

// missingProjectResult is the shared error for tools that need a
// project and got none.
func missingProjectResult() *mcp.CallToolResult {
	return mcp.NewToolResultError(
		"'project_id' is required (no default project is configured — set service.default-project or LUMECUE_PROJECT)",
	)
}

// universeArg validates the universe parameter. defaultVal 0 means the
// parameter is required.
func universeArg(req mcp.CallToolRequest, defaultVal int) (int, *mcp.CallToolResult) {
	u := intArg(req, "universe", defaultVal)
	if u < 1 {
		return 0, mcp.NewToolResultError("'universe' is required and must be a positive integer (conventionally 1-4)")
	}
	return u, nil
}

// engineErrorResult maps an allocation-engine or upstream failure to a
// tool error with an actionable remediation hint. Callers depend on
// distinguishing "no room" from "conflict" from "bad input" from
// "service down".
func engineErrorResult(err error) *mcp.CallToolResult {
	var capErr *dmx.CapacityError
	var conflict *dmx.ConflictError
	var rangeErr *dmx.RangeError
	var upstream *inventory.UpstreamError

	switch {
	case errors.As(err, &capErr):
		return mcp.NewToolResultError(fmt.Sprintf(
			"%s. Try a different universe, a smaller starting channel, or free channels by removing fixtures.",
			capErr.Error()))
	case errors.As(err, &conflict):
		return mcp.NewToolResultError(fmt.Sprintf(
			"%s. Pick a different start channel, or move/delete %q first.",
			conflict.Error(), conflict.FixtureName))
	case errors.As(err, &rangeErr):
		return mcp.NewToolResultError(fmt.Sprintf(
			"%s. DMX channels are 1-%d per universe.", rangeErr.Error(), dmx.UniverseSize))
	case errors.As(err, &upstream):
		return mcp.NewToolResultError(fmt.Sprintf(
			"%s. Check that the lighting-control service is running and the endpoint is configured.",
			upstream.Error()))
	}
	return mcp.NewToolResultError(err.Error())
}

// channelRange renders a 1-based inclusive range as "5-8" (or "5" for
// a single channel).
func channelRange(start, count int) string {
	if count == 1 {
		return fmt.Sprintf("%d", start)
	}
	return fmt.Sprintf("%d-%d", start, start+count-1)
}
