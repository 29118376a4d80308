// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates concrete implementations
// and injects them into the tools/prompts/resources that depend on
// abstractions. No business logic lives here — only wiring.
package server

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"

	"github.com/lumecue/lumecue/internal/config"
	"github.com/lumecue/lumecue/internal/inventory"
	"github.com/lumecue/lumecue/internal/library"
	"github.com/lumecue/lumecue/internal/logging"
	"github.com/lumecue/lumecue/internal/patch"
	"github.com/lumecue/lumecue/internal/prompts"
	"github.com/lumecue/lumecue/internal/resources"
	"github.com/lumecue/lumecue/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates and configures the MCP server with all tools, prompts,
// and resources registered. This is the single place where all
// dependencies are resolved.
//
// The returned cleanup function closes the fixture library's database
// connection and must be called on shutdown (typically via defer).
// It is always non-nil and safe to call even if the library failed to
// open.
func New(cfg *config.Config) (*server.MCPServer, func(), error) {
	log, err := logging.New(cfg.Log.Level)
	if err != nil {
		return nil, noop, fmt.Errorf("configuring logging: %w", err)
	}

	// --- Create shared dependencies ---

	client := inventory.NewClient(cfg.Service.Endpoint, cfg.Service.Token)
	defaultProject := cfg.Service.DefaultProject

	// The fixture-definition library is an independent subsystem: if
	// its database fails to open, patching still works — specs then
	// need explicit channel counts (or take the default). We log a
	// warning and continue without it.
	cleanup := noop
	var resolver patch.Resolver
	lib, libErr := library.Open(library.Config{DataDir: cfg.Library.DataDir})
	if libErr != nil {
		log.With(logging.Fields{"error": libErr}).
			Warnf("fixture library disabled, channel counts must be explicit")
	} else {
		resolver = lib
		cleanup = func() {
			if err := lib.Close(); err != nil {
				log.With(logging.Fields{"error": err}).Warnf("closing fixture library")
			}
		}
	}

	patcher := patch.New(client, resolver, log)

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"lumecue",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register patching tools ---

	assignTool := tools.NewAssignChannelsTool(patcher, defaultProject)
	s.AddTool(assignTool.Definition(), assignTool.Handle)

	validateTool := tools.NewValidatePatchTool(patcher, defaultProject)
	s.AddTool(validateTool.Definition(), validateTool.Handle)

	planTool := tools.NewPlanAssignmentsTool(patcher, defaultProject)
	s.AddTool(planTool.Definition(), planTool.Handle)

	mapTool := tools.NewChannelMapTool(patcher, defaultProject)
	s.AddTool(mapTool.Definition(), mapTool.Handle)

	// --- Register project and fixture tools ---

	listProjects := tools.NewListProjectsTool(client)
	s.AddTool(listProjects.Definition(), listProjects.Handle)

	createProject := tools.NewCreateProjectTool(client)
	s.AddTool(createProject.Definition(), createProject.Handle)

	listFixtures := tools.NewListFixturesTool(client, defaultProject)
	s.AddTool(listFixtures.Definition(), listFixtures.Handle)

	createFixture := tools.NewCreateFixtureTool(client, patcher, defaultProject)
	s.AddTool(createFixture.Definition(), createFixture.Handle)

	// --- Register playback tools ---
	//
	// Playback runs entirely on the control service; these tools are
	// thin dispatch so the assistant can drive a show.

	listScenes := tools.NewListScenesTool(client, defaultProject)
	s.AddTool(listScenes.Definition(), listScenes.Handle)

	activateScene := tools.NewActivateSceneTool(client)
	s.AddTool(activateScene.Definition(), activateScene.Handle)

	listCueLists := tools.NewListCueListsTool(client, defaultProject)
	s.AddTool(listCueLists.Definition(), listCueLists.Handle)

	playCueList := tools.NewPlayCueListTool(client)
	s.AddTool(playCueList.Definition(), playCueList.Handle)

	nextCue := tools.NewNextCueTool(client)
	s.AddTool(nextCue.Definition(), nextCue.Handle)

	stopCueList := tools.NewStopCueListTool(client)
	s.AddTool(stopCueList.Definition(), stopCueList.Handle)

	// --- Register prompts ---

	patchPrompt := prompts.NewPatchFixturesPrompt()
	s.AddPrompt(patchPrompt.Definition(), patchPrompt.Handle)

	statusPrompt := prompts.NewShowStatusPrompt()
	s.AddPrompt(statusPrompt.Definition(), statusPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(client, defaultProject)
	s.AddResource(resourceHandler.PatchOverviewResource(), resourceHandler.HandlePatchOverview)

	return s, cleanup, nil
}

// noop is a no-op cleanup function used as the default when the
// library is disabled or hasn't been initialized.
func noop() {}

// serverInstructions returns the system instructions that tell the AI
// how to use lumecue effectively.
func serverInstructions() string {
	return `You have access to lumecue, an MCP server for theatrical DMX lighting.

## WHAT LUMECUE DOES

lumecue talks to a lighting-control service that owns projects, patched
fixtures, scenes, and cue lists. It adds a DMX channel allocation engine
on top: finding free channel blocks, validating manual patches, and
planning whole-rig layouts.

## DMX BASICS YOU SHOULD ASSUME

- A universe has 512 channels, numbered 1-512.
- Each fixture occupies a contiguous block of channels starting at its
  start channel. Two fixtures must never share a channel.
- Typical rigs use universes 1-4. Moving heads commonly need 14+
  channels; LED pars 4-8; a simple dimmer 1.

## HOW TO PATCH FIXTURES

1. For a single fixture: call assign_channels to get a proposed start
   channel, then create_fixture to persist it. Or call create_fixture
   without start_channel and let it auto-assign in one step.
2. For several fixtures at once: call plan_channel_assignments first,
   show the user the plan, and only create fixtures after they approve.
3. When the user picks channels themselves, call validate_patch before
   creating — it names the conflicting fixture if the range is taken.
4. assign_channels and plan_channel_assignments return PROPOSALS.
   Nothing is reserved until create_fixture succeeds; the control
   service's conflict check at creation time is final. If creation
   fails with a conflict, re-run the assignment and try again.

## WORKING WITH THE RIG

- get_channel_map shows what is patched where — use it before manual
  changes and when debugging addressing problems.
- Know the project first: list_projects, or rely on the configured
  default project.
- Scenes and cue lists are played with activate_scene, play_cue_list,
  next_cue, and stop_cue_list. Fade timing runs on the control service.

## STYLE

Present channel assignments as tables. Use the fixture names the user
gave. When a tool reports an error with a remediation hint, follow the
hint rather than retrying the same call.`
}
