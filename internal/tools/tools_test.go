package tools

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/lumecue/lumecue/internal/dmx"
	"github.com/lumecue/lumecue/internal/inventory"
	"github.com/lumecue/lumecue/internal/library"
	"github.com/lumecue/lumecue/internal/logging"
	"github.com/lumecue/lumecue/internal/patch"
)

// --- Test helpers ---

// fakeService is an in-memory inventory.Service for handler tests.
type fakeService struct {
	patches    []dmx.FixturePatch
	patchesErr error

	projects []inventory.Project
	fixtures []inventory.Fixture
	scenes   []inventory.Scene
	cueLists []inventory.CueList

	createdFixture *inventory.CreateFixtureInput
	createErr      error

	activatedScene string
	activatedFade  float64
	playedList     string
	playedFrom     float64
	advancedList   string
	stoppedList    string
}

func (f *fakeService) ListFixturePatches(ctx context.Context, projectID string, universe int) ([]dmx.FixturePatch, error) {
	if f.patchesErr != nil {
		return nil, f.patchesErr
	}
	return f.patches, nil
}

func (f *fakeService) ListProjects(ctx context.Context) ([]inventory.Project, error) {
	return f.projects, nil
}

func (f *fakeService) CreateProject(ctx context.Context, name, description string) (*inventory.Project, error) {
	return &inventory.Project{ID: "proj-new", Name: name, Description: description}, nil
}

func (f *fakeService) ListFixtures(ctx context.Context, projectID string, universe int) ([]inventory.Fixture, error) {
	return f.fixtures, nil
}

func (f *fakeService) CreateFixture(ctx context.Context, input inventory.CreateFixtureInput) (*inventory.Fixture, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.createdFixture = &input
	return &inventory.Fixture{
		ID:           "fix-new",
		Name:         input.Name,
		Universe:     input.Universe,
		StartChannel: input.StartChannel,
		ChannelCount: input.ChannelCount,
	}, nil
}

func (f *fakeService) ListScenes(ctx context.Context, projectID string) ([]inventory.Scene, error) {
	return f.scenes, nil
}

func (f *fakeService) ActivateScene(ctx context.Context, sceneID string, fadeTime float64) error {
	f.activatedScene = sceneID
	f.activatedFade = fadeTime
	return nil
}

func (f *fakeService) ListCueLists(ctx context.Context, projectID string) ([]inventory.CueList, error) {
	return f.cueLists, nil
}

func (f *fakeService) PlayCueList(ctx context.Context, cueListID string, startCue float64) error {
	f.playedList = cueListID
	f.playedFrom = startCue
	return nil
}

func (f *fakeService) NextCue(ctx context.Context, cueListID string) error {
	f.advancedList = cueListID
	return nil
}

func (f *fakeService) StopCueList(ctx context.Context, cueListID string) error {
	f.stoppedList = cueListID
	return nil
}

// fakeResolver knows one definition: Chauvet SlimPAR with an 8-channel
// default mode.
type fakeResolver struct{}

func (fakeResolver) Resolve(manufacturer, model, mode string) (*library.Resolved, error) {
	if !strings.EqualFold(manufacturer, "Chauvet") {
		return nil, nil
	}
	return &library.Resolved{
		Definition: library.Definition{
			Manufacturer: "Chauvet",
			Model:        "SlimPAR Pro RGBA",
			Type:         library.CategoryLEDPar,
		},
		Mode: library.Mode{
			Name:         "8-channel",
			ChannelCount: 8,
			Channels: []library.Channel{
				{Offset: 0, Name: "Red", Type: library.TypeRed},
				{Offset: 1, Name: "Green", Type: library.TypeGreen},
			},
		},
	}, nil
}

func newTestPatcher(svc *fakeService) *patch.Patcher {
	return patch.New(svc, fakeResolver{}, logging.Discard())
}

// isErrorResult checks if the result is a tool error.
func isErrorResult(result *mcp.CallToolResult) bool {
	return result != nil && result.IsError
}

// getResultText extracts the text content from a CallToolResult.
func getResultText(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func callReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

// --- AssignChannelsTool ---

func TestAssignChannelsTool_FirstFit(t *testing.T) {
	svc := &fakeService{patches: []dmx.FixturePatch{
		{FixtureID: "f1", Name: "Dimmer Rack", Universe: 1, StartChannel: 1, ChannelCount: 6},
	}}
	tool := NewAssignChannelsTool(newTestPatcher(svc), "proj-1")

	req := callReq(map[string]interface{}{
		"universe":      float64(1),
		"channel_count": float64(4),
	})
	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if isErrorResult(result) {
		t.Fatalf("unexpected tool error: %s", getResultText(result))
	}

	text := getResultText(result)
	if !strings.Contains(text, "7-10") {
		t.Errorf("expected proposal 7-10 in output, got:\n%s", text)
	}
	if !strings.Contains(text, "proposal") {
		t.Errorf("output should state the assignment is a proposal, got:\n%s", text)
	}
}

func TestAssignChannelsTool_MissingChannelCount(t *testing.T) {
	tool := NewAssignChannelsTool(newTestPatcher(&fakeService{}), "proj-1")

	req := callReq(map[string]interface{}{"universe": float64(1)})
	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if !isErrorResult(result) {
		t.Fatal("expected tool error for missing channel_count")
	}
	if !strings.Contains(getResultText(result), "channel_count") {
		t.Errorf("error should name the missing parameter, got: %s", getResultText(result))
	}
}

func TestAssignChannelsTool_NoDefaultProject(t *testing.T) {
	tool := NewAssignChannelsTool(newTestPatcher(&fakeService{}), "")

	req := callReq(map[string]interface{}{
		"universe":      float64(1),
		"channel_count": float64(4),
	})
	result, _ := tool.Handle(context.Background(), req)
	if !isErrorResult(result) {
		t.Fatal("expected tool error when no project is available")
	}
	if !strings.Contains(getResultText(result), "project_id") {
		t.Errorf("error should mention project_id, got: %s", getResultText(result))
	}
}

func TestAssignChannelsTool_CapacityExhausted(t *testing.T) {
	// One span of 510 channels leaves only 511-512 free.
	svc := &fakeService{patches: []dmx.FixturePatch{
		{FixtureID: "f1", Name: "Wall", Universe: 1, StartChannel: 1, ChannelCount: 510},
	}}
	tool := NewAssignChannelsTool(newTestPatcher(svc), "proj-1")

	req := callReq(map[string]interface{}{
		"universe":      float64(1),
		"channel_count": float64(4),
	})
	result, _ := tool.Handle(context.Background(), req)
	if !isErrorResult(result) {
		t.Fatal("expected tool error when the universe cannot fit the block")
	}
	text := getResultText(result)
	if !strings.Contains(text, "different universe") {
		t.Errorf("capacity error should suggest another universe, got: %s", text)
	}
}

func TestAssignChannelsTool_UpstreamFailure(t *testing.T) {
	svc := &fakeService{patchesErr: &inventory.UpstreamError{Op: "fixtures", Err: errors.New("connection refused")}}
	tool := NewAssignChannelsTool(newTestPatcher(svc), "proj-1")

	req := callReq(map[string]interface{}{
		"universe":      float64(1),
		"channel_count": float64(4),
	})
	result, _ := tool.Handle(context.Background(), req)
	if !isErrorResult(result) {
		t.Fatal("expected tool error when the service is down")
	}
	text := getResultText(result)
	if !strings.Contains(text, "lighting service") {
		t.Errorf("upstream failure must not be masked, got: %s", text)
	}
	if strings.Contains(text, "different universe") {
		t.Errorf("upstream failure must not read like capacity exhaustion, got: %s", text)
	}
}

// --- ValidatePatchTool ---

func TestValidatePatchTool_Conflict(t *testing.T) {
	svc := &fakeService{patches: []dmx.FixturePatch{
		{FixtureID: "f1", Name: "Stage Left Par", Universe: 1, StartChannel: 5, ChannelCount: 4},
	}}
	tool := NewValidatePatchTool(newTestPatcher(svc), "proj-1")

	req := callReq(map[string]interface{}{
		"universe":      float64(1),
		"start_channel": float64(6),
		"channel_count": float64(3),
	})
	result, _ := tool.Handle(context.Background(), req)
	if !isErrorResult(result) {
		t.Fatal("expected tool error for an occupied range")
	}
	text := getResultText(result)
	if !strings.Contains(text, "Stage Left Par") {
		t.Errorf("conflict should name the occupying fixture, got: %s", text)
	}
	if !strings.Contains(text, "channel 6") {
		t.Errorf("conflict should name the colliding channel, got: %s", text)
	}
}

func TestValidatePatchTool_Free(t *testing.T) {
	svc := &fakeService{patches: []dmx.FixturePatch{
		{FixtureID: "f1", Name: "Par", Universe: 1, StartChannel: 1, ChannelCount: 4},
	}}
	tool := NewValidatePatchTool(newTestPatcher(svc), "proj-1")

	req := callReq(map[string]interface{}{
		"universe":      float64(1),
		"start_channel": float64(10),
		"channel_count": float64(4),
	})
	result, _ := tool.Handle(context.Background(), req)
	if isErrorResult(result) {
		t.Fatalf("unexpected tool error: %s", getResultText(result))
	}
	if !strings.Contains(getResultText(result), "10-13") {
		t.Errorf("output should echo the validated range, got: %s", getResultText(result))
	}
}

func TestValidatePatchTool_OutOfBounds(t *testing.T) {
	tool := NewValidatePatchTool(newTestPatcher(&fakeService{}), "proj-1")

	req := callReq(map[string]interface{}{
		"universe":      float64(1),
		"start_channel": float64(510),
		"channel_count": float64(8),
	})
	result, _ := tool.Handle(context.Background(), req)
	if !isErrorResult(result) {
		t.Fatal("expected tool error for a range past channel 512")
	}
	if !strings.Contains(getResultText(result), "1-512") {
		t.Errorf("range error should state the valid channel range, got: %s", getResultText(result))
	}
}

// --- ChannelMapTool ---

func TestChannelMapTool_Render(t *testing.T) {
	svc := &fakeService{patches: []dmx.FixturePatch{
		{FixtureID: "f1", Name: "Par L", Universe: 1, StartChannel: 1, ChannelCount: 4},
		{FixtureID: "f2", Name: "Par R", Universe: 1, StartChannel: 10, ChannelCount: 4},
	}}
	tool := NewChannelMapTool(newTestPatcher(svc), "proj-1")

	req := callReq(map[string]interface{}{"universe": float64(1)})
	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	text := getResultText(result)

	for _, want := range []string{
		"Used:** 8 / 512",
		"Next available channel:** 5",
		"| 1-4 | Par L |",
		"| 10-13 | Par R |",
		"5-9",
		"14-512",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("channel map missing %q:\n%s", want, text)
		}
	}
}

func TestChannelMapTool_MissingUniverse(t *testing.T) {
	tool := NewChannelMapTool(newTestPatcher(&fakeService{}), "proj-1")

	result, _ := tool.Handle(context.Background(), callReq(map[string]interface{}{}))
	if !isErrorResult(result) {
		t.Fatal("expected tool error when universe is omitted")
	}
}

// --- PlanAssignmentsTool ---

func TestPlanAssignmentsTool_SequentialPlan(t *testing.T) {
	tool := NewPlanAssignmentsTool(newTestPatcher(&fakeService{}), "proj-1")

	req := callReq(map[string]interface{}{
		"universe": float64(1),
		"fixtures": `[{"name":"Par 1","channelCount":4},{"name":"Par 2","channelCount":4}]`,
	})
	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if isErrorResult(result) {
		t.Fatalf("unexpected tool error: %s", getResultText(result))
	}

	text := getResultText(result)
	if !strings.Contains(text, "| Par 1 | 1-4 | 4 |") {
		t.Errorf("expected Par 1 at 1-4, got:\n%s", text)
	}
	if !strings.Contains(text, "| Par 2 | 5-8 | 4 |") {
		t.Errorf("expected Par 2 at 5-8, got:\n%s", text)
	}
}

func TestPlanAssignmentsTool_LibraryResolvedCount(t *testing.T) {
	tool := NewPlanAssignmentsTool(newTestPatcher(&fakeService{}), "proj-1")

	req := callReq(map[string]interface{}{
		"universe": float64(1),
		"fixtures": `[{"name":"Wash","manufacturer":"Chauvet","model":"SlimPAR Pro RGBA"}]`,
	})
	result, _ := tool.Handle(context.Background(), req)
	if isErrorResult(result) {
		t.Fatalf("unexpected tool error: %s", getResultText(result))
	}
	if !strings.Contains(getResultText(result), "1-8") {
		t.Errorf("library should resolve an 8-channel mode, got:\n%s", getResultText(result))
	}
}

func TestPlanAssignmentsTool_BadJSON(t *testing.T) {
	tool := NewPlanAssignmentsTool(newTestPatcher(&fakeService{}), "proj-1")

	req := callReq(map[string]interface{}{
		"universe": float64(1),
		"fixtures": `not json`,
	})
	result, _ := tool.Handle(context.Background(), req)
	if !isErrorResult(result) {
		t.Fatal("expected tool error for malformed fixtures JSON")
	}
}

func TestPlanAssignmentsTool_UnnamedSpec(t *testing.T) {
	tool := NewPlanAssignmentsTool(newTestPatcher(&fakeService{}), "proj-1")

	req := callReq(map[string]interface{}{
		"universe": float64(1),
		"fixtures": `[{"channelCount":4}]`,
	})
	result, _ := tool.Handle(context.Background(), req)
	if !isErrorResult(result) {
		t.Fatal("expected tool error for a spec without a name")
	}
	if !strings.Contains(getResultText(result), "#1") {
		t.Errorf("error should point at the offending spec, got: %s", getResultText(result))
	}
}

func TestPlanAssignmentsTool_UnknownStrategy(t *testing.T) {
	tool := NewPlanAssignmentsTool(newTestPatcher(&fakeService{}), "proj-1")

	req := callReq(map[string]interface{}{
		"universe":          float64(1),
		"fixtures":          `[{"name":"Par 1"}]`,
		"grouping_strategy": "alphabetical",
	})
	result, _ := tool.Handle(context.Background(), req)
	if !isErrorResult(result) {
		t.Fatal("expected tool error for an unknown grouping strategy")
	}
}

// --- CreateFixtureTool ---

func TestCreateFixtureTool_AutoAssign(t *testing.T) {
	svc := &fakeService{patches: []dmx.FixturePatch{
		{FixtureID: "f1", Name: "Rack", Universe: 1, StartChannel: 1, ChannelCount: 12},
	}}
	tool := NewCreateFixtureTool(svc, newTestPatcher(svc), "proj-1")

	req := callReq(map[string]interface{}{
		"name":         "Wash",
		"manufacturer": "Chauvet",
		"model":        "SlimPAR Pro RGBA",
		"universe":     float64(1),
	})
	result, err := tool.Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	if isErrorResult(result) {
		t.Fatalf("unexpected tool error: %s", getResultText(result))
	}

	if svc.createdFixture == nil {
		t.Fatal("fixture was not persisted")
	}
	got := svc.createdFixture
	if got.StartChannel != 13 {
		t.Errorf("StartChannel = %d, want 13 (first fit after the rack)", got.StartChannel)
	}
	if got.ChannelCount != 8 {
		t.Errorf("ChannelCount = %d, want 8 from the library mode", got.ChannelCount)
	}
	if len(got.Channels) != 2 {
		t.Errorf("expected the mode's channel definitions to be forwarded, got %d", len(got.Channels))
	}
	if !strings.Contains(getResultText(result), "auto-assigned") {
		t.Errorf("output should say channels were auto-assigned, got:\n%s", getResultText(result))
	}
}

func TestCreateFixtureTool_ManualConflict(t *testing.T) {
	svc := &fakeService{patches: []dmx.FixturePatch{
		{FixtureID: "f1", Name: "House Dimmers", Universe: 1, StartChannel: 1, ChannelCount: 24},
	}}
	tool := NewCreateFixtureTool(svc, newTestPatcher(svc), "proj-1")

	req := callReq(map[string]interface{}{
		"name":          "Spot",
		"universe":      float64(1),
		"start_channel": float64(20),
		"channel_count": float64(14),
	})
	result, _ := tool.Handle(context.Background(), req)
	if !isErrorResult(result) {
		t.Fatal("expected tool error for a conflicting manual start channel")
	}
	if svc.createdFixture != nil {
		t.Error("fixture must not be persisted when validation fails")
	}
	if !strings.Contains(getResultText(result), "House Dimmers") {
		t.Errorf("error should name the conflicting fixture, got: %s", getResultText(result))
	}
}

func TestCreateFixtureTool_DefaultChannelCount(t *testing.T) {
	svc := &fakeService{}
	tool := NewCreateFixtureTool(svc, newTestPatcher(svc), "proj-1")

	req := callReq(map[string]interface{}{
		"name":     "Mystery Light",
		"universe": float64(1),
	})
	result, _ := tool.Handle(context.Background(), req)
	if isErrorResult(result) {
		t.Fatalf("unexpected tool error: %s", getResultText(result))
	}
	if svc.createdFixture == nil {
		t.Fatal("fixture was not persisted")
	}
	if svc.createdFixture.ChannelCount != dmx.DefaultChannelCount {
		t.Errorf("ChannelCount = %d, want default %d", svc.createdFixture.ChannelCount, dmx.DefaultChannelCount)
	}
}

func TestCreateFixtureTool_LateServiceConflict(t *testing.T) {
	svc := &fakeService{
		createErr: &inventory.UpstreamError{Op: "createFixtureInstance", Err: errors.New("channel overlap")},
	}
	tool := NewCreateFixtureTool(svc, newTestPatcher(svc), "proj-1")

	req := callReq(map[string]interface{}{
		"name":     "Par",
		"universe": float64(1),
	})
	result, _ := tool.Handle(context.Background(), req)
	if !isErrorResult(result) {
		t.Fatal("expected tool error when the service rejects the create")
	}
	if !strings.Contains(getResultText(result), "assign_channels") {
		t.Errorf("late conflict should suggest re-running assign_channels, got: %s", getResultText(result))
	}
}

// --- Project and fixture listing ---

func TestListProjectsTool(t *testing.T) {
	svc := &fakeService{projects: []inventory.Project{
		{ID: "p1", Name: "Spring Musical", Description: "main stage"},
	}}
	tool := NewListProjectsTool(svc)

	result, err := tool.Handle(context.Background(), callReq(nil))
	if err != nil {
		t.Fatalf("Handle failed: %v", err)
	}
	text := getResultText(result)
	if !strings.Contains(text, "Spring Musical") || !strings.Contains(text, "p1") {
		t.Errorf("project listing incomplete:\n%s", text)
	}
}

func TestListProjectsTool_Empty(t *testing.T) {
	tool := NewListProjectsTool(&fakeService{})
	result, _ := tool.Handle(context.Background(), callReq(nil))
	if !strings.Contains(getResultText(result), "create_project") {
		t.Errorf("empty listing should point at create_project, got: %s", getResultText(result))
	}
}

func TestCreateProjectTool(t *testing.T) {
	tool := NewCreateProjectTool(&fakeService{})

	req := callReq(map[string]interface{}{"name": "Club Night"})
	result, _ := tool.Handle(context.Background(), req)
	if isErrorResult(result) {
		t.Fatalf("unexpected tool error: %s", getResultText(result))
	}
	if !strings.Contains(getResultText(result), "proj-new") {
		t.Errorf("output should include the new project ID, got:\n%s", getResultText(result))
	}
}

func TestListFixturesTool(t *testing.T) {
	svc := &fakeService{fixtures: []inventory.Fixture{
		{ID: "f1", Name: "Par L", Manufacturer: "Chauvet", Model: "SlimPAR", Universe: 1, StartChannel: 1, ChannelCount: 4},
	}}
	tool := NewListFixturesTool(svc, "proj-1")

	result, _ := tool.Handle(context.Background(), callReq(map[string]interface{}{}))
	text := getResultText(result)
	if !strings.Contains(text, "| Par L | Chauvet SlimPAR | 1 | 1-4 |") {
		t.Errorf("fixture row missing or malformed:\n%s", text)
	}
}

// --- Scenes ---

func TestActivateSceneTool(t *testing.T) {
	svc := &fakeService{}
	tool := NewActivateSceneTool(svc)

	req := callReq(map[string]interface{}{
		"scene_id":  "scene-1",
		"fade_time": float64(2.5),
	})
	result, _ := tool.Handle(context.Background(), req)
	if isErrorResult(result) {
		t.Fatalf("unexpected tool error: %s", getResultText(result))
	}
	if svc.activatedScene != "scene-1" || svc.activatedFade != 2.5 {
		t.Errorf("activation not dispatched: scene=%q fade=%v", svc.activatedScene, svc.activatedFade)
	}
}

func TestActivateSceneTool_NegativeFade(t *testing.T) {
	tool := NewActivateSceneTool(&fakeService{})

	req := callReq(map[string]interface{}{
		"scene_id":  "scene-1",
		"fade_time": float64(-1),
	})
	result, _ := tool.Handle(context.Background(), req)
	if !isErrorResult(result) {
		t.Fatal("expected tool error for a negative fade time")
	}
}

// --- Cue lists ---

func TestListCueListsTool(t *testing.T) {
	svc := &fakeService{cueLists: []inventory.CueList{
		{ID: "cl1", Name: "Act One", Cues: []inventory.Cue{
			{ID: "c1", Name: "Preset", CueNumber: 1, FadeInTime: 3, FadeOutTime: 3},
			{ID: "c2", Name: "Blackout", CueNumber: 2.5, FadeInTime: 0, FadeOutTime: 1},
		}},
	}}
	tool := NewListCueListsTool(svc, "proj-1")

	result, _ := tool.Handle(context.Background(), callReq(map[string]interface{}{}))
	text := getResultText(result)
	if !strings.Contains(text, "Act One") {
		t.Errorf("cue list name missing:\n%s", text)
	}
	if !strings.Contains(text, "| 2.5 | Blackout |") {
		t.Errorf("fractional cue number should render as 2.5:\n%s", text)
	}
}

func TestPlayCueListTool(t *testing.T) {
	svc := &fakeService{}
	tool := NewPlayCueListTool(svc)

	req := callReq(map[string]interface{}{
		"cue_list_id": "cl1",
		"start_cue":   float64(3),
	})
	result, _ := tool.Handle(context.Background(), req)
	if isErrorResult(result) {
		t.Fatalf("unexpected tool error: %s", getResultText(result))
	}
	if svc.playedList != "cl1" || svc.playedFrom != 3 {
		t.Errorf("playback not dispatched: list=%q from=%v", svc.playedList, svc.playedFrom)
	}
}

func TestNextCueTool_MissingID(t *testing.T) {
	tool := NewNextCueTool(&fakeService{})
	result, _ := tool.Handle(context.Background(), callReq(map[string]interface{}{}))
	if !isErrorResult(result) {
		t.Fatal("expected tool error for missing cue_list_id")
	}
}

func TestStopCueListTool(t *testing.T) {
	svc := &fakeService{}
	tool := NewStopCueListTool(svc)

	req := callReq(map[string]interface{}{"cue_list_id": "cl1"})
	result, _ := tool.Handle(context.Background(), req)
	if isErrorResult(result) {
		t.Fatalf("unexpected tool error: %s", getResultText(result))
	}
	if svc.stoppedList != "cl1" {
		t.Errorf("stop not dispatched, got %q", svc.stoppedList)
	}
}
