package inventory

import (
	"context"
	"net/http"
	"time"

	"github.com/machinebox/graphql"

	"github.com/lumecue/lumecue/internal/dmx"
)

// requestTimeout bounds every upstream call. The engine itself has no
// timeout concept; this is the caller-side policy around the fetch.
const requestTimeout = 15 * time.Second

// Client is the GraphQL implementation of Service against the
// lighting-control service.
type Client struct {
	gql   *graphql.Client
	token string
}

// NewClient creates a client for the service at the given GraphQL
// endpoint. token may be empty for unauthenticated local services.
func NewClient(endpoint, token string) *Client {
	httpClient := &http.Client{Timeout: requestTimeout}
	return &Client{
		gql:   graphql.NewClient(endpoint, graphql.WithHTTPClient(httpClient)),
		token: token,
	}
}

// run executes a GraphQL request, attaching auth and wrapping failures
// as UpstreamError.
func (c *Client) run(ctx context.Context, op string, req *graphql.Request, resp any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if err := c.gql.Run(ctx, req, resp); err != nil {
		return &UpstreamError{Op: op, Err: err}
	}
	return nil
}

// ListProjects returns all projects visible to this client.
func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	req := graphql.NewRequest(`
		query {
			projects {
				id
				name
				description
			}
		}`)

	var resp struct {
		Projects []Project `json:"projects"`
	}
	if err := c.run(ctx, "list projects", req, &resp); err != nil {
		return nil, err
	}
	return resp.Projects, nil
}

// CreateProject creates a new lighting project.
func (c *Client) CreateProject(ctx context.Context, name, description string) (*Project, error) {
	req := graphql.NewRequest(`
		mutation ($name: String!, $description: String) {
			createProject(input: { name: $name, description: $description }) {
				id
				name
				description
			}
		}`)
	req.Var("name", name)
	req.Var("description", description)

	var resp struct {
		CreateProject Project `json:"createProject"`
	}
	if err := c.run(ctx, "create project", req, &resp); err != nil {
		return nil, err
	}
	return &resp.CreateProject, nil
}

// ListFixtures returns the fixtures of a project, optionally filtered
// to one universe (0 = all). Channel counts are mode-resolved by the
// service; per-offset channel types come along when available.
func (c *Client) ListFixtures(ctx context.Context, projectID string, universe int) ([]Fixture, error) {
	req := graphql.NewRequest(`
		query ($projectId: ID!) {
			project(id: $projectId) {
				fixtures {
					id
					name
					manufacturer
					model
					type
					modeName
					universe
					startChannel
					channelCount
					channels {
						offset
						name
						type
					}
				}
			}
		}`)
	req.Var("projectId", projectID)

	var resp struct {
		Project struct {
			Fixtures []Fixture `json:"fixtures"`
		} `json:"project"`
	}
	if err := c.run(ctx, "list fixtures", req, &resp); err != nil {
		return nil, err
	}

	if universe == 0 {
		return resp.Project.Fixtures, nil
	}
	var filtered []Fixture
	for _, f := range resp.Project.Fixtures {
		if f.Universe == universe {
			filtered = append(filtered, f)
		}
	}
	return filtered, nil
}

// ListFixturePatches implements Source: the engine-facing snapshot.
func (c *Client) ListFixturePatches(ctx context.Context, projectID string, universe int) ([]dmx.FixturePatch, error) {
	fixtures, err := c.ListFixtures(ctx, projectID, universe)
	if err != nil {
		return nil, err
	}
	patches := make([]dmx.FixturePatch, len(fixtures))
	for i, f := range fixtures {
		patches[i] = f.Patch()
	}
	return patches, nil
}

// CreateFixture persists a fixture instance. The service's uniqueness
// constraint on (universe, channel) is the final arbiter: a conflict
// here wins over any earlier validation against a stale snapshot.
func (c *Client) CreateFixture(ctx context.Context, input CreateFixtureInput) (*Fixture, error) {
	req := graphql.NewRequest(`
		mutation ($input: CreateFixtureInstanceInput!) {
			createFixtureInstance(input: $input) {
				id
				name
				universe
				startChannel
				channelCount
			}
		}`)
	req.Var("input", input)

	var resp struct {
		CreateFixtureInstance Fixture `json:"createFixtureInstance"`
	}
	if err := c.run(ctx, "create fixture", req, &resp); err != nil {
		return nil, err
	}
	return &resp.CreateFixtureInstance, nil
}

// ListScenes returns the stored looks of a project.
func (c *Client) ListScenes(ctx context.Context, projectID string) ([]Scene, error) {
	req := graphql.NewRequest(`
		query ($projectId: ID!) {
			project(id: $projectId) {
				scenes {
					id
					name
					description
				}
			}
		}`)
	req.Var("projectId", projectID)

	var resp struct {
		Project struct {
			Scenes []Scene `json:"scenes"`
		} `json:"project"`
	}
	if err := c.run(ctx, "list scenes", req, &resp); err != nil {
		return nil, err
	}
	return resp.Project.Scenes, nil
}

// ActivateScene fades the live output to a scene. Fade timing is owned
// entirely by the service.
func (c *Client) ActivateScene(ctx context.Context, sceneID string, fadeTime float64) error {
	req := graphql.NewRequest(`
		mutation ($sceneId: ID!, $fadeTime: Float) {
			setSceneLive(sceneId: $sceneId, fadeInTime: $fadeTime)
		}`)
	req.Var("sceneId", sceneID)
	req.Var("fadeTime", fadeTime)

	var resp struct {
		SetSceneLive bool `json:"setSceneLive"`
	}
	return c.run(ctx, "activate scene", req, &resp)
}

// ListCueLists returns a project's cue lists with their cues.
func (c *Client) ListCueLists(ctx context.Context, projectID string) ([]CueList, error) {
	req := graphql.NewRequest(`
		query ($projectId: ID!) {
			project(id: $projectId) {
				cueLists {
					id
					name
					loop
					cues {
						id
						name
						cueNumber
						fadeInTime
						fadeOutTime
					}
				}
			}
		}`)
	req.Var("projectId", projectID)

	var resp struct {
		Project struct {
			CueLists []CueList `json:"cueLists"`
		} `json:"project"`
	}
	if err := c.run(ctx, "list cue lists", req, &resp); err != nil {
		return nil, err
	}
	return resp.Project.CueLists, nil
}

// PlayCueList starts playback, optionally from a specific cue number
// (0 = from the top).
func (c *Client) PlayCueList(ctx context.Context, cueListID string, startCue float64) error {
	req := graphql.NewRequest(`
		mutation ($cueListId: ID!, $startCue: Float) {
			startCueList(cueListId: $cueListId, startFromCue: $startCue)
		}`)
	req.Var("cueListId", cueListID)
	if startCue > 0 {
		req.Var("startCue", startCue)
	} else {
		req.Var("startCue", nil)
	}

	var resp struct {
		StartCueList bool `json:"startCueList"`
	}
	return c.run(ctx, "play cue list", req, &resp)
}

// NextCue advances a running cue list to its next cue.
func (c *Client) NextCue(ctx context.Context, cueListID string) error {
	req := graphql.NewRequest(`
		mutation ($cueListId: ID!) {
			nextCue(cueListId: $cueListId)
		}`)
	req.Var("cueListId", cueListID)

	var resp struct {
		NextCue bool `json:"nextCue"`
	}
	return c.run(ctx, "next cue", req, &resp)
}

// StopCueList stops playback of a cue list.
func (c *Client) StopCueList(ctx context.Context, cueListID string) error {
	req := graphql.NewRequest(`
		mutation ($cueListId: ID!) {
			stopCueList(cueListId: $cueListId)
		}`)
	req.Var("cueListId", cueListID)

	var resp struct {
		StopCueList bool `json:"stopCueList"`
	}
	return c.run(ctx, "stop cue list", req, &resp)
}
