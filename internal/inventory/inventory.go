// Package inventory talks to the external lighting-control service.
//
// The service is the sole owner of projects, fixtures, scenes, cue lists
// and playback state; this package consumes it read-mostly over GraphQL
// and exposes narrow interfaces so the rest of the server can be tested
// against fakes. Fixture patches are returned as request-scoped
// snapshots — nothing is cached between calls.
package inventory

import (
	"context"
	"fmt"

	"github.com/lumecue/lumecue/internal/dmx"
)

// Source provides the fixture-patch snapshot the allocation engine
// works from. universe 0 means all universes.
type Source interface {
	ListFixturePatches(ctx context.Context, projectID string, universe int) ([]dmx.FixturePatch, error)
}

// Project is a lighting project on the control service.
type Project struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Fixture is a patched fixture instance as reported by the service.
type Fixture struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Manufacturer string `json:"manufacturer,omitempty"`
	Model        string `json:"model,omitempty"`
	Type         string `json:"type,omitempty"`
	ModeName     string `json:"modeName,omitempty"`
	Universe     int    `json:"universe"`
	StartChannel int    `json:"startChannel"`
	ChannelCount int    `json:"channelCount"`

	Channels []FixtureChannel `json:"channels,omitempty"`
}

// FixtureChannel is one control channel of a fixture instance.
type FixtureChannel struct {
	Offset int    `json:"offset"`
	Name   string `json:"name,omitempty"`
	Type   string `json:"type"`
}

// Patch converts the fixture to the engine's patch representation.
func (f Fixture) Patch() dmx.FixturePatch {
	types := make([]string, f.ChannelCount)
	for _, ch := range f.Channels {
		if ch.Offset >= 0 && ch.Offset < len(types) {
			types[ch.Offset] = ch.Type
		}
	}
	return dmx.FixturePatch{
		FixtureID:    f.ID,
		Name:         f.Name,
		Universe:     f.Universe,
		StartChannel: f.StartChannel,
		ChannelCount: f.ChannelCount,
		ChannelTypes: types,
	}
}

// Scene is a stored look on the control service.
type Scene struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// CueList is an ordered sequence of cues.
type CueList struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Loop bool   `json:"loop"`
	Cues []Cue  `json:"cues,omitempty"`
}

// Cue is one step of a cue list.
type Cue struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	CueNumber   float64 `json:"cueNumber"`
	FadeInTime  float64 `json:"fadeInTime"`
	FadeOutTime float64 `json:"fadeOutTime"`
}

// CreateFixtureInput is the payload for persisting a new fixture
// instance. The service enforces uniqueness on (universe, channel)
// ranges; a late conflict from the service is authoritative over any
// validation this server performed beforehand.
type CreateFixtureInput struct {
	ProjectID    string `json:"projectId"`
	Name         string `json:"name"`
	Manufacturer string `json:"manufacturer,omitempty"`
	Model        string `json:"model,omitempty"`
	Type         string `json:"type,omitempty"`
	ModeName     string `json:"modeName,omitempty"`
	Universe     int    `json:"universe"`
	StartChannel int    `json:"startChannel"`
	ChannelCount int    `json:"channelCount"`

	Channels []FixtureChannel `json:"channels,omitempty"`
}

// Service is the full operation surface the tool layer dispatches to.
type Service interface {
	Source

	ListProjects(ctx context.Context) ([]Project, error)
	CreateProject(ctx context.Context, name, description string) (*Project, error)

	ListFixtures(ctx context.Context, projectID string, universe int) ([]Fixture, error)
	CreateFixture(ctx context.Context, input CreateFixtureInput) (*Fixture, error)

	ListScenes(ctx context.Context, projectID string) ([]Scene, error)
	ActivateScene(ctx context.Context, sceneID string, fadeTime float64) error

	ListCueLists(ctx context.Context, projectID string) ([]CueList, error)
	PlayCueList(ctx context.Context, cueListID string, startCue float64) error
	NextCue(ctx context.Context, cueListID string) error
	StopCueList(ctx context.Context, cueListID string) error
}

// UpstreamError wraps a failure of the control service so callers can
// tell "the service is unreachable or refused" apart from engine
// results like capacity exhaustion. It is propagated unchanged, never
// masked.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("lighting service: %s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
