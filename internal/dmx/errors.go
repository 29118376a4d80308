package dmx

import "fmt"

// CapacityError reports that no contiguous free block of the requested
// size exists in the search range. Recoverable: the caller can try a
// different universe or free channels.
type CapacityError struct {
	Universe     int
	ChannelCount int
	StartFrom    int
	// SpecName names the unplaceable fixture when the failure occurred
	// during batch planning.
	SpecName string
}

func (e *CapacityError) Error() string {
	if e.SpecName != "" {
		return fmt.Sprintf(
			"no contiguous block of %d channels available for %q in universe %d starting from channel %d",
			e.ChannelCount, e.SpecName, e.Universe, e.StartFrom)
	}
	return fmt.Sprintf(
		"no contiguous block of %d channels available in universe %d starting from channel %d",
		e.ChannelCount, e.Universe, e.StartFrom)
}

// ConflictError reports that a manually requested range overlaps an
// existing patch. It names the owning fixture and the first colliding
// channel so the caller can present an actionable error.
type ConflictError struct {
	Universe    int
	Channel     int
	FixtureID   string
	FixtureName string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("channel %d in universe %d is in use by %q",
		e.Channel, e.Universe, e.FixtureName)
}

// RangeError reports a requested range that starts below 1 or ends
// beyond the universe. Always a caller input error, never retried.
type RangeError struct {
	StartChannel int
	ChannelCount int
}

func (e *RangeError) Error() string {
	if e.StartChannel < 1 {
		return fmt.Sprintf("start channel %d is below 1", e.StartChannel)
	}
	return fmt.Sprintf("channels %d-%d exceed the universe (max %d)",
		e.StartChannel, e.StartChannel+e.ChannelCount-1, UniverseSize)
}
