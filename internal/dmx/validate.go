package dmx

// ValidateRange checks whether a manually requested channel range can
// be patched without overlapping an existing fixture. It is used for
// caller-specified assignment only — auto-assignment proposes free
// ranges by construction.
//
// The bounds check takes priority over the occupancy check, so callers
// can distinguish "out of universe" (*RangeError) from "in use by X"
// (*ConflictError). On conflict the error names the owning fixture and
// the first colliding channel.
func ValidateRange(m *ChannelMap, startChannel, blockSize int) error {
	if startChannel < 1 || blockSize < 1 || startChannel+blockSize-1 > UniverseSize {
		return &RangeError{StartChannel: startChannel, ChannelCount: blockSize}
	}

	for ch := startChannel; ch < startChannel+blockSize; ch++ {
		slot := m.Slots[ch-1]
		if slot.Free() {
			continue
		}
		return &ConflictError{
			Universe:    m.Universe,
			Channel:     ch,
			FixtureID:   slot.FixtureID,
			FixtureName: slot.FixtureName,
		}
	}
	return nil
}
