package dmx

// FindBlock returns the 1-based start of the first contiguous run of
// blockSize free channels at or after startFrom. The search range is
// strictly [startFrom, 512-blockSize+1]: it does not wrap around or
// retry from channel 1, and it is first-fit, not best-fit — no attempt
// is made to minimize fragmentation.
//
// Returns a *RangeError for nonsensical input (blockSize < 1 or
// startFrom < 1) and a *CapacityError when no run exists. The failure
// is deterministic; whether to try a different universe is the caller's
// decision.
func FindBlock(m *ChannelMap, startFrom, blockSize int) (int, error) {
	if blockSize < 1 || startFrom < 1 {
		return 0, &RangeError{StartChannel: startFrom, ChannelCount: blockSize}
	}

	for start := startFrom; start <= UniverseSize-blockSize+1; start++ {
		if blockFree(m, start, blockSize) {
			return start, nil
		}
	}

	return 0, &CapacityError{
		Universe:     m.Universe,
		ChannelCount: blockSize,
		StartFrom:    startFrom,
	}
}

// blockFree reports whether all blockSize channels starting at start
// are free. start and start+blockSize-1 must already be within range.
func blockFree(m *ChannelMap, start, blockSize int) bool {
	for ch := start; ch < start+blockSize; ch++ {
		if !m.Slots[ch-1].Free() {
			return false
		}
	}
	return true
}
