package dmx

// BuildChannelMap derives the occupancy view for one universe from a
// snapshot of fixture patches. Patches belonging to other universes are
// skipped. Slots claimed beyond channel 512 are silently ignored —
// channels outside the universe are invisible to the map — and slots
// below channel 1 are likewise dropped rather than rejected; the
// inventory service is the authority on patch validity, and a permissive
// map keeps diagnostics working even against a corrupt snapshot.
func BuildChannelMap(universe int, patches []FixturePatch) *ChannelMap {
	m := &ChannelMap{Universe: universe}

	for _, p := range patches {
		if p.Universe != universe {
			continue
		}
		for off := 0; off < p.ChannelCount; off++ {
			ch := p.StartChannel + off
			if ch < 1 || ch > UniverseSize {
				continue
			}
			m.Slots[ch-1] = ChannelSlot{
				FixtureID:   p.FixtureID,
				FixtureName: p.Name,
				ChannelType: channelTypeAt(p, off),
			}
		}
	}
	return m
}

// channelTypeAt resolves the semantic type of a patch's channel at the
// given offset, falling back to the unknown marker.
func channelTypeAt(p FixturePatch, offset int) string {
	if offset < len(p.ChannelTypes) && p.ChannelTypes[offset] != "" {
		return p.ChannelTypes[offset]
	}
	return ChannelTypeUnknown
}

// IsFree reports whether the 1-based channel is unoccupied. Channels
// outside [1,512] are never free.
func (m *ChannelMap) IsFree(channel int) bool {
	if channel < 1 || channel > UniverseSize {
		return false
	}
	return m.Slots[channel-1].Free()
}

// AvailableCount returns the number of free channels in the universe.
func (m *ChannelMap) AvailableCount() int {
	n := 0
	for _, s := range m.Slots {
		if s.Free() {
			n++
		}
	}
	return n
}

// UsedCount returns the number of occupied channels in the universe.
func (m *ChannelMap) UsedCount() int {
	return UniverseSize - m.AvailableCount()
}

// NextAvailable returns the lowest-numbered free channel, or 0 when the
// universe is full.
func (m *ChannelMap) NextAvailable() int {
	for i, s := range m.Slots {
		if s.Free() {
			return i + 1
		}
	}
	return 0
}

// FreeRanges returns the free contiguous ranges of the universe in
// ascending order. Useful for fragmentation diagnostics.
func (m *ChannelMap) FreeRanges() []Gap {
	var ranges []Gap
	start := 0 // 0 = not inside a free run
	for ch := 1; ch <= UniverseSize; ch++ {
		if m.Slots[ch-1].Free() {
			if start == 0 {
				start = ch
			}
			continue
		}
		if start != 0 {
			ranges = append(ranges, Gap{Start: start, End: ch - 1})
			start = 0
		}
	}
	if start != 0 {
		ranges = append(ranges, Gap{Start: start, End: UniverseSize})
	}
	return ranges
}
