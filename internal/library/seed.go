package library

// Channel semantic types shared with the inventory service's channel
// definitions.
const (
	TypeIntensity = "INTENSITY"
	TypeRed       = "RED"
	TypeGreen     = "GREEN"
	TypeBlue      = "BLUE"
	TypeAmber     = "AMBER"
	TypeWhite     = "WHITE"
	TypeUV        = "UV"
	TypeStrobe    = "STROBE"
	TypePan       = "PAN"
	TypePanFine   = "PAN_FINE"
	TypeTilt      = "TILT"
	TypeTiltFine  = "TILT_FINE"
	TypeZoom      = "ZOOM"
	TypeColor     = "COLOR_WHEEL"
	TypeGobo      = "GOBO_WHEEL"
	TypeMacro     = "MACRO"
	TypeEffect    = "EFFECT"
)

// Fixture type categories, per the control service's taxonomy.
const (
	CategoryDimmer     = "DIMMER"
	CategoryLEDPar     = "LED_PAR"
	CategoryMovingHead = "MOVING_HEAD"
	CategoryStrobe     = "STROBE"
)

// builtinDefinitions returns the profiles bundled with the server.
// IDs are stable so re-seeding replaces rather than duplicates.
func builtinDefinitions() []Definition {
	return []Definition{
		{
			ID:           "builtin:generic:dimmer",
			Manufacturer: "Generic",
			Model:        "Dimmer",
			Type:         CategoryDimmer,
			IsBuiltIn:    true,
			Modes: []Mode{
				{
					Name: "1-channel", ChannelCount: 1, IsDefault: true,
					Channels: []Channel{
						{Offset: 0, Name: "Intensity", Type: TypeIntensity},
					},
				},
			},
		},
		{
			ID:           "builtin:chauvet:slimpar-pro-rgba",
			Manufacturer: "Chauvet",
			Model:        "SlimPAR Pro RGBA",
			Type:         CategoryLEDPar,
			IsBuiltIn:    true,
			Modes: []Mode{
				{
					Name: "4-channel", ChannelCount: 4, IsDefault: true,
					Channels: []Channel{
						{Offset: 0, Name: "Red", Type: TypeRed},
						{Offset: 1, Name: "Green", Type: TypeGreen},
						{Offset: 2, Name: "Blue", Type: TypeBlue},
						{Offset: 3, Name: "Amber", Type: TypeAmber},
					},
				},
				{
					Name: "8-channel", ChannelCount: 8,
					Channels: []Channel{
						{Offset: 0, Name: "Dimmer", Type: TypeIntensity},
						{Offset: 1, Name: "Red", Type: TypeRed},
						{Offset: 2, Name: "Green", Type: TypeGreen},
						{Offset: 3, Name: "Blue", Type: TypeBlue},
						{Offset: 4, Name: "Amber", Type: TypeAmber},
						{Offset: 5, Name: "Strobe", Type: TypeStrobe},
						{Offset: 6, Name: "Color Macro", Type: TypeMacro},
						{Offset: 7, Name: "Auto Program", Type: TypeEffect},
					},
				},
			},
		},
		{
			ID:           "builtin:adj:mega-hex-par",
			Manufacturer: "ADJ",
			Model:        "Mega Hex Par",
			Type:         CategoryLEDPar,
			IsBuiltIn:    true,
			Modes: []Mode{
				{
					Name: "6-channel", ChannelCount: 6, IsDefault: true,
					Channels: []Channel{
						{Offset: 0, Name: "Red", Type: TypeRed},
						{Offset: 1, Name: "Green", Type: TypeGreen},
						{Offset: 2, Name: "Blue", Type: TypeBlue},
						{Offset: 3, Name: "White", Type: TypeWhite},
						{Offset: 4, Name: "Amber", Type: TypeAmber},
						{Offset: 5, Name: "UV", Type: TypeUV},
					},
				},
				{
					Name: "12-channel", ChannelCount: 12,
					Channels: []Channel{
						{Offset: 0, Name: "Red", Type: TypeRed},
						{Offset: 1, Name: "Green", Type: TypeGreen},
						{Offset: 2, Name: "Blue", Type: TypeBlue},
						{Offset: 3, Name: "White", Type: TypeWhite},
						{Offset: 4, Name: "Amber", Type: TypeAmber},
						{Offset: 5, Name: "UV", Type: TypeUV},
						{Offset: 6, Name: "Dimmer", Type: TypeIntensity},
						{Offset: 7, Name: "Strobe", Type: TypeStrobe},
						{Offset: 8, Name: "Color Macro", Type: TypeMacro},
						{Offset: 9, Name: "Auto Program", Type: TypeEffect},
						{Offset: 10, Name: "Program Speed", Type: TypeEffect},
						{Offset: 11, Name: "Dimmer Curve", Type: TypeMacro},
					},
				},
			},
		},
		{
			ID:           "builtin:martin:mac-aura",
			Manufacturer: "Martin",
			Model:        "MAC Aura",
			Type:         CategoryMovingHead,
			IsBuiltIn:    true,
			Modes: []Mode{
				{
					Name: "standard", ChannelCount: 14, IsDefault: true,
					Channels: []Channel{
						{Offset: 0, Name: "Shutter/Strobe", Type: TypeStrobe},
						{Offset: 1, Name: "Dimmer", Type: TypeIntensity},
						{Offset: 2, Name: "Zoom", Type: TypeZoom},
						{Offset: 3, Name: "Pan", Type: TypePan},
						{Offset: 4, Name: "Pan Fine", Type: TypePanFine},
						{Offset: 5, Name: "Tilt", Type: TypeTilt},
						{Offset: 6, Name: "Tilt Fine", Type: TypeTiltFine},
						{Offset: 7, Name: "FX Select", Type: TypeEffect},
						{Offset: 8, Name: "FX Adjust", Type: TypeEffect},
						{Offset: 9, Name: "Color Wheel", Type: TypeColor},
						{Offset: 10, Name: "Red", Type: TypeRed},
						{Offset: 11, Name: "Green", Type: TypeGreen},
						{Offset: 12, Name: "Blue", Type: TypeBlue},
						{Offset: 13, Name: "White", Type: TypeWhite},
					},
				},
			},
		},
		{
			ID:           "builtin:etc:colorsource-par",
			Manufacturer: "ETC",
			Model:        "ColorSource PAR",
			Type:         CategoryLEDPar,
			IsBuiltIn:    true,
			Modes: []Mode{
				{
					Name: "5-channel", ChannelCount: 5, IsDefault: true,
					Channels: []Channel{
						{Offset: 0, Name: "Intensity", Type: TypeIntensity},
						{Offset: 1, Name: "Red", Type: TypeRed},
						{Offset: 2, Name: "Green", Type: TypeGreen},
						{Offset: 3, Name: "Blue", Type: TypeBlue},
						{Offset: 4, Name: "Strobe", Type: TypeStrobe},
					},
				},
				{
					Name: "1-channel", ChannelCount: 1,
					Channels: []Channel{
						{Offset: 0, Name: "Intensity", Type: TypeIntensity},
					},
				},
			},
		},
	}
}
