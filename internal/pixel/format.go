// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package pixel

// Format represents the layout of caller-supplied pixel samples.
type Format uint8

const (
	// FormatGray8 is 8-bit grayscale (1 byte per pixel).
	FormatGray8 Format = iota

	// FormatRGB8 is 24-bit RGB (3 bytes per pixel, no alpha).
	FormatRGB8

	// FormatRGBA8 is 32-bit non-premultiplied RGBA (4 bytes per pixel).
	// This is the layout of a decoded RGBA_8888 bitmap and of *image.NRGBA.
	FormatRGBA8

	// FormatBGRA8 is 32-bit BGRA (4 bytes per pixel).
	// Common for surfaces handed over by Windows and some GPU readbacks.
	FormatBGRA8

	// formatCount is the number of formats (for internal use).
	formatCount
)

// FormatInfo contains metadata about a pixel format.
type FormatInfo struct {
	// Name is a short lowercase identifier used in logs and config.
	Name string

	// Channels is the number of bytes per pixel, one per channel.
	Channels int

	// HasAlpha indicates if the format carries an alpha channel.
	HasAlpha bool
}

var formatInfoTable = [formatCount]FormatInfo{
	FormatGray8: {Name: "gray8", Channels: 1},
	FormatRGB8:  {Name: "rgb8", Channels: 3},
	FormatRGBA8: {Name: "rgba8", Channels: 4, HasAlpha: true},
	FormatBGRA8: {Name: "bgra8", Channels: 4, HasAlpha: true},
}

// Info returns the FormatInfo for this format.
// Returns an empty FormatInfo for invalid formats.
func (f Format) Info() FormatInfo {
	if f >= formatCount {
		return FormatInfo{}
	}
	return formatInfoTable[f]
}

// IsValid returns true if the format is a known valid format.
func (f Format) IsValid() bool {
	return f < formatCount
}

// Channels returns the number of channels (bytes) per pixel.
func (f Format) Channels() int {
	return f.Info().Channels
}

// String returns a human-readable name for the format.
func (f Format) String() string {
	if !f.IsValid() {
		return "invalid"
	}
	return formatInfoTable[f].Name
}

// ParseFormat returns the format named s, as printed by String.
func ParseFormat(s string) (Format, bool) {
	for f := Format(0); f < formatCount; f++ {
		if formatInfoTable[f].Name == s {
			return f, true
		}
	}
	return 0, false
}
