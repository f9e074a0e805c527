// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package magicwand

import (
	"github.com/gogpu/magicwand/internal/pixel"
	"github.com/gogpu/magicwand/internal/region"
)

// PixelFormat is the layout of the pixel data passed to New.
type PixelFormat = pixel.Format

// Pixel formats accepted by New.
const (
	FormatGray8 = pixel.FormatGray8 // 1 byte per pixel
	FormatRGB8  = pixel.FormatRGB8  // 3 bytes per pixel
	FormatRGBA8 = pixel.FormatRGBA8 // 4 bytes per pixel, non-premultiplied
	FormatBGRA8 = pixel.FormatBGRA8 // 4 bytes per pixel, non-premultiplied
)

// ParsePixelFormat parses a format name such as "rgba8".
func ParsePixelFormat(s string) (PixelFormat, bool) {
	return pixel.ParseFormat(s)
}

// Connectivity selects which neighbors count as adjacent while growing.
type Connectivity = region.Connectivity

// Neighborhoods.
const (
	Connect4 = region.Connect4 // edge neighbors
	Connect8 = region.Connect8 // edge and corner neighbors
)

// ParseConnectivity parses "4" or "8".
func ParseConnectivity(s string) (Connectivity, bool) {
	return region.ParseConnectivity(s)
}
