// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package magicwand

import "errors"

var (
	// ErrInvalidImageData is returned by New when the pixel data does not
	// describe a valid image: non-positive size, unknown format, or a
	// length other than width*height*channels. The underlying pixel error
	// is wrapped alongside it.
	ErrInvalidImageData = errors.New("magicwand: invalid image data")

	// ErrClosed is returned by every Engine method called after Close.
	ErrClosed = errors.New("magicwand: engine is closed")
)
