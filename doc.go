// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package magicwand provides an interactive magic-wand selection engine.
//
// # Overview
//
// An Engine holds one decoded image and a binary selection mask over it.
// Tapping a pixel (GrowFrom) replaces the selection with the connected
// region of pixels similar to the tapped one. The selection can be read
// back as an 8-bit alpha buffer, queried per pixel, summarized by its
// bounding rectangle, or uploaded into a GPU texture for a shader.
//
// # Quick Start
//
//	e, err := magicwand.NewFromImage(img, magicwand.WithTolerance(40))
//	if err != nil {
//	    return err
//	}
//	defer e.Close()
//
//	n, _ := e.GrowFrom(120, 80)     // pixels selected
//	rect, _ := e.BoundingRect()     // Max exclusive
//	alpha, _ := e.ExportAlpha()     // width*height bytes, 255 = selected
//
// # Selection Semantics
//
//   - A new engine, and an engine after Reset, has every pixel selected.
//   - Clear deselects everything; the bounding rectangle becomes zero.
//   - GrowFrom always replaces the selection. It never accumulates regions.
//   - Coordinates outside the image are not errors. GrowFrom returns 0 and
//     leaves the selection as it was; IsInMask reports false.
//   - The seed pixel always belongs to its own region.
//
// Similarity is pluggable through the similarity package. The default is
// Euclidean RGB distance with tolerance similarity.DefaultTolerance.
//
// # GPU Upload
//
// Upload writes the mask into a single-channel texture owned by the engine
// on a gpu.Context. The render loop owns that context and must make every
// Upload call from its own goroutine.
//
// # Lifetime
//
// Close releases the texture, the mask and the pixels. It is idempotent;
// any other call afterwards returns ErrClosed.
//
// # Concurrency
//
// An Engine does no locking. Callers serialize access to one engine;
// different engines are independent.
package magicwand

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
