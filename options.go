// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package magicwand

import (
	"log/slog"

	"github.com/gogpu/magicwand/similarity"
)

// Option configures an Engine during creation.
//
// Example:
//
//	// Default: Euclidean RGB distance, tolerance 32, 4-connected
//	e, err := magicwand.NewFromImage(img)
//
//	// Perceptual metric, diagonal neighbors
//	e, err := magicwand.NewFromImage(img,
//	    magicwand.WithPredicate(similarity.Lab(similarity.DefaultDeltaE)),
//	    magicwand.WithConnectivity(magicwand.Connect8))
type Option func(*engineOptions)

// engineOptions holds optional configuration for Engine creation.
type engineOptions struct {
	predicate    similarity.Predicate
	connectivity Connectivity
	logger       *slog.Logger
}

// defaultOptions returns the default engine options.
func defaultOptions() engineOptions {
	return engineOptions{
		predicate:    similarity.Default(),
		connectivity: Connect4,
	}
}

// WithPredicate sets the similarity predicate deciding which pixels join
// a grown region. A nil predicate keeps the default.
func WithPredicate(p similarity.Predicate) Option {
	return func(o *engineOptions) {
		if p != nil {
			o.predicate = p
		}
	}
}

// WithTolerance selects the Euclidean RGB metric with the given tolerance.
// 0 matches only the exact seed color; similarity.MaxTolerance matches
// every pixel.
func WithTolerance(tolerance float64) Option {
	return func(o *engineOptions) {
		o.predicate = similarity.Euclidean(tolerance)
	}
}

// WithConnectivity sets the pixel neighborhood used while growing.
func WithConnectivity(c Connectivity) Option {
	return func(o *engineOptions) {
		o.connectivity = c
	}
}

// WithLogger sets a logger for this engine only. Without it the engine
// logs through Logger().
func WithLogger(l *slog.Logger) Option {
	return func(o *engineOptions) {
		o.logger = l
	}
}
