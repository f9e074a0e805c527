// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // register WebP; imaging registers the rest

	"github.com/gogpu/magicwand"
	"github.com/gogpu/magicwand/internal/config"
)

// loadImage decodes the file at path, applies its EXIF orientation and,
// when maxDim is positive, shrinks it to fit a maxDim x maxDim box.
func loadImage(path string, maxDim int) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	b := img.Bounds()
	if maxDim > 0 && (b.Dx() > maxDim || b.Dy() > maxDim) {
		img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
		magicwand.Logger().Debug("image resized", "path", path, "from", b.Size(), "to", img.Bounds().Size())
	}
	return img, nil
}

// newEngine builds an engine over img using the selection settings in cfg.
func newEngine(img image.Image, cfg *config.Config) (*magicwand.Engine, error) {
	conn := magicwand.Connect4
	if cfg.Connectivity == 8 {
		conn = magicwand.Connect8
	}
	return magicwand.NewFromImage(img,
		magicwand.WithPredicate(cfg.Predicate()),
		magicwand.WithConnectivity(conn),
	)
}
