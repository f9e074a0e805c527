// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"errors"
	"fmt"
	"image"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var errSeedOutside = errors.New("seed outside image")

type selectFlags struct {
	x, y         int
	tolerance    float64
	deltaE       float64
	metric       string
	connectivity int
}

func newSelectCmd(g *globalFlags) *cobra.Command {
	f := &selectFlags{}
	cmd := &cobra.Command{
		Use:   "select IMAGE",
		Short: "Grow a selection from one pixel and print its extent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelect(cmd, g, f, args[0])
		},
	}
	fl := cmd.Flags()
	fl.IntVar(&f.x, "x", 0, "seed column")
	fl.IntVar(&f.y, "y", 0, "seed row")
	fl.Float64Var(&f.tolerance, "tolerance", 0, "RGB distance tolerance (rgb metric)")
	fl.Float64Var(&f.deltaE, "delta-e", 0, "CIELAB Delta-E threshold (lab metric)")
	fl.StringVar(&f.metric, "metric", "", "similarity metric: rgb, lab or band")
	fl.IntVar(&f.connectivity, "connectivity", 0, "neighborhood: 4 or 8")
	return cmd
}

func runSelect(cmd *cobra.Command, g *globalFlags, f *selectFlags, path string) error {
	cfg, err := g.configure(cmd)
	if err != nil {
		return err
	}
	fl := cmd.Flags()
	if fl.Changed("tolerance") {
		cfg.Tolerance = f.tolerance
	}
	if fl.Changed("delta-e") {
		cfg.DeltaE = f.deltaE
	}
	if fl.Changed("metric") {
		cfg.Metric = f.metric
	}
	if fl.Changed("connectivity") {
		cfg.Connectivity = f.connectivity
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	img, err := loadImage(path, cfg.MaxDimension)
	if err != nil {
		return err
	}
	e, err := newEngine(img, cfg)
	if err != nil {
		return err
	}
	defer e.Close()

	if !image.Pt(f.x, f.y).In(e.Bounds()) {
		return fmt.Errorf("%w: (%d, %d) not in %dx%d", errSeedOutside, f.x, f.y, e.Width(), e.Height())
	}
	n, err := e.GrowFrom(f.x, f.y)
	if err != nil {
		return err
	}
	rect, err := e.BoundingRect()
	if err != nil {
		return err
	}
	cov, err := e.Coverage()
	if err != nil {
		return err
	}

	p := message.NewPrinter(language.English)
	out := cmd.OutOrStdout()
	p.Fprintf(out, "image     %s (%dx%d, %s)\n", path, e.Width(), e.Height(),
		humanize.Bytes(uint64(e.Width()*e.Height()*4)))
	p.Fprintf(out, "metric    %s, %d-connected\n", cfg.Metric, cfg.Connectivity)
	p.Fprintf(out, "seed      (%d, %d)\n", f.x, f.y)
	p.Fprintf(out, "selected  %d px (%.2f%%)\n", n, cov*100)
	p.Fprintf(out, "MaskRect: [%d,%d][%d,%d]\n", rect.Min.X, rect.Min.Y, rect.Max.X, rect.Max.Y)
	return nil
}
