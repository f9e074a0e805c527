// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/gogpu/magicwand/internal/preview"
)

func newViewCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "view IMAGE",
		Short: "Preview an image in the terminal and select regions with the mouse",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.configure(cmd)
			if err != nil {
				return err
			}
			img, err := loadImage(args[0], cfg.MaxDimension)
			if err != nil {
				return err
			}
			e, err := newEngine(img, cfg)
			if err != nil {
				return err
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				_ = e.Close()
				return err
			}
			if err := screen.Init(); err != nil {
				_ = e.Close()
				return err
			}
			defer screen.Fini()
			screen.EnableMouse()

			v := preview.NewView(screen, e, img, cfg.Overlay())
			defer v.Close()
			v.Run(screen)
			return nil
		},
	}
}
