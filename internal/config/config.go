// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package config holds runtime configuration for the magicwand command.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/gogpu/magicwand/similarity"
)

// Metric names accepted in Config.Metric.
const (
	MetricRGB  = "rgb"
	MetricLab  = "lab"
	MetricBand = "band"
)

// Config holds selection and display settings.
// Fields may be loaded from a JSON file and overridden by command-line flags.
type Config struct {
	LogLevel string `json:"log_level"`

	// Selection parameters
	Metric       string  `json:"metric"`
	Tolerance    float64 `json:"tolerance"`
	DeltaE       float64 `json:"delta_e"`
	BandChannel  string  `json:"band_channel"`
	BandLow      int     `json:"band_low"`
	BandHigh     int     `json:"band_high"`
	Connectivity int     `json:"connectivity"`

	// Loading and display
	MaxDimension int    `json:"max_dimension"`
	OverlayColor string `json:"overlay_color"`
	OverlayAlpha int    `json:"overlay_alpha"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:     "warn",
		Metric:       MetricRGB,
		Tolerance:    similarity.DefaultTolerance,
		DeltaE:       similarity.DefaultDeltaE,
		BandChannel:  "blue",
		BandLow:      200,
		BandHigh:     255,
		Connectivity: 4,
		MaxDimension: 0,
		OverlayColor: "#ff0000",
		OverlayAlpha: 128,
	}
}

// Validate clamps numeric values to safe ranges and reports names it does
// not recognize. Unrecognized names are reset to their defaults.
func (c *Config) Validate() error {
	var errs []error
	def := DefaultConfig()

	if _, ok := parseLevel(c.LogLevel); !ok {
		errs = append(errs, fmt.Errorf("config: unknown log level %q", c.LogLevel))
		c.LogLevel = def.LogLevel
	}
	switch c.Metric {
	case MetricRGB, MetricLab, MetricBand:
	default:
		errs = append(errs, fmt.Errorf("config: unknown metric %q", c.Metric))
		c.Metric = def.Metric
	}
	if _, ok := parseChannel(c.BandChannel); !ok {
		errs = append(errs, fmt.Errorf("config: unknown channel %q", c.BandChannel))
		c.BandChannel = def.BandChannel
	}
	if _, err := colorful.Hex(c.OverlayColor); err != nil {
		errs = append(errs, fmt.Errorf("config: overlay color %q: %w", c.OverlayColor, err))
		c.OverlayColor = def.OverlayColor
	}

	if c.Tolerance < 0 {
		c.Tolerance = 0
	}
	if c.Tolerance > similarity.MaxTolerance {
		c.Tolerance = similarity.MaxTolerance
	}
	if c.DeltaE <= 0 {
		c.DeltaE = def.DeltaE
	}
	c.BandLow = clampByte(c.BandLow)
	c.BandHigh = clampByte(c.BandHigh)
	if c.Connectivity != 4 && c.Connectivity != 8 {
		c.Connectivity = def.Connectivity
	}
	if c.MaxDimension < 0 {
		c.MaxDimension = 0
	}
	c.OverlayAlpha = clampByte(c.OverlayAlpha)

	return errors.Join(errs...)
}

// Load attempts to read configuration from the given JSON file path. If the
// file does not exist it returns DefaultConfig(). On JSON error it returns
// defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("config: decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Predicate builds the similarity predicate selected by Metric.
func (c *Config) Predicate() similarity.Predicate {
	switch c.Metric {
	case MetricLab:
		return similarity.Lab(c.DeltaE)
	case MetricBand:
		ch, _ := parseChannel(c.BandChannel)
		return similarity.ChannelBand(ch, uint8(clampByte(c.BandLow)), uint8(clampByte(c.BandHigh)))
	default:
		return similarity.Euclidean(c.Tolerance)
	}
}

// Level returns the slog level named by LogLevel, or warn if unknown.
func (c *Config) Level() slog.Level {
	l, ok := parseLevel(c.LogLevel)
	if !ok {
		return slog.LevelWarn
	}
	return l
}

// Overlay returns the overlay tint color.
func (c *Config) Overlay() color.NRGBA {
	col, err := colorful.Hex(c.OverlayColor)
	if err != nil {
		col, _ = colorful.Hex(DefaultConfig().OverlayColor)
	}
	r, g, b := col.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(clampByte(c.OverlayAlpha))}
}

func parseLevel(s string) (slog.Level, bool) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelWarn, false
	}
	return l, true
}

func parseChannel(s string) (similarity.Channel, bool) {
	for _, ch := range []similarity.Channel{similarity.Red, similarity.Green, similarity.Blue, similarity.Alpha} {
		if strings.EqualFold(s, ch.String()) {
			return ch, true
		}
	}
	return similarity.Blue, false
}

func clampByte(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
