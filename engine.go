// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package magicwand

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/gogpu/magicwand/gpu"
	"github.com/gogpu/magicwand/internal/maskstate"
	"github.com/gogpu/magicwand/internal/pixel"
)

// Engine is the magic-wand selection over one source image.
//
// An Engine owns the decoded pixels, the current mask and the mask's GPU
// texture bridge. A new Engine has every pixel selected.
//
// Engine performs no locking: callers serialize all calls on one Engine.
// GrowFrom is O(width*height) and may be run off the UI goroutine; Upload
// must run on the goroutine that owns the graphics context.
type Engine struct {
	id     string
	width  int
	height int
	logger *slog.Logger // from WithLogger; nil follows the package logger
	tagged *slog.Logger // base logger With the engine id
	base   *slog.Logger // logger tagged was derived from
	src    *pixel.Buffer
	state  *maskstate.State
	bridge *gpu.TextureBridge
	closed bool
}

// New creates an engine from raw pixel data laid out as format. The data
// is copied.
//
// New fails with ErrInvalidImageData when len(pixels) is not
// width*height*channels or the size or format is invalid.
func New(width, height int, format PixelFormat, pixels []byte, opts ...Option) (*Engine, error) {
	buf, err := pixel.New(width, height, format, pixels)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImageData, err)
	}
	return newEngine(buf, opts)
}

// NewFromImage creates an engine from a decoded image. Any image.Image
// works; it is converted to non-premultiplied RGBA (or kept as gray).
func NewFromImage(img image.Image, opts ...Option) (*Engine, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidImageData)
	}
	buf, err := pixel.FromImage(img)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidImageData, err)
	}
	return newEngine(buf, opts)
}

func newEngine(buf *pixel.Buffer, opts []Option) (*Engine, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	id := uuid.NewString()
	e := &Engine{
		id:     id,
		width:  buf.Width(),
		height: buf.Height(),
		logger: o.logger,
		src:    buf,
		state: maskstate.New(buf,
			maskstate.WithPredicate(o.predicate),
			maskstate.WithConnectivity(o.connectivity)),
		bridge: gpu.NewTextureBridge("mask_" + id[:8]),
	}

	e.log().Debug("engine created",
		"width", buf.Width(),
		"height", buf.Height(),
		"format", buf.Format(),
		"connectivity", o.connectivity,
		"pixels_size", humanize.Bytes(uint64(buf.ByteSize())))
	return e, nil
}

// log returns the engine logger tagged with the engine id. The tagged
// logger is rebuilt only when the package logger changes.
func (e *Engine) log() *slog.Logger {
	l := e.logger
	if l == nil {
		l = Logger()
	}
	if l != e.base {
		e.base = l
		e.tagged = l.With("engine", e.id)
	}
	return e.tagged
}

func (e *Engine) check() error {
	if e == nil || e.closed {
		return ErrClosed
	}
	return nil
}

// ID returns the engine's unique identifier.
func (e *Engine) ID() string { return e.id }

// Width returns the image width in pixels.
func (e *Engine) Width() int { return e.width }

// Height returns the image height in pixels.
func (e *Engine) Height() int { return e.height }

// Bounds returns the image bounds.
func (e *Engine) Bounds() image.Rectangle { return image.Rect(0, 0, e.width, e.height) }

// GrowFrom replaces the selection with the connected region of pixels
// similar to (x, y) and returns its pixel count.
//
// A coordinate outside [0, width) x [0, height) is not an error: it
// returns 0 and leaves the selection unchanged. The seed pixel is always
// part of its own region.
func (e *Engine) GrowFrom(x, y int) (int64, error) {
	if err := e.check(); err != nil {
		return 0, err
	}
	if !e.state.Valid(x, y) {
		e.log().Debug("seed outside image", "x", x, "y", y)
		return 0, nil
	}

	l := e.log()
	if !l.Enabled(context.Background(), slog.LevelDebug) {
		return e.state.GrowFrom(x, y), nil
	}

	start := time.Now()
	n := e.state.GrowFrom(x, y)
	l.Debug("mask grown",
		"x", x, "y", y,
		"pixels", humanize.Comma(n),
		"spans", e.state.LastSpans(),
		"rect", e.state.BoundingRect(),
		"elapsed", time.Since(start))
	return n, nil
}

// ExportAlpha returns the current selection as a width*height buffer,
// 255 for selected pixels and 0 elsewhere. The buffer is a fresh copy.
func (e *Engine) ExportAlpha() ([]byte, error) {
	if err := e.check(); err != nil {
		return nil, err
	}
	return e.state.ExportAlpha(), nil
}

// MaskAt grows the selection from (x, y) and returns it as an alpha buffer.
// For a coordinate outside the image the selection is left unchanged and
// an all-zero buffer is returned.
func (e *Engine) MaskAt(x, y int) ([]byte, error) {
	if err := e.check(); err != nil {
		return nil, err
	}
	if !e.state.Valid(x, y) {
		return make([]byte, e.width*e.height), nil
	}
	if _, err := e.GrowFrom(x, y); err != nil {
		return nil, err
	}
	return e.state.ExportAlpha(), nil
}

// Snapshot returns an immutable copy of the current selection.
func (e *Engine) Snapshot() (*Mask, error) {
	if err := e.check(); err != nil {
		return nil, err
	}
	w, h := e.state.Size()
	return &Mask{
		width:  w,
		height: h,
		data:   e.state.ExportAlpha(),
		rect:   e.state.BoundingRect(),
		count:  e.state.Count(),
	}, nil
}

// AlphaImage returns the current selection as an *image.Alpha.
func (e *Engine) AlphaImage() (*image.Alpha, error) {
	m, err := e.Snapshot()
	if err != nil {
		return nil, err
	}
	return m.ToAlpha(), nil
}

// MaskedImage returns the source image with every unselected pixel made
// fully transparent.
func (e *Engine) MaskedImage() (*image.NRGBA, error) {
	if err := e.check(); err != nil {
		return nil, err
	}
	w, h := e.state.Size()
	return &image.NRGBA{
		Pix:    e.state.ExportMaskedRGBA(),
		Stride: w * 4,
		Rect:   image.Rect(0, 0, w, h),
	}, nil
}

// Upload copies the selection into the engine's single-channel mask
// texture on ctx and returns the selected pixel count. The texture is
// written only when the selection changed since the last upload.
//
// Upload must be called on the goroutine owning ctx. A nil or closed ctx
// returns gpu.ErrNoGraphicsContext.
func (e *Engine) Upload(ctx *gpu.Context) (int64, error) {
	if err := e.check(); err != nil {
		return 0, err
	}
	n, err := e.bridge.Upload(ctx, e.state)
	if err != nil {
		return 0, fmt.Errorf("magicwand: upload: %w", err)
	}
	return n, nil
}

// UploadAt grows the selection from (x, y) and uploads it. A coordinate
// outside the image returns 0 without touching the selection or the GPU.
func (e *Engine) UploadAt(ctx *gpu.Context, x, y int) (int64, error) {
	if err := e.check(); err != nil {
		return 0, err
	}
	if !e.state.Valid(x, y) {
		return 0, nil
	}
	if _, err := e.GrowFrom(x, y); err != nil {
		return 0, err
	}
	return e.Upload(ctx)
}

// UploadMasked copies the source image, with unselected pixels made
// transparent, into an RGBA texture on ctx.
func (e *Engine) UploadMasked(ctx *gpu.Context) (int64, error) {
	if err := e.check(); err != nil {
		return 0, err
	}
	n, err := e.bridge.UploadMasked(ctx, e.state)
	if err != nil {
		return 0, fmt.Errorf("magicwand: upload masked: %w", err)
	}
	return n, nil
}

// Texture returns the engine's texture bridge, for binding its view.
// It returns nil after Close.
func (e *Engine) Texture() *gpu.TextureBridge {
	if e.check() != nil {
		return nil
	}
	return e.bridge
}

// IsInMask reports whether (x, y) is selected. Coordinates outside the
// image report false.
func (e *Engine) IsInMask(x, y int) (bool, error) {
	if err := e.check(); err != nil {
		return false, err
	}
	return e.state.IsInMask(x, y), nil
}

// BoundingRect returns the smallest rectangle enclosing the selection,
// with Max exclusive. It is the zero rectangle when nothing is selected
// and the image bounds when everything is.
func (e *Engine) BoundingRect() (image.Rectangle, error) {
	if err := e.check(); err != nil {
		return image.Rectangle{}, err
	}
	return e.state.BoundingRect(), nil
}

// PixelCount returns the number of selected pixels.
func (e *Engine) PixelCount() (int64, error) {
	if err := e.check(); err != nil {
		return 0, err
	}
	return e.state.Count(), nil
}

// Coverage returns the selected fraction of the image in [0, 1].
func (e *Engine) Coverage() (float64, error) {
	if err := e.check(); err != nil {
		return 0, err
	}
	w, h := e.state.Size()
	return float64(e.state.Count()) / float64(w*h), nil
}

// Reset selects every pixel.
func (e *Engine) Reset() error {
	if err := e.check(); err != nil {
		return err
	}
	e.state.Reset()
	e.log().Debug("mask reset")
	return nil
}

// Clear deselects every pixel.
func (e *Engine) Clear() error {
	if err := e.check(); err != nil {
		return err
	}
	e.state.Clear()
	e.log().Debug("mask cleared")
	return nil
}

// ReleaseTexture destroys the engine's mask texture on ctx. The selection
// is kept and the next upload creates a new texture. It must run on the
// goroutine owning ctx.
func (e *Engine) ReleaseTexture(ctx *gpu.Context) error {
	if err := e.check(); err != nil {
		return err
	}
	if err := e.bridge.ReleaseTexture(ctx); err != nil {
		return fmt.Errorf("magicwand: release texture: %w", err)
	}
	return nil
}

// Close releases the texture, mask and pixels. Close is idempotent; every
// other method returns ErrClosed afterwards.
//
// An engine that never uploaded, or whose texture was released with
// ReleaseTexture, may be closed from any goroutine. Otherwise Close
// destroys the texture and must run on the goroutine owning the graphics
// context.
func (e *Engine) Close() error {
	if e == nil || e.closed {
		return nil
	}
	e.bridge.Release()
	e.state = nil
	e.src = nil
	e.closed = true
	e.log().Debug("engine closed")
	return nil
}
