// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// AlphaSource is a mask that can export itself as 8-bit alpha.
type AlphaSource interface {
	Size() (width, height int)

	// Generation changes whenever the mask content changes.
	Generation() uint64

	// ExportAlphaInto writes width*height alpha bytes into dst and returns
	// the selected pixel count.
	ExportAlphaInto(dst []byte) int64
}

// MaskedSource can also export the source image with unselected pixels
// made transparent.
type MaskedSource interface {
	AlphaSource

	// ExportMaskedRGBAInto writes width*height*4 RGBA bytes into dst and
	// returns the selected pixel count.
	ExportMaskedRGBAInto(dst []byte) int64
}

type uploadKind uint8

const (
	kindNone uploadKind = iota
	kindAlpha
	kindMasked
)

// TextureBridge owns the GPU copy of one mask.
//
// The texture is created on the first upload and recreated when the
// context, size or kind of upload changes. Uploads of an unchanged mask
// generation skip the write.
type TextureBridge struct {
	label string

	ctx     *Context
	texture hal.Texture
	view    hal.TextureView
	format  gputypes.TextureFormat
	width   int
	height  int
	kind    uploadKind

	staging  []byte
	gen      uint64
	count    int64
	writes   int
	released bool
}

// NewTextureBridge creates a bridge. No GPU resource exists until the
// first upload.
func NewTextureBridge(label string) *TextureBridge {
	if label == "" {
		label = "mask"
	}
	return &TextureBridge{label: label}
}

// Upload copies the alpha export of src into a single-channel R8Unorm
// texture and returns the selected pixel count. It never changes src.
//
// ctx must be open and owned by the calling goroutine. A nil or closed ctx
// returns ErrNoGraphicsContext.
func (b *TextureBridge) Upload(ctx *Context, src AlphaSource) (int64, error) {
	return b.upload(ctx, src, kindAlpha, gputypes.TextureFormatR8Unorm, 1, src.ExportAlphaInto)
}

// UploadMasked copies the masked full-color image into an RGBA8Unorm
// texture and returns the selected pixel count.
func (b *TextureBridge) UploadMasked(ctx *Context, src MaskedSource) (int64, error) {
	return b.upload(ctx, src, kindMasked, gputypes.TextureFormatRGBA8Unorm, 4, src.ExportMaskedRGBAInto)
}

func (b *TextureBridge) upload(ctx *Context, src AlphaSource, kind uploadKind,
	format gputypes.TextureFormat, bpp int, export func([]byte) int64) (int64, error) {
	if b.released {
		return 0, ErrBridgeReleased
	}
	if err := ctx.usable(); err != nil {
		return 0, err
	}

	w, h := src.Size()
	gen := src.Generation()
	if b.texture != nil && b.ctx == ctx && b.kind == kind &&
		b.width == w && b.height == h && b.gen == gen {
		return b.count, nil
	}

	if err := b.ensureTexture(ctx, w, h, format, kind); err != nil {
		return 0, err
	}

	size := w * h * bpp
	if cap(b.staging) < size {
		b.staging = make([]byte, size)
	}
	data := b.staging[:size]
	count := export(data)

	ctx.queue.WriteTexture(
		&hal.ImageCopyTexture{
			Texture:  b.texture,
			MipLevel: 0,
		},
		data,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  uint32(w * bpp),
			RowsPerImage: uint32(h),
		},
		&hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1},
	)

	b.gen = gen
	b.count = count
	b.writes++
	slogger().Debug("mask texture uploaded",
		"label", b.label,
		"format", b.format,
		"pixels", count,
		"bytes", humanize.Bytes(uint64(size)))
	return count, nil
}

// ensureTexture makes sure a texture of the right context, size and format
// exists, recreating it when any of them changed.
func (b *TextureBridge) ensureTexture(ctx *Context, w, h int, format gputypes.TextureFormat, kind uploadKind) error {
	if b.texture != nil && b.ctx == ctx && b.width == w && b.height == h && b.format == format {
		b.kind = kind
		return nil
	}
	b.destroyTexture()

	tex, err := ctx.device.CreateTexture(&hal.TextureDescriptor{
		Label: b.label,
		Size: hal.Extent3D{
			Width:              uint32(w),
			Height:             uint32(h),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("gpu: create %s texture: %w", b.label, err)
	}

	view, err := ctx.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         b.label + "_view",
		Format:        format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		ctx.device.DestroyTexture(tex)
		return fmt.Errorf("gpu: create %s texture view: %w", b.label, err)
	}

	b.ctx = ctx
	b.texture = tex
	b.view = view
	b.format = format
	b.width, b.height = w, h
	b.kind = kind
	slogger().Debug("mask texture created", "label", b.label, "width", w, "height", h, "format", format)
	return nil
}

// destroyTexture drops the current texture. GPU objects are destroyed only
// while their context is still open; after Context.Close the device may be
// gone already.
func (b *TextureBridge) destroyTexture() {
	if b.texture == nil {
		return
	}
	if b.ctx != nil && !b.ctx.closed {
		if b.view != nil {
			b.ctx.device.DestroyTextureView(b.view)
		}
		b.ctx.device.DestroyTexture(b.texture)
	} else {
		slogger().Warn("mask texture outlived its graphics context", "label", b.label)
	}
	b.texture = nil
	b.view = nil
	b.ctx = nil
	b.kind = kindNone
	b.width, b.height = 0, 0
}

// Texture returns the texture, or nil before the first upload.
func (b *TextureBridge) Texture() hal.Texture { return b.texture }

// View returns the texture view to bind, or nil before the first upload.
func (b *TextureBridge) View() hal.TextureView { return b.view }

// Format returns the format of the current texture.
func (b *TextureBridge) Format() gputypes.TextureFormat { return b.format }

// Size returns the size of the current texture, or (0, 0) if none exists.
func (b *TextureBridge) Size() (width, height int) { return b.width, b.height }

// Writes returns how many times texture data was actually written.
func (b *TextureBridge) Writes() int { return b.writes }

// Released reports whether Release has been called.
func (b *TextureBridge) Released() bool { return b.released }

// ReleaseTexture destroys the texture and its view on ctx, the context
// they were created on. The bridge stays usable and the next upload
// recreates the texture. Like uploads, it must run on the goroutine
// owning ctx.
func (b *TextureBridge) ReleaseTexture(ctx *Context) error {
	if b.released {
		return ErrBridgeReleased
	}
	if err := ctx.usable(); err != nil {
		return err
	}
	if b.texture == nil {
		return nil
	}
	if b.ctx != ctx {
		return fmt.Errorf("%w: texture %s belongs to another context", ErrNoGraphicsContext, b.label)
	}
	b.destroyTexture()
	return nil
}

// Release destroys the texture and its view. Release is idempotent.
//
// While a texture exists Release makes device calls, so it must run on the
// goroutine owning the texture's context. Call ReleaseTexture there first
// to release the bridge from any other goroutine.
func (b *TextureBridge) Release() {
	if b.released {
		return
	}
	b.destroyTexture()
	b.staging = nil
	b.released = true
}
