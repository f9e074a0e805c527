// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package pixel holds decoded source images in a layout the region grower
// can address in O(1) per pixel.
package pixel

import (
	"errors"
	"fmt"
	"image"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/magicwand/similarity"
)

// Common errors for pixel buffer operations.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("pixel: invalid dimensions")

	// ErrInvalidFormat is returned when the format is not recognized.
	ErrInvalidFormat = errors.New("pixel: invalid format")

	// ErrDataSize is returned when the pixel data length does not equal
	// width*height*channels.
	ErrDataSize = errors.New("pixel: data length does not match dimensions")

	// ErrOutOfBounds is returned when pixel coordinates are outside image bounds.
	ErrOutOfBounds = errors.New("pixel: coordinates out of bounds")
)

// Buffer is an immutable width x height grid of color samples.
//
// Buffer is safe for concurrent reads. It never changes after construction.
type Buffer struct {
	data   []byte
	width  int
	height int
	stride int
	format Format
	bpp    int
}

// New creates a buffer from caller-supplied samples. The data is copied so
// the caller keeps ownership of its slice.
func New(width, height int, format Format, data []byte) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	if !format.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidFormat, format)
	}

	bpp := format.Channels()
	want, err := byteSize(width, height, bpp)
	if err != nil {
		return nil, err
	}
	if len(data) != want {
		return nil, fmt.Errorf("%w: got %d bytes, want %d (%dx%d %s)",
			ErrDataSize, len(data), want, width, height, format)
	}

	owned := make([]byte, want)
	copy(owned, data)

	return &Buffer{
		data:   owned,
		width:  width,
		height: height,
		stride: width * bpp,
		format: format,
		bpp:    bpp,
	}, nil
}

// byteSize returns width*height*bpp, or ErrInvalidDimensions when the
// product does not fit in an int.
func byteSize(width, height, bpp int) (int, error) {
	if width > math.MaxInt/height/bpp {
		return 0, fmt.Errorf("%w: %dx%d at %d bytes per pixel overflows", ErrInvalidDimensions, width, height, bpp)
	}
	return width * height * bpp, nil
}

// FromImage converts img to an RGBA8 buffer. Non-NRGBA images are converted
// through golang.org/x/image/draw, so premultiplied sources are
// un-premultiplied and paletted or YCbCr images are expanded.
func FromImage(img image.Image) (*Buffer, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, w, h)
	}
	if _, err := byteSize(w, h, 4); err != nil {
		return nil, err
	}

	if gray, ok := img.(*image.Gray); ok {
		data := make([]byte, w*h)
		for y := 0; y < h; y++ {
			off := gray.PixOffset(b.Min.X, b.Min.Y+y)
			copy(data[y*w:(y+1)*w], gray.Pix[off:off+w])
		}
		return &Buffer{data: data, width: w, height: h, stride: w, format: FormatGray8, bpp: 1}, nil
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	if src, ok := img.(*image.NRGBA); ok {
		for y := 0; y < h; y++ {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(dst.Pix[y*dst.Stride:(y+1)*dst.Stride], src.Pix[off:off+w*4])
		}
	} else {
		xdraw.Copy(dst, image.Point{}, img, b, xdraw.Src, nil)
	}

	return &Buffer{data: dst.Pix, width: w, height: h, stride: w * 4, format: FormatRGBA8, bpp: 4}, nil
}

// Width returns the image width in pixels.
func (b *Buffer) Width() int { return b.width }

// Height returns the image height in pixels.
func (b *Buffer) Height() int { return b.height }

// Size returns width and height.
func (b *Buffer) Size() (width, height int) { return b.width, b.height }

// Format returns the pixel format of the stored samples.
func (b *Buffer) Format() Format { return b.format }

// Bounds returns the image bounds, always anchored at (0, 0).
func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, b.width, b.height)
}

// InBounds reports whether (x, y) addresses a pixel of the buffer.
func (b *Buffer) InBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

// Sample returns the color at (x, y).
//
// Sample is the grower's hot path and performs no bounds check: callers
// must validate coordinates first. Out-of-range coordinates either panic
// with an index error or alias a neighboring row.
func (b *Buffer) Sample(x, y int) similarity.Sample {
	i := y*b.stride + x*b.bpp
	d := b.data
	switch b.format {
	case FormatGray8:
		v := d[i]
		return similarity.Sample{R: v, G: v, B: v, A: 255}
	case FormatRGB8:
		return similarity.Sample{R: d[i], G: d[i+1], B: d[i+2], A: 255}
	case FormatBGRA8:
		return similarity.Sample{R: d[i+2], G: d[i+1], B: d[i], A: d[i+3]}
	default:
		return similarity.Sample{R: d[i], G: d[i+1], B: d[i+2], A: d[i+3]}
	}
}

// SampleChecked is Sample with a bounds check.
func (b *Buffer) SampleChecked(x, y int) (similarity.Sample, error) {
	if !b.InBounds(x, y) {
		return similarity.Sample{}, fmt.Errorf("%w: (%d,%d) not in %dx%d", ErrOutOfBounds, x, y, b.width, b.height)
	}
	return b.Sample(x, y), nil
}

// RGBAInto writes every pixel as non-premultiplied RGBA into dst, which must
// hold at least width*height*4 bytes.
func (b *Buffer) RGBAInto(dst []byte) {
	n := b.width * b.height
	_ = dst[n*4-1]
	if b.format == FormatRGBA8 {
		copy(dst, b.data)
		return
	}
	for i := 0; i < n; i++ {
		s := b.Sample(i%b.width, i/b.width)
		o := i * 4
		dst[o+0] = s.R
		dst[o+1] = s.G
		dst[o+2] = s.B
		dst[o+3] = s.A
	}
}

// ByteSize returns the memory held by the pixel samples.
func (b *Buffer) ByteSize() int {
	return len(b.data)
}
