// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package bitplane

import (
	"image"
	"testing"
)

func TestNewEmpty(t *testing.T) {
	p := New(10, 7)
	if p.Len() != 70 {
		t.Errorf("Len() = %d, want 70", p.Len())
	}
	if p.Count() != 0 {
		t.Errorf("Count() = %d, want 0", p.Count())
	}
	if b := p.Bounds(); b != (image.Rectangle{}) {
		t.Errorf("Bounds() = %v, want zero rect", b)
	}
}

func TestFillMasksTail(t *testing.T) {
	// 70 pixels: second word holds only 6 valid bits.
	p := New(10, 7)
	p.Fill()
	if got := p.Count(); got != 70 {
		t.Errorf("Count() after Fill = %d, want 70", got)
	}
	if b := p.Bounds(); b != image.Rect(0, 0, 10, 7) {
		t.Errorf("Bounds() after Fill = %v, want full", b)
	}
	p.Clear()
	if p.Count() != 0 {
		t.Errorf("Count() after Clear = %d", p.Count())
	}
}

func TestSetSpanAcrossWords(t *testing.T) {
	tests := []struct {
		name       string
		width      int
		y, l, r    int
		wantCount  int64
		wantBounds image.Rectangle
	}{
		{"single pixel", 100, 0, 5, 5, 1, image.Rect(5, 0, 6, 1)},
		{"inside one word", 100, 0, 3, 40, 38, image.Rect(3, 0, 41, 1)},
		{"crosses word boundary", 100, 0, 60, 70, 11, image.Rect(60, 0, 71, 1)},
		{"full wide row", 200, 1, 0, 199, 200, image.Rect(0, 1, 200, 2)},
		{"exact word", 128, 0, 64, 127, 64, image.Rect(64, 0, 128, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.width, 3)
			p.SetSpan(tt.y, tt.l, tt.r)
			if got := p.Count(); got != tt.wantCount {
				t.Errorf("Count() = %d, want %d", got, tt.wantCount)
			}
			if got := p.Bounds(); got != tt.wantBounds {
				t.Errorf("Bounds() = %v, want %v", got, tt.wantBounds)
			}
			if !p.At(tt.l, tt.y) || !p.At(tt.r, tt.y) {
				t.Error("span ends not set")
			}
			if tt.l > 0 && p.At(tt.l-1, tt.y) {
				t.Error("pixel left of span set")
			}
			if tt.r < tt.width-1 && p.At(tt.r+1, tt.y) {
				t.Error("pixel right of span set")
			}
		})
	}
}

func TestAtOutOfBounds(t *testing.T) {
	p := New(4, 4)
	p.Fill()
	for _, pt := range []image.Point{{-1, 0}, {4, 0}, {0, -1}, {0, 4}} {
		if p.At(pt.X, pt.Y) {
			t.Errorf("At(%d,%d) = true for out-of-bounds", pt.X, pt.Y)
		}
	}
}

func TestBoundsMinimal(t *testing.T) {
	p := New(9, 9)
	p.Set(2*9 + 7) // (7,2)
	p.Set(6*9 + 1) // (1,6)
	if got, want := p.Bounds(), image.Rect(1, 2, 8, 7); got != want {
		t.Errorf("Bounds() = %v, want %v", got, want)
	}
}

func TestAlphaInto(t *testing.T) {
	p := New(13, 11) // 143 pixels, three words, partial tail
	p.SetSpan(0, 0, 12)
	p.Set(70)
	p.SetSpan(10, 3, 12)

	dst := make([]byte, p.Len())
	for i := range dst {
		dst[i] = 7 // stale data must be overwritten
	}
	n := p.AlphaInto(dst, 255)
	if n != p.Count() {
		t.Errorf("AlphaInto count = %d, Count() = %d", n, p.Count())
	}
	for i, v := range dst {
		want := byte(0)
		if p.Get(i) {
			want = 255
		}
		if v != want {
			t.Fatalf("dst[%d] = %d, want %d", i, v, want)
		}
	}
}

func TestCopyFromAndEqual(t *testing.T) {
	a := New(5, 5)
	a.SetSpan(2, 1, 3)
	b := New(5, 5)
	if a.Equal(b) {
		t.Error("different planes reported equal")
	}
	b.CopyFrom(a)
	if !a.Equal(b) {
		t.Error("planes differ after CopyFrom")
	}
	if a.Equal(New(5, 4)) {
		t.Error("planes of different size reported equal")
	}
}
