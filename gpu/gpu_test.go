// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"
)

// createNoopDevice creates a noop device and queue for testing.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() {
		openDev.Device.Destroy()
		instance.Destroy()
	})
	return openDev.Device, openDev.Queue
}

func newTestContext(t *testing.T, opts ...ContextOption) *Context {
	t.Helper()
	device, queue := createNoopDevice(t)
	ctx, err := NewContext(device, queue, opts...)
	if err != nil {
		t.Fatalf("NewContext failed: %v", err)
	}
	t.Cleanup(func() { _ = ctx.Close() })
	return ctx
}

// mockDevice implements gpucontext.Device for testing.
type mockDevice struct{}

func (m *mockDevice) Poll(wait bool) {}
func (m *mockDevice) Destroy()       {}

// mockQueue implements gpucontext.Queue for testing.
type mockQueue struct{}

// mockAdapter implements gpucontext.Adapter for testing.
type mockAdapter struct{}

// mockProvider implements gpucontext.DeviceProvider without HAL access.
type mockProvider struct{}

func (m *mockProvider) Device() gpucontext.Device   { return &mockDevice{} }
func (m *mockProvider) Queue() gpucontext.Queue     { return &mockQueue{} }
func (m *mockProvider) Adapter() gpucontext.Adapter { return &mockAdapter{} }
func (m *mockProvider) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatBGRA8Unorm
}
func (m *mockProvider) AdapterInfo() gpucontext.AdapterInfo { return gpucontext.AdapterInfo{} }

// halMockProvider also exposes HAL types.
type halMockProvider struct {
	mockProvider
	device hal.Device
	queue  hal.Queue
}

func (m *halMockProvider) HalDevice() any { return m.device }
func (m *halMockProvider) HalQueue() any  { return m.queue }

func TestNewContextRejectsNil(t *testing.T) {
	device, queue := createNoopDevice(t)
	if _, err := NewContext(nil, queue); !errors.Is(err, ErrNoGraphicsContext) {
		t.Errorf("NewContext(nil, q) error = %v", err)
	}
	if _, err := NewContext(device, nil); !errors.Is(err, ErrNoGraphicsContext) {
		t.Errorf("NewContext(d, nil) error = %v", err)
	}
}

func TestNewContextFromProvider(t *testing.T) {
	t.Run("no hal access", func(t *testing.T) {
		_, err := NewContextFromProvider(&mockProvider{})
		if !errors.Is(err, ErrNoGraphicsContext) {
			t.Errorf("error = %v, want ErrNoGraphicsContext", err)
		}
	})

	t.Run("nil provider", func(t *testing.T) {
		if _, err := NewContextFromProvider(nil); !errors.Is(err, ErrNoGraphicsContext) {
			t.Errorf("error = %v", err)
		}
	})

	t.Run("hal provider", func(t *testing.T) {
		device, queue := createNoopDevice(t)
		ctx, err := NewContextFromProvider(&halMockProvider{device: device, queue: queue})
		if err != nil {
			t.Fatalf("NewContextFromProvider failed: %v", err)
		}
		defer ctx.Close()
		if ctx.Device() != device || ctx.Queue() != queue {
			t.Error("device or queue not stored")
		}
	})
}

func TestProgramCache(t *testing.T) {
	ctx := newTestContext(t, WithProgramCacheSize(2))
	code := []uint32{0x07230203, 0x00010000, 0, 1, 0}

	for i := 0; i < 2; i++ {
		if _, err := ctx.ProgramSPIRV("a", code); err != nil {
			t.Fatalf("ProgramSPIRV(a) failed: %v", err)
		}
	}
	if got := ctx.Programs(); got != 1 {
		t.Errorf("Programs() = %d after two lookups of one name, want 1", got)
	}

	for _, name := range []string{"b", "c"} {
		if _, err := ctx.ProgramSPIRV(name, code); err != nil {
			t.Fatalf("ProgramSPIRV(%s) failed: %v", name, err)
		}
	}
	if got := ctx.Programs(); got != 2 {
		t.Errorf("Programs() = %d, want 2 (capacity)", got)
	}

	if err := ctx.Close(); err != nil {
		t.Fatal(err)
	}
	if got := ctx.Programs(); got != 0 {
		t.Errorf("Programs() after Close = %d", got)
	}
	if _, err := ctx.ProgramSPIRV("a", code); !errors.Is(err, ErrContextClosed) {
		t.Errorf("ProgramSPIRV after Close error = %v", err)
	}
	if err := ctx.Close(); err != nil {
		t.Errorf("second Close() = %v", err)
	}
}

func TestOverlayProgram(t *testing.T) {
	src := MaskOverlayShader()
	for _, entry := range []string{"fn vs_main", "fn fs_main", "mask_texture"} {
		if !strings.Contains(src, entry) {
			t.Errorf("overlay shader lacks %q", entry)
		}
	}

	ctx := newTestContext(t)
	module, err := ctx.OverlayProgram()
	if err != nil {
		if strings.Contains(err.Error(), "not yet implemented") ||
			strings.Contains(err.Error(), "not supported") {
			t.Skipf("naga feature gap: %v", err)
		}
		t.Fatalf("OverlayProgram failed: %v", err)
	}
	if module == nil {
		t.Fatal("nil module")
	}
}

func TestTintBytes(t *testing.T) {
	b := TintBytes(DefaultTint)
	if len(b) != 16 {
		t.Fatalf("len = %d, want 16", len(b))
	}
	want := [4]float32{1, 0, 0, 128.0 / 255}
	for i, w := range want {
		got := math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
		if math.Abs(float64(got-w)) > 1e-6 {
			t.Errorf("component %d = %v, want %v", i, got, w)
		}
	}
}

// fakeMask is an AlphaSource and MaskedSource backed by plain slices.
type fakeMask struct {
	w, h  int
	gen   uint64
	alpha []byte
}

func newFakeMask(w, h int) *fakeMask {
	m := &fakeMask{w: w, h: h, gen: 1, alpha: make([]byte, w*h)}
	for i := range m.alpha {
		m.alpha[i] = 255
	}
	return m
}

func (m *fakeMask) Size() (int, int)   { return m.w, m.h }
func (m *fakeMask) Generation() uint64 { return m.gen }

func (m *fakeMask) ExportAlphaInto(dst []byte) int64 {
	var n int64
	for i, a := range m.alpha {
		dst[i] = a
		if a != 0 {
			n++
		}
	}
	return n
}

func (m *fakeMask) ExportMaskedRGBAInto(dst []byte) int64 {
	var n int64
	for i, a := range m.alpha {
		dst[i*4], dst[i*4+1], dst[i*4+2], dst[i*4+3] = 9, 9, 9, a
		if a != 0 {
			n++
		}
	}
	return n
}

func TestUploadRequiresContext(t *testing.T) {
	b := NewTextureBridge("")
	mask := newFakeMask(2, 2)

	if _, err := b.Upload(nil, mask); !errors.Is(err, ErrNoGraphicsContext) {
		t.Errorf("Upload(nil) error = %v, want ErrNoGraphicsContext", err)
	}

	ctx := newTestContext(t)
	_ = ctx.Close()
	_, err := b.Upload(ctx, mask)
	if !errors.Is(err, ErrNoGraphicsContext) || !errors.Is(err, ErrContextClosed) {
		t.Errorf("Upload(closed) error = %v", err)
	}
	if b.Texture() != nil {
		t.Error("texture created without a usable context")
	}
}

func TestUploadSkipsUnchangedGeneration(t *testing.T) {
	ctx := newTestContext(t)
	b := NewTextureBridge("mask")
	defer b.Release()
	mask := newFakeMask(4, 3)
	mask.alpha[5] = 0

	n, err := b.Upload(ctx, mask)
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}
	if n != 11 {
		t.Errorf("Upload = %d, want 11", n)
	}
	if b.Texture() == nil || b.View() == nil {
		t.Fatal("texture or view not created")
	}
	if b.Format() != gputypes.TextureFormatR8Unorm {
		t.Errorf("Format() = %v, want R8Unorm", b.Format())
	}
	if w, h := b.Size(); w != 4 || h != 3 {
		t.Errorf("Size() = %dx%d", w, h)
	}

	if n2, _ := b.Upload(ctx, mask); n2 != n || b.Writes() != 1 {
		t.Errorf("unchanged upload: count %d, writes %d", n2, b.Writes())
	}

	mask.alpha[0] = 0
	mask.gen++
	n3, err := b.Upload(ctx, mask)
	if err != nil {
		t.Fatal(err)
	}
	if n3 != 10 || b.Writes() != 2 {
		t.Errorf("changed upload: count %d, writes %d", n3, b.Writes())
	}
}

func TestUploadRecreatesTexture(t *testing.T) {
	ctx := newTestContext(t)
	b := NewTextureBridge("mask")
	defer b.Release()

	if _, err := b.Upload(ctx, newFakeMask(2, 2)); err != nil {
		t.Fatal(err)
	}

	t.Run("masked variant", func(t *testing.T) {
		n, err := b.UploadMasked(ctx, newFakeMask(2, 2))
		if err != nil {
			t.Fatal(err)
		}
		if n != 4 {
			t.Errorf("UploadMasked = %d, want 4", n)
		}
		if b.Format() != gputypes.TextureFormatRGBA8Unorm {
			t.Errorf("Format() = %v, want RGBA8Unorm", b.Format())
		}
	})

	t.Run("new size", func(t *testing.T) {
		if _, err := b.Upload(ctx, newFakeMask(5, 1)); err != nil {
			t.Fatal(err)
		}
		if w, h := b.Size(); w != 5 || h != 1 {
			t.Errorf("Size() = %dx%d, want 5x1", w, h)
		}
	})

	t.Run("new context", func(t *testing.T) {
		other := newTestContext(t)
		before := b.Writes()
		if _, err := b.Upload(other, newFakeMask(5, 1)); err != nil {
			t.Fatal(err)
		}
		if b.Writes() != before+1 {
			t.Error("upload to a new context did not write")
		}
	})
}

func TestReleaseIdempotent(t *testing.T) {
	ctx := newTestContext(t)
	b := NewTextureBridge("mask")
	if _, err := b.Upload(ctx, newFakeMask(2, 2)); err != nil {
		t.Fatal(err)
	}

	b.Release()
	b.Release()
	if !b.Released() || b.Texture() != nil {
		t.Error("Release did not drop the texture")
	}
	if _, err := b.Upload(ctx, newFakeMask(2, 2)); !errors.Is(err, ErrBridgeReleased) {
		t.Errorf("Upload after Release error = %v", err)
	}
}

func TestReleaseAfterContextClose(t *testing.T) {
	ctx := newTestContext(t)
	b := NewTextureBridge("mask")
	if _, err := b.Upload(ctx, newFakeMask(2, 2)); err != nil {
		t.Fatal(err)
	}
	_ = ctx.Close()
	b.Release()
	if b.Texture() != nil {
		t.Error("texture reference kept after Release")
	}
}

func TestReleaseTexture(t *testing.T) {
	ctx := newTestContext(t)
	other := newTestContext(t)
	b := NewTextureBridge("mask")
	m := newFakeMask(3, 2)

	if err := b.ReleaseTexture(ctx); err != nil {
		t.Errorf("ReleaseTexture without a texture = %v", err)
	}
	if _, err := b.Upload(ctx, m); err != nil {
		t.Fatal(err)
	}
	if err := b.ReleaseTexture(other); !errors.Is(err, ErrNoGraphicsContext) {
		t.Errorf("ReleaseTexture on another context error = %v", err)
	}
	if b.Texture() == nil {
		t.Fatal("texture dropped by a rejected ReleaseTexture")
	}
	if err := b.ReleaseTexture(nil); !errors.Is(err, ErrNoGraphicsContext) {
		t.Errorf("ReleaseTexture(nil) error = %v", err)
	}

	if err := b.ReleaseTexture(ctx); err != nil {
		t.Fatalf("ReleaseTexture = %v", err)
	}
	if b.Texture() != nil || b.View() != nil || b.Released() {
		t.Error("ReleaseTexture should drop the texture and keep the bridge")
	}
	w, h := b.Size()
	if w != 0 || h != 0 {
		t.Errorf("Size() after ReleaseTexture = %dx%d", w, h)
	}

	// Same generation: the texture comes back and is written again.
	if _, err := b.Upload(ctx, m); err != nil {
		t.Fatal(err)
	}
	if b.Texture() == nil || b.Writes() != 2 {
		t.Errorf("re-upload after ReleaseTexture: texture %v, writes %d", b.Texture() != nil, b.Writes())
	}

	b.Release()
	if err := b.ReleaseTexture(ctx); !errors.Is(err, ErrBridgeReleased) {
		t.Errorf("ReleaseTexture after Release error = %v", err)
	}
}
