// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpu moves selection masks into GPU textures.
//
// A Context wraps the HAL device and queue of the render loop together
// with a name-keyed cache of compiled shader programs. A TextureBridge
// lazily creates a texture on a Context and re-uploads the mask only when
// it changed since the last upload.
//
// Nothing in this package is safe for concurrent use. All calls for one
// Context, and for every bridge uploading through it, must come from the
// goroutine that owns the graphics context.
package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/wgpu/hal"
	lru "github.com/hashicorp/golang-lru/v2"
)

var (
	// ErrNoGraphicsContext is returned when an upload is attempted without
	// a usable graphics context.
	ErrNoGraphicsContext = errors.New("gpu: no graphics context")

	// ErrContextClosed is returned when a closed Context is used.
	ErrContextClosed = errors.New("gpu: graphics context closed")

	// ErrBridgeReleased is returned when a released TextureBridge is used.
	ErrBridgeReleased = errors.New("gpu: texture bridge released")
)

// DefaultProgramCacheSize is the number of shader programs a Context keeps
// before evicting the least recently used one.
const DefaultProgramCacheSize = 16

// ContextOption configures a Context.
type ContextOption func(*contextOptions)

type contextOptions struct {
	programCacheSize int
}

// WithProgramCacheSize sets the shader program cache capacity.
// Values below 1 keep the default.
func WithProgramCacheSize(n int) ContextOption {
	return func(o *contextOptions) {
		if n > 0 {
			o.programCacheSize = n
		}
	}
}

// Context is the long-lived graphics context of a render loop.
//
// The Context does not own the device: Close releases cached programs but
// leaves device and queue to whoever created them.
type Context struct {
	device   hal.Device
	queue    hal.Queue
	programs *lru.Cache[string, hal.ShaderModule]
	closed   bool
}

// NewContext wraps an open device and queue.
func NewContext(device hal.Device, queue hal.Queue, opts ...ContextOption) (*Context, error) {
	if device == nil || queue == nil {
		return nil, fmt.Errorf("%w: nil device or queue", ErrNoGraphicsContext)
	}

	o := contextOptions{programCacheSize: DefaultProgramCacheSize}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Context{device: device, queue: queue}
	cache, err := lru.NewWithEvict[string, hal.ShaderModule](o.programCacheSize, c.evictProgram)
	if err != nil {
		return nil, fmt.Errorf("gpu: program cache: %w", err)
	}
	c.programs = cache

	slogger().Info("graphics context ready", "program_cache", o.programCacheSize)
	return c, nil
}

// NewContextFromProvider builds a Context on the device shared by a host
// application. The provider must expose HAL types through
// HalDevice() any and HalQueue() any.
func NewContextFromProvider(provider gpucontext.DeviceProvider, opts ...ContextOption) (*Context, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	if provider == nil {
		return nil, fmt.Errorf("%w: nil provider", ErrNoGraphicsContext)
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, fmt.Errorf("%w: provider does not expose HAL types", ErrNoGraphicsContext)
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: provider HalDevice is not hal.Device", ErrNoGraphicsContext)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: provider HalQueue is not hal.Queue", ErrNoGraphicsContext)
	}
	return NewContext(device, queue, opts...)
}

// Device returns the HAL device.
func (c *Context) Device() hal.Device { return c.device }

// Queue returns the HAL queue.
func (c *Context) Queue() hal.Queue { return c.queue }

// Closed reports whether Close has been called.
func (c *Context) Closed() bool { return c.closed }

// Close destroys every cached program. The device and queue stay open.
// Close is idempotent.
func (c *Context) Close() error {
	if c.closed {
		return nil
	}
	c.programs.Purge()
	c.closed = true
	slogger().Debug("graphics context closed")
	return nil
}

// usable returns nil when uploads may go through c.
func (c *Context) usable() error {
	if c == nil {
		return ErrNoGraphicsContext
	}
	if c.closed {
		return fmt.Errorf("%w: %w", ErrNoGraphicsContext, ErrContextClosed)
	}
	return nil
}

func (c *Context) evictProgram(name string, module hal.ShaderModule) {
	if module != nil {
		c.device.DestroyShaderModule(module)
	}
	slogger().Debug("shader program released", "name", name)
}
