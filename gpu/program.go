// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	_ "embed"
	"encoding/binary"
	"fmt"
	"image/color"
	"math"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/mask_overlay.wgsl
var maskOverlayWGSL string

// MaskOverlayProgram is the cache name of the overlay program.
const MaskOverlayProgram = "mask_overlay"

// MaskOverlayShader returns the WGSL source of the selection overlay.
//
// Bindings (group 0):
//   - 0: image texture (texture_2d<f32>)
//   - 1: mask texture (texture_2d<f32>, coverage in .r)
//   - 2: sampler
//   - 3: tint uniform (vec4<f32>, see TintBytes)
//
// Entry points are vs_main, taking a clip-space vec2 position at location
// 0, and fs_main.
func MaskOverlayShader() string {
	return maskOverlayWGSL
}

// DefaultTint is the overlay color: half-transparent red.
var DefaultTint = color.NRGBA{R: 255, A: 128}

// TintBytes encodes c as the 16-byte tint uniform (four little-endian f32
// in [0, 1]).
func TintBytes(c color.NRGBA) []byte {
	buf := make([]byte, 16)
	for i, v := range [4]uint8{c.R, c.G, c.B, c.A} {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(float32(v)/255))
	}
	return buf
}

// Program returns the shader module cached under name, compiling wgsl with
// naga and creating the module on first use. Later calls with the same
// name return the cached module whatever wgsl holds.
func (c *Context) Program(name, wgsl string) (hal.ShaderModule, error) {
	if c.closed {
		return nil, ErrContextClosed
	}
	if m, ok := c.programs.Get(name); ok {
		return m, nil
	}

	code, err := compileWGSL(wgsl)
	if err != nil {
		return nil, fmt.Errorf("gpu: program %q: %w", name, err)
	}
	return c.addProgram(name, code)
}

// ProgramSPIRV is Program for precompiled SPIR-V words.
func (c *Context) ProgramSPIRV(name string, code []uint32) (hal.ShaderModule, error) {
	if c.closed {
		return nil, ErrContextClosed
	}
	if m, ok := c.programs.Get(name); ok {
		return m, nil
	}
	return c.addProgram(name, code)
}

// OverlayProgram returns the compiled selection overlay program.
func (c *Context) OverlayProgram() (hal.ShaderModule, error) {
	return c.Program(MaskOverlayProgram, maskOverlayWGSL)
}

// Programs returns the number of cached programs.
func (c *Context) Programs() int {
	return c.programs.Len()
}

func (c *Context) addProgram(name string, code []uint32) (hal.ShaderModule, error) {
	module, err := c.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label: name,
		Source: hal.ShaderSource{
			SPIRV: code,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gpu: program %q: create shader module: %w", name, err)
	}
	c.programs.Add(name, module)
	slogger().Debug("shader program created", "name", name, "words", len(code))
	return module, nil
}

// compileWGSL compiles WGSL source to little-endian SPIR-V words.
func compileWGSL(src string) ([]uint32, error) {
	spirv, err := naga.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("compile shader: %w", err)
	}
	words := make([]uint32, len(spirv)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(spirv[i*4:])
	}
	return words, nil
}
