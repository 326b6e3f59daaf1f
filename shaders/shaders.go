// Package shaders embeds the WGSL sources for the glow grid pipelines.
// The tower fragment shader mirrors the palette package expression for
// expression, so keep the two in sync when changing either.
package shaders

import _ "embed"

// Tower is the vertex + fragment source for the cube tower pipeline.
//
//go:embed tower.wgsl
var Tower string

// Label is the vertex + fragment source for the floating label pipeline.
//
//go:embed label.wgsl
var Label string
