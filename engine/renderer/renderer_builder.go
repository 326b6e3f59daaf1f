package renderer

import "github.com/cogentcore/webgpu/wgpu"

// RendererBuilderOption configures a rendererImpl during NewRenderer.
type RendererBuilderOption func(*rendererImpl)

// WithPresentMode sets the initial surface present mode.
//
// Parameters:
//   - mode: the PresentMode to use (VSync, Uncapped, or TripleBuffered)
//
// Returns:
//   - RendererBuilderOption: the option function
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *rendererImpl) {
		switch mode {
		case PresentModeVSync:
			r.presentMode = wgpu.PresentModeFifo
		case PresentModeUncapped:
			r.presentMode = wgpu.PresentModeImmediate
		case PresentModeTripleBuffered:
			r.presentMode = wgpu.PresentModeMailbox
		}
	}
}

// WithForceFallbackAdapter forces selection of a software/fallback adapter.
// Useful for headless environments without a hardware GPU.
//
// Returns:
//   - RendererBuilderOption: the option function
func WithForceFallbackAdapter() RendererBuilderOption {
	return func(r *rendererImpl) {
		r.forceFallbackAdapter = true
	}
}

// WithClearColor sets the background color the frame is cleared to.
//
// Parameters:
//   - red, green, blue, alpha: color components in [0, 1]
//
// Returns:
//   - RendererBuilderOption: the option function
func WithClearColor(red, green, blue, alpha float64) RendererBuilderOption {
	return func(r *rendererImpl) {
		r.clearColor = wgpu.Color{R: red, G: green, B: blue, A: alpha}
	}
}

type pipelineConfig struct {
	alphaBlending bool
	depthWrite    bool
}

// PipelineOption configures a pipeline during RegisterPipeline.
type PipelineOption func(*pipelineConfig)

// WithAlphaBlending enables standard source-over alpha blending on the
// pipeline's color target.
//
// Returns:
//   - PipelineOption: the option function
func WithAlphaBlending() PipelineOption {
	return func(c *pipelineConfig) {
		c.alphaBlending = true
	}
}

// WithDepthWriteDisabled keeps depth testing but skips depth writes.
// Used for translucent geometry drawn after opaque geometry.
//
// Returns:
//   - PipelineOption: the option function
func WithDepthWriteDisabled() PipelineOption {
	return func(c *pipelineConfig) {
		c.depthWrite = false
	}
}
