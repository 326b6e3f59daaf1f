package renderer

import (
	"fmt"
	"log"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/glowgrid/common"
	"github.com/Carmen-Shannon/glowgrid/engine/mesh"
	"github.com/cogentcore/webgpu/wgpu"
)

// PresentMode controls how rendered frames are delivered to the display.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting,
	// capping the frame rate to the display refresh rate.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for
	// vertical blank. May cause tearing.
	PresentModeUncapped

	// PresentModeTripleBuffered queues frames in a mailbox, replacing the
	// pending frame when a newer one is ready.
	PresentModeTripleBuffered
)

// Mesh is GPU-resident geometry, created by UploadMesh and passed to Draw.
type Mesh struct {
	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
	indexCount   uint32

	// BoundingRadius is the bounding sphere radius carried over from the
	// source mesh data, used for picking.
	BoundingRadius float32
}

// Binding pairs a uniform buffer with its bind group for a single draw call.
// Writes are staged on the CPU via StageWrite and uploaded together by
// FlushWrites.
type Binding struct {
	buffer    *wgpu.Buffer
	bindGroup *wgpu.BindGroup

	staged []byte
	dirty  bool
}

type pipelineEntry struct {
	pipeline        *wgpu.RenderPipeline
	bindGroupLayout *wgpu.BindGroupLayout
}

type rendererImpl struct {
	mu *sync.Mutex

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface
	device   *wgpu.Device
	queue    *wgpu.Queue

	surfaceFormat        *wgpu.TextureFormat
	depthTextureView     *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor

	presentMode          wgpu.PresentMode
	forceFallbackAdapter bool
	clearColor           wgpu.Color

	pipelines map[string]*pipelineEntry
	bindings  []*Binding

	// Frame state for batching all draw calls into a single GPU submission.
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

// Renderer owns the WebGPU device, surface, pipelines, and per-frame command
// recording. One frame is: FlushWrites, BeginFrame, Draw calls, EndFrame,
// Present.
type Renderer interface {
	// RegisterPipeline compiles a WGSL module and creates a render pipeline
	// under the given key. The pipeline uses the shared vertex layout
	// (position + normal) and a single uniform bind group at group 0.
	//
	// Parameters:
	//   - key: the name used to reference the pipeline in Draw
	//   - source: the WGSL source with vs_main and fs_main entry points
	//   - options: functional options for blending and depth behavior
	//
	// Returns:
	//   - error: an error if shader compilation or pipeline creation fails
	RegisterPipeline(key, source string, options ...PipelineOption) error

	// UploadMesh creates GPU vertex and index buffers for the given mesh data.
	//
	// Parameters:
	//   - data: the CPU-side mesh data to upload
	//
	// Returns:
	//   - *Mesh: the GPU-resident mesh
	//   - error: an error if buffer creation fails
	UploadMesh(data mesh.Data) (*Mesh, error)

	// NewBinding creates a uniform buffer of the given size and a bind group
	// using the layout of the named pipeline.
	//
	// Parameters:
	//   - pipelineKey: the pipeline whose bind group layout to use
	//   - label: debug label for the GPU buffer
	//   - size: the uniform buffer size in bytes
	//
	// Returns:
	//   - *Binding: the buffer/bind group pair
	//   - error: an error if the pipeline is unknown or creation fails
	NewBinding(pipelineKey, label string, size uint64) (*Binding, error)

	// StageWrite records uniform data to upload on the next FlushWrites.
	// The data is copied, so the caller may reuse the slice. Safe to call
	// from multiple goroutines for distinct bindings.
	//
	// Parameters:
	//   - b: the binding to write to
	//   - data: the uniform bytes (must not exceed the binding's buffer size)
	StageWrite(b *Binding, data []byte)

	// FlushWrites uploads all staged binding writes to the GPU queue in one
	// batch. Called once per frame before BeginFrame.
	FlushWrites()

	// Resize reconfigures the surface and depth texture for new dimensions.
	//
	// Parameters:
	//   - width, height: the new surface size in pixels
	Resize(width, height int)

	// SetPresentMode sets the surface present mode. Takes effect on the next
	// Resize.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// BeginFrame acquires the next surface texture and opens the frame's
	// render pass.
	//
	// Returns:
	//   - error: an error if the surface texture could not be acquired
	BeginFrame() error

	// Draw records one indexed draw call into the current frame's pass.
	// Must be called between BeginFrame and EndFrame.
	//
	// Parameters:
	//   - pipelineKey: the pipeline to draw with
	//   - m: the mesh to draw
	//   - b: the uniform binding for this draw
	Draw(pipelineKey string, m *Mesh, b *Binding)

	// EndFrame closes the render pass and submits the frame's command buffer
	// to the GPU queue. Does not present; call Present afterwards.
	EndFrame()

	// Present displays the frame submitted by EndFrame and releases the
	// surface texture.
	Present()

	// Release frees all GPU resources owned by the renderer.
	Release()
}

var _ Renderer = &rendererImpl{}

// NewRenderer creates the WebGPU instance, surface, adapter, device, and
// queue, then configures the surface for the given size. Panics if the GPU
// stack cannot be initialized since nothing can render without it.
//
// Parameters:
//   - surfaceDescriptor: platform surface descriptor from the window
//   - width, height: initial surface size in pixels
//   - options: functional options for present mode, adapter, clear color
//
// Returns:
//   - Renderer: the initialized renderer
func NewRenderer(surfaceDescriptor *wgpu.SurfaceDescriptor, width, height int, options ...RendererBuilderOption) Renderer {
	runtime.LockOSThread()

	r := &rendererImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeFifo,
		clearColor:  wgpu.Color{R: 0.02, G: 0.02, B: 0.05, A: 1.0},
		pipelines:   make(map[string]*pipelineEntry),
	}
	for _, opt := range options {
		opt(r)
	}

	r.surface = r.instance.CreateSurface(surfaceDescriptor)

	adapter, err := r.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: r.forceFallbackAdapter,
		CompatibleSurface:    r.surface,
	})
	if err != nil {
		panic(fmt.Sprintf("failed to request GPU adapter: %v", err))
	}
	r.adapter = adapter

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
	})
	if err != nil {
		panic(fmt.Sprintf("failed to request GPU device: %v", err))
	}
	r.device = device
	r.queue = device.GetQueue()

	r.configureSurface(width, height)
	log.Printf("[Renderer] initialized (%dx%d)", width, height)

	return r
}

// configureSurface (re)configures the swapchain and rebuilds the depth
// texture and cached render pass descriptor. Caller must not hold mu.
func (r *rendererImpl) configureSurface(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	capabilities := r.surface.GetCapabilities(r.adapter)
	r.surfaceFormat = &capabilities.Formats[0]

	r.surface.Configure(r.adapter, r.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      *r.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: r.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	if r.depthTextureView != nil {
		r.depthTextureView.Release()
	}
	depthTexture, err := r.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		panic(fmt.Sprintf("failed to create depth texture: %v", err))
	}
	r.depthTextureView, err = depthTexture.CreateView(nil)
	if err != nil {
		panic(fmt.Sprintf("failed to create depth texture view: %v", err))
	}

	r.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       nil, // set per-frame to the swapchain view
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: r.clearColor,
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            r.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}
}

func (r *rendererImpl) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.configureSurface(width, height)
}

func (r *rendererImpl) SetPresentMode(mode PresentMode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch mode {
	case PresentModeVSync:
		r.presentMode = wgpu.PresentModeFifo
	case PresentModeUncapped:
		r.presentMode = wgpu.PresentModeImmediate
	case PresentModeTripleBuffered:
		r.presentMode = wgpu.PresentModeMailbox
	}
}

func (r *rendererImpl) RegisterPipeline(key, source string, options ...PipelineOption) error {
	cfg := pipelineConfig{
		depthWrite: true,
	}
	for _, opt := range options {
		opt(&cfg)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	module, err := r.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: source,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create shader module for %q: %w", key, err)
	}

	bindGroupLayout, err := r.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: key + " Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type: wgpu.BufferBindingTypeUniform,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create bind group layout for %q: %w", key, err)
	}

	pipelineLayout, err := r.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            key,
		BindGroupLayouts: []*wgpu.BindGroupLayout{bindGroupLayout},
	})
	if err != nil {
		return fmt.Errorf("failed to create pipeline layout for %q: %w", key, err)
	}

	colorTarget := wgpu.ColorTargetState{
		Format:    *r.surfaceFormat,
		WriteMask: wgpu.ColorWriteMaskAll,
	}
	if cfg.alphaBlending {
		colorTarget.Blend = &wgpu.BlendState{
			Color: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorSrcAlpha,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
			Alpha: wgpu.BlendComponent{
				SrcFactor: wgpu.BlendFactorOne,
				DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
				Operation: wgpu.BlendOperationAdd,
			},
		}
	}

	pipeline, err := r.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  key + " Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: uint64(common.SizeOf[mesh.Vertex]()),
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
						{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets:    []wgpu.ColorTargetState{colorTarget},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeBack,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: cfg.depthWrite,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create render pipeline for %q: %w", key, err)
	}

	r.pipelines[key] = &pipelineEntry{
		pipeline:        pipeline,
		bindGroupLayout: bindGroupLayout,
	}
	return nil
}

func (r *rendererImpl) UploadMesh(data mesh.Data) (*Mesh, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	vertexData := common.SliceToBytes(data.Vertices)
	indexData := common.SliceToBytes(data.Indices)

	vertexBuffer, err := r.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Vertex Buffer",
		Size:  uint64(len(vertexData)),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create vertex buffer: %w", err)
	}
	r.queue.WriteBuffer(vertexBuffer, 0, vertexData)

	indexBuffer, err := r.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Index Buffer",
		Size:  uint64(len(indexData)),
		Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		vertexBuffer.Release()
		return nil, fmt.Errorf("failed to create index buffer: %w", err)
	}
	r.queue.WriteBuffer(indexBuffer, 0, indexData)

	return &Mesh{
		vertexBuffer:   vertexBuffer,
		indexBuffer:    indexBuffer,
		indexCount:     uint32(len(data.Indices)),
		BoundingRadius: data.BoundingRadius,
	}, nil
}

func (r *rendererImpl) NewBinding(pipelineKey, label string, size uint64) (*Binding, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.pipelines[pipelineKey]
	if !ok {
		return nil, fmt.Errorf("unknown pipeline %q", pipelineKey)
	}

	buffer, err := r.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label + " Uniform Buffer",
		Size:  size,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create uniform buffer %q: %w", label, err)
	}

	bindGroup, err := r.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  label + " Bind Group",
		Layout: entry.bindGroupLayout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  buffer,
				Size:    size,
			},
		},
	})
	if err != nil {
		buffer.Release()
		return nil, fmt.Errorf("failed to create bind group %q: %w", label, err)
	}

	b := &Binding{
		buffer:    buffer,
		bindGroup: bindGroup,
		staged:    make([]byte, size),
	}
	r.bindings = append(r.bindings, b)
	return b, nil
}

func (r *rendererImpl) StageWrite(b *Binding, data []byte) {
	copy(b.staged, data)
	b.dirty = true
}

func (r *rendererImpl) FlushWrites() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range r.bindings {
		if !b.dirty {
			continue
		}
		r.queue.WriteBuffer(b.buffer, 0, b.staged)
		b.dirty = false
	}
}

func (r *rendererImpl) BeginFrame() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	// If a previous frame's surface texture is still held, acquiring another
	// would trip wgpu-native validation ("Surface image is already acquired").
	if r.frameSurface != nil {
		return fmt.Errorf("previous frame surface not yet presented")
	}

	surfaceTexture, err := r.surface.GetCurrentTexture()
	if err != nil {
		return err
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}

	encoder, err := r.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	r.renderPassDescriptor.ColorAttachments[0].View = view
	pass := encoder.BeginRenderPass(r.renderPassDescriptor)

	r.frameEncoder = encoder
	r.framePass = pass
	r.frameSurface = surfaceTexture
	r.frameView = view

	return nil
}

func (r *rendererImpl) Draw(pipelineKey string, m *Mesh, b *Binding) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.pipelines[pipelineKey]
	if !ok || r.framePass == nil {
		return
	}

	r.framePass.SetPipeline(entry.pipeline)
	r.framePass.SetBindGroup(0, b.bindGroup, nil)
	r.framePass.SetVertexBuffer(0, m.vertexBuffer, 0, wgpu.WholeSize)
	r.framePass.SetIndexBuffer(m.indexBuffer, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	r.framePass.DrawIndexed(m.indexCount, 1, 0, 0, 0)
}

func (r *rendererImpl) EndFrame() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.framePass == nil {
		return
	}

	r.framePass.End()

	commandBuffer, err := r.frameEncoder.Finish(nil)
	if err != nil {
		r.frameEncoder.Release()
		r.frameView.Release()
		r.frameSurface.Release()
		r.frameEncoder = nil
		r.framePass = nil
		r.frameSurface = nil
		r.frameView = nil
		return
	}

	r.queue.Submit(commandBuffer)

	commandBuffer.Release()
	r.frameEncoder.Release()
	r.frameEncoder = nil
	r.framePass = nil
}

func (r *rendererImpl) Present() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frameSurface == nil {
		return
	}

	r.surface.Present()

	r.frameView.Release()
	r.frameView = nil
	r.frameSurface.Release()
	r.frameSurface = nil
}

func (r *rendererImpl) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range r.bindings {
		b.bindGroup.Release()
		b.buffer.Release()
	}
	r.bindings = nil
	for _, entry := range r.pipelines {
		entry.pipeline.Release()
		entry.bindGroupLayout.Release()
	}
	r.pipelines = map[string]*pipelineEntry{}
	if r.depthTextureView != nil {
		r.depthTextureView.Release()
		r.depthTextureView = nil
	}
	if r.device != nil {
		r.device.Release()
		r.device = nil
	}
	if r.surface != nil {
		r.surface.Release()
		r.surface = nil
	}
	if r.adapter != nil {
		r.adapter.Release()
		r.adapter = nil
	}
	if r.instance != nil {
		r.instance.Release()
		r.instance = nil
	}
	log.Println("[Renderer] released")
}
