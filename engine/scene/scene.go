package scene

import (
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/glowgrid/engine/camera"
	"github.com/Carmen-Shannon/glowgrid/engine/renderer"
)

// Frame carries the per-frame values every renderable and listener needs:
// elapsed scene time, the frame delta, and the camera state sampled once at
// the top of Prepare.
type Frame struct {
	// Time is seconds since the scene was created.
	Time float32

	// Delta is seconds since the previous Prepare.
	Delta float32

	// ViewProjection is the camera's combined view-projection matrix.
	ViewProjection [16]float32

	// CameraPosition is the camera eye position in world space.
	CameraPosition [3]float32
}

// FrameListener is called once per frame during Prepare, before renderables
// stage their uniforms. Listeners run serially in registration order.
type FrameListener func(frame Frame)

// Renderable is anything the scene can stage and draw each frame.
type Renderable interface {
	// PipelineKey returns the renderer pipeline this renderable draws with.
	//
	// Returns:
	//   - string: the pipeline key
	PipelineKey() string

	// Mesh returns the GPU mesh to draw.
	//
	// Returns:
	//   - *renderer.Mesh: the mesh
	Mesh() *renderer.Mesh

	// Binding returns the uniform binding for this renderable's draw call.
	//
	// Returns:
	//   - *renderer.Binding: the binding
	Binding() *renderer.Binding

	// Visible reports whether the renderable should be staged and drawn
	// this frame.
	//
	// Returns:
	//   - bool: true if visible
	Visible() bool

	// StageUniforms computes this frame's uniform block. Called from worker
	// goroutines, so implementations must not touch shared mutable state
	// without synchronization.
	//
	// Parameters:
	//   - frame: the current frame values
	//
	// Returns:
	//   - []byte: the uniform bytes to upload, or nil to skip the upload
	StageUniforms(frame Frame) []byte
}

type sceneImpl struct {
	mu *sync.RWMutex

	name string
	cam  camera.Camera
	r    renderer.Renderer

	renderables []Renderable
	listeners   []FrameListener

	elapsed float32

	// stagePool manages a bounded set of reusable goroutines for the parallel
	// uniform staging phase of Prepare. Workers persist across frames.
	stagePool    worker.DynamicWorkerPool
	stageWorkers int
}

// Scene owns the per-frame pipeline: advance time, update the camera, notify
// listeners, stage renderable uniforms in parallel, flush, and draw.
type Scene interface {
	// Name returns the scene's name.
	//
	// Returns:
	//   - string: the scene name
	Name() string

	// Camera returns the scene's camera.
	//
	// Returns:
	//   - camera.Camera: the attached camera
	Camera() camera.Camera

	// Add registers a renderable. Renderables are drawn in registration
	// order, so translucent objects should be added after opaque ones.
	//
	// Parameters:
	//   - obj: the renderable to add
	Add(obj Renderable)

	// AddFrameListener registers a callback invoked at the start of every
	// Prepare, before uniforms are staged.
	//
	// Parameters:
	//   - listener: the callback to add
	AddFrameListener(listener FrameListener)

	// Prepare advances scene time, updates the camera, runs frame listeners,
	// stages all visible renderables' uniforms across the worker pool, and
	// flushes the staged writes to the GPU.
	//
	// Parameters:
	//   - deltaTime: seconds since the previous Prepare
	Prepare(deltaTime float32)

	// Draw records draw calls for all visible renderables in registration
	// order. Must be called between the renderer's BeginFrame and EndFrame.
	Draw()

	// Elapsed returns seconds since the scene was created.
	//
	// Returns:
	//   - float32: elapsed scene time
	Elapsed() float32

	// Close detaches all renderables and listeners. The worker pool's idle
	// workers exit on their own.
	Close()
}

var _ Scene = &sceneImpl{}

// NewScene creates a Scene bound to a camera and renderer. Both are required
// and NewScene panics if either is nil.
//
// Parameters:
//   - name: the scene name, used in log output
//   - cam: the camera to attach (must not be nil)
//   - r: the renderer to attach (must not be nil)
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, cam camera.Camera, r renderer.Renderer, options ...SceneBuilderOption) Scene {
	if cam == nil {
		panic("scene: NewScene requires a non-nil Camera")
	}
	if r == nil {
		panic("scene: NewScene requires a non-nil Renderer")
	}

	s := &sceneImpl{
		mu:           &sync.RWMutex{},
		name:         name,
		cam:          cam,
		r:            r,
		stageWorkers: max(runtime.NumCPU()-1, 1),
	}
	for _, option := range options {
		option(s)
	}

	// Queue size of 256 covers a full grid of towers with headroom.
	s.stagePool = worker.NewDynamicWorkerPool(s.stageWorkers, 256, 1*time.Second)

	return s
}

func (s *sceneImpl) Name() string {
	return s.name
}

func (s *sceneImpl) Camera() camera.Camera {
	return s.cam
}

func (s *sceneImpl) Add(obj Renderable) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renderables = append(s.renderables, obj)
}

func (s *sceneImpl) AddFrameListener(listener FrameListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, listener)
}

func (s *sceneImpl) Prepare(deltaTime float32) {
	s.mu.Lock()
	s.elapsed += deltaTime
	frame := Frame{
		Time:  s.elapsed,
		Delta: deltaTime,
	}
	listeners := s.listeners
	renderables := s.renderables
	s.mu.Unlock()

	s.cam.Update()
	frame.ViewProjection = s.cam.ViewProjectionMatrix()
	frame.CameraPosition = s.cam.Position()

	for _, listener := range listeners {
		listener(frame)
	}

	// Parallel staging: fan each renderable's uniform computation out to the
	// pool. A WaitGroup provides the per-frame barrier since the pool's own
	// Wait blocks until workers idle-exit, which is unsuitable per frame.
	var wg sync.WaitGroup
	taskID := 0
	for _, obj := range renderables {
		if !obj.Visible() {
			continue
		}
		wg.Add(1)
		objCap := obj // capture for closure
		id := taskID
		taskID++
		s.stagePool.SubmitTask(worker.Task{
			ID: id,
			Do: func() (any, error) {
				defer wg.Done()
				if data := objCap.StageUniforms(frame); data != nil {
					s.r.StageWrite(objCap.Binding(), data)
				}
				return nil, nil
			},
		})
	}
	wg.Wait()

	// Single coalesced GPU upload for everything staged this frame.
	s.r.FlushWrites()
}

func (s *sceneImpl) Draw() {
	s.mu.RLock()
	renderables := s.renderables
	s.mu.RUnlock()

	for _, obj := range renderables {
		if !obj.Visible() {
			continue
		}
		s.r.Draw(obj.PipelineKey(), obj.Mesh(), obj.Binding())
	}
}

func (s *sceneImpl) Elapsed() float32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.elapsed
}

func (s *sceneImpl) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.renderables = nil
	s.listeners = nil
	log.Printf("[Scene] %s closed", s.name)
}
