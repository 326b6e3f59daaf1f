package towers

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/glowgrid/common"
	"github.com/Carmen-Shannon/glowgrid/engine/renderer"
	"github.com/Carmen-Shannon/glowgrid/engine/scene"
)

// LabelRevealDelay is the one-shot delay before the label fades in,
// independent of whether its geometry has finished loading.
const LabelRevealDelay = 2 * time.Second

// labelFadeIn is how long the reveal alpha ramp takes, in seconds.
const labelFadeIn = 1.0

// Label is the floating text geometry above the grid. Its mesh arrives
// asynchronously from the GLB loader; a one-shot timer reveals it. If the
// load fails the label simply never becomes visible.
type Label struct {
	mu *sync.Mutex

	position [3]float32
	scale    float32

	mesh    atomic.Pointer[renderer.Mesh]
	binding *renderer.Binding

	revealed atomic.Bool
	timer    *time.Timer

	// revealStart is the scene time of the first staged frame after the
	// reveal flag flipped; drives the fade-in ramp. Guarded by mu.
	revealStart float32
	started     bool

	uniforms GPUCubeUniforms
}

var _ scene.Renderable = &Label{}

// NewLabel creates a Label floating at the given position.
//
// Parameters:
//   - x, y, z: the label center in world space (pre-yaw)
//   - scale: uniform scale applied to the loaded geometry
//
// Returns:
//   - *Label: the label (mesh not yet set, timer not yet scheduled)
func NewLabel(x, y, z, scale float32) *Label {
	return &Label{
		mu:       &sync.Mutex{},
		position: [3]float32{x, y, z},
		scale:    scale,
	}
}

// SetMesh installs the asynchronously loaded geometry. Safe to call from a
// loader goroutine.
//
// Parameters:
//   - m: the GPU mesh
func (l *Label) SetMesh(m *renderer.Mesh) {
	l.mesh.Store(m)
}

// ScheduleReveal starts the one-shot reveal timer. Call once on mount.
func (l *Label) ScheduleReveal() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.timer == nil {
		l.timer = time.AfterFunc(LabelRevealDelay, func() {
			l.revealed.Store(true)
		})
	}
}

// Attach creates the label's uniform binding and registers it with the
// scene. Added after the grid so alpha blending composites over the towers.
//
// Parameters:
//   - sc: the scene to add the label to
//   - r: the renderer that owns the label pipeline
//
// Returns:
//   - error: an error if the binding cannot be created
func (l *Label) Attach(sc scene.Scene, r renderer.Renderer) error {
	binding, err := r.NewBinding(l.PipelineKey(), "Label", uint64(common.SizeOf[GPUCubeUniforms]()))
	if err != nil {
		return err
	}
	l.binding = binding
	sc.Add(l)
	return nil
}

// Close cancels the reveal timer if it has not fired.
func (l *Label) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.timer != nil {
		l.timer.Stop()
	}
}

// PipelineKey returns the label pipeline key.
//
// Returns:
//   - string: the pipeline key
func (l *Label) PipelineKey() string {
	return "label"
}

// Mesh returns the loaded geometry, or nil while the load is in flight.
//
// Returns:
//   - *renderer.Mesh: the mesh or nil
func (l *Label) Mesh() *renderer.Mesh {
	return l.mesh.Load()
}

// Binding returns the label's uniform binding.
//
// Returns:
//   - *renderer.Binding: the binding
func (l *Label) Binding() *renderer.Binding {
	return l.binding
}

// Visible reports whether the label should draw: revealed by the timer and
// geometry loaded.
//
// Returns:
//   - bool: true if visible
func (l *Label) Visible() bool {
	return l.revealed.Load() && l.mesh.Load() != nil && l.binding != nil
}

// Revealed reports whether the reveal timer has fired.
//
// Returns:
//   - bool: the reveal flag
func (l *Label) Revealed() bool {
	return l.revealed.Load()
}

// StageUniforms computes the label's uniform block. The label rotates with
// the grid yaw; params.w carries the fade-in progress.
//
// Parameters:
//   - frame: the current frame values
//
// Returns:
//   - []byte: the uniform block
func (l *Label) StageUniforms(frame scene.Frame) []byte {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.started {
		l.started = true
		l.revealStart = frame.Time
	}
	progress := (frame.Time - l.revealStart) / labelFadeIn
	if progress > 1 {
		progress = 1
	}

	var local, yaw [16]float32
	common.BuildModelMatrix(local[:],
		l.position[0], l.position[1], l.position[2],
		0, 0, 0,
		l.scale, l.scale, l.scale,
	)
	common.RotationY(yaw[:], RotationSpeed*frame.Time)
	common.Mul4(l.uniforms.Model[:], yaw[:], local[:])
	common.Mul4(l.uniforms.MVP[:], frame.ViewProjection[:], l.uniforms.Model[:])

	l.uniforms.BaseColor = [4]float32{0.9, 0.9, 1.0, 1}
	l.uniforms.CameraPos = [4]float32{frame.CameraPosition[0], frame.CameraPosition[1], frame.CameraPosition[2], 1}
	l.uniforms.Params = [4]float32{frame.Time, 0, 0, progress}

	return common.StructToBytes(&l.uniforms)
}
