package scene

import (
	"sync"
	"testing"

	"github.com/Carmen-Shannon/glowgrid/engine/camera"
	"github.com/Carmen-Shannon/glowgrid/engine/mesh"
	"github.com/Carmen-Shannon/glowgrid/engine/renderer"
)

type fakeRenderer struct {
	mu sync.Mutex

	stageWrites int
	flushes     int
	drawKeys    []string
}

var _ renderer.Renderer = &fakeRenderer{}

func (f *fakeRenderer) RegisterPipeline(key, source string, options ...renderer.PipelineOption) error {
	return nil
}

func (f *fakeRenderer) UploadMesh(data mesh.Data) (*renderer.Mesh, error) {
	return &renderer.Mesh{}, nil
}

func (f *fakeRenderer) NewBinding(pipelineKey, label string, size uint64) (*renderer.Binding, error) {
	return &renderer.Binding{}, nil
}

func (f *fakeRenderer) StageWrite(b *renderer.Binding, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stageWrites++
}

func (f *fakeRenderer) FlushWrites() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushes++
}

func (f *fakeRenderer) Resize(width, height int)                 {}
func (f *fakeRenderer) SetPresentMode(mode renderer.PresentMode) {}
func (f *fakeRenderer) BeginFrame() error                        { return nil }

func (f *fakeRenderer) Draw(pipelineKey string, m *renderer.Mesh, b *renderer.Binding) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.drawKeys = append(f.drawKeys, pipelineKey)
}

func (f *fakeRenderer) EndFrame() {}
func (f *fakeRenderer) Present()  {}
func (f *fakeRenderer) Release()  {}

type fakeRenderable struct {
	key     string
	visible bool
	binding *renderer.Binding
	mesh    *renderer.Mesh
	uniform []byte
}

func (f *fakeRenderable) PipelineKey() string              { return f.key }
func (f *fakeRenderable) Mesh() *renderer.Mesh             { return f.mesh }
func (f *fakeRenderable) Binding() *renderer.Binding       { return f.binding }
func (f *fakeRenderable) Visible() bool                    { return f.visible }
func (f *fakeRenderable) StageUniforms(frame Frame) []byte { return f.uniform }

func newTestScene(r renderer.Renderer) Scene {
	cam := camera.NewCamera(
		camera.WithController(camera.NewOrbitController()),
	)
	return NewScene("test", cam, r, WithStageWorkers(2))
}

func TestPrepareNotifiesListenersInOrder(t *testing.T) {
	r := &fakeRenderer{}
	s := newTestScene(r)

	var order []int
	for i := 0; i < 4; i++ {
		idx := i
		s.AddFrameListener(func(frame Frame) {
			order = append(order, idx)
		})
	}

	s.Prepare(0.016)

	if len(order) != 4 {
		t.Fatalf("expected 4 listener calls, got %d", len(order))
	}
	for i, got := range order {
		if got != i {
			t.Fatalf("listener order broken: expected %d at position %d, got %d", i, i, got)
		}
	}
}

func TestPrepareStagesVisibleRenderablesOnly(t *testing.T) {
	r := &fakeRenderer{}
	s := newTestScene(r)

	for i := 0; i < 5; i++ {
		s.Add(&fakeRenderable{
			key:     "tower",
			visible: i%2 == 0,
			binding: &renderer.Binding{},
			mesh:    &renderer.Mesh{},
			uniform: []byte{1, 2, 3},
		})
	}

	s.Prepare(0.016)

	if r.stageWrites != 3 {
		t.Fatalf("expected 3 staged writes for visible renderables, got %d", r.stageWrites)
	}
	if r.flushes != 1 {
		t.Fatalf("expected exactly 1 flush per Prepare, got %d", r.flushes)
	}
}

func TestPrepareSkipsNilUniforms(t *testing.T) {
	r := &fakeRenderer{}
	s := newTestScene(r)

	s.Add(&fakeRenderable{
		key:     "tower",
		visible: true,
		binding: &renderer.Binding{},
		mesh:    &renderer.Mesh{},
		uniform: nil,
	})

	s.Prepare(0.016)

	if r.stageWrites != 0 {
		t.Fatalf("expected no staged writes for nil uniforms, got %d", r.stageWrites)
	}
}

func TestDrawRespectsRegistrationOrderAndVisibility(t *testing.T) {
	r := &fakeRenderer{}
	s := newTestScene(r)

	s.Add(&fakeRenderable{key: "tower", visible: true, binding: &renderer.Binding{}, mesh: &renderer.Mesh{}})
	s.Add(&fakeRenderable{key: "hidden", visible: false, binding: &renderer.Binding{}, mesh: &renderer.Mesh{}})
	s.Add(&fakeRenderable{key: "label", visible: true, binding: &renderer.Binding{}, mesh: &renderer.Mesh{}})

	s.Draw()

	if len(r.drawKeys) != 2 {
		t.Fatalf("expected 2 draw calls, got %d", len(r.drawKeys))
	}
	if r.drawKeys[0] != "tower" || r.drawKeys[1] != "label" {
		t.Fatalf("expected draw order [tower label], got %v", r.drawKeys)
	}
}

func TestElapsedAccumulates(t *testing.T) {
	t.Parallel()
	r := &fakeRenderer{}
	s := newTestScene(r)

	s.Prepare(0.5)
	s.Prepare(0.25)

	if got := s.Elapsed(); got != 0.75 {
		t.Fatalf("expected elapsed 0.75, got %v", got)
	}
}

func TestCloseDetachesRenderables(t *testing.T) {
	r := &fakeRenderer{}
	s := newTestScene(r)

	s.Add(&fakeRenderable{key: "tower", visible: true, binding: &renderer.Binding{}, mesh: &renderer.Mesh{}})
	s.Close()
	s.Draw()

	if len(r.drawKeys) != 0 {
		t.Fatalf("expected no draw calls after Close, got %d", len(r.drawKeys))
	}
}
