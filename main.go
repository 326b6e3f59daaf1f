package main

import (
	"log"
	"math"
	"sync"
	"time"

	"github.com/Carmen-Shannon/glowgrid/common"
	"github.com/Carmen-Shannon/glowgrid/engine"
	"github.com/Carmen-Shannon/glowgrid/engine/camera"
	"github.com/Carmen-Shannon/glowgrid/engine/loader"
	"github.com/Carmen-Shannon/glowgrid/engine/mesh"
	"github.com/Carmen-Shannon/glowgrid/engine/renderer"
	"github.com/Carmen-Shannon/glowgrid/engine/scene"
	"github.com/Carmen-Shannon/glowgrid/engine/window"
	"github.com/Carmen-Shannon/glowgrid/shaders"
	"github.com/Carmen-Shannon/glowgrid/towers"
)

const labelAssetPath = "assets/label.glb"

// cursorAdapter bridges the towers package's Cursor interface onto the
// window's cursor shape API.
type cursorAdapter struct {
	w window.Window
}

func (c cursorAdapter) SetHand() {
	c.w.SetCursorShape(window.CursorHand)
}

func (c cursorAdapter) SetArrow() {
	c.w.SetCursorShape(window.CursorArrow)
}

// pointerState tracks the latest cursor position reported by the window
// thread for consumption by the render thread's picking pass.
type pointerState struct {
	mu   sync.Mutex
	x, y float32
}

func (p *pointerState) set(x, y int32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.x, p.y = float32(x), float32(y)
}

func (p *pointerState) get() (float32, float32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.x, p.y
}

func main() {
	win := window.NewWindow(
		window.WithTitle("Glow Grid"),
		window.WithWidth(1280),
		window.WithHeight(720),
	)

	r := renderer.NewRenderer(
		win.SurfaceDescriptor(),
		win.Width(), win.Height(),
		renderer.WithPresentMode(renderer.PresentModeVSync),
		renderer.WithClearColor(0.02, 0.02, 0.05, 1.0),
	)

	if err := r.RegisterPipeline("tower", shaders.Tower); err != nil {
		log.Fatalf("[Main] failed to register tower pipeline: %v", err)
	}
	if err := r.RegisterPipeline("label", shaders.Label,
		renderer.WithAlphaBlending(),
		renderer.WithDepthWriteDisabled(),
	); err != nil {
		log.Fatalf("[Main] failed to register label pipeline: %v", err)
	}

	controller := camera.NewOrbitController(
		camera.WithTarget(0, 1.5, 0),
		camera.WithRadius(11),
		camera.WithRadiusBounds(4, 30),
		camera.WithAngles(0.5, 0.45),
	)
	cam := camera.NewCamera(
		camera.WithFov(float32(50.0*math.Pi/180.0)),
		camera.WithAspect(float32(win.Width())/float32(win.Height())),
		camera.WithNear(0.1),
		camera.WithFar(1000),
		camera.WithController(controller),
	)

	sc := scene.NewScene("Glow Grid", cam, r)

	cubeMesh, err := r.UploadMesh(mesh.Cube(towers.CubeSize))
	if err != nil {
		log.Fatalf("[Main] failed to upload cube mesh: %v", err)
	}

	grid := towers.NewGrid(
		towers.WithSeed(time.Now().UnixNano()),
		towers.WithCursor(cursorAdapter{w: win}),
	)
	if err := grid.Attach(sc, r, cubeMesh); err != nil {
		log.Fatalf("[Main] failed to attach grid: %v", err)
	}

	label := towers.NewLabel(0, 4.2, 0, 1)
	if err := label.Attach(sc, r); err != nil {
		log.Fatalf("[Main] failed to attach label: %v", err)
	}
	label.ScheduleReveal()
	go loadLabelMesh(r, label)

	// Input wiring. Callbacks fire on the message loop thread.
	pointer := &pointerState{}
	win.SetMouseDownCallback(func(x, y int32) {
		controller.BeginDrag(x, y)
	})
	win.SetMouseUpCallback(func(x, y int32) {
		controller.EndDrag()
	})
	win.SetMouseMoveCallback(func(x, y int32) {
		pointer.set(x, y)
		controller.Drag(x, y)
	})
	win.SetScrollCallback(func(delta float32) {
		controller.Zoom(delta)
	})
	win.SetKeyDownCallback(func(keyCode uint32) {
		if keyCode == common.KeyF {
			win.SetFullscreen(!win.Fullscreen())
		}
	})

	// Hover picking runs once per frame against the current cursor ray.
	picker := towers.NewPicker(grid)
	sc.AddFrameListener(func(frame scene.Frame) {
		px, py := pointer.get()
		origin, dir := cam.ScreenRay(px, py, win.Width(), win.Height())
		picker.Update(towers.Ray{Origin: origin, Direction: dir}, frame.Time)
	})

	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithRenderer(r),
		engine.WithScene(sc),
		engine.WithTickRate(60),
	)

	log.Println("[Main] running: drag to orbit, scroll to zoom, F for fullscreen, Esc to quit")
	eng.Run()

	picker.Clear()
	label.Close()
	grid.Close()
	sc.Close()
	r.Release()
	if err := win.Close(); err != nil {
		log.Printf("[Main] window close: %v", err)
	}
}

// loadLabelMesh loads the label geometry off the main thread. The reveal
// timer runs regardless; if the load fails the label just never shows.
func loadLabelMesh(r renderer.Renderer, label *towers.Label) {
	data, err := loader.LoadGLB(labelAssetPath)
	if err != nil {
		log.Printf("[Main] label asset unavailable: %v", err)
		return
	}
	m, err := r.UploadMesh(data)
	if err != nil {
		log.Printf("[Main] failed to upload label mesh: %v", err)
		return
	}
	label.SetMesh(m)
	log.Printf("[Main] label geometry loaded (%v verts)", len(data.Vertices))
}
