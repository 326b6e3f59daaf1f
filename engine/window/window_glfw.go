package window

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwWindow holds the GLFW-specific window state.
type glfwWindow struct {
	parent  *engineWindow
	window  *glfw.Window
	running bool

	fullscreen bool
	// windowed geometry saved before entering fullscreen, restored on exit
	windowedX, windowedY int
	windowedW, windowedH int

	// lazily created standard cursors, released with the window
	arrowCursor *glfw.Cursor
	handCursor  *glfw.Cursor
	// appliedCursor is the shape currently installed on the GLFW window.
	appliedCursor CursorShape
}

// newPlatformWindow creates the GLFW window with input callbacks and stores it as the internal window.
//
// GLFW reference: https://www.glfw.org/docs/latest/window_guide.html
// go-gl/glfw: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw
func newPlatformWindow(w *engineWindow) error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize GLFW: %v", err)
	}

	// WebGPU provides its own graphics API, so disable OpenGL context creation.
	// Reference: https://www.glfw.org/docs/latest/window_guide.html#window_hints_ctx
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)

	win, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("failed to create GLFW window: %v", err)
	}

	gw := &glfwWindow{
		parent:  w,
		window:  win,
		running: true,
	}
	w.internalWindow = gw

	// Register GLFW callbacks for input and window events.
	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetKeyCallback
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			gw.running = false
			win.SetShouldClose(true)
			return
		}
		down, up := keyEvent(action)
		if down && w.onKeyDown != nil {
			w.onKeyDown(uint32(key))
		}
		if up && w.onKeyUp != nil {
			w.onKeyUp(uint32(key))
		}
	})

	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetScrollCallback
	win.SetScrollCallback(func(_ *glfw.Window, xoff, yoff float64) {
		if w.onScroll != nil {
			w.onScroll(float32(yoff))
		}
	})

	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetMouseButtonCallback
	win.SetMouseButtonCallback(func(_ *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		if button == glfw.MouseButtonLeft {
			xpos, ypos := win.GetCursorPos()
			winW, winH := win.GetSize()
			fbW, fbH := win.GetFramebufferSize()
			x, y := scaleCursor(xpos, ypos, winW, winH, fbW, fbH)
			switch action {
			case glfw.Press:
				if w.onMouseDown != nil {
					w.onMouseDown(x, y)
				}
			case glfw.Release:
				if w.onMouseUp != nil {
					w.onMouseUp(x, y)
				}
			}
		}
	})

	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetCursorPosCallback
	win.SetCursorPosCallback(func(_ *glfw.Window, xpos, ypos float64) {
		if w.onMouseMove != nil {
			winW, winH := win.GetSize()
			fbW, fbH := win.GetFramebufferSize()
			x, y := scaleCursor(xpos, ypos, winW, winH, fbW, fbH)
			w.onMouseMove(x, y)
		}
	})

	// Use framebuffer size callback for pixel-accurate resize events.
	// On high-DPI displays (e.g., macOS Retina), framebuffer size differs from window size.
	// The renderer requires pixel dimensions for correct surface configuration.
	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetFramebufferSizeCallback
	win.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.width = width
		w.height = height
		if w.onResize != nil {
			w.onResize(width, height)
		}
	})

	// Update stored dimensions to reflect actual framebuffer size (may differ from requested on high-DPI).
	fbWidth, fbHeight := win.GetFramebufferSize()
	w.width = fbWidth
	w.height = fbHeight

	return nil
}

// platformSetFullscreen moves the window onto the primary monitor or restores
// the saved windowed geometry. Runs on the message loop thread (GLFW monitor
// calls are main-thread only).
func platformSetFullscreen(w *engineWindow, enabled bool) {
	if w.internalWindow == nil {
		return
	}
	gw := w.internalWindow.(*glfwWindow)
	if enabled == gw.fullscreen {
		return
	}

	if enabled {
		gw.windowedX, gw.windowedY = gw.window.GetPos()
		gw.windowedW, gw.windowedH = gw.window.GetSize()
		monitor := glfw.GetPrimaryMonitor()
		mode := monitor.GetVideoMode()
		gw.window.SetMonitor(monitor, 0, 0, mode.Width, mode.Height, mode.RefreshRate)
	} else {
		gw.window.SetMonitor(nil, gw.windowedX, gw.windowedY, gw.windowedW, gw.windowedH, 0)
	}
	gw.fullscreen = enabled
}

// platformIsFullscreen reports whether the GLFW window currently owns a monitor.
func platformIsFullscreen(w *engineWindow) bool {
	if w.internalWindow == nil {
		return false
	}
	gw := w.internalWindow.(*glfwWindow)
	return gw.window.GetMonitor() != nil
}

// platformApplyCursor installs the requested standard cursor if it differs
// from the one currently applied. Cursors are created lazily and cached.
func platformApplyCursor(w *engineWindow) {
	if w.internalWindow == nil {
		return
	}
	gw := w.internalWindow.(*glfwWindow)
	want := CursorShape(w.pendingCursor.Load())
	if want == gw.appliedCursor {
		return
	}

	switch want {
	case CursorHand:
		if gw.handCursor == nil {
			gw.handCursor = glfw.CreateStandardCursor(glfw.HandCursor)
		}
		gw.window.SetCursor(gw.handCursor)
	default:
		if gw.arrowCursor == nil {
			gw.arrowCursor = glfw.CreateStandardCursor(glfw.ArrowCursor)
		}
		gw.window.SetCursor(gw.arrowCursor)
	}
	gw.appliedCursor = want
}

// platformGetSurfaceDescriptor creates a platform-appropriate wgpu.SurfaceDescriptor from the GLFW window.
// Uses the wgpuglfw bridge package which has per-platform implementations (Windows, X11, Wayland, macOS).
//
// Reference: https://pkg.go.dev/github.com/cogentcore/webgpu/wgpuglfw#GetSurfaceDescriptor
func platformGetSurfaceDescriptor(w *engineWindow) *wgpu.SurfaceDescriptor {
	if w.internalWindow == nil {
		return nil
	}
	gw := w.internalWindow.(*glfwWindow)
	return wgpuglfw.GetSurfaceDescriptor(gw.window)
}

// platformIsRunningCheck returns whether the GLFW window is still active.
// Returns false if the internal window is nil, the running flag is cleared, or GLFW reports ShouldClose.
func platformIsRunningCheck(w *engineWindow) bool {
	if w.internalWindow == nil {
		return false
	}
	gw := w.internalWindow.(*glfwWindow)
	return gw.running && !gw.window.ShouldClose()
}

// platformCloseWindow destroys the GLFW window, its cursors, and terminates the GLFW library.
// Returns an error if the internal window has not been initialized.
func platformCloseWindow(w *engineWindow) error {
	if w.internalWindow == nil {
		return fmt.Errorf("window is not initialized")
	}
	gw := w.internalWindow.(*glfwWindow)
	gw.running = false
	gw.window.SetShouldClose(true)
	if gw.arrowCursor != nil {
		gw.arrowCursor.Destroy()
	}
	if gw.handCursor != nil {
		gw.handCursor.Destroy()
	}
	gw.window.Destroy()
	glfw.Terminate()
	return nil
}

// keyEvent classifies a GLFW key action into the down/up callbacks. Repeat
// events map to neither so a held key fires its binding once per press.
func keyEvent(action glfw.Action) (down, up bool) {
	switch action {
	case glfw.Press:
		return true, false
	case glfw.Release:
		return false, true
	default:
		return false, false
	}
}

// scaleCursor converts a cursor position from GLFW window coordinates into
// framebuffer pixels. The two spaces differ by the content scale on high-DPI
// displays (e.g. macOS Retina); Width/Height and the picking ray math both
// use framebuffer pixels, so cursor positions must be reported in the same
// space.
func scaleCursor(xpos, ypos float64, winW, winH, fbW, fbH int) (int32, int32) {
	if winW > 0 && winW != fbW {
		xpos *= float64(fbW) / float64(winW)
	}
	if winH > 0 && winH != fbH {
		ypos *= float64(fbH) / float64(winH)
	}
	return int32(xpos), int32(ypos)
}

// platformProcessMessages polls GLFW for pending events without blocking and
// applies any cursor shape requested since the last poll.
//
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#PollEvents
func platformProcessMessages(w *engineWindow) bool {
	glfw.PollEvents()
	platformApplyCursor(w)
	return platformIsRunningCheck(w)
}
