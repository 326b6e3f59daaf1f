package camera

import (
	"math"
	"testing"
)

func approx(a, b, eps float32) bool {
	return float32(math.Abs(float64(a-b))) <= eps
}

func TestOrbitControllerPosition(t *testing.T) {
	c := NewOrbitController(
		WithTarget(0, 0, 0),
		WithRadius(5),
		WithAngles(0, 0),
	)
	pos := c.Position()
	if !approx(pos[0], 0, 1e-5) || !approx(pos[1], 0, 1e-5) || !approx(pos[2], 5, 1e-5) {
		t.Fatalf("expected eye at (0,0,5), got %v", pos)
	}
}

func TestOrbitControllerZoomBounds(t *testing.T) {
	c := NewOrbitController(
		WithRadius(10),
		WithRadiusBounds(3, 40),
		WithZoomSensitivity(1),
	)
	c.Zoom(100)
	pos := c.Position()
	tgt := c.Target()
	dx, dy, dz := pos[0]-tgt[0], pos[1]-tgt[1], pos[2]-tgt[2]
	dist := float32(math.Sqrt(float64(dx*dx + dy*dy + dz*dz)))
	if !approx(dist, 3, 1e-4) {
		t.Fatalf("expected radius clamped to 3, got %v", dist)
	}

	c.Zoom(-500)
	pos = c.Position()
	dx, dy, dz = pos[0]-tgt[0], pos[1]-tgt[1], pos[2]-tgt[2]
	dist = float32(math.Sqrt(float64(dx*dx + dy*dy + dz*dz)))
	if !approx(dist, 40, 1e-3) {
		t.Fatalf("expected radius clamped to 40, got %v", dist)
	}
}

func TestOrbitControllerDragRequiresBegin(t *testing.T) {
	c := NewOrbitController(WithRadius(5), WithAngles(0, 0))
	before := c.Position()
	c.Drag(100, 100)
	after := c.Position()
	if before != after {
		t.Fatalf("drag without BeginDrag moved the camera: %v -> %v", before, after)
	}

	c.BeginDrag(0, 0)
	c.Drag(50, 0)
	moved := c.Position()
	if moved == before {
		t.Fatal("drag after BeginDrag did not move the camera")
	}

	c.EndDrag()
	resting := c.Position()
	c.Drag(500, 500)
	if c.Position() != resting {
		t.Fatal("drag after EndDrag moved the camera")
	}
}

func TestCameraUpdateLooksAtTarget(t *testing.T) {
	ctrl := NewOrbitController(
		WithTarget(0, 0, 0),
		WithRadius(5),
		WithAngles(0, 0),
	)
	cam := NewCamera(
		WithAspect(1),
		WithController(ctrl),
	)
	cam.Update()

	pos := cam.Position()
	if !approx(pos[2], 5, 1e-5) {
		t.Fatalf("expected camera at z=5, got %v", pos)
	}

	// A camera at +Z looking at the origin sees -Z as forward, so the view
	// matrix must map the target to a point in front of the eye.
	view := cam.ViewMatrix()
	// Target (0,0,0) in view space is (tx, ty, tz) from the translation column.
	if !approx(view[12], 0, 1e-5) || !approx(view[13], 0, 1e-5) || !approx(view[14], -5, 1e-5) {
		t.Fatalf("expected target at view-space (0,0,-5), got (%v, %v, %v)", view[12], view[13], view[14])
	}
}

func TestScreenRayCenterPointsAtTarget(t *testing.T) {
	ctrl := NewOrbitController(
		WithTarget(0, 0, 0),
		WithRadius(5),
		WithAngles(0, 0),
	)
	cam := NewCamera(
		WithAspect(float32(800)/float32(600)),
		WithController(ctrl),
	)
	cam.Update()

	origin, dir := cam.ScreenRay(400, 300, 800, 600)
	if !approx(origin[2], 5, 1e-4) {
		t.Fatalf("expected ray origin at eye (z=5), got %v", origin)
	}
	if !approx(dir[0], 0, 1e-4) || !approx(dir[1], 0, 1e-4) || !approx(dir[2], -1, 1e-4) {
		t.Fatalf("expected center ray direction (0,0,-1), got %v", dir)
	}
}

func TestScreenRayOffCenterDiverges(t *testing.T) {
	ctrl := NewOrbitController(WithTarget(0, 0, 0), WithRadius(5), WithAngles(0, 0))
	cam := NewCamera(WithAspect(1), WithController(ctrl))
	cam.Update()

	_, right := cam.ScreenRay(600, 300, 800, 600)
	if right[0] <= 0 {
		t.Fatalf("ray right of center should have positive x, got %v", right)
	}
	_, up := cam.ScreenRay(400, 100, 800, 600)
	if up[1] <= 0 {
		t.Fatalf("ray above center should have positive y, got %v", up)
	}
}
