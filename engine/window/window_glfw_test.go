package window

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
)

func TestScaleCursorOnScaledDisplay(t *testing.T) {
	// 2x content scale: window 1280x720 backed by a 2560x1440 framebuffer.
	// The window's bottom-right corner must map to the framebuffer's
	// bottom-right corner, not its center.
	x, y := scaleCursor(1280, 720, 1280, 720, 2560, 1440)
	if x != 2560 || y != 1440 {
		t.Fatalf("expected (2560, 1440), got (%d, %d)", x, y)
	}

	x, y = scaleCursor(640, 360, 1280, 720, 2560, 1440)
	if x != 1280 || y != 720 {
		t.Fatalf("expected window center to map to framebuffer center, got (%d, %d)", x, y)
	}
}

func TestScaleCursorIdentityWithoutScaling(t *testing.T) {
	x, y := scaleCursor(321, 654, 1280, 720, 1280, 720)
	if x != 321 || y != 654 {
		t.Fatalf("expected (321, 654), got (%d, %d)", x, y)
	}
}

func TestScaleCursorToleratesZeroWindowSize(t *testing.T) {
	x, y := scaleCursor(10, 10, 0, 0, 2560, 1440)
	if x != 10 || y != 10 {
		t.Fatalf("expected passthrough for zero window size, got (%d, %d)", x, y)
	}
}

func TestKeyEventIgnoresRepeats(t *testing.T) {
	tests := []struct {
		name     string
		action   glfw.Action
		down, up bool
	}{
		{"press", glfw.Press, true, false},
		{"repeat", glfw.Repeat, false, false},
		{"release", glfw.Release, false, true},
	}
	for _, tt := range tests {
		down, up := keyEvent(tt.action)
		if down != tt.down || up != tt.up {
			t.Errorf("%s: keyEvent = (%v, %v), want (%v, %v)", tt.name, down, up, tt.down, tt.up)
		}
	}
}
