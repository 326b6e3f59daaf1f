package towers

import (
	"sync"
	"sync/atomic"
	"time"
)

// Tower animation and stacking constants.
const (
	// GrowthDuration is how long the grow animation runs, in seconds.
	GrowthDuration = 1.5

	// CubesPerUnit converts a tower height to a cube count (floor).
	CubesPerUnit = 8

	// CubeStep is the vertical distance between stacked cube centers.
	CubeStep = 0.5

	// VisibilityFlipChance is the per-second probability that a tower
	// toggles its visibility.
	VisibilityFlipChance = 0.1

	// RotationSpeed is the whole assembly's yaw rate in radians per second.
	RotationSpeed = 0.2
)

// State describes where a tower is in its lifecycle at a given instant.
type State int

const (
	// StateWaiting means the tower's growth delay has not elapsed yet.
	StateWaiting State = iota

	// StateGrowing means the grow animation is in progress.
	StateGrowing

	// StateGrown means the tower is at full scale.
	StateGrown

	// StateHidden means the visibility ticker has toggled the tower off.
	StateHidden
)

// Tower is a vertical stack of cubes. It plays a one-shot ease-out growth
// animation after its delay and periodically flips visibility on a 1-second
// ticker. Growth is a pure function of elapsed time, never integrated.
type Tower struct {
	x, baseY, z float32
	height      float32
	delay       float32

	cubes   []*Cube
	visible atomic.Bool

	flipSource Source

	done      chan struct{}
	closeOnce sync.Once
	startOnce sync.Once
}

// NewTower creates a tower at the given base position. Cube phases are
// sampled from a Gaussian (mean 0.5, stddev 0.2) using layoutSource;
// flipSource drives the visibility ticker.
//
// Parameters:
//   - x, baseY, z: the tower base position in world space (pre-yaw)
//   - height: the tower height; cube count is floor(height * 8)
//   - delay: seconds before the growth animation starts
//   - firstCubeIndex: global index of the tower's first cube, used to
//     desynchronize the shader flicker
//   - layoutSource: random source for cube phases
//   - flipSource: random source for visibility flips
//   - cursor: cursor target shared by the tower's cubes
//
// Returns:
//   - *Tower: the assembled tower (ticker not yet started; see Start)
func NewTower(x, baseY, z, height, delay float32, firstCubeIndex int, layoutSource, flipSource Source, cursor Cursor) *Tower {
	t := &Tower{
		x:          x,
		baseY:      baseY,
		z:          z,
		height:     height,
		delay:      delay,
		flipSource: flipSource,
		done:       make(chan struct{}),
	}
	t.visible.Store(true)

	count := CubeCount(height)
	t.cubes = make([]*Cube, 0, count)
	for i := 0; i < count; i++ {
		phase := float32(Gaussian(layoutSource, 0.5, 0.2))
		t.cubes = append(t.cubes, newCube(t, i, firstCubeIndex+i, phase, cursor))
	}

	return t
}

// CubeCount converts a tower height to its cube count.
//
// Parameters:
//   - height: the tower height
//
// Returns:
//   - int: floor(height * 8)
func CubeCount(height float32) int {
	return int(height * CubesPerUnit)
}

// Cubes returns the tower's cubes, bottom to top.
//
// Returns:
//   - []*Cube: the cube stack
func (t *Tower) Cubes() []*Cube {
	return t.cubes
}

// Height returns the tower's height value.
//
// Returns:
//   - float32: the height
func (t *Tower) Height() float32 {
	return t.height
}

// Delay returns the tower's growth delay in seconds.
//
// Returns:
//   - float32: the delay
func (t *Tower) Delay() float32 {
	return t.delay
}

// Visible reports the visibility flag toggled by the 1-second ticker.
//
// Returns:
//   - bool: true if the tower is visible
func (t *Tower) Visible() bool {
	return t.visible.Load()
}

// SetVisible overrides the visibility flag.
//
// Parameters:
//   - visible: the new visibility
func (t *Tower) SetVisible(visible bool) {
	t.visible.Store(visible)
}

// State returns the tower's lifecycle state at the given elapsed time.
//
// Parameters:
//   - elapsed: scene time in seconds
//
// Returns:
//   - State: the current state
func (t *Tower) State(elapsed float32) State {
	switch {
	case !t.visible.Load():
		return StateHidden
	case elapsed < t.delay:
		return StateWaiting
	case elapsed < t.delay+GrowthDuration:
		return StateGrowing
	default:
		return StateGrown
	}
}

// ScaleY returns the tower's vertical growth scale at the given elapsed
// time. Pure: waiting is 0, growing eases out from 0 to 1 over the growth
// duration, grown is exactly 1, and hidden forces 0 regardless of growth.
//
// Parameters:
//   - elapsed: scene time in seconds
//
// Returns:
//   - float32: the growth scale in [0, 1]
func (t *Tower) ScaleY(elapsed float32) float32 {
	if !t.visible.Load() {
		return 0
	}
	if elapsed < t.delay {
		return 0
	}
	p := (elapsed - t.delay) / GrowthDuration
	if p >= 1 {
		return 1
	}
	return easeOutQuart(p)
}

// easeOutQuart is the growth curve: fast start, gentle settle.
func easeOutQuart(p float32) float32 {
	q := 1 - p
	return 1 - q*q*q*q
}

// Start launches the visibility ticker goroutine. Once per second the tower
// flips its visibility with probability VisibilityFlipChance. Safe to call
// more than once; only the first call starts the ticker.
func (t *Tower) Start() {
	t.startOnce.Do(func() {
		go func() {
			ticker := time.NewTicker(1 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-t.done:
					return
				case <-ticker.C:
					if t.flipSource.Float64() < VisibilityFlipChance {
						t.visible.Store(!t.visible.Load())
					}
				}
			}
		}()
	})
}

// Close stops the visibility ticker. Safe to call multiple times.
func (t *Tower) Close() {
	t.closeOnce.Do(func() {
		close(t.done)
	})
}
