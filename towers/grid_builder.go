package towers

// GridBuilderOption configures a Grid during NewGrid.
type GridBuilderOption func(*Grid)

// WithGridSize sets the number of towers along each axis.
//
// Parameters:
//   - size: towers per axis (ignored if < 1)
//
// Returns:
//   - GridBuilderOption: the option function
func WithGridSize(size int) GridBuilderOption {
	return func(g *Grid) {
		if size >= 1 {
			g.size = size
		}
	}
}

// WithSpacing sets the distance between adjacent tower centers.
//
// Parameters:
//   - spacing: the spacing in world units
//
// Returns:
//   - GridBuilderOption: the option function
func WithSpacing(spacing float32) GridBuilderOption {
	return func(g *Grid) {
		if spacing > 0 {
			g.spacing = spacing
		}
	}
}

// WithBaseY sets the shared base height of all towers.
//
// Parameters:
//   - baseY: the base height in world units
//
// Returns:
//   - GridBuilderOption: the option function
func WithBaseY(baseY float32) GridBuilderOption {
	return func(g *Grid) {
		g.baseY = baseY
	}
}

// WithSeed sets the random seed for layout noise, cube phases, and
// visibility flips. Grids built with the same seed are identical.
//
// Parameters:
//   - seed: the random seed
//
// Returns:
//   - GridBuilderOption: the option function
func WithSeed(seed int64) GridBuilderOption {
	return func(g *Grid) {
		g.seed = seed
	}
}

// WithCursor sets the cursor target shared by every cube's hover behavior.
//
// Parameters:
//   - cursor: the cursor target
//
// Returns:
//   - GridBuilderOption: the option function
func WithCursor(cursor Cursor) GridBuilderOption {
	return func(g *Grid) {
		g.cursor = cursor
	}
}
