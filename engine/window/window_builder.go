package window

// WindowBuilderOption configures an engineWindow during NewWindow.
type WindowBuilderOption func(*engineWindow)

// WithTitle sets the window title.
//
// Parameters:
//   - title: the title to display in the title bar
//
// Returns:
//   - WindowBuilderOption: the option function
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithWidth sets the initial window client area width in pixels.
//
// Parameters:
//   - width: the width in pixels
//
// Returns:
//   - WindowBuilderOption: the option function
func WithWidth(width int) WindowBuilderOption {
	return func(w *engineWindow) {
		if width > 0 {
			w.width = width
		}
	}
}

// WithHeight sets the initial window client area height in pixels.
//
// Parameters:
//   - height: the height in pixels
//
// Returns:
//   - WindowBuilderOption: the option function
func WithHeight(height int) WindowBuilderOption {
	return func(w *engineWindow) {
		if height > 0 {
			w.height = height
		}
	}
}
