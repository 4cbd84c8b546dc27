package window

// WindowBuilderOption is a functional option for configuring an engineWindow.
// Use the With* functions to create options.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the initial title. The viewer replaces it with its HUD line
// once the first frame runs.
//
// Parameters:
//   - title: the window title text
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		if title != "" {
			w.title = title
		}
	}
}

// WithSize sets the initial windowed size, clamped to the resize limits.
// Non-positive dimensions keep the 1280x720 default.
//
// Parameters:
//   - width, height: size in screen coordinates
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		if width > 0 {
			w.width = min(max(width, MinWidth), MaxWidth)
		}
		if height > 0 {
			w.height = min(max(height, MinHeight), MaxHeight)
		}
	}
}

// WithFullscreen opens the viewer on the primary monitor at its video mode,
// the desktop counterpart of an immersive headset view. The windowed size is
// kept as the fallback when no monitor is reported.
func WithFullscreen(fullscreen bool) WindowBuilderOption {
	return func(w *engineWindow) {
		w.fullscreen = fullscreen
	}
}
