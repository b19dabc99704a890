package common

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyW = 87 // W key (ASCII), dolly forward
	KeyA = 65 // A key (ASCII), pan left
	KeyS = 83 // S key (ASCII), dolly back
	KeyD = 68 // D key (ASCII), pan right
	KeyQ = 81 // Q key (ASCII), pan down
	KeyE = 69 // E key (ASCII), pan up
	KeyF = 70 // F key (ASCII), fly to the free view anchor
	KeyT = 84 // T key (ASCII), fly to the top view anchor

	KeySpace = 32  // Spacebar (ASCII), clear the active selection
	KeyEsc   = 256 // Escape key (GLFW), close the window
)
