package input

import "github.com/go-gl/glfw/v3.3/glfw"

// Bind installs window callbacks that push into q. Escape and closing the
// window both produce Quit.
func Bind(window *glfw.Window, q *Queue, keys Keymap) {
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			q.Push(Quit{})
			return
		}
		k := keys.Lookup(key)
		switch action {
		case glfw.Press:
			q.Push(KeyDown{Key: k})
		case glfw.Repeat:
			q.Push(KeyDown{Key: k, Repeat: true})
		case glfw.Release:
			q.Push(KeyUp{Key: k})
		}
	})
	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		q.Push(MouseMotion{X: xpos, Y: ypos})
	})
	window.SetSizeCallback(func(w *glfw.Window, width, height int) {
		q.Push(Resize{Width: width, Height: height})
	})
	window.SetCloseCallback(func(w *glfw.Window) {
		q.Push(Quit{})
	})
}

// Recenter warps the cursor back to the middle of the viewport.
func Recenter(window *glfw.Window, d *Dispatcher) {
	window.SetCursorPos(d.Center())
}
