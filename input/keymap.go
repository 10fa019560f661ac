package input

import (
	"fmt"
	"strings"

	"github.com/go-gl/glfw/v3.3/glfw"

	"wgpu_lessons/camera"
)

// Keymap binds physical keys to camera movement keys.
type Keymap map[glfw.Key]camera.Key

func DefaultKeymap() Keymap {
	return Keymap{
		glfw.KeyW:         camera.KeyForward,
		glfw.KeyS:         camera.KeyBack,
		glfw.KeyA:         camera.KeyLeft,
		glfw.KeyD:         camera.KeyRight,
		glfw.KeySpace:     camera.KeyUp,
		glfw.KeyLeftShift: camera.KeyDown,
	}
}

// Lookup returns the movement key bound to k, or camera.KeyNone.
func (m Keymap) Lookup(k glfw.Key) camera.Key {
	if key, ok := m[k]; ok {
		return key
	}
	return camera.KeyNone
}

var namedKeys = map[string]glfw.Key{
	"space":        glfw.KeySpace,
	"leftshift":    glfw.KeyLeftShift,
	"rightshift":   glfw.KeyRightShift,
	"leftcontrol":  glfw.KeyLeftControl,
	"rightcontrol": glfw.KeyRightControl,
	"leftalt":      glfw.KeyLeftAlt,
	"up":           glfw.KeyUp,
	"down":         glfw.KeyDown,
	"left":         glfw.KeyLeft,
	"right":        glfw.KeyRight,
	"pageup":       glfw.KeyPageUp,
	"pagedown":     glfw.KeyPageDown,
}

// ParseGLFWKey resolves a key name such as "W", "Space" or "LeftShift".
func ParseGLFWKey(name string) (glfw.Key, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if len(n) == 1 {
		switch c := n[0]; {
		case c >= 'a' && c <= 'z':
			return glfw.KeyA + glfw.Key(c-'a'), nil
		case c >= '0' && c <= '9':
			return glfw.Key0 + glfw.Key(c-'0'), nil
		}
	}
	if k, ok := namedKeys[n]; ok {
		return k, nil
	}
	return glfw.KeyUnknown, fmt.Errorf("unknown key name %q", name)
}

// ParseKeymap builds a Keymap from movement names ("forward", "left", ...)
// to key names. Movements missing from bindings keep their default key.
func ParseKeymap(bindings map[string]string) (Keymap, error) {
	byMove := map[camera.Key]glfw.Key{}
	for k, move := range DefaultKeymap() {
		byMove[move] = k
	}
	for moveName, keyName := range bindings {
		move, ok := camera.ParseKey(moveName)
		if !ok {
			return nil, fmt.Errorf("unknown movement %q", moveName)
		}
		k, err := ParseGLFWKey(keyName)
		if err != nil {
			return nil, fmt.Errorf("binding %s: %w", moveName, err)
		}
		byMove[move] = k
	}

	m := Keymap{}
	for move, k := range byMove {
		if prev, dup := m[k]; dup {
			return nil, fmt.Errorf("key %d bound to both %s and %s", k, prev, move)
		}
		m[k] = move
	}
	return m, nil
}
