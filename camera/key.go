package camera

// Key is a logical movement key, independent of the physical binding.
type Key int

const (
	KeyNone Key = iota
	KeyForward
	KeyBack
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
)

var keyNames = map[Key]string{
	KeyNone:    "none",
	KeyForward: "forward",
	KeyBack:    "back",
	KeyLeft:    "left",
	KeyRight:   "right",
	KeyUp:      "up",
	KeyDown:    "down",
}

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether k moves the camera.
func (k Key) Valid() bool {
	return k >= KeyForward && k <= KeyDown
}

// ParseKey looks a key up by its String name.
func ParseKey(name string) (Key, bool) {
	for k, n := range keyNames {
		if n == name && k.Valid() {
			return k, true
		}
	}
	return KeyNone, false
}
