// Package mirror streams camera poses to websocket watchers.
package mirror

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"wgpu_lessons/camera"
)

// Message is one frame of the stream.
type Message struct {
	Frame uint64
	Pose  camera.Pose
}

func Encode(m Message) ([]byte, error) {
	var b bytes.Buffer
	if err := gob.NewEncoder(&b).Encode(m); err != nil {
		return nil, fmt.Errorf("encode pose: %w", err)
	}
	return b.Bytes(), nil
}

func Decode(data []byte) (Message, error) {
	var m Message
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&m); err != nil {
		return Message{}, fmt.Errorf("decode pose: %w", err)
	}
	return m, nil
}
