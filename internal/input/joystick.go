package input

import (
	"encoding/binary"
	"log"
	"os"
	"sync"
)

// https://www.kernel.org/doc/Documentation/input/joystick-api.txt
const (
	jsEventButton = 0x01
	jsEventAxis   = 0x02
	jsEventInit   = 0x80

	axisThreshold = 16384
)

type jsEvent struct {
	Time   uint32
	Value  int16
	Type   uint8
	Number uint8
}

// JoystickSource maps controller buttons and d-pad axes onto lanes. Each
// axis covers two lanes, negative direction first.
type JoystickSource struct {
	mu   sync.Mutex
	held State

	file    *os.File
	buttons map[uint8]int
	axes    map[uint8][2]int
}

func NewJoystickSource(device string, buttons map[uint8]int, axes map[uint8][2]int) (*JoystickSource, error) {
	file, err := os.Open(device)
	if nil != err {
		return nil, err
	}
	s := &JoystickSource{file: file, buttons: buttons, axes: axes}
	go s.read()
	return s, nil
}

func (s *JoystickSource) read() {
	defer s.file.Close()
	var ev jsEvent
	for {
		if err := binary.Read(s.file, binary.LittleEndian, &ev); nil != err {
			log.Println("unable to read joystick input:", err)
			return
		}
		switch ev.Type &^ jsEventInit {
		case jsEventButton:
			lane, ok := s.buttons[ev.Number]
			if !ok || lane < 0 || lane >= len(s.held) {
				continue
			}
			s.mu.Lock()
			s.held[lane] = ev.Value != 0
			s.mu.Unlock()
		case jsEventAxis:
			lanes, ok := s.axes[ev.Number]
			if !ok {
				continue
			}
			s.mu.Lock()
			s.held[lanes[0]] = ev.Value < -axisThreshold
			s.held[lanes[1]] = ev.Value > axisThreshold
			s.mu.Unlock()
		}
	}
}

func (s *JoystickSource) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.held
}

func (s *JoystickSource) Close() error {
	return s.file.Close()
}
