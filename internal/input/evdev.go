package input

import (
	"encoding/binary"
	"log"
	"os"
	"sync"
	"syscall"
)

// https://github.com/torvalds/linux/blob/master/include/uapi/linux/input-event-codes.h
const evKey = 0x01

type keyEvent struct {
	Time  syscall.Timeval
	Type  uint16
	Code  uint16
	Value int32 // 0 release, 1 press, 2 autorepeat
}

// EvdevSource reads raw press/release events from a linux input device.
// Terminal reads cannot see key releases, so holds need this.
type EvdevSource struct {
	mu   sync.Mutex
	held State

	file  *os.File
	lanes map[uint16]int // key code to lane
}

func NewEvdevSource(device string, lanes map[uint16]int) (*EvdevSource, error) {
	file, err := os.Open(device)
	if nil != err {
		return nil, err
	}
	s := &EvdevSource{file: file, lanes: lanes}
	go s.read()
	return s, nil
}

func (s *EvdevSource) read() {
	defer s.file.Close()
	var ev keyEvent
	for {
		if err := binary.Read(s.file, binary.LittleEndian, &ev); nil != err {
			log.Println("unable to read keyboard input:", err)
			return
		}
		if ev.Type != evKey || ev.Value == 2 {
			continue
		}
		lane, ok := s.lanes[ev.Code]
		if !ok || lane < 0 || lane >= len(s.held) {
			continue
		}
		s.mu.Lock()
		s.held[lane] = ev.Value == 1
		s.mu.Unlock()
	}
}

func (s *EvdevSource) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.held
}

func (s *EvdevSource) Close() error {
	return s.file.Close()
}
