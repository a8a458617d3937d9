//go:build linux

package pool

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// SysV is Memory backed by a System V shared memory segment, the kind the
// X server's MIT-SHM extension can map. Growing creates a new segment, so
// users that registered the segment elsewhere must watch Serial.
type SysV struct {
	id     int
	data   []byte
	serial int
}

func NewSysV(size int) (*SysV, error) {
	id, data, err := createSegment(size)
	if err != nil {
		return nil, err
	}
	return &SysV{
		id:   id,
		data: data,
	}, nil
}

func createSegment(size int) (int, []byte, error) {
	id, err := unix.SysvShmGet(unix.IPC_PRIVATE, max(size, 1), unix.IPC_CREAT|0o600)
	if err != nil {
		return 0, nil, fmt.Errorf("shmget %d bytes: %w", size, err)
	}

	data, err := unix.SysvShmAttach(id, 0, 0)
	if err != nil {
		_, _ = unix.SysvShmCtl(id, unix.IPC_RMID, nil)
		return 0, nil, fmt.Errorf("shmat %d: %w", id, err)
	}

	return id, data, nil
}

func destroySegment(id int, data []byte) error {
	err := unix.SysvShmDetach(data)
	if _, rmErr := unix.SysvShmCtl(id, unix.IPC_RMID, nil); err == nil {
		err = rmErr
	}
	return err
}

// ID is the segment id to hand to the display server.
func (s *SysV) ID() int {
	return s.id
}

// Serial changes every time the segment is replaced.
func (s *SysV) Serial() int {
	return s.serial
}

func (s *SysV) Bytes() []byte {
	return s.data
}

func (s *SysV) Grow(size int) error {
	if size <= len(s.data) {
		return nil
	}

	id, data, err := createSegment(size)
	if err != nil {
		return err
	}
	copy(data, s.data)

	// The old segment is already orphaned once the new one holds the pixels.
	_ = destroySegment(s.id, s.data)

	s.id, s.data = id, data
	s.serial++
	return nil
}

func (s *SysV) Close() error {
	if s.data == nil {
		return nil
	}
	err := destroySegment(s.id, s.data)
	s.data = nil
	return err
}
