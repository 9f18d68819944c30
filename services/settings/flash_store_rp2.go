//go:build rp2040 || rp2350

package settings

import (
	"encoding/binary"
	"machine"
)

// FlashStore keeps a single blob at the start of the flash data region,
// behind a 4-byte header [magic u16][length u16]. The key is ignored.
type FlashStore struct {
	buf [flashBufLen]byte
}

const (
	flashMagic  = 0xC0F1
	flashBufLen = 1024 // multiple of the write block size
)

func NewFlashStore() *FlashStore { return &FlashStore{} }

func (s *FlashStore) Load(string) ([]byte, error) {
	var hdr [4]byte
	if _, err := machine.Flash.ReadAt(hdr[:], 0); err != nil {
		return nil, err
	}
	if binary.LittleEndian.Uint16(hdr[0:]) != flashMagic {
		return nil, ErrNotFound
	}
	n := int(binary.LittleEndian.Uint16(hdr[2:]))
	if n == 0 || n > MaxBlob {
		return nil, ErrNotFound
	}
	out := make([]byte, n)
	if _, err := machine.Flash.ReadAt(out, 4); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *FlashStore) Save(_ string, blob []byte) error {
	if len(blob) > MaxBlob {
		return ErrTooLarge
	}
	if err := s.eraseSector(); err != nil {
		return err
	}
	binary.LittleEndian.PutUint16(s.buf[0:], flashMagic)
	binary.LittleEndian.PutUint16(s.buf[2:], uint16(len(blob)))
	n := copy(s.buf[4:], blob) + 4

	// Writes must cover whole write blocks.
	wbs := int(machine.Flash.WriteBlockSize())
	if rem := n % wbs; rem != 0 {
		n += wbs - rem
	}
	if n > len(s.buf) {
		n = len(s.buf)
	}
	_, err := machine.Flash.WriteAt(s.buf[:n], 0)
	return err
}

func (s *FlashStore) Erase(string) error { return s.eraseSector() }

func (s *FlashStore) eraseSector() error {
	need := int64(len(s.buf))
	ebs := machine.Flash.EraseBlockSize()
	blocks := (need + ebs - 1) / ebs
	return machine.Flash.EraseBlocks(0, blocks)
}
