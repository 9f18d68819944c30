package settings

import "encoding/binary"

// Blob layout: [version, VersionLen bytes zero padded][payload][u16 LE checksum]
const (
	VersionLen  = 16
	checksumLen = 2
	MaxBlob     = 512
)

// Checksum is the additive byte sum truncated to 16 bits.
func Checksum(b []byte) uint16 {
	var s uint32
	for _, c := range b {
		s += uint32(c)
	}
	return uint16(s)
}

// Encode appends a blob for payload to dst.
func Encode(dst []byte, version string, payload []byte) ([]byte, error) {
	if VersionLen+len(payload)+checksumLen > MaxBlob {
		return dst, ErrTooLarge
	}
	var v [VersionLen]byte
	copy(v[:], version)
	dst = append(dst, v[:]...)
	dst = append(dst, payload...)
	return binary.LittleEndian.AppendUint16(dst, Checksum(payload)), nil
}

// Decode validates blob against version and the expected payload length
// and returns the payload, aliasing blob.
func Decode(blob []byte, version string, payloadLen int) ([]byte, error) {
	if len(blob) == 0 {
		return nil, ErrNotFound
	}
	if len(blob) < VersionLen+checksumLen || len(blob) > MaxBlob {
		return nil, ErrSize
	}
	var v [VersionLen]byte
	copy(v[:], version)
	if string(blob[:VersionLen]) != string(v[:]) {
		return nil, ErrVersion
	}
	payload := blob[VersionLen : len(blob)-checksumLen]
	if len(payload) != payloadLen {
		return nil, ErrSize
	}
	if binary.LittleEndian.Uint16(blob[len(blob)-checksumLen:]) != Checksum(payload) {
		return nil, ErrChecksum
	}
	return payload, nil
}
