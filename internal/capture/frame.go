// Package capture speaks the radar's output framing: a TLV stream of
// detected-point frames, arriving over UART or replayed from a pcap
// file. It decodes frames into point arrays for the dataset store and
// encodes them for capture files and tests.
package capture

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/banshee-data/radar.trainset/internal/mmwave"
)

// Frame layout: an 8-byte magic word, then eight little-endian uint32
// header fields (version, total packet length, platform, frame number,
// CPU cycle stamp, detected-object count, TLV count, subframe number),
// then the TLVs. Each TLV is an 8-byte type/length header followed by
// its payload; detected points are 12-byte XYZ float32 records.
const (
	HeaderSize    = 40
	tlvHeaderSize = 8

	// TLVDetectedPoints is the only TLV type consumed here. Others
	// (range profiles, side info) are skipped intact.
	TLVDetectedPoints = 1

	pointRecordSize = 12

	// Corruption guards. A frame claiming more than either bound is
	// treated as garbage rather than trusted for allocation.
	maxFrameBytes  = 1 << 20
	maxFrameTLVs   = 32
	maxFramePoints = 1 << 16
)

// magicWord is the sync pattern at the start of every frame: the
// uint16 sequence 0x0102, 0x0304, 0x0506, 0x0708, little-endian.
var magicWord = [8]byte{0x02, 0x01, 0x04, 0x03, 0x06, 0x05, 0x08, 0x07}

var (
	ErrBadMagic  = errors.New("capture: bad frame magic")
	ErrTruncated = errors.New("capture: truncated frame")
)

// Frame is one decoded radar output frame.
type Frame struct {
	Version     uint32
	Platform    uint32
	FrameNumber uint32
	CPUCycles   uint32
	SubFrame    uint32
	Points      []mmwave.Point
}

// EncodeFrame serializes a frame as one detected-points TLV. The
// inverse of DecodeFrame.
func EncodeFrame(f *Frame) []byte {
	payloadLen := len(f.Points) * pointRecordSize
	total := HeaderSize + tlvHeaderSize + payloadLen

	buf := make([]byte, 0, total)
	buf = append(buf, magicWord[:]...)
	buf = binary.LittleEndian.AppendUint32(buf, f.Version)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(total))
	buf = binary.LittleEndian.AppendUint32(buf, f.Platform)
	buf = binary.LittleEndian.AppendUint32(buf, f.FrameNumber)
	buf = binary.LittleEndian.AppendUint32(buf, f.CPUCycles)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(f.Points)))
	buf = binary.LittleEndian.AppendUint32(buf, 1) // TLV count
	buf = binary.LittleEndian.AppendUint32(buf, f.SubFrame)

	buf = binary.LittleEndian.AppendUint32(buf, TLVDetectedPoints)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(payloadLen))
	for _, p := range f.Points {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(float32(p.X)))
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(float32(p.Y)))
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(float32(p.Z)))
	}
	return buf
}

// DecodeFrame parses one frame from the start of buf. It returns the
// frame and the number of bytes consumed, so callers can walk a buffer
// holding several frames. Trailing bytes beyond the frame's declared
// length are left untouched.
func DecodeFrame(buf []byte) (*Frame, int, error) {
	if len(buf) < HeaderSize {
		return nil, 0, ErrTruncated
	}
	if !bytes.Equal(buf[:8], magicWord[:]) {
		return nil, 0, ErrBadMagic
	}

	f := &Frame{
		Version:     binary.LittleEndian.Uint32(buf[8:]),
		Platform:    binary.LittleEndian.Uint32(buf[16:]),
		FrameNumber: binary.LittleEndian.Uint32(buf[20:]),
		CPUCycles:   binary.LittleEndian.Uint32(buf[24:]),
		SubFrame:    binary.LittleEndian.Uint32(buf[36:]),
	}
	totalLen := binary.LittleEndian.Uint32(buf[12:])
	numObj := binary.LittleEndian.Uint32(buf[28:])
	numTLVs := binary.LittleEndian.Uint32(buf[32:])

	if totalLen < HeaderSize || totalLen > maxFrameBytes {
		return nil, 0, fmt.Errorf("capture: implausible frame length %d", totalLen)
	}
	if int(totalLen) > len(buf) {
		return nil, 0, ErrTruncated
	}
	if numTLVs > maxFrameTLVs {
		return nil, 0, fmt.Errorf("capture: implausible TLV count %d", numTLVs)
	}
	if numObj > maxFramePoints {
		return nil, 0, fmt.Errorf("capture: implausible point count %d", numObj)
	}

	rest := buf[HeaderSize:totalLen]
	for i := uint32(0); i < numTLVs; i++ {
		if len(rest) < tlvHeaderSize {
			return nil, 0, ErrTruncated
		}
		tlvType := binary.LittleEndian.Uint32(rest)
		tlvLen := binary.LittleEndian.Uint32(rest[4:])
		rest = rest[tlvHeaderSize:]
		if int(tlvLen) > len(rest) {
			return nil, 0, ErrTruncated
		}
		if tlvType == TLVDetectedPoints {
			if tlvLen%pointRecordSize != 0 {
				return nil, 0, fmt.Errorf("capture: detected-points TLV length %d not a record multiple", tlvLen)
			}
			f.Points = decodePointRecords(rest[:tlvLen])
		}
		rest = rest[tlvLen:]
	}

	if len(f.Points) != int(numObj) {
		return nil, 0, fmt.Errorf("capture: header claims %d points, TLVs carry %d", numObj, len(f.Points))
	}
	return f, int(totalLen), nil
}

func decodePointRecords(payload []byte) []mmwave.Point {
	points := make([]mmwave.Point, 0, len(payload)/pointRecordSize)
	for off := 0; off+pointRecordSize <= len(payload); off += pointRecordSize {
		points = append(points, mmwave.Point{
			X: float64(math.Float32frombits(binary.LittleEndian.Uint32(payload[off:]))),
			Y: float64(math.Float32frombits(binary.LittleEndian.Uint32(payload[off+4:]))),
			Z: float64(math.Float32frombits(binary.LittleEndian.Uint32(payload[off+8:]))),
		})
	}
	return points
}

// ScanFrames is a bufio.SplitFunc that tokenizes a byte stream into
// whole frames. Bytes before the next magic word (UART noise, partial
// frames after a reconnect) are discarded silently.
func ScanFrames(data []byte, atEOF bool) (advance int, token []byte, err error) {
	start := bytes.Index(data, magicWord[:])
	if start < 0 {
		if atEOF {
			return len(data), nil, nil
		}
		// Keep the tail in case the magic straddles the read boundary.
		if keep := len(magicWord) - 1; len(data) > keep {
			return len(data) - keep, nil, nil
		}
		return 0, nil, nil
	}
	if start > 0 {
		return start, nil, nil
	}

	if len(data) < HeaderSize {
		if atEOF {
			return len(data), nil, nil
		}
		return 0, nil, nil
	}
	totalLen := binary.LittleEndian.Uint32(data[12:])
	if totalLen < HeaderSize || totalLen > maxFrameBytes {
		// Corrupt header; skip past this magic and resync.
		return len(magicWord), nil, nil
	}
	if int(totalLen) > len(data) {
		if atEOF {
			return len(data), nil, nil
		}
		return 0, nil, nil
	}
	return int(totalLen), data[:totalLen], nil
}
