package dataset

import (
	"encoding/binary"
	"math"

	"github.com/banshee-data/radar.trainset/internal/mmwave"
)

// PointRecordSize is the size in bytes of one encoded point: three
// little-endian float32 coordinates. float32 keeps blobs at 12 bytes per
// point; millimeter precision at indoor mmWave ranges survives the
// narrowing comfortably.
const PointRecordSize = 12

// maxBlobPoints bounds decoding of untrusted blobs. A normalized training
// sample is a few hundred points; a raw capture is a few thousand.
const maxBlobPoints = 1 << 20

// EncodePointBlob encodes points to a compact binary blob, 12 bytes per
// point.
func EncodePointBlob(points []mmwave.Point) []byte {
	blob := make([]byte, len(points)*PointRecordSize)
	for i, p := range points {
		offset := i * PointRecordSize
		binary.LittleEndian.PutUint32(blob[offset:], math.Float32bits(float32(p.X)))
		binary.LittleEndian.PutUint32(blob[offset+4:], math.Float32bits(float32(p.Y)))
		binary.LittleEndian.PutUint32(blob[offset+8:], math.Float32bits(float32(p.Z)))
	}
	return blob
}

// DecodePointBlob decodes a blob produced by EncodePointBlob. Returns nil
// for a corrupt blob: a length that is not a whole number of records, or
// more records than maxBlobPoints.
func DecodePointBlob(blob []byte) []mmwave.Point {
	if len(blob)%PointRecordSize != 0 {
		return nil
	}
	numPoints := len(blob) / PointRecordSize
	if numPoints > maxBlobPoints {
		return nil
	}

	points := make([]mmwave.Point, numPoints)
	for i := range points {
		offset := i * PointRecordSize
		points[i] = mmwave.Point{
			X: float64(math.Float32frombits(binary.LittleEndian.Uint32(blob[offset:]))),
			Y: float64(math.Float32frombits(binary.LittleEndian.Uint32(blob[offset+4:]))),
			Z: float64(math.Float32frombits(binary.LittleEndian.Uint32(blob[offset+8:]))),
		}
	}
	return points
}
