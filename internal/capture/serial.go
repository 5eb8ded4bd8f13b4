package capture

import (
	"bufio"
	"context"
	"fmt"
	"log"

	"go.bug.st/serial"
)

// DefaultBaudRate is the radar data UART rate (the config UART runs
// slower, but only the data port is read here).
const DefaultBaudRate = 921600

// scanBufferSize bounds a single frame token; a full frame is well
// under this.
const scanBufferSize = 2 * maxFrameBytes

// Port streams decoded frames from a radar data UART.
type Port struct {
	port   serial.Port
	frames chan *Frame
}

// OpenPort opens the named serial port at the radar's data-UART
// settings (8N1).
func OpenPort(name string, baud int) (*Port, error) {
	if baud == 0 {
		baud = DefaultBaudRate
	}
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("opening serial port %s: %w", name, err)
	}
	return &Port{port: port, frames: make(chan *Frame)}, nil
}

// Frames returns the channel Monitor delivers decoded frames on.
func (p *Port) Frames() <-chan *Frame {
	return p.frames
}

// Close closes the serial port.
func (p *Port) Close() error {
	return p.port.Close()
}

// Monitor reads the port until ctx is cancelled or the stream ends,
// decoding frames and sending them on the frames channel. Corrupt
// frames are logged and skipped; the stream resyncs on the next magic
// word.
func (p *Port) Monitor(ctx context.Context) error {
	defer p.Close()

	scan := bufio.NewScanner(p.port)
	scan.Buffer(make([]byte, 64*1024), scanBufferSize)
	scan.Split(ScanFrames)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
			if !scan.Scan() {
				return scan.Err()
			}
			frame, _, err := DecodeFrame(scan.Bytes())
			if err != nil {
				log.Printf("[capture] dropping corrupt frame: %v", err)
				continue
			}

			select {
			case p.frames <- frame:
			case <-ctx.Done():
				return nil
			}
		}
	}
}
