package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

// ImportStats summarizes a pcap import pass.
type ImportStats struct {
	Packets int // UDP packets on the filtered port
	Frames  int // frames decoded and delivered
	Corrupt int // payloads that failed frame decode
}

// ImportPCAP replays a pcap capture, extracting radar frames from UDP
// payloads on udpPort and handing each decoded frame to fn. Decoding
// uses the pure-Go pcap reader, so the tool builds without libpcap.
// Iteration stops early if fn returns an error.
func ImportPCAP(ctx context.Context, path string, udpPort int, fn func(*Frame) error) (ImportStats, error) {
	var stats ImportStats

	f, err := os.Open(path)
	if err != nil {
		return stats, fmt.Errorf("opening pcap file: %w", err)
	}
	defer f.Close()

	r, err := pcapgo.NewReader(f)
	if err != nil {
		return stats, fmt.Errorf("reading pcap header from %s: %w", path, err)
	}

	for {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		data, _, err := r.ReadPacketData()
		if errors.Is(err, io.EOF) {
			log.Printf("[capture] pcap import complete: %d packets, %d frames, %d corrupt", stats.Packets, stats.Frames, stats.Corrupt)
			return stats, nil
		}
		if err != nil {
			return stats, fmt.Errorf("reading pcap packet: %w", err)
		}

		packet := gopacket.NewPacket(data, r.LinkType(), gopacket.NoCopy)
		udpLayer := packet.Layer(layers.LayerTypeUDP)
		if udpLayer == nil {
			continue
		}
		udp, ok := udpLayer.(*layers.UDP)
		if !ok || int(udp.DstPort) != udpPort {
			continue
		}
		if len(udp.Payload) == 0 {
			continue
		}
		stats.Packets++

		// A payload may carry several back-to-back frames.
		rest := udp.Payload
		for len(rest) >= HeaderSize {
			frame, n, err := DecodeFrame(rest)
			if err != nil {
				stats.Corrupt++
				break
			}
			stats.Frames++
			if err := fn(frame); err != nil {
				return stats, err
			}
			rest = rest[n:]
		}
	}
}
