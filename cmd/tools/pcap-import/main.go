// Command pcap-import extracts radar frames from a pcap UDP capture and
// writes them into the dataset database as capture samples, grouping
// consecutive frames so each sample carries one subject pass. Keypoint
// annotations are added separately before a build.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/banshee-data/radar.trainset/internal/capture"
	"github.com/banshee-data/radar.trainset/internal/dataset"
	"github.com/banshee-data/radar.trainset/internal/mmwave"
)

var (
	pcapFile  = flag.String("pcap", "", "Input pcap file (required)")
	udpPort   = flag.Int("port", 4098, "UDP port carrying radar frames")
	dbPath    = flag.String("db", "trainset.db", "Dataset SQLite database")
	perSample = flag.Int("frames", mmwave.DefaultFrameCount, "Radar frames per stored sample")
	label     = flag.String("label", "", "Label applied to every imported sample")
)

func main() {
	flag.Parse()

	if *pcapFile == "" {
		log.Fatal("-pcap is required")
	}
	if *perSample < 1 {
		log.Fatal("-frames must be at least 1")
	}

	store, err := dataset.Open(*dbPath)
	if err != nil {
		log.Fatalf("failed to open dataset db: %v", err)
	}
	defer store.Close()

	if err := store.Migrate(); err != nil {
		log.Fatalf("failed to migrate dataset db: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		pending   []mmwave.Point
		inSample  int
		samples   int
		batchUUID = uuid.NewString()
	)
	flush := func() error {
		if inSample == 0 {
			return nil
		}
		rec := dataset.SampleRecord{
			ID:     fmt.Sprintf("%s-%04d", batchUUID, samples),
			Label:  *label,
			Points: pending,
		}
		if err := store.InsertSample(rec); err != nil {
			return err
		}
		samples++
		pending = nil
		inSample = 0
		return nil
	}

	stats, err := capture.ImportPCAP(ctx, *pcapFile, *udpPort, func(frame *capture.Frame) error {
		pending = append(pending, frame.Points...)
		inSample++
		if inSample == *perSample {
			return flush()
		}
		return nil
	})
	if err != nil {
		log.Fatalf("pcap import failed: %v", err)
	}
	// A trailing short group still matters for short captures.
	if err := flush(); err != nil {
		log.Fatalf("failed to store final sample: %v", err)
	}

	log.Printf("imported %d samples (%d frames, %d corrupt payloads) from %s",
		samples, stats.Frames, stats.Corrupt, *pcapFile)
}
