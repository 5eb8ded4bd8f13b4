// Command serial-capture records radar output frames from the data UART
// into a capture file for later import. Frames are stored back-to-back
// in their wire encoding, so the file replays through the same decoder.
package main

import (
	"bufio"
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/banshee-data/radar.trainset/internal/capture"
)

var (
	portName = flag.String("port", "/dev/ttyUSB1", "Radar data UART")
	baud     = flag.Int("baud", capture.DefaultBaudRate, "UART baud rate")
	output   = flag.String("o", "capture.bin", "Output capture file (appended)")
)

func main() {
	flag.Parse()

	f, err := os.OpenFile(*output, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		log.Fatalf("failed to open capture file: %v", err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	defer w.Flush()

	port, err := capture.OpenPort(*portName, *baud)
	if err != nil {
		log.Fatalf("failed to open serial port: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := port.Monitor(ctx); err != nil {
			log.Printf("serial monitor ended: %v", err)
		}
	}()

	frameCount := 0
	pointCount := 0
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case frame, ok := <-port.Frames():
			if !ok {
				break loop
			}
			if _, err := w.Write(capture.EncodeFrame(frame)); err != nil {
				log.Fatalf("failed to write frame: %v", err)
			}
			frameCount++
			pointCount += len(frame.Points)
			if frameCount%100 == 0 {
				log.Printf("captured %d frames, %d points", frameCount, pointCount)
			}
		}
	}

	stop()
	wg.Wait()
	log.Printf("capture complete: %d frames, %d points appended to %s", frameCount, pointCount, *output)
}
