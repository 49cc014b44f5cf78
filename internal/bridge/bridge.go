package bridge

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"go.bug.st/serial"

	"github.com/verte-zerg/wordwheel/internal/model"
)

// Publisher receives every parsed tick pair. The relay hub satisfies it.
type Publisher interface {
	Publish(model.TickPair)
}

// Bridge owns one serial connection and republishes tick pairs. On failure
// it closes the stale handle first, then retries on a fixed interval.
type Bridge struct {
	cfg model.BridgeConfig
	pub Publisher

	mu        sync.Mutex
	connected bool
	portName  string
	last      model.TickPair
	dropped   int
}

// New returns a bridge that publishes to pub.
func New(cfg model.BridgeConfig, pub Publisher) *Bridge {
	if cfg.BaudRate <= 0 {
		cfg.BaudRate = 115200
	}
	if cfg.RetrySec <= 0 {
		cfg.RetrySec = 10
	}
	return &Bridge{cfg: cfg, pub: pub}
}

// Run connects and reads frames until ctx is cancelled, reconnecting on a
// fixed interval after any failure.
func (b *Bridge) Run(ctx context.Context) error {
	retry := time.Duration(b.cfg.RetrySec) * time.Second
	for {
		if err := b.connectAndRead(ctx); err != nil && ctx.Err() == nil {
			log.Printf("serial: %v (retrying in %s)", err, retry)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(retry):
		}
	}
}

func (b *Bridge) connectAndRead(ctx context.Context) error {
	name, err := b.pickPort()
	if err != nil {
		return err
	}
	port, err := serial.Open(name, &serial.Mode{BaudRate: b.cfg.BaudRate})
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", name, err)
	}
	b.setConnected(true, name)
	defer b.setConnected(false, "")
	log.Printf("serial: connected to %s", name)
	return b.readFrames(ctx, name, port)
}

// readFrames consumes frames until the reader fails or ctx is cancelled.
// The handle is released before the caller can open the next one; never
// hold two handles to the same device.
func (b *Bridge) readFrames(ctx context.Context, name string, port io.ReadCloser) error {
	// A quiet port blocks Read indefinitely; closing the handle on
	// cancellation unblocks the scanner.
	stop := context.AfterFunc(ctx, func() {
		_ = port.Close()
	})
	defer stop()
	defer func() {
		if cerr := port.Close(); cerr != nil && ctx.Err() == nil {
			log.Printf("serial: close %s: %v", name, cerr)
		}
	}()

	scanner := bufio.NewScanner(port)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		pair, err := ParseFrame(scanner.Text())
		if err != nil {
			b.noteDropped()
			continue
		}
		b.setLast(pair)
		b.pub.Publish(pair)
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read from %s: %w", name, err)
	}
	return fmt.Errorf("%s closed", name)
}

func (b *Bridge) pickPort() (string, error) {
	if b.cfg.SerialPort != "" {
		return b.cfg.SerialPort, nil
	}
	ports, err := serial.GetPortsList()
	if err != nil {
		return "", fmt.Errorf("failed to list serial ports: %w", err)
	}
	if len(ports) == 0 {
		return "", fmt.Errorf("no serial ports found")
	}
	return ports[0], nil
}

// Status reports connection state and the last parsed tick pair.
func (b *Bridge) Status() model.BridgeStatus {
	b.mu.Lock()
	defer b.mu.Unlock()
	status := model.BridgeStatus{Connected: b.connected, LastData: b.last}
	if b.connected {
		status.Port = b.portName
	}
	return status
}

func (b *Bridge) setConnected(connected bool, name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.connected = connected
	b.portName = name
}

func (b *Bridge) setLast(pair model.TickPair) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.last = pair
}

func (b *Bridge) noteDropped() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dropped++
	if b.dropped%100 == 1 {
		log.Printf("serial: dropped %d malformed frames", b.dropped)
	}
}
