// Package printer sends ESC/POS byte streams to a counter thermal printer.
package printer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"
)

// ErrNotConfigured is returned by the discard printer.
var ErrNotConfigured = errors.New("printer: not configured")

// Printer writes one job at a time. Each job opens and closes its own
// connection.
type Printer interface {
	Print(ctx context.Context, data []byte) error
	Ready(ctx context.Context) bool
}

// Config selects the transport. Kind is "network", "device" or "none".
type Config struct {
	Kind    string
	Address string // host:port, usually port 9100
	Device  string // e.g. /dev/usb/lp0
	Width   int    // characters per line
}

// Open builds the printer described by cfg.
func Open(cfg Config) (Printer, error) {
	switch cfg.Kind {
	case "network":
		if cfg.Address == "" {
			return nil, fmt.Errorf("printer: network printer needs an address")
		}
		return &tcpPrinter{address: cfg.Address, dialer: net.Dialer{Timeout: 5 * time.Second}}, nil
	case "device":
		if cfg.Device == "" {
			return nil, fmt.Errorf("printer: device printer needs a path")
		}
		return &devicePrinter{path: cfg.Device}, nil
	case "", "none":
		return Discard{}, nil
	default:
		return nil, fmt.Errorf("printer: unknown kind %q", cfg.Kind)
	}
}

type tcpPrinter struct {
	address string
	dialer  net.Dialer
}

func (p *tcpPrinter) Print(ctx context.Context, data []byte) error {
	conn, err := p.dialer.DialContext(ctx, "tcp", p.address)
	if err != nil {
		return fmt.Errorf("printer: dial %s: %w", p.address, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(10 * time.Second)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetWriteDeadline(deadline)

	if _, err := conn.Write(data); err != nil {
		return fmt.Errorf("printer: write %s: %w", p.address, err)
	}
	return nil
}

func (p *tcpPrinter) Ready(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	conn, err := p.dialer.DialContext(ctx, "tcp", p.address)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

type devicePrinter struct {
	path string
}

func (p *devicePrinter) Print(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.OpenFile(p.path, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("printer: open %s: %w", p.path, err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("printer: write %s: %w", p.path, err)
	}
	return nil
}

func (p *devicePrinter) Ready(context.Context) bool {
	_, err := os.Stat(p.path)
	return err == nil
}

// Discard is used when no printer is attached.
type Discard struct{}

func (Discard) Print(context.Context, []byte) error { return ErrNotConfigured }

func (Discard) Ready(context.Context) bool { return false }
