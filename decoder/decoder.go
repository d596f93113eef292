// Package decoder drives the product's display decoder board: a shift
// register that latches the binary-coded column select and the five row
// lines from a two-byte SPI transfer.
package decoder

import (
	"fmt"

	"github.com/fulr/spidev"

	"github.com/clockbox/clockbox"
)

// Decoder is a runner.Sink that forwards the output lines over spidev.
// Transfers happen on change only; re-latching an identical column/row
// pair every tick would just waste bus time.
type Decoder struct {
	spi    *spidev.SPIDevice
	last   clockbox.Outputs
	primed bool
}

// Open opens the named spidev device, e.g. /dev/spidev0.0.
func Open(dev string) (*Decoder, error) {
	spi, err := spidev.NewSPIDevice(dev)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dev, err)
	}
	return &Decoder{spi: spi}, nil
}

// Drive latches one tick's output lines.
func (d *Decoder) Drive(out clockbox.Outputs) error {
	if d.primed && out == d.last {
		return nil
	}
	if _, err := d.spi.Xfer([]byte{out.Column, out.Rows}); err != nil {
		return fmt.Errorf("latch column %d: %w", out.Column, err)
	}
	d.last, d.primed = out, true
	return nil
}

// Blank drives all rows off.
func (d *Decoder) Blank() error {
	if err := d.Drive(clockbox.Outputs{}); err != nil {
		return fmt.Errorf("blank display: %w", err)
	}
	return nil
}

func (d *Decoder) Close() error {
	return d.spi.Close()
}
