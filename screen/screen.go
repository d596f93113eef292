// Package screen turns the per-tick column/row samples into something a
// person can look at: an apa102 LED matrix when one is attached, and a PNG
// preview served over HTTP for debugging the rest of the program without
// the display wired up.
package screen

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log"
	"net/http"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/periph/conn/spi"
	"periph.io/x/periph/devices/apa102"

	"github.com/clockbox/clockbox"
	"github.com/clockbox/clockbox/display"
)

const (
	previewScale       = 20 // size of one LED in the rendered image
	previewPixelBorder = 4  // gap simulating the LED spacing
	captionHeight      = 16
)

// Screen integrates the scanned output the way an eye would: every tick's
// active column is accumulated over a refresh window, and the lit fraction
// of each LED over that window becomes its brightness.
type Screen struct {
	leds   *apa102.Dev
	window int // ticks per refresh window

	mu      sync.Mutex
	on      [display.Columns][display.Rows]int
	active  [display.Columns]int
	ticks   int
	caption string
	image   *image.NRGBA64 // must hold mu to read or write
}

// New returns an initialized Screen.  A nil SPI port gives the
// preview-only screen, which is how the tests and the terminal simulator
// use it.
func New(p spi.Port, windowTicks int) (*Screen, error) {
	if windowTicks < 1 {
		windowTicks = 1
	}
	s := &Screen{
		window: windowTicks,
		image: image.NewNRGBA64(image.Rect(0, 0,
			display.Columns*(previewScale+previewPixelBorder),
			display.Rows*(previewScale+previewPixelBorder)+captionHeight)),
	}
	if p == nil {
		return s, nil
	}
	opts := &apa102.Opts{
		NumPixels:        display.Columns * display.Rows,
		Intensity:        255,
		Temperature:      apa102.NeutralTemp,
		DisableGlobalPWM: true,
	}
	leds, err := apa102.New(p, opts)
	if err != nil {
		return nil, fmt.Errorf("init apa102: %w", err)
	}
	s.leds = leds
	return s, nil
}

// SetCaption sets the text drawn under the preview grid.  It shows up on
// the next refresh.
func (s *Screen) SetCaption(caption string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.caption = caption
}

// Drive accumulates one tick of display output.  It implements
// runner.Sink.
func (s *Screen) Drive(out clockbox.Outputs) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if int(out.Column) < display.Columns {
		s.active[out.Column]++
		for r := 0; r < display.Rows; r++ {
			if out.Rows&(1<<r) != 0 {
				s.on[out.Column][r]++
			}
		}
	}

	s.ticks++
	if s.ticks < s.window {
		return nil
	}
	err := s.flush()
	s.on = [display.Columns][display.Rows]int{}
	s.active = [display.Columns]int{}
	s.ticks = 0
	return err
}

// flush renders the accumulated window to the preview image and, if
// attached, the LED matrix.  Caller holds mu.
func (s *Screen) flush() error {
	var pixels [display.Columns][display.Rows]uint16
	for c := 0; c < display.Columns; c++ {
		if s.active[c] == 0 {
			continue
		}
		for r := 0; r < display.Rows; r++ {
			pixels[c][r] = uint16(0xffff * s.on[c][r] / s.active[c])
		}
	}

	s.renderPreview(pixels)

	if s.leds == nil {
		return nil
	}
	strand := make([]color.NRGBA, display.Columns*display.Rows)
	for c := 0; c < display.Columns; c++ {
		for r := 0; r < display.Rows; r++ {
			v := uint8(pixels[c][r] >> 8)
			strand[indexOf(c, r)] = color.NRGBA{R: v, G: v, B: v, A: 0xff}
		}
	}
	if _, err := s.leds.Write(apa102.ToRGB(strand)); err != nil {
		return fmt.Errorf("write to apa102 strand: %w", err)
	}
	return nil
}

func (s *Screen) renderPreview(pixels [display.Columns][display.Rows]uint16) {
	bounds := s.image.Bounds()
	for x := bounds.Min.X; x < bounds.Max.X; x++ {
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			s.image.SetNRGBA64(x, y, color.NRGBA64{A: 0xffff})
		}
	}

	cell := previewScale + previewPixelBorder
	for c := 0; c < display.Columns; c++ {
		for r := 0; r < display.Rows; r++ {
			v := pixels[c][r]
			for x := c * cell; x < c*cell+previewScale; x++ {
				for y := r * cell; y < r*cell+previewScale; y++ {
					s.image.SetNRGBA64(x, y, color.NRGBA64{R: v, G: v, B: v, A: 0xffff})
				}
			}
		}
	}

	drawer := &font.Drawer{
		Dst:  s.image,
		Src:  image.NewUniform(color.NRGBA64{R: 0xffff, G: 0xffff, B: 0xffff, A: 0xffff}),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(2, display.Rows*cell+captionHeight-4),
	}
	drawer.DrawString(s.caption)
}

// indexOf maps a (column, row) coordinate to the strand index of the
// matrix I built: column-major, odd columns upside down.
func indexOf(c, r int) int {
	if c%2 == 0 {
		return c*display.Rows + r
	}
	return (c+1)*display.Rows - 1 - r
}

// ServeHTTP serves the current preview as a PNG.
func (s *Screen) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	w.Header().Add("content-type", "image/png")
	w.WriteHeader(http.StatusOK)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := png.Encode(w, s.image); err != nil {
		log.Printf("encoding image: %v", err)
	}
}
