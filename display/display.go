// Package display drives the 13-column scanned LED matrix.  One column is
// active at a time; the driver cycles through all 13 fast enough that the
// eye integrates them into a steady image.
package display

const (
	// Columns is the number of scanned columns: two 3-wide digits, the
	// AM/PM marker column, and two more 3-wide digits.
	Columns = 13

	// Rows is the height of the matrix.
	Rows = 5

	// RefreshRate is the target number of full-frame refreshes per
	// second.  The per-column dwell time is derived from it.
	RefreshRate = 376

	// markerRows is the single lit center row of the AM/PM column.
	markerRows = 0b00100
)

// Level is the 6-step brightness duty cycle.  Each step gates the rows on
// for a growing fraction of the column dwell: 0, 2/10, 4/10, 6/10, 8/10,
// and always-on.
type Level uint8

const (
	Dark Level = iota
	Faint
	Dim
	Medium
	Bright
	Full
)

// Next advances one brightness step, wrapping from Full back to Dark.
func (l Level) Next() Level {
	if l >= Full {
		return Dark
	}
	return l + 1
}

func (l Level) String() string {
	switch l {
	case Dark:
		return "dark"
	case Faint:
		return "faint"
	case Dim:
		return "dim"
	case Medium:
		return "medium"
	case Bright:
		return "bright"
	case Full:
		return "full"
	}
	return "unknown"
}

// Group names a blinkable digit group.  The mapping to columns is fixed:
// the hour group owns columns 0-5, minutes-tens 7-9, minutes-ones 10-12.
type Group uint8

const (
	GroupNone Group = iota
	GroupHours
	GroupMinTens
	GroupMinOnes
)

// columnGroup maps a column index to the blink group that owns it.  The
// marker column belongs to no group and never blinks.
func columnGroup(col int) Group {
	switch {
	case col < 6:
		return GroupHours
	case col >= 7 && col < 10:
		return GroupMinTens
	case col >= 10 && col < Columns:
		return GroupMinOnes
	}
	return GroupNone
}

// Frame is what the driver renders on a given tick: the four digits left
// to right, whether the leading digit is suppressed, whether the AM/PM
// marker is lit, which group (if any) blinks, and the brightness level.
// It is recomputed by the caller every tick and never stored.
type Frame struct {
	Digits       [4]uint8
	BlankLeading bool
	Marker       bool
	Blink        Group
	Brightness   Level
}

// Driver owns the scan position.  Everything else about the output is a
// pure function of the Frame.
type Driver struct {
	dwell   int
	quarter int

	col     int
	elapsed int // ticks into the current column's dwell
	blink   int // ticks into the 1-second blink window
}

// NewDriver returns a driver with the given per-column dwell and blink
// quarter period, both in ticks.
func NewDriver(dwellTicks, blinkQuarterTicks int) Driver {
	if dwellTicks < 1 {
		dwellTicks = 1
	}
	if blinkQuarterTicks < 1 {
		blinkQuarterTicks = 1
	}
	return Driver{dwell: dwellTicks, quarter: blinkQuarterTicks}
}

func (d *Driver) Reset() {
	d.col, d.elapsed, d.blink = 0, 0, 0
}

// Step renders the current column and advances the scan by one tick.
func (d *Driver) Step(f Frame) (column uint8, rows uint8) {
	column = uint8(d.col)
	rows = d.render(f)

	d.elapsed++
	if d.elapsed >= d.dwell {
		d.elapsed = 0
		d.col++
		if d.col >= Columns {
			d.col = 0
		}
	}
	d.blink++
	if d.blink >= 4*d.quarter {
		d.blink = 0
	}
	return column, rows
}

// blinkOff reports whether the blink waveform is in one of its two off
// quarters (on, off, on, off across each one-second window).
func (d *Driver) blinkOff() bool {
	return (d.blink/d.quarter)%2 == 1
}

func (d *Driver) render(f Frame) uint8 {
	// Brightness gates the rows on only for the leading fraction of the
	// dwell; Full covers the whole dwell and Dark none of it.
	if d.elapsed*10 >= int(f.Brightness)*2*d.dwell {
		return 0
	}
	if f.Blink != GroupNone && d.blinkOff() && columnGroup(d.col) == f.Blink {
		return 0
	}

	switch {
	case d.col < 3:
		if f.BlankLeading {
			return 0
		}
		return glyphColumn(f.Digits[0], d.col)
	case d.col < 6:
		return glyphColumn(f.Digits[1], d.col-3)
	case d.col == 6:
		if f.Marker {
			return markerRows
		}
		return 0
	case d.col < 10:
		return glyphColumn(f.Digits[2], d.col-7)
	case d.col < Columns:
		return glyphColumn(f.Digits[3], d.col-10)
	}
	return 0 // out-of-range column index drives nothing
}
