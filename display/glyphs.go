package display

// Each digit occupies 3 columns by 5 rows.  A glyph is stored as one byte
// per column, bit 0 the top row and bit 4 the bottom row.
var glyphs = [10][3]uint8{
	0: {0b11111, 0b10001, 0b11111},
	1: {0b10010, 0b11111, 0b10000},
	2: {0b11101, 0b10101, 0b10111},
	3: {0b10101, 0b10101, 0b11111},
	4: {0b00111, 0b00100, 0b11111},
	5: {0b10111, 0b10101, 0b11101},
	6: {0b11111, 0b10101, 0b11101},
	7: {0b00001, 0b00001, 0b11111},
	8: {0b11111, 0b10101, 0b11111},
	9: {0b10111, 0b10101, 0b11111},
}

// glyphColumn returns the row pattern for one column of a digit glyph.
// Anything that is not a decimal digit renders blank.
func glyphColumn(digit uint8, col int) uint8 {
	if digit > 9 || col < 0 || col > 2 {
		return 0
	}
	return glyphs[digit][col]
}
