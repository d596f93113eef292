package screen

import (
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/clockbox/clockbox"
	"github.com/clockbox/clockbox/display"
)

func TestPreview(t *testing.T) {
	s, err := New(nil, display.Columns)
	if err != nil {
		t.Fatalf("init screen: %v", err)
	}
	s.SetCaption("clock 01:34")

	// One full scan: column 0 fully lit, everything else dark.
	for c := 0; c < display.Columns; c++ {
		var rows uint8
		if c == 0 {
			rows = 0b11111
		}
		if err := s.Drive(clockbox.Outputs{Column: uint8(c), Rows: rows}); err != nil {
			t.Fatalf("drive column %d: %v", c, err)
		}
	}

	req := httptest.NewRequest("GET", "/display.png", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if got, want := rec.Code, http.StatusOK; got != want {
		t.Fatalf("response code:\n  got: %v\n want: %v", got, want)
	}

	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("decode preview: %v", err)
	}

	litR, _, _, _ := img.At(previewScale/2, previewScale/2).RGBA()
	if litR == 0 {
		t.Error("lit LED rendered dark in preview")
	}
	cell := previewScale + previewPixelBorder
	darkR, _, _, _ := img.At(cell+previewScale/2, previewScale/2).RGBA()
	if darkR != 0 {
		t.Errorf("dark LED rendered lit in preview: %v", darkR)
	}
}

func TestPartialDutyRendersGray(t *testing.T) {
	s, err := New(nil, 10)
	if err != nil {
		t.Fatalf("init screen: %v", err)
	}

	// Column 0 active for the whole window, lit for 4 ticks of 10.
	for i := 0; i < 10; i++ {
		var rows uint8
		if i < 4 {
			rows = 0b00001
		}
		if err := s.Drive(clockbox.Outputs{Column: 0, Rows: rows}); err != nil {
			t.Fatalf("drive tick %d: %v", i, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	r, _, _, _ := s.image.At(previewScale/2, previewScale/2).RGBA()
	if r == 0 || r >= 0xffff {
		t.Errorf("40%% duty pixel:\n  got: %v\n want: between 0 and 0xffff exclusive", r)
	}
}

func TestStrandIndex(t *testing.T) {
	testData := []struct {
		c, r int
		want int
	}{
		{c: 0, r: 0, want: 0},
		{c: 0, r: 4, want: 4},
		{c: 1, r: 0, want: 9}, // odd columns are upside down
		{c: 1, r: 4, want: 5},
		{c: 2, r: 0, want: 10},
		{c: 12, r: 4, want: 64},
	}
	for _, test := range testData {
		if got := indexOf(test.c, test.r); got != test.want {
			t.Errorf("indexOf(%d, %d):\n  got: %v\n want: %v", test.c, test.r, got, test.want)
		}
	}
}
