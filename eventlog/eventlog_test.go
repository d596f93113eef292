package eventlog

import "testing"

func TestDatabase(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}

	if err := db.RecordButton("stop", true); err != nil {
		t.Errorf("record button event: %v", err)
	}

	if err := db.RecordMode("chrono"); err != nil {
		t.Errorf("record mode change: %v", err)
	}

	var n int
	if err := db.QueryRow("select count(*) from button_event").Scan(&n); err != nil {
		t.Fatalf("count button events: %v", err)
	}
	if got, want := n, 1; got != want {
		t.Errorf("button events recorded:\n  got: %v\n want: %v", got, want)
	}
}
