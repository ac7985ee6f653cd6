package models

import (
	"testing"
)

func TestImportJobProgress(t *testing.T) {
	tests := []struct {
		total     int
		processed int
		expected  float64
	}{
		{0, 0, 0},
		{100, 0, 0},
		{100, 50, 50},
		{100, 100, 100},
		{3, 1, 100.0 / 3},
		{2500, 2000, 80},
	}

	for _, test := range tests {
		job := ImportJob{TotalRows: test.total, ProcessedRows: test.processed}
		if got := job.Progress(); got != test.expected {
			t.Errorf("Progress() with %d/%d = %v, expected %v", test.processed, test.total, got, test.expected)
		}
	}
}

func TestImportErrorListRoundTrip(t *testing.T) {
	list := ImportErrorList{
		{Kind: ImportErrorKindRow, Row: map[string]string{"sku": "A1", "price": "abc"}, Message: `invalid price "abc"`},
		{Kind: ImportErrorKindFatal, Message: "failed to open file"},
	}

	value, err := list.Value()
	if err != nil {
		t.Fatalf("Value() returned error: %v", err)
	}

	var decoded ImportErrorList
	if err := decoded.Scan(value); err != nil {
		t.Fatalf("Scan() returned error: %v", err)
	}

	if len(decoded) != 2 {
		t.Fatalf("decoded %d entries, expected 2", len(decoded))
	}
	if decoded[0].Kind != ImportErrorKindRow || decoded[0].Row["sku"] != "A1" {
		t.Errorf("row entry not preserved: %+v", decoded[0])
	}
	if decoded[1].Kind != ImportErrorKindFatal || decoded[1].Row != nil {
		t.Errorf("fatal entry not preserved: %+v", decoded[1])
	}
}

func TestImportErrorListScanNil(t *testing.T) {
	var list ImportErrorList
	if err := list.Scan(nil); err != nil {
		t.Fatalf("Scan(nil) returned error: %v", err)
	}
	if list != nil {
		t.Errorf("Scan(nil) produced %v, expected nil", list)
	}
}
