package utils

import (
	"bytes"
	"encoding/csv"
	"testing"
)

func TestBuildCSVStartsWithBOM(t *testing.T) {
	data, err := BuildCSV([]string{"a"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}) {
		t.Error("CSV output must start with a UTF-8 BOM")
	}
}

func TestBuildCSVRoundTrip(t *testing.T) {
	headers := []string{"Order", "Total", "Status", "Agent"}
	rows := [][]string{
		{"1", "2500", "completed", `Mbarga, Jean "JJ"`},
		{"2", "1000", "pending", "Awa"},
	}

	data, err := BuildCSV(headers, rows)
	if err != nil {
		t.Fatal(err)
	}

	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})))
	parsed, err := r.ReadAll()
	if err != nil {
		t.Fatalf("re-parsing produced CSV: %v", err)
	}

	if len(parsed) != 3 {
		t.Fatalf("parsed %d records, want 3", len(parsed))
	}
	for i, want := range headers {
		if parsed[0][i] != want {
			t.Errorf("header[%d] = %q, want %q", i, parsed[0][i], want)
		}
	}
	for i, row := range rows {
		for j, want := range row {
			if parsed[i+1][j] != want {
				t.Errorf("row %d field %d = %q, want %q", i, j, parsed[i+1][j], want)
			}
		}
	}
}
