package commands

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/psinc/psinc-go/pkg/log"
)

func createTestLogFile(t *testing.T, events []log.Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.plog")

	logger, err := log.NewFileLogger(path)
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	for _, e := range events {
		logger.Log(e)
	}
	logger.Close()

	return path
}

func sampleEvents() []log.Event {
	ts := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	code := -4
	return []log.Event{
		{
			Timestamp:    ts,
			ConnectionID: "abc12345-0000",
			Direction:    log.DirectionOut,
			Layer:        log.LayerTransport,
			Category:     log.CategoryMessage,
			Serial:       "PSI-0001",
			Frame:        log.NewFrameEvent([]byte{0, 0, 0, 0, 0, 0x13, 0x00, 0xff}).WithOpcode(0x13),
		},
		{
			Timestamp:    ts.Add(time.Millisecond),
			ConnectionID: "abc12345-0000",
			Direction:    log.DirectionIn,
			Layer:        log.LayerTransport,
			Category:     log.CategoryMessage,
			Serial:       "PSI-0001",
			Frame:        &log.FrameEvent{Size: 512},
		},
		{
			Timestamp:    ts.Add(2 * time.Millisecond),
			ConnectionID: "abc12345-0000",
			Layer:        log.LayerCapture,
			Category:     log.CategoryMessage,
			Serial:       "PSI-0001",
			Capture:      &log.CaptureEvent{Width: 748, Height: 476, Bytes: 360960, Duration: 12 * time.Millisecond, Mode: "colour"},
		},
		{
			Timestamp:    ts.Add(3 * time.Millisecond),
			ConnectionID: "abc12345-0000",
			Layer:        log.LayerTransport,
			Category:     log.CategoryError,
			Serial:       "PSI-0001",
			Error:        &log.ErrorEventData{Layer: log.LayerTransport, Message: "NoDevice", Code: &code, Context: "bulk write"},
		},
		{
			Timestamp:    ts.Add(4 * time.Millisecond),
			ConnectionID: "def67890-0000",
			Layer:        log.LayerTransport,
			Category:     log.CategoryState,
			Serial:       "PSI-0002",
			StateChange:  &log.StateChangeEvent{Entity: log.StateEntityConnection, OldState: "disconnected", NewState: "connected", Reason: "claimed"},
		},
	}
}

func TestExportToJSONL(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())
	out := filepath.Join(t.TempDir(), "out.jsonl")

	if err := RunExport(path, "jsonl", out); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d", len(lines))
	}

	var first map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("line 0 is not JSON: %v", err)
	}
	if first["Serial"] != "PSI-0001" {
		t.Errorf("expected Serial PSI-0001, got %v", first["Serial"])
	}
	if _, ok := first["Frame"]; !ok {
		t.Error("expected Frame payload in first event")
	}
}

func TestExportToCSV(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())
	out := filepath.Join(t.TempDir(), "out.csv")

	if err := RunExport(path, "csv", out); err != nil {
		t.Fatalf("RunExport failed: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("failed to open output: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	if len(rows) != 6 {
		t.Fatalf("expected header + 5 rows, got %d", len(rows))
	}
	if strings.Join(rows[0], ",") != strings.Join(csvHeader, ",") {
		t.Errorf("unexpected header: %v", rows[0])
	}

	tests := []struct {
		row    int
		typ    string
		size   string
		detail string
	}{
		{1, "ReadRegisterPage", "8", "00000000001300ff"},
		{2, "Frame", "512", ""},
		{3, "Capture", "360960", "748x476 colour"},
		{4, "Error", "", "NoDevice"},
		{5, "State", "", "CONNECTION disconnected->connected"},
	}
	for _, tt := range tests {
		row := rows[tt.row]
		if row[6] != tt.typ || row[7] != tt.size || row[8] != tt.detail {
			t.Errorf("row %d = %v, want type %q size %q detail %q", tt.row, row, tt.typ, tt.size, tt.detail)
		}
	}
	if rows[1][5] != "PSI-0001" {
		t.Errorf("expected serial column, got %q", rows[1][5])
	}
}

func TestExportUnknownFormat(t *testing.T) {
	path := createTestLogFile(t, sampleEvents())

	err := RunExport(path, "xml", filepath.Join(t.TempDir(), "out.xml"))
	if err == nil || !strings.Contains(err.Error(), "unknown format") {
		t.Errorf("expected unknown format error, got %v", err)
	}
}

func TestExportMissingFile(t *testing.T) {
	var buf bytes.Buffer
	if err := RunView(filepath.Join(t.TempDir(), "missing.plog"), ViewFilter{}, &buf); err == nil {
		t.Error("expected error for missing file")
	}
	if err := RunExport(filepath.Join(t.TempDir(), "missing.plog"), "jsonl", ""); err == nil {
		t.Error("expected error for missing file")
	}
}
